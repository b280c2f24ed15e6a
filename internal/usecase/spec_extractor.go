package usecase

import (
	"regexp"
	"strings"
)

// Package-level compiled regex patterns for performance.
//
// Construction line items carry three kinds of technical specs:
// computed-area expressions like "(2x3)=6", bare dimension pairs like
// "2x3" or "12,5 x 30", and unit-tagged quantities like "12mm" or "3 kg".
// A dimension pair inside a computed-area expression is collected by both
// patterns; comparison downstream is whitespace-insensitive, so no
// deduplication happens here.
var (
	// Matches computed-area expressions: "( 2 x 3 ) = 6", "(12,5*30)=375"
	calcExprPattern = regexp.MustCompile(`\(\s*\d+(?:[.,]\d+)?\s*[x*]\s*\d+(?:[.,]\d+)?\s*\)\s*=\s*\d+(?:[.,]\d+)?`)

	// Matches bare dimension pairs: "2x3", "12,5 x 30", "40*40"
	dimensionPattern = regexp.MustCompile(`\b\d+(?:[.,]\d+)?\s*[x*]\s*\d+(?:[.,]\d+)?\b`)

	// Matches quantities tagged with a recognized construction unit.
	// Alternation order matters: longer units first so "mm2" is not cut to "mm".
	// The diameter sign ø is deliberately absent: rebar diameters arrive as
	// "12mm" or as bare dimension pairs, and a non-ASCII unit before \b would
	// only match when glued to a following ASCII letter.
	unitQuantityPattern = regexp.MustCompile(`\b\d+(?:[.,]\d+)?\s*(?:mm2|mm|cm|m|kg|ton|kw|kva|a|v)\b`)
)

// ExtractTechnicalSpecs pulls normalized technical tokens out of a line item.
// The scan is case-insensitive and purely lexical: order follows scan order,
// duplicates are kept, malformed text simply yields nothing. Never errors.
func ExtractTechnicalSpecs(text string) []string {
	var specs []string
	t := strings.ToLower(text)

	specs = append(specs, calcExprPattern.FindAllString(t, -1)...)
	specs = append(specs, dimensionPattern.FindAllString(t, -1)...)
	specs = append(specs, unitQuantityPattern.FindAllString(t, -1)...)

	return specs
}

// normalizeSpec strips all whitespace so "2 x 3" and "2x3" compare equal.
func normalizeSpec(spec string) string {
	return strings.Join(strings.Fields(spec), "")
}

// specSetContains reports whether any spec in the list equals the target
// after whitespace normalization.
func specSetContains(specs []string, target string) bool {
	clean := normalizeSpec(target)
	for _, s := range specs {
		if normalizeSpec(s) == clean {
			return true
		}
	}
	return false
}
