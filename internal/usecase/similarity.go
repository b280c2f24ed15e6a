package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pozmatch/backend/internal/domain"
)

// catalogCodePattern matches administrative poz codes like "25.100.1012":
// 1-2 digits, a 3-digit group, then a 3-4 digit group.
var catalogCodePattern = regexp.MustCompile(`\d{1,2}\.\d{3}\.\d{3,4}`)

// Scoring adjustments
const (
	scoreExact          = 100.0 // identical text or exact code match
	scoreContainment    = 80.0  // one side contains the other
	specMatchBonus      = 20.0  // at least one technical spec agrees
	specConflictPenalty = 30.0  // at least one input spec has no counterpart
)

// minDescriptionLen is the shortest catalog description eligible for
// candidacy; anything shorter is noise that would win on containment.
const minDescriptionLen = 3

// lineQuery holds the per-line derived state that is reused against every
// catalog candidate: the first administrative code found in the line, and
// the extracted technical spec tokens.
type lineQuery struct {
	raw   string
	code  string
	specs []string
}

func newLineQuery(rawLine string) lineQuery {
	return lineQuery{
		raw:   rawLine,
		code:  catalogCodePattern.FindString(rawLine),
		specs: ExtractTechnicalSpecs(rawLine),
	}
}

// SimilarityScorer scores one catalog item against one input line. Pure and
// deterministic; callers use the score only for relative ranking, so it is
// deliberately unclamped after spec adjustments.
type SimilarityScorer struct{}

// NewSimilarityScorer creates a new similarity scorer
func NewSimilarityScorer() *SimilarityScorer {
	return &SimilarityScorer{}
}

// Score computes the match score of one catalog item for a raw input line.
func (s *SimilarityScorer) Score(rawLine string, item domain.CatalogItem) float64 {
	return s.scoreQuery(newLineQuery(rawLine), item)
}

// scoreQuery is the per-candidate hot path; the lineQuery is built once per
// line by the caller so code and spec extraction are not repeated across the
// whole catalog.
func (s *SimilarityScorer) scoreQuery(q lineQuery, item domain.CatalogItem) float64 {
	// An exact administrative-code match dominates everything else.
	if q.code != "" && item.Code == q.code {
		return scoreExact
	}

	score := fuzzyTextScore(q.raw, item.Description)

	// Technical spec agreement adjusts the text score: one flat bonus if any
	// spec matches, one flat penalty if any input spec has no counterpart.
	// Both can apply to the same candidate; the net -10 is intended.
	if len(q.specs) > 0 {
		itemSpecs := ExtractTechnicalSpecs(item.Description)
		specMatches := 0
		specConflicts := 0
		for _, spec := range q.specs {
			if specSetContains(itemSpecs, spec) {
				specMatches++
			} else {
				specConflicts++
			}
		}
		if specMatches > 0 {
			score += specMatchBonus
		}
		if specConflicts > 0 {
			score -= specConflictPenalty
		}
	}

	return score
}

// fuzzyTextScore computes the base text similarity between an input line and
// a catalog description: equality 100, containment either direction 80,
// otherwise the word-overlap ratio scaled to 0-100.
func fuzzyTextScore(line, description string) float64 {
	s1 := strings.ToLower(line)
	s2 := strings.ToLower(description)

	if s1 == s2 {
		return scoreExact
	}
	if strings.Contains(s1, s2) || strings.Contains(s2, s1) {
		return scoreContainment
	}

	words1 := strings.Fields(s1)
	words2 := strings.Fields(s2)
	if len(words1) == 0 || len(words2) == 0 {
		return 0
	}

	matches := 0
	for _, w1 := range words1 {
		for _, w2 := range words2 {
			if w1 == w2 || strings.Contains(w1, w2) || strings.Contains(w2, w1) {
				matches++
				break
			}
		}
	}

	longest := len(words1)
	if len(words2) > longest {
		longest = len(words2)
	}

	return float64(matches) / float64(longest) * 100
}

// eligibleCandidate filters out catalog entries whose description is empty
// or too short to be a meaningful best match.
func eligibleCandidate(item domain.CatalogItem) bool {
	return utf8.RuneCountInString(item.Description) >= minDescriptionLen
}
