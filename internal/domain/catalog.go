package domain

// CatalogItem is one reference unit-price record (a "poz"). Code is the
// stable identity key; everything else is free text plus a price.
type CatalogItem struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unitPrice"`
}

// MatchCandidate is the priced match result for a single input line.
// UnitPrice and TotalPrice are zeroed when the caller's subscription does
// not permit price visibility; IsBlurred tells the client to render the
// paywall affordance instead of real numbers.
type MatchCandidate struct {
	ID          string       `json:"id"`
	RawLine     string       `json:"rawLine"`
	MatchedItem *CatalogItem `json:"matchedPoz"`
	MatchScore  float64      `json:"matchScore"`
	Quantity    float64      `json:"quantity"`
	UnitPrice   float64      `json:"unitPrice"`
	TotalPrice  float64      `json:"totalPrice"`
	IsBlurred   bool         `json:"isBlurred"`
}
