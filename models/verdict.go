package models

// Verdict is the result of running a piece of content through the external
// risk classifier. Confidence is normalized to [0, 1].
type Verdict struct {
	IsUnsafe   bool     `json:"is_unsafe"`
	Confidence float64  `json:"confidence"`
	Categories []string `json:"categories,omitempty"`
	RiskTier   RiskTier `json:"risk_tier"`
}

// HasCategory reports whether the verdict carries the given category tag.
func (v Verdict) HasCategory(category string) bool {
	for _, c := range v.Categories {
		if c == category {
			return true
		}
	}
	return false
}
