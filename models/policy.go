package models

// PolicyAction is the action a matched safety rule requests.
type PolicyAction string

const (
	PolicyActionQuarantine PolicyAction = "quarantine"
	PolicyActionDelete     PolicyAction = "delete"
	PolicyActionFlag       PolicyAction = "flag"
)

// SafetyRule is a closed predicate over classifier output: the rule matches
// when its category set intersects the verdict's categories (an empty set
// matches any verdict) and the verdict confidence reaches the threshold.
// Rules are data, never executable conditions.
type SafetyRule struct {
	Name       string       `json:"name"`
	Threshold  float64      `json:"threshold"`
	Categories []string     `json:"categories,omitempty"`
	Action     PolicyAction `json:"action"`
	Enabled    bool         `json:"enabled"`
}

// SafetyPolicy groups ordered rules under a priority. Policies are evaluated
// in descending priority; within a policy rules run in declaration order and
// the first matching enabled rule wins.
type SafetyPolicy struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Priority    int          `json:"priority"`
	Enabled     bool         `json:"enabled"`
	Rules       []SafetyRule `json:"rules"`
}

// Matches reports whether the rule applies to the verdict and returns the
// matched rule untouched, so callers can log its name as the reason.
func (r SafetyRule) Matches(v Verdict) bool {
	if !r.Enabled {
		return false
	}
	if v.Confidence < r.Threshold {
		return false
	}
	if len(r.Categories) == 0 {
		return true
	}
	for _, c := range r.Categories {
		if v.HasCategory(c) {
			return true
		}
	}
	return false
}
