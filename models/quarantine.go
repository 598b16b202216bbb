package models

import "time"

// QuarantineAction is the action recorded on a quarantine event.
type QuarantineAction string

const (
	ActionPassed      QuarantineAction = "passed"
	ActionQuarantined QuarantineAction = "quarantined"
	ActionDeleted     QuarantineAction = "deleted"
	ActionReleased    QuarantineAction = "released"
	ActionFlagged     QuarantineAction = "flagged"
)

// ReviewState is attached to a quarantine event once a human reviewer has
// looked at it. Events are otherwise never mutated.
type ReviewState struct {
	Reviewed   bool      `json:"reviewed"`
	Reviewer   string    `json:"reviewer,omitempty"`
	ReviewedAt time.Time `json:"reviewed_at,omitempty"`
	Notes      string    `json:"notes,omitempty"`
}

// QuarantineEvent is one append-only record of a safety decision made for a
// vault item. The reason text names the rule or check that matched.
type QuarantineEvent struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name,omitempty"`

	Action QuarantineAction `json:"action"`
	Reason string           `json:"reason"`

	RiskTier   RiskTier `json:"risk_tier,omitempty"`
	Confidence float64  `json:"confidence"`
	Categories []string `json:"categories,omitempty"`

	// Actor is "automated" for engine decisions or a reviewer id for
	// review outcomes.
	Actor string `json:"actor,omitempty"`

	// ApplyFailed marks events whose decided action could not be applied
	// to the vault. The event is retained so the discrepancy stays
	// auditable instead of being silently dropped.
	ApplyFailed bool `json:"apply_failed,omitempty"`

	Review *ReviewState `json:"review,omitempty"`
}
