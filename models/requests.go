package models

// HTTP request and response bodies of the admin API.

// TokenRequest exchanges the vault passphrase for a bearer token bound to
// the given actor id.
type TokenRequest struct {
	Actor      string `json:"actor"`
	Passphrase string `json:"passphrase"`
}

// TokenResponse carries the issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// AddItemRequest submits new content to the vault. Content is base64 in
// transit; Scan controls whether the quarantine engine evaluates the
// content before it is admitted.
type AddItemRequest struct {
	Name        string   `json:"name"`
	ContentType string   `json:"content_type,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Content     []byte   `json:"content"`
	Scan        bool     `json:"scan"`
}

// AddItemResponse reports the stored item id and the safety decision made
// on ingest (absent when scanning was skipped).
type AddItemResponse struct {
	ItemID string           `json:"item_id"`
	Event  *QuarantineEvent `json:"event,omitempty"`
}

// GetItemResponse returns decrypted content together with the catalog
// record.
type GetItemResponse struct {
	Item    VaultItem `json:"item"`
	Content []byte    `json:"content"`
}

// QuarantineRequest flags an item manually.
type QuarantineRequest struct {
	Reason   string   `json:"reason"`
	RiskTier RiskTier `json:"risk_tier,omitempty"`
}

// ReviewRequest resolves a quarantine event. Outcome is "release" or
// "uphold".
type ReviewRequest struct {
	Outcome string `json:"outcome"`
	Notes   string `json:"notes,omitempty"`
}

// CreateJobRequest creates a secure-deletion job. MethodID is optional; the
// configured default method is used when empty.
type CreateJobRequest struct {
	TargetID string `json:"target_id"`
	MethodID string `json:"method_id,omitempty"`
}

// ErrorResponse is the uniform error body of the admin API.
type ErrorResponse struct {
	Error string `json:"error"`
}
