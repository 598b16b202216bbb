package models

import "time"

// DestructionCertificate attests that a specific item was irrecoverably
// erased by a named method. SelfHash is computed over the canonical body
// (every field except SelfHash itself) so any later edit is detectable.
type DestructionCertificate struct {
	JobID    string `json:"job_id"`
	TargetID string `json:"target_id"`

	Method    string        `json:"method"`
	PassCount int           `json:"pass_count"`
	Patterns  []PassPattern `json:"patterns"`

	PreHash  string `json:"pre_hash"`
	PostHash string `json:"post_hash"`
	Verified bool   `json:"verified"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	IssuedAt   time.Time `json:"issued_at"`

	SelfHash string `json:"self_hash"`
}

// ComplianceReport is the report-shaped sibling of the certificate, folded
// into downstream compliance tooling. It carries the same tamper-evidence
// scheme.
type ComplianceReport struct {
	JobID    string `json:"job_id"`
	TargetID string `json:"target_id"`

	Method   string    `json:"method"`
	Status   JobStatus `json:"status"`
	Duration string    `json:"duration"`

	PreHash  string `json:"pre_hash"`
	PostHash string `json:"post_hash"`

	GeneratedAt time.Time `json:"generated_at"`

	SelfHash string `json:"self_hash"`
}
