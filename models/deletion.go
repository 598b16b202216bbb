// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// PassKind names the fill source of one overwrite pass.
type PassKind string

const (
	// PassZeros overwrites the extent with 0x00 bytes.
	PassZeros PassKind = "zeros"
	// PassOnes overwrites the extent with 0xFF bytes.
	PassOnes PassKind = "ones"
	// PassRandom overwrites the extent with cryptographically random bytes.
	PassRandom PassKind = "random"
	// PassBytes overwrites the extent with a repeating fixed byte sequence
	// (used by the classic multi-pass standards).
	PassBytes PassKind = "bytes"
)

// PassPattern describes a single overwrite pass of a deletion method.
type PassPattern struct {
	Kind PassKind `json:"kind"`

	// Bytes is the repeating sequence written when Kind is PassBytes.
	Bytes []byte `json:"bytes,omitempty"`
}

// DeletionMethod is a named, fixed overwrite specification. Methods form a
// static catalog and are never created at runtime.
type DeletionMethod struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Passes       []PassPattern `json:"passes"`
	SecurityTier RiskTier      `json:"security_tier"`

	// ThroughputMBps is the estimated single-pass overwrite throughput,
	// used only for job duration estimates.
	ThroughputMBps float64 `json:"throughput_mbps"`
}

// JobStatus is the lifecycle state of a deletion job. Transitions are
// monotonic: no job ever returns to an earlier state.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
	JobCancelled  JobStatus = "cancelled"
)

// Terminal reports whether the status is final.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobCancelled
}

// DeletionJob tracks one certified destruction of a vault item's storage.
type DeletionJob struct {
	ID         string `json:"id"`
	TargetID   string `json:"target_id"`
	TargetName string `json:"target_name,omitempty"`
	MethodID   string `json:"method_id"`

	Status JobStatus `json:"status"`

	// Progress is a monotonically increasing percentage in [0, 100]
	// combining pass index and intra-pass byte offset.
	Progress int `json:"progress"`

	CreatedAt  time.Time `json:"created_at"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	FinishedAt time.Time `json:"finished_at,omitempty"`

	// PreHash is the content hash of the target blob recorded at job
	// creation; PostHash is "not found" after verified destruction.
	PreHash  string `json:"pre_hash"`
	PostHash string `json:"post_hash,omitempty"`

	// VerificationToken is a fresh random token recorded only when the
	// post-deletion verification succeeded.
	VerificationToken string `json:"verification_token,omitempty"`

	// Trail is the ordered audit trail of job steps.
	Trail []string `json:"trail,omitempty"`

	Error string `json:"error,omitempty"`

	Certificate *DestructionCertificate `json:"certificate,omitempty"`
	Report      *ComplianceReport       `json:"report,omitempty"`
}
