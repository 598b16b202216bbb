// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package quarantine

import "errors"

var (
	// ErrAlreadyReviewed rejects a second review of the same event.
	ErrAlreadyReviewed = errors.New("event already reviewed")

	// ErrUnknownOutcome rejects a review outcome that is neither release
	// nor uphold.
	ErrUnknownOutcome = errors.New("unknown review outcome")

	// ErrPolicyNotFound is returned when a policy id does not exist.
	ErrPolicyNotFound = errors.New("policy not found")
)
