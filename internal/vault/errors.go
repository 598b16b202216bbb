// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import "errors"

var (
	// ErrNotInitialized is returned by every operation invoked before
	// Initialize succeeded. Fatal to the call, not to the process.
	ErrNotInitialized = errors.New("vault is not initialized")

	// ErrKeyProviderUnhealthy is returned by Initialize when the key
	// provider refuses its health check.
	ErrKeyProviderUnhealthy = errors.New("key provider is unhealthy")

	// ErrCapacityExceeded rejects a write that would push the vault past
	// its configured size limit. Nothing is stored on rejection.
	ErrCapacityExceeded = errors.New("vault capacity exceeded")

	// ErrItemQuarantined denies the normal read path for quarantined
	// items. Policy enforcement, not a failure.
	ErrItemQuarantined = errors.New("item is quarantined")

	// ErrIntegrityViolation reports a post-decrypt content hash mismatch:
	// the payload authenticated but does not match the hash recorded at
	// write time.
	ErrIntegrityViolation = errors.New("content integrity violation")
)
