package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-content-vault/internal/deletion"
	"github.com/MKhiriev/go-content-vault/internal/quarantine"
	"github.com/MKhiriev/go-content-vault/internal/store"
	"github.com/MKhiriev/go-content-vault/internal/vault"
)

var errorStatusMap = map[error]int{
	vault.ErrNotInitialized:       http.StatusServiceUnavailable,
	vault.ErrKeyProviderUnhealthy: http.StatusServiceUnavailable,
	vault.ErrCapacityExceeded:     http.StatusInsufficientStorage,
	vault.ErrItemQuarantined:      http.StatusForbidden,
	vault.ErrIntegrityViolation:   http.StatusInternalServerError,

	quarantine.ErrAlreadyReviewed: http.StatusConflict,
	quarantine.ErrUnknownOutcome:  http.StatusBadRequest,
	quarantine.ErrPolicyNotFound:  http.StatusNotFound,

	deletion.ErrTargetNotFound:     http.StatusNotFound,
	deletion.ErrJobNotFound:        http.StatusNotFound,
	deletion.ErrInvalidState:       http.StatusConflict,
	deletion.ErrUnknownMethod:      http.StatusBadRequest,
	deletion.ErrVerificationFailed: http.StatusInternalServerError,

	store.ErrItemNotFound:  http.StatusNotFound,
	store.ErrEventNotFound: http.StatusNotFound,
	store.ErrBlobNotFound:  http.StatusNotFound,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
