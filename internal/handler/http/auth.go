package http

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-content-vault/internal/logger"
	"github.com/MKhiriev/go-content-vault/internal/utils"
	"github.com/MKhiriev/go-content-vault/models"
)

// issueToken exchanges the vault passphrase for a bearer token. The token's
// subject is the caller-supplied actor id, which ends up in the audit log
// for every privileged operation performed with it.
func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if req.Actor == "" {
		http.Error(w, "actor is required", http.StatusBadRequest)
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Passphrase), []byte(h.settings.Passphrase)) != 1 {
		log.Warn().Str("actor", req.Actor).Msg("token request with wrong passphrase")
		http.Error(w, "wrong passphrase", http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateJWTToken(h.settings.TokenIssuer, req.Actor, h.settings.TokenDuration, h.settings.TokenSignKey)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	log.Info().Str("actor", req.Actor).Msg("token issued")
	h.writeJSON(w, r, http.StatusOK, models.TokenResponse{Token: token})
}
