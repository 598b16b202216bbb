package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/MKhiriev/go-content-vault/internal/audit"
	"github.com/MKhiriev/go-content-vault/internal/deletion"
	"github.com/MKhiriev/go-content-vault/internal/logger"
	"github.com/MKhiriev/go-content-vault/internal/quarantine"
	"github.com/MKhiriev/go-content-vault/internal/vault"
	"github.com/MKhiriev/go-content-vault/models"
)

// Settings carries the handler-level configuration: the reported server
// version, the vault passphrase checked on token issue, and the JWT
// parameters used by the auth middleware.
type Settings struct {
	Version       string
	Passphrase    string
	TokenSignKey  string
	TokenIssuer   string
	TokenDuration time.Duration
}

type Handler struct {
	vault   vault.Vault
	engine  *quarantine.Engine
	deleter *deletion.Service
	ledger  *audit.Ledger

	settings Settings

	logger *logger.Logger
}

func NewHandler(v vault.Vault, engine *quarantine.Engine, deleter *deletion.Service, ledger *audit.Ledger, settings Settings, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		vault:    v,
		engine:   engine,
		deleter:  deleter,
		ledger:   ledger,
		settings: settings,
		logger:   logger,
	}
}

// writeJSON encodes v into w with the given status code. Encode failures
// are logged and otherwise ignored: the header is already on the wire.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromRequest(r).Err(err).Msg("encode response body")
	}
}

// writeError maps err onto an HTTP status and writes the uniform error body.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)
	if status >= http.StatusInternalServerError {
		logger.FromRequest(r).Err(err).Msg("request failed")
	}
	h.writeJSON(w, r, status, models.ErrorResponse{Error: err.Error()})
}
