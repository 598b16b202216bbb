package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-content-vault/internal/logger"
	"github.com/MKhiriev/go-content-vault/internal/utils"
	"github.com/MKhiriev/go-content-vault/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r)

	events, err := h.engine.Events(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, events)
}

func (h *Handler) getEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.engine.Event(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, event)
}

// reviewEvent resolves one quarantine event. The reviewer recorded on the
// event is the authenticated actor, not a body field.
func (h *Handler) reviewEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	log := logger.FromRequest(r)

	var req models.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	reviewer := utils.ActorFromContext(r.Context())

	event, err := h.engine.ReviewEvent(r.Context(), eventID, reviewer, req.Outcome, req.Notes)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	log.Info().Str("event_id", eventID).Str("outcome", req.Outcome).Msg("event reviewed")
	h.writeJSON(w, r, http.StatusOK, event)
}

// rescan sweeps every admitted item against the current policy set and
// reports how many items changed state.
func (h *Handler) rescan(w http.ResponseWriter, r *http.Request) {
	changed, err := h.engine.Rescan(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]int{"changed": changed})
}

func (h *Handler) listPolicies(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.engine.Policies())
}

func (h *Handler) upsertPolicy(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var policy models.SafetyPolicy
	if err := json.NewDecoder(r.Body).Decode(&policy); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	// the path segment wins over whatever id the body carries
	policy.ID = chi.URLParam(r, "id")
	h.engine.UpsertPolicy(policy)

	log.Info().Str("policy_id", policy.ID).Msg("policy upserted")
	h.writeJSON(w, r, http.StatusOK, policy)
}

func (h *Handler) togglePolicy(w http.ResponseWriter, r *http.Request) {
	policyID := chi.URLParam(r, "id")
	log := logger.FromRequest(r)

	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.engine.SetPolicyEnabled(policyID, req.Enabled); err != nil {
		h.writeError(w, r, err)
		return
	}

	log.Info().Str("policy_id", policyID).Bool("enabled", req.Enabled).Msg("policy toggled")
	w.WriteHeader(http.StatusNoContent)
}

// parseLimit reads the optional ?limit= query parameter. Zero means no
// limit; malformed values are treated as zero.
func parseLimit(r *http.Request) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 0 {
		limit = 0
	}
	return limit
}
