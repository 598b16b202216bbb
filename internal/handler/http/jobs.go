package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-content-vault/internal/logger"
	"github.com/MKhiriev/go-content-vault/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listMethods(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.deleter.ListMethods())
}

func (h *Handler) createJob(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	if req.TargetID == "" {
		http.Error(w, "target_id is required", http.StatusBadRequest)
		return
	}

	job, err := h.deleter.CreateJob(r.Context(), req.TargetID, req.MethodID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	log.Info().Str("job_id", job.ID).Str("method", job.MethodID).Msg("deletion job created")
	h.writeJSON(w, r, http.StatusCreated, job)
}

func (h *Handler) executeJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	job, err := h.deleter.ExecuteJob(r.Context(), jobID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, job)
}

func (h *Handler) cancelJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	if err := h.deleter.CancelJob(r.Context(), jobID); err != nil {
		h.writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Info().Str("job_id", jobID).Msg("deletion job cancelled")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.deleter.Job(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, job)
}

// listJobs returns active jobs, or the finished-job history with
// ?history=true.
func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("history") == "true" {
		h.writeJSON(w, r, http.StatusOK, h.deleter.History())
		return
	}
	h.writeJSON(w, r, http.StatusOK, h.deleter.ListActive())
}

// getCertificate returns the destruction certificate of a completed job.
func (h *Handler) getCertificate(w http.ResponseWriter, r *http.Request) {
	job, err := h.deleter.Job(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if job.Certificate == nil {
		http.Error(w, "job has no certificate", http.StatusNotFound)
		return
	}

	h.writeJSON(w, r, http.StatusOK, job.Certificate)
}
