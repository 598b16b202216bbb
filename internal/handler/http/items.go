package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-content-vault/internal/logger"
	"github.com/MKhiriev/go-content-vault/internal/quarantine"
	"github.com/MKhiriev/go-content-vault/internal/vault"
	"github.com/MKhiriev/go-content-vault/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	if req.Name == "" || len(req.Content) == 0 {
		http.Error(w, "name and content are required", http.StatusBadRequest)
		return
	}

	var resp models.AddItemResponse

	if req.Scan {
		item, event, err := h.engine.ScanAndStore(ctx, quarantine.ScanParams{
			Name:        req.Name,
			ContentType: req.ContentType,
			Tags:        req.Tags,
			Content:     req.Content,
			Scan:        true,
		})
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		resp = models.AddItemResponse{ItemID: item.ID, Event: &event}
	} else {
		item, err := h.vault.AddItem(ctx, vault.AddParams{
			Name:        req.Name,
			ContentType: req.ContentType,
			Tags:        req.Tags,
			Content:     req.Content,
		})
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		resp = models.AddItemResponse{ItemID: item.ID}
	}

	h.writeJSON(w, r, http.StatusCreated, resp)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")

	item, content, err := h.vault.GetItem(r.Context(), itemID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, models.GetItemResponse{Item: item, Content: content})
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.vault.ListItems(r.Context(), r.URL.Query().Get("tag"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, items)
}

// deleteItem removes an item. With ?secure=true the blob is destroyed with
// the default certified wipe method and the resulting job is returned;
// otherwise the response body is empty.
func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	secure := r.URL.Query().Get("secure") == "true"

	job, err := h.vault.RemoveItem(r.Context(), itemID, secure)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if job != nil {
		h.writeJSON(w, r, http.StatusOK, job)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) quarantineItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	log := logger.FromRequest(r)

	var req models.QuarantineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	if req.Reason == "" {
		http.Error(w, "reason is required", http.StatusBadRequest)
		return
	}

	tier := req.RiskTier
	if tier == "" {
		tier = models.RiskTierMedium
	}

	if err := h.vault.QuarantineItem(r.Context(), itemID, req.Reason, tier); err != nil {
		h.writeError(w, r, err)
		return
	}

	item, err := h.vault.Item(r.Context(), itemID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, item)
}

func (h *Handler) releaseItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")

	if err := h.vault.ReleaseItem(r.Context(), itemID); err != nil {
		h.writeError(w, r, err)
		return
	}

	item, err := h.vault.Item(r.Context(), itemID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, item)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.vault.Stats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, stats)
}
