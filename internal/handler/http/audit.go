package http

import "net/http"

func (h *Handler) auditLog(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.ledger.List(parseLimit(r)))
}

// verifyAudit walks the ledger's hash chain and reports whether it is
// intact.
func (h *Handler) verifyAudit(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.Verify(); err != nil {
		h.writeJSON(w, r, http.StatusConflict, map[string]any{
			"intact": false,
			"error":  err.Error(),
		})
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"intact":  true,
		"entries": h.ledger.Len(),
	})
}
