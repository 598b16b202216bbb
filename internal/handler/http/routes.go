package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(withLogging)
	router.Use(withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/healthz", h.healthz)
		r.Get("/api/version", h.getServerVersion)
		r.Post("/api/auth/token", h.issueToken)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/api/items", func(r chi.Router) {
			r.Post("/", h.addItem)
			r.Get("/", h.listItems)
			r.Get("/{id}", h.getItem)
			r.Delete("/{id}", h.deleteItem)
			r.Post("/{id}/quarantine", h.quarantineItem)
			r.Post("/{id}/release", h.releaseItem)
		})

		r.Route("/api/events", func(r chi.Router) {
			r.Get("/", h.listEvents)
			r.Get("/{id}", h.getEvent)
			r.Post("/{id}/review", h.reviewEvent)
		})

		r.Route("/api/policies", func(r chi.Router) {
			r.Get("/", h.listPolicies)
			r.Put("/{id}", h.upsertPolicy)
			r.Patch("/{id}", h.togglePolicy)
		})

		r.Route("/api/jobs", func(r chi.Router) {
			r.Post("/", h.createJob)
			r.Get("/", h.listJobs)
			r.Get("/{id}", h.getJob)
			r.Post("/{id}/execute", h.executeJob)
			r.Post("/{id}/cancel", h.cancelJob)
			r.Get("/{id}/certificate", h.getCertificate)
		})

		r.Get("/api/deletion/methods", h.listMethods)
		r.Get("/api/audit", h.auditLog)
		r.Get("/api/audit/verify", h.verifyAudit)
		r.Get("/api/stats", h.stats)
		r.Post("/api/rescan", h.rescan)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
