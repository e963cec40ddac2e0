package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// facilitator protocol: stateless, no caller identity required
	router.Group(func(r chi.Router) {
		r.Post("/verify", h.verify)
		r.Post("/settle", h.settle)
		r.Get("/healthz", h.healthz)
	})

	// vault and payment API: caller identity carried by the gateway
	router.Route("/api", func(r chi.Router) {
		r.Use(h.withUserID)

		r.Route("/credentials", func(r chi.Router) {
			r.Post("/", h.upsertCredential)
			r.Get("/{type}", h.getCredential)
			r.Delete("/", h.deleteCredentials)
		})

		r.Get("/requirements", h.issueRequirements)
		r.Post("/payments", h.executePayment)
	})

	return router
}
