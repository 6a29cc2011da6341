package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging)

	router.Get("/api/status", h.getStatus)
	router.Get("/api/version/", h.getServerVersion)

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
