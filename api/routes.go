package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/storage"
)

// setupRoutes mounts the public API under /api and the upload directory under
// storage.PublicPrefix. None of the routes require authentication.
func setupRoutes(r chi.Router, handlers *routeHandlers, uploads http.Handler) {
	responder := NewResponder(log.With().Str("handlerName", "router").Logger())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		responder.WriteError(w, errs.NewNotFoundError("Route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		responder.WriteError(w, errs.NewApiErr(http.StatusMethodNotAllowed, "Method not allowed"))
	})

	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Route("/api", func(r chi.Router) {
			r.Get("/health", handlers.healthHandler.getHealth())

			// Project Handler endpoints
			r.Get("/projects", handlers.projectHandler.getAllProjects())
			r.Post("/projects", handlers.projectHandler.createProject())
			r.Get("/projects/{id}", handlers.projectHandler.getProject())
			r.Put("/projects/{id}", handlers.projectHandler.updateProject())
			r.Delete("/projects/{id}", handlers.projectHandler.deleteProject())

			// Feedback Handler endpoints
			r.Post("/feedback", handlers.feedbackHandler.createFeedback())
			r.Get("/feedback", handlers.feedbackHandler.getAllFeedback())
			r.Put("/feedback/{id}/approve", handlers.feedbackHandler.approveFeedback())
			r.Delete("/feedback/{id}/delete", handlers.feedbackHandler.deleteFeedback())

			// Hire Request Handler endpoints
			r.Post("/hire-me", handlers.hireRequestHandler.createHireRequest())
			r.Get("/hire-me", handlers.hireRequestHandler.getAllHireRequests())
		})
	})

	if uploads != nil {
		r.Handle(storage.PublicPrefix+"/*", uploads)
	}
}
