package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/snapcircle/snapcircle/internal/upload"
	"github.com/snapcircle/snapcircle/internal/web/handlers"
)

func (s *Server) setupRoutes(limits upload.Limits) {
	eventsHandler := handlers.NewEventsHandler(s.client, limits)
	facesHandler := handlers.NewFacesHandler(s.tracker)

	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/events/{code}", eventsHandler.Get)
		r.Get("/events/{code}/photos", eventsHandler.Photos)
		r.Post("/events/{code}/join", eventsHandler.Join)

		r.Post("/faces/process", facesHandler.Start)
		r.Get("/faces/job", facesHandler.Status)
	})
}
