// Package web runs the local viewer server: a thin HTTP layer over the
// backend client so a browser on the same machine can browse events, join
// them, and watch face-processing jobs.
package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/snapcircle/snapcircle/internal/event"
	"github.com/snapcircle/snapcircle/internal/snapcircle"
	"github.com/snapcircle/snapcircle/internal/upload"
	"github.com/snapcircle/snapcircle/internal/web/middleware"
)

// Server represents the local viewer server.
type Server struct {
	client     *snapcircle.Client
	router     *chi.Mux
	httpServer *http.Server
	tracker    *event.Tracker
}

// NewServer creates a viewer server backed by the given client.
func NewServer(client *snapcircle.Client, limits upload.Limits, host string, port int) *Server {
	r := chi.NewRouter()

	s := &Server{
		client:  client,
		router:  r,
		tracker: event.NewTracker(client),
	}

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(2 * time.Minute))
	r.Use(middleware.CORS())
	r.Use(middleware.SecurityHeaders())

	s.setupRoutes(limits)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	log.Printf("Starting viewer server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down viewer server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Router returns the chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
