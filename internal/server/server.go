package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rasoihub/recipeops/config"
	"github.com/rasoihub/recipeops/internal/service"
)

// Server wraps the HTTP server and the background generation runner so both
// shut down together.
type Server struct {
	router     *gin.Engine
	http       *http.Server
	generation *service.GenerationService
}

// New creates a new server instance
func New(cfg *config.Config, router *gin.Engine, generation *service.GenerationService) *Server {
	return &Server{
		router:     router,
		generation: generation,
		http: &http.Server{
			Addr:              cfg.ServerHost + ":" + cfg.ServerPort,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start starts the server and blocks until it stops.
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server, then cancels any running
// generation jobs and waits for them.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := s.http.Shutdown(shutdownCtx)

	if s.generation != nil {
		s.generation.Shutdown()
	}

	return err
}
