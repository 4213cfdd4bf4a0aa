package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/ThatCatDev/venvdash/internal/config"
	"github.com/ThatCatDev/venvdash/internal/pyenv"
	"github.com/ThatCatDev/venvdash/internal/server/handlers"
)

// Server is the venvdash HTTP server.
type Server struct {
	cfg     *config.Config
	http    *http.Server
	manager handlers.EnvironmentManager
}

// New creates a Server backed by the pyenv found through cfg.
func New(cfg *config.Config) *Server {
	return NewWithManager(cfg, pyenv.New(cfg))
}

// NewWithManager creates a Server around an existing EnvironmentManager.
func NewWithManager(cfg *config.Config, mgr handlers.EnvironmentManager) *Server {
	s := &Server{
		cfg:     cfg,
		manager: mgr,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.http = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           withLogging(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler returns the root handler including middleware.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start starts the server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	log.Printf("venvdash listening on http://%s", s.http.Addr)
	log.Printf("pyenv: %s", s.cfg.PyenvBin)
	log.Printf("Export dir: %s", s.cfg.ExportDir)
	log.Printf("Command timeout: %s", s.cfg.CommandTimeout)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}
