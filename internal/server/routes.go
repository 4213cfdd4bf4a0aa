package server

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ThatCatDev/venvdash/internal/server/handlers"
)

func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Health
	mux.HandleFunc("GET /health", handlers.Health)

	// HTML dashboard
	mux.Handle("GET /{$}", &handlers.DashboardHandler{Manager: s.manager})

	// JSON API
	venvs := &handlers.VenvHandler{Manager: s.manager}
	mux.HandleFunc("GET /api/venvs", venvs.List)
	mux.HandleFunc("POST /api/packages", venvs.Packages)

	// Environment lifecycle
	mux.HandleFunc("POST /create_venv", venvs.Create)
	mux.HandleFunc("POST /delete_venv", venvs.Delete)
	mux.HandleFunc("POST /clone_venv", venvs.Clone)
	mux.HandleFunc("POST /export_venv", venvs.Export)
	mux.HandleFunc("POST /import_venv", venvs.Import)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only well-formed ids are echoed back into logs and headers.
		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s [%s]", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond), id)
	})
}
