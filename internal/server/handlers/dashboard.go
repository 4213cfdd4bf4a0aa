package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"net/http"

	"github.com/ThatCatDev/venvdash/pkg/api"
)

//go:embed templates/*.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type dashboardData struct {
	Venvs []api.Environment
}

// DashboardHandler renders the HTML page listing environments at GET /.
type DashboardHandler struct {
	Manager EnvironmentManager
}

func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	envs, err := h.Manager.ListEnvironments(r.Context())
	if err != nil {
		log.Printf("dashboard: list environments: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Render into a buffer so a template error never leaves a half-written page.
	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, dashboardData{Venvs: envs}); err != nil {
		log.Printf("dashboard: render: %v", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
