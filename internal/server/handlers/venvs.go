package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ThatCatDev/venvdash/internal/pyenv"
	"github.com/ThatCatDev/venvdash/pkg/api"
)

// EnvironmentManager is the set of environment operations the handlers
// expose. *pyenv.Tool implements it.
type EnvironmentManager interface {
	ListEnvironments(ctx context.Context) ([]api.Environment, error)
	ListPackages(ctx context.Context, name string) (string, error)
	CreateEnvironment(ctx context.Context, name, pythonVersion string) error
	DeleteEnvironment(ctx context.Context, name string) error
	CloneEnvironment(ctx context.Context, source, target string) error
	ExportRequirements(ctx context.Context, name string) (string, error)
	ImportRequirements(ctx context.Context, name, file string) error
}

// VenvHandler serves the JSON endpoints for environments.
type VenvHandler struct {
	Manager EnvironmentManager
}

// List handles GET /api/venvs.
func (h *VenvHandler) List(w http.ResponseWriter, r *http.Request) {
	envs, err := h.Manager.ListEnvironments(r.Context())
	if err != nil {
		writeToolError(w, r, err)
		return
	}
	if envs == nil {
		envs = []api.Environment{}
	}
	writeJSON(w, http.StatusOK, envs)
}

// Packages handles POST /api/packages.
func (h *VenvHandler) Packages(w http.ResponseWriter, r *http.Request) {
	var req api.PackagesRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(req.VenvName)

	out, err := h.Manager.ListPackages(r.Context(), name)
	if err != nil {
		writeToolError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.PackagesResponse{Status: api.StatusSuccess, Packages: out})
}

// Create handles POST /create_venv.
func (h *VenvHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.CreateRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name, version := strings.TrimSpace(req.VenvName), strings.TrimSpace(req.PythonVersion)

	if err := h.Manager.CreateEnvironment(r.Context(), name, version); err != nil {
		writeToolError(w, r, err)
		return
	}
	writeSuccess(w, fmt.Sprintf("Entorno %s creado con Python %s", name, version))
}

// Delete handles POST /delete_venv.
func (h *VenvHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req api.DeleteRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(req.VenvName)

	if err := h.Manager.DeleteEnvironment(r.Context(), name); err != nil {
		if errors.Is(err, pyenv.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeToolError(w, r, err)
		return
	}
	writeSuccess(w, fmt.Sprintf("Eliminado %s", name))
}

// Clone handles POST /clone_venv.
func (h *VenvHandler) Clone(w http.ResponseWriter, r *http.Request) {
	var req api.CloneRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	source, target := strings.TrimSpace(req.SourceVenv), strings.TrimSpace(req.TargetVenv)

	if err := h.Manager.CloneEnvironment(r.Context(), source, target); err != nil {
		writeToolError(w, r, err)
		return
	}
	writeSuccess(w, fmt.Sprintf("Clonado %s como %s", source, target))
}

// Export handles POST /export_venv. The response names the written file so
// it can be passed back to /import_venv.
func (h *VenvHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req api.ExportRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(req.VenvName)

	path, err := h.Manager.ExportRequirements(r.Context(), name)
	if err != nil {
		writeToolError(w, r, err)
		return
	}
	log.Printf("Exported %s to %s", name, path)
	writeSuccess(w, fmt.Sprintf("Exportado a %s", filepath.Base(path)))
}

// Import handles POST /import_venv.
func (h *VenvHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req api.ImportRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name, file := strings.TrimSpace(req.VenvName), strings.TrimSpace(req.RequirementsFile)

	if err := h.Manager.ImportRequirements(r.Context(), name, file); err != nil {
		writeToolError(w, r, err)
		return
	}
	writeSuccess(w, fmt.Sprintf("Dependencias importadas a %s", name))
}
