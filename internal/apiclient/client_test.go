package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ThatCatDev/venvdash/pkg/api"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/venvs", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]api.Environment{{Name: "web", Version: "Python 3.12.1", Size: "1.00 MB"}})
	})
	mux.HandleFunc("POST /api/packages", func(w http.ResponseWriter, r *http.Request) {
		var req api.PackagesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VenvName != "web" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(api.PackagesResponse{
			Status:   "success",
			Packages: `[{"name": "requests", "version": "2.31.0"}]`,
		})
	})
	mux.HandleFunc("POST /create_venv", func(w http.ResponseWriter, r *http.Request) {
		var req api.CreateRequest
		if r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusUnsupportedMediaType)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VenvName != "api" || req.PythonVersion != "3.12.1" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(api.StatusResponse{Status: "error", Message: "bad request"})
			return
		}
		json.NewEncoder(w).Encode(api.StatusResponse{Status: "success", Message: "Entorno api creado con Python 3.12.1"})
	})
	mux.HandleFunc("POST /delete_venv", func(w http.ResponseWriter, r *http.Request) {
		var req api.DeleteRequest
		json.NewDecoder(r.Body).Decode(&req)
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(api.StatusResponse{Status: "error", Message: req.VenvName + " no encontrado"})
	})
	mux.HandleFunc("POST /import_venv", func(w http.ResponseWriter, r *http.Request) {
		var req api.ImportRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(api.StatusResponse{Status: "success", Message: "Dependencias importadas a " + req.VenvName + " desde " + req.RequirementsFile})
	})
	mux.HandleFunc("POST /clone_venv", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestListEnvironments(t *testing.T) {
	c := New(newTestServer(t).URL + "/")
	envs, err := c.ListEnvironments(context.Background())
	if err != nil {
		t.Fatalf("ListEnvironments: %v", err)
	}
	if len(envs) != 1 || envs[0].Name != "web" {
		t.Errorf("envs = %+v", envs)
	}
}

func TestPackages(t *testing.T) {
	c := New(newTestServer(t).URL)
	pkgs, err := c.Packages(context.Background(), "web")
	if err != nil {
		t.Fatalf("Packages: %v", err)
	}
	if len(pkgs) != 1 || pkgs[0].Name != "requests" || pkgs[0].Version != "2.31.0" {
		t.Errorf("pkgs = %+v", pkgs)
	}
}

func TestCreate(t *testing.T) {
	c := New(newTestServer(t).URL)
	msg, err := c.Create(context.Background(), "api", "3.12.1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if msg != "Entorno api creado con Python 3.12.1" {
		t.Errorf("msg = %q", msg)
	}
}

func TestImportSendsFileName(t *testing.T) {
	c := New(newTestServer(t).URL)
	msg, err := c.Import(context.Background(), "web", "web_requirements.txt")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if msg != "Dependencias importadas a web desde web_requirements.txt" {
		t.Errorf("msg = %q", msg)
	}
}

func TestStatusErrorEnvelope(t *testing.T) {
	c := New(newTestServer(t).URL)
	_, err := c.Delete(context.Background(), "ghost")

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Message != "ghost no encontrado" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestPlainTextError(t *testing.T) {
	c := New(newTestServer(t).URL)
	_, err := c.Clone(context.Background(), "a", "b")

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway || apiErr.Message != "upstream exploded" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestHealth(t *testing.T) {
	c := New(newTestServer(t).URL)
	if err := c.Health(context.Background()); err != nil {
		t.Errorf("Health: %v", err)
	}
}

func TestUnreachableServer(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	if _, err := New(url).ListEnvironments(context.Background()); err == nil {
		t.Error("expected error for closed server")
	}
}
