package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"

	"github.com/ThatCatDev/venvdash/internal/pyenv"
	"github.com/ThatCatDev/venvdash/pkg/api"
)

const maxBodyBytes = 1 << 20

// msgNotConfigured is shown when `pyenv root` cannot be resolved.
const msgNotConfigured = "Pyenv no configurado"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write JSON response: %v", err)
	}
}

func writeSuccess(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, api.StatusResponse{Status: api.StatusSuccess, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, api.StatusResponse{Status: api.StatusError, Message: message})
}

// writeToolError maps an error from the environment manager to a status
// code and the message the caller sees. A missing environment or file is a
// 500 carrying "<name> no encontrado"; only Delete answers 404.
func writeToolError(w http.ResponseWriter, r *http.Request, err error) {
	var cmdErr *pyenv.CommandError

	switch {
	case errors.Is(err, pyenv.ErrNotConfigured):
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, msgNotConfigured)
	case errors.Is(err, pyenv.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, pyenv.ErrExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, pyenv.ErrTimeout):
		writeError(w, http.StatusGatewayTimeout, err.Error())
	case errors.As(err, &cmdErr):
		writeError(w, http.StatusInternalServerError, cmdErr.Message())
	case errors.Is(err, context.Canceled):
		log.Printf("%s %s: client went away: %v", r.Method, r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeRequest fills dst, one of the api request types, from a POST body.
// Form-encoded and multipart bodies are read like an HTML form, using the
// json tags of dst as field names; application/json bodies are decoded as is.
func decodeRequest(r *http.Request, dst any) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst); err != nil {
			return fmt.Errorf("invalid request body: %w", err)
		}
		return nil
	}

	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return fmt.Errorf("invalid form: %w", err)
	}
	fields := make(map[string]string, len(r.PostForm))
	for name, values := range r.PostForm {
		if len(values) > 0 {
			fields[name] = values[0]
		}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("invalid form: %w", err)
	}
	return json.Unmarshal(raw, dst)
}
