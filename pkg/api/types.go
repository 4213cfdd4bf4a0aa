package api

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Environment describes one virtual environment under the pyenv versions directory.
type Environment struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Size    string `json:"size"`
}

// StatusResponse is the envelope returned by every mutating endpoint.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// PackagesResponse is returned by POST /api/packages. Packages holds the raw
// JSON text printed by `pip list --format=json`.
type PackagesResponse struct {
	Status   string `json:"status"`
	Packages string `json:"packages"`
}

// Package is one entry of the pip list JSON output.
type Package struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// PackagesRequest is the body for POST /api/packages.
type PackagesRequest struct {
	VenvName string `json:"venv_name"`
}

// CreateRequest is the body for POST /create_venv.
type CreateRequest struct {
	VenvName      string `json:"venv_name"`
	PythonVersion string `json:"python_version"`
}

// DeleteRequest is the body for POST /delete_venv.
type DeleteRequest struct {
	VenvName string `json:"venv_name"`
}

// CloneRequest is the body for POST /clone_venv.
type CloneRequest struct {
	SourceVenv string `json:"source_venv"`
	TargetVenv string `json:"target_venv"`
}

// ExportRequest is the body for POST /export_venv.
type ExportRequest struct {
	VenvName string `json:"venv_name"`
}

// ImportRequest is the body for POST /import_venv.
type ImportRequest struct {
	VenvName         string `json:"venv_name"`
	RequirementsFile string `json:"requirements_file"`
}
