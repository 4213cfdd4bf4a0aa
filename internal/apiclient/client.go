package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ThatCatDev/venvdash/pkg/api"
)

// Client is a typed HTTP client for the venvdash server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new Client for the given server URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// Error is a failure reported by the server in a status envelope.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// ListEnvironments fetches GET /api/venvs.
func (c *Client) ListEnvironments(ctx context.Context) ([]api.Environment, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/venvs", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}

	var envs []api.Environment
	if err := json.NewDecoder(resp.Body).Decode(&envs); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return envs, nil
}

// Packages returns the packages installed in an environment.
func (c *Client) Packages(ctx context.Context, name string) ([]api.Package, error) {
	raw, err := c.PackagesRaw(ctx, name)
	if err != nil {
		return nil, err
	}
	var pkgs []api.Package
	if err := json.Unmarshal([]byte(raw), &pkgs); err != nil {
		return nil, fmt.Errorf("decode package list: %w", err)
	}
	return pkgs, nil
}

// PackagesRaw returns the pip JSON text exactly as the server relayed it.
func (c *Client) PackagesRaw(ctx context.Context, name string) (string, error) {
	var result api.PackagesResponse
	if err := c.postJSON(ctx, "/api/packages", api.PackagesRequest{VenvName: name}, &result); err != nil {
		return "", err
	}
	return result.Packages, nil
}

// Create creates an environment from an installed Python version.
func (c *Client) Create(ctx context.Context, name, pythonVersion string) (string, error) {
	return c.status(ctx, "/create_venv", api.CreateRequest{VenvName: name, PythonVersion: pythonVersion})
}

// Delete removes an environment.
func (c *Client) Delete(ctx context.Context, name string) (string, error) {
	return c.status(ctx, "/delete_venv", api.DeleteRequest{VenvName: name})
}

// Clone copies source to target.
func (c *Client) Clone(ctx context.Context, source, target string) (string, error) {
	return c.status(ctx, "/clone_venv", api.CloneRequest{SourceVenv: source, TargetVenv: target})
}

// Export writes the requirements of an environment on the server.
func (c *Client) Export(ctx context.Context, name string) (string, error) {
	return c.status(ctx, "/export_venv", api.ExportRequest{VenvName: name})
}

// Import installs a previously exported requirements file into an environment.
func (c *Client) Import(ctx context.Context, name, requirementsFile string) (string, error) {
	return c.status(ctx, "/import_venv", api.ImportRequest{VenvName: name, RequirementsFile: requirementsFile})
}

// Health checks GET /health.
func (c *Client) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) status(ctx context.Context, path string, req any) (string, error) {
	var result api.StatusResponse
	if err := c.postJSON(ctx, path, req, &result); err != nil {
		return "", err
	}
	return result.Message, nil
}

func (c *Client) postJSON(ctx context.Context, path string, req any, result any) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return readError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readError turns a non-200 response into an *Error, using the message of
// the status envelope when the body carries one.
func readError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var env api.StatusResponse
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return &Error{StatusCode: resp.StatusCode, Message: env.Message}
	}
	return &Error{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
}
