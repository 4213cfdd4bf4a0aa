package pyenv

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ThatCatDev/venvdash/internal/config"
)

// Tool drives pyenv and the pip of each environment. It holds no state
// between calls: the root directory is looked up on every operation.
type Tool struct {
	pyenvBin    string
	exportDir   string
	concurrency int
	runner      *Runner
}

// New creates a Tool from the server configuration.
func New(cfg *config.Config) *Tool {
	return &Tool{
		pyenvBin:    cfg.PyenvBin,
		exportDir:   cfg.ExportDir,
		concurrency: cfg.ListConcurrency,
		runner: &Runner{
			Timeout: cfg.CommandTimeout,
			Env: []string{
				"PIP_DISABLE_PIP_VERSION_CHECK=1",
				"PIP_NO_INPUT=1",
				"PYENV_VIRTUALENV_DISABLE_PROMPT=1",
			},
		},
	}
}

// ExportDir returns the directory requirements files are written to.
func (t *Tool) ExportDir() string { return t.exportDir }

// Root runs `pyenv root` and returns the trimmed path. Any failure to get a
// usable answer is reported as ErrNotConfigured, except cancellation of ctx
// and a timeout, which keep their own errors.
func (t *Tool) Root(ctx context.Context) (string, error) {
	res, err := t.runner.Run(ctx, t.pyenvBin, "root")
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if errors.Is(err, ErrTimeout) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}
	root := strings.TrimSpace(res.Stdout)
	if root == "" {
		return "", fmt.Errorf("%w: empty output from %s root", ErrNotConfigured, t.pyenvBin)
	}
	return root, nil
}

// VersionsDir returns <root>/versions.
func VersionsDir(root string) string {
	return filepath.Join(root, "versions")
}

// envDir resolves the directory of a validated environment name.
func (t *Tool) envDir(ctx context.Context, name string) (string, error) {
	root, err := t.Root(ctx)
	if err != nil {
		return "", err
	}
	return filepath.Join(VersionsDir(root), name), nil
}

func pythonPath(envDir string) string { return filepath.Join(envDir, "bin", "python") }

func pipPath(envDir string) string { return filepath.Join(envDir, "bin", "pip") }

// isExecutable reports whether path is a regular file with any execute bit.
// Symlinks are followed.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0
}

// requirePip returns the pip path of an environment or a NotFoundError.
func requirePip(envDir, name string) (string, error) {
	pip := pipPath(envDir)
	if _, err := os.Stat(pip); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &NotFoundError{Name: name}
		}
		return "", fmt.Errorf("stat %s: %w", pip, err)
	}
	return pip, nil
}

func logDuration(op, name string, start time.Time) {
	log.Printf("%s %s took %s", op, name, time.Since(start).Round(time.Millisecond))
}
