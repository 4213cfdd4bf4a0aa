package pyenv

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ThatCatDev/venvdash/pkg/api"
)

// UnknownVersion is reported when an interpreter cannot tell its version.
const UnknownVersion = "Desconocida"

// ListEnvironments returns one record per directory under <root>/versions
// that holds an executable bin/python, sorted by name. When pyenv is not
// configured or the versions directory is missing the list is empty.
func (t *Tool) ListEnvironments(ctx context.Context) ([]api.Environment, error) {
	start := time.Now()
	defer logDuration("list", "environments", start)

	root, err := t.Root(ctx)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			log.Printf("list environments: %v", err)
			return []api.Environment{}, nil
		}
		return nil, err
	}

	versions := VersionsDir(root)
	if info, err := os.Stat(versions); err != nil || !info.IsDir() {
		return []api.Environment{}, nil
	}

	entries, err := os.ReadDir(versions)
	if err != nil {
		return nil, err
	}

	limit := t.concurrency
	if limit <= 0 {
		limit = 1
	}

	// entries is sorted by name; each slot is filled independently so the
	// result keeps that order.
	found := make([]*api.Environment, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, entry := range entries {
		dir := filepath.Join(versions, entry.Name())
		// Stat follows symlinks: pyenv-virtualenv links named envs into versions/.
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		if !isExecutable(pythonPath(dir)) {
			continue
		}

		g.Go(func() error {
			found[i] = t.inspect(gctx, entry.Name(), dir)
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	envs := make([]api.Environment, 0, len(found))
	for _, e := range found {
		if e != nil {
			envs = append(envs, *e)
		}
	}
	return envs, nil
}

// inspect queries the interpreter version and disk usage of one environment.
func (t *Tool) inspect(ctx context.Context, name, dir string) *api.Environment {
	version := UnknownVersion
	if res, err := t.runner.Run(ctx, pythonPath(dir), "--version"); err == nil {
		// Python 2 prints its version on stderr.
		if v := strings.TrimSpace(res.Stdout); v != "" {
			version = v
		} else if v := strings.TrimSpace(res.Stderr); v != "" {
			version = v
		}
	}

	size, err := DirSize(dir)
	if err != nil {
		log.Printf("size of %s: %v", dir, err)
	}

	return &api.Environment{
		Name:    name,
		Version: version,
		Size:    FormatSize(size),
	}
}
