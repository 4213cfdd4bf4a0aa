package pyenv

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// ListPackages runs `pip list --format=json` inside an environment and
// returns the raw JSON text.
func (t *Tool) ListPackages(ctx context.Context, name string) (string, error) {
	if err := ValidateName("venv_name", name); err != nil {
		return "", err
	}
	dir, err := t.envDir(ctx, name)
	if err != nil {
		return "", err
	}
	pip, err := requirePip(dir, name)
	if err != nil {
		return "", err
	}

	res, err := t.runner.Run(ctx, pip, "list", "--format=json")
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// CreateEnvironment runs `pyenv virtualenv <pythonVersion> <name>`. An
// existing name is left to pyenv to reject.
func (t *Tool) CreateEnvironment(ctx context.Context, name, pythonVersion string) error {
	if err := ValidateName("venv_name", name); err != nil {
		return err
	}
	if err := ValidateName("python_version", pythonVersion); err != nil {
		return err
	}
	if _, err := t.Root(ctx); err != nil {
		return err
	}

	defer logDuration("create", name, time.Now())
	_, err := t.runner.Run(ctx, t.pyenvBin, "virtualenv", pythonVersion, name)
	return err
}

// DeleteEnvironment removes <root>/versions/<name> with `rm -rf`. An
// environment made by pyenv-virtualenv is a link to
// <root>/versions/<version>/envs/<name>; both the target and the link go.
func (t *Tool) DeleteEnvironment(ctx context.Context, name string) error {
	if err := ValidateName("venv_name", name); err != nil {
		return err
	}
	dir, err := t.envDir(ctx, name)
	if err != nil {
		return err
	}
	info, err := os.Lstat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &NotFoundError{Name: name}
		}
		return fmt.Errorf("stat %s: %w", dir, err)
	}

	targets := []string{dir}
	if info.Mode()&os.ModeSymlink != 0 {
		resolved, err := filepath.EvalSymlinks(dir)
		switch {
		case err == nil:
			targets = []string{resolved, dir}
		case errors.Is(err, os.ErrNotExist):
			log.Printf("delete %s: dangling link, removing the link only", name)
		default:
			return fmt.Errorf("resolve %s: %w", dir, err)
		}
	}

	defer logDuration("delete", name, time.Now())
	_, err = t.runner.Run(ctx, "rm", append([]string{"-rf"}, targets...)...)
	return err
}

// CloneEnvironment copies source to target with `cp -r`. A symlinked source
// is resolved first so the clone is a real copy rather than a second link.
func (t *Tool) CloneEnvironment(ctx context.Context, source, target string) error {
	if err := ValidateName("source_venv", source); err != nil {
		return err
	}
	if err := ValidateName("target_venv", target); err != nil {
		return err
	}
	root, err := t.Root(ctx)
	if err != nil {
		return err
	}

	src := filepath.Join(VersionsDir(root), source)
	dst := filepath.Join(VersionsDir(root), target)

	resolved, err := filepath.EvalSymlinks(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &NotFoundError{Name: source}
		}
		return fmt.Errorf("resolve %s: %w", src, err)
	}
	if _, err := os.Lstat(dst); err == nil {
		return &ExistsError{Name: target}
	}

	defer logDuration("clone", source+" -> "+target, time.Now())
	_, err = t.runner.Run(ctx, "cp", "-r", resolved, dst)
	return err
}

// RequirementsFileName is the export file name for an environment.
func RequirementsFileName(name string) string {
	return name + "_requirements.txt"
}

// ExportRequirements writes `pip freeze` of an environment to
// <ExportDir>/<name>_requirements.txt and returns that path.
func (t *Tool) ExportRequirements(ctx context.Context, name string) (string, error) {
	if err := ValidateName("venv_name", name); err != nil {
		return "", err
	}
	dir, err := t.envDir(ctx, name)
	if err != nil {
		return "", err
	}
	pip, err := requirePip(dir, name)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(t.exportDir, 0755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(t.exportDir, RequirementsFileName(name))

	// Freeze into a temp file next to the export so a failed run never
	// clobbers the previous one.
	f, err := os.CreateTemp(t.exportDir, "."+RequirementsFileName(name)+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file in %s: %w", t.exportDir, err)
	}
	tmp := f.Name()
	defer func() {
		if err := os.Remove(tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("remove temp export %s: %v", tmp, err)
		}
	}()

	defer logDuration("export", name, time.Now())
	_, runErr := t.runner.RunToWriter(ctx, f, pip, "freeze")
	closeErr := f.Close()
	if runErr != nil {
		return "", runErr
	}
	if closeErr != nil {
		return "", fmt.Errorf("write %s: %w", tmp, closeErr)
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		return "", fmt.Errorf("chmod %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("rename %s: %w", path, err)
	}
	return path, nil
}

// ImportRequirements runs `pip install -r` inside an environment. file is a
// bare file name resolved inside the export directory.
func (t *Tool) ImportRequirements(ctx context.Context, name, file string) error {
	if err := ValidateName("venv_name", name); err != nil {
		return err
	}
	if err := ValidateName("requirements_file", file); err != nil {
		return err
	}
	dir, err := t.envDir(ctx, name)
	if err != nil {
		return err
	}

	reqPath := filepath.Join(t.exportDir, file)
	if _, err := os.Stat(reqPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &NotFoundError{Name: file}
		}
		return fmt.Errorf("stat %s: %w", reqPath, err)
	}
	pip, err := requirePip(dir, name)
	if err != nil {
		return err
	}

	defer logDuration("import", name, time.Now())
	_, err = t.runner.Run(ctx, pip, "install", "-r", reqPath)
	return err
}
