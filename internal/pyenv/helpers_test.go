package pyenv

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/ThatCatDev/venvdash/internal/config"
)

const fakePyenvScript = `case "$1" in
root)
  echo "ROOT"
  ;;
virtualenv)
  dir="ROOT/versions/$3"
  if [ -e "$dir" ]; then
    echo "pyenv-virtualenv: '$dir' already exists." >&2
    exit 1
  fi
  if [ ! -d "ROOT/versions/$2" ]; then
    echo "pyenv-virtualenv: '$2' is not installed in pyenv." >&2
    exit 1
  fi
  mkdir -p "$dir/bin"
  cp "ROOT/versions/$2/bin/python" "$dir/bin/python"
  cp "ROOT/versions/$2/bin/pip" "$dir/bin/pip"
  ;;
*)
  exit 2
  ;;
esac
`

const fakePipScript = `case "$1" in
list)
  echo '[{"name": "pip", "version": "24.0"}, {"name": "requests", "version": "2.31.0"}]'
  ;;
freeze)
  echo "requests==2.31.0"
  ;;
install)
  if [ "$2" != "-r" ] || [ ! -f "$3" ]; then
    echo "ERROR: Could not open requirements file" >&2
    exit 1
  fi
  echo "Requirement already satisfied: requests==2.31.0"
  ;;
*)
  exit 2
  ;;
esac
`

func writeScript(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatal(err)
	}
}

type fixture struct {
	root      string
	exportDir string
	tool      *Tool
}

// newFixture builds a pyenv root with a fake pyenv executable.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes require a POSIX shell")
	}

	tmp := t.TempDir()
	root := filepath.Join(tmp, "pyenv")
	if err := os.MkdirAll(VersionsDir(root), 0755); err != nil {
		t.Fatal(err)
	}

	bin := filepath.Join(tmp, "bin", "pyenv")
	writeScript(t, bin, strings.ReplaceAll(fakePyenvScript, "ROOT", root))

	cfg := &config.Config{
		PyenvBin:        bin,
		ExportDir:       filepath.Join(tmp, "exports"),
		CommandTimeout:  10 * time.Second,
		ListConcurrency: 2,
	}
	return &fixture{root: root, exportDir: cfg.ExportDir, tool: New(cfg)}
}

// addEnv creates versions/<name> with a python that reports version and a fake pip.
func (f *fixture) addEnv(t *testing.T, name, version string) string {
	t.Helper()
	dir := filepath.Join(VersionsDir(f.root), name)
	writeScript(t, pythonPath(dir), "echo \"Python "+version+"\"\n")
	writeScript(t, pipPath(dir), fakePipScript)
	return dir
}

// brokenPyenv returns a Tool whose pyenv always fails.
func brokenPyenv(t *testing.T) *Tool {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes require a POSIX shell")
	}
	tmp := t.TempDir()
	bin := filepath.Join(tmp, "pyenv")
	writeScript(t, bin, "echo 'pyenv: command not configured' >&2\nexit 1\n")
	return New(&config.Config{
		PyenvBin:       bin,
		ExportDir:      filepath.Join(tmp, "exports"),
		CommandTimeout: 10 * time.Second,
	})
}
