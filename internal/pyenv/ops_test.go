package pyenv

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ThatCatDev/venvdash/pkg/api"
)

func TestListPackages(t *testing.T) {
	f := newFixture(t)
	f.addEnv(t, "web", "3.12.1")

	out, err := f.tool.ListPackages(context.Background(), "web")
	if err != nil {
		t.Fatalf("ListPackages: %v", err)
	}
	var pkgs []api.Package
	if err := json.Unmarshal([]byte(out), &pkgs); err != nil {
		t.Fatalf("output is not pip JSON: %v (%q)", err, out)
	}
	if len(pkgs) != 2 || pkgs[1].Name != "requests" {
		t.Errorf("packages = %+v", pkgs)
	}
}

func TestListPackagesNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.tool.ListPackages(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestListPackagesPipFails(t *testing.T) {
	f := newFixture(t)
	dir := f.addEnv(t, "web", "3.12.1")
	writeScript(t, pipPath(dir), "echo 'pip is broken' >&2\nexit 1\n")

	_, err := f.tool.ListPackages(context.Background(), "web")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("error = %v, want *CommandError", err)
	}
	if cmdErr.Message() != "pip is broken" {
		t.Errorf("Message = %q", cmdErr.Message())
	}
}

func TestCreateEnvironment(t *testing.T) {
	f := newFixture(t)
	f.addEnv(t, "3.11.4", "3.11.4")

	if err := f.tool.CreateEnvironment(context.Background(), "api", "3.11.4"); err != nil {
		t.Fatalf("CreateEnvironment: %v", err)
	}
	if !isExecutable(pythonPath(filepath.Join(VersionsDir(f.root), "api"))) {
		t.Error("environment was not created")
	}
}

func TestCreateEnvironmentExisting(t *testing.T) {
	f := newFixture(t)
	f.addEnv(t, "3.11.4", "3.11.4")
	f.addEnv(t, "api", "3.11.4")

	err := f.tool.CreateEnvironment(context.Background(), "api", "3.11.4")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("error = %v, want *CommandError", err)
	}
	if !strings.Contains(cmdErr.Message(), "already exists") {
		t.Errorf("Message = %q, want pyenv failure text", cmdErr.Message())
	}
}

func TestCreateEnvironmentUnknownVersion(t *testing.T) {
	f := newFixture(t)
	err := f.tool.CreateEnvironment(context.Background(), "api", "9.9.9")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("error = %v, want *CommandError", err)
	}
	if !strings.Contains(cmdErr.Message(), "not installed") {
		t.Errorf("Message = %q", cmdErr.Message())
	}
}

func TestCreateEnvironmentRequiresRoot(t *testing.T) {
	tool := brokenPyenv(t)
	err := tool.CreateEnvironment(context.Background(), "api", "3.11.4")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("error = %v, want ErrNotConfigured", err)
	}
}

func TestCreateEnvironmentValidates(t *testing.T) {
	f := newFixture(t)
	err := f.tool.CreateEnvironment(context.Background(), "api", "--force")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}

func TestDeleteEnvironment(t *testing.T) {
	f := newFixture(t)
	dir := f.addEnv(t, "old", "3.8.0")

	if err := f.tool.DeleteEnvironment(context.Background(), "old"); err != nil {
		t.Fatalf("DeleteEnvironment: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("directory still present: %v", err)
	}
}

func TestDeleteLinkedEnvironment(t *testing.T) {
	f := newFixture(t)
	f.addEnv(t, "3.11.4", "3.11.4")
	real := filepath.Join(VersionsDir(f.root), "3.11.4", "envs", "web")
	writeScript(t, pythonPath(real), "echo 'Python 3.11.4'\n")
	link := filepath.Join(VersionsDir(f.root), "web")
	if err := os.Symlink(real, link); err != nil {
		t.Fatal(err)
	}

	if err := f.tool.DeleteEnvironment(context.Background(), "web"); err != nil {
		t.Fatalf("DeleteEnvironment: %v", err)
	}
	if _, err := os.Lstat(link); !os.IsNotExist(err) {
		t.Errorf("link still present: %v", err)
	}
	if _, err := os.Stat(real); !os.IsNotExist(err) {
		t.Errorf("environment directory %s still on disk: %v", real, err)
	}
	if !isExecutable(pythonPath(filepath.Join(VersionsDir(f.root), "3.11.4"))) {
		t.Error("base version was removed along with the environment")
	}
}

func TestDeleteDanglingLink(t *testing.T) {
	f := newFixture(t)
	link := filepath.Join(VersionsDir(f.root), "stale")
	if err := os.Symlink(filepath.Join(f.root, "gone"), link); err != nil {
		t.Fatal(err)
	}

	if err := f.tool.DeleteEnvironment(context.Background(), "stale"); err != nil {
		t.Fatalf("DeleteEnvironment: %v", err)
	}
	if _, err := os.Lstat(link); !os.IsNotExist(err) {
		t.Errorf("link still present: %v", err)
	}
}

func TestDeleteEnvironmentNotFound(t *testing.T) {
	f := newFixture(t)
	err := f.tool.DeleteEnvironment(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if err.Error() != "ghost no encontrado" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestDeleteEnvironmentRejectsTraversal(t *testing.T) {
	f := newFixture(t)
	err := f.tool.DeleteEnvironment(context.Background(), "..")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
	if _, err := os.Stat(VersionsDir(f.root)); err != nil {
		t.Errorf("versions dir touched: %v", err)
	}
}

func TestCloneEnvironment(t *testing.T) {
	f := newFixture(t)
	f.addEnv(t, "web", "3.12.1")

	if err := f.tool.CloneEnvironment(context.Background(), "web", "web-copy"); err != nil {
		t.Fatalf("CloneEnvironment: %v", err)
	}
	clone := filepath.Join(VersionsDir(f.root), "web-copy")
	if !isExecutable(pythonPath(clone)) {
		t.Error("clone has no interpreter")
	}
	info, err := os.Lstat(clone)
	if err != nil {
		t.Fatal(err)
	}
	if !info.IsDir() {
		t.Error("clone is not a real directory")
	}
}

func TestCloneSymlinkedEnvironment(t *testing.T) {
	f := newFixture(t)
	real := filepath.Join(VersionsDir(f.root), "3.12.1", "envs", "web")
	writeScript(t, pythonPath(real), "echo 'Python 3.12.1'\n")
	if err := os.Symlink(real, filepath.Join(VersionsDir(f.root), "web")); err != nil {
		t.Fatal(err)
	}

	if err := f.tool.CloneEnvironment(context.Background(), "web", "web2"); err != nil {
		t.Fatalf("CloneEnvironment: %v", err)
	}
	info, err := os.Lstat(filepath.Join(VersionsDir(f.root), "web2"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		t.Error("clone of a linked environment is itself a link")
	}
}

func TestCloneEnvironmentMissingSource(t *testing.T) {
	f := newFixture(t)
	err := f.tool.CloneEnvironment(context.Background(), "ghost", "copy")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestCloneEnvironmentExistingTarget(t *testing.T) {
	f := newFixture(t)
	f.addEnv(t, "web", "3.12.1")
	f.addEnv(t, "taken", "3.12.1")

	err := f.tool.CloneEnvironment(context.Background(), "web", "taken")
	if !errors.Is(err, ErrExists) {
		t.Fatalf("error = %v, want ErrExists", err)
	}
	if err.Error() != "taken ya existe" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestExportRequirements(t *testing.T) {
	f := newFixture(t)
	f.addEnv(t, "web", "3.12.1")

	path, err := f.tool.ExportRequirements(context.Background(), "web")
	if err != nil {
		t.Fatalf("ExportRequirements: %v", err)
	}
	if path != filepath.Join(f.exportDir, "web_requirements.txt") {
		t.Errorf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "requests==2.31.0\n" {
		t.Errorf("content = %q", string(data))
	}
}

func TestExportRequirementsFailureRemovesFile(t *testing.T) {
	f := newFixture(t)
	dir := f.addEnv(t, "web", "3.12.1")
	writeScript(t, pipPath(dir), "echo partial\nexit 1\n")

	if _, err := f.tool.ExportRequirements(context.Background(), "web"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(filepath.Join(f.exportDir, "web_requirements.txt")); !os.IsNotExist(err) {
		t.Errorf("partial export left behind: %v", err)
	}
}

func TestExportRequirementsFailureKeepsPrevious(t *testing.T) {
	f := newFixture(t)
	dir := f.addEnv(t, "web", "3.12.1")

	path, err := f.tool.ExportRequirements(context.Background(), "web")
	if err != nil {
		t.Fatalf("ExportRequirements: %v", err)
	}
	writeScript(t, pipPath(dir), "echo partial\nexit 1\n")

	if _, err := f.tool.ExportRequirements(context.Background(), "web"); err == nil {
		t.Fatal("expected error")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("previous export lost: %v", err)
	}
	if string(data) != "requests==2.31.0\n" {
		t.Errorf("previous export overwritten: %q", string(data))
	}

	entries, err := os.ReadDir(f.exportDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("export dir = %v, want only %s", names, filepath.Base(path))
	}
}

func TestExportImportIdempotent(t *testing.T) {
	f := newFixture(t)
	f.addEnv(t, "web", "3.12.1")

	path, err := f.tool.ExportRequirements(context.Background(), "web")
	if err != nil {
		t.Fatalf("ExportRequirements: %v", err)
	}
	file := filepath.Base(path)
	for i := 0; i < 2; i++ {
		if err := f.tool.ImportRequirements(context.Background(), "web", file); err != nil {
			t.Fatalf("ImportRequirements #%d: %v", i+1, err)
		}
	}
}

func TestImportRequirementsMissingFile(t *testing.T) {
	f := newFixture(t)
	f.addEnv(t, "web", "3.12.1")

	err := f.tool.ImportRequirements(context.Background(), "web", "nothing.txt")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestImportRequirementsRejectsPaths(t *testing.T) {
	f := newFixture(t)
	f.addEnv(t, "web", "3.12.1")

	for _, file := range []string{"/etc/passwd", "../secrets.txt", "a/b.txt"} {
		err := f.tool.ImportRequirements(context.Background(), "web", file)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ImportRequirements(%q) = %v, want ErrInvalidInput", file, err)
		}
	}
}
