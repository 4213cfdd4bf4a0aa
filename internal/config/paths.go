package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DataDir returns the default data directory for venvdash.
// Windows: %LOCALAPPDATA%\venvdash
// Linux/Mac: ~/.local/share/venvdash
func DataDir() string {
	if dir := os.Getenv("VENVDASH_DATA_DIR"); dir != "" {
		return dir
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "venvdash")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "venvdash")
}

// ExportDir returns the directory where requirements exports are stored.
func ExportDir() string {
	if dir := os.Getenv("VENVDASH_EXPORT_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(DataDir(), "exports")
}
