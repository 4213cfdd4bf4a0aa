package pyenv

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const bytesPerMB = 1024 * 1024

// FormatSize renders a byte count as megabytes with two decimals, e.g. "120.50 MB".
func FormatSize(bytes int64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/bytesPerMB)
}

// DirSize sums the sizes of all regular files below root. Symlinks to
// regular files count the size of their target; symlinked directories are
// not descended. Unreadable entries are skipped.
func DirSize(root string) (int64, error) {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return 0, err
	}

	var total int64
	err = filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}

		var info fs.FileInfo
		if d.Type()&fs.ModeSymlink != 0 {
			info, err = os.Stat(path)
		} else {
			info, err = d.Info()
		}
		if err != nil {
			return nil
		}
		if info.Mode().IsRegular() {
			total += info.Size()
		}
		return nil
	})
	return total, err
}
