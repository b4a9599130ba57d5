package pathutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// SanitizeOutputPath returns the absolute, cleaned form of path if a
// normalized document may be written there. The target must be a regular
// file or not exist yet; symlinks and directories are refused.
func SanitizeOutputPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("pathutil: resolve %q: %w", path, err)
	}

	info, err := os.Lstat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return abs, nil
	}
	if err != nil {
		return "", fmt.Errorf("pathutil: inspect %s: %w", abs, err)
	}

	switch mode := info.Mode(); {
	case mode&fs.ModeSymlink != 0:
		return "", fmt.Errorf("pathutil: output path %s is a symlink", abs)
	case mode.IsDir():
		return "", fmt.Errorf("pathutil: output path %s is a directory", abs)
	}
	return abs, nil
}
