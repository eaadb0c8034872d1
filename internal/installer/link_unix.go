//go:build !windows

package installer

import (
	"os"
	"path/filepath"
)

// createSymlink links dst to target using a path relative to dst's parent,
// so a linked project can be moved as a whole
func createSymlink(target, dst string) error {
	rel, err := filepath.Rel(filepath.Dir(dst), target)
	if err != nil {
		rel = target
	}
	return os.Symlink(rel, dst)
}
