package installer

import (
	"os"
	"path/filepath"
)

// Link creates a symlink at dst pointing to the skill directory src
func Link(src, dst string) error {
	abs, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return createSymlink(abs, dst)
}

// IsLink reports whether path is a symlink
func IsLink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}
