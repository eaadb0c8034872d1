//go:build windows

package installer

import "os"

// createSymlink links dst to target. Directory symlinks need Developer
// Mode or elevated privileges on Windows.
func createSymlink(target, dst string) error {
	return os.Symlink(target, dst)
}
