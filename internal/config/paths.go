package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/samhoang/skilo/internal/cache"
)

// Paths holds all resolved paths for skilo operations
type Paths struct {
	Home         string // user home directory
	SkiloDir     string // ~/.skilo (skilo data directory)
	CacheDir     string // ~/.skilo/git
	DBDir        string // ~/.skilo/git/db (bare mirrors)
	CheckoutsDir string // ~/.skilo/git/checkouts (per-commit working trees)
	Offline      bool   // SKILO_OFFLINE
}

// ResolvePaths resolves all paths based on environment and defaults.
// The environment is read here and nowhere else.
func ResolvePaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	skiloDir := os.Getenv("SKILO_HOME")
	if skiloDir == "" {
		skiloDir = filepath.Join(home, ".skilo")
	}

	cacheDir := filepath.Join(skiloDir, "git")

	return &Paths{
		Home:         home,
		SkiloDir:     skiloDir,
		CacheDir:     cacheDir,
		DBDir:        filepath.Join(cacheDir, "db"),
		CheckoutsDir: filepath.Join(cacheDir, "checkouts"),
		Offline:      parseBool(os.Getenv("SKILO_OFFLINE")),
	}, nil
}

// CacheConfig returns the cache configuration handed to the fetcher
func (p *Paths) CacheConfig() cache.Config {
	return cache.Config{
		DBDir:        p.DBDir,
		CheckoutsDir: p.CheckoutsDir,
		Offline:      p.Offline,
	}
}

// ExpandHome replaces a leading ~ with the home directory
func (p *Paths) ExpandHome(path string) string {
	if path == "~" {
		return p.Home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(p.Home, path[2:])
	}
	return path
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
