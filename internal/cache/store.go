// Package cache manages the on-disk git cache: bare repository mirrors under
// db/ and per-commit working trees under checkouts/.
//
//	db/{owner}-{repo}/                     bare mirror
//	checkouts/{owner}-{repo}-{commit}/     detached HEAD working tree
//
// Keys are case-sensitive. Checkouts are immutable once created: a newer
// commit gets a new directory, an existing one is never checked out again.
package cache

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/samhoang/skilo/internal/logger"
)

// Config locates the cache and carries the offline flag. It is resolved once
// at the process boundary and passed down explicitly.
type Config struct {
	DBDir        string
	CheckoutsDir string
	Offline      bool
}

// Store answers naming and existence questions about the cache
type Store struct {
	cfg Config
}

// NewStore creates a store over cfg
func NewStore(cfg Config) *Store {
	return &Store{cfg: cfg}
}

// Config returns the store configuration
func (s *Store) Config() Config {
	return s.cfg
}

// DBName is the mirror key for owner/repo
func DBName(owner, repo string) string {
	return owner + "-" + repo
}

// CheckoutName is the checkout key for owner/repo at commit
func CheckoutName(owner, repo, commit string) string {
	return owner + "-" + repo + "-" + commit
}

// DBPath returns the bare mirror directory for owner/repo
func (s *Store) DBPath(owner, repo string) string {
	return filepath.Join(s.cfg.DBDir, DBName(owner, repo))
}

// CheckoutPath returns the working tree directory for owner/repo at commit
func (s *Store) CheckoutPath(owner, repo, commit string) string {
	return filepath.Join(s.cfg.CheckoutsDir, CheckoutName(owner, repo, commit))
}

// HasDB reports whether a mirror directory exists
func (s *Store) HasDB(owner, repo string) bool {
	return isDir(s.DBPath(owner, repo))
}

// HasCheckout reports whether a checkout directory exists
func (s *Store) HasCheckout(owner, repo, commit string) bool {
	return isDir(s.CheckoutPath(owner, repo, commit))
}

// IsOffline reports whether network operations are forbidden
func (s *Store) IsOffline() bool {
	return s.cfg.Offline
}

// EnsureDirs creates the db and checkouts roots
func (s *Store) EnsureDirs() error {
	for _, dir := range []string{s.cfg.DBDir, s.cfg.CheckoutsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// Usage summarizes what is on disk
type Usage struct {
	Mirrors   int
	Checkouts int
	Bytes     int64
}

// Usage walks the cache and counts entries and bytes
func (s *Store) Usage() (Usage, error) {
	var u Usage

	mirrors, err := readDirs(s.cfg.DBDir)
	if err != nil {
		return u, err
	}
	checkouts, err := readDirs(s.cfg.CheckoutsDir)
	if err != nil {
		return u, err
	}
	u.Mirrors = len(mirrors)
	u.Checkouts = len(checkouts)

	for _, root := range []string{s.cfg.DBDir, s.cfg.CheckoutsDir} {
		n, err := dirSize(root)
		if err != nil {
			return u, err
		}
		u.Bytes += n
	}
	return u, nil
}

// CleanOptions selects what Clean removes
type CleanOptions struct {
	// All removes every mirror and checkout
	All bool
	// MaxAge removes checkouts not modified within this duration
	MaxAge time.Duration
	// Now is the reference time, defaults to time.Now()
	Now time.Time
}

// CleanResult reports what Clean removed
type CleanResult struct {
	Removed []string
	Bytes   int64
}

// Clean removes stale checkouts, or the whole cache with opts.All.
// Failures on individual entries do not stop the sweep; they are returned
// together once every entry has been visited.
func (s *Store) Clean(ctx context.Context, opts CleanOptions) (*CleanResult, error) {
	log := logger.G(ctx)
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	var targets []string

	checkouts, err := readDirs(s.cfg.CheckoutsDir)
	if err != nil {
		return nil, err
	}
	for _, entry := range checkouts {
		path := filepath.Join(s.cfg.CheckoutsDir, entry.Name())
		if opts.All {
			targets = append(targets, path)
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) > opts.MaxAge {
			targets = append(targets, path)
		}
	}

	if opts.All {
		mirrors, err := readDirs(s.cfg.DBDir)
		if err != nil {
			return nil, err
		}
		for _, entry := range mirrors {
			targets = append(targets, filepath.Join(s.cfg.DBDir, entry.Name()))
		}
	}

	result := &CleanResult{}
	var errs *multierror.Error

	for _, path := range targets {
		size, _ := dirSize(path)
		if err := os.RemoveAll(path); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		log.WithField("path", path).Debug("removed cache entry")
		result.Removed = append(result.Removed, path)
		result.Bytes += size
	}

	return result, errs.ErrorOrNil()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func readDirs(root string) ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	dirs := entries[:0]
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e)
		}
	}
	return dirs, nil
}

func dirSize(root string) (int64, error) {
	var size int64
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				size += info.Size()
			}
		}
		return nil
	})
	return size, err
}
