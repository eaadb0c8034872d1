package skill

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// LoadResult is the outcome of parsing one discovered manifest. Exactly one
// of Manifest and Err is set.
type LoadResult struct {
	Path     string
	Manifest *Manifest
	Err      error
}

// FindSkills returns the SKILL.md files under root.
//
// If root is a SKILL.md file, or a directory directly containing one, that
// single file is returned. Otherwise the tree is walked, following
// symlinks, and directories whose path relative to root or whose bare name
// matches one of the ignore globs are pruned. Results are in walk order.
func FindSkills(root string, ignore []string) []string {
	info, err := os.Stat(root)
	if err != nil {
		return nil
	}
	if !info.IsDir() {
		if filepath.Base(root) == ManifestFile {
			return []string{root}
		}
		return nil
	}

	direct := filepath.Join(root, ManifestFile)
	if fileExists(direct) {
		return []string{direct}
	}

	w := &walker{
		root:     root,
		patterns: validPatterns(ignore),
		visited:  make(map[string]bool),
	}
	w.walk(root)
	return w.found
}

// LoadSkills finds and parses every skill under root. A manifest that fails
// to parse is reported in its LoadResult and does not stop the others.
func LoadSkills(root string, ignore []string) []LoadResult {
	return LoadPaths(FindSkills(root, ignore))
}

// LoadPaths parses each manifest path
func LoadPaths(paths []string) []LoadResult {
	results := make([]LoadResult, 0, len(paths))
	for _, p := range paths {
		m, err := ParseManifest(p)
		results = append(results, LoadResult{Path: p, Manifest: m, Err: err})
	}
	return results
}

type walker struct {
	root     string
	patterns []string
	visited  map[string]bool
	found    []string
}

func (w *walker) walk(dir string) {
	// symlink cycles
	if real, err := filepath.EvalSymlinks(dir); err == nil {
		if w.visited[real] {
			return
		}
		w.visited[real] = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		isDir := entry.IsDir()
		if entry.Type()&os.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				continue
			}
			isDir = target.IsDir()
		}

		if isDir {
			if w.ignored(path, entry.Name()) {
				continue
			}
			w.walk(path)
			continue
		}

		if entry.Name() == ManifestFile {
			w.found = append(w.found, path)
		}
	}
}

func (w *walker) ignored(path, name string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	for _, p := range w.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

func validPatterns(patterns []string) []string {
	valid := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = filepath.ToSlash(p)
		if doublestar.ValidatePattern(p) {
			valid = append(valid, p)
		}
	}
	return valid
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
