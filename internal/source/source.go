// Package source parses user supplied skill sources: GitHub shorthand,
// HTTPS URLs (optionally pointing into a tree), SSH URLs and local paths.
package source

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	skiloerrors "github.com/samhoang/skilo/internal/errors"
)

// Kind distinguishes git sources from local paths
type Kind int

const (
	KindGit Kind = iota
	KindLocal
)

const expectedFormats = "Expected: owner/repo, https://github.com/owner/repo, git@github.com:owner/repo.git, or local path"

// Descriptor is a parsed source. For KindGit, URL always ends in .git and
// Branch wins over Tag when resolving a reference. For KindLocal only Path
// is set. Descriptors are values and are never modified after parsing.
type Descriptor struct {
	Kind   Kind
	URL    string
	Branch string
	Tag    string
	Subdir string
	Path   string
}

// IsLocal reports whether the descriptor is a local path
func (d Descriptor) IsLocal() bool {
	return d.Kind == KindLocal
}

// Reference returns the branch, else the tag, else ""
func (d Descriptor) Reference() string {
	if d.Branch != "" {
		return d.Branch
	}
	return d.Tag
}

// DisplayName returns a short human name such as owner/repo
func (d Descriptor) DisplayName() string {
	if d.Kind == KindLocal {
		return d.Path
	}

	u := strings.TrimSuffix(d.URL, ".git")
	if idx := strings.Index(u, "://"); idx >= 0 {
		rest := u[idx+3:]
		if slash := strings.Index(rest, "/"); slash >= 0 {
			return rest[slash+1:]
		}
	}
	if strings.HasPrefix(u, "git@") {
		if colon := strings.Index(u, ":"); colon >= 0 {
			return u[colon+1:]
		}
	}
	return u
}

// WithOverrides returns a copy with branch and tag replaced when non-empty.
// Explicit flags win over anything parsed from the URL.
func (d Descriptor) WithOverrides(branch, tag string) Descriptor {
	if d.Kind != KindGit {
		return d
	}
	if branch != "" {
		d.Branch = branch
	}
	if tag != "" {
		d.Tag = tag
	}
	return d
}

// Parse recognizes, in order: local paths, SSH URLs, HTTP(S) URLs and
// owner/repo shorthand.
func Parse(input string) (Descriptor, error) {
	switch {
	case isLocalPath(input):
		return Descriptor{Kind: KindLocal, Path: expandHome(input)}, nil
	case strings.HasPrefix(input, "git@"):
		return parseSSH(input)
	case strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://"):
		return parseHTTPS(input)
	case isGitHubShorthand(input):
		return Descriptor{Kind: KindGit, URL: "https://github.com/" + input + ".git"}, nil
	}
	return Descriptor{}, skiloerrors.NewInvalidSource(input, expectedFormats)
}

// ParseWithOverrides parses input and applies branch/tag flags
func ParseWithOverrides(input, branch, tag string) (Descriptor, error) {
	d, err := Parse(input)
	if err != nil {
		return d, err
	}
	return d.WithOverrides(branch, tag), nil
}

func isLocalPath(s string) bool {
	return strings.HasPrefix(s, "/") ||
		strings.HasPrefix(s, "./") ||
		strings.HasPrefix(s, "../") ||
		strings.HasPrefix(s, "~")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// git@host:owner/repo(.git)
func parseSSH(input string) (Descriptor, error) {
	rest := strings.TrimPrefix(input, "git@")
	host, path, ok := strings.Cut(rest, ":")
	if !ok {
		return Descriptor{}, skiloerrors.NewInvalidSource(input, "SSH URL must be in format git@host:owner/repo.git")
	}
	path = strings.TrimSuffix(path, ".git")
	return Descriptor{Kind: KindGit, URL: "git@" + host + ":" + path + ".git"}, nil
}

// https://host/owner/repo[.git][/tree/<branch>[/<subdir>]]
func parseHTTPS(input string) (Descriptor, error) {
	u, err := url.Parse(input)
	if err != nil {
		return Descriptor{}, skiloerrors.NewInvalidSource(input, "Invalid URL format")
	}
	if u.Host == "" {
		return Descriptor{}, skiloerrors.NewInvalidSource(input, "URL must have a host")
	}

	path := strings.TrimSuffix(strings.TrimLeft(u.Path, "/"), ".git")

	if idx := strings.Index(path, "/tree/"); idx >= 0 {
		repoPath := path[:idx]
		rest := path[idx+len("/tree/"):]

		d := Descriptor{Kind: KindGit, URL: "https://" + u.Host + "/" + repoPath + ".git"}
		if branch, subdir, ok := strings.Cut(rest, "/"); ok {
			d.Branch = branch
			d.Subdir = subdir
		} else {
			d.Branch = rest
		}
		return d, nil
	}

	return Descriptor{Kind: KindGit, URL: "https://" + u.Host + "/" + path + ".git"}, nil
}

func isGitHubShorthand(s string) bool {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return false
	}
	return isValidName(parts[0]) && isValidName(parts[1])
}

func isValidName(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}

// OwnerRepo extracts the cache key from a GitHub URL. Both
// https://github.com/owner/repo(.git) and git@github.com:owner/repo(.git)
// are keyable; every other host or shape is not.
func OwnerRepo(rawURL string) (owner, repo string, ok bool) {
	var path string
	switch {
	case strings.HasPrefix(rawURL, "https://github.com/"):
		path = strings.TrimPrefix(rawURL, "https://github.com/")
	case strings.HasPrefix(rawURL, "http://github.com/"):
		path = strings.TrimPrefix(rawURL, "http://github.com/")
	case strings.HasPrefix(rawURL, "git@github.com:"):
		path = strings.TrimPrefix(rawURL, "git@github.com:")
	default:
		return "", "", false
	}

	path = strings.TrimSuffix(path, ".git")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || !isValidName(parts[0]) || !isValidName(parts[1]) {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// SSHURL rewrites https://github.com/owner/repo(.git) to
// git@github.com:owner/repo.git. Any other URL has no SSH equivalent.
func SSHURL(rawURL string) (string, bool) {
	trimmed := strings.TrimSuffix(rawURL, ".git")
	path, ok := strings.CutPrefix(trimmed, "https://github.com/")
	if !ok {
		return "", false
	}
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", false
	}
	return "git@github.com:" + path + ".git", true
}
