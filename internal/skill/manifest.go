// Package skill parses, discovers and formats Agent Skills.
//
// A skill is a directory holding a SKILL.md file: YAML frontmatter between
// two --- markers followed by a markdown body, plus the optional scripts/,
// references/ and assets/ directories.
package skill

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	skiloerrors "github.com/samhoang/skilo/internal/errors"
)

// ManifestFile is the file name that marks a skill directory
const ManifestFile = "SKILL.md"

const frontmatterMarker = "---"

// Manifest is a parsed SKILL.md file
type Manifest struct {
	Path           string
	Frontmatter    Frontmatter
	FrontmatterRaw string
	Body           string
	// BodyStartLine is the 1-based line the body starts after, used to
	// report body diagnostics against the original file
	BodyStartLine int
}

// ParseManifest reads and parses the SKILL.md at path
func ParseManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, skiloerrors.NewIo(path, err)
	}
	return ParseManifestContent(path, string(data))
}

// ParseManifestContent parses manifest content already in memory
func ParseManifestContent(path, content string) (*Manifest, error) {
	raw, body, bodyStartLine, err := SplitContent(content)
	if err != nil {
		return nil, err
	}

	fm, err := decodeFrontmatter(raw)
	if err != nil {
		return nil, skiloerrors.NewInvalidYaml(err)
	}

	return &Manifest{
		Path:           path,
		Frontmatter:    fm,
		FrontmatterRaw: raw,
		Body:           body,
		BodyStartLine:  bodyStartLine,
	}, nil
}

// requiredKeys must be present in every frontmatter, even with an empty value
var requiredKeys = []string{"name", "description"}

func decodeFrontmatter(raw string) (Frontmatter, error) {
	var fm Frontmatter

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return fm, err
	}
	if len(doc.Content) == 0 || doc.Content[0].ShortTag() == "!!null" {
		return fm, fmt.Errorf("missing field `%s`", requiredKeys[0])
	}
	if err := doc.Decode(&fm); err != nil {
		return fm, err
	}

	root := doc.Content[0]
	for _, key := range requiredKeys {
		if !hasKey(root, key) {
			return fm, fmt.Errorf("missing field `%s`", key)
		}
	}
	return fm, nil
}

func hasKey(mapping *yaml.Node, key string) bool {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return true
		}
	}
	return false
}

// SplitContent separates the frontmatter text from the body. Leading
// whitespace before the opening marker is ignored; the frontmatter ends at
// the first line starting with --- after it.
func SplitContent(content string) (frontmatter, body string, bodyStartLine int, err error) {
	content = strings.TrimLeftFunc(content, unicode.IsSpace)

	if !strings.HasPrefix(content, frontmatterMarker) {
		return "", "", 0, skiloerrors.ErrMissingFrontmatter
	}

	afterOpen := content[len(frontmatterMarker):]
	closePos := strings.Index(afterOpen, "\n"+frontmatterMarker)
	if closePos < 0 {
		return "", "", 0, skiloerrors.ErrUnclosedFrontmatter
	}

	frontmatter = strings.TrimSpace(afterOpen[:closePos])

	bodyStart := len(frontmatterMarker) + closePos + len("\n"+frontmatterMarker)
	if bodyStart < len(content) {
		body = strings.TrimLeftFunc(content[bodyStart:], unicode.IsSpace)
	}
	bodyStartLine = countLines(content[:bodyStart]) + 1

	return frontmatter, body, bodyStartLine, nil
}

// countLines counts lines the way a line iterator does: a trailing newline
// does not start a new line.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

// SkillDir returns the directory holding the manifest
func (m *Manifest) SkillDir() string {
	return filepath.Dir(m.Path)
}

// DirName returns the base name of the skill directory
func (m *Manifest) DirName() string {
	return filepath.Base(m.SkillDir())
}

// Render reassembles the file from the raw frontmatter and body
func (m *Manifest) Render() string {
	return fmt.Sprintf("---\n%s\n---\n\n%s", strings.TrimSpace(m.FrontmatterRaw), m.Body)
}

// Formatted reassembles the file with canonical frontmatter
func (m *Manifest) Formatted() (string, error) {
	yml, err := m.Frontmatter.ToYAML()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("---\n%s---\n\n%s", yml, m.Body), nil
}
