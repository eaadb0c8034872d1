package rules

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/samhoang/skilo/internal/skill"
)

// NameRegex matches lowercase alphanumeric segments joined by single hyphens
var NameRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// frontmatter locations of the name and description values in the
// canonical layout
const (
	nameLine        = 2
	nameColumn      = 7
	descriptionLine = 3
	descriptionCol  = 14
)

// NameFormat (E001) requires the name to match NameRegex
type NameFormat struct{}

func (NameFormat) Name() string { return "name-format" }

func (NameFormat) Check(m *skill.Manifest) []Diagnostic {
	name := m.Frontmatter.Name
	if NameRegex.MatchString(name) {
		return nil
	}
	return []Diagnostic{{
		Path:    m.Path,
		Line:    nameLine,
		Column:  nameColumn,
		Message: fmt.Sprintf("Invalid name '%s': must be lowercase alphanumeric with single hyphens", name),
		Code:    E001,
		FixHint: "Use only lowercase letters, numbers, and single hyphens",
	}}
}

// NameLength (E002) limits the name length in bytes
type NameLength struct {
	Max int
}

func (NameLength) Name() string { return "name-length" }

func (r NameLength) Check(m *skill.Manifest) []Diagnostic {
	name := m.Frontmatter.Name
	if len(name) <= r.Max {
		return nil
	}
	return []Diagnostic{{
		Path:    m.Path,
		Line:    nameLine,
		Column:  nameColumn,
		Message: fmt.Sprintf("Name too long (%d chars, max %d)", len(name), r.Max),
		Code:    E002,
	}}
}

// NameDirectory (E003) requires the name to equal the skill directory name
type NameDirectory struct{}

func (NameDirectory) Name() string { return "name-directory" }

func (NameDirectory) Check(m *skill.Manifest) []Diagnostic {
	dir := filepath.Base(filepath.Dir(m.Path))
	if dir == "." || dir == string(filepath.Separator) {
		return nil
	}

	name := m.Frontmatter.Name
	if dir == name {
		return nil
	}
	return []Diagnostic{{
		Path:    m.Path,
		Line:    nameLine,
		Column:  nameColumn,
		Message: fmt.Sprintf("Name '%s' does not match directory name '%s'", name, dir),
		Code:    E003,
		FixHint: fmt.Sprintf("Rename to '%s' or move to '%s/SKILL.md'", dir, name),
	}}
}
