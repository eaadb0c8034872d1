// Package rules holds the lint rules for skill manifests and the
// diagnostics they produce.
package rules

import (
	"strings"

	"github.com/samhoang/skilo/internal/skill"
)

// Code is a stable diagnostic identifier. Codes starting with E are
// errors, codes starting with W are warnings.
type Code string

const (
	E001 Code = "E001" // invalid name format
	E002 Code = "E002" // name too long
	E003 Code = "E003" // name does not match directory
	E004 Code = "E004" // missing description
	E005 Code = "E005" // description too long
	E006 Code = "E006" // compatibility too long
	E007 Code = "E007" // invalid frontmatter
	E008 Code = "E008" // missing SKILL.md
	E009 Code = "E009" // referenced file not found

	W001 Code = "W001" // body too long
	W002 Code = "W002" // script not executable
	W003 Code = "W003" // script missing shebang
	W004 Code = "W004" // empty optional directory
)

var descriptions = map[Code]string{
	E001: "Invalid skill name format",
	E002: "Skill name exceeds maximum length",
	E003: "Skill name does not match directory name",
	E004: "Missing skill description",
	E005: "Skill description exceeds maximum length",
	E006: "Compatibility field exceeds maximum length",
	E007: "Invalid YAML in frontmatter",
	E008: "Missing SKILL.md file",
	E009: "Referenced file not found",
	W001: "Skill body exceeds recommended length",
	W002: "Script is not executable",
	W003: "Script missing shebang line",
	W004: "Empty optional directory",
}

// Codes lists every known code in order
var Codes = []Code{E001, E002, E003, E004, E005, E006, E007, E008, E009, W001, W002, W003, W004}

// IsError reports whether the code is an error rather than a warning
func (c Code) IsError() bool {
	return strings.HasPrefix(string(c), "E")
}

// Description returns the short rule description used in SARIF output
func (c Code) Description() string {
	return descriptions[c]
}

func (c Code) String() string {
	return string(c)
}

// Diagnostic is a single lint finding. Line and Column are 1-based; zero
// means the location is unknown.
type Diagnostic struct {
	Path    string
	Line    int
	Column  int
	Message string
	Code    Code
	FixHint string
}

// ValidationResult collects diagnostics split by severity
type ValidationResult struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
}

// Add routes d into Errors or Warnings by its code
func (r *ValidationResult) Add(d Diagnostic) {
	if d.Code.IsError() {
		r.Errors = append(r.Errors, d)
	} else {
		r.Warnings = append(r.Warnings, d)
	}
}

// Merge appends the diagnostics of other
func (r *ValidationResult) Merge(other ValidationResult) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// IsOK reports whether there are no errors
func (r ValidationResult) IsOK() bool {
	return len(r.Errors) == 0
}

// IsOKStrict reports whether there are neither errors nor warnings
func (r ValidationResult) IsOKStrict() bool {
	return len(r.Errors) == 0 && len(r.Warnings) == 0
}

// Rule checks one aspect of a manifest. Rules are stateless apart from
// their configured threshold and only read the filesystem.
type Rule interface {
	Name() string
	Check(m *skill.Manifest) []Diagnostic
}
