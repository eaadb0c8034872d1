package rules

import (
	"fmt"

	"github.com/samhoang/skilo/internal/skill"
)

// DescriptionRequired (E004) rejects an empty description
type DescriptionRequired struct{}

func (DescriptionRequired) Name() string { return "description-required" }

func (DescriptionRequired) Check(m *skill.Manifest) []Diagnostic {
	if m.Frontmatter.Description != "" {
		return nil
	}
	return []Diagnostic{{
		Path:    m.Path,
		Line:    descriptionLine,
		Column:  descriptionCol,
		Message: "Description cannot be empty",
		Code:    E004,
	}}
}

// DescriptionLength (E005) limits the description length in bytes
type DescriptionLength struct {
	Max int
}

func (DescriptionLength) Name() string { return "description-length" }

func (r DescriptionLength) Check(m *skill.Manifest) []Diagnostic {
	desc := m.Frontmatter.Description
	if len(desc) <= r.Max {
		return nil
	}
	return []Diagnostic{{
		Path:    m.Path,
		Line:    descriptionLine,
		Column:  descriptionCol,
		Message: fmt.Sprintf("Description too long (%d chars, max %d)", len(desc), r.Max),
		Code:    E005,
	}}
}

// CompatibilityLength (E006) limits the optional compatibility field
type CompatibilityLength struct {
	Max int
}

func (CompatibilityLength) Name() string { return "compatibility-length" }

func (r CompatibilityLength) Check(m *skill.Manifest) []Diagnostic {
	compat := m.Frontmatter.Compatibility
	if compat == nil || len(*compat) <= r.Max {
		return nil
	}
	return []Diagnostic{{
		Path:    m.Path,
		Message: fmt.Sprintf("Compatibility too long (%d chars, max %d)", len(*compat), r.Max),
		Code:    E006,
	}}
}
