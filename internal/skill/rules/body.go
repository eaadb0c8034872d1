package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/samhoang/skilo/internal/skill"
)

var referencePattern = regexp.MustCompile("`((?:scripts|references|assets)/[^`]+)`")

// ReferencesExist (E009) requires every backtick-quoted scripts/,
// references/ or assets/ path in the body to exist in the skill directory
type ReferencesExist struct{}

func (ReferencesExist) Name() string { return "references-exist" }

func (ReferencesExist) Check(m *skill.Manifest) []Diagnostic {
	dir := m.SkillDir()

	var diags []Diagnostic
	for _, match := range referencePattern.FindAllStringSubmatch(m.Body, -1) {
		ref := match[1]
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(ref))); err == nil {
			continue
		}
		diags = append(diags, Diagnostic{
			Path:    m.Path,
			Message: fmt.Sprintf("Referenced file not found: %s", ref),
			Code:    E009,
			FixHint: fmt.Sprintf("Create %s or remove the reference", ref),
		})
	}
	return diags
}

// BodyLength (W001) warns when the body has more than Max lines. The
// diagnostic points at the first line past the limit.
type BodyLength struct {
	Max int
}

func (BodyLength) Name() string { return "body-length" }

func (r BodyLength) Check(m *skill.Manifest) []Diagnostic {
	lines := countLines(m.Body)
	if lines <= r.Max {
		return nil
	}
	return []Diagnostic{{
		Path:    m.Path,
		Line:    m.BodyStartLine + r.Max,
		Message: fmt.Sprintf("Body exceeds recommended %d lines (%d lines). Consider using references/", r.Max, lines),
		Code:    W001,
		FixHint: "Move detailed content to references/ directory",
	}}
}

// countLines does not count a final empty line after a trailing newline
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
