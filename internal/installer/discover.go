// Package installer finds skills in a fetched source and copies them into
// agent skills directories.
package installer

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samhoang/skilo/internal/agent"
	"github.com/samhoang/skilo/internal/logger"
	"github.com/samhoang/skilo/internal/skill"
	"github.com/samhoang/skilo/internal/skill/rules"
	"github.com/samhoang/skilo/internal/skill/validator"
)

// Candidate is a skill found in a source, ready to install
type Candidate struct {
	Name        string
	Description string
	// Dir is the skill directory inside the source
	Dir    string
	Result rules.ValidationResult
}

// Valid reports whether the skill has no validation errors
func (c Candidate) Valid() bool { return c.Result.IsOK() }

// ErrorMessages returns the validation error messages
func (c Candidate) ErrorMessages() []string {
	msgs := make([]string, 0, len(c.Result.Errors))
	for _, d := range c.Result.Errors {
		msgs = append(msgs, d.Message)
	}
	return msgs
}

// Discover finds skills under root. When root itself holds none, the
// conventional locations are searched: skills/ and every agent's project
// skills directory. Unparseable manifests are skipped. A nil validator
// accepts every skill. Results are sorted by name.
func Discover(root string, ignore []string, v *validator.Validator) []Candidate {
	paths := skill.FindSkills(root, ignore)
	if len(paths) == 0 {
		seen := map[string]bool{}
		for _, rel := range agent.CandidateDirs() {
			dir := filepath.Join(root, rel)
			if _, err := os.Stat(dir); err != nil {
				continue
			}
			for _, p := range skill.FindSkills(dir, ignore) {
				if !seen[p] {
					seen[p] = true
					paths = append(paths, p)
				}
			}
		}
	}

	var out []Candidate
	for _, p := range paths {
		m, err := skill.ParseManifest(p)
		if err != nil {
			logger.L.WithError(err).WithField("path", p).Debug("skipping unparseable skill")
			continue
		}
		c := Candidate{
			Name:        m.Frontmatter.Name,
			Description: m.Frontmatter.Description,
			Dir:         m.SkillDir(),
		}
		if c.Name == "" {
			c.Name = m.DirName()
		}
		if v != nil {
			c.Result = v.Validate(m)
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Filter keeps candidates whose name is in names; empty names keeps all
func Filter(cands []Candidate, names []string) []Candidate {
	if len(names) == 0 {
		return cands
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []Candidate
	for _, c := range cands {
		if want[c.Name] {
			out = append(out, c)
		}
	}
	return out
}

// FeatureWarnings lists features the skill uses that the agent lacks
func FeatureWarnings(c Candidate, a agent.Agent) []string {
	data, err := os.ReadFile(filepath.Join(c.Dir, skill.ManifestFile))
	if err != nil {
		return nil
	}
	content := string(data)
	features := a.Features()

	var warnings []string
	if strings.Contains(content, "context: fork") && !features.ContextFork {
		warnings = append(warnings, "Skill '"+c.Name+"' uses 'context: fork' which is only supported by Claude Code")
	}
	if strings.Contains(content, "hooks:") && !features.Hooks {
		warnings = append(warnings, "Skill '"+c.Name+"' uses hooks which may not be supported by "+a.DisplayName())
	}
	return warnings
}
