package agent

import (
	"os"
	"path/filepath"
	"sort"

	skiloerrors "github.com/samhoang/skilo/internal/errors"
	"github.com/samhoang/skilo/internal/logger"
	"github.com/samhoang/skilo/internal/skill"
)

// Scope is where skills are installed
type Scope int

const (
	// Project skills live under the working directory
	Project Scope = iota
	// Global skills live under the user's home directory
	Global
)

func (s Scope) String() string {
	if s == Global {
		return "global"
	}
	return "project"
}

// IsGlobal reports whether s is the user-level scope
func (s Scope) IsGlobal() bool { return s == Global }

// InstalledSkill is a skill directory found in an agent's skills dir
type InstalledSkill struct {
	Name        string
	Description string
	Path        string
	Agent       Agent
	Scope       Scope
}

// Detected is an agent found on this machine or in this project
type Detected struct {
	Agent      Agent
	Scope      Scope
	SkillsDir  string
	SkillCount int
}

// Locator resolves skills directories against a project root and a home
// directory, both fixed at construction.
type Locator struct {
	Root string
	Home string
}

// NewLocator returns a Locator for root and home
func NewLocator(root, home string) *Locator {
	return &Locator{Root: root, Home: home}
}

// SkillsDir returns the agent's skills directory for scope
func (l *Locator) SkillsDir(a Agent, scope Scope) string {
	if scope == Global {
		return a.GlobalSkillsDir(l.Home)
	}
	return a.ProjectSkillsDir(l.Root)
}

// EnsureSkillsDir creates the skills directory if needed and returns it
func (l *Locator) EnsureSkillsDir(a Agent, scope Scope) (string, error) {
	dir := l.SkillsDir(a, scope)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", skiloerrors.NewIo(dir, err)
	}
	return dir, nil
}

// DetectProject returns agents that appear to be used in the project
func (l *Locator) DetectProject() []Agent {
	var out []Agent
	for _, a := range agents {
		if a.detectedInProject(l.Root) {
			out = append(out, a)
		}
	}
	return out
}

// DetectGlobal returns agents configured for the current user
func (l *Locator) DetectGlobal() []Agent {
	var out []Agent
	for _, a := range agents {
		if a.detectedGlobally(l.Home) {
			out = append(out, a)
		}
	}
	return out
}

// Detect returns project detections followed by global ones, with the
// number of skills installed in each
func (l *Locator) Detect() []Detected {
	var out []Detected
	add := func(found []Agent, scope Scope) {
		for _, a := range found {
			dir := l.SkillsDir(a, scope)
			skills, _ := ListSkills(dir, a, scope)
			out = append(out, Detected{Agent: a, Scope: scope, SkillsDir: dir, SkillCount: len(skills)})
		}
	}
	add(l.DetectProject(), Project)
	add(l.DetectGlobal(), Global)
	return out
}

// List returns the skills installed for the agent in scope
func (l *Locator) List(a Agent, scope Scope) ([]InstalledSkill, error) {
	return ListSkills(l.SkillsDir(a, scope), a, scope)
}

// Exists reports whether a skill named name is installed for a in scope
func (l *Locator) Exists(a Agent, scope Scope, name string) bool {
	return SkillExists(l.SkillsDir(a, scope), name)
}

// ExistsInOtherScope reports whether name is also installed in the
// opposite scope. A project skill shadows a global one with the same name.
func (l *Locator) ExistsInOtherScope(a Agent, scope Scope, name string) bool {
	other := Global
	if scope == Global {
		other = Project
	}
	return l.Exists(a, other, name)
}

// ListSkills reads every direct subdirectory of dir that holds a SKILL.md.
// A missing dir yields no skills. Name and description come from the
// frontmatter, falling back to the directory name when it cannot be read.
func ListSkills(dir string, a Agent, scope Scope) ([]InstalledSkill, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, skiloerrors.NewIo(dir, err)
	}

	var skills []InstalledSkill
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if !isDir(path) {
			continue
		}
		manifestPath := filepath.Join(path, skill.ManifestFile)
		if _, err := os.Stat(manifestPath); err != nil {
			continue
		}

		installed := InstalledSkill{Name: e.Name(), Path: path, Agent: a, Scope: scope}
		m, err := skill.ParseManifest(manifestPath)
		if err != nil {
			logger.L.WithError(err).WithField("path", manifestPath).Debug("unreadable manifest, using directory name")
		} else {
			if m.Frontmatter.Name != "" {
				installed.Name = m.Frontmatter.Name
			}
			installed.Description = m.Frontmatter.Description
		}
		skills = append(skills, installed)
	}

	sort.Slice(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })
	return skills, nil
}

// SkillExists reports whether dir/name holds a SKILL.md
func SkillExists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name, skill.ManifestFile))
	return err == nil
}

// Shadowed returns the names of global skills that a project skill with
// the same name hides
func Shadowed(project, global []InstalledSkill) []string {
	names := make(map[string]bool, len(project))
	for _, s := range project {
		names[s.Name] = true
	}
	var out []string
	for _, s := range global {
		if names[s.Name] {
			out = append(out, s.Name)
		}
	}
	return out
}
