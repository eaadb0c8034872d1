// Package agent knows the coding agents skilo installs skills for and
// where each one keeps its skills.
package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	skiloerrors "github.com/samhoang/skilo/internal/errors"
)

// Agent identifies a supported coding agent by its CLI name
type Agent string

const (
	OpenCode    Agent = "opencode"
	Claude      Agent = "claude"
	Codex       Agent = "codex"
	Cursor      Agent = "cursor"
	Amp         Agent = "amp"
	KiloCode    Agent = "kilo-code"
	RooCode     Agent = "roo-code"
	Goose       Agent = "goose"
	Gemini      Agent = "gemini"
	Antigravity Agent = "antigravity"
	Copilot     Agent = "copilot"
	Clawdbot    Agent = "clawdbot"
	Droid       Agent = "droid"
	Windsurf    Agent = "windsurf"
)

// Default is used when neither a flag nor the config names an agent
const Default = Claude

// SelectAll is the --agent value meaning every detected agent
const SelectAll = "all"

// Features are the optional skill capabilities an agent understands
type Features struct {
	ContextFork  bool
	Hooks        bool
	AllowedTools bool
	Scripts      bool
}

type info struct {
	display    string
	projectDir string // slash separated, relative to the project root
	globalDir  string // slash separated, relative to the home directory
	features   Features
	// sharedMarker means the first project path segment is common in
	// repositories, so only the skills directory itself counts for detection
	sharedMarker bool
}

var scriptsOnly = Features{Scripts: true}

var agents = []Agent{
	OpenCode, Claude, Codex, Cursor, Amp, KiloCode, RooCode,
	Goose, Gemini, Antigravity, Copilot, Clawdbot, Droid, Windsurf,
}

var registry = map[Agent]info{
	OpenCode:    {display: "OpenCode", projectDir: ".opencode/skill", globalDir: ".config/opencode/skill", features: Features{AllowedTools: true, Scripts: true}},
	Claude:      {display: "Claude Code", projectDir: ".claude/skills", globalDir: ".claude/skills", features: Features{ContextFork: true, Hooks: true, AllowedTools: true, Scripts: true}},
	Codex:       {display: "Codex", projectDir: ".codex/skills", globalDir: ".codex/skills", features: scriptsOnly},
	Cursor:      {display: "Cursor", projectDir: ".cursor/skills", globalDir: ".cursor/skills", features: scriptsOnly},
	Amp:         {display: "Amp", projectDir: ".agents/skills", globalDir: ".config/agents/skills", features: scriptsOnly},
	KiloCode:    {display: "Kilo Code", projectDir: ".kilocode/skills", globalDir: ".kilocode/skills", features: scriptsOnly},
	RooCode:     {display: "Roo Code", projectDir: ".roo/skills", globalDir: ".roo/skills", features: scriptsOnly},
	Goose:       {display: "Goose", projectDir: ".goose/skills", globalDir: ".config/goose/skills", features: scriptsOnly},
	Gemini:      {display: "Gemini CLI", projectDir: ".gemini/skills", globalDir: ".gemini/skills", features: scriptsOnly},
	Antigravity: {display: "Antigravity", projectDir: ".agent/skills", globalDir: ".gemini/antigravity/skills", features: scriptsOnly},
	Copilot:     {display: "GitHub Copilot", projectDir: ".github/skills", globalDir: ".copilot/skills", features: scriptsOnly, sharedMarker: true},
	Clawdbot:    {display: "Clawdbot", projectDir: "skills", globalDir: ".clawdbot/skills", features: scriptsOnly, sharedMarker: true},
	Droid:       {display: "Droid", projectDir: ".factory/skills", globalDir: ".factory/skills", features: scriptsOnly},
	Windsurf:    {display: "Windsurf", projectDir: ".windsurf/skills", globalDir: ".codeium/windsurf/skills", features: scriptsOnly},
}

// All returns every supported agent in display order
func All() []Agent {
	out := make([]Agent, len(agents))
	copy(out, agents)
	return out
}

// Names returns the CLI names of all agents
func Names() []string {
	names := make([]string, len(agents))
	for i, a := range agents {
		names[i] = string(a)
	}
	return names
}

// Parse resolves a CLI name or display name, case-insensitively
func Parse(name string) (Agent, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, a := range agents {
		if string(a) == n || strings.ToLower(registry[a].display) == n {
			return a, nil
		}
	}
	return "", skiloerrors.NewConfig(
		fmt.Sprintf("unknown agent %q (expected one of: %s, %s)", name, strings.Join(Names(), ", "), SelectAll), nil)
}

func (a Agent) String() string { return string(a) }

// DisplayName is the human readable product name
func (a Agent) DisplayName() string { return registry[a].display }

// Features reports the optional capabilities the agent supports
func (a Agent) Features() Features { return registry[a].features }

// ProjectDir is the skills directory relative to a project root
func (a Agent) ProjectDir() string { return filepath.FromSlash(registry[a].projectDir) }

// GlobalDir is the user-level skills directory in ~ notation
func (a Agent) GlobalDir() string { return "~/" + registry[a].globalDir }

// ProjectSkillsDir resolves the project skills directory under root
func (a Agent) ProjectSkillsDir(root string) string {
	return filepath.Join(root, a.ProjectDir())
}

// GlobalSkillsDir resolves the global skills directory under home
func (a Agent) GlobalSkillsDir(home string) string {
	return filepath.Join(home, filepath.FromSlash(registry[a].globalDir))
}

// CandidateDirs lists the relative directories searched for skills when a
// fetched repository has none at its root: skills/ first, then every
// agent's project directory, without duplicates.
func CandidateDirs() []string {
	seen := map[string]bool{"skills": true}
	dirs := []string{"skills"}
	for _, a := range agents {
		d := a.ProjectDir()
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// detectedInProject reports whether the agent appears to be in use under root
func (a Agent) detectedInProject(root string) bool {
	if isDir(a.ProjectSkillsDir(root)) {
		return true
	}
	if registry[a].sharedMarker {
		return false
	}
	marker := strings.SplitN(registry[a].projectDir, "/", 2)[0]
	return isDir(filepath.Join(root, marker))
}

// detectedGlobally reports whether the agent's user-level config exists
func (a Agent) detectedGlobally(home string) bool {
	dir := a.GlobalSkillsDir(home)
	return isDir(dir) || isDir(filepath.Dir(dir))
}
