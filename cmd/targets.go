package cmd

import (
	"strings"

	"github.com/samhoang/skilo/internal/agent"
	"github.com/samhoang/skilo/internal/installer"
)

func scopeOf(global bool) agent.Scope {
	if global {
		return agent.Global
	}
	return agent.Project
}

// defaultAgent is add.default_agent from the config, else Claude Code
func (a *app) defaultAgent() (agent.Agent, error) {
	if a.cfg.Add.DefaultAgent == "" {
		return agent.Default, nil
	}
	return agent.Parse(a.cfg.Add.DefaultAgent)
}

// resolveAgents turns --agent values into agents. "all" expands to the
// agents detected in scope, or the default agent when none are.
func (a *app) resolveAgents(names []string, scope agent.Scope) ([]agent.Agent, error) {
	def, err := a.defaultAgent()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return []agent.Agent{def}, nil
	}

	var out []agent.Agent
	seen := map[agent.Agent]bool{}
	add := func(ag agent.Agent) {
		if !seen[ag] {
			seen[ag] = true
			out = append(out, ag)
		}
	}

	for _, name := range names {
		if strings.EqualFold(name, agent.SelectAll) {
			detected := a.locator.DetectProject()
			if scope == agent.Global {
				detected = a.locator.DetectGlobal()
			}
			if len(detected) == 0 {
				detected = []agent.Agent{def}
			}
			for _, ag := range detected {
				add(ag)
			}
			continue
		}
		ag, err := agent.Parse(name)
		if err != nil {
			return nil, err
		}
		add(ag)
	}
	return out, nil
}

// resolveTargets returns the install targets for add. An explicit output
// directory replaces agent resolution.
func (a *app) resolveTargets(names []string, global bool, outputDir string) ([]installer.Target, error) {
	if outputDir != "" {
		return []installer.Target{{Dir: a.paths.ExpandHome(outputDir), Custom: true}}, nil
	}

	scope := scopeOf(global)
	agents, err := a.resolveAgents(names, scope)
	if err != nil {
		return nil, err
	}

	targets := make([]installer.Target, 0, len(agents))
	for _, ag := range agents {
		targets = append(targets, installer.Target{
			Agent: ag,
			Scope: scope,
			Dir:   a.locator.SkillsDir(ag, scope),
		})
	}
	return targets, nil
}
