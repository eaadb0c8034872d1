package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/samhoang/skilo/internal/agent"
	"github.com/samhoang/skilo/internal/installer"
)

var (
	listAgent  string
	listGlobal bool
	listAll    bool
)

var listCmd = &cobra.Command{
	Use:     "list [path]",
	Aliases: []string{"ls"},
	Short:   "List installed skills",
	Long: `List the skills installed for an agent in the project at path
(default: current directory), globally with --global, or both with --all.

With --all, global skills hidden by a project skill of the same name are
reported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listAgent, "agent", "a", "", "Agent whose skills to list (default from config)")
	listCmd.Flags().BoolVarP(&listGlobal, "global", "g", false, "List user-level skills")
	listCmd.Flags().BoolVar(&listAll, "all", false, "List project and user-level skills")
	listCmd.MarkFlagsMutuallyExclusive("global", "all")
	rootCmd.AddCommand(listCmd)
}

// listAgentOrDefault resolves --agent for commands that act on one agent.
// "all" falls back to the default agent.
func (a *app) listAgentOrDefault(name string) (agent.Agent, error) {
	if name == "" || name == agent.SelectAll {
		return a.defaultAgent()
	}
	return agent.Parse(name)
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	ag, err := a.listAgentOrDefault(listAgent)
	if err != nil {
		return err
	}

	locator := a.locator
	if len(args) > 0 {
		root, err := filepath.Abs(args[0])
		if err != nil {
			root = args[0]
		}
		locator = agent.NewLocator(root, a.paths.Home)
	}

	var project, global []agent.InstalledSkill
	if listAll || !listGlobal {
		if project, err = locator.List(ag, agent.Project); err != nil {
			return err
		}
	}
	if listAll || listGlobal {
		if global, err = locator.List(ag, agent.Global); err != nil {
			return err
		}
	}

	if len(project)+len(global) == 0 {
		where := "in project"
		switch {
		case listAll:
			where = "at project or global level"
		case listGlobal:
			where = "globally"
		}
		a.out.Message(fmt.Sprintf("No skills installed %s for %s.", where, ag.DisplayName()))
		return nil
	}

	if len(project) > 0 {
		a.printf("%s (%s):\n", a.styles.Bold.Render("Project skills"), a.styles.Dim.Render(ag.ProjectDir()))
		a.printInstalled(project)
		if len(global) > 0 {
			a.printf("\n")
		}
	}
	if len(global) > 0 {
		a.printf("%s (%s):\n", a.styles.Bold.Render("Global skills"), a.styles.Dim.Render(ag.GlobalDir()))
		a.printInstalled(global)
	}

	if listAll {
		if shadowed := agent.Shadowed(project, global); len(shadowed) > 0 {
			a.printf("\n%s: %d global skill(s) shadowed by project skills:\n", a.styles.Warning.Render("Note"), len(shadowed))
			for _, name := range shadowed {
				a.printf("  %s\n", a.styles.Dim.Render("- "+name))
			}
		}
	}
	return nil
}

func (a *app) printInstalled(skills []agent.InstalledSkill) {
	width := 10
	for _, s := range skills {
		width = max(width, len(s.Name))
	}
	for _, s := range skills {
		desc := truncateDescription(s.Description, 50)
		if desc == "" {
			desc = a.styles.Dim.Render("(no description)")
		}
		if installer.IsLink(s.Path) {
			desc += " " + a.styles.Dim.Render("(linked)")
		}
		a.printf("  %-*s  %s\n", width, s.Name, desc)
	}
}
