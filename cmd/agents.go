package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/samhoang/skilo/internal/agent"
)

var agentsVerbose bool

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List detected coding agents",
	Long: `List the coding agents detected in the current project and in the
home directory, with the number of skills installed for each.

With --verbose the features each agent supports are shown.`,
	Args: cobra.NoArgs,
	RunE: runAgents,
}

func init() {
	agentsCmd.Flags().BoolVarP(&agentsVerbose, "verbose", "v", false, "Show supported features")
	rootCmd.AddCommand(agentsCmd)
}

func runAgents(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	detected := a.locator.Detect()
	if len(detected) == 0 {
		def, err := a.defaultAgent()
		if err != nil {
			return err
		}
		a.out.Message("No agents detected.")
		a.out.Message(fmt.Sprintf("\nDefault agent: %s (%s)", def.DisplayName(), def.ProjectDir()))
		return nil
	}

	var project, global []agent.Detected
	for _, d := range detected {
		if d.Scope.IsGlobal() {
			global = append(global, d)
		} else {
			project = append(project, d)
		}
	}

	for _, group := range []struct {
		title string
		list  []agent.Detected
	}{
		{"Project agents:", project},
		{"Global agents:", global},
	} {
		if len(group.list) == 0 {
			continue
		}
		a.printf("%s\n", a.styles.Bold.Render(group.title))
		for _, d := range group.list {
			a.printf("  %-14s %s  (%s)\n", d.Agent.DisplayName(), d.SkillsDir, a.styles.Dim.Render(plural(d.SkillCount, "skill")))
			if agentsVerbose {
				if f := featureNames(d.Agent.Features()); len(f) > 0 {
					a.printf("    %s\n", a.styles.Dim.Render("Features: "+strings.Join(f, ", ")))
				}
			}
		}
		a.printf("\n")
	}

	if agentsVerbose {
		a.printf("%s\n", a.styles.Bold.Render("Feature support:"))
		a.printf("%s", featureMatrix())
	}
	return nil
}

func featureNames(f agent.Features) []string {
	var names []string
	if f.ContextFork {
		names = append(names, "context:fork")
	}
	if f.Hooks {
		names = append(names, "hooks")
	}
	if f.AllowedTools {
		names = append(names, "allowed-tools")
	}
	if f.Scripts {
		names = append(names, "scripts")
	}
	return names
}

var matrixColumns = []struct {
	title string
	width int
}{
	{"context:fork", 12},
	{"hooks", 8},
	{"allowed-tools", 14},
	{"scripts", 8},
}

func featureMark(ok bool) string {
	if ok {
		return "Yes"
	}
	return "-"
}

// featureMatrix renders every agent's feature support as a table
func featureMatrix() string {
	row := func(first string, cells ...string) string {
		var b strings.Builder
		fmt.Fprintf(&b, "  %-14s", first)
		for i, c := range cells {
			b.WriteString(" ")
			b.WriteString(lipgloss.PlaceHorizontal(matrixColumns[i].width, lipgloss.Center, c))
		}
		return strings.TrimRight(b.String(), " ") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	titles := make([]string, len(matrixColumns))
	for i, c := range matrixColumns {
		titles[i] = c.title
	}
	b.WriteString(row("Agent", titles...))
	b.WriteString("  " + strings.Repeat("-", 60) + "\n")

	for _, ag := range agent.All() {
		f := ag.Features()
		b.WriteString(row(ag.DisplayName(),
			featureMark(f.ContextFork),
			featureMark(f.Hooks),
			featureMark(f.AllowedTools),
			featureMark(f.Scripts),
		))
	}
	return b.String()
}
