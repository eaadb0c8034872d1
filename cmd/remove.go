package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/samhoang/skilo/internal/agent"
	skiloerrors "github.com/samhoang/skilo/internal/errors"
	"github.com/samhoang/skilo/internal/installer"
	"github.com/samhoang/skilo/internal/picker"
)

var (
	removeAgent  string
	removeGlobal bool
	removeYes    bool
)

var removeCmd = &cobra.Command{
	Use:     "remove <skills...>",
	Aliases: []string{"rm"},
	Short:   "Remove installed skills",
	Long: `Remove skills from an agent's project or user-level skills directory.

Examples:
  skilo remove pdf-tools
  skilo remove pdf-tools docx --agent cursor --global -y`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().StringVarP(&removeAgent, "agent", "a", "", "Agent to remove from (default from config)")
	removeCmd.Flags().BoolVarP(&removeGlobal, "global", "g", false, "Remove from the user-level skills directory")
	removeCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "Skip confirmation")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	ag, err := a.listAgentOrDefault(removeAgent)
	if err != nil {
		return err
	}

	dir := a.locator.SkillsDir(ag, scopeOf(removeGlobal))
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		a.out.Error(fmt.Sprintf("Skills directory does not exist for %s", ag.DisplayName()))
		return errFailed
	}

	var names []string
	for _, name := range args {
		if agent.SkillExists(dir, name) {
			names = append(names, name)
		} else {
			a.warn("Skill '%s' not found", name)
		}
	}
	if len(names) == 0 {
		a.out.Error("No skills to remove")
		return errFailed
	}

	if !removeYes {
		a.printf("\nSkills to remove:\n")
		for _, name := range names {
			a.printf("  %s (%s)\n", name, a.styles.Dim.Render(filepath.Join(dir, name)))
		}
		a.printf("\n")

		ok, err := picker.Confirm(fmt.Sprintf("Remove %s?", plural(len(names), "skill")), false)
		if err != nil {
			return err
		}
		if !ok {
			return skiloerrors.ErrCancelled
		}
	}

	removed, _, rmErr := installer.Uninstall(dir, names)
	for _, name := range removed {
		a.printf("Removing %s... %s\n", name, a.styles.Success.Render("done"))
	}
	if rmErr != nil {
		a.out.Error(rmErr.Error())
	}

	a.printf("\n")
	a.out.Success(fmt.Sprintf("Removed %s", plural(len(removed), "skill")))
	if len(removed) != len(names) {
		return errFailed
	}
	return nil
}
