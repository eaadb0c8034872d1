package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	skiloerrors "github.com/samhoang/skilo/internal/errors"
	"github.com/samhoang/skilo/internal/fetch"
	"github.com/samhoang/skilo/internal/installer"
	"github.com/samhoang/skilo/internal/logger"
	"github.com/samhoang/skilo/internal/picker"
	"github.com/samhoang/skilo/internal/skill/validator"
	"github.com/samhoang/skilo/internal/source"
)

var (
	addSkills []string
	addAgents []string
	addGlobal bool
	addOutput string
	addBranch string
	addTag    string
	addList   bool
	addLink   bool
	addYes    bool
)

var addCmd = &cobra.Command{
	Use:   "add <source>",
	Short: "Install skills from a git repository or local path",
	Long: `Install skills from a git repository or a local directory into the
skills directory of one or more agents.

Source formats:
  owner/repo                                  GitHub shorthand
  https://github.com/owner/repo               HTTPS URL
  https://github.com/owner/repo/tree/main/dir URL into a subdirectory
  git@github.com:owner/repo.git               SSH URL
  ./path/to/skills                            Local directory

GitHub repositories are cached under ~/.skilo/git. Set SKILO_OFFLINE=1 to
install from the cache without touching the network.

Examples:
  skilo add anthropics/skills
  skilo add anthropics/skills --skill pdf --skill docx
  skilo add owner/repo --agent cursor --agent codex
  skilo add owner/repo --agent all --global
  skilo add ./my-skills --output ./vendor/skills
  skilo add ./my-skills --link
  skilo add owner/repo --list`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	f := addCmd.Flags()
	f.StringSliceVarP(&addSkills, "skill", "s", nil, "Install only the named skills (repeatable)")
	f.StringSliceVarP(&addAgents, "agent", "a", nil, "Target agent, or 'all' for every detected agent (repeatable)")
	f.BoolVarP(&addGlobal, "global", "g", false, "Install into the user-level skills directory")
	f.StringVarP(&addOutput, "output", "o", "", "Install into this directory instead of an agent's")
	f.StringVar(&addBranch, "branch", "", "Git branch to check out")
	f.StringVar(&addTag, "tag", "", "Git tag to check out")
	f.BoolVarP(&addList, "list", "l", false, "List skills in the source without installing")
	f.BoolVar(&addLink, "link", false, "Symlink skills instead of copying (local or cached sources)")
	f.BoolVarP(&addYes, "yes", "y", false, "Skip confirmation prompts")
	addCmd.MarkFlagsMutuallyExclusive("output", "agent")
	addCmd.MarkFlagsMutuallyExclusive("output", "global")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	targets, err := a.resolveTargets(addAgents, addGlobal, addOutput)
	if err != nil {
		return err
	}

	desc, err := source.ParseWithOverrides(args[0], addBranch, addTag)
	if err != nil {
		return err
	}
	display := desc.DisplayName()

	root := desc.Path
	if !desc.IsLocal() {
		a.printf("Fetching skills from %s...", display)
		res, err := fetch.New(a.paths.CacheConfig()).Fetch(ctx, desc)
		if err != nil {
			a.printf("\n")
			return err
		}
		defer res.Close()
		a.printf(" done\n")
		logger.G(ctx).WithField("commit", res.ShortCommit()).WithField("cached", res.FromCache).Debug("fetched source")
		if addLink && !res.FromCache {
			return skiloerrors.NewConfig("--link needs a local source or a cached GitHub repository", nil)
		}
		root = res.Root
	}

	var v *validator.Validator
	if a.cfg.Add.Validate {
		v = validator.New(a.cfg.Lint)
	}
	cands := installer.Discover(root, a.cfg.Discovery.Ignore, v)
	if len(cands) == 0 {
		return skiloerrors.NewNoSkillsFound(display)
	}

	if len(addSkills) > 0 {
		cands = installer.Filter(cands, addSkills)
		if len(cands) == 0 {
			a.out.Error(fmt.Sprintf("No skills found matching: %s", strings.Join(addSkills, ", ")))
			return errFailed
		}
	}

	if addList {
		a.printCandidates(cands)
		return nil
	}

	if !addYes && a.cfg.Add.Confirm {
		cands, err = a.confirmInstall(cands, targets)
		if err != nil {
			return err
		}
	}

	verb := "Installing"
	if addLink {
		verb = "Linking"
	}
	inst := &installer.Installer{
		Link: addLink,
		Notify: func(e installer.Event) {
			switch e.Status {
			case installer.Installed:
				a.printf("%s %s... %s\n", verb, e.Name, a.styles.Success.Render("done"))
			case installer.SkippedInvalid:
				a.printf("Skipping %s (validation failed: %s)\n", e.Name, e.Reason)
			case installer.SkippedExisting:
				a.printf("Skipping %s (already installed)\n", e.Name)
			}
		},
	}
	if !addYes {
		inst.Confirm = func(name, dst string) (bool, error) {
			return picker.Confirm(fmt.Sprintf("Skill '%s' already exists. Overwrite?", name), false)
		}
	}

	for _, t := range targets {
		if t.Custom {
			continue
		}
		for _, c := range cands {
			for _, w := range installer.FeatureWarnings(c, t.Agent) {
				a.warn("%s", w)
			}
		}
	}

	report, err := inst.Install(cands, targets)
	if err != nil {
		return err
	}

	for _, tr := range report.Targets {
		if n := len(tr.Installed); n > 0 {
			a.out.Success(fmt.Sprintf("Installed %s to %s%c", plural(n, "skill"), tr.Target.Dir, filepath.Separator))
		}
	}
	if len(targets) > 1 {
		a.out.Message(fmt.Sprintf("Total: %s installed to %d agents", plural(report.Total(), "skill"), len(targets)))
	}

	if report.Total() == 0 {
		return errFailed
	}
	return nil
}

// printCandidates prints one aligned line per skill
func (a *app) printCandidates(cands []installer.Candidate) {
	width := 0
	for _, c := range cands {
		width = max(width, len(c.Name))
	}

	a.printf("\nFound %s:\n", plural(len(cands), "skill"))
	for _, c := range cands {
		line := fmt.Sprintf("  %-*s  %s", width, c.Name, a.styles.Dim.Render(truncateDescription(c.Description, 50)))
		if !c.Valid() {
			line += " " + a.styles.Error.Render("(invalid)")
		}
		a.printf("%s\n", line)
	}
}

// confirmInstall shows what will be installed and asks for confirmation.
// On a terminal without --skill the user picks skills interactively.
func (a *app) confirmInstall(cands []installer.Candidate, targets []installer.Target) ([]installer.Candidate, error) {
	if picker.Interactive() && len(addSkills) == 0 && len(cands) > 1 {
		items := make([]picker.Item, 0, len(cands))
		for _, c := range cands {
			item := picker.Item{
				ID:          c.Name,
				Label:       c.Name,
				Description: truncateDescription(c.Description, 50),
				Selected:    c.Valid(),
				Disabled:    !c.Valid(),
			}
			if !c.Valid() {
				item.Note = "(invalid)"
			}
			items = append(items, item)
		}
		selected, err := picker.Run("Select skills to install", items)
		if err != nil {
			return nil, err
		}
		if len(selected) == 0 {
			return nil, skiloerrors.ErrCancelled
		}
		cands = installer.Filter(cands, selected)
	} else {
		a.printCandidates(cands)
	}

	var prompt string
	if len(targets) == 1 {
		prompt = fmt.Sprintf("Install %s to %s?", plural(len(cands), "skill"), targets[0].Dir)
	} else {
		a.printf("\nTarget agents:\n")
		for _, t := range targets {
			a.printf("  %s\n", t)
		}
		prompt = fmt.Sprintf("Install %s to %d agents?", plural(len(cands), "skill"), len(targets))
	}

	a.printf("\n")
	ok, err := picker.Confirm(prompt, true)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, skiloerrors.ErrCancelled
	}
	return cands, nil
}
