package cmd

import (
	"fmt"
	"os"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	skiloerrors "github.com/samhoang/skilo/internal/errors"
	"github.com/samhoang/skilo/internal/skill"
)

var (
	fmtCheck bool
	fmtDiff  bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [path]",
	Short: "Format SKILL.md files",
	Long: `Rewrite SKILL.md files with canonical frontmatter key order and
aligned markdown tables.

With --check nothing is written and the command fails if any file would
change. With --diff the changes are printed as a unified diff instead of
being written.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFmtCmd,
}

func init() {
	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false, "Fail if any file needs formatting")
	fmtCmd.Flags().BoolVar(&fmtDiff, "diff", false, "Print a diff instead of writing")
	rootCmd.AddCommand(fmtCmd)
}

func runFmtCmd(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	return runFmt(a, pathArg(args), fmtCheck, fmtDiff)
}

// runFmt formats every skill under path. In check or diff mode files are
// left untouched and errFailed is returned when any would change.
func runFmt(a *app, path string, check, diff bool) error {
	paths := skill.FindSkills(path, a.cfg.Discovery.Ignore)
	if len(paths) == 0 {
		return skiloerrors.NewNoSkillsFound(path)
	}

	formatter := skill.NewFormatter(skill.FormatterConfigFrom(a.cfg.Fmt))
	changed, failed := 0, false

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			a.out.Error(skiloerrors.NewIo(p, err).Error())
			failed = true
			continue
		}
		m, err := skill.ParseManifestContent(p, string(data))
		if err != nil {
			a.out.Error(fmt.Sprintf("%s: %v", p, err))
			failed = true
			continue
		}
		formatted, err := formatter.Format(m)
		if err != nil {
			a.out.Error(fmt.Sprintf("%s: %v", p, err))
			failed = true
			continue
		}
		if formatted == string(data) {
			continue
		}
		changed++

		switch {
		case diff:
			text, err := unifiedDiff(p, string(data), formatted)
			if err != nil {
				return err
			}
			fmt.Fprint(a.stdout, text)
		case check:
			a.printf("%s %s needs formatting\n", a.styles.Warning.Render("!"), p)
		default:
			if err := os.WriteFile(p, []byte(formatted), 0644); err != nil {
				return skiloerrors.NewIo(p, err)
			}
			a.out.Message(fmt.Sprintf("%s Formatted %s", a.styles.Success.Render("✓"), p))
		}
	}

	switch {
	case (check || diff) && changed > 0:
		a.printf("\n%s %s need formatting\n", a.styles.Warning.Render("!"), plural(changed, "file"))
		return errFailed
	case check || diff:
		a.out.Success(fmt.Sprintf("%s checked, all formatted correctly", plural(len(paths), "file")))
	case changed > 0:
		a.out.Success(fmt.Sprintf("Formatted %s", plural(changed, "file")))
	default:
		a.out.Success(fmt.Sprintf("%s already formatted correctly", plural(len(paths), "file")))
	}

	if failed {
		return errFailed
	}
	return nil
}

func unifiedDiff(path, before, after string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: path,
		ToFile:   path + " (formatted)",
		Context:  3,
	})
}
