package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	skiloerrors "github.com/samhoang/skilo/internal/errors"
	"github.com/samhoang/skilo/internal/output"
	"github.com/samhoang/skilo/internal/skill"
	"github.com/samhoang/skilo/internal/skill/validator"
)

var (
	lintStrict bool
	lintFix    bool
)

var lintCmd = &cobra.Command{
	Use:   "lint [path]",
	Short: "Validate skills against the Agent Skills rules",
	Long: `Validate every SKILL.md under path (default: current directory).

Errors (E001-E009) always fail the run. Warnings (W001-W004) fail it only
with --strict or lint.strict = true in the config file.

Examples:
  skilo lint
  skilo lint skills/my-skill --strict
  skilo lint --format sarif > results.sarif`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLintCmd,
}

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate skills, treating warnings as errors",
	Long:  `Same as lint --strict.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		return runLint(a, pathArg(args), true, false)
	},
}

func init() {
	lintCmd.Flags().BoolVar(&lintStrict, "strict", false, "Treat warnings as errors")
	lintCmd.Flags().BoolVar(&lintFix, "fix", false, "Format files before validating")
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(validateCmd)
}

func runLintCmd(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	return runLint(a, pathArg(args), lintStrict || a.cfg.Lint.Strict, lintFix)
}

// runLint validates every skill under path and prints the results. It
// returns errFailed when the run should exit non-zero.
func runLint(a *app, path string, strict, fix bool) error {
	if fix {
		if err := runFmt(a, path, false, false); err != nil && err != errFailed {
			return err
		}
	}

	loaded := skill.LoadSkills(path, a.cfg.Discovery.Ignore)
	if len(loaded) == 0 {
		return skiloerrors.NewNoSkillsFound(path)
	}

	v := validator.New(a.cfg.Lint)
	results := make([]output.SkillResult, 0, len(loaded))
	for _, l := range loaded {
		if l.Err != nil {
			results = append(results, output.SkillResult{Path: l.Path, Result: validator.ParseFailure(l.Path, l.Err)})
			continue
		}
		results = append(results, output.SkillResult{Path: l.Path, Result: v.Validate(l.Manifest)})
	}

	fmt.Fprint(a.stdout, a.out.FormatValidation(results))

	errs, warnings := output.Totals(results)
	if errs > 0 || (strict && warnings > 0) {
		return errFailed
	}
	return nil
}
