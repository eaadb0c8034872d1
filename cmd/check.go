package cmd

import (
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Run strict lint and a format check",
	Long: `Run lint --strict and fmt --check over path. Intended for CI: the
command fails if either step fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	path := pathArg(args)

	a.out.Message("Running lint...")
	lintErr := runLint(a, path, true, false)
	if lintErr != nil && lintErr != errFailed {
		return lintErr
	}

	a.out.Message("\nRunning format check...")
	fmtErr := runFmt(a, path, true, false)
	if fmtErr != nil && fmtErr != errFailed {
		return fmtErr
	}

	if lintErr != nil || fmtErr != nil {
		return errFailed
	}
	a.printf("\n")
	a.out.Success("All checks passed!")
	return nil
}
