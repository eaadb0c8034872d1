package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	skiloerrors "github.com/samhoang/skilo/internal/errors"
	"github.com/samhoang/skilo/internal/logger"
	"github.com/samhoang/skilo/internal/output"
)

var Version = "dev"

var (
	rootConfig    string
	rootFormat    string
	rootQuiet     bool
	rootLogLevel  string
	rootLogFormat string
)

var rootCmd = &cobra.Command{
	Use:   "skilo",
	Short: "Agent Skills CLI",
	Long: `skilo creates, validates, formats and installs Agent Skills.

A skill is a directory with a SKILL.md file: YAML frontmatter (name,
description, optional license, compatibility, metadata and allowed-tools)
followed by markdown instructions, plus optional scripts/, references/ and
assets/ directories.

Skills can be installed from GitHub (owner/repo), any git URL or a local
path into the skills directory of Claude Code, Codex, Cursor and other
coding agents.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupRoot,
}

// exitError ends the process with code without printing anything; the
// command has already reported the failure.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

var errFailed = &exitError{code: 1}

func setupRoot(cmd *cobra.Command, args []string) error {
	level := rootLogLevel
	if !cmd.Flags().Changed("log-level") {
		if env := os.Getenv("SKILO_LOG_LEVEL"); env != "" {
			level = env
		}
	}
	if err := logger.SetLogLevel(level); err != nil {
		return skiloerrors.NewConfig("invalid --log-level", err)
	}
	logger.SetLogFormat(rootLogFormat)

	if _, err := output.ParseFormat(rootFormat); err != nil {
		return skiloerrors.NewConfig(err.Error(), nil)
	}
	return nil
}

// exitCode reports err through the selected output format and returns the
// process exit status
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}

	format, parseErr := output.ParseFormat(rootFormat)
	if parseErr != nil {
		format = output.FormatText
	}
	output.New(output.Options{Format: format, Quiet: rootQuiet, Version: Version, Stderr: rootCmd.ErrOrStderr()}).
		Error(err.Error())
	return 1
}

func Execute() {
	registerCompletions()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootConfig, "config", "", "Path to config file (env SKILO_CONFIG)")
	pf.StringVar(&rootFormat, "format", string(output.FormatText), "Output format: text, json or sarif")
	pf.BoolVarP(&rootQuiet, "quiet", "q", false, "Only print errors and results")
	pf.StringVar(&rootLogLevel, "log-level", "warn", "Log level: debug, info, warn, error (env SKILO_LOG_LEVEL)")
	pf.StringVar(&rootLogFormat, "log-format", "fmt", "Log format: fmt or json")
}
