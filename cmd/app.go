package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/samhoang/skilo/internal/agent"
	"github.com/samhoang/skilo/internal/config"
	"github.com/samhoang/skilo/internal/output"
	"github.com/samhoang/skilo/internal/skill"
)

// app bundles what every command needs, resolved once per invocation
type app struct {
	cfg     *config.Config
	paths   *config.Paths
	out     output.Formatter
	styles  output.Styles
	stdout  io.Writer
	stderr  io.Writer
	quiet   bool
	root    string
	locator *agent.Locator
}

func loadApp(cmd *cobra.Command) (*app, error) {
	paths, err := config.ResolvePaths()
	if err != nil {
		return nil, err
	}

	cfgPath := rootConfig
	if cfgPath == "" {
		cfgPath = os.Getenv("SKILO_CONFIG")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	root, err := os.Getwd()
	if err != nil {
		root = "."
	}

	format, err := output.ParseFormat(rootFormat)
	if err != nil {
		return nil, err
	}

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	return &app{
		cfg:   cfg,
		paths: paths,
		out: output.New(output.Options{
			Format:  format,
			Quiet:   rootQuiet,
			Version: Version,
			Stdout:  stdout,
			Stderr:  stderr,
		}),
		styles:  output.NewStyles(output.ColorEnabled(stdout)),
		stdout:  stdout,
		stderr:  stderr,
		quiet:   rootQuiet,
		root:    root,
		locator: agent.NewLocator(root, paths.Home),
	}, nil
}

// printf writes to stdout unless --quiet
func (a *app) printf(format string, args ...any) {
	if !a.quiet {
		fmt.Fprintf(a.stdout, format, args...)
	}
}

// warn writes a warning line to stderr unless --quiet
func (a *app) warn(format string, args ...any) {
	if !a.quiet {
		fmt.Fprintf(a.stderr, "%s: %s\n", a.styles.Warning.Render("Warning"), fmt.Sprintf(format, args...))
	}
}

// findSkillPaths runs discovery over every root, in order
func (a *app) findSkillPaths(roots []string) []string {
	var paths []string
	for _, r := range roots {
		paths = append(paths, skill.FindSkills(r, a.cfg.Discovery.Ignore)...)
	}
	return paths
}

func pathArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

func pathArgs(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return []string{"."}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// truncateDescription keeps the first sentence and cuts it to limit bytes
func truncateDescription(s string, limit int) string {
	first, _, _ := strings.Cut(s, ". ")
	if len(first) <= limit {
		return first
	}
	cut := limit - 3
	for cut > 0 && !utf8.RuneStart(first[cut]) {
		cut--
	}
	return first[:cut] + "..."
}
