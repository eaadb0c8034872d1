// Package output renders validation results and status messages as text,
// JSON or SARIF.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/samhoang/skilo/internal/skill/rules"
)

// Format selects a renderer
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatSARIF Format = "sarif"
)

// Formats lists the accepted --format values
var Formats = []Format{FormatText, FormatJSON, FormatSARIF}

// ParseFormat validates a --format value
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatSARIF:
		return f, nil
	}
	return "", fmt.Errorf("invalid format %q: must be text, json, or sarif", s)
}

// SkillResult pairs a manifest path with its validation result
type SkillResult struct {
	Path   string
	Result rules.ValidationResult
}

// Formatter renders command output
type Formatter interface {
	// FormatValidation renders results for a batch of skills
	FormatValidation(results []SkillResult) string
	// Message prints an informational line unless quiet
	Message(msg string)
	// Error prints an error; never suppressed
	Error(msg string)
	// Success prints a success line unless quiet
	Success(msg string)
}

// Options configures New
type Options struct {
	Format  Format
	Quiet   bool
	Version string
	Stdout  io.Writer
	Stderr  io.Writer
}

// New returns the formatter for opts.Format. Nil writers default to the
// process stdout and stderr.
func New(opts Options) Formatter {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	switch opts.Format {
	case FormatJSON:
		return &jsonFormatter{quiet: opts.Quiet, stdout: opts.Stdout, stderr: opts.Stderr}
	case FormatSARIF:
		return &sarifFormatter{quiet: opts.Quiet, version: opts.Version, stderr: opts.Stderr}
	default:
		return &textFormatter{
			quiet:  opts.Quiet,
			stdout: opts.Stdout,
			stderr: opts.Stderr,
			styles: NewStyles(ColorEnabled(opts.Stdout)),
		}
	}
}

// ColorEnabled reports whether w is a terminal and NO_COLOR is unset
func ColorEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Totals counts diagnostics across results
func Totals(results []SkillResult) (errors, warnings int) {
	for _, r := range results {
		errors += len(r.Result.Errors)
		warnings += len(r.Result.Warnings)
	}
	return errors, warnings
}
