package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/samhoang/skilo/internal/skill/rules"
)

// Styles are the terminal styles shared by the text renderer and commands
type Styles struct {
	Bold    lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
	Hint    lipgloss.Style
	Dim     lipgloss.Style
}

// NewStyles returns colored styles, or plain ones when color is false
func NewStyles(color bool) Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return Styles{Bold: plain, Error: plain, Warning: plain, Success: plain, Hint: plain, Dim: plain}
	}
	return Styles{
		Bold:    lipgloss.NewStyle().Bold(true),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		Success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		Hint:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Dim:     lipgloss.NewStyle().Faint(true),
	}
}

type textFormatter struct {
	quiet  bool
	stdout io.Writer
	stderr io.Writer
	styles Styles
}

func (f *textFormatter) FormatValidation(results []SkillResult) string {
	var b strings.Builder
	s := f.styles

	for _, r := range results {
		if r.Result.IsOKStrict() {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", s.Bold.Render(r.Path))
		for _, d := range r.Result.Errors {
			f.writeDiagnostic(&b, s.Error.Render("error"), d)
		}
		for _, d := range r.Result.Warnings {
			f.writeDiagnostic(&b, s.Warning.Render("warning"), d)
		}
	}

	errs, warns := Totals(results)
	b.WriteString("\n")
	switch {
	case errs == 0 && warns == 0:
		fmt.Fprintf(&b, "%s %d skill(s) checked, no issues found\n", s.Success.Render("✓"), len(results))
	case errs > 0:
		fmt.Fprintf(&b, "%s %d skill(s) checked: %d error(s), %d warning(s)\n", s.Error.Render("✗"), len(results), errs, warns)
	default:
		fmt.Fprintf(&b, "%s %d skill(s) checked: %d error(s), %d warning(s)\n", s.Warning.Render("!"), len(results), errs, warns)
	}

	return b.String()
}

func (f *textFormatter) writeDiagnostic(b *strings.Builder, label string, d rules.Diagnostic) {
	s := f.styles
	code := s.Dim.Render("[" + d.Code.String() + "]")
	if loc := location(d); loc != "" {
		fmt.Fprintf(b, "  %s %s %s %s\n", label, code, s.Dim.Render(loc+":"), d.Message)
	} else {
		fmt.Fprintf(b, "  %s %s %s\n", label, code, d.Message)
	}
	if d.FixHint != "" {
		fmt.Fprintf(b, "    %s %s\n", s.Hint.Render("hint:"), d.FixHint)
	}
}

// location renders line:col, line, or nothing
func location(d rules.Diagnostic) string {
	switch {
	case d.Line > 0 && d.Column > 0:
		return fmt.Sprintf("%d:%d", d.Line, d.Column)
	case d.Line > 0:
		return fmt.Sprintf("%d", d.Line)
	}
	return ""
}

func (f *textFormatter) Message(msg string) {
	if !f.quiet {
		fmt.Fprintln(f.stdout, msg)
	}
}

func (f *textFormatter) Error(msg string) {
	fmt.Fprintf(f.stderr, "%s %s\n", f.styles.Error.Render("error:"), msg)
}

func (f *textFormatter) Success(msg string) {
	if !f.quiet {
		fmt.Fprintf(f.stdout, "%s %s\n", f.styles.Success.Render("✓"), msg)
	}
}
