package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/samhoang/skilo/internal/skill/rules"
)

type jsonFormatter struct {
	quiet  bool
	stdout io.Writer
	stderr io.Writer
}

type jsonOutput struct {
	Skills  []jsonSkill `json:"skills"`
	Summary jsonSummary `json:"summary"`
}

type jsonSkill struct {
	Path     string           `json:"path"`
	Errors   []jsonDiagnostic `json:"errors"`
	Warnings []jsonDiagnostic `json:"warnings"`
}

type jsonDiagnostic struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	FixHint string `json:"fix_hint,omitempty"`
}

type jsonSummary struct {
	SkillsChecked int  `json:"skills_checked"`
	TotalErrors   int  `json:"total_errors"`
	TotalWarnings int  `json:"total_warnings"`
	Success       bool `json:"success"`
}

func toJSONDiagnostics(diags []rules.Diagnostic) []jsonDiagnostic {
	out := make([]jsonDiagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, jsonDiagnostic{
			Code:    d.Code.String(),
			Message: d.Message,
			Line:    d.Line,
			Column:  d.Column,
			FixHint: d.FixHint,
		})
	}
	return out
}

func (f *jsonFormatter) FormatValidation(results []SkillResult) string {
	out := jsonOutput{Skills: make([]jsonSkill, 0, len(results))}
	for _, r := range results {
		out.Skills = append(out.Skills, jsonSkill{
			Path:     r.Path,
			Errors:   toJSONDiagnostics(r.Result.Errors),
			Warnings: toJSONDiagnostics(r.Result.Warnings),
		})
	}

	errs, warns := Totals(results)
	out.Summary = jsonSummary{
		SkillsChecked: len(results),
		TotalErrors:   errs,
		TotalWarnings: warns,
		Success:       errs == 0,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data) + "\n"
}

func (f *jsonFormatter) Message(msg string) {
	if !f.quiet {
		writeJSONLine(f.stdout, map[string]any{"message": msg})
	}
}

func (f *jsonFormatter) Error(msg string) {
	writeJSONLine(f.stderr, map[string]any{"error": msg})
}

func (f *jsonFormatter) Success(msg string) {
	if !f.quiet {
		writeJSONLine(f.stdout, map[string]any{"success": true, "message": msg})
	}
}

func writeJSONLine(w io.Writer, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintln(w, string(data))
}
