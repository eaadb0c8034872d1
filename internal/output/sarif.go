package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/samhoang/skilo/internal/skill/rules"
)

const (
	sarifSchema  = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json"
	sarifVersion = "2.1.0"
	toolName     = "skilo"
	toolURI      = "https://github.com/samhoang/skilo"
)

// sarifFormatter writes the log to stdout through the command; status
// messages go to stderr so stdout stays a valid SARIF document.
type sarifFormatter struct {
	quiet   bool
	version string
	stderr  io.Writer
}

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID                   string             `json:"id"`
	ShortDescription     sarifMessage       `json:"shortDescription"`
	DefaultConfiguration sarifConfiguration `json:"defaultConfiguration"`
}

type sarifConfiguration struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
}

func level(c rules.Code) string {
	if c.IsError() {
		return "error"
	}
	return "warning"
}

func (f *sarifFormatter) FormatValidation(results []SkillResult) string {
	driverRules := []sarifRule{}
	seen := make(map[rules.Code]bool)
	sarifResults := []sarifResult{}

	for _, r := range results {
		diags := append(append([]rules.Diagnostic{}, r.Result.Errors...), r.Result.Warnings...)
		for _, d := range diags {
			if !seen[d.Code] {
				seen[d.Code] = true
				driverRules = append(driverRules, sarifRule{
					ID:                   d.Code.String(),
					ShortDescription:     sarifMessage{Text: d.Code.Description()},
					DefaultConfiguration: sarifConfiguration{Level: level(d.Code)},
				})
			}

			loc := sarifPhysicalLocation{ArtifactLocation: sarifArtifactLocation{URI: r.Path}}
			if d.Line > 0 {
				loc.Region = &sarifRegion{StartLine: d.Line, StartColumn: d.Column}
			}
			sarifResults = append(sarifResults, sarifResult{
				RuleID:    d.Code.String(),
				Level:     level(d.Code),
				Message:   sarifMessage{Text: d.Message},
				Locations: []sarifLocation{{PhysicalLocation: loc}},
			})
		}
	}

	version := f.version
	if version == "" {
		version = "dev"
	}

	log := sarifLog{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:           toolName,
				Version:        version,
				InformationURI: toolURI,
				Rules:          driverRules,
			}},
			Results: sarifResults,
		}},
	}

	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data) + "\n"
}

func (f *sarifFormatter) Message(msg string) {
	if !f.quiet {
		fmt.Fprintln(f.stderr, msg)
	}
}

func (f *sarifFormatter) Error(msg string) {
	fmt.Fprintf(f.stderr, "error: %s\n", msg)
}

func (f *sarifFormatter) Success(msg string) {
	if !f.quiet {
		fmt.Fprintln(f.stderr, msg)
	}
}
