// Package validator runs the configured lint rules over skill manifests.
package validator

import (
	"github.com/samhoang/skilo/internal/config"
	"github.com/samhoang/skilo/internal/skill"
	"github.com/samhoang/skilo/internal/skill/rules"
)

// Default thresholds
const (
	DefaultMaxNameLength          = 64
	DefaultMaxDescriptionLength   = 1024
	DefaultMaxCompatibilityLength = 500
	DefaultMaxBodyLines           = 500
)

// Validator holds the ordered list of enabled rules. It is built once per
// invocation and reused for every manifest.
type Validator struct {
	rules []rules.Rule
}

// New builds a Validator from lint configuration. A disabled rule or
// threshold leaves the rule out entirely.
func New(cfg config.LintConfig) *Validator {
	rc := cfg.Rules
	var rs []rules.Rule

	if rc.NameFormat {
		rs = append(rs, rules.NameFormat{})
	}
	if limit, ok := rc.NameLength.Resolve(DefaultMaxNameLength); ok {
		rs = append(rs, rules.NameLength{Max: limit})
	}
	if rc.NameDirectory {
		rs = append(rs, rules.NameDirectory{})
	}
	if rc.DescriptionRequired {
		rs = append(rs, rules.DescriptionRequired{})
	}
	if limit, ok := rc.DescriptionLength.Resolve(DefaultMaxDescriptionLength); ok {
		rs = append(rs, rules.DescriptionLength{Max: limit})
	}
	if limit, ok := rc.CompatibilityLength.Resolve(DefaultMaxCompatibilityLength); ok {
		rs = append(rs, rules.CompatibilityLength{Max: limit})
	}
	if rc.ReferencesExist {
		rs = append(rs, rules.ReferencesExist{})
	}
	if limit, ok := rc.BodyLength.Resolve(DefaultMaxBodyLines); ok {
		rs = append(rs, rules.BodyLength{Max: limit})
	}
	if rc.ScriptExecutable {
		rs = append(rs, rules.ScriptExecutable{})
	}
	if rc.ScriptShebang {
		rs = append(rs, rules.ScriptShebang{})
	}

	return &Validator{rules: rs}
}

// Default returns a Validator with every rule at its default threshold
func Default() *Validator {
	return New(config.DefaultConfig().Lint)
}

// Validate runs every enabled rule in order
func (v *Validator) Validate(m *skill.Manifest) rules.ValidationResult {
	var result rules.ValidationResult
	for _, r := range v.rules {
		for _, d := range r.Check(m) {
			result.Add(d)
		}
	}
	return result
}

// Rules returns the names of the enabled rules in order
func (v *Validator) Rules() []string {
	names := make([]string, len(v.rules))
	for i, r := range v.rules {
		names[i] = r.Name()
	}
	return names
}

// ParseFailure turns a manifest that could not be parsed into an E007
// result so it can be reported alongside validation results
func ParseFailure(path string, err error) rules.ValidationResult {
	var result rules.ValidationResult
	result.Add(rules.Diagnostic{
		Path:    path,
		Message: err.Error(),
		Code:    rules.E007,
	})
	return result
}
