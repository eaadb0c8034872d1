package validator

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samhoang/skilo/internal/config"
	"github.com/samhoang/skilo/internal/skill"
	"github.com/samhoang/skilo/internal/skill/rules"
)

func writeSkill(t *testing.T, dir, name, content string) *skill.Manifest {
	t.Helper()
	skillDir := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(skillDir, 0755))
	path := filepath.Join(skillDir, skill.ManifestFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	m, err := skill.ParseManifest(path)
	require.NoError(t, err)
	return m
}

func codes(diags []rules.Diagnostic) []rules.Code {
	out := make([]rules.Code, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func TestDefaultRules(t *testing.T) {
	assert.Equal(t, []string{
		"name-format", "name-length", "name-directory", "description-required", "description-length",
		"compatibility-length", "references-exist", "body-length", "script-executable", "script-shebang",
	}, Default().Rules())
}

func TestDisabledRulesAreOmitted(t *testing.T) {
	cfg := config.DefaultConfig().Lint
	cfg.Rules.NameFormat = false
	cfg.Rules.BodyLength = config.DisabledThreshold()
	cfg.Rules.ScriptShebang = false

	names := New(cfg).Rules()
	assert.NotContains(t, names, "name-format")
	assert.NotContains(t, names, "body-length")
	assert.NotContains(t, names, "script-shebang")
	assert.Len(t, names, 7)
}

func TestValidSkill(t *testing.T) {
	m := writeSkill(t, t.TempDir(), "my-skill", "---\nname: my-skill\ndescription: \"A skill\"\n---\n\n# My Skill\n")

	result := Default().Validate(m)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.True(t, result.IsOKStrict())
}

func TestInvalidNameFormat(t *testing.T) {
	dir := t.TempDir()

	matching := writeSkill(t, dir, "My_Skill", "---\nname: My_Skill\ndescription: d\n---\n")
	result := Default().Validate(matching)
	assert.Equal(t, []rules.Code{rules.E001}, codes(result.Errors))

	mismatched := writeSkill(t, dir, "my-skill", "---\nname: My_Skill\ndescription: d\n---\n")
	result = Default().Validate(mismatched)
	assert.Equal(t, []rules.Code{rules.E001, rules.E003}, codes(result.Errors))
}

func TestConfiguredThresholds(t *testing.T) {
	cfg := config.DefaultConfig().Lint
	cfg.Rules.DescriptionLength = config.ValueThreshold(5)
	cfg.Rules.BodyLength = config.ValueThreshold(2)

	m := writeSkill(t, t.TempDir(), "tight", "---\nname: tight\ndescription: too long here\n---\none\ntwo\nthree\n")
	result := New(cfg).Validate(m)

	assert.Equal(t, []rules.Code{rules.E005}, codes(result.Errors))
	require.Equal(t, []rules.Code{rules.W001}, codes(result.Warnings))
	assert.Equal(t, m.BodyStartLine+2, result.Warnings[0].Line)
	assert.False(t, result.IsOK())
	assert.False(t, result.IsOKStrict())
}

func TestWarningsOnlyFailStrict(t *testing.T) {
	cfg := config.DefaultConfig().Lint
	cfg.Rules.BodyLength = config.ValueThreshold(2)

	m := writeSkill(t, t.TempDir(), "long", "---\nname: long\ndescription: d\n---\none\ntwo\nthree\n")
	result := New(cfg).Validate(m)

	assert.Empty(t, result.Errors)
	assert.Equal(t, []rules.Code{rules.W001}, codes(result.Warnings))
	assert.True(t, result.IsOK())
	assert.False(t, result.IsOKStrict())
}

func TestDiagnosticsRoutedBySeverity(t *testing.T) {
	dir := t.TempDir()
	body := strings.Repeat("x\n", DefaultMaxBodyLines+1) + "see `references/missing.md`\n"
	m := writeSkill(t, dir, "mixed", "---\nname: mixed\ndescription: \"\"\n---\n"+body)

	result := Default().Validate(m)
	assert.Equal(t, []rules.Code{rules.E004, rules.E009}, codes(result.Errors))
	assert.Equal(t, []rules.Code{rules.W001}, codes(result.Warnings))
}

func TestParseFailure(t *testing.T) {
	result := ParseFailure("bad/SKILL.md", errors.New("SKILL.md must start with YAML frontmatter (---)"))
	require.Len(t, result.Errors, 1)
	assert.Equal(t, rules.E007, result.Errors[0].Code)
	assert.Equal(t, "bad/SKILL.md", result.Errors[0].Path)
	assert.False(t, result.IsOK())
}
