package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	skiloerrors "github.com/samhoang/skilo/internal/errors"
)

// ConfigFileNames are searched in order in the working directory
var ConfigFileNames = []string{".skilorc.toml", "skilo.toml", filepath.Join(".skilo", "config.toml")}

// Config represents a skilo configuration file
type Config struct {
	Lint      LintConfig      `toml:"lint"`
	Fmt       FmtConfig       `toml:"fmt"`
	New       NewConfig       `toml:"new"`
	Add       AddConfig       `toml:"add"`
	Discovery DiscoveryConfig `toml:"discovery"`

	// Path is the file the config was read from, empty for defaults
	Path string `toml:"-"`
}

// LintConfig configures the lint, validate and check commands
type LintConfig struct {
	Strict bool        `toml:"strict"`
	Rules  RulesConfig `toml:"rules"`
}

// RulesConfig enables rules and sets their thresholds.
// Thresholds are decoded separately since they accept a bool or an integer.
type RulesConfig struct {
	NameFormat          bool      `toml:"name_format"`
	NameLength          Threshold `toml:"-"`
	NameDirectory       bool      `toml:"name_directory"`
	DescriptionRequired bool      `toml:"description_required"`
	DescriptionLength   Threshold `toml:"-"`
	CompatibilityLength Threshold `toml:"-"`
	ReferencesExist     bool      `toml:"references_exist"`
	BodyLength          Threshold `toml:"-"`
	ScriptExecutable    bool      `toml:"script_executable"`
	ScriptShebang       bool      `toml:"script_shebang"`
}

// FmtConfig configures the fmt command
type FmtConfig struct {
	SortFrontmatter bool `toml:"sort_frontmatter"`
	IndentSize      int  `toml:"indent_size"`
	FormatTables    bool `toml:"format_tables"`
}

// NewConfig configures the new command
type NewConfig struct {
	DefaultLicense  string `toml:"default_license,omitempty"`
	DefaultTemplate string `toml:"default_template"`
	DefaultLang     string `toml:"default_lang"`
}

// AddConfig configures the add command
type AddConfig struct {
	// Target agent; empty means Claude Code
	DefaultAgent string `toml:"default_agent,omitempty"`
	Confirm      bool   `toml:"confirm"`
	Validate     bool   `toml:"validate"`
}

// DiscoveryConfig holds ignore globs applied while walking for SKILL.md files.
//
// Patterns follow .gitignore style glob syntax:
//   - target      directory named "target" at any depth
//   - build-*     directories starting with "build-"
//   - foo/bar     path "foo/bar" relative to the search root
//   - **/cache    "cache" at any depth
type DiscoveryConfig struct {
	Ignore []string `toml:"ignore"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Lint: LintConfig{
			Rules: DefaultRulesConfig(),
		},
		Fmt: FmtConfig{
			SortFrontmatter: true,
			IndentSize:      2,
			FormatTables:    true,
		},
		New: NewConfig{
			DefaultTemplate: "hello-world",
			DefaultLang:     "python",
		},
		Add: AddConfig{
			Confirm:  true,
			Validate: true,
		},
	}
}

// DefaultRulesConfig enables every rule with default thresholds
func DefaultRulesConfig() RulesConfig {
	return RulesConfig{
		NameFormat:          true,
		NameLength:          DefaultThreshold(),
		NameDirectory:       true,
		DescriptionRequired: true,
		DescriptionLength:   DefaultThreshold(),
		CompatibilityLength: DefaultThreshold(),
		ReferencesExist:     true,
		BodyLength:          DefaultThreshold(),
		ScriptExecutable:    true,
		ScriptShebang:       true,
	}
}

// Load reads configuration from path, or searches the working directory
// when path is empty. No file means defaults.
func Load(path string) (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return LoadFrom(wd, path)
}

// LoadFrom is Load with an explicit search directory
func LoadFrom(dir, path string) (*Config, error) {
	if path == "" {
		path = findConfig(dir)
		if path == "" {
			return DefaultConfig(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, skiloerrors.NewConfig(fmt.Sprintf("reading %s", path), err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes TOML content over the defaults
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, skiloerrors.NewConfig("invalid TOML", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, skiloerrors.NewConfig("invalid TOML", err)
	}
	if err := raw.Lint.Rules.apply(&cfg.Lint.Rules); err != nil {
		return nil, err
	}

	return cfg, nil
}

func findConfig(dir string) string {
	for _, name := range ConfigFileNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

type rawConfig struct {
	Lint struct {
		Rules rawRules `toml:"rules"`
	} `toml:"lint"`
}

type rawRules struct {
	NameLength          any `toml:"name_length"`
	DescriptionLength   any `toml:"description_length"`
	CompatibilityLength any `toml:"compatibility_length"`
	BodyLength          any `toml:"body_length"`
}

func (r rawRules) apply(rules *RulesConfig) error {
	fields := []struct {
		key string
		raw any
		dst *Threshold
	}{
		{"name_length", r.NameLength, &rules.NameLength},
		{"description_length", r.DescriptionLength, &rules.DescriptionLength},
		{"compatibility_length", r.CompatibilityLength, &rules.CompatibilityLength},
		{"body_length", r.BodyLength, &rules.BodyLength},
	}

	for _, f := range fields {
		if f.raw == nil {
			continue
		}
		t, err := ParseThreshold(f.raw)
		if err != nil {
			return skiloerrors.NewConfig("lint.rules."+f.key, err)
		}
		*f.dst = t
	}
	return nil
}
