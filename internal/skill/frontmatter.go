package skill

import (
	"bytes"
	"sort"

	"gopkg.in/yaml.v3"
)

// KeyOrder is the canonical order of frontmatter keys
var KeyOrder = []string{
	"name",
	"description",
	"license",
	"compatibility",
	"metadata",
	"allowed-tools",
}

// Frontmatter is the YAML header of a SKILL.md file
type Frontmatter struct {
	// Name is required: 1-64 chars, lowercase alphanumeric and single hyphens
	Name string `yaml:"name" json:"name"`
	// Description is required: 1-1024 chars
	Description string `yaml:"description" json:"description"`

	License       *string           `yaml:"license,omitempty" json:"license,omitempty"`
	Compatibility *string           `yaml:"compatibility,omitempty" json:"compatibility,omitempty"`
	Metadata      map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`
	// AllowedTools is a space-delimited list of pre-approved tools
	AllowedTools *string `yaml:"allowed-tools,omitempty" json:"allowed-tools,omitempty"`
}

// ToYAML serializes the frontmatter with canonical key ordering and a two
// space indent. The result always ends with a newline.
func (f *Frontmatter) ToYAML() (string, error) {
	return f.toYAML(2)
}

func (f *Frontmatter) toYAML(indent int) (string, error) {
	if indent <= 0 {
		indent = 2
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(f.node()); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// node builds the mapping explicitly so key order does not depend on
// struct layout, and metadata keys come out sorted.
func (f *Frontmatter) node() *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode}

	add := func(key string, value *yaml.Node) {
		m.Content = append(m.Content, scalar(key), value)
	}

	add("name", scalar(f.Name))
	add("description", scalar(f.Description))
	if f.License != nil {
		add("license", scalar(*f.License))
	}
	if f.Compatibility != nil {
		add("compatibility", scalar(*f.Compatibility))
	}
	if len(f.Metadata) > 0 {
		keys := make([]string, 0, len(f.Metadata))
		for k := range f.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		meta := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range keys {
			meta.Content = append(meta.Content, scalar(k), scalar(f.Metadata[k]))
		}
		add("metadata", meta)
	}
	if f.AllowedTools != nil {
		add("allowed-tools", scalar(*f.AllowedTools))
	}

	return m
}

func scalar(value string) *yaml.Node {
	n := &yaml.Node{}
	n.SetString(value)
	return n
}
