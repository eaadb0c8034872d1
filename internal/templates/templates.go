// Package templates scaffolds new skills from embedded handlebars templates.
package templates

import (
	"embed"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aymerick/raymond"

	skiloerrors "github.com/samhoang/skilo/internal/errors"
	"github.com/samhoang/skilo/internal/skill"
)

//go:embed files
var files embed.FS

// Template names a skill layout
type Template string

const (
	HelloWorld  Template = "hello-world"
	Minimal     Template = "minimal"
	Full        Template = "full"
	ScriptBased Template = "script-based"
)

// Templates lists the accepted --template values
var Templates = []Template{HelloWorld, Minimal, Full, ScriptBased}

// ParseTemplate validates a --template value
func ParseTemplate(s string) (Template, error) {
	t := Template(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Templates {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown template %q: must be hello-world, minimal, full, or script-based", s)
}

// Context is everything a template needs to render a skill
type Context struct {
	Name        string
	Description string
	License     string
	Lang        Lang

	IncludeOptionalDirs bool
	IncludeScripts      bool
}

// DefaultDescription is used when no description is given
func DefaultDescription(name string) string {
	return fmt.Sprintf("A %s skill.", strings.ReplaceAll(name, "-", " "))
}

// TitleCase turns a kebab-case name into words with leading capitals
func TitleCase(name string) string {
	parts := strings.Split(name, "-")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}

func (c Context) data() map[string]any {
	return map[string]any{
		"name":         c.Name,
		"title":        TitleCase(c.Name),
		"description":  c.Description,
		"ext":          c.Lang.Extension(),
		"shebang":      c.Lang.Shebang(),
		"scripts":      c.IncludeScripts,
		"optionalDirs": c.IncludeOptionalDirs,
	}
}

// output is one generated file
type output struct {
	rel        string // slash separated, relative to the skill dir
	source     string // embedded template, empty for an empty file
	executable bool
}

func script(lang Lang, name string) output {
	return output{
		rel:        "scripts/" + lang.FileName(name),
		source:     path.Join("files", "scripts", string(lang), name+".hbs"),
		executable: true,
	}
}

// plan returns the files to generate besides SKILL.md
func (t Template) plan(c Context) []output {
	var out []output
	switch t {
	case HelloWorld:
		if c.IncludeScripts {
			out = append(out, script(c.Lang, "greet"))
		}
	case Full:
		if c.IncludeScripts {
			out = append(out, script(c.Lang, "main"))
		}
		if c.IncludeOptionalDirs {
			out = append(out,
				output{rel: "references/REFERENCE.md", source: "files/reference.md.hbs"},
				output{rel: "assets/.gitkeep"},
			)
		}
	case ScriptBased:
		for _, name := range []string{"setup", "run", "cleanup"} {
			out = append(out, script(c.Lang, name))
		}
	}
	return out
}

// Render creates outputDir/<name> and writes the skill into it, returning
// the new skill directory. An existing directory is never overwritten.
func Render(t Template, c Context, outputDir string) (string, error) {
	if c.Lang == "" {
		c.Lang = Python
	}
	if c.Description == "" {
		c.Description = DefaultDescription(c.Name)
	}

	skillDir := filepath.Join(outputDir, c.Name)
	if _, err := os.Stat(skillDir); err == nil {
		return "", skiloerrors.NewAlreadyExists(c.Name, skillDir)
	}

	manifest, err := renderManifest(t, c)
	if err != nil {
		return "", err
	}

	rendered := map[string]string{}
	plan := t.plan(c)
	for _, o := range plan {
		if o.source == "" {
			continue
		}
		text, err := renderFile(o.source, c)
		if err != nil {
			return "", err
		}
		rendered[o.rel] = text
	}

	if err := os.MkdirAll(skillDir, 0755); err != nil {
		return "", skiloerrors.NewPathError(skillDir, "create", err)
	}
	if err := writeFile(filepath.Join(skillDir, skill.ManifestFile), manifest, false); err != nil {
		return "", err
	}
	for _, o := range plan {
		if err := writeFile(filepath.Join(skillDir, filepath.FromSlash(o.rel)), rendered[o.rel], o.executable); err != nil {
			return "", err
		}
	}

	return skillDir, nil
}

func renderManifest(t Template, c Context) (string, error) {
	body, err := renderFile(path.Join("files", string(t)+".md.hbs"), c)
	if err != nil {
		return "", err
	}

	fm := skill.Frontmatter{
		Name:        c.Name,
		Description: strings.ReplaceAll(c.Description, "\n", " "),
	}
	if c.License != "" {
		license := c.License
		fm.License = &license
	}

	m := &skill.Manifest{Frontmatter: fm, Body: body}
	content, err := m.Formatted()
	if err != nil {
		return "", skiloerrors.NewTemplate(string(t), err)
	}
	return content, nil
}

func renderFile(source string, c Context) (string, error) {
	tpl, err := files.ReadFile(source)
	if err != nil {
		return "", skiloerrors.NewTemplate(source, err)
	}
	out, err := raymond.Render(string(tpl), c.data())
	if err != nil {
		return "", skiloerrors.NewTemplate(source, err)
	}
	return out, nil
}

func writeFile(dst, content string, executable bool) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return skiloerrors.NewPathError(filepath.Dir(dst), "create", err)
	}
	if err := os.WriteFile(dst, []byte(content), 0644); err != nil {
		return skiloerrors.NewPathError(dst, "write", err)
	}
	if executable {
		if err := os.Chmod(dst, 0755); err != nil {
			return skiloerrors.NewPathError(dst, "chmod", err)
		}
	}
	return nil
}
