package templates

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	skiloerrors "github.com/samhoang/skilo/internal/errors"
	"github.com/samhoang/skilo/internal/skill"
	"github.com/samhoang/skilo/internal/skill/validator"
)

func newContext(name string, lang Lang) Context {
	return Context{
		Name:                name,
		Lang:                lang,
		IncludeOptionalDirs: true,
		IncludeScripts:      true,
	}
}

func TestParseTemplate(t *testing.T) {
	for _, name := range []string{"hello-world", "minimal", "full", "script-based", "Full"} {
		_, err := ParseTemplate(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseTemplate("huge")
	assert.Error(t, err)
}

func TestParseLang(t *testing.T) {
	tests := map[string]Lang{
		"python": Python, "py": Python, "bash": Bash, "sh": Bash,
		"javascript": JavaScript, "js": JavaScript, "TypeScript": TypeScript, "ts": TypeScript,
	}
	for in, want := range tests {
		got, err := ParseLang(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLang("ruby")
	assert.Error(t, err)
}

func TestLangDetails(t *testing.T) {
	assert.Equal(t, "greet.py", Python.FileName("greet"))
	assert.Equal(t, "main.sh", Bash.FileName("main"))
	assert.Equal(t, "#!/usr/bin/env node", JavaScript.Shebang())
	assert.Equal(t, "#!/usr/bin/env -S npx ts-node", TypeScript.Shebang())
	assert.Equal(t, "ts", TypeScript.Extension())
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "My Cool Skill", TitleCase("my-cool-skill"))
	assert.Equal(t, "Pdf2 Text", TitleCase("pdf2-text"))
	assert.Equal(t, "X", TitleCase("x"))
}

func TestDefaultDescription(t *testing.T) {
	assert.Equal(t, "A pdf tools skill.", DefaultDescription("pdf-tools"))
}

func TestRenderMinimal(t *testing.T) {
	out := t.TempDir()
	ctx := Context{Name: "note-taker", Description: "Takes notes.", License: "MIT", Lang: Python}

	dir, err := Render(Minimal, ctx, out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "note-taker"), dir)

	data, err := os.ReadFile(filepath.Join(dir, "SKILL.md"))
	require.NoError(t, err)
	assert.Equal(t, "---\nname: note-taker\ndescription: Takes notes.\nlicense: MIT\n---\n\n# Note Taker\n\nTakes notes.\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRenderHelloWorld(t *testing.T) {
	dir, err := Render(HelloWorld, newContext("greeter", Bash), t.TempDir())
	require.NoError(t, err)

	script := filepath.Join(dir, "scripts", "greet.sh")
	data, err := os.ReadFile(script)
	require.NoError(t, err)
	assert.Equal(t, "#!/usr/bin/env bash\n# A simple greeting script.\n\nset -euo pipefail\n\nname=\"${1:-World}\"\necho \"Hello, ${name}!\"\n", string(data))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(script)
		require.NoError(t, err)
		assert.NotZero(t, info.Mode().Perm()&0o111, "scripts are executable")
	}

	m, err := skill.ParseManifest(filepath.Join(dir, "SKILL.md"))
	require.NoError(t, err)
	assert.Equal(t, "A greeter skill.", m.Frontmatter.Description)
	assert.Contains(t, m.Body, "`scripts/greet.sh`")
}

func TestRenderHelloWorldWithoutScripts(t *testing.T) {
	ctx := newContext("greeter", Python)
	ctx.IncludeScripts = false

	dir, err := Render(HelloWorld, ctx, t.TempDir())
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(dir, "scripts"))

	data, err := os.ReadFile(filepath.Join(dir, "SKILL.md"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "scripts/")
}

func TestRenderFull(t *testing.T) {
	ctx := newContext("data-kit", TypeScript)
	ctx.Description = "Tools for data & \"stuff\": <fast>"

	dir, err := Render(Full, ctx, t.TempDir())
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "scripts", "main.ts"))
	assert.FileExists(t, filepath.Join(dir, "assets", ".gitkeep"))

	ref, err := os.ReadFile(filepath.Join(dir, "references", "REFERENCE.md"))
	require.NoError(t, err)
	assert.Contains(t, string(ref), "# Data Kit Reference")
	assert.Contains(t, string(ref), "Tools for data & \"stuff\": <fast>", "no html escaping")
	assert.Contains(t, string(ref), "./scripts/main.ts --verbose")

	m, err := skill.ParseManifest(filepath.Join(dir, "SKILL.md"))
	require.NoError(t, err)
	assert.Equal(t, ctx.Description, m.Frontmatter.Description, "frontmatter is quoted as needed")
}

func TestRenderFullWithoutOptionalDirs(t *testing.T) {
	ctx := newContext("data-kit", Python)
	ctx.IncludeOptionalDirs = false

	dir, err := Render(Full, ctx, t.TempDir())
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(dir, "references"))
	assert.NoDirExists(t, filepath.Join(dir, "assets"))
	assert.FileExists(t, filepath.Join(dir, "scripts", "main.py"))
}

func TestRenderScriptBased(t *testing.T) {
	dir, err := Render(ScriptBased, newContext("runner", JavaScript), t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"setup.js", "run.js", "cleanup.js"} {
		data, err := os.ReadFile(filepath.Join(dir, "scripts", name))
		require.NoError(t, err, name)
		assert.Contains(t, string(data), "#!/usr/bin/env node\n", name)
		assert.Contains(t, string(data), "runner", name)
	}

	run, err := os.ReadFile(filepath.Join(dir, "scripts", "run.js"))
	require.NoError(t, err)
	assert.Contains(t, string(run), "console.log(`Running runner with args: ${args.join(\" \")}`);")
}

func TestRenderRefusesExistingDir(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(out, "taken"), 0755))

	_, err := Render(Minimal, newContext("taken", Python), out)
	require.Error(t, err)
	assert.Equal(t, skiloerrors.KindAlreadyExists, skiloerrors.KindOf(err))
}

func TestRenderedSkillsPassValidation(t *testing.T) {
	v := validator.Default()
	for _, tpl := range Templates {
		for _, lang := range Langs {
			t.Run(string(tpl)+"/"+string(lang), func(t *testing.T) {
				dir, err := Render(tpl, newContext("sample-skill", lang), t.TempDir())
				require.NoError(t, err)

				m, err := skill.ParseManifest(filepath.Join(dir, "SKILL.md"))
				require.NoError(t, err)

				result := v.Validate(m)
				assert.Empty(t, result.Errors)
				assert.Empty(t, result.Warnings)
			})
		}
	}
}
