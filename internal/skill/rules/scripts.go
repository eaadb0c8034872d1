package rules

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/samhoang/skilo/internal/skill"
)

// ScriptsDir is the skill subdirectory holding executable helpers
const ScriptsDir = "scripts"

// scriptFiles returns the regular files directly inside the skill's
// scripts directory
func scriptFiles(m *skill.Manifest) []string {
	dir := filepath.Join(m.SkillDir(), ScriptsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files []string
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, path)
	}
	return files
}

// ScriptExecutable (W002) warns about scripts without any execute bit.
// Permission bits are not meaningful on windows, where it never fires.
type ScriptExecutable struct{}

func (ScriptExecutable) Name() string { return "script-executable" }

func (ScriptExecutable) Check(m *skill.Manifest) []Diagnostic {
	if runtime.GOOS == "windows" {
		return nil
	}

	var diags []Diagnostic
	for _, path := range scriptFiles(m) {
		info, err := os.Stat(path)
		if err != nil || info.Mode().Perm()&0o111 != 0 {
			continue
		}
		diags = append(diags, Diagnostic{
			Path:    path,
			Message: "Script is not executable",
			Code:    W002,
			FixHint: fmt.Sprintf("Run: chmod +x %s", path),
		})
	}
	return diags
}

// ScriptShebang (W003) warns about scripts that do not start with #!
type ScriptShebang struct{}

func (ScriptShebang) Name() string { return "script-shebang" }

func (ScriptShebang) Check(m *skill.Manifest) []Diagnostic {
	var diags []Diagnostic
	for _, path := range scriptFiles(m) {
		ok, err := hasShebang(path)
		if err != nil || ok {
			continue
		}
		diags = append(diags, Diagnostic{
			Path:    path,
			Line:    1,
			Column:  1,
			Message: "Script missing shebang line",
			Code:    W003,
			FixHint: "Add #!/usr/bin/env <interpreter> as first line",
		})
	}
	return diags
}

func hasShebang(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head, err := bufio.NewReader(f).Peek(2)
	if err != nil {
		// shorter than two bytes
		return false, nil
	}
	return string(head) == "#!", nil
}
