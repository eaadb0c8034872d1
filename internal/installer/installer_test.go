package installer

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/samhoang/skilo/internal/agent"
	skiloerrors "github.com/samhoang/skilo/internal/errors"
	"github.com/samhoang/skilo/internal/skill/validator"
)

func createTestFile(t *testing.T, baseDir, relPath, content string) {
	t.Helper()
	fullPath := filepath.Join(baseDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func manifest(name, description string) string {
	return "---\nname: " + name + "\ndescription: " + description + "\n---\n\n# " + name + "\n"
}

func names(cands []Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Name
	}
	return out
}

func TestDiscover_RootSkills(t *testing.T) {
	root := t.TempDir()
	createTestFile(t, root, "zeta/SKILL.md", manifest("zeta", "Z"))
	createTestFile(t, root, "nested/alpha/SKILL.md", manifest("alpha", "A"))
	createTestFile(t, root, "broken/SKILL.md", "no frontmatter")

	cands := Discover(root, nil, validator.Default())
	if got := strings.Join(names(cands), ","); got != "alpha,zeta" {
		t.Fatalf("names = %q, want alpha,zeta", got)
	}
	if cands[0].Dir != filepath.Join(root, "nested", "alpha") {
		t.Errorf("Dir = %q", cands[0].Dir)
	}
	if !cands[0].Valid() {
		t.Errorf("alpha should be valid: %v", cands[0].ErrorMessages())
	}
}

func TestDiscover_SingleSkillRepo(t *testing.T) {
	root := t.TempDir()
	createTestFile(t, root, "SKILL.md", manifest("solo", "Only one"))
	createTestFile(t, root, "other/SKILL.md", manifest("other", "ignored"))

	cands := Discover(root, nil, nil)
	if len(cands) != 1 || cands[0].Name != "solo" {
		t.Fatalf("got %v, want [solo]", names(cands))
	}
	if cands[0].Dir != root {
		t.Errorf("Dir = %q, want %q", cands[0].Dir, root)
	}
}

func TestDiscover_InvalidSkillIsMarked(t *testing.T) {
	root := t.TempDir()
	createTestFile(t, root, "Bad_Name/SKILL.md", manifest("Bad_Name", "x"))

	cands := Discover(root, nil, validator.Default())
	if len(cands) != 1 {
		t.Fatalf("got %d candidates", len(cands))
	}
	if cands[0].Valid() {
		t.Error("expected invalid candidate")
	}
	if len(cands[0].ErrorMessages()) == 0 {
		t.Error("expected error messages")
	}

	unchecked := Discover(root, nil, nil)
	if !unchecked[0].Valid() {
		t.Error("nil validator accepts every skill")
	}
}

func TestDiscover_IgnorePatterns(t *testing.T) {
	root := t.TempDir()
	createTestFile(t, root, "keep/SKILL.md", manifest("keep", "k"))
	createTestFile(t, root, "node_modules/dep/SKILL.md", manifest("dep", "d"))

	cands := Discover(root, []string{"node_modules"}, nil)
	if got := strings.Join(names(cands), ","); got != "keep" {
		t.Errorf("names = %q, want keep", got)
	}
}

func TestFilter(t *testing.T) {
	cands := []Candidate{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	if got := Filter(cands, nil); len(got) != 3 {
		t.Errorf("nil filter kept %d", len(got))
	}
	got := Filter(cands, []string{"c", "a", "missing"})
	if strings.Join(names(got), ",") != "a,c" {
		t.Errorf("filtered = %v", names(got))
	}
	if got := Filter(cands, []string{"zzz"}); len(got) != 0 {
		t.Errorf("expected nothing, got %v", names(got))
	}
}

func TestFeatureWarnings(t *testing.T) {
	root := t.TempDir()
	createTestFile(t, root, "forky/SKILL.md", "---\nname: forky\ndescription: f\ncontext: fork\nhooks:\n  pre: x\n---\n")
	c := Candidate{Name: "forky", Dir: filepath.Join(root, "forky")}

	if w := FeatureWarnings(c, agent.Claude); len(w) != 0 {
		t.Errorf("claude supports everything, got %v", w)
	}
	w := FeatureWarnings(c, agent.Cursor)
	if len(w) != 2 {
		t.Fatalf("expected 2 warnings, got %v", w)
	}
	if !strings.Contains(w[1], "may not be supported by Cursor") {
		t.Errorf("unexpected warning %q", w[1])
	}
}

func TestInstall_CopiesTree(t *testing.T) {
	src := t.TempDir()
	createTestFile(t, src, "tool/SKILL.md", manifest("tool", "t"))
	createTestFile(t, src, "tool/scripts/run.sh", "#!/bin/sh\necho hi\n")
	createTestFile(t, src, "tool/.git/HEAD", "ref: refs/heads/main\n")
	if err := os.Chmod(filepath.Join(src, "tool", "scripts", "run.sh"), 0755); err != nil {
		t.Fatal(err)
	}

	dst := t.TempDir()
	var events []Event
	inst := &Installer{Notify: func(e Event) { events = append(events, e) }}
	target := Target{Agent: agent.Claude, Dir: filepath.Join(dst, ".claude", "skills")}

	report, err := inst.Install(Discover(src, nil, validator.Default()), []Target{target})
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if report.Total() != 1 {
		t.Fatalf("Total() = %d, want 1", report.Total())
	}
	if len(events) != 1 || events[0].Status != Installed {
		t.Errorf("events = %+v", events)
	}

	installed := filepath.Join(target.Dir, "tool")
	if _, err := os.Stat(filepath.Join(installed, "SKILL.md")); err != nil {
		t.Errorf("SKILL.md not copied: %v", err)
	}
	if _, err := os.Stat(filepath.Join(installed, ".git")); !os.IsNotExist(err) {
		t.Error(".git should not be copied")
	}
	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(installed, "scripts", "run.sh"))
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm()&0o111 == 0 {
			t.Errorf("script lost its executable bit: %v", info.Mode())
		}
	}
}

func TestInstall_Link(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("directory symlinks need Developer Mode on Windows")
	}
	src := t.TempDir()
	createTestFile(t, src, "tool/SKILL.md", manifest("tool", "t"))

	dst := filepath.Join(t.TempDir(), "skills")
	createTestFile(t, dst, "tool/SKILL.md", manifest("tool", "old"))

	inst := &Installer{Link: true}
	if _, err := inst.Install(Discover(src, nil, nil), []Target{{Dir: dst, Custom: true}}); err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	installed := filepath.Join(dst, "tool")
	if !IsLink(installed) {
		t.Fatal("expected a symlink")
	}
	data, err := os.ReadFile(filepath.Join(installed, "SKILL.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "description: t") {
		t.Errorf("link does not resolve to the source: %q", data)
	}

	removed, _, err := Uninstall(dst, []string{"tool"})
	if err != nil || len(removed) != 1 {
		t.Fatalf("Uninstall() = %v, %v", removed, err)
	}
	if _, err := os.Stat(filepath.Join(src, "tool", "SKILL.md")); err != nil {
		t.Errorf("removing the link touched the source: %v", err)
	}
}

func TestInstall_SkipsInvalid(t *testing.T) {
	src := t.TempDir()
	createTestFile(t, src, "Bad/SKILL.md", manifest("Bad", "b"))

	var events []Event
	inst := &Installer{Notify: func(e Event) { events = append(events, e) }}
	report, err := inst.Install(Discover(src, nil, validator.Default()), []Target{{Dir: t.TempDir(), Custom: true}})
	if err != nil {
		t.Fatal(err)
	}
	if report.Total() != 0 {
		t.Errorf("Total() = %d, want 0", report.Total())
	}
	if len(events) != 1 || events[0].Status != SkippedInvalid || events[0].Reason == "" {
		t.Errorf("events = %+v", events)
	}
}

func TestInstall_ExistingSkill(t *testing.T) {
	src := t.TempDir()
	createTestFile(t, src, "tool/SKILL.md", manifest("tool", "new version"))
	cands := Discover(src, nil, nil)

	setup := func(t *testing.T) string {
		dir := t.TempDir()
		createTestFile(t, dir, "tool/SKILL.md", manifest("tool", "old version"))
		createTestFile(t, dir, "tool/stale.txt", "stale")
		return dir
	}
	read := func(t *testing.T, dir string) string {
		data, err := os.ReadFile(filepath.Join(dir, "tool", "SKILL.md"))
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}

	t.Run("replaced without confirm", func(t *testing.T) {
		dir := setup(t)
		if _, err := (&Installer{}).Install(cands, []Target{{Dir: dir, Custom: true}}); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(read(t, dir), "new version") {
			t.Error("skill was not replaced")
		}
		if _, err := os.Stat(filepath.Join(dir, "tool", "stale.txt")); !os.IsNotExist(err) {
			t.Error("old files should be removed before copying")
		}
	})

	t.Run("declined", func(t *testing.T) {
		dir := setup(t)
		inst := &Installer{Confirm: func(name, dst string) (bool, error) { return false, nil }}
		report, err := inst.Install(cands, []Target{{Dir: dir, Custom: true}})
		if err != nil {
			t.Fatal(err)
		}
		if report.Total() != 0 || !strings.Contains(read(t, dir), "old version") {
			t.Error("declined skill must be left alone")
		}
	})

	t.Run("cancelled aborts", func(t *testing.T) {
		dir := setup(t)
		inst := &Installer{Confirm: func(name, dst string) (bool, error) { return false, skiloerrors.ErrCancelled }}
		_, err := inst.Install(cands, []Target{{Dir: dir, Custom: true}, {Dir: t.TempDir(), Custom: true}})
		if !errors.Is(err, skiloerrors.ErrCancelled) {
			t.Errorf("err = %v, want cancelled", err)
		}
	})
}

func TestInstall_MultipleTargetsAggregatesFailures(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file permissions differ on windows")
	}
	src := t.TempDir()
	createTestFile(t, src, "tool/SKILL.md", manifest("tool", "t"))

	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	good := t.TempDir()

	report, err := (&Installer{}).Install(Discover(src, nil, nil), []Target{
		{Dir: filepath.Join(blocker, "skills"), Custom: true},
		{Dir: good, Custom: true},
	})
	if err == nil {
		t.Fatal("expected an error for the unwritable target")
	}
	if report.Total() != 1 {
		t.Errorf("the healthy target should still be installed, Total() = %d", report.Total())
	}
	if _, statErr := os.Stat(filepath.Join(good, "tool", "SKILL.md")); statErr != nil {
		t.Error(statErr)
	}
}

func TestTargetString(t *testing.T) {
	tests := []struct {
		target Target
		want   string
	}{
		{Target{Agent: agent.Claude, Dir: "/p/.claude/skills"}, "Claude Code: /p/.claude/skills"},
		{Target{Agent: agent.Codex, Scope: agent.Global, Dir: "/h/.codex/skills"}, "Codex (global): /h/.codex/skills"},
		{Target{Dir: "./out", Custom: true}, "./out"},
	}
	for _, tt := range tests {
		if got := tt.target.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestUninstall(t *testing.T) {
	dir := t.TempDir()
	createTestFile(t, dir, "one/SKILL.md", manifest("one", "1"))
	createTestFile(t, dir, "two/SKILL.md", manifest("two", "2"))
	createTestFile(t, dir, "not-skill/README.md", "x")

	removed, missing, err := Uninstall(dir, []string{"one", "ghost", "not-skill"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(removed, ",") != "one" {
		t.Errorf("removed = %v", removed)
	}
	if strings.Join(missing, ",") != "ghost,not-skill" {
		t.Errorf("missing = %v", missing)
	}
	if _, err := os.Stat(filepath.Join(dir, "one")); !os.IsNotExist(err) {
		t.Error("one should be gone")
	}
	if _, err := os.Stat(filepath.Join(dir, "two")); err != nil {
		t.Error("two should remain")
	}
}
