package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid source", NewInvalidSource("foo", "Expected: owner/repo"), "Invalid source format: foo. Expected: owner/repo"},
		{"git", NewGit("boom"), "Git error: boom"},
		{"network", NewNetwork("Repository not in cache and offline mode is enabled"), "Network error: Repository not in cache and offline mode is enabled"},
		{"repo not found", NewRepoNotFound("https://github.com/a/b.git"), "Repository not found: https://github.com/a/b.git"},
		{"missing frontmatter", &Error{Kind: KindMissingFrontmatter}, "SKILL.md must start with YAML frontmatter (---)"},
		{"unclosed frontmatter", &Error{Kind: KindUnclosedFrontmatter}, "Frontmatter is not closed (missing closing ---)"},
		{"cancelled", ErrCancelled, "Operation cancelled by user"},
		{"no skills", NewNoSkillsFound("/tmp/x"), "No skills found in /tmp/x"},
		{"io", NewIo("/tmp/SKILL.md", fs.ErrNotExist), "/tmp/SKILL.md: file does not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestIsMatchesByKind(t *testing.T) {
	wrapped := fmt.Errorf("fetching: %w", NewNetwork("offline"))

	assert.True(t, errors.Is(wrapped, ErrNetwork))
	assert.False(t, errors.Is(wrapped, ErrGit))
	assert.Equal(t, KindNetwork, KindOf(wrapped))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestUnwrap(t *testing.T) {
	err := NewIo("/x", fs.ErrPermission)
	assert.True(t, errors.Is(err, fs.ErrPermission))

	pe := NewPathError("/y", "copy", fs.ErrExist)
	assert.True(t, errors.Is(pe, fs.ErrExist))
	assert.Equal(t, "copy: /y: file already exists", pe.Error())
}
