package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	skiloerrors "github.com/samhoang/skilo/internal/errors"
)

func TestParseGit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Descriptor
	}{
		{
			name:  "shorthand",
			input: "owner/repo",
			want:  Descriptor{Kind: KindGit, URL: "https://github.com/owner/repo.git"},
		},
		{
			name:  "shorthand with dots and underscores",
			input: "my_org/skills.repo",
			want:  Descriptor{Kind: KindGit, URL: "https://github.com/my_org/skills.repo.git"},
		},
		{
			name:  "https url",
			input: "https://github.com/owner/repo",
			want:  Descriptor{Kind: KindGit, URL: "https://github.com/owner/repo.git"},
		},
		{
			name:  "https url with .git",
			input: "https://github.com/owner/repo.git",
			want:  Descriptor{Kind: KindGit, URL: "https://github.com/owner/repo.git"},
		},
		{
			name:  "http becomes https",
			input: "http://gitlab.com/group/repo",
			want:  Descriptor{Kind: KindGit, URL: "https://gitlab.com/group/repo.git"},
		},
		{
			name:  "tree with subdir",
			input: "https://github.com/owner/repo/tree/main/skills/my-skill",
			want: Descriptor{
				Kind:   KindGit,
				URL:    "https://github.com/owner/repo.git",
				Branch: "main",
				Subdir: "skills/my-skill",
			},
		},
		{
			name:  "tree without subdir",
			input: "https://github.com/owner/repo/tree/develop",
			want:  Descriptor{Kind: KindGit, URL: "https://github.com/owner/repo.git", Branch: "develop"},
		},
		{
			name:  "tree with trailing slash",
			input: "https://github.com/owner/repo/tree/develop/",
			want:  Descriptor{Kind: KindGit, URL: "https://github.com/owner/repo.git", Branch: "develop"},
		},
		{
			name:  "ssh",
			input: "git@github.com:owner/repo.git",
			want:  Descriptor{Kind: KindGit, URL: "git@github.com:owner/repo.git"},
		},
		{
			name:  "ssh without suffix",
			input: "git@github.com:owner/repo",
			want:  Descriptor{Kind: KindGit, URL: "git@github.com:owner/repo.git"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLocal(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		input string
		want  string
	}{
		{"./path/to/skills", "./path/to/skills"},
		{"../skills", "../skills"},
		{"/absolute/path", "/absolute/path"},
		{"~/skills", filepath.Join(home, "skills")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.True(t, got.IsLocal())
			assert.Equal(t, tt.want, got.Path)
			assert.Empty(t, got.URL)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	inputs := []string{
		"",
		"justaname",
		"a/b/c",
		"owner/",
		"own er/repo",
		"owner/re:po",
		"git@github.com",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, skiloerrors.ErrInvalidSource))
		})
	}
}

func TestParseInvalidMessage(t *testing.T) {
	_, err := Parse("not a source")
	require.Error(t, err)
	assert.Equal(t,
		"Invalid source format: not a source. Expected: owner/repo, https://github.com/owner/repo, git@github.com:owner/repo.git, or local path",
		err.Error())
}

func TestShorthandAlwaysGitHubHTTPS(t *testing.T) {
	for _, input := range []string{"a/b", "Owner/Repo", "x-1/y_2", "a.b/c.d"} {
		d, err := Parse(input)
		require.NoError(t, err)
		assert.Equal(t, "https://github.com/"+input+".git", d.URL)
		assert.Empty(t, d.Branch)
		assert.Empty(t, d.Tag)
		assert.Empty(t, d.Subdir)
	}
}

func TestWithOverrides(t *testing.T) {
	d, err := ParseWithOverrides("https://github.com/owner/repo/tree/main/skills", "dev", "")
	require.NoError(t, err)
	assert.Equal(t, "dev", d.Branch)
	assert.Equal(t, "skills", d.Subdir)

	d, err = ParseWithOverrides("owner/repo", "", "v1.0.0")
	require.NoError(t, err)
	assert.Empty(t, d.Branch)
	assert.Equal(t, "v1.0.0", d.Tag)
	assert.Equal(t, "v1.0.0", d.Reference())

	d, err = ParseWithOverrides("owner/repo", "main", "v1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "main", d.Reference(), "branch takes precedence")

	local, err := ParseWithOverrides("./skills", "main", "v1")
	require.NoError(t, err)
	assert.Empty(t, local.Branch)
	assert.Empty(t, local.Tag)
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		d    Descriptor
		want string
	}{
		{Descriptor{Kind: KindGit, URL: "https://github.com/owner/repo.git"}, "owner/repo"},
		{Descriptor{Kind: KindGit, URL: "git@github.com:owner/repo.git"}, "owner/repo"},
		{Descriptor{Kind: KindGit, URL: "https://gitlab.com/group/sub/repo.git"}, "group/sub/repo"},
		{Descriptor{Kind: KindLocal, Path: "./skills"}, "./skills"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.d.DisplayName())
	}
}

func TestOwnerRepo(t *testing.T) {
	tests := []struct {
		url       string
		wantOwner string
		wantRepo  string
		wantOK    bool
	}{
		{"https://github.com/owner/repo.git", "owner", "repo", true},
		{"https://github.com/owner/repo", "owner", "repo", true},
		{"git@github.com:owner/repo.git", "owner", "repo", true},
		{"https://github.com/Owner/Repo.git", "Owner", "Repo", true},
		{"https://gitlab.com/owner/repo.git", "", "", false},
		{"https://github.com/group/sub/repo.git", "", "", false},
		{"git@gitlab.com:owner/repo.git", "", "", false},
		{"file:///tmp/repo", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			owner, repo, ok := OwnerRepo(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
		})
	}
}

func TestSSHURL(t *testing.T) {
	tests := []struct {
		url    string
		want   string
		wantOK bool
	}{
		{"https://github.com/owner/repo.git", "git@github.com:owner/repo.git", true},
		{"https://github.com/owner/repo", "git@github.com:owner/repo.git", true},
		{"https://gitlab.com/owner/repo.git", "", false},
		{"git@github.com:owner/repo.git", "", false},
		{"https://github.com/a/b/c.git", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, ok := SSHURL(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
