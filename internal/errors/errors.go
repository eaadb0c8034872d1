package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a skilo failure
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidSource
	KindGit
	KindAuthenticationFailed
	KindNetwork
	KindRepoNotFound
	KindIo
	KindMissingFrontmatter
	KindUnclosedFrontmatter
	KindInvalidYaml
	KindCancelled
	KindNoSkillsFound
	KindConfig
	KindTemplate
	KindInvalidSkillName
	KindAlreadyExists
)

var kindNames = map[Kind]string{
	KindUnknown:              "unknown",
	KindInvalidSource:        "invalid_source",
	KindGit:                  "git",
	KindAuthenticationFailed: "authentication_failed",
	KindNetwork:              "network",
	KindRepoNotFound:         "repo_not_found",
	KindIo:                   "io",
	KindMissingFrontmatter:   "missing_frontmatter",
	KindUnclosedFrontmatter:  "unclosed_frontmatter",
	KindInvalidYaml:          "invalid_yaml",
	KindCancelled:            "cancelled",
	KindNoSkillsFound:        "no_skills_found",
	KindConfig:               "config",
	KindTemplate:             "template",
	KindInvalidSkillName:     "invalid_name",
	KindAlreadyExists:        "already_exists",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Sentinel errors, one per kind, usable with errors.Is
var (
	ErrInvalidSource        = &Error{Kind: KindInvalidSource}
	ErrGit                  = &Error{Kind: KindGit}
	ErrAuthenticationFailed = &Error{Kind: KindAuthenticationFailed}
	ErrNetwork              = &Error{Kind: KindNetwork}
	ErrRepoNotFound         = &Error{Kind: KindRepoNotFound}
	ErrIo                   = &Error{Kind: KindIo}
	ErrMissingFrontmatter   = &Error{Kind: KindMissingFrontmatter}
	ErrUnclosedFrontmatter  = &Error{Kind: KindUnclosedFrontmatter}
	ErrInvalidYaml          = &Error{Kind: KindInvalidYaml}
	ErrCancelled            = &Error{Kind: KindCancelled}
	ErrNoSkillsFound        = &Error{Kind: KindNoSkillsFound}
	ErrConfig               = &Error{Kind: KindConfig}
	ErrAlreadyExists        = &Error{Kind: KindAlreadyExists}
)

// Error is the skilo error type. Fields beyond Kind are optional context.
type Error struct {
	Kind    Kind
	Message string
	Input   string // raw user input (InvalidSource)
	URL     string // repository url (Auth, RepoNotFound)
	Path    string // filesystem path (Io, NoSkillsFound, AlreadyExists)
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidSource:
		return fmt.Sprintf("Invalid source format: %s. %s", e.Input, e.Message)
	case KindGit:
		return fmt.Sprintf("Git error: %s", e.Message)
	case KindAuthenticationFailed:
		return fmt.Sprintf("Authentication failed for %s", e.URL)
	case KindNetwork:
		return fmt.Sprintf("Network error: %s", e.Message)
	case KindRepoNotFound:
		return fmt.Sprintf("Repository not found: %s", e.URL)
	case KindIo:
		if e.Path == "" {
			return fmt.Sprintf("IO error: %v", e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	case KindMissingFrontmatter:
		return "SKILL.md must start with YAML frontmatter (---)"
	case KindUnclosedFrontmatter:
		return "Frontmatter is not closed (missing closing ---)"
	case KindInvalidYaml:
		return fmt.Sprintf("Invalid YAML in frontmatter: %v", e.Err)
	case KindCancelled:
		return "Operation cancelled by user"
	case KindNoSkillsFound:
		return fmt.Sprintf("No skills found in %s", e.Path)
	case KindConfig:
		if e.Err != nil {
			return fmt.Sprintf("Configuration error: %s: %v", e.Message, e.Err)
		}
		return fmt.Sprintf("Configuration error: %s", e.Message)
	case KindInvalidSkillName:
		return fmt.Sprintf("Invalid skill name '%s': must be 1-64 lowercase alphanumeric chars with single hyphens", e.Input)
	case KindAlreadyExists:
		return fmt.Sprintf("Skill '%s' already exists at %s", e.Input, e.Path)
	}
	if e.Err != nil {
		if e.Message != "" {
			return fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports kind equality so errors.Is(err, ErrNetwork) works for any
// network error regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// NewInvalidSource creates an InvalidSource error
func NewInvalidSource(input, reason string) *Error {
	return &Error{Kind: KindInvalidSource, Input: input, Message: reason}
}

// NewGit creates a generic git error
func NewGit(message string) *Error {
	return &Error{Kind: KindGit, Message: message}
}

// NewGitf creates a generic git error with a formatted message
func NewGitf(format string, args ...any) *Error {
	return &Error{Kind: KindGit, Message: fmt.Sprintf(format, args...)}
}

// NewAuthenticationFailed creates an authentication error for url
func NewAuthenticationFailed(url string, err error) *Error {
	return &Error{Kind: KindAuthenticationFailed, URL: url, Err: err}
}

// NewNetwork creates a network error
func NewNetwork(message string) *Error {
	return &Error{Kind: KindNetwork, Message: message}
}

// NewRepoNotFound creates a repository not found error
func NewRepoNotFound(url string) *Error {
	return &Error{Kind: KindRepoNotFound, URL: url}
}

// NewIo wraps a filesystem error with its path
func NewIo(path string, err error) *Error {
	return &Error{Kind: KindIo, Path: path, Err: err}
}

// NewInvalidYaml wraps a YAML decoder error
func NewInvalidYaml(err error) *Error {
	return &Error{Kind: KindInvalidYaml, Err: err}
}

// NewNoSkillsFound reports an empty discovery result
func NewNoSkillsFound(path string) *Error {
	return &Error{Kind: KindNoSkillsFound, Path: path}
}

// NewConfig creates a configuration error
func NewConfig(message string, err error) *Error {
	return &Error{Kind: KindConfig, Message: message, Err: err}
}

// NewTemplate creates a template rendering error
func NewTemplate(name string, err error) *Error {
	return &Error{Kind: KindTemplate, Message: "template " + name, Err: err}
}

// NewInvalidSkillName reports a name unusable for a new skill
func NewInvalidSkillName(name string) *Error {
	return &Error{Kind: KindInvalidSkillName, Input: name}
}

// NewAlreadyExists reports a skill directory that is already present
func NewAlreadyExists(name, path string) *Error {
	return &Error{Kind: KindAlreadyExists, Input: name, Path: path}
}

// PathError wraps errors with path context
type PathError struct {
	Path string
	Op   string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// NewPathError creates a new path error
func NewPathError(path, op string, err error) *PathError {
	return &PathError{Path: path, Op: op, Err: err}
}
