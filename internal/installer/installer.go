package installer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/samhoang/skilo/internal/agent"
	skiloerrors "github.com/samhoang/skilo/internal/errors"
	"github.com/samhoang/skilo/internal/logger"
)

// Target is a directory skills are installed into
type Target struct {
	Agent agent.Agent
	Scope agent.Scope
	Dir   string
	// Custom is set for an explicit --output directory
	Custom bool
}

func (t Target) String() string {
	if t.Custom {
		return t.Dir
	}
	scope := ""
	if t.Scope.IsGlobal() {
		scope = " (global)"
	}
	return fmt.Sprintf("%s%s: %s", t.Agent.DisplayName(), scope, t.Dir)
}

// Status is what happened to one skill
type Status int

const (
	Installed Status = iota
	SkippedInvalid
	SkippedExisting
)

// Event reports the outcome for one skill and target
type Event struct {
	Target Target
	Name   string
	Status Status
	Reason string
}

// ConfirmFunc asks whether an existing skill may be replaced
type ConfirmFunc func(name, dst string) (bool, error)

// Installer copies candidates into targets
type Installer struct {
	// Confirm is asked before replacing an installed skill; nil replaces
	Confirm ConfirmFunc
	// Notify receives one event per skill and target
	Notify func(Event)
	// Link symlinks each skill directory instead of copying it. The
	// source must outlive the install.
	Link bool
}

// TargetReport lists what was installed into one target
type TargetReport struct {
	Target    Target
	Installed []string
}

// Report is the outcome of Install
type Report struct {
	Targets []TargetReport
}

// Total counts installed skills across targets
func (r *Report) Total() int {
	n := 0
	for _, t := range r.Targets {
		n += len(t.Installed)
	}
	return n
}

// Install copies every valid candidate into every target. Invalid
// candidates are skipped. A failing target does not stop the others; the
// failures are returned together. A Confirm error aborts immediately.
func (i *Installer) Install(cands []Candidate, targets []Target) (*Report, error) {
	report := &Report{}
	var result *multierror.Error

	for _, t := range targets {
		tr := TargetReport{Target: t}
		err := i.installTarget(cands, t, &tr)
		report.Targets = append(report.Targets, tr)
		if err != nil {
			if skiloerrors.KindOf(err) == skiloerrors.KindCancelled {
				return report, err
			}
			result = multierror.Append(result, fmt.Errorf("%s: %w", t.Dir, err))
		}
	}

	return report, result.ErrorOrNil()
}

func (i *Installer) installTarget(cands []Candidate, t Target, tr *TargetReport) error {
	if err := os.MkdirAll(t.Dir, 0755); err != nil {
		return skiloerrors.NewIo(t.Dir, err)
	}

	log := logger.L.WithField("target", t.Dir)
	for _, c := range cands {
		if !c.Valid() {
			i.notify(Event{Target: t, Name: c.Name, Status: SkippedInvalid, Reason: strings.Join(c.ErrorMessages(), ", ")})
			continue
		}

		dst := filepath.Join(t.Dir, c.Name)
		if _, err := os.Lstat(dst); err == nil {
			if i.Confirm != nil {
				ok, err := i.Confirm(c.Name, dst)
				if err != nil {
					return err
				}
				if !ok {
					i.notify(Event{Target: t, Name: c.Name, Status: SkippedExisting})
					continue
				}
			}
			log.WithField("skill", c.Name).Debug("replacing installed skill")
			if err := os.RemoveAll(dst); err != nil {
				return skiloerrors.NewIo(dst, err)
			}
		}

		if i.Link {
			if err := Link(c.Dir, dst); err != nil {
				return skiloerrors.NewPathError(dst, "link", err)
			}
		} else if err := CopyTree(c.Dir, dst); err != nil {
			os.RemoveAll(dst)
			return err
		}
		tr.Installed = append(tr.Installed, c.Name)
		i.notify(Event{Target: t, Name: c.Name, Status: Installed})
	}
	return nil
}

func (i *Installer) notify(e Event) {
	if i.Notify != nil {
		i.Notify(e)
	}
}

// Uninstall removes the named skills from dir. Names without a SKILL.md
// are returned in missing. Removal failures are aggregated.
func Uninstall(dir string, names []string) (removed, missing []string, err error) {
	var result *multierror.Error
	for _, name := range names {
		path := filepath.Join(dir, name)
		if !agent.SkillExists(dir, name) {
			missing = append(missing, name)
			continue
		}
		if rmErr := os.RemoveAll(path); rmErr != nil {
			result = multierror.Append(result, skiloerrors.NewPathError(path, "remove", rmErr))
			continue
		}
		removed = append(removed, name)
	}
	return removed, missing, result.ErrorOrNil()
}

// CopyTree copies src into dst recursively, following symlinks and
// skipping .git directories.
func CopyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return skiloerrors.NewPathError(src, "stat", err)
	}
	if info.IsDir() {
		return copyDir(src, dst)
	}
	return copyFile(src, dst)
}

func copyDir(src, dst string) error {
	if err := os.MkdirAll(dst, 0755); err != nil {
		return skiloerrors.NewPathError(dst, "create", err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return skiloerrors.NewPathError(src, "read", err)
	}

	for _, entry := range entries {
		if entry.Name() == ".git" {
			continue
		}
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		info, err := os.Stat(srcPath)
		if err != nil {
			return skiloerrors.NewPathError(srcPath, "stat", err)
		}
		if info.IsDir() {
			err = copyDir(srcPath, dstPath)
		} else {
			err = copyFile(srcPath, dstPath)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return skiloerrors.NewPathError(src, "open", err)
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return skiloerrors.NewPathError(src, "stat", err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return skiloerrors.NewPathError(filepath.Dir(dst), "create", err)
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return skiloerrors.NewPathError(dst, "create", err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return skiloerrors.NewPathError(dst, "write", err)
	}
	// OpenFile applies the umask; restore the source mode so scripts stay executable
	return os.Chmod(dst, srcInfo.Mode().Perm())
}
