// Package gitinfo reads the state of the repository enclosing a path.
package gitinfo

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNotRepository is returned when path is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// Info describes the checked-out revision.
type Info struct {
	Branch string
	Commit string
	Dirty  bool
}

// String formats Info for a report header, e.g. "main @ 1a2b3c4 (modificado)".
func (i Info) String() string {
	branch := i.Branch
	if branch == "" {
		branch = "HEAD"
	}
	commit := i.Commit
	if commit == "" {
		commit = "sin commits"
	}
	s := fmt.Sprintf("%s @ %s", branch, commit)
	if i.Dirty {
		s += " (modificado)"
	}
	return s
}

// Describe opens the repository enclosing path (searching parent
// directories) and reports its HEAD. A repository without commits reports
// an empty Commit.
func Describe(path string) (Info, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return Info{}, ErrNotRepository
		}
		return Info{}, fmt.Errorf("failed to open repository at %s: %w", path, err)
	}

	var info Info
	head, err := repo.Head()
	switch {
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		// Unborn branch: HEAD still names it symbolically.
		if ref, err := repo.Reference(plumbing.HEAD, false); err == nil && ref.Type() == plumbing.SymbolicReference {
			info.Branch = ref.Target().Short()
		}
	case err != nil:
		return Info{}, fmt.Errorf("failed to resolve HEAD: %w", err)
	default:
		if head.Name().IsBranch() {
			info.Branch = head.Name().Short()
		}
		info.Commit = head.Hash().String()
		if len(info.Commit) > 7 {
			info.Commit = info.Commit[:7]
		}
	}

	wt, err := repo.Worktree()
	if err != nil {
		return info, nil
	}
	status, err := wt.Status()
	if err != nil {
		return info, fmt.Errorf("failed to read worktree status: %w", err)
	}
	info.Dirty = !status.IsClean()
	return info, nil
}
