// Package vcs is the version-control preflight for mutation runs. A crash
// mid-run leaves the source file mutated on disk, so a run only starts when
// the file's committed state can recover it.
package vcs

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/rs/zerolog/log"
)

// ErrNotARepository indicates the source file is not inside a git worktree.
var ErrNotARepository = errors.New("not inside a git repository")

// Repo wraps the git repository that contains a source file.
type Repo struct {
	repo *git.Repository
	root string
}

// Open discovers the repository containing path by walking up to the
// nearest .git directory.
func Open(path string) (*Repo, error) {
	dir := filepath.Dir(path)

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotARepository
		}
		return nil, fmt.Errorf("opening repository for %s: %w", path, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}

	return &Repo{repo: repo, root: worktree.Filesystem.Root()}, nil
}

// Check reports whether the worktree copy of path carries uncommitted
// modifications.
func (r *Repo) Check(path string) (dirty bool, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("resolving %s: %w", path, err)
	}

	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		return false, fmt.Errorf("relativizing %s against %s: %w", abs, r.root, err)
	}
	rel = filepath.ToSlash(rel)

	worktree, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("reading worktree status: %w", err)
	}

	// Clean tracked files are absent from the status map; Status.File would
	// report them as untracked.
	fileStatus, present := status[rel]
	dirty = present &&
		(fileStatus.Worktree != git.Unmodified || fileStatus.Staging != git.Unmodified)

	log.Debug().
		Str("file", rel).
		Bool("dirty", dirty).
		Msg("worktree preflight")

	return dirty, nil
}

// Head returns the current commit SHA.
func (r *Repo) Head() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// Root returns the worktree root directory.
func (r *Repo) Root() string {
	return r.root
}
