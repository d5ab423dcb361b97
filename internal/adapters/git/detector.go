// Package git captures the repository context of a tracked session using go-git.
package git

import (
	"context"
	"fmt"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/xvierd/clockin/internal/ports"
)

// Detector implements the ports.GitDetector interface using go-git.
type Detector struct {
	dir string
}

// NewDetector creates a detector rooted at dir. An empty dir means the
// process working directory.
func NewDetector(dir string) *Detector {
	return &Detector{dir: dir}
}

// Ensure Detector implements ports.GitDetector.
var _ ports.GitDetector = (*Detector)(nil)

func (d *Detector) resolve(workingDir string) (string, error) {
	if workingDir != "" {
		return workingDir, nil
	}
	if d.dir != "" {
		return d.dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return cwd, nil
}

func open(dir string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
}

// Detect reads the branch and HEAD commit of the repository containing
// workingDir. The worktree is not scanned.
func (d *Detector) Detect(ctx context.Context, workingDir string) (*ports.GitInfo, error) {
	dir, err := d.resolve(workingDir)
	if err != nil {
		return nil, err
	}

	repo, err := open(dir)
	if err != nil {
		return nil, fmt.Errorf("git repository not found: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	branch := head.Name().Short()
	if !head.Name().IsBranch() {
		branch = "HEAD detached"
	}

	return &ports.GitInfo{
		Branch: branch,
		Commit: head.Hash().String(),
	}, nil
}

// IsAvailable reports whether the detector's directory is inside a repository.
func (d *Detector) IsAvailable() bool {
	dir, err := d.resolve("")
	if err != nil {
		return false
	}
	_, err = open(dir)
	return err == nil
}

// ShortCommit returns the first seven characters of a commit hash.
func ShortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
