// Package git provides the local repository operations behind the branch
// list: discovery, branch enumeration, remote-tracking status, deletion and
// checkout. Everything shells out to the git binary.
package git

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// Repo is an open git repository.
type Repo struct {
	// Root is the working tree root directory.
	Root string
}

// Discover locates the repository containing dir.
func Discover(dir string) (*Repo, error) {
	out, err := runGitIn(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("not a git repository (or any of the parent directories): %w", err)
	}
	return &Repo{Root: strings.TrimSpace(out)}, nil
}

// CurrentBranch returns the checked-out branch name. In detached HEAD state
// it returns a synthesized "(detached HEAD at <short-sha>)" label.
func (r *Repo) CurrentBranch() (string, error) {
	out, err := r.run("symbolic-ref", "--short", "HEAD")
	if err == nil {
		return strings.TrimSpace(out), nil
	}

	sha, err := r.run("rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}
	return fmt.Sprintf("(detached HEAD at %s)", strings.TrimSpace(sha)), nil
}

// ListBranches returns the names of all local branches.
func (r *Repo) ListBranches() ([]string, error) {
	out, err := r.run("for-each-ref", "--format=%(refname:short)", "refs/heads/")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// run executes a git command in the repository root.
func (r *Repo) run(args ...string) (string, error) {
	return runGitIn(r.Root, args...)
}

// runGitIn executes a git command in a specific directory.
func runGitIn(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}
