package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// newTestRepo creates a throwaway repository with one commit on main.
func newTestRepo(t *testing.T) *Repo {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	dir := t.TempDir()
	mustGit(t, dir, "init", "-b", "main")
	mustGit(t, dir, "config", "user.name", "Test User")
	mustGit(t, dir, "config", "user.email", "test@example.com")

	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	mustGit(t, dir, "add", ".")
	mustGit(t, dir, "commit", "-m", "initial commit")

	repo, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	return repo
}

func mustGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := runGitIn(dir, args...)
	if err != nil {
		t.Fatalf("git %v: %v", args, err)
	}
	return out
}

func TestDiscoverNonRepo(t *testing.T) {
	_, err := Discover(t.TempDir())
	if err == nil {
		t.Fatal("expected error outside a repository")
	}
}

func TestCurrentBranch(t *testing.T) {
	repo := newTestRepo(t)

	branch, err := repo.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch: %v", err)
	}
	if branch != "main" {
		t.Errorf("expected main, got %q", branch)
	}
}

func TestCurrentBranchDetached(t *testing.T) {
	repo := newTestRepo(t)
	sha := strings.TrimSpace(mustGit(t, repo.Root, "rev-parse", "HEAD"))
	mustGit(t, repo.Root, "checkout", "--detach", sha)

	branch, err := repo.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch: %v", err)
	}
	if !strings.HasPrefix(branch, "(detached HEAD at ") {
		t.Errorf("expected detached label, got %q", branch)
	}
}

func TestListBranches(t *testing.T) {
	repo := newTestRepo(t)
	mustGit(t, repo.Root, "branch", "feature/123-login")
	mustGit(t, repo.Root, "branch", "fix/456")

	branches, err := repo.ListBranches()
	if err != nil {
		t.Fatalf("ListBranches: %v", err)
	}
	if len(branches) != 3 {
		t.Fatalf("expected 3 branches, got %d: %v", len(branches), branches)
	}
}

func TestExtractWorkItemID(t *testing.T) {
	tests := []struct {
		branch string
		id     int
		ok     bool
	}{
		{"feature/123-login", 123, true},
		{"123", 123, true},
		{"fix-42-crash-7", 42, true},
		{"main", 0, false},
		{"", 0, false},
		{"feature/0-zero", 0, false},
		{"v2-feature-314", 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.branch, func(t *testing.T) {
			id, ok := ExtractWorkItemID(tt.branch)
			if ok != tt.ok || id != tt.id {
				t.Errorf("ExtractWorkItemID(%q) = (%d, %v), want (%d, %v)", tt.branch, id, ok, tt.id, tt.ok)
			}
		})
	}
}

func TestDeleteBranch(t *testing.T) {
	repo := newTestRepo(t)
	mustGit(t, repo.Root, "branch", "feature/123-x")
	wantSHA := strings.TrimSpace(mustGit(t, repo.Root, "rev-parse", "refs/heads/feature/123-x"))

	sha, err := repo.DeleteBranch("feature/123-x", nil)
	if err != nil {
		t.Fatalf("DeleteBranch: %v", err)
	}
	if sha != wantSHA {
		t.Errorf("expected sha %s, got %s", wantSHA, sha)
	}

	branches, _ := repo.ListBranches()
	for _, b := range branches {
		if b == "feature/123-x" {
			t.Error("branch still exists after deletion")
		}
	}
}

func TestDeleteBranchRefusals(t *testing.T) {
	repo := newTestRepo(t)
	mustGit(t, repo.Root, "branch", "releases/v1.0")

	// Current branch is always refused.
	if _, err := repo.DeleteBranch("main", nil); err == nil {
		t.Error("expected refusal deleting current branch")
	} else if !strings.Contains(err.Error(), "current branch") {
		t.Errorf("unexpected refusal message: %v", err)
	}

	// Protected pattern match is refused.
	if _, err := repo.DeleteBranch("releases/v1.0", []string{"releases/*"}); err == nil {
		t.Error("expected refusal deleting protected branch")
	} else if !strings.Contains(err.Error(), "protected") {
		t.Errorf("unexpected refusal message: %v", err)
	}

	// Unknown branch is a handled error, not a panic.
	if _, err := repo.DeleteBranch("no-such-branch", nil); err == nil {
		t.Error("expected error deleting unknown branch")
	}
}

func TestCheckout(t *testing.T) {
	repo := newTestRepo(t)
	mustGit(t, repo.Root, "branch", "feature/99")

	if err := repo.Checkout("feature/99"); err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	branch, _ := repo.CurrentBranch()
	if branch != "feature/99" {
		t.Errorf("expected feature/99, got %q", branch)
	}

	if err := repo.Checkout("does-not-exist"); err == nil {
		t.Error("expected error checking out unknown branch")
	}
}

func TestBranchStatusLocalOnly(t *testing.T) {
	repo := newTestRepo(t)

	status := repo.BranchStatus("main")
	if status.Remote.State != RemoteLocalOnly {
		t.Errorf("expected LocalOnly, got %v", status.Remote.State)
	}
	if status.LastCommitAuthor != "Test User" {
		t.Errorf("expected author Test User, got %q", status.LastCommitAuthor)
	}
	if status.LastCommitTime == 0 {
		t.Error("expected non-zero commit time")
	}
}

func TestBranchStatusWithUpstream(t *testing.T) {
	// Use a second repo as the remote to exercise the ahead/behind paths.
	remote := newTestRepo(t)

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	dir := t.TempDir()
	mustGit(t, dir, "clone", remote.Root, "clone")
	cloneDir := filepath.Join(dir, "clone")
	repo, err := Discover(cloneDir)
	if err != nil {
		t.Fatalf("Discover clone: %v", err)
	}
	mustGit(t, cloneDir, "config", "user.name", "Test User")
	mustGit(t, cloneDir, "config", "user.email", "test@example.com")

	status := repo.BranchStatus("main")
	if status.Remote.State != RemoteUpToDate {
		t.Fatalf("expected UpToDate, got %v", status.Remote.State)
	}

	// A local commit puts the branch ahead.
	if err := os.WriteFile(filepath.Join(cloneDir, "new.txt"), []byte("x\n"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	mustGit(t, cloneDir, "add", ".")
	mustGit(t, cloneDir, "commit", "-m", "local work")

	status = repo.BranchStatus("main")
	if status.Remote.State != RemoteAhead || status.Remote.Ahead != 1 {
		t.Errorf("expected Ahead(1), got %+v", status.Remote)
	}
}

func TestBranchStatusGone(t *testing.T) {
	remote := newTestRepo(t)
	mustGit(t, remote.Root, "branch", "doomed")

	dir := t.TempDir()
	mustGit(t, dir, "clone", remote.Root, "clone")
	cloneDir := filepath.Join(dir, "clone")
	repo, err := Discover(cloneDir)
	if err != nil {
		t.Fatalf("Discover clone: %v", err)
	}
	mustGit(t, cloneDir, "checkout", "doomed")
	mustGit(t, cloneDir, "checkout", "main")

	// Delete the branch on the remote and prune; upstream config remains.
	mustGit(t, remote.Root, "branch", "-D", "doomed")
	mustGit(t, cloneDir, "fetch", "--prune")

	status := repo.BranchStatus("doomed")
	if status.Remote.State != RemoteGone {
		t.Errorf("expected Gone, got %v", status.Remote.State)
	}
}
