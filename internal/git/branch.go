package git

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FelixDamrau/cazdo/internal/pattern"
)

// BranchInfo is one entry in the interactive branch list. IsCurrent and
// IsProtected are fixed at enumeration time; the list is only ever mutated
// by removal (deletion) or by moving IsCurrent on checkout.
type BranchInfo struct {
	Name        string
	WorkItemID  int // 0 when the name carries no id
	IsCurrent   bool
	IsProtected bool
}

// BuildBranchInfos classifies branch names against the current branch and
// the protected patterns.
func BuildBranchInfos(names []string, current string, protected []string) []BranchInfo {
	infos := make([]BranchInfo, 0, len(names))
	for _, name := range names {
		id, _ := ExtractWorkItemID(name)
		infos = append(infos, BranchInfo{
			Name:        name,
			WorkItemID:  id,
			IsCurrent:   name == current,
			IsProtected: pattern.IsProtected(name, protected),
		})
	}
	return infos
}

// ExtractWorkItemID returns the first run of digits in a branch name,
// interpreted as a work item id. Returns false if the name carries no digits
// or the number is not positive.
func ExtractWorkItemID(branch string) (int, bool) {
	start := -1
	for i := 0; i <= len(branch); i++ {
		if i < len(branch) && branch[i] >= '0' && branch[i] <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			id, err := strconv.Atoi(branch[start:i])
			if err == nil && id > 0 {
				return id, true
			}
			start = -1
		}
	}
	return 0, false
}

// DeleteBranch removes a local branch and returns its pre-deletion commit id
// for recovery messaging. Deleting the current branch or a branch matching a
// protected pattern is refused.
func (r *Repo) DeleteBranch(name string, protected []string) (string, error) {
	current, err := r.CurrentBranch()
	if err == nil && name == current {
		return "", fmt.Errorf("cannot delete current branch")
	}
	if pattern.IsProtected(name, protected) {
		return "", fmt.Errorf("cannot delete protected branch '%s'", name)
	}

	sha, err := r.run("rev-parse", "refs/heads/"+name)
	if err != nil {
		return "", fmt.Errorf("branch '%s' not found: %w", name, err)
	}
	sha = strings.TrimSpace(sha)

	if _, err := r.run("branch", "-D", name); err != nil {
		return "", err
	}
	return sha, nil
}

// Checkout switches the working tree to the named branch. Conflicts and
// invalid targets surface as errors carrying git's own message.
func (r *Repo) Checkout(name string) error {
	_, err := r.run("checkout", name)
	return err
}
