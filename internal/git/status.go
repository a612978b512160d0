package git

import (
	"strconv"
	"strings"
)

// RemoteState classifies a branch against its upstream.
type RemoteState int

const (
	// RemoteLocalOnly means no upstream was ever configured (or status could
	// not be determined - status display is best-effort).
	RemoteLocalOnly RemoteState = iota
	// RemoteUpToDate means local and upstream tips are equal.
	RemoteUpToDate
	// RemoteAhead means the local branch has commits the upstream lacks.
	RemoteAhead
	// RemoteBehind means the upstream has commits the local branch lacks.
	RemoteBehind
	// RemoteDiverged means both sides have commits the other lacks.
	RemoteDiverged
	// RemoteGone means an upstream is configured but its ref no longer
	// resolves (deleted on the remote).
	RemoteGone
)

// RemoteStatus is the remote-tracking classification of a branch.
type RemoteStatus struct {
	State  RemoteState
	Ahead  int
	Behind int
}

// BranchStatus holds remote tracking state and last-commit metadata for a
// branch.
type BranchStatus struct {
	Remote RemoteStatus

	// LastCommitAuthor and LastCommitTime describe the branch tip. Author is
	// empty and time zero when unavailable.
	LastCommitAuthor string
	LastCommitTime   int64
}

// BranchStatus computes the remote-tracking classification and last-commit
// metadata for a branch. Any resolution failure degrades to LocalOnly rather
// than returning an error.
func (r *Repo) BranchStatus(name string) BranchStatus {
	status := BranchStatus{Remote: r.remoteStatus(name)}

	if out, err := r.run("log", "-1", "--format=%an%x00%ct", "refs/heads/"+name); err == nil {
		parts := strings.Split(strings.TrimSpace(out), "\x00")
		if len(parts) == 2 {
			status.LastCommitAuthor = parts[0]
			if ts, err := strconv.ParseInt(parts[1], 10, 64); err == nil {
				status.LastCommitTime = ts
			}
		}
	}

	return status
}

func (r *Repo) remoteStatus(name string) RemoteStatus {
	if _, err := r.run("rev-parse", "--verify", "--quiet", name+"@{upstream}"); err != nil {
		// Upstream ref does not resolve. If tracking is configured the
		// remote branch is gone; otherwise the branch is local-only.
		if _, err := r.run("config", "--get", "branch."+name+".merge"); err == nil {
			return RemoteStatus{State: RemoteGone}
		}
		return RemoteStatus{State: RemoteLocalOnly}
	}

	out, err := r.run("rev-list", "--left-right", "--count", name+"@{upstream}..."+name)
	if err != nil {
		return RemoteStatus{State: RemoteLocalOnly}
	}

	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) != 2 {
		return RemoteStatus{State: RemoteLocalOnly}
	}
	behind, _ := strconv.Atoi(fields[0])
	ahead, _ := strconv.Atoi(fields[1])

	switch {
	case ahead == 0 && behind == 0:
		return RemoteStatus{State: RemoteUpToDate}
	case behind == 0:
		return RemoteStatus{State: RemoteAhead, Ahead: ahead}
	case ahead == 0:
		return RemoteStatus{State: RemoteBehind, Behind: behind}
	default:
		return RemoteStatus{State: RemoteDiverged, Ahead: ahead, Behind: behind}
	}
}
