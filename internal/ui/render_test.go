package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FelixDamrau/cazdo/internal/azdo"
	"github.com/FelixDamrau/cazdo/internal/git"
)

func TestWorkItemLinesNoLinkedItem(t *testing.T) {
	lines := WorkItemLines(git.BranchInfo{Name: "chore/cleanup"}, azdo.WorkItemStatus{}, 60)

	require.Len(t, lines, 1)
	assert.Equal(t, "no work item linked to this branch", lines[0].Text())
}

func TestWorkItemLinesLoading(t *testing.T) {
	branch := git.BranchInfo{Name: "feature/123-x", WorkItemID: 123}
	lines := WorkItemLines(branch, azdo.WorkItemStatus{State: azdo.Loading}, 60)

	require.Len(t, lines, 1)
	assert.Contains(t, lines[0].Text(), "#123")
}

func TestWorkItemLinesFetchFailed(t *testing.T) {
	branch := git.BranchInfo{Name: "feature/123-x", WorkItemID: 123}
	st := azdo.WorkItemStatus{State: azdo.FetchFailed, Err: "work item #123: work item not found"}
	lines := WorkItemLines(branch, st, 60)

	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[0].Text(), "work item #123")
	assert.Contains(t, lines[2].Text(), "not found")
}

func TestWorkItemLinesLoaded(t *testing.T) {
	wi := &azdo.WorkItem{
		ID:         42,
		Title:      "Login button unresponsive",
		Type:       azdo.ParseType("Bug"),
		State:      azdo.ParseState("Active"),
		AssignedTo: "Jamie Rivera",
		Tags:       []string{"ui", "regression"},
		RichText: []azdo.RichTextField{
			{Name: "Repro Steps", Value: "<ol><li>Open app</li><li>Click login</li></ol>"},
		},
	}
	branch := git.BranchInfo{Name: "bugfix/42-login", WorkItemID: 42}
	lines := WorkItemLines(branch, azdo.WorkItemStatus{State: azdo.Loaded, Item: wi}, 60)

	var texts []string
	for _, l := range lines {
		texts = append(texts, l.Text())
	}
	joined := strings.Join(texts, "\n")

	assert.Contains(t, texts[0], "Bug #42")
	assert.Contains(t, joined, "Login button unresponsive")
	assert.Contains(t, joined, "Active")
	assert.Contains(t, joined, "Jamie Rivera")
	assert.Contains(t, joined, "ui, regression")
	assert.Contains(t, joined, "Repro Steps")
	assert.Contains(t, joined, "1. Open app")
	assert.Contains(t, joined, "2. Click login")
}

func TestFormatRemoteStatus(t *testing.T) {
	tests := []struct {
		rs   git.RemoteStatus
		want string
	}{
		{git.RemoteStatus{State: git.RemoteLocalOnly}, "local only"},
		{git.RemoteStatus{State: git.RemoteUpToDate}, "up to date"},
		{git.RemoteStatus{State: git.RemoteAhead, Ahead: 2}, "↑2"},
		{git.RemoteStatus{State: git.RemoteBehind, Behind: 3}, "↓3"},
		{git.RemoteStatus{State: git.RemoteDiverged, Ahead: 1, Behind: 4}, "↑1 ↓4"},
		{git.RemoteStatus{State: git.RemoteGone}, "remote gone"},
	}

	for _, tt := range tests {
		assert.Contains(t, FormatRemoteStatus(tt.rs), tt.want)
	}
}

func TestLayoutHelpers(t *testing.T) {
	assert.GreaterOrEqual(t, ListPaneWidth(100, 30), 20)
	assert.LessOrEqual(t, ListPaneWidth(100, 30), 70)
	// Out-of-range percentages fall back to the default split.
	assert.Equal(t, ListPaneWidth(100, 30), ListPaneWidth(100, 0))

	assert.GreaterOrEqual(t, DetailContentWidth(40, 30), 10)
	assert.GreaterOrEqual(t, DetailViewHeight(5), 1)
	assert.Greater(t, DetailViewHeight(40), DetailViewHeight(20))
}

func TestRenderDoesNotPanic(t *testing.T) {
	branch := git.BranchInfo{Name: "feature/123-x", WorkItemID: 123}
	status := git.BranchStatus{Remote: git.RemoteStatus{State: git.RemoteAhead, Ahead: 1}}

	p := Params{
		Width:          100,
		Height:         30,
		Branches:       []git.BranchInfo{{Name: "main", IsCurrent: true, IsProtected: true}, branch},
		Cursor:         1,
		BranchPanePct:  30,
		Selected:       &branch,
		SelectedStatus: &status,
		DetailLines:    WorkItemLines(branch, azdo.WorkItemStatus{State: azdo.Loading}, 60),
	}

	out := Render(p)
	assert.NotEmpty(t, out)

	p.Mode = ModeConfirmDelete
	p.ConfirmTarget = "feature/123-x"
	assert.NotEmpty(t, Render(p))

	p.Mode = ModeErrorPopup
	p.PopupMessage = "checkout failed"
	assert.NotEmpty(t, Render(p))

	// Tiny terminals degrade instead of panicking.
	p.Mode = ModeNormal
	p.Width, p.Height = 10, 3
	assert.NotEmpty(t, Render(p))
}
