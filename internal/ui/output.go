package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/FelixDamrau/cazdo/internal/azdo"
	"github.com/FelixDamrau/cazdo/internal/git"
	"github.com/FelixDamrau/cazdo/internal/render"
)

// One-shot boxes for non-interactive output (the info subcommand).

const summaryWidth = 58

// WorkItemSummary renders a work item as a standalone box.
func WorkItemSummary(wi *azdo.WorkItem) string {
	var lines []string

	lines = append(lines, TitleStyle.Render(fmt.Sprintf("%s %s #%d", wi.Type.Icon(), wi.Type.Name, wi.ID)))
	for _, t := range render.Wrap(wi.Title, summaryWidth-4) {
		lines = append(lines, boldStyle.Render(t))
	}
	lines = append(lines, "")
	lines = append(lines,
		MutedStyle.Render("State:    ")+stateStyle(wi.State.Kind).Render(wi.State.Icon()+" "+wi.State.Name))

	assignee := wi.AssignedTo
	if assignee == "" {
		assignee = "unassigned"
	}
	lines = append(lines, MutedStyle.Render("Assigned: ")+assignee)

	if len(wi.Tags) > 0 {
		lines = append(lines, MutedStyle.Render("Tags:     ")+ProtectedStyle.Render(strings.Join(wi.Tags, ", ")))
	}
	if wi.URL != "" {
		lines = append(lines, MutedStyle.Render("URL:      ")+wi.URL)
	}

	return PaneStyle.Width(summaryWidth).Render(strings.Join(lines, "\n"))
}

// BranchSummary renders branch status as a standalone box, used when the
// branch carries no work item id.
func BranchSummary(branch git.BranchInfo, st git.BranchStatus, now time.Time) string {
	var lines []string

	name := TitleStyle.Render(branch.Name)
	if branch.IsCurrent {
		name += " " + CurrentStyle.Render("(current)")
	}
	if branch.IsProtected {
		name += " " + ProtectedStyle.Render("(protected)")
	}
	lines = append(lines, name)
	lines = append(lines, FormatRemoteStatus(st.Remote))
	lines = append(lines, formatLastCommit(st, now))

	return PaneStyle.Width(summaryWidth).Render(strings.Join(lines, "\n"))
}

// ErrorSummary renders an error as a standalone box.
func ErrorSummary(msg string) string {
	content := ErrorStyle.Render("error") + "\n" +
		strings.Join(render.Wrap(msg, summaryWidth-4), "\n")
	return PopupStyle.Width(summaryWidth).Render(content)
}
