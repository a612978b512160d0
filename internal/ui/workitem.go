package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/FelixDamrau/cazdo/internal/azdo"
	"github.com/FelixDamrau/cazdo/internal/git"
	"github.com/FelixDamrau/cazdo/internal/render"
)

var (
	boldStyle        = lipgloss.NewStyle().Bold(true)
	itemTitleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	fieldHeaderStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// WorkItemLines builds the details pane content for the selected branch.
// The result is cached by the caller so its length can drive scrolling.
func WorkItemLines(branch git.BranchInfo, st azdo.WorkItemStatus, width int) []render.Line {
	if branch.WorkItemID == 0 {
		return []render.Line{mutedLine("no work item linked to this branch")}
	}

	switch st.State {
	case azdo.Loading:
		return []render.Line{mutedLine(fmt.Sprintf("loading work item #%d ...", branch.WorkItemID))}

	case azdo.FetchFailed:
		lines := []render.Line{
			render.NewLine(render.Span{Text: fmt.Sprintf("work item #%d", branch.WorkItemID), Style: boldStyle}),
			{},
		}
		for _, w := range render.Wrap(st.Err, width) {
			lines = append(lines, render.NewLine(render.Span{Text: w, Style: ErrorStyle}))
		}
		return lines

	case azdo.Loaded:
		return loadedWorkItemLines(st.Item, width)

	default:
		return []render.Line{mutedLine(fmt.Sprintf("work item #%d not fetched", branch.WorkItemID))}
	}
}

func loadedWorkItemLines(wi *azdo.WorkItem, width int) []render.Line {
	var lines []render.Line

	head := fmt.Sprintf("%s %s #%d", wi.Type.Icon(), wi.Type.Name, wi.ID)
	lines = append(lines, render.NewLine(render.Span{Text: head, Style: TitleStyle}))
	for _, t := range render.Wrap(wi.Title, width) {
		lines = append(lines, render.NewLine(render.Span{Text: t, Style: itemTitleStyle}))
	}
	lines = append(lines, render.Line{})

	lines = append(lines, render.NewLine(
		render.Span{Text: "State:    ", Style: MutedStyle},
		render.Span{Text: wi.State.Icon() + " " + wi.State.Name, Style: stateStyle(wi.State.Kind)},
	))

	assignee := wi.AssignedTo
	assigneeStyle := BranchStyle
	if assignee == "" {
		assignee = "unassigned"
		assigneeStyle = MutedStyle
	}
	lines = append(lines, render.NewLine(
		render.Span{Text: "Assigned: ", Style: MutedStyle},
		render.Span{Text: assignee, Style: assigneeStyle},
	))

	if len(wi.Tags) > 0 {
		lines = append(lines, render.NewLine(
			render.Span{Text: "Tags:     ", Style: MutedStyle},
			render.Span{Text: strings.Join(wi.Tags, ", "), Style: ProtectedStyle},
		))
	}

	for _, rt := range wi.RichText {
		lines = append(lines, render.Line{})
		lines = append(lines, render.NewLine(render.Span{Text: rt.Name, Style: fieldHeaderStyle}))
		lines = append(lines, render.HTML(rt.Value, width)...)
	}

	return lines
}

func mutedLine(text string) render.Line {
	return render.NewLine(render.Span{Text: text, Style: MutedStyle})
}

func stateStyle(k azdo.StateKind) lipgloss.Style {
	switch k {
	case azdo.StateDone, azdo.StateClosed, azdo.StateResolved:
		return UpToDateStyle
	case azdo.StateActive, azdo.StateCommitted:
		return CurrentStyle
	case azdo.StateRemoved:
		return ErrorStyle
	default:
		return BranchStyle
	}
}
