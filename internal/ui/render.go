package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/FelixDamrau/cazdo/internal/azdo"
	"github.com/FelixDamrau/cazdo/internal/git"
	"github.com/FelixDamrau/cazdo/internal/render"
)

// Mode constants (matching app.Mode)
const (
	ModeNormal = iota
	ModeConfirmDelete
	ModeErrorPopup
)

// Params contains all parameters needed for rendering a frame.
type Params struct {
	Width  int
	Height int

	Branches      []git.BranchInfo // visible subset
	Cursor        int
	ShowProtected bool
	BranchPanePct int

	Selected         *git.BranchInfo
	SelectedStatus   *git.BranchStatus
	SelectedWorkItem azdo.WorkItemStatus

	DetailLines  []render.Line
	ScrollOffset int

	Mode          int
	ConfirmTarget string
	PopupMessage  string

	Status        string // live status message, empty when none
	StatusIsError bool
	Spinner       string

	Now time.Time
}

// MinWidth is the absolute minimum terminal width we try to support.
const MinWidth = 40

// MinHeight is the absolute minimum terminal height we try to support.
const MinHeight = 10

// branchInfoHeight is the branch info pane height including its border.
const branchInfoHeight = 5

// ListPaneWidth returns the width of the branch list pane for a terminal
// width and configured percentage.
func ListPaneWidth(total, percent int) int {
	if percent < 10 || percent > 90 {
		percent = 30
	}
	w := total * percent / 100
	if w < 20 {
		w = 20
	}
	if maxW := total - 30; w > maxW && maxW >= 20 {
		w = maxW
	}
	return w
}

// DetailContentWidth returns the usable text width inside the details pane.
func DetailContentWidth(total, percent int) int {
	if total < MinWidth {
		total = MinWidth
	}
	// Borders and padding of both panes take 8 columns.
	w := total - ListPaneWidth(total, percent) - 8
	if w < 10 {
		w = 10
	}
	return w
}

// DetailViewHeight returns the number of content lines visible in the
// details pane.
func DetailViewHeight(total int) int {
	if total < MinHeight {
		total = MinHeight
	}
	// Footer, branch info pane and the details pane border.
	h := total - 1 - branchInfoHeight - 2
	if h < 1 {
		h = 1
	}
	return h
}

// Render renders the full UI.
func Render(p Params) string {
	if p.Width < MinWidth {
		p.Width = MinWidth
	}
	if p.Height < MinHeight {
		p.Height = MinHeight
	}

	switch p.Mode {
	case ModeConfirmDelete:
		return renderPopup(p, "Delete branch",
			fmt.Sprintf("Delete branch '%s'?", p.ConfirmTarget),
			"y confirm • n cancel")
	case ModeErrorPopup:
		return renderPopup(p, "Checkout failed", p.PopupMessage, "any key to dismiss")
	}

	listWidth := ListPaneWidth(p.Width, p.BranchPanePct)
	detailWidth := p.Width - listWidth

	left := renderBranchList(p, listWidth)
	details := renderDetails(p, detailWidth)
	info := renderBranchInfo(p, detailWidth)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		left,
		lipgloss.JoinVertical(lipgloss.Left, details, info),
	)

	return body + "\n" + renderFooter(p)
}

// renderBranchList renders the left pane.
func renderBranchList(p Params, width int) string {
	var b strings.Builder
	contentWidth := width - 4
	visibleRows := p.Height - 1 - 2 // footer and border

	title := "BRANCHES"
	if p.ShowProtected {
		title += " (all)"
	}
	b.WriteString(HeaderStyle.Render(title) + "\n")
	b.WriteString(DividerStyle.Render(strings.Repeat(SymbolDivider, contentWidth)) + "\n")
	visibleRows -= 2

	if len(p.Branches) == 0 {
		b.WriteString(MutedStyle.Render("no branches"))
		return framePaneSized(b.String(), width, p.Height-1)
	}

	start, end := listWindow(len(p.Branches), p.Cursor, visibleRows)
	for i := start; i < end; i++ {
		br := p.Branches[i]

		cursor := "  "
		if i == p.Cursor {
			cursor = SelectedStyle.Render(SymbolCursor + " ")
		} else if br.IsCurrent {
			cursor = CurrentStyle.Render(SymbolCurrent + " ")
		}

		name := render.Truncate(br.Name, contentWidth-6)
		switch {
		case i == p.Cursor:
			name = SelectedStyle.Render(name)
		case br.IsProtected:
			name = ProtectedStyle.Render(name)
		default:
			name = BranchStyle.Render(name)
		}

		line := cursor + name
		if br.WorkItemID > 0 {
			line += IDStyle.Render(fmt.Sprintf(" #%d", br.WorkItemID))
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	if end < len(p.Branches) {
		b.WriteString("\n" + MutedStyle.Render(fmt.Sprintf("↓ %d more", len(p.Branches)-end)))
	}

	return framePaneSized(b.String(), width, p.Height-1)
}

// listWindow computes the visible slice of a list so the cursor stays in
// view.
func listWindow(length, cursor, rows int) (int, int) {
	if rows < 1 {
		rows = 1
	}
	if length <= rows {
		return 0, length
	}
	start := cursor - rows/2
	if start < 0 {
		start = 0
	}
	if start > length-rows {
		start = length - rows
	}
	return start, start + rows
}

// renderDetails renders the scrollable work item pane.
func renderDetails(p Params, width int) string {
	var b strings.Builder
	contentWidth := width - 4
	viewHeight := DetailViewHeight(p.Height)

	title := "WORK ITEM"
	if p.SelectedWorkItem.State == azdo.Loading {
		title += " " + p.Spinner
	}
	if pos := scrollIndicator(len(p.DetailLines), p.ScrollOffset, viewHeight); pos != "" {
		title += "  " + pos
	}
	b.WriteString(HeaderStyle.Render(title) + "\n")
	b.WriteString(DividerStyle.Render(strings.Repeat(SymbolDivider, contentWidth)) + "\n")
	viewHeight -= 2

	end := p.ScrollOffset + viewHeight
	if end > len(p.DetailLines) {
		end = len(p.DetailLines)
	}
	start := p.ScrollOffset
	if start > end {
		start = end
	}
	for i := start; i < end; i++ {
		b.WriteString(p.DetailLines[i].String())
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	return framePaneSized(b.String(), width, p.Height-1-branchInfoHeight)
}

func scrollIndicator(total, offset, view int) string {
	if total <= view {
		return ""
	}
	return MutedStyle.Render(fmt.Sprintf("%d-%d/%d", offset+1, min(offset+view, total), total))
}

// renderBranchInfo renders the git status pane below the details.
func renderBranchInfo(p Params, width int) string {
	var lines []string

	if p.Selected != nil {
		name := TitleStyle.Render(render.Truncate(p.Selected.Name, width-20))
		if p.Selected.IsCurrent {
			name += " " + CurrentStyle.Render("(current)")
		}
		if p.Selected.IsProtected {
			name += " " + ProtectedStyle.Render("(protected)")
		}
		lines = append(lines, name)

		if p.SelectedStatus != nil {
			lines = append(lines, FormatRemoteStatus(p.SelectedStatus.Remote))
			lines = append(lines, formatLastCommit(*p.SelectedStatus, p.Now))
		} else {
			lines = append(lines, MutedStyle.Render("status unavailable"))
		}
	} else {
		lines = append(lines, MutedStyle.Render("no branch selected"))
	}

	return framePaneSized(strings.Join(lines, "\n"), width, branchInfoHeight)
}

// FormatRemoteStatus formats a remote-tracking classification the way the
// branch info pane shows it.
func FormatRemoteStatus(rs git.RemoteStatus) string {
	switch rs.State {
	case git.RemoteUpToDate:
		return UpToDateStyle.Render("up to date")
	case git.RemoteAhead:
		return AheadBehindStyle.Render(fmt.Sprintf("%s%d", SymbolAhead, rs.Ahead))
	case git.RemoteBehind:
		return AheadBehindStyle.Render(fmt.Sprintf("%s%d", SymbolBehind, rs.Behind))
	case git.RemoteDiverged:
		return DivergedStyle.Render(fmt.Sprintf("%s%d %s%d", SymbolAhead, rs.Ahead, SymbolBehind, rs.Behind))
	case git.RemoteGone:
		return GoneStyle.Render("remote gone")
	default:
		return MutedStyle.Render("local only")
	}
}

func formatLastCommit(st git.BranchStatus, now time.Time) string {
	if st.LastCommitTime == 0 {
		return MutedStyle.Render("no commits")
	}
	age := humanize.RelTime(time.Unix(st.LastCommitTime, 0), now, "ago", "from now")
	author := st.LastCommitAuthor
	if author == "" {
		author = "unknown"
	}
	return MutedStyle.Render(fmt.Sprintf("last commit by %s, %s", author, age))
}

// renderFooter renders the bottom line: a live status message if present,
// otherwise the key hints.
func renderFooter(p Params) string {
	if p.Status != "" {
		if p.StatusIsError {
			return ErrorStyle.Render(" " + p.Status)
		}
		return StatusStyle.Render(" " + p.Status)
	}

	if p.Width < 70 {
		return HelpStyle.Render(" enter•d•o•r•p•J/K•q")
	}

	toggle := "show protected"
	if p.ShowProtected {
		toggle = "hide protected"
	}

	refresh := hint("r", "refresh")
	if p.Selected == nil || p.Selected.WorkItemID == 0 {
		refresh = MutedStyle.Render("r refresh")
	}

	hints := []string{
		hint("enter", "checkout"),
		hint("d", "delete"),
		hint("o", "open"),
		refresh,
		hint("p", toggle),
		hint("J/K", "scroll"),
		hint("q", "quit"),
	}
	return " " + strings.Join(hints, HelpStyle.Render(" • "))
}

func hint(key, label string) string {
	return HelpKeyStyle.Render(key) + HelpStyle.Render(" "+label)
}

// renderPopup renders a centered modal over a blank frame. The footer stays
// visible so the hint line matches the live mode.
func renderPopup(p Params, title, message, hint string) string {
	content := TitleStyle.Render(title) + "\n\n" +
		strings.Join(render.Wrap(message, p.Width/2), "\n") + "\n\n" +
		HelpStyle.Render(hint)

	box := PopupStyle.Render(content)
	return lipgloss.Place(p.Width, p.Height-1, lipgloss.Center, lipgloss.Center, box) +
		"\n" + renderFooter(p)
}

// framePaneSized wraps content in the standard pane border, fixed to the
// given outer width and height.
func framePaneSized(content string, width, height int) string {
	return PaneStyle.
		Width(width - 2).
		Height(height - 2).
		MaxHeight(height).
		Render(content)
}
