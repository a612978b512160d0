package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/FelixDamrau/cazdo/internal/azdo"
	"github.com/FelixDamrau/cazdo/internal/browser"
	"github.com/FelixDamrau/cazdo/internal/config"
	"github.com/FelixDamrau/cazdo/internal/debug"
	"github.com/FelixDamrau/cazdo/internal/git"
	"github.com/FelixDamrau/cazdo/internal/render"
	"github.com/FelixDamrau/cazdo/internal/ui"
)

// Mode represents the current UI mode. Exactly one is live at a time.
type Mode int

const (
	ModeNormal Mode = iota
	ModeConfirmDelete
	ModeErrorPopup
)

// GitClient is the subset of repository operations the model invokes.
type GitClient interface {
	BranchStatus(name string) git.BranchStatus
	DeleteBranch(name string, protected []string) (string, error)
	Checkout(name string) error
}

// Fetcher looks up work items.
type Fetcher interface {
	GetWorkItem(ctx context.Context, id int) (*azdo.WorkItem, error)
}

// DeletedBranch records one deletion for the exit summary.
type DeletedBranch struct {
	Name string
	SHA  string
}

// Summary returns the recovery line printed after the session ends.
func (d DeletedBranch) Summary() string {
	short := d.SHA
	if len(short) > 7 {
		short = short[:7]
	}
	return fmt.Sprintf("%s (was %s) - restore: checkout -b %s %s", d.Name, short, d.Name, d.SHA)
}

// Model is the main application model.
type Model struct {
	// Configuration
	cfg     *config.Config
	git     GitClient
	fetcher Fetcher

	// Data
	branches []git.BranchInfo
	visible  []git.BranchInfo
	cursor   int

	// Fetch bookkeeping. pending holds ids with a fetch in flight; it is
	// only touched in Update, never by the fetch goroutines.
	workItems map[int]azdo.WorkItemStatus
	pending   map[int]struct{}

	// Branch status is cached for the session; never invalidated.
	statusCache map[string]git.BranchStatus

	// State
	mode          Mode
	confirmTarget string
	popupMessage  string
	showProtected bool

	status    string
	statusErr bool
	statusSeq int

	deleted []DeletedBranch

	// Details pane
	detailLines  []render.Line
	scrollOffset int

	// UI
	width   int
	height  int
	keys    KeyMap
	spinner spinner.Model
}

// New creates a new Model over an already-enumerated branch list.
func New(cfg *config.Config, gitClient GitClient, fetcher Fetcher, branches []git.BranchInfo) Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	m := Model{
		cfg:         cfg,
		git:         gitClient,
		fetcher:     fetcher,
		branches:    branches,
		workItems:   make(map[int]azdo.WorkItemStatus),
		pending:     make(map[int]struct{}),
		statusCache: make(map[string]git.BranchStatus),
		keys:        DefaultKeyMap(),
		spinner:     sp,
	}
	m.refreshVisible()
	return m
}

// Init initializes the model. The first fetch is triggered by the initial
// WindowSizeMsg, once the pane geometry is known.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		cmd := m.prepareSelected()
		m.recomputeDetail()
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scrollBy(-3)
		case tea.MouseButtonWheelDown:
			m.scrollBy(3)
		}
		return m, nil

	case WorkItemFetchedMsg:
		return m.handleFetched(msg)

	case statusExpiredMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleFetched merges a fetch result. Results whose id was evicted from
// the pending set (a refresh happened meanwhile) are dropped silently.
func (m Model) handleFetched(msg WorkItemFetchedMsg) (tea.Model, tea.Cmd) {
	if _, ok := m.pending[msg.ID]; !ok {
		debug.Logf("dropping stale fetch result for work item %d", msg.ID)
		return m, nil
	}
	delete(m.pending, msg.ID)

	if msg.Err != nil {
		m.workItems[msg.ID] = azdo.WorkItemStatus{State: azdo.FetchFailed, Err: msg.Err.Error()}
	} else {
		m.workItems[msg.ID] = azdo.WorkItemStatus{State: azdo.Loaded, Item: msg.Item}
	}

	if sel := m.selected(); sel != nil && sel.WorkItemID == msg.ID {
		m.recomputeDetail()
	}
	return m, nil
}

// handleKeyPress handles key presses based on the current mode.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeConfirmDelete:
		return m.handleConfirmKeys(msg)
	case ModeErrorPopup:
		// Any key dismisses the popup.
		m.mode = ModeNormal
		m.popupMessage = ""
		return m, nil
	}
	return m.handleNormalKeys(msg)
}

func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			return m, m.selectionChanged()
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
			return m, m.selectionChanged()
		}

	case key.Matches(msg, m.keys.ScrollUp):
		m.scrollBy(-1)
	case key.Matches(msg, m.keys.ScrollDown):
		m.scrollBy(1)
	case key.Matches(msg, m.keys.PageUp):
		m.scrollBy(-m.detailViewHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.scrollBy(m.detailViewHeight())
	case key.Matches(msg, m.keys.HalfUp):
		m.scrollBy(-m.detailViewHeight() / 2)
	case key.Matches(msg, m.keys.HalfDown):
		m.scrollBy(m.detailViewHeight() / 2)

	case key.Matches(msg, m.keys.Delete):
		sel := m.selected()
		if sel == nil {
			return m, nil
		}
		if cmd := m.refuseDelete(sel); cmd != nil {
			return m, cmd
		}
		m.mode = ModeConfirmDelete
		m.confirmTarget = sel.Name
		return m, nil

	case key.Matches(msg, m.keys.ForceDelete):
		sel := m.selected()
		if sel == nil {
			return m, nil
		}
		if cmd := m.refuseDelete(sel); cmd != nil {
			return m, cmd
		}
		return m, m.performDelete(sel.Name)

	case key.Matches(msg, m.keys.Checkout):
		sel := m.selected()
		if sel == nil || sel.IsCurrent {
			return m, nil
		}
		if err := m.git.Checkout(sel.Name); err != nil {
			m.mode = ModeErrorPopup
			m.popupMessage = err.Error()
			return m, nil
		}
		name := sel.Name
		for i := range m.branches {
			m.branches[i].IsCurrent = m.branches[i].Name == name
		}
		m.refreshVisible()
		m.recomputeDetail()
		return m, m.setStatus("switched to " + name)

	case key.Matches(msg, m.keys.Open):
		sel := m.selected()
		if sel == nil || sel.WorkItemID == 0 {
			return m, m.setStatus("no work item linked to this branch")
		}
		st := m.workItems[sel.WorkItemID]
		if st.State != azdo.Loaded || st.Item.URL == "" {
			return m, m.setStatus("work item not loaded yet")
		}
		if err := browser.Open(st.Item.URL); err != nil {
			return m, m.setError(err.Error())
		}
		return m, m.setStatus(fmt.Sprintf("opened work item #%d", sel.WorkItemID))

	case key.Matches(msg, m.keys.Refresh):
		sel := m.selected()
		if sel == nil || sel.WorkItemID == 0 {
			return m, nil
		}
		delete(m.pending, sel.WorkItemID)
		delete(m.workItems, sel.WorkItemID)
		return m, m.selectionChanged()

	case key.Matches(msg, m.keys.ToggleProtected):
		m.showProtected = !m.showProtected
		m.refreshVisible()
		return m, m.selectionChanged()
	}
	return m, nil
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		name := m.confirmTarget
		m.mode = ModeNormal
		m.confirmTarget = ""
		return m, m.performDelete(name)
	case key.Matches(msg, m.keys.Cancel):
		m.mode = ModeNormal
		m.confirmTarget = ""
	}
	return m, nil
}

// refuseDelete returns a status command when the branch must not be
// deleted, nil when deletion may proceed.
func (m *Model) refuseDelete(b *git.BranchInfo) tea.Cmd {
	if b.IsCurrent {
		return m.setError("cannot delete current branch")
	}
	if b.IsProtected {
		return m.setError(fmt.Sprintf("cannot delete protected branch '%s'", b.Name))
	}
	return nil
}

func (m *Model) performDelete(name string) tea.Cmd {
	sha, err := m.git.DeleteBranch(name, m.cfg.Branches.Protected)
	if err != nil {
		return m.setError(err.Error())
	}

	m.deleted = append(m.deleted, DeletedBranch{Name: name, SHA: sha})
	for i, b := range m.branches {
		if b.Name == name {
			m.branches = append(m.branches[:i], m.branches[i+1:]...)
			break
		}
	}
	m.refreshVisible()

	statusCmd := m.setStatus(fmt.Sprintf("deleted branch '%s'", name))
	return tea.Batch(statusCmd, m.selectionChanged())
}

// selectionChanged resets the scroll position and prepares the newly
// selected branch: status lookup plus, when needed, a fetch command.
func (m *Model) selectionChanged() tea.Cmd {
	m.scrollOffset = 0
	cmd := m.prepareSelected()
	m.recomputeDetail()
	return cmd
}

// prepareSelected looks up branch status (cached per session) and starts a
// work item fetch when the selected id has none recorded yet.
func (m *Model) prepareSelected() tea.Cmd {
	sel := m.selected()
	if sel == nil {
		return nil
	}
	if _, ok := m.statusCache[sel.Name]; !ok {
		m.statusCache[sel.Name] = m.git.BranchStatus(sel.Name)
	}
	return m.maybeFetchSelected()
}

// maybeFetchSelected enforces at most one in-flight fetch per id: only a
// NotFetched id with no pending entry is launched.
func (m *Model) maybeFetchSelected() tea.Cmd {
	sel := m.selected()
	if sel == nil || sel.WorkItemID == 0 {
		return nil
	}
	id := sel.WorkItemID
	if m.workItems[id].State != azdo.NotFetched {
		return nil
	}
	if _, inFlight := m.pending[id]; inFlight {
		return nil
	}

	m.pending[id] = struct{}{}
	m.workItems[id] = azdo.WorkItemStatus{State: azdo.Loading}
	return fetchWorkItem(m.fetcher, id)
}

// refreshVisible recomputes the visible branch subset and keeps the cursor
// valid, preferring to follow the previously selected branch.
func (m *Model) refreshVisible() {
	var keep string
	if sel := m.selected(); sel != nil {
		keep = sel.Name
	}

	m.visible = nil
	for _, b := range m.branches {
		// The current branch is always shown, protected or not.
		if b.IsProtected && !b.IsCurrent && !m.showProtected {
			continue
		}
		m.visible = append(m.visible, b)
	}

	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	for i, b := range m.visible {
		if b.Name == keep {
			m.cursor = i
			break
		}
	}
}

func (m *Model) selected() *git.BranchInfo {
	if len(m.visible) == 0 || m.cursor < 0 || m.cursor >= len(m.visible) {
		return nil
	}
	return &m.visible[m.cursor]
}

func (m *Model) selectedWorkItem() azdo.WorkItemStatus {
	sel := m.selected()
	if sel == nil || sel.WorkItemID == 0 {
		return azdo.WorkItemStatus{}
	}
	return m.workItems[sel.WorkItemID]
}

// recomputeDetail rebuilds the cached details pane lines so their height is
// known to the scroll clamp without rendering.
func (m *Model) recomputeDetail() {
	sel := m.selected()
	if sel == nil {
		m.detailLines = nil
		m.clampScroll()
		return
	}
	m.detailLines = ui.WorkItemLines(*sel, m.selectedWorkItem(), ui.DetailContentWidth(m.width, m.cfg.UI.DetailWidthPercent))
	m.clampScroll()
}

func (m *Model) detailViewHeight() int {
	return ui.DetailViewHeight(m.height)
}

func (m *Model) scrollBy(delta int) {
	m.scrollOffset += delta
	m.clampScroll()
}

func (m *Model) clampScroll() {
	maxScroll := len(m.detailLines) - m.detailViewHeight()
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scrollOffset > maxScroll {
		m.scrollOffset = maxScroll
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

// setStatus shows a footer status message that expires after the
// configured duration.
func (m *Model) setStatus(text string) tea.Cmd {
	return m.pushStatus(text, false)
}

// setError is setStatus with error coloring.
func (m *Model) setError(text string) tea.Cmd {
	return m.pushStatus(text, true)
}

func (m *Model) pushStatus(text string, isErr bool) tea.Cmd {
	m.status = text
	m.statusErr = isErr
	m.statusSeq++
	seq := m.statusSeq

	seconds := m.cfg.UI.StatusSeconds
	if seconds < 1 {
		seconds = 4
	}
	return tea.Tick(time.Duration(seconds)*time.Second, func(time.Time) tea.Msg {
		return statusExpiredMsg{seq: seq}
	})
}

// View renders the UI.
func (m Model) View() string {
	var selStatus *git.BranchStatus
	sel := m.selected()
	if sel != nil {
		if st, ok := m.statusCache[sel.Name]; ok {
			selStatus = &st
		}
	}

	return ui.Render(ui.Params{
		Width:            m.width,
		Height:           m.height,
		Branches:         m.visible,
		Cursor:           m.cursor,
		ShowProtected:    m.showProtected,
		BranchPanePct:    m.cfg.UI.DetailWidthPercent,
		Selected:         sel,
		SelectedStatus:   selStatus,
		SelectedWorkItem: m.selectedWorkItem(),
		DetailLines:      m.detailLines,
		ScrollOffset:     m.scrollOffset,
		Mode:             int(m.mode),
		ConfirmTarget:    m.confirmTarget,
		PopupMessage:     m.popupMessage,
		Status:           m.status,
		StatusIsError:    m.statusErr,
		Spinner:          m.spinner.View(),
		Now:              time.Now(),
	})
}

// Deleted returns the branches deleted during this session, in order.
func (m Model) Deleted() []DeletedBranch {
	return m.deleted
}

// Commands

func fetchWorkItem(f Fetcher, id int) tea.Cmd {
	return func() tea.Msg {
		defer debug.Timed(fmt.Sprintf("fetch work item %d", id))()
		item, err := f.GetWorkItem(context.Background(), id)
		return WorkItemFetchedMsg{ID: id, Item: item, Err: err}
	}
}
