package app

import (
	"github.com/FelixDamrau/cazdo/internal/azdo"
)

// Message types for the bubbletea app.

// WorkItemFetchedMsg is sent when a background work item fetch completes.
type WorkItemFetchedMsg struct {
	ID   int
	Item *azdo.WorkItem
	Err  error
}

// statusExpiredMsg retires a status message. The sequence number makes
// ticks from superseded messages harmless.
type statusExpiredMsg struct {
	seq int
}
