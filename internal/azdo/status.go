package azdo

// FetchState is the lifecycle of a work item lookup.
type FetchState int

const (
	// NotFetched means no fetch has been attempted (or a refresh reset it).
	NotFetched FetchState = iota
	// Loading means a fetch is in flight.
	Loading
	// Loaded means the work item was fetched successfully.
	Loaded
	// FetchFailed means the fetch ended in an error. Terminal; only an
	// explicit refresh makes the id eligible again.
	FetchFailed
)

// WorkItemStatus is the per-id view of a fetch as seen by the UI loop.
type WorkItemStatus struct {
	State FetchState
	Item  *WorkItem // set when State == Loaded
	Err   string    // set when State == FetchFailed
}
