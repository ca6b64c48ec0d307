package tui

// ViewState is the screen a model is currently showing.
type ViewState int

const (
	// ViewStateLoading shows a spinner while a fetch is in flight.
	ViewStateLoading ViewState = iota
	// ViewStateList shows the paginated table.
	ViewStateList
	// ViewStateDetail shows a single record.
	ViewStateDetail
	// ViewStateError replaces the table or detail with a failure message.
	ViewStateError
	// ViewStateQuitting renders nothing while the program exits.
	ViewStateQuitting
)

// String returns the lowercase state name.
func (s ViewState) String() string {
	switch s {
	case ViewStateLoading:
		return "loading"
	case ViewStateList:
		return "list"
	case ViewStateDetail:
		return "detail"
	case ViewStateError:
		return "error"
	case ViewStateQuitting:
		return "quitting"
	default:
		return "unknown"
	}
}
