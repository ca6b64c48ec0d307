package pagination

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrInvalidPageSize = errors.New("page size must be >= 1")
	ErrInvalidPage     = errors.New("page must be >= 1")
)

// State is the pagination state over a fixed, ordered record sequence.
//
// When records is non-empty, 1 <= CurrentPage() <= TotalPages(). When it is
// empty, CurrentPage() is 1 and TotalPages() is 0. The records slice is
// shared between derived states and must not be modified by callers.
type State[T any] struct {
	records     []T
	pageSize    int
	currentPage int
}

// Initialize returns the state for records on page 1, sized by the current
// menu selection.
func Initialize[T any](records []T, menu Menu) State[T] {
	return State[T]{
		records:     records,
		pageSize:    menu.Value(),
		currentPage: 1,
	}
}

// NewState returns the state for records on page 1 with the given page size.
func NewState[T any](records []T, pageSize int) (State[T], error) {
	if pageSize < MinPageSize {
		return State[T]{}, fmt.Errorf("%w: got %d", ErrInvalidPageSize, pageSize)
	}
	return State[T]{
		records:     records,
		pageSize:    pageSize,
		currentPage: 1,
	}, nil
}

// ChangePageSize returns the state with the new page size, reset to page 1.
// An invalid size returns the receiver unchanged alongside the error.
func (s State[T]) ChangePageSize(pageSize int) (State[T], error) {
	if pageSize < MinPageSize {
		return s, fmt.Errorf("%w: got %d", ErrInvalidPageSize, pageSize)
	}
	s.pageSize = pageSize
	s.currentPage = 1
	return s, nil
}

// Previous returns the state one page back. It is a no-op on page 1.
func (s State[T]) Previous() State[T] {
	if !s.HasPrevious() {
		return s
	}
	s.currentPage--
	return s
}

// Next returns the state one page forward. It is a no-op on the last page,
// including when there are no pages.
func (s State[T]) Next() State[T] {
	if !s.HasNext() {
		return s
	}
	s.currentPage++
	return s
}

// GoTo returns the state on page, clamped to [1, max(TotalPages, 1)].
func (s State[T]) GoTo(page int) State[T] {
	last := max(s.TotalPages(), 1)
	s.currentPage = min(max(page, 1), last)
	return s
}

// Records returns the full sequence in arrival order.
func (s State[T]) Records() []T {
	return s.records
}

// Len returns the number of records across all pages.
func (s State[T]) Len() int {
	return len(s.records)
}

// PageSize returns the number of records per page.
func (s State[T]) PageSize() int {
	return s.pageSize
}

// CurrentPage returns the 1-based page index.
func (s State[T]) CurrentPage() int {
	if s.currentPage < 1 {
		return 1
	}
	return s.currentPage
}

// TotalPages returns ceil(Len / PageSize), which is 0 for an empty sequence.
func (s State[T]) TotalPages() int {
	if s.pageSize < MinPageSize || len(s.records) == 0 {
		return 0
	}
	return (len(s.records) + s.pageSize - 1) / s.pageSize
}

// Bounds returns the half-open index range of the visible window, clipped to
// the sequence. An empty window has start == end.
//
//nolint:nonamedreturns // Named returns document the range ends.
func (s State[T]) Bounds() (start, end int) {
	if s.pageSize < MinPageSize {
		return 0, 0
	}
	start = min((s.CurrentPage()-1)*s.pageSize, len(s.records))
	end = min(start+s.pageSize, len(s.records))
	return start, end
}

// Window returns the records visible on the current page.
func (s State[T]) Window() []T {
	start, end := s.Bounds()
	return s.records[start:end]
}

// HasPrevious reports whether Previous would change the page.
func (s State[T]) HasPrevious() bool {
	return s.CurrentPage() > 1
}

// HasNext reports whether Next would change the page.
func (s State[T]) HasNext() bool {
	return s.CurrentPage() < s.TotalPages()
}

// Meta returns the pagination metadata of the current page.
func (s State[T]) Meta() Meta {
	return Meta{
		CurrentPage: s.CurrentPage(),
		PageSize:    s.pageSize,
		TotalPages:  s.TotalPages(),
		TotalItems:  len(s.records),
		HasPrevious: s.HasPrevious(),
		HasNext:     s.HasNext(),
	}
}
