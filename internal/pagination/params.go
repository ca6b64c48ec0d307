package pagination

import (
	"fmt"
	"strconv"
	"strings"
)

// Page limits.
const (
	DefaultPage = 1
	MinPage     = 1
	MinPageSize = 1
	MaxPageSize = 1000
)

// Params holds requested page flags as parsed from the command line or a
// query string. A zero field means "not requested".
type Params struct {
	// Page is the 1-based page number.
	Page int

	// PageSize is the number of records per page.
	PageSize int
}

// Validate checks that the requested values are within bounds.
func (p Params) Validate() error {
	if p.Page < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidPage, p.Page)
	}
	if p.PageSize < 0 || p.PageSize > MaxPageSize {
		return fmt.Errorf("%w: got %d (max %d)", ErrInvalidPageSize, p.PageSize, MaxPageSize)
	}
	return nil
}

// Apply builds the state over records for these params. The page size comes
// from PageSize when set and from the menu selection otherwise; the page is
// clamped into range.
func Apply[T any](records []T, menu Menu, p Params) (State[T], error) {
	if err := p.Validate(); err != nil {
		return State[T]{}, err
	}
	s := Initialize(records, menu)
	if p.PageSize > 0 {
		var err error
		if s, err = s.ChangePageSize(p.PageSize); err != nil {
			return State[T]{}, err
		}
	}
	if p.Page > 0 {
		s = s.GoTo(p.Page)
	}
	return s, nil
}

// ParseParams reads page and page size from raw string values, for example
// URL query parameters. Unparseable or non-positive values are dropped so
// the caller's defaults apply.
func ParseParams(page, pageSize string) Params {
	return Params{
		Page:     parsePositive(page),
		PageSize: min(parsePositive(pageSize), MaxPageSize),
	}
}

func parsePositive(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0
	}
	return n
}
