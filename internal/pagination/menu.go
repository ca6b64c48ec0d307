package pagination

import (
	"errors"
	"fmt"
	"slices"
)

// DefaultPageSizes is the page-size menu used when none is configured.
//
//nolint:gochecknoglobals // Read-only default; Menu copies it.
var DefaultPageSizes = []int{10, 25, 50, 100}

// ErrEmptyMenu is returned when a menu has no choices.
var ErrEmptyMenu = errors.New("page-size menu must have at least one choice")

// Menu is a fixed list of page-size choices with one selected.
// The zero value behaves like the default menu.
type Menu struct {
	choices  []int
	selected int
}

// DefaultMenu returns a menu over DefaultPageSizes with the first selected.
func DefaultMenu() Menu {
	return Menu{choices: slices.Clone(DefaultPageSizes)}
}

// NewMenu returns a menu over choices with the first selected. Choices must
// be positive; duplicates are removed and the original order is kept.
func NewMenu(choices []int) (Menu, error) {
	if len(choices) == 0 {
		return Menu{}, ErrEmptyMenu
	}
	seen := make(map[int]bool, len(choices))
	uniq := make([]int, 0, len(choices))
	for _, c := range choices {
		if c < MinPageSize {
			return Menu{}, fmt.Errorf("%w: got %d", ErrInvalidPageSize, c)
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		uniq = append(uniq, c)
	}
	return Menu{choices: uniq}, nil
}

// Choices returns a copy of the available page sizes.
func (m Menu) Choices() []int {
	return slices.Clone(m.list())
}

// Value returns the selected page size.
func (m Menu) Value() int {
	return m.list()[m.index()]
}

// Index returns the position of the selected page size.
func (m Menu) Index() int {
	return m.index()
}

// Select returns the menu with size selected. A size that is not a choice
// returns the receiver unchanged and false.
func (m Menu) Select(size int) (Menu, bool) {
	i := slices.Index(m.list(), size)
	if i < 0 {
		return m, false
	}
	m.choices = m.list()
	m.selected = i
	return m, true
}

// Cycle returns the menu with the selection moved by delta, wrapping at
// either end.
func (m Menu) Cycle(delta int) Menu {
	m.choices = m.list()
	n := len(m.choices)
	m.selected = ((m.index()+delta)%n + n) % n
	return m
}

func (m Menu) list() []int {
	if len(m.choices) == 0 {
		return DefaultPageSizes
	}
	return m.choices
}

func (m Menu) index() int {
	if m.selected < 0 || m.selected >= len(m.list()) {
		return 0
	}
	return m.selected
}
