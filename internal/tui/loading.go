package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultLoadingMessage = "Fetching CVE records..."

// LoadingState is the spinner shown while a fetch is in flight.
type LoadingState struct {
	spinner spinner.Model
	message string
}

// NewLoadingState returns a spinner with the default message.
func NewLoadingState() *LoadingState {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorSpinner)
	return &LoadingState{spinner: s, message: defaultLoadingMessage}
}

// SetMessage replaces the text next to the spinner.
func (l *LoadingState) SetMessage(msg string) {
	l.message = msg
}

// Message returns the text next to the spinner.
func (l *LoadingState) Message() string {
	return l.message
}

// Init starts the spinner animation.
func (l *LoadingState) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner on tick messages.
func (l *LoadingState) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(spinner.TickMsg); !ok {
		return nil
	}
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// RenderLoading returns the loading screen. A nil state renders the plain
// text "Loading...".
func RenderLoading(l *LoadingState) string {
	if l == nil {
		return "Loading..."
	}
	return fmt.Sprintf("\n %s %s\n\n", l.spinner.View(), l.Message())
}
