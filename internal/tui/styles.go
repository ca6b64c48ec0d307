package tui

import "github.com/charmbracelet/lipgloss"

// Layout defaults used before the first WindowSizeMsg arrives.
const (
	defaultWidth  = 100
	defaultHeight = 30
	minHeight     = 5
	borderPadding = 4

	// chromeHeight is the number of lines around the table: title, page
	// indicator, page-size menu, counter and help.
	chromeHeight = 8
)

// Palette.
//
//nolint:gochecknoglobals // Styles are immutable values shared by all views.
var (
	ColorHeader    = lipgloss.Color("39")
	ColorLabel     = lipgloss.Color("245")
	ColorValue     = lipgloss.Color("252")
	ColorMuted     = lipgloss.Color("240")
	ColorHighlight = lipgloss.Color("229")
	ColorSelected  = lipgloss.Color("57")
	ColorCritical  = lipgloss.Color("196")
	ColorHigh      = lipgloss.Color("208")
	ColorMedium    = lipgloss.Color("220")
	ColorLow       = lipgloss.Color("42")
	ColorSpinner   = lipgloss.Color("205")
	ColorBorder    = lipgloss.Color("63")
)

// Text styles.
//
//nolint:gochecknoglobals // Styles are immutable values shared by all views.
var (
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)
	LabelStyle    = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle    = lipgloss.NewStyle().Foreground(ColorValue)
	SubtleStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	CriticalStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorCritical)
	WarningStyle  = lipgloss.NewStyle().Foreground(ColorMedium)
	ActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorHighlight).Background(ColorSelected)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	TableHeaderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(ColorMuted).
				BorderBottom(true).
				Bold(true)
	TableSelectedStyle = lipgloss.NewStyle().
				Foreground(ColorHighlight).
				Background(ColorSelected).
				Bold(false)
)

// SeverityStyle colors a v3 base score by its CVSS qualitative rating.
// Absent scores use SubtleStyle.
func SeverityStyle(score *float64) lipgloss.Style {
	if score == nil {
		return SubtleStyle
	}
	switch s := *score; {
	case s >= 9.0:
		return CriticalStyle
	case s >= 7.0:
		return lipgloss.NewStyle().Foreground(ColorHigh)
	case s >= 4.0:
		return lipgloss.NewStyle().Foreground(ColorMedium)
	case s > 0:
		return lipgloss.NewStyle().Foreground(ColorLow)
	default:
		return ValueStyle
	}
}
