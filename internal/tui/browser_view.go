package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/message"

	"github.com/rshade/cvefocus/internal/source"
	"github.com/rshade/cvefocus/internal/view"
)

const (
	msgNoRecords = "No CVE records to display."
	listHelp     = "[←/→] Page  [tab/shift+tab] Page size  [↑↓] Select  [enter] Details  [r] Refresh  [q] Quit"
	detailHelp   = "[esc] Back  [r] Refresh  [q] Quit"
)

// View renders the current view (Bubble Tea interface).
func (m BrowserModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateLoading:
		return RenderLoading(m.loading)
	case ViewStateError:
		return m.renderErrorView()
	case ViewStateDetail:
		return m.renderDetailView()
	case ViewStateList:
		return m.renderListView()
	default:
		return ""
	}
}

func (m BrowserModel) renderListView() string {
	sections := []string{HeaderStyle.Render("CVE RECORDS")}

	if m.list.Empty() {
		sections = append(sections, "", SubtleStyle.Render(msgNoRecords), "")
	} else {
		sections = append(sections, m.table.View())
	}

	sections = append(sections,
		renderPageLine(m.list, m.printer),
		renderPageSizeMenu(m.list),
		SubtleStyle.Render(listHelp),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m BrowserModel) renderDetailView() string {
	return renderDetailBox(m.detail, m.width, detailHelp)
}

func (m BrowserModel) renderErrorView() string {
	var content strings.Builder

	if source.IsNotFound(m.err) {
		content.WriteString(WarningStyle.Render(fmt.Sprintf("CVE %s not found.", m.intent.ID)))
	} else {
		content.WriteString(CriticalStyle.Render("ERROR"))
		content.WriteString("\n")
		fmt.Fprintf(&content, "%v", m.err)
	}
	content.WriteString("\n\n")

	help := "[r] Retry  [q] Quit"
	if m.loaded {
		help = "[r] Retry  [esc] Back  [q] Quit"
	}
	content.WriteString(SubtleStyle.Render(help))

	return BoxStyle.Width(m.width - borderPadding).Render(content.String())
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString(LabelStyle.Render(label))
	b.WriteString(value)
	b.WriteString("\n")
}

// parseScore recovers the numeric score from its rendered form for styling.
func parseScore(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// renderPageLine shows the page indicator and the record counter.
func renderPageLine(lv view.ListView, printer *message.Printer) string {
	indicator := lv.PageIndicator
	if total := lv.Meta.TotalPages; total > 0 {
		indicator = fmt.Sprintf("%s/%d", indicator, total)
	}
	counter := printer.Sprintf("Total Records: %d", lv.Meta.TotalItems)
	return LabelStyle.Render(indicator) + SubtleStyle.Render("  |  ") + ValueStyle.Render(counter)
}

func renderPageSizeMenu(lv view.ListView) string {
	var b strings.Builder
	b.WriteString(LabelStyle.Render("Page size: "))
	for i, size := range lv.PageSizes {
		if i > 0 {
			b.WriteString(" ")
		}
		label := strconv.Itoa(size)
		if i == lv.PageSizeIndex {
			b.WriteString(ActiveStyle.Render("[" + label + "]"))
		} else {
			b.WriteString(SubtleStyle.Render(" " + label + " "))
		}
	}
	return b.String()
}

// renderDetailBox renders one record inside a bordered box of the given
// outer width. An empty help line is omitted.
func renderDetailBox(d view.DetailView, width int, help string) string {
	var content strings.Builder

	content.WriteString(HeaderStyle.Render(d.ID))
	content.WriteString("\n\n")
	writeField(&content, "Published:     ", ValueStyle.Render(d.Published))
	writeField(&content, "Last Modified: ", ValueStyle.Render(d.LastModified))
	writeField(&content, "Score v3:      ", SeverityStyle(parseScore(d.ScoreV3)).Render(d.ScoreV3))
	writeField(&content, "Score v2:      ", ValueStyle.Render(d.ScoreV2))
	content.WriteString("\n")
	content.WriteString(LabelStyle.Render("Description"))
	content.WriteString("\n")

	inner := width - borderPadding
	content.WriteString(lipgloss.NewStyle().Width(max(inner-borderPadding, minDescriptionWidth)).Render(d.Description))
	if help != "" {
		content.WriteString("\n\n")
		content.WriteString(SubtleStyle.Render(help))
	}

	return BoxStyle.Width(inner).Render(content.String())
}
