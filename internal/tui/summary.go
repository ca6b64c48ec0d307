package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/cvefocus/internal/view"
)

const (
	ellipsis          = "..."
	summaryColumnGaps = 3
)

// RenderListSummary renders a list page as static styled text for output that
// is not interactive.
func RenderListSummary(lv view.ListView, locale language.Tag, width int) string {
	sections := []string{HeaderStyle.Render("CVE RECORDS")}

	if lv.Empty() {
		sections = append(sections, SubtleStyle.Render(msgNoRecords))
	} else {
		descWidth := max(width-colWidthID-colWidthPublished-colWidthScore-summaryColumnGaps, minDescriptionWidth)
		sections = append(sections, TableHeaderStyle.Render(fmt.Sprintf("%-*s %-*s %-*s %s",
			colWidthID, "CVE ID", colWidthPublished, "Published", colWidthScore, "Score", "Description")))
		for _, row := range lv.Rows {
			sections = append(sections, strings.Join([]string{
				SeverityStyle(parseScore(row.ScoreV3)).Render(fmt.Sprintf("%-*s", colWidthID, truncate(row.ID, colWidthID))),
				ValueStyle.Render(fmt.Sprintf("%-*s", colWidthPublished, row.Published)),
				ValueStyle.Render(fmt.Sprintf("%-*s", colWidthScore, row.ScoreV3)),
				truncate(row.Description, descWidth),
			}, " "))
		}
	}

	sections = append(sections, "", renderPageLine(lv, message.NewPrinter(locale)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

// RenderDetailSummary renders one record as a static styled box.
func RenderDetailSummary(d view.DetailView, width int) string {
	return renderDetailBox(d, width, "") + "\n"
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= len(ellipsis) {
		return string(runes[:n])
	}
	return string(runes[:n-len(ellipsis)]) + ellipsis
}
