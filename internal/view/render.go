// Package view computes display-ready values from pagination state and
// records. Everything here is pure: the TUI, the HTML front end and the
// plain-text writers consume these values and perform the side effects.
package view

import (
	"fmt"
	"net/url"

	"github.com/rshade/cvefocus/internal/cve"
	"github.com/rshade/cvefocus/internal/pagination"
)

// DetailRoute is the path of the detail page, keyed by the cve_id query
// parameter.
const DetailRoute = "/cves/details"

// Intent is the navigation target of a list row. Selecting a row by any
// means dispatches this one value.
type Intent struct {
	ID   string `json:"cve_id"`
	Path string `json:"path"`
}

// Row is one rendered list entry.
type Row struct {
	ID          string `json:"cve_id"`
	Link        Intent `json:"link"`
	Published   string `json:"published"`
	Description string `json:"description"`
	ScoreV3     string `json:"base_score_v3"`
}

// ListView is the rendered list page.
type ListView struct {
	Rows          []Row           `json:"records"`
	PageIndicator string          `json:"-"`
	TotalRecords  string          `json:"-"`
	Meta          pagination.Meta `json:"pagination"`
	PageSizes     []int           `json:"-"`
	PageSizeIndex int             `json:"-"`
}

// Empty reports whether the page has no rows.
func (v ListView) Empty() bool {
	return len(v.Rows) == 0
}

// DetailView is the rendered single-record page.
type DetailView struct {
	ID           string `json:"cve_id"        yaml:"cve_id"`
	Published    string `json:"published"     yaml:"published"`
	LastModified string `json:"last_modified" yaml:"last_modified"`
	Description  string `json:"description"   yaml:"description"`
	ScoreV3      string `json:"base_score_v3" yaml:"base_score_v3"`
	ScoreV2      string `json:"base_score_v2" yaml:"base_score_v2"`
}

// Renderer turns records into display strings.
type Renderer struct {
	// Dates formats published and last-modified timestamps.
	Dates cve.DateFormatter
	// DetailPath builds the detail destination for an identifier. Nil uses
	// DetailPath.
	DetailPath func(id string) string
}

// NewRenderer returns a Renderer with the default detail path.
func NewRenderer(dates cve.DateFormatter) Renderer {
	return Renderer{Dates: dates, DetailPath: DetailPath}
}

// DetailPath returns the detail page path for id.
func DetailPath(id string) string {
	return DetailRoute + "?" + url.Values{"cve_id": {id}}.Encode()
}

// Intent returns the navigation target for id.
func (r Renderer) Intent(id string) Intent {
	path := r.DetailPath
	if path == nil {
		path = DetailPath
	}
	return Intent{ID: id, Path: path(id)}
}

// RenderList renders the visible window of s. The menu supplies the
// page-size choices shown alongside the table.
func (r Renderer) RenderList(s pagination.State[cve.Record], menu pagination.Menu) ListView {
	window := s.Window()
	rows := make([]Row, 0, len(window))
	for _, rec := range window {
		rows = append(rows, r.row(rec))
	}

	current := menu.Index()
	if m, ok := menu.Select(s.PageSize()); ok {
		current = m.Index()
	}

	return ListView{
		Rows:          rows,
		PageIndicator: PageIndicator(s.CurrentPage()),
		TotalRecords:  TotalRecords(s.Len()),
		Meta:          s.Meta(),
		PageSizes:     menu.Choices(),
		PageSizeIndex: current,
	}
}

func (r Renderer) row(rec cve.Record) Row {
	return Row{
		ID:          rec.ID,
		Link:        r.Intent(rec.ID),
		Published:   r.Dates.Format(rec.Published),
		Description: cve.FormatText(rec.Description),
		ScoreV3:     cve.FormatScore(rec.BaseScoreV3),
	}
}

// RenderDetail renders one record. Every absent field is cve.NotAvailable.
func (r Renderer) RenderDetail(rec cve.Record) DetailView {
	return DetailView{
		ID:           rec.ID,
		Published:    r.Dates.Format(rec.Published),
		LastModified: r.Dates.Format(rec.LastModified),
		Description:  cve.FormatText(rec.Description),
		ScoreV3:      cve.FormatScore(rec.BaseScoreV3),
		ScoreV2:      cve.FormatScore(rec.BaseScoreV2),
	}
}

// PageIndicator renders the current page label.
func PageIndicator(page int) string {
	return fmt.Sprintf("Page %d", page)
}

// TotalRecords renders the record counter.
func TotalRecords(n int) string {
	return fmt.Sprintf("Total Records: %d", n)
}
