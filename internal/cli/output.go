package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/rshade/cvefocus/internal/pagination"
	"github.com/rshade/cvefocus/internal/tui"
	"github.com/rshade/cvefocus/internal/view"
)

// OutputFormat selects how list and show write their results.
type OutputFormat string

// Supported output formats.
const (
	OutputTable  OutputFormat = "table"
	OutputJSON   OutputFormat = "json"
	OutputNDJSON OutputFormat = "ndjson"
	OutputYAML   OutputFormat = "yaml"
)

// tabwriterPadding is the minimum padding between table columns.
const tabwriterPadding = 2

// descriptionColumnWidth caps the description column of plain tables.
const descriptionColumnWidth = 60

func parseOutputFormat(s string, allowed ...OutputFormat) (OutputFormat, error) {
	for _, f := range allowed {
		if OutputFormat(s) == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format: %s (want one of %v)", s, allowed)
}

// listOutput is the JSON document written by list.
type listOutput struct {
	Records    []view.Row      `json:"records"`
	Pagination pagination.Meta `json:"pagination"`
}

// writeList renders one list page in the requested format. Styled table
// output is used when the terminal supports it.
func writeList(w io.Writer, format OutputFormat, lv view.ListView, mode tui.OutputMode, locale language.Tag) error {
	switch format {
	case OutputJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(listOutput{Records: nonNilRows(lv.Rows), Pagination: lv.Meta}); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	case OutputNDJSON:
		for _, row := range lv.Rows {
			if err := writeJSONLine(w, row); err != nil {
				return err
			}
		}
		return nil
	case OutputTable:
		if mode != tui.OutputModePlain {
			_, err := fmt.Fprint(w, tui.RenderListSummary(lv, locale, tui.TerminalWidth()))
			return err
		}
		return writeListTable(w, lv)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// writeListTable writes a plain tab-aligned table followed by the page
// indicator and the record counter.
func writeListTable(w io.Writer, lv view.ListView) error {
	if lv.Empty() {
		if _, err := fmt.Fprintln(w, "No CVE records to display."); err != nil {
			return err
		}
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)
		if _, err := fmt.Fprintf(tw, "CVE ID\tPUBLISHED\tSCORE V3\tDESCRIPTION\n"); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
		if _, err := fmt.Fprintf(tw, "------\t---------\t--------\t-----------\n"); err != nil {
			return fmt.Errorf("writing separator: %w", err)
		}
		for _, row := range lv.Rows {
			if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				row.ID, row.Published, row.ScoreV3, truncateText(row.Description, descriptionColumnWidth)); err != nil {
				return fmt.Errorf("writing row: %w", err)
			}
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("flushing table: %w", err)
		}
	}

	indicator := lv.PageIndicator
	if lv.Meta.TotalPages > 0 {
		indicator = fmt.Sprintf("%s of %d", indicator, lv.Meta.TotalPages)
	}
	_, err := fmt.Fprintf(w, "\n%s\n%s\n", indicator, lv.TotalRecords)
	return err
}

// writeDetails renders detail views in the requested format.
func writeDetails(w io.Writer, format OutputFormat, details []view.DetailView, mode tui.OutputMode) error {
	switch format {
	case OutputJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		var doc any = details
		if len(details) == 1 {
			doc = details[0]
		}
		if err := encoder.Encode(doc); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	case OutputNDJSON:
		for _, d := range details {
			if err := writeJSONLine(w, d); err != nil {
				return err
			}
		}
		return nil
	case OutputYAML:
		encoder := yaml.NewEncoder(w)
		for _, d := range details {
			if err := encoder.Encode(d); err != nil {
				return fmt.Errorf("encoding YAML: %w", err)
			}
		}
		return encoder.Close()
	case OutputTable:
		for i, d := range details {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			if err := writeDetail(w, d, mode); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func writeDetail(w io.Writer, d view.DetailView, mode tui.OutputMode) error {
	if mode != tui.OutputModePlain {
		_, err := fmt.Fprint(w, tui.RenderDetailSummary(d, tui.TerminalWidth()))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)
	fields := [][2]string{
		{"CVE ID", d.ID},
		{"Published", d.Published},
		{"Last Modified", d.LastModified},
		{"Base Score v3", d.ScoreV3},
		{"Base Score v2", d.ScoreV2},
		{"Description", d.Description},
	}
	for _, f := range fields {
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", f[0], f[1]); err != nil {
			return fmt.Errorf("writing field: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	return nil
}

func writeJSONLine(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling line: %w", err)
	}
	if _, err = fmt.Fprintf(w, "%s\n", data); err != nil {
		return fmt.Errorf("writing NDJSON line: %w", err)
	}
	return nil
}

func nonNilRows(rows []view.Row) []view.Row {
	if rows == nil {
		return []view.Row{}
	}
	return rows
}

// truncateText shortens s to at most n runes.
func truncateText(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
