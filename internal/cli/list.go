package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/cvefocus/internal/logging"
	"github.com/rshade/cvefocus/internal/pagination"
	"github.com/rshade/cvefocus/internal/tui"
)

// listParams holds the flags of the list command.
type listParams struct {
	filters  filterFlags
	page     int
	pageSize int
	output   string
	noColor  bool
}

// newListCmd creates the list command, which prints a single page.
func newListCmd(a *app) *cobra.Command {
	var p listParams

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of CVE records",
		Long: `Fetches the full CVE record list once and prints the requested page.

The page is clamped into range, so --page 999 prints the last page.`,
		Example: `  # First page with the configured page size
  cvefocus list

  # Third page of 50 records as JSON
  cvefocus list --page 3 --page-size 50 --output json

  # One JSON object per record
  cvefocus list --min-score 7 --output ndjson`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runList(cmd, p)
		},
	}

	cmd.Flags().IntVar(&p.page, "page", pagination.DefaultPage, "page number (1-based)")
	cmd.Flags().IntVar(&p.pageSize, "page-size", 0, "records per page (default display.page_size)")
	cmd.Flags().StringVarP(&p.output, "output", "o", string(OutputTable), "output format: table, json, or ndjson")
	cmd.Flags().BoolVar(&p.noColor, "no-color", false, "disable styled table output")
	p.filters.register(cmd.Flags())

	return cmd
}

// runList fetches the records, paginates them and writes one page.
func (a *app) runList(cmd *cobra.Command, p listParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	format, err := parseOutputFormat(p.output, OutputTable, OutputJSON, OutputNDJSON)
	if err != nil {
		return err
	}
	params := pagination.Params{Page: p.page, PageSize: p.pageSize}
	if err = params.Validate(); err != nil {
		return err
	}
	q, err := p.filters.query(cmd)
	if err != nil {
		return err
	}
	pres, err := a.newPresentation(0)
	if err != nil {
		return err
	}
	src, err := a.newSource()
	if err != nil {
		return err
	}

	records, err := src.FetchAll(ctx, q)
	if err != nil {
		log.Error().Ctx(ctx).Err(err).Msg("failed to fetch CVE records")
		return fmt.Errorf("listing CVE records: %w", err)
	}

	state, err := pagination.Apply(records, pres.menu, params)
	if err != nil {
		return err
	}
	log.Debug().Ctx(ctx).
		Int("records", state.Len()).
		Int("page", state.CurrentPage()).
		Int("page_size", state.PageSize()).
		Msg("rendering list page")

	lv := pres.renderer.RenderList(state, pres.menu)
	mode := tui.DetectOutputMode(false, p.noColor, false)
	return writeList(cmd.OutOrStdout(), format, lv, mode, pres.locale)
}
