package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/cvefocus/internal/logging"
	"github.com/rshade/cvefocus/internal/pagination"
	"github.com/rshade/cvefocus/internal/tui"
)

// newBrowseCmd creates the interactive browse command.
func newBrowseCmd(a *app) *cobra.Command {
	var (
		filters  filterFlags
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through CVE records interactively",
		Long: `Opens an interactive table of CVE records.

Keys: ←/→ change page, tab/shift+tab change the page size, ↑/↓ select a
row, enter opens the detail view, esc goes back, r refetches, q quits.

When stdout is not a terminal the first page is printed as with "list".`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationTUI: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.newPresentation(pageSize); err != nil {
				return err
			}
			if !tuiMode(cmd) {
				return a.runList(cmd, listParams{
					filters:  filters,
					page:     pagination.DefaultPage,
					pageSize: pageSize,
					output:   string(OutputTable),
				})
			}
			return a.runBrowse(cmd, filters, pageSize)
		},
	}

	cmd.Flags().IntVar(&pageSize, "page-size", 0, "initial page size, one of display.page_sizes")
	filters.register(cmd.Flags())

	return cmd
}

func (a *app) runBrowse(cmd *cobra.Command, filters filterFlags, pageSize int) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	q, err := filters.query(cmd)
	if err != nil {
		return err
	}
	pres, err := a.newPresentation(pageSize)
	if err != nil {
		return err
	}
	src, err := a.newSource()
	if err != nil {
		return err
	}

	model := tui.NewBrowserModel(ctx, src, tui.BrowserOptions{
		Query:    q,
		Menu:     pres.menu,
		Renderer: pres.renderer,
		Locale:   pres.locale,
	})

	log.Debug().Ctx(ctx).Str("api", a.cfg.API.BaseURL).Msg("starting interactive browser")

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err = p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	return nil
}
