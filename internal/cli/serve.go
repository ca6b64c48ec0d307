package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rshade/cvefocus/internal/logging"
	"github.com/rshade/cvefocus/internal/web"
)

// newServeCmd creates the serve command for the HTML front end.
func newServeCmd(a *app) *cobra.Command {
	var (
		filters filterFlags
		addr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the CVE list and detail pages over HTTP",
		Long: `Starts an HTTP server with the routes:

  GET /                          health probe
  GET /cves/list?page=&per_page= paginated HTML list
  GET /cves/details?cve_id=      HTML detail page

Every list page load fetches the records from the CVE API again. The server
stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd, filters, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	filters.register(cmd.Flags())

	return cmd
}

func (a *app) runServe(cmd *cobra.Command, filters filterFlags, addr string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logging.FromContext(ctx)

	q, err := filters.query(cmd)
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

	srv, err := web.New(web.Config{
		Source:   src,
		Renderer: pres.renderer,
		Menu:     pres.menu,
		Query:    q,
		Logger:   a.logger,
	})
	if err != nil {
		return err
	}

	if addr == "" {
		addr = a.cfg.Server.Addr
	}
	log.Info().Ctx(ctx).Str("addr", addr).Str("api", a.cfg.API.BaseURL).Msg("serving CVE pages")
	cmd.Printf("Serving CVE pages on %s (API %s)\n", addr, a.cfg.API.BaseURL)

	return web.Serve(ctx, srv, addr)
}
