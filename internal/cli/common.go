package cli

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/rshade/cvefocus/internal/pagination"
	"github.com/rshade/cvefocus/internal/source"
	"github.com/rshade/cvefocus/internal/view"
)

// newSource builds the HTTP record source from the loaded configuration.
func (a *app) newSource() (*source.Client, error) {
	client, err := source.NewClient(
		a.cfg.API.BaseURL,
		source.WithTimeout(a.cfg.API.Timeout),
		source.WithLogger(a.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("configuring CVE API client: %w", err)
	}
	return client, nil
}

// presentation bundles what every front end needs to render records.
type presentation struct {
	renderer view.Renderer
	menu     pagination.Menu
	locale   language.Tag
}

// newPresentation derives the renderer and page-size menu from the
// configuration. A non-zero pageSize overrides display.page_size and must be
// one of the menu choices.
func (a *app) newPresentation(pageSize int) (presentation, error) {
	dates, err := a.cfg.DateFormatter()
	if err != nil {
		return presentation{}, err
	}
	menu, err := a.cfg.Menu()
	if err != nil {
		return presentation{}, err
	}
	if pageSize != 0 {
		selected, ok := menu.Select(pageSize)
		if !ok {
			return presentation{}, fmt.Errorf("%w: --page-size %d is not one of %v",
				pagination.ErrInvalidPageSize, pageSize, menu.Choices())
		}
		menu = selected
	}
	return presentation{
		renderer: view.NewRenderer(dates),
		menu:     menu,
		locale:   dates.Locale(),
	}, nil
}
