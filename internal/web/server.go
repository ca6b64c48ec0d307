// Package web serves the CVE list and detail pages as server-rendered HTML.
//
// Every list page load fetches the full record sequence once and paginates it
// in the request handler; nothing is shared between requests.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/rshade/cvefocus/internal/logging"
	"github.com/rshade/cvefocus/internal/pagination"
	"github.com/rshade/cvefocus/internal/source"
	"github.com/rshade/cvefocus/internal/view"
)

// Routes served by the app.
const (
	RootRoute   = "/"
	ListRoute   = "/cves/list"
	DetailRoute = view.DetailRoute

	// TraceHeader carries the request trace ID in and out.
	TraceHeader = "X-Trace-ID"

	// WelcomeMessage is the body of the root health probe.
	WelcomeMessage = "Welcome to the CVE Data API"

	shutdownTimeout = 5 * time.Second
)

//go:embed templates/*.html
var templateFS embed.FS

//nolint:gochecknoglobals // Parsed once; templates are safe for concurrent use.
var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Config wires the app to its collaborators.
type Config struct {
	// Source supplies the records. Required.
	Source source.Source
	// Renderer formats rows and details.
	Renderer view.Renderer
	// Menu holds the page-size choices. The zero value is the default menu.
	Menu pagination.Menu
	// Query is passed to every list fetch.
	Query source.Query
	// Logger receives one line per request.
	Logger zerolog.Logger
}

type server struct {
	src      source.Source
	renderer view.Renderer
	menu     pagination.Menu
	query    source.Query
	logger   zerolog.Logger
}

type listPage struct {
	Title   string
	Route   string
	View    view.ListView
	PrevURL string
	NextURL string
}

type detailPage struct {
	Title   string
	View    view.DetailView
	BackURL string
}

type errorPage struct {
	Title   string
	Status  int
	Message string
	BackURL string
}

// New builds the fiber app serving the list and detail pages.
func New(cfg Config) (*fiber.App, error) {
	if cfg.Source == nil {
		return nil, errors.New("web: no record source configured")
	}

	s := &server{
		src:      cfg.Source,
		renderer: cfg.Renderer,
		menu:     cfg.Menu,
		query:    cfg.Query,
		logger:   logging.ComponentLogger(cfg.Logger, "web"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "cvefocus",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	app.Use(s.requestLogger)
	app.Use(fiberrecover.New())

	app.Get(RootRoute, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": WelcomeMessage})
	})
	app.Get(ListRoute, s.handleList)
	app.Get(DetailRoute, s.handleDetail)

	return app, nil
}

// Serve listens on addr until ctx is cancelled, then shuts the app down.
func Serve(ctx context.Context, app *fiber.App, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return fmt.Errorf("shutting down web server: %w", err)
		}
		return <-errCh
	}
}

func (s *server) handleList(c *fiber.Ctx) error {
	ctx := c.UserContext()

	records, err := s.src.FetchAll(ctx, s.query)
	if err != nil {
		return fmt.Errorf("listing CVE records: %w", err)
	}

	params := pagination.ParseParams(c.Query("page"), c.Query("per_page"))
	menu := s.menu
	if selected, ok := menu.Select(params.PageSize); ok {
		menu = selected
	} else {
		params.PageSize = 0
	}
	state, err := pagination.Apply(records, menu, params)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	page := listPage{
		Title: "CVE Records",
		Route: ListRoute,
		View:  s.renderer.RenderList(state, menu),
	}
	if state.HasPrevious() {
		page.PrevURL = listURL(state.CurrentPage()-1, state.PageSize())
	}
	if state.HasNext() {
		page.NextURL = listURL(state.CurrentPage()+1, state.PageSize())
	}

	return render(c, fiber.StatusOK, "list.html", page)
}

func (s *server) handleDetail(c *fiber.Ctx) error {
	id := c.Query("cve_id")
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "cve_id query parameter is required")
	}

	rec, err := s.src.FetchOne(c.UserContext(), id)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", id, err)
	}

	return render(c, fiber.StatusOK, "detail.html", detailPage{
		Title:   rec.ID,
		View:    s.renderer.RenderDetail(rec),
		BackURL: ListRoute,
	})
}

// handleError renders every failed request as an error page.
func (s *server) handleError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	message := err.Error()
	if status == fiber.StatusNotFound && source.IsNotFound(err) {
		message = "CVE record not found: " + c.Query("cve_id")
	}

	if status >= fiber.StatusInternalServerError {
		s.logger.Error().Ctx(c.UserContext()).Err(err).Str("path", c.Path()).Msg("request failed")
	}

	renderErr := render(c, status, "error.html", errorPage{
		Title:   http.StatusText(status),
		Status:  status,
		Message: message,
		BackURL: ListRoute,
	})
	if renderErr != nil {
		return c.Status(status).SendString(message)
	}
	return nil
}

// requestLogger attaches a trace ID and a context logger to each request and
// logs it once it completes.
func (s *server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()

	traceID := c.Get(TraceHeader)
	if traceID == "" {
		traceID = logging.NewTraceID()
	}
	ctx := logging.ContextWithTraceID(c.UserContext(), traceID)
	ctx = s.logger.WithContext(ctx)
	c.SetUserContext(ctx)
	c.Set(TraceHeader, traceID)

	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status = statusFor(err)
	}
	s.logger.Info().
		Ctx(ctx).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Dur("duration", time.Since(start)).
		Msg("request")

	return err
}

func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case source.IsNotFound(err):
		return fiber.StatusNotFound
	case errors.Is(err, source.ErrFetch), errors.Is(err, source.ErrParse):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func render(c *fiber.Ctx, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}

func listURL(page, pageSize int) string {
	return ListRoute + "?" + url.Values{
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(pageSize)},
	}.Encode()
}
