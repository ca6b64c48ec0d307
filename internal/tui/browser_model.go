package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/cvefocus/internal/cve"
	"github.com/rshade/cvefocus/internal/logging"
	"github.com/rshade/cvefocus/internal/pagination"
	"github.com/rshade/cvefocus/internal/source"
	"github.com/rshade/cvefocus/internal/view"
)

// Table column widths.
const (
	colWidthID          = 18
	colWidthPublished   = 12
	colWidthScore       = 8
	colWidthDescription = 50
	minDescriptionWidth = 20
	tableCellPadding    = 10
)

// operation identifies the fetch a Loading or Error state belongs to.
type operation int

const (
	opList operation = iota
	opDetail
)

// RecordsLoadedMsg carries the result of a list fetch.
type RecordsLoadedMsg struct {
	Records []cve.Record
	Err     error
}

// DetailLoadedMsg carries the result of a single-record fetch.
type DetailLoadedMsg struct {
	Intent view.Intent
	Record cve.Record
	Err    error
}

// NavigateMsg asks the browser to open the detail view for an intent.
type NavigateMsg struct {
	Intent view.Intent
}

// BrowserOptions configures a BrowserModel.
type BrowserOptions struct {
	// Query is passed to every list fetch.
	Query source.Query
	// Menu holds the page-size choices. The zero value is the default menu.
	Menu pagination.Menu
	// Renderer formats rows and details.
	Renderer view.Renderer
	// Locale groups digits in the record counter.
	Locale language.Tag
}

// BrowserModel is the Bubble Tea model for paging through CVE records.
//
// The model is Loading until the list fetch resolves. A failed fetch moves
// it to Error and leaves the pagination state as it was.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type BrowserModel struct {
	ctx      context.Context
	source   source.Source
	query    source.Query
	renderer view.Renderer
	printer  *message.Printer

	state ViewState
	menu  pagination.Menu
	page  pagination.State[cve.Record]
	list  view.ListView
	table table.Model

	// loaded is set once a list fetch has succeeded.
	loaded bool

	detail view.DetailView
	intent view.Intent

	loading *LoadingState
	pending operation
	err     error

	width  int
	height int
}

// NewBrowserModel returns a model that fetches records from src on Init.
func NewBrowserModel(ctx context.Context, src source.Source, opts BrowserOptions) BrowserModel {
	locale := opts.Locale
	if locale == language.Und {
		locale = language.AmericanEnglish
	}
	m := BrowserModel{
		ctx:      ctx,
		source:   src,
		query:    opts.Query,
		renderer: opts.Renderer,
		printer:  message.NewPrinter(locale),
		state:    ViewStateLoading,
		menu:     opts.Menu,
		loading:  NewLoadingState(),
		pending:  opList,
		width:    defaultWidth,
		height:   defaultHeight,
	}
	m.page = pagination.Initialize([]cve.Record{}, m.menu)
	m.rebuild()
	return m
}

// Init starts the spinner and the list fetch (Bubble Tea interface).
func (m BrowserModel) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), m.fetchAllCmd())
}

// State returns the current view state.
func (m BrowserModel) State() ViewState {
	return m.state
}

// Pagination returns the current pagination state.
func (m BrowserModel) Pagination() pagination.State[cve.Record] {
	return m.page
}

// ListView returns the rendered list of the current page.
func (m BrowserModel) ListView() view.ListView {
	return m.list
}

// Detail returns the rendered record shown in the detail view.
func (m BrowserModel) Detail() view.DetailView {
	return m.detail
}

// Err returns the error shown in the error view.
func (m BrowserModel) Err() error {
	return m.err
}

// Cursor returns the selected row index within the current window.
func (m BrowserModel) Cursor() int {
	return m.table.Cursor()
}

// Update handles messages and updates the model state (Bubble Tea interface).
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rebuild()
		return m, nil
	case RecordsLoadedMsg:
		return m.handleRecordsLoaded(msg)
	case DetailLoadedMsg:
		return m.handleDetailLoaded(msg)
	case NavigateMsg:
		return m.navigate(msg.Intent)
	}

	switch m.state {
	case ViewStateLoading:
		return m.handleLoadingUpdate(msg)
	case ViewStateList:
		return m.handleListUpdate(msg)
	case ViewStateDetail:
		return m.handleDetailUpdate(msg)
	case ViewStateError:
		return m.handleErrorUpdate(msg)
	case ViewStateQuitting:
		return m, nil
	default:
		return m, nil
	}
}

func (m BrowserModel) handleRecordsLoaded(msg RecordsLoadedMsg) (tea.Model, tea.Cmd) {
	if m.pending != opList {
		return m, nil
	}
	if msg.Err != nil {
		logging.FromContext(m.ctx).Warn().Ctx(m.ctx).
			Str("component", "tui").
			Err(msg.Err).
			Msg("list fetch failed")
		m.err = msg.Err
		m.state = ViewStateError
		return m, nil
	}

	m.page = pagination.Initialize(msg.Records, m.menu)
	m.loaded = true
	m.err = nil
	m.state = ViewStateList
	m.rebuild()
	return m, nil
}

func (m BrowserModel) handleDetailLoaded(msg DetailLoadedMsg) (tea.Model, tea.Cmd) {
	if m.pending != opDetail || msg.Intent != m.intent {
		return m, nil
	}
	if msg.Err != nil {
		logging.FromContext(m.ctx).Warn().Ctx(m.ctx).
			Str("component", "tui").
			Str("cve_id", msg.Intent.ID).
			Err(msg.Err).
			Msg("detail fetch failed")
		m.err = msg.Err
		m.state = ViewStateError
		return m, nil
	}

	m.detail = m.renderer.RenderDetail(msg.Record)
	m.err = nil
	m.state = ViewStateDetail
	return m, nil
}

func (m BrowserModel) handleLoadingUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		case keyEsc:
			// Abandon a detail fetch; its result is ignored when it arrives.
			if m.pending == opDetail && m.loaded {
				m.pending = opList
				m.state = ViewStateList
			}
			return m, nil
		}
	}
	return m, m.loading.Update(msg)
}

func (m BrowserModel) handleListUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m.handleListKeypress(keyMsg)
}

func (m BrowserModel) handleListKeypress(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyLeft, keyH, keyP, keyPgUp:
		m.page = m.page.Previous()
		m.rebuild()
		return m, nil
	case keyRight, keyL, keyN, keyPgDown:
		m.page = m.page.Next()
		m.rebuild()
		return m, nil
	case keyTab, keyPlus:
		return m.changePageSize(1), nil
	case keyShiftTab, keyMinus:
		return m.changePageSize(-1), nil
	case keyEnter:
		cursor := m.table.Cursor()
		if cursor < 0 || cursor >= len(m.list.Rows) {
			return m, nil
		}
		return m.navigate(m.list.Rows[cursor].Link)
	case keyRetry:
		return m.startListFetch()
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(keyMsg)
		return m, cmd
	}
}

func (m BrowserModel) handleDetailUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		case keyEsc, keyBackspace:
			return m.backToList(), nil
		case keyRetry:
			return m.navigate(m.intent)
		}
	}
	return m, nil
}

func (m BrowserModel) handleErrorUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyRetry:
		if m.pending == opDetail {
			return m.navigate(m.intent)
		}
		return m.startListFetch()
	case keyEsc, keyBackspace:
		if m.loaded {
			return m.backToList(), nil
		}
	}
	return m, nil
}

// navigate opens the detail view for intent. Every row trigger ends here.
func (m BrowserModel) navigate(intent view.Intent) (tea.Model, tea.Cmd) {
	if intent.ID == "" {
		return m, nil
	}
	m.intent = intent
	m.pending = opDetail
	m.state = ViewStateLoading
	m.loading.SetMessage(fmt.Sprintf("Fetching %s...", intent.ID))
	return m, tea.Batch(m.loading.Init(), m.fetchOneCmd(intent))
}

func (m BrowserModel) startListFetch() (tea.Model, tea.Cmd) {
	m.pending = opList
	m.state = ViewStateLoading
	m.loading.SetMessage(defaultLoadingMessage)
	return m, tea.Batch(m.loading.Init(), m.fetchAllCmd())
}

func (m BrowserModel) backToList() BrowserModel {
	m.pending = opList
	m.err = nil
	m.state = ViewStateList
	m.table.Focus()
	return m
}

// changePageSize moves the menu selection by delta and resets to page 1.
func (m BrowserModel) changePageSize(delta int) BrowserModel {
	menu := m.menu.Cycle(delta)
	page, err := m.page.ChangePageSize(menu.Value())
	if err != nil {
		return m
	}
	m.menu = menu
	m.page = page
	m.rebuild()
	return m
}

func (m BrowserModel) fetchAllCmd() tea.Cmd {
	ctx, src, q := m.ctx, m.source, m.query
	return func() tea.Msg {
		if src == nil {
			return RecordsLoadedMsg{Err: errors.New("no record source configured")}
		}
		records, err := src.FetchAll(ctx, q)
		return RecordsLoadedMsg{Records: records, Err: err}
	}
}

func (m BrowserModel) fetchOneCmd(intent view.Intent) tea.Cmd {
	ctx, src := m.ctx, m.source
	return func() tea.Msg {
		if src == nil {
			return DetailLoadedMsg{Intent: intent, Err: errors.New("no record source configured")}
		}
		rec, err := src.FetchOne(ctx, intent.ID)
		return DetailLoadedMsg{Intent: intent, Record: rec, Err: err}
	}
}

// rebuild re-renders the current window and its table.
func (m *BrowserModel) rebuild() {
	m.list = m.renderer.RenderList(m.page, m.menu)
	m.table = m.buildTable()
}

func (m *BrowserModel) buildTable() table.Model {
	descWidth := m.width - colWidthID - colWidthPublished - colWidthScore - tableCellPadding
	if descWidth < minDescriptionWidth {
		descWidth = minDescriptionWidth
	}
	if descWidth > colWidthDescription && m.width <= defaultWidth {
		descWidth = colWidthDescription
	}

	columns := []table.Column{
		{Title: "CVE ID", Width: colWidthID},
		{Title: "Published", Width: colWidthPublished},
		{Title: "Score v3", Width: colWidthScore},
		{Title: "Description", Width: descWidth},
	}

	rows := make([]table.Row, len(m.list.Rows))
	for i, r := range m.list.Rows {
		rows[i] = table.Row{r.ID, r.Published, r.ScoreV3, r.Description}
	}

	height := m.height - chromeHeight
	if height < minHeight {
		height = minHeight
	}
	if n := len(rows); n > 0 && n < height {
		height = n
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
	)

	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)

	// SetHeight includes the header lines, so height stays the row count.
	t.SetHeight(height + lipgloss.Height(TableHeaderStyle.Render(columns[0].Title)))

	return t
}
