package tui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cvefocus/internal/cve"
	"github.com/rshade/cvefocus/internal/source"
	"github.com/rshade/cvefocus/internal/view"
)

// fakeSource serves fixed records and counts calls.
type fakeSource struct {
	mu       sync.Mutex
	records  []cve.Record
	listErr  error
	oneErr   error
	allCalls int
	oneCalls int
}

func (f *fakeSource) FetchAll(_ context.Context, _ source.Query) ([]cve.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.allCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.records, nil
}

func (f *fakeSource) FetchOne(_ context.Context, id string) (cve.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.oneCalls++
	if f.oneErr != nil {
		return cve.Record{}, f.oneErr
	}
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return cve.Record{}, fmt.Errorf("%w: %s", source.ErrNotFound, id)
}

func makeRecords(n int) []cve.Record {
	out := make([]cve.Record, n)
	for i := range out {
		score := float64(i%10) + 0.5
		out[i] = cve.Record{ID: fmt.Sprintf("CVE-2024-%04d", i), BaseScoreV3: &score}
	}
	return out
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// run executes cmd and any batched commands, returning the fetch results.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	switch msg.(type) {
	case RecordsLoadedMsg, DetailLoadedMsg:
		return []tea.Msg{msg}
	}
	return nil
}

func update(t *testing.T, m BrowserModel, msg tea.Msg) (BrowserModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	bm, ok := next.(BrowserModel)
	require.True(t, ok)
	return bm, cmd
}

// settle feeds every fetch result produced by cmd back into the model.
func settle(t *testing.T, m BrowserModel, cmd tea.Cmd) BrowserModel {
	t.Helper()
	for _, msg := range run(cmd) {
		m, _ = update(t, m, msg)
	}
	return m
}

func loadedModel(t *testing.T, src *fakeSource) BrowserModel {
	t.Helper()
	m := NewBrowserModel(context.Background(), src, BrowserOptions{})
	require.Equal(t, ViewStateLoading, m.State())
	m = settle(t, m, m.Init())
	require.Equal(t, ViewStateList, m.State())
	return m
}

func TestBrowserModel_LoadsThenRenders(t *testing.T) {
	src := &fakeSource{records: makeRecords(25)}
	m := NewBrowserModel(context.Background(), src, BrowserOptions{})

	assert.Equal(t, ViewStateLoading, m.State())
	assert.NotContains(t, m.View(), "CVE-2024-0000")

	m = settle(t, m, m.Init())
	assert.Equal(t, ViewStateList, m.State())
	assert.Equal(t, 1, src.allCalls)
	assert.Equal(t, 1, m.Pagination().CurrentPage())
	assert.Equal(t, 10, m.Pagination().PageSize())
	assert.Equal(t, 3, m.Pagination().TotalPages())
	require.Len(t, m.ListView().Rows, 10)

	out := m.View()
	assert.Contains(t, out, "CVE-2024-0000")
	assert.Contains(t, out, "Page 1/3")
	assert.Contains(t, out, "Total Records: 25")
}

func TestBrowserModel_Navigation(t *testing.T) {
	src := &fakeSource{records: makeRecords(25)}
	m := loadedModel(t, src)

	m, _ = update(t, m, key("left"))
	assert.Equal(t, 1, m.Pagination().CurrentPage(), "previous on first page is a no-op")

	m, _ = update(t, m, key("right"))
	assert.Equal(t, 2, m.Pagination().CurrentPage())
	m, _ = update(t, m, key("n"))
	assert.Equal(t, 3, m.Pagination().CurrentPage())
	require.Len(t, m.ListView().Rows, 5)
	assert.Equal(t, "CVE-2024-0020", m.ListView().Rows[0].ID)

	m, _ = update(t, m, key("pgdown"))
	assert.Equal(t, 3, m.Pagination().CurrentPage(), "next on last page is a no-op")

	m, _ = update(t, m, key("h"))
	assert.Equal(t, 2, m.Pagination().CurrentPage())
	m, _ = update(t, m, key("p"))
	assert.Equal(t, 1, m.Pagination().CurrentPage())

	assert.Equal(t, 1, src.allCalls, "paging never refetches")
	assert.Equal(t, "Total Records: 25", m.ListView().TotalRecords)
}

func TestBrowserModel_PageSizeResetsToFirstPage(t *testing.T) {
	m := loadedModel(t, &fakeSource{records: makeRecords(120)})

	m, _ = update(t, m, key("right"))
	m, _ = update(t, m, key("right"))
	require.Equal(t, 3, m.Pagination().CurrentPage())

	m, _ = update(t, m, key("tab"))
	assert.Equal(t, 25, m.Pagination().PageSize())
	assert.Equal(t, 1, m.Pagination().CurrentPage())
	assert.Equal(t, "CVE-2024-0000", m.ListView().Rows[0].ID)
	assert.Contains(t, m.View(), "[25]")

	m, _ = update(t, m, key("+"))
	assert.Equal(t, 50, m.Pagination().PageSize())

	m, _ = update(t, m, key("right"))
	m, _ = update(t, m, key("shift+tab"))
	assert.Equal(t, 25, m.Pagination().PageSize())
	assert.Equal(t, 1, m.Pagination().CurrentPage())

	m, _ = update(t, m, key("-"))
	m, _ = update(t, m, key("-"))
	assert.Equal(t, 100, m.Pagination().PageSize(), "menu wraps around")
}

func TestBrowserModel_EmptyList(t *testing.T) {
	m := loadedModel(t, &fakeSource{records: []cve.Record{}})

	assert.Equal(t, 0, m.Pagination().TotalPages())
	m, _ = update(t, m, key("right"))
	m, _ = update(t, m, key("left"))
	assert.Equal(t, 1, m.Pagination().CurrentPage())

	m, cmd := update(t, m, key("enter"))
	assert.Nil(t, cmd)
	assert.Equal(t, ViewStateList, m.State())

	out := m.View()
	assert.Contains(t, out, msgNoRecords)
	assert.Contains(t, out, "Total Records: 0")
}

func TestBrowserModel_InitialFetchFailure(t *testing.T) {
	src := &fakeSource{listErr: fmt.Errorf("%w: connection refused", source.ErrFetch)}
	m := NewBrowserModel(context.Background(), src, BrowserOptions{})
	m = settle(t, m, m.Init())

	assert.Equal(t, ViewStateError, m.State())
	require.ErrorIs(t, m.Err(), source.ErrFetch)
	assert.Equal(t, 0, m.Pagination().Len())
	assert.Contains(t, m.View(), "connection refused")
	assert.NotContains(t, m.View(), "[esc] Back")

	// esc has nowhere to go before the first successful load.
	m, _ = update(t, m, key("esc"))
	assert.Equal(t, ViewStateError, m.State())

	src.listErr = nil
	src.records = makeRecords(3)
	m, cmd := update(t, m, key("r"))
	assert.Equal(t, ViewStateLoading, m.State())
	m = settle(t, m, cmd)

	assert.Equal(t, ViewStateList, m.State())
	assert.Equal(t, 3, m.Pagination().Len())
	assert.Equal(t, 2, src.allCalls)
}

func TestBrowserModel_RefreshFailureKeepsState(t *testing.T) {
	src := &fakeSource{records: makeRecords(25)}
	m := loadedModel(t, src)
	m, _ = update(t, m, key("right"))
	before := m.Pagination()

	src.listErr = fmt.Errorf("%w: truncated body", source.ErrParse)
	m, cmd := update(t, m, key("r"))
	m = settle(t, m, cmd)

	assert.Equal(t, ViewStateError, m.State())
	assert.ErrorIs(t, m.Err(), source.ErrParse)
	assert.Equal(t, before, m.Pagination())

	m, _ = update(t, m, key("esc"))
	assert.Equal(t, ViewStateList, m.State())
	assert.Equal(t, 2, m.Pagination().CurrentPage())
	assert.NoError(t, m.Err())
}

func TestBrowserModel_Detail(t *testing.T) {
	records := makeRecords(25)
	v2 := 6.8
	desc := "Remote code execution"
	records[11].BaseScoreV2 = &v2
	records[11].Description = &desc
	src := &fakeSource{records: records}

	m := loadedModel(t, src)
	m, _ = update(t, m, key("right"))
	m, _ = update(t, m, key("down"))
	require.Equal(t, 1, m.Cursor())

	m, cmd := update(t, m, key("enter"))
	assert.Equal(t, ViewStateLoading, m.State())
	assert.Contains(t, m.View(), "CVE-2024-0011")
	m = settle(t, m, cmd)

	require.Equal(t, ViewStateDetail, m.State())
	assert.Equal(t, 1, src.oneCalls)
	d := m.Detail()
	assert.Equal(t, "CVE-2024-0011", d.ID)
	assert.Equal(t, "1.5", d.ScoreV3)
	assert.Equal(t, "6.8", d.ScoreV2)
	assert.Equal(t, cve.NotAvailable, d.Published)
	out := m.View()
	assert.Contains(t, out, "Remote code execution")
	assert.Contains(t, out, "6.8")

	m, _ = update(t, m, key("esc"))
	assert.Equal(t, ViewStateList, m.State())
	assert.Equal(t, 2, m.Pagination().CurrentPage())
	assert.Equal(t, 1, src.allCalls)
}

func TestBrowserModel_NavigateMsgMatchesEnter(t *testing.T) {
	src := &fakeSource{records: makeRecords(5)}
	m := loadedModel(t, src)

	row := m.ListView().Rows[0]
	viaEnter, enterCmd := update(t, m, key("enter"))
	viaMsg, msgCmd := update(t, m, NavigateMsg{Intent: row.Link})

	viaEnter = settle(t, viaEnter, enterCmd)
	viaMsg = settle(t, viaMsg, msgCmd)
	assert.Equal(t, viaEnter.Detail(), viaMsg.Detail())
	assert.Equal(t, ViewStateDetail, viaMsg.State())
}

func TestBrowserModel_DetailNotFound(t *testing.T) {
	src := &fakeSource{records: makeRecords(5)}
	m := loadedModel(t, src)

	m, cmd := update(t, m, NavigateMsg{Intent: view.Intent{ID: "CVE-0000-0000"}})
	m = settle(t, m, cmd)

	assert.Equal(t, ViewStateError, m.State())
	assert.True(t, source.IsNotFound(m.Err()))
	assert.Empty(t, m.Detail().ID)
	out := m.View()
	assert.Contains(t, out, "CVE CVE-0000-0000 not found.")
	assert.NotContains(t, out, cve.NotAvailable)

	m, _ = update(t, m, key("esc"))
	assert.Equal(t, ViewStateList, m.State())
}

func TestBrowserModel_DetailRetry(t *testing.T) {
	src := &fakeSource{records: makeRecords(5), oneErr: fmt.Errorf("%w: timeout", source.ErrFetch)}
	m := loadedModel(t, src)

	m, cmd := update(t, m, key("enter"))
	m = settle(t, m, cmd)
	require.Equal(t, ViewStateError, m.State())

	src.oneErr = nil
	m, cmd = update(t, m, key("r"))
	m = settle(t, m, cmd)
	assert.Equal(t, ViewStateDetail, m.State())
	assert.Equal(t, "CVE-2024-0000", m.Detail().ID)
	assert.Equal(t, 2, src.oneCalls)
}

func TestBrowserModel_StaleDetailIgnored(t *testing.T) {
	src := &fakeSource{records: makeRecords(5)}
	m := loadedModel(t, src)

	m, cmd := update(t, m, key("enter"))
	m, _ = update(t, m, key("esc"))
	require.Equal(t, ViewStateList, m.State())

	m = settle(t, m, cmd)
	assert.Equal(t, ViewStateList, m.State())
}

func TestBrowserModel_Quit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m := loadedModel(t, &fakeSource{records: makeRecords(2)})
			m, cmd := update(t, m, key(k))
			assert.Equal(t, ViewStateQuitting, m.State())
			require.NotNil(t, cmd)
			assert.Equal(t, tea.Quit(), cmd())
			assert.Empty(t, m.View())
		})
	}
}

func TestBrowserModel_WindowResize(t *testing.T) {
	m := loadedModel(t, &fakeSource{records: makeRecords(3)})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 160, Height: 40})
	assert.Equal(t, 160, m.width)
	assert.Contains(t, m.View(), "CVE-2024-0002")
}

func TestBrowserModel_ViewShowsEveryWindowRow(t *testing.T) {
	m := loadedModel(t, &fakeSource{records: makeRecords(25)})

	for page, want := range []int{10, 10, 5} {
		t.Run(fmt.Sprintf("page %d", page+1), func(t *testing.T) {
			rows := m.ListView().Rows
			require.Len(t, rows, want)
			out := m.View()
			for _, r := range rows {
				assert.Contains(t, out, r.ID)
			}
		})
		m, _ = update(t, m, key("right"))
	}
}

func TestBrowserModel_NilSource(t *testing.T) {
	m := NewBrowserModel(context.Background(), nil, BrowserOptions{})
	m = settle(t, m, m.Init())
	assert.Equal(t, ViewStateError, m.State())
	assert.Error(t, m.Err())
	assert.False(t, errors.Is(m.Err(), source.ErrNotFound))
}

func TestViewState_String(t *testing.T) {
	assert.Equal(t, "loading", ViewStateLoading.String())
	assert.Equal(t, "error", ViewStateError.String())
	assert.Equal(t, "unknown", ViewState(42).String())
}

func TestSeverityStyle(t *testing.T) {
	high := 9.8
	assert.Equal(t, CriticalStyle.Render("x"), SeverityStyle(&high).Render("x"))
	assert.Equal(t, SubtleStyle.Render("x"), SeverityStyle(nil).Render("x"))
}
