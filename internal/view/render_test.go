package view

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/rshade/cvefocus/internal/cve"
	"github.com/rshade/cvefocus/internal/pagination"
)

func ptr[T any](v T) *T { return &v }

func newRenderer() Renderer {
	return NewRenderer(cve.NewDateFormatter(language.AmericanEnglish, time.UTC))
}

func makeRecords(n int) []cve.Record {
	out := make([]cve.Record, n)
	for i := range out {
		out[i] = cve.Record{ID: fmt.Sprintf("CVE-2023-%04d", i)}
	}
	return out
}

func TestRenderList_Row(t *testing.T) {
	published := time.Date(2023, 3, 14, 9, 0, 0, 0, time.UTC)
	records := []cve.Record{
		{
			ID:          "CVE-2023-1111",
			Published:   &published,
			Description: ptr("Heap overflow in parser"),
			BaseScoreV3: ptr(9.8),
		},
		{ID: "CVE-2023-2222"},
		{ID: "CVE-2023-3333", BaseScoreV3: ptr(0.0), Description: ptr("")},
	}
	s, err := pagination.NewState(records, 10)
	require.NoError(t, err)

	v := newRenderer().RenderList(s, pagination.DefaultMenu())
	require.Len(t, v.Rows, 3)

	assert.Equal(t, Row{
		ID:          "CVE-2023-1111",
		Link:        Intent{ID: "CVE-2023-1111", Path: "/cves/details?cve_id=CVE-2023-1111"},
		Published:   "3/14/2023",
		Description: "Heap overflow in parser",
		ScoreV3:     "9.8",
	}, v.Rows[0])

	assert.Equal(t, cve.NotAvailable, v.Rows[1].Published)
	assert.Equal(t, cve.NotAvailable, v.Rows[1].Description)
	assert.Equal(t, cve.NotAvailable, v.Rows[1].ScoreV3)

	assert.Equal(t, "0", v.Rows[2].ScoreV3)
	assert.Equal(t, cve.NotAvailable, v.Rows[2].Description)
}

func TestRenderList_Indicators(t *testing.T) {
	s, err := pagination.NewState(makeRecords(25), 10)
	require.NoError(t, err)
	r := newRenderer()
	menu := pagination.DefaultMenu()

	v := r.RenderList(s, menu)
	assert.Equal(t, "Page 1", v.PageIndicator)
	assert.Equal(t, "Total Records: 25", v.TotalRecords)
	assert.Equal(t, "CVE-2023-0000", v.Rows[0].ID)

	v = r.RenderList(s.Next().Next(), menu)
	assert.Equal(t, "Page 3", v.PageIndicator)
	assert.Equal(t, "Total Records: 25", v.TotalRecords)
	require.Len(t, v.Rows, 5)
	assert.Equal(t, "CVE-2023-0020", v.Rows[0].ID)

	resized, err := s.Next().ChangePageSize(25)
	require.NoError(t, err)
	v = r.RenderList(resized, menu)
	assert.Equal(t, "Page 1", v.PageIndicator)
	assert.Equal(t, "Total Records: 25", v.TotalRecords)
	assert.Equal(t, 1, v.PageSizeIndex)
	assert.Equal(t, []int{10, 25, 50, 100}, v.PageSizes)
}

func TestRenderList_Empty(t *testing.T) {
	s, err := pagination.NewState([]cve.Record{}, 10)
	require.NoError(t, err)

	v := newRenderer().RenderList(s.Next().Previous(), pagination.DefaultMenu())
	assert.True(t, v.Empty())
	assert.Empty(t, v.Rows)
	assert.Equal(t, "Page 1", v.PageIndicator)
	assert.Equal(t, "Total Records: 0", v.TotalRecords)
	assert.Equal(t, 0, v.Meta.TotalPages)
}

func TestRenderList_JSON(t *testing.T) {
	s, err := pagination.NewState(makeRecords(3), 2)
	require.NoError(t, err)

	data, err := json.Marshal(newRenderer().RenderList(s, pagination.DefaultMenu()))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded["records"], 2)
	meta, ok := decoded["pagination"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2, meta["total_pages"])
	assert.NotContains(t, decoded, "PageIndicator")
}

func TestRenderDetail(t *testing.T) {
	published := time.Date(2023, 1, 15, 12, 0, 0, 0, time.UTC)
	rec := cve.Record{
		ID:          "CVE-2023-9999",
		Published:   &published,
		Description: ptr("A test vulnerability."),
		BaseScoreV3: ptr(7.5),
		BaseScoreV2: ptr(0.0),
	}

	d := newRenderer().RenderDetail(rec)
	assert.Equal(t, DetailView{
		ID:           "CVE-2023-9999",
		Published:    "1/15/2023",
		LastModified: cve.NotAvailable,
		Description:  "A test vulnerability.",
		ScoreV3:      "7.5",
		ScoreV2:      "0",
	}, d)

	bare := newRenderer().RenderDetail(cve.Record{ID: "CVE-1"})
	assert.Equal(t, cve.NotAvailable, bare.Published)
	assert.Equal(t, cve.NotAvailable, bare.Description)
	assert.Equal(t, cve.NotAvailable, bare.ScoreV3)
	assert.Equal(t, cve.NotAvailable, bare.ScoreV2)
}

func TestIntent(t *testing.T) {
	r := newRenderer()
	assert.Equal(t, "/cves/details?cve_id=CVE-2023-1", r.Intent("CVE-2023-1").Path)
	assert.Equal(t, "/cves/details?cve_id=a+b%26c", r.Intent("a b&c").Path)

	var zero Renderer
	assert.Equal(t, DetailPath("x"), zero.Intent("x").Path)

	custom := Renderer{DetailPath: func(id string) string { return "#" + id }}
	assert.Equal(t, Intent{ID: "x", Path: "#x"}, custom.Intent("x"))
}
