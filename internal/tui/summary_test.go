package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/rshade/cvefocus/internal/pagination"
	"github.com/rshade/cvefocus/internal/view"
)

func TestRenderListSummary(t *testing.T) {
	lv := view.ListView{
		Rows: []view.Row{
			{ID: "CVE-2024-0001", Published: "1/2/2024", ScoreV3: "9.8", Description: "remote code execution"},
			{ID: "CVE-2024-0002", Published: "N/A", ScoreV3: "N/A", Description: "N/A"},
		},
		PageIndicator: view.PageIndicator(1),
		Meta:          pagination.Meta{CurrentPage: 1, PageSize: 10, TotalPages: 124, TotalItems: 1234},
	}

	out := RenderListSummary(lv, language.AmericanEnglish, 100)

	assert.Contains(t, out, "CVE RECORDS")
	assert.Contains(t, out, "CVE-2024-0001")
	assert.Contains(t, out, "remote code execution")
	assert.Contains(t, out, "CVE-2024-0002")
	assert.Contains(t, out, "Page 1/124")
	assert.Contains(t, out, "Total Records: 1,234")
}

func TestRenderListSummary_Empty(t *testing.T) {
	lv := view.ListView{PageIndicator: view.PageIndicator(1)}

	out := RenderListSummary(lv, language.German, 80)

	assert.Contains(t, out, msgNoRecords)
	assert.Contains(t, out, "Page 1")
	assert.Contains(t, out, "Total Records: 0")
}

func TestRenderDetailSummary(t *testing.T) {
	out := RenderDetailSummary(view.DetailView{
		ID:           "CVE-2024-0011",
		Published:    "1/2/2024",
		LastModified: "N/A",
		Description:  "heap overflow",
		ScoreV3:      "7.5",
		ScoreV2:      "6.8",
	}, 100)

	assert.Contains(t, out, "CVE-2024-0011")
	assert.Contains(t, out, "6.8")
	assert.Contains(t, out, "heap overflow")
	assert.NotContains(t, out, "[esc]")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{in: "abc", n: 5, want: "abc"},
		{in: "abcdef", n: 6, want: "abcdef"},
		{in: "abcdef", n: 5, want: "ab..."},
		{in: "héllo wörld", n: 8, want: "héllo..."},
		{in: "abcdef", n: 2, want: "ab"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.in, tt.n), tt.in)
	}
}
