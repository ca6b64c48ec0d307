package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr error
	}{
		{name: "zero", params: Params{}},
		{name: "valid", params: Params{Page: 3, PageSize: 25}},
		{name: "negative page", params: Params{Page: -1}, wantErr: ErrInvalidPage},
		{name: "negative size", params: Params{PageSize: -5}, wantErr: ErrInvalidPageSize},
		{name: "size too large", params: Params{PageSize: MaxPageSize + 1}, wantErr: ErrInvalidPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestApply(t *testing.T) {
	t.Run("menu default", func(t *testing.T) {
		s, err := Apply(seq(42), DefaultMenu(), Params{})
		require.NoError(t, err)
		assert.Equal(t, 10, s.PageSize())
		assert.Equal(t, 1, s.CurrentPage())
	})

	t.Run("explicit page and size", func(t *testing.T) {
		s, err := Apply(seq(42), DefaultMenu(), Params{Page: 2, PageSize: 25})
		require.NoError(t, err)
		assert.Equal(t, 25, s.PageSize())
		assert.Equal(t, 2, s.CurrentPage())
		assert.Len(t, s.Window(), 17)
	})

	t.Run("page past the end clamps", func(t *testing.T) {
		s, err := Apply(seq(42), DefaultMenu(), Params{Page: 50})
		require.NoError(t, err)
		assert.Equal(t, 5, s.CurrentPage())
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := Apply(seq(1), DefaultMenu(), Params{Page: -2})
		assert.ErrorIs(t, err, ErrInvalidPage)
	})
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		page, size string
		want       Params
	}{
		{page: "2", size: "25", want: Params{Page: 2, PageSize: 25}},
		{page: "", size: "", want: Params{}},
		{page: "abc", size: "-3", want: Params{}},
		{page: "0", size: "0", want: Params{}},
		{page: " 4 ", size: "5000", want: Params{Page: 4, PageSize: MaxPageSize}},
	}
	for _, tt := range tests {
		t.Run(tt.page+"/"+tt.size, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseParams(tt.page, tt.size))
		})
	}
}
