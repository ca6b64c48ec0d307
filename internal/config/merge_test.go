package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cvefocus/internal/config"
)

// writeOverlay is a test helper that writes YAML content to a temp file
// and returns its path.
func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestShallowMergeYAML_SingleKeyOverride(t *testing.T) {
	target := config.New()
	overlay := writeOverlay(t, `
api:
  base_url: https://cve.example.com
  timeout: 5s
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, "https://cve.example.com", target.API.BaseURL)
	assert.Equal(t, 5*time.Second, target.API.Timeout)

	// Other sections should be unchanged.
	assert.Equal(t, config.DefaultPageSize, target.Display.PageSize)
	assert.Equal(t, config.DefaultLogLevel, target.Logging.Level)
}

func TestShallowMergeYAML_SectionReplacedWhole(t *testing.T) {
	target := config.New()
	overlay := writeOverlay(t, `
display:
  page_size: 25
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, 25, target.Display.PageSize)
	// The section is replaced, so fields missing from the overlay are zero.
	assert.Empty(t, target.Display.PageSizes)
	assert.Empty(t, target.Display.Locale)
}

func TestShallowMergeYAML_UnknownKeysIgnored(t *testing.T) {
	target := config.New()
	overlay := writeOverlay(t, `
plugins:
  foo: bar
server:
  addr: 127.0.0.1:9000
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))
	assert.Equal(t, "127.0.0.1:9000", target.Server.Addr)
}

func TestShallowMergeYAML_EmptyFile(t *testing.T) {
	target := config.New()
	overlay := writeOverlay(t, "# nothing here\n")

	require.NoError(t, config.ShallowMergeYAML(target, overlay))
	assert.Equal(t, config.New(), target)
}

func TestShallowMergeYAML_Errors(t *testing.T) {
	t.Run("nil target", func(t *testing.T) {
		assert.Error(t, config.ShallowMergeYAML(nil, "x"))
	})

	t.Run("missing file", func(t *testing.T) {
		err := config.ShallowMergeYAML(config.New(), filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		err := config.ShallowMergeYAML(config.New(), writeOverlay(t, "api: [unclosed"))
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("wrong section type", func(t *testing.T) {
		err := config.ShallowMergeYAML(config.New(), writeOverlay(t, "display:\n  page_size: lots\n"))
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})
}
