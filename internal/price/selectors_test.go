package price

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSelectors_EmbeddedDefaults(t *testing.T) {
	table, err := LoadSelectors("")
	require.NoError(t, err)

	assert.Contains(t, table, "amazon")
	assert.Contains(t, table, "flipkart")
	assert.Equal(t, "span.a-offscreen", table["amazon"][0])
}

func TestLoadSelectors_OverrideMergesAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selectors.yaml")
	content := []byte("amazon:\n  - \"div.custom-price\"\nmyntra:\n  - \"span.pdp-price\"\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	table, err := LoadSelectors(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"div.custom-price"}, table["amazon"])
	assert.Equal(t, []string{"span.pdp-price"}, table["myntra"])
	assert.Contains(t, table, "flipkart")
}

func TestLoadSelectors_MissingOverrideFile(t *testing.T) {
	_, err := LoadSelectors(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadSelectors_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\t not yaml ["), 0o644))

	_, err := LoadSelectors(path)
	require.Error(t, err)
}
