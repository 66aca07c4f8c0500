package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearbuy/clearbuy-cli/internal/evidence"
	"github.com/clearbuy/clearbuy-cli/internal/model"
)

func TestPretickedAddons_CheckedWarrantyBox(t *testing.T) {
	markup := `<label><input type="checkbox" checked> Add 1-year extended warranty for ₹499</label>`
	ev := evidence.New(markup, "example.com")

	f, err := PretickedAddons{}.Detect(ev)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, model.FindingPretickedAddon, f.Type)
	assert.Equal(t, model.SeverityMedium, f.Severity)
	assert.Equal(t, model.ConfidenceMedium, f.Confidence)
}

func TestPretickedAddons_MultipleHitsRaiseConfidence(t *testing.T) {
	markup := `<label><input type="checkbox" checked> Device insurance ₹299</label>
<select><option selected>Screen protection plan</option></select>`
	ev := evidence.New(markup, "example.com")

	f, err := PretickedAddons{}.Detect(ev)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, model.ConfidenceHigh, f.Confidence)
}

func TestPretickedAddons_CheckedBoxWithoutAddonText(t *testing.T) {
	markup := `<label><input type="checkbox" checked> Subscribe to our newsletter</label>`
	ev := evidence.New(markup, "example.com")

	f, err := PretickedAddons{}.Detect(ev)
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestPretickedAddons_UncheckedBoxIgnored(t *testing.T) {
	markup := `<label><input type="checkbox"> Add extended warranty ₹499</label>`
	ev := evidence.New(markup, "example.com")

	f, err := PretickedAddons{}.Detect(ev)
	require.NoError(t, err)
	assert.Nil(t, f)
}
