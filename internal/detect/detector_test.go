package detect

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearbuy/clearbuy-cli/internal/evidence"
	"github.com/clearbuy/clearbuy-cli/internal/model"
)

type panickingDetector struct{}

func (panickingDetector) Name() string { return "boom" }
func (panickingDetector) Detect(*evidence.View) (*model.Finding, error) {
	panic("detector blew up")
}

type erroringDetector struct{}

func (erroringDetector) Name() string { return "broken" }
func (erroringDetector) Detect(*evidence.View) (*model.Finding, error) {
	return nil, eris.New("parse failure")
}

func TestRunAll_IsolatesPanicsAndErrors(t *testing.T) {
	ev := evidence.New(`<p>Only 2 left in stock!</p>`, "example.com")

	detectors := []Detector{
		panickingDetector{},
		erroringDetector{},
		Scarcity{},
	}

	findings := RunAll(detectors, ev)

	require.Len(t, findings, 1)
	assert.Equal(t, model.FindingScarcity, findings[0].Type)
}

func TestRunAll_EmptyPage(t *testing.T) {
	ev := evidence.New(``, "example.com")

	findings := RunAll(Registry(), ev)
	assert.Empty(t, findings)
}

func TestRegistry_Order(t *testing.T) {
	names := make([]string, 0, 4)
	for _, d := range Registry() {
		names = append(names, d.Name())
	}
	assert.Equal(t, []string{"scarcity", "drip_pricing", "pre_ticked_addon", "confirm_shaming"}, names)
}

func TestRunAll_MultiplePatternPage(t *testing.T) {
	markup := `<p>Only 3 left in stock! Delivery fee extra.</p>
<label><input type="checkbox" checked> Add warranty ₹499</label>
<button>No thanks, I don't want savings</button>`
	ev := evidence.New(markup, "example.com")

	findings := RunAll(Registry(), ev)

	require.Len(t, findings, 4)
	types := make([]model.FindingType, 0, 4)
	for _, f := range findings {
		types = append(types, f.Type)
	}
	assert.Equal(t, []model.FindingType{
		model.FindingScarcity,
		model.FindingDripPricing,
		model.FindingPretickedAddon,
		model.FindingConfirmShaming,
	}, types)
}
