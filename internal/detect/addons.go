package detect

import (
	"github.com/clearbuy/clearbuy-cli/internal/evidence"
	"github.com/clearbuy/clearbuy-cli/internal/model"
)

// PretickedAddons detects paid extras that are selected before the
// shopper makes any choice: checked checkboxes and pre-selected options
// whose nearby text matches the add-on vocabulary.
type PretickedAddons struct{}

var addonKeywords = []string{
	"warranty", "insurance", "protection", "extended", "add-on", "accessory",
}

func (PretickedAddons) Name() string { return "pre_ticked_addon" }

func (PretickedAddons) Detect(ev *evidence.View) (*model.Finding, error) {
	var hits []string

	for _, el := range ev.CheckedBoxes() {
		if _, ok := containsAny(el.Nearby, addonKeywords...); ok {
			hits = append(hits, el.Nearby)
		}
	}
	for _, el := range ev.PreselectedOptions() {
		if _, ok := containsAny(el.Text, addonKeywords...); ok {
			hits = append(hits, el.Text)
		}
	}

	if len(hits) == 0 {
		return nil, nil
	}

	confidence := model.ConfidenceMedium
	if len(hits) >= 2 {
		confidence = model.ConfidenceHigh
	}

	return &model.Finding{
		Type:        model.FindingPretickedAddon,
		Severity:    model.SeverityMedium,
		Confidence:  confidence,
		Explanation: "Paid add-ons are selected by default.",
		Evidence:    hits[0],
	}, nil
}
