package detect

import (
	"regexp"
	"strings"

	"github.com/clearbuy/clearbuy-cli/internal/evidence"
	"github.com/clearbuy/clearbuy-cli/internal/model"
)

// Scarcity detects inventory-urgency claims. It requires a
// quantity-bearing pattern: generic urgency words alone ("only",
// "hurry", "limited") never trigger, so "only ₹499" or "limited
// edition" phrasing is not a false positive.
type Scarcity struct{}

var scarcityCountRes = []*regexp.Regexp{
	regexp.MustCompile(`only\s+(\d+)\s+(?:left|remaining|available)`),
	regexp.MustCompile(`(\d+)\s+(?:left|remaining)\s+in\s+stock`),
	regexp.MustCompile(`only\s+(\d+)\s+in\s+stock`),
}

var scarcityPhrases = []string{
	"only a few left", "few left", "low stock", "limited stock",
	"stock running out", "almost gone", "last few items",
}

func (Scarcity) Name() string { return "scarcity" }

func (Scarcity) Detect(ev *evidence.View) (*model.Finding, error) {
	text := ev.PlainText

	for _, re := range scarcityCountRes {
		if m := re.FindString(text); m != "" {
			return &model.Finding{
				Type:        model.FindingScarcity,
				Severity:    model.SeverityHigh,
				Confidence:  model.ConfidenceHigh,
				Explanation: "Scarcity messaging detected with inventory claims that may reset on refresh.",
				Evidence:    strings.TrimSpace(m),
			}, nil
		}
	}

	if phrase, ok := containsAny(text, scarcityPhrases...); ok {
		return &model.Finding{
			Type:        model.FindingScarcity,
			Severity:    model.SeverityMedium,
			Confidence:  model.ConfidenceMedium,
			Explanation: "Inventory-urgency phrasing without a verifiable count.",
			Evidence:    phrase,
		}, nil
	}

	return nil, nil
}
