package detect

import (
	"regexp"

	"github.com/clearbuy/clearbuy-cli/internal/evidence"
	"github.com/clearbuy/clearbuy-cli/internal/model"
)

// DripPricing detects extra charges revealed late in the purchase flow:
// fee vocabulary in visible text, "₹X + ₹Y" price concatenation, or fee
// text tucked into fine print.
type DripPricing struct{}

var feeKeywords = []string{
	"delivery fee", "delivery charge", "shipping fee",
	"convenience fee", "platform fee",
	"packaging fee", "handling fee", "processing fee",
	"service charge", "taxes extra", "gst extra",
	"additional charges", "extra charges", "hidden charges",
}

var plusPriceRe = regexp.MustCompile(`₹\s?\d[\d,]*\s?\+\s?₹\s?\d[\d,]*`)

func (DripPricing) Name() string { return "drip_pricing" }

func (DripPricing) Detect(ev *evidence.View) (*model.Finding, error) {
	// Fee text hidden in fine print gets the highest confidence.
	for _, el := range ev.SmallPrint() {
		if kw, ok := containsAny(el.Text, feeKeywords...); ok {
			return &model.Finding{
				Type:        model.FindingDripPricing,
				Severity:    model.SeverityMedium,
				Confidence:  model.ConfidenceHigh,
				Explanation: "Fees mentioned in small print or hidden sections, revealed only at checkout.",
				Evidence:    kw,
			}, nil
		}
	}

	if kw, ok := containsAny(ev.PlainText, feeKeywords...); ok {
		return &model.Finding{
			Type:        model.FindingDripPricing,
			Severity:    model.SeverityMedium,
			Confidence:  model.ConfidenceMedium,
			Explanation: "Extra charges appear in addition to the displayed price.",
			Evidence:    kw,
		}, nil
	}

	if m := plusPriceRe.FindString(ev.RawMarkup); m != "" {
		return &model.Finding{
			Type:        model.FindingDripPricing,
			Severity:    model.SeverityMedium,
			Confidence:  model.ConfidenceMedium,
			Explanation: "Price is shown as a sum of components rather than a single total.",
			Evidence:    m,
		}, nil
	}

	return nil, nil
}
