package analyzer

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/clearbuy/clearbuy-cli/internal/evidence"
	"github.com/clearbuy/clearbuy-cli/internal/model"
)

// MRPAuthenticity runs only the pricing half of the pipeline: resolve the
// selling price and MRP, then judge whether the listed MRP looks inflated.
// Caller-supplied price or listedMRP override whatever the page yields;
// either may be nil, in which case the page is the source of truth.
func (a *Analyzer) MRPAuthenticity(ctx context.Context, url string, price, listedMRP *decimal.Decimal) (*model.MRPAuthenticityReport, error) {
	page, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	ev := evidence.New(page.Markup, page.FinalDomain)
	sig := a.resolver.ResolvePrice(ev)
	if price != nil {
		sig = model.PriceSignal{Value: price, Tier: model.PriceTierStructuredData}
	}
	mrp := a.resolver.ResolveMRP(ctx, ev, url, sig.Value)
	if listedMRP != nil {
		mrp = model.MRPResolution{
			Value:      listedMRP,
			Source:     model.MRPSourceLabeledText,
			Confidence: model.ConfidenceHigh,
		}
	}
	inflation := a.estimator.Assess(sig.Value, mrp.Value, nil)

	report := &model.MRPAuthenticityReport{
		URL:       url,
		Price:     sig.Value,
		MRP:       mrp,
		Inflation: inflation,
	}

	switch {
	case mrp.Value == nil:
		report.Message = mrp.Message
		if report.Message == "" {
			report.Message = "MRP not provided on this product"
		}
	case inflation.Flagged:
		report.Message = "Listed MRP appears inflated; the advertised discount is likely exaggerated."
	default:
		report.Message = "Listed MRP is consistent with the selling price."
	}
	return report, nil
}
