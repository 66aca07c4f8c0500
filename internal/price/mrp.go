package price

import (
	"context"
	"regexp"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/clearbuy/clearbuy-cli/internal/evidence"
	"github.com/clearbuy/clearbuy-cli/internal/model"
)

var (
	labeledMRPRe = regexp.MustCompile(`(?:mrp|list price|regular price)[^0-9₹]{0,20}₹?\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)
	savePctRe    = regexp.MustCompile(`save\s+([0-9]{1,2})\s*%`)
	saveAmtRe    = regexp.MustCompile(`save\s+₹\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)
)

// ResolveMRP resolves the reference price through the MRP tier order.
// Strikethrough candidates resolve to the maximum in-bounds value: an
// advertised reference price is never smaller than a discount scheme
// implies.
func (r *Resolver) ResolveMRP(ctx context.Context, ev *evidence.View, pageURL string, sellingPrice *decimal.Decimal) model.MRPResolution {
	if v := r.structuredMRP(ev); v != nil {
		return model.MRPResolution{Value: v, Source: model.MRPSourceStructuredData, Confidence: model.ConfidenceHigh}
	}
	if v := r.labeledMRP(ev); v != nil {
		return model.MRPResolution{Value: v, Source: model.MRPSourceLabeledText, Confidence: model.ConfidenceHigh}
	}
	if v := r.strikethroughMRP(ev); v != nil {
		return model.MRPResolution{Value: v, Source: model.MRPSourceStrikethrough, Confidence: model.ConfidenceMedium}
	}
	if v := r.inferredMRP(ev, sellingPrice); v != nil {
		return model.MRPResolution{Value: v, Source: model.MRPSourceInference, Confidence: model.ConfidenceLow}
	}
	if v := r.benchmarkMRP(ctx, pageURL); v != nil {
		return model.MRPResolution{Value: v, Source: model.MRPSourceBenchmark, Confidence: model.ConfidenceLow}
	}

	return model.MRPResolution{
		Source:     model.MRPSourceNone,
		Confidence: model.ConfidenceLow,
		Message:    "MRP not provided on this product",
	}
}

// mrpHint resolves an MRP from page evidence only, without discount
// inference, for use in the selling-price sanity check. Inference is
// excluded because it depends on the selling price being validated.
func (r *Resolver) mrpHint(ev *evidence.View) *decimal.Decimal {
	if v := r.structuredMRP(ev); v != nil {
		return v
	}
	if v := r.labeledMRP(ev); v != nil {
		return v
	}
	return r.strikethroughMRP(ev)
}

func (r *Resolver) structuredMRP(ev *evidence.View) *decimal.Decimal {
	for _, offer := range ev.Offers {
		if offer.MaxPrice != nil && r.inBounds(*offer.MaxPrice) {
			return offer.MaxPrice
		}
	}
	return nil
}

func (r *Resolver) labeledMRP(ev *evidence.View) *decimal.Decimal {
	m := labeledMRPRe.FindStringSubmatch(ev.PlainText)
	if m == nil {
		return nil
	}
	v := parseCurrency(m[1])
	if v == nil || !r.inBounds(*v) {
		return nil
	}
	return v
}

func (r *Resolver) strikethroughMRP(ev *evidence.View) *decimal.Decimal {
	var max *decimal.Decimal
	for _, el := range ev.Strikethrough() {
		v := parseCurrency(el.Text)
		if v == nil || !r.inBounds(*v) {
			continue
		}
		if max == nil || v.GreaterThan(*max) {
			max = v
		}
	}
	return max
}

// inferredMRP derives an MRP from an explicit discount statement
// combined with the resolved selling price.
func (r *Resolver) inferredMRP(ev *evidence.View, sellingPrice *decimal.Decimal) *decimal.Decimal {
	if sellingPrice == nil {
		return nil
	}

	if m := savePctRe.FindStringSubmatch(ev.PlainText); m != nil {
		pct, err := decimal.NewFromString(m[1])
		if err == nil && pct.IsPositive() && pct.LessThan(decimal.NewFromInt(95)) {
			frac := decimal.NewFromInt(1).Sub(pct.Div(decimal.NewFromInt(100)))
			v := sellingPrice.Div(frac).Round(0)
			if r.inBounds(v) {
				return &v
			}
		}
	}

	if m := saveAmtRe.FindStringSubmatch(ev.PlainText); m != nil {
		amt := parseCurrency(m[1])
		if amt != nil {
			v := sellingPrice.Add(*amt)
			if r.inBounds(v) {
				return &v
			}
		}
	}

	return nil
}

func (r *Resolver) benchmarkMRP(ctx context.Context, pageURL string) *decimal.Decimal {
	if r.benchmark == nil || pageURL == "" {
		return nil
	}
	v, err := r.benchmark.MRP(ctx, pageURL)
	if err != nil {
		if !eris.Is(err, ErrBenchmarkUnavailable) {
			zap.L().Debug("price: benchmark lookup failed", zap.Error(err))
		}
		return nil
	}
	if v == nil || !r.inBounds(*v) {
		return nil
	}
	return v
}
