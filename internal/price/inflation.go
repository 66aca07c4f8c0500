package price

import (
	"github.com/shopspring/decimal"

	"github.com/clearbuy/clearbuy-cli/internal/config"
	"github.com/clearbuy/clearbuy-cli/internal/model"
)

// Estimator derives a realistic benchmark MRP from the selling price
// and discount heuristics, and computes an inflation factor for the
// listed MRP.
type Estimator struct {
	heavyDiscount       decimal.Decimal
	heavyMultiplier     decimal.Decimal
	moderateDiscount    decimal.Decimal
	moderateMultiplier  decimal.Decimal
	flagFactor          decimal.Decimal
	implausibleDiscount decimal.Decimal
	benchmarkFlagFactor decimal.Decimal
}

// NewEstimator creates an Estimator from config.
func NewEstimator(cfg config.AnalysisConfig) *Estimator {
	return &Estimator{
		heavyDiscount:       decimal.NewFromFloat(cfg.HeavyDiscount),
		heavyMultiplier:     decimal.NewFromFloat(cfg.HeavyMultiplier),
		moderateDiscount:    decimal.NewFromFloat(cfg.ModerateDiscount),
		moderateMultiplier:  decimal.NewFromFloat(cfg.ModerateMultiplier),
		flagFactor:          decimal.NewFromFloat(cfg.InflationFlagFactor),
		implausibleDiscount: decimal.NewFromFloat(cfg.ImplausibleDiscount),
		benchmarkFlagFactor: decimal.NewFromFloat(cfg.BenchmarkFlagFactor),
	}
}

// Assess computes the inflation assessment for a resolved price/MRP
// pair. external is an optional cross-checked benchmark MRP; when
// present, an inflation factor against it independently raises the
// flag. Missing inputs yield an empty unflagged assessment.
func (e *Estimator) Assess(sellingPrice, listedMRP, external *decimal.Decimal) model.InflationAssessment {
	if sellingPrice == nil || listedMRP == nil || !listedMRP.IsPositive() {
		return model.InflationAssessment{}
	}

	apparent := decimal.NewFromInt(1).Sub(sellingPrice.Div(*listedMRP))

	var benchmark decimal.Decimal
	switch {
	case apparent.GreaterThan(e.heavyDiscount):
		benchmark = sellingPrice.Mul(e.heavyMultiplier).Round(0)
	case apparent.GreaterThan(e.moderateDiscount):
		benchmark = sellingPrice.Mul(e.moderateMultiplier).Round(0)
	default:
		benchmark = *listedMRP
	}

	factor := listedMRP.Div(benchmark).Round(2)
	percent := factor.Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100)).Round(0)

	flagged := factor.GreaterThan(e.flagFactor) ||
		apparent.GreaterThan(e.implausibleDiscount)

	if external != nil && external.IsPositive() {
		extFactor := listedMRP.Div(*external)
		if extFactor.GreaterThan(e.benchmarkFlagFactor) {
			flagged = true
		}
	}

	return model.InflationAssessment{
		BenchmarkMRP:     &benchmark,
		InflationFactor:  &factor,
		InflationPercent: &percent,
		Flagged:          flagged,
	}
}
