// Package score aggregates findings into a weighted trust grade.
package score

import (
	"math"

	"github.com/clearbuy/clearbuy-cli/internal/config"
	"github.com/clearbuy/clearbuy-cli/internal/model"
)

// Aggregator combines findings into a raw score and letter grade. It is
// a pure function of the finding list: aggregating the same immutable
// list twice yields identical results.
type Aggregator struct {
	weights map[model.FindingType]float64
	sevMul  map[model.Severity]float64
}

// NewAggregator creates an Aggregator from config. Missing weight
// entries default to 1, missing severity multipliers to 1.0.
func NewAggregator(cfg config.ScoreConfig) *Aggregator {
	weights := make(map[model.FindingType]float64, len(cfg.Weights))
	for k, v := range cfg.Weights {
		weights[model.FindingType(k)] = v
	}
	sevMul := make(map[model.Severity]float64, len(cfg.SeverityMultipliers))
	for k, v := range cfg.SeverityMultipliers {
		sevMul[model.Severity(k)] = v
	}
	return &Aggregator{weights: weights, sevMul: sevMul}
}

// Assess computes the trust assessment. An empty finding list scores 0
// and grades A.
func (a *Aggregator) Assess(findings []model.Finding) model.TrustAssessment {
	total := 0.0
	for _, f := range findings {
		weight, ok := a.weights[f.Type]
		if !ok {
			weight = 1
		}
		mul, ok := a.sevMul[f.Severity]
		if !ok {
			mul = 1.0
		}
		total += weight * mul
	}
	total = math.Round(total*100) / 100

	grade, summary := gradeFor(total)
	return model.TrustAssessment{
		RawScore: total,
		Grade:    grade,
		Summary:  summary,
	}
}

func gradeFor(total float64) (model.Grade, string) {
	switch {
	case total == 0:
		return model.GradeA, "Low Risk"
	case total <= 2:
		return model.GradeB, "Moderate Risk"
	case total <= 4:
		return model.GradeC, "High Manipulation Detected"
	case total <= 6:
		return model.GradeD, "High Manipulation Detected"
	default:
		return model.GradeF, "Critical Manipulation"
	}
}
