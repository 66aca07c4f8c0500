package price

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssess_HeavyDiscountFlagsInflation(t *testing.T) {
	e := NewEstimator(testAnalysisConfig())

	got := e.Assess(dec(t, "1000"), dec(t, "5000"), nil)

	require.NotNil(t, got.BenchmarkMRP)
	assert.Equal(t, "2200", got.BenchmarkMRP.String())
	require.NotNil(t, got.InflationFactor)
	assert.Equal(t, "2.27", got.InflationFactor.String())
	require.NotNil(t, got.InflationPercent)
	assert.Equal(t, "127", got.InflationPercent.String())
	assert.True(t, got.Flagged)
}

func TestAssess_ModerateDiscountNotFlagged(t *testing.T) {
	e := NewEstimator(testAnalysisConfig())

	got := e.Assess(dec(t, "1000"), dec(t, "1800"), nil)

	require.NotNil(t, got.BenchmarkMRP)
	assert.Equal(t, "1700", got.BenchmarkMRP.String())
	require.NotNil(t, got.InflationFactor)
	assert.Equal(t, "1.06", got.InflationFactor.String())
	assert.False(t, got.Flagged)
}

func TestAssess_SmallDiscountUsesListedMRP(t *testing.T) {
	e := NewEstimator(testAnalysisConfig())

	got := e.Assess(dec(t, "900"), dec(t, "1000"), nil)

	require.NotNil(t, got.BenchmarkMRP)
	assert.Equal(t, "1000", got.BenchmarkMRP.String())
	assert.Equal(t, "1", got.InflationFactor.String())
	assert.False(t, got.Flagged)
}

func TestAssess_ExternalBenchmarkRaisesFlag(t *testing.T) {
	e := NewEstimator(testAnalysisConfig())

	// A mild apparent discount keeps the heuristic benchmark at the
	// listed MRP, but the external benchmark exposes the inflation.
	got := e.Assess(dec(t, "1900"), dec(t, "2000"), dec(t, "1500"))

	assert.True(t, got.Flagged)
}

func TestAssess_MissingInputs(t *testing.T) {
	e := NewEstimator(testAnalysisConfig())

	tests := []struct {
		name    string
		selling *decimal.Decimal
		listed  *decimal.Decimal
	}{
		{"no selling price", nil, dec(t, "1000")},
		{"no mrp", dec(t, "500"), nil},
		{"zero mrp", dec(t, "500"), dec(t, "0")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Assess(tt.selling, tt.listed, nil)
			assert.Nil(t, got.BenchmarkMRP)
			assert.Nil(t, got.InflationFactor)
			assert.False(t, got.Flagged)
		})
	}
}
