package price

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearbuy/clearbuy-cli/internal/evidence"
	"github.com/clearbuy/clearbuy-cli/internal/model"
)

type fixedBenchmark struct {
	value decimal.Decimal
}

func (b fixedBenchmark) MRP(context.Context, string) (*decimal.Decimal, error) {
	return &b.value, nil
}

func dec(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return &d
}

func TestResolveMRP_StructuredData(t *testing.T) {
	markup := `<script type="application/ld+json">
{"@type":"Product","offers":{"price":"1599","priceSpecification":{"maxPrice":3490}}}
</script>`
	ev := evidence.New(markup, "example.com")

	res := testResolver(t).ResolveMRP(context.Background(), ev, "https://example.com/p", dec(t, "1599"))

	require.NotNil(t, res.Value)
	assert.Equal(t, "3490", res.Value.String())
	assert.Equal(t, model.MRPSourceStructuredData, res.Source)
	assert.Equal(t, model.ConfidenceHigh, res.Confidence)
}

func TestResolveMRP_LabeledText(t *testing.T) {
	ev := evidence.New(`<p>MRP: ₹3,499 (inclusive of all taxes)</p>`, "example.com")

	res := testResolver(t).ResolveMRP(context.Background(), ev, "https://example.com/p", dec(t, "1599"))

	require.NotNil(t, res.Value)
	assert.Equal(t, "3499", res.Value.String())
	assert.Equal(t, model.MRPSourceLabeledText, res.Source)
	assert.Equal(t, model.ConfidenceHigh, res.Confidence)
}

func TestResolveMRP_StrikethroughTakesMax(t *testing.T) {
	markup := `<span><del>₹2,999</del></span> <span><s>₹3,490</s></span>`
	ev := evidence.New(markup, "example.com")

	res := testResolver(t).ResolveMRP(context.Background(), ev, "https://example.com/p", dec(t, "1499"))

	require.NotNil(t, res.Value)
	assert.Equal(t, "3490", res.Value.String())
	assert.Equal(t, model.MRPSourceStrikethrough, res.Source)
	assert.Equal(t, model.ConfidenceMedium, res.Confidence)
}

func TestResolveMRP_DiscountInferencePercent(t *testing.T) {
	ev := evidence.New(`<p>Grab it now, save 40% on this item</p>`, "example.com")

	res := testResolver(t).ResolveMRP(context.Background(), ev, "https://example.com/p", dec(t, "600"))

	require.NotNil(t, res.Value)
	assert.Equal(t, "1000", res.Value.String())
	assert.Equal(t, model.MRPSourceInference, res.Source)
	assert.Equal(t, model.ConfidenceLow, res.Confidence)
}

func TestResolveMRP_DiscountInferenceAmount(t *testing.T) {
	ev := evidence.New(`<p>Deal of the day: save ₹500 instantly</p>`, "example.com")

	res := testResolver(t).ResolveMRP(context.Background(), ev, "https://example.com/p", dec(t, "999"))

	require.NotNil(t, res.Value)
	assert.Equal(t, "1499", res.Value.String())
	assert.Equal(t, model.MRPSourceInference, res.Source)
}

func TestResolveMRP_InferenceNeedsSellingPrice(t *testing.T) {
	ev := evidence.New(`<p>Save 40% today</p>`, "example.com")

	res := testResolver(t).ResolveMRP(context.Background(), ev, "https://example.com/p", nil)

	assert.Nil(t, res.Value)
	assert.Equal(t, model.MRPSourceNone, res.Source)
}

func TestResolveMRP_BenchmarkFallback(t *testing.T) {
	selectors, err := LoadSelectors("")
	require.NoError(t, err)
	r := NewResolver(testAnalysisConfig(), selectors, fixedBenchmark{value: decimal.NewFromInt(2799)})

	ev := evidence.New(`<p>A plain page with no pricing hints at all.</p>`, "example.com")
	res := r.ResolveMRP(context.Background(), ev, "https://example.com/p", nil)

	require.NotNil(t, res.Value)
	assert.Equal(t, "2799", res.Value.String())
	assert.Equal(t, model.MRPSourceBenchmark, res.Source)
	assert.Equal(t, model.ConfidenceLow, res.Confidence)
}

func TestResolveMRP_NoneWithMessage(t *testing.T) {
	ev := evidence.New(`<p>A plain page with no pricing hints at all.</p>`, "example.com")

	res := testResolver(t).ResolveMRP(context.Background(), ev, "https://example.com/p", nil)

	assert.Nil(t, res.Value)
	assert.Equal(t, model.MRPSourceNone, res.Source)
	assert.Equal(t, "MRP not provided on this product", res.Message)
}
