package price

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
)

// ErrBenchmarkUnavailable is returned when no cross-site price source
// can serve a lookup. The pipeline tolerates it and falls back to
// discount heuristics.
var ErrBenchmarkUnavailable = eris.New("price: benchmark source unavailable")

// Benchmark looks up a reference MRP for a product from an external
// catalog or comparison source.
type Benchmark interface {
	MRP(ctx context.Context, pageURL string) (*decimal.Decimal, error)
}

// UnavailableBenchmark is the default Benchmark: cross-site live
// benchmarking is treated as an unavailable data source.
type UnavailableBenchmark struct{}

func (UnavailableBenchmark) MRP(context.Context, string) (*decimal.Decimal, error) {
	return nil, ErrBenchmarkUnavailable
}
