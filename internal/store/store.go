// Package store persists price history and analysis jobs.
package store

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/clearbuy/clearbuy-cli/internal/config"
	"github.com/clearbuy/clearbuy-cli/internal/model"
)

// Store is the price-history and job persistence contract. When two
// analyses of the same URL write concurrently, each append is
// independent; ordering is the store's concern, not the pipeline's.
type Store interface {
	Migrate(ctx context.Context) error
	Close() error

	AppendPrice(ctx context.Context, url string, price decimal.Decimal, mrp *decimal.Decimal, ts time.Time) error
	// History returns the most recent observations, in chronological order.
	History(ctx context.Context, url string, limit int) ([]model.PricePoint, error)

	CreateJob(ctx context.Context, url string) (*model.Job, error)
	UpdateJobStatus(ctx context.Context, jobID string, status model.JobStatus) error
	CompleteJob(ctx context.Context, jobID string, report *model.AnalysisReport) error
	FailJob(ctx context.Context, jobID string, message string) error
	GetJob(ctx context.Context, jobID string) (*model.Job, error)
}

// ProductID returns the stable hashed id for a product URL.
func ProductID(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
