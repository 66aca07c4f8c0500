package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/clearbuy/clearbuy-cli/internal/analyzer"
	"github.com/clearbuy/clearbuy-cli/internal/fetch"
	"github.com/clearbuy/clearbuy-cli/internal/store"
)

// analysisEnv holds the initialized store and analyzer shared by the
// analyze/batch/serve commands.
type analysisEnv struct {
	Store    store.Store
	Analyzer *analyzer.Analyzer
}

func (e *analysisEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv opens and migrates the store, then builds the analyzer.
// Callers should defer env.Close().
func initEnv(ctx context.Context) (*analysisEnv, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	a, err := analyzer.New(cfg, fetch.NewHTTPFetcher(cfg.Fetch), st)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return &analysisEnv{Store: st, Analyzer: a}, nil
}
