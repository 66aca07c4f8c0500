// Package analyzer orchestrates the full product-page analysis pipeline:
// fetch, evidence extraction, pattern detection, price and MRP resolution,
// timer verification, and trust scoring.
package analyzer

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/clearbuy/clearbuy-cli/internal/config"
	"github.com/clearbuy/clearbuy-cli/internal/detect"
	"github.com/clearbuy/clearbuy-cli/internal/evidence"
	"github.com/clearbuy/clearbuy-cli/internal/fetch"
	"github.com/clearbuy/clearbuy-cli/internal/model"
	"github.com/clearbuy/clearbuy-cli/internal/price"
	"github.com/clearbuy/clearbuy-cli/internal/score"
	"github.com/clearbuy/clearbuy-cli/internal/store"
	"github.com/clearbuy/clearbuy-cli/internal/timer"
)

// Analyzer runs the analysis pipeline against product pages.
type Analyzer struct {
	fetcher   fetch.Fetcher
	store     store.Store
	resolver  *price.Resolver
	estimator *price.Estimator
	checker   *timer.Checker
	scorer    *score.Aggregator
	detectors []detect.Detector

	historyWindow int
	now           func() time.Time
}

// New wires an Analyzer from configuration. The store may be nil, in which
// case price history recording and lookup are skipped.
func New(cfg *config.Config, fetcher fetch.Fetcher, st store.Store) (*Analyzer, error) {
	selectors, err := price.LoadSelectors(cfg.Analysis.SelectorsPath)
	if err != nil {
		return nil, eris.Wrap(err, "analyzer: load selectors")
	}

	return &Analyzer{
		fetcher:       fetcher,
		store:         st,
		resolver:      price.NewResolver(cfg.Analysis, selectors, price.UnavailableBenchmark{}),
		estimator:     price.NewEstimator(cfg.Analysis),
		checker:       timer.NewChecker(fetcher, cfg.Timer),
		scorer:        score.NewAggregator(cfg.Score),
		detectors:     detect.Registry(),
		historyWindow: cfg.Analysis.HistoryWindow,
		now:           time.Now,
	}, nil
}

// WithNow overrides the clock, for tests.
func (a *Analyzer) WithNow(fn func() time.Time) *Analyzer {
	a.now = fn
	return a
}

// Analyze fetches one product page and produces a full report. A fetch
// failure is fatal: no partial report is returned. Every stage after the
// fetch degrades independently.
func (a *Analyzer) Analyze(ctx context.Context, url string) (*model.AnalysisReport, error) {
	page, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	ev := evidence.New(page.Markup, page.FinalDomain)
	findings := detect.RunAll(a.detectors, ev)

	sig := a.resolver.ResolvePrice(ev)
	mrp := a.resolver.ResolveMRP(ctx, ev, url, sig.Value)

	verdict := a.checker.Check(ctx, url, ev)
	var verdictOut *model.TimerVerdict
	if verdict.Present {
		verdictOut = &verdict
		if verdict.Suspicious() {
			findings = append(findings, model.Finding{
				Type:        model.FindingFakeTimer,
				Severity:    model.SeverityHigh,
				Confidence:  verdict.Confidence,
				Explanation: "Countdown timer behaves suspiciously: it resets on refresh or is driven purely by client-side script.",
			})
		}
	}

	inflation := a.estimator.Assess(sig.Value, mrp.Value, nil)
	if inflation.Flagged {
		findings = append(findings, model.Finding{
			Type:        model.FindingMRPInflation,
			Severity:    model.SeverityMedium,
			Confidence:  mrp.Confidence,
			Explanation: "Listed MRP appears inflated relative to a realistic benchmark, making the discount look larger than it is.",
		})
	}

	trust := a.scorer.Assess(findings)

	report := &model.AnalysisReport{
		URL:         url,
		Domain:      page.FinalDomain,
		Findings:    findings,
		PriceSignal: sig,
		MRP:         mrp,
		Inflation:   inflation,
		Timer:       verdictOut,
		Trust:       trust,
		AnalyzedAt:  a.now().UTC(),
	}

	a.recordHistory(ctx, url, report)

	zap.L().Info("analysis complete",
		zap.String("url", url),
		zap.Int("findings", len(findings)),
		zap.String("grade", string(trust.Grade)))
	return report, nil
}

// recordHistory appends the observed price and attaches the recent window
// to the report. Persistence failures degrade the report, never fail it.
func (a *Analyzer) recordHistory(ctx context.Context, url string, report *model.AnalysisReport) {
	if a.store == nil {
		return
	}

	if report.PriceSignal.Value != nil {
		if err := a.store.AppendPrice(ctx, url, *report.PriceSignal.Value, report.MRP.Value, a.now().UTC()); err != nil {
			zap.L().Warn("failed to record price observation", zap.String("url", url), zap.Error(err))
		}
	}

	history, err := a.store.History(ctx, url, a.historyWindow)
	if err != nil {
		zap.L().Warn("failed to load price history", zap.String("url", url), zap.Error(err))
		return
	}
	report.PriceHistory = history
}

// PriceHistory returns the recent observation window for a product URL.
func (a *Analyzer) PriceHistory(ctx context.Context, url string, limit int) ([]model.PricePoint, error) {
	if a.store == nil {
		return nil, eris.New("analyzer: no store configured")
	}
	if limit <= 0 || limit > a.historyWindow {
		limit = a.historyWindow
	}
	return a.store.History(ctx, url, limit)
}
