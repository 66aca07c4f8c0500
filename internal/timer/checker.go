package timer

import (
	"context"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/clearbuy/clearbuy-cli/internal/config"
	"github.com/clearbuy/clearbuy-cli/internal/evidence"
	"github.com/clearbuy/clearbuy-cli/internal/fetch"
	"github.com/clearbuy/clearbuy-cli/internal/model"
)

var (
	scriptTimerRe = regexp.MustCompile(`setInterval|startTimer|timer_js|countdown`)
	serverTimeRe  = regexp.MustCompile(`expires_at|expiry_time|server_time|data-expir|/expiry`)
	termsRe       = regexp.MustCompile(`valid|until|expiry|terms|conditions|t&c`)
)

// Checker runs the two-sample countdown authenticity protocol. The wait
// between samples is a deliberate synchronous delay: timer authenticity
// is only observable across real elapsed time. Wait and sleep are
// injectable so tests can use synthetic timer values.
type Checker struct {
	fetcher  fetch.Fetcher
	wait     time.Duration
	maxDrift int
	sleep    func(time.Duration)
}

// NewChecker creates a Checker. A nil fetcher disables the refresh
// comparison; the static flags are still evaluated.
func NewChecker(fetcher fetch.Fetcher, cfg config.TimerConfig) *Checker {
	wait := time.Duration(cfg.WaitSecs) * time.Second
	if wait <= 0 {
		wait = 2 * time.Second
	}
	maxDrift := cfg.MaxDriftSecs
	if maxDrift <= 0 {
		maxDrift = 10
	}
	return &Checker{
		fetcher:  fetcher,
		wait:     wait,
		maxDrift: maxDrift,
		sleep:    time.Sleep,
	}
}

// WithSleep replaces the sleep function for testing.
func (c *Checker) WithSleep(fn func(time.Duration)) *Checker {
	c.sleep = fn
	return c
}

// Check judges countdown authenticity for the page behind url.
// Present=false short-circuits the whole check with all flags false.
// Fetch or extraction failures during the two-sample comparison are
// swallowed: the comparison is best-effort and never fatal.
func (c *Checker) Check(ctx context.Context, url string, ev *evidence.View) model.TimerVerdict {
	if !ev.CountdownLike() {
		return model.TimerVerdict{Present: false, Confidence: model.ConfidenceLow}
	}

	v := model.TimerVerdict{Present: true}

	if scriptTimerRe.MatchString(ev.RawMarkup) && !serverTimeRe.MatchString(ev.RawMarkup) {
		v.ClientSideOnly = true
	}
	if !termsRe.MatchString(ev.PlainText) {
		v.MissingTerms = true
	}
	if c.fetcher != nil {
		v.ResetsOnRefresh = c.refreshSuspicious(ctx, url)
	}

	switch flags := countFlags(v); {
	case flags == 0:
		v.Confidence = model.ConfidenceLow
	case flags == 1:
		v.Confidence = model.ConfidenceMedium
	default:
		v.Confidence = model.ConfidenceHigh
	}
	return v
}

// refreshSuspicious samples the countdown twice, a fixed wait apart.
// A real countdown can only decrease, by roughly the elapsed wait:
// an increase means it reset, a jump far beyond the wait or no change
// at all are both physically implausible.
func (c *Checker) refreshSuspicious(ctx context.Context, url string) bool {
	t1, ok := c.sample(ctx, url)
	if !ok {
		return false
	}

	c.sleep(c.wait)

	t2, ok := c.sample(ctx, url)
	if !ok {
		return false
	}

	if t2 > t1 {
		return true
	}
	if t1-t2 > c.maxDrift {
		return true
	}
	if t1 == t2 {
		return true
	}
	return false
}

func (c *Checker) sample(ctx context.Context, url string) (int, bool) {
	page, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		zap.L().Debug("timer: sample fetch failed", zap.String("url", url), zap.Error(err))
		return 0, false
	}
	return ExtractSeconds(page.Markup)
}

func countFlags(v model.TimerVerdict) int {
	n := 0
	for _, b := range []bool{v.ResetsOnRefresh, v.ClientSideOnly, v.MissingTerms} {
		if b {
			n++
		}
	}
	return n
}
