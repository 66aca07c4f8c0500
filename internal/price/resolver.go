// Package price resolves a trustworthy selling-price/MRP pair from the
// evidence view through tiered fallback strategies, and estimates how
// inflated the listed MRP is.
package price

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/clearbuy/clearbuy-cli/internal/config"
	"github.com/clearbuy/clearbuy-cli/internal/evidence"
	"github.com/clearbuy/clearbuy-cli/internal/model"
)

// Resolver runs the tiered price and MRP resolution pipeline. Each tier
// returns an explicit nil for "no value"; the first tier that yields an
// in-bounds figure wins.
type Resolver struct {
	minPrice     decimal.Decimal
	maxPrice     decimal.Decimal
	sanityCutoff decimal.Decimal
	selectors    SelectorTable
	benchmark    Benchmark
}

// NewResolver creates a Resolver from config and a selector table.
func NewResolver(cfg config.AnalysisConfig, selectors SelectorTable, benchmark Benchmark) *Resolver {
	return &Resolver{
		minPrice:     decimal.NewFromFloat(cfg.MinPrice),
		maxPrice:     decimal.NewFromFloat(cfg.MaxPrice),
		sanityCutoff: decimal.NewFromFloat(cfg.PriceSanityCutoff),
		selectors:    selectors,
		benchmark:    benchmark,
	}
}

type priceTier struct {
	tag     model.PriceTier
	resolve func(ev *evidence.View) *decimal.Decimal
}

// ResolvePrice resolves the selling price. A tier's candidate is
// rejected as suspect when it falls below the sanity cutoff of the
// page's apparent MRP, which guards against capturing an EMI amount or
// other small unrelated figure.
func (r *Resolver) ResolvePrice(ev *evidence.View) model.PriceSignal {
	mrpHint := r.mrpHint(ev)

	tiers := []priceTier{
		{model.PriceTierStructuredData, r.structuredPrice},
		{model.PriceTierSiteSelector, r.selectorPrice},
		{model.PriceTierGenericRegex, r.regexPrice},
	}

	for _, tier := range tiers {
		v := tier.resolve(ev)
		if v == nil {
			continue
		}
		if r.suspect(*v, mrpHint) {
			zap.L().Debug("price: tier candidate below sanity cutoff, trying next",
				zap.String("tier", string(tier.tag)),
				zap.String("candidate", v.String()),
			)
			continue
		}
		return model.PriceSignal{Value: v, Tier: tier.tag}
	}

	return model.PriceSignal{}
}

func (r *Resolver) suspect(price decimal.Decimal, mrpHint *decimal.Decimal) bool {
	return mrpHint != nil && price.LessThan(mrpHint.Mul(r.sanityCutoff))
}

func (r *Resolver) inBounds(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(r.minPrice) && d.LessThanOrEqual(r.maxPrice)
}

// structuredPrice returns the first in-bounds JSON-LD offer price.
func (r *Resolver) structuredPrice(ev *evidence.View) *decimal.Decimal {
	for _, offer := range ev.Offers {
		if offer.Price != nil && r.inBounds(*offer.Price) {
			return offer.Price
		}
	}
	return nil
}

// selectorPrice applies the domain-keyed selector table.
func (r *Resolver) selectorPrice(ev *evidence.View) *decimal.Decimal {
	if ev.Domain == "" {
		return nil
	}

	keys := make([]string, 0, len(r.selectors))
	for k := range r.selectors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if !strings.Contains(ev.Domain, key) {
			continue
		}
		for _, sel := range r.selectors[key] {
			var found *decimal.Decimal
			ev.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
				if v := parseCurrency(s.Text()); v != nil && r.inBounds(*v) {
					found = v
					return false
				}
				return true
			})
			if found != nil {
				return found
			}
		}
	}
	return nil
}

var currencyRe = regexp.MustCompile(`(?:₹|rs\.?\s?|inr\s?)\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)

// offerContextWords mark a currency match as an installment, cashback,
// or reference-price figure rather than the real selling price.
var offerContextWords = []string{
	"emi", "month", "cashback", "save", "mrp", "was ", "old price", "% off", "offer",
}

// regexPrice scans visible text for currency values, excluding matches
// in strikethrough/old-price or installment/offer contexts, and prefers
// the lowest in-bounds value: the selling price is typically the
// smallest figure shown.
func (r *Resolver) regexPrice(ev *evidence.View) *decimal.Decimal {
	text := ev.PlainText
	var lowest *decimal.Decimal

	for _, loc := range currencyRe.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[0], loc[1]
		ctxStart := start - 40
		if ctxStart < 0 {
			ctxStart = 0
		}
		ctxEnd := end + 40
		if ctxEnd > len(text) {
			ctxEnd = len(text)
		}
		window := text[ctxStart:ctxEnd]
		if _, skip := containsAnyWord(window, offerContextWords); skip {
			continue
		}

		v := parseCurrency(text[loc[2]:loc[3]])
		if v == nil || !r.inBounds(*v) {
			continue
		}
		if lowest == nil || v.LessThan(*lowest) {
			lowest = v
		}
	}
	return lowest
}

var numberRe = regexp.MustCompile(`[0-9][0-9,]*(?:\.[0-9]+)?`)

// parseCurrency extracts the first numeric value from currency text.
func parseCurrency(text string) *decimal.Decimal {
	m := numberRe.FindString(text)
	if m == "" {
		return nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return nil
	}
	return &d
}

func containsAnyWord(s string, words []string) (string, bool) {
	for _, w := range words {
		if strings.Contains(s, w) {
			return w, true
		}
	}
	return "", false
}
