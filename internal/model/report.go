// Package model defines the report types shared across the analysis pipeline.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Severity ranks how harmful a finding is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Confidence ranks how reliable a finding or resolved value is.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// FindingType identifies a detected dark pattern.
type FindingType string

const (
	FindingScarcity       FindingType = "scarcity"
	FindingDripPricing    FindingType = "drip_pricing"
	FindingPretickedAddon FindingType = "pre_ticked_addon"
	FindingConfirmShaming FindingType = "confirm_shaming"
	FindingFakeTimer      FindingType = "fake_timer"
	FindingMRPInflation   FindingType = "mrp_inflation"
)

// Finding is one detected dark pattern. Immutable once produced.
type Finding struct {
	Type        FindingType `json:"type"`
	Severity    Severity    `json:"severity"`
	Confidence  Confidence  `json:"confidence"`
	Explanation string      `json:"explanation"`
	Evidence    string      `json:"evidence,omitempty"`
}

// PriceTier tags which resolution strategy produced a selling price.
type PriceTier string

const (
	PriceTierStructuredData PriceTier = "structured_data"
	PriceTierSiteSelector   PriceTier = "site_specific_selector"
	PriceTierGenericRegex   PriceTier = "generic_regex"
)

// PriceSignal is the resolved selling price. Value is nil when no tier
// produced an in-bounds figure.
type PriceSignal struct {
	Value *decimal.Decimal `json:"value"`
	Tier  PriceTier        `json:"tier,omitempty"`
}

// MRPSource tags which resolution strategy produced the reference price.
// Confidence is monotonic in this order: sources listed earlier are never
// less reliable than sources listed later.
type MRPSource string

const (
	MRPSourceStructuredData MRPSource = "structured_data"
	MRPSourceLabeledText    MRPSource = "labeled_text"
	MRPSourceStrikethrough  MRPSource = "strikethrough_markup"
	MRPSourceInference      MRPSource = "discount_inference"
	MRPSourceBenchmark      MRPSource = "cross_site_benchmark"
	MRPSourceNone           MRPSource = "none"
)

// MRPResolution is the resolved reference (list) price.
type MRPResolution struct {
	Value      *decimal.Decimal `json:"value"`
	Source     MRPSource        `json:"source"`
	Confidence Confidence       `json:"confidence"`
	Message    string           `json:"message,omitempty"`
}

// InflationAssessment reports how far the listed MRP sits above a
// realistic benchmark.
type InflationAssessment struct {
	BenchmarkMRP     *decimal.Decimal `json:"benchmark_mrp"`
	InflationFactor  *decimal.Decimal `json:"inflation_factor"`
	InflationPercent *decimal.Decimal `json:"inflation_percent"`
	Flagged          bool             `json:"flagged"`
}

// TimerVerdict is the outcome of the two-sample countdown check.
// Present=false means no countdown was seen and all flags are false.
type TimerVerdict struct {
	Present         bool       `json:"present"`
	ResetsOnRefresh bool       `json:"resets_on_refresh"`
	ClientSideOnly  bool       `json:"client_side_only"`
	MissingTerms    bool       `json:"missing_terms"`
	Confidence      Confidence `json:"confidence"`
}

// Suspicious reports whether the timer itself misbehaves. MissingTerms
// raises confidence but never asserts fakeness on its own.
func (v TimerVerdict) Suspicious() bool {
	return v.ResetsOnRefresh || v.ClientSideOnly
}

// Grade is the A-F trust grade.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// TrustAssessment is the aggregate manipulation score for a page.
type TrustAssessment struct {
	RawScore float64 `json:"raw_score"`
	Grade    Grade   `json:"grade"`
	Summary  string  `json:"summary"`
}

// Offer is one structured-data price entry extracted from the page.
type Offer struct {
	Price    *decimal.Decimal `json:"price"`
	MaxPrice *decimal.Decimal `json:"max_price,omitempty"`
}

// PricePoint is one observed price for a product URL.
type PricePoint struct {
	Price     decimal.Decimal  `json:"price"`
	MRP       *decimal.Decimal `json:"mrp,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// AnalysisReport is the full result of analyzing one product page.
type AnalysisReport struct {
	URL          string              `json:"url"`
	Domain       string              `json:"domain"`
	Findings     []Finding           `json:"findings"`
	PriceSignal  PriceSignal         `json:"price_signal"`
	MRP          MRPResolution       `json:"mrp_resolution"`
	Inflation    InflationAssessment `json:"inflation_assessment"`
	Timer        *TimerVerdict       `json:"timer_verdict,omitempty"`
	Trust        TrustAssessment     `json:"trust_assessment"`
	PriceHistory []PricePoint        `json:"price_history"`
	AnalyzedAt   time.Time           `json:"analyzed_at"`
}

// MRPAuthenticityReport is the standalone MRP check result.
type MRPAuthenticityReport struct {
	URL       string              `json:"url"`
	Price     *decimal.Decimal    `json:"price"`
	MRP       MRPResolution       `json:"mrp_resolution"`
	Inflation InflationAssessment `json:"inflation_assessment"`
	Message   string              `json:"message"`
}

// JobStatus tracks an analysis job's lifecycle.
type JobStatus string

const (
	JobQueued  JobStatus = "queued"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// Job is one persisted analysis request.
type Job struct {
	ID         string          `json:"id"`
	URL        string          `json:"url"`
	Status     JobStatus       `json:"status"`
	Error      string          `json:"error,omitempty"`
	Result     *AnalysisReport `json:"result,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}
