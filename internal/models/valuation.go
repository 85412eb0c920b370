package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValuationSummary is the roll-up of a holdings list against resolved prices.
// Fully derived, recomputed on demand, no independent lifecycle.
type ValuationSummary struct {
	TotalManualValue    decimal.Decimal `json:"total_manual_value"`
	TotalAutomaticValue decimal.Decimal `json:"total_automatic_value"`

	TotalDistinctItems      int `json:"total_distinct_items"`
	ItemsWithManualPrice    int `json:"items_with_manual_price"`
	ItemsWithAutomaticPrice int `json:"items_with_automatic_price"`
	ItemsWithBoth           int `json:"items_with_both"`

	// Simple means over the respective contributing sets; zero when empty.
	ManualValuePerItem    decimal.Decimal `json:"manual_value_per_item"`
	AutomaticValuePerItem decimal.Decimal `json:"automatic_value_per_item"`

	Currency string `json:"currency,omitempty"`
}

// SeriesProvenance signals whether a value series was reconstructed from
// real dated observations or synthesized. Callers use it to distinguish an
// approximation from a record.
type SeriesProvenance string

const (
	ProvenanceReal      SeriesProvenance = "real"
	ProvenanceSynthetic SeriesProvenance = "synthetic"
)

// ValuePoint is one point of a value-over-time series.
type ValuePoint struct {
	Timestamp   time.Time       `json:"timestamp"`
	ManualValue decimal.Decimal `json:"manual_value"`
	MarketValue decimal.Decimal `json:"market_value"`
	Currency    string          `json:"currency,omitempty"`
}

// ValueSeries is an ordered value-over-time sequence with its provenance.
// Empty Points means neither reconstruction path had usable data; callers
// must render an explicit no-data state rather than a zero-flat chart.
type ValueSeries struct {
	Points     []ValuePoint     `json:"points"`
	Provenance SeriesProvenance `json:"provenance"`
}

// TimeRange is the closed set of symbolic range selectors accepted by the
// valuation series API.
type TimeRange string

const (
	Range7d   TimeRange = "7d"
	Range30d  TimeRange = "30d"
	Range60d  TimeRange = "60d"
	Range90d  TimeRange = "90d"
	Range180d TimeRange = "180d"
	Range365d TimeRange = "365d"
	Range730d TimeRange = "730d"
	RangeAll  TimeRange = "all"
)

// Valid reports whether r is a known range selector.
func (r TimeRange) Valid() bool {
	switch r {
	case Range7d, Range30d, Range60d, Range90d, Range180d, Range365d, Range730d, RangeAll:
		return true
	}
	return false
}

// TimeWindow is a concrete day count and cutoff derived from a TimeRange.
// Days 0 means unbounded (cutoff at the Unix epoch).
type TimeWindow struct {
	Days   int       `json:"days"`
	Cutoff time.Time `json:"cutoff"`
}
