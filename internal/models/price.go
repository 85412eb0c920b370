// Package models defines data structures for Catch-Collect
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSource identifies the marketplace a price observation came from
type PriceSource string

const (
	SourceMarketA PriceSource = "market_a"
	SourceMarketB PriceSource = "market_b"
)

// PriceObservation is one raw price row as delivered by the record store.
// Observations are immutable, arrive in arbitrary order, and duplicates for
// the same (item, locale) with differing batch ids or timestamps are normal.
type PriceObservation struct {
	ItemID     string          `json:"item_id"`
	Locale     string          `json:"locale"`
	Price      decimal.Decimal `json:"price"`
	Currency   string          `json:"currency"`
	RecordedAt time.Time       `json:"recorded_at,omitempty"`
	BatchID    string          `json:"batch_id,omitempty"` // opaque, slash-delimited numeric segments
	Source     PriceSource     `json:"source,omitempty"`
}

// ResolvedPrice is the single authoritative price derived for an item.
// Derived on every resolution request, never persisted. A resolution batch
// carries at most one ResolvedPrice per item.
type ResolvedPrice struct {
	ItemID     string          `json:"item_id"`
	Locale     string          `json:"locale"`
	Price      decimal.Decimal `json:"price"`
	Currency   string          `json:"currency"`
	ResolvedAt time.Time       `json:"resolved_at"`
}

// PriceRequest names an item to resolve plus the preferred locale.
// An empty locale accepts any locale group for the item.
type PriceRequest struct {
	ItemID string `json:"item_id"`
	Locale string `json:"locale,omitempty"`
}
