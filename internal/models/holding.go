package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// HoldingList distinguishes the two user-owned holdings lists
type HoldingList string

const (
	ListCollection HoldingList = "collection"
	ListWishlist   HoldingList = "wishlist"
)

// Valid reports whether l is a known holdings list kind.
func (l HoldingList) Valid() bool {
	return l == ListCollection || l == ListWishlist
}

// HoldingItem is one collection or wishlist entry owned by a user.
// Created on explicit add, deleted on explicit remove; the pricing engine
// treats holdings as read-only input and never mutates them.
type HoldingItem struct {
	ID     string      `json:"id"`
	UserID string      `json:"user_id"`
	ItemID string      `json:"item_id"`
	Locale string      `json:"locale,omitempty"`
	List   HoldingList `json:"list"`

	// ManualPrice is the user-declared value. Nil means the user never set
	// one; a zero decimal stored by an older client is treated as absent.
	ManualPrice *decimal.Decimal `json:"manual_price,omitempty"`

	Quantity   int       `json:"quantity,omitempty"` // collection only, >= 1
	Priority   int       `json:"priority,omitempty"` // wishlist only
	AcquiredAt time.Time `json:"acquired_at"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

// EffectiveQuantity returns the quantity used for valuation.
// Wishlist entries always count as one; collection entries default to one.
func (h *HoldingItem) EffectiveQuantity() int {
	if h.List == ListWishlist || h.Quantity < 1 {
		return 1
	}
	return h.Quantity
}

// HasManualPrice reports whether the holding carries a usable declared value.
func (h *HoldingItem) HasManualPrice() bool {
	return h.ManualPrice != nil && h.ManualPrice.IsPositive()
}
