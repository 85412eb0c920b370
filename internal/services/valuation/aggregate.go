// Package valuation aggregates holdings against resolved prices and
// reconstructs value-over-time series
package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/ashir876/catch-collect/internal/models"
)

// Aggregate folds a holdings list and a resolved-price batch into a
// valuation summary. Manual value counts holdings with a declared price;
// automatic value counts holdings whose item has a resolved price,
// deliberately ignoring locale. Market valuation is locale-agnostic.
//
// The fold is commutative: output depends only on input contents, never on
// ordering. Pure, no I/O.
func Aggregate(holdings []models.HoldingItem, resolved []models.ResolvedPrice) models.ValuationSummary {
	priceByItem := make(map[string]decimal.Decimal, len(resolved))
	for _, rp := range resolved {
		if _, ok := priceByItem[rp.ItemID]; !ok {
			priceByItem[rp.ItemID] = rp.Price
		}
	}

	totalManual := decimal.Zero
	totalAutomatic := decimal.Zero

	allItems := make(map[string]bool, len(holdings))
	manualItems := make(map[string]bool)
	automaticItems := make(map[string]bool)

	for i := range holdings {
		h := &holdings[i]
		if h.ItemID == "" {
			continue
		}
		allItems[h.ItemID] = true

		quantity := decimal.NewFromInt(int64(h.EffectiveQuantity()))

		if h.HasManualPrice() {
			totalManual = totalManual.Add(h.ManualPrice.Mul(quantity))
			manualItems[h.ItemID] = true
		}

		if price, ok := priceByItem[h.ItemID]; ok {
			totalAutomatic = totalAutomatic.Add(price.Mul(quantity))
			automaticItems[h.ItemID] = true
		}
	}

	both := 0
	for itemID := range manualItems {
		if automaticItems[itemID] {
			both++
		}
	}

	summary := models.ValuationSummary{
		TotalManualValue:        totalManual,
		TotalAutomaticValue:     totalAutomatic,
		TotalDistinctItems:      len(allItems),
		ItemsWithManualPrice:    len(manualItems),
		ItemsWithAutomaticPrice: len(automaticItems),
		ItemsWithBoth:           both,
		ManualValuePerItem:      decimal.Zero,
		AutomaticValuePerItem:   decimal.Zero,
	}

	if len(manualItems) > 0 {
		summary.ManualValuePerItem = totalManual.Div(decimal.NewFromInt(int64(len(manualItems))))
	}
	if len(automaticItems) > 0 {
		summary.AutomaticValuePerItem = totalAutomatic.Div(decimal.NewFromInt(int64(len(automaticItems))))
	}

	return summary
}
