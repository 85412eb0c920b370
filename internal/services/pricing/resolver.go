package pricing

import (
	"time"

	"github.com/ashir876/catch-collect/internal/models"
)

type groupKey struct {
	itemID string
	locale string
}

// candidate is the current winner of one (item, locale) group.
type candidate struct {
	obs  models.PriceObservation
	rank float64
}

// Resolve deduplicates raw price observations into one resolved price per
// requested item. Observations are grouped by (item, locale); within a group
// the member with the strictly highest BatchRank wins. When both candidates
// rank 0 the later RecordedAt wins; when both timestamps are also zero the
// first-encountered member is kept, preserving input order.
//
// Requests with no group for their exact locale fall back to any group
// sharing the item id. Items with no observations at all are omitted from
// the output; a missing price is not an error. The result never contains
// two entries for the same item id.
//
// Resolve is pure: it does not touch storage and tolerates arbitrary input
// ordering and malformed batch ids.
func Resolve(observations []models.PriceObservation, requests []models.PriceRequest) []models.ResolvedPrice {
	winners := make(map[groupKey]candidate)
	groupsByItem := make(map[string][]groupKey) // encounter order of groups per item

	for _, obs := range observations {
		key := groupKey{itemID: obs.ItemID, locale: obs.Locale}
		rank := BatchRank(obs.BatchID)

		current, exists := winners[key]
		if !exists {
			winners[key] = candidate{obs: obs, rank: rank}
			groupsByItem[obs.ItemID] = append(groupsByItem[obs.ItemID], key)
			continue
		}

		if rank > current.rank {
			winners[key] = candidate{obs: obs, rank: rank}
			continue
		}

		// Both sides unversioned: recency decides. Zero timestamps on both
		// sides keep the earlier-encountered member.
		if rank == 0 && current.rank == 0 && obs.RecordedAt.After(current.obs.RecordedAt) {
			winners[key] = candidate{obs: obs, rank: rank}
		}
	}

	resolvedAt := time.Now().UTC()
	resolved := make([]models.ResolvedPrice, 0, len(requests))
	emitted := make(map[string]bool, len(requests))

	for _, req := range requests {
		if req.ItemID == "" || emitted[req.ItemID] {
			continue
		}

		pick, found := pickGroup(winners, groupsByItem, req)
		if !found {
			continue
		}

		emitted[req.ItemID] = true
		resolved = append(resolved, models.ResolvedPrice{
			ItemID:     req.ItemID,
			Locale:     pick.obs.Locale,
			Price:      pick.obs.Price,
			Currency:   pick.obs.Currency,
			ResolvedAt: resolvedAt,
		})
	}

	return resolved
}

// pickGroup selects the group winner for a request: the exact-locale group
// when present, otherwise the best-ranked winner among all of the item's
// groups (rank, then RecordedAt, then encounter order).
func pickGroup(winners map[groupKey]candidate, groupsByItem map[string][]groupKey, req models.PriceRequest) (candidate, bool) {
	if req.Locale != "" {
		if c, ok := winners[groupKey{itemID: req.ItemID, locale: req.Locale}]; ok {
			return c, true
		}
	}

	var best candidate
	found := false
	for _, key := range groupsByItem[req.ItemID] {
		c := winners[key]
		if !found {
			best = c
			found = true
			continue
		}
		if c.rank > best.rank || (c.rank == best.rank && c.obs.RecordedAt.After(best.obs.RecordedAt)) {
			best = c
		}
	}
	return best, found
}
