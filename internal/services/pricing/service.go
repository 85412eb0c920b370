package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/ashir876/catch-collect/internal/common"
	"github.com/ashir876/catch-collect/internal/interfaces"
	"github.com/ashir876/catch-collect/internal/models"
)

// Service implements PricingService
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new pricing service
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// ResolveCurrentPrices reads observations for the requested items and
// resolves one authoritative price per item. A record-store failure is
// surfaced to the caller; the service does not retry.
func (s *Service) ResolveCurrentPrices(ctx context.Context, requests []models.PriceRequest) ([]models.ResolvedPrice, error) {
	if len(requests) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(requests))
	seen := make(map[string]bool, len(requests))
	for _, req := range requests {
		if req.ItemID == "" || seen[req.ItemID] {
			continue
		}
		seen[req.ItemID] = true
		ids = append(ids, req.ItemID)
	}

	observations, err := s.storage.PriceStore().GetObservations(ctx, ids, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("%w: reading observations for %d items: %s", models.ErrStoreUnavailable, len(ids), err)
	}

	resolved := Resolve(observations, requests)

	s.logger.Debug().
		Int("requested", len(ids)).
		Int("observations", len(observations)).
		Int("resolved", len(resolved)).
		Msg("Resolved current prices")

	return resolved, nil
}

// ImportObservations ingests a batch of raw price observations. Rows with
// no item id or a negative price are dropped; everything else is stored
// as-is, duplicates included.
func (s *Service) ImportObservations(ctx context.Context, observations []models.PriceObservation) (int, error) {
	accepted := make([]models.PriceObservation, 0, len(observations))
	for _, obs := range observations {
		if obs.ItemID == "" || obs.Price.IsNegative() {
			continue
		}
		accepted = append(accepted, obs)
	}

	if len(accepted) == 0 {
		return 0, nil
	}

	count, err := s.storage.PriceStore().SaveObservations(ctx, accepted)
	if err != nil {
		return 0, fmt.Errorf("failed to save observations: %w", err)
	}

	s.logger.Info().
		Int("received", len(observations)).
		Int("stored", count).
		Msg("Imported price observations")

	return count, nil
}

// Ensure Service implements PricingService
var _ interfaces.PricingService = (*Service)(nil)
