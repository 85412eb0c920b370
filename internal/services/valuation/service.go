package valuation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ashir876/catch-collect/internal/common"
	"github.com/ashir876/catch-collect/internal/interfaces"
	"github.com/ashir876/catch-collect/internal/models"
)

// Service implements ValuationService
type Service struct {
	storage       interfaces.StorageManager
	pricing       interfaces.PricingService
	reconstructor *Reconstructor
	cache         *valuationCache
	currency      string
	defaultLocale string
	logger        *common.Logger

	// now is the single clock for windowing and reconstruction; the window
	// cutoff and the synthetic walk must agree on what "today" is.
	now func() time.Time
}

// NewService creates a new valuation service
func NewService(storage interfaces.StorageManager, pricing interfaces.PricingService, config *common.Config, logger *common.Logger) *Service {
	return &Service{
		storage:       storage,
		pricing:       pricing,
		reconstructor: NewReconstructor(),
		cache:         newValuationCache(config.Pricing.GetCacheTTL()),
		currency:      config.DisplayCurrency,
		defaultLocale: config.Pricing.DefaultLocale,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// WithReconstructor swaps the series reconstructor and adopts its clock, so
// tests injecting a fixed clock get matching window cutoffs.
func (s *Service) WithReconstructor(r *Reconstructor) *Service {
	s.reconstructor = r
	s.now = r.now
	return s
}

// GetValuationSummary aggregates a user's holdings list against freshly
// resolved prices. Results are cached per holdings content; a holdings
// mutation invalidates them.
func (s *Service) GetValuationSummary(ctx context.Context, userID string, list models.HoldingList) (*models.ValuationSummary, error) {
	generation := s.cache.generation(userID)

	holdings, err := s.loadHoldings(ctx, userID, list)
	if err != nil {
		return nil, err
	}

	key := summaryKey(userID, list, holdingsSignature(holdings))
	if cached, ok := s.cache.get(userID, key); ok {
		return cached.(*models.ValuationSummary), nil
	}

	resolved, err := s.resolveFor(ctx, holdings)
	if err != nil {
		return nil, err
	}

	summary := Aggregate(holdings, resolved)
	summary.Currency = s.currency

	s.cache.put(userID, key, generation, &summary)

	s.logger.Debug().
		Str("user_id", userID).
		Str("list", string(list)).
		Int("holdings", len(holdings)).
		Int("resolved", len(resolved)).
		Msg("Valuation summary computed")

	return &summary, nil
}

// GetValueSeries reconstructs the value-over-time series for a user's
// holdings list over the requested range. The series shares the resolved
// prices used by GetValuationSummary, so the final point of a synthetic
// series always agrees with the snapshot valuation.
func (s *Service) GetValueSeries(ctx context.Context, userID string, list models.HoldingList, rng models.TimeRange) (*models.ValueSeries, error) {
	window, err := windowAt(rng, s.now())
	if err != nil {
		return nil, err
	}

	generation := s.cache.generation(userID)

	holdings, err := s.loadHoldings(ctx, userID, list)
	if err != nil {
		return nil, err
	}

	if len(holdings) == 0 {
		// No data on either path; callers render an explicit empty state.
		return &models.ValueSeries{Points: nil, Provenance: models.ProvenanceSynthetic}, nil
	}

	key := seriesKey(userID, list, rng, holdingsSignature(holdings))
	if cached, ok := s.cache.get(userID, key); ok {
		return cached.(*models.ValueSeries), nil
	}

	resolved, err := s.resolveFor(ctx, holdings)
	if err != nil {
		return nil, err
	}

	itemIDs := make([]string, 0, len(holdings))
	seen := make(map[string]bool, len(holdings))
	for i := range holdings {
		if id := holdings[i].ItemID; id != "" && !seen[id] {
			seen[id] = true
			itemIDs = append(itemIDs, id)
		}
	}

	observations, err := s.storage.PriceStore().GetObservations(ctx, itemIDs, window.Cutoff)
	if err != nil {
		return nil, fmt.Errorf("%w: reading windowed observations: %s", models.ErrStoreUnavailable, err)
	}

	series := s.reconstructor.BuildSeries(holdings, observations, resolved, window)
	for i := range series.Points {
		series.Points[i].Currency = s.currency
	}

	s.cache.put(userID, key, generation, &series)

	s.logger.Debug().
		Str("user_id", userID).
		Str("list", string(list)).
		Str("range", string(rng)).
		Str("provenance", string(series.Provenance)).
		Int("points", len(series.Points)).
		Msg("Value series reconstructed")

	return &series, nil
}

// AddHolding validates and stores a new collection or wishlist entry, then
// invalidates the user's cached valuations.
func (s *Service) AddHolding(ctx context.Context, holding *models.HoldingItem) error {
	if holding == nil {
		return fmt.Errorf("holding is required")
	}
	if holding.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if holding.ItemID == "" {
		return fmt.Errorf("item_id is required")
	}
	if !holding.List.Valid() {
		return fmt.Errorf("unknown holdings list %q", holding.List)
	}

	if holding.ID == "" {
		holding.ID = uuid.New().String()
	}
	if holding.List == models.ListWishlist {
		holding.Quantity = 1
	} else if holding.Quantity < 1 {
		holding.Quantity = 1
	}
	now := time.Now().UTC()
	if holding.AcquiredAt.IsZero() {
		holding.AcquiredAt = now
	}
	holding.CreatedAt = now

	if err := s.storage.HoldingStore().Add(ctx, holding); err != nil {
		return fmt.Errorf("failed to add holding: %w", err)
	}

	s.cache.invalidateUser(holding.UserID)

	s.logger.Info().
		Str("user_id", holding.UserID).
		Str("item_id", holding.ItemID).
		Str("list", string(holding.List)).
		Msg("Holding added")

	return nil
}

// RemoveHolding deletes a holding and invalidates the user's cached
// valuations.
func (s *Service) RemoveHolding(ctx context.Context, userID, holdingID string) error {
	if err := s.storage.HoldingStore().Remove(ctx, userID, holdingID); err != nil {
		return fmt.Errorf("failed to remove holding: %w", err)
	}

	s.cache.invalidateUser(userID)

	s.logger.Info().
		Str("user_id", userID).
		Str("holding_id", holdingID).
		Msg("Holding removed")

	return nil
}

// ListHoldings returns a user's collection or wishlist entries.
func (s *Service) ListHoldings(ctx context.Context, userID string, list models.HoldingList) ([]models.HoldingItem, error) {
	return s.loadHoldings(ctx, userID, list)
}

func (s *Service) loadHoldings(ctx context.Context, userID string, list models.HoldingList) ([]models.HoldingItem, error) {
	if !list.Valid() {
		return nil, fmt.Errorf("unknown holdings list %q", list)
	}

	holdings, err := s.storage.HoldingStore().ListByUser(ctx, userID, list)
	if err != nil {
		return nil, fmt.Errorf("%w: reading holdings: %s", models.ErrStoreUnavailable, err)
	}
	return holdings, nil
}

// resolveFor resolves current prices for every distinct item in a holdings
// list, preferring each holding's own locale and falling back to the
// configured default.
func (s *Service) resolveFor(ctx context.Context, holdings []models.HoldingItem) ([]models.ResolvedPrice, error) {
	requests := make([]models.PriceRequest, 0, len(holdings))
	seen := make(map[string]bool, len(holdings))
	for i := range holdings {
		h := &holdings[i]
		if h.ItemID == "" || seen[h.ItemID] {
			continue
		}
		seen[h.ItemID] = true

		locale := h.Locale
		if locale == "" {
			locale = s.defaultLocale
		}
		requests = append(requests, models.PriceRequest{ItemID: h.ItemID, Locale: locale})
	}

	return s.pricing.ResolveCurrentPrices(ctx, requests)
}

// Ensure Service implements ValuationService
var _ interfaces.ValuationService = (*Service)(nil)
