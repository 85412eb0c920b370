package interfaces

import (
	"context"

	"github.com/ashir876/catch-collect/internal/models"
)

// PricingService resolves authoritative current prices from raw observations.
type PricingService interface {
	// ResolveCurrentPrices reads the record store for the requested items
	// and returns at most one resolved price per item. Items with no price
	// data are omitted, never synthesized.
	ResolveCurrentPrices(ctx context.Context, requests []models.PriceRequest) ([]models.ResolvedPrice, error)

	// ImportObservations ingests a batch of raw price observations.
	ImportObservations(ctx context.Context, observations []models.PriceObservation) (int, error)
}

// ValuationService aggregates holdings against resolved prices and
// reconstructs value-over-time series.
type ValuationService interface {
	GetValuationSummary(ctx context.Context, userID string, list models.HoldingList) (*models.ValuationSummary, error)
	GetValueSeries(ctx context.Context, userID string, list models.HoldingList, rng models.TimeRange) (*models.ValueSeries, error)

	// Holdings mutations. These invalidate any cached valuations for the user.
	AddHolding(ctx context.Context, holding *models.HoldingItem) error
	RemoveHolding(ctx context.Context, userID, holdingID string) error
	ListHoldings(ctx context.Context, userID string, list models.HoldingList) ([]models.HoldingItem, error)
}
