// Package interfaces defines service contracts for Catch-Collect
package interfaces

import (
	"context"
	"time"

	"github.com/ashir876/catch-collect/internal/models"
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	PriceStore() PriceStore
	HoldingStore() HoldingStore

	// Lifecycle
	Close() error
}

// PriceStore reads and ingests raw price observations.
// Reads return rows in unspecified order; the resolver must not assume any.
type PriceStore interface {
	// GetObservations returns observations for the given item ids recorded
	// at or after since. A zero since returns all rows for those ids.
	GetObservations(ctx context.Context, itemIDs []string, since time.Time) ([]models.PriceObservation, error)

	// SaveObservations ingests a batch of observations and returns the
	// number of rows written. Duplicates are stored as-is.
	SaveObservations(ctx context.Context, observations []models.PriceObservation) (int, error)
}

// HoldingStore manages user collection and wishlist entries.
type HoldingStore interface {
	Add(ctx context.Context, holding *models.HoldingItem) error
	Remove(ctx context.Context, userID, holdingID string) error
	ListByUser(ctx context.Context, userID string, list models.HoldingList) ([]models.HoldingItem, error)
}
