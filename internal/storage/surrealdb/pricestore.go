package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"

	"github.com/ashir876/catch-collect/internal/common"
	"github.com/ashir876/catch-collect/internal/models"
)

// PriceStore persists raw price observations. Rows are append-only:
// duplicates for the same (item, locale) are expected and stored as-is,
// resolution happens at read time in the pricing service.
type PriceStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewPriceStore(db *surrealdb.DB, logger *common.Logger) *PriceStore {
	return &PriceStore{
		db:     db,
		logger: logger,
	}
}

// GetObservations returns observations for the given item ids recorded at
// or after since, in unspecified order. A zero since returns all rows.
func (s *PriceStore) GetObservations(ctx context.Context, itemIDs []string, since time.Time) ([]models.PriceObservation, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	sql := "SELECT * FROM price_observation WHERE item_id IN $ids"
	vars := map[string]any{"ids": itemIDs}
	if !since.IsZero() && since.Unix() > 0 {
		sql += " AND recorded_at >= $since"
		vars["since"] = since
	}

	results, err := surrealdb.Query[[]models.PriceObservation](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query price observations: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return nil, nil
	}
	return (*results)[0].Result, nil
}

// SaveObservations appends a batch of observations and returns the number
// of rows written.
func (s *PriceStore) SaveObservations(ctx context.Context, observations []models.PriceObservation) (int, error) {
	count := 0
	for i := range observations {
		sql := "CREATE price_observation CONTENT $data"
		vars := map[string]any{"data": observations[i]}

		if _, err := surrealdb.Query[[]models.PriceObservation](ctx, s.db, sql, vars); err != nil {
			return count, fmt.Errorf("failed to save observation for item %s: %w", observations[i].ItemID, err)
		}
		count++
	}

	s.logger.Debug().Int("count", count).Msg("Price observations saved")
	return count, nil
}
