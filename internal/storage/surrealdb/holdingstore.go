package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/ashir876/catch-collect/internal/common"
	"github.com/ashir876/catch-collect/internal/models"
)

// holdingSelectFields lists the fields to select from holding, aliasing
// holding_id to id for struct mapping (the raw record id is a RecordID and
// does not map to the string field).
const holdingSelectFields = `holding_id as id, user_id, item_id, locale, list,
	manual_price, quantity, priority, acquired_at, created_at`

// HoldingStore persists user collection and wishlist entries.
type HoldingStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewHoldingStore(db *surrealdb.DB, logger *common.Logger) *HoldingStore {
	return &HoldingStore{
		db:     db,
		logger: logger,
	}
}

// Add stores a holding under its assigned id, overwriting any previous
// version of the same record.
func (s *HoldingStore) Add(ctx context.Context, holding *models.HoldingItem) error {
	sql := `UPSERT $rid SET
		holding_id = $holding_id, user_id = $user_id, item_id = $item_id,
		locale = $locale, list = $list, manual_price = $manual_price,
		quantity = $quantity, priority = $priority,
		acquired_at = $acquired_at, created_at = $created_at`
	vars := map[string]any{
		"rid":          surrealmodels.NewRecordID("holding", holding.ID),
		"holding_id":   holding.ID,
		"user_id":      holding.UserID,
		"item_id":      holding.ItemID,
		"locale":       holding.Locale,
		"list":         string(holding.List),
		"manual_price": holding.ManualPrice,
		"quantity":     holding.Quantity,
		"priority":     holding.Priority,
		"acquired_at":  holding.AcquiredAt,
		"created_at":   holding.CreatedAt,
	}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save holding %s: %w", holding.ID, err)
	}
	return nil
}

// deletedHolding captures just enough of a deleted record to confirm the
// delete matched.
type deletedHolding struct {
	UserID string `json:"user_id"`
}

// Remove deletes a holding, scoped to its owner. Removing a holding that
// does not exist or belongs to another user returns ErrNotFound.
func (s *HoldingStore) Remove(ctx context.Context, userID, holdingID string) error {
	sql := "DELETE $rid WHERE user_id = $user_id RETURN BEFORE"
	vars := map[string]any{
		"rid":     surrealmodels.NewRecordID("holding", holdingID),
		"user_id": userID,
	}

	results, err := surrealdb.Query[[]deletedHolding](ctx, s.db, sql, vars)
	if err != nil {
		return fmt.Errorf("failed to delete holding %s: %w", holdingID, err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return fmt.Errorf("holding %s: %w", holdingID, models.ErrNotFound)
	}
	return nil
}

// ListByUser returns a user's entries for one holdings list.
func (s *HoldingStore) ListByUser(ctx context.Context, userID string, list models.HoldingList) ([]models.HoldingItem, error) {
	sql := fmt.Sprintf("SELECT %s FROM holding WHERE user_id = $user_id AND list = $list", holdingSelectFields)
	vars := map[string]any{
		"user_id": userID,
		"list":    string(list),
	}

	results, err := surrealdb.Query[[]models.HoldingItem](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return nil, nil
	}
	return (*results)[0].Result, nil
}
