package surrealdb

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashir876/catch-collect/internal/models"
)

func testHolding(id, userID, itemID string, list models.HoldingList) *models.HoldingItem {
	manual := decimal.NewFromInt(10)
	return &models.HoldingItem{
		ID:          id,
		UserID:      userID,
		ItemID:      itemID,
		Locale:      "en",
		List:        list,
		ManualPrice: &manual,
		Quantity:    1,
		AcquiredAt:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestHoldingStore_AddAndList(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()
	store := manager.HoldingStore()

	require.NoError(t, store.Add(ctx, testHolding("h1", "user-1", "card-1", models.ListCollection)))
	require.NoError(t, store.Add(ctx, testHolding("h2", "user-1", "card-2", models.ListWishlist)))
	require.NoError(t, store.Add(ctx, testHolding("h3", "user-2", "card-3", models.ListCollection)))

	collection, err := store.ListByUser(ctx, "user-1", models.ListCollection)
	require.NoError(t, err)
	require.Len(t, collection, 1)
	assert.Equal(t, "card-1", collection[0].ItemID)
	assert.True(t, collection[0].ManualPrice.Equal(decimal.NewFromInt(10)))

	wishlist, err := store.ListByUser(ctx, "user-1", models.ListWishlist)
	require.NoError(t, err)
	assert.Len(t, wishlist, 1)
}

func TestHoldingStore_Remove(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()
	store := manager.HoldingStore()

	require.NoError(t, store.Add(ctx, testHolding("h1", "user-1", "card-1", models.ListCollection)))
	require.NoError(t, store.Remove(ctx, "user-1", "h1"))

	holdings, err := store.ListByUser(ctx, "user-1", models.ListCollection)
	require.NoError(t, err)
	assert.Empty(t, holdings)
}

func TestHoldingStore_RemoveMissing(t *testing.T) {
	manager := newTestManager(t)
	err := manager.HoldingStore().Remove(context.Background(), "user-1", "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestHoldingStore_RemoveOtherUsersHolding(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()
	store := manager.HoldingStore()

	require.NoError(t, store.Add(ctx, testHolding("h1", "user-1", "card-1", models.ListCollection)))

	err := store.Remove(ctx, "user-2", "h1")
	assert.ErrorIs(t, err, models.ErrNotFound)

	holdings, err := store.ListByUser(ctx, "user-1", models.ListCollection)
	require.NoError(t, err)
	assert.Len(t, holdings, 1)
}

func TestHoldingStore_AddIsUpsert(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()
	store := manager.HoldingStore()

	h := testHolding("h1", "user-1", "card-1", models.ListCollection)
	require.NoError(t, store.Add(ctx, h))

	h.Quantity = 3
	require.NoError(t, store.Add(ctx, h))

	holdings, err := store.ListByUser(ctx, "user-1", models.ListCollection)
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, 3, holdings[0].Quantity)
}
