package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ashir876/catch-collect/internal/app"
	"github.com/ashir876/catch-collect/internal/common"
	"github.com/ashir876/catch-collect/internal/interfaces"
	"github.com/ashir876/catch-collect/internal/models"
	"github.com/ashir876/catch-collect/internal/services/pricing"
	"github.com/ashir876/catch-collect/internal/services/valuation"
)

// memPriceStore is an in-memory PriceStore for handler tests.
type memPriceStore struct {
	observations []models.PriceObservation
	err          error
}

func (m *memPriceStore) GetObservations(_ context.Context, itemIDs []string, since time.Time) ([]models.PriceObservation, error) {
	if m.err != nil {
		return nil, m.err
	}
	wanted := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}
	var out []models.PriceObservation
	for _, obs := range m.observations {
		if !wanted[obs.ItemID] {
			continue
		}
		if !since.IsZero() && since.Unix() > 0 && obs.RecordedAt.Before(since) {
			continue
		}
		out = append(out, obs)
	}
	return out, nil
}

func (m *memPriceStore) SaveObservations(_ context.Context, observations []models.PriceObservation) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.observations = append(m.observations, observations...)
	return len(observations), nil
}

// memHoldingStore is an in-memory HoldingStore for handler tests.
type memHoldingStore struct {
	holdings []models.HoldingItem
}

func (m *memHoldingStore) Add(_ context.Context, holding *models.HoldingItem) error {
	m.holdings = append(m.holdings, *holding)
	return nil
}

func (m *memHoldingStore) Remove(_ context.Context, userID, holdingID string) error {
	for i, h := range m.holdings {
		if h.ID == holdingID && h.UserID == userID {
			m.holdings = append(m.holdings[:i], m.holdings[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("holding %s: %w", holdingID, models.ErrNotFound)
}

func (m *memHoldingStore) ListByUser(_ context.Context, userID string, list models.HoldingList) ([]models.HoldingItem, error) {
	var out []models.HoldingItem
	for _, h := range m.holdings {
		if h.UserID == userID && h.List == list {
			out = append(out, h)
		}
	}
	return out, nil
}

type memStorage struct {
	prices   *memPriceStore
	holdings *memHoldingStore
}

func (m *memStorage) PriceStore() interfaces.PriceStore     { return m.prices }
func (m *memStorage) HoldingStore() interfaces.HoldingStore { return m.holdings }
func (m *memStorage) Close() error                          { return nil }

// newTestServer wires the full service stack over in-memory storage.
func newTestServer(t *testing.T) (*Server, *memStorage) {
	t.Helper()

	storage := &memStorage{prices: &memPriceStore{}, holdings: &memHoldingStore{}}
	config := common.NewDefaultConfig()
	config.Server.RateLimit = 0 // no throttling in tests
	logger := common.NewSilentLogger()

	pricingService := pricing.NewService(storage, logger)
	valuationService := valuation.NewService(storage, pricingService, config, logger)

	a := &app.App{
		Config:           config,
		Logger:           logger,
		Storage:          storage,
		PricingService:   pricingService,
		ValuationService: valuationService,
		StartupTime:      time.Now(),
	}

	return NewServer(a), storage
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}
