package server

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashir876/catch-collect/internal/models"
)

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestHandleVersion(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/version", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	decodeBody(t, rec, &body)
	assert.NotEmpty(t, body["version"])
}

func TestHandleHealth_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/health", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPriceImportAndResolve(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	// Two batches for the same item and locale; the later batch wins.
	importReq := map[string]interface{}{
		"observations": []models.PriceObservation{
			{ItemID: "card-1", Locale: "en", Price: decimal.NewFromInt(15), Currency: "EUR", BatchID: "1/0/0"},
			{ItemID: "card-1", Locale: "en", Price: decimal.NewFromInt(18), Currency: "EUR", BatchID: "1/0/1"},
		},
	}
	rec := doJSON(t, handler, http.MethodPost, "/api/prices/import", importReq)
	require.Equal(t, http.StatusOK, rec.Code)

	var importBody map[string]interface{}
	decodeBody(t, rec, &importBody)
	assert.Equal(t, float64(2), importBody["imported"])

	resolveReq := map[string]interface{}{
		"requests": []models.PriceRequest{{ItemID: "card-1", Locale: "en"}},
	}
	rec = doJSON(t, handler, http.MethodPost, "/api/prices/resolve", resolveReq)
	require.Equal(t, http.StatusOK, rec.Code)

	var resolveBody struct {
		Prices []models.ResolvedPrice `json:"prices"`
	}
	decodeBody(t, rec, &resolveBody)
	require.Len(t, resolveBody.Prices, 1)
	assert.Equal(t, "card-1", resolveBody.Prices[0].ItemID)
	assert.True(t, resolveBody.Prices[0].Price.Equal(decimal.NewFromInt(18)))
}

func TestPriceResolve_Validation(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/prices/resolve", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/api/prices/resolve", map[string]interface{}{
		"requests": []models.PriceRequest{{ItemID: ""}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/prices/resolve", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, handler, http.MethodDelete, "/api/prices/resolve", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPriceResolve_QueryForm(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/prices/import", map[string]interface{}{
		"observations": []models.PriceObservation{
			{ItemID: "card-1", Locale: "en", Price: decimal.NewFromInt(18), Currency: "EUR", BatchID: "1/0/1"},
			{ItemID: "card-2", Locale: "en", Price: decimal.NewFromInt(7), Currency: "EUR", BatchID: "1/0/0"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/prices/resolve?ids=card-1,card-2&locale=en", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Prices []models.ResolvedPrice `json:"prices"`
	}
	decodeBody(t, rec, &body)
	assert.Len(t, body.Prices, 2)
}

func TestPriceImport_Validation(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/prices/import", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPriceResolve_StoreUnavailable(t *testing.T) {
	srv, storage := newTestServer(t)
	storage.prices.err = errors.New("connection refused")

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/prices/resolve", map[string]interface{}{
		"requests": []models.PriceRequest{{ItemID: "card-1"}},
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body ErrorResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "store_unavailable", body.Code)
}

func TestHoldingLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	manual := decimal.NewFromInt(10)
	rec := doJSON(t, handler, http.MethodPost, "/api/users/user-1/holdings", models.HoldingItem{
		ItemID:      "card-1",
		List:        models.ListCollection,
		ManualPrice: &manual,
		Quantity:    2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.HoldingItem
	decodeBody(t, rec, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "user-1", created.UserID)

	rec = doJSON(t, handler, http.MethodGet, "/api/users/user-1/holdings?list=collection", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listBody struct {
		Holdings []models.HoldingItem `json:"holdings"`
		Count    int                  `json:"count"`
	}
	decodeBody(t, rec, &listBody)
	assert.Equal(t, 1, listBody.Count)

	rec = doJSON(t, handler, http.MethodDelete, "/api/users/user-1/holdings/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/users/user-1/holdings", nil)
	decodeBody(t, rec, &listBody)
	assert.Equal(t, 0, listBody.Count)
}

func TestHoldingAdd_Validation(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/users/user-1/holdings", models.HoldingItem{
		List: models.ListCollection,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/api/users/user-1/holdings", models.HoldingItem{
		ItemID: "card-1",
		List:   "favourites",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHoldingDelete_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodDelete, "/api/users/user-1/holdings/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "not_found", body.Code)
}

func TestValuationSummary(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/prices/import", map[string]interface{}{
		"observations": []models.PriceObservation{
			{ItemID: "card-1", Locale: "en", Price: decimal.NewFromInt(18), Currency: "EUR", BatchID: "1/0/1"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	manual := decimal.NewFromInt(10)
	rec = doJSON(t, handler, http.MethodPost, "/api/users/user-1/holdings", models.HoldingItem{
		ItemID:      "card-1",
		Locale:      "en",
		List:        models.ListCollection,
		ManualPrice: &manual,
		Quantity:    2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/users/user-1/valuation", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary models.ValuationSummary
	decodeBody(t, rec, &summary)
	assert.True(t, summary.TotalManualValue.Equal(decimal.NewFromInt(20)), "manual: %s", summary.TotalManualValue)
	assert.True(t, summary.TotalAutomaticValue.Equal(decimal.NewFromInt(36)), "automatic: %s", summary.TotalAutomaticValue)
	assert.Equal(t, 1, summary.ItemsWithBoth)
	assert.Equal(t, "EUR", summary.Currency)
}

func TestValuationSummary_UnknownList(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/users/user-1/valuation?list=favourites", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValuationSeries(t *testing.T) {
	srv, storage := newTestServer(t)
	handler := srv.Handler()

	now := time.Now().UTC()
	storage.prices.observations = []models.PriceObservation{
		{ItemID: "card-1", Locale: "en", Price: decimal.NewFromInt(5), Currency: "EUR", RecordedAt: now.AddDate(0, 0, -10)},
		{ItemID: "card-1", Locale: "en", Price: decimal.NewFromInt(3), Currency: "EUR", RecordedAt: now.AddDate(0, 0, -4)},
	}

	rec := doJSON(t, handler, http.MethodPost, "/api/users/user-1/holdings", models.HoldingItem{
		ItemID: "card-1",
		List:   models.ListCollection,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/users/user-1/valuation/series?range=30d", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var series models.ValueSeries
	decodeBody(t, rec, &series)
	assert.Equal(t, models.ProvenanceReal, series.Provenance)
	assert.NotEmpty(t, series.Points)
}

func TestValuationSeries_UnknownRange(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/users/user-1/valuation/series?range=14d", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValuationSeries_EmptyHoldings(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/users/user-1/valuation/series?range=all", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var series models.ValueSeries
	decodeBody(t, rec, &series)
	assert.Empty(t, series.Points)
	assert.Equal(t, models.ProvenanceSynthetic, series.Provenance)
}

func TestRouteUsers_UnknownPath(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/users/user-1/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
