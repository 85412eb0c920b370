package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ashir876/catch-collect/internal/common"
	"github.com/ashir876/catch-collect/internal/models"
)

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"uptime":  time.Since(s.app.StartupTime).String(),
		"version": common.GetVersion(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version":    common.GetVersion(),
		"build":      common.GetBuild(),
		"git_commit": common.GetGitCommit(),
	})
}

// --- Price handlers ---

// handlePriceResolve handles GET and POST /api/prices/resolve.
// GET takes ?ids=a,b&locale=en; POST takes a JSON body of requests.
// Resolves one authoritative current price per requested item.
func (s *Server) handlePriceResolve(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	var requests []models.PriceRequest

	if r.Method == http.MethodGet {
		locale := r.URL.Query().Get("locale")
		for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
			if id = strings.TrimSpace(id); id != "" {
				requests = append(requests, models.PriceRequest{ItemID: id, Locale: locale})
			}
		}
	} else {
		var req struct {
			Requests []models.PriceRequest `json:"requests"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		requests = req.Requests
	}

	if len(requests) == 0 {
		WriteError(w, http.StatusBadRequest, "at least one price request is required")
		return
	}
	for i := range requests {
		if requests[i].ItemID == "" {
			WriteError(w, http.StatusBadRequest, "item_id is required on every request")
			return
		}
	}

	resolved, err := s.app.PricingService.ResolveCurrentPrices(r.Context(), requests)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	for i := range resolved {
		resolved[i].Price = resolved[i].Price.Round(2)
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"prices": resolved,
	})
}

// handlePriceImport handles POST /api/prices/import.
func (s *Server) handlePriceImport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Observations []models.PriceObservation `json:"observations"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if len(req.Observations) == 0 {
		WriteError(w, http.StatusBadRequest, "at least one observation is required")
		return
	}

	imported, err := s.app.PricingService.ImportObservations(r.Context(), req.Observations)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"imported": imported,
		"received": len(req.Observations),
	})
}

// --- Holdings handlers ---

// handleHoldings handles GET and POST /api/users/{id}/holdings.
func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request, userID string) {
	switch r.Method {
	case http.MethodGet:
		s.handleHoldingList(w, r, userID)
	case http.MethodPost:
		s.handleHoldingAdd(w, r, userID)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleHoldingList(w http.ResponseWriter, r *http.Request, userID string) {
	list, ok := listParam(w, r)
	if !ok {
		return
	}

	holdings, err := s.app.ValuationService.ListHoldings(r.Context(), userID, list)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"holdings": holdings,
		"count":    len(holdings),
	})
}

func (s *Server) handleHoldingAdd(w http.ResponseWriter, r *http.Request, userID string) {
	var holding models.HoldingItem
	if !DecodeJSON(w, r, &holding) {
		return
	}

	holding.UserID = userID
	if holding.ItemID == "" {
		WriteError(w, http.StatusBadRequest, "item_id is required")
		return
	}
	if !holding.List.Valid() {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("unknown holdings list %q", holding.List))
		return
	}

	if err := s.app.ValuationService.AddHolding(r.Context(), &holding); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, holding)
}

// handleHoldingDelete handles DELETE /api/users/{id}/holdings/{holdingID}.
func (s *Server) handleHoldingDelete(w http.ResponseWriter, r *http.Request, userID, holdingID string) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	if holdingID == "" {
		WriteError(w, http.StatusBadRequest, "holding id is required in path")
		return
	}

	if err := s.app.ValuationService.RemoveHolding(r.Context(), userID, holdingID); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"removed": holdingID,
	})
}

// --- Valuation handlers ---

// handleValuationSummary handles GET /api/users/{id}/valuation.
func (s *Server) handleValuationSummary(w http.ResponseWriter, r *http.Request, userID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	list, ok := listParam(w, r)
	if !ok {
		return
	}

	summary, err := s.app.ValuationService.GetValuationSummary(r.Context(), userID, list)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Monetary rounding happens only at the serialization boundary.
	out := *summary
	out.TotalManualValue = out.TotalManualValue.Round(2)
	out.TotalAutomaticValue = out.TotalAutomaticValue.Round(2)
	out.ManualValuePerItem = out.ManualValuePerItem.Round(2)
	out.AutomaticValuePerItem = out.AutomaticValuePerItem.Round(2)

	WriteJSON(w, http.StatusOK, &out)
}

// handleValuationSeries handles GET /api/users/{id}/valuation/series.
func (s *Server) handleValuationSeries(w http.ResponseWriter, r *http.Request, userID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	list, ok := listParam(w, r)
	if !ok {
		return
	}

	rng := models.TimeRange(r.URL.Query().Get("range"))
	if rng == "" {
		rng = models.RangeAll
	}
	if !rng.Valid() {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("unknown time range %q", rng))
		return
	}

	series, err := s.app.ValuationService.GetValueSeries(r.Context(), userID, list, rng)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := models.ValueSeries{
		Points:     make([]models.ValuePoint, len(series.Points)),
		Provenance: series.Provenance,
	}
	for i, p := range series.Points {
		p.ManualValue = p.ManualValue.Round(2)
		p.MarketValue = p.MarketValue.Round(2)
		out.Points[i] = p
	}

	WriteJSON(w, http.StatusOK, &out)
}

// listParam reads the ?list= query parameter, defaulting to the collection.
func listParam(w http.ResponseWriter, r *http.Request) (models.HoldingList, bool) {
	list := models.HoldingList(r.URL.Query().Get("list"))
	if list == "" {
		list = models.ListCollection
	}
	if !list.Valid() {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("unknown holdings list %q", list))
		return "", false
	}
	return list, true
}

// writeServiceError maps service errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrStoreUnavailable):
		WriteErrorWithCode(w, http.StatusServiceUnavailable, err.Error(), "store_unavailable")
	case errors.Is(err, models.ErrNotFound):
		WriteErrorWithCode(w, http.StatusNotFound, err.Error(), "not_found")
	default:
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
