package server

import (
	"net/http"
	"strings"
	"time"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Prices
	mux.HandleFunc("/api/prices/resolve", s.handlePriceResolve)
	mux.HandleFunc("/api/prices/import", s.handlePriceImport)

	// Users: holdings and valuations
	mux.HandleFunc("/api/users/", s.routeUsers)
}

// routeUsers dispatches /api/users/{id}/* to the appropriate handler.
func (s *Server) routeUsers(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/users/")
	if path == "" {
		WriteError(w, http.StatusBadRequest, "user id is required in path")
		return
	}

	parts := strings.Split(path, "/")
	userID := parts[0]
	if userID == "" {
		WriteError(w, http.StatusBadRequest, "user id is required in path")
		return
	}

	switch {
	case len(parts) == 2 && parts[1] == "holdings":
		s.handleHoldings(w, r, userID)
	case len(parts) == 3 && parts[1] == "holdings":
		s.handleHoldingDelete(w, r, userID, parts[2])
	case len(parts) == 2 && parts[1] == "valuation":
		s.handleValuationSummary(w, r, userID)
	case len(parts) == 3 && parts[1] == "valuation" && parts[2] == "series":
		s.handleValuationSeries(w, r, userID)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}
