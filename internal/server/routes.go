package server

import (
	"errors"
	"net/http"

	"github.com/finsight-io/finsight/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)

	// Financials
	mux.HandleFunc("/api/financials/snapshot", s.handleSnapshot)
	mux.HandleFunc("/api/financials/series", s.handleSeries)

	// Filings
	mux.HandleFunc("/api/filings", s.handleFilings)

	// Prices
	mux.HandleFunc("/api/prices/history", s.handlePriceHistory)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	cfg := s.app.Config
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment": cfg.Environment,
		"clients": map[string]interface{}{
			"edgar": map[string]interface{}{
				"base_url":      cfg.Clients.EDGAR.BaseURL,
				"data_base_url": cfg.Clients.EDGAR.DataBaseURL,
				"rate_limit":    cfg.Clients.EDGAR.RateLimit,
			},
			"yahoo": map[string]interface{}{
				"base_url": cfg.Clients.Yahoo.BaseURL,
			},
			"fmp": map[string]interface{}{
				"base_url":   cfg.Clients.FMP.BaseURL,
				"configured": cfg.Clients.FMP.APIKey != "",
				"api_key":    maskSecret(cfg.Clients.FMP.APIKey),
			},
		},
		"cache": map[string]interface{}{
			"identity_ttl": cfg.Cache.IdentityTTL,
			"facts_ttl":    cfg.Cache.FactsTTL,
			"facts_size":   cfg.Cache.FactsSize,
		},
	})
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + "****" + s[len(s)-2:]
}

// writeServiceError maps service errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, common.ErrUpstreamUnavailable):
		WriteError(w, http.StatusBadGateway, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
