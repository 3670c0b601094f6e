package server

import (
	"net/http"
	"strconv"

	"github.com/finsight-io/finsight/internal/models"
)

const defaultSeriesPeriods = 8

// handleSnapshot handles GET /api/financials/snapshot?symbol=AAPL
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol parameter is required")
		return
	}

	snap, err := s.app.Snapshot.Snapshot(r.Context(), symbol)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, snap)
}

// seriesResponse is the series endpoint payload.
type seriesResponse struct {
	Symbol string              `json:"symbol"`
	CIK    string              `json:"cik"`
	Series models.SeriesBundle `json:"series"`
}

// handleSeries handles GET /api/financials/series?symbol=AAPL&periods=8
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol parameter is required")
		return
	}

	periods := defaultSeriesPeriods
	if p := r.URL.Query().Get("periods"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			WriteError(w, http.StatusBadRequest, "periods must be a positive integer")
			return
		}
		periods = n
	}

	id, err := s.app.Identity.Resolve(r.Context(), symbol)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	bundle := make(models.SeriesBundle, len(models.SeriesConcepts))
	for _, concept := range models.SeriesConcepts {
		series, err := s.app.Facts.FetchSeries(r.Context(), id.CIK, concept)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		bundle[concept.Name] = series.Tail(periods)
	}

	WriteJSON(w, http.StatusOK, seriesResponse{
		Symbol: id.Symbol,
		CIK:    id.CIK,
		Series: bundle,
	})
}
