package server

import (
	"net/http"

	"github.com/finsight-io/finsight/internal/models"
)

// handlePriceHistory handles GET /api/prices/history?symbol=AAPL&range=1M&interval=1h
func (s *Server) handlePriceHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()

	symbol := q.Get("symbol")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol parameter is required")
		return
	}

	rangeParam := q.Get("range")
	if rangeParam == "" {
		rangeParam = string(models.Range1M)
	}
	rng, err := models.ParseRange(rangeParam)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	interval, err := models.ParseInterval(q.Get("interval"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	hist, err := s.app.History.History(r.Context(), symbol, rng, interval)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, hist)
}
