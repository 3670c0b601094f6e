package server

import (
	"net/http"
	"strconv"
	"strings"
)

// handleFilings handles GET /api/filings?symbol=AAPL&forms=10-K,10-Q&limit=20
func (s *Server) handleFilings(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()

	symbol := q.Get("symbol")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol parameter is required")
		return
	}

	var forms []string
	if f := q.Get("forms"); f != "" {
		for _, part := range strings.Split(f, ",") {
			if part = strings.TrimSpace(part); part != "" {
				forms = append(forms, part)
			}
		}
	}

	limit := 0
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 {
			WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	index, err := s.app.Filings.Filings(r.Context(), symbol, forms, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, index)
}
