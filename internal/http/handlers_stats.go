package http

import (
	"net/http"

	"ledger/internal/log"
)

// handleStats returns the monthly summary. Without parameters it covers the
// current month.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	params, err := ParseMonthParams(r.URL.Query(), s.ledger.Now())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	st, err := s.ledger.StatsFor(r.Context(), params.Year, params.Month)
	if err != nil {
		writeServiceError(w, r, err, log.OpRead, "")
		return
	}
	NewResponse().JSON(st).Write(w)
}
