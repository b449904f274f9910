package http

import (
	"net/http"
	"strings"

	"piano/internal/core"
	"piano/internal/projection"
)

// parseCashflowFilter builds a projection filter from query parameters.
// start/end truncate the window; categories, types and kinds are
// comma-separated restriction lists. Returns nil when nothing is set.
func parseCashflowFilter(r *http.Request) (*projection.CashflowFilter, error) {
	start, end, err := queryRange(r)
	if err != nil {
		return nil, err
	}

	q := r.URL.Query()
	var filter projection.CashflowFilter
	filter.StartDate = start
	filter.EndDate = end
	filter.Categories = splitList(q.Get("categories"))
	for _, t := range splitList(q.Get("types")) {
		switch it := core.ItemType(t); it {
		case core.ItemIncome, core.ItemExpense:
			filter.ItemTypes = append(filter.ItemTypes, it)
		default:
			return nil, core.ErrInvalidType
		}
	}
	for _, k := range splitList(q.Get("kinds")) {
		switch ik := projection.ItemKind(k); ik {
		case projection.KindRecurring, projection.KindOneOff, projection.KindRepeating:
			filter.ItemKinds = append(filter.ItemKinds, ik)
		default:
			return nil, core.ErrInvalidType
		}
	}

	if filter.StartDate == "" && filter.EndDate == "" &&
		len(filter.Categories) == 0 && len(filter.ItemTypes) == 0 && len(filter.ItemKinds) == 0 {
		return nil, nil
	}
	return &filter, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (s *Server) handleCashflowProjection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	filter, err := parseCashflowFilter(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	months, err := s.projections.CashflowProjection(r.Context(), id, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, months)
}

func (s *Server) handleInvestmentProjection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	start, end, err := queryRange(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	months, err := s.projections.InvestmentProjection(r.Context(), id, start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, months)
}

func (s *Server) handleReceivableProjection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	start, end, err := queryRange(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	months, err := s.projections.ReceivableProjection(r.Context(), id, start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, months)
}

func (s *Server) handleDebtProjection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	start, end, err := queryRange(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	months, err := s.projections.DebtProjection(r.Context(), id, start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, months)
}

func (s *Server) handleWealth(w http.ResponseWriter, r *http.Request) {
	start, end, err := queryRange(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	months, err := s.projections.WealthProjection(r.Context(), start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, months)
}

func (s *Server) handleWealthYearly(w http.ResponseWriter, r *http.Request) {
	start, end, err := queryRange(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	years, err := s.projections.WealthYearly(r.Context(), start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, years)
}
