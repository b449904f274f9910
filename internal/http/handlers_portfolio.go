package http

import (
	"net/http"

	"piano/internal/core"
)

func (s *Server) handleCreateInvestment(w http.ResponseWriter, r *http.Request) {
	var req investmentAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	id, err := s.entities.CreateInvestmentAccount(r.Context(), req.toCore())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleListInvestments(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.entities.ListInvestmentAccounts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleGetInvestment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	account, err := s.entities.GetInvestmentAccount(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleDeleteInvestment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := s.entities.DeleteInvestmentAccount(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateContribution(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var req contributionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	id, err := s.entities.CreateContribution(r.Context(), req.toCore(accountID))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleListContributions(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	contributions, err := s.entities.ListContributions(r.Context(), accountID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contributions)
}

func (s *Server) handleDeleteContribution(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := s.entities.DeleteContribution(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateReceivable(w http.ResponseWriter, r *http.Request) {
	var req receivableRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	id, err := s.entities.CreateReceivable(r.Context(), req.toCore())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleListReceivables(w http.ResponseWriter, r *http.Request) {
	receivables, err := s.entities.ListReceivables(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, receivables)
}

func (s *Server) handleGetReceivable(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	receivable, err := s.entities.GetReceivable(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, receivable)
}

func (s *Server) handleDeleteReceivable(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := s.entities.DeleteReceivable(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateRepayment(w http.ResponseWriter, r *http.Request) {
	receivableID, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var req monthAmountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	id, err := s.entities.CreateRepayment(r.Context(), core.ReceivableRepayment{
		ReceivableID: receivableID,
		Month:        core.YearMonth(req.Month),
		Amount:       req.Amount,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleListRepayments(w http.ResponseWriter, r *http.Request) {
	receivableID, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	repayments, err := s.entities.ListRepayments(r.Context(), receivableID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, repayments)
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	var req debtRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	id, err := s.entities.CreateDebt(r.Context(), req.toCore())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := s.entities.ListDebts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, debts)
}

func (s *Server) handleGetDebt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	debt, err := s.entities.GetDebt(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, debt)
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := s.entities.DeleteDebt(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateReferenceRate(w http.ResponseWriter, r *http.Request) {
	debtID, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var req referenceRateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	id, err := s.entities.CreateReferenceRate(r.Context(), core.DebtReferenceRate{
		DebtID: debtID,
		Month:  core.YearMonth(req.Month),
		Rate:   req.Rate,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleListReferenceRates(w http.ResponseWriter, r *http.Request) {
	debtID, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	rates, err := s.entities.ListReferenceRates(r.Context(), debtID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rates)
}

func (s *Server) handleCreateExtraPayment(w http.ResponseWriter, r *http.Request) {
	debtID, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var req monthAmountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	id, err := s.entities.CreateExtraPayment(r.Context(), core.DebtExtraPayment{
		DebtID: debtID,
		Month:  core.YearMonth(req.Month),
		Amount: req.Amount,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleListExtraPayments(w http.ResponseWriter, r *http.Request) {
	debtID, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	extras, err := s.entities.ListExtraPayments(r.Context(), debtID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, extras)
}
