package http

import (
	"net/http"
)

func (s *Server) handleCreateCashAccount(w http.ResponseWriter, r *http.Request) {
	var req cashAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	id, err := s.entities.CreateCashAccount(r.Context(), req.toCore(0))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleListCashAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.entities.ListCashAccounts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleGetCashAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	account, err := s.entities.GetCashAccount(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleUpdateCashAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var req cashAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := s.entities.UpdateCashAccount(r.Context(), req.toCore(id)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteCashAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := s.entities.DeleteCashAccount(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateRecurringItem(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var req recurringItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	id, err := s.entities.CreateRecurringItem(r.Context(), req.toCore(0, accountID))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleListRecurringItems(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	items, err := s.entities.ListRecurringItems(r.Context(), accountID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleUpdateRecurringItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var req struct {
		recurringItemRequest
		AccountID int64 `json:"accountId"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := s.entities.UpdateRecurringItem(r.Context(), req.toCore(id, req.AccountID)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteRecurringItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := s.entities.DeleteRecurringItem(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreatePlannedItem(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var req plannedItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	id, err := s.entities.CreatePlannedItem(r.Context(), req.toCore(accountID))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleListPlannedItems(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	items, err := s.entities.ListPlannedItems(r.Context(), accountID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleDeletePlannedItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := s.entities.DeletePlannedItem(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
