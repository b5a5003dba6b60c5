package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// OpenSessionHandler godoc
// @Summary Open a cash session for a till
// @Description Fails with 409 if a session is already OPEN for the till
// @Tags cash
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session body OpenSessionRequest true "Till and opening balance"
// @Success 201 {object} models.CashSession
// @Failure 409 {object} errorResponse
// @Router /cash/open [post]
func OpenSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req OpenSessionRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	actor := GetActor(r)
	session, err := cashManager.Open(r.Context(), actor.TenantID, req.TillID, req.OpeningBalance, actor.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// CloseSessionHandler godoc
// @Summary Close a cash session
// @Description Freezes the session and records discrepancy = counted - expected
// @Tags cash
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param close body CloseSessionRequest true "Counted balance"
// @Success 200 {object} models.CashSession
// @Failure 409 {object} errorResponse
// @Router /cash/{id}/close [post]
func CloseSessionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid session ID", http.StatusBadRequest)
		return
	}

	var req CloseSessionRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	actor := GetActor(r)
	session, err := cashManager.Close(r.Context(), actor.TenantID, id, req.CountedBalance, actor.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// CurrentSessionHandler godoc
// @Summary Get the OPEN session for a till
// @Tags cash
// @Produce json
// @Security BearerAuth
// @Param till query string true "Till ID"
// @Success 200 {object} models.CashSession
// @Failure 409 {object} errorResponse
// @Router /cash/current [get]
func CurrentSessionHandler(w http.ResponseWriter, r *http.Request) {
	till := r.URL.Query().Get("till")
	if till == "" {
		http.Error(w, "till query parameter is required", http.StatusBadRequest)
		return
	}

	session, err := cashManager.Current(r.Context(), GetActor(r).TenantID, till)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}
