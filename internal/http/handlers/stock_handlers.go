package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// AdjustStockHandler godoc
// @Summary Adjust a product's stock
// @Description Books a MANUAL_ADJUSTMENT or RESTOCK movement through the ledger; a delta that would drive stock negative is rejected with 409
// @Tags stock
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param adjustment body AdjustStockRequest true "Signed delta, reason, optional note"
// @Success 200 {object} AdjustStockResponse
// @Failure 409 {object} errorResponse
// @Router /products/{id}/adjust [post]
func AdjustStockHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	var req AdjustStockRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	actor := GetActor(r)
	product, movement, err := catalogSvc.AdjustStock(r.Context(), actor.TenantID, id,
		req.Delta, req.Reason, req.Note, actor.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AdjustStockResponse{
		Product:  toProductResponse(product),
		Movement: movement,
	})
}

// ReconcileProductHandler godoc
// @Summary Reconcile a product's cached stock against its ledger
// @Description Read-only self check; a mismatch is reported as 500 and logged, never repaired
// @Tags stock
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} ledger.ReconcileResult
// @Router /products/{id}/reconcile [get]
func ReconcileProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	result, err := ledgerSvc.Reconcile(r.Context(), GetActor(r).TenantID, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
