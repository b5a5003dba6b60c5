package handlers

import (
	"net/http"
	"strconv"

	"github.com/boutiquehq/boutique-pos/internal/sales"
	"github.com/go-chi/chi/v5"
)

// CreateSaleHandler godoc
// @Summary Process a sale
// @Description Commits the sale, its stock movements and the cash accrual as one atomic unit. An Idempotency-Key header (or body field) makes retries safe: a replay returns the original sale with 200 instead of 201.
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sale body SaleRequest true "Cart lines and payment"
// @Success 201 {object} models.Sale
// @Success 200 {object} models.Sale "idempotent replay"
// @Failure 400 {array} ValidationError
// @Failure 409 {object} errorResponse
// @Router /sales [post]
func CreateSaleHandler(w http.ResponseWriter, r *http.Request) {
	var req SaleRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateSale(req)
	if len(validationErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, validationErrors)
		return
	}

	idemKey := req.IdempotencyKey
	if header := r.Header.Get("Idempotency-Key"); header != "" {
		idemKey = header
	}

	actor := GetActor(r)
	lines := make([]sales.LineInput, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = sales.LineInput{ProductID: l.ProductID, Quantity: l.Quantity}
	}

	sale, existed, err := processor.Process(r.Context(), sales.Request{
		TenantID:       actor.TenantID,
		TillID:         req.TillID,
		Lines:          lines,
		CustomerID:     req.CustomerID,
		CustomerName:   req.CustomerName,
		PaymentMethod:  req.PaymentMethod,
		PaymentAmount:  req.PaymentAmount,
		Actor:          actor.UserID,
		IdempotencyKey: idemKey,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	status := http.StatusCreated
	if existed {
		status = http.StatusOK
	}
	writeJSON(w, status, sale)
}

// GetSalesHandler godoc
// @Summary List sales, newest first
// @Description Without parameters returns the most recent sales. With from/to (RFC 3339 or YYYY-MM-DD) returns the sales in that range.
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param from query string false "Range start"
// @Param to query string false "Range end, exclusive"
// @Param limit query int false "Maximum results without a range (default 50)"
// @Success 200 {array} models.Sale
// @Router /sales [get]
func GetSalesHandler(w http.ResponseWriter, r *http.Request) {
	tenantID := GetActor(r).TenantID
	query := r.URL.Query()

	if query.Get("from") != "" || query.Get("to") != "" {
		from, to, ok := parseDateRange(r)
		if !ok {
			http.Error(w, "invalid date range", http.StatusBadRequest)
			return
		}
		list, err := processor.InRange(r.Context(), tenantID, from, to)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
		return
	}

	limit := 50
	if v, err := strconv.Atoi(query.Get("limit")); err == nil && v > 0 {
		limit = v
	}
	list, err := processor.Recent(r.Context(), tenantID, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetSaleByIDHandler godoc
// @Summary Get a sale by ID
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param id path int true "Sale ID"
// @Success 200 {object} models.Sale
// @Failure 404 {object} errorResponse
// @Router /sales/{id} [get]
func GetSaleByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid sale ID", http.StatusBadRequest)
		return
	}

	sale, err := processor.Get(r.Context(), GetActor(r).TenantID, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sale)
}
