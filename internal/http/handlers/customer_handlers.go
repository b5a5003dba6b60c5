package handlers

import (
	"net/http"
	"strconv"

	"github.com/boutiquehq/boutique-pos/internal/customers"
	"github.com/boutiquehq/boutique-pos/internal/repo"
	"github.com/go-chi/chi/v5"
)

// CreateCustomerHandler godoc
// @Summary Add a customer to the tenant's directory
// @Description The document is normalized (spaces and hyphens stripped) and must be unique within the tenant
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param customer body CustomerRequest true "Customer to add"
// @Success 201 {object} models.Customer
// @Failure 400 {array} ValidationError
// @Failure 409 {object} errorResponse
// @Router /customers [post]
func CreateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateCustomer(req)
	if len(validationErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, validationErrors)
		return
	}

	created, err := customersSvc.Create(r.Context(), GetActor(r).TenantID, customers.CreateInput{
		Document: req.Document,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Notes:    req.Notes,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetCustomersHandler godoc
// @Summary Search the tenant's customers
// @Description A q that looks like a document (six or more digits) resolves to the exact holder; anything else matches name, email, phone and document. Newest first.
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search term"
// @Param active query bool false "Only active customers"
// @Param limit query int false "Maximum results (default 50)"
// @Success 200 {object} CustomersSearchResult
// @Router /customers [get]
func GetCustomersHandler(w http.ResponseWriter, r *http.Request) {
	cf := repo.CustomerFilter{
		Query:      r.URL.Query().Get("q"),
		ActiveOnly: r.URL.Query().Get("active") == "true",
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		cf.Limit = &v
	}

	found, err := customersSvc.Search(r.Context(), GetActor(r).TenantID, cf)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CustomersSearchResult{Data: found, Meta: Meta{TotalCount: len(found)}})
}

// GetCustomerByIDHandler godoc
// @Summary Get customer by ID
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Customer ID"
// @Success 200 {object} models.Customer
// @Failure 404 {object} errorResponse
// @Router /customers/{id} [get]
func GetCustomerByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid customer ID", http.StatusBadRequest)
		return
	}

	customer, err := customersSvc.Get(r.Context(), GetActor(r).TenantID, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// UpdateCustomerHandler godoc
// @Summary Update a customer's directory fields
// @Description Renaming a customer never rewrites past sales; they keep the name snapshotted at sale time
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Customer ID"
// @Param customer body CustomerRequest true "New directory fields"
// @Success 200 {object} models.Customer
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /customers/{id} [put]
func UpdateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid customer ID", http.StatusBadRequest)
		return
	}

	var req CustomerRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateCustomer(req)
	if len(validationErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, validationErrors)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	updated, err := customersSvc.Update(r.Context(), GetActor(r).TenantID, id, customers.UpdateInput{
		Document: req.Document,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Notes:    req.Notes,
		Active:   active,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
