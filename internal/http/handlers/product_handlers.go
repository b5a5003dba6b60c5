package handlers

import (
	"net/http"
	"strconv"

	"github.com/boutiquehq/boutique-pos/internal/catalog"
	"github.com/boutiquehq/boutique-pos/internal/repo"
	"github.com/go-chi/chi/v5"
)

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the tenant's catalog; initial stock is booked as a RESTOCK movement
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductResponse
// @Failure 400 {array} ValidationError
// @Router /products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateProduct(req)
	if len(validationErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, validationErrors)
		return
	}

	actor := GetActor(r)
	created, err := catalogSvc.Create(r.Context(), actor.TenantID, catalog.CreateInput{
		Name:         req.Name,
		SKU:          req.SKU,
		Barcode:      req.Barcode,
		Cost:         req.Cost,
		Price:        req.Price,
		MinStock:     req.MinStock,
		InitialStock: req.InitialStock,
	}, actor.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProductResponse(created))
}

// GetProductsHandler godoc
// @Summary List the tenant's products
// @Description Optional q (name/sku/barcode), low_stock, limit, offset query parameters
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProductsSearchResult
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	pf := repo.ProductFilter{
		Query:    r.URL.Query().Get("q"),
		LowStock: r.URL.Query().Get("low_stock") == "true",
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		pf.Limit = &v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
		pf.Offset = &v
	}

	products, total, err := catalogSvc.List(r.Context(), GetActor(r).TenantID, pf)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result := ProductsSearchResult{
		Data: make([]ProductResponse, len(products)),
		Meta: Meta{TotalCount: total},
	}
	for i, p := range products {
		result.Data[i] = toProductResponse(p)
	}
	writeJSON(w, http.StatusOK, result)
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 404 {object} errorResponse
// @Router /products/{id} [get]
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	product, err := catalogSvc.Get(r.Context(), GetActor(r).TenantID, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// UpdateProductHandler godoc
// @Summary Update a product's catalog fields
// @Description Stock is not updatable here; it only moves through the ledger
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param product body ProductRequest true "New catalog fields"
// @Success 200 {object} ProductResponse
// @Router /products/{id} [put]
func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateProduct(req)
	if len(validationErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, validationErrors)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	updated, err := catalogSvc.Update(r.Context(), GetActor(r).TenantID, id, catalog.UpdateInput{
		Name:     req.Name,
		SKU:      req.SKU,
		Barcode:  req.Barcode,
		Cost:     req.Cost,
		Price:    req.Price,
		MinStock: req.MinStock,
		Active:   active,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(updated))
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Description Only products with zero stock can be deleted
// @Tags products
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 204 "Deleted successfully"
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /products/{id} [delete]
func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	if err := catalogSvc.Delete(r.Context(), GetActor(r).TenantID, id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
