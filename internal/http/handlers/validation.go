package handlers

import (
	"strings"

	"github.com/boutiquehq/boutique-pos/internal/models"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func validateProduct(req ProductRequest) []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, ValidationError{Field: "Name", Message: "name is required"})
	}
	if req.Price.IsNegative() {
		errs = append(errs, ValidationError{Field: "Price", Message: "price must be non-negative"})
	}
	if req.Cost.IsNegative() {
		errs = append(errs, ValidationError{Field: "Cost", Message: "cost must be non-negative"})
	}
	if req.InitialStock < 0 {
		errs = append(errs, ValidationError{Field: "InitialStock", Message: "initial stock must be non-negative"})
	}
	if req.MinStock < 0 {
		errs = append(errs, ValidationError{Field: "MinStock", Message: "min stock must be non-negative"})
	}
	return errs
}

func validateCustomer(req CustomerRequest) []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, ValidationError{Field: "Name", Message: "name is required"})
	}
	return errs
}

func validateSale(req SaleRequest) []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(req.TillID) == "" {
		errs = append(errs, ValidationError{Field: "TillID", Message: "till is required"})
	}
	if len(req.Lines) == 0 {
		errs = append(errs, ValidationError{Field: "Lines", Message: "at least one line is required"})
	}
	for _, line := range req.Lines {
		if line.ProductID <= 0 {
			errs = append(errs, ValidationError{Field: "Lines", Message: "product_id is required on every line"})
			break
		}
	}
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			errs = append(errs, ValidationError{Field: "Lines", Message: "quantity must be a positive integer"})
			break
		}
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		errs = append(errs, ValidationError{Field: "PaymentMethod", Message: "unknown payment method"})
	}
	if req.PaymentAmount.IsNegative() {
		errs = append(errs, ValidationError{Field: "PaymentAmount", Message: "payment amount must be non-negative"})
	}
	return errs
}
