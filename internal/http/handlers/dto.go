package handlers

import (
	"github.com/boutiquehq/boutique-pos/internal/models"
	"github.com/shopspring/decimal"
)

type ProductRequest struct {
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Barcode      string          `json:"barcode"`
	Cost         decimal.Decimal `json:"cost"`
	Price        decimal.Decimal `json:"price"`
	MinStock     int             `json:"min_stock"`
	InitialStock int             `json:"initial_stock,omitempty"`
	Active       *bool           `json:"active,omitempty"`
}

type ProductResponse struct {
	Id       int             `json:"id"`
	Name     string          `json:"name"`
	SKU      string          `json:"sku,omitempty"`
	Barcode  string          `json:"barcode,omitempty"`
	Cost     decimal.Decimal `json:"cost"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	MinStock int             `json:"min_stock"`
	Active   bool            `json:"active"`
	LowStock bool            `json:"low_stock,omitempty"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		Id:       p.ID,
		Name:     p.Name,
		SKU:      p.SKU,
		Barcode:  p.Barcode,
		Cost:     p.Cost,
		Price:    p.Price,
		Stock:    p.Stock,
		MinStock: p.MinStock,
		Active:   p.Active,
		LowStock: p.LowStock(),
	}
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type ProductsSearchResult struct {
	Data []ProductResponse `json:"data"`
	Meta Meta              `json:"meta,omitempty"`
}

type AdjustStockRequest struct {
	Delta  int    `json:"delta"` // can be positive or negative
	Reason string `json:"reason"`
	Note   string `json:"note,omitempty"`
}

type AdjustStockResponse struct {
	Product  ProductResponse      `json:"product"`
	Movement models.StockMovement `json:"movement"`
}

type MovementsSearchResult struct {
	Data []models.StockMovement `json:"data"`
	Meta Meta                   `json:"meta,omitempty"`
}

type OpenSessionRequest struct {
	TillID         string          `json:"till_id"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

type CloseSessionRequest struct {
	CountedBalance decimal.Decimal `json:"counted_balance"`
}

type SaleLineRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type SaleRequest struct {
	TillID         string            `json:"till_id"`
	Lines          []SaleLineRequest `json:"lines"`
	CustomerID     int               `json:"customer_id,omitempty"`
	CustomerName   string            `json:"customer_name,omitempty"`
	PaymentMethod  string            `json:"payment_method"`
	PaymentAmount  decimal.Decimal   `json:"payment_amount"`
	IdempotencyKey string            `json:"idempotency_key,omitempty"`
}

type CustomerRequest struct {
	Document string `json:"document,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Notes    string `json:"notes,omitempty"`
	Active   *bool  `json:"active,omitempty"`
}

type CustomersSearchResult struct {
	Data []models.Customer `json:"data"`
	Meta Meta              `json:"meta,omitempty"`
}

type UserLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}
