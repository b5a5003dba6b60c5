package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog entry. Stock is a cached projection of the
// stock movement ledger: it is only ever written in the same transaction as a
// movement insert, never directly.
type Product struct {
	ID        int             `json:"id"`
	TenantID  int             `json:"tenant_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku,omitempty"`
	Barcode   string          `json:"barcode,omitempty"`
	Cost      decimal.Decimal `json:"cost"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	MinStock  int             `json:"min_stock"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// LowStock reports whether the product is at or below its restock threshold.
func (p Product) LowStock() bool {
	return p.Stock <= p.MinStock
}
