package models

import "time"

// Stock movement reasons. A movement is immutable once written; corrections
// are made with compensating movements, never edits.
const (
	ReasonSale             = "SALE"
	ReasonManualAdjustment = "MANUAL_ADJUSTMENT"
	ReasonRestock          = "RESTOCK"
	ReasonCashSessionVoid  = "CASH_SESSION_VOID"
)

// ValidReason reports whether reason is one of the movement reason constants.
func ValidReason(reason string) bool {
	switch reason {
	case ReasonSale, ReasonManualAdjustment, ReasonRestock, ReasonCashSessionVoid:
		return true
	}
	return false
}

// StockMovement is one signed entry in the append-only stock ledger.
// The sum of all deltas for a product equals its cached stock.
type StockMovement struct {
	ID          int       `json:"id"`
	TenantID    int       `json:"tenant_id"`
	ProductID   int       `json:"product_id"`
	Delta       int       `json:"delta"`
	Reason      string    `json:"reason"`
	ReferenceID int       `json:"reference_id,omitempty"`
	Note        string    `json:"note,omitempty"`
	CreatedBy   int       `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}
