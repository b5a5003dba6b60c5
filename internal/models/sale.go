package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment methods accepted at the till.
const (
	PaymentCash     = "CASH"
	PaymentDebit    = "DEBIT"
	PaymentCredit   = "CREDIT"
	PaymentTransfer = "TRANSFER"
)

// ValidPaymentMethod reports whether method is one of the payment constants.
func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentCash, PaymentDebit, PaymentCredit, PaymentTransfer:
		return true
	}
	return false
}

// SaleLine is one product line of a sale. UnitPrice is the catalog price
// snapshotted at sale time, so later price changes never alter history.
type SaleLine struct {
	ID        int             `json:"id"`
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Total is quantity times unit price for this line.
func (l SaleLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Sale is an immutable record of a completed sale. It only exists fully
// committed: its lines, the matching SALE stock movements, and the cash
// session accrual are written in the same atomic unit. Customer attribution
// is optional; CustomerName is a snapshot like the line prices, so renaming
// a customer later never rewrites sale history.
type Sale struct {
	ID             int             `json:"id"`
	TenantID       int             `json:"tenant_id"`
	CashSessionID  int             `json:"cash_session_id"`
	CustomerID     int             `json:"customer_id,omitempty"`
	CustomerName   string          `json:"customer_name,omitempty"`
	Lines          []SaleLine      `json:"lines"`
	PaymentMethod  string          `json:"payment_method"`
	PaymentAmount  decimal.Decimal `json:"payment_amount"`
	Total          decimal.Decimal `json:"total"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
	CreatedBy      int             `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
}
