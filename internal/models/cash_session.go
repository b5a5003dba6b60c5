package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CashStatusOpen   = "OPEN"
	CashStatusClosed = "CLOSED"
)

// CashSession is one open-to-close cycle of a till. ExpectedBalance starts at
// OpeningBalance and accrues the payment amount of every sale committed
// against the session; it is never written directly. At most one session per
// (tenant, till) is OPEN at any instant.
type CashSession struct {
	ID             int             `json:"id"`
	TenantID       int             `json:"tenant_id"`
	TillID         string          `json:"till_id"`
	Status         string          `json:"status"`
	OpenedBy       int             `json:"opened_by"`
	OpenedAt       time.Time       `json:"opened_at"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	ExpectedBalance decimal.Decimal `json:"expected_balance"`
	ClosedBy       int             `json:"closed_by,omitempty"`
	ClosedAt       *time.Time      `json:"closed_at,omitempty"`
	CountedBalance decimal.Decimal `json:"counted_balance"`
	Discrepancy    decimal.Decimal `json:"discrepancy"`
}
