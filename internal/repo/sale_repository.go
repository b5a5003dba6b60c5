package repo

import (
	"context"
	"time"

	"github.com/boutiquehq/boutique-pos/internal/models"
)

// SaleRepository owns sale records and the atomic unit that commits them.
type SaleRepository interface {
	// Create commits the sale as one atomic unit: the sale row with its
	// lines, one SALE stock movement (and cached-stock decrement) per line,
	// and the accrual of the payment amount into the referenced session's
	// expected balance. If any step fails nothing is written.
	//
	// Failure modes: ErrInsufficientStock if any line would drive stock
	// negative, ErrSessionNotOpen if the session closed since it was
	// resolved, ErrProductNotFound if a line references a missing product.
	//
	// When sale.IdempotencyKey is set and a sale with the same key already
	// exists for the tenant, the previously committed sale is returned with
	// existed=true and nothing is written.
	Create(ctx context.Context, sale models.Sale) (committed models.Sale, existed bool, err error)

	GetByID(ctx context.Context, tenantID, id int) (models.Sale, error)

	// InRange returns the tenant's sales with created_at in [from, to),
	// newest first.
	InRange(ctx context.Context, tenantID int, from, to time.Time) ([]models.Sale, error)

	// Recent returns the tenant's most recent sales, newest first.
	Recent(ctx context.Context, tenantID, limit int) ([]models.Sale, error)
}
