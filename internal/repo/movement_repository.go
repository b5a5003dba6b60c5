package repo

import (
	"context"

	"github.com/boutiquehq/boutique-pos/internal/models"
)

// MovementRepository owns the append-only stock ledger and the cached stock
// counter on products.
type MovementRepository interface {
	// Apply appends the movement and adjusts the product's cached stock in
	// one atomic unit. It fails with ErrInsufficientStock, writing nothing,
	// if the resulting stock would be negative, and with ErrProductNotFound
	// if the product does not exist in the tenant's scope.
	Apply(ctx context.Context, m models.StockMovement) (models.Product, models.StockMovement, error)

	// List returns the tenant's movements, newest first, with the total count
	// before pagination.
	List(ctx context.Context, tenantID int, mf MovementFilter) ([]models.StockMovement, int, error)

	// SumDeltas returns the ledger-derived stock of a product: the sum of all
	// its movement deltas.
	SumDeltas(ctx context.Context, tenantID, productID int) (int, error)
}
