package repo

import (
	"context"

	"github.com/boutiquehq/boutique-pos/internal/models"
)

// ProductRepository defines the interface for product data operations.
// Every operation is scoped to a tenant; a product belonging to another
// tenant behaves exactly like a missing one.
//
// Stock is intentionally absent from the write operations here: it is a
// cached projection of the movement ledger and only MovementRepository.Apply
// may change it.
type ProductRepository interface {
	Create(ctx context.Context, product models.Product) (models.Product, error)
	GetByID(ctx context.Context, tenantID, id int) (models.Product, error)
	GetAll(ctx context.Context, tenantID int) ([]models.Product, error)
	Filter(ctx context.Context, tenantID int, pf ProductFilter) ([]models.Product, int, error)
	Update(ctx context.Context, product models.Product) (models.Product, error)
	Delete(ctx context.Context, tenantID, id int) error
}
