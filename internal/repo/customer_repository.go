package repo

import (
	"context"

	"github.com/boutiquehq/boutique-pos/internal/models"
)

// CustomerFilter narrows a customer search. Query matches name, email, phone
// or document; a query that reads as a document number is matched against the
// normalized document exactly first.
type CustomerFilter struct {
	Query      string
	ActiveOnly bool
	Limit      *int
}

// CustomerRepository owns the tenant's customer directory. Document
// uniqueness is enforced per tenant; creating or renumbering a customer to a
// document another customer already holds fails with ErrDuplicatedValueUnique.
type CustomerRepository interface {
	Create(ctx context.Context, c models.Customer) (models.Customer, error)
	GetByID(ctx context.Context, tenantID, id int) (models.Customer, error)
	Update(ctx context.Context, c models.Customer) (models.Customer, error)

	// Search returns the tenant's customers matching cf, newest first.
	Search(ctx context.Context, tenantID int, cf CustomerFilter) ([]models.Customer, error)
}
