package repo

import (
	"context"
	"sort"

	"github.com/boutiquehq/boutique-pos/internal/models"
)

type InMemoryMovementRepository struct {
	store *MemoryStore
}

func NewInMemoryMovementRepository(store *MemoryStore) *InMemoryMovementRepository {
	return &InMemoryMovementRepository{store: store}
}

// Apply appends the movement and updates the product's cached stock under the
// store lock, so the check-then-write is atomic.
func (r *InMemoryMovementRepository) Apply(_ context.Context, m models.StockMovement) (models.Product, models.StockMovement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.applyMovement(m)
}

func matchesMovementFilter(m models.StockMovement, mf MovementFilter) bool {
	if mf.ProductID != nil && m.ProductID != *mf.ProductID {
		return false
	}
	if mf.Reason != "" && m.Reason != mf.Reason {
		return false
	}
	if mf.Since != nil && m.CreatedAt.Before(*mf.Since) {
		return false
	}
	if mf.Until != nil && m.CreatedAt.After(*mf.Until) {
		return false
	}
	return true
}

// List returns the tenant's movements, newest first, optionally filtered and
// paginated.
func (r *InMemoryMovementRepository) List(_ context.Context, tenantID int, mf MovementFilter) ([]models.StockMovement, int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var filtered []models.StockMovement
	for _, m := range r.store.movements {
		if m.TenantID == tenantID && matchesMovementFilter(m, mf) {
			filtered = append(filtered, m)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	if mf.Offset != nil && *mf.Offset > len(filtered) {
		return []models.StockMovement{}, len(filtered), nil
	}

	start := 0
	if mf.Offset != nil {
		start = clamp(*mf.Offset, 0, len(filtered))
	}
	end := len(filtered)
	if mf.Limit != nil && *mf.Limit > 0 {
		end = clamp(start+*mf.Limit, start, len(filtered))
	}

	return filtered[start:end], len(filtered), nil
}

// SumDeltas returns the ledger-derived stock for a product.
func (r *InMemoryMovementRepository) SumDeltas(_ context.Context, tenantID, productID int) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.productIndex(tenantID, productID) < 0 {
		return 0, ErrProductNotFound
	}

	sum := 0
	for _, m := range r.store.movements {
		if m.TenantID == tenantID && m.ProductID == productID {
			sum += m.Delta
		}
	}
	return sum, nil
}
