package repo

import (
	"context"
	"strings"

	"github.com/boutiquehq/boutique-pos/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of
// ProductRepository over a shared MemoryStore.
type InMemoryProductRepository struct {
	store *MemoryStore
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository(store *MemoryStore) *InMemoryProductRepository {
	return &InMemoryProductRepository{store: store}
}

// Create adds a new product to the repository.
func (r *InMemoryProductRepository) Create(_ context.Context, product models.Product) (models.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	product.ID = r.store.nextProductID
	r.store.nextProductID++
	r.store.products = append(r.store.products, product)
	return product, nil
}

// GetByID retrieves a product by its ID within the tenant's scope.
func (r *InMemoryProductRepository) GetByID(_ context.Context, tenantID, id int) (models.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if i := r.store.productIndex(tenantID, id); i >= 0 {
		return r.store.products[i], nil
	}
	return models.Product{}, ErrProductNotFound
}

// GetAll retrieves all of the tenant's products.
func (r *InMemoryProductRepository) GetAll(_ context.Context, tenantID int) ([]models.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []models.Product
	for _, p := range r.store.products {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	return out, nil
}

func matchesProductFilter(p models.Product, pf ProductFilter) bool {
	if pf.Query != "" {
		q := strings.ToLower(pf.Query)
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.SKU), q) &&
			!strings.Contains(strings.ToLower(p.Barcode), q) {
			return false
		}
	}
	if pf.LowStock && !p.LowStock() {
		return false
	}
	return true
}

// Filter returns the tenant's products matching pf, with the pre-pagination
// total.
func (r *InMemoryProductRepository) Filter(_ context.Context, tenantID int, pf ProductFilter) ([]models.Product, int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var filtered []models.Product
	for _, p := range r.store.products {
		if p.TenantID == tenantID && matchesProductFilter(p, pf) {
			filtered = append(filtered, p)
		}
	}

	if pf.Offset != nil && *pf.Offset > len(filtered) {
		return []models.Product{}, len(filtered), nil
	}

	start := 0
	if pf.Offset != nil {
		start = clamp(*pf.Offset, 0, len(filtered))
	}
	end := len(filtered)
	if pf.Limit != nil && *pf.Limit > 0 {
		end = clamp(start+*pf.Limit, start, len(filtered))
	}

	return filtered[start:end], len(filtered), nil
}

// Update modifies an existing product. Stock is not updatable here; the
// stored value wins.
func (r *InMemoryProductRepository) Update(_ context.Context, product models.Product) (models.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	i := r.store.productIndex(product.TenantID, product.ID)
	if i < 0 {
		return models.Product{}, ErrProductNotFound
	}
	product.Stock = r.store.products[i].Stock
	product.CreatedAt = r.store.products[i].CreatedAt
	r.store.products[i] = product
	return product, nil
}

// Delete removes a product by its ID within the tenant's scope. Fails with
// ErrInvalidArgument while the product still has stock.
func (r *InMemoryProductRepository) Delete(_ context.Context, tenantID, id int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	i := r.store.productIndex(tenantID, id)
	if i < 0 {
		return ErrProductNotFound
	}
	if r.store.products[i].Stock != 0 {
		return ErrInvalidArgument
	}
	r.store.products = append(r.store.products[:i], r.store.products[i+1:]...)
	return nil
}
