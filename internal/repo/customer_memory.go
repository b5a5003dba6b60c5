package repo

import (
	"context"
	"sort"
	"strings"

	"github.com/boutiquehq/boutique-pos/internal/models"
)

const defaultCustomerLimit = 50

type InMemoryCustomerRepository struct {
	store *MemoryStore
}

func NewInMemoryCustomerRepository(store *MemoryStore) *InMemoryCustomerRepository {
	return &InMemoryCustomerRepository{store: store}
}

// documentTaken reports whether another customer of the tenant already holds
// the document. Callers hold the store lock.
func (r *InMemoryCustomerRepository) documentTaken(tenantID int, document string, excludeID int) bool {
	if document == "" {
		return false
	}
	for _, c := range r.store.customers {
		if c.TenantID == tenantID && c.ID != excludeID && c.Document == document {
			return true
		}
	}
	return false
}

func (r *InMemoryCustomerRepository) Create(_ context.Context, c models.Customer) (models.Customer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.documentTaken(c.TenantID, c.Document, 0) {
		return models.Customer{}, ErrDuplicatedValueUnique
	}

	c.ID = r.store.nextCustomerID
	r.store.nextCustomerID++
	r.store.customers = append(r.store.customers, c)
	return c, nil
}

func (r *InMemoryCustomerRepository) GetByID(_ context.Context, tenantID, id int) (models.Customer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if i := r.store.customerIndex(tenantID, id); i >= 0 {
		return r.store.customers[i], nil
	}
	return models.Customer{}, ErrCustomerNotFound
}

func (r *InMemoryCustomerRepository) Update(_ context.Context, c models.Customer) (models.Customer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	i := r.store.customerIndex(c.TenantID, c.ID)
	if i < 0 {
		return models.Customer{}, ErrCustomerNotFound
	}
	if r.documentTaken(c.TenantID, c.Document, c.ID) {
		return models.Customer{}, ErrDuplicatedValueUnique
	}
	c.CreatedAt = r.store.customers[i].CreatedAt
	r.store.customers[i] = c
	return c, nil
}

func matchesCustomer(c models.Customer, q string) bool {
	return strings.Contains(strings.ToLower(c.Name), q) ||
		strings.Contains(strings.ToLower(c.Email), q) ||
		strings.Contains(strings.ToLower(c.Phone), q) ||
		strings.Contains(strings.ToLower(c.Document), q)
}

// Search returns matching customers, newest first. A query that reads as a
// document number returns the exact document holder alone when one exists.
func (r *InMemoryCustomerRepository) Search(_ context.Context, tenantID int, cf CustomerFilter) ([]models.Customer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if models.LooksLikeDocument(cf.Query) {
		doc := models.NormalizeDocument(cf.Query)
		for _, c := range r.store.customers {
			if c.TenantID == tenantID && models.NormalizeDocument(c.Document) == doc {
				if cf.ActiveOnly && !c.Active {
					break
				}
				return []models.Customer{c}, nil
			}
		}
	}

	q := strings.ToLower(strings.TrimSpace(cf.Query))
	var out []models.Customer
	for _, c := range r.store.customers {
		if c.TenantID != tenantID {
			continue
		}
		if cf.ActiveOnly && !c.Active {
			continue
		}
		if q != "" && !matchesCustomer(c, q) {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	limit := defaultCustomerLimit
	if cf.Limit != nil && *cf.Limit > 0 {
		limit = *cf.Limit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
