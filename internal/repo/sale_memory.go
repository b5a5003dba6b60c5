package repo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/boutiquehq/boutique-pos/internal/models"
)

type InMemorySaleRepository struct {
	store *MemoryStore
}

func NewInMemorySaleRepository(store *MemoryStore) *InMemorySaleRepository {
	return &InMemorySaleRepository{store: store}
}

// Create commits the sale atomically: the whole critical section runs under
// the store lock and mutations are staged so that any line failure leaves the
// store untouched.
func (r *InMemorySaleRepository) Create(_ context.Context, sale models.Sale) (models.Sale, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if sale.IdempotencyKey != "" {
		for _, existing := range r.store.sales {
			if existing.TenantID == sale.TenantID && existing.IdempotencyKey == sale.IdempotencyKey {
				return existing, true, nil
			}
		}
	}

	si := r.store.sessionIndex(sale.TenantID, sale.CashSessionID)
	if si < 0 {
		return models.Sale{}, false, ErrNoOpenSession
	}
	if r.store.sessions[si].Status != models.CashStatusOpen {
		return models.Sale{}, false, ErrSessionNotOpen
	}

	// Stage the stock checks against a scratch copy before mutating anything,
	// so a failing line aborts with zero side effects.
	staged := map[int]int{}
	for _, line := range sale.Lines {
		pi := r.store.productIndex(sale.TenantID, line.ProductID)
		if pi < 0 {
			return models.Sale{}, false, fmt.Errorf("line product %d: %w", line.ProductID, ErrProductNotFound)
		}
		after := r.store.products[pi].Stock - staged[pi] - line.Quantity
		if after < 0 {
			return models.Sale{}, false, fmt.Errorf("product %d: %w", line.ProductID, ErrInsufficientStock)
		}
		staged[pi] += line.Quantity
	}

	sale.ID = r.store.nextSaleID
	r.store.nextSaleID++
	for i := range sale.Lines {
		sale.Lines[i].ID = r.store.nextLineID
		r.store.nextLineID++
	}

	for _, line := range sale.Lines {
		if _, _, err := r.store.applyMovement(models.StockMovement{
			TenantID:    sale.TenantID,
			ProductID:   line.ProductID,
			Delta:       -line.Quantity,
			Reason:      models.ReasonSale,
			ReferenceID: sale.ID,
			CreatedBy:   sale.CreatedBy,
			CreatedAt:   sale.CreatedAt,
		}); err != nil {
			// Unreachable after staging; surface it rather than hide a bug.
			return models.Sale{}, false, err
		}
	}

	r.store.sessions[si].ExpectedBalance = r.store.sessions[si].ExpectedBalance.Add(sale.PaymentAmount)
	r.store.sales = append(r.store.sales, sale)
	return sale, false, nil
}

func (r *InMemorySaleRepository) GetByID(_ context.Context, tenantID, id int) (models.Sale, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, s := range r.store.sales {
		if s.ID == id && s.TenantID == tenantID {
			return s, nil
		}
	}
	return models.Sale{}, ErrSaleNotFound
}

func (r *InMemorySaleRepository) InRange(_ context.Context, tenantID int, from, to time.Time) ([]models.Sale, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []models.Sale
	for _, s := range r.store.sales {
		if s.TenantID == tenantID && !s.CreatedAt.Before(from) && s.CreatedAt.Before(to) {
			out = append(out, s)
		}
	}
	sortSalesNewestFirst(out)
	return out, nil
}

func sortSalesNewestFirst(out []models.Sale) {
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
}

func (r *InMemorySaleRepository) Recent(_ context.Context, tenantID, limit int) ([]models.Sale, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []models.Sale
	for _, s := range r.store.sales {
		if s.TenantID == tenantID {
			out = append(out, s)
		}
	}
	sortSalesNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
