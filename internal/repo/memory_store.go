package repo

import (
	"sync"

	"github.com/boutiquehq/boutique-pos/internal/models"
)

// MemoryStore backs the in-memory repositories. All of them share the same
// store and the same mutex, so a multi-entity write like a sale holds the
// lock for its whole critical section and is atomic relative to every other
// operation, matching what a database transaction gives the Postgres
// implementations.
type MemoryStore struct {
	mu sync.Mutex

	products  []models.Product
	movements []models.StockMovement
	sessions  []models.CashSession
	sales     []models.Sale
	users     []models.User
	customers []models.Customer

	nextProductID  int
	nextMovementID int
	nextSessionID  int
	nextSaleID     int
	nextLineID     int
	nextUserID     int
	nextCustomerID int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextProductID:  1,
		nextMovementID: 1,
		nextSessionID:  1,
		nextSaleID:     1,
		nextLineID:     1,
		nextUserID:     1,
		nextCustomerID: 1,
	}
}

// Reset drops all data. Test helper.
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = nil
	s.movements = nil
	s.sessions = nil
	s.sales = nil
	s.users = nil
	s.customers = nil
	s.nextProductID = 1
	s.nextMovementID = 1
	s.nextSessionID = 1
	s.nextSaleID = 1
	s.nextLineID = 1
	s.nextUserID = 1
	s.nextCustomerID = 1
}

func (s *MemoryStore) productIndex(tenantID, id int) int {
	for i, p := range s.products {
		if p.ID == id && p.TenantID == tenantID {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) customerIndex(tenantID, id int) int {
	for i, c := range s.customers {
		if c.ID == id && c.TenantID == tenantID {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) sessionIndex(tenantID, id int) int {
	for i, c := range s.sessions {
		if c.ID == id && c.TenantID == tenantID {
			return i
		}
	}
	return -1
}

// applyMovement is the single stock mutator: check-then-write under the store
// lock, movement append and cached-stock update together. Callers must hold
// s.mu.
func (s *MemoryStore) applyMovement(m models.StockMovement) (models.Product, models.StockMovement, error) {
	i := s.productIndex(m.TenantID, m.ProductID)
	if i < 0 {
		return models.Product{}, models.StockMovement{}, ErrProductNotFound
	}
	if s.products[i].Stock+m.Delta < 0 {
		return models.Product{}, models.StockMovement{}, ErrInsufficientStock
	}

	s.products[i].Stock += m.Delta
	s.products[i].UpdatedAt = m.CreatedAt

	m.ID = s.nextMovementID
	s.nextMovementID++
	s.movements = append(s.movements, m)

	return s.products[i], m, nil
}
