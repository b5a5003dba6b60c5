package repo

import (
	"context"
	"sort"
	"time"

	"github.com/boutiquehq/boutique-pos/internal/models"
	"github.com/shopspring/decimal"
)

type InMemorySessionRepository struct {
	store *MemoryStore
}

func NewInMemorySessionRepository(store *MemoryStore) *InMemorySessionRepository {
	return &InMemorySessionRepository{store: store}
}

// Open inserts a new OPEN session, insert-if-absent under the store lock.
func (r *InMemorySessionRepository) Open(_ context.Context, s models.CashSession) (models.CashSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.sessions {
		if existing.TenantID == s.TenantID && existing.TillID == s.TillID &&
			existing.Status == models.CashStatusOpen {
			return models.CashSession{}, ErrSessionAlreadyOpen
		}
	}

	s.ID = r.store.nextSessionID
	r.store.nextSessionID++
	s.Status = models.CashStatusOpen
	s.ExpectedBalance = s.OpeningBalance
	r.store.sessions = append(r.store.sessions, s)
	return s, nil
}

func (r *InMemorySessionRepository) GetByID(_ context.Context, tenantID, id int) (models.CashSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if i := r.store.sessionIndex(tenantID, id); i >= 0 {
		return r.store.sessions[i], nil
	}
	return models.CashSession{}, ErrSessionNotFound
}

func (r *InMemorySessionRepository) Current(_ context.Context, tenantID int, tillID string) (models.CashSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, s := range r.store.sessions {
		if s.TenantID == tenantID && s.TillID == tillID && s.Status == models.CashStatusOpen {
			return s, nil
		}
	}
	return models.CashSession{}, ErrNoOpenSession
}

// Close freezes an OPEN session, computing discrepancy = counted - expected.
func (r *InMemorySessionRepository) Close(_ context.Context, tenantID, id int, counted decimal.Decimal, closedBy int, closedAt time.Time) (models.CashSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	i := r.store.sessionIndex(tenantID, id)
	if i < 0 {
		return models.CashSession{}, ErrSessionNotFound
	}
	if r.store.sessions[i].Status != models.CashStatusOpen {
		return models.CashSession{}, ErrSessionNotOpen
	}

	s := r.store.sessions[i]
	s.Status = models.CashStatusClosed
	s.ClosedBy = closedBy
	s.ClosedAt = &closedAt
	s.CountedBalance = counted
	s.Discrepancy = counted.Sub(s.ExpectedBalance)
	r.store.sessions[i] = s
	return s, nil
}

func (r *InMemorySessionRepository) Closed(_ context.Context, tenantID int) ([]models.CashSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []models.CashSession
	for _, s := range r.store.sessions {
		if s.TenantID == tenantID && s.Status == models.CashStatusClosed {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ClosedAt.After(*out[j].ClosedAt)
	})
	return out, nil
}
