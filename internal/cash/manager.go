package cash

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/boutiquehq/boutique-pos/internal/models"
	"github.com/boutiquehq/boutique-pos/internal/repo"
	"github.com/shopspring/decimal"
)

// Manager is the cash session state machine: OPEN to CLOSED, one OPEN session
// per (tenant, till). Accrual of sale payments into the expected balance
// happens inside the sale transaction, not here.
type Manager struct {
	sessions repo.SessionRepository
}

func NewManager(sessions repo.SessionRepository) *Manager {
	return &Manager{sessions: sessions}
}

// Open starts a session for the till. Fails with repo.ErrSessionAlreadyOpen
// if one is already OPEN; the uniqueness check is atomic in the repository.
func (m *Manager) Open(ctx context.Context, tenantID int, tillID string, openingBalance decimal.Decimal, actor int) (models.CashSession, error) {
	if strings.TrimSpace(tillID) == "" {
		return models.CashSession{}, fmt.Errorf("%w: till is required", repo.ErrInvalidArgument)
	}
	if openingBalance.IsNegative() {
		return models.CashSession{}, fmt.Errorf("%w: opening balance must be non-negative", repo.ErrInvalidArgument)
	}

	return m.sessions.Open(ctx, models.CashSession{
		TenantID:       tenantID,
		TillID:         strings.TrimSpace(tillID),
		OpenedBy:       actor,
		OpenedAt:       time.Now().UTC(),
		OpeningBalance: openingBalance,
	})
}

// Close freezes an OPEN session and records discrepancy = counted - expected.
func (m *Manager) Close(ctx context.Context, tenantID, sessionID int, countedBalance decimal.Decimal, actor int) (models.CashSession, error) {
	if countedBalance.IsNegative() {
		return models.CashSession{}, fmt.Errorf("%w: counted balance must be non-negative", repo.ErrInvalidArgument)
	}
	return m.sessions.Close(ctx, tenantID, sessionID, countedBalance, actor, time.Now().UTC())
}

// Current returns the OPEN session for the till, or repo.ErrNoOpenSession.
func (m *Manager) Current(ctx context.Context, tenantID int, tillID string) (models.CashSession, error) {
	return m.sessions.Current(ctx, tenantID, tillID)
}

// Get returns a session by ID within the tenant's scope.
func (m *Manager) Get(ctx context.Context, tenantID, sessionID int) (models.CashSession, error) {
	return m.sessions.GetByID(ctx, tenantID, sessionID)
}
