package repo

import (
	"context"
	"time"

	"github.com/boutiquehq/boutique-pos/internal/models"
	"github.com/shopspring/decimal"
)

// SessionRepository owns cash session rows. The "at most one OPEN session per
// (tenant, till)" invariant is enforced here as an atomic insert-if-absent,
// never as a read followed by a write.
type SessionRepository interface {
	// Open inserts a new OPEN session. Fails with ErrSessionAlreadyOpen if an
	// OPEN session already exists for (tenant, till).
	Open(ctx context.Context, s models.CashSession) (models.CashSession, error)

	GetByID(ctx context.Context, tenantID, id int) (models.CashSession, error)

	// Current returns the OPEN session for the till, or ErrNoOpenSession.
	Current(ctx context.Context, tenantID int, tillID string) (models.CashSession, error)

	// Close transitions an OPEN session to CLOSED, recording the counted
	// balance and the discrepancy (counted - expected). Fails with
	// ErrSessionNotOpen if the session is already closed, ErrSessionNotFound
	// if it does not exist in the tenant's scope.
	Close(ctx context.Context, tenantID, id int, counted decimal.Decimal, closedBy int, closedAt time.Time) (models.CashSession, error)

	// Closed returns the tenant's CLOSED sessions, newest first.
	Closed(ctx context.Context, tenantID int) ([]models.CashSession, error)
}
