package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/boutiquehq/boutique-pos/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

type PostgresSessionRepository struct {
	db *sql.DB
}

func NewPostgresSessionRepository(db *sql.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

const sessionColumns = `id, tenant_id, till_id, status, opened_by, opened_at, opening_balance,
	expected_balance, COALESCE(closed_by, 0), closed_at, COALESCE(counted_balance, 0), COALESCE(discrepancy, 0)`

func scanSession(row interface{ Scan(...any) error }) (models.CashSession, error) {
	var s models.CashSession
	err := row.Scan(&s.ID, &s.TenantID, &s.TillID, &s.Status, &s.OpenedBy, &s.OpenedAt,
		&s.OpeningBalance, &s.ExpectedBalance, &s.ClosedBy, &s.ClosedAt, &s.CountedBalance, &s.Discrepancy)
	return s, err
}

// Open relies on the partial unique index on (tenant_id, till_id) WHERE
// status = 'OPEN': the insert itself is the insert-if-absent, so two
// concurrent opens cannot both succeed.
func (r *PostgresSessionRepository) Open(ctx context.Context, s models.CashSession) (models.CashSession, error) {
	query := `INSERT INTO cash_sessions (tenant_id, till_id, status, opened_by, opened_at, opening_balance, expected_balance)
		VALUES ($1, $2, 'OPEN', $3, $4, $5, $5) RETURNING id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query, s.TenantID, s.TillID, s.OpenedBy, s.OpenedAt, s.OpeningBalance).Scan(&s.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.CashSession{}, ErrSessionAlreadyOpen
		}
		return models.CashSession{}, err
	}
	s.Status = models.CashStatusOpen
	s.ExpectedBalance = s.OpeningBalance
	return s, nil
}

func (r *PostgresSessionRepository) GetByID(ctx context.Context, tenantID, id int) (models.CashSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM cash_sessions WHERE tenant_id = $1 AND id = $2`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	s, err := scanSession(r.db.QueryRowContext(ctx, query, tenantID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.CashSession{}, ErrSessionNotFound
	}
	return s, err
}

func (r *PostgresSessionRepository) Current(ctx context.Context, tenantID int, tillID string) (models.CashSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM cash_sessions
		WHERE tenant_id = $1 AND till_id = $2 AND status = 'OPEN'`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	s, err := scanSession(r.db.QueryRowContext(ctx, query, tenantID, tillID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.CashSession{}, ErrNoOpenSession
	}
	return s, err
}

// Close is a conditional update on status = 'OPEN'; the discrepancy is
// computed in the same statement from the stored expected balance.
func (r *PostgresSessionRepository) Close(ctx context.Context, tenantID, id int, counted decimal.Decimal, closedBy int, closedAt time.Time) (models.CashSession, error) {
	query := `UPDATE cash_sessions
		SET status = 'CLOSED', closed_by = $1, closed_at = $2,
			counted_balance = $3, discrepancy = $3 - expected_balance
		WHERE tenant_id = $4 AND id = $5 AND status = 'OPEN'
		RETURNING ` + sessionColumns
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	s, err := scanSession(r.db.QueryRowContext(ctx, query, closedBy, closedAt, counted, tenantID, id))
	if errors.Is(err, sql.ErrNoRows) {
		// Zero rows: either the session is gone or it is already closed.
		if _, getErr := r.GetByID(ctx, tenantID, id); errors.Is(getErr, ErrSessionNotFound) {
			return models.CashSession{}, ErrSessionNotFound
		}
		return models.CashSession{}, ErrSessionNotOpen
	}
	return s, err
}

func (r *PostgresSessionRepository) Closed(ctx context.Context, tenantID int) ([]models.CashSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM cash_sessions
		WHERE tenant_id = $1 AND status = 'CLOSED' ORDER BY closed_at DESC`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.CashSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
