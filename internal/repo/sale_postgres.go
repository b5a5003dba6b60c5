package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/boutiquehq/boutique-pos/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresSaleRepository struct {
	db *sql.DB
}

func NewPostgresSaleRepository(db *sql.DB) *PostgresSaleRepository {
	return &PostgresSaleRepository{db: db}
}

// Create commits a sale as one database transaction: sale row, lines, one
// SALE movement plus conditional stock decrement per line, and the session
// accrual. Rollback on any failure leaves no partial state.
func (r *PostgresSaleRepository) Create(ctx context.Context, sale models.Sale) (models.Sale, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Sale{}, false, err
	}
	defer tx.Rollback()

	if sale.IdempotencyKey != "" {
		existing, err := r.getByKey(ctx, tx, sale.TenantID, sale.IdempotencyKey)
		if err == nil {
			return existing, true, nil
		}
		if !errors.Is(err, ErrSaleNotFound) {
			return models.Sale{}, false, err
		}
	}

	// Accrue first: the conditional update doubles as the "session still
	// OPEN" check inside the transaction.
	res, err := tx.ExecContext(ctx,
		`UPDATE cash_sessions SET expected_balance = expected_balance + $1
		 WHERE tenant_id = $2 AND id = $3 AND status = 'OPEN'`,
		sale.PaymentAmount, sale.TenantID, sale.CashSessionID)
	if err != nil {
		return models.Sale{}, false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Sale{}, false, ErrSessionNotOpen
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO sales (tenant_id, cash_session_id, customer_id, customer_name, payment_method, payment_amount, total, idempotency_key, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		sale.TenantID, sale.CashSessionID, nullableID(sale.CustomerID), sale.CustomerName,
		sale.PaymentMethod, sale.PaymentAmount, sale.Total,
		nullableKey(sale.IdempotencyKey), sale.CreatedBy, sale.CreatedAt).Scan(&sale.ID)
	if err != nil {
		// Two retries carrying the same key can both pass the dedup lookup;
		// the unique index then rejects the loser, whose caller still gets
		// the winner's sale back.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && sale.IdempotencyKey != "" {
			tx.Rollback()
			existing, lookupErr := r.getByKey(ctx, r.db, sale.TenantID, sale.IdempotencyKey)
			if lookupErr != nil {
				return models.Sale{}, false, lookupErr
			}
			return existing, true, nil
		}
		return models.Sale{}, false, err
	}

	for i, line := range sale.Lines {
		err = tx.QueryRowContext(ctx,
			`INSERT INTO sale_lines (tenant_id, sale_id, product_id, name, sku, quantity, unit_price)
			 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
			sale.TenantID, sale.ID, line.ProductID, line.Name, line.SKU, line.Quantity, line.UnitPrice).
			Scan(&sale.Lines[i].ID)
		if err != nil {
			return models.Sale{}, false, err
		}

		if _, _, err := applyMovementTx(ctx, tx, models.StockMovement{
			TenantID:    sale.TenantID,
			ProductID:   line.ProductID,
			Delta:       -line.Quantity,
			Reason:      models.ReasonSale,
			ReferenceID: sale.ID,
			CreatedBy:   sale.CreatedBy,
			CreatedAt:   sale.CreatedAt,
		}); err != nil {
			return models.Sale{}, false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Sale{}, false, err
	}
	return sale, false, nil
}

func nullableKey(key string) any {
	if key == "" {
		return nil
	}
	return key
}

const saleColumns = `id, tenant_id, cash_session_id, COALESCE(customer_id, 0), customer_name,
	payment_method, payment_amount, total, COALESCE(idempotency_key, ''), created_by, created_at`

func scanSale(row interface{ Scan(...any) error }) (models.Sale, error) {
	var s models.Sale
	err := row.Scan(&s.ID, &s.TenantID, &s.CashSessionID, &s.CustomerID, &s.CustomerName,
		&s.PaymentMethod, &s.PaymentAmount, &s.Total, &s.IdempotencyKey, &s.CreatedBy, &s.CreatedAt)
	return s, err
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// getByKey resolves a sale by its idempotency key within the tenant's scope.
func (r *PostgresSaleRepository) getByKey(ctx context.Context, q rowQuerier, tenantID int, key string) (models.Sale, error) {
	var id int
	err := q.QueryRowContext(ctx,
		`SELECT id FROM sales WHERE tenant_id = $1 AND idempotency_key = $2`,
		tenantID, key).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Sale{}, ErrSaleNotFound
	}
	if err != nil {
		return models.Sale{}, err
	}
	return r.getByIDTx(ctx, q, tenantID, id)
}

func (r *PostgresSaleRepository) getByIDTx(ctx context.Context, q rowQuerier, tenantID, id int) (models.Sale, error) {
	s, err := scanSale(q.QueryRowContext(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Sale{}, ErrSaleNotFound
	}
	if err != nil {
		return models.Sale{}, err
	}

	lines, err := loadLines(ctx, q, tenantID, []int{s.ID})
	if err != nil {
		return models.Sale{}, err
	}
	s.Lines = lines[s.ID]
	return s, nil
}

func loadLines(ctx context.Context, q rowQuerier, tenantID int, saleIDs []int) (map[int][]models.SaleLine, error) {
	if len(saleIDs) == 0 {
		return map[int][]models.SaleLine{}, nil
	}

	params := ""
	args := []any{tenantID}
	for i, id := range saleIDs {
		if i > 0 {
			params += ","
		}
		params += fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}

	rows, err := q.QueryContext(ctx,
		`SELECT id, sale_id, product_id, name, sku, quantity, unit_price
		 FROM sale_lines WHERE tenant_id = $1 AND sale_id IN (`+params+`) ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int][]models.SaleLine{}
	for rows.Next() {
		var l models.SaleLine
		var saleID int
		if err := rows.Scan(&l.ID, &saleID, &l.ProductID, &l.Name, &l.SKU, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, err
		}
		out[saleID] = append(out[saleID], l)
	}
	return out, rows.Err()
}

func (r *PostgresSaleRepository) GetByID(ctx context.Context, tenantID, id int) (models.Sale, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.getByIDTx(ctx, r.db, tenantID, id)
}

func (r *PostgresSaleRepository) InRange(ctx context.Context, tenantID int, from, to time.Time) ([]models.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales
		WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at DESC, id DESC`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.querySales(ctx, query, tenantID, from, to)
}

func (r *PostgresSaleRepository) Recent(ctx context.Context, tenantID, limit int) ([]models.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales
		WHERE tenant_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.querySales(ctx, query, tenantID, limit)
}

func (r *PostgresSaleRepository) querySales(ctx context.Context, query string, tenantID int, args ...any) ([]models.Sale, error) {
	rows, err := r.db.QueryContext(ctx, query, append([]any{tenantID}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []models.Sale
	var ids []int
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lines, err := loadLines(ctx, r.db, tenantID, ids)
	if err != nil {
		return nil, err
	}
	for i := range sales {
		sales[i].Lines = lines[sales[i].ID]
	}
	return sales, nil
}
