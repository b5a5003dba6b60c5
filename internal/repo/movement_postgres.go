package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/boutiquehq/boutique-pos/internal/models"
)

type PostgresMovementRepository struct {
	db *sql.DB
}

func NewPostgresMovementRepository(db *sql.DB) *PostgresMovementRepository {
	return &PostgresMovementRepository{db: db}
}

const defaultMovementLimit = 200

// Apply adjusts the cached stock with an atomic conditional update and
// appends the movement row in the same transaction. Zero rows affected on
// the conditional update means the delta would drive stock negative (or the
// product is missing); nothing is written in that case.
func (r *PostgresMovementRepository) Apply(ctx context.Context, m models.StockMovement) (models.Product, models.StockMovement, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Product{}, models.StockMovement{}, err
	}
	defer tx.Rollback()

	p, m, err := applyMovementTx(ctx, tx, m)
	if err != nil {
		return models.Product{}, models.StockMovement{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Product{}, models.StockMovement{}, err
	}
	return p, m, nil
}

// applyMovementTx is the single stock mutator shared with the sale
// transaction in PostgresSaleRepository.
func applyMovementTx(ctx context.Context, tx *sql.Tx, m models.StockMovement) (models.Product, models.StockMovement, error) {
	update := `UPDATE products
		SET stock = stock + $1, updated_at = $2
		WHERE tenant_id = $3 AND id = $4 AND stock + $1 >= 0
		RETURNING ` + productColumns

	p, err := scanProduct(tx.QueryRowContext(ctx, update, m.Delta, m.CreatedAt, m.TenantID, m.ProductID))
	if errors.Is(err, sql.ErrNoRows) {
		// Missing product and insufficient stock both yield zero rows; look
		// the product up to tell them apart.
		var exists bool
		lookupErr := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM products WHERE tenant_id = $1 AND id = $2)`,
			m.TenantID, m.ProductID).Scan(&exists)
		if lookupErr != nil {
			return models.Product{}, models.StockMovement{}, lookupErr
		}
		if !exists {
			return models.Product{}, models.StockMovement{}, ErrProductNotFound
		}
		return models.Product{}, models.StockMovement{}, fmt.Errorf("product %d: %w", m.ProductID, ErrInsufficientStock)
	}
	if err != nil {
		return models.Product{}, models.StockMovement{}, err
	}

	insert := `INSERT INTO stock_movements (tenant_id, product_id, delta, reason, reference_id, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err = tx.QueryRowContext(ctx, insert, m.TenantID, m.ProductID, m.Delta, m.Reason,
		nullableID(m.ReferenceID), m.Note, m.CreatedBy, m.CreatedAt).Scan(&m.ID)
	if err != nil {
		return models.Product{}, models.StockMovement{}, fmt.Errorf("failed to insert movement: %w", err)
	}
	return p, m, nil
}

func nullableID(id int) any {
	if id == 0 {
		return nil
	}
	return id
}

func (r *PostgresMovementRepository) List(ctx context.Context, tenantID int, mf MovementFilter) ([]models.StockMovement, int, error) {
	whereClause, args := buildMovementWhere(tenantID, mf)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var total int
	countQuery := `SELECT COUNT(*) FROM stock_movements ` + whereClause
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to get total count: %w", err)
	}

	query := `SELECT id, tenant_id, product_id, delta, reason, COALESCE(reference_id, 0), note, created_by, created_at
		FROM stock_movements ` + whereClause + ` ORDER BY created_at DESC, id DESC`
	argIdx := len(args) + 1

	limit := defaultMovementLimit
	if mf.Limit != nil && *mf.Limit > 0 {
		limit = min(*mf.Limit, defaultMovementLimit)
	}
	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, limit)
	argIdx++

	if mf.Offset != nil && *mf.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, *mf.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var movements []models.StockMovement
	for rows.Next() {
		var m models.StockMovement
		if err := rows.Scan(&m.ID, &m.TenantID, &m.ProductID, &m.Delta, &m.Reason,
			&m.ReferenceID, &m.Note, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		movements = append(movements, m)
	}
	return movements, total, rows.Err()
}

func buildMovementWhere(tenantID int, mf MovementFilter) (string, []any) {
	args := []any{tenantID}
	whereClause := "WHERE tenant_id = $1"
	argIdx := 2

	if mf.ProductID != nil {
		whereClause += fmt.Sprintf(" AND product_id = $%d", argIdx)
		args = append(args, *mf.ProductID)
		argIdx++
	}
	if mf.Reason != "" {
		whereClause += fmt.Sprintf(" AND reason = $%d", argIdx)
		args = append(args, mf.Reason)
		argIdx++
	}
	if mf.Since != nil {
		whereClause += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, *mf.Since)
		argIdx++
	}
	if mf.Until != nil {
		whereClause += fmt.Sprintf(" AND created_at <= $%d", argIdx)
		args = append(args, *mf.Until)
	}

	return whereClause, args
}

func (r *PostgresMovementRepository) SumDeltas(ctx context.Context, tenantID, productID int) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE tenant_id = $1 AND id = $2)`,
		tenantID, productID).Scan(&exists)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrProductNotFound
	}

	var sum int
	err = r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(delta), 0) FROM stock_movements WHERE tenant_id = $1 AND product_id = $2`,
		tenantID, productID).Scan(&sum)
	return sum, err
}
