package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/boutiquehq/boutique-pos/internal/models"
)

const queryTimeout = 3 * time.Second

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

const productColumns = `id, tenant_id, name, sku, barcode, cost, price, stock, min_stock, active, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.TenantID, &p.Name, &p.SKU, &p.Barcode, &p.Cost, &p.Price,
		&p.Stock, &p.MinStock, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PostgresProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	query := `INSERT INTO products (tenant_id, name, sku, barcode, cost, price, stock, min_stock, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query, p.TenantID, p.Name, p.SKU, p.Barcode, p.Cost, p.Price,
		p.Stock, p.MinStock, p.Active, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	return p, err
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, tenantID, id int) (models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND id = $2`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, tenantID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) GetAll(ctx context.Context, tenantID int) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PostgresProductRepository) Filter(ctx context.Context, tenantID int, pf ProductFilter) ([]models.Product, int, error) {
	conditions := ""
	args := []any{tenantID}
	argIdx := 2

	if pf.Query != "" {
		conditions += fmt.Sprintf(" AND (name ILIKE $%d OR sku ILIKE $%d OR barcode ILIKE $%d)", argIdx, argIdx, argIdx)
		args = append(args, "%"+pf.Query+"%")
		argIdx++
	}
	if pf.LowStock {
		conditions += " AND stock <= min_stock"
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var totalCount int
	countQuery := `SELECT COUNT(*) FROM products WHERE tenant_id = $1` + conditions
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1` + conditions + ` ORDER BY id`
	if pf.Limit != nil && *pf.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, *pf.Limit)
		argIdx++
	}
	if pf.Offset != nil && *pf.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, *pf.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, totalCount, rows.Err()
}

// Update never touches stock: the cached counter belongs to the movement
// ledger.
func (r *PostgresProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	query := `UPDATE products SET name = $1, sku = $2, barcode = $3, cost = $4, price = $5,
		min_stock = $6, active = $7, updated_at = $8
		WHERE tenant_id = $9 AND id = $10
		RETURNING ` + productColumns
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	updated, err := scanProduct(r.db.QueryRowContext(ctx, query, p.Name, p.SKU, p.Barcode, p.Cost, p.Price,
		p.MinStock, p.Active, p.UpdatedAt, p.TenantID, p.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return updated, err
}

// Delete removes a product, only while its stock is zero.
func (r *PostgresProductRepository) Delete(ctx context.Context, tenantID, id int) error {
	query := `DELETE FROM products WHERE tenant_id = $1 AND id = $2 AND stock = 0`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, tenantID, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		// Distinguish missing from still-stocked.
		var stock int
		err := r.db.QueryRowContext(ctx, `SELECT stock FROM products WHERE tenant_id = $1 AND id = $2`, tenantID, id).Scan(&stock)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}
		return ErrInvalidArgument
	}
	return nil
}
