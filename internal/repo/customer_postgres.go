package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/boutiquehq/boutique-pos/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresCustomerRepository struct {
	db *sql.DB
}

func NewPostgresCustomerRepository(db *sql.DB) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{db: db}
}

const customerColumns = `id, tenant_id, document, name, email, phone, address, notes, active, created_at, updated_at`

func scanCustomer(row interface{ Scan(...any) error }) (models.Customer, error) {
	var c models.Customer
	err := row.Scan(&c.ID, &c.TenantID, &c.Document, &c.Name, &c.Email, &c.Phone,
		&c.Address, &c.Notes, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// Create inserts a customer. The partial unique index on (tenant_id,
// document) rejects a duplicate document for the tenant.
func (r *PostgresCustomerRepository) Create(ctx context.Context, c models.Customer) (models.Customer, error) {
	query := `INSERT INTO customers (tenant_id, document, name, email, phone, address, notes, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query, c.TenantID, c.Document, c.Name, c.Email,
		c.Phone, c.Address, c.Notes, c.Active, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.Customer{}, ErrDuplicatedValueUnique
		}
		return models.Customer{}, err
	}
	return c, nil
}

func (r *PostgresCustomerRepository) GetByID(ctx context.Context, tenantID, id int) (models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE tenant_id = $1 AND id = $2`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, tenantID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Customer{}, ErrCustomerNotFound
	}
	return c, err
}

// Update rewrites the customer's directory fields. created_at is never
// touched.
func (r *PostgresCustomerRepository) Update(ctx context.Context, c models.Customer) (models.Customer, error) {
	query := `UPDATE customers
		SET document = $1, name = $2, email = $3, phone = $4, address = $5,
			notes = $6, active = $7, updated_at = $8
		WHERE tenant_id = $9 AND id = $10
		RETURNING ` + customerColumns
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	updated, err := scanCustomer(r.db.QueryRowContext(ctx, query, c.Document, c.Name, c.Email,
		c.Phone, c.Address, c.Notes, c.Active, c.UpdatedAt, c.TenantID, c.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Customer{}, ErrCustomerNotFound
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.Customer{}, ErrDuplicatedValueUnique
		}
		return models.Customer{}, err
	}
	return updated, nil
}

// Search returns matching customers, newest first. A query that reads as a
// document number is first matched against the normalized document exactly;
// only when no holder exists does it fall back to the fuzzy match.
func (r *PostgresCustomerRepository) Search(ctx context.Context, tenantID int, cf CustomerFilter) ([]models.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	limit := defaultCustomerLimit
	if cf.Limit != nil && *cf.Limit > 0 {
		limit = *cf.Limit
	}

	activeClause := ""
	if cf.ActiveOnly {
		activeClause = " AND active"
	}

	if models.LooksLikeDocument(cf.Query) {
		query := `SELECT ` + customerColumns + ` FROM customers
			WHERE tenant_id = $1 AND replace(replace(document, '-', ''), ' ', '') = $2` + activeClause +
			` ORDER BY created_at DESC LIMIT 1`
		c, err := scanCustomer(r.db.QueryRowContext(ctx, query, tenantID, models.NormalizeDocument(cf.Query)))
		if err == nil {
			return []models.Customer{c}, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}

	args := []any{tenantID}
	query := `SELECT ` + customerColumns + ` FROM customers WHERE tenant_id = $1` + activeClause
	if cf.Query != "" {
		query += ` AND (name ILIKE $2 OR email ILIKE $2 OR phone ILIKE $2 OR document ILIKE $2)`
		args = append(args, "%"+strings.TrimSpace(cf.Query)+"%")
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}
