package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// schema carries the invariants the ledger depends on:
//   - products.stock has a CHECK (stock >= 0); the application only ever
//     moves it with conditional updates, the constraint is the backstop.
//   - the partial unique index on cash_sessions makes "open" an atomic
//     insert-if-absent: at most one OPEN row per (tenant, till).
//   - sales.idempotency_key is unique per tenant for retry dedup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tenants (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		tenant_id INTEGER REFERENCES tenants(id),
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		tenant_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		sku TEXT NOT NULL DEFAULT '',
		barcode TEXT NOT NULL DEFAULT '',
		cost NUMERIC(12,2) NOT NULL DEFAULT 0,
		price NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (price >= 0),
		stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		min_stock INTEGER NOT NULL DEFAULT 0,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_products_tenant ON products (tenant_id)`,
	`CREATE TABLE IF NOT EXISTS cash_sessions (
		id SERIAL PRIMARY KEY,
		tenant_id INTEGER NOT NULL,
		till_id TEXT NOT NULL,
		status TEXT NOT NULL,
		opened_by INTEGER NOT NULL,
		opened_at TIMESTAMPTZ NOT NULL,
		opening_balance NUMERIC(12,2) NOT NULL DEFAULT 0,
		expected_balance NUMERIC(12,2) NOT NULL DEFAULT 0,
		closed_by INTEGER,
		closed_at TIMESTAMPTZ,
		counted_balance NUMERIC(12,2),
		discrepancy NUMERIC(12,2)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_cash_sessions_open
		ON cash_sessions (tenant_id, till_id) WHERE status = 'OPEN'`,
	`CREATE INDEX IF NOT EXISTS ix_cash_sessions_tenant_status ON cash_sessions (tenant_id, status)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id SERIAL PRIMARY KEY,
		tenant_id INTEGER NOT NULL,
		document TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_customers_document
		ON customers (tenant_id, document) WHERE document <> ''`,
	`CREATE INDEX IF NOT EXISTS ix_customers_tenant_name ON customers (tenant_id, name)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id SERIAL PRIMARY KEY,
		tenant_id INTEGER NOT NULL,
		cash_session_id INTEGER NOT NULL REFERENCES cash_sessions(id),
		customer_id INTEGER,
		customer_name TEXT NOT NULL DEFAULT '',
		payment_method TEXT NOT NULL,
		payment_amount NUMERIC(12,2) NOT NULL,
		total NUMERIC(12,2) NOT NULL,
		idempotency_key TEXT,
		created_by INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_sales_idempotency
		ON sales (tenant_id, idempotency_key) WHERE idempotency_key IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS ix_sales_tenant_created ON sales (tenant_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS sale_lines (
		id SERIAL PRIMARY KEY,
		tenant_id INTEGER NOT NULL,
		sale_id INTEGER NOT NULL REFERENCES sales(id),
		product_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		sku TEXT NOT NULL DEFAULT '',
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC(12,2) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_sale_lines_sale ON sale_lines (sale_id)`,
	`CREATE TABLE IF NOT EXISTS stock_movements (
		id SERIAL PRIMARY KEY,
		tenant_id INTEGER NOT NULL,
		product_id INTEGER NOT NULL,
		delta INTEGER NOT NULL,
		reason TEXT NOT NULL,
		reference_id INTEGER,
		note TEXT NOT NULL DEFAULT '',
		created_by INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_stock_movements_tenant_created ON stock_movements (tenant_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS ix_stock_movements_product ON stock_movements (tenant_id, product_id)`,
}

// Migrate applies the schema statements in order. Safe to run repeatedly.
func Migrate(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
