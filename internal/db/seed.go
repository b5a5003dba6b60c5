package db

import (
	"context"
	"database/sql"
	"time"
)

// EnsureDefaultTenant makes sure the bootstrap tenant exists and returns its
// id. Tenant provisioning proper is an external concern; this only gives a
// fresh deployment somewhere to hang the first admin user.
func EnsureDefaultTenant(db *sql.DB) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id int
	err := db.QueryRowContext(ctx, `
		INSERT INTO tenants (name, slug) VALUES ('Default', 'default')
		ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING id`).Scan(&id)
	return id, err
}
