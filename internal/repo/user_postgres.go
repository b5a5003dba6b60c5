package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/boutiquehq/boutique-pos/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u models.User) (models.User, error) {
	query := `INSERT INTO users (tenant_id, name, email, role, password_hash, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query, u.TenantID, u.Name, u.Email, u.Role,
		u.PasswordHash, u.Active, u.CreatedAt).Scan(&u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, ErrDuplicatedValueUnique
		}
		return models.User{}, err
	}
	return u, nil
}

const userColumns = `id, COALESCE(tenant_id, 0), name, email, role, password_hash, active, created_at`

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.TenantID, &u.Name, &u.Email, &u.Role, &u.PasswordHash, &u.Active, &u.CreatedAt)
	return u, err
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return u, err
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id int) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return u, err
}
