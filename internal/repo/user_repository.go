package repo

import (
	"context"

	"github.com/boutiquehq/boutique-pos/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id int) (models.User, error)
}
