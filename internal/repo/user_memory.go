package repo

import (
	"context"

	"github.com/boutiquehq/boutique-pos/internal/models"
)

type InMemoryUserRepository struct {
	store *MemoryStore
}

func NewInMemoryUserRepository(store *MemoryStore) *InMemoryUserRepository {
	return &InMemoryUserRepository{store: store}
}

func (r *InMemoryUserRepository) Create(_ context.Context, u models.User) (models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.users {
		if existing.Email == u.Email {
			return models.User{}, ErrDuplicatedValueUnique
		}
	}
	u.ID = r.store.nextUserID
	r.store.nextUserID++
	r.store.users = append(r.store.users, u)
	return u, nil
}

func (r *InMemoryUserRepository) GetByEmail(_ context.Context, email string) (models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, u := range r.store.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (r *InMemoryUserRepository) GetByID(_ context.Context, id int) (models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, u := range r.store.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}
