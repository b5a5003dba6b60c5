package customers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/boutiquehq/boutique-pos/internal/models"
	"github.com/boutiquehq/boutique-pos/internal/repo"
)

// Service is the tenant's customer directory. It only carries identity and
// contact data; a customer's purchase history lives on the sales themselves
// through the snapshot fields.
type Service struct {
	customers repo.CustomerRepository
}

func New(customers repo.CustomerRepository) *Service {
	return &Service{customers: customers}
}

// CreateInput carries the directory fields of a new customer. Document is
// normalized before storage so uniqueness holds regardless of formatting.
type CreateInput struct {
	Document string
	Name     string
	Email    string
	Phone    string
	Address  string
	Notes    string
}

func (s *Service) Create(ctx context.Context, tenantID int, in CreateInput) (models.Customer, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.Customer{}, fmt.Errorf("%w: name is required", repo.ErrInvalidArgument)
	}

	now := time.Now().UTC()
	return s.customers.Create(ctx, models.Customer{
		TenantID:  tenantID,
		Document:  models.NormalizeDocument(in.Document),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		Notes:     strings.TrimSpace(in.Notes),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *Service) Get(ctx context.Context, tenantID, id int) (models.Customer, error) {
	return s.customers.GetByID(ctx, tenantID, id)
}

// UpdateInput carries the mutable directory fields.
type UpdateInput struct {
	Document string
	Name     string
	Email    string
	Phone    string
	Address  string
	Notes    string
	Active   bool
}

func (s *Service) Update(ctx context.Context, tenantID, id int, in UpdateInput) (models.Customer, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.Customer{}, fmt.Errorf("%w: name is required", repo.ErrInvalidArgument)
	}

	return s.customers.Update(ctx, models.Customer{
		ID:        id,
		TenantID:  tenantID,
		Document:  models.NormalizeDocument(in.Document),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		Notes:     strings.TrimSpace(in.Notes),
		Active:    in.Active,
		UpdatedAt: time.Now().UTC(),
	})
}

// Search returns the tenant's customers matching cf, newest first. An exact
// document match wins over fuzzy matches so the till resolves a scanned or
// typed document to one customer.
func (s *Service) Search(ctx context.Context, tenantID int, cf repo.CustomerFilter) ([]models.Customer, error) {
	return s.customers.Search(ctx, tenantID, cf)
}

// Resolve returns the active customer to attribute a sale to.
func (s *Service) Resolve(ctx context.Context, tenantID, id int) (models.Customer, error) {
	c, err := s.customers.GetByID(ctx, tenantID, id)
	if err != nil {
		return models.Customer{}, err
	}
	if !c.Active {
		return models.Customer{}, fmt.Errorf("%w: customer %d is inactive", repo.ErrInvalidArgument, id)
	}
	return c, nil
}
