package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/boutiquehq/boutique-pos/internal/ledger"
	"github.com/boutiquehq/boutique-pos/internal/models"
	"github.com/boutiquehq/boutique-pos/internal/repo"
	"github.com/shopspring/decimal"
)

// Service is the product catalog. It owns identity and pricing; stock changes
// are delegated to the ledger without exception.
type Service struct {
	products repo.ProductRepository
	ledger   *ledger.Service
}

func New(products repo.ProductRepository, ledger *ledger.Service) *Service {
	return &Service{products: products, ledger: ledger}
}

// CreateInput carries the catalog fields of a new product. InitialStock, when
// positive, is booked as a RESTOCK movement so the ledger stays the single
// source of stock truth from the first unit.
type CreateInput struct {
	Name         string
	SKU          string
	Barcode      string
	Cost         decimal.Decimal
	Price        decimal.Decimal
	MinStock     int
	InitialStock int
}

func (s *Service) Create(ctx context.Context, tenantID int, in CreateInput, actor int) (models.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.Product{}, fmt.Errorf("%w: name is required", repo.ErrInvalidArgument)
	}
	if in.Price.IsNegative() || in.Cost.IsNegative() {
		return models.Product{}, fmt.Errorf("%w: price must be non-negative", repo.ErrInvalidArgument)
	}
	if in.InitialStock < 0 || in.MinStock < 0 {
		return models.Product{}, fmt.Errorf("%w: stock must be non-negative", repo.ErrInvalidArgument)
	}

	now := time.Now().UTC()
	p, err := s.products.Create(ctx, models.Product{
		TenantID:  tenantID,
		Name:      strings.TrimSpace(in.Name),
		SKU:       strings.TrimSpace(in.SKU),
		Barcode:   strings.TrimSpace(in.Barcode),
		Cost:      in.Cost,
		Price:     in.Price,
		MinStock:  in.MinStock,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return models.Product{}, err
	}

	if in.InitialStock > 0 {
		p, _, err = s.ledger.Record(ctx, tenantID, p.ID, in.InitialStock,
			models.ReasonRestock, 0, "initial stock", actor)
		if err != nil {
			return models.Product{}, err
		}
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, tenantID, id int) (models.Product, error) {
	return s.products.GetByID(ctx, tenantID, id)
}

func (s *Service) List(ctx context.Context, tenantID int, pf repo.ProductFilter) ([]models.Product, int, error) {
	return s.products.Filter(ctx, tenantID, pf)
}

// UpdateInput carries the mutable catalog fields. Stock is absent on purpose.
type UpdateInput struct {
	Name     string
	SKU      string
	Barcode  string
	Cost     decimal.Decimal
	Price    decimal.Decimal
	MinStock int
	Active   bool
}

func (s *Service) Update(ctx context.Context, tenantID, id int, in UpdateInput) (models.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.Product{}, fmt.Errorf("%w: name is required", repo.ErrInvalidArgument)
	}
	if in.Price.IsNegative() || in.Cost.IsNegative() {
		return models.Product{}, fmt.Errorf("%w: price must be non-negative", repo.ErrInvalidArgument)
	}

	return s.products.Update(ctx, models.Product{
		ID:        id,
		TenantID:  tenantID,
		Name:      strings.TrimSpace(in.Name),
		SKU:       strings.TrimSpace(in.SKU),
		Barcode:   strings.TrimSpace(in.Barcode),
		Cost:      in.Cost,
		Price:     in.Price,
		MinStock:  in.MinStock,
		Active:    in.Active,
		UpdatedAt: time.Now().UTC(),
	})
}

// Delete removes a product. Only products with zero stock may go; a stocked
// product must be adjusted down through the ledger first.
func (s *Service) Delete(ctx context.Context, tenantID, id int) error {
	return s.products.Delete(ctx, tenantID, id)
}

// AdjustStock books a manual adjustment or restock through the ledger.
// reason must be MANUAL_ADJUSTMENT, RESTOCK or CASH_SESSION_VOID; SALE
// movements only ever come from the sale processor.
func (s *Service) AdjustStock(ctx context.Context, tenantID, id, delta int, reason, note string, actor int) (models.Product, models.StockMovement, error) {
	if reason == models.ReasonSale {
		return models.Product{}, models.StockMovement{}, fmt.Errorf("%w: SALE movements are reserved for the sale processor", repo.ErrInvalidArgument)
	}
	return s.ledger.Record(ctx, tenantID, id, delta, reason, 0, note, actor)
}
