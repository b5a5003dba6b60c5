package ledger

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/boutiquehq/boutique-pos/internal/models"
	"github.com/boutiquehq/boutique-pos/internal/repo"
)

// Service is the stock movement ledger: the only path that changes a
// product's stock. Every change is an appended movement plus the cached
// counter update, committed together by the repository.
type Service struct {
	products  repo.ProductRepository
	movements repo.MovementRepository
}

func New(products repo.ProductRepository, movements repo.MovementRepository) *Service {
	return &Service{products: products, movements: movements}
}

// Record appends a movement for the product and returns the movement together
// with the product as it stands after the delta. A delta that would drive
// stock negative fails with repo.ErrInsufficientStock and writes nothing.
func (s *Service) Record(ctx context.Context, tenantID, productID, delta int, reason string, referenceID int, note string, actor int) (models.Product, models.StockMovement, error) {
	if delta == 0 {
		return models.Product{}, models.StockMovement{}, fmt.Errorf("%w: delta must be non-zero", repo.ErrInvalidArgument)
	}
	if !models.ValidReason(reason) {
		return models.Product{}, models.StockMovement{}, fmt.Errorf("%w: unknown reason %q", repo.ErrInvalidArgument, reason)
	}

	return s.movements.Apply(ctx, models.StockMovement{
		TenantID:    tenantID,
		ProductID:   productID,
		Delta:       delta,
		Reason:      reason,
		ReferenceID: referenceID,
		Note:        note,
		CreatedBy:   actor,
		CreatedAt:   time.Now().UTC(),
	})
}

// ReconcileResult compares a product's cached stock against the sum of its
// ledger movements.
type ReconcileResult struct {
	ProductID   int  `json:"product_id"`
	CachedStock int  `json:"cached_stock"`
	LedgerStock int  `json:"ledger_stock"`
	Consistent  bool `json:"consistent"`
}

// Reconcile recomputes a product's stock by summing its movements and checks
// it against the cached counter. A mismatch means a latent bug or external
// tampering: it is logged and returned as repo.ErrConsistencyViolation, never
// repaired here. Reading twice with no intervening writes yields the same
// result; Reconcile mutates nothing.
func (s *Service) Reconcile(ctx context.Context, tenantID, productID int) (ReconcileResult, error) {
	p, err := s.products.GetByID(ctx, tenantID, productID)
	if err != nil {
		return ReconcileResult{}, err
	}

	sum, err := s.movements.SumDeltas(ctx, tenantID, productID)
	if err != nil {
		return ReconcileResult{}, err
	}

	result := ReconcileResult{
		ProductID:   productID,
		CachedStock: p.Stock,
		LedgerStock: sum,
		Consistent:  p.Stock == sum,
	}
	if !result.Consistent {
		log.Printf("stock reconciliation mismatch: tenant=%d product=%d cached=%d ledger=%d",
			tenantID, productID, p.Stock, sum)
		return result, fmt.Errorf("product %d: cached %d, ledger %d: %w",
			productID, p.Stock, sum, repo.ErrConsistencyViolation)
	}
	return result, nil
}
