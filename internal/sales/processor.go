package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/boutiquehq/boutique-pos/internal/models"
	"github.com/boutiquehq/boutique-pos/internal/repo"
	"github.com/shopspring/decimal"
)

// Processor coordinates a sale across the catalog, the stock ledger and the
// cash session. Everything it writes goes through SaleRepository.Create as a
// single atomic unit: a sale is either fully reflected in stock, cash and
// history, or not at all.
type Processor struct {
	products  repo.ProductRepository
	sessions  repo.SessionRepository
	sales     repo.SaleRepository
	customers repo.CustomerRepository
}

func NewProcessor(products repo.ProductRepository, sessions repo.SessionRepository, sales repo.SaleRepository, customers repo.CustomerRepository) *Processor {
	return &Processor{products: products, sessions: sessions, sales: sales, customers: customers}
}

// LineInput is one requested cart line.
type LineInput struct {
	ProductID int
	Quantity  int
}

// Request carries everything needed to process one sale. IdempotencyKey is
// optional; when set, retrying the same request returns the sale committed
// the first time instead of creating a second one.
//
// CustomerID attributes the sale to a directory customer; its name is
// snapshotted onto the sale. CustomerName alone records a walk-in buyer
// without a directory entry.
type Request struct {
	TenantID       int
	TillID         string
	Lines          []LineInput
	CustomerID     int
	CustomerName   string
	PaymentMethod  string
	PaymentAmount  decimal.Decimal
	Actor          int
	IdempotencyKey string
}

// Process validates the request, snapshots unit prices, computes the total
// and commits the sale. The returned bool is true when an idempotency-key
// replay returned a previously committed sale.
func (p *Processor) Process(ctx context.Context, req Request) (models.Sale, bool, error) {
	if len(req.Lines) == 0 {
		return models.Sale{}, false, fmt.Errorf("%w: sale needs at least one line", repo.ErrInvalidArgument)
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return models.Sale{}, false, fmt.Errorf("%w: unknown payment method %q", repo.ErrInvalidArgument, req.PaymentMethod)
	}
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return models.Sale{}, false, fmt.Errorf("%w: quantity must be positive", repo.ErrInvalidArgument)
		}
	}

	session, err := p.sessions.Current(ctx, req.TenantID, req.TillID)
	if err != nil {
		return models.Sale{}, false, err
	}

	customerName := req.CustomerName
	if req.CustomerID > 0 {
		customer, err := p.customers.GetByID(ctx, req.TenantID, req.CustomerID)
		if err != nil {
			return models.Sale{}, false, err
		}
		customerName = customer.Name
	}

	// Snapshot name and unit price per line so later catalog changes never
	// rewrite this sale's history.
	lines := make([]models.SaleLine, 0, len(req.Lines))
	total := decimal.Zero
	for _, line := range req.Lines {
		product, err := p.products.GetByID(ctx, req.TenantID, line.ProductID)
		if err != nil {
			return models.Sale{}, false, err
		}
		if !product.Active {
			return models.Sale{}, false, fmt.Errorf("%w: product %d is inactive", repo.ErrInvalidArgument, product.ID)
		}
		l := models.SaleLine{
			ProductID: product.ID,
			Name:      product.Name,
			SKU:       product.SKU,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
		}
		lines = append(lines, l)
		total = total.Add(l.Total())
	}

	if req.PaymentAmount.LessThan(total) {
		return models.Sale{}, false, fmt.Errorf("payment %s below total %s: %w",
			req.PaymentAmount, total, repo.ErrInsufficientPayment)
	}

	return p.sales.Create(ctx, models.Sale{
		TenantID:       req.TenantID,
		CashSessionID:  session.ID,
		CustomerID:     req.CustomerID,
		CustomerName:   customerName,
		Lines:          lines,
		PaymentMethod:  req.PaymentMethod,
		PaymentAmount:  req.PaymentAmount,
		Total:          total,
		IdempotencyKey: req.IdempotencyKey,
		CreatedBy:      req.Actor,
		CreatedAt:      time.Now().UTC(),
	})
}

// Get returns a sale by ID within the tenant's scope.
func (p *Processor) Get(ctx context.Context, tenantID, id int) (models.Sale, error) {
	return p.sales.GetByID(ctx, tenantID, id)
}

// Recent returns the tenant's most recent sales, newest first.
func (p *Processor) Recent(ctx context.Context, tenantID, limit int) ([]models.Sale, error) {
	return p.sales.Recent(ctx, tenantID, limit)
}

// InRange returns the tenant's sales with created_at in [from, to), newest
// first.
func (p *Processor) InRange(ctx context.Context, tenantID int, from, to time.Time) ([]models.Sale, error) {
	return p.sales.InRange(ctx, tenantID, from, to)
}
