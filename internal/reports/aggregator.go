package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/boutiquehq/boutique-pos/internal/models"
	"github.com/boutiquehq/boutique-pos/internal/repo"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const recentSalesLimit = 5

// Aggregator computes read-only projections from sales, the stock ledger and
// cash sessions. It keeps no state of its own; the optional redis client only
// caches the dashboard for a short TTL.
type Aggregator struct {
	products  repo.ProductRepository
	movements repo.MovementRepository
	sessions  repo.SessionRepository
	sales     repo.SaleRepository

	rdb      *redis.Client
	cacheTTL time.Duration

	// Tolerance is the absolute closure discrepancy above which a session is
	// flagged for review.
	Tolerance decimal.Decimal
}

func NewAggregator(products repo.ProductRepository, movements repo.MovementRepository,
	sessions repo.SessionRepository, sales repo.SaleRepository, tolerance decimal.Decimal) *Aggregator {
	return &Aggregator{
		products:  products,
		movements: movements,
		sessions:  sessions,
		sales:     sales,
		Tolerance: tolerance,
	}
}

// WithCache enables dashboard caching on rdb with the given TTL.
func (a *Aggregator) WithCache(rdb *redis.Client, ttl time.Duration) *Aggregator {
	a.rdb = rdb
	a.cacheTTL = ttl
	return a
}

type Dashboard struct {
	From            time.Time                  `json:"from"`
	To              time.Time                  `json:"to"`
	SalesCount      int                        `json:"sales_count"`
	Revenue         decimal.Decimal            `json:"revenue"`
	RevenueByMethod map[string]decimal.Decimal `json:"revenue_by_method"`
	StockValuation  decimal.Decimal            `json:"stock_valuation"`
	LowStockCount   int                        `json:"low_stock_count"`
	RecentSales     []models.Sale              `json:"recent_sales"`
}

// Dashboard aggregates a tenant's sales in [from, to) plus the current stock
// valuation. Reads are not snapshot-consistent with concurrent writes; the
// dashboard is diagnostic, not authoritative.
func (a *Aggregator) Dashboard(ctx context.Context, tenantID int, from, to time.Time) (Dashboard, error) {
	cacheKey := fmt.Sprintf("reports:dashboard:%d:%d:%d", tenantID, from.Unix(), to.Unix())
	if a.rdb != nil {
		if data, err := a.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached Dashboard
			if json.Unmarshal(data, &cached) == nil {
				return cached, nil
			}
		}
	}

	sales, err := a.sales.InRange(ctx, tenantID, from, to)
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{
		From:            from,
		To:              to,
		SalesCount:      len(sales),
		Revenue:         decimal.Zero,
		RevenueByMethod: map[string]decimal.Decimal{},
		StockValuation:  decimal.Zero,
	}
	for _, s := range sales {
		d.Revenue = d.Revenue.Add(s.Total)
		d.RevenueByMethod[s.PaymentMethod] = d.RevenueByMethod[s.PaymentMethod].Add(s.Total)
	}

	products, err := a.products.GetAll(ctx, tenantID)
	if err != nil {
		return Dashboard{}, err
	}
	for _, p := range products {
		d.StockValuation = d.StockValuation.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
		if p.LowStock() {
			d.LowStockCount++
		}
	}

	d.RecentSales, err = a.sales.Recent(ctx, tenantID, recentSalesLimit)
	if err != nil {
		return Dashboard{}, err
	}

	if a.rdb != nil {
		if data, err := json.Marshal(d); err == nil {
			if err := a.rdb.Set(ctx, cacheKey, data, a.cacheTTL).Err(); err != nil {
				log.Printf("dashboard cache write failed: %v", err)
			}
		}
	}
	return d, nil
}

// Movements returns the tenant's stock movement history, filtered and
// paginated, with the pre-pagination total.
func (a *Aggregator) Movements(ctx context.Context, tenantID int, mf repo.MovementFilter) ([]models.StockMovement, int, error) {
	return a.movements.List(ctx, tenantID, mf)
}

// SessionReview is a closed session with its review flag.
type SessionReview struct {
	models.CashSession
	NeedsReview bool `json:"needs_review"`
}

// Sessions lists CLOSED sessions, newest first, flagging any whose absolute
// discrepancy exceeds the tolerance.
func (a *Aggregator) Sessions(ctx context.Context, tenantID int) ([]SessionReview, error) {
	closed, err := a.sessions.Closed(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	out := make([]SessionReview, 0, len(closed))
	for _, s := range closed {
		out = append(out, SessionReview{
			CashSession: s,
			NeedsReview: s.Discrepancy.Abs().GreaterThan(a.Tolerance),
		})
	}
	return out, nil
}
