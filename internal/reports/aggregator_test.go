package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/boutiquehq/boutique-pos/internal/cash"
	"github.com/boutiquehq/boutique-pos/internal/catalog"
	"github.com/boutiquehq/boutique-pos/internal/ledger"
	"github.com/boutiquehq/boutique-pos/internal/models"
	"github.com/boutiquehq/boutique-pos/internal/repo"
	"github.com/boutiquehq/boutique-pos/internal/reports"
	"github.com/boutiquehq/boutique-pos/internal/sales"
	"github.com/shopspring/decimal"
)

const tenantID = 1

type fixture struct {
	catalog    *catalog.Service
	cash       *cash.Manager
	processor  *sales.Processor
	aggregator *reports.Aggregator
}

func newFixture(tolerance string) fixture {
	store := repo.NewMemoryStore()
	products := repo.NewInMemoryProductRepository(store)
	movements := repo.NewInMemoryMovementRepository(store)
	sessions := repo.NewInMemorySessionRepository(store)
	saleRepo := repo.NewInMemorySaleRepository(store)
	return fixture{
		catalog:    catalog.New(products, ledger.New(products, movements)),
		cash:       cash.NewManager(sessions),
		processor:  sales.NewProcessor(products, sessions, saleRepo, repo.NewInMemoryCustomerRepository(store)),
		aggregator: reports.NewAggregator(products, movements, sessions, saleRepo, decimal.RequireFromString(tolerance)),
	}
}

func (f fixture) sell(t *testing.T, productID, qty int, method, amount string) models.Sale {
	t.Helper()
	s, _, err := f.processor.Process(context.Background(), sales.Request{
		TenantID:      tenantID,
		TillID:        "till-1",
		Lines:         []sales.LineInput{{ProductID: productID, Quantity: qty}},
		PaymentMethod: method,
		PaymentAmount: decimal.RequireFromString(amount),
		Actor:         1,
	})
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	return s
}

func TestDashboard(t *testing.T) {
	f := newFixture("1.00")
	ctx := context.Background()

	shirt, err := f.catalog.Create(ctx, tenantID, catalog.CreateInput{
		Name:         "Shirt",
		Price:        decimal.RequireFromString("25.00"),
		MinStock:     3,
		InitialStock: 10,
	}, 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	belt, err := f.catalog.Create(ctx, tenantID, catalog.CreateInput{
		Name:         "Belt",
		Price:        decimal.RequireFromString("10.00"),
		MinStock:     5,
		InitialStock: 2, // already below min
	}, 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.cash.Open(ctx, tenantID, "till-1", decimal.Zero, 1); err != nil {
		t.Fatalf("open: %v", err)
	}
	f.sell(t, shirt.ID, 2, models.PaymentCash, "50.00")
	f.sell(t, belt.ID, 1, models.PaymentDebit, "10.00")

	from := time.Now().Add(-time.Hour)
	to := time.Now().Add(time.Hour)
	d, err := f.aggregator.Dashboard(ctx, tenantID, from, to)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if d.SalesCount != 2 {
		t.Errorf("expected 2 sales, got %d", d.SalesCount)
	}
	if !d.Revenue.Equal(decimal.RequireFromString("60.00")) {
		t.Errorf("expected revenue 60.00, got %s", d.Revenue)
	}
	if !d.RevenueByMethod[models.PaymentCash].Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("cash revenue: %s", d.RevenueByMethod[models.PaymentCash])
	}
	if !d.RevenueByMethod[models.PaymentDebit].Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("debit revenue: %s", d.RevenueByMethod[models.PaymentDebit])
	}

	// 8 shirts at 25.00 plus 1 belt at 10.00.
	if !d.StockValuation.Equal(decimal.RequireFromString("210.00")) {
		t.Errorf("expected valuation 210.00, got %s", d.StockValuation)
	}
	if d.LowStockCount != 1 {
		t.Errorf("expected 1 low-stock product, got %d", d.LowStockCount)
	}
	if len(d.RecentSales) != 2 {
		t.Errorf("expected 2 recent sales, got %d", len(d.RecentSales))
	}
}

func TestDashboard_RangeExcludesOutsideSales(t *testing.T) {
	f := newFixture("1.00")
	ctx := context.Background()

	shirt, err := f.catalog.Create(ctx, tenantID, catalog.CreateInput{
		Name:         "Shirt",
		Price:        decimal.RequireFromString("25.00"),
		InitialStock: 10,
	}, 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.cash.Open(ctx, tenantID, "till-1", decimal.Zero, 1); err != nil {
		t.Fatalf("open: %v", err)
	}
	f.sell(t, shirt.ID, 1, models.PaymentCash, "25.00")

	from := time.Now().Add(-2 * time.Hour)
	to := time.Now().Add(-time.Hour)
	d, err := f.aggregator.Dashboard(ctx, tenantID, from, to)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.SalesCount != 0 || !d.Revenue.IsZero() {
		t.Errorf("window before the sale should be empty, got count=%d revenue=%s", d.SalesCount, d.Revenue)
	}
}

func TestSessions_FlagsDiscrepancyAboveTolerance(t *testing.T) {
	f := newFixture("1.00")
	ctx := context.Background()

	// First session closes 0.50 short: within tolerance.
	s1, err := f.cash.Open(ctx, tenantID, "till-1", decimal.RequireFromString("100.00"), 1)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.cash.Close(ctx, tenantID, s1.ID, decimal.RequireFromString("99.50"), 1); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Second session closes 5.00 over: needs review.
	s2, err := f.cash.Open(ctx, tenantID, "till-1", decimal.RequireFromString("100.00"), 1)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.cash.Close(ctx, tenantID, s2.ID, decimal.RequireFromString("105.00"), 1); err != nil {
		t.Fatalf("close: %v", err)
	}

	reviews, err := f.aggregator.Sessions(ctx, tenantID)
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("expected 2 closed sessions, got %d", len(reviews))
	}

	byID := map[int]reports.SessionReview{}
	for _, r := range reviews {
		byID[r.ID] = r
	}
	if byID[s1.ID].NeedsReview {
		t.Errorf("discrepancy -0.50 flagged despite tolerance 1.00")
	}
	if !byID[s2.ID].NeedsReview {
		t.Errorf("discrepancy +5.00 not flagged")
	}
}

func TestSessions_ExcludesOpen(t *testing.T) {
	f := newFixture("1.00")
	ctx := context.Background()

	if _, err := f.cash.Open(ctx, tenantID, "till-1", decimal.Zero, 1); err != nil {
		t.Fatalf("open: %v", err)
	}
	reviews, err := f.aggregator.Sessions(ctx, tenantID)
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if len(reviews) != 0 {
		t.Errorf("open session leaked into the closed listing: %d", len(reviews))
	}
}
