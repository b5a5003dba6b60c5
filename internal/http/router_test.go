package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/boutiquehq/boutique-pos/internal/auth"
	"github.com/boutiquehq/boutique-pos/internal/cash"
	"github.com/boutiquehq/boutique-pos/internal/catalog"
	"github.com/boutiquehq/boutique-pos/internal/customers"
	internalhttp "github.com/boutiquehq/boutique-pos/internal/http"
	"github.com/boutiquehq/boutique-pos/internal/http/handlers"
	"github.com/boutiquehq/boutique-pos/internal/ledger"
	"github.com/boutiquehq/boutique-pos/internal/models"
	"github.com/boutiquehq/boutique-pos/internal/repo"
	"github.com/boutiquehq/boutique-pos/internal/reports"
	"github.com/boutiquehq/boutique-pos/internal/sales"
	"github.com/shopspring/decimal"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store := repo.NewMemoryStore()
	products := repo.NewInMemoryProductRepository(store)
	movements := repo.NewInMemoryMovementRepository(store)
	sessions := repo.NewInMemorySessionRepository(store)
	saleRepo := repo.NewInMemorySaleRepository(store)
	customerRepo := repo.NewInMemoryCustomerRepository(store)

	ledgerSvc := ledger.New(products, movements)
	handlers.SetCatalog(catalog.New(products, ledgerSvc))
	handlers.SetLedger(ledgerSvc)
	handlers.SetCashManager(cash.NewManager(sessions))
	handlers.SetCustomers(customers.New(customerRepo))
	handlers.SetProcessor(sales.NewProcessor(products, sessions, saleRepo, customerRepo))
	handlers.SetAggregator(reports.NewAggregator(products, movements, sessions, saleRepo,
		decimal.RequireFromString("1.00")))
	handlers.SetUserRepo(repo.NewInMemoryUserRepository(store))

	return internalhttp.NewRouter()
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken(models.User{ID: 1, TenantID: 1, Email: "admin@shop.test", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return token
}

func employeeToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken(models.User{ID: 2, TenantID: 1, Email: "clerk@shop.test", Role: models.RoleEmployee})
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return token
}

// Each request gets its own client address so the per-client rate limiter
// never throttles the suite.
var clientSeq atomic.Int64

func do(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	n := clientSeq.Add(1)
	req.RemoteAddr = fmt.Sprintf("10.%d.%d.%d:4321", n/65536%256, n/256%256, n%256)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestRouter_RejectsMissingAndForeignTokens(t *testing.T) {
	router := newTestRouter(t)

	if rec := do(t, router, http.MethodGet, "/products", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodGet, "/products", "not-a-jwt", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: expected 401, got %d", rec.Code)
	}
}

func TestRouter_AdminGate(t *testing.T) {
	router := newTestRouter(t)
	clerk := employeeToken(t)

	body := map[string]any{"name": "Shirt", "price": "25.00"}
	if rec := do(t, router, http.MethodPost, "/products", clerk, body); rec.Code != http.StatusForbidden {
		t.Errorf("employee create: expected 403, got %d", rec.Code)
	}

	// Reads stay open to employees.
	if rec := do(t, router, http.MethodGet, "/products", clerk, nil); rec.Code != http.StatusOK {
		t.Errorf("employee list: expected 200, got %d", rec.Code)
	}
}

func TestProductEndpoints(t *testing.T) {
	router := newTestRouter(t)
	admin := adminToken(t)

	rec := do(t, router, http.MethodPost, "/products", admin, map[string]any{
		"name":          "Linen Shirt",
		"sku":           "LS-01",
		"price":         "25.00",
		"cost":          "9.00",
		"min_stock":     3,
		"initial_stock": 10,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[handlers.ProductResponse](t, rec)
	if created.Stock != 10 {
		t.Errorf("initial stock not booked: %d", created.Stock)
	}

	rec = do(t, router, http.MethodGet, fmt.Sprintf("/products/%d", created.Id), admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodGet, "/products?q=linen", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("search: expected 200, got %d", rec.Code)
	}
	result := decodeBody[handlers.ProductsSearchResult](t, rec)
	if result.Meta.TotalCount != 1 || len(result.Data) != 1 {
		t.Errorf("search result: %+v", result)
	}

	rec = do(t, router, http.MethodGet, "/products/9999", admin, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing product: expected 404, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodPost, "/products", admin, map[string]any{"name": "", "price": "-1"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid create: expected 400, got %d", rec.Code)
	}

	// Stock guards deletion until an adjustment empties it.
	rec = do(t, router, http.MethodDelete, fmt.Sprintf("/products/%d", created.Id), admin, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("delete stocked: expected 400, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodPost, fmt.Sprintf("/products/%d/adjust", created.Id), admin, map[string]any{
		"delta":  -10,
		"reason": models.ReasonManualAdjustment,
		"note":   "shrinkage write-off",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("adjust: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	adjusted := decodeBody[handlers.AdjustStockResponse](t, rec)
	if adjusted.Product.Stock != 0 {
		t.Errorf("expected stock 0 after adjustment, got %d", adjusted.Product.Stock)
	}
	if adjusted.Movement.Delta != -10 {
		t.Errorf("movement delta: %d", adjusted.Movement.Delta)
	}

	rec = do(t, router, http.MethodDelete, fmt.Sprintf("/products/%d", created.Id), admin, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete empty: expected 204, got %d", rec.Code)
	}
}

func TestReconcileEndpoint(t *testing.T) {
	router := newTestRouter(t)
	admin := adminToken(t)

	rec := do(t, router, http.MethodPost, "/products", admin, map[string]any{
		"name": "Shirt", "price": "25.00", "initial_stock": 5,
	})
	created := decodeBody[handlers.ProductResponse](t, rec)

	rec = do(t, router, http.MethodGet, fmt.Sprintf("/products/%d/reconcile", created.Id), admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reconcile: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := decodeBody[ledger.ReconcileResult](t, rec)
	if !result.Consistent || result.CachedStock != 5 || result.LedgerStock != 5 {
		t.Errorf("unexpected reconcile result: %+v", result)
	}
}

func TestCashAndSaleEndpoints(t *testing.T) {
	router := newTestRouter(t)
	admin := adminToken(t)
	clerk := employeeToken(t)

	rec := do(t, router, http.MethodPost, "/products", admin, map[string]any{
		"name": "Shirt", "price": "25.00", "initial_stock": 5,
	})
	product := decodeBody[handlers.ProductResponse](t, rec)

	// Selling before any session is open is a conflict.
	saleBody := map[string]any{
		"till_id":        "till-1",
		"lines":          []map[string]any{{"product_id": product.Id, "quantity": 2}},
		"payment_method": models.PaymentCash,
		"payment_amount": "50.00",
	}
	if rec := do(t, router, http.MethodPost, "/sales", clerk, saleBody); rec.Code != http.StatusConflict {
		t.Errorf("sale without session: expected 409, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodPost, "/cash/open", clerk, map[string]any{
		"till_id": "till-1", "opening_balance": "100.00",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("open: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	session := decodeBody[models.CashSession](t, rec)

	if rec := do(t, router, http.MethodPost, "/cash/open", clerk, map[string]any{
		"till_id": "till-1", "opening_balance": "0.00",
	}); rec.Code != http.StatusConflict {
		t.Errorf("second open: expected 409, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodPost, "/sales", clerk, saleBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("sale: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	sale := decodeBody[models.Sale](t, rec)
	if !sale.Total.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("expected total 50.00, got %s", sale.Total)
	}

	rec = do(t, router, http.MethodGet, fmt.Sprintf("/sales/%d", sale.ID), clerk, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("get sale: expected 200, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodGet, "/sales/9999", clerk, nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing sale: expected 404, got %d", rec.Code)
	}

	// Draining stock past zero is a conflict.
	bigSale := map[string]any{
		"till_id":        "till-1",
		"lines":          []map[string]any{{"product_id": product.Id, "quantity": 10}},
		"payment_method": models.PaymentCash,
		"payment_amount": "250.00",
	}
	if rec := do(t, router, http.MethodPost, "/sales", clerk, bigSale); rec.Code != http.StatusConflict {
		t.Errorf("oversold: expected 409, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodGet, "/cash/current?till=till-1", clerk, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("current: expected 200, got %d", rec.Code)
	}
	current := decodeBody[models.CashSession](t, rec)
	if !current.ExpectedBalance.Equal(decimal.RequireFromString("150.00")) {
		t.Errorf("expected balance 150.00, got %s", current.ExpectedBalance)
	}

	rec = do(t, router, http.MethodPost, fmt.Sprintf("/cash/%d/close", session.ID), clerk, map[string]any{
		"counted_balance": "149.00",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("close: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	closed := decodeBody[models.CashSession](t, rec)
	if !closed.Discrepancy.Equal(decimal.RequireFromString("-1.00")) {
		t.Errorf("expected discrepancy -1.00, got %s", closed.Discrepancy)
	}

	// The till is frozen again.
	if rec := do(t, router, http.MethodPost, "/sales", clerk, saleBody); rec.Code != http.StatusConflict {
		t.Errorf("sale after close: expected 409, got %d", rec.Code)
	}
}

func TestSaleIdempotencyHeader(t *testing.T) {
	router := newTestRouter(t)
	admin := adminToken(t)
	clerk := employeeToken(t)

	rec := do(t, router, http.MethodPost, "/products", admin, map[string]any{
		"name": "Shirt", "price": "25.00", "initial_stock": 5,
	})
	product := decodeBody[handlers.ProductResponse](t, rec)
	do(t, router, http.MethodPost, "/cash/open", clerk, map[string]any{
		"till_id": "till-1", "opening_balance": "0.00",
	})

	saleBody := map[string]any{
		"till_id":         "till-1",
		"lines":           []map[string]any{{"product_id": product.Id, "quantity": 1}},
		"payment_method":  models.PaymentCash,
		"payment_amount":  "25.00",
		"idempotency_key": "retry-abc",
	}
	first := do(t, router, http.MethodPost, "/sales", clerk, saleBody)
	if first.Code != http.StatusCreated {
		t.Fatalf("first sale: expected 201, got %d: %s", first.Code, first.Body.String())
	}
	replay := do(t, router, http.MethodPost, "/sales", clerk, saleBody)
	if replay.Code != http.StatusOK {
		t.Fatalf("replay: expected 200, got %d: %s", replay.Code, replay.Body.String())
	}
	if decodeBody[models.Sale](t, first).ID != decodeBody[models.Sale](t, replay).ID {
		t.Error("replay committed a second sale")
	}

	rec = do(t, router, http.MethodGet, fmt.Sprintf("/products/%d", product.Id), clerk, nil)
	got := decodeBody[handlers.ProductResponse](t, rec)
	if got.Stock != 4 {
		t.Errorf("expected single decrement to 4, got %d", got.Stock)
	}
}

func TestCustomerEndpoints(t *testing.T) {
	router := newTestRouter(t)
	clerk := employeeToken(t)

	rec := do(t, router, http.MethodPost, "/customers", clerk, map[string]any{
		"document": "123-456 78",
		"name":     "Maria Lopez",
		"phone":    "555-0101",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[models.Customer](t, rec)
	if created.Document != "12345678" {
		t.Errorf("document not normalized: %q", created.Document)
	}

	// The same document with different formatting is a conflict.
	if rec := do(t, router, http.MethodPost, "/customers", clerk, map[string]any{
		"document": "12345678",
		"name":     "Other Maria",
	}); rec.Code != http.StatusConflict {
		t.Errorf("duplicate document: expected 409, got %d", rec.Code)
	}

	if rec := do(t, router, http.MethodPost, "/customers", clerk, map[string]any{"name": ""}); rec.Code != http.StatusBadRequest {
		t.Errorf("nameless create: expected 400, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodGet, fmt.Sprintf("/customers/%d", created.ID), clerk, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodGet, "/customers/9999", clerk, nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing customer: expected 404, got %d", rec.Code)
	}

	// A document-shaped query resolves to the exact holder.
	rec = do(t, router, http.MethodGet, "/customers?q=123-456-78", clerk, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("search: expected 200, got %d", rec.Code)
	}
	result := decodeBody[handlers.CustomersSearchResult](t, rec)
	if len(result.Data) != 1 || result.Data[0].ID != created.ID {
		t.Errorf("document search: %+v", result)
	}

	rec = do(t, router, http.MethodPut, fmt.Sprintf("/customers/%d", created.ID), clerk, map[string]any{
		"document": "12345678",
		"name":     "Maria Garcia",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if updated := decodeBody[models.Customer](t, rec); updated.Name != "Maria Garcia" {
		t.Errorf("name not updated: %q", updated.Name)
	}
}

func TestSaleCustomerAttribution(t *testing.T) {
	router := newTestRouter(t)
	admin := adminToken(t)
	clerk := employeeToken(t)

	rec := do(t, router, http.MethodPost, "/products", admin, map[string]any{
		"name": "Shirt", "price": "25.00", "initial_stock": 5,
	})
	product := decodeBody[handlers.ProductResponse](t, rec)
	do(t, router, http.MethodPost, "/cash/open", clerk, map[string]any{
		"till_id": "till-1", "opening_balance": "0.00",
	})
	rec = do(t, router, http.MethodPost, "/customers", clerk, map[string]any{
		"document": "12345678", "name": "Maria Lopez",
	})
	customer := decodeBody[models.Customer](t, rec)

	rec = do(t, router, http.MethodPost, "/sales", clerk, map[string]any{
		"till_id":        "till-1",
		"lines":          []map[string]any{{"product_id": product.Id, "quantity": 1}},
		"customer_id":    customer.ID,
		"payment_method": models.PaymentCash,
		"payment_amount": "25.00",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("sale: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	sale := decodeBody[models.Sale](t, rec)
	if sale.CustomerID != customer.ID || sale.CustomerName != "Maria Lopez" {
		t.Errorf("attribution: id=%d name=%q", sale.CustomerID, sale.CustomerName)
	}

	// An unknown customer aborts the sale before anything moves.
	if rec := do(t, router, http.MethodPost, "/sales", clerk, map[string]any{
		"till_id":        "till-1",
		"lines":          []map[string]any{{"product_id": product.Id, "quantity": 1}},
		"customer_id":    9999,
		"payment_method": models.PaymentCash,
		"payment_amount": "25.00",
	}); rec.Code != http.StatusNotFound {
		t.Errorf("unknown customer: expected 404, got %d", rec.Code)
	}
}

func TestSaleListEndpoint(t *testing.T) {
	router := newTestRouter(t)
	admin := adminToken(t)
	clerk := employeeToken(t)

	rec := do(t, router, http.MethodPost, "/products", admin, map[string]any{
		"name": "Shirt", "price": "25.00", "initial_stock": 5,
	})
	product := decodeBody[handlers.ProductResponse](t, rec)
	do(t, router, http.MethodPost, "/cash/open", clerk, map[string]any{
		"till_id": "till-1", "opening_balance": "0.00",
	})

	var ids []int
	for i := 0; i < 3; i++ {
		rec = do(t, router, http.MethodPost, "/sales", clerk, map[string]any{
			"till_id":        "till-1",
			"lines":          []map[string]any{{"product_id": product.Id, "quantity": 1}},
			"payment_method": models.PaymentCash,
			"payment_amount": "25.00",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("sale %d: expected 201, got %d: %s", i, rec.Code, rec.Body.String())
		}
		ids = append(ids, decodeBody[models.Sale](t, rec).ID)
	}

	rec = do(t, router, http.MethodGet, "/sales", clerk, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	list := decodeBody[[]models.Sale](t, rec)
	if len(list) != 3 {
		t.Fatalf("expected 3 sales, got %d", len(list))
	}
	if list[0].ID != ids[2] {
		t.Errorf("expected newest sale %d first, got %d", ids[2], list[0].ID)
	}

	rec = do(t, router, http.MethodGet, "/sales?limit=2", clerk, nil)
	if list := decodeBody[[]models.Sale](t, rec); len(list) != 2 {
		t.Errorf("limit: expected 2 sales, got %d", len(list))
	}

	// A range in the past is empty.
	rec = do(t, router, http.MethodGet, "/sales?from=2020-01-01&to=2020-01-02", clerk, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("range list: expected 200, got %d", rec.Code)
	}
	if list := decodeBody[[]models.Sale](t, rec); len(list) != 0 {
		t.Errorf("expected empty range, got %d sales", len(list))
	}

	if rec := do(t, router, http.MethodGet, "/sales?from=not-a-date", clerk, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad date: expected 400, got %d", rec.Code)
	}
}

func TestReportEndpoints(t *testing.T) {
	router := newTestRouter(t)
	admin := adminToken(t)

	rec := do(t, router, http.MethodPost, "/products", admin, map[string]any{
		"name": "Shirt", "price": "25.00", "initial_stock": 5,
	})
	product := decodeBody[handlers.ProductResponse](t, rec)
	do(t, router, http.MethodPost, "/cash/open", admin, map[string]any{
		"till_id": "till-1", "opening_balance": "0.00",
	})
	do(t, router, http.MethodPost, "/sales", admin, map[string]any{
		"till_id":        "till-1",
		"lines":          []map[string]any{{"product_id": product.Id, "quantity": 1}},
		"payment_method": models.PaymentDebit,
		"payment_amount": "25.00",
	})

	rec = do(t, router, http.MethodGet, "/reports/dashboard", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	dashboard := decodeBody[reports.Dashboard](t, rec)
	if dashboard.SalesCount != 1 || !dashboard.Revenue.Equal(decimal.RequireFromString("25.00")) {
		t.Errorf("dashboard totals: count=%d revenue=%s", dashboard.SalesCount, dashboard.Revenue)
	}

	if rec := do(t, router, http.MethodGet, "/reports/dashboard?from=not-a-date", admin, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad date: expected 400, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodGet, "/reports/movements?reason=SALE", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("movements: expected 200, got %d", rec.Code)
	}
	movements := decodeBody[handlers.MovementsSearchResult](t, rec)
	if movements.Meta.TotalCount != 1 {
		t.Errorf("expected 1 sale movement, got %d", movements.Meta.TotalCount)
	}

	if rec := do(t, router, http.MethodGet, "/reports/sessions", admin, nil); rec.Code != http.StatusOK {
		t.Errorf("sessions: expected 200, got %d", rec.Code)
	}
}
