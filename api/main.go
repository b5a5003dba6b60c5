package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/boutiquehq/boutique-pos/internal/auth"
	"github.com/boutiquehq/boutique-pos/internal/cash"
	"github.com/boutiquehq/boutique-pos/internal/catalog"
	"github.com/boutiquehq/boutique-pos/internal/config"
	"github.com/boutiquehq/boutique-pos/internal/customers"
	"github.com/boutiquehq/boutique-pos/internal/db"
	"github.com/boutiquehq/boutique-pos/internal/http/rate_limiter"
	"github.com/boutiquehq/boutique-pos/internal/ledger"
	"github.com/boutiquehq/boutique-pos/internal/models"
	"github.com/boutiquehq/boutique-pos/internal/redissvc"
	"github.com/boutiquehq/boutique-pos/internal/reports"
	"github.com/boutiquehq/boutique-pos/internal/repo"
	"github.com/boutiquehq/boutique-pos/internal/sales"

	api "github.com/boutiquehq/boutique-pos/internal/http"
	"github.com/boutiquehq/boutique-pos/internal/http/handlers"
)

// @title Boutique POS API
// @version 1.0
// @description Multi-tenant point-of-sale and inventory ledger backend.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	auth.Configure(cfg.JWTSecret, cfg.AccessTokenTTL)

	go rate_limiter.StartVisitorCleanupLoop()

	ctx := context.Background()
	rdb, err := redissvc.Connect(ctx, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	defer rdb.Close()

	var (
		productRepo  repo.ProductRepository
		movementRepo repo.MovementRepository
		sessionRepo  repo.SessionRepository
		saleRepo     repo.SaleRepository
		customerRepo repo.CustomerRepository
		userRepo     repo.UserRepository
		tenantID     = 1
	)

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Could not connect to database:", err)
		}
		defer database.Close()

		if err := db.Migrate(database); err != nil {
			log.Fatal("Could not migrate database:", err)
		}
		if tenantID, err = db.EnsureDefaultTenant(database); err != nil {
			log.Fatal("Could not ensure default tenant:", err)
		}

		productRepo = repo.NewPostgresProductRepository(database)
		movementRepo = repo.NewPostgresMovementRepository(database)
		sessionRepo = repo.NewPostgresSessionRepository(database)
		saleRepo = repo.NewPostgresSaleRepository(database)
		customerRepo = repo.NewPostgresCustomerRepository(database)
		userRepo = repo.NewPostgresUserRepository(database)
	} else {
		log.Println("POS_DATABASE_URL not set, using in-memory store (data is not persisted)")
		store := repo.NewMemoryStore()
		productRepo = repo.NewInMemoryProductRepository(store)
		movementRepo = repo.NewInMemoryMovementRepository(store)
		sessionRepo = repo.NewInMemorySessionRepository(store)
		saleRepo = repo.NewInMemorySaleRepository(store)
		customerRepo = repo.NewInMemoryCustomerRepository(store)
		userRepo = repo.NewInMemoryUserRepository(store)
	}

	ledgerSvc := ledger.New(productRepo, movementRepo)

	handlers.SetCatalog(catalog.New(productRepo, ledgerSvc))
	handlers.SetLedger(ledgerSvc)
	handlers.SetCashManager(cash.NewManager(sessionRepo))
	handlers.SetCustomers(customers.New(customerRepo))
	handlers.SetProcessor(sales.NewProcessor(productRepo, sessionRepo, saleRepo, customerRepo))
	handlers.SetAggregator(reports.NewAggregator(productRepo, movementRepo, sessionRepo, saleRepo, cfg.CashTolerance).
		WithCache(rdb, cfg.DashboardCacheTTL))
	handlers.SetUserRepo(userRepo)
	handlers.SetRefreshStore(auth.NewRefreshStore(rdb, cfg.RefreshTokenTTL))

	if err := bootstrapAdmin(ctx, cfg, userRepo, tenantID); err != nil {
		log.Fatal("Could not bootstrap admin user:", err)
	}

	r := api.NewRouter()
	log.Printf("Server running on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		log.Fatal(err)
	}
}

// bootstrapAdmin creates the configured admin user on first start so a fresh
// deployment can log in. No-op when unset or already present.
func bootstrapAdmin(ctx context.Context, cfg config.Config, users repo.UserRepository, tenantID int) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}
	if _, err := users.GetByEmail(ctx, cfg.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, repo.ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = users.Create(ctx, models.User{
		TenantID:     tenantID,
		Name:         "Admin",
		Email:        cfg.AdminEmail,
		Role:         models.RoleAdmin,
		PasswordHash: string(hash),
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	})
	return err
}
