package handlers

import (
	"github.com/boutiquehq/boutique-pos/internal/auth"
	"github.com/boutiquehq/boutique-pos/internal/cash"
	"github.com/boutiquehq/boutique-pos/internal/catalog"
	"github.com/boutiquehq/boutique-pos/internal/customers"
	"github.com/boutiquehq/boutique-pos/internal/ledger"
	"github.com/boutiquehq/boutique-pos/internal/repo"
	"github.com/boutiquehq/boutique-pos/internal/reports"
	"github.com/boutiquehq/boutique-pos/internal/sales"
)

var (
	catalogSvc   *catalog.Service
	ledgerSvc    *ledger.Service
	cashManager  *cash.Manager
	customersSvc *customers.Service
	processor    *sales.Processor
	aggregator   *reports.Aggregator
	userRepo     repo.UserRepository
	refreshStore *auth.RefreshStore
)

func SetCatalog(s *catalog.Service) {
	catalogSvc = s
}

func SetLedger(s *ledger.Service) {
	ledgerSvc = s
}

func SetCashManager(m *cash.Manager) {
	cashManager = m
}

func SetCustomers(s *customers.Service) {
	customersSvc = s
}

func SetProcessor(p *sales.Processor) {
	processor = p
}

func SetAggregator(a *reports.Aggregator) {
	aggregator = a
}

func SetUserRepo(r repo.UserRepository) {
	userRepo = r
}

func SetRefreshStore(s *auth.RefreshStore) {
	refreshStore = s
}
