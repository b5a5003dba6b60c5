package http

import (
	"net/http"

	"github.com/boutiquehq/boutique-pos/internal/http/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func NewRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: false,
	}))
	r.Use(RateLimitMiddleware)

	r.Post("/auth/login", handlers.LoginHandler)
	r.Post("/auth/refresh", handlers.RefreshHandler)
	r.Post("/auth/logout", handlers.LogoutHandler)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware)

		r.Get("/products", handlers.GetProductsHandler)
		r.Get("/products/{id}", handlers.GetProductByIDHandler)
		r.Get("/products/{id}/reconcile", handlers.ReconcileProductHandler)

		r.Group(func(r chi.Router) {
			r.Use(RequireAdmin)
			r.Post("/products", handlers.CreateProductHandler)
			r.Put("/products/{id}", handlers.UpdateProductHandler)
			r.Delete("/products/{id}", handlers.DeleteProductHandler)
			r.Post("/products/{id}/adjust", handlers.AdjustStockHandler)
		})

		r.Get("/cash/current", handlers.CurrentSessionHandler)
		r.Post("/cash/open", handlers.OpenSessionHandler)
		r.Post("/cash/{id}/close", handlers.CloseSessionHandler)

		r.Post("/customers", handlers.CreateCustomerHandler)
		r.Get("/customers", handlers.GetCustomersHandler)
		r.Get("/customers/{id}", handlers.GetCustomerByIDHandler)
		r.Put("/customers/{id}", handlers.UpdateCustomerHandler)

		r.Post("/sales", handlers.CreateSaleHandler)
		r.Get("/sales", handlers.GetSalesHandler)
		r.Get("/sales/{id}", handlers.GetSaleByIDHandler)

		r.Get("/reports/dashboard", handlers.DashboardHandler)
		r.Get("/reports/movements", handlers.MovementsHandler)
		r.Get("/reports/sessions", handlers.SessionsHandler)
	})

	return r
}
