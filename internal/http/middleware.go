package http

import (
	"net"
	"net/http"

	"github.com/boutiquehq/boutique-pos/internal/auth"
	"github.com/boutiquehq/boutique-pos/internal/http/handlers"
	"github.com/boutiquehq/boutique-pos/internal/http/rate_limiter"
	"github.com/boutiquehq/boutique-pos/internal/models"
)

// AuthMiddleware validates the bearer token and binds the actor (user,
// tenant, role) into the request context. Handlers trust this binding; no
// request may address another tenant's data.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := auth.TokenClaims(r.Header.Get("Authorization"))
		if err != nil {
			http.Error(w, "missing or invalid token", http.StatusUnauthorized)
			return
		}

		sub, okSub := claims["sub"].(float64)
		tenantID, okTenant := claims["tenant_id"].(float64)
		role, okRole := claims["role"].(string)
		if !okSub || !okTenant || !okRole || tenantID == 0 {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		actor := handlers.Actor{UserID: int(sub), TenantID: int(tenantID), Role: role}
		next.ServeHTTP(w, r.WithContext(handlers.WithActor(r.Context(), actor)))
	})
}

// RequireAdmin rejects requests whose actor is not an ADMIN.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handlers.GetActor(r).Role != models.RoleAdmin {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimitMiddleware applies the per-client token bucket.
func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !rate_limiter.GetVisitor(ip).Allow() {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
