package auth

import (
	"testing"
	"time"

	"github.com/boutiquehq/boutique-pos/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	Configure("test-secret", time.Minute)

	token, err := GenerateToken(models.User{ID: 7, TenantID: 3, Email: "clerk@shop.test", Role: models.RoleEmployee})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	_, claims, err := TokenClaims("Bearer " + token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sub, _ := claims["sub"].(float64); int(sub) != 7 {
		t.Errorf("sub: %v", claims["sub"])
	}
	if tenant, _ := claims["tenant_id"].(float64); int(tenant) != 3 {
		t.Errorf("tenant_id: %v", claims["tenant_id"])
	}
	if role, _ := claims["role"].(string); role != models.RoleEmployee {
		t.Errorf("role: %v", claims["role"])
	}
}

func TestTokenClaims_Rejects(t *testing.T) {
	Configure("test-secret", time.Minute)

	token, err := GenerateToken(models.User{ID: 1, TenantID: 1, Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	tests := []struct {
		name          string
		authorization string
	}{
		{"empty header", ""},
		{"missing scheme", token},
		{"wrong scheme", "Basic " + token},
		{"garbage token", "Bearer not.a.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := TokenClaims(tt.authorization); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestTokenClaims_RejectsWrongSecret(t *testing.T) {
	Configure("secret-a", time.Minute)
	token, err := GenerateToken(models.User{ID: 1, TenantID: 1, Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	Configure("secret-b", time.Minute)
	if _, _, err := TokenClaims("Bearer " + token); err == nil {
		t.Error("token signed with the old secret was accepted")
	}
}

func TestTokenClaims_RejectsExpired(t *testing.T) {
	Configure("test-secret", time.Minute)
	accessTokenTTL = -time.Minute
	t.Cleanup(func() { accessTokenTTL = time.Minute })

	token, err := GenerateToken(models.User{ID: 1, TenantID: 1, Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, _, err := TokenClaims("Bearer " + token); err == nil {
		t.Error("expired token was accepted")
	}
}
