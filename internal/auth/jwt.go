package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/boutiquehq/boutique-pos/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecret      = []byte("dev-secret-change-me")
	accessTokenTTL = 15 * time.Minute
)

// Configure sets the signing secret and access token lifetime. Called once at
// startup before any token is issued.
func Configure(secret string, ttl time.Duration) {
	jwtSecret = []byte(secret)
	if ttl > 0 {
		accessTokenTTL = ttl
	}
}

// GenerateToken issues an HS256 access token binding the actor to a tenant.
// The ledger trusts this binding; no operation may cross the tenant in the
// claims.
func GenerateToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":       user.ID,
		"tenant_id": user.TenantID,
		"email":     user.Email,
		"role":      user.Role,
		"exp":       time.Now().Add(accessTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ParseToken(tokenStr string) (*jwt.Token, error) {
	return jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return jwtSecret, nil
	})
}

// TokenClaims extracts the claims from an Authorization header value.
func TokenClaims(authorization string) (*jwt.Token, jwt.MapClaims, error) {
	if !strings.HasPrefix(authorization, "Bearer ") {
		return nil, nil, errors.New("missing or invalid token")
	}

	token, err := ParseToken(strings.TrimPrefix(authorization, "Bearer "))
	if err != nil || !token.Valid {
		return nil, nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, nil, errors.New("invalid token claims")
	}
	return token, claims, nil
}
