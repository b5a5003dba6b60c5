package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds every runtime knob, read from the environment with the POS_
// prefix (POS_DATABASE_URL, POS_REDIS_ADDR, ...). A .env file in the working
// directory is honored for development.
type Config struct {
	Addr        string
	DatabaseURL string
	RedisAddr   string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// CashTolerance is the absolute session discrepancy above which the cash
	// session report flags a closure for review.
	CashTolerance decimal.Decimal

	// DashboardCacheTTL bounds staleness of the redis-cached dashboard.
	DashboardCacheTTL time.Duration

	AdminEmail    string
	AdminPassword string
}

func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded .env")
	}

	v := viper.New()
	v.SetEnvPrefix("POS")
	v.AutomaticEnv()

	v.SetDefault("ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("JWT_SECRET", "dev-secret-change-me")
	v.SetDefault("ACCESS_TOKEN_TTL", "15m")
	v.SetDefault("REFRESH_TOKEN_TTL", "720h")
	v.SetDefault("CASH_TOLERANCE", "1.00")
	v.SetDefault("DASHBOARD_CACHE_TTL", "30s")
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD", "")

	tolerance, err := decimal.NewFromString(v.GetString("CASH_TOLERANCE"))
	if err != nil {
		log.Printf("invalid POS_CASH_TOLERANCE %q, using 1.00", v.GetString("CASH_TOLERANCE"))
		tolerance = decimal.RequireFromString("1.00")
	}

	return Config{
		Addr:              v.GetString("ADDR"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		AccessTokenTTL:    v.GetDuration("ACCESS_TOKEN_TTL"),
		RefreshTokenTTL:   v.GetDuration("REFRESH_TOKEN_TTL"),
		CashTolerance:     tolerance,
		DashboardCacheTTL: v.GetDuration("DASHBOARD_CACHE_TTL"),
		AdminEmail:        v.GetString("ADMIN_EMAIL"),
		AdminPassword:     v.GetString("ADMIN_PASSWORD"),
	}
}
