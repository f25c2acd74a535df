package app

import (
	"time"

	"github.com/yungbote/wacatalog-backend/internal/clients/billing"
	"github.com/yungbote/wacatalog-backend/internal/data/db"
	"github.com/yungbote/wacatalog-backend/internal/observability"
	"github.com/yungbote/wacatalog-backend/internal/platform/envutil"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
	"github.com/yungbote/wacatalog-backend/internal/services"
)

type Config struct {
	Port        string
	CORSOrigins []string

	Postgres db.PostgresConfig
	Auth     services.AuthConfig
	Billing  billing.Config
	Otel     observability.OtelConfig

	// RedisAddr is optional; without it edit mode is kept in memory, views
	// are not counted and plan prices skip the cache tier.
	RedisAddr        string
	EditorTTL        time.Duration
	PriceCacheTTL    time.Duration
	ViewRetention    time.Duration
	ShutdownDeadline time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:        envutil.String("PORT", "8080", log),
		CORSOrigins: envutil.List("CORS_ORIGINS", nil),
		Postgres: db.PostgresConfig{
			Host:            envutil.String("POSTGRES_HOST", "localhost", log),
			Port:            envutil.String("POSTGRES_PORT", "5432", log),
			User:            envutil.String("POSTGRES_USER", "postgres", log),
			Password:        envutil.String("POSTGRES_PASSWORD", "", log),
			Name:            envutil.String("POSTGRES_NAME", "wacatalog", log),
			SSLMode:         envutil.String("POSTGRES_SSLMODE", "disable", log),
			MaxOpenConns:    envutil.Int("POSTGRES_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    envutil.Int("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envutil.Seconds("POSTGRES_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Auth: services.AuthConfig{
			SecretKey: envutil.String("JWT_SECRET_KEY", "", log),
			Issuer:    envutil.String("JWT_ISSUER", "", log),
			Audience:  envutil.String("JWT_AUDIENCE", "", log),
			Leeway:    envutil.Seconds("JWT_LEEWAY", 30*time.Second),
		},
		Billing: billing.Config{
			PricesURL:  envutil.String("BILLING_PRICES_URL", "", log),
			APIKey:     envutil.String("BILLING_API_KEY", "", log),
			Timeout:    envutil.Seconds("BILLING_TIMEOUT", 5*time.Second),
			MaxRetries: envutil.Int("BILLING_MAX_RETRIES", 2),
		},
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "wacatalog-backend", log),
			Environment: envutil.String("OTEL_ENVIRONMENT", "development", log),
			Version:     envutil.String("OTEL_SERVICE_VERSION", "dev", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: float64(envutil.Int("OTEL_SAMPLE_PERCENT", 100)) / 100,
		},
		RedisAddr:        envutil.String("REDIS_ADDR", "", log),
		EditorTTL:        envutil.Seconds("EDITOR_MODE_TTL", 12*time.Hour),
		PriceCacheTTL:    envutil.Seconds("PLAN_PRICE_CACHE_TTL", 24*time.Hour),
		ViewRetention:    envutil.Seconds("CATALOG_VIEW_RETENTION", 90*24*time.Hour),
		ShutdownDeadline: envutil.Seconds("SHUTDOWN_DEADLINE", 15*time.Second),
	}
}
