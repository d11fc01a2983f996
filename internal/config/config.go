package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	HTTPAddr string
	APIToken string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
	DBAutoMigrate     bool
	DBSeedDemo        bool

	Business      BusinessConfig
	SMTP          SMTPConfig
	RateLimit     RateLimitConfig
	Observability ObservabilityConfig
}

// ObservabilityConfig carries logging and OTLP export settings. The
// standard OTEL_* variables win over the application-prefixed ones.
type ObservabilityConfig struct {
	LogLevel      string
	LogFormat     string
	OtelEnabled   bool
	OTLPEndpoint  string
	OTLPProtocol  string
	SamplingRatio float64
}

// BusinessConfig holds the static business defaults. The hot-reloadable
// profile lives in BusinessProfileHolder.
type BusinessConfig struct {
	Name          string
	Timezone      string
	RoutePrefix   string
	DefaultKmRate float64
	PortalURL     string
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type RateLimitConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	ConfirmRate   float64
	ConfirmBurst  int
	SnapshotRate  float64
	SnapshotBurst int
	LockTTLSecond int
}

const (
	DefaultTimezone    = "Europe/Rome"
	DefaultRoutePrefix = "#/"
	DefaultKmRate      = 0.42
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:           getenv("APP_SERVICE", "gestionale"),
		AppVersion:        getenv("APP_VERSION", "0.1.0"),
		Environment:       getenv("DEPLOYMENT_ENV", getenv("ENVIRONMENT", "development")),
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		APIToken:          strings.TrimSpace(getenv("API_TOKEN", "")),
		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "postgres"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),
		DBAutoMigrate:     getenvBool("DATABASE_AUTO_MIGRATE", true),
		DBSeedDemo:        getenvBool("DATABASE_SEED_DEMO", false),
		Business: BusinessConfig{
			Name:          getenv("BUSINESS_NAME", "Gestionale"),
			Timezone:      getenv("BUSINESS_TIMEZONE", DefaultTimezone),
			RoutePrefix:   getenv("BUSINESS_ROUTE_PREFIX", DefaultRoutePrefix),
			DefaultKmRate: getenvFloat("BUSINESS_DEFAULT_KM_RATE", DefaultKmRate),
			PortalURL:     strings.TrimSpace(getenv("BUSINESS_PORTAL_URL", "")),
		},
		SMTP: SMTPConfig{
			Host:     strings.TrimSpace(getenv("SMTP_HOST", "")),
			Port:     getenv("SMTP_PORT", "587"),
			Username: getenv("SMTP_USERNAME", ""),
			Password: getenv("SMTP_PASSWORD", ""),
			From:     strings.TrimSpace(getenv("SMTP_FROM", "")),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getenv("REDIS_PASSWORD", ""),
			RedisDB:       getenvInt("REDIS_DB", 0),
			ConfirmRate:   getenvFloat("RATE_LIMIT_CONFIRM_RATE", 0.5),
			ConfirmBurst:  getenvInt("RATE_LIMIT_CONFIRM_BURST", 5),
			SnapshotRate:  getenvFloat("RATE_LIMIT_SNAPSHOT_RATE", 2),
			SnapshotBurst: getenvInt("RATE_LIMIT_SNAPSHOT_BURST", 20),
			LockTTLSecond: getenvInt("RATE_LIMIT_LOCK_TTL_SECONDS", 30),
		},
	}
	cfg.Observability = ObservabilityConfig{
		LogLevel:      strings.ToLower(strings.TrimSpace(getenv("LOG_LEVEL", "info"))),
		LogFormat:     strings.ToLower(strings.TrimSpace(getenv("LOG_FORMAT", "json"))),
		OtelEnabled:   getenvBool("OTEL_ENABLED", cfg.IsProduction()),
		OTLPEndpoint:  strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_ENDPOINT", getenv("OTLP_ENDPOINT", "localhost:4317"))),
		OTLPProtocol:  strings.ToLower(strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"))),
		SamplingRatio: getenvFloat("OTEL_SAMPLING_RATIO", 0.25),
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
	if err != nil {
		return def
	}
	return parsed
}
