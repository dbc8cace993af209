package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StoreSupabase = "supabase"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Cache & sessions
	CacheTTL   time.Duration
	SessionTTL time.Duration

	// Observability
	OTLPEndpoint string

	// Persistence
	StoreBackend       string
	SQLitePath         string
	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseServiceKey string

	// Model server (anomaly decision function + tax predictor)
	ModelAPIURL         string
	AnomalyModelEnabled bool
	TaxModelEnabled     bool
	ModelVersion        string

	// Tax
	TaxSlabsFile      string
	DefaultFiscalYear string

	// Auth
	JWTSecret string

	// Agent uploads
	UploadMaxBytes   int64
	UploadRatePerSec float64
	UploadBurst      int
}

// LoadDotEnv reads a .env file into the environment without overriding
// variables that are already set.
func LoadDotEnv(paths ...string) error {
	return godotenv.Load(paths...)
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 50),

		CacheTTL:   getEnvDuration("CACHE_TTL", 5*time.Minute),
		SessionTTL: getEnvDuration("SESSION_TTL", 30*time.Minute),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		StoreBackend:       strings.ToLower(getEnv("STORE_BACKEND", StoreMemory)),
		SQLitePath:         getEnv("SQLITE_PATH", "assistant.db"),
		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey:    getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),

		ModelAPIURL:         getEnv("MODEL_API_URL", "http://localhost:8090"),
		AnomalyModelEnabled: getEnvBool("ANOMALY_MODEL_ENABLED", false),
		TaxModelEnabled:     getEnvBool("TAX_MODEL_ENABLED", false),
		ModelVersion:        getEnv("MODEL_VERSION", "v1"),

		TaxSlabsFile:      getEnv("TAX_SLABS_FILE", ""),
		DefaultFiscalYear: getEnv("DEFAULT_FISCAL_YEAR", "2024"),

		JWTSecret: getEnv("JWT_SECRET", "assistant-default-dev-secret-change-me"),

		UploadMaxBytes:   int64(getEnvInt("UPLOAD_MAX_BYTES", 10<<20)),
		UploadRatePerSec: getEnvFloat("UPLOAD_RATE_PER_SEC", 2),
		UploadBurst:      getEnvInt("UPLOAD_BURST", 5),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
