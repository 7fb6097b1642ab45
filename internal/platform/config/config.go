package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendJSONFile = "jsonfile"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendSheets   = "sheets"
)

type Config struct {
	Addr                 string
	Environment          string
	StorageBackend       string
	DataFile             string
	SQLitePath           string
	DatabaseURL          string
	RunMigrations        bool
	SpreadsheetID        string
	SheetName            string
	ServiceAccountFile   string
	ServiceAccountJSON   string
	JWTSecret            string
	OperatorEmail        string
	OperatorPasswordHash string
	TokenTTL             time.Duration
	PayPeriodAnchor      string
	PayPeriodLengthDays  int
	InvoiceOffsetDays    int
	PayDateOffsetDays    int
	CORSAllowedOrigins   []string
	MaxBodyBytes         int64
	RateLimitPerMinute   int
	MetricsEnabled       bool
	CompanyName          string
	InvoiceLogoPath      string
	ShutdownTimeout      time.Duration
	MaintenanceInterval  time.Duration
	IdempotencyTTL       time.Duration
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over .env values.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() Config {
	return Config{
		Addr:                 getEnv("APP_ADDR", ":8080"),
		Environment:          getEnv("APP_ENV", "development"),
		StorageBackend:       strings.ToLower(getEnv("STORAGE_BACKEND", BackendJSONFile)),
		DataFile:             getEnv("DATA_FILE", "data/chatter-data.json"),
		SQLitePath:           getEnv("SQLITE_DB_PATH", "data/cnct.db"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		RunMigrations:        getEnvBool("RUN_MIGRATIONS", true),
		SpreadsheetID:        getEnv("GOOGLE_SPREADSHEET_ID", ""),
		SheetName:            getEnv("GOOGLE_SHEET_NAME", "Sales"),
		ServiceAccountFile:   getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
		ServiceAccountJSON:   getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		OperatorEmail:        getEnv("OPERATOR_EMAIL", ""),
		OperatorPasswordHash: getEnv("OPERATOR_PASSWORD_HASH", ""),
		TokenTTL:             getEnvDuration("TOKEN_TTL", 12*time.Hour),
		PayPeriodAnchor:      getEnv("PAY_PERIOD_ANCHOR", "2024-11-01"),
		PayPeriodLengthDays:  getEnvInt("PAY_PERIOD_LENGTH_DAYS", 14),
		InvoiceOffsetDays:    getEnvInt("INVOICE_OFFSET_DAYS", 1),
		PayDateOffsetDays:    getEnvInt("PAY_DATE_OFFSET_DAYS", 2),
		CORSAllowedOrigins:   getEnvList("CORS_ALLOWED_ORIGINS", nil),
		MaxBodyBytes:         int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute:   getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		MetricsEnabled:       getEnvBool("METRICS_ENABLED", true),
		CompanyName:          getEnv("COMPANY_NAME", "CONNECT CHATTING LLC"),
		InvoiceLogoPath:      getEnv("INVOICE_LOGO_PATH", ""),
		ShutdownTimeout:      getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaintenanceInterval:  getEnvDuration("MAINTENANCE_INTERVAL", 10*time.Minute),
		IdempotencyTTL:       getEnvDuration("IDEMPOTENCY_TTL", 24*time.Hour),
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c Config) Validate() error {
	switch c.StorageBackend {
	case BackendMemory, BackendJSONFile, BackendSQLite:
	case BackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	case BackendSheets:
		if strings.TrimSpace(c.SpreadsheetID) == "" {
			return fmt.Errorf("GOOGLE_SPREADSHEET_ID is required for the sheets backend")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND %q is not supported", c.StorageBackend)
	}
	if c.StorageBackend == BackendJSONFile && strings.TrimSpace(c.DataFile) == "" {
		return fmt.Errorf("DATA_FILE is required for the jsonfile backend")
	}
	if c.IsProduction() {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if c.OperatorEmail == "" || c.OperatorPasswordHash == "" {
			return fmt.Errorf("OPERATOR_EMAIL and OPERATOR_PASSWORD_HASH must be set in production")
		}
	}
	if c.PayPeriodLengthDays < 1 {
		return fmt.Errorf("PAY_PERIOD_LENGTH_DAYS must be at least 1")
	}
	if _, err := time.Parse("2006-01-02", c.PayPeriodAnchor); err != nil {
		return fmt.Errorf("PAY_PERIOD_ANCHOR must be a YYYY-MM-DD date")
	}
	if c.InvoiceOffsetDays < 0 || c.PayDateOffsetDays < 0 {
		return fmt.Errorf("INVOICE_OFFSET_DAYS and PAY_DATE_OFFSET_DAYS must not be negative")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.IdempotencyTTL <= 0 {
		return fmt.Errorf("IDEMPOTENCY_TTL must be positive")
	}
	return nil
}
