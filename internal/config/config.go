package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/novakeep/stakevault/internal/domain"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	ServiceName string
	Version     string
	Environment string
	LogDir      string

	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	// APIKey guards the account surface. AdminAPIKey and AuthorityAPIKey guard
	// the admin and skill-authority surfaces; both fall back to APIKey when
	// unset so single-key deployments keep working.
	APIKey          string
	AdminAPIKey     string
	AuthorityAPIKey string

	// TrustedProxies lists proxy IPs whose X-Forwarded-For headers are
	// honored when resolving client IPs for security logging.
	TrustedProxies []string

	// Ledger economics. Defaults mirror the published vault parameters.
	TreasuryAccount       string
	CommissionRateBP      int64
	DailyWithdrawCap      int64
	MinStakeAmount        int64
	MaxStakeAmount        int64
	AutoCompoundInterval  time.Duration
	AutoCompoundMinReward int64

	// Gamification authority endpoint. Empty base URL leaves the module
	// unconfigured and all authority calls are skipped.
	GamificationBaseURL string
	GamificationAPIKey  string

	// OTLP/HTTP trace endpoint. Empty disables tracing entirely.
	OTELEndpoint string

	EventMaxRetries     int
	EventRetryDelay     time.Duration
	EventDeadLetterPath string

	// EventLogRetentionDays bounds the audit trail; older rows are deleted
	// by the scheduled cleanup job.
	EventLogRetentionDays int
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		ServiceName: getEnv("SERVICE_NAME", "stakevault"),
		Version:     getEnv("VERSION", "dev"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		LogDir:      getEnv("LOG_DIR", "logs"),

		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "stakevault"),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),

		APIKey:          getEnv("API_KEY", ""),
		AdminAPIKey:     getEnv("ADMIN_API_KEY", ""),
		AuthorityAPIKey: getEnv("AUTHORITY_API_KEY", ""),

		TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),

		TreasuryAccount:       getEnv("TREASURY_ACCOUNT", DefaultTreasuryAccount),
		CommissionRateBP:      getEnvAsInt64("COMMISSION_RATE_BP", domain.DefaultCommissionRateBP),
		DailyWithdrawCap:      getEnvAsInt64("DAILY_WITHDRAW_CAP", domain.DefaultDailyWithdrawCap),
		MinStakeAmount:        getEnvAsInt64("MIN_STAKE_AMOUNT", domain.MinStakeAmount),
		MaxStakeAmount:        getEnvAsInt64("MAX_STAKE_AMOUNT", domain.MaxStakeAmount),
		AutoCompoundInterval:  getEnvAsDuration("AUTO_COMPOUND_INTERVAL", DefaultAutoCompoundInterval),
		AutoCompoundMinReward: getEnvAsInt64("AUTO_COMPOUND_MIN_REWARD", DefaultAutoCompoundMinReward),

		GamificationBaseURL: getEnv("GAMIFICATION_BASE_URL", ""),
		GamificationAPIKey:  getEnv("GAMIFICATION_API_KEY", ""),

		EventLogRetentionDays: getEnvAsInt("EVENT_LOG_RETENTION_DAYS", DefaultEventLogRetentionDays),

		OTELEndpoint: getEnv("STAKEVAULT_OTEL_ENDPOINT", ""),

		EventMaxRetries:     getEnvAsInt("EVENT_MAX_RETRIES", 0),
		EventRetryDelay:     getEnvAsDuration("EVENT_RETRY_DELAY", 0),
		EventDeadLetterPath: getEnv("EVENT_DEAD_LETTER_PATH", ""),
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	// Privileged surfaces fall back to the account key when no dedicated
	// key is configured.
	if cfg.AdminAPIKey == "" {
		cfg.AdminAPIKey = cfg.APIKey
	}
	if cfg.AuthorityAPIKey == "" {
		cfg.AuthorityAPIKey = cfg.APIKey
	}

	// A full-basis commission would zero out every net payout and deposit.
	if cfg.CommissionRateBP < 0 || cfg.CommissionRateBP >= domain.Basis {
		return nil, fmt.Errorf("COMMISSION_RATE_BP must be between 0 and %d, got %d", domain.Basis-1, cfg.CommissionRateBP)
	}
	if cfg.DailyWithdrawCap <= 0 {
		return nil, fmt.Errorf("DAILY_WITHDRAW_CAP must be positive, got %d", cfg.DailyWithdrawCap)
	}
	if cfg.MinStakeAmount <= 0 || cfg.MaxStakeAmount < cfg.MinStakeAmount {
		return nil, fmt.Errorf("invalid stake bounds: min=%d max=%d", cfg.MinStakeAmount, cfg.MaxStakeAmount)
	}
	// The reward math is sized for deposits up to the ledger ceiling.
	if cfg.MaxStakeAmount > domain.MaxStakeAmount {
		return nil, fmt.Errorf("MAX_STAKE_AMOUNT must not exceed %d, got %d", domain.MaxStakeAmount, cfg.MaxStakeAmount)
	}
	if cfg.TreasuryAccount == "" {
		return nil, fmt.Errorf("TREASURY_ACCOUNT must not be empty")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as int, falling back to the
// default on absence or parse failure
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvAsInt64 retrieves an environment variable as int64, falling back to
// the default on absence or parse failure
func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as time.Duration,
// falling back to the default on absence or parse failure
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvAsList retrieves a comma-separated environment variable as a slice,
// dropping empty entries
func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
