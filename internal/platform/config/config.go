package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

type Config struct {
	Addr                 string
	Environment          string
	LogLevel             string
	LogFormat            string
	DatabaseURL          string
	RunMigrations        bool
	RunSeed              bool
	SeedFile             string
	PolicyDir            string
	PolicyWatch          bool
	PolicyResyncSchedule string
	LeaveDefaultBalance  int
	BalanceCheckedTypes  string
	ReservePending       bool
	MaxBodyBytes         int64
	RateLimitPerMinute   int
	MetricsEnabled       bool
	SearchDefaultResults int
	ShutdownTimeout      time.Duration
}

// LoadEnvFile loads path (default ".env") into the process environment.
// Variables already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func Load() Config {
	return Config{
		Addr:                 getEnv("APP_ADDR", ":8080"),
		Environment:          getEnv("APP_ENV", "development"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "json"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		RunMigrations:        getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:              getEnvBool("RUN_SEED", true),
		SeedFile:             getEnv("SEED_FILE", ""),
		PolicyDir:            getEnv("POLICY_DIR", ""),
		PolicyWatch:          getEnvBool("POLICY_WATCH", false),
		PolicyResyncSchedule: getEnv("POLICY_RESYNC_SCHEDULE", "@every 1h"),
		LeaveDefaultBalance:  getEnvInt("LEAVE_DEFAULT_BALANCE", 20),
		BalanceCheckedTypes:  getEnv("LEAVE_BALANCE_CHECKED_TYPES", "Annual"),
		ReservePending:       getEnvBool("LEAVE_RESERVE_PENDING", false),
		MaxBodyBytes:         int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute:   getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		MetricsEnabled:       getEnvBool("METRICS_ENABLED", true),
		SearchDefaultResults: getEnvInt("SEARCH_DEFAULT_RESULTS", 3),
		ShutdownTimeout:      getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
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

func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("APP_ADDR is required")
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text")
	}
	if c.LeaveDefaultBalance <= 0 {
		return fmt.Errorf("LEAVE_DEFAULT_BALANCE must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.SearchDefaultResults <= 0 {
		return fmt.Errorf("SEARCH_DEFAULT_RESULTS must be positive")
	}
	if c.PolicyWatch && strings.TrimSpace(c.PolicyDir) == "" {
		return fmt.Errorf("POLICY_DIR must be set when POLICY_WATCH is true")
	}
	if c.PolicyDir != "" && c.PolicyResyncSchedule != "" {
		if _, err := cron.ParseStandard(c.PolicyResyncSchedule); err != nil {
			return fmt.Errorf("POLICY_RESYNC_SCHEDULE is invalid: %w", err)
		}
	}
	return nil
}
