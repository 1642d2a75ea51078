package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr               string
	DBPath             string
	LogLevel           string
	ReportWorkerCount  int
	ReportQueueSize    int
	BatchMaxConcurrent int
	ReportListLimit    int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:               envOr("ADDR", ":8080"),
		DBPath:             envOr("DB_PATH", "file:chesscoach.db"),
		LogLevel:           envOr("LOG_LEVEL", "INFO"),
		ReportWorkerCount:  envIntOr("REPORT_WORKER_COUNT", 2),
		ReportQueueSize:    envIntOr("REPORT_QUEUE_SIZE", 32),
		BatchMaxConcurrent: envIntOr("BATCH_MAX_CONCURRENT", 4),
		ReportListLimit:    envIntOr("REPORT_LIST_LIMIT", 50),
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}

	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}

	if c.ReportWorkerCount < 1 {
		problems = append(problems, fmt.Sprintf("REPORT_WORKER_COUNT must be at least 1 (got %d)", c.ReportWorkerCount))
	}
	if c.ReportQueueSize < 1 {
		problems = append(problems, fmt.Sprintf("REPORT_QUEUE_SIZE must be at least 1 (got %d)", c.ReportQueueSize))
	}
	if c.BatchMaxConcurrent < 1 {
		problems = append(problems, fmt.Sprintf("BATCH_MAX_CONCURRENT must be at least 1 (got %d)", c.BatchMaxConcurrent))
	}
	if c.ReportListLimit < 1 {
		problems = append(problems, fmt.Sprintf("REPORT_LIST_LIMIT must be at least 1 (got %d)", c.ReportListLimit))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
