package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/chesscoach/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:               ":8080",
		DBPath:             "test.db",
		LogLevel:           "INFO",
		ReportWorkerCount:  2,
		ReportQueueSize:    32,
		BatchMaxConcurrent: 4,
		ReportListLimit:    50,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_LogLevels(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"DEBUG", false},
		{"INFO", false},
		{"WARN", false},
		{"ERROR", false},
		{"debug", false}, // lowercase is accepted
		{"INVALID", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = tt.level

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "LOG_LEVEL")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_InvalidCounts(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*config.Config)
		expectedError string
	}{
		{
			name:          "zero report workers",
			mutate:        func(c *config.Config) { c.ReportWorkerCount = 0 },
			expectedError: "REPORT_WORKER_COUNT",
		},
		{
			name:          "negative report workers",
			mutate:        func(c *config.Config) { c.ReportWorkerCount = -1 },
			expectedError: "REPORT_WORKER_COUNT",
		},
		{
			name:          "zero queue size",
			mutate:        func(c *config.Config) { c.ReportQueueSize = 0 },
			expectedError: "REPORT_QUEUE_SIZE",
		},
		{
			name:          "zero batch concurrency",
			mutate:        func(c *config.Config) { c.BatchMaxConcurrent = 0 },
			expectedError: "BATCH_MAX_CONCURRENT",
		},
		{
			name:          "zero list limit",
			mutate:        func(c *config.Config) { c.ReportListLimit = 0 },
			expectedError: "REPORT_LIST_LIMIT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "DB_PATH cannot be empty")
	assert.Contains(t, errStr, "LOG_LEVEL")
	assert.Contains(t, errStr, "REPORT_WORKER_COUNT")
	assert.Contains(t, errStr, "REPORT_QUEUE_SIZE")
	assert.Contains(t, errStr, "BATCH_MAX_CONCURRENT")
	assert.Contains(t, errStr, "REPORT_LIST_LIMIT")
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ADDR", "DB_PATH", "LOG_LEVEL", "REPORT_WORKER_COUNT", "REPORT_QUEUE_SIZE", "BATCH_MAX_CONCURRENT", "REPORT_LIST_LIMIT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "file:chesscoach.db", cfg.DBPath)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 2, cfg.ReportWorkerCount)
	assert.Equal(t, 32, cfg.ReportQueueSize)
	assert.Equal(t, 4, cfg.BatchMaxConcurrent)
	assert.Equal(t, 50, cfg.ReportListLimit)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("REPORT_WORKER_COUNT", "8")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, 8, cfg.ReportWorkerCount)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("REPORT_WORKER_COUNT", "many")

	cfg := config.Load()

	assert.Equal(t, 2, cfg.ReportWorkerCount)
}
