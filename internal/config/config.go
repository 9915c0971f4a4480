package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Parameter store
	ParamBackend  string
	ParamsFile    string
	ParamCacheTTL time.Duration

	// Database
	SQLiteDBPath string

	// Statistics source
	INEBaseURL       string
	INEMonthlySeries string
	INEAnnualSeries  string

	// Budgeting service
	YNABBaseURL string

	HTTPTimeout  time.Duration
	RoundingUnit int64

	// Scheduler
	RunTimeout       time.Duration
	ScheduleInterval time.Duration

	// AMQP notifications, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets audit, disabled when GoogleSpreadsheetID is empty
	GoogleSpreadsheetID        string
	GoogleSheetName            string
	GoogleServiceAccountJSON   string
	GoogleServiceAccountFile   string
	GoogleApplicationCredsFile string

	LogLevel string
}

func Load() *Config {
	return &Config{
		ParamBackend:  strings.ToLower(getEnv("PARAM_BACKEND", "env")),
		ParamsFile:    getEnv("PARAMS_FILE", "./params.yaml"),
		ParamCacheTTL: getEnvDuration("PARAM_CACHE_TTL", 10*time.Minute),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/ipcynab.db"),

		INEBaseURL:       getEnv("INE_BASE_URL", "https://servicios.ine.es"),
		INEMonthlySeries: getEnv("INE_MONTHLY_SERIES", "IPC251858"),
		INEAnnualSeries:  getEnv("INE_ANNUAL_SERIES", "IPC251852"),

		YNABBaseURL: getEnv("YNAB_BASE_URL", "https://api.ynab.com"),

		HTTPTimeout:  getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
		RoundingUnit: getEnvInt64("ROUNDING_UNIT", 1000),

		RunTimeout:       getEnvDuration("RUN_TIMEOUT", 5*time.Minute),
		ScheduleInterval: getEnvDuration("SCHEDULE_INTERVAL", 24*time.Hour),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "ipcynab"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ipc_results"),

		GoogleSpreadsheetID:        getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:            getEnv("GOOGLE_SHEET_NAME", "IPC Audit"),
		GoogleServiceAccountJSON:   getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile:   getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleApplicationCredsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validBackends := []string{"env", "yaml", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.ParamBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid parameter backend '%s': must be one of %v", c.ParamBackend, validBackends))
	}

	if c.ParamBackend == "yaml" {
		if c.ParamsFile == "" {
			errors = append(errors, "parameters file cannot be empty when using yaml backend")
		} else if _, err := os.Stat(c.ParamsFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("parameters file does not exist: %s", c.ParamsFile))
		}
	}

	if c.ParamBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.ParamCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid parameter cache ttl %v: must not be negative", c.ParamCacheTTL))
	}

	for _, base := range []struct{ name, raw string }{{"INE", c.INEBaseURL}, {"YNAB", c.YNABBaseURL}} {
		if u, err := url.Parse(base.raw); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errors = append(errors, fmt.Sprintf("invalid %s base URL '%s': must be an http(s) URL", base.name, base.raw))
		}
	}

	if strings.TrimSpace(c.INEMonthlySeries) == "" {
		errors = append(errors, "INE monthly series cannot be empty")
	}
	if strings.TrimSpace(c.INEAnnualSeries) == "" {
		errors = append(errors, "INE annual series cannot be empty")
	}

	if c.HTTPTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid HTTP timeout %v: must be at least 1 second", c.HTTPTimeout))
	}

	if c.RoundingUnit < 1 {
		errors = append(errors, fmt.Sprintf("invalid rounding unit %d: must be at least 1 milliunit", c.RoundingUnit))
	}

	if c.RunTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid run timeout %v: must be at least 1 second", c.RunTimeout))
	}

	if c.ScheduleInterval < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid schedule interval %v: must be at least 1 minute", c.ScheduleInterval))
	} else if c.ScheduleInterval > 31*24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid schedule interval %v: must be at most 31 days", c.ScheduleInterval))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.GoogleSpreadsheetID != "" {
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" && c.GoogleApplicationCredsFile == "" {
			errors = append(errors, "one of GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_APPLICATION_CREDENTIALS must be provided for the sheets audit")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
