package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"clinicrev/internal/core"
)

// Input sources
const (
	SourceCSV    = "csv"
	SourceSheets = "sheets"
)

type Config struct {
	// Input
	InputSource string
	InputPath   string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Rates
	RateOverridesFile string

	// Report
	TakeoverDate  string
	OutputDir     string
	OutputFormats []string
	Workers       int

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() *Config {
	cfg := &Config{
		InputSource: getEnv("INPUT_SOURCE", SourceCSV),
		InputPath:   getEnv("INPUT_PATH", ""),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", getEnv("GOOGLE_APPLICATION_CREDENTIALS", "")),

		RateOverridesFile: getEnv("RATE_OVERRIDES_FILE", ""),

		TakeoverDate:  getEnv("TAKEOVER_DATE", "2023-07-01"),
		OutputDir:     getEnv("OUTPUT_DIR", "./out"),
		OutputFormats: getEnvList("OUTPUT_FORMATS", []string{"csv"}),
		Workers:       getEnvInt("WORKERS", 1),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "clinicrev"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "revenue_reports"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	return cfg
}

// Takeover returns the parsed takeover date. Call Validate first.
func (c *Config) Takeover() (core.Date, error) {
	return core.ParseISODate(strings.TrimSpace(c.TakeoverDate))
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate input source
	switch c.InputSource {
	case SourceCSV:
		if c.InputPath == "" {
			errors = append(errors, "input path is required when using csv source")
		} else if _, err := os.Stat(c.InputPath); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("input file does not exist: %s", c.InputPath))
		}
	case SourceSheets:
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets source")
		}
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE must be provided for sheets source")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid input source '%s': must be one of [%s %s]", c.InputSource, SourceCSV, SourceSheets))
	}

	// Validate rate overrides file if provided
	if c.RateOverridesFile != "" {
		if _, err := os.Stat(c.RateOverridesFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("rate overrides file does not exist: %s", c.RateOverridesFile))
		}
	}

	// Validate report settings
	if _, err := c.Takeover(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid takeover date '%s': must be YYYY-MM-DD", c.TakeoverDate))
	}
	if c.OutputDir == "" {
		errors = append(errors, "output directory cannot be empty")
	}
	if len(c.OutputFormats) == 0 {
		errors = append(errors, "at least one output format is required")
	}
	for _, f := range c.OutputFormats {
		switch f {
		case "csv", "parquet", "json":
		default:
			errors = append(errors, fmt.Sprintf("invalid output format '%s': must be one of [csv parquet json]", f))
		}
	}
	if c.Workers < 1 {
		errors = append(errors, fmt.Sprintf("invalid workers %d: must be at least 1", c.Workers))
	} else if c.Workers > 256 {
		errors = append(errors, fmt.Sprintf("invalid workers %d: must be at most 256", c.Workers))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate logging
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	// Return combined errors
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

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated value, lowercased and trimmed.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return SplitList(value)
}

// SplitList splits "csv, Parquet" into ["csv", "parquet"], dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
