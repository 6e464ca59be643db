package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration.
type Config struct {
	Country   string
	StartYear int
	EndYear   int
	Source    SourceConfig
	Output    OutputConfig
	Database  DatabaseConfig
	Server    ServerConfig
}

// SourceConfig selects where raw observations come from.
type SourceConfig struct {
	// FilePath switches the pipeline to a local CSV/XLSX file when set;
	// otherwise the remote World Bank API is used.
	FilePath string
	BaseURL  string
	Timeout  time.Duration
}

// OutputConfig holds export destinations and presentation settings.
type OutputConfig struct {
	Dir       string
	NAMarker  string
	Precision int
	Charts    bool
}

// DatabaseConfig holds the optional archive database settings.
type DatabaseConfig struct {
	URL string // empty disables archiving
}

// ServerConfig holds dashboard server settings.
type ServerConfig struct {
	Port string
}

// Load reads configuration from the environment, honoring a local .env
// file when present, and validates it.
func Load() (*Config, error) {
	// Missing .env is fine; explicit environment always wins.
	_ = godotenv.Load()

	cfg := &Config{
		Country:   getEnvOrDefault("MACROPULSE_COUNTRY", "US"),
		StartYear: getEnvIntOrDefault("MACROPULSE_START_YEAR", 1990),
		EndYear:   getEnvIntOrDefault("MACROPULSE_END_YEAR", time.Now().Year()-1),
		Source: SourceConfig{
			FilePath: os.Getenv("MACROPULSE_SOURCE_FILE"),
			BaseURL:  getEnvOrDefault("MACROPULSE_API_URL", ""),
			Timeout:  time.Duration(getEnvIntOrDefault("MACROPULSE_FETCH_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Output: OutputConfig{
			Dir:       getEnvOrDefault("MACROPULSE_OUTPUT_DIR", "out"),
			NAMarker:  getEnvOrDefault("MACROPULSE_NA_MARKER", "NA"),
			Precision: getEnvIntOrDefault("MACROPULSE_PRECISION", -1),
			Charts:    getEnvBoolOrDefault("MACROPULSE_CHARTS", true),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("MACROPULSE_PORT", "8080"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Country == "" {
		return fmt.Errorf("country must not be empty")
	}
	if c.StartYear > c.EndYear {
		return fmt.Errorf("start year %d is after end year %d", c.StartYear, c.EndYear)
	}
	if c.Source.Timeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}
	if c.Output.NAMarker == "" || c.Output.NAMarker == "0" {
		return fmt.Errorf("NA marker must be a non-empty, non-zero token")
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBoolOrDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
