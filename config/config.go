package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Sheets   SheetsConfig   `mapstructure:"sheets"`
	Prices   PricesConfig   `mapstructure:"prices"`
	Import   ImportConfig   `mapstructure:"import"`
}

// SheetsConfig points at the remote spreadsheet API. Spreadsheets are
// synchronized in list order (primary first).
type SheetsConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Spreadsheets []string      `mapstructure:"spreadsheets"`
}

// PricesConfig points at the OHLC time-series provider.
type PricesConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ImportConfig carries ingestion defaults.
type ImportConfig struct {
	// OnConflict is the default conflict policy: "prompt", "skip",
	// "overwrite" or "abort".
	OnConflict string `mapstructure:"on_conflict"`
}

// LogConfig defines the logger configuration options.
type LogConfig struct {
	Level       string `mapstructure:"level"`       // log level: "debug", "info", "warn", "error"
	Format      string `mapstructure:"format"`      // log format: "json" or "console"
	OutputFile  string `mapstructure:"output_file"` // file path to store logs (optional)
	Environment string `mapstructure:"environment"` // environment: "dev" or "prod"
}

// Load loads application configuration using Viper.
// It reads from config.yaml and overrides with environment variables.
func Load() *Config {
	v := viper.New()

	v.SetConfigName("config") // config.yaml
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	ex, _ := os.Executable()
	if strings.Contains(ex, "go-build") {
		pwd, _ := os.Getwd()
		v.AddConfigPath(filepath.Join(pwd, "../../config"))
	} else {
		v.AddConfigPath(filepath.Join(filepath.Dir(ex), "../config"))
	}

	// Support environment variables with dot notation (e.g., SHEETS_API_KEY)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.environment", "dev")
	v.SetDefault("import.on_conflict", "prompt")
	v.SetDefault("sheets.base_url", "https://sheets.googleapis.com")
	v.SetDefault("sheets.timeout", 15*time.Second)
	v.SetDefault("prices.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("prices.timeout", 10*time.Second)

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("failed to read config: %v", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("failed to unmarshal config: %v", err)
	}

	return &cfg
}

// Key returns the spreadsheet API key, resolved from SSM Parameter Store in
// production so the key never lives in a config file.
func (cfg *SheetsConfig) Key(env string) string {
	if env == "prod" {
		if key := getParameterStoreValue("GEXSTORE_SHEETS_API_KEY", true); key != "" {
			return key
		}
	}
	return cfg.APIKey
}
