// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables with the CONCIERGE_ prefix (runtime override)
//  2. Config file (./config.yaml or /etc/concierge/config.yaml)
//  3. Default values
//
// Sensitive data (the PostgreSQL password) is never logged. Validation uses
// sentinel errors so callers can check categories with errors.Is().
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

var (
	// ErrInvalidPostgresHost indicates the PostgreSQL host is invalid.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresDBName indicates the PostgreSQL database name is invalid.
	ErrInvalidPostgresDBName = errors.New("invalid PostgreSQL database name")

	// ErrInvalidModelName indicates the generation model name is empty.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidEmbedderModel indicates the embedder model name is empty.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidTopK indicates the retrieval top-k is out of range.
	ErrInvalidTopK = errors.New("invalid retrieval top-k")

	// ErrInvalidHistoryWindow indicates the history window is out of range.
	ErrInvalidHistoryWindow = errors.New("invalid history window")

	// ErrInvalidPromptStyle indicates an unknown prompt style.
	ErrInvalidPromptStyle = errors.New("invalid prompt style")
)

// Defaults for the AI provider and the answer pipeline.
const (
	// DefaultModelName is the provider-qualified generation model.
	DefaultModelName = "googleai/gemini-2.5-flash"

	// DefaultEmbedderModel is the Gemini embedder used for knowledge search.
	// text-embedding-004 outputs 768 dimensions, matching the
	// hotel_knowledge vector column; see knowledge.VectorDimension.
	DefaultEmbedderModel = "text-embedding-004"

	// DefaultTopK is the number of knowledge chunks retrieved per question.
	DefaultTopK = 4

	// DefaultHistoryWindow is the number of recent messages included in the
	// generation prompt.
	DefaultHistoryWindow = 4

	// MaxTopK bounds retrieval size to keep prompts small.
	MaxTopK = 10

	// MaxHistoryWindow bounds the conversational context block.
	MaxHistoryWindow = 20
)

// Prompt style identifiers used in Config.PromptStyle.
// "strict" produces short, minimal answers; "warm" produces the elaborate
// emoji-rich host voice. Both enforce the same grounding rules.
const (
	PromptStyleStrict = "strict"
	PromptStyleWarm   = "warm"
)

// Config stores application configuration.
type Config struct {
	// AI provider configuration
	ModelName     string `mapstructure:"model_name"`
	EmbedderModel string `mapstructure:"embedder_model"`
	PromptStyle   string `mapstructure:"prompt_style"`

	// Answer pipeline tuning
	TopK          int `mapstructure:"top_k"`
	HistoryWindow int `mapstructure:"history_window"`

	// Static hotel facts. Empty path means the embedded default document.
	HotelDataPath string `mapstructure:"hotel_data_path"`

	// Storage configuration
	PostgresHost     string `mapstructure:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password"` // SENSITIVE: never logged
	PostgresDBName   string `mapstructure:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode"`

	// HTTP server configuration (serve mode only)
	HTTPAddr    string   `mapstructure:"http_addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	RateBurst   int      `mapstructure:"rate_burst"`
	TrustProxy  bool     `mapstructure:"trust_proxy"`

	// ReindexOnStart re-embeds the hotel facts into the knowledge store
	// during startup. Off by default; the reindex command covers it.
	ReindexOnStart bool `mapstructure:"reindex_on_start"`
}

// Load reads configuration from defaults, an optional config file, and
// environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("model_name", DefaultModelName)
	v.SetDefault("embedder_model", DefaultEmbedderModel)
	v.SetDefault("prompt_style", PromptStyleStrict)
	v.SetDefault("top_k", DefaultTopK)
	v.SetDefault("history_window", DefaultHistoryWindow)
	v.SetDefault("hotel_data_path", "")
	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "concierge")
	v.SetDefault("postgres_password", "")
	v.SetDefault("postgres_db_name", "concierge")
	v.SetDefault("postgres_ssl_mode", "disable")
	v.SetDefault("http_addr", "127.0.0.1:8000")
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("rate_burst", 60)
	v.SetDefault("trust_proxy", false)
	v.SetDefault("reindex_on_start", false)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/concierge")

	v.SetEnvPrefix("CONCIERGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// No config file is fine; defaults plus env cover the common case.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.parseDatabaseURL(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks configuration values and returns the first violation.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.PostgresHost) == "" {
		return fmt.Errorf("%w: host must not be empty", ErrInvalidPostgresHost)
	}
	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPostgresPort, c.PostgresPort)
	}
	if strings.TrimSpace(c.PostgresDBName) == "" {
		return fmt.Errorf("%w: database name must not be empty", ErrInvalidPostgresDBName)
	}
	if strings.TrimSpace(c.ModelName) == "" {
		return ErrInvalidModelName
	}
	if strings.TrimSpace(c.EmbedderModel) == "" {
		return ErrInvalidEmbedderModel
	}
	if c.TopK < 1 || c.TopK > MaxTopK {
		return fmt.Errorf("%w: %d (allowed 1-%d)", ErrInvalidTopK, c.TopK, MaxTopK)
	}
	if c.HistoryWindow < 1 || c.HistoryWindow > MaxHistoryWindow {
		return fmt.Errorf("%w: %d (allowed 1-%d)", ErrInvalidHistoryWindow, c.HistoryWindow, MaxHistoryWindow)
	}
	switch c.PromptStyle {
	case PromptStyleStrict, PromptStyleWarm:
	default:
		return fmt.Errorf("%w: %q (allowed %q, %q)", ErrInvalidPromptStyle, c.PromptStyle, PromptStyleStrict, PromptStyleWarm)
	}
	return nil
}

// quoteDSNValue quotes a value for PostgreSQL key=value DSN format.
// Within single quotes, backslashes and single quotes are escaped.
func quoteDSNValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// PostgresConnectionString returns the PostgreSQL DSN for the pgx driver.
// The password is single-quoted to handle special characters.
func (c *Config) PostgresConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresUser,
		quoteDSNValue(c.PostgresPassword),
		c.PostgresDBName,
		c.PostgresSSLMode,
	)
}

// PostgresURL returns the PostgreSQL URL for golang-migrate.
func (c *Config) PostgresURL() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:     fmt.Sprintf("%s:%d", c.PostgresHost, c.PostgresPort),
		Path:     c.PostgresDBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.PostgresSSLMode),
	}
	return u.String()
}

// parseDatabaseURL parses the DATABASE_URL environment variable, commonly
// used in cloud deployments, and overrides the individual postgres_* values.
func (c *Config) parseDatabaseURL() error {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil
	}

	parsed, err := url.Parse(dbURL)
	if err != nil {
		return fmt.Errorf("invalid DATABASE_URL format: %w", err)
	}

	if parsed.Scheme != "postgres" && parsed.Scheme != "postgresql" {
		return fmt.Errorf("DATABASE_URL must start with postgres:// or postgresql://, got %q", parsed.Scheme)
	}

	if host := parsed.Hostname(); host != "" {
		c.PostgresHost = host
	}
	if portStr := parsed.Port(); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid port in DATABASE_URL: %w", err)
		}
		c.PostgresPort = port
	}
	if user := parsed.User.Username(); user != "" {
		c.PostgresUser = user
	}
	if password, ok := parsed.User.Password(); ok {
		c.PostgresPassword = password
	}
	if dbName := strings.TrimPrefix(parsed.Path, "/"); dbName != "" {
		c.PostgresDBName = dbName
	}
	if sslMode := parsed.Query().Get("sslmode"); sslMode != "" {
		c.PostgresSSLMode = sslMode
	}

	return nil
}
