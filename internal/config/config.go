// Package config provides application configuration with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (./config.yaml)
//  3. Default values
//
// Main configuration categories:
//   - Providers: Pinecone vector index, Groq completions, HuggingFace embeddings
//   - Pipeline: model names, sampling parameters, retrieval top-k
//   - Storage: data directory for the JSON document store
//   - Server: listen port, CORS, proxy trust, rate limiting
//   - Admin: dashboard password
//
// Provider API keys are optional at startup: the service runs degraded with
// missing keys (warnings are logged, /health reports "not configured").
// Everything else is validated fail-fast in Validate().
//
// Security: sensitive values (API keys, admin password) are masked in
// MarshalJSON and String so they never reach logs.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidPort indicates the listen port is out of range.
	ErrInvalidPort = errors.New("invalid port")

	// ErrInvalidTemperature indicates the sampling temperature is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidMaxTokens indicates the completion token cap is out of range.
	ErrInvalidMaxTokens = errors.New("invalid max tokens")

	// ErrInvalidTopK indicates the retrieval top-k is out of range.
	ErrInvalidTopK = errors.New("invalid top_k")

	// ErrInvalidDataDir indicates the data directory is empty.
	ErrInvalidDataDir = errors.New("invalid data directory")

	// ErrMissingAdminPassword indicates the admin password is empty.
	ErrMissingAdminPassword = errors.New("missing admin password")
)

// DefaultAdminPassword is the placeholder admin password. It is deliberately
// insecure and must be overridden via ADMIN_PASSWORD in any real deployment;
// Validate() logs a warning when it is still in effect.
const DefaultAdminPassword = "changeme123"

// Defaults for the external providers.
const (
	DefaultPineconeIndex = "fire-safety"
	DefaultGroqModel     = "llama-3.1-8b-instant"
	DefaultEmbedModel    = "mixedbread-ai/mxbai-embed-large-v1"
)

// Config stores application configuration.
// SECURITY: Sensitive fields are explicitly masked in MarshalJSON().
// When adding new sensitive fields (passwords, API keys, tokens), update MarshalJSON.
type Config struct {
	// Server
	Port        int      `mapstructure:"port" json:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins"`
	TrustProxy  bool     `mapstructure:"trust_proxy" json:"trust_proxy"` // Trust X-Real-IP/X-Forwarded-For headers (behind reverse proxy)
	RateBurst   int      `mapstructure:"rate_burst" json:"rate_burst"`   // Per-IP rate limiter burst (0 = default)

	// Pinecone vector index
	PineconeAPIKey string `mapstructure:"pinecone_api_key" json:"pinecone_api_key"` // SENSITIVE: masked in MarshalJSON
	PineconeIndex  string `mapstructure:"pinecone_index" json:"pinecone_index"`
	PineconeHost   string `mapstructure:"pinecone_host" json:"pinecone_host"` // Optional: skips control-plane host resolution

	// Groq completions
	GroqAPIKey  string  `mapstructure:"groq_api_key" json:"groq_api_key"` // SENSITIVE: masked in MarshalJSON
	GroqModel   string  `mapstructure:"groq_model" json:"groq_model"`
	Temperature float32 `mapstructure:"temperature" json:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" json:"max_tokens"`

	// HuggingFace embeddings
	HFAPIKey   string `mapstructure:"hf_api_key" json:"hf_api_key"` // SENSITIVE: masked in MarshalJSON
	EmbedModel string `mapstructure:"embed_model" json:"embed_model"`

	// Retrieval
	TopK int `mapstructure:"top_k" json:"top_k"`

	// Storage
	DataDir string `mapstructure:"data_dir" json:"data_dir"`

	// Admin dashboard
	AdminPassword string `mapstructure:"admin_password" json:"admin_password"` // SENSITIVE: masked in MarshalJSON

	// Observability (optional OTLP trace export; empty = disabled)
	OTLPEndpoint string `mapstructure:"otlp_endpoint" json:"otlp_endpoint"`
	Environment  string `mapstructure:"environment" json:"environment"`
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults and environment")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	viper.SetDefault("port", 8001)

	// The original deployment served browsers from any origin.
	viper.SetDefault("cors_origins", []string{"*"})

	// The service is designed for PaaS deployments that terminate TLS at a
	// reverse proxy, so proxy headers are trusted by default.
	viper.SetDefault("trust_proxy", true)
	viper.SetDefault("rate_burst", 0)

	viper.SetDefault("pinecone_index", DefaultPineconeIndex)
	viper.SetDefault("groq_model", DefaultGroqModel)
	viper.SetDefault("embed_model", DefaultEmbedModel)

	viper.SetDefault("temperature", 0.3)
	viper.SetDefault("max_tokens", 1024)
	viper.SetDefault("top_k", 5)

	viper.SetDefault("data_dir", "/tmp")
	viper.SetDefault("admin_password", DefaultAdminPassword)

	viper.SetDefault("otlp_endpoint", "")
	viper.SetDefault("environment", "dev")
}

// bindEnvVariables binds recognized environment variables explicitly.
// Explicit binding (rather than AutomaticEnv) keeps the accepted surface
// auditable: only these variables are read.
func bindEnvVariables() {
	// Helper to panic on unexpected bind errors (hardcoded strings can't fail).
	// If this panics, it's a BUG in our code, not a runtime error.
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("port", "PORT")
	mustBind("cors_origins", "FYREONE_CORS_ORIGINS")
	mustBind("trust_proxy", "FYREONE_TRUST_PROXY")
	mustBind("rate_burst", "FYREONE_RATE_BURST")

	mustBind("pinecone_api_key", "PINECONE_API_KEY")
	mustBind("pinecone_index", "PINECONE_INDEX")
	mustBind("pinecone_host", "PINECONE_HOST")

	mustBind("groq_api_key", "GROQ_API_KEY")
	mustBind("groq_model", "GROQ_MODEL")

	mustBind("hf_api_key", "HF_API_KEY")
	mustBind("embed_model", "EMBED_MODEL")

	mustBind("data_dir", "DATA_DIR")
	mustBind("admin_password", "ADMIN_PASSWORD")

	mustBind("otlp_endpoint", "OTLP_ENDPOINT")
	mustBind("environment", "FYREONE_ENV")
}

// maskedValue is the placeholder for masked sensitive data.
const maskedValue = "████████"

// maskSecret masks a secret string for safe logging.
// Short secrets are fully masked to prevent substring matching; longer
// secrets keep the first and last two characters for debug utility.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with explicit sensitive field masking.
//
// Sensitive fields masked:
//   - PineconeAPIKey
//   - GroqAPIKey
//   - HFAPIKey
//   - AdminPassword
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.PineconeAPIKey = maskSecret(a.PineconeAPIKey)
	a.GroqAPIKey = maskSecret(a.GroqAPIKey)
	a.HFAPIKey = maskSecret(a.HFAPIKey)
	a.AdminPassword = maskSecret(a.AdminPassword)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
