package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/riskdesk/internal/domain"
)

// Supported generation providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds the riskdesk configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Cache      CacheConfig      `yaml:"cache"`
	Generation GenerationConfig `yaml:"generation"`
	Documents  DocumentsConfig  `yaml:"documents"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds the patient registry settings.
type DatabaseConfig struct {
	Path string `yaml:"path"` // SQLite file
}

// CacheConfig holds the Redis settings for the explanation cache and budget counters.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"` // explanation TTL, 0 = default
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// BudgetConfig holds generation token budget settings.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // "reject" | "warn" (default)
}

// GenerationConfig holds the text generation provider settings.
type GenerationConfig struct {
	Provider           string       `yaml:"provider"` // openai (any compatible API, e.g. Groq) | anthropic
	APIKey             string       `yaml:"api_key"`
	BaseURL            string       `yaml:"base_url"`
	Model              string       `yaml:"model"`
	User               string       `yaml:"user"`
	InquiryTemperature *float32     `yaml:"inquiry_temperature"`
	InquiryMaxTokens   int          `yaml:"inquiry_max_tokens"`
	ExplainTemperature *float32     `yaml:"explain_temperature"`
	ExplainMaxTokens   int          `yaml:"explain_max_tokens"`
	Budget             BudgetConfig `yaml:"budget"`
}

// DocumentsConfig holds the reference document locations.
type DocumentsConfig struct {
	GuidelinesPath string `yaml:"guidelines_path"`
	PolicyPath     string `yaml:"policy_path"`
}

// Settings resolves the per-task generation parameters.
func (g GenerationConfig) Settings() domain.GenerationSettings {
	s := domain.DefaultGenerationSettings()
	if g.Model != "" {
		s.Model = g.Model
	}
	if g.InquiryTemperature != nil {
		s.InquiryTemperature = *g.InquiryTemperature
	}
	if g.InquiryMaxTokens > 0 {
		s.InquiryMaxTokens = g.InquiryMaxTokens
	}
	if g.ExplainTemperature != nil {
		s.ExplainTemperature = *g.ExplainTemperature
	}
	if g.ExplainMaxTokens > 0 {
		s.ExplainMaxTokens = g.ExplainMaxTokens
	}
	return s
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads, expands, defaults and validates one config file.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	// Responses wait on up to two generation calls.
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 90
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Path == "" {
		c.Database.Path = "hospital.db"
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 24 * 60 * 60
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Generation.Provider == "" {
		c.Generation.Provider = ProviderOpenAI
	}
	if c.Generation.Model == "" {
		c.Generation.Model = domain.DefaultOpenAIModel
		if c.Generation.Provider == ProviderAnthropic {
			c.Generation.Model = domain.DefaultAnthropicModel
		}
	}
	if c.Generation.Budget.Action == "" {
		c.Generation.Budget.Action = "warn"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when cache is enabled")
	}
	switch c.Generation.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("generation.provider must be %q or %q, got %q",
			ProviderOpenAI, ProviderAnthropic, c.Generation.Provider)
	}
	switch c.Generation.Budget.Action {
	case "", "warn", "reject":
	default:
		return fmt.Errorf("generation.budget.action must be \"warn\" or \"reject\", got %q",
			c.Generation.Budget.Action)
	}
	if c.Generation.Budget.DailyTokenLimit < 0 || c.Generation.Budget.MonthlyTokenLimit < 0 {
		return fmt.Errorf("generation.budget limits must not be negative")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
