package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kailas-cloud/riskdesk/internal/domain"
)

func validConfig() Config {
	c := Config{}
	c.ApplyDefaults()
	return c
}

func TestApplyDefaults(t *testing.T) {
	c := validConfig()
	if c.HTTP.Port != 8000 || c.HTTP.WriteTimeoutSec != 90 {
		t.Errorf("unexpected http defaults: %+v", c.HTTP)
	}
	if c.Database.Path != "hospital.db" {
		t.Errorf("Database.Path = %q", c.Database.Path)
	}
	if c.Generation.Provider != ProviderOpenAI || c.Generation.Model != "llama-3.3-70b-versatile" {
		t.Errorf("unexpected generation defaults: %+v", c.Generation)
	}
	if c.Generation.Budget.Action != "warn" {
		t.Errorf("Budget.Action = %q", c.Generation.Budget.Action)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestApplyDefaults_ModelPerProvider(t *testing.T) {
	c := Config{Generation: GenerationConfig{Provider: ProviderAnthropic}}
	c.ApplyDefaults()
	if c.Generation.Model != domain.DefaultAnthropicModel {
		t.Errorf("anthropic default model = %q", c.Generation.Model)
	}

	c = Config{Generation: GenerationConfig{Provider: ProviderAnthropic, Model: "claude-sonnet-4-5-20250929"}}
	c.ApplyDefaults()
	if c.Generation.Model != "claude-sonnet-4-5-20250929" {
		t.Errorf("explicit model overridden: %q", c.Generation.Model)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"invalid port", func(c *Config) { c.HTTP.Port = 70000 }, "http.port must be between 1 and 65535, got 70000"},
		{"missing db path", func(c *Config) { c.Database.Path = "" }, "database.path is required"},
		{"cache without addrs", func(c *Config) { c.Cache.Enabled = true }, "cache.addrs is required when cache is enabled"},
		{"unknown provider", func(c *Config) { c.Generation.Provider = "cohere" },
			`generation.provider must be "openai" or "anthropic", got "cohere"`},
		{"invalid budget action", func(c *Config) { c.Generation.Budget.Action = "invalid_action" },
			`generation.budget.action must be "warn" or "reject", got "invalid_action"`},
		{"negative limit", func(c *Config) { c.Generation.Budget.DailyTokenLimit = -1 },
			"generation.budget limits must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)
			err := c.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.want {
				t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), tt.want)
			}
		})
	}
}

func TestValidate_BudgetActions(t *testing.T) {
	for _, action := range []string{"", "warn", "reject"} {
		t.Run("action="+action, func(t *testing.T) {
			c := validConfig()
			c.Generation.Budget.Action = action
			if err := c.Validate(); err != nil {
				t.Fatalf("unexpected error for valid action %q: %v", action, err)
			}
		})
	}
}

func TestSettings(t *testing.T) {
	zero := float32(0)
	g := GenerationConfig{Model: "m", ExplainTemperature: &zero, InquiryMaxTokens: 256}
	s := g.Settings()

	if s.Model != "m" || s.InquiryMaxTokens != 256 {
		t.Errorf("unexpected settings: %+v", s)
	}
	if s.ExplainTemperature != 0 {
		t.Errorf("explicit zero temperature must be kept, got %v", s.ExplainTemperature)
	}
	if s.ExplainMaxTokens != 900 {
		t.Errorf("ExplainMaxTokens = %d, want default 900", s.ExplainMaxTokens)
	}
}

func TestLoadFile_ExpandsEnv(t *testing.T) {
	t.Setenv("RISKDESK_TEST_KEY", "gsk-123")
	t.Setenv("RISKDESK_TEST_EMPTY", "")

	path := filepath.Join(t.TempDir(), "test.yaml")
	yaml := `
http:
  port: 9000
database:
  path: ${RISKDESK_TEST_DB:-/tmp/registry.db}
generation:
  provider: openai
  api_key: ${RISKDESK_TEST_KEY}
  base_url: ${RISKDESK_TEST_EMPTY:-https://api.groq.com/openai/v1}
  explain_temperature: 0.5
  budget:
    daily_token_limit: 100000
    action: reject
documents:
  guidelines_path: data/guidelines.pdf
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.HTTP.Port != 9000 {
		t.Errorf("Port = %d", cfg.HTTP.Port)
	}
	if cfg.Database.Path != "/tmp/registry.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Generation.APIKey != "gsk-123" {
		t.Errorf("APIKey = %q", cfg.Generation.APIKey)
	}
	if cfg.Generation.BaseURL != "https://api.groq.com/openai/v1" {
		t.Errorf("BaseURL = %q", cfg.Generation.BaseURL)
	}
	if cfg.Generation.Settings().ExplainTemperature != 0.5 {
		t.Errorf("ExplainTemperature = %v", cfg.Generation.Settings().ExplainTemperature)
	}
	if cfg.Generation.Budget.Action != "reject" || cfg.Generation.Budget.DailyTokenLimit != 100000 {
		t.Errorf("unexpected budget %+v", cfg.Generation.Budget)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("generation:\n  provider: cohere\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected validation error")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if GetEnv() != "local" {
		t.Errorf("GetEnv() = %q, want local", GetEnv())
	}
	t.Setenv("ENV", "prod")
	if GetEnv() != "prod" {
		t.Errorf("GetEnv() = %q, want prod", GetEnv())
	}
}
