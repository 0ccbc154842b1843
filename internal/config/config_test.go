package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Upstream.BaseURL != "https://api.uexcorp.uk/2.0" {
		t.Errorf("BaseURL = %q", cfg.Upstream.BaseURL)
	}
	if cfg.Cache.PriceTTLMinutes != 60 {
		t.Errorf("PriceTTLMinutes = %d, want 60", cfg.Cache.PriceTTLMinutes)
	}
	if cfg.Ranking.HomeSystem != "Stanton" || cfg.Ranking.CrossSystemPenalty != 75 {
		t.Errorf("ranking defaults = %q/%v", cfg.Ranking.HomeSystem, cfg.Ranking.CrossSystemPenalty)
	}
	if cfg.Ranking.TopN != 3 {
		t.Errorf("TopN = %d, want 3", cfg.Ranking.TopN)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileValuesWin(t *testing.T) {
	path := writeTempConfig(t, `
upstream:
  base_url: http://localhost:9999
cache:
  price_ttl_minutes: 15
ranking:
  home_system: Pyro
  top_n: 5
port: 3000
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Upstream.BaseURL != "http://localhost:9999" {
		t.Errorf("BaseURL = %q", cfg.Upstream.BaseURL)
	}
	if cfg.Cache.PriceTTLMinutes != 15 {
		t.Errorf("PriceTTLMinutes = %d, want 15", cfg.Cache.PriceTTLMinutes)
	}
	if cfg.Ranking.HomeSystem != "Pyro" || cfg.Ranking.TopN != 5 {
		t.Errorf("ranking = %q/%d", cfg.Ranking.HomeSystem, cfg.Ranking.TopN)
	}
	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	// Untouched sections still get defaults.
	if cfg.Profitability.ThresholdHigh != 50000 {
		t.Errorf("ThresholdHigh = %v, want default 50000", cfg.Profitability.ThresholdHigh)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeTempConfig(t, `
upstream:
  base_url: http://from-file
  api_token: file-token
port: 3000
`)
	t.Setenv("UEX_BASE_URL", "http://from-env")
	t.Setenv("UEX_API_TOKEN", "env-token")
	t.Setenv("PORT", "4000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Upstream.BaseURL != "http://from-env" {
		t.Errorf("BaseURL = %q, want env value", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.APIToken != "env-token" {
		t.Errorf("APIToken = %q, want env value", cfg.Upstream.APIToken)
	}
	if cfg.Port != 4000 {
		t.Errorf("Port = %d, want 4000", cfg.Port)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeTempConfig(t, "upstream: [not a mapping")
	if _, err := Load(path); err == nil {
		t.Error("Load accepted malformed yaml")
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.Upstream.BaseURL = "" }},
		{"risk out of range", func(c *Config) { c.Profitability.RiskPct = 0.5 }},
		{"inverted thresholds", func(c *Config) {
			c.Profitability.ThresholdLow = 100
			c.Profitability.ThresholdHigh = 50
		}},
		{"port out of range", func(c *Config) { c.Port = 70000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted invalid config")
			}
		})
	}
}
