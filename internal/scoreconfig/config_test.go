package scoreconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := Validate(cfg); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}

	if cfg.Weights.Sentiment != 0 {
		t.Error("sentiment must be excluded from the default weight vector")
	}
	if cfg.Factors.TrendFallback != FallbackReduced {
		t.Errorf("expected trend_fallback=reduced, got %s", cfg.Factors.TrendFallback)
	}
}

func TestHash_Deterministic(t *testing.T) {
	cfg := Default()

	hash, err := Hash(cfg)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if len(hash) != 64 {
		t.Errorf("expected 64 char hash, got %d", len(hash))
	}

	hash2, _ := Hash(cfg)
	if hash != hash2 {
		t.Error("hash not deterministic")
	}

	// A changed weight must change the hash
	changed := Default()
	changed.Weights.Momentum = 0.25
	changed.Weights.Trend = 0.10
	hash3, _ := Hash(changed)
	if hash == hash3 {
		t.Error("different configs must hash differently")
	}
}

func TestLoad(t *testing.T) {
	yamlData := `
meta:
  strategy_id: us_equity_composite_v1
  version: "1.0"
normalization:
  min_population: 5
weights:
  momentum: 0.20
  trend: 0.15
  value: 0.15
  quality: 0.15
  growth: 0.15
  stability: 0.10
  positioning: 0.10
  sentiment: 0.00
factors:
  trend_fallback: reduced
  include_sentiment: false
`
	path := filepath.Join(t.TempDir(), "scoring.yaml")
	if err := os.WriteFile(path, []byte(yamlData), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Meta.StrategyID != "us_equity_composite_v1" {
		t.Errorf("unexpected strategy_id: %s", cfg.Meta.StrategyID)
	}
	if cfg.Weights.Momentum != 0.20 {
		t.Errorf("unexpected momentum weight: %v", cfg.Weights.Momentum)
	}
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	yamlData := `
meta:
  strategy_id: test
  version: "1.0"
normalization:
  min_population: 5
  winsorize: 0.01
weights:
  momentum: 1.0
factors:
  trend_fallback: reduced
`
	path := filepath.Join(t.TempDir(), "scoring.yaml")
	if err := os.WriteFile(path, []byte(yamlData), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing strategy id", func(c *Config) { c.Meta.StrategyID = "" }},
		{"min population too small", func(c *Config) { c.Normalization.MinPopulation = 1 }},
		{"weights not summing to 1", func(c *Config) { c.Weights.Momentum = 0.9 }},
		{"bad trend fallback", func(c *Config) { c.Factors.TrendFallback = "neutral" }},
		{"sentiment weight without toggle", func(c *Config) {
			c.Weights.Sentiment = 0.05
			c.Weights.Momentum = 0.15
		}},
		{"toggle without sentiment weight", func(c *Config) { c.Factors.IncludeSentiment = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
