package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.Mkdir("config", 0o755); err != nil {
		t.Fatalf("mkdir config: %v", err)
	}
	if err := os.WriteFile(filepath.Join("config", "test.yaml"), []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

const minimalConfig = `
http:
  port: 8080
database:
  addrs: ["localhost:6379"]
embedding:
  model: all-MiniLM-L6-v2
llm:
  model: llama-3.1-8b-instant
`

func TestLoad_AppliesDefaults(t *testing.T) {
	writeConfig(t, minimalConfig)

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Catalog.Name != "product_catalog" {
		t.Errorf("catalog name default: got %q", cfg.Catalog.Name)
	}
	if cfg.Catalog.DefaultTopK != 5 {
		t.Errorf("default top_k: got %d", cfg.Catalog.DefaultTopK)
	}
	if cfg.LLM.MaxRetries != 3 || cfg.LLM.RetryBackoffSec != 3 {
		t.Errorf("llm retry defaults: got %d/%d", cfg.LLM.MaxRetries, cfg.LLM.RetryBackoffSec)
	}
	if cfg.Session.HistoryWindow != 5 {
		t.Errorf("session window default: got %d", cfg.Session.HistoryWindow)
	}
	if len(cfg.Catalog.DocumentFields) == 0 {
		t.Error("document_fields default missing")
	}
	if cfg.Storage.KeyPrefix != "retail:" {
		t.Errorf("key prefix default: got %q", cfg.Storage.KeyPrefix)
	}
	if cfg.Embed.CacheTTLSec != 24*60*60 {
		t.Errorf("embedding cache ttl default: got %d", cfg.Embed.CacheTTLSec)
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_REDIS_ADDR", "redis-prod:6379")
	writeConfig(t, `
http:
  port: 8080
database:
  addrs: ["${TEST_REDIS_ADDR}"]
embedding:
  model: "${TEST_EMBED_MODEL:-all-MiniLM-L6-v2}"
llm:
  model: llama-3.1-8b-instant
`)

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Addrs[0] != "redis-prod:6379" {
		t.Errorf("env expansion: got %q", cfg.Database.Addrs[0])
	}
	if cfg.Embed.Model != "all-MiniLM-L6-v2" {
		t.Errorf("default expansion: got %q", cfg.Embed.Model)
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		var c Config
		c.HTTP.Port = 8080
		c.Database.Addrs = []string{"localhost:6379"}
		c.Embed.Model = "all-MiniLM-L6-v2"
		c.LLM.Model = "llama-3.1-8b-instant"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"no addrs", func(c *Config) { c.Database.Addrs = nil }, "database.addrs"},
		{"no embedding model", func(c *Config) { c.Embed.Model = "" }, "embedding.model"},
		{"no llm model", func(c *Config) { c.LLM.Model = "" }, "llm.model"},
		{"uppercase document field", func(c *Config) {
			c.Catalog.DocumentFields = []string{"Title"}
		}, "document_fields"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
