package config

import (
	"strings"
	"testing"
	"time"
)

func getenvFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFromEnv(getenvFrom(nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != "dev" {
		t.Fatalf("unexpected env: %s", cfg.Env)
	}
	if cfg.Addr != "127.0.0.1:8080" {
		t.Fatalf("unexpected addr: %s", cfg.Addr)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Fatalf("unexpected token ttl: %s", cfg.TokenTTL)
	}
	if cfg.JWTSecret == "" {
		t.Fatal("expected dev fallback jwt secret")
	}
}

func TestLoadRejectsBadEnv(t *testing.T) {
	_, err := LoadFromEnv(getenvFrom(map[string]string{"APP_ENV": "staging"}))
	if err == nil || !strings.Contains(err.Error(), "APP_ENV") {
		t.Fatalf("expected APP_ENV error, got %v", err)
	}
}

func TestLoadRejectsBadTokenTTL(t *testing.T) {
	_, err := LoadFromEnv(getenvFrom(map[string]string{"APP_TOKEN_TTL": "-5m"}))
	if err == nil || !strings.Contains(err.Error(), "APP_TOKEN_TTL") {
		t.Fatalf("expected APP_TOKEN_TTL error, got %v", err)
	}
}

func TestLoadProdRequirements(t *testing.T) {
	_, err := LoadFromEnv(getenvFrom(map[string]string{"APP_ENV": "prod"}))
	if err == nil || !strings.Contains(err.Error(), "APP_DB_DSN") {
		t.Fatalf("expected APP_DB_DSN error, got %v", err)
	}

	_, err = LoadFromEnv(getenvFrom(map[string]string{
		"APP_ENV":        "prod",
		"APP_DB_DSN":     "postgres://x",
		"APP_JWT_SECRET": "short",
	}))
	if err == nil || !strings.Contains(err.Error(), "APP_JWT_SECRET") {
		t.Fatalf("expected APP_JWT_SECRET error, got %v", err)
	}

	cfg, err := LoadFromEnv(getenvFrom(map[string]string{
		"APP_ENV":        "prod",
		"APP_DB_DSN":     "postgres://x",
		"APP_JWT_SECRET": strings.Repeat("s", 32),
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.IsProd() {
		t.Fatal("expected prod config")
	}
}
