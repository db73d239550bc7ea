package config

import (
	"os"
	"reflect"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.APIPrefix != "/api/v1" || cfg.HTTPPort != "8000" {
		t.Fatalf("unexpected http defaults: %+v", cfg)
	}
	if cfg.JWTAlgorithm != "HS256" || cfg.AccessTokenTTL() != 30*time.Minute {
		t.Fatalf("unexpected token defaults: %s %s", cfg.JWTAlgorithm, cfg.AccessTokenTTL())
	}
	if cfg.LoginMaxAttempts != 0 {
		t.Fatalf("login limiter must be off by default, got %d", cfg.LoginMaxAttempts)
	}
	if cfg.DatabaseTimeout != 3*time.Second || cfg.RequireManagedBackend {
		t.Fatalf("unexpected backend defaults: %+v", cfg)
	}
	want := []string{"http://localhost:8081", "http://localhost:19000", "http://localhost:19006"}
	if !reflect.DeepEqual(cfg.CORSOrigins, want) {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "5")
	t.Setenv("CORS_ORIGINS", "https://app.eatrite.io,https://admin.eatrite.io")
	t.Setenv("LOGIN_ATTEMPT_WINDOW", "90s")
	t.Setenv("REQUIRE_MANAGED_BACKEND", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AccessTokenTTL() != 5*time.Minute {
		t.Fatalf("expected 5m ttl, got %s", cfg.AccessTokenTTL())
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://admin.eatrite.io" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
	if cfg.LoginAttemptWindow != 90*time.Second || !cfg.RequireManagedBackend {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
}

func TestLoadConfig_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "placeholder")
	os.Unsetenv("JWT_SECRET")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}
