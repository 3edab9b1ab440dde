package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ALLOWED_ORIGIN", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("REPORT_TTL_SECONDS", "")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "")
	t.Setenv("AUTH_SECRET", "")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Fatalf("Port = %q", cfg.Port)
	}
	if cfg.AllowedOrigin != "http://127.0.0.1:3000" {
		t.Fatalf("AllowedOrigin = %q", cfg.AllowedOrigin)
	}
	if cfg.ReportTTLSeconds != 30 {
		t.Fatalf("ReportTTLSeconds = %d", cfg.ReportTTLSeconds)
	}
	if cfg.AccessTokenTTLMinutes != 480 {
		t.Fatalf("AccessTokenTTLMinutes = %d", cfg.AccessTokenTTLMinutes)
	}
	if cfg.AuthSecret != "" {
		t.Fatalf("AUTH_SECRET must never default, got %q", cfg.AuthSecret)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("Address = %q", cfg.Address())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("REPORT_TTL_SECONDS", "120")
	t.Setenv("AUTH_SECRET", "  padded-secret  ")
	t.Setenv("REDIS_DB", "2")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Fatalf("Port = %q", cfg.Port)
	}
	if cfg.ReportTTLSeconds != 120 {
		t.Fatalf("ReportTTLSeconds = %d", cfg.ReportTTLSeconds)
	}
	if cfg.AuthSecret != "padded-secret" {
		t.Fatalf("AuthSecret = %q", cfg.AuthSecret)
	}
	if cfg.RedisDB != 2 {
		t.Fatalf("RedisDB = %d", cfg.RedisDB)
	}
}

func TestLoadRejectsBadTTL(t *testing.T) {
	t.Setenv("REPORT_TTL_SECONDS", "-5")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "abc")

	cfg := Load()

	if cfg.ReportTTLSeconds != 30 {
		t.Fatalf("ReportTTLSeconds = %d", cfg.ReportTTLSeconds)
	}
	if cfg.AccessTokenTTLMinutes != 480 {
		t.Fatalf("AccessTokenTTLMinutes = %d", cfg.AccessTokenTTLMinutes)
	}
}
