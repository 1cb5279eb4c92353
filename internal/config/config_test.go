package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "LISTEN_ADDR", "DATABASE_URL", "RESEND_API_KEY", "RESEND_FROM_EMAIL",
		"RESEND_TO_EMAIL", "RESEND_BASE_URL", "APP_ENV", "NODE_ENV", "SESSION_SECRET",
		"GIN_MODE", "NOTIFY_TIMEZONE", "LOG_LEVEL", "SESSION_COOKIE_SECURE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.ListenAddr != ":8080" {
		t.Fatalf("expected listen addr :8080, got %q", cfg.ListenAddr)
	}
	if cfg.ResendFrom != DefaultFromEmail || cfg.ResendTo != DefaultToEmail {
		t.Fatalf("expected fallback addresses, got from=%q to=%q", cfg.ResendFrom, cfg.ResendTo)
	}
	if cfg.Environment != EnvProduction || cfg.Development() {
		t.Fatalf("expected production environment, got %q", cfg.Environment)
	}
	if cfg.PersistenceEnabled() {
		t.Fatal("persistence should be disabled without DATABASE_URL")
	}
	if cfg.SecureCookies {
		t.Fatal("session cookies must not be Secure by default; the server listens on plain HTTP")
	}
	if cfg.NotifyTimezone != "America/New_York" {
		t.Fatalf("unexpected timezone default %q", cfg.NotifyTimezone)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", " postgres://u:p@localhost/site ")
	t.Setenv("RESEND_FROM_EMAIL", "hello@auctus.dev")
	t.Setenv("RESEND_TO_EMAIL", "team@auctus.dev")
	t.Setenv("RESEND_BASE_URL", "http://127.0.0.1:9999")
	t.Setenv("NODE_ENV", "Development")

	cfg := Load()

	if cfg.ListenAddr != ":9000" {
		t.Fatalf("expected :9000, got %q", cfg.ListenAddr)
	}
	if cfg.DatabaseURL != "postgres://u:p@localhost/site" || !cfg.PersistenceEnabled() {
		t.Fatalf("unexpected database url %q", cfg.DatabaseURL)
	}
	if cfg.ResendFrom != "hello@auctus.dev" || cfg.ResendTo != "team@auctus.dev" {
		t.Fatalf("overrides ignored: %#v", cfg)
	}
	if cfg.ResendBaseURL != "http://127.0.0.1:9999/" {
		t.Fatalf("expected trailing slash on base url, got %q", cfg.ResendBaseURL)
	}
	if !cfg.Development() {
		t.Fatal("NODE_ENV=development should enable development mode")
	}
}

func TestAppEnvTakesPrecedenceOverNodeEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("NODE_ENV", "development")

	if Load().Development() {
		t.Fatal("APP_ENV should win over NODE_ENV")
	}
}

func TestLoadDotEnvPrefersLocal(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("RESEND_TO_EMAIL=plain@auctus.dev\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env.local"), []byte("RESEND_TO_EMAIL=local@auctus.dev\n"), 0o644); err != nil {
		t.Fatalf("write .env.local: %v", err)
	}
	os.Unsetenv("RESEND_TO_EMAIL")

	loaded, err := LoadDotEnv(dir)
	if err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	if filepath.Base(loaded) != ".env.local" {
		t.Fatalf("expected .env.local to be loaded, got %q", loaded)
	}
	if got := Load().ResendTo; got != "local@auctus.dev" {
		t.Fatalf("expected local recipient, got %q", got)
	}
}

func TestLoadDotEnvMissingFilesIsNotAnError(t *testing.T) {
	loaded, err := LoadDotEnv(t.TempDir())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if loaded != "" {
		t.Fatalf("expected nothing loaded, got %q", loaded)
	}
}

func TestLoadSessionCookieSecure(t *testing.T) {
	cases := map[string]bool{
		"":      false,
		"true":  true,
		" 1 ":   true,
		"false": false,
		"yes":   false,
	}
	for raw, want := range cases {
		clearEnv(t)
		t.Setenv("SESSION_COOKIE_SECURE", raw)
		t.Setenv("APP_ENV", "production")

		if got := Load().SecureCookies; got != want {
			t.Fatalf("SESSION_COOKIE_SECURE=%q: expected %v, got %v", raw, want, got)
		}
	}
}
