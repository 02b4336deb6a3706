package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.RabbitMQEventQueue != "user_events" {
		t.Errorf("RabbitMQEventQueue = %s, want user_events", cfg.RabbitMQEventQueue)
	}
	if cfg.RabbitMQEmailQueue != "emails" {
		t.Errorf("RabbitMQEmailQueue = %s, want emails", cfg.RabbitMQEmailQueue)
	}
	if cfg.AvatarDir != "avatars" {
		t.Errorf("AvatarDir = %s, want avatars", cfg.AvatarDir)
	}
	if cfg.ProfileAPITimeout != 5*time.Second {
		t.Errorf("ProfileAPITimeout = %v, want 5s", cfg.ProfileAPITimeout)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("PROFILE_API_BASE_URL", "http://stub.local")
	t.Setenv("PROFILE_CACHE_TTL", "90s")
	t.Setenv("MAIL_SEND_ENABLED", "false")

	cfg := Load()
	if cfg.Port != "9999" {
		t.Errorf("Port = %s, want 9999", cfg.Port)
	}
	if cfg.ProfileAPIBaseURL != "http://stub.local" {
		t.Errorf("ProfileAPIBaseURL = %s, want http://stub.local", cfg.ProfileAPIBaseURL)
	}
	if cfg.ProfileCacheTTL != 90*time.Second {
		t.Errorf("ProfileCacheTTL = %v, want 90s", cfg.ProfileCacheTTL)
	}
	if cfg.MailSendEnabled {
		t.Error("MailSendEnabled = true, want false")
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "not-a-number")
	t.Setenv("PROFILE_API_TIMEOUT", "soon")
	t.Setenv("MAIL_SEND_ENABLED", "maybe")

	cfg := Load()
	if cfg.DBMaxConns != 10 {
		t.Errorf("DBMaxConns = %d, want default 10", cfg.DBMaxConns)
	}
	if cfg.ProfileAPITimeout != 5*time.Second {
		t.Errorf("ProfileAPITimeout = %v, want default 5s", cfg.ProfileAPITimeout)
	}
	if !cfg.MailSendEnabled {
		t.Error("MailSendEnabled = false, want default true")
	}
}

func TestPostgresDSN(t *testing.T) {
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "hub")

	cfg := Load()
	want := "postgres://app:secret@db:5433/hub?sslmode=disable"
	if got := cfg.PostgresDSN(); got != want {
		t.Errorf("PostgresDSN = %s, want %s", got, want)
	}
}

func TestCORSOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.local, http://b.local ,")

	cfg := Load()
	got := cfg.CORSOrigins()
	if len(got) != 2 || got[0] != "http://a.local" || got[1] != "http://b.local" {
		t.Errorf("CORSOrigins = %v", got)
	}
}
