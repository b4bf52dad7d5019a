package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GAMIFICATION_SERVICE_TOKEN", "secret")
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "5300" {
		t.Errorf("port = %q, want 5300", cfg.Port)
	}
	if cfg.StreamInterval != 5*time.Second {
		t.Errorf("stream interval = %v, want 5s", cfg.StreamInterval)
	}
	if cfg.BackupsEnabled() || cfg.PlanSyncEnabled() {
		t.Errorf("optional integrations should be off by default")
	}
}

func TestLoadRequiresDatabaseForPostgres(t *testing.T) {
	t.Setenv("GAMIFICATION_SERVICE_TOKEN", "secret")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("GAMIFICATION_SERVICE_TOKEN", "")
	t.Setenv("STORE_DRIVER", "memory")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without service token")
	}
}

func TestOriginsAndLocation(t *testing.T) {
	cfg := &Config{AllowedOrigins: " https://a.example , ,https://b.example", Timezone: "Not/AZone"}
	if got := cfg.Origins(); got != "https://a.example,https://b.example" {
		t.Errorf("origins = %q", got)
	}
	if cfg.Location() != time.UTC {
		t.Errorf("unknown zone should fall back to UTC")
	}
}
