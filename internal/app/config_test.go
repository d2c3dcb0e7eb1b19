package app

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StoreDriver != StorePostgres {
		t.Fatalf("unexpected default store driver %q", cfg.StoreDriver)
	}
	if cfg.OutboxPollInterval != 3*time.Second {
		t.Fatalf("unexpected default poll interval %s", cfg.OutboxPollInterval)
	}
	if cfg.IsProduction() {
		t.Fatal("development must not report production")
	}
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for unknown store driver")
	}
}

func TestLoadConfigRejectsNonPositiveInterval(t *testing.T) {
	t.Setenv("OUTBOX_POLL_INTERVAL", "-1s")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for negative poll interval")
	}
}
