// internal/config/config_test.go
package config

import (
	"testing"
	"time"
)

func TestAdminIdleTimeoutDefault(t *testing.T) {
	t.Setenv("ADMIN_IDLE_TIMEOUT", "")

	cfg := Load()
	if cfg.AdminIdleTimeout != 30*time.Minute {
		t.Fatalf("default idle timeout = %v, want 30m", cfg.AdminIdleTimeout)
	}
}

func TestAdminIdleTimeoutOverride(t *testing.T) {
	t.Setenv("ADMIN_IDLE_TIMEOUT", "10m")

	cfg := Load()
	if cfg.AdminIdleTimeout != 10*time.Minute {
		t.Fatalf("idle timeout = %v, want 10m", cfg.AdminIdleTimeout)
	}
}

func TestAdminIdleTimeoutRejectsGarbage(t *testing.T) {
	for _, v := range []string{"soon", "-5m", "0"} {
		t.Setenv("ADMIN_IDLE_TIMEOUT", v)

		cfg := Load()
		if cfg.AdminIdleTimeout != 30*time.Minute {
			t.Fatalf("ADMIN_IDLE_TIMEOUT=%q: got %v, want fallback 30m", v, cfg.AdminIdleTimeout)
		}
	}
}
