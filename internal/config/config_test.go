package config

import (
	"sync"
	"testing"
	"time"
)

func TestApplyReloadable_CopiesOnlyHotFields(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = "8080"
	cfg.JWT.Secret = "old-jwt"
	cfg.Webhook.Secret = "old-hook"
	cfg.Generation.InternalDispatch = false
	cfg.Generation.RequeueAfterSeconds = 0

	newCfg := &Config{}
	newCfg.Server.Port = "9090"
	newCfg.JWT.Secret = "new-jwt"
	newCfg.Webhook.Secret = "new-hook"
	newCfg.Generation.InternalDispatch = true
	newCfg.Generation.RequeueAfterSeconds = 120

	cfg.ApplyReloadable(newCfg)

	if cfg.JWTSecret() != "new-jwt" || cfg.WebhookSecret() != "new-hook" {
		t.Fatalf("secrets not reloaded: %q / %q", cfg.JWTSecret(), cfg.WebhookSecret())
	}
	if !cfg.InternalDispatchEnabled() {
		t.Fatalf("dispatch toggle not reloaded")
	}
	if cfg.RequeueMaxAge() != 2*time.Minute {
		t.Fatalf("requeue age not reloaded, got %s", cfg.RequeueMaxAge())
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("non-reloadable field must not change, got %q", cfg.Server.Port)
	}
}

// Exercises reload racing against request-path reads; run with -race.
func TestApplyReloadable_ConcurrentWithReads(t *testing.T) {
	cfg := &Config{}
	cfg.JWT.Secret = "old-jwt"
	cfg.Webhook.Secret = "old-hook"

	newCfg := &Config{}
	newCfg.JWT.Secret = "new-jwt"
	newCfg.Webhook.Secret = "new-hook"
	newCfg.Generation.InternalDispatch = true
	newCfg.Generation.RequeueAfterSeconds = 60

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				s := cfg.JWTSecret()
				if s != "old-jwt" && s != "new-jwt" {
					t.Errorf("torn read of JWT secret: %q", s)
					return
				}
				h := cfg.WebhookSecret()
				if h != "old-hook" && h != "new-hook" {
					t.Errorf("torn read of webhook secret: %q", h)
					return
				}
				cfg.InternalDispatchEnabled()
				cfg.RequeueMaxAge()
			}
		}()
	}

	for i := 0; i < 200; i++ {
		if i%2 == 0 {
			cfg.ApplyReloadable(newCfg)
		} else {
			old := &Config{}
			old.JWT.Secret = "old-jwt"
			old.Webhook.Secret = "old-hook"
			cfg.ApplyReloadable(old)
		}
	}
	close(done)
	wg.Wait()

	cfg.ApplyReloadable(newCfg)
	if cfg.JWTSecret() != "new-jwt" {
		t.Fatalf("final secret wrong: %q", cfg.JWTSecret())
	}
}
