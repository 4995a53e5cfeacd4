package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestManagerCreatesAndUpdates(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(WithConfigDir(dir))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	path := filepath.Join(dir, "config.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	cfg := mgr.Get()
	cfg.LLMProvider = "deepseek"
	cfg.Model = "deepseek-chat"
	cfg.CacheCapacity = 50

	if err := mgr.Update(cfg); err != nil {
		t.Fatalf("Update: %v", err)
	}

	updated := mgr.Get()
	if updated.LLMProvider != "deepseek" {
		t.Fatalf("expected provider deepseek, got %s", updated.LLMProvider)
	}
	if updated.CacheCapacity != 50 {
		t.Fatalf("expected cache capacity 50, got %d", updated.CacheCapacity)
	}
}

func TestManagerRejectsInvalidUpdate(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(WithConfigDir(dir))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	cfg := mgr.Get()
	cfg.LLMProvider = "mystery"
	if err := mgr.Update(cfg); err == nil {
		t.Fatalf("expected error for unsupported provider")
	}

	cfg = mgr.Get()
	cfg.Temperature = 5.0
	if err := mgr.Update(cfg); err == nil {
		t.Fatalf("expected error for out-of-range temperature")
	}
}

func TestManagerWatchReloads(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(WithConfigDir(dir), WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan Config, 1)
	if err := mgr.Watch(ctx, func(cfg Config) {
		reloaded <- cfg
	}); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	cfg := mgr.Get()
	cfg.Model = "gpt-4o"

	if err := writeConfigFile(mgr.Path(), cfg); err != nil {
		t.Fatalf("writeConfigFile: %v", err)
	}

	select {
	case got := <-reloaded:
		if got.Model != "gpt-4o" {
			t.Fatalf("expected reloaded model gpt-4o, got %s", got.Model)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher did not fire on config change")
	}
}
