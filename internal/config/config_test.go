package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, "{}"))
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Server.Port != 5175 {
		t.Errorf("Port = %d; want 5175", cfg.Server.Port)
	}
	if cfg.Game.Epoch != "28/01/2026" {
		t.Errorf("Epoch = %q; want 28/01/2026", cfg.Game.Epoch)
	}
	if cfg.Game.LookaheadDays != 6 {
		t.Errorf("LookaheadDays = %d; want 6", cfg.Game.LookaheadDays)
	}
	if cfg.Store.Backend != "sqlite" {
		t.Errorf("Backend = %q; want sqlite", cfg.Store.Backend)
	}
	if cfg.Catalog.BaseURL != "" {
		t.Errorf("BaseURL = %q; want empty (embedded catalogs)", cfg.Catalog.BaseURL)
	}
}

func TestYAMLFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
  request_timeout: 30s
catalog:
  base_url: https://cdn.example.com/brainbox
game:
  epoch: 01/03/2026
  lookahead_days: 3
store:
  backend: memory
`)
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d; want 9000", cfg.Server.Port)
	}
	if time.Duration(cfg.Server.RequestTimeout) != 30*time.Second {
		t.Errorf("RequestTimeout = %v; want 30s", time.Duration(cfg.Server.RequestTimeout))
	}
	if cfg.Catalog.BaseURL != "https://cdn.example.com/brainbox" {
		t.Errorf("BaseURL = %q", cfg.Catalog.BaseURL)
	}
	if cfg.Game.LookaheadDays != 3 {
		t.Errorf("LookaheadDays = %d; want 3", cfg.Game.LookaheadDays)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("Backend = %q; want memory", cfg.Store.Backend)
	}
	// Untouched sections keep their defaults.
	if cfg.Auth.CookieName != "brainbox_token" {
		t.Errorf("CookieName = %q; want default", cfg.Auth.CookieName)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_PASSWORD", "hunter2")
	t.Setenv("GAME_EPOCH", "15/06/2026")

	path := writeConfig(t, "server:\n  port: 9000\n")
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Server.Port != 8081 {
		t.Errorf("Port = %d; want env override 8081", cfg.Server.Port)
	}
	if cfg.Store.Backend != "redis" {
		t.Errorf("Backend = %q; want redis", cfg.Store.Backend)
	}
	if cfg.Store.RedisPassword != "hunter2" {
		t.Errorf("RedisPassword not taken from env")
	}
	if cfg.Game.Epoch != "15/06/2026" {
		t.Errorf("Epoch = %q; want 15/06/2026", cfg.Game.Epoch)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"bad backend", "store:\n  backend: mongodb\n"},
		{"bad port", "server:\n  port: 70000\n"},
		{"bad epoch", "game:\n  epoch: 2026-01-28\n"},
		{"negative lookahead", "game:\n  lookahead_days: -1\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadFromFile(writeConfig(t, tc.yaml)); err == nil {
				t.Errorf("LoadFromFile accepted %q", tc.yaml)
			}
		})
	}
}

func TestEpochTime(t *testing.T) {
	g := GameConfig{Epoch: "28/01/2026"}
	got, err := g.EpochTime()
	if err != nil {
		t.Fatalf("EpochTime: %v", err)
	}
	want := time.Date(2026, time.January, 28, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("EpochTime = %v; want %v", got, want)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("BRAINBOX_CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 5175 {
		t.Errorf("Port = %d; want 5175", cfg.Server.Port)
	}
}

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "brainbox.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
