package core

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestConfigParseYAML(t *testing.T) {
	p := writeConfig(t, "config.yaml", `
telegram:
  token: "t"
  owner_user_ids: [1, 2]
  poll_timeout: "10s"
logging:
  level: debug
  console: true
scheduler:
  enabled: true
  workers: 2
  default_timeout: "30s"
  timezone: "Asia/Tokyo"
sheets:
  backend: memory
  timezone: "Asia/Tokyo"
plugins:
  shift:
    enabled: true
    capabilities: [sheets.read]
    config:
      sheet: Shift
`)
	cfg, err := NewConfigManager(p).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Token != "t" || len(cfg.Telegram.OwnerUserIDs) != 2 {
		t.Fatalf("telegram section: %+v", cfg.Telegram)
	}
	if !cfg.Scheduler.Enabled || cfg.Scheduler.Workers != 2 {
		t.Fatalf("scheduler section: %+v", cfg.Scheduler)
	}
	if cfg.Sheets.Backend != "memory" || cfg.Sheets.Timezone != "Asia/Tokyo" {
		t.Fatalf("sheets section: %+v", cfg.Sheets)
	}
	pc, ok := cfg.Plugins["shift"]
	if !ok || !pc.Enabled {
		t.Fatalf("shift plugin config missing: %+v", cfg.Plugins)
	}
	if len(pc.Capabilities) != 1 || pc.Capabilities[0] != "sheets.read" {
		t.Fatalf("capabilities = %v", pc.Capabilities)
	}
}

func TestConfigParseRejectsUnknownKeys(t *testing.T) {
	p := writeConfig(t, "config.yaml", `
telegram:
  token: "t"
  nonsense_key: true
`)
	if _, err := NewConfigManager(p).Load(); err == nil {
		t.Fatal("expected unknown key error")
	}
}

func TestConfigParseRejectsUnknownPluginKeys(t *testing.T) {
	p := writeConfig(t, "config.yaml", `
plugins:
  shift:
    enabled: true
    surprise: 1
`)
	if _, err := NewConfigManager(p).Load(); err == nil {
		t.Fatal("expected unknown plugin key error")
	}
}
