package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leandrodaf/midiwire/sdk/contracts"
)

func TestLoadConfigDefaultsAndOverrides(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "config.toml")
	content := `
device_id = 2
capacity = 4
log_level = "debug"
events = ["note-on", "note-off", "timing-clock"]
	`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DeviceID != 2 {
		t.Fatalf("unexpected device id: %d", cfg.DeviceID)
	}
	if cfg.Capacity != 4 {
		t.Fatalf("unexpected capacity: %d", cfg.Capacity)
	}
	if cfg.LogLevel != contracts.DebugLevel {
		t.Fatalf("unexpected log level: %v", cfg.LogLevel)
	}
	if cfg.ClientName != "midiwire-monitor" {
		t.Fatalf("unexpected default client name: %q", cfg.ClientName)
	}
	if cfg.Filter == nil || len(cfg.Filter.Events) != 3 {
		t.Fatalf("unexpected filter: %+v", cfg.Filter)
	}
	if cfg.Filter.Events[0] != contracts.EventNoteOn {
		t.Fatalf("unexpected first filter event: %v", cfg.Filter.Events[0])
	}
}

func TestLoadConfigRejectsUnknownEvent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`events = ["note-sideways"]`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Fatalf("expected error for unknown event name")
	}
}

func TestLoadConfigRejectsUnknownLogLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`log_level = "loud"`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Fatalf("expected error for unknown log level")
	}
}

func TestParseEventCoversEnumeration(t *testing.T) {
	for evt := contracts.Event(0); evt < contracts.EventCount; evt++ {
		got, err := parseEvent(evt.String())
		if err != nil {
			t.Fatalf("parse %q: %v", evt.String(), err)
		}
		if got != evt {
			t.Fatalf("parse %q: got %v", evt.String(), got)
		}
	}
}
