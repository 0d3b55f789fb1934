package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/leandrodaf/midiwire/sdk/contracts"
)

// monitor config.toml key mapping to engine and transport settings.
type fileConfig struct {
	DeviceID   int      `toml:"device_id"`
	Capacity   int      `toml:"capacity"`
	LogLevel   string   `toml:"log_level"`
	ClientName string   `toml:"client_name"`
	Events     []string `toml:"events"`
}

type monitorConfig struct {
	DeviceID   int
	Capacity   int
	LogLevel   contracts.LogLevel
	ClientName string
	Filter     *contracts.EventFilter
}

func defaultConfig() monitorConfig {
	return monitorConfig{
		DeviceID:   0,
		Capacity:   0, // engine default
		LogLevel:   contracts.InfoLevel,
		ClientName: "midiwire-monitor",
	}
}

// loadConfig reads a TOML config file, overlaying defined keys on the
// defaults.
func loadConfig(path string) (monitorConfig, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return monitorConfig{}, fmt.Errorf("load monitor config: %w", err)
	}

	if meta.IsDefined("device_id") {
		cfg.DeviceID = raw.DeviceID
	}
	if meta.IsDefined("capacity") {
		cfg.Capacity = raw.Capacity
	}
	if meta.IsDefined("client_name") {
		cfg.ClientName = strings.TrimSpace(raw.ClientName)
	}
	if meta.IsDefined("log_level") {
		level, err := parseLogLevel(raw.LogLevel)
		if err != nil {
			return monitorConfig{}, err
		}
		cfg.LogLevel = level
	}
	if meta.IsDefined("events") {
		filter := &contracts.EventFilter{}
		for _, name := range raw.Events {
			evt, err := parseEvent(name)
			if err != nil {
				return monitorConfig{}, err
			}
			filter.Events = append(filter.Events, evt)
		}
		cfg.Filter = filter
	}
	return cfg, nil
}

func parseLogLevel(s string) (contracts.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return contracts.DebugLevel, nil
	case "info", "":
		return contracts.InfoLevel, nil
	case "warn":
		return contracts.WarnLevel, nil
	case "error":
		return contracts.ErrorLevel, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// parseEvent resolves an event by its String name, e.g. "note-on".
func parseEvent(name string) (contracts.Event, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for evt := contracts.Event(0); evt < contracts.EventCount; evt++ {
		if evt.String() == want {
			return evt, nil
		}
	}
	return 0, fmt.Errorf("unknown event %q", name)
}
