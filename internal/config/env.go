package config

import (
	"os"
	"strconv"
	"strings"
)

// loadFromEnv overrides config from DUKE_* environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("DUKE_TASKS"); v != "" {
		cfg.TaskFile = v
	}
	if v := os.Getenv("DUKE_SCHEMA"); v != "" {
		cfg.SchemaFile = v
	}
	if v := os.Getenv("DUKE_INDENT"); v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.Indent = i
		}
	}
	if v := os.Getenv("DUKE_BANNER"); v != "" {
		cfg.Banner = boolFromString(v)
	}
	if v := os.Getenv("DUKE_AUTOSAVE"); v != "" {
		cfg.Autosave = boolFromString(v)
	}
	if v := os.Getenv("DUKE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("DUKE_LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
