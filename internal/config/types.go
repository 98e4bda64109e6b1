package config

import "github.com/nibzard/duke-go/internal/dukedir"

// Default values.
const (
	DefaultIndent    = 4
	DefaultBanner    = true
	DefaultAutosave  = true
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// DefaultTaskFile is the task file used when none is configured.
var DefaultTaskFile = dukedir.TaskPath("")

// Config holds the full configuration for duke.
type Config struct {
	// Paths
	TaskFile   string `toml:"task_file"`
	SchemaFile string `toml:"schema_file"` // empty uses the embedded schema

	// Output
	Indent int  `toml:"indent"`
	Banner bool `toml:"banner"`

	// Save the task file after every change
	Autosave bool `toml:"autosave"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

func setDefaults(cfg *Config) {
	cfg.TaskFile = DefaultTaskFile
	cfg.SchemaFile = ""
	cfg.Indent = DefaultIndent
	cfg.Banner = DefaultBanner
	cfg.Autosave = DefaultAutosave
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}
