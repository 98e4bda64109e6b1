// Package dukedir provides constants and helpers for the .duke directory structure.
package dukedir

import "path/filepath"

const (
	// Dir is the name of the duke state directory.
	Dir = ".duke"

	// DefaultTaskFile is the default task file name (inside .duke).
	DefaultTaskFile = "tasks.json"

	// DefaultConfigFile is the default config file name (inside .duke).
	DefaultConfigFile = "duke.toml"
)

// TaskPath returns the full path to the task file within a work directory.
func TaskPath(workDir string) string {
	return filepath.Join(DirPath(workDir), DefaultTaskFile)
}

// ConfigPath returns the full path to the config file within a work directory.
func ConfigPath(workDir string) string {
	return filepath.Join(DirPath(workDir), DefaultConfigFile)
}

// DirPath returns the full path to the .duke directory within a work directory.
func DirPath(workDir string) string {
	if workDir == "" {
		workDir = "."
	}
	return filepath.Join(workDir, Dir)
}
