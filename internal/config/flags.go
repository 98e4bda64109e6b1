package config

import "flag"

// parseFlags defines and parses CLI flags.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("duke", flag.ContinueOnError)
	}

	// Paths
	fs.StringVar(&cfg.TaskFile, "tasks", cfg.TaskFile, "Path to task file")
	fs.StringVar(&cfg.SchemaFile, "schema", cfg.SchemaFile, "Path to task file schema (default: built-in)")

	// Output
	fs.IntVar(&cfg.Indent, "indent", cfg.Indent, "Spaces to indent replies")
	fs.BoolVar(&cfg.Banner, "banner", cfg.Banner, "Print the greeting banner")
	fs.BoolVar(&cfg.Autosave, "autosave", cfg.Autosave, "Save the task file after every change")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")

	return fs.Parse(args)
}
