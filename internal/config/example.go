package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# duke configuration file
# Values can be overridden by DUKE_* environment variables or CLI flags

# Task file (relative to the project root, supports ~ and $VAR expansion)
task_file = ".duke/tasks.json"

# JSON Schema for the task file (empty uses the built-in schema)
# schema_file = "tasks.schema.json"

# Spaces to indent replies
indent = 4

# Print the greeting banner on start
banner = true

# Save the task file after every change
autosave = true

# Diagnostics on stderr: debug, info, warn, error
log_level = "warn"

# text, json, or logfmt
log_format = "text"
log_timestamps = false
log_caller = false
`
}
