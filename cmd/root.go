// Package cmd implements the CLI command structure for duke.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/nibzard/duke-go/internal/config"
	"github.com/nibzard/duke-go/internal/dukedir"
	"github.com/nibzard/duke-go/internal/logging"
	"github.com/nibzard/duke-go/internal/session"
	"github.com/nibzard/duke-go/internal/task"
	"github.com/nibzard/duke-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Standard streams, replaced in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the duke CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("duke", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// With no subcommand, start a conversation.
	subcommand := "chat"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "chat":
		return chatCommand(ctx, cfg, remainingArgs)
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "ls":
		return lsCommand(cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cfg, remainingArgs)
	case "init":
		return initCommand(cfg, remainingArgs)
	case "schema":
		_, err := stdout.Write(task.Schema())
		return err
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

func newLogger(cfg *config.Config) *log.Logger {
	opts := logging.DefaultOptions()
	opts.Level = logging.ParseLevel(cfg.LogLevel)
	opts.Formatter = logging.ParseFormatter(cfg.LogFormat)
	opts.ReportTimestamp = cfg.LogTimestamps
	opts.ReportCaller = cfg.LogCaller
	return logging.New(stderr, opts)
}

// openSession loads the task file and builds a session over it.
func openSession(cfg *config.Config) (*session.Session, error) {
	logger := newLogger(cfg)
	snap := task.NewJSONFile(cfg.TaskFile, cfg.SchemaFile)

	tasks, err := snap.Load()
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	logger.Debug("loaded tasks", "path", cfg.TaskFile, "count", len(tasks))

	return session.New(task.NewStore(tasks...),
		session.WithLogger(logger),
		session.WithSnapshotter(snap, cfg.Autosave),
		session.WithIndent(cfg.Indent),
		session.WithBanner(cfg.Banner),
	), nil
}

// chatCommand runs the line-oriented conversation on stdin/stdout.
func chatCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	sess, err := openSession(cfg)
	if err != nil {
		return err
	}
	return sess.Run(ctx, stdin, stdout)
}

// tuiCommand runs the interactive terminal UI.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	sess, err := openSession(cfg)
	if err != nil {
		return err
	}
	return ui.Run(ctx, sess)
}

// lsCommand prints stored tasks without changing the task file.
func lsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("duke ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	query := fs.String("find", "", "Only show tasks whose description contains this text")
	sorted := fs.Bool("sort", false, "Show tasks ordered by date")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if rest := fs.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}

	tasks, err := task.NewJSONFile(cfg.TaskFile, cfg.SchemaFile).Load()
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}

	store := task.NewStore(tasks...)
	if *sorted {
		store.Sort()
	}
	list := store.List()
	if *query != "" {
		list = store.Find(*query)
	}

	if len(list) == 0 {
		fmt.Fprintln(stdout, "No tasks found.")
		return nil
	}
	for i, t := range list {
		fmt.Fprintf(stdout, "%d. %s\n", i+1, t)
	}
	return nil
}

// doctorCommand checks the configuration and the task file.
func doctorCommand(cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	fmt.Fprintln(stdout, "Duke Doctor")
	fmt.Fprintln(stdout, "===========")
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "Task file: %s\n", cfg.TaskFile)
	if cfg.SchemaFile == "" {
		fmt.Fprintln(stdout, "Schema:    built-in")
	} else {
		fmt.Fprintf(stdout, "Schema:    %s\n", cfg.SchemaFile)
	}
	fmt.Fprintf(stdout, "Autosave:  %v\n", cfg.Autosave)
	fmt.Fprintln(stdout)

	if _, err := os.Stat(cfg.TaskFile); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(stdout, "[ok] task file does not exist yet; it is created on first save")
		return nil
	}

	f, err := task.Load(cfg.TaskFile)
	if err != nil {
		fmt.Fprintf(stdout, "[fail] %v\n", err)
		return err
	}

	result := f.Validate(task.ValidationOptions{SchemaPath: cfg.SchemaFile})
	for _, w := range result.Warnings {
		fmt.Fprintf(stdout, "[warn] %s\n", w)
	}
	if !result.Valid {
		for _, e := range result.Errors {
			fmt.Fprintf(stdout, "[fail] %v\n", e)
		}
		return fmt.Errorf("task file is invalid: %d error(s)", len(result.Errors))
	}

	fmt.Fprintf(stdout, "[ok] task file is valid (%d tasks)\n", len(f.Tasks))
	return nil
}

// initCommand writes an example config and an empty task file.
func initCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("duke init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	force := fs.Bool("force", false, "Overwrite existing files")
	skipConfig := fs.Bool("skip-config", false, "Do not write duke.toml")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if rest := fs.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}

	write := func(path string, data []byte) error {
		if !*force {
			if _, err := os.Stat(path); err == nil {
				fmt.Fprintf(stdout, "Skipping %s (exists)\n", path)
				return nil
			}
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("create directory for %s: %w", path, err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(stdout, "Created %s\n", path)
		return nil
	}

	if !*skipConfig {
		if err := write(dukedir.ConfigPath(cfg.ProjectRoot), []byte(config.ExampleConfig())); err != nil {
			return err
		}
	}

	if !*force {
		if _, err := os.Stat(cfg.TaskFile); err == nil {
			fmt.Fprintf(stdout, "Skipping %s (exists)\n", cfg.TaskFile)
			return nil
		}
	}
	if err := task.NewFile(nil).Save(cfg.TaskFile); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Created %s\n", cfg.TaskFile)
	return nil
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "duke version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Duke - a line-oriented task tracker")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  duke [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  chat          Read commands from stdin (default)")
	fmt.Fprintln(w, "  tui           Launch terminal UI")
	fmt.Fprintln(w, "  ls            List stored tasks")
	fmt.Fprintln(w, "  doctor        Check config and task file validity")
	fmt.Fprintln(w, "  init          Write an example config and an empty task file")
	fmt.Fprintln(w, "  schema        Print the task file JSON Schema")
	fmt.Fprintln(w, "  version       Show version information")
	fmt.Fprintln(w, "  help          Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (use with 'ls' command):")
	fmt.Fprintln(w, "  -find string")
	fmt.Fprintln(w, "        Only show tasks whose description contains this text")
	fmt.Fprintln(w, "  -sort")
	fmt.Fprintln(w, "        Show tasks ordered by date")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Init Options (use with 'init' command):")
	fmt.Fprintln(w, "  -force        Overwrite existing files")
	fmt.Fprintln(w, "  -skip-config  Do not write duke.toml")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Chat Commands:")
	fmt.Fprintln(w, "  todo, deadline, event, list, done, delete, find, sort, help <command>, bye")
}
