// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nibzard/duke-go/internal/config"
	"github.com/nibzard/duke-go/internal/dukedir"
	"github.com/nibzard/duke-go/internal/task"
)

// isolate runs the test in an empty project with no user config and
// captures the CLI's standard streams.
func isolate(t *testing.T, input string) (dir string, out *bytes.Buffer) {
	t.Helper()
	dir = t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	for _, key := range []string{"DUKE_TASKS", "DUKE_SCHEMA", "DUKE_INDENT", "DUKE_BANNER", "DUKE_AUTOSAVE", "DUKE_LOG_LEVEL", "DUKE_LOG_FORMAT"} {
		t.Setenv(key, "")
	}

	out = &bytes.Buffer{}
	oldIn, oldOut, oldErr := stdin, stdout, stderr
	stdin, stdout, stderr = strings.NewReader(input), out, &bytes.Buffer{}
	t.Cleanup(func() {
		stdin, stdout, stderr = oldIn, oldOut, oldErr
	})
	return dir, out
}

func writeTasks(t *testing.T, path string, tasks ...task.Task) {
	t.Helper()
	if err := task.NewFile(tasks).Save(path); err != nil {
		t.Fatalf("Save(%s) error = %v", path, err)
	}
}

// TestRun tests the main Run function.
func TestRun(t *testing.T) {
	t.Run("shows help with --help flag", func(t *testing.T) {
		_, out := isolate(t, "")
		if err := Run(context.Background(), []string{"--help"}); err != nil {
			t.Errorf("expected no error with --help, got %v", err)
		}
		if !strings.Contains(out.String(), "Usage:") {
			t.Errorf("expected usage, got %q", out.String())
		}
	})

	t.Run("shows help with -h flag", func(t *testing.T) {
		isolate(t, "")
		if err := Run(context.Background(), []string{"-h"}); err != nil {
			t.Errorf("expected no error with -h, got %v", err)
		}
	})

	t.Run("shows version with --version flag", func(t *testing.T) {
		_, out := isolate(t, "")
		if err := Run(context.Background(), []string{"--version"}); err != nil {
			t.Errorf("expected no error with --version, got %v", err)
		}
		if got := out.String(); got != "duke version "+Version+"\n" {
			t.Errorf("version output = %q", got)
		}
	})

	t.Run("shows version with -v flag", func(t *testing.T) {
		isolate(t, "")
		if err := Run(context.Background(), []string{"-v"}); err != nil {
			t.Errorf("expected no error with -v, got %v", err)
		}
	})

	t.Run("shows help with help command", func(t *testing.T) {
		_, out := isolate(t, "")
		if err := Run(context.Background(), []string{"help"}); err != nil {
			t.Errorf("expected no error with help command, got %v", err)
		}
		if !strings.Contains(out.String(), "Chat Commands:") {
			t.Errorf("expected chat command list, got %q", out.String())
		}
	})

	t.Run("unknown command returns error", func(t *testing.T) {
		isolate(t, "")
		err := Run(context.Background(), []string{"unknown-command"})
		if err == nil {
			t.Fatal("expected error for unknown command, got nil")
		}
		if !strings.Contains(err.Error(), "unknown command") {
			t.Errorf("expected 'unknown command' error, got %v", err)
		}
	})

	t.Run("bad flag returns error", func(t *testing.T) {
		isolate(t, "")
		if err := Run(context.Background(), []string{"-indent", "-1"}); err == nil {
			t.Error("expected error for negative indent")
		}
	})

	t.Run("schema command prints built-in schema", func(t *testing.T) {
		_, out := isolate(t, "")
		if err := Run(context.Background(), []string{"schema"}); err != nil {
			t.Fatalf("schema command failed: %v", err)
		}
		if !bytes.Equal(out.Bytes(), task.Schema()) {
			t.Error("schema output does not match built-in schema")
		}
	})
}

func TestChatCommand(t *testing.T) {
	dir, out := isolate(t, "todo read book\ndeadline submit /by 2024-03-01\ndone 1\nbye\n")

	if err := Run(context.Background(), []string{"-banner=false"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := out.String()
	if strings.Contains(got, "Hello from") {
		t.Errorf("banner should be disabled:\n%s", got)
	}
	for _, want := range []string{
		"      [T][ ] read book\n",
		"    Nice! I've marked this task as done:\n",
		"    Bye. Hope to see you again soon!\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	tasks, err := task.NewJSONFile(dukedir.TaskPath(dir), "").Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("saved tasks = %d, want 2", len(tasks))
	}
	if !tasks[0].Done || tasks[1].Kind != task.KindDeadline {
		t.Errorf("saved tasks = %+v", tasks)
	}
}

func TestChatCommandResumesSavedTasks(t *testing.T) {
	dir, out := isolate(t, "list\nbye\n")
	writeTasks(t, dukedir.TaskPath(dir), task.NewToDo("carried over"))

	if err := Run(context.Background(), []string{"-banner=false", "-indent", "0"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "\n1. [T][ ] carried over\n") {
		t.Errorf("expected saved task in list:\n%s", out.String())
	}
}

func TestChatCommandRejectsInvalidTaskFile(t *testing.T) {
	dir, _ := isolate(t, "bye\n")
	path := dukedir.TaskPath(dir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"schema_version": 1, "tasks": [{"kind": "todo"}]}`), 0644); err != nil {
		t.Fatal(err)
	}

	err := Run(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "loading tasks") {
		t.Errorf("expected load error, got %v", err)
	}
}

func TestLsCommand(t *testing.T) {
	dir, out := isolate(t, "")
	writeTasks(t, dukedir.TaskPath(dir),
		task.NewToDo("buy milk"),
		task.NewDeadline("buy eggs", mustDate(t, "2024-06-01")),
		task.NewEvent("read book", mustDate(t, "2024-01-01")),
	)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "all tasks",
			args: []string{"ls"},
			want: "1. [T][ ] buy milk\n2. [D][ ] buy eggs (by: 2024-06-01)\n3. [E][ ] read book (at: 2024-01-01)\n",
		},
		{
			name: "find",
			args: []string{"ls", "-find", "buy"},
			want: "1. [T][ ] buy milk\n2. [D][ ] buy eggs (by: 2024-06-01)\n",
		},
		{
			name: "sort",
			args: []string{"ls", "-sort"},
			want: "1. [E][ ] read book (at: 2024-01-01)\n2. [D][ ] buy eggs (by: 2024-06-01)\n3. [T][ ] buy milk\n",
		},
		{
			name: "no match",
			args: []string{"ls", "-find", "nothing"},
			want: "No tasks found.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			if err := Run(context.Background(), tt.args); err != nil {
				t.Fatalf("Run(%v) error = %v", tt.args, err)
			}
			if out.String() != tt.want {
				t.Errorf("Run(%v) output:\ngot  %q\nwant %q", tt.args, out.String(), tt.want)
			}
		})
	}
}

func TestLsCommandDoesNotWrite(t *testing.T) {
	dir, _ := isolate(t, "")
	if err := Run(context.Background(), []string{"ls", "-sort"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if _, err := os.Stat(dukedir.TaskPath(dir)); !os.IsNotExist(err) {
		t.Errorf("ls should not create the task file, stat err = %v", err)
	}
}

func TestDoctorCommand(t *testing.T) {
	t.Run("missing task file", func(t *testing.T) {
		_, out := isolate(t, "")
		if err := Run(context.Background(), []string{"doctor"}); err != nil {
			t.Fatalf("doctor command failed: %v", err)
		}
		if !strings.Contains(out.String(), "does not exist yet") {
			t.Errorf("doctor output = %q", out.String())
		}
	})

	t.Run("valid task file", func(t *testing.T) {
		dir, out := isolate(t, "")
		writeTasks(t, dukedir.TaskPath(dir), task.NewToDo("a"))
		if err := Run(context.Background(), []string{"doctor"}); err != nil {
			t.Fatalf("doctor command failed: %v", err)
		}
		if !strings.Contains(out.String(), "[ok] task file is valid (1 tasks)") {
			t.Errorf("doctor output = %q", out.String())
		}
	})

	t.Run("invalid task file", func(t *testing.T) {
		dir, out := isolate(t, "")
		path := dukedir.TaskPath(dir)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		data := `{"schema_version": 1, "tasks": [{"kind": "deadline", "description": "x", "done": false}]}`
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
		if err := Run(context.Background(), []string{"doctor"}); err == nil {
			t.Error("expected doctor to fail on an invalid task file")
		}
		if !strings.Contains(out.String(), "[fail]") {
			t.Errorf("doctor output = %q", out.String())
		}
	})
}

func TestInitCommandCreatesFiles(t *testing.T) {
	tmpDir, _ := isolate(t, "")
	cfg := &config.Config{
		TaskFile:    filepath.Join(tmpDir, "tasks.json"),
		ProjectRoot: tmpDir,
	}

	if err := initCommand(cfg, []string{}); err != nil {
		t.Fatalf("initCommand() error = %v", err)
	}

	configPath := dukedir.ConfigPath(tmpDir)
	for _, path := range []string{cfg.TaskFile, configPath} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s to exist: %v", path, err)
		}
	}

	taskFile, err := task.Load(cfg.TaskFile)
	if err != nil {
		t.Fatalf("task.Load() error = %v", err)
	}
	if taskFile.SchemaVersion != task.SchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", taskFile.SchemaVersion, task.SchemaVersion)
	}
	if len(taskFile.Tasks) != 0 {
		t.Errorf("Tasks = %v, want none", taskFile.Tasks)
	}
	if err := taskFile.Validate(task.ValidationOptions{}).Err(); err != nil {
		t.Errorf("new task file should be valid: %v", err)
	}

	configData, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("ReadFile(configPath) error = %v", err)
	}
	if string(configData) != config.ExampleConfig() {
		t.Error("config file does not match example config")
	}
}

func TestInitCommandSkipsExistingFiles(t *testing.T) {
	tmpDir, _ := isolate(t, "")
	cfg := &config.Config{
		TaskFile:    filepath.Join(tmpDir, "tasks.json"),
		ProjectRoot: tmpDir,
	}

	if err := os.WriteFile(cfg.TaskFile, []byte("existing"), 0644); err != nil {
		t.Fatalf("WriteFile(taskPath) error = %v", err)
	}

	if err := initCommand(cfg, []string{"--skip-config"}); err != nil {
		t.Fatalf("initCommand() error = %v", err)
	}

	data, err := os.ReadFile(cfg.TaskFile)
	if err != nil {
		t.Fatalf("ReadFile(taskPath) error = %v", err)
	}
	if string(data) != "existing" {
		t.Errorf("task file was overwritten without --force")
	}
	if _, err := os.Stat(dukedir.ConfigPath(tmpDir)); !os.IsNotExist(err) {
		t.Errorf("--skip-config should not write a config file, stat err = %v", err)
	}

	if err := initCommand(cfg, []string{"--force"}); err != nil {
		t.Fatalf("initCommand(--force) error = %v", err)
	}
	if _, err := task.Load(cfg.TaskFile); err != nil {
		t.Errorf("--force should replace the task file: %v", err)
	}
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := task.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q) error = %v", s, err)
	}
	return d
}

// chdir changes the working directory for the duration of the test,
// standing in for testing.T.Chdir on toolchains older than Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
