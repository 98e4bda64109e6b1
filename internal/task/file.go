package task

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaVersion is the task file format version written by Save.
const SchemaVersion = 1

const embeddedSchemaURL = "https://github.com/nibzard/duke-go/tasks.schema.json"

//go:embed schema.json
var embeddedSchema []byte

// Snapshotter loads and saves the whole task list.
type Snapshotter interface {
	Load() ([]Task, error)
	Save(tasks []Task) error
}

// File is the on-disk task file:
//
//	{
//	  "schema_version": 1,
//	  "tasks": [
//	    {"id": "…", "kind": "deadline", "description": "submit", "done": false, "date": "2024-03-01"}
//	  ]
//	}
type File struct {
	SchemaVersion int      `json:"schema_version"`
	Tasks         []Record `json:"tasks"`
}

// Record is the serialized form of a Task.
type Record struct {
	ID          string     `json:"id,omitempty"`
	Kind        Kind       `json:"kind"`
	Description string     `json:"description"`
	Done        bool       `json:"done"`
	Date        string     `json:"date,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// NewFile builds a file holding tasks in order.
func NewFile(tasks []Task) *File {
	f := &File{SchemaVersion: SchemaVersion, Tasks: make([]Record, 0, len(tasks))}
	for _, t := range tasks {
		r := Record{
			ID:          t.ID,
			Kind:        t.Kind,
			Description: t.Description,
			Done:        t.Done,
		}
		if t.HasDate() {
			r.Date = t.When.Format(DateLayout)
		}
		if !t.CreatedAt.IsZero() {
			created := t.CreatedAt
			r.CreatedAt = &created
		}
		f.Tasks = append(f.Tasks, r)
	}
	return f
}

// ToTasks converts the records back into tasks.
func (f *File) ToTasks() ([]Task, error) {
	tasks := make([]Task, 0, len(f.Tasks))
	for i, r := range f.Tasks {
		t := Task{
			ID:          r.ID,
			Kind:        r.Kind,
			Description: r.Description,
			Done:        r.Done,
		}
		if r.CreatedAt != nil {
			t.CreatedAt = *r.CreatedAt
		}
		if r.Kind.Dated() {
			when, err := ParseDate(r.Date)
			if err != nil {
				return nil, &ValidationError{Path: fmt.Sprintf("tasks[%d].date", i), Err: err}
			}
			t.When = when
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Load reads and parses a task file from path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse task file: %w", err)
	}

	return &f, nil
}

// Save writes the task file to path with 2-space indentation.
func (f *File) Save(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal task file: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create task dir: %w", err)
		}
	}

	// Replace atomically.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace task file: %w", err)
	}
	return nil
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath overrides the embedded schema. Empty uses the embedded one.
	SchemaPath string
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

// Err joins all validation errors, or returns nil when the file is valid.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return errors.Join(r.Errors...)
}

// Validate validates the file against the JSON Schema, falling back to
// minimal structural checks when no schema can be compiled.
func (f *File) Validate(opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	schema, warning := compileSchema(opts.SchemaPath)
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}
	if schema != nil {
		result.UsedSchema = true
		validateWithSchema(f, schema, result)
		return result
	}

	result.Warnings = append(result.Warnings, "JSON Schema validation not available, using minimal checks")
	f.validateMinimal(result)
	return result
}

func compileSchema(schemaPath string) (*jsonschema.Schema, string) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	if schemaPath == "" {
		if err := compiler.AddResource(embeddedSchemaURL, bytes.NewReader(embeddedSchema)); err != nil {
			return nil, fmt.Sprintf("invalid embedded schema: %v", err)
		}
		schema, err := compiler.Compile(embeddedSchemaURL)
		if err != nil {
			return nil, fmt.Sprintf("invalid embedded schema: %v", err)
		}
		return schema, ""
	}

	absPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return nil, fmt.Sprintf("invalid schema path: %v", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Sprintf("schema file not found: %s", absPath)
		}
		return nil, fmt.Sprintf("failed to read schema file: %v", err)
	}
	schema, err := compiler.Compile(absPath)
	if err != nil {
		return nil, fmt.Sprintf("invalid schema file: %v", err)
	}
	return schema, ""
}

func validateWithSchema(f *File, schema *jsonschema.Schema, result *ValidationResult) {
	data, err := json.Marshal(f)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("failed to marshal file for validation: %w", err)})
		return
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("failed to unmarshal file for validation: %w", err)})
		return
	}

	if err := schema.Validate(doc); err != nil {
		result.Valid = false
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			result.Errors = append(result.Errors, err)
			return
		}
		collectSchemaErrors(result, ve)
	}
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// validateMinimal performs minimal validation without JSON Schema.
func (f *File) validateMinimal(result *ValidationResult) {
	fail := func(path string, err error) {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Path: path, Err: err})
	}

	if f.SchemaVersion != SchemaVersion {
		fail("schema_version", fmt.Errorf("expected %d, got %d", SchemaVersion, f.SchemaVersion))
	}
	if f.Tasks == nil {
		fail("tasks", errors.New("missing required field"))
		return
	}

	for i, r := range f.Tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		switch {
		case !r.Kind.Valid():
			fail(path+".kind", fmt.Errorf("invalid kind %q, must be one of: todo, deadline, event", r.Kind))
		case r.Description == "":
			fail(path+".description", errors.New("missing required field"))
		case r.Kind.Dated() && r.Date == "":
			fail(path+".date", fmt.Errorf("required for %s tasks", r.Kind))
		case !r.Kind.Dated() && r.Date != "":
			fail(path+".date", errors.New("not allowed for todo tasks"))
		case r.Date != "":
			if _, err := ParseDate(r.Date); err != nil {
				fail(path+".date", err)
			}
		}
	}
}

// jsonPointerToPath converts a JSON Pointer such as "/tasks/0/date" to
// "tasks[0].date".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}

// JSONFile keeps the task list in a JSON task file.
type JSONFile struct {
	Path       string
	SchemaPath string
}

// NewJSONFile returns a snapshotter for the task file at path.
func NewJSONFile(path, schemaPath string) *JSONFile {
	return &JSONFile{Path: path, SchemaPath: schemaPath}
}

// Load reads and validates the task file. A missing file is an empty list.
func (j *JSONFile) Load() ([]Task, error) {
	if _, err := os.Stat(j.Path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	f, err := Load(j.Path)
	if err != nil {
		return nil, err
	}
	if err := f.Validate(ValidationOptions{SchemaPath: j.SchemaPath}).Err(); err != nil {
		return nil, fmt.Errorf("validate task file %s: %w", j.Path, err)
	}
	return f.ToTasks()
}

// Save replaces the task file with tasks.
func (j *JSONFile) Save(tasks []Task) error {
	return NewFile(tasks).Save(j.Path)
}

// Schema returns the built-in JSON Schema for task files.
func Schema() []byte {
	out := make([]byte, len(embeddedSchema))
	copy(out, embeddedSchema)
	return out
}
