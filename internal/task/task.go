// Package task holds the task model, the ordered task store, and the task
// snapshot file.
package task

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the only accepted calendar date format.
const DateLayout = "2006-01-02"

// Kind identifies the kind of a task.
type Kind string

const (
	KindToDo     Kind = "todo"
	KindDeadline Kind = "deadline"
	KindEvent    Kind = "event"
)

// Tag returns the one-letter tag used when rendering a task.
func (k Kind) Tag() string {
	switch k {
	case KindDeadline:
		return "D"
	case KindEvent:
		return "E"
	default:
		return "T"
	}
}

// Label returns the date label for dated kinds, or "" for plain to-dos.
func (k Kind) Label() string {
	switch k {
	case KindDeadline:
		return "by"
	case KindEvent:
		return "at"
	default:
		return ""
	}
}

// Dated reports whether tasks of this kind carry a date.
func (k Kind) Dated() bool {
	return k == KindDeadline || k == KindEvent
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindToDo, KindDeadline, KindEvent:
		return true
	}
	return false
}

// Task is a single trackable item.
//
// When is the zero time for plain to-dos and set for deadlines and events.
// Use NewToDo, NewDeadline, or NewEvent to keep that invariant.
type Task struct {
	ID          string
	Kind        Kind
	Description string
	Done        bool
	When        time.Time
	CreatedAt   time.Time
}

// NewToDo returns an undated task.
func NewToDo(description string) Task {
	return Task{Kind: KindToDo, Description: description}
}

// NewDeadline returns a task due by the given date.
func NewDeadline(description string, by time.Time) Task {
	return Task{Kind: KindDeadline, Description: description, When: civil(by)}
}

// NewEvent returns a task happening at the given date.
func NewEvent(description string, at time.Time) Task {
	return Task{Kind: KindEvent, Description: description, When: civil(at)}
}

// HasDate reports whether the task carries a date.
func (t Task) HasDate() bool {
	return t.Kind.Dated()
}

// StatusIcon returns the completion marker.
func (t Task) StatusIcon() string {
	if t.Done {
		return "X"
	}
	return " "
}

// String renders the task as "[T][ ] description" with a
// "(by: YYYY-MM-DD)" or "(at: YYYY-MM-DD)" suffix for dated kinds.
func (t Task) String() string {
	s := fmt.Sprintf("[%s][%s] %s", t.Kind.Tag(), t.StatusIcon(), t.Description)
	if t.HasDate() {
		s += fmt.Sprintf(" (%s: %s)", t.Kind.Label(), t.When.Format(DateLayout))
	}
	return s
}

// ParseDate parses a strict YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d, nil
}

// identified returns t with an ID and creation time filled in when missing.
func (t Task) identified() Task {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	return t
}

// civil drops the clock part so dates compare as calendar days.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
