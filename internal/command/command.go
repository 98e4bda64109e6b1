// Package command defines the typed instructions produced by the parser.
//
// A Command only describes what to do. Execution lives in the session
// package, which applies commands to a task store.
package command

import "time"

// Command keywords, in parser priority order.
const (
	KeywordBye      = "bye"
	KeywordDeadline = "deadline"
	KeywordDelete   = "delete"
	KeywordDone     = "done"
	KeywordEvent    = "event"
	KeywordList     = "list"
	KeywordToDo     = "todo"
	KeywordFind     = "find"
	KeywordSort     = "sort"
	KeywordHelp     = "help"
)

// Keywords returns every command keyword in parser priority order.
func Keywords() []string {
	return []string{
		KeywordBye,
		KeywordDeadline,
		KeywordDelete,
		KeywordDone,
		KeywordEvent,
		KeywordList,
		KeywordToDo,
		KeywordFind,
		KeywordSort,
		KeywordHelp,
	}
}

// Command is one parsed instruction. The set of implementations is closed.
type Command interface {
	Keyword() string
	command()
}

// Bye ends the session.
type Bye struct{}

// List shows every task.
type List struct{}

// Done marks the task at Index (1-based) as done.
type Done struct {
	Index int
}

// Delete removes the task at Index (1-based).
type Delete struct {
	Index int
}

// ToDo adds an undated task.
type ToDo struct {
	Description string
}

// Deadline adds a task due by Date.
type Deadline struct {
	Description string
	Date        time.Time
}

// Event adds a task happening at Date.
type Event struct {
	Description string
	Date        time.Time
}

// Find lists tasks whose description contains Query.
type Find struct {
	Query string
}

// Sort orders the task list by date.
type Sort struct{}

// Help shows usage for the command named Topic.
type Help struct {
	Topic string
}

func (Bye) Keyword() string      { return KeywordBye }
func (List) Keyword() string     { return KeywordList }
func (Done) Keyword() string     { return KeywordDone }
func (Delete) Keyword() string   { return KeywordDelete }
func (ToDo) Keyword() string     { return KeywordToDo }
func (Deadline) Keyword() string { return KeywordDeadline }
func (Event) Keyword() string    { return KeywordEvent }
func (Find) Keyword() string     { return KeywordFind }
func (Sort) Keyword() string     { return KeywordSort }
func (Help) Keyword() string     { return KeywordHelp }

func (Bye) command()      {}
func (List) command()     {}
func (Done) command()     {}
func (Delete) command()   {}
func (ToDo) command()     {}
func (Deadline) command() {}
func (Event) command()    {}
func (Find) command()     {}
func (Sort) command()     {}
func (Help) command()     {}

// Mutates reports whether applying c changes the task list.
func Mutates(c Command) bool {
	switch c.(type) {
	case Done, Delete, ToDo, Deadline, Event, Sort:
		return true
	}
	return false
}
