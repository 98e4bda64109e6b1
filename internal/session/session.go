// Package session applies parsed commands to a task store and runs the
// line-oriented conversation around it.
package session

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/duke-go/internal/command"
	"github.com/nibzard/duke-go/internal/logging"
	"github.com/nibzard/duke-go/internal/parser"
	"github.com/nibzard/duke-go/internal/task"
)

// Reply is the outcome of one command.
type Reply struct {
	Lines []string
	Exit  bool // the session should end
}

// UnknownCommandError reports a line or help topic that names no command.
type UnknownCommandError struct {
	Keyword string
}

func (e *UnknownCommandError) Error() string {
	if e.Keyword == "" {
		return "Unknown command. Known commands: " + strings.Join(command.Keywords(), ", ")
	}
	return fmt.Sprintf("Unknown command %q. Known commands: %s", e.Keyword, strings.Join(command.Keywords(), ", "))
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// WithSnapshotter saves the task list through snap. With autosave the list
// is saved after every change, otherwise only on bye or end of input.
func WithSnapshotter(snap task.Snapshotter, autosave bool) Option {
	return func(s *Session) {
		s.snap = snap
		s.autosave = autosave
	}
}

// WithIndent sets how many spaces replies are indented by in Run.
func WithIndent(n int) Option {
	return func(s *Session) {
		s.indent = n
	}
}

// WithBanner enables the greeting printed when Run starts.
func WithBanner(enabled bool) Option {
	return func(s *Session) {
		s.banner = enabled
	}
}

// Session owns a task store and executes commands against it.
type Session struct {
	store    *task.Store
	log      *log.Logger
	snap     task.Snapshotter
	autosave bool
	dirty    bool
	indent   int
	banner   bool
}

// New returns a session over store.
func New(store *task.Store, opts ...Option) *Session {
	if store == nil {
		store = task.NewStore()
	}
	s := &Session{
		store:  store,
		log:    logging.Discard(),
		indent: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the session's task store.
func (s *Session) Store() *task.Store {
	return s.store
}

// Handle parses line and executes the resulting command. A line that
// matches no command yields an *UnknownCommandError; a malformed one a
// *parser.ParseError.
func (s *Session) Handle(line string) (Reply, error) {
	cmd, ok, err := parser.Parse(line)
	if err != nil {
		s.log.Debug("rejected command", "line", line, "err", err)
		return Reply{}, err
	}
	if !ok {
		return Reply{}, &UnknownCommandError{Keyword: parser.Keyword(line)}
	}
	return s.Execute(cmd)
}

// Execute applies cmd to the task store.
func (s *Session) Execute(cmd command.Command) (Reply, error) {
	s.log.Debug("executing command", "keyword", cmd.Keyword())

	reply, err := s.apply(cmd)
	if err != nil {
		return Reply{}, err
	}

	if command.Mutates(cmd) {
		s.dirty = true
		s.log.Debug("task list changed", "size", s.store.Len())
		if s.autosave {
			reply.Lines = append(reply.Lines, s.save()...)
		}
	}
	if reply.Exit {
		reply.Lines = append(reply.Lines, s.save()...)
	}
	return reply, nil
}

// Flush saves pending changes, if any.
func (s *Session) Flush() error {
	if s.snap == nil || !s.dirty {
		return nil
	}
	if err := s.snap.Save(s.store.List()); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	s.dirty = false
	return nil
}

// save flushes and turns a failure into a warning line.
func (s *Session) save() []string {
	if err := s.Flush(); err != nil {
		s.log.Warn("save failed", "err", err)
		return []string{fmt.Sprintf("Warning: %v", err)}
	}
	return nil
}

func (s *Session) apply(cmd command.Command) (Reply, error) {
	switch c := cmd.(type) {
	case command.Bye:
		return Reply{Lines: []string{"Bye. Hope to see you again soon!"}, Exit: true}, nil

	case command.List:
		tasks := s.store.List()
		if len(tasks) == 0 {
			return lines("Your task list is empty."), nil
		}
		return lines(append([]string{"Here are the tasks in your list:"}, numbered(tasks)...)...), nil

	case command.Done:
		t, err := s.store.MarkDone(c.Index)
		if err != nil {
			return Reply{}, err
		}
		return lines("Nice! I've marked this task as done:", "  "+t.String()), nil

	case command.Delete:
		t, err := s.store.Delete(c.Index)
		if err != nil {
			return Reply{}, err
		}
		return lines("Noted. I've removed this task:", "  "+t.String(), s.countLine()), nil

	case command.ToDo:
		return s.add(task.NewToDo(c.Description)), nil

	case command.Deadline:
		return s.add(task.NewDeadline(c.Description, c.Date)), nil

	case command.Event:
		return s.add(task.NewEvent(c.Description, c.Date)), nil

	case command.Find:
		matches := s.store.Find(c.Query)
		if len(matches) == 0 {
			return lines(fmt.Sprintf("No tasks match %q.", c.Query)), nil
		}
		return lines(append([]string{"Here are the matching tasks in your list:"}, numbered(matches)...)...), nil

	case command.Sort:
		s.store.Sort()
		tasks := s.store.List()
		if len(tasks) == 0 {
			return lines("Your task list is empty."), nil
		}
		return lines(append([]string{"Sorted your tasks by date:"}, numbered(tasks)...)...), nil

	case command.Help:
		usage, ok := command.Usage(c.Topic)
		if !ok {
			return Reply{}, &UnknownCommandError{Keyword: c.Topic}
		}
		return lines(strings.Split(usage, "\n")...), nil
	}

	return Reply{}, fmt.Errorf("unsupported command %T", cmd)
}

func (s *Session) add(t task.Task) Reply {
	index := s.store.Add(t)
	added, _ := s.store.Get(index)
	return lines("Got it. I've added this task:", "  "+added.String(), s.countLine())
}

func (s *Session) countLine() string {
	n := s.store.Len()
	if n == 1 {
		return "Now you have 1 task in the list."
	}
	return fmt.Sprintf("Now you have %d tasks in the list.", n)
}

func lines(l ...string) Reply {
	return Reply{Lines: l}
}

func numbered(tasks []task.Task) []string {
	out := make([]string, 0, len(tasks))
	for i, t := range tasks {
		out = append(out, fmt.Sprintf("%d. %s", i+1, t))
	}
	return out
}
