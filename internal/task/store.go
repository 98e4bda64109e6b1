package task

import (
	"fmt"
	"sort"
	"strings"
)

// IndexError reports a 1-based task number outside the current list.
type IndexError struct {
	Index int
	Size  int
}

func (e *IndexError) Error() string {
	if e.Size == 0 {
		return fmt.Sprintf("Task number %d is out of range: the list is empty", e.Index)
	}
	return fmt.Sprintf("Task number %d is out of range (1-%d)", e.Index, e.Size)
}

// Store is an ordered list of tasks addressed by 1-based position.
// Insertion order is kept until Sort or Delete changes it.
type Store struct {
	tasks []Task
}

// NewStore returns a store holding a copy of tasks in the given order.
func NewStore(tasks ...Task) *Store {
	s := &Store{tasks: make([]Task, 0, len(tasks))}
	for _, t := range tasks {
		s.tasks = append(s.tasks, t.identified())
	}
	return s
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Add appends a task and returns its 1-based index. A task without an ID
// is given one.
func (s *Store) Add(t Task) int {
	s.tasks = append(s.tasks, t.identified())
	return len(s.tasks)
}

// Get returns the task at the 1-based index.
func (s *Store) Get(index int) (Task, error) {
	i, err := s.position(index)
	if err != nil {
		return Task{}, err
	}
	return s.tasks[i], nil
}

// MarkDone marks the task at the 1-based index as done and returns it.
// Marking an already-done task succeeds.
func (s *Store) MarkDone(index int) (Task, error) {
	i, err := s.position(index)
	if err != nil {
		return Task{}, err
	}
	s.tasks[i].Done = true
	return s.tasks[i], nil
}

// Delete removes the task at the 1-based index and returns it.
// Later tasks shift down by one.
func (s *Store) Delete(index int) (Task, error) {
	i, err := s.position(index)
	if err != nil {
		return Task{}, err
	}
	removed := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return removed, nil
}

// List returns a copy of the tasks in current order.
func (s *Store) List() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Find returns the tasks whose description contains query (case-sensitive),
// in current order.
func (s *Store) Find(query string) []Task {
	var matches []Task
	for _, t := range s.tasks {
		if strings.Contains(t.Description, query) {
			matches = append(matches, t)
		}
	}
	return matches
}

// Sort orders dated tasks by date ascending, followed by all plain to-dos.
// Tasks with equal keys keep their relative order.
func (s *Store) Sort() {
	sort.SliceStable(s.tasks, func(i, j int) bool {
		return Less(s.tasks[i], s.tasks[j])
	})
}

// Less reports whether a sorts before b. Plain to-dos compare equal to each
// other and sort after every dated task.
func Less(a, b Task) bool {
	switch {
	case a.HasDate() && b.HasDate():
		return a.When.Before(b.When)
	case a.HasDate():
		return true
	default:
		return false
	}
}

func (s *Store) position(index int) (int, error) {
	if index < 1 || index > len(s.tasks) {
		return 0, &IndexError{Index: index, Size: len(s.tasks)}
	}
	return index - 1, nil
}
