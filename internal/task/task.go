// Package task holds the task entity and the ordered task list the
// interpreter mutates.
package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the only accepted input format for deadline and event dates.
const DateLayout = "2006-01-02"

const displayLayout = "Jan 2 2006"

var (
	// ErrEmptyName is returned when a task is created without a name.
	ErrEmptyName = errors.New("the description of a task cannot be empty")
	// ErrInvalidDate is returned when a date does not match DateLayout.
	ErrInvalidDate = errors.New("dates must use the format yyyy-mm-dd")
)

// Kind identifies the task variant.
type Kind string

const (
	KindTodo     Kind = "todo"
	KindDeadline Kind = "deadline"
	KindEvent    Kind = "event"
)

// Task is a single entry in a List. Lists share tasks by pointer, so marking
// a task done through one list is visible through every list holding it.
type Task struct {
	ID        string
	Kind      Kind
	Name      string
	Done      bool
	Date      time.Time
	CreatedAt time.Time
}

// NewTodo creates a task without a date.
func NewTodo(name string) (*Task, error) {
	return newTask(KindTodo, name, "")
}

// NewDeadline creates a task that is due by date (yyyy-mm-dd).
func NewDeadline(name, date string) (*Task, error) {
	return newTask(KindDeadline, name, date)
}

// NewEvent creates a task that happens at date (yyyy-mm-dd).
func NewEvent(name, date string) (*Task, error) {
	return newTask(KindEvent, name, date)
}

func newTask(kind Kind, name, date string) (*Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%s: %w", kind, ErrEmptyName)
	}
	t := &Task{
		ID:        uuid.New().String(),
		Kind:      kind,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if kind == KindTodo {
		return t, nil
	}
	d, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	t.Date = d
	return t, nil
}

// ParseDate parses a yyyy-mm-dd date.
func ParseDate(v string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, fmt.Errorf("%q: %w", v, ErrInvalidDate)
	}
	return d, nil
}

// MarkDone sets the done flag.
func (t *Task) MarkDone() {
	t.Done = true
}

// Symbol returns the one-letter tag shown in the first bracket.
func (t *Task) Symbol() string {
	switch t.Kind {
	case KindDeadline:
		return "D"
	case KindEvent:
		return "E"
	default:
		return "T"
	}
}

func (t *Task) String() string {
	check := " "
	if t.Done {
		check = "X"
	}
	s := fmt.Sprintf("[%s][%s] %s", t.Symbol(), check, t.Name)
	switch t.Kind {
	case KindDeadline:
		s += " (by: " + t.Date.Format(displayLayout) + ")"
	case KindEvent:
		s += " (at: " + t.Date.Format(displayLayout) + ")"
	}
	return s
}
