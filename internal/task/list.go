package task

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"
)

// IndexOutOfRangeError reports a zero-based index outside [0, Len).
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("there is no task %d, the list has %d task(s)", e.Index+1, e.Len)
}

// List is an ordered sequence of tasks. Positions are zero-based; String
// numbers them from 1. A List is not safe for concurrent use.
type List struct {
	tasks []*Task
}

// NewList returns a list holding tasks in the given order.
func NewList(tasks ...*Task) *List {
	l := &List{tasks: make([]*Task, 0, len(tasks))}
	l.tasks = append(l.tasks, tasks...)
	return l
}

// Len returns the number of tasks.
func (l *List) Len() int {
	return len(l.tasks)
}

// Get returns the task at index without changing it.
func (l *List) Get(index int) (*Task, error) {
	if err := l.check(index); err != nil {
		return nil, err
	}
	return l.tasks[index], nil
}

// Add appends t to the end of the list.
func (l *List) Add(t *Task) {
	l.tasks = append(l.tasks, t)
}

// Done marks the task at index as done and returns it.
func (l *List) Done(index int) (*Task, error) {
	if err := l.check(index); err != nil {
		return nil, err
	}
	t := l.tasks[index]
	t.MarkDone()
	return t, nil
}

// DoneAll marks every task at indexes as done and returns them in the order
// the indexes were given. No task is touched unless all indexes are valid.
func (l *List) DoneAll(indexes []int) (*List, error) {
	if err := l.checkAll(indexes); err != nil {
		return nil, err
	}
	marked := make([]*Task, 0, len(indexes))
	for _, i := range indexes {
		t := l.tasks[i]
		t.MarkDone()
		marked = append(marked, t)
	}
	return &List{tasks: marked}, nil
}

// Delete removes and returns the task at index. Later tasks shift down.
func (l *List) Delete(index int) (*Task, error) {
	if err := l.check(index); err != nil {
		return nil, err
	}
	t := l.tasks[index]
	l.tasks = slices.Delete(l.tasks, index, index+1)
	return t, nil
}

// DeleteAll removes the tasks at indexes and returns them in the order the
// indexes were given. Indexes refer to the list before any removal.
func (l *List) DeleteAll(indexes []int) (*List, error) {
	if err := l.checkAll(indexes); err != nil {
		return nil, err
	}
	removed := make([]*Task, 0, len(indexes))
	targets := make(map[*Task]struct{}, len(indexes))
	for _, i := range indexes {
		removed = append(removed, l.tasks[i])
		targets[l.tasks[i]] = struct{}{}
	}

	// Positions go stale after the first removal, so filter by identity.
	kept := make([]*Task, 0, len(l.tasks)-len(targets))
	for _, t := range l.tasks {
		if _, ok := targets[t]; !ok {
			kept = append(kept, t)
		}
	}
	l.tasks = kept
	return &List{tasks: removed}, nil
}

// Find returns the tasks whose name contains keyword, case-sensitively, in
// list order. The result shares tasks with l.
func (l *List) Find(keyword string) *List {
	found := NewList()
	for _, t := range l.tasks {
		if strings.Contains(t.Name, keyword) {
			found.Add(t)
		}
	}
	return found
}

// All iterates over the tasks in order.
func (l *List) All() iter.Seq[*Task] {
	return func(yield func(*Task) bool) {
		for _, t := range l.tasks {
			if !yield(t) {
				return
			}
		}
	}
}

// String renders one "<n>. <task>" line per task, without a trailing newline.
func (l *List) String() string {
	var b strings.Builder
	for i, t := range l.tasks {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(t.String())
	}
	return b.String()
}

// Equal reports whether both lists render to the same text. Two lists with
// distinct tasks that print identically are equal.
func (l *List) Equal(other *List) bool {
	if l == other {
		return true
	}
	if l == nil || other == nil {
		return false
	}
	return l.String() == other.String()
}

func (l *List) check(index int) error {
	if index < 0 || index >= len(l.tasks) {
		return &IndexOutOfRangeError{Index: index, Len: len(l.tasks)}
	}
	return nil
}

func (l *List) checkAll(indexes []int) error {
	for _, i := range indexes {
		if err := l.check(i); err != nil {
			return err
		}
	}
	return nil
}
