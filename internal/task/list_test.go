package task

import (
	"errors"
	"testing"
)

func todos(t *testing.T, names ...string) []*Task {
	t.Helper()
	out := make([]*Task, 0, len(names))
	for _, n := range names {
		task, err := NewTodo(n)
		if err != nil {
			t.Fatalf("NewTodo(%q) failed: %v", n, err)
		}
		out = append(out, task)
	}
	return out
}

func names(l *List) []string {
	var out []string
	for t := range l.All() {
		out = append(out, t.Name)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestListString(t *testing.T) {
	l := NewList(todos(t, "read book", "return book")...)
	want := "1. [T][ ] read book\n2. [T][ ] return book"
	if got := l.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := NewList().String(); got != "" {
		t.Errorf("empty String() = %q, want empty", got)
	}
}

func TestListDone(t *testing.T) {
	tasks := todos(t, "A", "B")
	l := NewList(tasks...)

	got, err := l.Done(1)
	if err != nil {
		t.Fatalf("Done(1) failed: %v", err)
	}
	if got != tasks[1] || !got.Done {
		t.Errorf("Done(1) returned %v, want B marked done", got)
	}
	if tasks[0].Done {
		t.Error("task A should not be done")
	}
	if want := "1. [T][ ] A\n2. [T][X] B"; l.String() != want {
		t.Errorf("String() = %q, want %q", l.String(), want)
	}
}

func TestListIndexOutOfRange(t *testing.T) {
	l := NewList(todos(t, "A", "B", "C")...)

	for _, idx := range []int{-1, 3, 10} {
		_, err := l.Done(idx)
		var rangeErr *IndexOutOfRangeError
		if !errors.As(err, &rangeErr) {
			t.Fatalf("Done(%d) error = %v, want IndexOutOfRangeError", idx, err)
		}
		if rangeErr.Index != idx || rangeErr.Len != 3 {
			t.Errorf("error = %+v, want Index=%d Len=3", rangeErr, idx)
		}
		if _, err := l.Delete(idx); !errors.As(err, &rangeErr) {
			t.Errorf("Delete(%d) error = %v, want IndexOutOfRangeError", idx, err)
		}
	}
	if l.Len() != 3 {
		t.Errorf("Len() = %d after failed deletes, want 3", l.Len())
	}
	for task := range l.All() {
		if task.Done {
			t.Errorf("task %q marked done by failed call", task.Name)
		}
	}
}

func TestListDeleteShifts(t *testing.T) {
	tasks := todos(t, "A", "B", "C")
	l := NewList(tasks...)

	got, err := l.Delete(1)
	if err != nil {
		t.Fatalf("Delete(1) failed: %v", err)
	}
	if got != tasks[1] {
		t.Errorf("Delete(1) returned %q, want B", got.Name)
	}
	if n := names(l); !equalStrings(n, []string{"A", "C"}) {
		t.Errorf("remaining = %v, want [A C]", n)
	}

	l.Add(got)
	if n := names(l); !equalStrings(n, []string{"A", "C", "B"}) {
		t.Errorf("after re-add = %v, want [A C B]", n)
	}
}

func TestListDeleteAll(t *testing.T) {
	tests := []struct {
		name      string
		indexes   []int
		remaining []string
		removed   []string
	}{
		{"reverse order", []int{2, 0}, []string{"B"}, []string{"C", "A"}},
		{"ascending", []int{0, 1}, []string{"C"}, []string{"A", "B"}},
		{"duplicates removed once", []int{1, 1}, []string{"A", "C"}, []string{"B", "B"}},
		{"all", []int{1, 2, 0}, nil, []string{"B", "C", "A"}},
		{"none", nil, []string{"A", "B", "C"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewList(todos(t, "A", "B", "C")...)
			removed, err := l.DeleteAll(tt.indexes)
			if err != nil {
				t.Fatalf("DeleteAll(%v) failed: %v", tt.indexes, err)
			}
			if n := names(l); !equalStrings(n, tt.remaining) {
				t.Errorf("remaining = %v, want %v", n, tt.remaining)
			}
			if n := names(removed); !equalStrings(n, tt.removed) {
				t.Errorf("removed = %v, want %v", n, tt.removed)
			}
		})
	}
}

func TestListDeleteAllRendersInGivenOrder(t *testing.T) {
	l := NewList(todos(t, "A", "B", "C")...)
	removed, err := l.DeleteAll([]int{2, 0})
	if err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}
	if want := "1. [T][ ] C\n2. [T][ ] A"; removed.String() != want {
		t.Errorf("removed String() = %q, want %q", removed.String(), want)
	}
	if want := "1. [T][ ] B"; l.String() != want {
		t.Errorf("remaining String() = %q, want %q", l.String(), want)
	}
}

func TestListDeleteAllSameNames(t *testing.T) {
	// Identical names must not confuse identity-based removal.
	l := NewList(todos(t, "X", "X", "X")...)
	first, _ := l.Get(0)
	last, _ := l.Get(2)
	if _, err := l.DeleteAll([]int{2, 1}); err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}
	if l.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", l.Len())
	}
	if got, _ := l.Get(0); got != first || got == last {
		t.Error("wrong task kept after DeleteAll")
	}
}

func TestListBatchIsAtomic(t *testing.T) {
	l := NewList(todos(t, "A", "B", "C")...)

	if _, err := l.DoneAll([]int{0, 5}); err == nil {
		t.Fatal("DoneAll with bad index should fail")
	}
	for task := range l.All() {
		if task.Done {
			t.Errorf("task %q marked done by failed DoneAll", task.Name)
		}
	}

	if _, err := l.DeleteAll([]int{1, -1}); err == nil {
		t.Fatal("DeleteAll with bad index should fail")
	}
	if l.Len() != 3 {
		t.Errorf("Len() = %d after failed DeleteAll, want 3", l.Len())
	}
}

func TestListDoneAll(t *testing.T) {
	tasks := todos(t, "A", "B", "C")
	l := NewList(tasks...)

	marked, err := l.DoneAll([]int{2, 0})
	if err != nil {
		t.Fatalf("DoneAll failed: %v", err)
	}
	if n := names(marked); !equalStrings(n, []string{"C", "A"}) {
		t.Errorf("marked = %v, want [C A]", n)
	}
	if !tasks[0].Done || tasks[1].Done || !tasks[2].Done {
		t.Errorf("done flags = %v %v %v, want true false true", tasks[0].Done, tasks[1].Done, tasks[2].Done)
	}
}

func TestListDoneAllDuplicate(t *testing.T) {
	tasks := todos(t, "A")
	l := NewList(tasks...)

	marked, err := l.DoneAll([]int{0, 0})
	if err != nil {
		t.Fatalf("DoneAll failed: %v", err)
	}
	if marked.Len() != 2 {
		t.Fatalf("marked Len() = %d, want 2", marked.Len())
	}
	for task := range marked.All() {
		if task != tasks[0] {
			t.Error("marked list should hold the original task twice")
		}
	}
	if !tasks[0].Done {
		t.Error("task should be done")
	}
}

func TestListSharedTasks(t *testing.T) {
	l := NewList(todos(t, "buy milk", "buy bread", "call mom")...)
	found := l.Find("buy")

	if _, err := found.Done(1); err != nil {
		t.Fatalf("Done on found list failed: %v", err)
	}
	bread, _ := l.Get(1)
	if !bread.Done {
		t.Error("marking done through a found list should update the original")
	}
}

func TestListFind(t *testing.T) {
	l := NewList(todos(t, "read book", "Book club", "return book", "cook")...)

	tests := []struct {
		keyword string
		want    []string
	}{
		{"book", []string{"read book", "return book"}},
		{"Book", []string{"Book club"}},
		{"ook", []string{"read book", "Book club", "return book", "cook"}},
		{"missing", nil},
		{"", []string{"read book", "Book club", "return book", "cook"}},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			if got := names(l.Find(tt.keyword)); !equalStrings(got, tt.want) {
				t.Errorf("Find(%q) = %v, want %v", tt.keyword, got, tt.want)
			}
		})
	}
}

func TestListEqual(t *testing.T) {
	a := NewList(todos(t, "foo")...)
	b := NewList(todos(t, "foo")...)

	if !a.Equal(b) {
		t.Error("lists rendering the same text should be equal")
	}
	if a.String() != "1. [T][ ] foo" {
		t.Errorf("String() = %q", a.String())
	}

	if _, err := b.Done(0); err != nil {
		t.Fatal(err)
	}
	if a.Equal(b) {
		t.Error("lists with different done flags should not be equal")
	}
	if a.Equal(nil) {
		t.Error("list should not equal nil")
	}
}

func TestListAllRestartable(t *testing.T) {
	l := NewList(todos(t, "A", "B", "C")...)
	first := names(l)
	second := names(l)
	if !equalStrings(first, second) {
		t.Errorf("iterations differ: %v vs %v", first, second)
	}

	count := 0
	for range l.All() {
		count++
		break
	}
	if count != 1 {
		t.Errorf("early break visited %d tasks, want 1", count)
	}
}
