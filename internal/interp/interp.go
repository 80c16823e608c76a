// Package interp runs parsed commands against a task list and produces the
// replies shown to the user.
package interp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"taskline/internal/parser"
	"taskline/internal/task"
)

const (
	Greeting = "Hello! What can I do for you?"
	Farewell = "Bye. Hope to see you again soon!"
)

// Saver persists the list after a mutating command.
type Saver interface {
	Save(ctx context.Context, list *task.List) error
}

// Reply is the text answer to one command.
type Reply struct {
	Text string
	Quit bool
}

// Interpreter applies commands to a single task list. It is not safe for
// concurrent use.
type Interpreter struct {
	list   *task.List
	store  Saver
	logger *log.Logger
}

// New returns an interpreter over list. store may be nil, in which case
// nothing is persisted.
func New(list *task.List, store Saver, logger *log.Logger) *Interpreter {
	if list == nil {
		list = task.NewList()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Interpreter{list: list, store: store, logger: logger}
}

// List returns the list the interpreter mutates.
func (in *Interpreter) List() *task.List {
	return in.list
}

// Execute applies cmd and returns the reply. Errors are recoverable: the
// list is left unchanged by a failed command, except that a failed save
// keeps the in-memory change.
func (in *Interpreter) Execute(ctx context.Context, cmd parser.Command) (Reply, error) {
	in.logger.Debug("execute", "command", cmd.Kind, "index", cmd.Index, "indexes", cmd.Indexes, "name", cmd.Name, "date", cmd.Date)

	var text string
	var err error
	mutated := true
	switch cmd.Kind {
	case parser.KindBye:
		return Reply{Text: Farewell, Quit: true}, nil
	case parser.KindList:
		mutated = false
		text = in.listReply()
	case parser.KindFind:
		mutated = false
		text = in.findReply(cmd.Name)
	case parser.KindDone:
		text, err = in.done(cmd)
	case parser.KindDelete:
		text, err = in.delete(cmd)
	case parser.KindTodo, parser.KindDeadline, parser.KindEvent:
		text, err = in.add(cmd)
	default:
		return Reply{}, fmt.Errorf("unsupported command %q", cmd.Kind)
	}
	if err != nil {
		return Reply{}, err
	}

	if mutated && in.store != nil {
		if err := in.store.Save(ctx, in.list); err != nil {
			in.logger.Error("save failed", "command", cmd.Kind, "err", err)
			return Reply{Text: text}, err
		}
	}
	return Reply{Text: text}, nil
}

// ExecuteLine parses and runs every command on line, joining the replies.
// Errors are turned into user-facing replies.
func (in *Interpreter) ExecuteLine(ctx context.Context, line string) Reply {
	p := parser.New(strings.NewReader(line))
	var parts []string
	for {
		cmd, err := p.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			parts = append(parts, in.errorReply(err))
			continue
		}
		reply, err := in.Execute(ctx, cmd)
		if reply.Text != "" {
			parts = append(parts, reply.Text)
		}
		if err != nil {
			parts = append(parts, in.errorReply(err))
		}
		if reply.Quit {
			return Reply{Text: strings.Join(parts, "\n"), Quit: true}
		}
	}
	return Reply{Text: strings.Join(parts, "\n")}
}

// Run greets, then reads commands from r until bye, end of input or ctx is
// done. Replies go to w.
func (in *Interpreter) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	if _, err := fmt.Fprintln(w, Greeting); err != nil {
		return err
	}
	p := parser.New(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		cmd, err := p.Next()
		if errors.Is(err, io.EOF) {
			in.logger.Debug("input closed")
			_, err := fmt.Fprintln(w, Farewell)
			return err
		}
		if err != nil {
			var fe *parser.FormatError
			if !errors.As(err, &fe) {
				return fmt.Errorf("read command: %w", err)
			}
			if _, err := fmt.Fprintln(w, in.errorReply(fe)); err != nil {
				return err
			}
			continue
		}

		reply, err := in.Execute(ctx, cmd)
		if reply.Text != "" {
			if _, werr := fmt.Fprintln(w, reply.Text); werr != nil {
				return werr
			}
		}
		if err != nil {
			if _, werr := fmt.Fprintln(w, in.errorReply(err)); werr != nil {
				return werr
			}
		}
		if reply.Quit {
			return nil
		}
	}
}

func (in *Interpreter) errorReply(err error) string {
	var fe *parser.FormatError
	var rangeErr *task.IndexOutOfRangeError
	switch {
	case errors.As(err, &fe), errors.As(err, &rangeErr),
		errors.Is(err, task.ErrEmptyName), errors.Is(err, task.ErrInvalidDate):
		in.logger.Warn("command rejected", "err", err)
	default:
		in.logger.Error("command failed", "err", err)
	}
	return "OOPS!!! " + err.Error()
}

func (in *Interpreter) listReply() string {
	if in.list.Len() == 0 {
		return "Your list is empty."
	}
	return "Here are the tasks in your list:\n" + in.list.String()
}

func (in *Interpreter) findReply(keyword string) string {
	found := in.list.Find(keyword)
	if found.Len() == 0 {
		return fmt.Sprintf("No tasks match %q.", keyword)
	}
	return "Here are the matching tasks in your list:\n" + found.String()
}

func (in *Interpreter) done(cmd parser.Command) (string, error) {
	if cmd.Batch() {
		marked, err := in.list.DoneAll(cmd.Indexes)
		if err != nil {
			return "", err
		}
		return "Nice! I've marked these tasks as done:\n" + marked.String(), nil
	}
	t, err := in.list.Done(cmd.Index)
	if err != nil {
		return "", err
	}
	return "Nice! I've marked this task as done:\n  " + t.String(), nil
}

func (in *Interpreter) delete(cmd parser.Command) (string, error) {
	if cmd.Batch() {
		removed, err := in.list.DeleteAll(cmd.Indexes)
		if err != nil {
			return "", err
		}
		return "Noted. I've removed these tasks:\n" + removed.String() + "\n" + in.countLine(), nil
	}
	t, err := in.list.Delete(cmd.Index)
	if err != nil {
		return "", err
	}
	return "Noted. I've removed this task:\n  " + t.String() + "\n" + in.countLine(), nil
}

func (in *Interpreter) add(cmd parser.Command) (string, error) {
	var t *task.Task
	var err error
	switch cmd.Kind {
	case parser.KindDeadline:
		t, err = task.NewDeadline(cmd.Name, cmd.Date)
	case parser.KindEvent:
		t, err = task.NewEvent(cmd.Name, cmd.Date)
	default:
		t, err = task.NewTodo(cmd.Name)
	}
	if err != nil {
		return "", err
	}
	in.list.Add(t)
	return "Got it. I've added this task:\n  " + t.String() + "\n" + in.countLine(), nil
}

func (in *Interpreter) countLine() string {
	noun := "tasks"
	if in.list.Len() == 1 {
		noun = "task"
	}
	return fmt.Sprintf("Now you have %d %s in the list.", in.list.Len(), noun)
}
