// Package parser turns lines of user input into commands.
//
// Input is consumed the way a token scanner does it: the command word and
// index arguments are single whitespace-delimited tokens, while names and
// dates take the remainder of the current line. After "done 2 list" the
// parser has consumed "done 2" and the next call returns the list command.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Kind is the command word that selects behavior.
type Kind string

const (
	KindBye      Kind = "bye"
	KindList     Kind = "list"
	KindDone     Kind = "done"
	KindDelete   Kind = "delete"
	KindTodo     Kind = "todo"
	KindFind     Kind = "find"
	KindDeadline Kind = "deadline"
	KindEvent    Kind = "event"
)

// Kinds lists every recognized command word in help order.
var Kinds = []Kind{KindList, KindDone, KindDelete, KindFind, KindTodo, KindDeadline, KindEvent, KindBye}

const (
	deadlineSep = " /by "
	eventSep    = " /at "
)

// Command is one parsed input command. Only the fields relevant to Kind are
// set: Index (and Indexes for a batch) for done and delete, Name for todo,
// find, deadline and event, Date for deadline and event. Indexes are
// zero-based.
type Command struct {
	Kind    Kind
	Index   int
	Indexes []int
	Name    string
	Date    string
}

// Batch reports whether the command targets more than one index.
func (c Command) Batch() bool {
	return len(c.Indexes) > 0
}

// FormatError reports input that does not match a command's shape. Msg is
// meant to be shown to the user as is.
type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string {
	return e.Msg
}

// Parser reads commands from a sequential source. It is not safe for
// concurrent use.
type Parser struct {
	r *bufio.Reader
}

// New returns a parser reading from r.
func New(r io.Reader) *Parser {
	return &Parser{r: bufio.NewReader(r)}
}

// Next reads one command. It returns io.EOF when the input ends before a
// command word and a *FormatError for malformed input; after a format error
// the rest of the offending line has been discarded.
func (p *Parser) Next() (Command, error) {
	word, err := p.token()
	if err != nil {
		return Command{}, err
	}

	cmd := Command{Kind: Kind(word)}
	switch cmd.Kind {
	case KindBye, KindList:
	case KindDone, KindDelete:
		indexes, err := p.indexes(cmd.Kind)
		if err != nil {
			p.discardLine()
			return Command{}, err
		}
		cmd.Index = indexes[0]
		if len(indexes) > 1 {
			cmd.Indexes = indexes
		}
	case KindTodo, KindFind:
		line, err := p.restOfLine()
		if err != nil {
			return Command{}, err
		}
		cmd.Name = strings.TrimSpace(line)
	case KindDeadline:
		if err := p.nameAndDate(&cmd, deadlineSep, "Please use the format: deadline <name> /by <yyyy-mm-dd>"); err != nil {
			return Command{}, err
		}
	case KindEvent:
		if err := p.nameAndDate(&cmd, eventSep, "Please use the format: event <name> /at <yyyy-mm-dd>"); err != nil {
			return Command{}, err
		}
	default:
		p.discardLine()
		return Command{}, &FormatError{Msg: unknownCommandMsg()}
	}
	return cmd, nil
}

func (p *Parser) indexes(kind Kind) ([]int, error) {
	usage := &FormatError{Msg: fmt.Sprintf("Please use the format: %s <task number>[,<task number>...]", kind)}
	tok, err := p.lineToken()
	if err != nil {
		return nil, err
	}
	if tok == "" {
		return nil, usage
	}
	parts := strings.Split(tok, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, usage
		}
		// Users count from 1, lists from 0.
		out = append(out, n-1)
	}
	return out, nil
}

func (p *Parser) nameAndDate(cmd *Command, sep, usage string) error {
	line, err := p.restOfLine()
	if err != nil {
		return err
	}
	parts := strings.Split(strings.TrimSpace(line), sep)
	if len(parts) < 2 {
		return &FormatError{Msg: usage}
	}
	cmd.Name = strings.TrimSpace(parts[0])
	cmd.Date = strings.TrimSpace(parts[1])
	return nil
}

func unknownCommandMsg() string {
	quoted := make([]string, len(Kinds))
	for i, k := range Kinds {
		quoted[i] = strconv.Quote(string(k))
	}
	last := len(quoted) - 1
	return fmt.Sprintf("What's that? Please mention one of %s, or %s.",
		strings.Join(quoted[:last], ", "), quoted[last])
}

// token skips any whitespace, newlines included, and returns the next
// whitespace-delimited token. The delimiter is left unread.
func (p *Parser) token() (string, error) {
	if err := p.skip(func(r rune) bool { return unicode.IsSpace(r) }); err != nil {
		return "", err
	}
	return p.readWord()
}

// lineToken is like token but stops at the end of the current line, in
// which case it returns "" and leaves the newline unread.
func (p *Parser) lineToken() (string, error) {
	err := p.skip(func(r rune) bool { return r != '\n' && unicode.IsSpace(r) })
	if errors.Is(err, io.EOF) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return p.readWord()
}

func (p *Parser) skip(match func(rune) bool) error {
	for {
		r, _, err := p.r.ReadRune()
		if err != nil {
			return err
		}
		if !match(r) {
			return p.r.UnreadRune()
		}
	}
}

func (p *Parser) readWord() (string, error) {
	var b strings.Builder
	for {
		r, _, err := p.r.ReadRune()
		if errors.Is(err, io.EOF) {
			return b.String(), nil
		}
		if err != nil {
			return "", err
		}
		if unicode.IsSpace(r) {
			return b.String(), p.r.UnreadRune()
		}
		b.WriteRune(r)
	}
}

// restOfLine returns what is left of the current line and consumes the
// newline.
func (p *Parser) restOfLine() (string, error) {
	line, err := p.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

func (p *Parser) discardLine() {
	_, _ = p.restOfLine()
}
