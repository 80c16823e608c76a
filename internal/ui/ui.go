package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskline/internal/config"
	"taskline/internal/interp"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	echoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// defaultHeight is used until the first WindowSizeMsg arrives.
const defaultHeight = 24

type Model struct {
	ctx        context.Context
	interp     *interp.Interpreter
	cfg        config.Config
	input      textinput.Model
	transcript []string
	history    []string
	histPos    int
	height     int
	quitting   bool
}

func New(ctx context.Context, in *interp.Interpreter, cfg config.Config) Model {
	ti := textinput.New()
	ti.Prompt = cfg.Prompt
	ti.Placeholder = "todo read book"
	ti.CharLimit = 256
	ti.Width = 40
	ti.Focus()

	return Model{
		ctx:        ctx,
		interp:     in,
		cfg:        cfg,
		input:      ti,
		transcript: []string{interp.Greeting},
		height:     defaultHeight,
	}
}

func Run(ctx context.Context, in *interp.Interpreter, cfg config.Config) error {
	program := tea.NewProgram(New(ctx, in, cfg), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
		m.height = msg.Height
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.cfg.Keys.Quit:
		m.quitting = true
		return m, tea.Quit
	case m.cfg.Keys.Submit:
		return m.submit()
	case m.cfg.Keys.HistoryUp:
		if m.histPos > 0 {
			m.histPos--
			m.input.SetValue(m.history[m.histPos])
			m.input.CursorEnd()
		}
		return m, nil
	case m.cfg.Keys.HistoryDown:
		if m.histPos < len(m.history)-1 {
			m.histPos++
			m.input.SetValue(m.history[m.histPos])
			m.input.CursorEnd()
		} else {
			m.histPos = len(m.history)
			m.input.SetValue("")
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.SetValue("")
	if strings.TrimSpace(line) == "" {
		return m, nil
	}
	m.history = append(m.history, line)
	m.histPos = len(m.history)

	reply := m.interp.ExecuteLine(m.ctx, line)
	m.transcript = append(m.transcript, echoStyle.Render(m.cfg.Prompt+line))
	for _, l := range strings.Split(reply.Text, "\n") {
		if strings.HasPrefix(l, "OOPS!!!") {
			l = errorStyle.Render(l)
		}
		m.transcript = append(m.transcript, l)
	}
	if reply.Quit {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("taskline"))
	b.WriteString("\n\n")

	// Title, blank line, input, blank line and help take five rows.
	visible := m.height - 5
	if visible < 1 {
		visible = 1
	}
	lines := m.transcript
	if len(lines) > visible {
		lines = lines[len(lines)-visible:]
	}
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\n")
	}

	if m.quitting {
		return b.String()
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(renderHelp(m.cfg.Keys))
	return b.String()
}

func renderHelp(k config.Keymap) string {
	return helpStyle.Render(k.Submit + " run • " + k.HistoryUp + "/" + k.HistoryDown + " history • " + k.Quit + " quit")
}
