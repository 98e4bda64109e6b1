// Package ui provides an optional terminal interface over a session.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/duke-go/internal/session"
)

// maxEntries bounds the scrollback kept on screen.
const maxEntries = 50

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	replyStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true, false).PaddingLeft(2)
	errorStyle  = replyStyle.Foreground(lipgloss.Color("9"))
	footerStyle = lipgloss.NewStyle().Faint(true)
)

// Run starts the interactive UI over sess. It requires a TTY.
func Run(ctx context.Context, sess *session.Session) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	program := tea.NewProgram(newModel(sess), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return err
	}
	return sess.Flush()
}

type entry struct {
	line  string
	reply []string
	err   bool
}

type model struct {
	sess     *session.Session
	input    textinput.Model
	entries  []entry
	height   int
	quitting bool
}

func newModel(sess *session.Session) *model {
	ti := textinput.New()
	ti.Placeholder = "todo read book"
	ti.Prompt = "> "
	ti.CharLimit = 0
	ti.Width = 60
	ti.Focus()

	return &model{
		sess:    sess,
		input:   ti,
		entries: []entry{{reply: session.Greeting()}},
	}
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 4
		m.height = msg.Height
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.SetValue("")
	if strings.TrimSpace(line) == "" {
		return m, nil
	}

	reply, err := m.sess.Handle(line)
	e := entry{line: line, reply: reply.Lines}
	if err != nil {
		e.reply = []string{err.Error()}
		e.err = true
	}
	m.entries = append(m.entries, e)
	if len(m.entries) > maxEntries {
		m.entries = m.entries[len(m.entries)-maxEntries:]
	}

	if reply.Exit {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Duke") + "\n\n")

	for _, e := range m.visibleEntries() {
		if e.line != "" {
			b.WriteString(promptStyle.Render("> "+e.line) + "\n")
		}
		style := replyStyle
		if e.err {
			style = errorStyle
		}
		b.WriteString(style.Render(strings.Join(e.reply, "\n")) + "\n")
	}

	if m.quitting {
		return b.String()
	}

	b.WriteString("\n" + m.input.View() + "\n")
	b.WriteString(footerStyle.Render("enter to run | help <command> for usage | esc or ctrl+c to quit") + "\n")
	return b.String()
}

// visibleEntries trims the scrollback to roughly fit the window.
func (m *model) visibleEntries() []entry {
	if m.height <= 0 {
		return m.entries
	}
	budget := m.height - 6
	start := len(m.entries)
	for start > 0 {
		e := m.entries[start-1]
		cost := len(e.reply) + 3
		if budget-cost < 0 && start < len(m.entries) {
			break
		}
		budget -= cost
		start--
	}
	return m.entries[start:]
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
