// Package ui provides optional terminal interfaces.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dan7h3x/LazyDo/internal/storage"
)

// ScopePicker implements storage.Selector. On a terminal it runs a small
// interactive list; otherwise it falls back to numbered stdin prompts so
// scripted sessions still work.
type ScopePicker struct {
	// In and Out default to stdin and stdout when nil.
	In  io.Reader
	Out io.Writer
}

// NewScopePicker returns a picker wired to the process terminal.
func NewScopePicker() *ScopePicker {
	return &ScopePicker{In: os.Stdin, Out: os.Stdout}
}

// Pick asks the user to choose one of the candidate scopes.
func (p *ScopePicker) Pick(candidates []storage.Scope) (storage.Scope, error) {
	if len(candidates) == 0 {
		return storage.Scope{}, fmt.Errorf("no task stores detected")
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	if IsTTY(p.out()) {
		return p.pickInteractive(candidates)
	}
	return p.pickPlain(candidates)
}

// Name asks the user for a store name. An empty answer aborts.
func (p *ScopePicker) Name(prompt string) (string, error) {
	fmt.Fprintf(p.out(), "%s: ", prompt)

	line, err := bufio.NewReader(p.in()).ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil && line == "" {
		return "", storage.ErrAborted
	}
	if line == "" {
		return "", storage.ErrAborted
	}
	return line, nil
}

func (p *ScopePicker) in() io.Reader {
	if p.In != nil {
		return p.In
	}
	return os.Stdin
}

func (p *ScopePicker) out() io.Writer {
	if p.Out != nil {
		return p.Out
	}
	return os.Stdout
}

func (p *ScopePicker) pickInteractive(candidates []storage.Scope) (storage.Scope, error) {
	model := &pickerModel{candidates: candidates}
	program := tea.NewProgram(model)
	final, err := program.Run()
	if err != nil {
		return storage.Scope{}, err
	}
	m, ok := final.(*pickerModel)
	if !ok || !m.chosen {
		return storage.Scope{}, storage.ErrAborted
	}
	return m.candidates[m.cursor], nil
}

func (p *ScopePicker) pickPlain(candidates []storage.Scope) (storage.Scope, error) {
	out := p.out()
	fmt.Fprintln(out, "Task stores:")
	for i, c := range candidates {
		fmt.Fprintf(out, "  %d. %s\n", i+1, describeScope(c))
	}
	fmt.Fprintf(out, "Choose [1-%d]: ", len(candidates))

	line, err := bufio.NewReader(p.in()).ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil && line == "" {
		return storage.Scope{}, storage.ErrAborted
	}
	n, convErr := strconv.Atoi(line)
	if convErr != nil || n < 1 || n > len(candidates) {
		return storage.Scope{}, fmt.Errorf("invalid choice %q", line)
	}
	return candidates[n-1], nil
}

type pickerModel struct {
	candidates []storage.Scope
	cursor     int
	chosen     bool
}

func (m *pickerModel) Init() tea.Cmd {
	return nil
}

func (m *pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.candidates)-1 {
				m.cursor++
			}
		case "enter":
			m.chosen = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *pickerModel) View() string {
	var b strings.Builder
	title := "Switch task store"
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")

	for i, c := range m.candidates {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		b.WriteString(marker + describeScope(c) + "\n")
	}

	b.WriteString("\nj/k move | enter select | q cancel\n")
	return b.String()
}

func describeScope(s storage.Scope) string {
	return fmt.Sprintf("%-28s %s", s.Label(), s.Path)
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
