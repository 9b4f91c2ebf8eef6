package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dan7h3x/LazyDo/internal/storage"
)

func sampleScopes() []storage.Scope {
	return []storage.Scope{
		{Mode: storage.ModeGlobal, Path: "/home/u/.local/share/lazydo/tasks.json"},
		{Mode: storage.ModeProject, Root: "/work/app", Path: "/work/app/.lazydo/tasks.json"},
		{Mode: storage.ModeCustom, Name: "sprint", Path: "/home/u/.local/share/lazydo/custom/sprint.json"},
	}
}

func TestPickPlain(t *testing.T) {
	var out bytes.Buffer
	p := &ScopePicker{In: strings.NewReader("2\n"), Out: &out}

	got, err := p.Pick(sampleScopes())
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if got.Mode != storage.ModeProject {
		t.Errorf("picked %q, want the second candidate", got.Label())
	}

	menu := out.String()
	if !strings.Contains(menu, "1.") || !strings.Contains(menu, "custom:sprint") {
		t.Errorf("menu is missing entries:\n%s", menu)
	}
}

func TestPickSingleCandidate(t *testing.T) {
	p := &ScopePicker{In: strings.NewReader(""), Out: &bytes.Buffer{}}

	got, err := p.Pick(sampleScopes()[:1])
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if got.Mode != storage.ModeGlobal {
		t.Errorf("picked %q, want the only candidate", got.Label())
	}
}

func TestPickNoCandidates(t *testing.T) {
	p := &ScopePicker{In: strings.NewReader(""), Out: &bytes.Buffer{}}
	if _, err := p.Pick(nil); err == nil {
		t.Error("Pick succeeded with no candidates")
	}
}

func TestPickPlainInvalidChoice(t *testing.T) {
	for _, input := range []string{"9\n", "0\n", "x\n"} {
		p := &ScopePicker{In: strings.NewReader(input), Out: &bytes.Buffer{}}
		if _, err := p.Pick(sampleScopes()); err == nil {
			t.Errorf("Pick accepted input %q", input)
		}
	}
}

func TestPickPlainAbortOnEOF(t *testing.T) {
	p := &ScopePicker{In: strings.NewReader(""), Out: &bytes.Buffer{}}
	if _, err := p.Pick(sampleScopes()); !errors.Is(err, storage.ErrAborted) {
		t.Errorf("error = %v, want ErrAborted", err)
	}
}

func TestName(t *testing.T) {
	var out bytes.Buffer
	p := &ScopePicker{In: strings.NewReader("  weekend plans \n"), Out: &out}

	got, err := p.Name("Store name")
	if err != nil {
		t.Fatalf("Name: %v", err)
	}
	if got != "weekend plans" {
		t.Errorf("Name = %q, want trimmed input", got)
	}
	if !strings.Contains(out.String(), "Store name") {
		t.Errorf("prompt not written: %q", out.String())
	}
}

func TestNameAborts(t *testing.T) {
	for _, input := range []string{"", "\n", "   \n"} {
		p := &ScopePicker{In: strings.NewReader(input), Out: &bytes.Buffer{}}
		if _, err := p.Name("Store name"); !errors.Is(err, storage.ErrAborted) {
			t.Errorf("input %q: error = %v, want ErrAborted", input, err)
		}
	}
}

func TestPickerModelNavigation(t *testing.T) {
	m := &pickerModel{candidates: sampleScopes()}

	key := func(s string) tea.Msg {
		if s == "enter" {
			return tea.KeyMsg{Type: tea.KeyEnter}
		}
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}

	m.Update(key("j"))
	m.Update(key("j"))
	if m.cursor != 2 {
		t.Errorf("cursor = %d after two moves down, want 2", m.cursor)
	}
	m.Update(key("j"))
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want to stay at the last entry", m.cursor)
	}
	m.Update(key("k"))
	if m.cursor != 1 {
		t.Errorf("cursor = %d after move up, want 1", m.cursor)
	}

	_, cmd := m.Update(key("enter"))
	if !m.chosen {
		t.Error("enter did not mark a choice")
	}
	if cmd == nil {
		t.Error("enter did not quit")
	}
}

func TestPickerModelView(t *testing.T) {
	m := &pickerModel{candidates: sampleScopes(), cursor: 1}
	view := m.View()

	if !strings.Contains(view, "> project (/work/app)") {
		t.Errorf("view does not mark the cursor line:\n%s", view)
	}
	if !strings.Contains(view, "global") || !strings.Contains(view, "custom:sprint") {
		t.Errorf("view is missing candidates:\n%s", view)
	}
}
