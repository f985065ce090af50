package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"recast/internal/processor"
)

func TestModelCountsProgress(t *testing.T) {
	updates := make(chan processor.Progress)
	var m tea.Model = NewModel("PNG", 3, updates, nil)

	m, _ = m.Update(updateMsg{Index: 1, Total: 3, Result: processor.Result{Source: "/in/a.png", OK: true}})
	m, _ = m.Update(updateMsg{Index: 2, Total: 3, Result: processor.Result{Source: "/in/b.png", Err: errors.New("bad")}})

	view := m.View()
	if !strings.Contains(view, "Files: 2/3") {
		t.Fatalf("view missing counter:\n%s", view)
	}
	if !strings.Contains(view, "failed:1") {
		t.Fatalf("view missing failure count:\n%s", view)
	}
	if !strings.Contains(view, "b.png") {
		t.Fatalf("view missing current file:\n%s", view)
	}
}

func TestModelCtrlCCancels(t *testing.T) {
	updates := make(chan processor.Progress)
	cancelled := 0
	var m tea.Model = NewModel("ICO", 2, updates, func() { cancelled++ })

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd != nil {
		t.Fatalf("ctrl+c should keep draining updates, got a command")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cancelled != 1 {
		t.Fatalf("cancel called %d times", cancelled)
	}

	_, cmd = m.Update(doneMsg{})
	if cmd == nil {
		t.Fatalf("expected quit command after updates close")
	}
}

func TestRenderBar(t *testing.T) {
	if got := renderBar(10, 0.5); got != "[=====     ]" {
		t.Fatalf("renderBar = %q", got)
	}
	if got := renderBar(4, 2); got != "[====]" {
		t.Fatalf("renderBar overflow = %q", got)
	}
}
