package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestComplete(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"task:com":   "task:complete ",
		"model":      "model:ping ",
		"schedule:s": "schedule:suggest ",
	}
	for in, want := range cases {
		got, ok := complete(in)
		if !ok || got != want {
			t.Fatalf("complete(%q) = %q,%v want %q", in, got, ok, want)
		}
	}
	for _, in := range []string{"task:", "", "nope", "task:add Buy milk"} {
		if got, ok := complete(in); ok {
			t.Fatalf("complete(%q) should not expand, got %q", in, got)
		}
	}
}

func TestPaletteHistory(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	for _, cmd := range []string{"model:ping", "schedule:today"} {
		p.Open()
		p.input.SetValue(cmd)
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	}
	p.Open()
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	if p.input.Value() != "schedule:today" {
		t.Fatalf("expected last command, got %q", p.input.Value())
	}
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	if p.input.Value() != "model:ping" {
		t.Fatalf("expected first command, got %q", p.input.Value())
	}
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	if p.input.Value() != "" {
		t.Fatalf("expected empty input past the newest entry, got %q", p.input.Value())
	}
}
