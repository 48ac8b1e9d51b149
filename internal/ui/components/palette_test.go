package components_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"folio/internal/ui/components"
)

func typeText(p components.Palette, s string) components.Palette {
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return p
}

func submit(t *testing.T, p components.Palette) (components.Palette, string) {
	t.Helper()
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected submit command")
	}
	msg, ok := cmd().(components.PaletteSubmitMsg)
	if !ok {
		t.Fatalf("expected PaletteSubmitMsg")
	}
	if p.Visible() {
		t.Fatalf("palette should close on submit")
	}
	return p, msg.Input
}

func TestPaletteCompletesUniqueCommand(t *testing.T) {
	t.Parallel()
	p := components.NewPalette()
	p.Open()
	p = typeText(p, "go")
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	p = typeText(p, "12")
	if _, input := submit(t, p); input != "goto 12" {
		t.Fatalf("expected completed command, got %q", input)
	}
}

func TestPaletteLeavesAmbiguousPrefix(t *testing.T) {
	t.Parallel()
	p := components.NewPalette()
	p.Open()
	p = typeText(p, "no")
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	if _, input := submit(t, p); input != "no" {
		t.Fatalf("ambiguous prefix must stay, got %q", input)
	}
}

func TestPaletteRecallsHistory(t *testing.T) {
	t.Parallel()
	p := components.NewPalette()
	p.Open()
	p, _ = submit(t, typeText(p, "theme sepia"))
	p.Open()
	p, _ = submit(t, typeText(p, "zoom 2"))

	p.Open()
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	if _, input := submit(t, p); input != "theme sepia" {
		t.Fatalf("expected oldest command, got %q", input)
	}
}

func TestPaletteCancel(t *testing.T) {
	t.Parallel()
	p := components.NewPalette()
	p.Open()
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if p.Visible() || cmd == nil {
		t.Fatalf("expected closed palette with cancel command")
	}
	if _, ok := cmd().(components.PaletteCancelMsg); !ok {
		t.Fatalf("expected PaletteCancelMsg")
	}
}
