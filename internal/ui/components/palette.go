package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"folio/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

// hints must stay in sync with the switch in app/model.go executePalette.
var paletteHints = []string{
	"goto <page>",
	"chapter <n>",
	"zoom <factor>",
	"theme <light|dark|sepia>",
	"layout <single|two-page>",
	"margins <px>",
	"spacing <factor>",
	"font <basic|mono|bold>",
	"bookmark",
	"bookmarks",
	"note <color> <text>",
	"note:delete <id>",
	"notes",
	"notes:export [path]",
	"narrate",
	"import <path> [tags...]",
	"tag <tags...>",
	"remove",
	"streak",
}

// Palette is a command-palette overlay backed by bubbles/textinput. Submitted
// commands are kept in a history recalled with up and down.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int

	history []string
	recall  int
}

const historyLimit = 50

func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "goto 12, theme sepia, note yellow …"
	ti.CharLimit = 256
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

// Open shows the palette with an empty input and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.recall = len(p.history)
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.visible = false
			p.input.Blur()
			p.remember(val)
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "tab":
			if verb, ok := complete(p.input.Value()); ok {
				p.input.SetValue(verb + " ")
				p.input.CursorEnd()
			}
			return p, nil
		case "up":
			if p.recall > 0 {
				p.recall--
				p.input.SetValue(p.history[p.recall])
				p.input.CursorEnd()
			}
			return p, nil
		case "down":
			if p.recall < len(p.history)-1 {
				p.recall++
				p.input.SetValue(p.history[p.recall])
			} else {
				p.recall = len(p.history)
				p.input.SetValue("")
			}
			p.input.CursorEnd()
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	matching := matchHints(p.input.Value(), 5)

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command Palette") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if len(matching) > 0 {
		sb.WriteString("\n")
		for _, h := range matching {
			sb.WriteString(hintStyle.Render("  "+h) + "\n")
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}

// remember appends a command to the history, skipping blanks and immediate
// repeats.
func (p *Palette) remember(val string) {
	if val == "" || (len(p.history) > 0 && p.history[len(p.history)-1] == val) {
		return
	}
	p.history = append(p.history, val)
	if len(p.history) > historyLimit {
		p.history = p.history[len(p.history)-historyLimit:]
	}
}

// matchHints returns up to limit hints whose command word starts with the
// first word typed. Once arguments follow, only the exact command matches.
func matchHints(input string, limit int) []string {
	fields := strings.Fields(strings.ToLower(input))
	var out []string
	for _, h := range paletteHints {
		verb := hintVerb(h)
		switch {
		case len(fields) == 0:
		case len(fields) == 1 && !strings.HasSuffix(input, " "):
			if !strings.HasPrefix(verb, fields[0]) {
				continue
			}
		default:
			if verb != fields[0] {
				continue
			}
		}
		out = append(out, h)
		if len(out) == limit {
			break
		}
	}
	return out
}

// complete expands a partial command word to the single command it names.
func complete(input string) (string, bool) {
	fields := strings.Fields(input)
	if len(fields) != 1 || strings.HasSuffix(input, " ") {
		return "", false
	}
	var found string
	for _, h := range paletteHints {
		verb := hintVerb(h)
		if verb == fields[0] {
			return verb, true
		}
		if strings.HasPrefix(verb, fields[0]) {
			if found != "" {
				return "", false
			}
			found = verb
		}
	}
	return found, found != ""
}

func hintVerb(hint string) string {
	verb, _, _ := strings.Cut(hint, " ")
	return verb
}
