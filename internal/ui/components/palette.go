package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"jarvis/internal/ui/theme"
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
	"task:add <description>",
	"task:analyze <description>",
	"task:reanalyze",
	"task:complete <minutes>",
	"task:delete",
	"schedule:suggest [pending] [offline] [task; task…]",
	"schedule:date <YYYY-MM-DD>",
	"schedule:today",
	"model:ping",
}

const maxHistory = 20

// Palette is a command-palette overlay backed by bubbles/textinput. Tab
// completes the command word from the hints; up and down walk the commands
// submitted earlier in the session.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int
	history []string
	cursor  int
}

// NewPalette creates an inactive Palette ready to be opened.
func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "task:analyze Write the Q3 report"
	ti.CharLimit = 256
	return Palette{input: ti}
}

// Visible reports whether the palette is currently shown.
func (p Palette) Visible() bool { return p.visible }

// Open shows the palette, clears the input, and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.cursor = len(p.history)
	p.input.SetValue("")
	return p.input.Focus()
}

// SetWidth sets the render width for the overlay.
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
			if c, ok := complete(p.input.Value()); ok {
				p.input.SetValue(c)
				p.input.CursorEnd()
			}
			return p, nil
		case "up":
			if p.cursor > 0 {
				p.cursor--
				p.input.SetValue(p.history[p.cursor])
				p.input.CursorEnd()
			}
			return p, nil
		case "down":
			if p.cursor < len(p.history) {
				p.cursor++
				value := ""
				if p.cursor < len(p.history) {
					value = p.history[p.cursor]
				}
				p.input.SetValue(value)
				p.input.CursorEnd()
			}
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *Palette) remember(val string) {
	if val == "" || (len(p.history) > 0 && p.history[len(p.history)-1] == val) {
		return
	}
	p.history = append(p.history, val)
	if len(p.history) > maxHistory {
		p.history = p.history[len(p.history)-maxHistory:]
	}
}

// complete expands a partial command word when exactly one hint starts
// with it.
func complete(value string) (string, bool) {
	prefix := strings.ToLower(strings.TrimSpace(value))
	if prefix == "" || strings.Contains(prefix, " ") {
		return "", false
	}
	found := ""
	for _, h := range matchingHints(prefix) {
		word, _, _ := strings.Cut(h, " ")
		if found != "" && found != word {
			return "", false
		}
		found = word
	}
	if found == "" {
		return "", false
	}
	return found + " ", true
}

func matchingHints(prefix string) []string {
	var out []string
	for _, h := range paletteHints {
		if prefix == "" || strings.HasPrefix(h, prefix) {
			out = append(out, h)
		}
	}
	return out
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	word, _, _ := strings.Cut(strings.ToLower(strings.TrimLeft(p.input.Value(), " ")), " ")
	matching := matchingHints(word)
	if len(matching) > 5 {
		matching = matching[:5]
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("jarvis") + theme.Muted.Render("  tab complete  ↑/↓ history") + "\n")
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
