package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	completiondto "jarvis/internal/modules/completion/dto"
	"jarvis/internal/ui/theme"
)

const historyLimit = 50

type HistoryPort interface {
	History(ctx context.Context, limit int) ([]completiondto.InteractionOutput, error)
}

type HistoryLoadedMsg struct {
	Interactions []completiondto.InteractionOutput
	Err          error
}

type interactionItem struct {
	in completiondto.InteractionOutput
}

func (i interactionItem) Title() string {
	return fmt.Sprintf("%s  %s", i.in.CreatedAt.Local().Format("Jan 02 15:04"), i.in.Kind)
}

func (i interactionItem) Description() string {
	return fmt.Sprintf("%s/%s  %dms", i.in.Provider, i.in.Model, i.in.LatencyMS)
}

func (i interactionItem) FilterValue() string { return i.in.Kind + " " + i.in.Prompt }

type Model struct {
	ctx     context.Context
	port    HistoryPort
	list    list.Model
	preview viewport.Model
	width   int
	height  int
}

func New(ctx context.Context, port HistoryPort) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Model history"
	l.Styles.Title = theme.Title
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Background(theme.Mantle).Foreground(theme.Text).Padding(1)
	return Model{ctx: ctx, port: port, list: l, preview: vp}
}

func (m Model) Init() tea.Cmd { return m.Reload() }

// Reload fetches the most recent model interactions.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.History(m.ctx, historyLimit)
		return HistoryLoadedMsg{Interactions: out, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		listW := m.width * 4 / 10
		m.list.SetSize(listW, m.height)
		m.preview.Width = m.width - listW - 4
		m.preview.Height = m.height - 4

	case HistoryLoadedMsg:
		if msg.Err != nil {
			m.list.Title = "Model history: " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Interactions))
		for i, in := range msg.Interactions {
			items[i] = interactionItem{in: in}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.preview.SetContent(m.renderSelected())
	}

	prevIdx := m.list.Index()
	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)
	if m.list.Index() != prevIdx {
		m.preview.SetContent(m.renderSelected())
		m.preview.GotoTop()
	}
	var vCmd tea.Cmd
	m.preview, vCmd = m.preview.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	listW := m.width * 4 / 10
	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	detail := theme.Pane.Width(m.width - listW - 2).Height(m.height - 2).Padding(0).Render(m.preview.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detail)
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) renderSelected() string {
	item, ok := m.list.SelectedItem().(interactionItem)
	if !ok {
		return theme.Muted.Render("No model calls recorded yet.")
	}
	in := item.in
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(in.Kind) + theme.Muted.Render(fmt.Sprintf("  %d in / %d out tokens", in.InputTokens, in.OutputTokens)) + "\n\n")
	sb.WriteString(theme.Hot.Render("Prompt") + "\n" + in.Prompt + "\n\n")
	sb.WriteString(theme.Hot.Render("Response") + "\n" + in.Response + "\n")
	return sb.String()
}
