package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	scheduledto "jarvis/internal/modules/schedule/dto"
	apperrors "jarvis/internal/platform/errors"
	"jarvis/internal/ui/theme"
)

const dateLayout = "2006-01-02"

// ─── port ────────────────────────────────────────────────────────────────────

type SchedulePort interface {
	Show(ctx context.Context, scheduleID, date string) (scheduledto.ScheduleOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type ScheduleLoadedMsg struct {
	Date     string
	Schedule scheduledto.ScheduleOutput
	Err      error
}

// ─── keys ────────────────────────────────────────────────────────────────────

var (
	prevDay = key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "prev day"))
	nextDay = key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "next day"))
	today   = key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today"))
)

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	ctx      context.Context
	port     SchedulePort
	now      func() time.Time
	date     time.Time
	schedule scheduledto.ScheduleOutput
	missing  bool
	err      error
	body     viewport.Model
	spinner  spinner.Model
	loading  bool
	width    int
	height   int
}

func New(ctx context.Context, port SchedulePort, now func() time.Time) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Foreground(theme.Text)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	d := now()
	return Model{
		ctx:     ctx,
		port:    port,
		now:     now,
		date:    time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location()),
		body:    vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Date returns the day being viewed as YYYY-MM-DD.
func (m Model) Date() string { return m.date.Format(dateLayout) }

// SetDate moves the view to another day and reloads it.
func (m *Model) SetDate(value string) (tea.Cmd, error) {
	d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(value), m.date.Location())
	if err != nil {
		return nil, fmt.Errorf("date must be YYYY-MM-DD: %w", apperrors.ErrInvalidInput)
	}
	m.date = d
	m.loading = true
	return tea.Batch(m.Reload(), m.spinner.Tick), nil
}

// Today jumps back to the current day.
func (m *Model) Today() tea.Cmd {
	cmd, _ := m.SetDate(m.now().Format(dateLayout))
	return cmd
}

// Reload fetches the active schedule for the viewed day.
func (m Model) Reload() tea.Cmd {
	date := m.Date()
	return func() tea.Msg {
		out, err := m.port.Show(m.ctx, "", date)
		return ScheduleLoadedMsg{Date: date, Schedule: out, Err: err}
	}
}

// Show displays a schedule produced elsewhere, such as a fresh suggestion.
func (m *Model) Show(out scheduledto.ScheduleOutput) {
	if d, err := time.ParseInLocation(dateLayout, out.Date, m.date.Location()); err == nil {
		m.date = d
	}
	m.loading = false
	m.schedule = out
	m.missing = false
	m.err = nil
	m.body.SetContent(m.renderBody())
	m.body.GotoTop()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.body.Width = msg.Width - 4
		m.body.Height = msg.Height - 6

	case ScheduleLoadedMsg:
		if msg.Date != m.Date() {
			return m, nil
		}
		m.loading = false
		m.err = nil
		m.missing = false
		m.schedule = scheduledto.ScheduleOutput{}
		switch {
		case errors.Is(msg.Err, apperrors.ErrNotFound):
			m.missing = true
		case msg.Err != nil:
			m.err = msg.Err
		default:
			m.schedule = msg.Schedule
		}
		m.body.SetContent(m.renderBody())
		m.body.GotoTop()

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, prevDay):
			cmd, _ := m.SetDate(m.date.AddDate(0, 0, -1).Format(dateLayout))
			return m, cmd
		case key.Matches(msg, nextDay):
			cmd, _ := m.SetDate(m.date.AddDate(0, 0, 1).Format(dateLayout))
			return m, cmd
		case key.Matches(msg, today):
			return m, m.Today()
		}
	}

	var vCmd tea.Cmd
	m.body, vCmd = m.body.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	header := theme.Title.Render(m.date.Format("Monday, January 2 2006"))
	if m.schedule.Source != "" {
		header += theme.Muted.Render("  (" + m.schedule.Source + ")")
	}
	hint := theme.Muted.Render("←/h prev  →/l next  t today  :schedule:suggest")

	var body string
	if m.loading {
		body = m.spinner.View() + " Loading schedule…"
	} else {
		body = m.body.View()
	}

	return theme.Pane.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, hint, "", body))
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) renderBody() string {
	if m.err != nil {
		return theme.Error.Render("error: " + m.err.Error())
	}
	if m.missing || len(m.schedule.Entries) == 0 {
		return theme.Muted.Render("No schedule for this day. Press : and type `schedule:suggest pending`.")
	}
	var sb strings.Builder
	for _, e := range m.schedule.Entries {
		sb.WriteString(theme.Hot.Render(e.Start+"–"+e.End) + "  " + e.Task)
		if e.Energy != "" {
			sb.WriteString("  " + theme.Energy(e.Energy).Render("["+e.Energy+"]"))
		}
		sb.WriteString("\n")
		if e.Reasoning != "" {
			sb.WriteString(theme.Muted.Render("             "+e.Reasoning) + "\n")
		}
	}
	if len(m.schedule.Tips) > 0 {
		sb.WriteString("\n" + theme.Title.Render("Tips") + "\n")
		for _, tip := range m.schedule.Tips {
			sb.WriteString("  • " + tip + "\n")
		}
	}
	return sb.String()
}
