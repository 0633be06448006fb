package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tumble/internal/registry"
	"github.com/vovakirdan/tumble/internal/storage"
	"github.com/vovakirdan/tumble/internal/timing"
)

// Times board layout constants
const (
	minWidthForSidebar = 80 // Minimum width to show the pack sidebar
	sidebarWidth       = 20 // Width of the pack sidebar
	maxRuns            = 50 // Max runs to load
)

// TimesSource is the storage the times board reads from.
type TimesSource interface {
	BestLevelTimes(ctx context.Context, pack string) ([]storage.LevelTime, error)
	TopRuns(ctx context.Context, pack string, limit int) ([]storage.Run, error)
}

// TimesView selects what the board lists.
type TimesView int

const (
	ViewLevels TimesView = iota // best time per level
	ViewRuns                    // fastest full runs
)

// TimesKeyMap defines the key bindings for the times board.
type TimesKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextPack   key.Binding
	PrevPack   key.Binding
	ToggleView key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k TimesKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextPack, k.ToggleView, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k TimesKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPack, k.PrevPack},
		{k.ToggleView, k.Back, k.Quit},
	}
}

// DefaultTimesKeyMap returns default key bindings.
func DefaultTimesKeyMap() TimesKeyMap {
	return TimesKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextPack: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next pack"),
		),
		PrevPack: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev pack"),
		),
		ToggleView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "levels/runs"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// TimesModel is the Bubble Tea model for the best-times board.
type TimesModel struct {
	packs       []registry.PackInfo
	packCursor  int
	view        TimesView
	source      TimesSource
	rows        []table.Row
	loadErr     error
	table       table.Model
	help        help.Model
	keys        TimesKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewTimesModel creates a times board over source, which may be nil.
func NewTimesModel(source TimesSource, width, height int) TimesModel {
	h := help.New()
	h.ShowAll = false

	m := TimesModel{
		packs:       registry.List(),
		source:      source,
		keys:        DefaultTimesKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a table with columns for the current view.
func (m *TimesModel) createTable() table.Model {
	var columns []table.Column
	if m.view == ViewRuns {
		columns = []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Time", Width: 10},
			{Title: "Levels", Width: 8},
			{Title: "Date", Width: 14},
		}
	} else {
		columns = []table.Column{
			{Title: "Level", Width: 7},
			{Title: "Best", Width: 10},
			{Title: "Date", Width: 14},
		}
	}

	height := m.height - 8 // Leave room for header, help, and margins
	if height < 3 {
		height = 3
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// currentPack returns the selected pack id, or "" when none are registered.
func (m TimesModel) currentPack() string {
	if len(m.packs) == 0 {
		return ""
	}
	return m.packs[m.packCursor].ID
}

// load reads the current view of the selected pack into the table.
func (m *TimesModel) load() {
	m.rows = nil
	m.loadErr = nil
	pack := m.currentPack()
	if m.source == nil || pack == "" {
		m.table.SetRows(nil)
		return
	}

	ctx := context.Background()
	if m.view == ViewRuns {
		runs, err := m.source.TopRuns(ctx, pack, maxRuns)
		m.loadErr = err
		for i, r := range runs {
			m.rows = append(m.rows, table.Row{
				fmt.Sprintf("#%d", i+1),
				timing.FormatClock(r.Total),
				fmt.Sprintf("%d", r.Levels),
				r.CreatedAt.Format("Jan 02 15:04"),
			})
		}
	} else {
		times, err := m.source.BestLevelTimes(ctx, pack)
		m.loadErr = err
		for _, lt := range times {
			m.rows = append(m.rows, table.Row{
				fmt.Sprintf("%d", lt.Level),
				timing.FormatClock(lt.Elapsed),
				lt.CreatedAt.Format("Jan 02 15:04"),
			})
		}
	}

	m.table.SetRows(m.rows)
	m.table.GotoTop()
}

// Init initializes the times board.
func (m TimesModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the times board.
func (m TimesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextPack):
			if len(m.packs) > 0 {
				m.packCursor = (m.packCursor + 1) % len(m.packs)
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevPack):
			if len(m.packs) > 0 {
				m.packCursor = (m.packCursor + len(m.packs) - 1) % len(m.packs)
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.ToggleView):
			if m.view == ViewLevels {
				m.view = ViewRuns
			} else {
				m.view = ViewLevels
			}
			m.table = m.createTable()
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.table.SetRows(m.rows)
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the times board.
func (m TimesModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))

	heading := "BEST TIMES"
	if m.view == ViewRuns {
		heading = "FASTEST RUNS"
	}
	if len(m.packs) > 0 {
		heading = fmt.Sprintf("%s - %s", heading, m.packs[m.packCursor].Title)
	}

	var b strings.Builder
	b.WriteString(centerText(titleStyle.Render(heading), m.width, len(heading)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	tableRendered := tableStyle.Render(m.renderTableContent())

	if m.showSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", tableRendered))
	} else {
		b.WriteString(tableRendered)
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m TimesModel) renderSidebar() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Packs\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, p := range m.packs {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.packCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		name := p.Title
		if maxLen := sidebarWidth - 6; len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	return sidebarStyle.Render(sidebar.String())
}

// renderTableContent renders the table or an empty message.
func (m TimesModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.loadErr != nil:
		return emptyStyle.Render("Cannot read times:\n" + m.loadErr.Error())
	case len(m.rows) == 0:
		return emptyStyle.Render("No times recorded yet.\nFinish a level to set one!")
	}
	return m.table.View()
}

// Rows returns the rows currently listed.
func (m TimesModel) Rows() []table.Row {
	return m.rows
}

// IsGoingBack returns true if user wants to go back to menu.
func (m TimesModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m TimesModel) IsQuitting() bool {
	return m.quitting
}

// RunTimes runs the times board.
// Returns true if user wants to go back to menu, false if quitting.
func RunTimes(source TimesSource, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewTimesModel(source, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(TimesModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
