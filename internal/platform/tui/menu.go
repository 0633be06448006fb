package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tumble/internal/core"
	"github.com/vovakirdan/tumble/internal/registry"
)

// MenuItem represents a selectable level pack in the menu.
type MenuItem struct {
	PackID string
	Title  string
	Levels int
	Start  int // chosen starting level, 1-based
}

// MenuModel is the Bubble Tea model for the pack and level picker.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	width     int
	height    int
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	quitting  bool
	selected  *MenuItem // Set when the player picks a pack
	openTimes bool      // True if the player asked for the times board
}

// NewMenuModel creates a menu listing every registered pack.
func NewMenuModel(cfg core.RuntimeConfig) MenuModel {
	packs := registry.List()
	items := make([]MenuItem, 0, len(packs))
	for _, info := range packs {
		p, err := registry.Create(info.ID)
		if err != nil || p.Len() == 0 {
			continue
		}
		items = append(items, MenuItem{
			PackID: info.ID,
			Title:  info.Title,
			Levels: p.Len(),
			Start:  1,
		})
	}

	return MenuModel{
		items:     items,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionLeft:
		m.shiftStart(-1)

	case MenuActionRight:
		m.shiftStart(1)

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionTimes:
		m.openTimes = true
		return m, tea.Quit
	}

	return m, nil
}

// shiftStart moves the selected pack's starting level within its range.
func (m *MenuModel) shiftStart(delta int) {
	if len(m.items) == 0 {
		return
	}
	item := &m.items[m.cursor]
	item.Start = core.Clamp(item.Start+delta, 1, item.Levels)
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  T U M B L E  "), m.width, 15))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a level pack", m.width, 0))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-16s  level %d/%d", cursor, item.Title, item.Start, item.Levels)
		b.WriteString(centerText(line, m.width, 0))
		b.WriteString("\n")
	}
	if len(m.items) == 0 {
		b.WriteString(centerText("No level packs registered.", m.width, 0))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Pack  |  Left/Right: Start level  |  Enter: Play  |  Tab: Times  |  Q: Quit"
	b.WriteString(dimStyle.Render(centerText(controls, m.width, 0)))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsTimes returns true if the player asked for the times board.
func (m MenuModel) WantsTimes() bool {
	return m.openTimes
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within width. visible overrides the text's width
// when it carries escape codes; 0 means measure the text.
func centerText(text string, width, visible int) string {
	if visible == 0 {
		visible = lipgloss.Width(text)
	}
	if visible >= width {
		return text
	}
	padding := (width - visible) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	PackID     string
	Level      int
	Config     core.RuntimeConfig
	WantsTimes bool
	Quit       bool
}

// Result converts the final menu state to a MenuResult.
func (m MenuModel) Result() MenuResult {
	result := MenuResult{Config: m.Config()}
	switch {
	case m.WantsTimes():
		result.WantsTimes = true
	case m.IsQuitting() || m.Selected() == nil:
		result.Quit = true
	default:
		result.PackID = m.Selected().PackID
		result.Level = m.Selected().Start
	}
	return result
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(cfg),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}
	return m.Result(), nil
}
