package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tumble/internal/core"
	"github.com/vovakirdan/tumble/internal/game"
	"github.com/vovakirdan/tumble/internal/level"
)

// reloadMsg carries a freshly loaded directory pack.
type reloadMsg struct {
	pack *level.Pack
	err  error
}

// Model is the Bubble Tea model for playing a level pack.
type Model struct {
	session    *game.Session
	screen     *core.Screen
	renderer   *Renderer
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	watcher    *level.Watcher
	packDir    string
	logger     *log.Logger
	quitting   bool
	backToMenu bool
}

// ModelOptions holds optional collaborators of a Model.
type ModelOptions struct {
	Watcher *level.Watcher // reloads the pack from PackDir on change
	PackDir string
	Logger  *log.Logger
}

// NewModel creates a new Bubble Tea model driving the given session.
func NewModel(session *game.Session, cfg core.RuntimeConfig, opts ModelOptions) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return Model{
		session:    session,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		renderer:   NewRenderer(session.Palette()),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		gameState:  session.State(),
		keyMapper:  NewKeyMapper(),
		watcher:    opts.Watcher,
		packDir:    opts.PackDir,
		logger:     logger,
	}
}

// Init starts the tick loop and, when watching, the reload listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.config.TickRate), m.waitForReload())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()

	case reloadMsg:
		if msg.err != nil {
			m.logger.Warn("pack reload failed", "dir", m.packDir, "err", msg.err)
		} else {
			m.session.ReloadPack(msg.pack)
		}
		return m, m.waitForReload()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	// Back to the menu only from the pause or finish screens.
	if m.inputFrame.Has(core.ActionBack) && (m.gameState.Paused || m.gameState.Finished) {
		m.backToMenu = true
		return m, nil
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu {
		return m, nil
	}

	result := m.session.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	if result.Quit {
		m.quitting = true
		return m, tea.Quit
	}
	return m, tickCmd(m.config.TickRate)
}

// waitForReload blocks on the watcher and reloads the pack directory.
func (m Model) waitForReload() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	w, dir := m.watcher, m.packDir
	return func() tea.Msg {
		select {
		case _, ok := <-w.Events:
			if !ok {
				return nil
			}
			p, err := level.LoadDir(dir)
			return reloadMsg{pack: p, err: err}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return reloadMsg{err: err}
		}
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.session.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".tumble", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot create screenshot directory", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("level%02d_%s.txt", m.gameState.Level, timestamp)
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.session.Render(m.screen)
	m.renderer.SetPalette(m.session.Palette())
	return m.renderer.Render(m.screen)
}

// IsQuitting returns true if the player asked to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the player asked to return to the menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a session in the terminal until the player quits or goes back.
// It reports whether the player asked to go back to the menu.
func Run(session *game.Session, cfg core.RuntimeConfig, opts ModelOptions) (backToMenu bool, err error) {
	model := NewModel(session, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(Model)
	if !ok {
		return false, nil
	}
	return m.BackToMenu(), nil
}
