package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/dreamstory/internal/savegame"
	"github.com/vovakirdan/dreamstory/internal/sim"
)

// slotTimeout bounds a single save, load or clear issued from the UI.
const slotTimeout = 5 * time.Second

// Options configures a game session.
type Options struct {
	// Gateway is the save slot. Nil disables saving, loading and autosave.
	Gateway *savegame.Gateway

	// TickInterval is the real time between simulation ticks.
	TickInterval time.Duration

	// Autosave writes the game this often, and once more on quit. Zero disables it.
	Autosave time.Duration

	// Welcome shows the intro screen first. Time stands still until it is dismissed.
	Welcome bool

	Logger *log.Logger
}

type savedMsg struct {
	auto bool
	at   time.Time
	err  error
}

type loadedMsg struct {
	save savegame.Save
	err  error
}

type clearedMsg struct {
	err error
}

// Model is the Bubble Tea model for a Dream Story session. The controller is
// only ever touched from Update; slot I/O runs in commands on state snapshots.
type Model struct {
	ctrl   *sim.Controller
	opts   Options
	logger *log.Logger

	keys   KeyMap
	help   help.Model
	table  table.Model
	rowIDs []string

	width   int
	height  int
	welcome bool

	status    string
	statusErr bool
	saving    bool
	clearing  bool
	lastSave  time.Time
	quitting  bool

	// clearAfterSave defers a reset's clear until the in-flight save lands.
	clearAfterSave bool
}

// NewModel creates a model driving ctrl.
func NewModel(ctrl *sim.Controller, opts Options) Model {
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := Model{
		ctrl:     ctrl,
		opts:     opts,
		logger:   logger,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		table:    newActivityTable(3),
		welcome:  opts.Welcome,
		lastSave: time.Now(),
	}
	m.refreshRows()
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.TickInterval)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))

	case savedMsg:
		m.saving = false
		if m.clearAfterSave {
			// The save held the game from before the reset.
			m.clearAfterSave = false
			m.clearing = true
			return m, m.clearCmd()
		}
		if msg.err != nil {
			m.logger.Warn("save failed", "error", msg.err)
			m.setError("Save failed: %v", msg.err)
			return m, nil
		}
		m.lastSave = msg.at
		if !msg.auto {
			m.setStatus("Saved at %s", msg.at.Format("15:04:05"))
		}
		return m, nil

	case loadedMsg:
		return m.handleLoaded(msg)

	case clearedMsg:
		m.clearing = false
		if msg.err != nil {
			m.logger.Warn("clear save failed", "error", msg.err)
			m.setError("Could not clear the save: %v", msg.err)
		}
		return m, nil
	}

	return m, nil
}

// handleTick advances the simulation one step and schedules the next.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.opts.TickInterval)}
	if m.welcome {
		return m, cmds[0]
	}

	m.ctrl.Tick()
	m.refreshRows()

	if m.autosaveDue(now) {
		m.saving = true
		cmds = append(cmds, m.saveCmd(true))
	}
	return m, tea.Batch(cmds...)
}

// slotBusy reports whether a write to the slot is still in flight.
func (m Model) slotBusy() bool {
	return m.saving || m.clearing || m.clearAfterSave
}

func (m Model) autosaveDue(now time.Time) bool {
	return m.opts.Gateway != nil &&
		m.opts.Autosave > 0 &&
		!m.slotBusy() &&
		now.Sub(m.lastSave) >= m.opts.Autosave
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		if m.opts.Gateway != nil && m.opts.Autosave > 0 {
			return m, tea.Sequence(m.saveCmd(true), tea.Quit)
		}
		return m, tea.Quit
	}

	// Any other key dismisses the welcome screen
	if m.welcome {
		m.welcome = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.Start):
		m.startSelected()

	case key.Matches(msg, m.keys.Room):
		room, ok := roomForKey(msg)
		if !ok {
			break
		}
		if err := m.ctrl.ChangeRoom(room); err != nil {
			m.setError("%s", describeIntentError(err))
			break
		}
		m.table.SetCursor(0)
		m.clearStatus()

	case key.Matches(msg, m.keys.Pause):
		m.ctrl.SetPaused(!m.ctrl.State().Paused)

	case key.Matches(msg, m.keys.Faster), key.Matches(msg, m.keys.Slower):
		dir := 1
		if key.Matches(msg, m.keys.Slower) {
			dir = -1
		}
		speed := nextSpeed(m.ctrl.State().Speed, dir)
		if err := m.ctrl.SetSpeed(speed); err != nil {
			m.setError("%s", describeIntentError(err))
			break
		}
		m.setStatus("Speed %gx", speed)

	case key.Matches(msg, m.keys.Save):
		if m.opts.Gateway == nil {
			m.setError("Saving is disabled for this session")
			break
		}
		if m.slotBusy() {
			break
		}
		m.saving = true
		return m, m.saveCmd(false)

	case key.Matches(msg, m.keys.Load):
		if m.opts.Gateway == nil {
			m.setError("Saving is disabled for this session")
			break
		}
		return m, m.loadCmd()

	case key.Matches(msg, m.keys.Reset):
		m.ctrl.Reset()
		m.table.SetCursor(0)
		m.setStatus("Started a new game")
		if m.opts.Gateway == nil {
			break
		}
		switch {
		case m.saving:
			m.clearAfterSave = true
		case !m.clearing:
			m.clearing = true
			m.refreshRows()
			return m, m.clearCmd()
		}
	}

	m.refreshRows()
	return m, nil
}

// startSelected starts the activity under the table cursor.
func (m *Model) startSelected() {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rowIDs) {
		return
	}
	id := m.rowIDs[i]
	if err := m.ctrl.StartActivity(id); err != nil {
		m.setError("%s", describeIntentError(err))
		return
	}
	a, _ := m.ctrl.Catalog().Get(id)
	m.setStatus("%s: %s", a.Name, a.Effect)
}

func (m Model) handleLoaded(msg loadedMsg) (tea.Model, tea.Cmd) {
	switch {
	case errors.Is(msg.err, savegame.ErrNoSave):
		m.setError("There is no saved game yet")
	case errors.Is(msg.err, sim.ErrCorruptSave):
		m.logger.Warn("load rejected", "error", msg.err)
		m.setError("The saved game is damaged, keeping the current one")
	case msg.err != nil:
		m.logger.Warn("load failed", "error", msg.err)
		m.setError("Load failed: %v", msg.err)
	default:
		if err := m.ctrl.Restore(msg.save.State); err != nil {
			m.setError("Load failed: %v", err)
			break
		}
		m.logger.Info("game loaded", "day", msg.save.State.Day, "saved", msg.save.SavedAt)
		m.table.SetCursor(0)
		m.setStatus("Loaded the game saved %s", msg.save.SavedAt.Format("Jan 02 15:04"))
	}
	m.refreshRows()
	return m, nil
}

// saveCmd writes a snapshot taken now; the command never sees the controller.
func (m Model) saveCmd(auto bool) tea.Cmd {
	gw := m.opts.Gateway
	state := m.ctrl.State()
	logger := m.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), slotTimeout)
		defer cancel()
		err := gw.Save(ctx, state)
		if err == nil {
			logger.Info("game saved", "auto", auto, "day", state.Day, "clock", sim.FormatClock(state.ClockMinutes))
		}
		return savedMsg{auto: auto, at: time.Now(), err: err}
	}
}

func (m Model) loadCmd() tea.Cmd {
	gw := m.opts.Gateway
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), slotTimeout)
		defer cancel()
		save, err := gw.Read(ctx)
		return loadedMsg{save: save, err: err}
	}
}

func (m Model) clearCmd() tea.Cmd {
	gw := m.opts.Gateway
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), slotTimeout)
		defer cancel()
		return clearedMsg{err: gw.Clear(ctx)}
	}
}

func (m *Model) refreshRows() {
	rows, ids := activityRows(m.ctrl.State(), m.ctrl.Catalog())
	m.table.SetRows(rows)
	m.rowIDs = ids
}

func (m *Model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *Model) setError(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = true
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusErr = false
}

// describeIntentError turns a rejected intent into a player-facing line.
func describeIntentError(err error) string {
	switch {
	case errors.Is(err, sim.ErrBusy):
		return "Finish what you're doing first"
	case errors.Is(err, sim.ErrIneligible):
		return "You don't feel like doing that right now"
	case errors.Is(err, sim.ErrInvalidSpeed):
		return "That speed is out of range"
	default:
		return err.Error()
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.welcome {
		return renderWelcome(m.width)
	}

	s := m.ctrl.State()

	needs := renderNeeds(s.Needs)
	activity := renderActivity(s, m.ctrl.Catalog())
	var panels string
	if m.width == 0 || m.width >= 2*(panelWidth+4) {
		panels = lipgloss.JoinHorizontal(lipgloss.Top, needs, " ", activity)
	} else {
		panels = lipgloss.JoinVertical(lipgloss.Left, needs, activity)
	}

	status := dimStyle.Render(m.status)
	if m.statusErr {
		status = errorStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		renderHeader(s),
		"",
		renderRooms(s.Room),
		panels,
		panelStyle.Render(m.table.View()),
		status,
		dimStyle.Render(m.help.View(m.keys)),
	)
}

// Run starts the Bubble Tea program with the given controller.
func Run(ctrl *sim.Controller, opts Options) error {
	p := tea.NewProgram(
		NewModel(ctrl, opts),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
