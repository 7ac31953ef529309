package sim

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// SaveSlot is the single persistent slot the controller saves to and loads
// from. Implementations own the encoding and the store.
type SaveSlot interface {
	Save(ctx context.Context, s State) error
	Load(ctx context.Context) (State, error)
}

// Controller owns one State and is the only thing that mutates it.
// It is not safe for concurrent use: hosts must serialize calls, either
// through their own event loop or through a Runner.
type Controller struct {
	state   State
	catalog *Catalog
	slot    SaveSlot
	logger  *log.Logger
}

// NewController creates a controller over a fresh game. A nil catalog uses
// DefaultCatalog; a nil slot disables Save and Load; a nil logger discards.
func NewController(catalog *Catalog, slot SaveSlot, logger *log.Logger) *Controller {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Controller{
		state:   NewState(),
		catalog: catalog,
		slot:    slot,
		logger:  logger,
	}
}

// State returns a deep copy of the current state.
func (c *Controller) State() State {
	return c.state.Clone()
}

// Catalog returns the activity catalog.
func (c *Controller) Catalog() *Catalog {
	return c.catalog
}

// Available lists the activities that can start right now.
func (c *Controller) Available() []Activity {
	return c.catalog.Available(c.state)
}

// Tick runs one simulation step.
func (c *Controller) Tick() {
	c.Step(1)
}

// Step runs realTicks simulation steps at once: clock, then the action
// countdown, then passive decay once per real tick whether or not an action
// is running. Paused controllers do nothing.
func (c *Controller) Step(realTicks int) {
	if c.state.Paused || realTicks <= 0 {
		return
	}
	elapsed := TickMinutes(c.state.Speed, realTicks)
	dayBefore := c.state.Day

	Advance(&c.state, realTicks)
	if id, done := Countdown(&c.state, elapsed); done {
		c.logger.Debug("activity finished", "activity", id, "clock", FormatClock(c.state.ClockMinutes))
	}
	Decay(&c.state.Needs, realTicks)

	if c.state.Day != dayBefore {
		c.logger.Debug("new day", "day", c.state.Day)
	}
}

// StartActivity begins the activity with the given id. Rejections wrap
// ErrInvalidIntent and leave the state untouched.
func (c *Controller) StartActivity(id string) error {
	a, ok := c.catalog.Get(id)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownActivity, id)
	}
	if err := Start(&c.state, a); err != nil {
		return err
	}
	c.logger.Debug("activity started",
		"activity", a.ID,
		"room", a.Room,
		"minutes", a.Duration,
	)
	return nil
}

// ChangeRoom moves the idle character to room.
func (c *Controller) ChangeRoom(room Room) error {
	if !room.Valid() {
		return fmt.Errorf("%w %q", ErrUnknownRoom, room)
	}
	if c.state.Busy() {
		return ErrBusy
	}
	c.state.Room = room
	return nil
}

// SetPaused suspends or resumes ticking.
func (c *Controller) SetPaused(paused bool) {
	c.state.Paused = paused
}

// SetSpeed changes the in-game multiplier. It must lie in (0, MaxSpeed].
func (c *Controller) SetSpeed(multiplier float64) error {
	if !validSpeed(multiplier) {
		return fmt.Errorf("%w: %v", ErrInvalidSpeed, multiplier)
	}
	c.state.Speed = multiplier
	return nil
}

// Reset replaces the state with a brand new game.
func (c *Controller) Reset() {
	c.state = NewState()
	c.logger.Info("game reset")
}

// Restore replaces the state wholesale with s after validating it.
// On error the current state is kept.
func (c *Controller) Restore(s State) error {
	if err := s.Validate(c.catalog); err != nil {
		return err
	}
	c.state = s.Clone()
	return nil
}

// Save writes the current state to the save slot.
func (c *Controller) Save(ctx context.Context) error {
	if c.slot == nil {
		return ErrNoSaveSlot
	}
	if err := c.slot.Save(ctx, c.state.Clone()); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	c.logger.Info("game saved", "day", c.state.Day, "clock", FormatClock(c.state.ClockMinutes))
	return nil
}

// Load replaces the state with the one in the save slot. Any failure,
// including a corrupt save, keeps the current state.
func (c *Controller) Load(ctx context.Context) error {
	if c.slot == nil {
		return ErrNoSaveSlot
	}
	s, err := c.slot.Load(ctx)
	if err != nil {
		c.logger.Warn("load failed", "error", err)
		return fmt.Errorf("load: %w", err)
	}
	if err := c.Restore(s); err != nil {
		c.logger.Warn("load rejected", "error", err)
		return fmt.Errorf("load: %w", err)
	}
	c.logger.Info("game loaded", "day", s.Day, "clock", FormatClock(s.ClockMinutes))
	return nil
}
