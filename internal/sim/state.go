// Package sim is the Dream Story simulation engine: the in-game clock, the
// need model, the activity catalog, the action state machine and the
// controller that ties them into one serialized tick.
//
// Nothing here renders, plays audio or touches the terminal. Presenters read
// State snapshots and submit intents through the Controller.
package sim

import (
	"math"
)

// Room is one of the fixed places the character can be in.
type Room string

const (
	RoomBedroom  Room = "bedroom"
	RoomLiving   Room = "living"
	RoomKitchen  Room = "kitchen"
	RoomGym      Room = "gym"
	RoomBathroom Room = "bathroom"
)

// Rooms lists every room in display order.
var Rooms = []Room{RoomBedroom, RoomLiving, RoomKitchen, RoomGym, RoomBathroom}

// Valid reports whether r is one of the known rooms.
func (r Room) Valid() bool {
	switch r {
	case RoomBedroom, RoomLiving, RoomKitchen, RoomGym, RoomBathroom:
		return true
	}
	return false
}

// Title returns a human-readable room name.
func (r Room) Title() string {
	switch r {
	case RoomBedroom:
		return "Bedroom"
	case RoomLiving:
		return "Living Room"
	case RoomKitchen:
		return "Kitchen"
	case RoomGym:
		return "Gym"
	case RoomBathroom:
		return "Bathroom"
	default:
		return string(r)
	}
}

// ParseRoom converts a room identifier to a Room.
func ParseRoom(s string) (Room, bool) {
	r := Room(s)
	return r, r.Valid()
}

// ActiveAction is the activity currently occupying the character.
type ActiveAction struct {
	ActivityID       string
	MinutesRemaining float64
}

// State is the complete mutable simulation state.
type State struct {
	ClockMinutes int     // Minutes since midnight, [0, MinutesPerDay)
	ClockCarry   float64 // Sub-minute remainder from fractional speeds, [0, 1)
	Day          int     // 1-based day counter
	Needs        Needs
	Room         Room
	Active       *ActiveAction // nil when idle
	Speed        float64       // In-game multiplier applied to every real tick
	Paused       bool
}

// Default values for a fresh game.
const (
	DefaultClockMinutes = 420 // 07:00
	DefaultDay          = 1
	DefaultSpeed        = 1.0
	DefaultRoom         = RoomBedroom

	// MaxSpeed bounds the in-game multiplier.
	MaxSpeed = 1000.0
)

// NewState returns the state of a brand new game.
func NewState() State {
	needs := Needs{
		Energy:     80,
		Hunger:     30,
		Hygiene:    90,
		Happiness:  70,
		Sleepiness: 20,
	}
	needs.Health = DerivedHealth(needs)

	return State{
		ClockMinutes: DefaultClockMinutes,
		Day:          DefaultDay,
		Needs:        needs,
		Room:         DefaultRoom,
		Speed:        DefaultSpeed,
	}
}

// Busy reports whether an activity is in progress.
func (s State) Busy() bool {
	return s.Active != nil
}

// Clone returns a deep copy that shares nothing with s.
func (s State) Clone() State {
	c := s
	if s.Active != nil {
		a := *s.Active
		c.Active = &a
	}
	return c
}

// Validate checks every invariant of State. Activity references are checked
// against cat when it is non-nil. Violations wrap ErrCorruptSave, since a
// state that fails here can only come from outside the engine.
func (s State) Validate(cat *Catalog) error {
	if s.ClockMinutes < 0 || s.ClockMinutes >= MinutesPerDay {
		return corrupt("clock %d out of range", s.ClockMinutes)
	}
	if !finite(s.ClockCarry) || s.ClockCarry < 0 || s.ClockCarry >= 1 {
		return corrupt("clock carry %v out of range", s.ClockCarry)
	}
	if s.Day < 1 {
		return corrupt("day %d must be positive", s.Day)
	}
	if err := s.Needs.validate(); err != nil {
		return err
	}
	if !s.Room.Valid() {
		return corrupt("unknown room %q", s.Room)
	}
	if !validSpeed(s.Speed) {
		return corrupt("speed %v outside (0, %v]", s.Speed, MaxSpeed)
	}
	if s.Active != nil {
		if !finite(s.Active.MinutesRemaining) || s.Active.MinutesRemaining <= 0 {
			return corrupt("active action has %v minutes remaining", s.Active.MinutesRemaining)
		}
		if cat != nil {
			a, ok := cat.Get(s.Active.ActivityID)
			if !ok {
				return corrupt("unknown active activity %q", s.Active.ActivityID)
			}
			if s.Active.MinutesRemaining > float64(a.Duration) {
				return corrupt("active %q has %v minutes left, longer than its %d minute duration",
					a.ID, s.Active.MinutesRemaining, a.Duration)
			}
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validSpeed(v float64) bool {
	return finite(v) && v > 0 && v <= MaxSpeed
}
