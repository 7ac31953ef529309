// Package savegame turns simulation state into a self-describing save blob
// and back, and keeps that blob in the single save slot of a key-value store.
package savegame

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vovakirdan/dreamstory/internal/sim"
)

// Blob identification. Decode rejects anything else.
const (
	Format  = "dreamstory/save"
	Version = 1
)

// Save is a decoded blob: the state plus the moment it was written.
type Save struct {
	State   sim.State
	SavedAt time.Time
}

type envelope struct {
	Format       string          `json:"format"`
	Version      int             `json:"version"`
	LastSaveTime int64           `json:"lastSaveTime"` // Unix milliseconds
	State        json.RawMessage `json:"state"`
}

// Every field is a pointer so that a missing key can be told apart from a zero.
type wireState struct {
	ClockMinutes    *int            `json:"clockMinutes"`
	ClockCarry      *float64        `json:"clockCarry,omitempty"`
	Day             *int            `json:"day"`
	Needs           *wireNeeds      `json:"needs"`
	CurrentRoom     *string         `json:"currentRoom"`
	ActiveAction    json.RawMessage `json:"activeAction"` // null when idle
	SpeedMultiplier *float64        `json:"speedMultiplier"`
	Paused          *bool           `json:"paused"`
}

type wireNeeds struct {
	Energy     *float64 `json:"energy"`
	Hunger     *float64 `json:"hunger"`
	Hygiene    *float64 `json:"hygiene"`
	Happiness  *float64 `json:"happiness"`
	Sleepiness *float64 `json:"sleepiness"`
	Health     *float64 `json:"health"`
}

type wireAction struct {
	ActivityID       *string  `json:"activityId"`
	MinutesRemaining *float64 `json:"minutesRemaining"`
}

// Encode produces a blob for s stamped with savedAt. The state is validated
// against cat first so a blob that Encode writes always decodes.
func Encode(s sim.State, savedAt time.Time, cat *sim.Catalog) ([]byte, error) {
	if err := s.Validate(cat); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	n := s.Needs
	room := string(s.Room)
	ws := wireState{
		ClockMinutes: &s.ClockMinutes,
		Day:          &s.Day,
		Needs: &wireNeeds{
			Energy:     &n.Energy,
			Hunger:     &n.Hunger,
			Hygiene:    &n.Hygiene,
			Happiness:  &n.Happiness,
			Sleepiness: &n.Sleepiness,
			Health:     &n.Health,
		},
		CurrentRoom:     &room,
		ActiveAction:    json.RawMessage("null"),
		SpeedMultiplier: &s.Speed,
		Paused:          &s.Paused,
	}
	if s.ClockCarry != 0 {
		ws.ClockCarry = &s.ClockCarry
	}
	if s.Active != nil {
		a := *s.Active
		raw, err := json.Marshal(wireAction{ActivityID: &a.ActivityID, MinutesRemaining: &a.MinutesRemaining})
		if err != nil {
			return nil, fmt.Errorf("encode active action: %w", err)
		}
		ws.ActiveAction = raw
	}

	rawState, err := json.Marshal(ws)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return json.Marshal(envelope{
		Format:       Format,
		Version:      Version,
		LastSaveTime: savedAt.UnixMilli(),
		State:        rawState,
	})
}

// Decode validates blob and rebuilds the saved state. Every failure wraps
// sim.ErrCorruptSave; nothing partial is ever returned.
func Decode(blob []byte, cat *sim.Catalog) (Save, error) {
	var env envelope
	if err := strictUnmarshal(blob, &env); err != nil {
		return Save{}, corrupt("envelope: %v", err)
	}
	if env.Format != Format {
		return Save{}, corrupt("unexpected format %q", env.Format)
	}
	if env.Version != Version {
		return Save{}, corrupt("unsupported version %d", env.Version)
	}
	if len(env.State) == 0 || bytes.Equal(env.State, []byte("null")) {
		return Save{}, corrupt("missing state")
	}

	var ws wireState
	if err := strictUnmarshal(env.State, &ws); err != nil {
		return Save{}, corrupt("state: %v", err)
	}
	s, err := ws.toState()
	if err != nil {
		return Save{}, err
	}
	if err := s.Validate(cat); err != nil {
		return Save{}, err
	}

	return Save{State: s, SavedAt: time.UnixMilli(env.LastSaveTime)}, nil
}

func (ws wireState) toState() (sim.State, error) {
	switch {
	case ws.ClockMinutes == nil:
		return sim.State{}, corrupt("missing clockMinutes")
	case ws.Day == nil:
		return sim.State{}, corrupt("missing day")
	case ws.Needs == nil:
		return sim.State{}, corrupt("missing needs")
	case ws.CurrentRoom == nil:
		return sim.State{}, corrupt("missing currentRoom")
	case len(ws.ActiveAction) == 0:
		return sim.State{}, corrupt("missing activeAction")
	case ws.SpeedMultiplier == nil:
		return sim.State{}, corrupt("missing speedMultiplier")
	case ws.Paused == nil:
		return sim.State{}, corrupt("missing paused")
	}

	needs, err := ws.Needs.toNeeds()
	if err != nil {
		return sim.State{}, err
	}

	s := sim.State{
		ClockMinutes: *ws.ClockMinutes,
		Day:          *ws.Day,
		Needs:        needs,
		Room:         sim.Room(*ws.CurrentRoom),
		Speed:        *ws.SpeedMultiplier,
		Paused:       *ws.Paused,
	}
	if ws.ClockCarry != nil {
		s.ClockCarry = *ws.ClockCarry
	}

	if !bytes.Equal(ws.ActiveAction, []byte("null")) {
		var wa wireAction
		if err := strictUnmarshal(ws.ActiveAction, &wa); err != nil {
			return sim.State{}, corrupt("activeAction: %v", err)
		}
		if wa.ActivityID == nil || wa.MinutesRemaining == nil {
			return sim.State{}, corrupt("activeAction needs activityId and minutesRemaining")
		}
		s.Active = &sim.ActiveAction{
			ActivityID:       *wa.ActivityID,
			MinutesRemaining: *wa.MinutesRemaining,
		}
	}
	return s, nil
}

func (wn wireNeeds) toNeeds() (sim.Needs, error) {
	fields := []struct {
		name string
		v    *float64
	}{
		{"energy", wn.Energy},
		{"hunger", wn.Hunger},
		{"hygiene", wn.Hygiene},
		{"happiness", wn.Happiness},
		{"sleepiness", wn.Sleepiness},
		{"health", wn.Health},
	}
	for _, f := range fields {
		if f.v == nil {
			return sim.Needs{}, corrupt("missing needs.%s", f.name)
		}
	}
	return sim.Needs{
		Energy:     *wn.Energy,
		Hunger:     *wn.Hunger,
		Hygiene:    *wn.Hygiene,
		Happiness:  *wn.Happiness,
		Sleepiness: *wn.Sleepiness,
		Health:     *wn.Health,
	}, nil
}

// strictUnmarshal rejects unknown fields and trailing data.
func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("trailing data after value")
	}
	return nil
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", sim.ErrCorruptSave, fmt.Sprintf(format, args...))
}
