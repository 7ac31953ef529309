package savegame

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/dreamstory/internal/sim"
)

var savedAt = time.UnixMilli(1_700_000_123_456)

// midAction returns a state a few ticks into eating, with fractional needs.
func midAction(t *testing.T) sim.State {
	t.Helper()
	c := sim.NewController(nil, nil, nil)
	if err := c.SetSpeed(0.5); err != nil {
		t.Fatalf("SetSpeed failed: %v", err)
	}
	c.Step(3)
	if err := c.StartActivity("eat"); err != nil {
		t.Fatalf("StartActivity failed: %v", err)
	}
	c.Tick()
	return c.State()
}

func encodeMap(t *testing.T, s sim.State) map[string]any {
	t.Helper()
	blob, err := Encode(s, savedAt, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(blob, &m); err != nil {
		t.Fatalf("Encoded blob is not JSON: %v", err)
	}
	return m
}

func TestRoundTrip(t *testing.T) {
	states := map[string]sim.State{
		"fresh":      sim.NewState(),
		"mid-action": midAction(t),
	}
	paused := sim.NewState()
	paused.Paused = true
	paused.Day = 12
	paused.ClockMinutes = 1439
	states["paused"] = paused

	for name, s := range states {
		t.Run(name, func(t *testing.T) {
			blob, err := Encode(s, savedAt, sim.DefaultCatalog())
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			got, err := Decode(blob, sim.DefaultCatalog())
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !reflect.DeepEqual(got.State, s) {
				t.Errorf("Round trip changed state:\n got  %+v\n want %+v", got.State, s)
			}
			if !got.SavedAt.Equal(savedAt) {
				t.Errorf("Expected saved time %v, got %v", savedAt, got.SavedAt)
			}
		})
	}
}

// randomState draws a valid state from the whole state space.
func randomState(rng *rand.Rand, cat *sim.Catalog) sim.State {
	s := sim.State{
		ClockMinutes: rng.IntN(sim.MinutesPerDay),
		Day:          1 + rng.IntN(100_000),
		Needs: sim.Needs{
			Energy:     rng.Float64() * sim.NeedMax,
			Hunger:     rng.Float64() * sim.NeedMax,
			Hygiene:    rng.Float64() * sim.NeedMax,
			Happiness:  rng.Float64() * sim.NeedMax,
			Sleepiness: rng.Float64() * sim.NeedMax,
			Health:     rng.Float64() * sim.NeedMax,
		},
		Room:   sim.Rooms[rng.IntN(len(sim.Rooms))],
		Speed:  sim.MaxSpeed * (1 - rng.Float64()),
		Paused: rng.IntN(2) == 0,
	}
	if rng.IntN(2) == 0 {
		s.ClockCarry = rng.Float64()
	}
	if rng.IntN(2) == 0 {
		all := cat.All()
		a := all[rng.IntN(len(all))]
		s.Active = &sim.ActiveAction{
			ActivityID:       a.ID,
			MinutesRemaining: float64(a.Duration) * (1 - rng.Float64()),
		}
	}
	return s
}

func TestRoundTripRandomStates(t *testing.T) {
	cat := sim.DefaultCatalog()
	rng := rand.New(rand.NewPCG(3, 5))
	for i := 0; i < 2000; i++ {
		s := randomState(rng, cat)
		blob, err := Encode(s, savedAt, cat)
		if err != nil {
			t.Fatalf("Encode failed for %+v: %v", s, err)
		}
		got, err := Decode(blob, cat)
		if err != nil {
			t.Fatalf("Decode failed for %s: %v", blob, err)
		}
		if !reflect.DeepEqual(got.State, s) {
			t.Fatalf("Round trip changed state:\n got  %+v\n want %+v", got.State, s)
		}
	}
}

func TestEncodeShape(t *testing.T) {
	m := encodeMap(t, sim.NewState())

	if m["format"] != Format || m["version"] != float64(Version) {
		t.Errorf("Unexpected envelope header: %v %v", m["format"], m["version"])
	}
	if m["lastSaveTime"] != float64(savedAt.UnixMilli()) {
		t.Errorf("Expected lastSaveTime %d, got %v", savedAt.UnixMilli(), m["lastSaveTime"])
	}
	state := m["state"].(map[string]any)
	if v, ok := state["activeAction"]; !ok || v != nil {
		t.Errorf("Expected explicit null activeAction, got %v (present %v)", v, ok)
	}
	if _, ok := state["clockCarry"]; ok {
		t.Error("Zero clockCarry should be omitted")
	}
	if state["currentRoom"] != "bedroom" {
		t.Errorf("Expected bedroom, got %v", state["currentRoom"])
	}
}

func TestEncodeRejectsInvalidState(t *testing.T) {
	s := sim.NewState()
	s.Needs.Energy = 150

	if _, err := Encode(s, savedAt, nil); !errors.Is(err, sim.ErrCorruptSave) {
		t.Errorf("Expected invalid state to be refused, got %v", err)
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"empty", ""},
		{"not json", "{{{not json"},
		{"array", `[1,2,3]`},
		{"trailing data", `{"format":"dreamstory/save","version":1,"lastSaveTime":0,"state":null} {}`},
		{"wrong format", `{"format":"other","version":1,"lastSaveTime":0,"state":{}}`},
		{"wrong version", `{"format":"dreamstory/save","version":2,"lastSaveTime":0,"state":{}}`},
		{"null state", `{"format":"dreamstory/save","version":1,"lastSaveTime":0,"state":null}`},
		{"no state", `{"format":"dreamstory/save","version":1,"lastSaveTime":0}`},
		{"unknown envelope field", `{"format":"dreamstory/save","version":1,"lastSaveTime":0,"state":{},"extra":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.blob), nil)
			if !errors.Is(err, sim.ErrCorruptSave) {
				t.Errorf("Expected ErrCorruptSave, got %v", err)
			}
		})
	}
}

func TestDecodeMissingFields(t *testing.T) {
	fields := []string{
		"clockMinutes", "day", "needs", "currentRoom",
		"activeAction", "speedMultiplier", "paused",
	}
	for _, field := range fields {
		t.Run(field, func(t *testing.T) {
			m := encodeMap(t, midAction(t))
			delete(m["state"].(map[string]any), field)
			blob, _ := json.Marshal(m)

			_, err := Decode(blob, nil)
			if !errors.Is(err, sim.ErrCorruptSave) {
				t.Fatalf("Expected ErrCorruptSave, got %v", err)
			}
			if !strings.Contains(err.Error(), field) {
				t.Errorf("Expected error to name %s, got %v", field, err)
			}
		})
	}

	for _, need := range []string{"energy", "hunger", "hygiene", "happiness", "sleepiness", "health"} {
		t.Run("needs."+need, func(t *testing.T) {
			m := encodeMap(t, sim.NewState())
			delete(m["state"].(map[string]any)["needs"].(map[string]any), need)
			blob, _ := json.Marshal(m)

			if _, err := Decode(blob, nil); !errors.Is(err, sim.ErrCorruptSave) {
				t.Errorf("Expected ErrCorruptSave, got %v", err)
			}
		})
	}
}

func TestDecodeOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(state map[string]any)
	}{
		{"clock too large", func(s map[string]any) { s["clockMinutes"] = 1440 }},
		{"negative clock", func(s map[string]any) { s["clockMinutes"] = -1 }},
		{"day zero", func(s map[string]any) { s["day"] = 0 }},
		{"need above max", func(s map[string]any) { s["needs"].(map[string]any)["hunger"] = 100.5 }},
		{"need below min", func(s map[string]any) { s["needs"].(map[string]any)["energy"] = -1 }},
		{"unknown room", func(s map[string]any) { s["currentRoom"] = "attic" }},
		{"zero speed", func(s map[string]any) { s["speedMultiplier"] = 0 }},
		{"carry of one", func(s map[string]any) { s["clockCarry"] = 1.0 }},
		{"unknown activity", func(s map[string]any) {
			s["activeAction"] = map[string]any{"activityId": "juggle", "minutesRemaining": 10}
		}},
		{"remaining exceeds duration", func(s map[string]any) {
			s["activeAction"] = map[string]any{"activityId": "eat", "minutesRemaining": 31}
		}},
		{"zero remaining", func(s map[string]any) {
			s["activeAction"] = map[string]any{"activityId": "eat", "minutesRemaining": 0}
		}},
		{"action missing id", func(s map[string]any) {
			s["activeAction"] = map[string]any{"minutesRemaining": 10}
		}},
		{"action extra field", func(s map[string]any) {
			s["activeAction"] = map[string]any{"activityId": "eat", "minutesRemaining": 10, "x": 1}
		}},
		{"wrong type", func(s map[string]any) { s["paused"] = "yes" }},
		{"unknown state field", func(s map[string]any) { s["mood"] = "great" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := encodeMap(t, sim.NewState())
			tt.mutate(m["state"].(map[string]any))
			blob, _ := json.Marshal(m)

			if _, err := Decode(blob, sim.DefaultCatalog()); !errors.Is(err, sim.ErrCorruptSave) {
				t.Errorf("Expected ErrCorruptSave, got %v", err)
			}
		})
	}
}

func TestDecodeAcceptsMissingCarry(t *testing.T) {
	blob := `{"format":"dreamstory/save","version":1,"lastSaveTime":5,"state":{
		"clockMinutes":600,"day":3,
		"needs":{"energy":50,"hunger":20,"hygiene":60,"happiness":70,"sleepiness":10,"health":70},
		"currentRoom":"kitchen",
		"activeAction":{"activityId":"eat","minutesRemaining":15},
		"speedMultiplier":2,"paused":false}}`

	got, err := Decode([]byte(blob), sim.DefaultCatalog())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.State.ClockCarry != 0 || got.State.Day != 3 || got.State.Room != sim.RoomKitchen {
		t.Errorf("Unexpected state %+v", got.State)
	}
	if got.State.Active == nil || got.State.Active.MinutesRemaining != 15 {
		t.Errorf("Expected active eat with 15 minutes, got %+v", got.State.Active)
	}
	if got.SavedAt.UnixMilli() != 5 {
		t.Errorf("Expected saved time 5ms, got %v", got.SavedAt)
	}
}
