package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/dreamstory/internal/sim"
)

func TestStatColor(t *testing.T) {
	tests := []struct {
		value   float64
		inverse bool
		want    string
	}{
		{85, false, string(colorGood)},
		{70, false, string(colorGood)},
		{55, false, string(colorWarn)},
		{39, false, string(colorBad)},
		{10, true, string(colorGood)},
		{50, true, string(colorWarn)},
		{90, true, string(colorBad)},
	}
	for _, tt := range tests {
		if got := string(statColor(tt.value, tt.inverse)); got != tt.want {
			t.Errorf("statColor(%v, %v) = %s, expected %s", tt.value, tt.inverse, got, tt.want)
		}
	}
}

func TestBar(t *testing.T) {
	if got := bar(50, 10); got != "█████░░░░░" {
		t.Errorf("Unexpected half bar %q", got)
	}
	if got := bar(150, 4); got != "████" {
		t.Errorf("Expected overfull value to clamp, got %q", got)
	}
	if got := bar(-5, 4); got != "░░░░" {
		t.Errorf("Expected negative value to clamp, got %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[int]string{5: "5m", 60: "1h", 90: "1h 30m", 480: "8h"}
	for in, want := range cases {
		if got := formatDuration(in); got != want {
			t.Errorf("formatDuration(%d) = %q, expected %q", in, got, want)
		}
	}
}

func TestActivityRowsStatus(t *testing.T) {
	cat := sim.DefaultCatalog()
	s := sim.NewState()
	s.Room = sim.RoomKitchen
	s.Needs.Hunger = 10 // too full to eat

	rows, ids := activityRows(s, cat)
	if len(rows) != 2 || ids[0] != "eat" || ids[1] != "drinkWater" {
		t.Fatalf("Unexpected kitchen rows %v", ids)
	}
	if rows[0][3] != "locked" || rows[1][3] != "ready" {
		t.Errorf("Expected eat locked and water ready, got %q %q", rows[0][3], rows[1][3])
	}

	s.Active = &sim.ActiveAction{ActivityID: "drinkWater", MinutesRemaining: 3}
	rows, _ = activityRows(s, cat)
	if rows[0][3] != "busy" || rows[1][3] != "doing" {
		t.Errorf("Expected busy and doing, got %q %q", rows[0][3], rows[1][3])
	}
}

func TestRoomForKey(t *testing.T) {
	for i, r := range sim.Rooms {
		got, ok := roomForKey(runes(string(rune('1' + i))))
		if !ok || got != r {
			t.Errorf("Key %d: expected %s, got %s", i+1, r, got)
		}
	}
	if _, ok := roomForKey(runes("9")); ok {
		t.Error("Key 9 should not map to a room")
	}
	if _, ok := roomForKey(tea.KeyMsg{Type: tea.KeyEnter}); ok {
		t.Error("Enter should not map to a room")
	}
}

func TestNextSpeed(t *testing.T) {
	if got := nextSpeed(1, 1); got != 2 {
		t.Errorf("Expected 2, got %v", got)
	}
	if got := nextSpeed(3, 1); got != 4 {
		t.Errorf("Expected off-step speed to snap up to 4, got %v", got)
	}
	if got := nextSpeed(16, 1); got != 16 {
		t.Errorf("Expected top speed to stay, got %v", got)
	}
	if got := nextSpeed(0.25, -1); got != 0.25 {
		t.Errorf("Expected bottom speed to stay, got %v", got)
	}
	if got := nextSpeed(100, -1); got != 16 {
		t.Errorf("Expected 100x to step down to 16, got %v", got)
	}
}

func TestRenderHeader(t *testing.T) {
	s := sim.NewState()
	s.Paused = true
	got := renderHeader(s)
	for _, want := range []string{"Day 1", "07:00", "Morning", "Bedroom", "1x", "PAUSED"} {
		if !strings.Contains(got, want) {
			t.Errorf("Header %q missing %q", got, want)
		}
	}
}
