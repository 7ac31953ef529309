package sim

import (
	"fmt"
	"math"
)

const (
	// MinutesPerDay is the length of one in-game day.
	MinutesPerDay = 1440

	// MinutesPerTick is how far one real tick moves the clock at speed 1.
	MinutesPerTick = 15
)

// Night-time window boundaries: [NightStart, MinutesPerDay) and [0, NightEnd).
const (
	NightStart = 1320 // 22:00
	NightEnd   = 360  // 06:00
)

// Period is a coarse time-of-day bucket.
type Period int

const (
	Night Period = iota
	Morning
	Afternoon
	Evening
)

// String returns the display name of the period.
func (p Period) String() string {
	switch p {
	case Morning:
		return "Morning"
	case Afternoon:
		return "Afternoon"
	case Evening:
		return "Evening"
	default:
		return "Night"
	}
}

// TickMinutes returns the in-game minutes covered by realTicks at speed.
func TickMinutes(speed float64, realTicks int) float64 {
	return MinutesPerTick * speed * float64(realTicks)
}

// exactMinutes bounds the float totals that convert to int64 without loss.
const exactMinutes = 1 << 62

// Advance moves the clock forward by realTicks real ticks at the state's
// speed. Fractional minutes are carried to the next call.
func Advance(s *State, realTicks int) {
	if realTicks <= 0 {
		return
	}
	total := TickMinutes(s.Speed, realTicks) + s.ClockCarry
	whole := math.Floor(total)
	s.ClockCarry = total - whole
	if whole < exactMinutes {
		AdvanceMinutes(s, int64(whole))
		return
	}

	// Too large for int64 minutes: split into days and minutes in float.
	days := math.Floor(whole / MinutesPerDay)
	clock := s.ClockMinutes + int(math.Mod(whole, MinutesPerDay))
	if clock >= MinutesPerDay {
		clock -= MinutesPerDay
		days++
	}
	s.ClockMinutes = clock
	if days >= exactMinutes {
		addDays(s, math.MaxInt64)
		return
	}
	addDays(s, int64(days))
}

// AdvanceMinutes moves the clock forward by a whole number of minutes.
// Any number of day boundaries are crossed in one step.
func AdvanceMinutes(s *State, minutes int64) {
	if minutes <= 0 {
		return
	}
	days := minutes / MinutesPerDay
	clock := s.ClockMinutes + int(minutes%MinutesPerDay)
	if clock >= MinutesPerDay {
		clock -= MinutesPerDay
		days++
	}
	s.ClockMinutes = clock
	addDays(s, days)
}

// addDays moves the day counter forward, saturating at math.MaxInt.
func addDays(s *State, days int64) {
	if days > int64(math.MaxInt-s.Day) {
		s.Day = math.MaxInt
		return
	}
	s.Day += int(days)
}

// FormatClock renders minutes since midnight as HH:MM.
func FormatClock(minutes int) string {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// PeriodOf returns the time-of-day bucket for minutes since midnight.
func PeriodOf(minutes int) Period {
	switch {
	case minutes >= 360 && minutes < 720:
		return Morning
	case minutes >= 720 && minutes < 1080:
		return Afternoon
	case minutes >= 1080 && minutes < NightStart:
		return Evening
	default:
		return Night
	}
}

// IsNight reports whether minutes falls in the night-time window.
func IsNight(minutes int) bool {
	return minutes >= NightStart || minutes < NightEnd
}
