package sim

import (
	"fmt"
)

// Eligibility decides whether an activity may start in the given state.
// It must be pure: no side effects, no caching.
type Eligibility func(s State) bool

// Activity is one catalog entry.
type Activity struct {
	ID       string
	Name     string
	Duration int // In-game minutes
	Effect   Effect
	Room     Room
	Eligible Eligibility // nil means always eligible
	Requires string      // Eligible in words, for listings
}

// Available reports whether the activity may start in s.
func (a Activity) Available(s State) bool {
	if a.Eligible == nil {
		return true
	}
	return a.Eligible(s)
}

// Catalog is an immutable, ordered set of activities.
type Catalog struct {
	activities []Activity
	byID       map[string]int
}

// NewCatalog validates the activities and builds a catalog that keeps
// their order. Any malformed entry rejects the whole catalog.
func NewCatalog(activities ...Activity) (*Catalog, error) {
	c := &Catalog{
		activities: make([]Activity, 0, len(activities)),
		byID:       make(map[string]int, len(activities)),
	}
	for _, a := range activities {
		if a.ID == "" {
			return nil, fmt.Errorf("catalog: activity with empty id")
		}
		if _, dup := c.byID[a.ID]; dup {
			return nil, fmt.Errorf("catalog: activity %q defined twice", a.ID)
		}
		if a.Duration <= 0 {
			return nil, fmt.Errorf("catalog: activity %q has non-positive duration %d", a.ID, a.Duration)
		}
		if !a.Room.Valid() {
			return nil, fmt.Errorf("catalog: activity %q bound to unknown room %q", a.ID, a.Room)
		}
		if err := a.Effect.validate(); err != nil {
			return nil, fmt.Errorf("catalog: activity %q: %w", a.ID, err)
		}
		if a.Name == "" {
			a.Name = a.ID
		}
		c.byID[a.ID] = len(c.activities)
		c.activities = append(c.activities, a)
	}
	return c, nil
}

// MustCatalog is NewCatalog for static tables. It panics on a bad entry.
func MustCatalog(activities ...Activity) *Catalog {
	c, err := NewCatalog(activities...)
	if err != nil {
		panic(err)
	}
	return c
}

// All returns every activity in catalog order.
func (c *Catalog) All() []Activity {
	out := make([]Activity, len(c.activities))
	copy(out, c.activities)
	return out
}

// Len returns the number of activities.
func (c *Catalog) Len() int {
	return len(c.activities)
}

// Get looks up an activity by id.
func (c *Catalog) Get(id string) (Activity, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Activity{}, false
	}
	return c.activities[i], true
}

// InRoom returns the activities bound to room, in catalog order.
func (c *Catalog) InRoom(room Room) []Activity {
	var out []Activity
	for _, a := range c.activities {
		if a.Room == room {
			out = append(out, a)
		}
	}
	return out
}

// Available returns the activities of the current room that may start now.
// Nothing is available while an activity is in progress.
func (c *Catalog) Available(s State) []Activity {
	if s.Busy() {
		return nil
	}
	var out []Activity
	for _, a := range c.activities {
		if a.Room == s.Room && a.Available(s) {
			out = append(out, a)
		}
	}
	return out
}

var defaultCatalog = MustCatalog(
	Activity{
		ID:       "sleep",
		Name:     "Sleep",
		Duration: 480,
		Effect:   Effect{Energy: By(100), Sleepiness: By(-100), Health: By(10)},
		Room:     RoomBedroom,
		Eligible: func(s State) bool {
			return s.Needs.Sleepiness > 60 || IsNight(s.ClockMinutes)
		},
		Requires: "sleepiness above 60, or night",
	},
	Activity{
		ID:       "computer",
		Name:     "Use Computer",
		Duration: 120,
		Effect:   Effect{Happiness: By(15), Energy: By(-10), Sleepiness: By(5)},
		Room:     RoomBedroom,
	},
	Activity{
		ID:       "relax",
		Name:     "Relax on Sofa",
		Duration: 60,
		Effect:   Effect{Happiness: By(10), Energy: By(5), Sleepiness: By(10)},
		Room:     RoomLiving,
	},
	Activity{
		ID:       "tv",
		Name:     "Watch TV",
		Duration: 90,
		Effect:   Effect{Happiness: By(20), Sleepiness: By(15)},
		Room:     RoomLiving,
	},
	Activity{
		ID:       "eat",
		Name:     "Eat",
		Duration: 30,
		Effect:   Effect{Hunger: By(-50), Happiness: By(10), Energy: By(15)},
		Room:     RoomKitchen,
		Eligible: func(s State) bool { return s.Needs.Hunger > 20 },
		Requires: "hunger above 20",
	},
	Activity{
		ID:       "drinkWater",
		Name:     "Drink Water",
		Duration: 5,
		Effect:   Effect{Health: By(5), Energy: By(5)},
		Room:     RoomKitchen,
	},
	Activity{
		ID:       "exercise",
		Name:     "Exercise",
		Duration: 60,
		Effect: Effect{
			Health:     By(15),
			Energy:     By(-20),
			Hunger:     By(15),
			Happiness:  By(10),
			Sleepiness: By(-10),
		},
		Room:     RoomGym,
		Eligible: func(s State) bool { return s.Needs.Energy > 30 },
		Requires: "energy above 30",
	},
	Activity{
		ID:       "shower",
		Name:     "Take Shower",
		Duration: 20,
		Effect:   Effect{Hygiene: By(50), Happiness: By(10), Energy: By(5)},
		Room:     RoomBathroom,
		Eligible: func(s State) bool { return s.Needs.Hygiene < 80 },
		Requires: "hygiene below 80",
	},
)

// DefaultCatalog returns the built-in activity table.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}
