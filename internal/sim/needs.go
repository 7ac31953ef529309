package sim

import "math"

// Bounds shared by every need.
const (
	NeedMin = 0.0
	NeedMax = 100.0
)

// Passive decay per real tick. Speed does not scale these.
const (
	EnergyDecay     = -0.5
	HungerDecay     = 0.8
	HygieneDecay    = -0.3
	SleepinessDecay = 0.6
)

// Needs holds the six bounded statistics. Hunger and Sleepiness grow worse
// as they rise; the others grow worse as they fall. Health is derived.
type Needs struct {
	Energy     float64
	Hunger     float64
	Hygiene    float64
	Happiness  float64
	Sleepiness float64
	Health     float64
}

// Clamp restricts v to [NeedMin, NeedMax]. NaN collapses to NeedMin.
func Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return NeedMin
	}
	return math.Max(NeedMin, math.Min(NeedMax, v))
}

// DerivedHealth is the mean of the five inputs, each turned so that higher
// is better.
func DerivedHealth(n Needs) float64 {
	sum := (NeedMax - n.Hunger) +
		n.Energy +
		n.Hygiene +
		n.Happiness +
		(NeedMax - n.Sleepiness)
	return Clamp(sum / 5)
}

// Recompute refreshes Health from the other five needs.
func (n *Needs) Recompute() {
	n.Health = DerivedHealth(*n)
}

// Decay applies realTicks worth of passive decay and recomputes health.
// Each delta moves in one direction only, so clamping the total once gives
// the same result as clamping after every tick.
func Decay(n *Needs, realTicks int) {
	if realTicks <= 0 {
		return
	}
	t := float64(realTicks)
	n.Energy = Clamp(n.Energy + EnergyDecay*t)
	n.Hunger = Clamp(n.Hunger + HungerDecay*t)
	n.Hygiene = Clamp(n.Hygiene + HygieneDecay*t)
	n.Sleepiness = Clamp(n.Sleepiness + SleepinessDecay*t)
	n.Recompute()
}

// ApplyEffect adds every present delta of e, clamps, and recomputes health.
// An explicit health delta is added on top of the derived value.
func ApplyEffect(n *Needs, e Effect) {
	n.Energy = e.Energy.apply(n.Energy)
	n.Hunger = e.Hunger.apply(n.Hunger)
	n.Hygiene = e.Hygiene.apply(n.Hygiene)
	n.Happiness = e.Happiness.apply(n.Happiness)
	n.Sleepiness = e.Sleepiness.apply(n.Sleepiness)
	n.Recompute()
	n.Health = e.Health.apply(n.Health)
}

func (n Needs) validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"energy", n.Energy},
		{"hunger", n.Hunger},
		{"hygiene", n.Hygiene},
		{"happiness", n.Happiness},
		{"sleepiness", n.Sleepiness},
		{"health", n.Health},
	}
	for _, f := range fields {
		if !finite(f.v) || f.v < NeedMin || f.v > NeedMax {
			return corrupt("%s %v out of range", f.name, f.v)
		}
	}
	return nil
}
