package sim

import (
	"fmt"
	"strings"
)

// Delta is an optional signed change to one need. The zero Delta is absent.
type Delta struct {
	value float64
	set   bool
}

// By returns a present Delta of v.
func By(v float64) Delta {
	return Delta{value: v, set: true}
}

func (d Delta) apply(v float64) float64 {
	if !d.set {
		return v
	}
	return Clamp(v + d.value)
}

// Effect is a sparse change to the needs: one optional delta per need.
type Effect struct {
	Energy     Delta
	Hunger     Delta
	Hygiene    Delta
	Happiness  Delta
	Sleepiness Delta
	Health     Delta // Correction added after health is recomputed
}

// Empty reports whether no delta is present.
func (e Effect) Empty() bool {
	return !e.Energy.set && !e.Hunger.set && !e.Hygiene.set &&
		!e.Happiness.set && !e.Sleepiness.set && !e.Health.set
}

// fields lists the present deltas by need name, in a fixed order.
func (e Effect) fields() []namedDelta {
	all := []namedDelta{
		{"energy", e.Energy},
		{"hunger", e.Hunger},
		{"hygiene", e.Hygiene},
		{"happiness", e.Happiness},
		{"sleepiness", e.Sleepiness},
		{"health", e.Health},
	}
	out := all[:0]
	for _, f := range all {
		if f.d.set {
			out = append(out, f)
		}
	}
	return out
}

type namedDelta struct {
	name string
	d    Delta
}

func (e Effect) validate() error {
	if e.Empty() {
		return fmt.Errorf("effect has no deltas")
	}
	for _, f := range e.fields() {
		if !finite(f.d.value) || f.d.value < -NeedMax || f.d.value > NeedMax {
			return fmt.Errorf("%s delta %v outside [-%v, %v]", f.name, f.d.value, NeedMax, NeedMax)
		}
	}
	return nil
}

// String renders the effect as "energy +15, hunger -50".
func (e Effect) String() string {
	parts := make([]string, 0, 6)
	for _, f := range e.fields() {
		parts = append(parts, fmt.Sprintf("%s %+g", f.name, f.d.value))
	}
	return strings.Join(parts, ", ")
}
