package sim

import (
	"math"
	"math/rand/v2"
	"testing"
)

const epsilon = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func inBounds(n Needs) bool {
	for _, v := range []float64{n.Energy, n.Hunger, n.Hygiene, n.Happiness, n.Sleepiness, n.Health} {
		if v < NeedMin || v > NeedMax || math.IsNaN(v) {
			return false
		}
	}
	return true
}

func TestDecayOneTick(t *testing.T) {
	n := NewState().Needs
	Decay(&n, 1)

	if !approx(n.Energy, 79.5) {
		t.Errorf("Expected energy 79.5, got %v", n.Energy)
	}
	if !approx(n.Hunger, 30.8) {
		t.Errorf("Expected hunger 30.8, got %v", n.Hunger)
	}
	if !approx(n.Hygiene, 89.7) {
		t.Errorf("Expected hygiene 89.7, got %v", n.Hygiene)
	}
	if !approx(n.Sleepiness, 20.6) {
		t.Errorf("Expected sleepiness 20.6, got %v", n.Sleepiness)
	}
	if n.Happiness != 70 {
		t.Errorf("Expected happiness unchanged at 70, got %v", n.Happiness)
	}
	want := ((100 - 30.8) + 79.5 + 89.7 + 70 + (100 - 20.6)) / 5
	if !approx(n.Health, want) {
		t.Errorf("Expected health %v, got %v", want, n.Health)
	}
}

func TestDecayZeroTicksIsNoop(t *testing.T) {
	n := NewState().Needs
	before := n
	Decay(&n, 0)
	Decay(&n, 0)
	if n != before {
		t.Errorf("Decay with no elapsed ticks changed needs: %+v -> %+v", before, n)
	}
}

func TestDecayClampsAtBounds(t *testing.T) {
	n := Needs{Energy: 0.2, Hunger: 99.9, Hygiene: 0.1, Happiness: 50, Sleepiness: 99.8}
	Decay(&n, 1)

	if n.Energy != 0 || n.Hygiene != 0 {
		t.Errorf("Expected energy and hygiene clamped to 0, got %v and %v", n.Energy, n.Hygiene)
	}
	if n.Hunger != 100 || n.Sleepiness != 100 {
		t.Errorf("Expected hunger and sleepiness clamped to 100, got %v and %v", n.Hunger, n.Sleepiness)
	}
}

func TestDecayBatchMatchesSingleTicks(t *testing.T) {
	a := NewState().Needs
	b := a
	for i := 0; i < 250; i++ {
		Decay(&a, 1)
	}
	Decay(&b, 250)

	if !approx(a.Energy, b.Energy) || !approx(a.Hunger, b.Hunger) ||
		!approx(a.Hygiene, b.Hygiene) || !approx(a.Sleepiness, b.Sleepiness) ||
		!approx(a.Health, b.Health) {
		t.Errorf("Batched decay diverged: %+v vs %+v", a, b)
	}
}

func TestDerivedHealth(t *testing.T) {
	n := Needs{Energy: 80, Hunger: 30, Hygiene: 90, Happiness: 70, Sleepiness: 20}
	if got := DerivedHealth(n); got != 78 {
		t.Errorf("Expected derived health 78, got %v", got)
	}

	worst := Needs{Energy: 0, Hunger: 100, Hygiene: 0, Happiness: 0, Sleepiness: 100}
	if got := DerivedHealth(worst); got != 0 {
		t.Errorf("Expected derived health 0, got %v", got)
	}

	best := Needs{Energy: 100, Hunger: 0, Hygiene: 100, Happiness: 100, Sleepiness: 0}
	if got := DerivedHealth(best); got != 100 {
		t.Errorf("Expected derived health 100, got %v", got)
	}
}

func TestApplyEffectSparse(t *testing.T) {
	n := NewState().Needs
	ApplyEffect(&n, Effect{Hunger: By(-50)})

	if n.Hunger != 0 {
		t.Errorf("Expected hunger clamped to 0, got %v", n.Hunger)
	}
	if n.Energy != 80 || n.Hygiene != 90 || n.Happiness != 70 || n.Sleepiness != 20 {
		t.Errorf("Untouched needs changed: %+v", n)
	}
	if !approx(n.Health, DerivedHealth(n)) {
		t.Errorf("Health %v is stale, expected %v", n.Health, DerivedHealth(n))
	}
}

func TestApplyEffectHealthCorrection(t *testing.T) {
	n := NewState().Needs
	ApplyEffect(&n, Effect{Energy: By(5), Health: By(5)})

	want := DerivedHealth(n) + 5
	if !approx(n.Health, want) {
		t.Errorf("Expected health %v (derived + 5), got %v", want, n.Health)
	}

	full := Needs{Energy: 100, Hunger: 0, Hygiene: 100, Happiness: 100, Sleepiness: 0, Health: 100}
	ApplyEffect(&full, Effect{Health: By(15)})
	if full.Health != 100 {
		t.Errorf("Expected health clamped to 100, got %v", full.Health)
	}
}

func TestClampingUnderRandomEffects(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))
	delta := func() Delta {
		if rng.IntN(3) == 0 {
			return Delta{}
		}
		return By(rng.Float64()*200 - 100)
	}

	n := NewState().Needs
	for i := 0; i < 5000; i++ {
		e := Effect{
			Energy:     delta(),
			Hunger:     delta(),
			Hygiene:    delta(),
			Happiness:  delta(),
			Sleepiness: delta(),
		}
		ApplyEffect(&n, e)
		if !inBounds(n) {
			t.Fatalf("step %d: needs out of bounds after %v: %+v", i, e, n)
		}
		if !approx(n.Health, DerivedHealth(n)) {
			t.Fatalf("step %d: health %v stale, expected %v", i, n.Health, DerivedHealth(n))
		}

		Decay(&n, 1+rng.IntN(5))
		if !inBounds(n) {
			t.Fatalf("step %d: needs out of bounds after decay: %+v", i, n)
		}
		if !approx(n.Health, DerivedHealth(n)) {
			t.Fatalf("step %d: health stale after decay", i)
		}
	}
}

func TestClampNaN(t *testing.T) {
	if got := Clamp(math.NaN()); got != NeedMin {
		t.Errorf("Expected NaN to clamp to %v, got %v", NeedMin, got)
	}
	if got := Clamp(-5); got != 0 {
		t.Errorf("Expected 0, got %v", got)
	}
	if got := Clamp(150); got != 100 {
		t.Errorf("Expected 100, got %v", got)
	}
}

func TestEffectString(t *testing.T) {
	e := Effect{Hunger: By(-50), Energy: By(15)}
	if got := e.String(); got != "energy +15, hunger -50" {
		t.Errorf("Unexpected effect string %q", got)
	}
}
