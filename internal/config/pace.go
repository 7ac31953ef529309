package config

// Pace is a named speed multiplier.
type Pace string

const (
	PaceRelaxed Pace = "relaxed"
	PaceNormal  Pace = "normal"
	PaceBrisk   Pace = "brisk"
	PaceHectic  Pace = "hectic"
)

// Paces lists every preset, slowest first.
var Paces = []Pace{PaceRelaxed, PaceNormal, PaceBrisk, PaceHectic}

// Speed returns the multiplier for the preset. Unknown presets run at 1x.
func (p Pace) Speed() float64 {
	switch p {
	case PaceRelaxed:
		return 0.5
	case PaceBrisk:
		return 2
	case PaceHectic:
		return 4
	default:
		return 1
	}
}

// Valid reports whether p is a known preset.
func (p Pace) Valid() bool {
	for _, known := range Paces {
		if p == known {
			return true
		}
	}
	return false
}
