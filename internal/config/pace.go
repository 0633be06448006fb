package config

// Pace is a named preset that scales how quickly the game moves between
// states: fade durations and gravity rotation speed.
type Pace string

const (
	PaceRelaxed Pace = "relaxed"
	PaceNormal  Pace = "normal"
	PaceBrisk   Pace = "brisk"
)

// Paces lists every preset in display order.
func Paces() []Pace {
	return []Pace{PaceRelaxed, PaceNormal, PaceBrisk}
}

// ParsePace returns the preset named s. The second result is false for
// unknown names.
func ParsePace(s string) (Pace, bool) {
	for _, p := range Paces() {
		if string(p) == s {
			return p, true
		}
	}
	return PaceNormal, false
}

// fadeScale returns the multiplier applied to fade durations.
func (p Pace) fadeScale() float64 {
	switch p {
	case PaceRelaxed:
		return 1.5
	case PaceBrisk:
		return 0.5
	default:
		return 1.0
	}
}

// gravityScale returns the multiplier applied to the gravity affect speed.
func (p Pace) gravityScale() float64 {
	switch p {
	case PaceRelaxed:
		return 0.75
	case PaceBrisk:
		return 1.5
	default:
		return 1.0
	}
}

// ApplyPace scales the configuration by a pace preset.
// The gravity affect speed never drops below 1.
func ApplyPace(cfg *Config, pace Pace) {
	f := pace.fadeScale()
	cfg.Fade.IntroIn *= f
	cfg.Fade.IntroOut *= f
	cfg.Fade.OutroIn *= f
	cfg.Fade.OutroOut *= f
	cfg.Fade.ButtonIn *= f
	cfg.Fade.ButtonOut *= f

	cfg.Gravity.AffectSpeed *= pace.gravityScale()
	if cfg.Gravity.AffectSpeed < 1 {
		cfg.Gravity.AffectSpeed = 1
	}
}
