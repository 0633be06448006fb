package config

import (
	"fmt"
	"math"
)

// Validate clamps out-of-range values in place and returns a warning for
// each change. An invalid setting never stops the game.
func (c *Config) Validate() []string {
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}
	def := Default()

	for _, d := range []struct {
		name string
		v    *float64
	}{
		{"fade.intro_in", &c.Fade.IntroIn},
		{"fade.intro_out", &c.Fade.IntroOut},
		{"fade.outro_in", &c.Fade.OutroIn},
		{"fade.outro_out", &c.Fade.OutroOut},
		{"fade.button_in", &c.Fade.ButtonIn},
		{"fade.button_out", &c.Fade.ButtonOut},
	} {
		if *d.v < 0 || math.IsNaN(*d.v) {
			warn("%s = %v is negative, using 0", d.name, *d.v)
			*d.v = 0
		}
	}

	if c.Camera.FollowSpeed < 1 {
		warn("camera.follow_speed = %v is below 1, using 1", c.Camera.FollowSpeed)
		c.Camera.FollowSpeed = 1
	}

	if c.Gravity.X == 0 && c.Gravity.Y == 0 {
		warn("gravity is zero, using default (%v, %v)", def.Gravity.X, def.Gravity.Y)
		c.Gravity.X, c.Gravity.Y = def.Gravity.X, def.Gravity.Y
	}
	if c.Gravity.AffectSpeed < 1 {
		warn("gravity.affect_speed = %v is below 1, using 1", c.Gravity.AffectSpeed)
		c.Gravity.AffectSpeed = 1
	}

	if c.Physics.FixedRate < 30 || c.Physics.FixedRate > 1000 {
		warn("physics.fixed_rate = %d is outside [30, 1000], using %d", c.Physics.FixedRate, def.Physics.FixedRate)
		c.Physics.FixedRate = def.Physics.FixedRate
	}
	if c.Physics.CubeSize <= 0 || c.Physics.CubeSize > 1 {
		warn("physics.cube_size = %v is outside (0, 1], using %v", c.Physics.CubeSize, def.Physics.CubeSize)
		c.Physics.CubeSize = def.Physics.CubeSize
	}
	if c.Physics.Elasticity < 0 || c.Physics.Elasticity > 1 {
		warn("physics.elasticity = %v is outside [0, 1], clamping", c.Physics.Elasticity)
		c.Physics.Elasticity = clampF(c.Physics.Elasticity, 0, 1)
	}
	if c.Physics.Friction < 0 {
		warn("physics.friction = %v is negative, using 0", c.Physics.Friction)
		c.Physics.Friction = 0
	}

	if c.Sound.SampleRate < 8000 {
		warn("sound.sample_rate = %d is too low, using %d", c.Sound.SampleRate, def.Sound.SampleRate)
		c.Sound.SampleRate = def.Sound.SampleRate
	}
	for _, v := range []struct {
		name string
		v    *float64
	}{
		{"sound.master_volume", &c.Sound.MasterVolume},
		{"sound.bgm_volume", &c.Sound.BGMVolume},
		{"sound.score_volume", &c.Sound.ScoreVolume},
	} {
		if *v.v < 0 || *v.v > 1 {
			warn("%s = %v is outside [0, 1], clamping", v.name, *v.v)
			*v.v = clampF(*v.v, 0, 1)
		}
	}

	pitches := c.Sound.ScorePitches[:0:0]
	for _, p := range c.Sound.ScorePitches {
		if p > 0 {
			pitches = append(pitches, p)
		} else {
			warn("sound.score_pitches: dropping non-positive pitch %v", p)
		}
	}
	if len(pitches) == 0 {
		warn("sound.score_pitches is empty, using defaults")
		pitches = def.Sound.ScorePitches
	}
	c.Sound.ScorePitches = pitches

	return warnings
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
