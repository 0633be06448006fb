package config

import (
	_ "embed"

	"github.com/vovakirdan/tumble/internal/audio"
	"github.com/vovakirdan/tumble/internal/gravity"
	"github.com/vovakirdan/tumble/internal/physics"
)

//go:embed defaults/tumble.yaml
var defaultYAML []byte

// Default returns the hardcoded default configuration.
func Default() Config {
	g := gravity.DefaultSettings()
	p := physics.DefaultSettings()
	s := audio.DefaultSettings()
	return Config{
		Fade: FadeConfig{
			IntroIn:   1.0,
			IntroOut:  1.0,
			OutroIn:   1.0,
			OutroOut:  0.5,
			ButtonIn:  1.0,
			ButtonOut: 0.5,
		},
		Camera: CameraConfig{
			FollowSpeed: 3,
		},
		Gravity: GravityConfig{
			X:           g.Default.X,
			Y:           g.Default.Y,
			AffectSpeed: g.AffectSpeed,
		},
		Physics: PhysicsConfig{
			FixedRate:  120,
			CubeSize:   p.CubeSize,
			Elasticity: p.Elasticity,
			Friction:   p.Friction,
		},
		Sound: SoundConfig{
			SampleRate:   s.SampleRate,
			MasterVolume: s.MasterVolume,
			BGMVolume:    s.BGMVolume,
			ScoreVolume:  s.ScoreVolume,
			ScorePitches: s.ScorePitches,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
