// Package config provides YAML-based game configuration loading,
// validation and pace presets.
package config

import (
	"github.com/jakecoffman/cp"

	"github.com/vovakirdan/tumble/internal/audio"
	"github.com/vovakirdan/tumble/internal/fade"
	"github.com/vovakirdan/tumble/internal/gravity"
	"github.com/vovakirdan/tumble/internal/physics"
)

// Config contains all tunable game settings.
type Config struct {
	Fade    FadeConfig    `yaml:"fade"`
	Camera  CameraConfig  `yaml:"camera"`
	Gravity GravityConfig `yaml:"gravity"`
	Physics PhysicsConfig `yaml:"physics"`
	Sound   SoundConfig   `yaml:"sound"`
}

// FadeConfig defines fade durations in seconds.
type FadeConfig struct {
	IntroIn   float64 `yaml:"intro_in"`
	IntroOut  float64 `yaml:"intro_out"`
	OutroIn   float64 `yaml:"outro_in"`
	OutroOut  float64 `yaml:"outro_out"`
	ButtonIn  float64 `yaml:"button_in"`
	ButtonOut float64 `yaml:"button_out"`
}

// CameraConfig defines how the camera follows the cube.
type CameraConfig struct {
	FollowSpeed float64 `yaml:"follow_speed"` // Must be at least 1
	OffsetX     float64 `yaml:"offset_x"`     // World units
	OffsetY     float64 `yaml:"offset_y"`
}

// GravityConfig defines the default gravity and how fast it rotates.
type GravityConfig struct {
	X           float64 `yaml:"x"` // World units per second squared
	Y           float64 `yaml:"y"`
	AffectSpeed float64 `yaml:"affect_speed"` // Must be at least 1
}

// PhysicsConfig defines the simulation rate and cube contact properties.
type PhysicsConfig struct {
	FixedRate  int     `yaml:"fixed_rate"` // Physics steps per second
	CubeSize   float64 `yaml:"cube_size"`  // Fraction of a tile, (0,1]
	Elasticity float64 `yaml:"elasticity"`
	Friction   float64 `yaml:"friction"`
}

// SoundConfig defines sample rate, volumes and score pitches.
type SoundConfig struct {
	SampleRate   int       `yaml:"sample_rate"`
	MasterVolume float64   `yaml:"master_volume"` // 0.0 to 1.0
	BGMVolume    float64   `yaml:"bgm_volume"`
	ScoreVolume  float64   `yaml:"score_volume"`
	ScorePitches []float64 `yaml:"score_pitches"` // Playback ratios, cycled by score
}

// IntroDurations returns the intro text fade durations.
func (c Config) IntroDurations() fade.Durations {
	return fade.Durations{In: c.Fade.IntroIn, Out: c.Fade.IntroOut}
}

// OutroDurations returns the outro text fade durations.
func (c Config) OutroDurations() fade.Durations {
	return fade.Durations{In: c.Fade.OutroIn, Out: c.Fade.OutroOut}
}

// ButtonDurations returns the advance button fade durations.
func (c Config) ButtonDurations() fade.Durations {
	return fade.Durations{In: c.Fade.ButtonIn, Out: c.Fade.ButtonOut}
}

// CameraOffset returns the camera offset as a vector.
func (c Config) CameraOffset() cp.Vector {
	return cp.Vector{X: c.Camera.OffsetX, Y: c.Camera.OffsetY}
}

// GravitySettings returns the settings shared by every level's director.
func (c Config) GravitySettings() gravity.Settings {
	return gravity.Settings{
		Default:     cp.Vector{X: c.Gravity.X, Y: c.Gravity.Y},
		AffectSpeed: c.Gravity.AffectSpeed,
	}
}

// PhysicsSettings returns the arena settings.
func (c Config) PhysicsSettings() physics.Settings {
	return physics.Settings{
		CubeSize:   c.Physics.CubeSize,
		Elasticity: c.Physics.Elasticity,
		Friction:   c.Physics.Friction,
	}
}

// FixedStep returns the physics step length in seconds.
func (c Config) FixedStep() float64 {
	if c.Physics.FixedRate <= 0 {
		return 1.0 / float64(Default().Physics.FixedRate)
	}
	return 1.0 / float64(c.Physics.FixedRate)
}

// SoundSettings returns the audio settings.
func (c Config) SoundSettings() audio.Settings {
	pitches := make([]float64, len(c.Sound.ScorePitches))
	copy(pitches, c.Sound.ScorePitches)
	return audio.Settings{
		SampleRate:   c.Sound.SampleRate,
		MasterVolume: c.Sound.MasterVolume,
		BGMVolume:    c.Sound.BGMVolume,
		ScoreVolume:  c.Sound.ScoreVolume,
		ScorePitches: pitches,
	}
}
