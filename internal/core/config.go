package core

// RuntimeConfig contains configuration passed to the game at initialization.
// The session uses this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Frame ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic autopilot runs
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// FrameDelta returns the simulated duration of a single frame tick in seconds.
func (c RuntimeConfig) FrameDelta() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(c.TickRate)
}

// GameState represents the current state of a session.
// Returned by Session.State() to communicate status to the platform.
type GameState struct {
	Level    int    // Current level ordinal (1-based)
	Levels   int    // Total number of levels in the pack
	Score    int    // Targets hit in the current level
	Target   int    // Targets required to finish the current level
	Phase    string // Level phase name (idle, intro, playing, outro)
	Paused   bool   // Whether the simulation is paused
	Finished bool   // Whether the whole pack has been completed
}

// StepResult is returned by Session.Step() after each simulation tick.
type StepResult struct {
	State GameState
	Quit  bool // Set when the player asked to leave the session
}
