package timing

import "time"

// Stopwatch accumulates elapsed time while running.
type Stopwatch struct {
	clock   Clock
	elapsed time.Duration
	started time.Time
	running bool
}

// NewStopwatch creates a stopped stopwatch reading from clock.
func NewStopwatch(clock Clock) *Stopwatch {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Stopwatch{clock: clock}
}

// Start begins or resumes accumulating. Starting a running stopwatch is a no-op.
func (s *Stopwatch) Start() {
	if s.running {
		return
	}
	s.started = s.clock.Now()
	s.running = true
}

// Stop pauses accumulation, keeping the elapsed time.
func (s *Stopwatch) Stop() {
	if !s.running {
		return
	}
	s.elapsed += s.sinceStart()
	s.running = false
}

// Running reports whether the stopwatch is accumulating.
func (s *Stopwatch) Running() bool {
	return s.running
}

// Elapsed returns the total accumulated time, including the current run.
func (s *Stopwatch) Elapsed() time.Duration {
	if s.running {
		return s.elapsed + s.sinceStart()
	}
	return s.elapsed
}

func (s *Stopwatch) sinceStart() time.Duration {
	d := s.clock.Now().Sub(s.started)
	if d < 0 {
		return 0
	}
	return d
}
