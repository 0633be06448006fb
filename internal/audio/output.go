package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Output consumes the mixed stream.
type Output interface {
	// Start begins consuming src.
	Start(src beep.Streamer, rate beep.SampleRate) error
	// Lock and Unlock guard mixer changes against the consumer.
	Lock()
	Unlock()
	// Pump advances a pull-driven output by d of audio. Push-driven
	// outputs ignore it.
	Pump(d time.Duration)
	Close()
}

// Headless drains the mix in step with the simulation without playing it.
// It keeps music state deterministic in tests and over SSH.
type Headless struct {
	mu       sync.Mutex
	src      beep.Streamer
	rate     beep.SampleRate
	buf      [][2]float64
	streamed int
	peak     float64
}

// NewHeadless creates a silent output.
func NewHeadless() *Headless {
	return &Headless{}
}

// Start records the stream to drain.
func (h *Headless) Start(src beep.Streamer, rate beep.SampleRate) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.src = src
	h.rate = rate
	return nil
}

// Lock acquires the output lock.
func (h *Headless) Lock() { h.mu.Lock() }

// Unlock releases the output lock.
func (h *Headless) Unlock() { h.mu.Unlock() }

// Pump streams d worth of samples from the mix and discards them.
func (h *Headless) Pump(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.src == nil || d <= 0 {
		return
	}
	n := h.rate.N(d)
	if cap(h.buf) < n {
		h.buf = make([][2]float64, n)
	}
	buf := h.buf[:n]
	for len(buf) > 0 {
		got, ok := h.src.Stream(buf)
		for i := 0; i < got; i++ {
			if v := buf[i][0]; v > h.peak {
				h.peak = v
			} else if -v > h.peak {
				h.peak = -v
			}
		}
		h.streamed += got
		if !ok || got == 0 {
			return
		}
		buf = buf[got:]
	}
}

// Streamed returns the total number of samples drained.
func (h *Headless) Streamed() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.streamed
}

// Peak returns the largest absolute sample seen since the last call and
// resets it.
func (h *Headless) Peak() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	p := h.peak
	h.peak = 0
	return p
}

// Close drops the stream.
func (h *Headless) Close() {
	h.mu.Lock()
	h.src = nil
	h.mu.Unlock()
}

// Speaker plays the mix on the default audio device.
type Speaker struct {
	started bool
}

// NewSpeaker creates a device output. The device opens on Start.
func NewSpeaker() *Speaker {
	return &Speaker{}
}

// Start initializes the device with a 100ms buffer and starts playback.
func (s *Speaker) Start(src beep.Streamer, rate beep.SampleRate) error {
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(src)
	s.started = true
	return nil
}

// Lock locks the speaker's playback goroutine.
func (s *Speaker) Lock() {
	if s.started {
		speaker.Lock()
	}
}

// Unlock unlocks the speaker.
func (s *Speaker) Unlock() {
	if s.started {
		speaker.Unlock()
	}
}

// Pump is a no-op; the device pulls samples itself.
func (s *Speaker) Pump(time.Duration) {}

// Close stops playback and releases the device.
func (s *Speaker) Close() {
	if !s.started {
		return
	}
	speaker.Clear()
	speaker.Close()
	s.started = false
}
