package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// tone is a finite sine oscillator with an attack/release envelope.
type tone struct {
	rate     beep.SampleRate
	freq     float64
	phase    float64
	position int
	total    int
	attack   int
	release  int
}

func newTone(rate beep.SampleRate, freq float64, duration, attack, release time.Duration) beep.Streamer {
	return &tone{
		rate:    rate,
		freq:    freq,
		total:   rate.N(duration),
		attack:  rate.N(attack),
		release: rate.N(release),
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.total {
			return i, i > 0
		}

		vol := 1.0
		if t.attack > 0 && t.position < t.attack {
			vol = float64(t.position) / float64(t.attack)
		}
		if releaseStart := t.total - t.release; t.release > 0 && t.position >= releaseStart {
			vol = float64(t.total-t.position) / float64(t.release)
		}

		val := vol * math.Sin(2*math.Pi*t.phase)
		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// arpeggio endlessly cycles a short note pattern; it never drains, so it
// can sit in the mixer for the whole level.
type arpeggio struct {
	rate     beep.SampleRate
	base     float64
	pattern  []int
	note     int
	phase    float64
	position int
}

// Tracks are (root frequency, semitone pattern) pairs. Levels cycle through them.
var tracks = []struct {
	root    float64
	pattern []int
}{
	{220.00, []int{0, 4, 7, 12, 7, 4}},
	{196.00, []int{0, 3, 7, 10, 7, 3}},
	{246.94, []int{0, 5, 9, 12, 9, 5}},
	{174.61, []int{0, 4, 7, 11, 14, 11, 7, 4}},
}

const noteLength = 180 * time.Millisecond

// TrackCount returns how many distinct BGM tracks exist.
func TrackCount() int {
	return len(tracks)
}

func newArpeggio(rate beep.SampleRate, track int) *arpeggio {
	idx := (track - 1) % len(tracks)
	if idx < 0 {
		idx += len(tracks)
	}
	return &arpeggio{
		rate:    rate,
		base:    tracks[idx].root,
		pattern: tracks[idx].pattern,
		note:    rate.N(noteLength),
	}
}

func (a *arpeggio) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		step := (a.position / a.note) % len(a.pattern)
		inNote := a.position % a.note
		freq := a.base * math.Pow(2, float64(a.pattern[step])/12)

		// Plucked decay within each note
		env := math.Exp(-3 * float64(inNote) / float64(a.note))
		val := 0.3 * env * math.Sin(2*math.Pi*a.phase)
		samples[i][0] = val
		samples[i][1] = val

		a.phase += freq / float64(a.rate)
		a.phase -= math.Floor(a.phase)
		a.position++
	}
	return len(samples), true
}

func (a *arpeggio) Err() error { return nil }

// chime is the score sound before pitch shifting: a root with its octave.
func chime(rate beep.SampleRate) beep.Streamer {
	const duration = 220 * time.Millisecond
	return beep.Mix(
		newVolume(newTone(rate, 660, duration, 5*time.Millisecond, 150*time.Millisecond), 0.7),
		newVolume(newTone(rate, 1320, duration, 5*time.Millisecond, 100*time.Millisecond), 0.3),
	)
}

// newVolume wraps s with a linear volume. math.Log2(0) is -Inf, so zero
// volume is rendered silent instead.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
