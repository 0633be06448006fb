// Package audio plays the background music and score sounds.
//
// Sound is synthesized with beep and mixed into a single stream. The stream
// either goes to the speaker or is drained headlessly in step with the
// simulation, so music state is identical with or without a device.
package audio

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"

	"github.com/vovakirdan/tumble/internal/event"
	"github.com/vovakirdan/tumble/internal/score"
)

// ErrNoScoreTracker is returned when a SoundManager is built without a
// score tracker to listen to.
var ErrNoScoreTracker = errors.New("audio: score tracker is required")

// resampleQuality is the interpolation quality used for pitch shifting.
const resampleQuality = 4

// Settings configures volumes and score pitches.
type Settings struct {
	SampleRate   int
	MasterVolume float64
	BGMVolume    float64
	ScoreVolume  float64
	ScorePitches []float64
}

// DefaultSettings returns the settings used when no configuration is given.
func DefaultSettings() Settings {
	return Settings{
		SampleRate:   44100,
		MasterVolume: 0.8,
		BGMVolume:    0.5,
		ScoreVolume:  0.9,
		ScorePitches: []float64{1.0, 1.122, 1.26, 1.335, 1.498, 1.682, 1.888, 2.0},
	}
}

// SoundManager owns the mixer, the BGM voice and score sounds.
type SoundManager struct {
	mu       sync.Mutex
	settings Settings
	rate     beep.SampleRate
	out      Output
	logger   *log.Logger

	mixer   *beep.Mixer
	bgm     *beep.Ctrl
	track   int
	playing bool
	paused  bool

	scoresPlayed int
	lastPitch    float64
	scoreSub     *event.Subscription
}

// NewSoundManager creates a sound manager that plays a score sound every
// time scores changes. A nil output drains headlessly.
func NewSoundManager(scores *score.Tracker, out Output, settings Settings, logger *log.Logger) (*SoundManager, error) {
	if scores == nil {
		return nil, ErrNoScoreTracker
	}
	if out == nil {
		out = NewHeadless()
	}
	if logger == nil {
		logger = log.Default()
	}
	if settings.SampleRate <= 0 {
		settings.SampleRate = DefaultSettings().SampleRate
	}
	if len(settings.ScorePitches) == 0 {
		settings.ScorePitches = DefaultSettings().ScorePitches
	}

	sm := &SoundManager{
		settings: settings,
		rate:     beep.SampleRate(settings.SampleRate),
		out:      out,
		logger:   logger,
		mixer:    &beep.Mixer{},
	}
	if err := out.Start(sm.mixer, sm.rate); err != nil {
		return nil, err
	}
	sm.scoreSub = scores.OnScoreChanged.Subscribe(sm.PlayScore)
	return sm, nil
}

// StartBGM starts the music for a level, replacing any music playing.
func (sm *SoundManager) StartBGM(level int) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.out.Lock()
	defer sm.out.Unlock()

	sm.stopLocked()
	vol := sm.settings.BGMVolume * sm.settings.MasterVolume
	sm.bgm = &beep.Ctrl{Streamer: newVolume(newArpeggio(sm.rate, level), vol)}
	sm.mixer.Add(sm.bgm)
	sm.track = level
	sm.playing = true
	sm.paused = false
	sm.logger.Debug("bgm started", "track", level)
}

// StopBGM stops the music.
func (sm *SoundManager) StopBGM() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.out.Lock()
	defer sm.out.Unlock()

	sm.stopLocked()
}

func (sm *SoundManager) stopLocked() {
	if sm.bgm != nil {
		// A nil streamer drains the Ctrl and the mixer drops it.
		sm.bgm.Streamer = nil
		sm.bgm = nil
	}
	sm.playing = false
	sm.paused = false
}

// PauseBGM pauses the music, keeping its position.
func (sm *SoundManager) PauseBGM() {
	sm.setPaused(true)
}

// UnpauseBGM resumes paused music.
func (sm *SoundManager) UnpauseBGM() {
	sm.setPaused(false)
}

func (sm *SoundManager) setPaused(paused bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.bgm == nil {
		return
	}
	sm.out.Lock()
	sm.bgm.Paused = paused
	sm.out.Unlock()
	sm.paused = paused
}

// PlayScore plays the score sound pitched by the new score, cycling
// through the configured pitches.
func (sm *SoundManager) PlayScore(score int) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	pitch := sm.Pitch(score)
	vol := sm.settings.ScoreVolume * sm.settings.MasterVolume
	s := newVolume(beep.ResampleRatio(resampleQuality, pitch, chime(sm.rate)), vol)

	sm.out.Lock()
	sm.mixer.Add(s)
	sm.out.Unlock()

	sm.scoresPlayed++
	sm.lastPitch = pitch
}

// Pitch returns the playback ratio used for a score.
func (sm *SoundManager) Pitch(score int) float64 {
	pitches := sm.settings.ScorePitches
	idx := score % len(pitches)
	if idx < 0 {
		idx += len(pitches)
	}
	return pitches[idx]
}

// Advance lets a headless output catch up by d of simulated time.
func (sm *SoundManager) Advance(d time.Duration) {
	sm.out.Pump(d)
}

// Playing reports whether music is started (paused music still counts).
func (sm *SoundManager) Playing() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.playing
}

// Paused reports whether the music is paused.
func (sm *SoundManager) Paused() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.paused
}

// Track returns the level whose music last started.
func (sm *SoundManager) Track() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.track
}

// ScoresPlayed returns how many score sounds were started.
func (sm *SoundManager) ScoresPlayed() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.scoresPlayed
}

// LastPitch returns the pitch of the most recent score sound.
func (sm *SoundManager) LastPitch() float64 {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.lastPitch
}

// Voices returns how many streams the mixer is playing.
func (sm *SoundManager) Voices() int {
	sm.out.Lock()
	defer sm.out.Unlock()
	return sm.mixer.Len()
}

// Close stops listening for scores, silences the mixer and closes the output.
func (sm *SoundManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.scoreSub.Cancel()
	sm.out.Lock()
	sm.stopLocked()
	sm.mixer.Clear()
	sm.out.Unlock()
	sm.out.Close()
}

// NewSoundManagerWithFallback tries preferred and falls back to a headless
// output when it cannot start, logging the failure.
func NewSoundManagerWithFallback(scores *score.Tracker, preferred Output, settings Settings, logger *log.Logger) (*SoundManager, error) {
	sm, err := NewSoundManager(scores, preferred, settings, logger)
	if err == nil || errors.Is(err, ErrNoScoreTracker) {
		return sm, err
	}
	if logger != nil {
		logger.Warn("audio device unavailable, continuing without sound", "err", err)
	}
	return NewSoundManager(scores, NewHeadless(), settings, logger)
}
