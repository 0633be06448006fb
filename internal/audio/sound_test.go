package audio

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"

	"github.com/vovakirdan/tumble/internal/score"
)

func newTestManager(t *testing.T) (*SoundManager, *Headless, *score.Tracker) {
	t.Helper()
	tracker := score.NewTracker()
	out := NewHeadless()
	sm, err := NewSoundManager(tracker, out, DefaultSettings(), log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewSoundManager() error: %v", err)
	}
	t.Cleanup(sm.Close)
	return sm, out, tracker
}

func TestRequiresScoreTracker(t *testing.T) {
	_, err := NewSoundManager(nil, NewHeadless(), DefaultSettings(), log.New(io.Discard))
	if !errors.Is(err, ErrNoScoreTracker) {
		t.Errorf("error = %v, expected ErrNoScoreTracker", err)
	}
}

func TestBGMLifecycle(t *testing.T) {
	sm, out, _ := newTestManager(t)

	sm.StartBGM(2)
	if !sm.Playing() || sm.Paused() || sm.Track() != 2 {
		t.Fatalf("after StartBGM: playing=%v paused=%v track=%d", sm.Playing(), sm.Paused(), sm.Track())
	}

	sm.Advance(100 * time.Millisecond)
	want := beep.SampleRate(DefaultSettings().SampleRate).N(100 * time.Millisecond)
	if out.Streamed() != want {
		t.Errorf("Streamed() = %d, expected %d", out.Streamed(), want)
	}
	if out.Peak() == 0 {
		t.Error("music should produce sound")
	}

	sm.PauseBGM()
	if !sm.Paused() || !sm.Playing() {
		t.Error("PauseBGM should pause without stopping")
	}
	sm.Advance(100 * time.Millisecond)
	if out.Peak() != 0 {
		t.Error("paused music should be silent")
	}

	sm.UnpauseBGM()
	if sm.Paused() {
		t.Error("UnpauseBGM should resume")
	}

	sm.StopBGM()
	sm.Advance(10 * time.Millisecond)
	if sm.Playing() {
		t.Error("StopBGM should stop the music")
	}
	if sm.Voices() != 0 {
		t.Errorf("Voices() = %d after StopBGM, expected 0", sm.Voices())
	}
}

func TestStartBGMReplacesTrack(t *testing.T) {
	sm, _, _ := newTestManager(t)

	sm.StartBGM(1)
	sm.StartBGM(3)
	sm.Advance(10 * time.Millisecond)

	if sm.Track() != 3 {
		t.Errorf("Track() = %d, expected 3", sm.Track())
	}
	if sm.Voices() != 1 {
		t.Errorf("Voices() = %d, expected the old track to be dropped", sm.Voices())
	}
}

func TestPauseWithoutMusicIsNoop(t *testing.T) {
	sm, _, _ := newTestManager(t)

	sm.PauseBGM()
	sm.UnpauseBGM()
	if sm.Paused() || sm.Playing() {
		t.Error("pausing with no music should not change state")
	}
}

func TestScoreSoundFollowsTracker(t *testing.T) {
	sm, _, tracker := newTestManager(t)
	pitches := DefaultSettings().ScorePitches

	tracker.IncrementScore()
	if sm.ScoresPlayed() != 1 {
		t.Fatalf("ScoresPlayed() = %d, expected 1", sm.ScoresPlayed())
	}
	if sm.LastPitch() != pitches[1] {
		t.Errorf("LastPitch() = %v, expected %v", sm.LastPitch(), pitches[1])
	}

	// Score sounds are finite and leave the mixer once played
	sm.Advance(time.Second)
	if sm.Voices() != 0 {
		t.Errorf("Voices() = %d after the chime ended, expected 0", sm.Voices())
	}
}

func TestPitchCycles(t *testing.T) {
	sm, _, _ := newTestManager(t)
	pitches := DefaultSettings().ScorePitches
	n := len(pitches)

	tests := []struct {
		score    int
		expected float64
	}{
		{0, pitches[0]},
		{1, pitches[1]},
		{n, pitches[0]},
		{n + 2, pitches[2]},
		{-1, pitches[n-1]},
	}

	for _, tc := range tests {
		if got := sm.Pitch(tc.score); got != tc.expected {
			t.Errorf("Pitch(%d) = %v, expected %v", tc.score, got, tc.expected)
		}
	}
}

type failingOutput struct {
	Headless
}

func (f *failingOutput) Start(beep.Streamer, beep.SampleRate) error {
	return errors.New("no device")
}

func TestFallbackToHeadless(t *testing.T) {
	tracker := score.NewTracker()
	sm, err := NewSoundManagerWithFallback(tracker, &failingOutput{}, DefaultSettings(), log.New(io.Discard))
	if err != nil {
		t.Fatalf("fallback error: %v", err)
	}
	defer sm.Close()

	sm.StartBGM(1)
	if !sm.Playing() {
		t.Error("fallback manager should still track music state")
	}
	if tracker.OnScoreChanged.Len() != 1 {
		t.Errorf("score listeners = %d, expected 1", tracker.OnScoreChanged.Len())
	}
}

func TestCloseUnsubscribes(t *testing.T) {
	tracker := score.NewTracker()
	sm, err := NewSoundManager(tracker, NewHeadless(), DefaultSettings(), log.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	sm.Close()

	if tracker.OnScoreChanged.Len() != 0 {
		t.Errorf("score listeners = %d after Close, expected 0", tracker.OnScoreChanged.Len())
	}
}
