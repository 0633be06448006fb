package sequencer

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tumble/internal/fade"
	"github.com/vovakirdan/tumble/internal/level"
	"github.com/vovakirdan/tumble/internal/score"
	"github.com/vovakirdan/tumble/internal/timing"
)

type fakeLoader struct {
	number   int
	total    int
	nexts    int
	restarts int
}

func (f *fakeLoader) LevelNumber() int { return f.number }
func (f *fakeLoader) TotalLevels() int { return f.total }

func (f *fakeLoader) LoadNextLevel(context.Context) <-chan level.Result {
	f.nexts++
	f.number++
	ch := make(chan level.Result, 1)
	ch <- level.Result{}
	return ch
}

func (f *fakeLoader) Restart(context.Context) <-chan level.Result {
	f.restarts++
	f.number = 1
	ch := make(chan level.Result, 1)
	ch <- level.Result{}
	return ch
}

type fakeToggle struct {
	enabled bool
	changes int
}

func (f *fakeToggle) SetEnabled(enabled bool) {
	f.enabled = enabled
	f.changes++
}

type fakeMusic struct {
	playing bool
	track   int
	starts  int
}

func (f *fakeMusic) StartBGM(level int) {
	f.playing = true
	f.track = level
	f.starts++
}

func (f *fakeMusic) StopBGM() { f.playing = false }

type counter int

func (c counter) HittableTargets() int { return int(c) }

type fixture struct {
	seq     *Sequencer
	loader  *fakeLoader
	camera  *fakeToggle
	gravity *fakeToggle
	music   *fakeMusic
	score   *score.Tracker
	timer   *timing.Tracker
	clock   *timing.ManualClock
	intro   *fade.IntroText
	outro   *fade.OutroText
	button  *fade.Button
}

func newFixture(t *testing.T, number, total int) *fixture {
	t.Helper()
	clock := timing.NewManualClock(time.Unix(0, 0))
	d := fade.Durations{In: 0.5, Out: 0.5}
	f := &fixture{
		loader:  &fakeLoader{number: number, total: total},
		camera:  &fakeToggle{},
		gravity: &fakeToggle{},
		music:   &fakeMusic{},
		score:   score.NewTracker(),
		timer:   timing.NewTracker(clock),
		clock:   clock,
		intro:   fade.NewIntroText(d),
		outro:   fade.NewOutroText(d),
		button:  fade.NewButton(d),
	}
	seq, err := New(f.deps())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	f.seq = seq
	return f
}

func (f *fixture) deps() Deps {
	return Deps{
		Loader:  f.loader,
		Camera:  f.camera,
		Gravity: f.gravity,
		Music:   f.music,
		Score:   f.score,
		Timer:   f.timer,
		Intro:   f.intro,
		Outro:   f.outro,
		Button:  f.button,
		Logger:  log.New(io.Discard),
	}
}

// tick advances every fade and the clock by dt, n times.
func (f *fixture) tick(n int, dt float64) {
	for i := 0; i < n; i++ {
		f.intro.Tick(dt)
		f.outro.Tick(dt)
		f.button.Tick(dt)
		f.clock.Advance(time.Duration(dt * float64(time.Second)))
	}
}

// play runs the intro until play starts.
func (f *fixture) play(t *testing.T) {
	t.Helper()
	f.tick(120, 1.0/60.0)
	if f.seq.Phase() != Playing {
		t.Fatalf("Phase() = %v after intro, expected playing", f.seq.Phase())
	}
}

func TestNewMissingDependency(t *testing.T) {
	base := newFixture(t, 1, 3)

	tests := []struct {
		field string
		strip func(*Deps)
	}{
		{"Loader", func(d *Deps) { d.Loader = nil }},
		{"Camera", func(d *Deps) { d.Camera = nil }},
		{"Gravity", func(d *Deps) { d.Gravity = nil }},
		{"Music", func(d *Deps) { d.Music = nil }},
		{"Score", func(d *Deps) { d.Score = nil }},
		{"Timer", func(d *Deps) { d.Timer = nil }},
		{"Intro", func(d *Deps) { d.Intro = nil }},
		{"Outro", func(d *Deps) { d.Outro = nil }},
		{"Button", func(d *Deps) { d.Button = nil }},
	}

	for _, tc := range tests {
		t.Run(tc.field, func(t *testing.T) {
			deps := base.deps()
			tc.strip(&deps)

			seq, err := New(deps)
			if seq != nil {
				t.Error("New() should not return a sequencer")
			}
			if !errors.Is(err, ErrMissingDependency) {
				t.Fatalf("error = %v, expected ErrMissingDependency", err)
			}
			var mde *MissingDependencyError
			if !errors.As(err, &mde) || mde.Field != tc.field {
				t.Errorf("error = %v, expected field %s", err, tc.field)
			}
		})
	}

	if base.score.OnScoreChanged.Len() != 0 {
		t.Error("failed constructions must not subscribe")
	}
}

func TestLoggerOptional(t *testing.T) {
	f := newFixture(t, 1, 1)
	deps := f.deps()
	deps.Logger = nil
	if _, err := New(deps); err != nil {
		t.Errorf("New() without logger error: %v", err)
	}
}

func TestBeginStartsIntro(t *testing.T) {
	f := newFixture(t, 2, 3)
	f.score.SetScore(7)
	f.seq.Begin(counter(3))

	if f.seq.Phase() != IntroFading {
		t.Errorf("Phase() = %v, expected intro", f.seq.Phase())
	}
	if f.seq.Level() != 2 {
		t.Errorf("Level() = %d, expected 2", f.seq.Level())
	}
	if f.intro.Content() != "Level 2" {
		t.Errorf("intro text = %q", f.intro.Content())
	}
	if f.score.Score() != 0 || f.score.Target() != 3 {
		t.Errorf("score = %d/%d, expected 0/3", f.score.Score(), f.score.Target())
	}
	if f.camera.enabled || f.gravity.enabled || f.music.playing {
		t.Error("gameplay must stay off during the intro")
	}
	if _, ok := f.timer.Elapsed(2); ok {
		t.Error("timer must not start during the intro")
	}
}

func TestIntroFadesInThenOutThenPlays(t *testing.T) {
	f := newFixture(t, 1, 3)
	f.seq.Begin(counter(3))

	// Fade in takes 0.5s; halfway through the total we should be fading out
	f.tick(40, 1.0/60.0)
	if f.seq.Phase() != IntroFading {
		t.Fatalf("Phase() = %v, expected intro still running", f.seq.Phase())
	}
	if f.intro.Alpha() == 0 {
		t.Error("intro should be visible")
	}

	f.play(t)

	if !f.camera.enabled || !f.gravity.enabled {
		t.Error("camera and gravity should be enabled once play starts")
	}
	if !f.music.playing || f.music.track != 1 {
		t.Errorf("music playing=%v track=%d, expected track 1", f.music.playing, f.music.track)
	}
	if !f.timer.Running(1) {
		t.Error("timer for level 1 should be running")
	}
	if f.intro.Alpha() != 0 {
		t.Errorf("intro alpha = %v, expected hidden", f.intro.Alpha())
	}
}

func TestThreeTargetScenario(t *testing.T) {
	f := newFixture(t, 1, 3)
	f.seq.Begin(counter(3))
	f.play(t)

	f.clock.Advance(2 * time.Second)
	f.score.IncrementScore()
	f.score.IncrementScore()
	if f.score.Completed() || f.seq.Phase() != Playing {
		t.Fatalf("after 2 of 3 hits: completed=%v phase=%v", f.score.Completed(), f.seq.Phase())
	}
	if f.seq.OutroCount() != 0 {
		t.Fatalf("OutroCount() = %d before completion", f.seq.OutroCount())
	}

	f.score.IncrementScore()
	if !f.score.Completed() {
		t.Fatal("3 of 3 hits should complete the level")
	}
	if f.seq.Phase() != OutroFading {
		t.Errorf("Phase() = %v, expected outro", f.seq.Phase())
	}
	if f.seq.OutroCount() != 1 {
		t.Errorf("OutroCount() = %d, expected 1", f.seq.OutroCount())
	}
	if f.timer.Running(1) {
		t.Error("timer should stop on completion")
	}
	if f.music.playing {
		t.Error("music should stop on completion")
	}
	if f.gravity.enabled {
		t.Error("gravity should be disabled on completion")
	}
	if !f.button.Interactive() {
		t.Error("advance button should be interactive")
	}
	if !strings.HasPrefix(f.outro.Content(), "You finished level 1\nTime 00:00:0") {
		t.Errorf("outro text = %q", f.outro.Content())
	}
}

func TestRepeatedCompletionSingleOutro(t *testing.T) {
	f := newFixture(t, 1, 3)
	f.seq.Begin(counter(1))
	f.play(t)

	fadeIns := 0
	f.outro.OnFadedIn.Subscribe(func(struct{}) { fadeIns++ })

	f.score.IncrementScore()
	f.score.IncrementScore()
	f.score.SetScore(5)
	f.score.SetScore(5)
	f.tick(120, 1.0/60.0)

	if f.seq.OutroCount() != 1 {
		t.Errorf("OutroCount() = %d, expected 1", f.seq.OutroCount())
	}
	if fadeIns != 1 {
		t.Errorf("outro faded in %d times, expected 1", fadeIns)
	}
}

func TestScoreDuringIntroDoesNotComplete(t *testing.T) {
	f := newFixture(t, 1, 3)
	f.seq.Begin(counter(1))

	f.score.IncrementScore()
	if f.seq.Phase() != IntroFading || f.seq.OutroCount() != 0 {
		t.Fatalf("completion during intro: phase=%v outros=%d", f.seq.Phase(), f.seq.OutroCount())
	}

	// The already-complete score finishes the level as play begins
	f.play2(t)
	if f.seq.Phase() != OutroFading || f.seq.OutroCount() != 1 {
		t.Errorf("phase=%v outros=%d, expected outro once", f.seq.Phase(), f.seq.OutroCount())
	}
}

// play2 runs the intro without asserting the resulting phase.
func (f *fixture) play2(t *testing.T) {
	t.Helper()
	f.tick(120, 1.0/60.0)
}

func TestZeroTargetLevelCompletesOnPlay(t *testing.T) {
	f := newFixture(t, 1, 2)
	f.seq.Begin(counter(0))
	f.play2(t)

	if f.seq.Phase() != OutroFading {
		t.Errorf("Phase() = %v, expected outro for an empty level", f.seq.Phase())
	}
}

func TestAdvance(t *testing.T) {
	f := newFixture(t, 1, 3)
	f.seq.Begin(counter(1))

	if _, err := f.seq.Advance(context.Background()); !errors.Is(err, ErrNotFinished) {
		t.Errorf("Advance() during intro error = %v, expected ErrNotFinished", err)
	}

	f.play(t)
	f.score.IncrementScore()

	ch, err := f.seq.Advance(context.Background())
	if err != nil {
		t.Fatalf("Advance() error: %v", err)
	}
	if res := <-ch; res.Err != nil {
		t.Errorf("load result error: %v", res.Err)
	}
	if f.loader.nexts != 1 || f.loader.number != 2 {
		t.Errorf("loader nexts=%d number=%d, expected 1 and 2", f.loader.nexts, f.loader.number)
	}
	if f.button.Interactive() {
		t.Error("button should be disabled after advancing")
	}
	if _, err := f.seq.Advance(context.Background()); !errors.Is(err, ErrNotFinished) {
		t.Errorf("second Advance() error = %v, expected ErrNotFinished", err)
	}
}

func TestAdvanceAfterLastLevel(t *testing.T) {
	f := newFixture(t, 3, 3)
	f.seq.Begin(counter(1))
	f.play(t)
	f.score.IncrementScore()

	if _, err := f.seq.Advance(context.Background()); !errors.Is(err, ErrPackFinished) {
		t.Fatalf("Advance() error = %v, expected ErrPackFinished", err)
	}
	if f.loader.nexts != 0 {
		t.Error("no load should be requested past the last level")
	}

	<-f.seq.Restart(context.Background())
	if f.loader.restarts != 1 || f.loader.number != 1 {
		t.Errorf("restarts=%d number=%d, expected 1 and 1", f.loader.restarts, f.loader.number)
	}
}

func TestEndReleasesSubscriptions(t *testing.T) {
	f := newFixture(t, 1, 3)
	f.seq.Begin(counter(2))

	if f.seq.Subscriptions() != 3 {
		t.Errorf("Subscriptions() = %d after Begin, expected 3", f.seq.Subscriptions())
	}

	f.seq.End()
	if f.seq.Subscriptions() != 0 {
		t.Errorf("Subscriptions() = %d after End, expected 0", f.seq.Subscriptions())
	}
	if f.score.OnScoreChanged.Len() != 0 || f.intro.OnFadedIn.Len() != 0 || f.intro.OnFadedOut.Len() != 0 {
		t.Error("End should remove every listener from the collaborators")
	}

	// Signals after End have no effect
	f.tick(120, 1.0/60.0)
	if f.camera.enabled || f.seq.Phase() != Idle {
		t.Error("an ended sequencer must not react to fades")
	}
}

func TestOneShotListenersConsumed(t *testing.T) {
	f := newFixture(t, 1, 3)
	f.seq.Begin(counter(2))
	f.play(t)

	// Only the persistent score listener remains
	if f.seq.Subscriptions() != 1 {
		t.Errorf("Subscriptions() = %d during play, expected 1", f.seq.Subscriptions())
	}

	// Fading the intro again must not re-run the play transition
	starts := f.music.starts
	f.intro.FadeIn()
	f.tick(60, 1.0/60.0)
	f.intro.FadeOut()
	f.tick(60, 1.0/60.0)
	if f.music.starts != starts {
		t.Error("intro fades after play started must be ignored")
	}
}

func TestBeginWhileIntroAtPeak(t *testing.T) {
	f := newFixture(t, 1, 3)
	f.seq.Begin(counter(2))
	for i := 0; i < 120 && f.intro.Alpha() < 1; i++ {
		f.tick(1, 1.0/60.0)
	}
	if f.intro.Alpha() != 1 {
		t.Fatalf("intro alpha = %v, expected full", f.intro.Alpha())
	}

	// A replacement sequencer for the same collaborators, as a level load does
	f.seq.End()
	seq, err := New(f.deps())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	f.seq = seq
	f.seq.Begin(counter(2))

	f.play(t)
	if !f.camera.enabled {
		t.Error("camera should be enabled once the new intro finishes")
	}
}

func TestRestartIgnoresStaleFades(t *testing.T) {
	f := newFixture(t, 3, 3)
	f.seq.Begin(counter(2))
	f.tick(31, 1.0/60.0)

	f.timer.Reset()
	<-f.seq.Restart(context.Background())
	f.tick(60, 1.0/60.0)

	if f.seq.Phase() != Idle {
		t.Errorf("Phase() = %v, expected idle until the next Begin", f.seq.Phase())
	}
	if f.camera.enabled || f.gravity.enabled || f.music.starts != 0 {
		t.Errorf("camera=%v gravity=%v music starts=%d, expected all off", f.camera.enabled, f.gravity.enabled, f.music.starts)
	}
	if levels := f.timer.Levels(); len(levels) != 0 {
		t.Errorf("timer levels = %v, expected none", levels)
	}
	if f.seq.Subscriptions() != 0 {
		t.Errorf("Subscriptions() = %d after Restart, expected 0", f.seq.Subscriptions())
	}
}

func TestAdvanceReleasesListeners(t *testing.T) {
	f := newFixture(t, 1, 3)
	f.seq.Begin(counter(1))
	f.play(t)
	f.score.IncrementScore()

	if _, err := f.seq.Advance(context.Background()); err != nil {
		t.Fatalf("Advance() error: %v", err)
	}
	if f.seq.Subscriptions() != 0 || f.score.OnScoreChanged.Len() != 0 {
		t.Error("Advance should release the level's listeners")
	}
}
