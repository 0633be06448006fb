package game

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tumble/internal/audio"
	"github.com/vovakirdan/tumble/internal/config"
	"github.com/vovakirdan/tumble/internal/core"
	"github.com/vovakirdan/tumble/internal/fade"
	"github.com/vovakirdan/tumble/internal/level"
	"github.com/vovakirdan/tumble/internal/score"
	"github.com/vovakirdan/tumble/internal/sequencer"
)

type levelTime struct {
	pack    string
	level   int
	elapsed time.Duration
	run     string
}

type fakeRecorder struct {
	levels []levelTime
	runs   []time.Duration
}

func (r *fakeRecorder) SaveLevelTime(_ context.Context, pack string, lvl int, elapsed time.Duration, runID string) error {
	r.levels = append(r.levels, levelTime{pack, lvl, elapsed, runID})
	return nil
}

func (r *fakeRecorder) SaveRun(_ context.Context, _ string, _ string, total time.Duration, _ int) error {
	r.runs = append(r.runs, total)
	return nil
}

const dropMap = `#######
#..o..#
#.....#
#TTTTT#`

func singleLevelPack() *level.Pack {
	return level.NewPack("tiny", "Tiny", []level.Definition{{Name: "Only", Map: dropMap}})
}

func classicPack(t *testing.T) *level.Pack {
	t.Helper()
	p, err := level.Classic()
	if err != nil {
		t.Fatalf("Classic: %v", err)
	}
	return p
}

func newTestSession(t *testing.T, pack *level.Pack, rec Recorder) *Session {
	t.Helper()
	s, err := NewSession(Options{
		Config:   config.Default(),
		Runtime:  core.DefaultConfig(),
		Pack:     pack,
		Recorder: rec,
		Logger:   log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

// step loads any pending level synchronously, then runs one frame.
func step(t *testing.T, s *Session, actions ...core.Action) core.StepResult {
	t.Helper()
	if s.Loading() {
		if err := s.AwaitPending(context.Background()); err != nil {
			t.Fatalf("AwaitPending: %v", err)
		}
	}
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return s.Step(in)
}

func runUntil(t *testing.T, s *Session, maxTicks int, cond func() bool) {
	t.Helper()
	for i := 0; i < maxTicks; i++ {
		if cond() {
			return
		}
		step(t, s)
	}
	if !cond() {
		t.Fatalf("condition not met after %d ticks (state %+v)", maxTicks, s.State())
	}
}

func TestNewSessionRequiresPack(t *testing.T) {
	if _, err := NewSession(Options{Logger: log.New(io.Discard)}); err == nil {
		t.Fatal("expected error without a pack")
	}
}

func TestSessionCompletesFirstLevel(t *testing.T) {
	rec := &fakeRecorder{}
	s := newTestSession(t, classicPack(t), rec)

	runUntil(t, s, 600, func() bool { return s.Phase() == sequencer.OutroFading })

	st := s.State()
	if st.Level != 1 || st.Score != st.Target || st.Target == 0 {
		t.Errorf("state = %+v", st)
	}
	if len(rec.levels) != 1 {
		t.Fatalf("recorded %d level times, want 1", len(rec.levels))
	}
	got := rec.levels[0]
	if got.pack != level.ClassicID || got.level != 1 || got.elapsed <= 0 || got.run != s.RunID() {
		t.Errorf("recorded %+v", got)
	}
	if s.Sound().Playing() {
		t.Error("music should stop when the level completes")
	}
}

func TestSessionAdvanceLoadsNextLevel(t *testing.T) {
	s := newTestSession(t, classicPack(t), nil)

	runUntil(t, s, 800, func() bool {
		return s.Phase() == sequencer.OutroFading && s.Button().Interactive() && !s.Button().Fading()
	})
	step(t, s, core.ActionConfirm)
	if !s.Loading() {
		t.Fatal("confirm should request the next level")
	}
	step(t, s)

	st := s.State()
	if st.Level != 2 {
		t.Errorf("Level = %d, want 2", st.Level)
	}
	if st.Phase != sequencer.IntroFading.String() {
		t.Errorf("Phase = %q, want intro", st.Phase)
	}
	if st.Score != 0 {
		t.Errorf("Score = %d, want reset", st.Score)
	}
}

func TestSessionFinishScreenAndReplay(t *testing.T) {
	rec := &fakeRecorder{}
	s := newTestSession(t, singleLevelPack(), rec)

	runUntil(t, s, 800, func() bool {
		return s.Phase() == sequencer.OutroFading && s.Button().Interactive() && !s.Button().Fading()
	})
	step(t, s, core.ActionConfirm)

	st := s.State()
	if !st.Finished || st.Phase != "finished" {
		t.Fatalf("state = %+v, want finished", st)
	}
	if !strings.HasPrefix(s.FinishText(), "Congratulations!\nYour time was 00:00:0") {
		t.Errorf("FinishText = %q", s.FinishText())
	}
	if len(rec.runs) != 1 || rec.runs[0] <= 0 {
		t.Errorf("runs = %v", rec.runs)
	}
	if len(s.LevelTimes()) != 0 {
		t.Error("level times should reset after the finish screen")
	}

	firstRun := s.RunID()
	step(t, s, core.ActionConfirm)
	step(t, s)
	st = s.State()
	if st.Finished || st.Level != 1 || st.Phase != sequencer.IntroFading.String() {
		t.Errorf("after replay state = %+v", st)
	}
	if s.RunID() == firstRun {
		t.Error("replay should start a new run")
	}
}

func TestPauseFreezesSimulation(t *testing.T) {
	s := newTestSession(t, singleLevelPack(), nil)
	runUntil(t, s, 300, func() bool { return s.Phase() == sequencer.Playing })

	step(t, s, core.ActionPause)
	if !s.State().Paused || !s.Sound().Paused() {
		t.Fatal("pause should stop the session and music")
	}
	pos := s.World().Position()
	elapsed := s.Elapsed()
	ticks := s.Ticks()
	for i := 0; i < 30; i++ {
		step(t, s)
	}
	if s.World().Position() != pos || s.Elapsed() != elapsed || s.Ticks() != ticks {
		t.Error("paused session should not advance")
	}

	step(t, s, core.ActionPause)
	if s.State().Paused || s.Sound().Paused() {
		t.Error("second pause should resume")
	}
}

func TestRotateInputTurnsView(t *testing.T) {
	s := newTestSession(t, classicPack(t), nil)
	runUntil(t, s, 300, func() bool { return s.Phase() == sequencer.Playing })

	step(t, s, core.ActionRotateCW)
	if q := s.Director().Quarter(); q != 1 {
		t.Fatalf("Quarter = %d, want 1", q)
	}
	runUntil(t, s, 600, func() bool { return s.Director().ViewAngle() == s.Director().TargetViewAngle() })

	down := screenDown(s.Director().ViewAngle())
	g := s.Director().TargetGravity().Normalize()
	if math.Abs(down.X-g.X) > 1e-9 || math.Abs(down.Y-g.Y) > 1e-9 {
		t.Errorf("screen down %v does not match gravity %v", down, g)
	}
}

func TestQuitInput(t *testing.T) {
	s := newTestSession(t, singleLevelPack(), nil)
	if res := step(t, s, core.ActionQuit); !res.Quit {
		t.Error("quit should be reported")
	}
}

func TestRender(t *testing.T) {
	s := newTestSession(t, classicPack(t), nil)
	runUntil(t, s, 300, func() bool { return s.Phase() == sequencer.Playing })

	scr := core.NewScreen(80, 24)
	s.Render(scr)
	if row := scr.Row(0); !strings.Contains(row, "Level 1/5") {
		t.Errorf("HUD row = %q", row)
	}

	var cube, wall int
	for y := 0; y < scr.Height(); y++ {
		for x := 0; x < scr.Width(); x++ {
			switch scr.GetCell(x, y).Color {
			case core.ColorCube:
				cube++
			case core.ColorWall:
				wall++
			}
		}
	}
	if cube != cellWidth {
		t.Errorf("cube cells = %d, want %d", cube, cellWidth)
	}
	if wall == 0 {
		t.Error("no walls drawn")
	}
}

func TestRenderIntroText(t *testing.T) {
	s := newTestSession(t, classicPack(t), nil)
	runUntil(t, s, 120, func() bool { return s.intro.Alpha() == 1 })

	scr := core.NewScreen(80, 24)
	s.Render(scr)
	if row := scr.Row(12); !strings.Contains(row, "Level 1") {
		t.Errorf("intro row = %q", row)
	}
}

func TestLevelMusicOverride(t *testing.T) {
	sm, err := audio.NewSoundManager(score.NewTracker(), audio.NewHeadless(), audio.DefaultSettings(), log.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	defer sm.Close()

	levelMusic{sound: sm, track: 2}.StartBGM(4)
	if sm.Track() != 2 {
		t.Errorf("Track = %d, want level override 2", sm.Track())
	}
	levelMusic{sound: sm}.StartBGM(3)
	if sm.Track() != 3 {
		t.Errorf("Track = %d, want ordinal 3", sm.Track())
	}
}

func TestPaletteUsesLevelHue(t *testing.T) {
	s := newTestSession(t, classicPack(t), nil)
	step(t, s)
	if s.Level() == nil {
		t.Fatal("first level not loaded")
	}
	base := s.Palette().Wall

	hue := 150.0
	s.lvl.Hue = &hue
	if s.Palette().Wall == base {
		t.Error("level hue should change the palette")
	}
}

func TestAutopilotDeterministic(t *testing.T) {
	run := func() (core.GameState, float64, float64) {
		s := newTestSession(t, classicPack(t), nil)
		ap := NewAutopilot(7, 60)
		for i := 0; i < 1500; i++ {
			if s.Loading() {
				if err := s.AwaitPending(context.Background()); err != nil {
					t.Fatal(err)
				}
			}
			if s.Step(ap.Next(s)).Quit {
				break
			}
		}
		p := s.World().Position()
		return s.State(), p.X, p.Y
	}
	st1, x1, y1 := run()
	st2, x2, y2 := run()
	if st1 != st2 || x1 != x2 || y1 != y2 {
		t.Errorf("runs differ: %+v (%v,%v) vs %+v (%v,%v)", st1, x1, y1, st2, x2, y2)
	}
	if st1.Level < 2 {
		t.Errorf("autopilot should clear the first level, got %+v", st1)
	}
}

func TestRestartAtIntroPeakStillPlays(t *testing.T) {
	s := newTestSession(t, classicPack(t), nil)
	runUntil(t, s, 600, func() bool { return s.intro.Alpha() == 1 })

	step(t, s, core.ActionRestart)
	runUntil(t, s, 1200, func() bool { return s.Phase() == sequencer.Playing })
	if s.Level() == nil || s.loader.LevelNumber() != 1 {
		t.Errorf("level = %d after restart, expected 1", s.loader.LevelNumber())
	}
}

func TestMissingCollaboratorReturnsError(t *testing.T) {
	s := newTestSession(t, singleLevelPack(), nil)
	if err := s.AwaitPending(context.Background()); err != nil {
		t.Fatalf("AwaitPending: %v", err)
	}
	lvl := s.Level()

	s.outro = &fade.OutroText{}
	err := s.applyResult(level.Result{Level: lvl})
	if !errors.Is(err, sequencer.ErrMissingDependency) {
		t.Fatalf("applyResult error = %v, expected ErrMissingDependency", err)
	}
	if s.LoadErr() == nil {
		t.Error("LoadErr() should report the failure")
	}
	if s.State().Phase != "loading" {
		t.Errorf("phase = %q, expected the level not to start", s.State().Phase)
	}
}
