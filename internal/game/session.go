// Package game composes the level components into a playable session.
//
// Session is the composition root: it builds the trackers, texts, sound and
// loader once, and per level the physics world, camera, gravity director
// and sequencer, wiring them together directly. The platform drives it one
// frame at a time through Step and draws it with Render.
package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tumble/internal/audio"
	"github.com/vovakirdan/tumble/internal/camera"
	"github.com/vovakirdan/tumble/internal/config"
	"github.com/vovakirdan/tumble/internal/core"
	"github.com/vovakirdan/tumble/internal/event"
	"github.com/vovakirdan/tumble/internal/fade"
	"github.com/vovakirdan/tumble/internal/gravity"
	"github.com/vovakirdan/tumble/internal/level"
	"github.com/vovakirdan/tumble/internal/palette"
	"github.com/vovakirdan/tumble/internal/physics"
	"github.com/vovakirdan/tumble/internal/score"
	"github.com/vovakirdan/tumble/internal/sequencer"
	"github.com/vovakirdan/tumble/internal/timing"
)

// maxSubsteps bounds physics steps per frame so a slow frame cannot
// snowball.
const maxSubsteps = 8

// finishFormat is the message shown once every level is complete.
const finishFormat = "Congratulations!\nYour time was %s"

// Recorder persists completed levels and runs.
type Recorder interface {
	SaveLevelTime(ctx context.Context, pack string, level int, elapsed time.Duration, runID string) error
	SaveRun(ctx context.Context, runID, pack string, total time.Duration, levels int) error
}

// Options configures a new session.
type Options struct {
	Config     config.Config
	Runtime    core.RuntimeConfig
	Pack       *level.Pack
	StartLevel int          // first level to load; 0 means 1
	Output     audio.Output // nil plays headless
	Recorder   Recorder     // optional
	Logger     *log.Logger
}

// Session is one player's run through a level pack.
type Session struct {
	cfg      config.Config
	rt       core.RuntimeConfig
	logger   *log.Logger
	recorder Recorder
	runID    string

	ctx    context.Context
	cancel context.CancelFunc

	clock  *timing.ManualClock
	timer  *timing.Tracker
	score  *score.Tracker
	intro  *fade.IntroText
	outro  *fade.OutroText
	button *fade.Button
	sound  *audio.SoundManager
	loader *level.Loader

	lvl      *level.Level
	world    *physics.World
	follower *camera.Follower
	director *gravity.Director
	seq      *sequencer.Sequencer

	pending     <-chan level.Result
	accumulator float64
	recorded    bool

	paused      bool
	timerPaused bool
	finished    bool
	finishText  string
	loadErr     error

	ticks    int
	pressSub *event.Subscription
}

// NewSession builds a session and requests its first level.
func NewSession(opts Options) (*Session, error) {
	if opts.Pack == nil {
		return nil, errors.New("game: a level pack is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	rt := opts.Runtime
	if rt.TickRate <= 0 {
		rt = core.DefaultConfig()
	}
	cfg := opts.Config
	for _, w := range cfg.Validate() {
		logger.Warn("config", "warning", w)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		cfg:      cfg,
		rt:       rt,
		logger:   logger,
		recorder: opts.Recorder,
		runID:    uuid.NewString(),
		ctx:      ctx,
		cancel:   cancel,
		clock:    timing.NewManualClock(time.Unix(0, 0)),
		score:    score.NewTracker(),
		intro:    fade.NewIntroText(cfg.IntroDurations()),
		outro:    fade.NewOutroText(cfg.OutroDurations()),
		button:   fade.NewButton(cfg.ButtonDurations()),
		loader:   level.NewLoader(opts.Pack, logger),
	}
	s.timer = timing.NewTracker(s.clock)

	sound, err := audio.NewSoundManagerWithFallback(s.score, opts.Output, cfg.SoundSettings(), logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("game: %w", err)
	}
	s.sound = sound
	s.pressSub = s.button.OnPressed.Subscribe(s.onAdvance)

	start := opts.StartLevel
	if start <= 0 {
		start = 1
	}
	s.pending = s.loader.AdvanceToLevel(ctx, start)
	logger.Info("session start", "pack", opts.Pack.ID(), "level", start, "run", s.runID)
	return s, nil
}

// Step advances the session by one frame.
func (s *Session) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionQuit) {
		return core.StepResult{State: s.State(), Quit: true}
	}

	if s.finished {
		if in.Has(core.ActionConfirm) || in.Has(core.ActionRestart) {
			s.restartRun()
		}
		return core.StepResult{State: s.State()}
	}

	if in.Has(core.ActionPause) {
		s.TogglePause()
	}
	if s.paused {
		return core.StepResult{State: s.State()}
	}

	dt := s.rt.FrameDelta()

	// Update
	s.pollPending()
	if s.seq != nil {
		if in.Has(core.ActionRotateCW) {
			s.director.RotateGravity(true)
		}
		if in.Has(core.ActionRotateCCW) {
			s.director.RotateGravity(false)
		}
	}
	if in.Has(core.ActionConfirm) {
		s.button.Press()
	}
	if in.Has(core.ActionRestart) {
		s.restartRun()
	}
	s.intro.Tick(dt)
	s.outro.Tick(dt)
	s.button.Tick(dt)
	if s.follower != nil {
		s.follower.Update(dt)
	}

	// Fixed-rate physics
	if s.world != nil {
		step := s.cfg.FixedStep()
		s.accumulator += dt
		for i := 0; s.accumulator >= step && i < maxSubsteps; i++ {
			s.director.FixedUpdate(step)
			s.world.Step(step)
			s.accumulator -= step
		}
		if s.accumulator > step {
			s.accumulator = 0
		}
	}
	s.recordCompletion()

	// LateUpdate
	if s.follower != nil {
		s.follower.LateUpdate()
		s.director.LateUpdate(dt)
	}

	frame := time.Duration(dt * float64(time.Second))
	s.clock.Advance(frame)
	s.sound.Advance(frame)
	s.ticks++

	return core.StepResult{State: s.State()}
}

// AwaitPending blocks until an outstanding level load finishes and starts
// the level. It returns the load error, if any.
func (s *Session) AwaitPending(ctx context.Context) error {
	if s.pending == nil {
		return nil
	}
	select {
	case res := <-s.pending:
		s.pending = nil
		return s.applyResult(res)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Loading reports whether a level load is outstanding.
func (s *Session) Loading() bool {
	return s.pending != nil
}

func (s *Session) pollPending() {
	if s.pending == nil {
		return
	}
	select {
	case res := <-s.pending:
		s.pending = nil
		_ = s.applyResult(res)
	default:
	}
}

func (s *Session) applyResult(res level.Result) error {
	if res.Err != nil {
		s.loadErr = res.Err
		s.logger.Error("cannot load level", "err", res.Err)
		return res.Err
	}
	if err := s.beginLevel(res.Level); err != nil {
		s.loadErr = err
		s.logger.Error("cannot start level", "err", err)
		return err
	}
	s.loadErr = nil
	return nil
}

// beginLevel replaces the per-level components and starts the intro.
func (s *Session) beginLevel(lvl *level.Level) error {
	if s.seq != nil {
		s.seq.End()
	}

	s.lvl = lvl
	s.world = physics.NewWorld(lvl, s.cfg.PhysicsSettings(), s.score)
	s.director = gravity.NewDirector(s.cfg.GravitySettings(), s.world)
	s.follower = camera.NewFollower(s.world, s.cfg.Camera.FollowSpeed, s.cfg.CameraOffset())
	s.accumulator = 0
	s.recorded = false

	seq, err := sequencer.New(sequencer.Deps{
		Loader:  s.loader,
		Camera:  s.follower,
		Gravity: s.director,
		Music:   levelMusic{sound: s.sound, track: lvl.Music},
		Score:   s.score,
		Timer:   s.timer,
		Intro:   s.intro,
		Outro:   s.outro,
		Button:  s.button,
		Logger:  s.logger,
	})
	if err != nil {
		s.seq = nil
		return fmt.Errorf("game: %w", err)
	}
	s.seq = seq
	s.seq.Begin(s.world)
	return nil
}

// onAdvance handles a press of the advance button.
func (s *Session) onAdvance(struct{}) {
	if s.seq == nil {
		return
	}
	ch, err := s.seq.Advance(s.ctx)
	switch {
	case errors.Is(err, sequencer.ErrPackFinished):
		s.showFinish()
	case err != nil:
		s.logger.Debug("advance ignored", "err", err)
	default:
		s.pending = ch
	}
}

func (s *Session) showFinish() {
	total := s.timer.TotalElapsed()
	s.finishText = fmt.Sprintf(finishFormat, timing.FormatClock(total))
	s.finished = true
	s.outro.FadeOut()
	s.button.FadeOut()
	s.logger.Info("pack finished", "pack", s.loader.Pack().ID(), "time", timing.FormatClock(total), "run", s.runID)

	if s.recorder != nil {
		levels := len(s.timer.Levels())
		if err := s.recorder.SaveRun(s.ctx, s.runID, s.loader.Pack().ID(), total, levels); err != nil {
			s.logger.Warn("cannot save run", "err", err)
		}
	}
	s.timer.Reset()
}

func (s *Session) restartRun() {
	s.finished = false
	s.finishText = ""
	s.timer.Reset()
	s.sound.StopBGM()
	s.runID = uuid.NewString()
	if s.seq != nil {
		s.pending = s.seq.Restart(s.ctx)
	} else {
		s.pending = s.loader.Restart(s.ctx)
	}
	s.logger.Info("run restart", "run", s.runID)
}

func (s *Session) recordCompletion() {
	if s.seq == nil || s.recorded || !s.seq.Completed() {
		return
	}
	s.recorded = true
	elapsed, ok := s.timer.Elapsed(s.seq.Level())
	if !ok || s.recorder == nil {
		return
	}
	if err := s.recorder.SaveLevelTime(s.ctx, s.loader.Pack().ID(), s.seq.Level(), elapsed, s.runID); err != nil {
		s.logger.Warn("cannot save level time", "level", s.seq.Level(), "err", err)
	}
}

// TogglePause pauses or resumes the simulation, the level timer and the
// music.
func (s *Session) TogglePause() {
	n := s.loader.LevelNumber()
	if !s.paused {
		s.paused = true
		s.timerPaused = s.timer.Running(n)
		if s.timerPaused {
			s.timer.Pause(n)
		}
		s.sound.PauseBGM()
		return
	}
	s.paused = false
	if s.timerPaused {
		s.timer.Resume(n)
		s.timerPaused = false
	}
	s.sound.UnpauseBGM()
}

// ReloadPack swaps in a new version of the pack. The current level keeps
// running; the change applies from the next load.
func (s *Session) ReloadPack(p *level.Pack) {
	s.loader.SetPack(p)
	s.logger.Info("pack reloaded", "pack", p.ID(), "levels", p.Len())
}

// Close stops background work and releases audio.
func (s *Session) Close() {
	s.cancel()
	if s.seq != nil {
		s.seq.End()
	}
	s.pressSub.Cancel()
	s.sound.Close()
}

// State returns the session status for the platform.
func (s *Session) State() core.GameState {
	st := core.GameState{
		Level:    s.loader.LevelNumber(),
		Levels:   s.loader.TotalLevels(),
		Score:    s.score.Score(),
		Target:   s.score.Target(),
		Paused:   s.paused,
		Finished: s.finished,
	}
	switch {
	case s.finished:
		st.Phase = "finished"
	case s.pending != nil || s.seq == nil:
		st.Phase = "loading"
	default:
		st.Phase = s.seq.Phase().String()
	}
	return st
}

// Phase returns the current level phase, or Idle between levels.
func (s *Session) Phase() sequencer.Phase {
	if s.seq == nil {
		return sequencer.Idle
	}
	return s.seq.Phase()
}

// Elapsed returns the current level's time so far.
func (s *Session) Elapsed() time.Duration {
	d, _ := s.timer.Elapsed(s.loader.LevelNumber())
	return d
}

// LevelTimes returns the recorded time of every level in this run.
func (s *Session) LevelTimes() map[int]time.Duration {
	out := make(map[int]time.Duration)
	for _, n := range s.timer.Levels() {
		d, _ := s.timer.Elapsed(n)
		out[n] = d
	}
	return out
}

// FinishText returns the finish screen message once the pack is complete.
func (s *Session) FinishText() string {
	return s.finishText
}

// Level returns the level being played, or nil while the first loads.
func (s *Session) Level() *level.Level {
	return s.lvl
}

// World returns the current physics world.
func (s *Session) World() *physics.World {
	return s.world
}

// Director returns the current gravity director.
func (s *Session) Director() *gravity.Director {
	return s.director
}

// Sound returns the session's sound manager.
func (s *Session) Sound() *audio.SoundManager {
	return s.sound
}

// Button returns the advance button.
func (s *Session) Button() *fade.Button {
	return s.button
}

// LoadErr returns the last level load error.
func (s *Session) LoadErr() error {
	return s.loadErr
}

// RunID returns the identifier of the current run.
func (s *Session) RunID() string {
	return s.runID
}

// Ticks returns the number of unpaused frames simulated.
func (s *Session) Ticks() int {
	return s.ticks
}

// Palette returns the colours for the current level.
func (s *Session) Palette() palette.Palette {
	if s.lvl != nil && s.lvl.Hue != nil {
		return palette.Base.Shift(*s.lvl.Hue)
	}
	return palette.ForLevel(s.loader.LevelNumber(), s.loader.TotalLevels())
}

// levelMusic lets a level pick its BGM track, falling back to the ordinal.
type levelMusic struct {
	sound *audio.SoundManager
	track int
}

func (m levelMusic) StartBGM(level int) {
	if m.track > 0 {
		level = m.track
	}
	m.sound.StartBGM(level)
}

func (m levelMusic) StopBGM() {
	m.sound.StopBGM()
}
