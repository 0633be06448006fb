// Package sequencer runs the level state machine: intro, play, outro and
// the hand-off to the next level.
//
// A Sequencer is created for each level and coordinates collaborators it
// does not own. All transitions are driven by signals from those
// collaborators and happen on the simulation tick:
//
//	Idle --Begin--> IntroFading --intro faded out--> Playing
//	Playing --score completed--> OutroFading --Advance--> Idle
package sequencer

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tumble/internal/event"
	"github.com/vovakirdan/tumble/internal/fade"
	"github.com/vovakirdan/tumble/internal/level"
	"github.com/vovakirdan/tumble/internal/score"
	"github.com/vovakirdan/tumble/internal/timing"
)

// Phase is the sequencer's position in the level lifecycle.
type Phase int

const (
	Idle Phase = iota
	IntroFading
	Playing
	OutroFading
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case IntroFading:
		return "intro"
	case Playing:
		return "playing"
	case OutroFading:
		return "outro"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

var (
	// ErrMissingDependency is wrapped by every MissingDependencyError.
	ErrMissingDependency = errors.New("sequencer: missing dependency")
	// ErrNotFinished is returned by Advance before the level is complete.
	ErrNotFinished = errors.New("sequencer: level not finished")
	// ErrPackFinished is returned by Advance after the last level of the
	// pack; the caller shows the finish screen and may Restart.
	ErrPackFinished = errors.New("sequencer: pack finished")
)

// MissingDependencyError names the collaborator that was not supplied.
type MissingDependencyError struct {
	Field string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("sequencer: missing dependency %s", e.Field)
}

func (e *MissingDependencyError) Unwrap() error {
	return ErrMissingDependency
}

// Loader loads levels by ordinal. Each request yields one result.
type Loader interface {
	LevelNumber() int
	TotalLevels() int
	LoadNextLevel(ctx context.Context) <-chan level.Result
	Restart(ctx context.Context) <-chan level.Result
}

// Toggle is a component the sequencer switches on for play and off after.
type Toggle interface {
	SetEnabled(enabled bool)
}

// Music starts and stops the level's background music.
type Music interface {
	StartBGM(level int)
	StopBGM()
}

// Deps are the collaborators of one level. The sequencer does not own them.
type Deps struct {
	Loader  Loader
	Camera  Toggle
	Gravity Toggle
	Music   Music
	Score   *score.Tracker
	Timer   *timing.Tracker
	Intro   *fade.IntroText
	Outro   *fade.OutroText
	Button  *fade.Button

	// Logger is optional; log.Default() is used when nil.
	Logger *log.Logger
}

func (d Deps) validate() error {
	checks := []struct {
		name    string
		missing bool
	}{
		{"Loader", d.Loader == nil},
		{"Camera", d.Camera == nil},
		{"Gravity", d.Gravity == nil},
		{"Music", d.Music == nil},
		{"Score", d.Score == nil},
		{"Timer", d.Timer == nil},
		{"Intro", d.Intro == nil || d.Intro.Text == nil},
		{"Outro", d.Outro == nil || d.Outro.Text == nil},
		{"Button", d.Button == nil || d.Button.Text == nil},
	}
	for _, c := range checks {
		if c.missing {
			return &MissingDependencyError{Field: c.name}
		}
	}
	return nil
}

// Sequencer coordinates one level from intro to outro.
type Sequencer struct {
	deps   Deps
	logger *log.Logger

	phase     Phase
	level     int
	completed bool
	outros    int
	subs      event.Group
}

// New checks that every collaborator is present. Nothing is subscribed
// until Begin.
func New(deps Deps) (*Sequencer, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Sequencer{deps: deps, logger: logger}, nil
}

// Begin starts the level the loader last loaded. counter supplies the
// number of targets to hit.
func (s *Sequencer) Begin(counter score.TargetCounter) {
	d := s.deps
	s.subs.CancelAll()
	s.completed = false
	s.level = d.Loader.LevelNumber()

	s.subs.Add(d.Score.OnScoreChanged.Subscribe(s.onScoreChanged))
	s.subs.Add(d.Intro.OnFadedIn.Once(s.onIntroFadedIn))
	s.subs.Add(d.Intro.OnFadedOut.Once(s.onIntroFadedOut))

	// The intro may still be showing from the level this one replaced.
	d.Intro.Reset()
	d.Intro.SetLevel(s.level)
	d.Intro.FadeIn()

	d.Outro.FadeOut()
	d.Button.FadeOut()

	d.Score.Initialize(counter)
	s.phase = IntroFading
	s.logger.Info("level begin", "level", s.level, "targets", d.Score.Target())
}

func (s *Sequencer) onIntroFadedIn(struct{}) {
	s.deps.Intro.FadeOut()
}

func (s *Sequencer) onIntroFadedOut(struct{}) {
	d := s.deps
	d.Camera.SetEnabled(true)
	d.Gravity.SetEnabled(true)
	d.Music.StartBGM(s.level)
	d.Timer.StartTimer(s.level)
	s.phase = Playing
	s.logger.Debug("level playing", "level", s.level)

	// A level without targets is complete as soon as play starts.
	if d.Score.Completed() {
		s.complete()
	}
}

func (s *Sequencer) onScoreChanged(int) {
	if s.phase != Playing || s.completed {
		return
	}
	if !s.deps.Score.Completed() {
		return
	}
	s.complete()
}

func (s *Sequencer) complete() {
	d := s.deps
	s.completed = true

	d.Timer.StopTimer(s.level)
	d.Music.StopBGM()

	elapsed, _ := d.Timer.Elapsed(s.level)
	d.Outro.SetFinishedLevel(s.level, elapsed)

	d.Gravity.SetEnabled(false)

	d.Outro.FadeIn()
	d.Button.FadeIn()
	s.outros++
	s.phase = OutroFading
	s.logger.Info("level complete", "level", s.level, "time", timing.FormatClock(elapsed))
}

// Advance requests the next level. It is only valid once the level is
// complete. After the last level it returns ErrPackFinished. On success the
// level's listeners are released before the load is requested.
func (s *Sequencer) Advance(ctx context.Context) (<-chan level.Result, error) {
	if s.phase != OutroFading {
		return nil, ErrNotFinished
	}
	if s.level >= s.deps.Loader.TotalLevels() {
		return nil, ErrPackFinished
	}
	s.subs.CancelAll()
	s.deps.Button.FadeOut()
	s.phase = Idle
	return s.deps.Loader.LoadNextLevel(ctx), nil
}

// Restart asks the loader for the first level again. The current level
// stops reacting to score and intro signals at once.
func (s *Sequencer) Restart(ctx context.Context) <-chan level.Result {
	s.subs.CancelAll()
	s.deps.Button.FadeOut()
	s.phase = Idle
	return s.deps.Loader.Restart(ctx)
}

// End releases every subscription made for this level.
func (s *Sequencer) End() {
	s.subs.CancelAll()
	s.phase = Idle
}

// Phase returns the current phase.
func (s *Sequencer) Phase() Phase {
	return s.phase
}

// Level returns the ordinal captured at Begin.
func (s *Sequencer) Level() int {
	return s.level
}

// Completed reports whether the level has been finished.
func (s *Sequencer) Completed() bool {
	return s.completed
}

// OutroCount returns how many times the outro was started for this
// sequencer.
func (s *Sequencer) OutroCount() int {
	return s.outros
}

// Subscriptions returns how many of the sequencer's listeners are live.
func (s *Sequencer) Subscriptions() int {
	return s.subs.Active()
}
