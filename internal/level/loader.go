package level

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
)

// Result is the outcome of one load request.
type Result struct {
	Level *Level
	Err   error
}

// Loader loads levels of a pack by ordinal in the background.
//
// Every request returns a channel that yields exactly one Result. The level
// number changes as soon as a load is requested so the UI can announce the
// level while it is still loading.
type Loader struct {
	mu     sync.Mutex
	pack   *Pack
	number int
	next   int
	logger *log.Logger
}

// NewLoader creates a loader positioned before the first level.
func NewLoader(pack *Pack, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{pack: pack, number: 1, logger: logger}
}

// LevelNumber returns the ordinal of the current (or loading) level.
func (l *Loader) LevelNumber() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.number
}

// TotalLevels returns the number of levels in the pack.
func (l *Loader) TotalLevels() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pack.Len()
}

// Pack returns the pack levels are loaded from.
func (l *Loader) Pack() *Pack {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pack
}

// SetPack replaces the pack. The change applies to the next load request.
func (l *Loader) SetPack(p *Pack) {
	l.mu.Lock()
	l.pack = p
	l.mu.Unlock()
}

// LoadNextLevel loads the level after the last one requested. The first
// call loads level 1.
func (l *Loader) LoadNextLevel(ctx context.Context) <-chan Result {
	l.mu.Lock()
	ordinal := l.next + 1
	l.mu.Unlock()
	return l.AdvanceToLevel(ctx, ordinal)
}

// AdvanceToLevel loads the level with the given ordinal.
// An ordinal outside the pack yields ErrNoSuchLevel and leaves the level
// number unchanged.
func (l *Loader) AdvanceToLevel(ctx context.Context, ordinal int) <-chan Result {
	out := make(chan Result, 1)

	l.mu.Lock()
	pack := l.pack
	if ordinal >= 1 && ordinal <= pack.Len() {
		l.next = ordinal
		l.number = ordinal
	}
	l.mu.Unlock()

	go func() {
		if err := ctx.Err(); err != nil {
			out <- Result{Err: err}
			return
		}
		lvl, err := pack.Level(ordinal)
		if err != nil {
			l.logger.Error("level load failed", "pack", pack.ID(), "level", ordinal, "err", err)
			out <- Result{Err: err}
			return
		}
		l.logger.Debug("level loaded", "pack", pack.ID(), "level", ordinal, "name", lvl.Name, "targets", lvl.HittableTargets())
		out <- Result{Level: lvl}
	}()
	return out
}

// Restart loads the first level again.
func (l *Loader) Restart(ctx context.Context) <-chan Result {
	return l.AdvanceToLevel(ctx, 1)
}
