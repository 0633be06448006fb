package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tumble/internal/storage"
)

type fakeTimes struct {
	levels []storage.LevelTime
	runs   []storage.Run
	err    error
}

func (f fakeTimes) BestLevelTimes(context.Context, string) ([]storage.LevelTime, error) {
	return f.levels, f.err
}

func (f fakeTimes) TopRuns(context.Context, string, int) ([]storage.Run, error) {
	return f.runs, f.err
}

func TestTimesBoardViews(t *testing.T) {
	src := fakeTimes{
		levels: []storage.LevelTime{
			{Pack: "classic", Level: 1, Elapsed: 3 * time.Second},
			{Pack: "classic", Level: 2, Elapsed: 65 * time.Second},
		},
		runs: []storage.Run{{ID: "r1", Pack: "classic", Total: 90 * time.Second, Levels: 5}},
	}
	m := NewTimesModel(src, 100, 30)

	rows := m.Rows()
	if len(rows) != 2 {
		t.Fatalf("level rows = %d, want 2", len(rows))
	}
	if rows[1][1] != "00:01:05" {
		t.Errorf("level 2 best = %q", rows[1][1])
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(TimesModel)
	rows = m.Rows()
	if len(rows) != 1 || rows[0][1] != "00:01:30" || rows[0][2] != "5" {
		t.Errorf("run rows = %v", rows)
	}
}

func TestTimesBoardEmptyAndErrors(t *testing.T) {
	if m := NewTimesModel(nil, 100, 30); len(m.Rows()) != 0 {
		t.Error("no source should list nothing")
	}

	m := NewTimesModel(fakeTimes{err: errors.New("boom")}, 100, 30)
	if m.loadErr == nil {
		t.Error("load error should be kept for display")
	}
}

func TestTimesBoardBack(t *testing.T) {
	m := NewTimesModel(nil, 100, 30)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(TimesModel).IsGoingBack() {
		t.Error("esc should go back")
	}
}
