package fade

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tumble/internal/event"
	"github.com/vovakirdan/tumble/internal/timing"
)

// Durations configures how long an element takes to fade in and out, in seconds.
type Durations struct {
	In  float64
	Out float64
}

// Text is a fadeable line (or lines) of text. It starts invisible.
type Text struct {
	text      string
	fade      Fade
	durations Durations

	// OnFadedIn fires when a fade-in completes.
	OnFadedIn event.Trigger
	// OnFadedOut fires when a fade-out completes.
	OnFadedOut event.Trigger
}

// NewText creates an invisible text element.
func NewText(d Durations) *Text {
	return &Text{fade: NewFade(0), durations: d}
}

// SetText replaces the displayed text.
func (t *Text) SetText(s string) {
	t.text = s
}

// Content returns the displayed text.
func (t *Text) Content() string {
	return t.text
}

// Alpha returns the current opacity.
func (t *Text) Alpha() float64 {
	return t.fade.Value()
}

// Visible reports whether any part of the text can be seen.
func (t *Text) Visible() bool {
	return t.fade.Value() > 0
}

// Fading reports whether a transition is in flight.
func (t *Text) Fading() bool {
	return t.fade.Active()
}

// Reset hides the text at once and drops any transition in flight.
func (t *Text) Reset() {
	t.fade = NewFade(0)
}

// FadeIn starts fading to full opacity.
func (t *Text) FadeIn() {
	t.fade.To(1, t.durations.In)
}

// FadeOut starts fading to transparent.
func (t *Text) FadeOut() {
	t.fade.To(0, t.durations.Out)
}

// Tick advances the fade by dt seconds and fires the completion signal for
// the direction that just finished.
func (t *Text) Tick(dt float64) {
	if !t.fade.Advance(dt) {
		return
	}
	if t.fade.Target() >= 1 {
		event.Fire(&t.OnFadedIn)
	} else {
		event.Fire(&t.OnFadedOut)
	}
}

// IntroText announces the level about to start.
type IntroText struct {
	*Text
}

// NewIntroText creates an invisible intro text.
func NewIntroText(d Durations) *IntroText {
	return &IntroText{Text: NewText(d)}
}

// SetLevel shows "Level n".
func (t *IntroText) SetLevel(n int) {
	t.SetText(fmt.Sprintf("Level %d", n))
}

// OutroText reports how the level ended.
type OutroText struct {
	*Text
}

// NewOutroText creates an invisible outro text.
func NewOutroText(d Durations) *OutroText {
	return &OutroText{Text: NewText(d)}
}

// SetFinishedLevel shows the finished-level message with the level time.
func (t *OutroText) SetFinishedLevel(n int, elapsed time.Duration) {
	t.SetText(fmt.Sprintf("You finished level %d\nTime %s", n, timing.FormatClock(elapsed)))
}
