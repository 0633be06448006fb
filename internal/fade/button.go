package fade

import "github.com/vovakirdan/tumble/internal/event"

// LabelNext is the button label.
const LabelNext = "Next Level"

// Button is the fadeable advance affordance shown after a level ends.
// It accepts presses from the moment it starts fading in until it starts
// fading out.
type Button struct {
	*Text
	interactive bool

	// OnPressed fires when the button is pressed while interactive.
	OnPressed event.Trigger
}

// NewButton creates an invisible, non-interactive button labelled "Next Level".
func NewButton(d Durations) *Button {
	b := &Button{Text: NewText(d)}
	b.SetText(LabelNext)
	return b
}

// FadeIn makes the button interactive and starts fading it in.
func (b *Button) FadeIn() {
	b.interactive = true
	b.Text.FadeIn()
}

// FadeOut disables the button and starts fading it out.
func (b *Button) FadeOut() {
	b.interactive = false
	b.Text.FadeOut()
}

// Interactive reports whether presses are accepted.
func (b *Button) Interactive() bool {
	return b.interactive
}

// Press fires OnPressed when the button is interactive.
// It reports whether the press was accepted.
func (b *Button) Press() bool {
	if !b.interactive {
		return false
	}
	event.Fire(&b.OnPressed)
	return true
}
