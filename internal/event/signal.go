// Package event provides synchronous signals used to wire level components
// together without a service locator. Listeners run on the emitting
// goroutine, in subscription order, within the same simulation tick.
package event

// Signal is a multicast notification carrying a value of type T.
// A Signal is not safe for concurrent use; all emits and subscriptions
// happen on the simulation tick.
type Signal[T any] struct {
	subs []*Subscription
	fns  map[*Subscription]func(T)
}

// Subscription is the token returned for every listener.
// Cancelling it removes the listener; a single-use listener is cancelled
// automatically before its first invocation runs.
type Subscription struct {
	once   bool
	active bool
	remove func(*Subscription)
}

// Cancel removes the listener. Calling Cancel more than once is a no-op.
func (s *Subscription) Cancel() {
	if s == nil || !s.active {
		return
	}
	s.active = false
	if s.remove != nil {
		s.remove(s)
	}
}

// Active reports whether the listener will still be invoked.
func (s *Subscription) Active() bool {
	return s != nil && s.active
}

// Subscribe registers a persistent listener.
func (sig *Signal[T]) Subscribe(fn func(T)) *Subscription {
	return sig.add(fn, false)
}

// Once registers a single-use listener. The subscription is consumed
// before fn runs, so fn may freely emit the same signal again.
func (sig *Signal[T]) Once(fn func(T)) *Subscription {
	return sig.add(fn, true)
}

func (sig *Signal[T]) add(fn func(T), once bool) *Subscription {
	if sig.fns == nil {
		sig.fns = make(map[*Subscription]func(T))
	}
	sub := &Subscription{once: once, active: true}
	sub.remove = sig.remove
	sig.subs = append(sig.subs, sub)
	sig.fns[sub] = fn
	return sub
}

func (sig *Signal[T]) remove(sub *Subscription) {
	for i, s := range sig.subs {
		if s == sub {
			sig.subs = append(sig.subs[:i], sig.subs[i+1:]...)
			break
		}
	}
	delete(sig.fns, sub)
}

// Emit invokes every active listener with v.
// Listeners added while emitting are not invoked by this emit.
func (sig *Signal[T]) Emit(v T) {
	if len(sig.subs) == 0 {
		return
	}
	snapshot := make([]*Subscription, len(sig.subs))
	copy(snapshot, sig.subs)

	for _, sub := range snapshot {
		if !sub.active {
			continue
		}
		fn := sig.fns[sub]
		if sub.once {
			sub.Cancel()
		}
		if fn != nil {
			fn(v)
		}
	}
}

// Len returns the number of active listeners.
func (sig *Signal[T]) Len() int {
	return len(sig.subs)
}

// Clear cancels every listener.
func (sig *Signal[T]) Clear() {
	for len(sig.subs) > 0 {
		sig.subs[0].Cancel()
	}
}

// Trigger is a Signal without a payload, used for fade completion and
// button presses.
type Trigger = Signal[struct{}]

// Fire emits a payload-free trigger.
func Fire(t *Trigger) {
	t.Emit(struct{}{})
}

// Group collects subscriptions so they can be released together when the
// owner's lifecycle ends.
type Group struct {
	subs []*Subscription
}

// Add records a subscription and returns it.
func (g *Group) Add(sub *Subscription) *Subscription {
	g.subs = append(g.subs, sub)
	return sub
}

// CancelAll cancels every recorded subscription and forgets them.
func (g *Group) CancelAll() {
	for _, sub := range g.subs {
		sub.Cancel()
	}
	g.subs = nil
}

// Active returns how many recorded subscriptions are still live.
func (g *Group) Active() int {
	n := 0
	for _, sub := range g.subs {
		if sub.Active() {
			n++
		}
	}
	return n
}
