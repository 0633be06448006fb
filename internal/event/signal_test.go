package event

import "testing"

func TestSignalSubscribeEmit(t *testing.T) {
	var sig Signal[int]
	var got []int

	sig.Subscribe(func(v int) { got = append(got, v) })
	sig.Subscribe(func(v int) { got = append(got, v*10) })

	sig.Emit(1)
	sig.Emit(2)

	expected := []int{1, 10, 2, 20}
	if len(got) != len(expected) {
		t.Fatalf("got %v, expected %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("got[%d] = %d, expected %d", i, got[i], expected[i])
		}
	}
}

func TestSignalOnceConsumedOnFirstCall(t *testing.T) {
	var sig Trigger
	calls := 0

	sub := sig.Once(func(struct{}) { calls++ })
	if !sub.Active() {
		t.Fatal("Once subscription should start active")
	}

	Fire(&sig)
	Fire(&sig)
	Fire(&sig)

	if calls != 1 {
		t.Errorf("Once listener called %d times, expected 1", calls)
	}
	if sub.Active() {
		t.Error("Once subscription should be consumed after first call")
	}
	if sig.Len() != 0 {
		t.Errorf("Len() = %d, expected 0", sig.Len())
	}
}

func TestSignalOnceReentrantEmit(t *testing.T) {
	// A single-use listener that re-emits must not be invoked again.
	var sig Trigger
	calls := 0

	sig.Once(func(struct{}) {
		calls++
		Fire(&sig)
	})
	Fire(&sig)

	if calls != 1 {
		t.Errorf("re-entrant emit invoked listener %d times, expected 1", calls)
	}
}

func TestSignalCancel(t *testing.T) {
	var sig Signal[string]
	calls := 0

	sub := sig.Subscribe(func(string) { calls++ })
	sig.Emit("a")
	sub.Cancel()
	sub.Cancel() // idempotent
	sig.Emit("b")

	if calls != 1 {
		t.Errorf("calls = %d, expected 1", calls)
	}
}

func TestSignalListenerAddedDuringEmit(t *testing.T) {
	var sig Signal[int]
	late := 0

	sig.Subscribe(func(int) {
		sig.Subscribe(func(int) { late++ })
	})

	sig.Emit(1)
	if late != 0 {
		t.Errorf("listener added during emit ran %d times in that emit", late)
	}

	sig.Emit(2)
	if late != 1 {
		t.Errorf("late listener ran %d times after second emit, expected 1", late)
	}
}

func TestSignalCancelDuringEmit(t *testing.T) {
	var sig Signal[int]
	var second *Subscription
	secondCalls := 0

	sig.Subscribe(func(int) { second.Cancel() })
	second = sig.Subscribe(func(int) { secondCalls++ })

	sig.Emit(1)
	if secondCalls != 0 {
		t.Errorf("listener cancelled earlier in the same emit ran %d times", secondCalls)
	}
}

func TestGroupCancelAll(t *testing.T) {
	var a, b Trigger
	var g Group
	calls := 0

	g.Add(a.Subscribe(func(struct{}) { calls++ }))
	g.Add(b.Once(func(struct{}) { calls++ }))

	if g.Active() != 2 {
		t.Errorf("Active() = %d, expected 2", g.Active())
	}

	g.CancelAll()
	Fire(&a)
	Fire(&b)

	if calls != 0 {
		t.Errorf("cancelled group listeners ran %d times", calls)
	}
	if g.Active() != 0 {
		t.Errorf("Active() after CancelAll = %d, expected 0", g.Active())
	}
}

func TestSignalClear(t *testing.T) {
	var sig Signal[int]
	sig.Subscribe(func(int) {})
	sig.Once(func(int) {})

	sig.Clear()
	if sig.Len() != 0 {
		t.Errorf("Len() after Clear = %d, expected 0", sig.Len())
	}
}
