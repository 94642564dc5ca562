package backstack

import (
	"testing"
	"time"
)

// manualScheduler captures deferred work so tests control when guard flags
// clear, standing in for both the suppression timer and the next-turn
// deferral.
type manualScheduler struct {
	tasks []*func()
}

func (s *manualScheduler) schedule(_ time.Duration, fn func()) func() {
	slot := &fn
	s.tasks = append(s.tasks, slot)
	return func() { *slot = nil }
}

// fire runs every pending task, emptying the queue first so tasks scheduled
// while firing wait for the next fire.
func (s *manualScheduler) fire() {
	pending := s.tasks
	s.tasks = nil
	for _, slot := range pending {
		if *slot != nil {
			(*slot)()
		}
	}
}

func newTestRegistry() (*Registry, *History, *manualScheduler) {
	h := NewHistory("home")
	r := newRegistry(h)
	ms := &manualScheduler{}
	r.schedule = ms.schedule
	return r, h, ms
}

func stackIDs(r *Registry) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.stack))
	for _, h := range r.stack {
		ids = append(ids, h.id)
	}
	return ids
}

func TestSinglePanelRoundTrip(t *testing.T) {
	r, h, ms := newTestRegistry()
	closed := 0
	r.Register("a", func() { closed++ }, nil)
	ms.fire() // suppression window elapses

	if !h.Back() {
		t.Fatalf("gesture with one panel open should be absorbed")
	}
	if closed != 1 {
		t.Fatalf("onClose calls = %d, want 1", closed)
	}
	if r.Depth() != 0 {
		t.Fatalf("stack depth = %d, want 0", r.Depth())
	}
	if h.Depth() != 1 {
		t.Fatalf("history depth = %d, want 1 (marker consumed)", h.Depth())
	}

	ms.fire() // handling guard clears on the next turn
	if h.Back() {
		t.Fatalf("second gesture should fall through to ordinary navigation")
	}
	if closed != 1 {
		t.Fatalf("onClose calls after fall-through = %d, want 1", closed)
	}
}

func TestStackDepthTracksRegistrations(t *testing.T) {
	r, _, _ := newTestRegistry()
	r.Register("x", func() {}, nil)
	r.Register("y", func() {}, nil)
	r.Register("z", func() {}, nil)
	if r.Depth() != 3 {
		t.Fatalf("depth = %d, want 3", r.Depth())
	}
	r.Unregister("y")
	if r.Depth() != 2 {
		t.Fatalf("depth after interior unregister = %d, want 2", r.Depth())
	}
	r.Unregister("y") // already gone
	if r.Depth() != 2 {
		t.Fatalf("depth after duplicate unregister = %d, want 2", r.Depth())
	}
	r.Unregister("x")
	r.Unregister("z")
	if r.Depth() != 0 {
		t.Fatalf("depth = %d, want 0", r.Depth())
	}
}

func TestIdempotentRegistration(t *testing.T) {
	r, h, ms := newTestRegistry()
	firstCalls, secondCalls := 0, 0
	r.Register("x", func() { firstCalls++ }, nil)
	r.Register("x", func() { secondCalls++ }, nil)

	if r.Depth() != 1 {
		t.Fatalf("depth = %d, want 1", r.Depth())
	}
	if h.Depth() != 2 {
		t.Fatalf("history depth = %d, want 2 (re-register reuses the marker)", h.Depth())
	}

	ms.fire()
	h.Back()
	if firstCalls != 0 || secondCalls != 1 {
		t.Fatalf("callback calls = (%d, %d), want (0, 1)", firstCalls, secondCalls)
	}
}

func TestBackClosesInLIFOOrder(t *testing.T) {
	r, h, ms := newTestRegistry()
	var order []string
	r.Register("a", func() { order = append(order, "a") }, nil)
	r.Register("b", func() { order = append(order, "b") }, nil)
	ms.fire()

	h.Back()
	if len(order) != 1 || order[0] != "b" {
		t.Fatalf("first gesture closed %v, want [b]", order)
	}
	if got := stackIDs(r); len(got) != 1 || got[0] != "a" {
		t.Fatalf("stack = %v, want [a]", got)
	}

	ms.fire()
	h.Back()
	if len(order) != 2 || order[1] != "a" {
		t.Fatalf("second gesture closed %v, want [b a]", order)
	}
	if r.Depth() != 0 {
		t.Fatalf("stack depth = %d, want 0", r.Depth())
	}
}

func TestOverlappingGestureDropped(t *testing.T) {
	r, h, ms := newTestRegistry()
	aCalls, bCalls := 0, 0
	r.Register("a", func() { aCalls++ }, nil)
	r.Register("b", func() { bCalls++ }, nil)
	ms.fire()

	h.Back()
	// Same scheduling turn: the handling guard has not cleared yet.
	if !h.Back() {
		t.Fatalf("overlapping gesture should be absorbed, not passed through")
	}
	if bCalls != 1 || aCalls != 0 {
		t.Fatalf("callback calls = (a=%d, b=%d), want (0, 1)", aCalls, bCalls)
	}
	if r.Depth() != 1 {
		t.Fatalf("stack depth = %d, want 1", r.Depth())
	}
}

func TestPushEchoSuppressed(t *testing.T) {
	r, h, _ := newTestRegistry()
	closed := 0
	r.Register("a", func() { closed++ }, nil)

	// Synchronous echo of the marker push: discarded, history untouched.
	if !h.Back() {
		t.Fatalf("echo gesture should be absorbed")
	}
	if closed != 0 {
		t.Fatalf("echo gesture closed a panel")
	}
	if h.Depth() != 2 {
		t.Fatalf("history depth = %d, want 2", h.Depth())
	}

	// One echo is all the guard absorbs.
	h.Back()
	if closed != 1 {
		t.Fatalf("genuine gesture after echo: onClose calls = %d, want 1", closed)
	}
}

func TestSuppressionExpiresOnTimer(t *testing.T) {
	r, h, ms := newTestRegistry()
	closed := 0
	r.Register("a", func() { closed++ }, nil)
	ms.fire() // window elapses without any echo

	h.Back()
	if closed != 1 {
		t.Fatalf("gesture after window expiry: onClose calls = %d, want 1", closed)
	}
}

func TestSynchronousHostSkipsGuardWindows(t *testing.T) {
	r, h, _ := newTestRegistry()
	r.MarkSynchronousHost()
	var order []string
	r.Register("a", func() { order = append(order, "a") }, nil)
	r.Register("b", func() { order = append(order, "b") }, nil)

	// No suppression window and no deferred handling clear: two immediate
	// gestures close both panels.
	if !h.Back() || !h.Back() {
		t.Fatalf("gestures should be absorbed by the open panels")
	}
	if len(order) != 2 || order[0] != "b" || order[1] != "a" {
		t.Fatalf("close order = %v, want [b a]", order)
	}
	if h.Depth() != 1 {
		t.Fatalf("history depth = %d, want 1", h.Depth())
	}
}

func TestCleanTeardownWithoutGestures(t *testing.T) {
	r, h, ms := newTestRegistry()
	closed := 0
	for _, id := range []string{"a", "b", "c"} {
		r.Register(id, func() { closed++ }, nil)
	}
	ms.fire()

	// Explicit closes in arbitrary order, no gestures involved.
	r.Unregister("b")
	r.Unregister("a")
	r.Unregister("c")

	if r.Depth() != 0 {
		t.Fatalf("stack depth = %d, want 0", r.Depth())
	}
	if h.CurrentIsMarker() {
		t.Fatalf("current entry still tagged after all panels closed")
	}
	if h.Back() {
		t.Fatalf("gesture after teardown should fall through to navigation")
	}
	if closed != 0 {
		t.Fatalf("teardown invoked onClose %d times, want 0", closed)
	}
}

func TestUnregisterDuringGestureHandling(t *testing.T) {
	r, h, ms := newTestRegistry()
	aCalls := 0
	r.Register("a", func() { aCalls++ }, nil)
	// Panel teardown unregisters synchronously from within its own close
	// callback; the gesture cycle owns history reconciliation for it.
	r.Register("b", func() { r.Unregister("b") }, nil)
	ms.fire()

	h.Back()
	if got := stackIDs(r); len(got) != 1 || got[0] != "a" {
		t.Fatalf("stack = %v, want [a]", got)
	}
	if h.Depth() != 2 {
		t.Fatalf("history depth = %d, want 2 (one marker left for one panel)", h.Depth())
	}

	ms.fire()
	h.Back()
	if aCalls != 1 {
		t.Fatalf("onClose calls for a = %d, want 1", aCalls)
	}
	if r.Depth() != 0 || h.Depth() != 1 {
		t.Fatalf("stack depth = %d, history depth = %d, want 0 and 1", r.Depth(), h.Depth())
	}
}

func TestUnregisterBeforeAnyGesture(t *testing.T) {
	r, h, ms := newTestRegistry()
	r.Register("a", func() {}, nil)
	ms.fire()
	r.Unregister("a")

	if h.CurrentIsMarker() {
		t.Fatalf("marker should have been replaced with a plain entry")
	}
	if h.Back() {
		t.Fatalf("gesture should fall through once the stack is empty")
	}
}

func TestRegisterWithoutNavigator(t *testing.T) {
	r := newRegistry(nil)
	ms := &manualScheduler{}
	r.schedule = ms.schedule
	r.Register("a", func() {}, nil)
	r.Unregister("a")
	if r.Depth() != 0 {
		t.Fatalf("depth = %d, want 0", r.Depth())
	}
}

func TestSharedReturnsSameInstance(t *testing.T) {
	if Shared() != Shared() {
		t.Fatalf("Shared() returned distinct instances")
	}
}
