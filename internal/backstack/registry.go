package backstack

import (
	"sync"
	"time"
)

// suppressWindow bounds how long a marker push may be echoed back as a
// spurious gesture before the suppression guard disarms itself.
const suppressWindow = 50 * time.Millisecond

// Navigator is the slice of the host navigation primitive the Registry
// needs. *History implements it.
type Navigator interface {
	PushMarker()
	ReplaceCurrent()
	Pop()
	CurrentIsMarker() bool
	OnBack(fn func() bool)
}

// Surface is a late-bound view of a panel's rendered state, used only to
// pick the visually active panel when registration order and stacking order
// diverge.
type Surface interface {
	Visible() bool
}

// handle is the per-open-panel record: stable id, forced-close callback and
// an optional surface attached after the panel mounts.
type handle struct {
	id      string
	onClose func()
	surface Surface
}

// Registry owns the ordered list of open panels and all marker bookkeeping.
// One marker is pushed per registration, so owned marker count and stack
// depth stay in lockstep: each handled gesture consumes exactly one of each.
//
// The races here are races in event ordering, not in memory: the two guard
// flags absorb a push echo and overlapping gestures. The mutex exists only
// because guard-clearing timers fire on their own goroutines.
type Registry struct {
	mu    sync.Mutex
	nav   Navigator
	stack []*handle

	// markers counts history entries this registry still claims.
	markers int

	// suppress discards the next gesture notification: set around every
	// marker push, cleared by a bounded timer or by one discarded gesture.
	suppress       bool
	cancelSuppress func()

	// handling makes gesture processing re-entrant safe and tells
	// Unregister that the gesture cycle owns history reconciliation.
	handling bool

	// syncHost marks the navigator as synchronous and in-process: marker
	// pushes cannot echo back as gestures and gesture delivery cannot
	// overlap, so both guard windows collapse.
	syncHost bool

	schedule func(d time.Duration, fn func()) (cancel func())
}

var (
	sharedOnce sync.Once
	sharedReg  *Registry
)

// Shared returns the process-wide registry, constructing it lazily. Panels
// may register before a navigator is attached; history reconciliation starts
// once Attach is called.
func Shared() *Registry {
	sharedOnce.Do(func() { sharedReg = newRegistry(nil) })
	return sharedReg
}

// NewRegistry returns a registry independent of the shared one, for hosts
// that own their whole navigation stack.
func NewRegistry(nav Navigator) *Registry {
	return newRegistry(nav)
}

func newRegistry(nav Navigator) *Registry {
	r := &Registry{nav: nav, schedule: scheduleTimer}
	if nav != nil {
		nav.OnBack(r.handleBack)
	}
	return r
}

// Binding returns a fresh panel binding against this registry.
func (r *Registry) Binding() *Binding {
	return &Binding{reg: r}
}

// MarkSynchronousHost declares that the attached navigator delivers gestures
// synchronously on the caller's goroutine. The push-echo suppression window
// and the deferred handling clear exist for asynchronous hosts; a synchronous
// host skips both, since an echo cannot occur and gestures cannot overlap.
func (r *Registry) MarkSynchronousHost() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.syncHost = true
}

func scheduleTimer(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Attach wires the registry to the host navigation. Only the first attach
// takes effect; each execution context owns exactly one navigation surface.
func (r *Registry) Attach(nav Navigator) {
	r.mu.Lock()
	if r.nav != nil || nav == nil {
		r.mu.Unlock()
		return
	}
	r.nav = nav
	r.mu.Unlock()
	nav.OnBack(r.handleBack)
}

// Register adds a panel to the stack and pushes one marker for it. A
// registration for an id that is already present replaces it (new callback,
// new surface, moved to the top) and reuses its marker instead of pushing a
// second one.
func (r *Registry) Register(id string, onClose func(), surface Surface) {
	if id == "" {
		return
	}
	r.mu.Lock()
	replaced := r.removeLocked(id) != nil
	r.stack = append(r.stack, &handle{id: id, onClose: onClose, surface: surface})
	nav := r.nav
	push := nav != nil && !replaced
	if push {
		r.markers++
		r.armSuppressLocked()
	}
	r.mu.Unlock()
	if push {
		nav.PushMarker()
	}
}

// Unregister removes a panel from the stack. When the removal is driven by
// gesture handling the gesture cycle owns history reconciliation; otherwise
// (Cancel button, programmatic close) a now-empty stack gets its current
// marker replaced with a plain entry so no dangling back step remains.
// Interior markers of still-open panels are never retroactively removed.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	if r.removeLocked(id) == nil || r.handling {
		r.mu.Unlock()
		return
	}
	nav := r.nav
	replace := false
	if len(r.stack) == 0 && r.markers > 0 {
		replace = nav != nil && nav.CurrentIsMarker()
		r.markers = 0
	}
	r.mu.Unlock()
	if replace {
		nav.ReplaceCurrent()
	}
}

// UpdateHandle attaches a surface to an existing handle. No-op once the
// handle is gone.
func (r *Registry) UpdateHandle(id string, surface Surface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range r.stack {
		if h.id == id {
			h.surface = surface
			return
		}
	}
}

// Depth returns the number of currently registered panels.
func (r *Registry) Depth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stack)
}

// handleBack processes one back gesture. Returns true when the gesture is
// absorbed (a panel was closed, an echo was discarded, or a gesture overlapped
// one still being handled) and false when it should fall through to ordinary
// navigation.
func (r *Registry) handleBack() bool {
	r.mu.Lock()
	if r.suppress {
		r.suppress = false
		if r.cancelSuppress != nil {
			r.cancelSuppress()
			r.cancelSuppress = nil
		}
		r.mu.Unlock()
		return true
	}
	if r.handling {
		// Overlapping gestures are dropped, not queued.
		r.mu.Unlock()
		return true
	}
	if len(r.stack) == 0 || r.nav == nil || !r.nav.CurrentIsMarker() {
		r.mu.Unlock()
		return false
	}
	r.handling = true
	h := resolveActive(r.stack)
	r.removeLocked(h.id)
	if r.markers > 0 {
		r.markers--
	}
	nav := r.nav
	r.mu.Unlock()

	// Consume this gesture's marker before the close callback runs, so the
	// history already reads correctly if the panel's teardown inspects it.
	nav.Pop()
	if h.onClose != nil {
		h.onClose()
	}

	r.mu.Lock()
	replace := len(r.stack) == 0 && r.markers > 0 && nav.CurrentIsMarker()
	if replace {
		r.markers = 0
	}
	r.mu.Unlock()
	if replace {
		nav.ReplaceCurrent()
	}

	// Cleared on the next turn, not synchronously: the closed panel's own
	// unregister call may still be in flight and must see the flag set. A
	// synchronous host has no next turn; everything in flight has finished.
	r.mu.Lock()
	if r.syncHost {
		r.handling = false
		r.mu.Unlock()
		return true
	}
	r.mu.Unlock()
	r.schedule(0, func() {
		r.mu.Lock()
		r.handling = false
		r.mu.Unlock()
	})
	return true
}

func (r *Registry) armSuppressLocked() {
	if r.syncHost {
		return
	}
	if r.cancelSuppress != nil {
		r.cancelSuppress()
	}
	r.suppress = true
	r.cancelSuppress = r.schedule(suppressWindow, func() {
		r.mu.Lock()
		r.suppress = false
		r.cancelSuppress = nil
		r.mu.Unlock()
	})
}

// removeLocked removes and returns the handle with the given id, or nil.
func (r *Registry) removeLocked(id string) *handle {
	for i, h := range r.stack {
		if h.id == id {
			r.stack = append(r.stack[:i], r.stack[i+1:]...)
			return h
		}
	}
	return nil
}
