package backstack

import "testing"

func TestBindingRegistersOncePerOpenInstance(t *testing.T) {
	r, _, _ := newTestRegistry()
	b := &Binding{reg: r}

	b.Bind(true, func() {})
	b.Bind(true, func() {}) // re-invoked setup path for the same panel
	b.Bind(true, func() {})
	if r.Depth() != 1 {
		t.Fatalf("depth = %d, want 1", r.Depth())
	}

	b.Bind(false, nil)
	if r.Depth() != 0 {
		t.Fatalf("depth after close = %d, want 0", r.Depth())
	}
	if b.Open() {
		t.Fatalf("binding still reports open after close")
	}
}

func TestBindingGeneratesFreshIDPerCycle(t *testing.T) {
	r, _, _ := newTestRegistry()
	b := &Binding{reg: r}

	b.Bind(true, func() {})
	first := b.id
	b.Bind(false, nil)
	b.Bind(true, func() {})
	second := b.id

	if first == "" || second == "" || first == second {
		t.Fatalf("ids not unique per open cycle: %q vs %q", first, second)
	}
}

func TestBindingCloseWhenNeverOpened(t *testing.T) {
	r, _, _ := newTestRegistry()
	b := &Binding{reg: r}
	b.Bind(false, nil) // must tolerate unbinding before ever opening
	if r.Depth() != 0 {
		t.Fatalf("depth = %d, want 0", r.Depth())
	}
}

func TestBindingSurfaceAttachAfterCloseIsNoOp(t *testing.T) {
	r, _, _ := newTestRegistry()
	b := &Binding{reg: r}
	b.Bind(true, func() {})
	b.Bind(false, nil)
	b.AttachSurface(fakeSurface{visible: true}) // handle is gone
	if r.Depth() != 0 {
		t.Fatalf("depth = %d, want 0", r.Depth())
	}
}

func TestBindingGestureClosesBoundPanel(t *testing.T) {
	r, h, ms := newTestRegistry()
	b := &Binding{reg: r}
	requested := 0
	b.Bind(true, func() { requested++ })
	b.AttachSurface(fakeSurface{visible: true})
	ms.fire()

	h.Back()
	if requested != 1 {
		t.Fatalf("onCloseRequest calls = %d, want 1", requested)
	}
	// The panel reacts to the close request by unbinding.
	b.Bind(false, nil)
	if r.Depth() != 0 {
		t.Fatalf("depth = %d, want 0", r.Depth())
	}
}
