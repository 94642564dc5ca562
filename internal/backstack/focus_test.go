package backstack

import "testing"

type fakeSurface struct{ visible bool }

func (s fakeSurface) Visible() bool { return s.visible }

func TestResolveActivePureLIFOWithoutSurfaces(t *testing.T) {
	stack := []*handle{{id: "a"}, {id: "b"}, {id: "c"}}
	if got := resolveActive(stack); got.id != "c" {
		t.Fatalf("resolved %q, want c", got.id)
	}
}

func TestResolveActivePrefersVisibleSurface(t *testing.T) {
	// b was dismissed by other means but its teardown has not unregistered
	// yet; plain LIFO would wrongly target the invisible panel.
	stack := []*handle{
		{id: "a", surface: fakeSurface{visible: true}},
		{id: "b", surface: fakeSurface{visible: false}},
	}
	if got := resolveActive(stack); got.id != "a" {
		t.Fatalf("resolved %q, want a", got.id)
	}
}

func TestResolveActiveFallsBackWhenNoneVisible(t *testing.T) {
	stack := []*handle{
		{id: "a", surface: fakeSurface{visible: false}},
		{id: "b", surface: fakeSurface{visible: false}},
	}
	if got := resolveActive(stack); got.id != "b" {
		t.Fatalf("resolved %q, want b (LIFO fallback)", got.id)
	}
}

func TestResolveActiveIgnoresUnmountedSurfaces(t *testing.T) {
	stack := []*handle{
		{id: "a", surface: fakeSurface{visible: true}},
		{id: "b"}, // surface not attached yet
	}
	if got := resolveActive(stack); got.id != "a" {
		t.Fatalf("resolved %q, want a", got.id)
	}
}

func TestGestureClosesVisiblePanelAfterOutOfOrderDismissal(t *testing.T) {
	r, h, ms := newTestRegistry()
	aCalls, bCalls := 0, 0
	r.Register("a", func() { aCalls++ }, fakeSurface{visible: true})
	r.Register("b", func() { bCalls++ }, nil)
	r.UpdateHandle("b", fakeSurface{visible: false})
	ms.fire()

	h.Back()
	if aCalls != 1 || bCalls != 0 {
		t.Fatalf("callback calls = (a=%d, b=%d), want (1, 0)", aCalls, bCalls)
	}
	if got := stackIDs(r); len(got) != 1 || got[0] != "b" {
		t.Fatalf("stack = %v, want [b]", got)
	}
}
