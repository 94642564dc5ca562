package backstack

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

var panelSeq atomic.Uint64

// nextPanelID generates a stable identity for one open/close cycle of a
// panel. Uniqueness among concurrently open panels is the only requirement.
func nextPanelID() string {
	return fmt.Sprintf("panel-%d-%s", panelSeq.Add(1), uuid.NewString()[:8])
}

// Binding is the per-panel adapter a view uses to participate in the stack.
// The zero value is not usable; construct with NewBinding.
type Binding struct {
	reg *Registry
	id  string
}

// NewBinding returns a binding against the shared registry.
func NewBinding() *Binding {
	return &Binding{reg: Shared()}
}

// Bind reconciles the binding with the panel's open state. While isOpen is
// true a back gesture will, at most once, invoke onClose; once false, no
// further gestures are attributed to this panel. Safe to call repeatedly in
// rapid succession: at most one registration exists per open panel instance.
func (b *Binding) Bind(isOpen bool, onClose func()) {
	switch {
	case isOpen:
		if b.id == "" {
			b.id = nextPanelID()
		}
		b.reg.Register(b.id, onClose, nil)
	case b.id != "":
		b.reg.Unregister(b.id)
		b.id = ""
	}
}

// AttachSurface late-binds the panel's rendered surface once it exists.
// No-op if the panel already closed.
func (b *Binding) AttachSurface(s Surface) {
	if b.id == "" {
		return
	}
	b.reg.UpdateHandle(b.id, s)
}

// Open reports whether the binding currently holds a registration.
func (b *Binding) Open() bool { return b.id != "" }
