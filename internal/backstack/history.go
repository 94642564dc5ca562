package backstack

// entry is one slot in the linear navigation log. A marker entry keeps the
// name of the route below it: it is "the same place, flagged" so that
// stripping the flag never changes where the app is.
type entry struct {
	name   string
	marker bool
}

// History is the in-process linear navigation log the app navigates with.
// It is the host primitive the Registry reconciles against. All methods are
// expected to be called from the single UI event loop; History itself does
// no locking.
type History struct {
	entries []entry
	onBack  []func() bool
}

// NewHistory returns a history seeded with one plain root entry.
func NewHistory(root string) *History {
	return &History{entries: []entry{{name: root}}}
}

// Push appends a plain route entry.
func (h *History) Push(name string) {
	h.entries = append(h.entries, entry{name: name})
}

// PushMarker appends an entry tagged as owned by the modal controller.
func (h *History) PushMarker() {
	name := ""
	if n := len(h.entries); n > 0 {
		name = h.entries[n-1].name
	}
	h.entries = append(h.entries, entry{name: name, marker: true})
}

// ReplaceCurrent strips the marker tag from the top entry, leaving a plain
// entry in place so no dangling back step remains navigable as a marker.
func (h *History) ReplaceCurrent() {
	if n := len(h.entries); n > 0 {
		h.entries[n-1].marker = false
	}
}

// Pop removes the top entry without emitting a back gesture. The Registry
// uses it to consume the marker a handled gesture spent.
func (h *History) Pop() {
	if n := len(h.entries); n > 1 {
		h.entries = h.entries[:n-1]
	}
}

// CurrentIsMarker reports whether the top entry is controller-owned.
func (h *History) CurrentIsMarker() bool {
	n := len(h.entries)
	return n > 0 && h.entries[n-1].marker
}

// Current returns the name of the top entry: the route the app should render.
func (h *History) Current() string {
	if n := len(h.entries); n > 0 {
		return h.entries[n-1].name
	}
	return ""
}

// Depth returns the number of entries, root included.
func (h *History) Depth() int { return len(h.entries) }

// OnBack registers a back-gesture handler. Handlers run while the top entry
// is still in place; returning true absorbs the gesture, and the handler then
// owns any history reconciliation for it.
func (h *History) OnBack(fn func() bool) {
	h.onBack = append(h.onBack, fn)
}

// Back delivers one back gesture. If no handler absorbs it, one entry is
// popped (ordinary navigation) and false is returned so the caller can react
// to the route change. The root entry is never popped.
func (h *History) Back() bool {
	for _, fn := range h.onBack {
		if fn() {
			return true
		}
	}
	if n := len(h.entries); n > 1 {
		h.entries = h.entries[:n-1]
	}
	return false
}
