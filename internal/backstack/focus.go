package backstack

// resolveActive picks the panel a back gesture should close.
//
// Plain LIFO is correct while panels close in open order, but a panel that
// was dismissed by other means may still sit on top of the stack until its
// teardown unregisters it. Preferring the topmost handle whose surface
// reports itself visible closes the right panel in that window; with no
// surfaces to consult the topmost handle wins.
//
// The caller guarantees a non-empty stack.
func resolveActive(stack []*handle) *handle {
	for i := len(stack) - 1; i >= 0; i-- {
		if s := stack[i].surface; s != nil && s.Visible() {
			return stack[i]
		}
	}
	return stack[len(stack)-1]
}
