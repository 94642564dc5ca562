// Package backstack makes a single linear back-navigation affordance behave
// like a LIFO stack of independently closeable overlay panels.
//
// The app routes through a History (the linear navigation log). Every open
// panel registers with the process-wide Registry, which pushes one marker
// entry onto the history per registration. A back gesture that arrives while
// a marker is current closes exactly one panel instead of navigating; once no
// panels remain, gestures fall through to ordinary navigation.
package backstack
