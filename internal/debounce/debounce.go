// Package debounce suppresses repeated triggers of a control within a
// cool-down window.
package debounce

import "time"

// DefaultWindow is the cool-down applied to the select/back knob
const DefaultWindow = 600 * time.Millisecond

// Guard accepts an activation only when the previous accepted one is at
// least Window old. Discarded activations do not move the clock.
type Guard struct {
	window time.Duration
	now    func() time.Time
	last   time.Time
	primed bool
}

// NewGuard creates a guard. A nil clock uses time.Now; a zero window uses
// DefaultWindow.
func NewGuard(window time.Duration, now func() time.Time) *Guard {
	if window <= 0 {
		window = DefaultWindow
	}
	if now == nil {
		now = time.Now
	}
	return &Guard{window: window, now: now}
}

// Allow reports whether an activation arriving now should be acted upon
func (g *Guard) Allow() bool {
	t := g.now()
	if g.primed && t.Sub(g.last) < g.window {
		return false
	}
	g.last = t
	g.primed = true
	return true
}

// Window returns the configured cool-down
func (g *Guard) Window() time.Duration {
	return g.window
}
