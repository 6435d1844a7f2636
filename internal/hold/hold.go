// Package hold classifies how long a switch was held down.
package hold

import (
	"time"
)

// Class is the classification of a press, named after the host's switch
// action suffixes
type Class string

const (
	Short Class = "S"
	Bold  Class = "B"
	Long  Class = "L"
)

// Thresholds between classes. A duration equal to a threshold falls into the
// longer class.
const (
	BoldAfter = 500 * time.Millisecond
	LongAfter = 1500 * time.Millisecond
)

// Classify maps a hold duration onto a class
func Classify(d time.Duration) Class {
	switch {
	case d < BoldAfter:
		return Short
	case d < LongAfter:
		return Bold
	default:
		return Long
	}
}

// Registry records press start times per switch id
type Registry struct {
	now     func() time.Time
	pressed map[int]time.Time
}

// NewRegistry creates a registry. A nil clock uses time.Now.
func NewRegistry(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{now: now, pressed: make(map[int]time.Time)}
}

// Press records the start of a press. Pressing an id that is already
// pending restarts its timer.
func (r *Registry) Press(id int) {
	r.pressed[id] = r.now()
}

// Release consumes the pending press for id. It returns false when there is
// no matching press, which callers treat as a no-op.
func (r *Registry) Release(id int) (Class, time.Duration, bool) {
	start, ok := r.pressed[id]
	if !ok {
		return "", 0, false
	}
	delete(r.pressed, id)

	d := r.now().Sub(start)
	return Classify(d), d, true
}

// Pending reports whether a press for id is waiting for its release
func (r *Registry) Pending(id int) bool {
	_, ok := r.pressed[id]
	return ok
}

// Clear drops every pending press and returns how many were dropped
func (r *Registry) Clear() int {
	n := len(r.pressed)
	clear(r.pressed)
	return n
}
