package debug

import "sync/atomic"

// enabled is the single process-wide gate named in spec.md §4.7/§5. It
// uses relaxed-equivalent ordering (plain atomic.Bool load/store); a stale
// read merely delays first-event observation by one instruction, which the
// spec explicitly tolerates.
var enabled atomic.Bool

// Enable turns on debug event emission process-wide.
func Enable() { enabled.Store(true) }

// Disable turns off debug event emission process-wide.
func Disable() { enabled.Store(false) }

// Enabled reports whether debug event emission is currently on.
func Enabled() bool { return enabled.Load() }

// Sink is held by every device that can publish debug events: CPU, SPC700
// (passed in through the APU), and bus. It is a weak handle — devices publish through it,
// they never read core state back out of it (spec.md §3 "Ownership").
type Sink struct {
	sub Subscriber
}

// NewSink wraps a Subscriber. A nil Subscriber is valid and makes every
// Sink method a no-op.
func NewSink(sub Subscriber) *Sink {
	return &Sink{sub: sub}
}

// SetSubscriber swaps the subscriber a Sink forwards to, letting a caller
// attach or detach a debugger on an already-shared Sink (every device
// holds the same *Sink pointer, so this is visible to all of them without
// re-wiring).
func (s *Sink) SetSubscriber(sub Subscriber) {
	s.sub = sub
}

// Publish delivers an event to the subscriber, but only when both the
// global gate is enabled and a subscriber is actually attached. The event
// value is constructed by the caller; callers MUST check Enabled() before
// building one to avoid the allocation spec.md §4.7 forbids when disabled.
func (s *Sink) Publish(ev Event) {
	if s == nil || s.sub == nil || !enabled.Load() {
		return
	}
	s.sub.OnEvent(ev)
}

// PublishError reports a core error as a debug event, independent of the
// enable gate — spec.md §7 requires that construction-time success but
// runtime errors always surface as debug events so test suites can observe
// partial execution.
func (s *Sink) PublishError(message string) {
	if s == nil || s.sub == nil {
		return
	}
	s.sub.OnError(message)
}
