package debug

import "fmt"

// BreakReason explains why DebugUntil stopped. It is not an error (see
// spec.md §7 "DebuggerBreak — not an error but an escape from
// debug_until"); it is ordinary control flow.
type BreakReason struct {
	Filter  Filter
	Event   Event
	Message string
}

func (b BreakReason) String() string {
	if b.Message != "" {
		return b.Message
	}
	return fmt.Sprintf("break on %s", b.Event.Kind)
}

// Debugger is the default Subscriber used by internal/system's DebugUntil:
// it records recent PCs, matches every published event against a set of
// pre-parsed Filters (spec.md §4.7's "break-reason observed by
// debug_until"), and appends a log entry for each filter match.
//
// Debugger tolerates being invoked from any device without re-entrancy; it
// never calls back into device state (spec.md §5).
type Debugger struct {
	filters     []Filter
	breakReason *BreakReason
	history     pcRingBuffer
	log         []string
}

// NewDebugger builds a Debugger armed with the given filters. An execution
// error always breaks, matching the original's default
// `breakpoints: vec![Trigger::ExecutionError]`.
func NewDebugger(filters ...Filter) *Debugger {
	return &Debugger{filters: append([]Filter{NewExecutionErrorFilter()}, filters...)}
}

// AddFilter arms an additional filter.
func (d *Debugger) AddFilter(f Filter) {
	d.filters = append(d.filters, f)
}

// OnEvent implements Subscriber.
func (d *Debugger) OnEvent(ev Event) {
	switch ev.Kind {
	case CpuStep:
		if ev.CPU != nil {
			d.history.push(ev.CPU.Instruction.Address.Uint32())
		}
	case Spc700Step:
		if ev.SPC != nil {
			d.history.push(uint32(ev.SPC.Instruction.Address))
		}
	}

	for _, f := range d.filters {
		if f.Match(ev) {
			d.log = append(d.log, fmt.Sprintf("[%s] %v", ev.Kind, ev))
			if d.breakReason == nil {
				d.breakReason = &BreakReason{Filter: f, Event: ev}
			}
		}
	}
}

// OnError implements Subscriber.
func (d *Debugger) OnError(message string) {
	ev := Event{Kind: Error, Message: message}
	d.log = append(d.log, fmt.Sprintf("[Error] %s", message))
	if d.breakReason == nil {
		d.breakReason = &BreakReason{Event: ev, Message: message}
	}
}

// TakeBreakReason returns and clears the current break reason, if any.
func (d *Debugger) TakeBreakReason() *BreakReason {
	r := d.breakReason
	d.breakReason = nil
	return r
}

// PeekBreakReason returns the current break reason without clearing it.
func (d *Debugger) PeekBreakReason() *BreakReason {
	return d.breakReason
}

// RecentPCs returns the addresses of the last executed instructions,
// most-recent first.
func (d *Debugger) RecentPCs() []uint32 {
	return d.history.recent()
}

// Log returns the accumulated log entries produced by matched filters.
func (d *Debugger) Log() []string {
	return d.log
}
