// Package debug implements the core's observation-only event stream: a
// subscribable sequence of CPU/SPC700 steps, memory accesses, interrupts,
// and errors, gated by a single process-wide atomic flag so that emission
// costs nothing when no one is listening.
package debug

import "github.com/sres-go/gosres/internal/clock"

// EventKind identifies the shape of payload carried by an Event.
type EventKind int

const (
	CpuStep EventKind = iota
	CpuMemoryRead
	CpuMemoryWrite
	Spc700Step
	Spc700MemoryRead
	Spc700MemoryWrite
	Interrupt
	Error
)

func (k EventKind) String() string {
	switch k {
	case CpuStep:
		return "CpuStep"
	case CpuMemoryRead:
		return "CpuMemoryRead"
	case CpuMemoryWrite:
		return "CpuMemoryWrite"
	case Spc700Step:
		return "Spc700Step"
	case Spc700MemoryRead:
		return "Spc700MemoryRead"
	case Spc700MemoryWrite:
		return "Spc700MemoryWrite"
	case Interrupt:
		return "Interrupt"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// InterruptKind names the source of an Interrupt event.
type InterruptKind int

const (
	InterruptNMI InterruptKind = iota
	InterruptIRQ
	InterruptCOP
	InterruptBRK
	InterruptReset
)

func (k InterruptKind) String() string {
	switch k {
	case InterruptNMI:
		return "NMI"
	case InterruptIRQ:
		return "IRQ"
	case InterruptCOP:
		return "COP"
	case InterruptBRK:
		return "BRK"
	case InterruptReset:
		return "RESET"
	default:
		return "UNKNOWN"
	}
}

// CpuState is a snapshot of the 65C816 published with a CpuStep event,
// shaped after the original's common::system::CpuState (see
// SPEC_FULL.md "SUPPLEMENTED FEATURES").
type CpuState struct {
	Instruction clock.InstructionMeta
	A, X, Y     uint16
	S           uint16
	D           uint16
	DB          uint8
	Status      clock.StatusFlags
	Emulation   bool
	V, H, F     uint64
}

// Spc700State is the equivalent snapshot for the SPC700, published with a
// Spc700Step event.
type Spc700State struct {
	Instruction Spc700InstructionMeta
	A, X, Y     uint8
	SP          clock.AddressU16
	Status      clock.Spc700StatusFlags
}

// Spc700InstructionMeta is the SPC700 analogue of clock.InstructionMeta,
// using the 16-bit SPC700 address space instead of the main bus's 24-bit
// one.
type Spc700InstructionMeta struct {
	Address       clock.AddressU16
	Operation     string
	OperandStr    string
	HasOperand    bool
	EffectiveAddr clock.AddressU16
	HasEffective  bool
}

// Event is one observation published on the debug stream.
type Event struct {
	Kind EventKind

	CPU  *CpuState
	SPC  *Spc700State
	Addr uint32
	Value uint8

	InterruptKind InterruptKind
	Message       string
}

// Subscriber receives published events. Implementations MUST NOT mutate
// device state from within these callbacks — the core calls them
// synchronously from inside a bus cycle (spec.md §5, §9).
type Subscriber interface {
	OnEvent(Event)
	OnError(message string)
}
