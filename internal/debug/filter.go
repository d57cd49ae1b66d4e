package debug

// AddrRange is an inclusive-exclusive [Low, High) address range, used both
// for program-counter filters and memory-range filters.
type AddrRange struct {
	Low, High uint32
}

// Contains reports whether addr falls in [Low, High).
func (r AddrRange) Contains(addr uint32) bool {
	return addr >= r.Low && addr < r.High
}

// Filter is a pre-parsed predicate over event kinds, matched against every
// published Event. Exactly one of its fields is meaningful per filter;
// construct with the New* helpers rather than the struct literal.
type Filter struct {
	kind          filterKind
	pcRange       AddrRange
	memRange      AddrRange
	mnemonic      string
	interruptKind InterruptKind
}

type filterKind int

const (
	filterPCRange filterKind = iota
	filterMemoryRead
	filterMemoryWrite
	filterMnemonic
	filterInterruptKind
	filterExecutionError
)

// NewPCRangeFilter matches CpuStep/Spc700Step events whose instruction
// address falls within the given range.
func NewPCRangeFilter(r AddrRange) Filter { return Filter{kind: filterPCRange, pcRange: r} }

// NewMemoryReadFilter matches CpuMemoryRead/Spc700MemoryRead events whose
// address falls within the given range.
func NewMemoryReadFilter(r AddrRange) Filter { return Filter{kind: filterMemoryRead, memRange: r} }

// NewMemoryWriteFilter matches CpuMemoryWrite/Spc700MemoryWrite events
// whose address falls within the given range.
func NewMemoryWriteFilter(r AddrRange) Filter { return Filter{kind: filterMemoryWrite, memRange: r} }

// NewMnemonicFilter matches CpuStep/Spc700Step events whose decoded
// instruction operation equals the given mnemonic exactly.
func NewMnemonicFilter(mnemonic string) Filter { return Filter{kind: filterMnemonic, mnemonic: mnemonic} }

// NewInterruptKindFilter matches Interrupt events of the given kind.
func NewInterruptKindFilter(k InterruptKind) Filter {
	return Filter{kind: filterInterruptKind, interruptKind: k}
}

// NewExecutionErrorFilter matches any Error event.
func NewExecutionErrorFilter() Filter { return Filter{kind: filterExecutionError} }

// Match reports whether ev satisfies the filter.
func (f Filter) Match(ev Event) bool {
	switch f.kind {
	case filterPCRange:
		switch ev.Kind {
		case CpuStep:
			return ev.CPU != nil && f.pcRange.Contains(ev.CPU.Instruction.Address.Uint32())
		case Spc700Step:
			return ev.SPC != nil && f.pcRange.Contains(uint32(ev.SPC.Instruction.Address))
		}
		return false
	case filterMemoryRead:
		return (ev.Kind == CpuMemoryRead || ev.Kind == Spc700MemoryRead) && f.memRange.Contains(ev.Addr)
	case filterMemoryWrite:
		return (ev.Kind == CpuMemoryWrite || ev.Kind == Spc700MemoryWrite) && f.memRange.Contains(ev.Addr)
	case filterMnemonic:
		switch ev.Kind {
		case CpuStep:
			return ev.CPU != nil && ev.CPU.Instruction.Operation == f.mnemonic
		case Spc700Step:
			return ev.SPC != nil && ev.SPC.Instruction.Operation == f.mnemonic
		}
		return false
	case filterInterruptKind:
		return ev.Kind == Interrupt && ev.InterruptKind == f.interruptKind
	case filterExecutionError:
		return ev.Kind == Error
	default:
		return false
	}
}
