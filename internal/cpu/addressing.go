package cpu

import "github.com/sres-go/gosres/internal/clock"

// AddressingMode identifies one of the 65C816's addressing modes. Each
// mode documents its own wrap policy per spec.md §4.1.
type AddressingMode int

const (
	ModeImplied AddressingMode = iota
	ModeAccumulator
	ModeImmediate
	ModeDirectPage
	ModeDirectPageX
	ModeDirectPageY
	ModeDirectIndirect
	ModeDirectIndirectLong
	ModeDirectIndexedIndirectX
	ModeDirectIndirectIndexedY
	ModeDirectIndirectLongIndexedY
	ModeAbsolute
	ModeAbsoluteLong
	ModeAbsoluteIndexedX
	ModeAbsoluteIndexedY
	ModeAbsoluteLongIndexedX
	ModeAbsoluteIndirect
	ModeAbsoluteIndirectLong
	ModeAbsoluteIndexedIndirect
	ModeStackRelative
	ModeStackRelativeIndirectIndexedY
	ModeProgramCounterRelative8
	ModeProgramCounterRelative16
	ModeBlockMove
)

// operand is the resolved effective address for one instruction along
// with whether an indexed-mode page boundary was crossed (for the
// 8-bit-index extra-cycle penalty).
type operand struct {
	addr        clock.AddressU24
	pageCrossed bool
	isAccum     bool
}

// directPageWrap reports which wrap mode direct-page addressing uses: if
// D's low byte is zero (the common case) and the CPU is in emulation mode,
// it wraps within the page; otherwise it wraps within the bank. This
// matches real 65C816 behavior where a nonzero DL shifts direct page off
// its natural page boundary.
func (c *CPU) directPageWrap() clock.Wrap {
	if c.Emulation && uint8(c.D) == 0 {
		return clock.WrapPage
	}
	return clock.WrapBank
}

func (c *CPU) directPageBase() clock.AddressU24 {
	return clock.NewAddressU24(0, c.D)
}

// resolve computes the effective address for mode, consuming operand
// bytes from the instruction stream as needed. It is the single place
// that encodes the wrap policy table from spec.md §4.1.
func (c *CPU) resolve(mode AddressingMode) operand {
	switch mode {
	case ModeImplied:
		return operand{}

	case ModeAccumulator:
		return operand{isAccum: true}

	case ModeImmediate:
		// Caller fetches the immediate operand directly; resolve is not
		// used for this mode's value, only to keep the table uniform.
		return operand{}

	case ModeDirectPage:
		offset := uint8(c.fetch8())
		return operand{addr: c.directPageBase().Add(uint16(offset), c.directPageWrap())}

	case ModeDirectPageX:
		offset := uint8(c.fetch8())
		return operand{addr: c.directPageBase().Add(uint16(offset), c.directPageWrap()).Add(c.X, c.directPageWrap())}

	case ModeDirectPageY:
		offset := uint8(c.fetch8())
		return operand{addr: c.directPageBase().Add(uint16(offset), c.directPageWrap()).Add(c.Y, c.directPageWrap())}

	case ModeDirectIndirect:
		ptr := c.directPageBase().Add(uint16(c.fetch8()), c.directPageWrap())
		eff := c.read16(ptr, clock.WrapBank)
		return operand{addr: clock.NewAddressU24(c.DBR, eff)}

	case ModeDirectIndirectLong:
		ptr := c.directPageBase().Add(uint16(c.fetch8()), c.directPageWrap())
		low := c.read16(ptr, clock.WrapBank)
		bank := c.read8(ptr.Add(2, clock.WrapBank))
		return operand{addr: clock.NewAddressU24(bank, low)}

	case ModeDirectIndexedIndirectX:
		base := c.directPageBase().Add(uint16(c.fetch8()), c.directPageWrap()).Add(c.X, c.directPageWrap())
		eff := c.read16(base, clock.WrapBank)
		return operand{addr: clock.NewAddressU24(c.DBR, eff)}

	case ModeDirectIndirectIndexedY:
		ptr := c.directPageBase().Add(uint16(c.fetch8()), c.directPageWrap())
		base := c.read16(ptr, clock.WrapBank)
		crossed, eff := clock.NewAddressU24(c.DBR, base).AddDetectPageCross(c.Y, clock.NoWrap)
		return operand{addr: eff, pageCrossed: crossed}

	case ModeDirectIndirectLongIndexedY:
		ptr := c.directPageBase().Add(uint16(c.fetch8()), c.directPageWrap())
		low := c.read16(ptr, clock.WrapBank)
		bank := c.read8(ptr.Add(2, clock.WrapBank))
		eff := clock.NewAddressU24(bank, low).Add(c.Y, clock.NoWrap)
		return operand{addr: eff}

	case ModeAbsolute:
		offset := c.fetch16()
		return operand{addr: clock.NewAddressU24(c.DBR, offset)}

	case ModeAbsoluteLong:
		offset := c.fetch16()
		bank := c.fetch8()
		return operand{addr: clock.NewAddressU24(bank, offset)}

	case ModeAbsoluteIndexedX:
		base := clock.NewAddressU24(c.DBR, c.fetch16())
		crossed, eff := base.AddDetectPageCross(c.X, clock.NoWrap)
		return operand{addr: eff, pageCrossed: crossed}

	case ModeAbsoluteIndexedY:
		base := clock.NewAddressU24(c.DBR, c.fetch16())
		crossed, eff := base.AddDetectPageCross(c.Y, clock.NoWrap)
		return operand{addr: eff, pageCrossed: crossed}

	case ModeAbsoluteLongIndexedX:
		offset := c.fetch16()
		bank := c.fetch8()
		eff := clock.NewAddressU24(bank, offset).Add(c.X, clock.NoWrap)
		return operand{addr: eff}

	case ModeAbsoluteIndirect:
		ptr := c.fetch16()
		eff := c.read16(clock.NewAddressU24(0, ptr), clock.WrapBank)
		return operand{addr: clock.NewAddressU24(c.PBR, eff)}

	case ModeAbsoluteIndirectLong:
		ptr := c.fetch16()
		low := c.read16(clock.NewAddressU24(0, ptr), clock.WrapBank)
		bank := c.read8(clock.NewAddressU24(0, ptr).Add(2, clock.WrapBank))
		return operand{addr: clock.NewAddressU24(bank, low)}

	case ModeAbsoluteIndexedIndirect:
		ptr := clock.NewAddressU24(c.PBR, c.fetch16()).Add(c.X, clock.WrapBank)
		eff := c.read16(ptr, clock.WrapBank)
		return operand{addr: clock.NewAddressU24(c.PBR, eff)}

	case ModeStackRelative:
		offset := c.fetch8()
		eff := c.S + uint16(offset)
		return operand{addr: clock.NewAddressU24(0, eff)}

	case ModeStackRelativeIndirectIndexedY:
		offset := c.fetch8()
		ptr := clock.NewAddressU24(0, c.S+uint16(offset))
		base := c.read16(ptr, clock.WrapBank)
		eff := clock.NewAddressU24(c.DBR, base).Add(c.Y, clock.NoWrap)
		return operand{addr: eff}

	case ModeProgramCounterRelative8:
		offset := int8(c.fetch8())
		eff := clock.NewAddressU24(c.PBR, c.PC).AddSigned(int32(offset), clock.WrapBank)
		return operand{addr: eff}

	case ModeProgramCounterRelative16:
		offset := int16(c.fetch16())
		eff := clock.NewAddressU24(c.PBR, c.PC).AddSigned(int32(offset), clock.WrapBank)
		return operand{addr: eff}

	default:
		return operand{}
	}
}
