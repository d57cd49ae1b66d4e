package cpu

import (
	"github.com/sres-go/gosres/internal/clock"
	"github.com/sres-go/gosres/internal/debug"
)

// serviceInterrupts checks pending NMI/IRQ and enters the handler if one
// is due, returning true if it did (so Step should not also decode an
// instruction this call). NMI takes priority over IRQ. IRQ is masked by
// the I flag; NMI never is.
func (c *CPU) serviceInterrupts() bool {
	if c.stopped {
		// STP is only cleared by a hardware reset, never by NMI/IRQ.
		return false
	}
	if c.nmiPending {
		c.nmiPending = false
		c.waiting = false
		c.enterInterrupt(vectorEmuNMI, vectorNativeNMI, false)
		if c.sink != nil {
			c.publishInterrupt(debug.InterruptNMI)
		}
		return true
	}
	if c.irqLine && !c.Status.IRQDisable {
		c.waiting = false
		c.enterInterrupt(vectorEmuIRQBRK, vectorNativeIRQ, false)
		if c.sink != nil {
			c.publishInterrupt(debug.InterruptIRQ)
		}
		return true
	}
	return false
}

func (c *CPU) publishInterrupt(kind debug.InterruptKind) {
	if debug.Enabled() {
		c.sink.Publish(debug.Event{Kind: debug.Interrupt, InterruptKind: kind})
	}
}

// enterInterrupt pushes the return context and jumps to the appropriate
// vector. brk distinguishes BRK/COP (which push PC+1, a software-
// interrupt quirk) from hardware NMI/IRQ (which push the current PC).
func (c *CPU) enterInterrupt(emuVector, nativeVector uint32, brk bool) {
	if brk {
		c.PC++
	}
	if !c.Emulation {
		c.push8(c.PBR)
	}
	c.push16(c.PC)
	c.push8(c.Status.ToByte())

	c.Status.IRQDisable = true
	c.Status.Decimal = false
	c.PBR = 0

	vector := emuVector
	if !c.Emulation {
		vector = nativeVector
	}
	low := c.bus.CycleRead(clock.AddressU24FromUint32(vector))
	high := c.bus.CycleRead(clock.AddressU24FromUint32(vector + 1))
	c.PC = uint16(high)<<8 | uint16(low)
}
