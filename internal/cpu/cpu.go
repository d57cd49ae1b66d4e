// Package cpu implements the 65C816 main CPU: instruction decode/execute
// with width-dispatched operands, the documented addressing-mode wrap
// policies, bus-speed-region cycle accounting, and NMI/IRQ/COP/BRK/WAI/STP
// handling.
package cpu

import (
	"github.com/sres-go/gosres/internal/clock"
	"github.com/sres-go/gosres/internal/debug"
)

// Bus is the capability set the CPU needs from its host (spec.md §9
// "Polymorphism"): a non-mutating peek for disassembly, cycle-costed
// read/write, and a bare cycle for internal (non-bus) cycles. Real buses
// advance the shared master clock, tick the PPU timer, and pump DMA/HDMA
// from inside these calls; the CPU does not need to know that.
type Bus interface {
	Peek(addr clock.AddressU24) (uint8, bool)
	CycleRead(addr clock.AddressU24) uint8
	CycleWrite(addr clock.AddressU24, value uint8)
	CycleIO()
}

// Vector addresses for the native and emulation interrupt vector tables.
const (
	vectorNativeCOP   = 0x00FFE4
	vectorNativeBRK   = 0x00FFE6
	vectorNativeNMI   = 0x00FFEA
	vectorNativeIRQ   = 0x00FFEE
	vectorEmuCOP      = 0x00FFF4
	vectorEmuReserved = 0x00FFF8
	vectorEmuNMI      = 0x00FFFA
	vectorEmuResetPC  = 0x00FFFC
	vectorEmuIRQBRK   = 0x00FFFE
)

// CPU is the 65C816 main processor.
type CPU struct {
	A, X, Y uint16
	S       uint16
	D       uint16
	DBR     uint8
	PBR     uint8
	PC      uint16
	Status  clock.StatusFlags
	Emulation bool

	bus  Bus
	sink *debug.Sink

	nmiLine      bool
	nmiPrevious  bool
	nmiPending   bool
	irqLine      bool
	waiting      bool
	stopped      bool

	cycles uint64
}

// New creates a CPU bound to the given bus. Call Reset before stepping.
func New(bus Bus, sink *debug.Sink) *CPU {
	return &CPU{bus: bus, sink: sink}
}

// Reset performs the 65C816 reset sequence: emulation mode, M=X=I=1, D=0,
// DBR=PBR=0, S=$01FF, PC loaded from the emulation reset vector $00FFFC.
func (c *CPU) Reset() {
	c.Emulation = true
	c.Status = clock.StatusFlags{AccumulatorWidth8: true, IndexWidth8: true, IRQDisable: true}
	c.D = 0
	c.DBR = 0
	c.PBR = 0
	c.S = 0x01FF
	c.X &= 0x00FF
	c.Y &= 0x00FF
	c.nmiPending = false
	c.waiting = false
	c.stopped = false

	low := c.bus.CycleRead(clock.AddressU24FromUint32(vectorEmuResetPC))
	high := c.bus.CycleRead(clock.AddressU24FromUint32(vectorEmuResetPC + 1))
	c.PC = uint16(high)<<8 | uint16(low)
}

// Cycles returns the number of internal (non-bus) cycles the CPU has
// charged through tick. Bus reads and writes are not counted, so this is
// not the master clock; the bus's MasterClock holds that.
func (c *CPU) Cycles() uint64 { return c.cycles }

// SetNMILine sets the NMI input line. NMI is edge-triggered: the PPU
// asserts it at vblank rise, and the CPU latches a pending NMI on the
// level's transition (spec.md §4.1 "NMI is level-latched by the PPU at
// vblank rise").
func (c *CPU) SetNMILine(level bool) {
	if level && !c.nmiPrevious {
		c.nmiPending = true
	}
	c.nmiPrevious = level
	c.nmiLine = level
}

// SetIRQLine sets the level-driven IRQ input line (PPU H/V match, or any
// other IRQ source wired onto the bus).
func (c *CPU) SetIRQLine(level bool) {
	c.irqLine = level
}

// Halted reports whether the CPU is in the STP (stopped-until-reset) state.
func (c *CPU) Halted() bool { return c.stopped }

func (c *CPU) read8(addr clock.AddressU24) uint8 {
	v := c.bus.CycleRead(addr)
	if debug.Enabled() && c.sink != nil {
		c.sink.Publish(debug.Event{Kind: debug.CpuMemoryRead, Addr: addr.Uint32(), Value: v})
	}
	return v
}

func (c *CPU) write8(addr clock.AddressU24, v uint8) {
	c.bus.CycleWrite(addr, v)
	if debug.Enabled() && c.sink != nil {
		c.sink.Publish(debug.Event{Kind: debug.CpuMemoryWrite, Addr: addr.Uint32(), Value: v})
	}
}

func (c *CPU) read16(addr clock.AddressU24, wrap clock.Wrap) uint16 {
	low := c.read8(addr)
	high := c.read8(addr.Add(1, wrap))
	return uint16(high)<<8 | uint16(low)
}

func (c *CPU) write16(addr clock.AddressU24, v uint16, wrap clock.Wrap) {
	c.write8(addr, uint8(v))
	c.write8(addr.Add(1, wrap), uint8(v>>8))
}

func (c *CPU) pcAddr() clock.AddressU24 {
	return clock.NewAddressU24(c.PBR, c.PC)
}

func (c *CPU) fetch8() uint8 {
	v := c.read8(c.pcAddr())
	c.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	low := c.fetch8()
	high := c.fetch8()
	return uint16(high)<<8 | uint16(low)
}

func (c *CPU) push8(v uint8) {
	c.write8(clock.NewAddressU24(0, c.S), v)
	c.S--
	if c.Emulation {
		c.S = 0x0100 | (c.S & 0xFF)
	}
}

func (c *CPU) pop8() uint8 {
	c.S++
	if c.Emulation {
		c.S = 0x0100 | (c.S & 0xFF)
	}
	return c.read8(clock.NewAddressU24(0, c.S))
}

func (c *CPU) push16(v uint16) {
	c.push8(uint8(v >> 8))
	c.push8(uint8(v))
}

func (c *CPU) pop16() uint16 {
	low := c.pop8()
	high := c.pop8()
	return uint16(high)<<8 | uint16(low)
}

// accumulatorIs8 reports whether the accumulator is currently 8-bit wide.
// In emulation mode the accumulator is always 8-bit regardless of M.
func (c *CPU) accumulatorIs8() bool {
	return c.Emulation || c.Status.AccumulatorWidth8
}

// indexIs8 reports whether index registers are currently 8-bit wide.
func (c *CPU) indexIs8() bool {
	return c.Emulation || c.Status.IndexWidth8
}

func (c *CPU) setZN8(v uint8) {
	c.Status.Zero = v == 0
	c.Status.Negative = v&0x80 != 0
}

func (c *CPU) setZN16(v uint16) {
	c.Status.Zero = v == 0
	c.Status.Negative = v&0x8000 != 0
}

// speedRegionCycles is the number of master-clock ticks a bus access to
// addr costs, as selected by the address and the FastROM bit held by
// BusSpeed. This lives here only for documentation of the contract; the
// actual accounting happens in the bus's CycleRead/CycleWrite, since only
// the bus knows the FastROM state and the true address decode (spec.md
// §4.1 "Cycle cost"). See internal/bus.
const (
	SlowCycles  = 8
	FastCycles  = 6
	IOCycles    = 6
	XSlowCycles = 12
)
