// Package dma implements the 8 general-purpose DMA / H-DMA channels that
// move bytes between CPU address space (bank:offset, "A-bus") and the
// $21xx PPU/APU register window ("B-bus") without CPU involvement.
package dma

import "github.com/sres-go/gosres/internal/clock"

// Bus is the byte-addressable main bus DMA pumps through. Both the A-bus
// and B-bus sides of a transfer go through the same interface — on real
// hardware DMA is just another bus master sharing the CPU's address bus.
type Bus interface {
	ReadByte(addr clock.AddressU24) uint8
	WriteByte(addr clock.AddressU24, value uint8)
}

// bOffsets lists, for each of the 8 transfer patterns, the sequence of
// B-bus address offsets (added to the channel's base $21xx register) that
// successive transferred bytes cycle through.
var bOffsets = [8][]uint8{
	0: {0},
	1: {0, 1},
	2: {0, 0},
	3: {0, 0, 1, 1},
	4: {0, 1, 2, 3},
	5: {0, 1, 0, 1},
	6: {0, 0},
	7: {0, 0, 1, 1},
}

// Direction is the transfer direction: CPU-to-PPU (write) or PPU-to-CPU
// (read), set by DMAPx bit 7.
type Direction int

const (
	DirectionAtoB Direction = iota
	DirectionBtoA
)

// AddressStep controls how the A-bus address moves after each byte.
type AddressStep int

const (
	StepIncrement AddressStep = iota
	StepDecrement
	StepFixed
)

// Channel holds one DMA/HDMA channel's register file ($43n0-$43n7) and
// its HDMA pump's run-time state.
type Channel struct {
	Direction   Direction
	IndirectHDMA bool
	AddrStep    AddressStep
	Pattern     uint8

	BAddr uint8 // low byte of the $21xx B-bus register

	AOffset uint16
	ABank   uint8

	ByteCount uint16 // DMA: bytes remaining/requested. HDMA: indirect table address low/high reuse.
	IndirectBank uint8

	hdmaTableAddr uint16
	hdmaLineCount uint8
	hdmaRepeat    bool
	hdmaDone      bool
}

// WriteRegister handles a CPU write into this channel's $43n0-$43n7 block;
// reg is the low nibble-plus offset within the channel (0x0-0x7, 0xA for
// NTLR if modeled as part of the same block).
func (c *Channel) WriteRegister(reg uint8, value uint8) {
	switch reg {
	case 0x0: // DMAPx
		if value&0x80 != 0 {
			c.Direction = DirectionBtoA
		} else {
			c.Direction = DirectionAtoB
		}
		c.IndirectHDMA = value&0x40 != 0
		switch (value >> 3) & 0x03 {
		case 0:
			c.AddrStep = StepIncrement
		case 2:
			c.AddrStep = StepDecrement
		default:
			c.AddrStep = StepFixed
		}
		c.Pattern = value & 0x07
	case 0x1: // BBADx
		c.BAddr = value
	case 0x2: // A1TxL
		c.AOffset = (c.AOffset & 0xFF00) | uint16(value)
	case 0x3: // A1TxH
		c.AOffset = (c.AOffset & 0x00FF) | uint16(value)<<8
	case 0x4: // A1Bx
		c.ABank = value
	case 0x5: // DASxL / indirect table addr low
		c.ByteCount = (c.ByteCount & 0xFF00) | uint16(value)
	case 0x6: // DASxH / indirect table addr high
		c.ByteCount = (c.ByteCount & 0x00FF) | uint16(value)<<8
	case 0x7: // DASBx, HDMA indirect bank
		c.IndirectBank = value
	case 0xA: // NTLRx, HDMA line counter reload (unused by plain DMA)
		c.hdmaLineCount = value & 0x7F
		c.hdmaRepeat = value&0x80 != 0
	}
}

func (c *Channel) ReadRegister(reg uint8) uint8 {
	switch reg {
	case 0x0:
		v := uint8(c.Pattern)
		if c.IndirectHDMA {
			v |= 0x40
		}
		switch c.AddrStep {
		case StepDecrement:
			v |= 0x10
		case StepFixed:
			v |= 0x08
		}
		if c.Direction == DirectionBtoA {
			v |= 0x80
		}
		return v
	case 0x1:
		return c.BAddr
	case 0x2:
		return uint8(c.AOffset)
	case 0x3:
		return uint8(c.AOffset >> 8)
	case 0x4:
		return c.ABank
	case 0x5:
		return uint8(c.ByteCount)
	case 0x6:
		return uint8(c.ByteCount >> 8)
	case 0x7:
		return c.IndirectBank
	default:
		return 0
	}
}

func (c *Channel) aAddr() clock.AddressU24 {
	return clock.NewAddressU24(c.ABank, c.AOffset)
}

func (c *Channel) advanceA() {
	switch c.AddrStep {
	case StepIncrement:
		c.AOffset++
	case StepDecrement:
		c.AOffset--
	}
}

// bAddr returns the B-bus register address for the i'th byte of the
// current transfer pattern.
func (c *Channel) bAddr(i int) clock.AddressU24 {
	offsets := bOffsets[c.Pattern]
	off := offsets[i%len(offsets)]
	return clock.NewAddressU24(0x00, 0x2100|uint16(c.BAddr)+uint16(off))
}

// RunDMA pumps one channel's full general-purpose DMA transfer to
// completion and returns the number of bytes moved, used by the bus to
// compute the 8-per-byte-plus-8-overhead master-clock cost (spec.md
// §4.5's concrete DMA byte-count scenario).
func (c *Channel) RunDMA(bus Bus) int {
	count := int(c.ByteCount)
	if count == 0 {
		count = 0x10000
	}
	for i := 0; i < count; i++ {
		b := c.bAddr(i)
		a := c.aAddr()
		if c.Direction == DirectionAtoB {
			bus.WriteByte(b, bus.ReadByte(a))
		} else {
			bus.WriteByte(a, bus.ReadByte(b))
		}
		c.advanceA()
	}
	c.ByteCount = 0
	return count
}
