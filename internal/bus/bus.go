// Package bus implements the SNES main-bus address map tying the 65C816,
// APU, PPU, DMA controller, cartridge, and controller ports together.
// Every bus access advances the master clock by the region's bus speed,
// advances the PPU timer, catches up the APU when a mailbox port is
// touched, and pumps DMA/HDMA when triggered — matching
// spec.md §4.1-4.5's wiring.
package bus

import (
	"github.com/sres-go/gosres/internal/apu"
	"github.com/sres-go/gosres/internal/cartridge"
	"github.com/sres-go/gosres/internal/clock"
	"github.com/sres-go/gosres/internal/cpu"
	"github.com/sres-go/gosres/internal/debug"
	"github.com/sres-go/gosres/internal/dma"
	"github.com/sres-go/gosres/internal/input"
	"github.com/sres-go/gosres/internal/ppu"
)

// Bus connects all SNES components and owns the master clock.
type Bus struct {
	CPU  *cpu.CPU
	PPU  *ppu.PPU
	APU  *apu.APU
	DMA  dma.Controller
	Cart *cartridge.Cartridge

	Controller1 *input.Controller
	Controller2 *input.Controller

	wram [0x20000]uint8 // $7E:0000-$7F:FFFF, 128 KiB

	memSel      uint8 // MEMSEL: FastROM enable
	joypadStrobe bool

	masterClock uint64
	frameCount  uint64

	scanlineV   uint64
	pumpingHDMA bool

	sink *debug.Sink
}

// New creates a Bus with no cartridge loaded; call LoadCartridge before
// Reset to run a ROM.
func New(sink *debug.Sink) *Bus {
	b := &Bus{
		PPU:         ppu.New(),
		APU:         apu.New(sink),
		Controller1: input.New(),
		Controller2: input.New(),
		sink:        sink,
	}
	b.CPU = cpu.New(b, sink)
	return b
}

// LoadCartridge installs a parsed cartridge image.
func (b *Bus) LoadCartridge(c *cartridge.Cartridge) {
	b.Cart = c
}

// Reset resets every component and the master clock.
func (b *Bus) Reset() {
	b.PPU.Reset()
	b.APU.Reset()
	b.Controller1.Reset()
	b.Controller2.Reset()
	b.wram = [0x20000]uint8{}
	b.frameCount = 0
	b.CPU.Reset()
	// Zeroed after CPU.Reset (which itself costs two vector-fetch bus
	// cycles) so the post-reset master clock starts at exactly 0: the
	// vector fetches are not counted in it, and the first Step after reset
	// adds the full cost of the instruction at the reset vector. The PPU
	// timer is re-reset alongside it so its edge-detection state doesn't
	// stay keyed to the discarded ticks.
	b.masterClock = 0
	b.PPU.Reset()
	b.scanlineV = 0
	b.pumpingHDMA = false
}

// MasterClock returns the current master-clock tick count.
func (b *Bus) MasterClock() uint64 { return b.masterClock }

// busSpeed returns the per-access master-clock cost of addr, per spec.md
// §4.1's bus-speed region table (6/8/12 ticks for the fast, slow, and
// xslow regions).
func (b *Bus) busSpeed(addr clock.AddressU24) uint64 {
	bank := addr.Bank & 0x7F
	offset := addr.Offset

	switch {
	case bank <= 0x3F && offset < 0x2000:
		return cpu.SlowCycles // WRAM mirror
	case bank <= 0x3F && offset >= 0x2000 && offset <= 0x3FFF:
		return cpu.FastCycles // PPU/APU/WRAM-port registers
	case bank <= 0x3F && offset >= 0x4000 && offset <= 0x41FF:
		return cpu.XSlowCycles // old-style joypad registers
	case bank <= 0x3F && offset >= 0x4200 && offset <= 0x5FFF:
		return cpu.FastCycles // DMA/new-style registers
	case bank <= 0x3F && offset >= 0x6000:
		return cpu.SlowCycles
	case bank >= 0x40 && bank <= 0x7D:
		return cpu.SlowCycles
	case addr.Bank >= 0x80 && offset >= 0x8000 && b.memSel&0x01 != 0:
		return cpu.FastCycles // FastROM region when MEMSEL enables it
	default:
		return cpu.SlowCycles
	}
}

// advance moves the master clock forward by n ticks, advancing the PPU
// timer and accumulating APU owed cycles alongside it. Crossing into a
// new visible scanline pumps H-DMA for that line before anything else
// proceeds (spec.md §4.5/§5: "HDMA fires at the start of each visible
// scanline, before the CPU resumes").
func (b *Bus) advance(n uint64) {
	b.masterClock += n
	b.PPU.Advance(b.masterClock)

	vhf := b.PPU.Timer()
	crossedScanline := vhf.V != b.scanlineV
	b.scanlineV = vhf.V
	if crossedScanline && !b.pumpingHDMA && !vhf.VBlank() {
		b.pumpingHDMA = true
		ticks := b.DMA.StepScanline(b)
		b.pumpingHDMA = false
		if ticks > 0 {
			b.advance(ticks)
		}
	}

	b.APU.AddOwedCycles(n)
	if b.PPU.PollNMI() {
		b.CPU.SetNMILine(true)
	} else {
		b.CPU.SetNMILine(false)
	}
	if b.PPU.PollIRQ() {
		b.CPU.SetIRQLine(true)
	} else {
		b.CPU.SetIRQLine(false)
	}
}

// Peek implements cpu.Bus: a non-mutating read for disassembly.
func (b *Bus) Peek(addr clock.AddressU24) (uint8, bool) {
	return b.readByte(addr, false), true
}

// CycleRead implements cpu.Bus: a cycle-costed, side-effecting read.
func (b *Bus) CycleRead(addr clock.AddressU24) uint8 {
	v := b.readByte(addr, true)
	b.advance(b.busSpeed(addr))
	return v
}

// CycleWrite implements cpu.Bus: a cycle-costed, side-effecting write.
func (b *Bus) CycleWrite(addr clock.AddressU24, value uint8) {
	b.writeByte(addr, value)
	b.advance(b.busSpeed(addr))
}

// CycleIO implements cpu.Bus: an internal cycle with no bus access.
func (b *Bus) CycleIO() {
	b.advance(cpu.IOCycles)
}

// ReadByte implements dma.Bus without charging bus-speed cycles — DMA's
// own cost accounting (8 ticks/byte) already covers bus time.
func (b *Bus) ReadByte(addr clock.AddressU24) uint8 { return b.readByte(addr, true) }

// WriteByte implements dma.Bus.
func (b *Bus) WriteByte(addr clock.AddressU24, value uint8) { b.writeByte(addr, value) }

func (b *Bus) wramIndex(addr clock.AddressU24) (int, bool) {
	bank := addr.Bank
	switch {
	case bank == 0x7E:
		return int(addr.Offset), true
	case bank == 0x7F:
		return 0x10000 + int(addr.Offset), true
	case (bank <= 0x3F || (bank >= 0x80 && bank <= 0xBF)) && addr.Offset < 0x2000:
		return int(addr.Offset), true
	default:
		return 0, false
	}
}

func (b *Bus) readByte(addr clock.AddressU24, sideEffects bool) uint8 {
	if idx, ok := b.wramIndex(addr); ok {
		return b.wram[idx]
	}

	bank := addr.Bank & 0x7F
	offset := addr.Offset

	if bank <= 0x3F && offset >= 0x2100 && offset <= 0x213F {
		return b.PPU.Regs.ReadRegister(offset)
	}
	if bank <= 0x3F && offset >= 0x2140 && offset <= 0x217F {
		port := uint8(offset & 0x03)
		if sideEffects {
			return b.APU.ReadPort(port)
		}
		return 0
	}
	if bank <= 0x3F && (offset >= 0x4200 && offset <= 0x421F || offset == 0x4016 || offset == 0x4017) {
		switch offset {
		case 0x4016:
			if sideEffects {
				return b.Controller1.ReadSerial()
			}
			return 0
		case 0x4017:
			if sideEffects {
				return b.Controller2.ReadSerial()
			}
			return 0
		case 0x4218, 0x4219, 0x421A, 0x421B: // JOY1L/H, JOY2L/H
			ctrl := b.Controller1
			if offset >= 0x421A {
				ctrl = b.Controller2
			}
			word := ctrl.ReadParallel()
			if offset&1 == 0 {
				return uint8(word)
			}
			return uint8(word >> 8)
		default:
			return b.PPU.Regs.ReadRegister(offset)
		}
	}
	if bank <= 0x3F && offset >= 0x4300 && offset <= 0x437F {
		return b.DMA.ReadRegister(offset - 0x4300)
	}
	if b.Cart != nil {
		return b.Cart.Read(addr.Bank, addr.Offset)
	}
	return 0
}

func (b *Bus) writeByte(addr clock.AddressU24, value uint8) {
	if idx, ok := b.wramIndex(addr); ok {
		b.wram[idx] = value
		return
	}

	bank := addr.Bank & 0x7F
	offset := addr.Offset

	if bank <= 0x3F && offset >= 0x2100 && offset <= 0x213F {
		b.PPU.Regs.WriteRegister(offset, value)
		return
	}
	if bank <= 0x3F && offset >= 0x2140 && offset <= 0x217F {
		port := uint8(offset & 0x03)
		b.APU.WritePort(port, value)
		return
	}
	if bank <= 0x3F && (offset >= 0x4200 && offset <= 0x421F || offset == 0x4016) {
		switch offset {
		case 0x4016:
			b.Controller1.Strobe(value&0x01 != 0)
			b.Controller2.Strobe(value&0x01 != 0)
			return
		case 0x420B: // MDMAEN
			ticks := b.DMA.StartDMA(b, value)
			b.advance(ticks)
			return
		case 0x420C: // HDMAEN
			b.DMA.SetHDMAEnable(value)
			return
		case 0x420D: // MEMSEL
			b.memSel = value
			return
		default:
			b.PPU.Regs.WriteRegister(offset, value)
			return
		}
	}
	if bank <= 0x3F && offset >= 0x4300 && offset <= 0x437F {
		b.DMA.WriteRegister(offset-0x4300, value)
		return
	}
	if b.Cart != nil {
		b.Cart.Write(addr.Bank, addr.Offset, value)
	}
}

// InitHDMA reloads every enabled H-DMA channel's table pointer; called
// once per frame at the end of VBlank.
func (b *Bus) InitHDMA() {
	b.DMA.InitHDMA(b)
}
