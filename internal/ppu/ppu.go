package ppu

import (
	"image"

	"github.com/sres-go/gosres/internal/clock"
)

const (
	ScreenWidth  = 256
	ScreenHeight = 224
)

// PPU ties VRAM/CGRAM/OAM storage to the CPU-visible register file and a
// master-clock-driven scanline timer. Unlike a push-style design where the
// PPU calls back into the CPU on VBlank, the timer here is purely
// pollable: the bus advances it alongside every bus access and reads edge
// flags off it afterward, because the PPU and bus would otherwise need a
// reference to each other.
type PPU struct {
	VRAM  VRAM
	CGRAM CGRAM
	OAM   OAM
	Regs  *Registers

	vhf         clock.VHF
	prevVBlank  bool
	prevHBlank  bool
	prevHVMatch bool
	prevV       uint64

	frame    *image.RGBA
	frameNum uint64
}

func New() *PPU {
	p := &PPU{}
	p.Regs = NewRegisters(&p.VRAM, &p.CGRAM, &p.OAM)
	p.frame = image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight))
	return p
}

func (p *PPU) Reset() {
	p.VRAM = VRAM{}
	p.CGRAM = CGRAM{}
	p.OAM = OAM{}
	p.Regs.Reset()
	p.vhf = clock.VHF{}
	p.prevVBlank = false
	p.prevHBlank = false
	p.prevHVMatch = false
	p.prevV = 0
	p.frameNum = 0
}

// Timer returns the current scanline/dot position, read-only.
func (p *PPU) Timer() clock.VHF { return p.vhf }

// Advance recomputes the timer from the master clock position and latches
// edge-detected flags (VBlank start, HBlank start, NMI occurred, H/V IRQ
// match) for the bus to poll with PollNMI/PollIRQ. Crossing into a new
// visible scanline renders that line alone, sampling each background's
// scroll/tilemap registers at that scanline's own H=0 instant rather than
// once for the whole frame, so raster splits and HDMA-driven per-line
// register writes show up in the output. VBlank entry only latches the
// NMI/status flags and advances the frame counter; the pixels were already
// drawn line by line on the way there.
func (p *PPU) Advance(masterClock uint64) {
	next := clock.FromMasterClock(masterClock)
	enteringVBlank := next.VBlank() && !p.prevVBlank
	enteringHBlank := next.HBlank() && !p.prevHBlank

	if next.V != p.prevV && !next.VBlank() && next.V < ScreenHeight {
		p.renderScanline(int(next.V))
	}

	if enteringVBlank {
		p.frameNum++
		p.Regs.vblankFlag = true
		if p.Regs.nmiEnable {
			p.Regs.nmiOccurred = true
		}
	}
	if !next.VBlank() && p.prevVBlank {
		p.Regs.vblankFlag = false
	}
	if enteringHBlank {
		p.Regs.hblankFlag = true
	}
	if !next.HBlank() && p.prevHBlank {
		p.Regs.hblankFlag = false
	}

	hvMatch := p.checkHVMatch(next)
	if hvMatch && !p.prevHVMatch && p.Regs.irqMode != 0 {
		p.Regs.irqOccurred = true
	}

	p.prevVBlank = next.VBlank()
	p.prevHBlank = next.HBlank()
	p.prevHVMatch = hvMatch
	p.prevV = next.V
	p.vhf = next
}

func (p *PPU) checkHVMatch(v clock.VHF) bool {
	switch p.Regs.irqMode {
	case 1: // H-IRQ: every scanline at HTIME
		return v.Hdot() == uint64(p.Regs.hTime)
	case 2: // V-IRQ: at VTIME, dot 0
		return v.V == uint64(p.Regs.vTime) && v.Hdot() == 0
	case 3: // H+V-IRQ
		return v.V == uint64(p.Regs.vTime) && v.Hdot() == uint64(p.Regs.hTime)
	default:
		return false
	}
}

// PollNMI reports a pending NMI for the bus to deliver to the main CPU. It
// does not clear it; reading RDNMI ($4210) does.
func (p *PPU) PollNMI() bool {
	if p.Regs.nmiOccurred {
		return true
	}
	return false
}

// PollIRQ reports whether the H/V timer IRQ condition is currently
// latched; the bus clears it by reading $4211 (TIMEUP), mirrored through
// Registers.ReadRegister.
func (p *PPU) PollIRQ() bool { return p.Regs.irqOccurred }

// InVBlank reports whether the timer is presently within vertical blank.
func (p *PPU) InVBlank() bool { return p.vhf.VBlank() }

// FrameBuffer returns the most recently rendered frame.
func (p *PPU) FrameBuffer() *image.RGBA { return p.frame }

// FrameCount returns the number of frames rendered since reset.
func (p *PPU) FrameCount() uint64 { return p.frameNum }
