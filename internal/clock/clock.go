package clock

// VHF is the (scanline, horizontal-dot-counter, frame) triple derivable
// from the master clock. H is in master-clock ticks, not dots; use Hdot
// for the human-visible dot position.
type VHF struct {
	MasterClock uint64
	V           uint64
	H           uint64
	F           uint64
}

// Frame timing constants. One pair of consecutive frames occupies
// 357368+357364 master ticks; interlace odd frames are 4 ticks shorter
// past V=240 because scanline 240 is 1360 ticks instead of 1364 there.
const (
	ticksPerScanline    = 1364
	shortScanlineTicks  = 1360
	doubleFrameLength   = 357368 + 357364
	oddFrameBase        = 357366
	vblankStartScanline = 225
	hblankStartTick     = 1096
)

// FromVHF computes the master clock for a given (v, h, f) triple. It is
// the inverse of FromMasterClock and the pair must round-trip exactly.
func FromVHF(v, h, f uint64) VHF {
	var fCycles uint64
	if f%2 == 0 {
		fCycles = f * oddFrameBase
	} else {
		fCycles = f*oddFrameBase + 2
	}

	oddFrame := f%2 == 1
	var vCycles uint64
	if oddFrame && v > 240 {
		vCycles = v*ticksPerScanline - 4
	} else {
		vCycles = v * ticksPerScanline
	}

	return VHF{
		MasterClock: fCycles + vCycles + h,
		V:           v,
		H:           h,
		F:           f,
	}
}

// FromMasterClock computes (v, h, f) from a master clock tick count.
func FromMasterClock(masterClock uint64) VHF {
	doubleFrames := masterClock / doubleFrameLength
	remainder := masterClock % doubleFrameLength

	f := doubleFrames * 2
	oddFrame := remainder >= 357368
	if oddFrame {
		f++
		remainder -= 357368
	}

	shortScanlineBoundary := uint64(ticksPerScanline)*240 + shortScanlineTicks

	var v, h uint64
	if oddFrame && remainder >= ticksPerScanline*240 {
		v = (remainder + 4) / ticksPerScanline
	} else {
		v = remainder / ticksPerScanline
	}
	if oddFrame && remainder >= shortScanlineBoundary {
		h = (remainder + 4) % ticksPerScanline
	} else {
		h = remainder % ticksPerScanline
	}

	return VHF{MasterClock: masterClock, V: v, H: h, F: f}
}

// Hdot converts the tick-granular H counter into the human-visible pixel
// dot index: H/4, adjusted because dots 323 and 327 are 6 ticks long on
// every scanline except the interlace-odd-frame short scanline 240.
func (vhf VHF) Hdot() uint64 {
	counter := vhf.H
	if vhf.F%2 == 0 || vhf.V != 240 {
		if vhf.H > 1292 {
			counter -= 2
		}
		if vhf.H > 1310 {
			counter -= 2
		}
	}
	return counter / 4
}

// VBlank reports whether this VHF position is within vertical blank.
func (vhf VHF) VBlank() bool {
	return vhf.V >= vblankStartScanline
}

// HBlank reports whether this VHF position is within horizontal blank.
func (vhf VHF) HBlank() bool {
	return vhf.H >= hblankStartTick
}
