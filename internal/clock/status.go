package clock

import "fmt"

// StatusFlags is the 65C816 processor status register: N V M X D I Z C,
// high bit first. M and X select accumulator/index register width in
// native mode; in emulation mode bit 4 (X's position) is instead the
// hardware B (break) flag.
type StatusFlags struct {
	Negative          bool
	Overflow          bool
	AccumulatorWidth8 bool // M: true = 8-bit accumulator
	IndexWidth8       bool // X: true = 8-bit index registers (or B in emulation mode)
	Decimal           bool
	IRQDisable        bool
	Zero              bool
	Carry             bool
}

// StatusFromByte unpacks a status byte in the documented N V M X D I Z C
// bit order (bit 7 = N ... bit 0 = C).
func StatusFromByte(b uint8) StatusFlags {
	return StatusFlags{
		Negative:          b&0x80 != 0,
		Overflow:          b&0x40 != 0,
		AccumulatorWidth8: b&0x20 != 0,
		IndexWidth8:       b&0x10 != 0,
		Decimal:           b&0x08 != 0,
		IRQDisable:        b&0x04 != 0,
		Zero:              b&0x02 != 0,
		Carry:             b&0x01 != 0,
	}
}

// ToByte packs the flags back into a status byte.
func (s StatusFlags) ToByte() uint8 {
	var b uint8
	if s.Negative {
		b |= 0x80
	}
	if s.Overflow {
		b |= 0x40
	}
	if s.AccumulatorWidth8 {
		b |= 0x20
	}
	if s.IndexWidth8 {
		b |= 0x10
	}
	if s.Decimal {
		b |= 0x08
	}
	if s.IRQDisable {
		b |= 0x04
	}
	if s.Zero {
		b |= 0x02
	}
	if s.Carry {
		b |= 0x01
	}
	return b
}

func (s StatusFlags) String() string {
	flag := func(set bool, ch byte) byte {
		if set {
			return ch
		}
		return '.'
	}
	return string([]byte{
		flag(s.Negative, 'N'),
		flag(s.Overflow, 'V'),
		flag(s.AccumulatorWidth8, 'M'),
		flag(s.IndexWidth8, 'X'),
		flag(s.Decimal, 'D'),
		flag(s.IRQDisable, 'I'),
		flag(s.Zero, 'Z'),
		flag(s.Carry, 'C'),
	})
}

// ParseStatusFlags parses the 8-character "NVMXDIZC"-order string produced
// by String, using '.' for a clear flag and the flag's letter for a set
// one. Used by trace comparison against reference BSNES traces.
func ParseStatusFlags(s string) (StatusFlags, error) {
	if len(s) != 8 {
		return StatusFlags{}, fmt.Errorf("status flags string must be 8 characters, got %d", len(s))
	}
	return StatusFlags{
		Negative:          s[0] == 'N',
		Overflow:          s[1] == 'V',
		AccumulatorWidth8: s[2] == 'M',
		IndexWidth8:       s[3] == 'X',
		Decimal:           s[4] == 'D',
		IRQDisable:        s[5] == 'I',
		Zero:              s[6] == 'Z',
		Carry:             s[7] == 'C',
	}, nil
}

// Spc700StatusFlags is the SPC700's 8-flag status register: carry, zero,
// IRQ-enable, half-carry, break, direct-page, overflow, negative — bit 0
// to bit 7, the reverse order of the 65C816's register.
type Spc700StatusFlags struct {
	Carry      bool
	Zero       bool
	IRQEnable  bool
	HalfCarry  bool
	Break      bool
	DirectPage bool
	Overflow   bool
	Negative   bool
}

// Spc700StatusFromByte unpacks the SPC700 PSW byte.
func Spc700StatusFromByte(b uint8) Spc700StatusFlags {
	return Spc700StatusFlags{
		Carry:      b&0x01 != 0,
		Zero:       b&0x02 != 0,
		IRQEnable:  b&0x04 != 0,
		HalfCarry:  b&0x08 != 0,
		Break:      b&0x10 != 0,
		DirectPage: b&0x20 != 0,
		Overflow:   b&0x40 != 0,
		Negative:   b&0x80 != 0,
	}
}

// ToByte packs the flags back into a PSW byte.
func (s Spc700StatusFlags) ToByte() uint8 {
	var b uint8
	if s.Carry {
		b |= 0x01
	}
	if s.Zero {
		b |= 0x02
	}
	if s.IRQEnable {
		b |= 0x04
	}
	if s.HalfCarry {
		b |= 0x08
	}
	if s.Break {
		b |= 0x10
	}
	if s.DirectPage {
		b |= 0x20
	}
	if s.Overflow {
		b |= 0x40
	}
	if s.Negative {
		b |= 0x80
	}
	return b
}

func (s Spc700StatusFlags) String() string {
	flag := func(set bool, ch byte) byte {
		if set {
			return ch
		}
		return '.'
	}
	return string([]byte{
		flag(s.Carry, 'C'),
		flag(s.Zero, 'Z'),
		flag(s.IRQEnable, 'I'),
		flag(s.HalfCarry, 'H'),
		flag(s.Break, 'B'),
		flag(s.DirectPage, 'D'),
		flag(s.Overflow, 'V'),
		flag(s.Negative, 'N'),
	})
}
