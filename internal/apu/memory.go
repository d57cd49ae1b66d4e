package apu

import "github.com/sres-go/gosres/internal/clock"

// iplROM is the 64-byte SPC700 IPL boot ROM, mapped at $FFC0-$FFFF while
// the boot-ROM-enable bit in the memory-control register is set. Its job
// on real hardware is to wait for the main CPU to hand it a program over
// the mailbox ports and then jump into it; the reset vector at the top
// of the window points back to its own entry point at $FFC0.
var iplROM = [64]uint8{
	0xCD, 0xEF, 0xBD, 0xE8, 0x00, 0xC6, 0x1D, 0xD0,
	0xFC, 0x8F, 0xAA, 0xF4, 0x8F, 0xBB, 0xF5, 0x78,
	0xCC, 0xF4, 0xD0, 0xFB, 0x2F, 0x19, 0xEB, 0xF4,
	0xD0, 0xFC, 0x7E, 0xF4, 0xD0, 0x0B, 0xE4, 0xF5,
	0xCB, 0xF4, 0xD7, 0x00, 0xFC, 0xD0, 0xF3, 0xAB,
	0x01, 0x10, 0xEF, 0x7E, 0xF4, 0x10, 0xEB, 0xBA,
	0xF6, 0xDA, 0x00, 0xBA, 0xF4, 0xC4, 0xF4, 0xDD,
	0x5D, 0xD0, 0xDB, 0x1F, 0x00, 0x00, 0xC0, 0xFF,
}

const iplROMBase = 0xFFC0

// Timer is one of the SPC700's three hardware timers. Timers 0/1 tick at
// 8 kHz, timer 2 at 64 kHz; each has a target register and a 4-bit
// output counter readable (and cleared) through its counter register.
type Timer struct {
	enabled    bool
	target     uint8
	divider    uint16
	period     uint16 // SPC700 cycles per internal tick, fixed per timer index
	subCounter uint16 // internal ticks since last target-reload compare
	counter    uint8  // 4-bit output, wraps
}

func (t *Timer) step() {
	if !t.enabled {
		return
	}
	t.divider++
	if t.divider < t.period {
		return
	}
	t.divider = 0
	// target 0 reloads as 256, matching real hardware's treatment of a
	// zero compare value.
	reload := uint16(t.target)
	if reload == 0 {
		reload = 256
	}
	t.subCounter++
	if t.subCounter >= reload {
		t.subCounter = 0
		t.counter = (t.counter + 1) & 0x0F
	}
}

// Memory is the SPC700's full 64 KiB address space: general RAM, the
// memory-mapped I/O registers at $00F0-$00FF (mailboxes, DSP address/
// data, timers), and the IPL ROM overlay.
type Memory struct {
	ram [0x10000]uint8
	dsp *DSP

	bootROMEnabled bool
	dspAddr        uint8

	// Mailbox ports: CPUIO0-3 are written by the main CPU and read by the
	// SPC700 (and vice versa for APUIO0-3), matching the $2140-$2143 /
	// $00F4-$00F7 shared-register pairing (spec.md §4.6).
	cpuToApu [4]uint8
	apuToCpu [4]uint8

	timers [3]Timer
}

func NewMemory(dsp *DSP) *Memory {
	m := &Memory{dsp: dsp, bootROMEnabled: true}
	m.timers[0] = Timer{period: 128} // 8kHz: ticks every 128 SPC700 cycles of a ~1.024MHz clock approximation
	m.timers[1] = Timer{period: 128}
	m.timers[2] = Timer{period: 16}  // 64kHz
	return m
}

func (m *Memory) Reset() {
	m.bootROMEnabled = true
	m.dspAddr = 0
	m.cpuToApu = [4]uint8{}
	m.apuToCpu = [4]uint8{}
	m.timers = [3]Timer{{period: 128}, {period: 128}, {period: 16}}
}

// WriteFromCPU is how the main-bus side writes one of the four mailbox
// ports ($2140-$2143), becoming visible to the SPC700 at $00F4-$00F7.
func (m *Memory) WriteFromCPU(port uint8, value uint8) {
	m.cpuToApu[port&3] = value
}

// ReadFromCPU is how the main-bus side reads one of the four mailbox
// ports, observing what the SPC700 last wrote to $00F4-$00F7.
func (m *Memory) ReadFromCPU(port uint8) uint8 {
	return m.apuToCpu[port&3]
}

func (m *Memory) Peek(addr clock.AddressU16) uint8 {
	return m.read(uint16(addr), false)
}

func (m *Memory) Read(addr clock.AddressU16) uint8 {
	return m.read(uint16(addr), true)
}

func (m *Memory) read(addr uint16, sideEffects bool) uint8 {
	if m.bootROMEnabled && addr >= iplROMBase {
		return iplROM[addr-iplROMBase]
	}
	switch addr {
	case 0x00F2:
		return m.dspAddr
	case 0x00F3:
		return m.dsp.ReadRegister(m.dspAddr)
	case 0x00F4, 0x00F5, 0x00F6, 0x00F7:
		return m.cpuToApu[addr-0x00F4]
	case 0x00FD, 0x00FE, 0x00FF:
		idx := addr - 0x00FD
		v := m.timers[idx].counter
		if sideEffects {
			m.timers[idx].counter = 0
		}
		return v
	default:
		return m.ram[addr]
	}
}

func (m *Memory) Write(addr clock.AddressU16, value uint8) {
	a := uint16(addr)
	switch a {
	case 0x00F1:
		m.bootROMEnabled = value&0x80 != 0
		for i := range m.timers {
			m.timers[i].enabled = value&(1<<uint(i)) != 0
		}
		if value&0x10 != 0 {
			m.cpuToApu[0], m.cpuToApu[1] = 0, 0
		}
		if value&0x20 != 0 {
			m.cpuToApu[2], m.cpuToApu[3] = 0, 0
		}
	case 0x00F2:
		m.dspAddr = value & 0x7F
	case 0x00F3:
		m.dsp.WriteRegister(m.dspAddr, value)
	case 0x00F4, 0x00F5, 0x00F6, 0x00F7:
		m.apuToCpu[a-0x00F4] = value
	case 0x00FA, 0x00FB, 0x00FC:
		m.timers[a-0x00FA].target = value
	case 0x00FD, 0x00FE, 0x00FF:
		// read-only counter registers; ignore writes.
	default:
		m.ram[a] = value
	}
}

// Step advances the three hardware timers by one SPC700 cycle.
func (m *Memory) Step() {
	for i := range m.timers {
		m.timers[i].step()
	}
}
