// Package apu wires the SPC700 audio coprocessor, the S-DSP, and the
// shared 64 KiB address space together behind the four-port mailbox the
// main bus uses to talk to it. The main CPU and SPC700 run on
// independent clocks; rather than lock-step every cycle the APU is
// "caught up" lazily whenever the main bus touches a mailbox port or
// reads the APU's drained sample buffer (spec.md §5's catch-up
// discipline), keeping the core single-threaded with no locking.
package apu

import (
	"github.com/sres-go/gosres/internal/debug"
	"github.com/sres-go/gosres/internal/spc700"
)

// masterTicksPerSPCCycle is spec.md §4.6's fixed SPC700-to-main-bus clock
// ratio: every SPC700 memory cycle the CPU charges through tick() costs
// 21 master-clock ticks.
const masterTicksPerSPCCycle = 21

// APU owns the SPC700 CPU, its memory map, and the S-DSP.
type APU struct {
	cpu *spc700.SPC700
	mem *Memory
	dsp *DSP

	owedCycles uint64 // master-clock-equivalent cycles not yet run
}

// New creates an APU. sink is shared with the SPC700 CPU for debug event
// emission.
func New(sink *debug.Sink) *APU {
	dsp := NewDSP()
	mem := NewMemory(dsp)
	return &APU{mem: mem, dsp: dsp, cpu: spc700.New(mem, sink)}
}

// Reset resets the SPC700, memory, and DSP.
func (a *APU) Reset() {
	a.mem.Reset()
	a.dsp.Reset()
	a.cpu.Reset()
	a.owedCycles = 0
}

// AddOwedCycles is called by the main bus each time it advances the
// master clock, accumulating how far the APU has fallen behind without
// actually running it yet.
func (a *APU) AddOwedCycles(masterClockTicks uint64) {
	a.owedCycles += masterClockTicks
}

// CatchUp runs the SPC700 forward until it has consumed all owed cycles,
// converting each instruction's SPC700 cycle count to master-clock ticks
// at the fixed 1:21 ratio and stepping the hardware timers once per
// elapsed SPC700 cycle (not once per instruction), so a multi-cycle
// instruction advances them the same number of times real hardware
// would. Called immediately before a mailbox port is read or written from
// the main-bus side and before SampleFrame drains a sample, so those
// accesses always observe a consistent, caught-up APU state.
func (a *APU) CatchUp() {
	for a.owedCycles > 0 {
		spcCycles := a.cpu.Step()
		for i := uint64(0); i < spcCycles; i++ {
			a.mem.Step()
		}
		spent := spcCycles * masterTicksPerSPCCycle
		if spent >= a.owedCycles {
			a.owedCycles = 0
		} else {
			a.owedCycles -= spent
		}
	}
}

// WritePort writes one of the four mailbox ports from the main-bus
// side ($2140-$2143), after catching up the APU.
func (a *APU) WritePort(port uint8, value uint8) {
	a.CatchUp()
	a.mem.WriteFromCPU(port, value)
}

// ReadPort reads one of the four mailbox ports from the main-bus side,
// after catching up the APU.
func (a *APU) ReadPort(port uint8) uint8 {
	a.CatchUp()
	return a.mem.ReadFromCPU(port)
}

// DSP exposes the S-DSP for tests and trace tooling that need to assert
// on voice register state directly.
func (a *APU) DSP() *DSP { return a.dsp }

// SampleFrame drains one stereo audio sample, catching up the APU first.
func (a *APU) SampleFrame() (left, right int16) {
	a.CatchUp()
	return a.dsp.SampleFrame()
}
