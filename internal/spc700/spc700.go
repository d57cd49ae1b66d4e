// Package spc700 implements the SPC700 audio coprocessor: its own 64 KiB
// address space (RAM plus a 64-byte boot ROM window at $FFC0), register
// file, and instruction execution, wired to the S-DSP through the
// internal/apu package.
package spc700

import (
	"github.com/sres-go/gosres/internal/clock"
	"github.com/sres-go/gosres/internal/debug"
)

// Bus is the capability set the SPC700 needs from its host memory map:
// RAM, the four CPU<->APU mailbox ports, DSP register access, and the
// boot ROM overlay.
type Bus interface {
	Peek(addr clock.AddressU16) uint8
	Read(addr clock.AddressU16) uint8
	Write(addr clock.AddressU16, value uint8)
}

// SPC700 is the audio coprocessor's CPU.
type SPC700 struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	Status  clock.Spc700StatusFlags

	bus  Bus
	sink *debug.Sink

	stopped bool
	waiting bool
	cycles  uint64
}

const resetVector = 0xFFFE

// New creates an SPC700 bound to bus. Call Reset before stepping.
func New(bus Bus, sink *debug.Sink) *SPC700 {
	return &SPC700{bus: bus, sink: sink}
}

// Reset performs the SPC700 reset sequence: PC loaded from $FFFE/$FFFF
// (inside the IPL boot ROM window), SP set to $EF per real hardware,
// interrupts disabled.
func (s *SPC700) Reset() {
	s.SP = 0xEF
	s.Status = clock.Spc700StatusFlags{}
	s.stopped = false
	s.waiting = false
	low := s.bus.Read(clock.AddressU16(resetVector))
	high := s.bus.Read(clock.AddressU16(resetVector + 1))
	s.PC = uint16(high)<<8 | uint16(low)
}

func (s *SPC700) Cycles() uint64 { return s.cycles }

func (s *SPC700) Halted() bool { return s.stopped }

// read8 and write8 each charge one SPC700 memory cycle (spec.md §4.6: "21
// master ticks per SPC700 memory cycle"), the same way cpu.go's
// CycleRead/CycleWrite cost the main CPU's bus-speed cycles. fetch8 is
// built on read8, so instruction-stream fetches are charged here too;
// opcode handlers only need to add ticks for cycles that aren't backed by
// a memory access (register-only ALU ops, indexed-addressing overhead,
// stack-pointer adjustment, and similar internal SPC700 cycles).
func (s *SPC700) read8(addr clock.AddressU16) uint8 {
	v := s.bus.Read(addr)
	s.tick(1)
	if debug.Enabled() && s.sink != nil {
		s.sink.Publish(debug.Event{Kind: debug.Spc700MemoryRead, Addr: uint32(addr), Value: v})
	}
	return v
}

func (s *SPC700) write8(addr clock.AddressU16, v uint8) {
	s.bus.Write(addr, v)
	s.tick(1)
	if debug.Enabled() && s.sink != nil {
		s.sink.Publish(debug.Event{Kind: debug.Spc700MemoryWrite, Addr: uint32(addr), Value: v})
	}
}

func (s *SPC700) fetch8() uint8 {
	v := s.read8(clock.AddressU16(s.PC))
	s.PC++
	return v
}

func (s *SPC700) fetch16() uint16 {
	low := s.fetch8()
	high := s.fetch8()
	return uint16(high)<<8 | uint16(low)
}

func (s *SPC700) push8(v uint8) {
	s.write8(clock.AddressU16(0x0100|uint16(s.SP)), v)
	s.SP--
}

func (s *SPC700) pop8() uint8 {
	s.SP++
	return s.read8(clock.AddressU16(0x0100 | uint16(s.SP)))
}

func (s *SPC700) push16(v uint16) {
	s.push8(uint8(v >> 8))
	s.push8(uint8(v))
}

func (s *SPC700) pop16() uint16 {
	low := s.pop8()
	high := s.pop8()
	return uint16(high)<<8 | uint16(low)
}

// directPage returns the base address of the current direct page: $0000
// or $0100 depending on the P status flag.
func (s *SPC700) directPage() uint16 {
	if s.Status.DirectPage {
		return 0x0100
	}
	return 0x0000
}

func (s *SPC700) setZN(v uint8) {
	s.Status.Zero = v == 0
	s.Status.Negative = v&0x80 != 0
}

// Step decodes and executes one instruction, returning the cycles
// charged. Unlike the main CPU the SPC700 has no maskable-interrupt
// input wired on real hardware (its only interrupt source is reset), so
// Step never needs to check a pending line before decoding.
func (s *SPC700) Step() uint64 {
	before := s.cycles
	if s.stopped {
		s.tick(1)
		return s.cycles - before
	}
	if s.waiting {
		s.tick(1)
		return s.cycles - before
	}

	pc := s.PC
	opcode := s.fetch8()
	s.execute(opcode)

	if debug.Enabled() && s.sink != nil {
		s.sink.Publish(debug.Event{Kind: debug.Spc700Step, SPC: &debug.Spc700State{
			Instruction: debug.Spc700InstructionMeta{Address: clock.AddressU16(pc)},
			A:           s.A, X: s.X, Y: s.Y, SP: clock.AddressU16(s.SP), Status: s.Status,
		}})
	}
	return s.cycles - before
}

func (s *SPC700) tick(n uint64) { s.cycles += n }
