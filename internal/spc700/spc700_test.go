package spc700

import (
	"testing"

	"github.com/sres-go/gosres/internal/clock"
	"github.com/sres-go/gosres/internal/debug"
)

type fakeBus struct {
	ram [0x10000]uint8
}

func (b *fakeBus) Peek(addr clock.AddressU16) uint8      { return b.ram[addr] }
func (b *fakeBus) Read(addr clock.AddressU16) uint8       { return b.ram[addr] }
func (b *fakeBus) Write(addr clock.AddressU16, v uint8)   { b.ram[addr] = v }

func (b *fakeBus) setResetVector(pc uint16) {
	b.ram[0xFFFE] = uint8(pc)
	b.ram[0xFFFF] = uint8(pc >> 8)
}

func (b *fakeBus) load(addr uint16, code ...uint8) {
	copy(b.ram[addr:], code)
}

func newTestSPC() (*SPC700, *fakeBus) {
	bus := &fakeBus{}
	bus.setResetVector(0x0200)
	s := New(bus, debug.NewSink(nil))
	s.Reset()
	return s, bus
}

func TestResetLoadsPCFromVector(t *testing.T) {
	s, _ := newTestSPC()
	if s.PC != 0x0200 {
		t.Fatalf("expected PC=$0200, got %#x", s.PC)
	}
	if s.SP != 0xEF {
		t.Fatalf("expected SP=$EF after reset, got %#x", s.SP)
	}
}

func TestMovImmediateSetsZeroFlag(t *testing.T) {
	s, bus := newTestSPC()
	bus.load(0x0200, 0xE8, 0x00) // MOV A,#$00
	s.Step()
	if !s.Status.Zero {
		t.Fatal("expected Z set after loading zero into A")
	}
}

func TestMovDirectPageRoundTrip(t *testing.T) {
	s, bus := newTestSPC()
	bus.load(0x0200,
		0xE8, 0x55, // MOV A,#$55
		0xC4, 0x10, // MOV $10,A
		0xE8, 0x00, // MOV A,#$00
		0xE4, 0x10, // MOV A,$10
	)
	for i := 0; i < 4; i++ {
		s.Step()
	}
	if s.A != 0x55 {
		t.Fatalf("expected A=$55 after round trip, got %#x", s.A)
	}
}

func TestCallRetRoundTrip(t *testing.T) {
	s, bus := newTestSPC()
	bus.load(0x0200, 0x3F, 0x10, 0x02) // CALL $0210
	bus.load(0x0210, 0xE8, 0x01, 0x6F) // MOV A,#$01; RET
	s.Step()                           // CALL
	if s.PC != 0x0210 {
		t.Fatalf("expected PC=$0210 after CALL, got %#x", s.PC)
	}
	s.Step() // MOV A,#$01
	s.Step() // RET
	if s.PC != 0x0203 {
		t.Fatalf("expected PC=$0203 after RET, got %#x", s.PC)
	}
}

func TestBranchTaken(t *testing.T) {
	s, bus := newTestSPC()
	bus.load(0x0200,
		0xE8, 0x00, // MOV A,#$00 -> Z=1
		0xF0, 0x02, // BEQ +2
		0xE8, 0xFF, // MOV A,#$FF (skipped)
		0xE8, 0x11, // MOV A,#$11
	)
	for i := 0; i < 3; i++ {
		s.Step()
	}
	if s.A != 0x11 {
		t.Fatalf("expected branch to skip the next MOV, got A=%#x", s.A)
	}
}

func TestStepChargesPerInstructionCycleCounts(t *testing.T) {
	s, bus := newTestSPC()
	bus.load(0x0200,
		0x00,       // NOP: 2 cycles
		0xE8, 0x00, // MOV A,#$00: 2 cycles
		0xC4, 0x10, // MOV dp,A: 4 cycles (3 memory accesses + 1 dummy-read)
		0x2D,       // PUSH A: 4 cycles
	)
	if got := s.Step(); got != 2 {
		t.Fatalf("expected NOP to cost 2 cycles, got %d", got)
	}
	if got := s.Step(); got != 2 {
		t.Fatalf("expected MOV A,#imm to cost 2 cycles, got %d", got)
	}
	if got := s.Step(); got != 4 {
		t.Fatalf("expected MOV dp,A to cost 4 cycles, got %d", got)
	}
	if got := s.Step(); got != 4 {
		t.Fatalf("expected PUSH A to cost 4 cycles, got %d", got)
	}
}

func TestUndefinedOpcodeHalts(t *testing.T) {
	s, bus := newTestSPC()
	bus.load(0x0200, 0x02) // not in the implemented opcode table
	s.Step()
	if !s.Halted() {
		t.Fatal("expected undefined opcode to halt the SPC700")
	}
}
