package cpu

import (
	"testing"

	"github.com/sres-go/gosres/internal/clock"
	"github.com/sres-go/gosres/internal/debug"
)

// fakeBus is a flat 64KiB-per-bank memory used only to exercise the CPU
// in isolation, independent of the real bus's address decode.
type fakeBus struct {
	banks map[uint8][]uint8
}

func newFakeBus() *fakeBus {
	return &fakeBus{banks: map[uint8][]uint8{0: make([]uint8, 0x10000)}}
}

func (b *fakeBus) ensure(bank uint8) []uint8 {
	m, ok := b.banks[bank]
	if !ok {
		m = make([]uint8, 0x10000)
		b.banks[bank] = m
	}
	return m
}

func (b *fakeBus) Peek(addr clock.AddressU24) (uint8, bool) {
	return b.ensure(addr.Bank)[addr.Offset], true
}

func (b *fakeBus) CycleRead(addr clock.AddressU24) uint8 {
	return b.ensure(addr.Bank)[addr.Offset]
}

func (b *fakeBus) CycleWrite(addr clock.AddressU24, v uint8) {
	b.ensure(addr.Bank)[addr.Offset] = v
}

func (b *fakeBus) CycleIO() {}

func (b *fakeBus) setResetVector(pc uint16) {
	mem := b.ensure(0)
	mem[0xFFFC] = uint8(pc)
	mem[0xFFFD] = uint8(pc >> 8)
}

func (b *fakeBus) load(bank uint8, offset uint16, code ...uint8) {
	mem := b.ensure(bank)
	copy(mem[offset:], code)
}

func newTestCPU() (*CPU, *fakeBus) {
	bus := newFakeBus()
	bus.setResetVector(0x8000)
	c := New(bus, debug.NewSink(nil))
	c.Reset()
	return c, bus
}

func TestResetEntersEmulationMode(t *testing.T) {
	c, _ := newTestCPU()
	if !c.Emulation {
		t.Fatal("expected emulation mode after reset")
	}
	if !c.Status.AccumulatorWidth8 || !c.Status.IndexWidth8 {
		t.Fatal("expected M=X=1 after reset")
	}
	if c.S != 0x01FF {
		t.Fatalf("expected S=$01FF after reset, got %#x", c.S)
	}
	if c.PC != 0x8000 {
		t.Fatalf("expected PC loaded from reset vector, got %#x", c.PC)
	}
}

func TestLDAImmediateSetsFlags(t *testing.T) {
	c, bus := newTestCPU()
	bus.load(0, 0x8000, 0xA9, 0x00) // LDA #$00
	c.Step()
	if !c.Status.Zero {
		t.Fatal("expected Z set after loading zero")
	}
	bus.load(0, 0x8002, 0xA9, 0x80) // LDA #$80
	c.Step()
	if !c.Status.Negative {
		t.Fatal("expected N set after loading a negative 8-bit value")
	}
}

func TestSTALDARoundTrip(t *testing.T) {
	c, bus := newTestCPU()
	bus.load(0, 0x8000,
		0xA9, 0x42, // LDA #$42
		0x8D, 0x00, 0x10, // STA $1000
		0xA9, 0x00, // LDA #$00
		0xAD, 0x00, 0x10, // LDA $1000
	)
	for i := 0; i < 4; i++ {
		c.Step()
	}
	if uint8(c.A) != 0x42 {
		t.Fatalf("expected A=$42 after round trip, got %#x", c.A)
	}
}

func TestXCESwitchesToNativeMode(t *testing.T) {
	c, bus := newTestCPU()
	bus.load(0, 0x8000, 0x18, 0xFB) // CLC; XCE
	c.Step()
	c.Step()
	if c.Emulation {
		t.Fatal("expected native mode after CLC;XCE")
	}
}

func TestRepSepWidenAccumulator(t *testing.T) {
	c, bus := newTestCPU()
	bus.load(0, 0x8000,
		0x18,       // CLC
		0xFB,       // XCE -> native mode
		0xC2, 0x20, // REP #$20 -> M=0 (16-bit accumulator)
		0xA9, 0x34, 0x12, // LDA #$1234
	)
	for i := 0; i < 4; i++ {
		c.Step()
	}
	if c.A != 0x1234 {
		t.Fatalf("expected 16-bit load, got %#x", c.A)
	}
}

func TestBranchTaken(t *testing.T) {
	c, bus := newTestCPU()
	bus.load(0, 0x8000,
		0xA9, 0x00, // LDA #$00 -> Z=1
		0xF0, 0x02, // BEQ +2
		0xA9, 0xFF, // LDA #$FF (skipped)
		0xA9, 0x11, // LDA #$11
	)
	for i := 0; i < 3; i++ {
		c.Step()
	}
	if uint8(c.A) != 0x11 {
		t.Fatalf("expected branch taken to skip the next LDA, got A=%#x", c.A)
	}
}

func TestJSRRTSRoundTrip(t *testing.T) {
	c, bus := newTestCPU()
	bus.load(0, 0x8000,
		0x20, 0x10, 0x80, // JSR $8010
		0xA9, 0x99, // LDA #$99 (after return)
	)
	bus.load(0, 0x8010,
		0xA9, 0x01, // LDA #$01
		0x60, // RTS
	)
	c.Step() // JSR
	if c.PC != 0x8010 {
		t.Fatalf("expected PC=$8010 after JSR, got %#x", c.PC)
	}
	c.Step() // LDA #$01
	c.Step() // RTS
	if c.PC != 0x8003 {
		t.Fatalf("expected PC=$8003 after RTS, got %#x", c.PC)
	}
	c.Step() // LDA #$99
	if uint8(c.A) != 0x99 {
		t.Fatalf("expected A=$99, got %#x", c.A)
	}
}

func TestNMILatchesOnRisingEdgeAndServicesOnNextStep(t *testing.T) {
	c, bus := newTestCPU()
	bus.load(0, 0x8000, 0xEA) // NOP
	mem0 := bus.ensure(0)
	mem0[0xFFFA] = 0x00
	mem0[0xFFFB] = 0x90 // emulation NMI vector -> $9000

	c.SetNMILine(true)
	c.Step()
	if c.PC != 0x9000 {
		t.Fatalf("expected NMI to redirect PC to $9000, got %#x", c.PC)
	}
}

func TestIRQMaskedByIFlag(t *testing.T) {
	c, bus := newTestCPU()
	bus.load(0, 0x8000, 0xEA) // NOP
	c.SetIRQLine(true)
	// Reset leaves I=1, so the IRQ must not be serviced yet.
	pcBefore := c.PC
	c.Step()
	if c.PC == pcBefore {
		t.Fatal("expected NOP to still execute and advance PC")
	}
	if c.PC != pcBefore+1 {
		t.Fatalf("IRQ should have been masked by I=1, got PC=%#x", c.PC)
	}
}

func TestDirectPageWrapsWithinPageWhenDLIsZero(t *testing.T) {
	c, bus := newTestCPU()
	bus.load(0, 0x8000, 0xB5, 0xFF) // LDA $FF,X (direct page)
	c.X = 0x02
	bus.ensure(0)[0x0001] = 0x77
	c.Step()
	if uint8(c.A) != 0x77 {
		t.Fatalf("expected $FF+X to wrap to $0001 within the direct page, got A=%#x", c.A)
	}
}

func TestAbsoluteIndexedPageCrossDoesNotAffectResult(t *testing.T) {
	c, bus := newTestCPU()
	bus.load(0, 0x8000, 0xBD, 0xFF, 0x10) // LDA $10FF,X
	c.X = 0x01
	bus.ensure(0)[0x1100] = 0x55
	c.Step()
	if uint8(c.A) != 0x55 {
		t.Fatalf("expected page-crossing indexed read to still resolve correctly, got %#x", c.A)
	}
}

func TestADCAbsoluteIndexedX(t *testing.T) {
	c, bus := newTestCPU()
	bus.load(0, 0x8000,
		0xA9, 0x01, // LDA #$01
		0x18,             // CLC
		0x7D, 0x00, 0x10, // ADC $1000,X
	)
	c.X = 0x02
	bus.ensure(0)[0x1002] = 0x41
	for i := 0; i < 3; i++ {
		c.Step()
	}
	if uint8(c.A) != 0x42 {
		t.Fatalf("expected A=$42 after ADC abs,X, got %#x", c.A)
	}
}

func TestADCLongAddressing(t *testing.T) {
	c, bus := newTestCPU()
	bus.load(0, 0x8000,
		0xA9, 0x01, // LDA #$01
		0x18,                   // CLC
		0x6F, 0x00, 0x20, 0x7E, // ADC $7E2000
	)
	c.Step()
	c.Step()
	bus.ensure(0x7E)[0x2000] = 0x10
	c.Step()
	if uint8(c.A) != 0x11 {
		t.Fatalf("expected A=$11 after ADC long, got %#x", c.A)
	}
}

func TestCMPDirectIndirectIndexedY(t *testing.T) {
	c, bus := newTestCPU()
	bus.load(0, 0x8000,
		0xA9, 0x05, // LDA #$05
		0xD1, 0x10, // CMP ($10),Y
	)
	bus.ensure(0)[0x0010] = 0x00 // pointer low
	bus.ensure(0)[0x0011] = 0x30 // pointer high -> $003000
	c.Y = 0x02
	bus.ensure(0)[0x3002] = 0x05
	c.Step()
	c.Step()
	if !c.Status.Zero {
		t.Fatal("expected CMP (dp),Y to set Zero when operand equals A")
	}
}

func TestINCAbsoluteIndexedX(t *testing.T) {
	c, bus := newTestCPU()
	bus.load(0, 0x8000, 0xFE, 0x00, 0x10) // INC $1000,X
	c.X = 0x01
	bus.ensure(0)[0x1001] = 0x7F
	c.Step()
	if bus.ensure(0)[0x1001] != 0x80 {
		t.Fatalf("expected memory incremented to $80, got %#x", bus.ensure(0)[0x1001])
	}
}

func TestASLAbsoluteIndexedX(t *testing.T) {
	c, bus := newTestCPU()
	bus.load(0, 0x8000, 0x1E, 0x00, 0x10) // ASL $1000,X
	c.X = 0x01
	bus.ensure(0)[0x1001] = 0x81
	c.Step()
	if bus.ensure(0)[0x1001] != 0x02 {
		t.Fatalf("expected $81<<1=$02 with carry out, got %#x", bus.ensure(0)[0x1001])
	}
	if !c.Status.Carry {
		t.Fatal("expected carry set from the high bit")
	}
}

func TestUndefinedOpcodeHalts(t *testing.T) {
	c, bus := newTestCPU()
	bus.load(0, 0x8000, 0x42) // WDM, reserved and never wired
	c.Step()
	if !c.Halted() {
		t.Fatal("expected undefined opcode to halt the CPU")
	}
}

func TestDisassembleDoesNotMutateState(t *testing.T) {
	c, bus := newTestCPU()
	bus.load(0, 0x8000, 0xA9, 0x42)
	pcBefore := c.PC
	meta := c.Disassemble(clock.NewAddressU24(0, 0x8000))
	if c.PC != pcBefore {
		t.Fatal("Disassemble must not mutate PC")
	}
	if meta.Operation != "LDA" {
		t.Fatalf("expected LDA, got %s", meta.Operation)
	}
	if !meta.HasOperand || meta.OperandStr != "$42" {
		t.Fatalf("expected operand $42, got %q", meta.OperandStr)
	}
}
