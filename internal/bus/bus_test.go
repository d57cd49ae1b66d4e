package bus

import (
	"testing"

	"github.com/sres-go/gosres/internal/clock"
	"github.com/sres-go/gosres/internal/debug"
	"github.com/sres-go/gosres/internal/input"
)

func newTestBus() *Bus {
	b := New(debug.NewSink(nil))
	b.Reset()
	return b
}

func TestResetStartsMasterClockAtZero(t *testing.T) {
	b := newTestBus()
	// no cartridge loaded: every bus access reads open bus as 0, so the
	// reset vector at $00:FFFC/$FFFD is 0x0000.
	if b.MasterClock() != 0 {
		t.Fatalf("expected master clock 0 immediately after reset, got %d", b.MasterClock())
	}
	if b.CPU.PC != 0x0000 {
		t.Fatalf("expected PC 0x0000 after reset, got %#x", b.CPU.PC)
	}
}

func TestWRAMReadWriteRoundTrip(t *testing.T) {
	b := newTestBus()
	addr := clock.NewAddressU24(0x7E, 0x1234)
	b.CycleWrite(addr, 0x42)
	if got := b.CycleRead(addr); got != 0x42 {
		t.Fatalf("expected 0x42, got %#x", got)
	}
}

func TestWRAMMirrorInBankZero(t *testing.T) {
	b := newTestBus()
	b.CycleWrite(clock.NewAddressU24(0x7E, 0x0010), 0x99)
	if got := b.CycleRead(clock.NewAddressU24(0x00, 0x0010)); got != 0x99 {
		t.Fatalf("expected bank $00 mirror to see WRAM, got %#x", got)
	}
}

func TestDMAByteCountScenario(t *testing.T) {
	b := newTestBus()
	for i := 0; i < 16; i++ {
		b.CycleWrite(clock.NewAddressU24(0x7E, uint16(i)), uint8(0x20+i))
	}

	b.CycleWrite(clock.NewAddressU24(0x00, 0x4300), 0x00) // DMAP0
	b.CycleWrite(clock.NewAddressU24(0x00, 0x4301), 0x18) // BBAD0 -> $2118
	b.CycleWrite(clock.NewAddressU24(0x00, 0x4302), 0x00) // A1T0L
	b.CycleWrite(clock.NewAddressU24(0x00, 0x4303), 0x00) // A1T0H
	b.CycleWrite(clock.NewAddressU24(0x00, 0x4304), 0x7E) // A1B0
	b.CycleWrite(clock.NewAddressU24(0x00, 0x4305), 0x10) // DAS0L = 16
	b.CycleWrite(clock.NewAddressU24(0x00, 0x4306), 0x00) // DAS0H

	before := b.MasterClock()
	b.CycleWrite(clock.NewAddressU24(0x00, 0x420B), 0x01) // MDMAEN channel 0
	elapsed := b.MasterClock() - before

	// the MDMAEN write itself also costs an I/O-region bus cycle in
	// addition to the DMA pump's own 136 ticks.
	if elapsed < 16*8+8 {
		t.Fatalf("expected at least 136 master ticks from the DMA pump, got %d", elapsed)
	}
}

func TestHDMAAutoPumpsAtScanlineBoundary(t *testing.T) {
	b := newTestBus()

	// HDMA table in WRAM bank $7E: one line, no repeat, then one data byte.
	b.CycleWrite(clock.NewAddressU24(0x7E, 0x3000), 0x01)
	b.CycleWrite(clock.NewAddressU24(0x7E, 0x3001), 0x55)

	b.CycleWrite(clock.NewAddressU24(0x00, 0x2116), 0x10) // VMADDL
	b.CycleWrite(clock.NewAddressU24(0x00, 0x2117), 0x00) // VMADDH -> VRAM word $0010

	b.CycleWrite(clock.NewAddressU24(0x00, 0x4300), 0x00) // DMAP0: A-to-B, pattern 0
	b.CycleWrite(clock.NewAddressU24(0x00, 0x4301), 0x18) // BBAD0 -> $2118 (VMDATAL)
	b.CycleWrite(clock.NewAddressU24(0x00, 0x4302), 0x00) // A1T0L
	b.CycleWrite(clock.NewAddressU24(0x00, 0x4303), 0x30) // A1T0H -> table at $7E:3000
	b.CycleWrite(clock.NewAddressU24(0x00, 0x4304), 0x7E) // A1B0

	b.CycleWrite(clock.NewAddressU24(0x00, 0x420C), 0x01) // HDMAEN channel 0
	b.InitHDMA()

	if b.PPU.VRAM.Read(0x0010) != 0 {
		t.Fatal("expected VRAM untouched before any scanline has elapsed")
	}

	// Advance past one full scanline without ever calling StepScanline
	// directly: the automatic pump inside advance() must fire on its own.
	b.advance(1400)

	if got := b.PPU.VRAM.Read(0x0010) & 0xFF; got != 0x55 {
		t.Fatalf("expected HDMA to auto-pump the transfer byte into VRAM, got %#x", got)
	}
}

func TestAPUMailboxRoundTripThroughBus(t *testing.T) {
	b := newTestBus()
	b.CycleWrite(clock.NewAddressU24(0x00, 0x2140), 0x7A)
	// Without a loaded SPC700 echo program the APU's boot ROM just idles;
	// this only asserts the bus plumbs the write and the read through
	// without panicking. The main-side read returns what the SPC700 last
	// wrote to the port, not the value written here, so it is not checked.
	_ = b.CycleRead(clock.NewAddressU24(0x00, 0x2140))
}

func TestControllerStrobeAndSerialRead(t *testing.T) {
	b := newTestBus()
	b.Controller1.SetButton(input.ButtonB, true) // MSB of the shift register
	b.CycleWrite(clock.NewAddressU24(0x00, 0x4016), 0x01)
	b.CycleWrite(clock.NewAddressU24(0x00, 0x4016), 0x00)
	if got := b.CycleRead(clock.NewAddressU24(0x00, 0x4016)); got&0x01 == 0 {
		t.Fatal("expected the first serial bit to reflect the pressed button")
	}
}

func TestPPURegisterRoundTripThroughBus(t *testing.T) {
	b := newTestBus()
	b.CycleWrite(clock.NewAddressU24(0x00, 0x2100), 0x0F) // INIDISP, full brightness
	if b.PPU.Regs.Brightness != 0x0F {
		t.Fatalf("expected brightness 0x0F, got %#x", b.PPU.Regs.Brightness)
	}
}
