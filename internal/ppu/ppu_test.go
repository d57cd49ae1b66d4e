package ppu

import (
	"testing"

	"github.com/sres-go/gosres/internal/clock"
)

func TestVRAMReadWrite(t *testing.T) {
	var v VRAM
	v.Write(0x1234, 0xBEEF)
	if got := v.Read(0x1234); got != 0xBEEF {
		t.Fatalf("expected 0xBEEF, got %#x", got)
	}
}

func TestVRAMAddressWraps(t *testing.T) {
	var v VRAM
	v.Write(0x8010, 0x1111) // wraps to 0x0010
	if got := v.Read(0x0010); got != 0x1111 {
		t.Fatalf("expected wrapped write visible at 0x0010, got %#x", got)
	}
}

func TestCGRAMWriteLatchCoalescesTwoBytes(t *testing.T) {
	var c CGRAM
	c.SetAddress(5)
	c.WriteByte(0xAA) // low byte buffered
	if c.data[5] != 0 {
		t.Fatal("expected no write to commit until the high byte arrives")
	}
	c.WriteByte(0x7F) // high byte, commits
	if got := c.Color(5); got != 0x7FAA {
		t.Fatalf("expected combined colour 0x7FAA, got %#x", got)
	}
	if c.addr != 6 {
		t.Fatalf("expected address to auto-increment to 6, got %d", c.addr)
	}
}

func TestCGRAMReadAlternatesLowHigh(t *testing.T) {
	var c CGRAM
	c.data[0] = 0x7FAA
	c.SetAddress(0)
	lo := c.ReadByte()
	hi := c.ReadByte()
	if lo != 0xAA || hi != 0x7F {
		t.Fatalf("expected (0xAA,0x7F), got (%#x,%#x)", lo, hi)
	}
	if c.addr != 1 {
		t.Fatalf("expected address to advance after the high byte, got %d", c.addr)
	}
}

func TestOAMWriteReadRoundTrip(t *testing.T) {
	var o OAM
	o.SetAddress(0)
	o.WriteByte(0x10)
	o.WriteByte(0x20)
	o.SetAddress(0)
	if got := o.ReadByte(); got != 0x10 {
		t.Fatalf("expected 0x10, got %#x", got)
	}
	if got := o.ReadByte(); got != 0x20 {
		t.Fatalf("expected 0x20, got %#x", got)
	}
}

func TestOAMSpriteDecodeSignExtendsX(t *testing.T) {
	var o OAM
	o.SetAddress(0)
	o.WriteByte(0xF0) // X low byte
	o.WriteByte(100)  // Y
	o.WriteByte(0x05) // tile low
	o.WriteByte(0x01) // attr: tile bank bit set

	o.SetAddress(512)
	o.WriteByte(0x01) // sprite 0's X-MSB bit set -> negative X

	s := o.Sprite(0)
	if s.X != -16 {
		t.Fatalf("expected sign-extended X=-16, got %d", s.X)
	}
	if s.Tile != 0x105 {
		t.Fatalf("expected tile 0x105, got %#x", s.Tile)
	}
	if s.Y != 100 {
		t.Fatalf("expected Y=100, got %d", s.Y)
	}
}

func TestRegistersVMDATAWriteIncrementsAddress(t *testing.T) {
	var v VRAM
	var c CGRAM
	var o OAM
	r := NewRegisters(&v, &c, &o)
	r.WriteRegister(0x2115, 0x80) // VMAIN: increment by 1 after high write
	r.WriteRegister(0x2116, 0x00)
	r.WriteRegister(0x2117, 0x00)
	r.WriteRegister(0x2118, 0xCD) // low byte
	r.WriteRegister(0x2119, 0xAB) // high byte, increments
	if v.Read(0) != 0xABCD {
		t.Fatalf("expected word 0xABCD at address 0, got %#x", v.Read(0))
	}
	if r.vramAddr != 1 {
		t.Fatalf("expected address to advance to 1, got %d", r.vramAddr)
	}
}

func TestRegistersVRAMPrefetchLatch(t *testing.T) {
	var v VRAM
	var c CGRAM
	var o OAM
	v.Write(0x10, 0x1234)
	r := NewRegisters(&v, &c, &o)
	r.WriteRegister(0x2116, 0x10) // low addr byte, latches the word at $10
	r.WriteRegister(0x2117, 0x00)
	if got := r.ReadRegister(0x2139); got != 0x34 {
		t.Fatalf("expected latched low byte 0x34, got %#x", got)
	}
	if got := r.ReadRegister(0x213A); got != 0x12 {
		t.Fatalf("expected latched high byte 0x12, got %#x", got)
	}
}

func TestMultiplyRegisters(t *testing.T) {
	var v VRAM
	var c CGRAM
	var o OAM
	r := NewRegisters(&v, &c, &o)
	r.WriteRegister(0x4202, 12)
	r.WriteRegister(0x4203, 10)
	lo := r.ReadRegister(0x2134)
	mid := r.ReadRegister(0x2135)
	got := uint16(mid)<<8 | uint16(lo)
	if got != 120 {
		t.Fatalf("expected 12*10=120, got %d", got)
	}
}

func TestDivideRegisters(t *testing.T) {
	var v VRAM
	var c CGRAM
	var o OAM
	r := NewRegisters(&v, &c, &o)
	r.WriteRegister(0x4204, 100)
	r.WriteRegister(0x4205, 0)
	r.WriteRegister(0x4206, 7)
	quotient := uint16(r.ReadRegister(0x4215))<<8 | uint16(r.ReadRegister(0x4214))
	remainder := uint16(r.ReadRegister(0x4217))<<8 | uint16(r.ReadRegister(0x4216))
	if quotient != 14 || remainder != 2 {
		t.Fatalf("expected 100/7 = 14 rem 2, got %d rem %d", quotient, remainder)
	}
}

func TestPPUAdvanceSetsVBlankAndNMI(t *testing.T) {
	p := New()
	p.Reset()
	p.Regs.WriteRegister(0x4200, 0x80) // enable NMI

	// advance to a master-clock position within vblank (scanline >= 225)
	vhf := clock.FromVHF(225, 0, 0)
	p.Advance(vhf.MasterClock)

	if !p.InVBlank() {
		t.Fatal("expected PPU to report VBlank")
	}
	if !p.PollNMI() {
		t.Fatal("expected NMI to be latched on entering VBlank")
	}
}
