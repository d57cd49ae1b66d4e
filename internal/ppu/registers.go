package ppu

// Background holds one of the four BG layers' configuration, written
// through BGnSC/BGnTYTXY/scroll register pairs.
type Background struct {
	TilemapAddr  uint16 // word address, from BGnSC bits 2-7 << 10
	TilemapSize  uint8  // 0=32x32 1=64x32 2=32x64 3=64x64
	CharAddr     uint16 // word address of the character/tile data
	ScrollX      uint16
	ScrollY      uint16
	MosaicEnable bool
	Enabled      bool // main screen enable (TM)
	SubEnabled   bool // sub screen enable (TS)
}

// writeScrollX implements the BGnHOFS write-twice protocol: the new byte
// becomes the high byte and the previous write held in the shared latch
// becomes the low byte of the next word.
func (b *Background) writeScrollX(value uint8, latch *uint8) {
	b.ScrollX = (uint16(value) << 8) | uint16(*latch)
	*latch = value
}

func (b *Background) writeScrollY(value uint8, latch *uint8) {
	b.ScrollY = (uint16(value) << 8) | uint16(*latch)
	*latch = value
}

// Registers holds the PPU's CPU-visible register file (ports $2100-$213F).
type Registers struct {
	ForceBlank   bool
	Brightness   uint8 // 0-15, INIDISP low nibble

	ObjBaseAddr  uint16
	ObjNameSelect uint8
	ObjSizeSelect uint8

	BGMode  uint8
	BG3Priority bool
	BG      [4]Background

	vmain struct {
		incAmount    uint16
		incAfterHigh bool
		remap        uint8
	}
	vramAddr       uint16
	vramReadLatch  bool // set on address write; the next matching read skips the increment

	cgram *CGRAM
	oam   *OAM
	vram  *VRAM

	commonScrollLatch uint8

	mulA  uint8
	mulB  uint8
	mulResult uint16

	divDividend uint16
	divDivisor  uint8
	divResult   uint16
	divRemainder uint16

	nmiEnable   bool
	autoJoyEnable bool
	irqMode     uint8 // 0=none 1=H 2=V 3=H+V
	hTime       uint16
	vTime       uint16

	vblankFlag bool
	hblankFlag bool
	nmiOccurred bool
	irqOccurred bool
	rangeOver  bool
	timeOver   bool
}

func NewRegisters(vram *VRAM, cgram *CGRAM, oam *OAM) *Registers {
	r := &Registers{vram: vram, cgram: cgram, oam: oam}
	r.vmain.incAmount = 1
	return r
}

func (r *Registers) Reset() {
	*r = *NewRegisters(r.vram, r.cgram, r.oam)
}

// WriteRegister handles a CPU write to a $21xx port.
func (r *Registers) WriteRegister(addr uint16, value uint8) {
	switch addr {
	case 0x2100: // INIDISP
		r.ForceBlank = value&0x80 != 0
		r.Brightness = value & 0x0F
	case 0x2101: // OBSEL
		r.ObjNameSelect = (value >> 3) & 0x03
		r.ObjSizeSelect = (value >> 5) & 0x07
		r.ObjBaseAddr = uint16(value&0x07) << 13
	case 0x2102, 0x2103: // OAMADDL/H
		// simplified: treat as a single 10-bit address write, low byte first
		if addr == 0x2102 {
			r.oam.SetAddress((r.oam.addr &^ 0xFF) | uint16(value))
		} else {
			r.oam.SetAddress((r.oam.addr & 0xFF) | uint16(value&0x03)<<8)
		}
	case 0x2104: // OAMDATA
		r.oam.WriteByte(value)
	case 0x2105: // BGMODE
		r.BGMode = value & 0x07
		r.BG3Priority = value&0x08 != 0
	case 0x2107, 0x2108, 0x2109, 0x210A: // BG1SC-BG4SC
		bg := addr - 0x2107
		r.BG[bg].TilemapAddr = uint16(value&0xFC) << 8
		r.BG[bg].TilemapSize = value & 0x03
	case 0x210B: // BG12NBA
		r.BG[0].CharAddr = uint16(value&0x0F) << 12
		r.BG[1].CharAddr = uint16(value&0xF0) << 8
	case 0x210C: // BG34NBA
		r.BG[2].CharAddr = uint16(value&0x0F) << 12
		r.BG[3].CharAddr = uint16(value&0xF0) << 8
	case 0x210D: // BG1HOFS
		r.BG[0].writeScrollX(value, &r.commonScrollLatch)
	case 0x210E: // BG1VOFS
		r.BG[0].writeScrollY(value, &r.commonScrollLatch)
	case 0x210F: // BG2HOFS
		r.BG[1].writeScrollX(value, &r.commonScrollLatch)
	case 0x2110: // BG2VOFS
		r.BG[1].writeScrollY(value, &r.commonScrollLatch)
	case 0x2111: // BG3HOFS
		r.BG[2].writeScrollX(value, &r.commonScrollLatch)
	case 0x2112: // BG3VOFS
		r.BG[2].writeScrollY(value, &r.commonScrollLatch)
	case 0x2113: // BG4HOFS
		r.BG[3].writeScrollX(value, &r.commonScrollLatch)
	case 0x2114: // BG4VOFS
		r.BG[3].writeScrollY(value, &r.commonScrollLatch)
	case 0x2115: // VMAIN
		amounts := [4]uint16{1, 32, 128, 128}
		r.vmain.incAmount = amounts[value&0x03]
		r.vmain.incAfterHigh = value&0x80 != 0
		r.vmain.remap = (value >> 2) & 0x03
	case 0x2116: // VMADDL
		r.vramAddr = (r.vramAddr & 0xFF00) | uint16(value)
		r.vramReadLatch = true
	case 0x2117: // VMADDH
		r.vramAddr = (r.vramAddr & 0x00FF) | uint16(value&0x7F)<<8
		r.vramReadLatch = true
	case 0x2118: // VMDATAL
		w := r.vram.Read(r.vramAddr)
		r.vram.Write(r.vramAddr, (w & 0xFF00) | uint16(value))
		if !r.vmain.incAfterHigh {
			r.vramAddr = (r.vramAddr + r.vmain.incAmount) & 0x7FFF
		}
	case 0x2119: // VMDATAH
		w := r.vram.Read(r.vramAddr)
		r.vram.Write(r.vramAddr, (w & 0x00FF) | uint16(value)<<8)
		if r.vmain.incAfterHigh {
			r.vramAddr = (r.vramAddr + r.vmain.incAmount) & 0x7FFF
		}
	case 0x211A: // M7SEL and other Mode 7 registers: out of rendering scope, stored only
	case 0x2121: // CGADD
		r.cgram.SetAddress(value)
	case 0x2122: // CGDATA
		r.cgram.WriteByte(value)
	case 0x2123, 0x2124, 0x2125: // W12SEL/W34SEL/WOBJSEL: window masks, out of scope
	case 0x212C: // TM main screen designation
		for i := 0; i < 4; i++ {
			r.BG[i].Enabled = value&(1<<uint(i)) != 0
		}
	case 0x212D: // TS sub screen designation
		for i := 0; i < 4; i++ {
			r.BG[i].SubEnabled = value&(1<<uint(i)) != 0
		}
	case 0x2131, 0x2132: // colour math registers: stored only, not applied to rendering
	case 0x2133: // SETINI
	case 0x2140, 0x2141, 0x2142, 0x2143: // APU mailbox handled by the bus, not here
	case 0x4016: // joypad strobe, handled by the bus
	case 0x4200: // NMITIMEN
		r.nmiEnable = value&0x80 != 0
		r.autoJoyEnable = value&0x01 != 0
		r.irqMode = (value >> 4) & 0x03
	case 0x4201: // WRIO, not modeled
	case 0x4202: // WRMPYA
		r.mulA = value
	case 0x4203: // WRMPYB
		r.mulB = value
		r.mulResult = uint16(r.mulA) * uint16(r.mulB)
	case 0x4204: // WRDIVL
		r.divDividend = (r.divDividend & 0xFF00) | uint16(value)
	case 0x4205: // WRDIVH
		r.divDividend = (r.divDividend & 0x00FF) | uint16(value)<<8
	case 0x4206: // WRDIVB
		r.divDivisor = value
		if r.divDivisor == 0 {
			r.divResult = 0xFFFF
			r.divRemainder = r.divDividend
		} else {
			r.divResult = r.divDividend / uint16(r.divDivisor)
			r.divRemainder = r.divDividend % uint16(r.divDivisor)
		}
	case 0x4207: // HTIMEL
		r.hTime = (r.hTime & 0xFF00) | uint16(value)
	case 0x4208: // HTIMEH
		r.hTime = (r.hTime & 0x00FF) | uint16(value&0x01)<<8
	case 0x4209: // VTIMEL
		r.vTime = (r.vTime & 0xFF00) | uint16(value)
	case 0x420A: // VTIMEH
		r.vTime = (r.vTime & 0x00FF) | uint16(value&0x01)<<8
	}
}

// ReadRegister handles a CPU read of a $21xx/$42xx port.
func (r *Registers) ReadRegister(addr uint16) uint8 {
	switch addr {
	case 0x2104: // OAMDATA read
		return r.oam.ReadByte()
	case 0x2134: // MPYL
		return uint8(r.mulResult)
	case 0x2135: // MPYM
		return uint8(r.mulResult >> 8)
	case 0x2136: // MPYH
		return 0 // multiplication result is 16-bit; high byte unused on real hardware
	case 0x2138: // OAM data read via separate port in some docs; alias
		return r.oam.ReadByte()
	case 0x2139: // VMDATALREAD
		v := uint8(r.vram.Read(r.vramAddr))
		if !r.vmain.incAfterHigh {
			if r.vramReadLatch {
				r.vramReadLatch = false
			} else {
				r.vramAddr = (r.vramAddr + r.vmain.incAmount) & 0x7FFF
			}
		}
		return v
	case 0x213A: // VMDATAHREAD
		v := uint8(r.vram.Read(r.vramAddr) >> 8)
		if r.vmain.incAfterHigh {
			if r.vramReadLatch {
				r.vramReadLatch = false
			} else {
				r.vramAddr = (r.vramAddr + r.vmain.incAmount) & 0x7FFF
			}
		}
		return v
	case 0x213B: // CGDATAREAD
		return r.cgram.ReadByte()
	case 0x213E: // STAT77
		v := uint8(0x01) // PPU1 version
		if r.timeOver {
			v |= 0x80
		}
		if r.rangeOver {
			v |= 0x40
		}
		return v
	case 0x213F: // STAT78
		return 0x02 // PPU2 version, NTSC
	case 0x4210: // RDNMI
		v := uint8(0x02) // CPU version nibble, fixed
		if r.nmiOccurred {
			v |= 0x80
			r.nmiOccurred = false
		}
		return v
	case 0x4211: // TIMEUP
		v := uint8(0)
		if r.irqOccurred {
			v |= 0x80
			r.irqOccurred = false
		}
		return v
	case 0x4212: // HVBJOY
		v := uint8(0)
		if r.vblankFlag {
			v |= 0x80
		}
		if r.hblankFlag {
			v |= 0x40
		}
		return v
	case 0x4214: // RDDIVL
		return uint8(r.divResult)
	case 0x4215: // RDDIVH
		return uint8(r.divResult >> 8)
	case 0x4216: // RDMPYL
		return uint8(r.divRemainder)
	case 0x4217: // RDMPYH
		return uint8(r.divRemainder >> 8)
	default:
		return 0
	}
}
