package ppu

import "testing"

// writeSolidTile fills tile index 1's 2bpp bitplane data (8 words past
// charAddr) so every pixel in the tile decodes to palette index 1.
func writeSolidTile(p *PPU, charAddr uint16) {
	for row := uint16(0); row < 8; row++ {
		p.VRAM.Write(charAddr+8+row, 0x00FF)
	}
}

func TestRenderBackgroundLineSamplesScrollPerCall(t *testing.T) {
	p := New()
	p.Reset()
	p.Regs.BGMode = 0
	bg := &p.Regs.BG[0]
	bg.Enabled = true
	bg.TilemapAddr = 0
	bg.TilemapSize = 0 // 32x32
	bg.CharAddr = 0x1000

	writeSolidTile(p, bg.CharAddr)
	p.VRAM.Write(0, decodeWord(1, 1))  // tilemap row 0: tile 1, palette 1
	p.VRAM.Write(32, decodeWord(1, 2)) // tilemap row 1: tile 1, palette 2

	bg.ScrollY = 0
	row0 := p.renderBackgroundLine(0, 0)
	if row0[0] != (1<<2)|1 {
		t.Fatalf("expected palette 1 tile at scanline 0 with ScrollY=0, got %#x", row0[0])
	}

	// A raster split: ScrollY changes between scanlines without touching
	// anything else, as HDMA-driven per-line scroll writes would.
	bg.ScrollY = 8
	row0Shifted := p.renderBackgroundLine(0, 0)
	if row0Shifted[0] != (2<<2)|1 {
		t.Fatalf("expected palette 2 tile at scanline 0 once ScrollY=8, got %#x", row0Shifted[0])
	}
}

// decodeWord builds a tilemap word selecting the given tile index and
// palette group, mirroring decodeTilemapWord's bit layout.
func decodeWord(tile uint16, palette uint8) uint16 {
	return tile&0x03FF | uint16(palette&0x07)<<10
}

func TestRenderScanlineForceBlankIsBlack(t *testing.T) {
	p := New()
	p.Reset()
	p.Regs.ForceBlank = true
	p.renderScanline(5)
	r, g, b, a := p.frame.At(10, 5).RGBA()
	if r != 0 || g != 0 || b != 0 || a == 0 {
		t.Fatalf("expected opaque black during force blank, got (%d,%d,%d,%d)", r, g, b, a)
	}
}

func TestRenderSpritesLineClipsToSpriteRows(t *testing.T) {
	p := New()
	p.Reset()

	// build a solid 4bpp tile (2 plane-pairs) at OBJ base address 0 so
	// every pixel decodes to a nonzero index regardless of row/col.
	for row := uint16(0); row < 8; row++ {
		p.VRAM.Write(row, 0x00FF)
		p.VRAM.Write(8+row, 0x00FF)
	}

	p.OAM.SetAddress(0)
	p.OAM.WriteByte(10) // X low
	p.OAM.WriteByte(10) // Y
	p.OAM.WriteByte(0)  // tile low
	p.OAM.WriteByte(0)  // attr: small sprite, palette 0, tile bank 0

	p.renderSpritesLine(9) // above the sprite's first row (Y=10)
	if _, _, _, a := p.frame.At(10, 9).RGBA(); a != 0 {
		t.Fatal("expected nothing drawn on a scanline above the sprite")
	}

	p.renderSpritesLine(10) // sprite's first visible row
	r, g, b, a := p.frame.At(10, 10).RGBA()
	if a == 0 {
		t.Fatal("expected the sprite pixel to be drawn on its first row")
	}
	_ = r
	_ = g
	_ = b
}
