package ppu

import "image/color"

// bgrToRGBA expands a 15-bit BGR colour (5 bits per channel) into an
// opaque 8-bit RGBA colour.
func bgrToRGBA(c uint16) color.RGBA {
	r := uint8(c&0x1F) << 3
	g := uint8((c>>5)&0x1F) << 3
	b := uint8((c>>10)&0x1F) << 3
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

// bitsPerPixel returns the colour depth of a background layer given the
// current BG mode, per spec.md §4.3 step 1's per-mode depth table.
func bitsPerPixel(mode uint8, bg int) int {
	switch mode {
	case 0:
		return 2
	case 1:
		if bg == 2 {
			return 2
		}
		return 4
	case 2, 5, 6:
		if bg == 0 {
			return 4
		}
		return 2
	case 3:
		if bg == 0 {
			return 8
		}
		return 4
	case 4:
		if bg == 0 {
			return 8
		}
		return 2
	case 7:
		return 8
	default:
		return 4
	}
}

// tilePixel reads one pixel's palette index out of a tile's bitplanes in
// VRAM. Tiles are stored as interleaved bitplane pairs, 8 words per 2bpp
// plane pair, 8x8 pixels.
func (p *PPU) tilePixel(charBase uint16, tileIndex uint16, bpp int, row, col int) uint8 {
	planePairs := bpp / 2
	wordsPerTile := uint16(8 * planePairs)
	tileBase := charBase + tileIndex*wordsPerTile

	var index uint8
	for pair := 0; pair < planePairs; pair++ {
		w := p.VRAM.Read(tileBase + uint16(pair)*8 + uint16(row))
		lo := uint8(w>>uint(7-col)) & 1
		hi := uint8(w>>uint(15-col)) & 1
		index |= lo << uint(pair*2)
		index |= hi << uint(pair*2+1)
	}
	return index
}

// tilemapEntry decodes one 16-bit tilemap word: low 10 bits tile index,
// palette group, priority, and flip bits.
type tilemapEntry struct {
	Tile     uint16
	Palette  uint8
	Priority bool
	FlipX    bool
	FlipY    bool
}

func decodeTilemapWord(w uint16) tilemapEntry {
	return tilemapEntry{
		Tile:     w & 0x03FF,
		Palette:  uint8(w>>10) & 0x07,
		Priority: w&0x2000 != 0,
		FlipX:    w&0x4000 != 0,
		FlipY:    w&0x8000 != 0,
	}
}

// tilemapDims returns (tiles-wide, tiles-tall) for a BGnSC size code.
func tilemapDims(size uint8) (int, int) {
	switch size {
	case 1:
		return 64, 32
	case 2:
		return 32, 64
	case 3:
		return 64, 64
	default:
		return 32, 32
	}
}

// renderBackgroundLine fills one scanline's worth of palette colour indices
// for an 8x8-tile background layer, sampling that layer's scroll/tilemap
// registers right now rather than once for the whole frame, so a write
// between scanlines (a raster split, or an HDMA-driven per-line scroll
// change) takes effect starting on the very next line. Only the non-Mode-7
// tile path is implemented; Mode 7's affine transform is out of scope.
func (p *PPU) renderBackgroundLine(bg, y int) [ScreenWidth]uint8 {
	var out [ScreenWidth]uint8
	b := &p.Regs.BG[bg]
	bpp := bitsPerPixel(p.Regs.BGMode, bg)
	tilesWide, tilesTall := tilemapDims(b.TilemapSize)

	scrolledY := (y + int(b.ScrollY)) & (tilesTall*8 - 1)
	tileRow := scrolledY / 8
	rowInTile := scrolledY % 8
	for x := 0; x < ScreenWidth; x++ {
		scrolledX := (x + int(b.ScrollX)) & (tilesWide*8 - 1)
		tileCol := scrolledX / 8
		colInTile := scrolledX % 8

		mapWordAddr := b.TilemapAddr + uint16(tileRow*tilesWide+tileCol)
		entry := decodeTilemapWord(p.VRAM.Read(mapWordAddr))

		row := rowInTile
		col := colInTile
		if entry.FlipY {
			row = 7 - row
		}
		if entry.FlipX {
			col = 7 - col
		}

		idx := p.tilePixel(b.CharAddr, entry.Tile, bpp, row, col)
		if idx == 0 {
			continue // transparent, leave as backdrop
		}
		out[x] = (entry.Palette << uint(bpp)) | idx
	}
	return out
}

// renderScanline composes the enabled main-screen background layers and
// sprites for one scanline into the RGBA framebuffer, as of that
// scanline's own register state. Layer priority and colour math are
// simplified to "highest-priority enabled BG wins, sprites drawn above
// all BGs" rather than the full per-mode priority matrix.
func (p *PPU) renderScanline(y int) {
	if p.Regs.ForceBlank {
		for x := 0; x < ScreenWidth; x++ {
			p.frame.SetRGBA(x, y, color.RGBA{A: 0xFF})
		}
		return
	}

	var layers [4][ScreenWidth]uint8
	for bg := 0; bg < 4; bg++ {
		if p.Regs.BG[bg].Enabled {
			layers[bg] = p.renderBackgroundLine(bg, y)
		}
	}

	for x := 0; x < ScreenWidth; x++ {
		colorIndex := uint8(0)
		for bg := 0; bg < 4; bg++ {
			if p.Regs.BG[bg].Enabled && layers[bg][x] != 0 {
				colorIndex = layers[bg][x]
				break
			}
		}
		p.frame.SetRGBA(x, y, bgrToRGBA(p.CGRAM.Color(colorIndex)))
	}

	p.renderSpritesLine(y)
}

// renderSpritesLine draws every OAM sprite row that intersects scanline y
// on top of the background layers just drawn for that line, honoring
// per-sprite flip and palette but not the 32-sprite / 34-tile
// per-scanline hardware overflow limits (tracked only as the
// rangeOver/timeOver status flags, not enforced against rendering).
func (p *PPU) renderSpritesLine(y int) {
	const objBpp = 4
	for i := 127; i >= 0; i-- {
		s := p.OAM.Sprite(i)
		size := 8
		if s.Large {
			size = 16
		}
		row := y - int(s.Y)
		if row < 0 || row >= size {
			continue
		}
		for col := 0; col < size; col++ {
			px := int(s.X) + col
			if px < 0 || px >= ScreenWidth {
				continue
			}
			r, c := row, col
			if s.FlipY {
				r = size - 1 - row
			}
			if s.FlipX {
				c = size - 1 - col
			}
			tileIndex := s.Tile + uint16(r/8)*16 + uint16(c/8)
			idx := p.tilePixel(p.Regs.ObjBaseAddr, tileIndex, objBpp, r%8, c%8)
			if idx == 0 {
				continue
			}
			paletteBase := uint8(128) + s.Palette<<4
			p.frame.SetRGBA(px, y, bgrToRGBA(p.CGRAM.Color(paletteBase+idx)))
		}
	}
}
