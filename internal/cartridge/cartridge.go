// Package cartridge implements ROM loading and LoROM/HiROM address mapping
// for SNES cartridges.
package cartridge

import "fmt"

// MappingMode is the cartridge's address-mapping convention, read from the
// header byte at offset 0x15 of the candidate header.
type MappingMode uint8

const (
	MappingLoROM        MappingMode = 0x20
	MappingHiROM        MappingMode = 0x21
	MappingLoROMFastROM MappingMode = 0x30
	MappingHiROMFastROM MappingMode = 0x31
)

// BadCartridge is returned when a cartridge image cannot be parsed: an
// unreadable header or an unknown mapping mode. Per spec.md §7 this is
// fatal at load time — the core is never instantiated.
type BadCartridge struct {
	Reason string
}

func (e *BadCartridge) Error() string {
	return fmt.Sprintf("bad cartridge: %s", e.Reason)
}

const (
	loROMHeaderOffset = 0x7FC0
	hiROMHeaderOffset = 0xFFC0
	headerSize        = 32
	copierHeaderSize  = 0x200
)

// Cartridge holds the parsed ROM image and exposes the 24-bit main-bus
// read/write surface. It never observes bus cycles it does not own
// (spec.md §4.4).
type Cartridge struct {
	rom     []byte
	mapping MappingMode
	title   string

	hasBattery bool
	sram       []byte
}

// Load parses a raw cartridge image: strips an optional 512-byte copier
// header (detected by len%0x8000==0x200), locates the LoROM or HiROM
// header by comparing checksum+complement against 0xFFFF, and returns a
// ready-to-map Cartridge.
func Load(data []byte) (*Cartridge, error) {
	if len(data)%0x8000 == copierHeaderSize {
		data = data[copierHeaderSize:]
	}

	if len(data) < loROMHeaderOffset+headerSize {
		return nil, &BadCartridge{Reason: "file too short to contain a header"}
	}

	loScore := scoreHeader(data, loROMHeaderOffset)
	hiScore := -1
	if len(data) >= hiROMHeaderOffset+headerSize {
		hiScore = scoreHeader(data, hiROMHeaderOffset)
	}

	var headerOffset int
	var mapping MappingMode
	switch {
	case loScore < 0 && hiScore < 0:
		return nil, &BadCartridge{Reason: "no valid LoROM or HiROM header found"}
	case hiScore > loScore:
		headerOffset = hiROMHeaderOffset
		mapping = MappingHiROM
	default:
		headerOffset = loROMHeaderOffset
		mapping = MappingLoROM
	}

	modeByte := MappingMode(data[headerOffset+0x15])
	switch modeByte {
	case MappingLoROM, MappingHiROM, MappingLoROMFastROM, MappingHiROMFastROM:
		mapping = modeByte
	default:
		return nil, &BadCartridge{Reason: "unknown mapping mode"}
	}

	title := sanitizeTitle(data[headerOffset : headerOffset+21])

	sramSizeCode := data[headerOffset+0x18]
	if sramSizeCode > 0x08 {
		return nil, &BadCartridge{Reason: "SRAM size code out of range"}
	}
	sramSize := 0
	if sramSizeCode > 0 {
		sramSize = 1024 << sramSizeCode
	}

	return &Cartridge{
		rom:        data,
		mapping:    mapping,
		title:      title,
		hasBattery: data[headerOffset+0x16]&0x02 != 0 || sramSize > 0,
		sram:       make([]byte, sramSize),
	}, nil
}

func sanitizeTitle(raw []byte) string {
	out := make([]byte, 0, len(raw))
	for _, b := range raw {
		if b >= 0x20 && b < 0x7F {
			out = append(out, b)
		}
	}
	return string(out)
}

// scoreHeader checksums the header at offset against its complement and
// returns a confidence score; -1 means "not a plausible header at all".
func scoreHeader(data []byte, offset int) int {
	if data[offset+0x1C] == 0 && data[offset+0x1D] == 0 {
		return -1
	}
	checksum := uint16(data[offset+0x1E]) | uint16(data[offset+0x1F])<<8
	complement := uint16(data[offset+0x1C]) | uint16(data[offset+0x1D])<<8
	if checksum^complement == 0xFFFF {
		return 100
	}

	score := 0
	modeByte := data[offset+0x15]
	if modeByte == 0x20 || modeByte == 0x21 || modeByte == 0x30 || modeByte == 0x31 {
		score += 10
	}
	if data[offset+0x17] <= 0x0D {
		score += 5
	}
	return score
}

// Title returns the sanitized 21-character cartridge title.
func (c *Cartridge) Title() string { return c.title }

// Mapping returns the cartridge's mapping mode.
func (c *Cartridge) Mapping() MappingMode { return c.mapping }

// IsFastROM reports whether the cartridge declares FastROM timing.
func (c *Cartridge) IsFastROM() bool {
	return c.mapping == MappingLoROMFastROM || c.mapping == MappingHiROMFastROM
}

// HasBattery reports whether the cartridge exposes battery-backed SRAM.
func (c *Cartridge) HasBattery() bool { return c.hasBattery }

// SRAM returns the battery-backed SRAM blob, for snapshot/persistence
// layers outside the core (spec.md §6 "Persisted state").
func (c *Cartridge) SRAM() []byte { return c.sram }

// Read maps a main-bus (bank, offset) address into the ROM or SRAM image.
// Unmapped addresses return 0x00; neither the cartridge nor the bus layer
// tracks the last-driven open-bus value.
func (c *Cartridge) Read(bank uint8, offset uint16) uint8 {
	if addr, ok := c.sramAddress(bank, offset); ok && len(c.sram) > 0 {
		return c.sram[addr%uint32(len(c.sram))]
	}
	if addr, ok := c.romAddress(bank, offset); ok {
		return c.rom[addr%uint32(len(c.rom))]
	}
	return 0
}

// Write stores to battery-backed SRAM when the address maps there; ROM
// writes are ignored (no mapper chip emulated beyond LoROM/HiROM).
func (c *Cartridge) Write(bank uint8, offset uint16, value uint8) {
	if addr, ok := c.sramAddress(bank, offset); ok && len(c.sram) > 0 {
		c.sram[addr%uint32(len(c.sram))] = value
	}
}

func (c *Cartridge) romAddress(bank uint8, offset uint16) (uint32, bool) {
	switch c.mapping {
	case MappingHiROM, MappingHiROMFastROM:
		return c.hiROMAddress(bank, offset)
	default:
		return c.loROMAddress(bank, offset)
	}
}

// loROMAddress implements the LoROM map: each bank exposes a 32KiB window
// at $8000-$FFFF (mirrored from a 16-bit ROM address with the top bit of
// the bank folded in), banks $00-$7D and $80-$FF.
func (c *Cartridge) loROMAddress(bank uint8, offset uint16) (uint32, bool) {
	if offset < 0x8000 {
		if bank >= 0x40 && bank <= 0x6F {
			romOffset := uint32(bank&0x7F)*0x8000 + uint32(offset)
			return romOffset, true
		}
		return 0, false
	}
	effectiveBank := bank & 0x7F
	romOffset := uint32(effectiveBank)*0x8000 + uint32(offset-0x8000)
	return romOffset, true
}

// hiROMAddress implements the HiROM map: each bank $C0-$FF (and mirrors
// $40-$7D/$00-$3F $8000-$FFFF) is a direct 64KiB window into ROM.
func (c *Cartridge) hiROMAddress(bank uint8, offset uint16) (uint32, bool) {
	effectiveBank := bank & 0x3F
	if bank < 0x40 && offset < 0x8000 {
		return 0, false
	}
	romOffset := uint32(effectiveBank)*0x10000 + uint32(offset)
	return romOffset, true
}

// sramAddress maps the mapping-mode-specific SRAM window: banks
// $70-$7D/$F0-$FF, $0000-$7FFF for LoROM; $20-$3F/$A0-$BF $6000-$7FFF for
// HiROM.
func (c *Cartridge) sramAddress(bank uint8, offset uint16) (uint32, bool) {
	switch c.mapping {
	case MappingHiROM, MappingHiROMFastROM:
		b := bank & 0x7F
		if (b >= 0x20 && b <= 0x3F) && offset >= 0x6000 && offset < 0x8000 {
			return uint32(offset - 0x6000), true
		}
		return 0, false
	default:
		b := bank & 0x7F
		if b >= 0x70 && offset < 0x8000 {
			return uint32(b-0x70)*0x8000 + uint32(offset), true
		}
		return 0, false
	}
}
