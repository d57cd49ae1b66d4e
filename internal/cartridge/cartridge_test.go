package cartridge

import "testing"

// buildLoROM builds a minimal 32KiB LoROM image with a valid header
// checksum at $7FC0.
func buildLoROM(size int) []byte {
	if size < 0x8000 {
		size = 0x8000
	}
	data := make([]byte, size)
	header := data[loROMHeaderOffset : loROMHeaderOffset+headerSize]
	copy(header[0:21], []byte("TEST ROM             "))
	header[0x15] = byte(MappingLoROM)
	header[0x17] = 0x00
	header[0x18] = 0
	complement := uint16(0x1234)
	checksum := complement ^ 0xFFFF
	header[0x1C] = byte(complement)
	header[0x1D] = byte(complement >> 8)
	header[0x1E] = byte(checksum)
	header[0x1F] = byte(checksum >> 8)
	return data
}

func buildHiROM(size int) []byte {
	if size < 0x10000 {
		size = 0x10000
	}
	data := make([]byte, size)
	header := data[hiROMHeaderOffset : hiROMHeaderOffset+headerSize]
	header[0x15] = byte(MappingHiROM)
	complement := uint16(0x5678)
	checksum := complement ^ 0xFFFF
	header[0x1C] = byte(complement)
	header[0x1D] = byte(complement >> 8)
	header[0x1E] = byte(checksum)
	header[0x1F] = byte(checksum >> 8)
	return data
}

func TestLoadLoROM(t *testing.T) {
	data := buildLoROM(0x8000)
	data[0x8000-0x8000] = 0xAB // bank 0 offset 0x8000 -> rom offset 0
	cart, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cart.Mapping() != MappingLoROM {
		t.Fatalf("expected LoROM, got %v", cart.Mapping())
	}
	if got := cart.Read(0x00, 0x8000); got != 0xAB {
		t.Fatalf("expected 0xAB at bank0:8000, got %#x", got)
	}
}

func TestLoadHiROM(t *testing.T) {
	data := buildHiROM(0x10000)
	data[0] = 0xCD
	cart, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cart.Mapping() != MappingHiROM {
		t.Fatalf("expected HiROM, got %v", cart.Mapping())
	}
	if got := cart.Read(0xC0, 0x0000); got != 0xCD {
		t.Fatalf("expected 0xCD at bank C0:0000, got %#x", got)
	}
}

func TestCopierHeaderStripped(t *testing.T) {
	rom := buildLoROM(0x8000)
	withCopier := append(make([]byte, copierHeaderSize), rom...)
	cart, err := Load(withCopier)
	if err != nil {
		t.Fatalf("Load with copier header: %v", err)
	}
	if cart.Mapping() != MappingLoROM {
		t.Fatalf("expected LoROM after copier-header strip, got %v", cart.Mapping())
	}
}

func TestShortFileIsBadCartridge(t *testing.T) {
	_, err := Load(make([]byte, 0x10))
	if err == nil {
		t.Fatal("expected BadCartridge for short file")
	}
	var bc *BadCartridge
	if !asBadCartridge(err, &bc) {
		t.Fatalf("expected *BadCartridge, got %T", err)
	}
}

func asBadCartridge(err error, target **BadCartridge) bool {
	bc, ok := err.(*BadCartridge)
	if ok {
		*target = bc
	}
	return ok
}

func TestNoPanicFuzz(t *testing.T) {
	// Testable property 9: for any random byte slice <= 64KiB, cartridge
	// load either returns BadCartridge or succeeds; it never panics.
	sizes := []int{0, 1, 0x100, 0x7FFF, 0x8000, 0x8200, 0xFFFF, 0x10000}
	seed := uint32(0x2545F491)
	next := func() uint32 {
		seed ^= seed << 13
		seed ^= seed >> 17
		seed ^= seed << 5
		return seed
	}
	for _, size := range sizes {
		data := make([]byte, size)
		for i := range data {
			data[i] = byte(next())
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Load panicked for size %d: %v", size, r)
				}
			}()
			_, _ = Load(data)
		}()
	}
}

func TestSRAMReadWrite(t *testing.T) {
	data := buildLoROM(0x8000)
	header := data[loROMHeaderOffset : loROMHeaderOffset+headerSize]
	header[0x18] = 3 // 1024 << 3 = 8KiB SRAM
	cart, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cart.Write(0x70, 0x0010, 0x99)
	if got := cart.Read(0x70, 0x0010); got != 0x99 {
		t.Fatalf("expected SRAM round trip, got %#x", got)
	}
}
