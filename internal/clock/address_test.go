package clock

import "testing"

func TestAddressWrapPage(t *testing.T) {
	a := NewAddressU24(0x01, 0x12FF)
	got := a.Add(2, WrapPage)
	want := NewAddressU24(0x01, 0x1201) // low byte wraps, high byte fixed
	if got != want {
		t.Fatalf("WrapPage: got %v want %v", got, want)
	}
}

func TestAddressWrapBank(t *testing.T) {
	a := NewAddressU24(0x01, 0xFFFF)
	got := a.Add(2, WrapBank)
	want := NewAddressU24(0x01, 0x0001) // offset wraps, bank fixed
	if got != want {
		t.Fatalf("WrapBank: got %v want %v", got, want)
	}
}

func TestAddressNoWrap(t *testing.T) {
	a := NewAddressU24(0x01, 0xFFFF)
	got := a.Add(2, NoWrap)
	want := NewAddressU24(0x02, 0x0001) // increments across bank boundary
	if got != want {
		t.Fatalf("NoWrap: got %v want %v", got, want)
	}
}

func TestAddressPageCrossDetection(t *testing.T) {
	// Testable property 3: page-cross detection matches
	// (offset & 0xFF) + rhs > 0xFF.
	for offset := 0; offset <= 0xFF; offset++ {
		for rhs := 0; rhs <= 0xFF; rhs++ {
			a := NewAddressU24(0x00, uint16(offset))
			crossed, _ := a.AddDetectPageCross(uint16(rhs), WrapBank)
			want := offset+rhs > 0xFF
			if crossed != want {
				t.Fatalf("page cross mismatch offset=%#x rhs=%#x: got %v want %v", offset, rhs, crossed, want)
			}
		}
	}
}

func TestAddressU24Uint32RoundTrip(t *testing.T) {
	for _, a := range []AddressU24{
		NewAddressU24(0x00, 0x0000),
		NewAddressU24(0x7E, 0x1234),
		NewAddressU24(0xFF, 0xFFFF),
	} {
		if got := AddressU24FromUint32(a.Uint32()); got != a {
			t.Fatalf("uint32 round trip failed for %v: got %v", a, got)
		}
	}
}
