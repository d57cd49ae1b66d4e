package input

import "testing"

func TestStrobeLatchesAndSerialReadsMSBFirst(t *testing.T) {
	c := New()
	c.SetButton(ButtonB, true)
	c.SetButton(ButtonA, true)

	c.Strobe(true)
	c.Strobe(false) // falling edge latches

	want := []uint8{1, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0}
	for i, w := range want {
		if got := c.ReadSerial(); got != w {
			t.Fatalf("bit %d: got %d want %d", i, got, w)
		}
	}
	// Beyond bit 16, real hardware returns 1s.
	if got := c.ReadSerial(); got != 1 {
		t.Fatalf("expected open-bus 1 past bit 16, got %d", got)
	}
}

func TestParallelReadReflectsLatchedState(t *testing.T) {
	c := New()
	c.SetState(0xFFFF)
	c.Latch()
	if got := c.ReadParallel(); got != 0xFFFF {
		t.Fatalf("expected 0xFFFF, got %#x", got)
	}
	c.SetState(0x0000)
	if got := c.ReadParallel(); got != 0xFFFF {
		t.Fatalf("parallel read should reflect the last latch, not live state, got %#x", got)
	}
}

func TestHighStrobeContinuouslyRelatches(t *testing.T) {
	c := New()
	c.Strobe(true)
	c.SetButton(ButtonStart, true)
	c.Strobe(true) // still high: re-latch picks up the new button state
	if got := c.ReadSerial(); got != 0 {
		t.Fatalf("first bit (B) expected 0, got %d", got)
	}
}
