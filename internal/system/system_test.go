package system

import (
	"testing"

	"github.com/sres-go/gosres/internal/input"
)

func TestNewSystemResetsToDocumentedBaseline(t *testing.T) {
	s := New()
	if s.MasterClock() != 0 {
		t.Fatalf("expected master clock 0 after construction, got %d", s.MasterClock())
	}
	if s.Bus.CPU.PC != 0x0000 {
		t.Fatalf("expected PC 0x0000 with no cartridge loaded, got %#x", s.Bus.CPU.PC)
	}
	if s.FrameCount() != 0 {
		t.Fatalf("expected frame count 0, got %d", s.FrameCount())
	}
}

func TestLoadCartridgeRejectsBadImage(t *testing.T) {
	s := New()
	if err := s.LoadCartridge([]byte{0x01, 0x02, 0x03}); err == nil {
		t.Fatal("expected an error loading a too-short image")
	}
}

func TestDrainAudioChunksIntoFullBuffers(t *testing.T) {
	s := New()
	s.drainAudio(audioBufferSize * samplePeriodTicks)
	buf, ok := s.PullAudioBuffer()
	if !ok {
		t.Fatal("expected one completed audio buffer")
	}
	if len(buf) != audioBufferSize {
		t.Fatalf("expected a full %d-sample buffer, got %d", audioBufferSize, len(buf))
	}
	if len(s.currentBuffer) != 0 {
		t.Fatalf("expected the in-progress buffer to be empty after an exact multiple, got %d", len(s.currentBuffer))
	}
	if _, ok := s.PullAudioBuffer(); ok {
		t.Fatal("expected no second buffer queued")
	}
}

func TestDrainAudioOverflowDropsNewestAndLogsOnce(t *testing.T) {
	s := New()
	// enough ticks to fill every queue slot plus one more buffer that must
	// overflow.
	totalTicks := uint64(maxQueuedBuffers+1) * audioBufferSize * samplePeriodTicks
	s.drainAudio(totalTicks)
	if len(s.audioQueue) != maxQueuedBuffers {
		t.Fatalf("expected the queue capped at %d buffers, got %d", maxQueuedBuffers, len(s.audioQueue))
	}
	if !s.audioOverflowed {
		t.Fatal("expected the overflow flag set after exceeding the queue depth")
	}
}

func TestSetButtonRoutesToTheRightPort(t *testing.T) {
	s := New()
	s.SetButton(0, input.ButtonA, true)
	s.Bus.Controller1.Latch()
	s.Bus.Controller2.Latch()
	if s.Bus.Controller1.ReadParallel() == 0 {
		t.Fatal("expected controller 1 to reflect the pressed button")
	}
	if s.Bus.Controller2.ReadParallel() != 0 {
		t.Fatal("expected controller 2 to remain untouched")
	}
}
