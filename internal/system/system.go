// Package system assembles the bus, cartridge loader, and audio/video
// drain points into the single entry point embedders drive: load a ROM,
// run frames, pull the framebuffer and audio out. It mirrors the
// emulator-loop role the teacher's internal/app package plays, trimmed to
// the core's documented external interfaces (spec.md §6) and generalized
// from the NES's fixed cycles-per-frame loop to the SNES's VBlank-edge
// frame boundary.
package system

import (
	"fmt"
	"image"
	"time"

	"github.com/sres-go/gosres/internal/bus"
	"github.com/sres-go/gosres/internal/cartridge"
	"github.com/sres-go/gosres/internal/debug"
	"github.com/sres-go/gosres/internal/input"
)

// samplePeriodTicks is the master-clock interval between audio samples:
// one sample every 671 ticks at the documented 32 kHz DAC rate
// (spec.md §8's APU/main-bus sample-period tolerance).
const samplePeriodTicks = 671

// audioBufferSize and maxQueuedBuffers implement spec.md §6's audio
// output contract: mono 16-bit samples in buffers of up to 8192 samples,
// a FIFO of up to 32 buffers, overflow drops the newest buffer and logs
// once until drained.
const (
	audioBufferSize = 8192
	maxQueuedBuffers = 32
)

// System owns the bus and the timing/buffering glue needed to run it as
// a standalone emulator: frame pacing, audio sample draining and
// chunking, and cartridge loading.
type System struct {
	Bus *bus.Bus

	sink *debug.Sink

	samplesOwed    uint64
	currentBuffer  []int16
	audioQueue     [][]int16
	audioOverflowed bool

	frameCount    uint64
	lastFrameTime time.Time
	lastFrameDur  time.Duration
}

// New creates a System with no cartridge loaded.
func New() *System {
	sink := debug.NewSink(nil)
	s := &System{
		Bus:           bus.New(sink),
		sink:          sink,
		currentBuffer: make([]int16, 0, audioBufferSize),
		lastFrameTime: time.Now(),
	}
	s.Bus.Reset()
	return s
}

// AttachDebugger routes debug events to sub and enables emission; passing
// nil disables it again (spec.md §4.7). Every device shares the same
// *debug.Sink installed at construction, so swapping its subscriber here
// reaches the CPU, SPC700 (through the APU), and bus without re-wiring any
// of them.
func (s *System) AttachDebugger(sub debug.Subscriber) {
	if sub == nil {
		debug.Disable()
		s.sink.SetSubscriber(nil)
		return
	}
	s.sink.SetSubscriber(sub)
	debug.Enable()
}

// LoadCartridge parses a ROM image and installs it, resetting the system
// to run it from its reset vector. Only construction-time cartridge
// errors are surfaced to the caller; everything else inside a running
// frame becomes a debug event (spec.md §7).
func (s *System) LoadCartridge(data []byte) error {
	cart, err := cartridge.Load(data)
	if err != nil {
		return fmt.Errorf("load cartridge: %w", err)
	}
	s.Bus.LoadCartridge(cart)
	s.Reset()
	return nil
}

// Reset resets every component and the frame/audio bookkeeping.
func (s *System) Reset() {
	s.Bus.Reset()
	s.frameCount = 0
	s.samplesOwed = 0
	s.currentBuffer = s.currentBuffer[:0]
	s.audioQueue = nil
	s.audioOverflowed = false
	s.lastFrameTime = time.Now()
}

// DebugUntil runs instructions (draining audio as it goes) until dbg
// records a break reason or maxInstructions is reached, then returns the
// break reason (nil on the instruction-count escape hatch). The debugger
// must already be attached via AttachDebugger so its filters see events
// as they're published.
func (s *System) DebugUntil(dbg *debug.Debugger, maxInstructions int) *debug.BreakReason {
	for i := 0; i < maxInstructions; i++ {
		s.StepInstruction()
		if r := dbg.TakeBreakReason(); r != nil {
			return r
		}
	}
	return nil
}

// StepInstruction runs exactly one CPU instruction (servicing any
// pending interrupt first) and drains any audio samples now due,
// returning the number of master-clock ticks it cost.
func (s *System) StepInstruction() uint64 {
	before := s.Bus.MasterClock()
	s.Bus.CPU.Step()
	ticks := s.Bus.MasterClock() - before
	s.drainAudio(ticks)
	return ticks
}

// RunFrame runs CPU instructions until the PPU completes exactly one
// frame (its VBlank-entry edge fires once), then reloads H-DMA for the
// next frame. This is the SNES analogue of the teacher's fixed
// cycles-per-frame loop, generalized because master ticks per frame vary
// between even and odd frames (spec.md's odd-frame short scanline).
func (s *System) RunFrame() {
	start := time.Now()
	target := s.Bus.PPU.FrameCount() + 1
	for s.Bus.PPU.FrameCount() < target {
		s.StepInstruction()
	}
	s.Bus.InitHDMA()
	s.frameCount++
	s.lastFrameDur = time.Since(start)
	s.lastFrameTime = time.Now()
}

// drainAudio pulls one DSP sample every samplePeriodTicks of elapsed
// master clock, accumulating into 8192-sample chunks and enqueuing full
// chunks per spec.md §6's buffering contract.
func (s *System) drainAudio(ticks uint64) {
	s.samplesOwed += ticks
	for s.samplesOwed >= samplePeriodTicks {
		s.samplesOwed -= samplePeriodTicks
		left, right := s.Bus.APU.SampleFrame()
		mono := int16((int32(left) + int32(right)) / 2)
		s.currentBuffer = append(s.currentBuffer, mono)
		if len(s.currentBuffer) >= audioBufferSize {
			s.enqueueBuffer()
		}
	}
}

func (s *System) enqueueBuffer() {
	full := s.currentBuffer
	s.currentBuffer = make([]int16, 0, audioBufferSize)
	if len(s.audioQueue) >= maxQueuedBuffers {
		if !s.audioOverflowed {
			if s.sink != nil {
				s.sink.PublishError("audio buffer overflow: dropping newest buffer")
			}
			s.audioOverflowed = true
		}
		return
	}
	s.audioOverflowed = false
	s.audioQueue = append(s.audioQueue, full)
}

// PullAudioBuffer dequeues the oldest completed audio buffer, if any. The
// caller owns the returned slice.
func (s *System) PullAudioBuffer() ([]int16, bool) {
	if len(s.audioQueue) == 0 {
		return nil, false
	}
	buf := s.audioQueue[0]
	s.audioQueue = s.audioQueue[1:]
	return buf, true
}

// FrameBuffer returns the PPU's current RGBA framebuffer. The consumer
// pulls completed frames; it is valid to call this between RunFrame
// calls to observe a half-rendered frame during single-stepping.
func (s *System) FrameBuffer() *image.RGBA {
	return s.Bus.PPU.FrameBuffer()
}

// FrameCount returns the number of frames RunFrame has completed.
func (s *System) FrameCount() uint64 { return s.frameCount }

// MasterClock returns the current master-clock tick count.
func (s *System) MasterClock() uint64 { return s.Bus.MasterClock() }

// LastFrameDuration returns how long the wall clock took to execute the
// most recently completed frame, for performance reporting.
func (s *System) LastFrameDuration() time.Duration { return s.lastFrameDur }

// SetButton sets a single button's pressed state on one of the two
// controller ports (0 or 1).
func (s *System) SetButton(port int, button input.Button, pressed bool) {
	switch port {
	case 0:
		s.Bus.Controller1.SetButton(button, pressed)
	case 1:
		s.Bus.Controller2.SetButton(button, pressed)
	}
}
