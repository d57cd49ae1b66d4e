package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/sres-go/gosres/internal/debug"
)

// chromeEvent is one entry in the Chrome Trace Event format, using
// ph="I" instant events since the core publishes point-in-time steps and
// errors, not spans with a duration.
type chromeEvent struct {
	Name string                 `json:"name"`
	Cat  string                 `json:"cat"`
	Ph   string                 `json:"ph"`
	TS   float64                `json:"ts"`
	PID  int                    `json:"pid"`
	TID  int                    `json:"tid"`
	Args map[string]interface{} `json:"args,omitempty"`
}

// traceWriter is a debug.Subscriber that serializes every published event
// as a Chrome trace instant event, one JSON object per line appended to a
// top-level array. It's the only consumer of the debug stream the CLI
// wrapper provides; the core itself never depends on trace formatting.
type traceWriter struct {
	mu   sync.Mutex
	f    *os.File
	enc  *json.Encoder
	tick float64
	first bool
}

func newTraceWriter(path string) (*traceWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create trace file: %w", err)
	}
	if _, err := f.WriteString("[\n"); err != nil {
		f.Close()
		return nil, err
	}
	return &traceWriter{f: f, enc: json.NewEncoder(f), first: true}, nil
}

func (t *traceWriter) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.f.WriteString("\n]\n"); err != nil {
		t.f.Close()
		return err
	}
	return t.f.Close()
}

func (t *traceWriter) write(ev chromeEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.first {
		t.f.WriteString(",\n")
	}
	t.first = false
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	t.f.Write(b)
}

func (t *traceWriter) OnEvent(ev debug.Event) {
	t.tick++
	switch ev.Kind {
	case debug.CpuStep:
		args := map[string]interface{}{}
		if ev.CPU != nil {
			args["pc"] = ev.CPU.Instruction.Address.String()
			args["op"] = ev.CPU.Instruction.Operation
			args["a"] = ev.CPU.A
			args["x"] = ev.CPU.X
			args["y"] = ev.CPU.Y
		}
		t.write(chromeEvent{Name: "cpu.step", Cat: "cpu", Ph: "I", TS: t.tick, PID: 1, TID: 1, Args: args})
	case debug.Spc700Step:
		args := map[string]interface{}{}
		if ev.SPC != nil {
			args["pc"] = ev.SPC.Instruction.Address.String()
			args["op"] = ev.SPC.Instruction.Operation
		}
		t.write(chromeEvent{Name: "spc700.step", Cat: "spc700", Ph: "I", TS: t.tick, PID: 1, TID: 2, Args: args})
	case debug.Interrupt:
		t.write(chromeEvent{
			Name: "interrupt." + ev.InterruptKind.String(), Cat: "interrupt", Ph: "I",
			TS: t.tick, PID: 1, TID: 1,
		})
	case debug.CpuMemoryRead, debug.CpuMemoryWrite, debug.Spc700MemoryRead, debug.Spc700MemoryWrite:
		// memory traffic is high-volume; omit from the trace file to keep
		// it readable, matching how the teacher's own instrumentation
		// skips per-byte bus logging in its trace output.
	case debug.Error:
		t.write(chromeEvent{
			Name: "error", Cat: "error", Ph: "I", TS: t.tick, PID: 1, TID: 1,
			Args: map[string]interface{}{"message": ev.Message},
		})
	}
}

func (t *traceWriter) OnError(message string) {
	t.write(chromeEvent{
		Name: "error", Cat: "error", Ph: "I", TS: t.tick, PID: 1, TID: 1,
		Args: map[string]interface{}{"message": message},
	})
}
