package video

import (
	"io"

	"github.com/sres-go/gosres/internal/system"
)

// audioStream adapts System's mono int16 audio buffers to the
// interleaved-stereo little-endian byte stream Ebitengine's audio
// player expects, duplicating the mono sample to both channels.
type audioStream struct {
	sys     *system.System
	pending []int16
	offset  int
}

func newAudioStream(sys *system.System) *audioStream {
	return &audioStream{sys: sys}
}

// Read implements io.Reader. When no buffer is queued it emits silence
// rather than blocking, since the core may be running slower than
// real-time (spec.md's audio contract never requires the video layer to
// stall on emulation).
func (a *audioStream) Read(p []byte) (int, error) {
	n := 0
	for n+4 <= len(p) {
		if a.offset >= len(a.pending) {
			buf, ok := a.sys.PullAudioBuffer()
			if !ok {
				break
			}
			a.pending = buf
			a.offset = 0
		}
		sample := a.pending[a.offset]
		a.offset++
		putInt16LE(p[n:], sample)
		putInt16LE(p[n+2:], sample)
		n += 4
	}
	for n+4 <= len(p) {
		p[n], p[n+1], p[n+2], p[n+3] = 0, 0, 0, 0
		n += 4
	}
	if n == 0 {
		return 0, io.ErrNoProgress
	}
	return n, nil
}

func putInt16LE(b []byte, v int16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}
