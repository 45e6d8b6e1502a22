package audio

import (
	"encoding/binary"
	"io"
	"math"
	"sync"
)

// Source produces interleaved stereo float32 frames and reports when
// playback has fully decayed. Once Finished returns true the stream
// ends and the device player winds down on its own.
type Source interface {
	Process(dst []float32)
	Finished() bool
}

// reader adapts a Source to the io.Reader the device player pulls from,
// encoding frames as f32le.
type reader struct {
	mu     sync.Mutex
	source Source
	buf    []float32
}

func newReader(source Source) *reader { return &reader{source: source} }

func (r *reader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	need := frames * 2
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]
	r.source.Process(r.buf)
	for i := 0; i < need; i++ {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(r.buf[i]))
	}
	n := frames * 8
	if r.source.Finished() {
		return n, io.EOF
	}
	return n, nil
}

func (r *reader) Close() error { return nil }
