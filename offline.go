package fmsynth

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cbegin/fmsynth-go/internal/fm"
	"github.com/cbegin/fmsynth-go/internal/sequencer"
)

// RenderMelody renders a whole melody, release tail included, through
// the same schedule and mixer the native backend plays, with no audio
// device. Index validation matches PlayMelody.
func (s *Synth) RenderMelody(presetIdx, melodyIdx int) ([]float32, error) {
	preset, err := s.presets.Get(presetIdx)
	if err != nil {
		return nil, fmt.Errorf("%w: preset %d", ErrInvalidIndex, presetIdx)
	}
	melody, err := s.melodies.Get(melodyIdx)
	if err != nil {
		return nil, fmt.Errorf("%w: melody %d", ErrInvalidIndex, melodyIdx)
	}
	sched := sequencer.Build(preset, melody, s.sampleRate, s.gateRatio)
	engine := fm.New(s.sampleRate)
	seq := sequencer.New(sched, engine, s.sampleRate)
	frames := int(float64(s.sampleRate) * (sched.TotalSec + 0.2))
	out := make([]float32, frames*2)
	seq.Process(out)
	return out, nil
}

// RenderMelody renders from the built-in catalogs at the given rate.
func RenderMelody(presetIdx, melodyIdx, sampleRate int) ([]float32, error) {
	s, err := New(sampleRate)
	if err != nil {
		return nil, err
	}
	return s.RenderMelody(presetIdx, melodyIdx)
}

// EncodeWAVFloat32LE wraps interleaved float32 samples in a RIFF/WAVE
// header (format 3, IEEE float).
func EncodeWAVFloat32LE(samples []float32, sampleRate int, channels int) []byte {
	dataSize := len(samples) * 4
	byteRate := sampleRate * channels * 4
	blockAlign := channels * 4
	chunkSize := 36 + dataSize
	out := make([]byte, 44+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(chunkSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[44+i*4:], math.Float32bits(s))
	}
	return out
}
