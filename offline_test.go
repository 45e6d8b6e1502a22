package fmsynth

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func TestRenderMelodyProducesAudio(t *testing.T) {
	const sr = 8000
	s, err := New(sr)
	if err != nil {
		t.Fatal(err)
	}
	samples, err := s.RenderMelody(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) == 0 || len(samples)%2 != 0 {
		t.Fatalf("bad sample count %d", len(samples))
	}
	var energy float64
	for _, v := range samples {
		energy += math.Abs(float64(v))
	}
	if energy == 0 {
		t.Fatalf("expected audible output")
	}
	// The render extends past the last release tail, so it ends in silence.
	for i := len(samples) - 200; i < len(samples); i++ {
		if samples[i] != 0 {
			t.Fatalf("sample %d = %v, want trailing silence", i, samples[i])
		}
	}
}

func TestRenderMelodyInvalidIndex(t *testing.T) {
	s, err := New(8000)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.RenderMelody(1000, 0); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("bad preset index: got %v, want ErrInvalidIndex", err)
	}
	if _, err := s.RenderMelody(0, 1000); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("bad melody index: got %v, want ErrInvalidIndex", err)
	}
}

func TestEncodeWAVFloat32LE(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 1}
	b := EncodeWAVFloat32LE(samples, 44100, 2)
	if len(b) != 44+len(samples)*4 {
		t.Fatalf("encoded length %d, want %d", len(b), 44+len(samples)*4)
	}
	if string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" || string(b[36:40]) != "data" {
		t.Fatalf("bad chunk tags")
	}
	if got := binary.LittleEndian.Uint16(b[20:]); got != 3 {
		t.Errorf("audio format = %d, want 3 (IEEE float)", got)
	}
	if got := binary.LittleEndian.Uint16(b[22:]); got != 2 {
		t.Errorf("channels = %d, want 2", got)
	}
	if got := binary.LittleEndian.Uint32(b[24:]); got != 44100 {
		t.Errorf("sample rate = %d, want 44100", got)
	}
	if got := binary.LittleEndian.Uint16(b[34:]); got != 32 {
		t.Errorf("bits per sample = %d, want 32", got)
	}
	if got := binary.LittleEndian.Uint32(b[40:]); got != uint32(len(samples)*4) {
		t.Errorf("data size = %d, want %d", got, len(samples)*4)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(b[48:])); got != 0.5 {
		t.Errorf("second sample = %v, want 0.5", got)
	}
}
