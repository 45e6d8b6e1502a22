package fmsynth

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cbegin/fmsynth-go/internal/sequencer"
	"github.com/cbegin/fmsynth-go/internal/song"
)

// stubBackend stands in for the device backends: it records starts and
// stops, and when resolveOnCancel is set it mimics the real contract of
// resolving a canceled handle after its decay.
type stubBackend struct {
	starts          int
	stops           int
	resolveOnCancel bool
}

func (b *stubBackend) start(s *Synth, sched *sequencer.Schedule, pb *Playback) error {
	b.starts++
	if b.resolveOnCancel {
		pb.cancelFn = func() { pb.finish(nil) }
	}
	return nil
}

func (b *stubBackend) stop() { b.stops++ }

func TestNewValidation(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Errorf("expected error for zero sample rate")
	}
	if _, err := New(-48000); err == nil {
		t.Errorf("expected error for negative sample rate")
	}
	if _, err := New(48000, WithPresets()); err == nil {
		t.Errorf("expected error for empty preset catalog")
	}
	if _, err := New(48000, WithMelodies()); err == nil {
		t.Errorf("expected error for empty melody catalog")
	}
}

func TestListings(t *testing.T) {
	s, err := New(48000)
	if err != nil {
		t.Fatal(err)
	}
	presets := s.ListPresets()
	if len(presets) == 0 || presets[0] != "0: Bell" {
		t.Errorf("ListPresets()[0] = %q, want \"0: Bell\"", presets[0])
	}
	melodies := s.ListMelodies()
	if len(melodies) == 0 {
		t.Fatalf("expected non-empty melody listing")
	}
	for i, line := range melodies {
		if !strings.HasPrefix(line, fmt.Sprintf("%d: ", i)) {
			t.Errorf("melody line %d = %q, want zero-based index prefix", i, line)
		}
	}
}

func TestListingsReflectCustomCatalogs(t *testing.T) {
	s, err := New(48000,
		WithPresets(song.Preset{
			Name: "Sine", CarrierRatio: 1, ModRatio: 1, ModIndex: 0, Level: 0.5,
			Env: song.Envelope{Attack: 0.01, Decay: 0.05, Sustain: 0.8, Release: 0.1},
		}),
		WithMelodies(song.Melody{
			Name: "Blip", Tempo: 120, Notes: []song.Note{{Key: 69, Beats: 1}},
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.ListPresets(); len(got) != 1 || got[0] != "0: Sine" {
		t.Errorf("ListPresets() = %v, want [\"0: Sine\"]", got)
	}
	if got := s.ListMelodies(); len(got) != 1 || got[0] != "0: Blip" {
		t.Errorf("ListMelodies() = %v, want [\"0: Blip\"]", got)
	}
}

func TestPlayMelodyInvalidIndex(t *testing.T) {
	s, err := New(48000)
	if err != nil {
		t.Fatal(err)
	}
	// Index validation happens before any audio resource is touched, so
	// these are safe without a device.
	if _, err := s.PlayMelody(len(s.ListPresets()), 0); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("bad preset index: got %v, want ErrInvalidIndex", err)
	}
	if _, err := s.PlayMelody(0, len(s.ListMelodies())); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("bad melody index: got %v, want ErrInvalidIndex", err)
	}
	if _, err := s.PlayMelody(-1, 0); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("negative preset index: got %v, want ErrInvalidIndex", err)
	}
}

func TestPlayMelodyReplacesInFlightPlayback(t *testing.T) {
	s, err := New(48000)
	if err != nil {
		t.Fatal(err)
	}
	bk := &stubBackend{resolveOnCancel: true}
	s.backend = bk

	first, err := s.PlayMelody(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.PlayMelody(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if bk.starts != 2 {
		t.Fatalf("backend started %d times, want 2", bk.starts)
	}
	// The replaced handle must still resolve; Wait may not block forever.
	select {
	case <-first.Done():
	case <-time.After(time.Second):
		t.Fatalf("replaced playback never resolved")
	}
	if err := first.Err(); err != nil {
		t.Errorf("replaced playback resolved with %v, want nil", err)
	}
	select {
	case <-second.Done():
		t.Errorf("new playback resolved prematurely")
	default:
	}
}

func TestCloseResolvesCurrentPlayback(t *testing.T) {
	s, err := New(48000)
	if err != nil {
		t.Fatal(err)
	}
	// The backend's own cancel path never resolves here, so Close itself
	// must unblock any waiter before tearing the backend down.
	bk := &stubBackend{}
	s.backend = bk

	pb, err := s.PlayMelody(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()
	select {
	case <-pb.Done():
	case <-time.After(time.Second):
		t.Fatalf("playback not resolved by Close")
	}
	if bk.stops != 1 {
		t.Errorf("backend stopped %d times, want 1", bk.stops)
	}
}
