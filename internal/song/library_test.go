package song

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultPresetInvariants(t *testing.T) {
	lib := DefaultPresets()
	if lib.Len() == 0 {
		t.Fatalf("expected non-empty preset catalog")
	}
	for i := 0; i < lib.Len(); i++ {
		p, err := lib.Get(i)
		if err != nil {
			t.Fatalf("preset %d: %v", i, err)
		}
		if p.Name == "" {
			t.Errorf("preset %d has no name", i)
		}
		if p.CarrierRatio <= 0 || p.ModRatio <= 0 {
			t.Errorf("%s: ratios must be positive (carrier=%v mod=%v)", p.Name, p.CarrierRatio, p.ModRatio)
		}
		if p.ModIndex < 0 || math.IsInf(p.ModIndex, 0) || math.IsNaN(p.ModIndex) {
			t.Errorf("%s: bad modulation index %v", p.Name, p.ModIndex)
		}
		if p.Env.Sustain < 0 || p.Env.Sustain > 1 {
			t.Errorf("%s: sustain %v outside [0,1]", p.Name, p.Env.Sustain)
		}
		if p.Env.Attack < 0 || p.Env.Decay < 0 || p.Env.Release < 0 {
			t.Errorf("%s: negative envelope duration %+v", p.Name, p.Env)
		}
		if p.Level <= 0 || p.Level > 1 {
			t.Errorf("%s: level %v outside (0,1]", p.Name, p.Level)
		}
	}
}

func TestDefaultMelodyInvariants(t *testing.T) {
	lib := DefaultMelodies()
	if lib.Len() == 0 {
		t.Fatalf("expected non-empty melody catalog")
	}
	for i := 0; i < lib.Len(); i++ {
		m, err := lib.Get(i)
		if err != nil {
			t.Fatalf("melody %d: %v", i, err)
		}
		if m.Tempo <= 0 {
			t.Errorf("%s: tempo %v must be positive", m.Name, m.Tempo)
		}
		if len(m.Notes) == 0 {
			t.Errorf("%s: empty note sequence", m.Name)
		}
		for j, n := range m.Notes {
			if n.Beats <= 0 {
				t.Errorf("%s note %d: duration %v must be positive", m.Name, j, n.Beats)
			}
			if n.Key != Rest && KeyToFreq(n.Key) <= 0 {
				t.Errorf("%s note %d: key %d maps to non-positive frequency", m.Name, j, n.Key)
			}
			if n.Velocity < 0 || n.Velocity > 1 {
				t.Errorf("%s note %d: velocity %v outside [0,1]", m.Name, j, n.Velocity)
			}
		}
	}
}

func TestGetOutOfRange(t *testing.T) {
	presets := DefaultPresets()
	if _, err := presets.Get(-1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for -1, got %v", err)
	}
	if _, err := presets.Get(presets.Len()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound past end, got %v", err)
	}
	melodies := DefaultMelodies()
	if _, err := melodies.Get(melodies.Len()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound past end, got %v", err)
	}
}

func TestListFormat(t *testing.T) {
	lines := DefaultPresets().List()
	if lines[0] != "0: Bell" {
		t.Fatalf("expected zero-based \"0: Bell\", got %q", lines[0])
	}
	if got := DefaultMelodies().List()[0]; got != "0: Twinkle Twinkle" {
		t.Fatalf("expected \"0: Twinkle Twinkle\", got %q", got)
	}
}

func TestKeyToFreq(t *testing.T) {
	if got := KeyToFreq(69); math.Abs(got-440) > 1e-9 {
		t.Fatalf("A4 = %v, want 440", got)
	}
	if got := KeyToFreq(57); math.Abs(got-220) > 1e-9 {
		t.Fatalf("A3 = %v, want 220", got)
	}
	if got := KeyToFreq(60); math.Abs(got-261.6255653) > 1e-3 {
		t.Fatalf("C4 = %v, want ~261.63", got)
	}
}
