package song

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by library lookups with an out-of-range index.
var ErrNotFound = errors.New("not found")

// PresetLibrary is a read-only, ordered catalog of presets. Indices are
// stable for the process lifetime.
type PresetLibrary struct {
	presets []Preset
}

func NewPresetLibrary(presets ...Preset) *PresetLibrary {
	return &PresetLibrary{presets: presets}
}

func (l *PresetLibrary) Len() int { return len(l.presets) }

func (l *PresetLibrary) Get(index int) (Preset, error) {
	if index < 0 || index >= len(l.presets) {
		return Preset{}, fmt.Errorf("preset %d: %w", index, ErrNotFound)
	}
	return l.presets[index], nil
}

// List returns "index: name" lines in catalog order, zero-based.
func (l *PresetLibrary) List() []string {
	out := make([]string, len(l.presets))
	for i, p := range l.presets {
		out[i] = fmt.Sprintf("%d: %s", i, p.Name)
	}
	return out
}

// MelodyLibrary is a read-only, ordered catalog of melodies.
type MelodyLibrary struct {
	melodies []Melody
}

func NewMelodyLibrary(melodies ...Melody) *MelodyLibrary {
	return &MelodyLibrary{melodies: melodies}
}

func (l *MelodyLibrary) Len() int { return len(l.melodies) }

func (l *MelodyLibrary) Get(index int) (Melody, error) {
	if index < 0 || index >= len(l.melodies) {
		return Melody{}, fmt.Errorf("melody %d: %w", index, ErrNotFound)
	}
	return l.melodies[index], nil
}

func (l *MelodyLibrary) List() []string {
	out := make([]string, len(l.melodies))
	for i, m := range l.melodies {
		out[i] = fmt.Sprintf("%d: %s", i, m.Name)
	}
	return out
}

// DefaultPresets returns the built-in timbre catalog. Ratios multiply the
// note's base frequency; the original table pinned everything to A4=440,
// so a modulator at 880 Hz becomes ratio 2.0 here.
func DefaultPresets() *PresetLibrary {
	return NewPresetLibrary(
		Preset{Name: "Bell", CarrierRatio: 1.0, ModRatio: 1.0, ModIndex: 7.0, Level: 0.3,
			Env: Envelope{Attack: 0.005, Decay: 0.25, Sustain: 0.3, Release: 0.8}},
		Preset{Name: "Bass", CarrierRatio: 0.25, ModRatio: 0.25, ModIndex: 1.5, Level: 0.5,
			Env: Envelope{Attack: 0.01, Decay: 0.12, Sustain: 0.7, Release: 0.25}},
		Preset{Name: "Electric Piano", CarrierRatio: 1.0, ModRatio: 2.0, ModIndex: 3.0, Level: 0.4,
			Env: Envelope{Attack: 0.005, Decay: 0.2, Sustain: 0.5, Release: 0.4}},
		Preset{Name: "Brass", CarrierRatio: 1.0, ModRatio: 1.0, ModIndex: 2.5, Level: 0.4,
			Env: Envelope{Attack: 0.05, Decay: 0.1, Sustain: 0.8, Release: 0.3}},
		Preset{Name: "Organ", CarrierRatio: 1.0, ModRatio: 2.0, ModIndex: 1.0, Level: 0.4,
			Env: Envelope{Attack: 0.02, Decay: 0.05, Sustain: 0.9, Release: 0.15}},
		Preset{Name: "Synth Lead", CarrierRatio: 1.0, ModRatio: 3.0, ModIndex: 4.0, Level: 0.35,
			Env: Envelope{Attack: 0.01, Decay: 0.1, Sustain: 0.75, Release: 0.3}},
		Preset{Name: "Marimba", CarrierRatio: 1.0, ModRatio: 1.0, ModIndex: 3.5, Level: 0.4,
			Env: Envelope{Attack: 0.003, Decay: 0.2, Sustain: 0.2, Release: 0.5}},
		Preset{Name: "Strings", CarrierRatio: 1.0, ModRatio: 0.5, ModIndex: 0.8, Level: 0.3,
			Env: Envelope{Attack: 0.12, Decay: 0.2, Sustain: 0.85, Release: 0.6}},
		Preset{Name: "Flute", CarrierRatio: 1.0, ModRatio: 1.0, ModIndex: 0.5, Level: 0.25,
			Env: Envelope{Attack: 0.08, Decay: 0.1, Sustain: 0.8, Release: 0.25}},
		Preset{Name: "Metallic", CarrierRatio: 1.0, ModRatio: 1.289, ModIndex: 9.0, Level: 0.3,
			Env: Envelope{Attack: 0.002, Decay: 0.3, Sustain: 0.25, Release: 0.9}},
		Preset{Name: "Glockenspiel", CarrierRatio: 1.0, ModRatio: 4.0, ModIndex: 2.5, Level: 0.3,
			Env: Envelope{Attack: 0.002, Decay: 0.2, Sustain: 0.3, Release: 0.7}},
		Preset{Name: "Wood Block", CarrierRatio: 1.0, ModRatio: 0.682, ModIndex: 12.0, Level: 0.4,
			Env: Envelope{Attack: 0.001, Decay: 0.08, Sustain: 0.1, Release: 0.2}},
	)
}

// DefaultMelodies returns the built-in melody catalog. All melodies run at
// 120 BPM; the original 500 ms step maps to one beat.
func DefaultMelodies() *MelodyLibrary {
	n := func(key int, beats float64) Note { return Note{Key: key, Beats: beats} }
	return NewMelodyLibrary(
		Melody{Name: "Twinkle Twinkle", Tempo: 120, Notes: []Note{
			n(60, 1), n(60, 1), n(67, 1), n(67, 1),
			n(69, 1), n(69, 1), n(67, 2),
			n(65, 1), n(65, 1), n(64, 1), n(64, 1),
			n(62, 1), n(62, 1), n(60, 2),
		}},
		Melody{Name: "Happy Birthday", Tempo: 120, Notes: []Note{
			n(60, 0.5), n(60, 0.5), n(62, 1), n(60, 1),
			n(65, 1), n(64, 2),
			n(60, 0.5), n(60, 0.5), n(62, 1), n(60, 1),
			n(67, 1), n(65, 2),
		}},
		Melody{Name: "Ode to Joy", Tempo: 120, Notes: []Note{
			n(64, 1), n(64, 1), n(65, 1), n(67, 1),
			n(67, 1), n(65, 1), n(64, 1), n(62, 1),
			n(60, 1), n(60, 1), n(62, 1), n(64, 1),
			n(64, 1.5), n(62, 0.5), n(62, 2),
		}},
		Melody{Name: "Mary Had a Little Lamb", Tempo: 120, Notes: []Note{
			n(64, 1), n(62, 1), n(60, 1), n(62, 1),
			n(64, 1), n(64, 1), n(64, 2),
			n(62, 1), n(62, 1), n(62, 2),
			n(64, 1), n(67, 1), n(67, 2),
		}},
		Melody{Name: "Chromatic Scale", Tempo: 120, Notes: []Note{
			n(60, 0.4), n(61, 0.4), n(62, 0.4), n(63, 0.4),
			n(64, 0.4), n(65, 0.4), n(66, 0.4), n(67, 0.4),
			n(68, 0.4), n(69, 0.4), n(70, 0.4), n(71, 0.4),
			n(72, 0.8),
		}},
		Melody{Name: "Major Arpeggio", Tempo: 120, Notes: []Note{
			n(60, 0.6), n(64, 0.6), n(67, 0.6), n(72, 0.6),
			n(67, 0.6), n(64, 0.6), n(60, 1.2),
		}},
		Melody{Name: "Minor Pentatonic", Tempo: 120, Notes: []Note{
			n(57, 0.8), n(60, 0.8), n(62, 0.8), n(64, 0.8),
			n(67, 0.8), n(69, 0.8), n(67, 0.8), n(64, 0.8),
			n(62, 0.8), n(60, 0.8), n(57, 1.6),
		}},
		Melody{Name: "Jazz Lick", Tempo: 120, Notes: []Note{
			n(60, 0.4), n(64, 0.4), n(67, 0.4), n(70, 0.4),
			n(69, 0.8), n(65, 0.4), n(62, 0.8),
			n(67, 0.4), n(64, 0.4), n(60, 1.2),
		}},
		Melody{Name: "Bach Invention", Tempo: 120, Notes: []Note{
			n(60, 0.4), n(62, 0.4), n(64, 0.4), n(65, 0.4),
			n(62, 0.4), n(64, 0.4), n(60, 0.8),
			n(67, 0.4), n(65, 0.4), n(64, 0.4), n(62, 0.4),
			n(59, 0.4), n(60, 1.2),
		}},
		Melody{Name: "Synth Demo", Tempo: 120, Notes: []Note{
			n(60, 0.3), n(64, 0.3), n(67, 0.3), n(72, 0.3),
			n(76, 0.3), n(79, 0.3), n(76, 0.3), n(72, 0.3),
			n(67, 0.3), n(64, 0.3), n(60, 0.6),
			n(Rest, 0.6),
			n(65, 0.3), n(69, 0.3), n(72, 0.3), n(77, 0.3),
			n(72, 0.3), n(69, 0.3), n(65, 0.6),
		}},
	)
}
