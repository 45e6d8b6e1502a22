package song

import "math"

// Rest marks a note slot that advances time without sounding.
const Rest = -1

// Envelope holds ADSR amplitude parameters. Times are in seconds,
// Sustain is a level in [0,1].
type Envelope struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
}

// Preset is a fixed FM voice configuration. CarrierRatio and ModRatio
// multiply a note's base frequency to derive each oscillator's frequency;
// ModIndex is the phase-modulation depth in radians. Level scales the
// voice output (0..1).
type Preset struct {
	Name         string
	CarrierRatio float64
	ModRatio     float64
	ModIndex     float64
	Level        float64
	Env          Envelope
}

// Note is one step of a melody. Key is a MIDI semitone number (A4 = 69),
// or Rest. Beats must be > 0. Velocity <= 0 means full velocity.
type Note struct {
	Key      int
	Beats    float64
	Velocity float64
}

// Melody is an ordered, named note sequence with a tempo in BPM.
type Melody struct {
	Name  string
	Tempo float64
	Notes []Note
}

// KeyToFreq converts a MIDI semitone number to Hz using equal temperament.
func KeyToFreq(key int) float64 {
	return 440 * math.Pow(2, float64(key-69)/12)
}
