package fm

import (
	"math"
	"sync/atomic"

	"github.com/cbegin/fmsynth-go/internal/song"
)

const twoPi = math.Pi * 2

// DefaultPolyphony bounds the voice slot array. Melodies trigger one note
// at a time, but release tails overlap the following notes, so a handful
// of slots is enough; the quietest voice is stolen if they ever run out.
const DefaultPolyphony = 16

type envState int

const (
	envAttack envState = iota
	envDecay
	envSustain
	envRelease
	envOff
)

type voice struct {
	active       bool
	id           int
	preset       song.Preset
	freq         float64
	velocity     float64
	carrierPhase float64
	modPhase     float64
	env          float64
	envState     envState
	releaseFrom  float64
}

// Engine is the voice mixer: it owns every sounding voice, advances and
// sums them one frame at a time, and retires voices whose envelope has
// finished. RenderFrame must be called from a single goroutine at the
// audio clock's cadence; only SetMasterGain is safe to call concurrently.
type Engine struct {
	sampleRate float64
	voices     []voice
	nextID     int
	masterGain uint64
}

func New(sampleRate int) *Engine {
	return &Engine{
		sampleRate: float64(sampleRate),
		voices:     make([]voice, DefaultPolyphony),
		masterGain: math.Float64bits(1.0),
	}
}

// NoteOn triggers a voice for the given preset at a base frequency in Hz.
// velocity <= 0 means full velocity. Returns the voice id for NoteOff.
func (e *Engine) NoteOn(p song.Preset, freq, velocity float64) int {
	slot := e.stealVoice()
	id := e.nextID
	e.nextID++
	if velocity <= 0 {
		velocity = 1
	}
	e.voices[slot] = voice{
		active:   true,
		id:       id,
		preset:   p,
		freq:     freq,
		velocity: clamp(velocity, 0, 1),
		envState: envAttack,
	}
	return id
}

// NoteOff moves the voice into its release stage. Idempotent: releasing a
// voice that is already releasing, finished, or stolen is a no-op.
func (e *Engine) NoteOff(id int) {
	for i := range e.voices {
		v := &e.voices[i]
		if v.active && v.id == id && v.envState != envRelease && v.envState != envOff {
			v.releaseFrom = v.env
			v.envState = envRelease
		}
	}
}

// RenderFrame sums every live voice's next sample into one stereo frame
// and advances all phase and envelope state by one sample period.
func (e *Engine) RenderFrame() (float32, float32) {
	var sum float64
	for i := range e.voices {
		v := &e.voices[i]
		if !v.active {
			continue
		}
		advanceEnv(v, e.sampleRate)
		if v.envState == envOff {
			v.active = false
			continue
		}
		sig := math.Sin(v.carrierPhase + v.preset.ModIndex*math.Sin(v.modPhase))
		sum += sig * v.env * v.velocity * v.preset.Level
		v.carrierPhase += twoPi * v.freq * v.preset.CarrierRatio / e.sampleRate
		if v.carrierPhase > twoPi {
			v.carrierPhase -= twoPi
		}
		v.modPhase += twoPi * v.freq * v.preset.ModRatio / e.sampleRate
		if v.modPhase > twoPi {
			v.modPhase -= twoPi
		}
	}
	out := clamp(sum*e.masterGainValue(), -1, 1)
	return float32(out), float32(out)
}

// ActiveVoiceCount returns the number of voices still sounding, release
// tails included. Zero means playback has fully decayed.
func (e *Engine) ActiveVoiceCount() int {
	n := 0
	for i := range e.voices {
		if e.voices[i].active {
			n++
		}
	}
	return n
}

func (e *Engine) SetMasterGain(gain float64) {
	if gain < 0 {
		gain = 0
	}
	atomic.StoreUint64(&e.masterGain, math.Float64bits(gain))
}

func (e *Engine) masterGainValue() float64 {
	return math.Float64frombits(atomic.LoadUint64(&e.masterGain))
}

func (e *Engine) stealVoice() int {
	for i := range e.voices {
		if !e.voices[i].active {
			return i
		}
	}
	// Steal the quietest voice
	quiet := 0
	minEnv := e.voices[0].env
	for i := 1; i < len(e.voices); i++ {
		if e.voices[i].env < minEnv {
			minEnv = e.voices[i].env
			quiet = i
		}
	}
	return quiet
}

func advanceEnv(v *voice, sampleRate float64) {
	env := v.preset.Env
	switch v.envState {
	case envAttack:
		step := 1.0
		if env.Attack > 0 {
			step = 1.0 / (env.Attack * sampleRate)
		}
		v.env += step
		if v.env >= 1 {
			v.env = 1
			v.envState = envDecay
		}
	case envDecay:
		step := 1.0
		if env.Decay > 0 {
			step = (1 - env.Sustain) / (env.Decay * sampleRate)
		}
		if step <= 0 {
			v.env = env.Sustain
			v.envState = envSustain
			return
		}
		v.env -= step
		if v.env <= env.Sustain {
			v.env = env.Sustain
			v.envState = envSustain
		}
	case envSustain:
		v.env = env.Sustain
	case envRelease:
		if v.releaseFrom <= 0 {
			v.env = 0
			v.envState = envOff
			return
		}
		step := 1.0
		if env.Release > 0 {
			step = v.releaseFrom / (env.Release * sampleRate)
		}
		v.env -= step
		if v.env <= 0.0001 {
			v.env = 0
			v.envState = envOff
		}
	case envOff:
		v.env = 0
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
