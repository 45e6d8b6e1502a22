//go:build js

package webaudio

import (
	"errors"
	"sync"

	"github.com/gopherjs/gopherjs/js"

	"github.com/cbegin/fmsynth-go/internal/song"
)

// ErrNoAudioContext means the host exposes no AudioContext constructor,
// or construction failed (some hosts require a user gesture first).
var ErrNoAudioContext = errors.New("web audio context unavailable")

type voiceNodes struct {
	owner     int
	carrier   *js.Object
	modulator *js.Object
	gain      *js.Object
	endsAt    float64
}

// Graph owns one Web Audio context and a master gain node. Each note
// gets its own carrier/modulator oscillator pair plus gains, created on
// trigger and torn down by the graph's own clock; the host audio thread
// executes all scheduled parameter changes autonomously. Voices are
// tagged with the playback that scheduled them, so releasing a canceled
// playback never touches its successor's notes.
type Graph struct {
	ctx    *js.Object
	master *js.Object

	mu     sync.Mutex
	active []voiceNodes
}

func NewGraph() (g *Graph, err error) {
	defer func() {
		if recover() != nil {
			g, err = nil, ErrNoAudioContext
		}
	}()
	ctor := js.Global.Get("AudioContext")
	if ctor == nil || ctor == js.Undefined {
		ctor = js.Global.Get("webkitAudioContext")
	}
	if ctor == nil || ctor == js.Undefined {
		return nil, ErrNoAudioContext
	}
	ctx := ctor.New()
	master := ctx.Call("createGain")
	master.Get("gain").Set("value", 1)
	master.Call("connect", ctx.Get("destination"))
	return &Graph{ctx: ctx, master: master}, nil
}

// Now returns the context's own high-precision clock in seconds.
func (g *Graph) Now() float64 {
	return g.ctx.Get("currentTime").Float()
}

// Resume kicks a context suspended by the host's autoplay policy.
func (g *Graph) Resume() {
	if g.ctx.Get("state").String() == "suspended" {
		g.ctx.Call("resume")
	}
}

// ScheduleNote programs one FM voice at an absolute context time:
// modulator -> mod gain -> carrier.frequency, carrier -> gain -> master.
// The gain AudioParam carries the full ADSR; the release ramp starts at
// the gate point and the oscillators stop once it has decayed. The voice
// is tracked under owner for Release.
func (g *Graph) ScheduleNote(owner int, at, freq, velocity float64, p song.Preset, gateSec float64) {
	carrier := g.ctx.Call("createOscillator")
	carrier.Get("frequency").Call("setValueAtTime", freq*p.CarrierRatio, at)

	modulator := g.ctx.Call("createOscillator")
	modulator.Get("frequency").Call("setValueAtTime", freq*p.ModRatio, at)

	modGain := g.ctx.Call("createGain")
	modGain.Get("gain").Call("setValueAtTime", p.ModIndex*freq, at)

	gain := g.ctx.Call("createGain")
	peak := p.Level * velocity
	hold := at + gateSec
	if min := at + p.Env.Attack + p.Env.Decay; hold < min {
		hold = min
	}
	gp := gain.Get("gain")
	gp.Call("setValueAtTime", 0, at)
	gp.Call("linearRampToValueAtTime", peak, at+p.Env.Attack)
	gp.Call("linearRampToValueAtTime", peak*p.Env.Sustain, at+p.Env.Attack+p.Env.Decay)
	gp.Call("setValueAtTime", peak*p.Env.Sustain, hold)
	gp.Call("linearRampToValueAtTime", 0, hold+p.Env.Release)

	modulator.Call("connect", modGain)
	modGain.Call("connect", carrier.Get("frequency"))
	carrier.Call("connect", gain)
	gain.Call("connect", g.master)

	endsAt := hold + p.Env.Release + 0.05
	modulator.Call("start", at)
	carrier.Call("start", at)
	modulator.Call("stop", endsAt)
	carrier.Call("stop", endsAt)

	g.mu.Lock()
	g.pruneLocked()
	g.active = append(g.active, voiceNodes{owner: owner, carrier: carrier, modulator: modulator, gain: gain, endsAt: endsAt})
	g.mu.Unlock()
}

// Release cancels pending gain automation on the given owner's voices
// and ramps them to silence over releaseSec. Other playbacks' voices are
// untouched. Oscillators keep their original stop times; silencing the
// gain is what prevents an audible cut.
func (g *Graph) Release(owner int, releaseSec float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.Now()
	kept := g.active[:0]
	for _, v := range g.active {
		if v.owner != owner {
			kept = append(kept, v)
			continue
		}
		gp := v.gain.Get("gain")
		gp.Call("cancelScheduledValues", now)
		gp.Call("setValueAtTime", gp.Get("value").Float(), now)
		gp.Call("linearRampToValueAtTime", 0, now+releaseSec)
	}
	g.active = kept
}

func (g *Graph) Close() {
	g.ctx.Call("close")
}

func (g *Graph) pruneLocked() {
	now := g.Now()
	kept := g.active[:0]
	for _, v := range g.active {
		if v.endsAt > now {
			kept = append(kept, v)
		}
	}
	g.active = kept
}
