//go:build js

package fmsynth

import (
	"fmt"
	"time"

	"github.com/cbegin/fmsynth-go/internal/sequencer"
	"github.com/cbegin/fmsynth-go/internal/webaudio"
)

// lookahead is how far ahead of real time each note is submitted to the
// audio graph. The graph's own clock executes the scheduled parameter
// changes, so the driver only has to stay this far ahead.
const lookahead = 50 * time.Millisecond

// completionPad keeps the handle open slightly past the computed decay
// so the last ramp audibly reaches zero before Done closes.
const completionPad = 100 * time.Millisecond

// webBackend is the browser push backend: a driver goroutine walks the
// schedule and programs oscillator/gain parameter changes ahead of the
// context clock. The host's audio thread does all sample computation.
// Each playback gets an owner tag so canceling a replaced melody only
// ramps down its own voices.
type webBackend struct {
	graph     *webaudio.Graph
	nextOwner int
}

func newBackend() melodyBackend { return &webBackend{} }

func (b *webBackend) start(s *Synth, sched *sequencer.Schedule, pb *Playback) error {
	if b.graph == nil {
		g, err := webaudio.NewGraph()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBackendInit, err)
		}
		b.graph = g
	}
	b.graph.Resume()

	g := b.graph
	b.nextOwner++
	owner := b.nextOwner
	stop := make(chan struct{})
	pb.cancelFn = func() { close(stop) }
	release := sched.Preset.Env.Release

	go func() {
		begin := time.Now()
		base := g.Now() + lookahead.Seconds()
		for _, span := range sched.Spans {
			due := time.Duration(span.AtSec*float64(time.Second)) - lookahead
			if wait := due - time.Since(begin); wait > 0 {
				select {
				case <-stop:
					finishReleased(g, owner, pb, release)
					return
				case <-time.After(wait):
				}
			} else {
				select {
				case <-stop:
					finishReleased(g, owner, pb, release)
					return
				default:
				}
			}
			g.ScheduleNote(owner, base+span.AtSec, span.Freq, span.Velocity, sched.Preset, span.GateSec)
		}
		total := time.Duration(sched.TotalSec*float64(time.Second)) + completionPad
		if wait := total - time.Since(begin); wait > 0 {
			select {
			case <-stop:
				finishReleased(g, owner, pb, release)
				return
			case <-time.After(wait):
			}
		}
		pb.finish(nil)
	}()
	return nil
}

// finishReleased resolves a canceled playback: the owner's live voices
// ramp to silence over the release time, and the handle closes once that
// decay has elapsed.
func finishReleased(g *webaudio.Graph, owner int, pb *Playback, releaseSec float64) {
	g.Release(owner, releaseSec)
	time.Sleep(time.Duration(releaseSec*float64(time.Second)) + completionPad)
	pb.finish(nil)
}

func (b *webBackend) stop() {
	if b.graph != nil {
		b.graph.Close()
		b.graph = nil
	}
}
