//go:build !js

package fmsynth

import (
	"fmt"

	intaudio "github.com/cbegin/fmsynth-go/internal/audio"
	"github.com/cbegin/fmsynth-go/internal/fm"
	"github.com/cbegin/fmsynth-go/internal/sequencer"
)

// nativeBackend is the pull backend: a device output stream pulls
// fixed-size buffers from the sequencer on the audio thread. The render
// path never locks or allocates; completion is reported through the
// sequencer's event callback and EOF winds the device player down.
type nativeBackend struct {
	player *intaudio.Player
}

func newBackend() melodyBackend { return &nativeBackend{} }

func (b *nativeBackend) start(s *Synth, sched *sequencer.Schedule, pb *Playback) error {
	engine := fm.New(s.sampleRate)
	seq := sequencer.NewWithOptions(sched, engine, s.sampleRate, sequencer.Options{
		OnEvent: func(kind sequencer.EventKind) {
			if kind == sequencer.EventPlaybackEnded {
				pb.finish(nil)
			}
		},
	})
	pb.cancelFn = seq.Cancel

	player, err := intaudio.NewPlayer(s.sampleRate, seq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	// Each playback owns its player for its whole decay: a replaced
	// melody keeps rendering until its sequencer reports the end (its
	// cancel is applied on the audio thread, voices release, the stream
	// EOFs). The device handle is reaped once the handle resolves.
	go func() {
		<-pb.Done()
		_ = player.Stop()
	}()
	b.player = player
	player.Play()
	return nil
}

func (b *nativeBackend) stop() {
	if b.player != nil {
		_ = b.player.Stop()
		b.player = nil
	}
}
