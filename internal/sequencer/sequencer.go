package sequencer

import (
	"sync/atomic"

	"github.com/cbegin/fmsynth-go/internal/song"
)

// VoiceEngine is the mixer the pull driver renders through.
type VoiceEngine interface {
	NoteOn(p song.Preset, freq, velocity float64) int
	NoteOff(id int)
	RenderFrame() (float32, float32)
	SetMasterGain(gain float64)
	// ActiveVoiceCount returns the number of voices still sounding
	// (attack through release). Used to detect when playback has fully
	// ended including release tails.
	ActiveVoiceCount() int
}

// EventKind identifies sequencer lifecycle events.
type EventKind int

const (
	EventPlaybackEnded EventKind = iota
)

type Options struct {
	OnEvent           func(EventKind)
	ReleaseTailFrames int // extra frames after the last voice ends (0 = 0.1s default)
}

// Sequencer drives a Schedule against a VoiceEngine from the audio
// callback: each Process call fires every event whose timestamp has
// elapsed, then renders that tick's frames. The event list is built
// before the stream starts and owned by the render path afterwards, so
// Process takes no locks and allocates nothing; Cancel is the only
// cross-thread entry point and is a single atomic flag.
type Sequencer struct {
	sched         *Schedule
	engine        VoiceEngine
	frame         int
	next          int
	voiceIDs      []int
	canceled      atomic.Bool
	cancelApplied bool
	endFired      bool
	finished      atomic.Bool
	tailFrames    int
	onEvent       func(EventKind)
}

func New(sched *Schedule, engine VoiceEngine, sampleRate int) *Sequencer {
	return NewWithOptions(sched, engine, sampleRate, Options{})
}

func NewWithOptions(sched *Schedule, engine VoiceEngine, sampleRate int, opts Options) *Sequencer {
	tail := opts.ReleaseTailFrames
	if tail <= 0 {
		tail = sampleRate / 10
	}
	ids := make([]int, len(sched.Spans))
	for i := range ids {
		ids[i] = -1
	}
	return &Sequencer{
		sched:      sched,
		engine:     engine,
		voiceIDs:   ids,
		tailFrames: tail,
		onEvent:    opts.OnEvent,
	}
}

// Cancel discards all pending triggers and forces sounding voices into
// release on the next Process call. Playback still ends through the
// normal decay path, never by cutting to silence.
func (s *Sequencer) Cancel() {
	s.canceled.Store(true)
}

// Finished reports whether playback has ended and the release tail has
// elapsed. The stream layer uses this to stop pulling.
func (s *Sequencer) Finished() bool {
	return s.finished.Load()
}

// Process renders frames into the interleaved stereo buffer.
func (s *Sequencer) Process(dst []float32) {
	frames := len(dst) / 2
	for f := 0; f < frames; f++ {
		if s.canceled.Load() && !s.cancelApplied {
			s.cancelApplied = true
			s.next = len(s.sched.Events)
			for _, id := range s.voiceIDs {
				if id >= 0 {
					s.engine.NoteOff(id)
				}
			}
		}
		for s.next < len(s.sched.Events) && s.sched.Events[s.next].Frame <= s.frame {
			ev := s.sched.Events[s.next]
			if ev.On {
				s.voiceIDs[ev.Note] = s.engine.NoteOn(s.sched.Preset, ev.Freq, ev.Velocity)
			} else if id := s.voiceIDs[ev.Note]; id >= 0 {
				s.engine.NoteOff(id)
			}
			s.next++
		}
		l, r := s.engine.RenderFrame()
		dst[f*2] = l
		dst[f*2+1] = r
		s.frame++
		if s.next >= len(s.sched.Events) && !s.endFired && s.engine.ActiveVoiceCount() == 0 {
			if s.tailFrames <= 0 {
				s.endFired = true
				s.finished.Store(true)
				if s.onEvent != nil {
					s.onEvent(EventPlaybackEnded)
				}
			} else {
				s.tailFrames--
			}
		}
	}
}
