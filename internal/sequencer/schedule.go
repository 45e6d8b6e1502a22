package sequencer

import (
	"sort"

	"github.com/cbegin/fmsynth-go/internal/song"
)

// DefaultGateRatio is the fraction of a note's nominal duration that
// sounds before release begins. The remaining 20% is the inter-note gap
// that keeps adjacent notes from clicking into each other.
const DefaultGateRatio = 0.8

// Event is one trigger or release, stamped in sample frames for the pull
// driver. Note pairs an On event with its Off event.
type Event struct {
	Frame    int
	On       bool
	Note     int
	Freq     float64
	Velocity float64
}

// NoteSpan is the same sounding note expressed in seconds, for push
// backends that program parameter changes ahead of real time.
type NoteSpan struct {
	AtSec    float64
	GateSec  float64
	Freq     float64
	Velocity float64
}

// Schedule is a melody resolved against a preset: every trigger and
// release with an absolute timestamp, in both frame and second form.
type Schedule struct {
	Preset song.Preset
	Events []Event
	Spans  []NoteSpan

	// MelodySec is the sum of all note durations in seconds.
	MelodySec float64
	// TotalSec is when playback has fully decayed: the last release
	// event plus the preset's release time.
	TotalSec float64
}

// Build converts a melody's note list into absolute timestamps. Note i
// starts at the cumulative duration of the notes before it; its release
// fires at start + duration*gateRatio. Rests advance time silently.
func Build(p song.Preset, m song.Melody, sampleRate int, gateRatio float64) *Schedule {
	if gateRatio <= 0 || gateRatio > 1 {
		gateRatio = DefaultGateRatio
	}
	secPerBeat := 60 / m.Tempo
	sr := float64(sampleRate)
	sched := &Schedule{Preset: p}
	var cursor, lastOff float64
	for _, nt := range m.Notes {
		durSec := nt.Beats * secPerBeat
		if nt.Key != song.Rest {
			vel := nt.Velocity
			if vel <= 0 {
				vel = 1
			}
			freq := song.KeyToFreq(nt.Key)
			gate := durSec * gateRatio
			idx := len(sched.Spans)
			sched.Events = append(sched.Events,
				Event{Frame: int(cursor * sr), On: true, Note: idx, Freq: freq, Velocity: vel},
				Event{Frame: int((cursor + gate) * sr), Note: idx})
			sched.Spans = append(sched.Spans,
				NoteSpan{AtSec: cursor, GateSec: gate, Freq: freq, Velocity: vel})
			if cursor+gate > lastOff {
				lastOff = cursor + gate
			}
		}
		cursor += durSec
	}
	// Stable so a release that lands on the next trigger's frame fires first.
	sort.SliceStable(sched.Events, func(i, j int) bool {
		return sched.Events[i].Frame < sched.Events[j].Frame
	})
	sched.MelodySec = cursor
	if len(sched.Spans) > 0 {
		sched.TotalSec = lastOff + p.Env.Release
	}
	return sched
}
