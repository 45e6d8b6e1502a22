// Package fmsynth renders short melodies through a two-operator FM voice
// model, either on a native audio device or through the browser's audio
// graph, behind one asynchronous play operation.
package fmsynth

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cbegin/fmsynth-go/internal/sequencer"
	"github.com/cbegin/fmsynth-go/internal/song"
)

var (
	// ErrInvalidIndex is returned when a preset or melody index is out of
	// range. No audio is produced.
	ErrInvalidIndex = errors.New("preset or melody index out of range")
	// ErrDeviceUnavailable means the native backend failed to open an
	// output stream.
	ErrDeviceUnavailable = errors.New("audio device unavailable")
	// ErrBackendInit means the browser backend failed to construct its
	// audio graph; retryable once the host's preconditions (typically a
	// user gesture) are satisfied.
	ErrBackendInit = errors.New("audio backend initialization failed")
)

type Option func(*config)

type config struct {
	presets   *song.PresetLibrary
	melodies  *song.MelodyLibrary
	gateRatio float64
}

func defaultConfig() config {
	return config{
		presets:   song.DefaultPresets(),
		melodies:  song.DefaultMelodies(),
		gateRatio: sequencer.DefaultGateRatio,
	}
}

// WithPresets replaces the built-in preset catalog.
func WithPresets(presets ...song.Preset) Option {
	return func(cfg *config) {
		cfg.presets = song.NewPresetLibrary(presets...)
	}
}

// WithMelodies replaces the built-in melody catalog.
func WithMelodies(melodies ...song.Melody) Option {
	return func(cfg *config) {
		cfg.melodies = song.NewMelodyLibrary(melodies...)
	}
}

// WithGateRatio sets the fraction of each note's duration that sounds
// before release begins. Values outside (0,1] fall back to the default.
func WithGateRatio(ratio float64) Option {
	return func(cfg *config) {
		cfg.gateRatio = ratio
	}
}

// melodyBackend starts scheduled playback on the active target and tears
// its audio resources down. Exactly one implementation compiles per
// target. start must resolve pb eventually, including after Cancel.
type melodyBackend interface {
	start(s *Synth, sched *sequencer.Schedule, pb *Playback) error
	stop()
}

// Synth is the playback engine. One Synth serializes melodies on itself:
// starting a new melody force-releases the previous one. Independent
// Synth instances are fully independent, but they share the process-wide
// audio device context on the native backend.
type Synth struct {
	mu         sync.Mutex
	sampleRate int
	gateRatio  float64
	presets    *song.PresetLibrary
	melodies   *song.MelodyLibrary
	current    *Playback
	backend    melodyBackend
}

// New builds a Synth. No audio resources are touched until the first
// successful PlayMelody call.
func New(sampleRate int, opts ...Option) (*Synth, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.presets.Len() == 0 {
		return nil, errors.New("preset catalog is empty")
	}
	if cfg.melodies.Len() == 0 {
		return nil, errors.New("melody catalog is empty")
	}
	return &Synth{
		sampleRate: sampleRate,
		gateRatio:  cfg.gateRatio,
		presets:    cfg.presets,
		melodies:   cfg.melodies,
		backend:    newBackend(),
	}, nil
}

// ListPresets returns "index: name" lines in catalog order, zero-based.
func (s *Synth) ListPresets() []string { return s.presets.List() }

// ListMelodies returns "index: name" lines in catalog order, zero-based.
func (s *Synth) ListMelodies() []string { return s.melodies.List() }

// PlayMelody resolves the preset and melody, schedules every note, and
// starts the active backend. The returned handle resolves once the last
// note's release tail has fully decayed, not when events are submitted.
// Any melody already in flight on this Synth is forced into release.
func (s *Synth) PlayMelody(presetIdx, melodyIdx int) (*Playback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	preset, err := s.presets.Get(presetIdx)
	if err != nil {
		return nil, fmt.Errorf("%w: preset %d", ErrInvalidIndex, presetIdx)
	}
	melody, err := s.melodies.Get(melodyIdx)
	if err != nil {
		return nil, fmt.Errorf("%w: melody %d", ErrInvalidIndex, melodyIdx)
	}
	sched := sequencer.Build(preset, melody, s.sampleRate, s.gateRatio)

	if s.current != nil {
		s.current.Cancel()
	}
	pb := newPlayback()
	if err := s.backend.start(s, sched, pb); err != nil {
		return nil, err
	}
	s.current = pb
	return pb, nil
}

// Stop cancels the melody in flight, if any. Sounding voices decay
// through their release stage rather than cutting to silence.
func (s *Synth) Stop() {
	s.mu.Lock()
	pb := s.current
	s.mu.Unlock()
	if pb != nil {
		pb.Cancel()
	}
}

// Close cancels playback, resolves its handle, and tears down the
// backend's audio resources. Unlike Stop, Close does not wait for the
// release decay; any waiter on the current handle is unblocked first.
func (s *Synth) Close() {
	s.mu.Lock()
	pb := s.current
	s.current = nil
	s.mu.Unlock()
	if pb != nil {
		pb.Cancel()
		pb.finish(nil)
	}
	s.backend.stop()
}
