package fmsynth

import "sync"

// Playback is the handle for one in-flight PlayMelody call. It is owned
// by the caller and resolved by the backend's scheduling path.
type Playback struct {
	done       chan struct{}
	finishOnce sync.Once
	cancelOnce sync.Once
	mu         sync.Mutex
	err        error
	cancelFn   func()
}

func newPlayback() *Playback {
	return &Playback{done: make(chan struct{})}
}

// Done is closed once playback has fully decayed (or failed).
func (p *Playback) Done() <-chan struct{} { return p.done }

// Wait blocks until playback resolves and returns its outcome.
func (p *Playback) Wait() error {
	<-p.done
	return p.Err()
}

// Err returns the playback outcome. Valid once Done is closed.
func (p *Playback) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Cancel discards pending note triggers and forces sounding voices into
// release. The handle still resolves, after the release has decayed.
func (p *Playback) Cancel() {
	p.cancelOnce.Do(func() {
		if p.cancelFn != nil {
			p.cancelFn()
		}
	})
}

func (p *Playback) finish(err error) {
	p.finishOnce.Do(func() {
		p.mu.Lock()
		p.err = err
		p.mu.Unlock()
		close(p.done)
	})
}
