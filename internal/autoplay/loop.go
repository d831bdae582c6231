package autoplay

import "sync"

// Loop is a serialized work queue consumed by a single goroutine. It is the
// designated safe scheduling point for anything that mutates shared playback
// state; work dispatched onto it never runs concurrently with other
// dispatched work.
type Loop struct {
	mu     sync.Mutex
	ch     chan func()
	closed bool
	done   chan struct{}
}

// NewLoop creates a Loop with the given queue capacity (defaults to 16).
func NewLoop(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 16
	}
	return &Loop{ch: make(chan func(), buffer), done: make(chan struct{})}
}

// Run consumes dispatched work until [Loop.Close]. It blocks, so callers
// start it on a dedicated goroutine.
func (l *Loop) Run() {
	defer close(l.done)
	for fn := range l.ch {
		fn()
	}
}

// Dispatch posts fn onto the loop without blocking the caller. Returns false
// and drops fn when the loop is closed or the queue is full.
func (l *Loop) Dispatch(fn func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return false
	}

	select {
	case l.ch <- fn:
		return true
	default:
		return false
	}
}

// Close stops the loop after already-queued work drains. Idempotent.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.closed {
		l.closed = true
		close(l.ch)
	}
}

// Done is closed once [Loop.Run] has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
