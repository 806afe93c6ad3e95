// Package progress models the reading-progress indicator of note pages.
//
// Percent computes the indicator width from a scroll position. Tracker
// reproduces the browser behaviour in Go: scroll events are coalesced so that
// at most one update runs per animation frame, and each update reads the
// current scroll position fresh. The browser implementation of the same
// algorithm ships as the progress.js script asset.
package progress

import (
	"strconv"
	"sync"
)

// State is a snapshot of the document's scroll geometry.
type State struct {
	ScrollTop    float64
	ScrollHeight float64
	ClientHeight float64
}

// Scrollable returns the distance the viewport can travel.
func (s State) Scrollable() float64 {
	return s.ScrollHeight - s.ClientHeight
}

// Percent returns how far the document has been scrolled, in [0, 100].
// Documents that fit the viewport report 0.
func Percent(s State) float64 {
	h := s.Scrollable()
	if h <= 0 {
		return 0
	}
	p := s.ScrollTop / h * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

// Width formats a percentage as a CSS width value ("37.5%").
func Width(percent float64) string {
	return strconv.FormatFloat(percent, 'f', -1, 64) + "%"
}

// Viewport reads the current scroll geometry.
type Viewport interface {
	State() State
}

// Scheduler runs fn before the next frame and returns a function that
// cancels it if it has not run yet.
type Scheduler interface {
	RequestFrame(fn func()) (cancel func())
}

// Sink receives the indicator width.
type Sink interface {
	SetWidth(width string)
}

// Tracker coalesces scroll events into at most one width update per frame.
// All methods are safe for concurrent use.
type Tracker struct {
	viewport  Viewport
	scheduler Scheduler
	sink      Sink

	mu       sync.Mutex
	inFlight bool
	stopped  bool
	cancel   func()
}

// NewTracker creates a Tracker. It does nothing until Start is called.
func NewTracker(viewport Viewport, scheduler Scheduler, sink Sink) *Tracker {
	return &Tracker{
		viewport:  viewport,
		scheduler: scheduler,
		sink:      sink,
		stopped:   true,
	}
}

// Start enables event handling and writes the initial width immediately.
func (t *Tracker) Start() {
	t.mu.Lock()
	t.stopped = false
	t.mu.Unlock()

	t.update()
}

// OnScroll handles a scroll event. While an update is scheduled, further
// events are dropped.
func (t *Tracker) OnScroll() {
	t.mu.Lock()
	if t.stopped || t.inFlight {
		t.mu.Unlock()
		return
	}
	t.inFlight = true
	t.mu.Unlock()

	// The scheduler may run the frame synchronously, so it is called unlocked.
	cancel := t.scheduler.RequestFrame(t.frame)

	t.mu.Lock()
	if t.inFlight {
		t.cancel = cancel
	}
	t.mu.Unlock()
}

// Stop ignores further events and cancels a pending frame.
func (t *Tracker) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	t.stopped = true
	t.inFlight = false
	t.cancel = nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (t *Tracker) frame() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	t.update()

	t.mu.Lock()
	t.inFlight = false
	t.cancel = nil
	t.mu.Unlock()
}

func (t *Tracker) update() {
	t.sink.SetWidth(Width(Percent(t.viewport.State())))
}
