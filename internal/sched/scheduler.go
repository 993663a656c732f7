package sched

import (
	"sync"
	"time"
)

// MaxFrameDelta clamps dt after stalls (tab backgrounding, suspend) so one
// huge step cannot destabilize the integration.
const MaxFrameDelta = 48 * time.Millisecond

// DefaultInterval targets 60 frames per second.
const DefaultInterval = time.Second / 60

// TickFunc receives the clamped frame delta in seconds and reports whether
// the loop should keep running. Returning false parks the loop; a later
// Start resumes it.
type TickFunc func(now time.Time, dt float64) bool

// FrameSource abstracts the host frame primitive.
type FrameSource interface {
	// Frames returns the frame channel. A nil channel is a broken/absent
	// primitive: the loop blocks forever and never ticks.
	Frames(interval time.Duration) <-chan time.Time
	Close()
}

// TickerSource is the standard wall-clock frame source.
type TickerSource struct {
	ticker *time.Ticker
}

func NewTickerSource() *TickerSource {
	return &TickerSource{}
}

func (s *TickerSource) Frames(interval time.Duration) <-chan time.Time {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s.ticker = time.NewTicker(interval)
	return s.ticker.C
}

func (s *TickerSource) Close() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
}

// NoopSource is the degraded source for hosts without a frame primitive.
// Start succeeds and callers simply never observe a tick; animations never
// settle, which is the accepted trade-off.
type NoopSource struct{}

func (NoopSource) Frames(time.Duration) <-chan time.Time { return nil }
func (NoopSource) Close()                                {}

// Scheduler runs the single frame loop.
type Scheduler struct {
	mu       sync.Mutex
	interval time.Duration
	source   FrameSource

	stop    chan struct{}
	done    chan struct{}
	running bool
	pending bool
}

// New creates a scheduler over the given source. A nil source gets the
// ticker source.
func New(interval time.Duration, source FrameSource) *Scheduler {
	if source == nil {
		source = NewTickerSource()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{interval: interval, source: source}
}

// Start launches the loop with fn as the frame callback. While the loop is
// running a Start records a pending wake instead, so a wake racing the
// loop's own park decision is never lost.
func (s *Scheduler) Start(fn TickFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.pending = true
		return
	}
	s.running = true
	s.pending = false
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(fn, s.stop, s.done)
}

// Stop cancels the loop synchronously: once Stop returns, no further tick
// can be observed. Idempotent, and safe to call before any Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.pending = false
	stop, done := s.stop, s.done
	s.mu.Unlock()

	close(stop)
	<-done
}

// Running reports whether the loop goroutine is live. Teardown tests assert
// this returns to false.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) loop(fn TickFunc, stop <-chan struct{}, done chan<- struct{}) {
	defer func() {
		s.mu.Lock()
		// A newer Start may own the scheduler by now; only this
		// generation's exit clears the flag.
		if s.done == done {
			s.running = false
		}
		s.mu.Unlock()
		close(done)
	}()

	frames := s.source.Frames(s.interval)
	defer s.source.Close()

	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-frames:
			// Stop wins over a frame that raced in.
			select {
			case <-stop:
				return
			default:
			}

			delta := now.Sub(last)
			last = now
			if delta <= 0 {
				continue
			}
			if delta > MaxFrameDelta {
				delta = MaxFrameDelta
			}
			if !fn(now, delta.Seconds()) {
				// Park, unless a wake landed during the tick. Clearing
				// running here makes the check-and-exit atomic with any
				// concurrent Start.
				s.mu.Lock()
				if s.pending {
					s.pending = false
					s.mu.Unlock()
					continue
				}
				if s.done == done {
					s.running = false
				}
				s.mu.Unlock()
				return
			}
		}
	}
}
