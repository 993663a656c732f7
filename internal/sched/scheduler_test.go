package sched

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeSource feeds hand-crafted frame timestamps.
type fakeSource struct {
	ch chan time.Time
}

func newFakeSource() *fakeSource {
	return &fakeSource{ch: make(chan time.Time)}
}

func (f *fakeSource) Frames(time.Duration) <-chan time.Time { return f.ch }
func (f *fakeSource) Close()                                {}

func TestTicksAndSynchronousStop(t *testing.T) {
	s := New(time.Millisecond, nil)

	var mu sync.Mutex
	ticks := 0
	s.Start(func(now time.Time, dt float64) bool {
		mu.Lock()
		ticks++
		mu.Unlock()
		return true
	})

	time.Sleep(20 * time.Millisecond)
	s.Stop()

	mu.Lock()
	after := ticks
	mu.Unlock()
	if after == 0 {
		t.Fatal("expected ticks before stop")
	}

	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	final := ticks
	mu.Unlock()
	if final != after {
		t.Fatalf("observed tick after Stop returned: %d -> %d", after, final)
	}
	if s.Running() {
		t.Error("scheduler still running after stop")
	}
}

func TestStopIdempotentAndSafeBeforeStart(t *testing.T) {
	s := New(0, nil)
	s.Stop()
	s.Stop()

	s.Start(func(time.Time, float64) bool { return true })
	s.Stop()
	s.Stop()
}

func TestStartIdempotent(t *testing.T) {
	s := New(time.Millisecond, nil)
	s.Start(func(time.Time, float64) bool { return true })
	s.Start(func(time.Time, float64) bool { return true })
	if !s.Running() {
		t.Fatal("expected running")
	}
	s.Stop()
}

func TestLoopParksWhenTickReturnsFalse(t *testing.T) {
	s := New(time.Millisecond, nil)

	done := make(chan struct{})
	var once sync.Once
	s.Start(func(time.Time, float64) bool {
		once.Do(func() { close(done) })
		return false
	})

	<-done
	deadline := time.After(time.Second)
	for s.Running() {
		select {
		case <-deadline:
			t.Fatal("loop did not park after tick returned false")
		case <-time.After(time.Millisecond):
		}
	}
	s.Stop() // still safe after self-exit

	// Restart resumes ticking.
	resumed := make(chan struct{})
	var again sync.Once
	s.Start(func(time.Time, float64) bool {
		again.Do(func() { close(resumed) })
		return false
	})
	select {
	case <-resumed:
	case <-time.After(time.Second):
		t.Fatal("restart after park did not tick")
	}
	s.Stop()
}

func TestWakeDuringParkingTickNotLost(t *testing.T) {
	src := newFakeSource()
	s := New(time.Millisecond, src)

	ticks := make(chan int, 4)
	n := 0
	var fn TickFunc
	fn = func(time.Time, float64) bool {
		n++
		ticks <- n
		if n == 1 {
			// A wake arriving while the tick is deciding to park.
			s.Start(fn)
		}
		return false
	}
	s.Start(fn)

	base := time.Now()
	src.ch <- base.Add(time.Second)
	<-ticks

	// The loop must keep running and consume the next frame.
	src.ch <- base.Add(2 * time.Second)
	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatal("wake during park was lost")
	}
	s.Stop()
}

func TestDeltaClamped(t *testing.T) {
	src := newFakeSource()
	s := New(time.Millisecond, src)

	dts := make(chan float64, 4)
	base := time.Now()
	s.Start(func(_ time.Time, dt float64) bool {
		dts <- dt
		return true
	})

	// A frame stamped far ahead of the loop's start clamps to MaxFrameDelta.
	src.ch <- base.Add(time.Second)
	if dt := <-dts; dt != MaxFrameDelta.Seconds() {
		t.Fatalf("expected clamped dt %f, got %f", MaxFrameDelta.Seconds(), dt)
	}

	// Simulated background stall: a 3s gap clamps the same way.
	src.ch <- base.Add(4 * time.Second)
	if dt := <-dts; dt != MaxFrameDelta.Seconds() {
		t.Fatalf("expected clamped dt %f, got %f", MaxFrameDelta.Seconds(), dt)
	}
	s.Stop()
}

func TestNoopSourceNeverTicks(t *testing.T) {
	s := New(time.Millisecond, NoopSource{})

	ticked := make(chan struct{}, 1)
	s.Start(func(time.Time, float64) bool {
		ticked <- struct{}{}
		return true
	})
	if !s.Running() {
		t.Fatal("start must succeed on a no-op source")
	}

	select {
	case <-ticked:
		t.Fatal("no-op source must never tick")
	case <-time.After(30 * time.Millisecond):
	}

	s.Stop()
	if s.Running() {
		t.Error("stop must tear down the no-op loop")
	}
}
