package perf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testOptions() Options {
	return Options{
		AutoOptimize: true,
		HistorySize:  16,
	}
}

// feedWindow records one second worth of frames at the given fps, then
// closes the window.
func feedWindow(m *Monitor, base time.Time, fps float64) (Sample, time.Time) {
	interval := time.Duration(float64(time.Second) / fps)
	t := base
	for elapsed := time.Duration(0); elapsed < time.Second; elapsed += interval {
		m.RecordFrame(t)
		t = t.Add(interval)
	}
	return m.TakeSample(), t
}

func TestSampleComputation(t *testing.T) {
	m := NewMonitor(testOptions())

	base := time.Now()
	s, _ := feedWindow(m, base, 60)

	assert.InDelta(t, 60.0, s.FPS, 1.0)
	assert.InDelta(t, 16.67, s.FrameTimeMs, 0.5)
	assert.Zero(t, s.JankScore)
}

func TestJankScore(t *testing.T) {
	m := NewMonitor(testOptions())

	now := time.Now()
	m.RecordFrame(now)
	for i := 0; i < 5; i++ {
		now = now.Add(80 * time.Millisecond) // above the 50ms jank threshold
		m.RecordFrame(now)
	}
	for i := 0; i < 10; i++ {
		now = now.Add(16 * time.Millisecond)
		m.RecordFrame(now)
	}

	s := m.TakeSample()
	assert.Equal(t, 5.0, s.JankScore)
}

func TestJankScoreCappedAtTen(t *testing.T) {
	m := NewMonitor(testOptions())

	now := time.Now()
	m.RecordFrame(now)
	for i := 0; i < 25; i++ {
		now = now.Add(100 * time.Millisecond)
		m.RecordFrame(now)
	}

	assert.Equal(t, 10.0, m.TakeSample().JankScore)
}

func TestHysteresisRaisesAfterStreak(t *testing.T) {
	m := NewMonitor(testOptions())
	base := time.Now()

	// Three consecutive windows below the low threshold: exactly +1.
	for i := 0; i < 3; i++ {
		_, base = feedWindow(m, base, 20)
	}
	require.Equal(t, 1, m.Level())

	// Three recovered windows: exactly -1.
	for i := 0; i < 3; i++ {
		_, base = feedWindow(m, base, 60)
	}
	assert.Equal(t, 0, m.Level())
}

func TestHysteresisIgnoresNoise(t *testing.T) {
	m := NewMonitor(testOptions())
	base := time.Now()

	for _, fps := range []float64{20, 60, 20} {
		_, base = feedWindow(m, base, fps)
	}
	assert.Equal(t, 0, m.Level(), "a single noisy window must not change the level")
}

func TestLevelMovesAtMostOnePerWindow(t *testing.T) {
	m := NewMonitor(testOptions())
	base := time.Now()

	levels := []int{}
	for i := 0; i < 6; i++ {
		_, base = feedWindow(m, base, 20)
		levels = append(levels, m.Level())
	}
	assert.Equal(t, []int{0, 0, 1, 1, 1, 2}, levels)
}

func TestLevelCappedAtMax(t *testing.T) {
	opts := testOptions()
	opts.MaxLevel = 2
	m := NewMonitor(opts)
	base := time.Now()

	for i := 0; i < 12; i++ {
		_, base = feedWindow(m, base, 20)
	}
	assert.Equal(t, 2, m.Level())
}

func TestEmptyWindowExcludedFromLevel(t *testing.T) {
	m := NewMonitor(testOptions())
	base := time.Now()

	_, base = feedWindow(m, base, 20)
	_, base = feedWindow(m, base, 20)
	// An idle window produces a zero sample that must break no streak and
	// never count as a low-fps window itself.
	s := m.TakeSample()
	assert.Zero(t, s.FPS)
	_, base = feedWindow(m, base, 20)
	_ = base

	assert.Equal(t, 0, m.Level())
	assert.Len(t, m.History(), 4)
}

func TestAutoOptimizeDisabled(t *testing.T) {
	opts := testOptions()
	opts.AutoOptimize = false
	m := NewMonitor(opts)
	base := time.Now()

	for i := 0; i < 6; i++ {
		_, base = feedWindow(m, base, 15)
	}
	assert.Equal(t, 0, m.Level())
}

func TestHistoryRing(t *testing.T) {
	opts := testOptions()
	opts.HistorySize = 4
	m := NewMonitor(opts)
	base := time.Now()

	for _, fps := range []float64{60, 50, 40, 30, 20} {
		_, base = feedWindow(m, base, fps)
	}

	hist := m.History()
	require.Len(t, hist, 4)
	// Oldest (60) evicted; order is oldest first.
	assert.InDelta(t, 50, hist[0].FPS, 1.5)
	assert.InDelta(t, 20, hist[3].FPS, 1.5)
	assert.InDelta(t, 20, m.Latest().FPS, 1.5)
}

func TestOnIssue(t *testing.T) {
	m := NewMonitor(testOptions())
	base := time.Now()

	var issues []Issue
	unsub := m.OnIssue(func(i Issue) { issues = append(issues, i) })

	for i := 0; i < 3; i++ {
		_, base = feedWindow(m, base, 20)
	}
	require.Len(t, issues, 1)
	assert.Equal(t, "warn", issues[0].Severity)

	unsub()
	for i := 0; i < 3; i++ {
		_, base = feedWindow(m, base, 20)
	}
	assert.Len(t, issues, 1, "unsubscribed observer must not fire")
}

func TestObserverMayReadMonitor(t *testing.T) {
	m := NewMonitor(testOptions())

	// An observer reading the monitor's own surface must not block the
	// sampling path.
	levels := make(chan int, 1)
	m.OnIssue(func(Issue) { levels <- m.Level() })

	done := make(chan struct{})
	go func() {
		defer close(done)
		base := time.Now()
		for i := 0; i < 3; i++ {
			_, base = feedWindow(m, base, 20)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sampling blocked while an observer read the monitor")
	}
	assert.Equal(t, 1, <-levels)
}

func TestStartStopLifecycle(t *testing.T) {
	opts := testOptions()
	opts.UpdateInterval = 10 * time.Millisecond
	m := NewMonitor(opts)

	m.Stop() // safe before start

	m.Start()
	m.Start() // idempotent
	assert.True(t, m.Running())

	time.Sleep(35 * time.Millisecond)
	m.Stop()
	m.Stop() // idempotent
	assert.False(t, m.Running())
}

func TestSuggestionsOrdering(t *testing.T) {
	m := NewMonitor(testOptions())

	// Heavy jank plus low fps: the jank suggestion carries the most impact
	// and must come first.
	now := time.Now()
	m.RecordFrame(now)
	for i := 0; i < 12; i++ {
		now = now.Add(90 * time.Millisecond)
		m.RecordFrame(now)
	}
	m.TakeSample()

	sugg := m.Suggestions()
	require.NotEmpty(t, sugg)
	assert.Contains(t, sugg[0], "blur")

	// Same history must produce the same ordering.
	assert.Equal(t, sugg, m.Suggestions())
}

func TestSuggestionsEmptyWithoutData(t *testing.T) {
	m := NewMonitor(testOptions())
	assert.Empty(t, m.Suggestions())
}
