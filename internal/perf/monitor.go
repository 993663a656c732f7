package perf

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultUpdateInterval = time.Second
	DefaultTargetFPS      = 60.0
	DefaultLowThreshold   = 30.0
	DefaultHighThreshold  = 55.0
	DefaultStreak         = 3
	DefaultMaxLevel       = 4
	DefaultJankThreshold  = 50 * time.Millisecond
	DefaultHistorySize    = 60
)

// Sample is one reduced sampling window.
type Sample struct {
	FPS         float64   `json:"fps"`
	FrameTimeMs float64   `json:"frame_time_ms"`
	JankScore   float64   `json:"jank_score"`
	Timestamp   time.Time `json:"timestamp"`
}

// Issue is one detected performance problem, published to OnIssue observers
// and the log stream.
type Issue struct {
	Severity string
	Message  string
	Sample   Sample
}

// Options configures a Monitor. Zero fields take the package defaults.
type Options struct {
	UpdateInterval time.Duration
	TargetFPS      float64
	LowThreshold   float64
	HighThreshold  float64
	StreakDown     int
	StreakUp       int
	MaxLevel       int
	JankThreshold  time.Duration
	HistorySize    int
	AutoOptimize   bool
	Logger         *zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.UpdateInterval <= 0 {
		o.UpdateInterval = DefaultUpdateInterval
	}
	if o.TargetFPS <= 0 {
		o.TargetFPS = DefaultTargetFPS
	}
	if o.LowThreshold <= 0 {
		o.LowThreshold = DefaultLowThreshold
	}
	if o.HighThreshold <= 0 {
		o.HighThreshold = DefaultHighThreshold
	}
	if o.StreakDown <= 0 {
		o.StreakDown = DefaultStreak
	}
	if o.StreakUp <= 0 {
		o.StreakUp = DefaultStreak
	}
	if o.MaxLevel <= 0 {
		o.MaxLevel = DefaultMaxLevel
	}
	if o.JankThreshold <= 0 {
		o.JankThreshold = DefaultJankThreshold
	}
	if o.HistorySize <= 0 {
		o.HistorySize = DefaultHistorySize
	}
	return o
}

// Monitor watches frame cost and adjusts the optimization level.
type Monitor struct {
	mu   sync.Mutex
	opts Options
	log  zerolog.Logger

	lastFrame time.Time
	intervals []time.Duration

	history []Sample
	head    int
	count   int

	level      int
	lowStreak  int
	highStreak int

	issueSubs map[int]func(Issue)
	nextSub   int

	stop    chan struct{}
	done    chan struct{}
	running bool
}

func NewMonitor(opts Options) *Monitor {
	opts = opts.withDefaults()
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Monitor{
		opts:      opts,
		log:       log,
		history:   make([]Sample, opts.HistorySize),
		issueSubs: make(map[int]func(Issue)),
	}
}

// Start launches the window loop. Idempotent while running.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	m.running = true
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	go m.loop(m.stop, m.done)
}

// Stop tears the loop down synchronously: after Stop returns no further
// window is reduced. Safe to call without Start and more than once.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	stop, done := m.stop, m.done
	m.mu.Unlock()

	close(stop)
	<-done
}

func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(m.opts.UpdateInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			select {
			case <-stop:
				return
			default:
			}
			m.TakeSample()
		}
	}
}

// RecordFrame feeds one frame timestamp into the current window.
func (m *Monitor) RecordFrame(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.lastFrame.IsZero() {
		if d := now.Sub(m.lastFrame); d > 0 {
			m.intervals = append(m.intervals, d)
		}
	}
	m.lastFrame = now
}

// TakeSample reduces the current window to one Sample, appends it to the
// history ring and applies the hysteresis. An empty window yields a zero
// sample that is kept in history but excluded from level decisions, so an
// idle monitor never drives optimization.
//
// Issue observers fire after the lock is released, so an observer may read
// the monitor's own surface (Level, Latest, History) without deadlocking
// the window loop.
func (m *Monitor) TakeSample() Sample {
	m.mu.Lock()

	s := Sample{Timestamp: time.Now()}
	if n := len(m.intervals); n > 0 {
		var total time.Duration
		jank := 0
		for _, d := range m.intervals {
			total += d
			if d > m.opts.JankThreshold {
				jank++
			}
		}
		mean := total / time.Duration(n)
		s.FrameTimeMs = float64(mean) / float64(time.Millisecond)
		if mean > 0 {
			s.FPS = float64(time.Second) / float64(mean)
		}
		if jank > 10 {
			jank = 10
		}
		s.JankScore = float64(jank)
	}
	m.intervals = m.intervals[:0]

	m.history[m.head] = s
	m.head = (m.head + 1) % len(m.history)
	if m.count < len(m.history) {
		m.count++
	}

	var issues []Issue
	if s.FPS > 0 {
		issues = m.adjustLevel(s)
	} else {
		// No measurement is not a low-fps window: an idle gap breaks the
		// consecutive-window streaks instead of bridging them.
		m.lowStreak = 0
		m.highStreak = 0
	}

	var subs []func(Issue)
	if len(issues) > 0 {
		subs = make([]func(Issue), 0, len(m.issueSubs))
		for _, fn := range m.issueSubs {
			subs = append(subs, fn)
		}
	}
	m.mu.Unlock()

	for _, issue := range issues {
		for _, fn := range subs {
			fn(issue)
		}
	}
	return s
}

// adjustLevel is the hysteresis state machine: the level moves by at most
// one step per window, and only after a full streak of consistent windows.
// Callers hold mu; detected issues are returned for dispatch outside it.
func (m *Monitor) adjustLevel(s Sample) []Issue {
	switch {
	case s.FPS < m.opts.LowThreshold:
		m.lowStreak++
		m.highStreak = 0
	case s.FPS > m.opts.HighThreshold:
		m.highStreak++
		m.lowStreak = 0
	default:
		m.lowStreak = 0
		m.highStreak = 0
	}

	if !m.opts.AutoOptimize {
		return nil
	}

	var issues []Issue
	if m.lowStreak >= m.opts.StreakDown {
		m.lowStreak = 0
		if m.level < m.opts.MaxLevel {
			m.level++
			m.log.Warn().Int("level", m.level).Float64("fps", s.FPS).
				Msg("sustained low fps, raising optimization level")
			issues = append(issues, Issue{Severity: "warn", Sample: s,
				Message: "sustained low fps, animation complexity reduced"})
		}
	}
	if m.highStreak >= m.opts.StreakUp {
		m.highStreak = 0
		if m.level > 0 {
			m.level--
			m.log.Info().Int("level", m.level).Float64("fps", s.FPS).
				Msg("performance recovered, lowering optimization level")
		}
	}
	return issues
}

func (m *Monitor) Level() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

// History returns the recorded samples oldest first.
func (m *Monitor) History() []Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Sample, 0, m.count)
	start := m.head - m.count
	for i := 0; i < m.count; i++ {
		idx := (start + i + len(m.history)) % len(m.history)
		out = append(out, m.history[idx])
	}
	return out
}

// Latest returns the most recent sample, or a zero sample when none exists.
func (m *Monitor) Latest() Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.count == 0 {
		return Sample{}
	}
	idx := (m.head - 1 + len(m.history)) % len(m.history)
	return m.history[idx]
}

// OnIssue registers an observer for detected issues and returns its
// unsubscribe function.
func (m *Monitor) OnIssue(fn func(Issue)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.issueSubs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.issueSubs, id)
	}
}
