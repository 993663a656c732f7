package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/san-kum/kinetic/internal/capability"
	"github.com/san-kum/kinetic/internal/motion"
	"github.com/san-kum/kinetic/internal/perf"
	"github.com/san-kum/kinetic/internal/resolve"
	"github.com/san-kum/kinetic/internal/sched"
)

var ErrAttached = errors.New("engine: element already attached")

// Options configures an Engine. Zero fields take defaults; Signals overrides
// the probed hardware snapshot for deterministic setups.
type Options struct {
	FrameInterval time.Duration
	Source        sched.FrameSource
	Signals       *capability.Signals
	ReducedMotion bool
	Logger        *zerolog.Logger
}

type Engine struct {
	mu      sync.Mutex
	sched   *sched.Scheduler
	monitor *perf.Monitor
	tier    capability.Tier
	reduced bool
	handles map[string]*Handle
	log     zerolog.Logger
}

func New(opts Options) *Engine {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	var tier capability.Tier
	if opts.Signals != nil {
		tier = capability.Classify(*opts.Signals)
	} else {
		tier = capability.Detect()
	}

	e := &Engine{
		sched:   sched.New(opts.FrameInterval, opts.Source),
		tier:    tier,
		reduced: opts.ReducedMotion,
		handles: make(map[string]*Handle),
		log:     log,
	}
	log.Debug().Stringer("tier", tier).Msg("engine created")
	return e
}

// Tier returns the capability tier, fixed for the session.
func (e *Engine) Tier() capability.Tier { return e.tier }

// ReducedMotion reports the current motion preference.
func (e *Engine) ReducedMotion() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reduced
}

// SetReducedMotion updates the preference. Turning it on stops every body
// mid-flight: pointer motion must not continue against the user's wishes.
func (e *Engine) SetReducedMotion(reduced bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reduced = reduced
	if !reduced {
		return
	}
	for _, h := range e.handles {
		h.mu.Lock()
		h.body.Reset()
		h.pointer = motion.Vec3{}
		h.hasPointer = false
		h.mu.Unlock()
	}
}

// Attach registers an element under id with the given force model. The
// model is validated here: configuration errors surface before any frame
// runs.
func (e *Engine) Attach(id string, model motion.ForceModel) (*Handle, error) {
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("attach %q: %w", id, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.handles[id]; ok {
		return nil, fmt.Errorf("%w: %s", ErrAttached, id)
	}

	h := &Handle{
		engine:   e,
		id:       id,
		body:     motion.NewBody(),
		model:    model,
		restSubs: make(map[int]func()),
	}
	e.handles[id] = h
	e.log.Debug().Str("id", id).Stringer("model", model.Kind).Msg("element attached")
	return h, nil
}

// Configure resolves an animation request against the session tier, the
// current optimization level and the motion preference. Pure; callable
// without attaching anything.
func (e *Engine) Configure(req resolve.Request) resolve.Resolved {
	e.mu.Lock()
	reduced := e.reduced
	mon := e.monitor
	e.mu.Unlock()

	level := 0
	if mon != nil {
		level = mon.Level()
	}
	return resolve.Resolve(req, e.tier, level, reduced)
}

// StartMonitor creates and starts the performance monitor. Subsequent calls
// return the existing monitor.
func (e *Engine) StartMonitor(opts perf.Options) *perf.Monitor {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.monitor == nil {
		if opts.Logger == nil {
			opts.Logger = &e.log
		}
		e.monitor = perf.NewMonitor(opts)
	}
	e.monitor.Start()
	return e.monitor
}

func (e *Engine) StopMonitor() {
	e.mu.Lock()
	mon := e.monitor
	e.mu.Unlock()
	if mon != nil {
		mon.Stop()
	}
}

// Monitor returns the monitor, or nil when none was started.
func (e *Engine) Monitor() *perf.Monitor {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.monitor
}

// LoopRunning reports whether the frame loop is live; teardown tests assert
// it returns to false.
func (e *Engine) LoopRunning() bool { return e.sched.Running() }

// Attached returns the number of registered elements.
func (e *Engine) Attached() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handles)
}

// Close stops the loop and the monitor and drops all handles.
func (e *Engine) Close() {
	e.sched.Stop()
	e.StopMonitor()
	e.mu.Lock()
	defer e.mu.Unlock()
	for id := range e.handles {
		delete(e.handles, id)
	}
}

// ensureLoop lazily starts the frame loop; called on first interaction.
func (e *Engine) ensureLoop() {
	e.sched.Start(e.tick)
}

// tick advances every active body by one frame. Returning false parks the
// loop once the last body settles; the next interaction restarts it.
//
// The engine lock is held across the step loop so a concurrent
// SetReducedMotion cannot interleave with a half-finished frame. Rest
// observers fire after the lock is released.
func (e *Engine) tick(now time.Time, dt float64) bool {
	e.mu.Lock()
	mon := e.monitor
	if e.reduced {
		e.mu.Unlock()
		if mon != nil {
			mon.RecordFrame(now)
		}
		return false
	}

	anyActive := false
	var rested []*Handle
	for _, h := range e.handles {
		r, err := h.step(dt)
		if err != nil {
			e.log.Error().Err(err).Str("id", h.id).Msg("integration step failed")
			continue
		}
		if r {
			rested = append(rested, h)
		}
		if h.Active() {
			anyActive = true
		}
	}
	e.mu.Unlock()

	if mon != nil {
		mon.RecordFrame(now)
	}
	for _, h := range rested {
		h.notifyRest()
	}
	return anyActive
}
