package engine

import (
	"fmt"
	"sync"

	"github.com/san-kum/kinetic/internal/motion"
)

// StyleRecord is the derived style the rendering layer consumes.
type StyleRecord struct {
	Transform  string
	Opacity    float64
	WillChange string
}

// Handle is the per-element contract. One handle owns one body; no
// cross-element sharing.
type Handle struct {
	engine *Engine
	id     string

	mu         sync.Mutex
	body       motion.Body
	model      motion.ForceModel
	pointer    motion.Vec3
	hasPointer bool

	restSubs map[int]func()
	nextSub  int
	detached bool
}

func (h *Handle) ID() string { return h.id }

// State returns a snapshot of the body.
func (h *Handle) State() motion.Body {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.body
}

func (h *Handle) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.body.Active
}

// ApplyForce adds an impulse and re-enters the body into simulation,
// starting the frame loop if it is parked. Ignored under reduced motion.
func (h *Handle) ApplyForce(v motion.Vec3) {
	if h.engine.ReducedMotion() {
		return
	}
	h.mu.Lock()
	if h.detached {
		h.mu.Unlock()
		return
	}
	h.body.ApplyForce(v)
	h.mu.Unlock()
	h.wake()
}

// SetPointer updates the pointer offset relative to the element origin and
// activates the body; the first pointer enter is what lazily starts the
// loop. Ignored under reduced motion: the body never activates, so no loop
// spins up and the style record stays at rest.
func (h *Handle) SetPointer(p motion.Vec3) {
	if h.engine.ReducedMotion() {
		return
	}
	h.mu.Lock()
	if h.detached {
		h.mu.Unlock()
		return
	}
	h.pointer = p
	h.hasPointer = true
	h.body.Activate()
	h.mu.Unlock()
	h.wake()
}

// ClearPointer is the pointer-leave edge: the body stays active so it can
// relax back to the origin, then settles. Under reduced motion only the
// pointer state is dropped.
func (h *Handle) ClearPointer() {
	reduced := h.engine.ReducedMotion()
	h.mu.Lock()
	if h.detached {
		h.mu.Unlock()
		return
	}
	h.pointer = motion.Vec3{}
	h.hasPointer = false
	if !reduced {
		h.body.Activate()
	}
	h.mu.Unlock()
	if !reduced {
		h.wake()
	}
}

// Reset zeroes the body synchronously. No animation runs.
func (h *Handle) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.body.Reset()
	h.pointer = motion.Vec3{}
	h.hasPointer = false
}

// Style derives the CSS-like record from the current body state.
func (h *Handle) Style() StyleRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	b := h.body
	rec := StyleRecord{
		Transform: fmt.Sprintf("translate3d(%.2fpx, %.2fpx, %.2fpx)", b.Position.X, b.Position.Y, b.Position.Z),
		Opacity:   1,
	}
	if h.model.AffectsScale {
		rec.Transform += fmt.Sprintf(" scale(%.3f)", b.Scale)
	}
	if h.model.AffectsRotation {
		rec.Transform += fmt.Sprintf(" rotate(%.2fdeg)", b.Rotation)
	}
	if b.Active {
		rec.WillChange = "transform"
	}
	return rec
}

// OnRest registers a rest observer fired exactly once per rest transition.
// The returned function unsubscribes.
func (h *Handle) OnRest(fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextSub
	h.nextSub++
	h.restSubs[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.restSubs, id)
	}
}

// Detach discards the handle's state and removes it from the engine. Safe
// to call from cleanup paths regardless of loop state.
func (h *Handle) Detach() {
	h.mu.Lock()
	h.detached = true
	h.body.Reset()
	h.mu.Unlock()

	h.engine.mu.Lock()
	delete(h.engine.handles, h.id)
	h.engine.mu.Unlock()
}

func (h *Handle) wake() {
	h.engine.ensureLoop()
}

// step advances the body one frame. Called only from the engine tick.
func (h *Handle) step(dt float64) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.detached || !h.body.Active {
		return false, nil
	}
	return motion.Step(&h.body, h.model, h.pointer, dt)
}

// notifyRest fires the rest observers outside the body lock.
func (h *Handle) notifyRest() {
	h.mu.Lock()
	subs := make([]func(), 0, len(h.restSubs))
	for _, fn := range h.restSubs {
		subs = append(subs, fn)
	}
	h.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
