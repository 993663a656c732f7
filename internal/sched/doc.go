// Package sched drives the cooperative animation loop.
//
// One process-wide [Scheduler] ticks every active body once per frame
// through a single callback, rather than registering one loop per element.
// The frame primitive sits behind [FrameSource], so hosts without a usable
// timer degrade to a no-op scheduler: Start succeeds, nothing ever ticks,
// nothing crashes.
package sched
