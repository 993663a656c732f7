// Package perf samples real frame timings and drives the auto-optimization
// level.
//
// A [Monitor] collects frame timestamps through [Monitor.RecordFrame],
// reduces each sampling window to one [Sample] (FPS, frame time, jank score)
// and moves the optimization level by at most one step per window under a
// streak-based hysteresis, so a single noisy window never changes behavior.
// The monitor's window loop is independent of any body's simulation loop and
// runs fine with zero active bodies.
package perf
