// Package engine is the contract offered to surrounding UI code.
//
// An [Engine] owns the process-wide scheduler, the cached capability tier
// and an optional performance monitor. Consumers attach one [Handle] per
// interactive element; the handle exposes the body snapshot, force
// application, reset, rest observation and the derived style record the
// rendering layer consumes. Simulation loops start lazily on first
// interaction and park when every body has settled.
package engine
