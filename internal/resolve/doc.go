// Package resolve maps a requested animation onto what the current device
// can afford.
//
// [Resolve] is pure: it consults the capability tier, the monitor's
// optimization level and the caller's reduced-motion preference, and only
// ever lowers complexity. A request is never upgraded past what it asked
// for.
package resolve
