// Package capability classifies the host device into a discrete quality
// tier used to scale animation cost.
//
// Classification is a total function over a [Signals] snapshot: missing
// signals are zero values and land on the most conservative tiers. [Detect]
// probes the process environment once and caches the result for the session.
package capability
