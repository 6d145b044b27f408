// Package lite is the plain call surface of the engine: Map, TryMap, Filter
// and Reduce take the worker count and block size as arguments and need no
// handlers or logger.
//
// Common usage:
// - Map: in-place transform of a copy of the input
// - Filter: order-preserving selection
// - Reduce: round-based fold, threshold from core.WithOptions on ctx
//
// For handlers, logging and timeouts, see package custom.
package lite
