// Package solo is the single-goroutine reference for the engine: plain
// left-to-right Map, Filter and Reduce over a slice, each returning a
// par.Result with its elapsed time. It is used to cross-check parallel results
// and as the timing baseline.
//
// Finally collapses any par.Result into a concrete value via success, error
// and cancel handlers.
package solo
