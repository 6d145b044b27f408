// Package chain provides a fluent wrapper for running several engine calls in
// a row over one array.
//
// Each step short-circuits once a previous step failed or was cancelled, and
// elapsed times add up along the chain.
//
// Key operations:
// - Start/FromValues: begin a chain from a result or an array
// - Map/TryMap/Filter: parallel steps on the current array
// - Ensure: run side effects on success without changing the result
// - Reduce: end the chain with a parallel reduction
// - Finally: collapse the chain into a final value via handlers
package chain
