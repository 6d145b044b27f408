// Package mass runs dispatch rounds: a fixed number of locomotives share one
// claim cursor over a round's chunks, and the round returns once all of them
// have stopped.
//
// It also provides the stations used by the engine (Mapping, Trying, Marking,
// Scattering, Folding) and the serial helpers around them (Offsets, Compact,
// Fold).
package mass
