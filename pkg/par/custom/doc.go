// Package custom exposes the configurable engine: an Engine carries options,
// lifecycle handlers and an optional logger, and runs Map, TryMap, Filter and
// Reduce over them.
//
// Key constructs:
// - Engine / New / FromContext: configured parallel map, filter and reduce
// - Handlers: round, chunk, worker and scheduler-transition callbacks
// - Scheduler: the reduction state machine, steppable one transition at a time
package custom
