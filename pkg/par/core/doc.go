// Package core contains the engine plumbing: the chunk planner, the shared
// buffer and claim cursor, the locomotive worker loop, and call options carried
// on a context. It holds no scheduling policy; packages mass and custom drive
// rounds with it.
package core
