// Package memory provides the low-level allocation primitives the engine
// uses to keep order submission off the Go allocator's hot path: a
// fixed-capacity OrderPool arena with a lock-free recycling free list, and a
// bounded SPSC ExecutionQueue for handing fills to a publisher goroutine.
package memory
