package future

import "sync"

// TraceEvent describes a single observable moment in a future's lifecycle,
// reported to the package-level [Tracer] if one has been installed via
// [SetTracer]. This is the "optional trace callback" alternative to the
// original implementation's compile-time tracing macro (see the Design Notes
// in spec.md §9) — deliberately minimal, since tracing/logging is explicitly
// out of scope beyond where it touches the core (spec.md §1).
type TraceEvent struct {
	// Label is the future's label, as set at construction.
	Label string

	// State is the state the future transitioned into, or the state observed
	// at the time of a recovered panic.
	State State

	// Kind describes what happened: "transition" or "panic".
	Kind string

	// Recovered holds the recovered panic value, set only when Kind == "panic".
	Recovered any
}

// Tracer receives [TraceEvent] notifications. Implementations must be safe
// for concurrent use, since callbacks (and therefore trace events) can fire
// from any goroutine.
type Tracer interface {
	Trace(event TraceEvent)
}

// noopTracer discards every event.
type noopTracer struct{}

func (noopTracer) Trace(TraceEvent) {}

var tracer struct {
	sync.RWMutex
	t Tracer
}

// SetTracer installs the package-level [Tracer]. Passing nil restores the
// no-op default. There is no per-future tracer — tracing is a cross-cutting
// diagnostic concern, not part of any single future's contract.
func SetTracer(t Tracer) {
	tracer.Lock()
	defer tracer.Unlock()
	tracer.t = t
}

func getTracer() Tracer {
	tracer.RLock()
	defer tracer.RUnlock()
	if tracer.t != nil {
		return tracer.t
	}
	return noopTracer{}
}

func trace(event TraceEvent) {
	getTracer().Trace(event)
}
