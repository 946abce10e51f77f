// Package future provides a deferred-value primitive for continuation-passing-style
// asynchronous Go code: a write-once container that moves from pending to exactly
// one of done, failed, or cancelled, firing queued callbacks at the moment of
// transition.
//
// # Architecture
//
// [Future] is the core primitive. Handlers are registered with [Future.OnDone],
// [Future.OnFail], [Future.OnCancel], and [Future.OnReady]; [Then] chains a future
// into a new one whose resolution derives from a handler-produced inner future,
// forwarding success, failure, and cancellation across the chain. [NeedsAll] and
// [NeedsAny] aggregate multiple futures (of possibly differing value types) into
// a single completion signal. [Generator] is a small lazy, finite, single-consumer
// sequence abstraction that shares the same error taxonomy.
//
// # Execution model
//
// This package is passive: it owns no goroutines, runs no scheduler, and provides
// no blocking wait primitive. [Future.Done], [Future.Fail], [Future.FailErr], and
// [Future.Cancel] run every queued callback synchronously, on whichever goroutine
// performs the transition. Long-running callbacks therefore block that goroutine;
// callers compose futures instead of awaiting them. There is no automatic timeout —
// compose with an external timer that calls [Future.Cancel] or [Future.Fail].
//
// # Thread safety
//
// A [Future] may be constructed on one goroutine, resolved on another, and have
// handlers registered from a third, all without additional synchronization.
// Registration and resolution are safe to interleave arbitrarily; see
// [Future.OnReady] for the exact ordering guarantee.
//
// # Error handling
//
// The errc subpackage (github.com/cpsgo/future/errc) defines the four-code error
// taxonomy (pending, failed, cancelled, no more items) shared by [Future] and
// [Generator], under the category name "cps::future".
package future
