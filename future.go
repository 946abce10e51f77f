package future

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cpsgo/future/errc"
)

// defaultLabel is used when New is called without an explicit label,
// matching the original implementation's "unlabelled future" default.
const defaultLabel = "unlabelled future"

// Future is a write-once container for a deferred result of type T. It starts
// in [StatePending] and transitions, exactly once, to [StateDone],
// [StateFailed], or [StateCancelled] — firing every queued callback at the
// moment of that transition. See the package doc for the full contract.
//
// A *Future[T] is safe for concurrent use: it may be constructed on one
// goroutine, resolved on another, and have handlers registered from a third.
type Future[T any] struct {
	mu sync.Mutex

	// state is kept alongside the mutex-guarded fields so that IsReady/IsPending
	// and the fast path of enqueue can avoid taking the lock once the future has
	// settled — mirroring the optimistic state check in the teacher's
	// ChainedPromise.addHandler.
	state atomic.Int32

	value            T
	failureReason    string
	failureErr       error
	failureComponent string
	tasks            []func()
	label            string
	createdAt        time.Time
	resolvedAt       time.Time
}

// New creates a new pending [Future]. An optional label may be supplied for
// diagnostics; if omitted, the future is labelled "unlabelled future".
func New[T any](label ...string) *Future[T] {
	l := defaultLabel
	if len(label) > 0 && label[0] != "" {
		l = label[0]
	}
	return &Future[T]{
		label:     l,
		createdAt: time.Now(),
	}
}

// Resolved returns a future already in [StateDone] with the given value.
func Resolved[T any](v T) *Future[T] {
	f := New[T]()
	f.Done(v)
	return f
}

// Rejected returns a future already in [StateFailed] with the given reason.
func Rejected[T any](reason string) *Future[T] {
	f := New[T]()
	f.Fail(reason)
	return f
}

// Failure is implemented by every *Future[T] regardless of T. It is the
// type-erasure boundary used by [Future.FailFrom] to move failure
// information between futures of different value types, since Go generics
// cannot express "any Future[X]" directly.
type Failure interface {
	IsFailed() bool
	FailureReason() (string, error)
	FailureErr() error
	FailureComponent() string
}

var _ Failure = (*Future[struct{}])(nil)

// State returns the future's current [State]. Safe to call from any
// goroutine, including concurrently with a resolving transition.
func (f *Future[T]) State() State {
	return State(f.state.Load())
}

// IsPending reports whether the future has not yet resolved.
func (f *Future[T]) IsPending() bool { return f.State() == StatePending }

// IsReady reports whether the future has resolved, regardless of outcome.
func (f *Future[T]) IsReady() bool { return f.State() != StatePending }

// IsDone reports whether the future resolved successfully.
func (f *Future[T]) IsDone() bool { return f.State() == StateDone }

// IsFailed reports whether the future resolved with a failure.
func (f *Future[T]) IsFailed() bool { return f.State() == StateFailed }

// IsCancelled reports whether the future was cancelled.
func (f *Future[T]) IsCancelled() bool { return f.State() == StateCancelled }

// Label returns the diagnostic label set at construction.
func (f *Future[T]) Label() string { return f.label }

// Elapsed returns the time since construction. While pending it grows
// monotonically; once resolved it is frozen at the resolving transition.
func (f *Future[T]) Elapsed() time.Duration {
	return f.resolvedAtOrNow().Sub(f.createdAt)
}

func (f *Future[T]) resolvedAtOrNow() time.Time {
	f.mu.Lock()
	r := f.resolvedAt
	f.mu.Unlock()
	if r.IsZero() {
		return time.Now()
	}
	return r
}

// CurrentState returns the state as a string: "pending", "done", "failed",
// or "cancelled".
func (f *Future[T]) CurrentState() string { return f.State().String() }

// Describe returns a diagnostic summary containing the label, current state,
// and elapsed time.
func (f *Future[T]) Describe() string {
	return fmt.Sprintf("%s [%s] (%s)", f.label, f.CurrentState(), f.Elapsed())
}

// Value returns the fulfillment value if done. Otherwise it returns the zero
// value of T along with an error describing why: the captured failure error
// (if [Future.FailErr] supplied one), [errc.ErrFailed] (if failed via
// [Future.Fail] with a bare reason), [errc.ErrCancelled], or
// [errc.ErrPending].
func (f *Future[T]) Value() (T, error) {
	switch f.State() {
	case StateDone:
		f.mu.Lock()
		v := f.value
		f.mu.Unlock()
		return v, nil
	case StateFailed:
		var zero T
		f.mu.Lock()
		err := f.failureErr
		f.mu.Unlock()
		if err != nil {
			return zero, err
		}
		return zero, errc.ErrFailed
	case StateCancelled:
		var zero T
		return zero, errc.ErrCancelled
	default:
		var zero T
		return zero, errc.ErrPending
	}
}

// MustValue returns the fulfillment value, panicking with the error
// [Future.Value] would have returned if the future is not done. This is the
// "signals a logic failure" counterpart to the error-code-returning Value.
func (f *Future[T]) MustValue() T {
	v, err := f.Value()
	if err != nil {
		panic(err)
	}
	return v
}

// FailureReason returns the failure reason string if failed. Otherwise it
// returns [errc.ErrPending], [errc.ErrCancelled], or a plain error if the
// future is actually done (there is no dedicated error code for that case,
// matching the original implementation's generic runtime_error for the same
// situation).
func (f *Future[T]) FailureReason() (string, error) {
	switch f.State() {
	case StateFailed:
		f.mu.Lock()
		r := f.failureReason
		f.mu.Unlock()
		return r, nil
	case StatePending:
		return "", errc.ErrPending
	case StateCancelled:
		return "", errc.ErrCancelled
	default:
		return "", fmt.Errorf("future: not failed (state=%s)", f.State())
	}
}

// FailureErr returns the captured error object supplied to [Future.FailErr],
// or nil if the future was failed via [Future.Fail] with a bare reason (or
// has not failed at all).
func (f *Future[T]) FailureErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failureErr
}

// FailureComponent returns the subsystem name attributed to the failure, as
// set by [Future.FailFrom] or internally by [Then] when a handler itself
// fails. Empty if not set.
func (f *Future[T]) FailureComponent() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failureComponent
}

// enqueue runs fn immediately if the future is already ready, or defers it
// until the resolving transition otherwise. This implements the registration
// protocol of spec.md §4.1: append-then-return while pending, run-now once
// ready, with an optimistic lock-free check for the common already-ready case.
func (f *Future[T]) enqueue(fn func()) {
	if f.State() != StatePending {
		f.runTask(fn)
		return
	}
	f.mu.Lock()
	if f.State() != StatePending {
		f.mu.Unlock()
		f.runTask(fn)
		return
	}
	f.tasks = append(f.tasks, fn)
	f.mu.Unlock()
}

// runTask invokes fn with panic recovery, so a misbehaving callback cannot
// prevent the remaining queued callbacks from draining (spec.md §7).
func (f *Future[T]) runTask(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			trace(TraceEvent{Label: f.label, State: f.State(), Kind: "panic", Recovered: r})
		}
	}()
	fn()
}

// resolve performs the shared terminal-transition protocol of spec.md §5:
// mutate the value/error fields, drain the task queue, set state last, then
// invoke every drained task with the lock released. Returns false without
// effect if the future was already ready.
func (f *Future[T]) resolve(s State, mutate func()) bool {
	f.mu.Lock()
	if f.State() != StatePending {
		f.mu.Unlock()
		return false
	}
	mutate()
	f.resolvedAt = time.Now()
	tasks := f.tasks
	f.tasks = nil
	f.state.Store(int32(s))
	f.mu.Unlock()

	trace(TraceEvent{Label: f.label, State: s, Kind: "transition"})
	for _, task := range tasks {
		f.runTask(task)
	}
	return true
}

// Done transitions the future to [StateDone] with value v, draining and
// invoking every queued callback. A no-op if already ready.
func (f *Future[T]) Done(v T) *Future[T] {
	f.resolve(StateDone, func() { f.value = v })
	return f
}

// Fail transitions the future to [StateFailed] with a bare reason string. A
// no-op if already ready.
func (f *Future[T]) Fail(reason string) *Future[T] {
	f.resolve(StateFailed, func() { f.failureReason = reason })
	return f
}

// FailErr transitions the future to [StateFailed], capturing err both as the
// failure reason (err.Error()) and as the type-erased failure object,
// retrievable later via [Future.FailureErr] and matched against by
// [OnFailAs]. A no-op if already ready.
func (f *Future[T]) FailErr(err error) *Future[T] {
	f.resolve(StateFailed, func() {
		if err != nil {
			f.failureReason = err.Error()
		} else {
			f.failureReason = "unknown"
		}
		f.failureErr = err
	})
	return f
}

// FailFrom transitions the future to [StateFailed], copying the reason,
// captured error, and component from src. If src is not failed, FailFrom is
// a no-op — this is the canonical way to forward a failure across a chain
// without re-wrapping it (spec.md §7).
func (f *Future[T]) FailFrom(src Failure) *Future[T] {
	if src == nil || !src.IsFailed() {
		return f
	}
	reason, _ := src.FailureReason()
	err := src.FailureErr()
	component := src.FailureComponent()
	f.resolve(StateFailed, func() {
		f.failureReason = reason
		f.failureErr = err
		f.failureComponent = component
	})
	return f
}

// failWithComponent is like Fail but also attributes a component name,
// used internally by [Then] when a handler itself panics or misbehaves.
func (f *Future[T]) failWithComponent(reason, component string) *Future[T] {
	f.resolve(StateFailed, func() {
		f.failureReason = reason
		f.failureComponent = component
	})
	return f
}

// Cancel transitions the future to [StateCancelled], draining and invoking
// every queued callback. A no-op if already ready.
func (f *Future[T]) Cancel() *Future[T] {
	f.resolve(StateCancelled, func() {})
	return f
}

// OnReady registers fn to run when the future becomes ready, regardless of
// terminal state. If the future is already ready, fn runs synchronously
// before OnReady returns. Returns f for chaining.
func (f *Future[T]) OnReady(fn func(*Future[T])) *Future[T] {
	f.enqueue(func() { fn(f) })
	return f
}

// OnDone registers fn to run with the fulfillment value if the future
// resolves to [StateDone]. Never invoked for any other terminal state.
// Returns f for chaining.
func (f *Future[T]) OnDone(fn func(T)) *Future[T] {
	f.enqueue(func() {
		if f.State() == StateDone {
			v, _ := f.Value()
			fn(v)
		}
	})
	return f
}

// OnFail registers fn to run with the failure reason string if the future
// resolves to [StateFailed]. For dispatch by the type of a captured error
// object, see [OnFailAs]. Returns f for chaining.
func (f *Future[T]) OnFail(fn func(reason string)) *Future[T] {
	f.enqueue(func() {
		if f.State() == StateFailed {
			r, _ := f.FailureReason()
			fn(r)
		}
	})
	return f
}

// OnCancel registers fn to run if the future is cancelled. Returns f for
// chaining. See also [Future.OnCancelFuture] for the variant that receives
// the future itself.
func (f *Future[T]) OnCancel(fn func()) *Future[T] {
	f.enqueue(func() {
		if f.State() == StateCancelled {
			fn()
		}
	})
	return f
}

// OnCancelFuture is the future-argument-accepting variant of [Future.OnCancel].
func (f *Future[T]) OnCancelFuture(fn func(*Future[T])) *Future[T] {
	f.enqueue(func() {
		if f.State() == StateCancelled {
			fn(f)
		}
	})
	return f
}

// OnFailAs registers fn to run with the captured failure error, but only if
// that error matches type E via [errors.As] — a skipped (not re-raised)
// no-op for any other error, or for a future that failed with a bare reason
// and no captured error object. This is the typed-error-handler shape of
// spec.md §4.1 ("on_fail" typed form); it is a free function rather than a
// method because Go methods cannot introduce additional type parameters.
func OnFailAs[T any, E error](f *Future[T], fn func(E)) *Future[T] {
	f.enqueue(func() {
		if f.State() != StateFailed {
			return
		}
		err := f.FailureErr()
		if err == nil {
			return
		}
		var target E
		if errors.As(err, &target) {
			fn(target)
		}
	})
	return f
}

// Propagate attaches handlers to f so that when f resolves, g is resolved
// identically: same terminal state, same payload or failure information.
// Returns g.
func (f *Future[T]) Propagate(g *Future[T]) *Future[T] {
	f.OnDone(func(v T) { g.Done(v) })
	f.OnFail(func(string) { g.FailFrom(f) })
	f.OnCancel(func() { g.Cancel() })
	return g
}
