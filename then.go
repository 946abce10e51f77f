package future

import (
	"errors"
	"fmt"
)

// ErrorHandler is one typed catch clause passed to [Then]. Construct values
// of this type with [OnErrorAs] (match a specific captured error type) or
// [OnErrorReason] (match any failure, typically last, as a catch-all). It is
// an interface rather than a concrete type because its dispatch logic is
// generic over a type parameter E that the handler itself closes over, which
// [Then] never needs to know.
type ErrorHandler[U any] interface {
	tryHandle(err error, reason string) (inner *Future[U], matched bool)
}

type errorHandlerFunc[U any] func(err error, reason string) (*Future[U], bool)

func (h errorHandlerFunc[U]) tryHandle(err error, reason string) (*Future[U], bool) {
	return h(err, reason)
}

// OnErrorAs builds an [ErrorHandler] that matches only if the source future
// failed with a captured error object (via [Future.FailErr]) matching type E,
// as determined by [errors.As]. A future failed with a bare reason string (no
// captured error) never matches. This is the Go expression of the original
// implementation's catch-by-exception-type dispatch in [Then].
func OnErrorAs[U any, E error](fn func(E) *Future[U]) ErrorHandler[U] {
	return errorHandlerFunc[U](func(err error, reason string) (*Future[U], bool) {
		if err == nil {
			return nil, false
		}
		var target E
		if errors.As(err, &target) {
			return fn(target), true
		}
		return nil, false
	})
}

// OnErrorReason builds an [ErrorHandler] that matches any failure, typed or
// not, passing along the bare reason string. Typically supplied last, as a
// catch-all fallback after more specific [OnErrorAs] handlers.
func OnErrorReason[U any](fn func(reason string) *Future[U]) ErrorHandler[U] {
	return errorHandlerFunc[U](func(_ error, reason string) (*Future[U], bool) {
		return fn(reason), true
	})
}

// Then chains a future of T to a future of U: when f succeeds, onDone is
// invoked with the value and its returned future is adopted as the result
// (spec.md §4.1's monadic bind). When f fails, each handler is tried in
// order; the first match's future is adopted. If no handler matches (or none
// were given), the failure passes through unchanged via [Future.FailFrom].
// Cancellation of f cancels the result. If onDone or a matching handler
// returns a nil future, or panics, the result fails, attributed to component
// "then". If result is already ready by the time f settles — e.g. it was
// cancelled directly while f was still pending — onDone and the handlers
// never run at all.
//
// Then is a free function, not a method, because Go does not allow a method
// to introduce a type parameter (U) beyond those of its receiver.
func Then[T, U any](f *Future[T], onDone func(T) *Future[U], handlers ...ErrorHandler[U]) *Future[U] {
	result := New[U](f.Label() + ".then")

	f.OnDone(func(v T) {
		if result.IsReady() {
			return
		}
		inner, err := callOnDone(onDone, v)
		if err != nil {
			result.failWithComponent(err.Error(), "then")
			return
		}
		if inner == nil {
			result.failWithComponent("then: handler returned a nil future", "then")
			return
		}
		inner.Propagate(result)
	})

	f.OnFail(func(reason string) {
		if result.IsReady() {
			return
		}
		err := f.FailureErr()
		for _, h := range handlers {
			inner, handlerErr, matched := callHandler(h, err, reason)
			if handlerErr != nil {
				result.failWithComponent(handlerErr.Error(), "then")
				return
			}
			if !matched {
				continue
			}
			if inner == nil {
				result.failWithComponent("then: handler returned a nil future", "then")
				return
			}
			inner.Propagate(result)
			return
		}
		result.FailFrom(f)
	})

	f.OnCancel(func() { result.Cancel() })

	return result
}

func callOnDone[T, U any](onDone func(T) *Future[U], v T) (inner *Future[U], err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("then: handler panicked: %v", r)
		}
	}()
	inner = onDone(v)
	return
}

func callHandler[U any](h ErrorHandler[U], srcErr error, reason string) (inner *Future[U], err error, matched bool) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("then: error handler panicked: %v", r)
		}
	}()
	inner, matched = h.tryHandle(srcErr, reason)
	return
}

// Repeat is a continuation-unrolled loop combinator: starting from seed, it
// calls check(v); if check returns true the loop stops and the result
// resolves done with v. Otherwise body(v) is invoked to produce the next
// step's future; once that future resolves done with a new value, the loop
// continues by calling check again with it. If body's future fails or is
// cancelled, that outcome is adopted as the result immediately — there is no
// retry here, by design; see the original implementation's repeat() test
// (a fixed-size item queue drained one body() call per iteration, failing
// outright on the first bad step). If check or body panics, or body returns
// a nil future, the result fails, attributed to component "repeat".
func Repeat[T any](check func(T) bool, body func(T) *Future[T], seed T) *Future[T] {
	result := New[T]("repeat")

	var step func(v T)
	step = func(v T) {
		if result.IsReady() {
			return
		}

		stop, err := callCheck(check, v)
		if err != nil {
			result.failWithComponent(err.Error(), "repeat")
			return
		}
		if stop {
			result.Done(v)
			return
		}

		next, err := callBody(body, v)
		if err != nil {
			result.failWithComponent(err.Error(), "repeat")
			return
		}
		if next == nil {
			result.failWithComponent("repeat: body returned a nil future", "repeat")
			return
		}

		next.
			OnDone(step).
			OnFail(func(string) { result.FailFrom(next) }).
			OnCancel(func() { result.Cancel() })
	}

	step(seed)
	return result
}

func callCheck[T any](check func(T) bool, v T) (stop bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("repeat: check panicked: %v", r)
		}
	}()
	stop = check(v)
	return
}

func callBody[T any](body func(T) *Future[T], v T) (next *Future[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("repeat: body panicked: %v", r)
		}
	}()
	next = body(v)
	return
}
