package future

import "sync"

// Awaiter is the type-erased view of a *Future[T] used by [NeedsAll] and
// [NeedsAny] to aggregate futures of different value types — something Go
// generics cannot express directly, since a method cannot introduce a new
// type parameter and a slice argument must share one concrete type. Any
// *Future[T], for any T, satisfies Awaiter.
type Awaiter interface {
	IsDone() bool
	IsFailed() bool
	IsCancelled() bool
	FailureReason() (string, error)

	// awaitReady is unexported, which is what restricts implementations of
	// Awaiter to this package — only *Future[T] may satisfy it.
	awaitReady(fn func())
}

func (f *Future[T]) awaitReady(fn func()) {
	f.OnReady(func(*Future[T]) { fn() })
}

var _ Awaiter = (*Future[struct{}])(nil)

// NeedsAll returns a future that resolves with done(0) once every future in
// fs has resolved to done, or fails as soon as any one of them fails or is
// cancelled — it does not wait for the rest to settle. Given no futures, it
// resolves immediately with 0. Pending siblings are not themselves cancelled
// when NeedsAll fails fast; see spec.md §9 for the rationale (they are
// independent futures that may still be wanted by other observers).
func NeedsAll(fs ...Awaiter) *Future[int] {
	result := New[int]("needs_all")
	if len(fs) == 0 {
		result.Done(0)
		return result
	}

	var mu sync.Mutex
	remaining := len(fs)
	settled := false

	for _, f := range fs {
		f := f
		f.awaitReady(func() {
			mu.Lock()
			if settled {
				mu.Unlock()
				return
			}
			switch {
			case f.IsDone():
				remaining--
				done := remaining == 0
				if done {
					settled = true
				}
				mu.Unlock()
				if done {
					result.Done(0)
				}
			case f.IsCancelled():
				settled = true
				mu.Unlock()
				result.Fail("cancelled")
			default:
				settled = true
				reason, _ := f.FailureReason()
				mu.Unlock()
				result.Fail(reason)
			}
		})
	}
	return result
}

// NeedsAny returns a future that resolves with done(0) as soon as any future
// in fs succeeds. It fails only once every future in fs has failed or been
// cancelled — unlike [NeedsAll], a single failure does not settle it. Given
// no futures, it fails immediately with reason "no elements".
func NeedsAny(fs ...Awaiter) *Future[int] {
	result := New[int]("needs_any")
	if len(fs) == 0 {
		result.Fail("no elements")
		return result
	}

	var mu sync.Mutex
	remaining := len(fs)
	settled := false

	for _, f := range fs {
		f := f
		f.awaitReady(func() {
			mu.Lock()
			if settled {
				mu.Unlock()
				return
			}
			if f.IsDone() {
				settled = true
				mu.Unlock()
				result.Done(0)
				return
			}
			remaining--
			allFailed := remaining == 0
			if allFailed {
				settled = true
			}
			mu.Unlock()
			if allFailed {
				result.Fail("all inputs failed")
			}
		})
	}
	return result
}
