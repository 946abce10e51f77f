package future

import "github.com/cpsgo/future/errc"

// Generator produces a finite, lazily-computed sequence of values for a
// single consumer. It is the Go shape of the original implementation's
// generator<T>: a pull-based iterator whose exhaustion is signalled by an
// error rather than a second return value, so it composes with the rest of
// this package's error handling (errors.Is against [errc.ErrNoMoreItems]).
//
// A Generator is not safe for concurrent calls to Next — it has exactly one
// consumer, matching the original's single-pass semantics.
type Generator[T any] struct {
	next func() (T, error)
}

// NewGenerator wraps an arbitrary pull function as a [Generator]. next
// should return [errc.ErrNoMoreItems] (or an error satisfying
// errors.Is(err, errc.ErrNoMoreItems)) once exhausted.
func NewGenerator[T any](next func() (T, error)) *Generator[T] {
	return &Generator[T]{next: next}
}

// Next returns the next value, or [errc.ErrNoMoreItems] once the sequence is
// exhausted, or any other error the underlying source produced.
func (g *Generator[T]) Next() (T, error) {
	return g.next()
}

// NextFuture adapts Next into a *Future[T]: done with the next value, or
// failed with the error Next returned (including exhaustion), for use
// alongside [Then] and the aggregate combinators.
func (g *Generator[T]) NextFuture() *Future[T] {
	v, err := g.Next()
	if err != nil {
		return New[T]().FailErr(err)
	}
	return Resolved(v)
}

// Foreach builds a [Generator] that yields each element of items in order,
// then signals [errc.ErrNoMoreItems].
func Foreach[T any](items []T) *Generator[T] {
	i := 0
	return NewGenerator(func() (T, error) {
		if i >= len(items) {
			var zero T
			return zero, errc.ErrNoMoreItems
		}
		v := items[i]
		i++
		return v, nil
	})
}
