package future

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThenChainsOnSuccess(t *testing.T) {
	f := New[int]()
	g := Then(f, func(v int) *Future[string] {
		return Resolved(strconv.Itoa(v))
	})
	f.Done(5)
	v, err := g.Value()
	require.NoError(t, err)
	assert.Equal(t, "5", v)
}

func TestThenPassesFailureThroughByDefault(t *testing.T) {
	f := New[int]()
	g := Then(f, func(int) *Future[string] {
		t.Fatal("onDone must not run on a failed source")
		return nil
	})
	f.Fail("upstream broke")
	assert.True(t, g.IsFailed())
	reason, _ := g.FailureReason()
	assert.Equal(t, "upstream broke", reason)
}

func TestThenCancelPropagates(t *testing.T) {
	f := New[int]()
	g := Then(f, func(v int) *Future[int] { return Resolved(v) })
	f.Cancel()
	assert.True(t, g.IsCancelled())
}

func TestThenSkipsHandlersIfResultAlreadyCancelled(t *testing.T) {
	f := New[int]()
	var onDoneRan, onFailRan bool
	g := Then(f,
		func(v int) *Future[int] {
			onDoneRan = true
			return Resolved(v)
		},
		OnErrorReason[int](func(string) *Future[int] {
			onFailRan = true
			return Resolved(0)
		}),
	)

	g.Cancel()
	assert.True(t, g.IsCancelled())

	f.Done(1)
	assert.False(t, onDoneRan, "onDone must not run once result is already ready")
	assert.True(t, g.IsCancelled(), "result must stay cancelled, not be overwritten")

	f2 := New[int]()
	g2 := Then(f2, func(v int) *Future[int] { return Resolved(v) },
		OnErrorReason[int](func(string) *Future[int] {
			onFailRan = true
			return Resolved(0)
		}),
	)
	g2.Cancel()
	f2.Fail("too late")
	assert.False(t, onFailRan, "error handlers must not run once result is already ready")
	assert.True(t, g2.IsCancelled())
}

func TestThenNilInnerFutureFails(t *testing.T) {
	f := New[int]()
	g := Then(f, func(int) *Future[string] { return nil })
	f.Done(1)
	assert.True(t, g.IsFailed())
	reason, _ := g.FailureReason()
	assert.Contains(t, reason, "nil future")
	assert.Equal(t, "then", g.FailureComponent())
}

func TestThenPanicInHandlerFails(t *testing.T) {
	f := New[int]()
	g := Then(f, func(int) *Future[string] { panic("kaboom") })
	f.Done(1)
	assert.True(t, g.IsFailed())
	assert.Equal(t, "then", g.FailureComponent())
}

type notFoundErr struct{}

func (notFoundErr) Error() string { return "not found" }

type timeoutErr struct{}

func (timeoutErr) Error() string { return "timeout" }

func TestThenTypedHandlerDispatch(t *testing.T) {
	f := New[int]()
	g := Then(f,
		func(v int) *Future[string] { return Resolved("ok") },
		OnErrorAs[string, notFoundErr](func(notFoundErr) *Future[string] {
			return Resolved("handled-not-found")
		}),
		OnErrorAs[string, timeoutErr](func(timeoutErr) *Future[string] {
			return Resolved("handled-timeout")
		}),
	)
	f.FailErr(timeoutErr{})
	v, err := g.Value()
	require.NoError(t, err)
	assert.Equal(t, "handled-timeout", v)
}

func TestThenTypedHandlerFallsThroughOnNoMatch(t *testing.T) {
	f := New[int]()
	g := Then(f,
		func(v int) *Future[string] { return Resolved("ok") },
		OnErrorAs[string, notFoundErr](func(notFoundErr) *Future[string] {
			return Resolved("handled-not-found")
		}),
	)
	f.FailErr(errors.New("some other failure"))
	assert.True(t, g.IsFailed())
}

func TestThenErrorReasonCatchAll(t *testing.T) {
	f := New[int]()
	g := Then(f,
		func(v int) *Future[string] { return Resolved("ok") },
		OnErrorReason[string](func(reason string) *Future[string] {
			return Resolved("recovered: " + reason)
		}),
	)
	f.Fail("disk full")
	v, err := g.Value()
	require.NoError(t, err)
	assert.Equal(t, "recovered: disk full", v)
}

func TestRepeatDrainsUntilCheckStops(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	bodyCalls := 0

	check := func(remaining int) bool { return remaining == 0 }
	body := func(remaining int) *Future[int] {
		bodyCalls++
		require.NotEqual(t, 0, remaining)
		return Resolved(remaining - 1)
	}

	result := Repeat(check, body, len(items))

	v, err := result.Value()
	require.NoError(t, err)
	assert.Equal(t, 0, v)
	assert.Equal(t, len(items), bodyCalls)
}

func TestRepeatStopsImmediatelyIfCheckTrueOnSeed(t *testing.T) {
	bodyCalled := false
	result := Repeat(
		func(int) bool { return true },
		func(int) *Future[int] { bodyCalled = true; return Resolved(0) },
		7,
	)

	v, err := result.Value()
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.False(t, bodyCalled)
}

func TestRepeatFailsImmediatelyWhenBodyFails(t *testing.T) {
	bodyCalls := 0
	result := Repeat(
		func(int) bool { return false },
		func(v int) *Future[int] {
			bodyCalls++
			return Rejected[int]("too many iterations")
		},
		0,
	)

	assert.True(t, result.IsFailed())
	reason, _ := result.FailureReason()
	assert.Equal(t, "too many iterations", reason)
	assert.Equal(t, 1, bodyCalls, "repeat must not retry a failed body")
}

func TestRepeatBodyCancelPropagates(t *testing.T) {
	result := Repeat(
		func(int) bool { return false },
		func(int) *Future[int] { return New[int]().Cancel() },
		0,
	)
	assert.True(t, result.IsCancelled())
}

func TestRepeatCheckPanicFails(t *testing.T) {
	result := Repeat(
		func(int) bool { panic("bad check") },
		func(v int) *Future[int] { return Resolved(v) },
		0,
	)
	assert.True(t, result.IsFailed())
	assert.Equal(t, "repeat", result.FailureComponent())
}

func TestRepeatBodyPanicFails(t *testing.T) {
	result := Repeat(
		func(int) bool { return false },
		func(int) *Future[int] { panic("bad body") },
		0,
	)
	assert.True(t, result.IsFailed())
	assert.Equal(t, "repeat", result.FailureComponent())
}

func TestRepeatNilBodyFutureFails(t *testing.T) {
	result := Repeat(
		func(int) bool { return false },
		func(int) *Future[int] { return nil },
		0,
	)
	assert.True(t, result.IsFailed())
	reason, _ := result.FailureReason()
	assert.Contains(t, reason, "nil future")
}
