package future

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpsgo/future/errc"
)

func TestForeachYieldsInOrder(t *testing.T) {
	g := Foreach([]string{"a", "b", "c"})

	v, err := g.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	v, err = g.Next()
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	v, err = g.Next()
	require.NoError(t, err)
	assert.Equal(t, "c", v)

	_, err = g.Next()
	assert.ErrorIs(t, err, errc.ErrNoMoreItems)
}

func TestForeachEmpty(t *testing.T) {
	g := Foreach[int](nil)
	_, err := g.Next()
	assert.ErrorIs(t, err, errc.ErrNoMoreItems)
}

func TestGeneratorNextFuture(t *testing.T) {
	g := Foreach([]int{10})

	f := g.NextFuture()
	v, err := f.Value()
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	exhausted := g.NextFuture()
	assert.True(t, exhausted.IsFailed())
	reason, _ := exhausted.FailureReason()
	assert.Equal(t, errc.ErrNoMoreItems.Error(), reason)
}

func TestNewGeneratorCustomSource(t *testing.T) {
	n := 0
	g := NewGenerator(func() (int, error) {
		if n >= 2 {
			return 0, errc.ErrNoMoreItems
		}
		n++
		return n * n, nil
	})

	v, err := g.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = g.Next()
	require.NoError(t, err)
	assert.Equal(t, 4, v)

	_, err = g.Next()
	assert.ErrorIs(t, err, errc.ErrNoMoreItems)
}
