package errc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeString(t *testing.T) {
	cases := []struct {
		code Code
		want string
	}{
		{Pending, "future is still pending"},
		{Failed, "future is failed"},
		{Cancelled, "future is cancelled"},
		{NoMoreItems, "no more items"},
		{Code(99), "unknown cps::future error"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.code.String())
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "cps::future: future is still pending", ErrPending.Error())
}

func TestErrorIs(t *testing.T) {
	assert.True(t, errors.Is(ErrPending, ErrPending))
	assert.True(t, errors.Is(New(Pending), ErrPending))
	assert.False(t, errors.Is(ErrPending, ErrFailed))
	assert.False(t, errors.Is(ErrPending, errors.New("boom")))
}

func TestErrorIsThroughWrap(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", ErrNoMoreItems)
	assert.True(t, errors.Is(wrapped, ErrNoMoreItems))
	assert.False(t, errors.Is(wrapped, ErrCancelled))
}
