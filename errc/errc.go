// Package errc defines the error taxonomy shared by [github.com/cpsgo/future]
// and its [github.com/cpsgo/future.Generator]: a small, closed set of
// categorical codes under a single named category, grounded on
// cps::future_errc / cps::future_category from the original implementation.
package errc

import "fmt"

// Code is a categorical error code from the "cps::future" category.
type Code int

const (
	// Pending indicates a terminal read was attempted on a still-pending future.
	Pending Code = iota + 1

	// Failed indicates the future is in the failed state.
	Failed

	// Cancelled indicates the future is cancelled.
	Cancelled

	// NoMoreItems indicates a generator has been exhausted.
	NoMoreItems
)

// Category is the identifying name of this error category, matching the
// original implementation's cps::future_category::name().
const Category = "cps::future"

// String returns the human-readable message for the code, matching
// cps::future_category::message() verbatim.
func (c Code) String() string {
	switch c {
	case Pending:
		return "future is still pending"
	case Failed:
		return "future is failed"
	case Cancelled:
		return "future is cancelled"
	case NoMoreItems:
		return "no more items"
	default:
		return "unknown cps::future error"
	}
}

// Error is the concrete error type carrying a [Code]. Two Error values with
// the same Code compare equal under [errors.Is].
type Error struct {
	Code Code
}

// New returns an *Error for the given code. Sentinel values for the four
// codes are exported as [ErrPending], [ErrFailed], [ErrCancelled], and
// [ErrNoMoreItems]; use those in preference to constructing new ones, so
// that equality checks via errors.Is work without needing Error.Is.
func New(code Code) *Error {
	return &Error{Code: code}
}

// Error implements the error interface, formatting as "<category>: <message>".
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", Category, e.Code)
}

// Is reports whether target is an *Error with the same [Code], so that
// errors.Is(err, errc.ErrPending) behaves like the C++ original's
// std::error_code / std::error_condition equivalence check.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.Code == e.Code
}

// Sentinel errors for each [Code], suitable for use with errors.Is.
var (
	ErrPending     = New(Pending)
	ErrFailed      = New(Failed)
	ErrCancelled   = New(Cancelled)
	ErrNoMoreItems = New(NoMoreItems)
)
