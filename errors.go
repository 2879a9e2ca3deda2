package connpool

import "github.com/pkg/errors"

var (
	// ErrExhausted is returned when a request does not fit in the gap
	// between the front and back cursors.
	ErrExhausted = errors.New("connpool: pool exhausted")

	// ErrOverflow is returned when a size or offset would exceed the
	// representable range once rounded to Align.
	ErrOverflow = errors.New("connpool: size overflow")

	// ErrBacking is returned by New when no backing buffer could be
	// acquired.
	ErrBacking = errors.New("connpool: backing allocation failed")
)

// causeError reports as its sentinel and unwraps to the error that made the
// operation fail.
type causeError struct {
	sentinel error
	cause    error
}

func withCause(sentinel, cause error) error {
	return &causeError{sentinel: sentinel, cause: cause}
}

func (e *causeError) Error() string { return e.sentinel.Error() + ": " + e.cause.Error() }

func (e *causeError) Is(target error) bool { return target == e.sentinel }

func (e *causeError) Unwrap() error { return e.cause }

func (e *causeError) Cause() error { return e.cause }
