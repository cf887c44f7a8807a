package hours

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTime      = errors.New("invalid time")
	ErrUnknownDay       = errors.New("unknown day")
	ErrMalformedSegment = errors.New("malformed segment")

	ErrMissingInstant = errors.New("missing query instant")
	ErrInvalidInstant = errors.New("invalid query instant")
)

// ParseError carries the offending token of a failed parse. Err is one of
// ErrInvalidTime, ErrUnknownDay, ErrMalformedSegment or ErrInvalidInstant.
type ParseError struct {
	Err   error
	Token string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Token)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
