package timestamp

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/penwyp/go-usage-timeline/internal/core/constants"
)

// ErrorKind classifies a decode failure.
type ErrorKind int

const (
	NotANumber ErrorKind = iota
	OutOfRange
)

func (k ErrorKind) String() string {
	switch k {
	case NotANumber:
		return "not a number"
	case OutOfRange:
		return "out of range"
	default:
		return "unknown"
	}
}

// ParseError is returned by Decode.
type ParseError struct {
	Kind  ErrorKind
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid timestamp %q: %s: %v", e.Input, e.Kind, e.Err)
	}
	return fmt.Sprintf("invalid timestamp %q: %s", e.Input, e.Kind)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsOutOfRange reports whether err is a ParseError of kind OutOfRange.
func IsOutOfRange(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Kind == OutOfRange
}

// Encode returns the decimal seconds since the Unix epoch.
func Encode(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}

// Decode parses decimal seconds since the Unix epoch into a UTC time.
func Decode(s string) (time.Time, error) {
	// Digits that overflow int64 are not a valid integer either.
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, &ParseError{Kind: NotANumber, Input: s, Err: err}
	}
	if secs < constants.MinUnixSeconds || secs > constants.MaxUnixSeconds {
		return time.Time{}, &ParseError{Kind: OutOfRange, Input: s}
	}
	return time.Unix(secs, 0).UTC(), nil
}
