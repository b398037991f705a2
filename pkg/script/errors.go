package script

import "errors"

// ErrTypeMismatch is returned when a comparison is applied to a pair of
// values with no defined ordering (e.g. a string against an int).
var ErrTypeMismatch = errors.New("cannot compare values of mismatched types")

// ErrUnknownConverter is returned at registration time when a function
// declares a parameter type with no registered converter. It indicates a
// programming error in handler setup, not bad authored content.
var ErrUnknownConverter = errors.New("no converter registered for parameter type")

// ErrEmptyCall is returned when a statement contains no tokens.
var ErrEmptyCall = errors.New("empty function call")
