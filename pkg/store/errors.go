package store

import "errors"

// ErrWrongType is returned when an operation is applied to a key holding a value of a different kind.
var ErrWrongType = errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")

// ErrNotInteger is returned when a value that must parse as a base-10 signed integer does not.
var ErrNotInteger = errors.New("ERR value is not an integer or out of range")
