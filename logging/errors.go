package logging

import "errors"

var (
	// ErrInvalidLevel indicates an unrecognized log level.
	ErrInvalidLevel = errors.New("logging: invalid log level")

	// ErrInvalidFormat indicates an unrecognized output format.
	ErrInvalidFormat = errors.New("logging: invalid log format")
)
