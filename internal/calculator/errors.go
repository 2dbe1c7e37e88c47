package calculator

import "errors"

var (
	// ErrInvalidTarget is returned when the requested target weight is not a positive number.
	ErrInvalidTarget = errors.New("target weight must be a positive number")
	// ErrTargetBelowStart is returned when the target is lighter than the bar or pin it is loaded on.
	ErrTargetBelowStart = errors.New("target weight must be at least the starting weight")
)
