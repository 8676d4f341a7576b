package spline

import "errors"

var (
	// ErrInsufficientNodes means fewer than two distinct control times.
	ErrInsufficientNodes = errors.New("spline needs at least 2 nodes with distinct times")

	ErrInsufficientSamples = errors.New("spline sample count must be at least 2")
	ErrUnorderedKnots      = errors.New("spline knots must be strictly increasing")
	ErrMismatchedKnots     = errors.New("spline knot coordinates differ in length")
)
