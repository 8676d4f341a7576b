package musictime

import "errors"

var (
	// ErrNoBPM is returned by beat-relative computations when BPM is 0.
	ErrNoBPM = errors.New("no bpm set")

	ErrOutOfRange = errors.New("timing parameter out of range")
)
