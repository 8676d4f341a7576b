package editor

import "errors"

var (
	// ErrNoPath is returned by Save before the session has a file.
	ErrNoPath = errors.New("level has no file yet, use save as")

	// ErrFormatMismatch is returned when a path's extension names the
	// other format.
	ErrFormatMismatch = errors.New("file extension does not match level format")

	// ErrTimeRange is returned by edits that would leave a note outside
	// [0, 2^31-1] ms.
	ErrTimeRange = errors.New("note time out of range")

	// ErrDifficulty is returned when setting a difficulty the format
	// cannot store.
	ErrDifficulty = errors.New("difficulty not supported")
)
