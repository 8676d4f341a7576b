package file

import (
	"errors"
	"fmt"
)

var (
	// ErrWrite wraps filesystem failures while persisting a level.
	ErrWrite = errors.New("failed to write level file")

	// ErrRead wraps filesystem failures while reading a level back.
	ErrRead = errors.New("failed to read level file")

	// ErrIntegrityMismatch means the bytes on disk are not the bytes that
	// were written. It is never wrapped together with ErrWrite or ErrRead.
	ErrIntegrityMismatch = errors.New("saved file does not match encoded level")
)

// IntegrityError describes where a read-back diverged from what was written.
type IntegrityError struct {
	Path    string
	Written int // encoded length
	Read    int // length found on disk
	At      int // first differing byte
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%v: %s: wrote %d bytes, read back %d, first difference at byte %d",
		ErrIntegrityMismatch, e.Path, e.Written, e.Read, e.At)
}

func (e *IntegrityError) Unwrap() error {
	return ErrIntegrityMismatch
}
