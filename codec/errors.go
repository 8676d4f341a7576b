package codec

import (
	"errors"
	"fmt"

	"github.com/jsphweid/ssedit/model"
)

var (
	ErrEmpty              = errors.New("empty buffer")
	ErrTruncated          = errors.New("buffer ends early")
	ErrUnknownFormat      = errors.New("unrecognised level format")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrTimestampRange     = errors.New("timestamp out of range")
	ErrCorrupt            = errors.New("corrupt level data")

	// ErrConstraint is wrapped by every ConstraintError.
	ErrConstraint = errors.New("level violates format constraints")
)

// DecodeError reports a buffer that could not be turned into a level.
type DecodeError struct {
	Format string // format being decoded, empty when not yet known
	Offset int    // byte offset where decoding stopped
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("decode %s at byte %d: %v", e.Format, e.Offset, e.Err)
	}
	return fmt.Sprintf("decode at byte %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ConstraintError reports a level field that cannot be encoded. It is
// returned before any bytes are produced.
type ConstraintError struct {
	Format model.Format
	Field  string
	Detail string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Format, e.Field, e.Detail)
}

func (e *ConstraintError) Unwrap() error {
	return ErrConstraint
}

func violation(format model.Format, field, detail string, a ...any) *ConstraintError {
	return &ConstraintError{Format: format, Field: field, Detail: fmt.Sprintf(detail, a...)}
}
