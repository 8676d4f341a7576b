package codec

import (
	"encoding/binary"
	"math"
)

// reader walks a byte slice and reports truncation as a DecodeError
// instead of slicing out of bounds.
type reader struct {
	buf    []byte
	off    int
	format string
}

func newReader(buf []byte, format string) *reader {
	return &reader{buf: buf, format: format}
}

func (r *reader) fail(err error) error {
	return &DecodeError{Format: r.format, Offset: r.off, Err: err}
}

func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || n > len(r.buf)-r.off {
		return nil, r.fail(ErrTruncated)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) u8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) u16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *reader) u32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) u64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *reader) f64() (float64, error) {
	v, err := r.u64()
	return math.Float64frombits(v), err
}

// blob reads n bytes into a fresh slice so the level does not alias the
// input buffer.
func (r *reader) blob(n uint64) ([]byte, error) {
	if n > uint64(len(r.buf)-r.off) {
		return nil, r.fail(ErrTruncated)
	}
	b, err := r.take(int(n))
	if err != nil {
		return nil, err
	}
	return append([]byte{}, b...), nil
}

func (r *reader) str8(limit int) (string, error) {
	n, err := r.u8()
	if err != nil {
		return "", err
	}
	return r.str(int(n), limit)
}

func (r *reader) str16(limit int) (string, error) {
	n, err := r.u16()
	if err != nil {
		return "", err
	}
	return r.str(int(n), limit)
}

func (r *reader) str(n, limit int) (string, error) {
	if n > limit {
		return "", r.fail(ErrCorrupt)
	}
	b, err := r.take(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// timestamp reads a u32 time and rejects anything past the int32 range.
func (r *reader) timestamp(max int) (int, error) {
	v, err := r.u32()
	if err != nil {
		return 0, err
	}
	if uint64(v) > uint64(max) {
		r.off -= 4
		return 0, r.fail(ErrTimestampRange)
	}
	return int(v), nil
}

func (r *reader) done() error {
	if r.off != len(r.buf) {
		return r.fail(ErrCorrupt)
	}
	return nil
}
