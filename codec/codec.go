// Package codec persists levels in two self-describing binary formats.
//
// Structured (".sspm") starts with "SS+m"; raw data (".ssrd") starts with
// "SSRD". All integers are little endian. Encoding is deterministic: notes
// are written in ascending time and, within a time, in insertion order.
// Cover and audio bytes are stored verbatim.
package codec

import (
	"bytes"
	"unicode/utf8"

	"github.com/jsphweid/ssedit/constants"
	"github.com/jsphweid/ssedit/level"
	"github.com/jsphweid/ssedit/model"
)

type Codec interface {
	Format() model.Format
	Probe(buf []byte) bool
	Encode(l *level.Level) ([]byte, error)
	Decode(buf []byte) (*level.Level, error)
}

var codecs = []Codec{Structured{}, RawData{}}

func For(format model.Format) Codec {
	for _, c := range codecs {
		if c.Format() == format {
			return c
		}
	}
	return Structured{}
}

// Detect identifies the format of buf from its magic.
func Detect(buf []byte) (model.Format, error) {
	if len(buf) == 0 {
		return 0, &DecodeError{Err: ErrEmpty}
	}
	for _, c := range codecs {
		if c.Probe(buf) {
			return c.Format(), nil
		}
	}
	if len(buf) < len(structuredMagic) && (bytes.HasPrefix(structuredMagic, buf) || bytes.HasPrefix(rawMagic, buf)) {
		return 0, &DecodeError{Offset: len(buf), Err: ErrTruncated}
	}
	return 0, &DecodeError{Err: ErrUnknownFormat}
}

// Encode serialises l in its own format.
func Encode(l *level.Level) ([]byte, error) {
	return For(l.Format).Encode(l)
}

// Decode reads a level of either format.
func Decode(buf []byte) (*level.Level, error) {
	format, err := Detect(buf)
	if err != nil {
		return nil, err
	}
	return For(format).Decode(buf)
}

// Validate checks every constraint Encode enforces for l's format.
func Validate(l *level.Level) error {
	format := l.Format
	limits := level.LimitsFor(format)
	fields := []struct {
		name  string
		value string
		limit int
	}{
		{"id", l.ID, limits.ID},
		{"name", l.Name, limits.Name},
		{"author", l.Author, limits.Author},
	}
	for _, f := range fields {
		if len(f.value) > f.limit {
			return violation(format, f.name, "%d bytes exceeds limit of %d", len(f.value), f.limit)
		}
		if !utf8.ValidString(f.value) {
			return violation(format, f.name, "not valid UTF-8")
		}
	}

	if !l.Difficulty.Valid() {
		return violation(format, "difficulty", "unknown value %d", l.Difficulty)
	}
	if format == model.RawData && l.Difficulty != model.Unspecified {
		return violation(format, "difficulty", "raw data levels cannot carry a difficulty")
	}

	for time := range l.Notes.Times() {
		if time < 0 || time > constants.MaxTimestamp {
			return violation(format, "notes", "timestamp %d outside [0, %d]", time, constants.MaxTimestamp)
		}
		placements := l.Notes.At(time)
		if format == model.RawData && len(placements) > maxRawGroup {
			return violation(format, "notes", "%d placements at %d exceeds %d", len(placements), time, maxRawGroup)
		}
		for _, p := range placements {
			if !p.IsFinite() {
				return violation(format, "notes", "non-finite position at %d", time)
			}
		}
	}
	if format == model.Structured && uint64(l.Notes.Count()) > maxStructuredNotes {
		return violation(format, "notes", "%d placements exceeds %d", l.Notes.Count(), maxStructuredNotes)
	}

	if c := l.Cover; c != nil {
		if c.Width < 0 || c.Width > maxCoverSide || c.Height < 0 || c.Height > maxCoverSide {
			return violation(format, "cover", "size %dx%d outside [0, %d]", c.Width, c.Height, maxCoverSide)
		}
		if format == model.RawData && uint64(len(c.Data)) > maxRawBlob {
			return violation(format, "cover", "%d bytes exceeds %d", len(c.Data), uint64(maxRawBlob))
		}
	}
	if a := l.Audio; a != nil && format == model.RawData && uint64(len(a.Data)) > maxRawBlob {
		return violation(format, "audio", "%d bytes exceeds %d", len(a.Data), uint64(maxRawBlob))
	}
	return nil
}

const (
	maxCoverSide       = 1<<16 - 1
	maxRawGroup        = 1<<16 - 1
	maxRawBlob         = 1<<32 - 1
	maxStructuredNotes = 1<<32 - 1
)
