package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/jsphweid/ssedit/level"
	"github.com/jsphweid/ssedit/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullLevel(format model.Format) *level.Level {
	l := level.New(format)
	l.SetNameAndAuthor("Flowers", "Some Mapper")
	if format == model.Structured {
		l.Difficulty = model.Tasukete
	}
	l.Notes.Insert(1000, model.Position{X: 0, Y: 0})
	l.Notes.Insert(1000, model.Position{X: 2, Y: 1})
	l.Notes.Insert(1000, model.Position{X: 0.25, Y: 1.75})
	l.Notes.Insert(0, model.Position{X: 1, Y: 1})
	l.Notes.Insert(2500, model.Position{X: -0.5, Y: 3.125})
	l.Notes.Insert(2500, model.Position{X: math.Copysign(0, -1), Y: 0})
	l.Cover = &model.Cover{Width: 2, Height: 1, Data: []byte{0xFF, 0, 0, 0xFF, 0, 0xFF, 0, 0xFF}}
	l.Audio = &model.Audio{SampleRate: 48000, Channels: 2, BitDepth: 16, Data: []byte("RIFF....WAVEfmt ")}
	return l
}

func TestRoundTrip(t *testing.T) {
	for _, format := range model.Formats() {
		t.Run(format.String(), func(t *testing.T) {
			l := fullLevel(format)
			buf, err := Encode(l)
			require.NoError(t, err)

			got, err := Decode(buf)
			require.NoError(t, err)

			assert.Equal(t, format, got.Format)
			assert.True(t, l.Equal(got))
			assert.Equal(t, l.Fingerprint(), got.Fingerprint())
			assert.Equal(t, l.Notes.At(1000), got.Notes.At(1000))
			assert.True(t, math.Signbit(got.Notes.At(2500)[1].X))
		})
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	for _, format := range model.Formats() {
		l := fullLevel(format)
		a, err := Encode(l)
		require.NoError(t, err)
		b, err := Encode(l)
		require.NoError(t, err)
		assert.Equal(t, a, b)

		decoded, err := Decode(a)
		require.NoError(t, err)
		c, err := Encode(decoded)
		require.NoError(t, err)
		assert.Equal(t, a, c, "re-encoding a decoded level")
	}
}

func TestEmptyLevelRoundTrip(t *testing.T) {
	for _, format := range model.Formats() {
		buf, err := Encode(level.New(format))
		require.NoError(t, err)

		got, err := Decode(buf)
		require.NoError(t, err)

		assert := assert.New(t)
		assert.Equal(0, got.Notes.Len())
		assert.Equal(model.Unspecified, got.Difficulty)
		assert.Equal("", got.Name)
		assert.Equal("", got.Author)
		assert.Nil(got.Cover)
		assert.Nil(got.Audio)
	}
}

func TestDetect(t *testing.T) {
	s, _ := Encode(level.New(model.Structured))
	r, _ := Encode(level.New(model.RawData))

	f, err := Detect(s)
	require.NoError(t, err)
	assert.Equal(t, model.Structured, f)
	f, err = Detect(r)
	require.NoError(t, err)
	assert.Equal(t, model.RawData, f)

	_, err = Detect(nil)
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = Detect([]byte("SS"))
	assert.ErrorIs(t, err, ErrTruncated)
	_, err = Detect([]byte("PNG\x00 definitely not a level"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestEveryTruncationIsADecodeError(t *testing.T) {
	for _, format := range model.Formats() {
		buf, err := Encode(fullLevel(format))
		require.NoError(t, err)
		for n := 0; n < len(buf); n++ {
			_, err := Decode(buf[:n])
			var de *DecodeError
			require.True(t, errors.As(err, &de), "%s prefix %d: %v", format, n, err)
		}
	}
}

func TestTrailingBytesRejected(t *testing.T) {
	for _, format := range model.Formats() {
		buf, _ := Encode(fullLevel(format))
		_, err := Decode(append(buf, 0))
		assert.ErrorIs(t, err, ErrCorrupt)
	}
}

func TestUnsupportedVersion(t *testing.T) {
	s, _ := Encode(level.New(model.Structured))
	s[4] = 9
	_, err := Decode(s)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	r, _ := Encode(level.New(model.RawData))
	r[4] = 9
	_, err = Decode(r)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDecodeRejectsTimestampPastInt32(t *testing.T) {
	l := level.New(model.RawData)
	l.Notes.Insert(5, model.Position{})
	buf, err := Encode(l)
	require.NoError(t, err)

	// magic, version and three empty strings come before the group count
	timeOff := 4 + 1 + 3 + 4
	binary.LittleEndian.PutUint32(buf[timeOff:], math.MaxUint32)
	_, err = Decode(buf)
	assert.ErrorIs(t, err, ErrTimestampRange)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, timeOff, de.Offset)
}

func TestDecodeRejectsBadDifficulty(t *testing.T) {
	buf, _ := Encode(level.New(model.Structured))
	// magic, version, reserved, three empty strings, last time, count
	buf[4+2+4+6+4+4] = 42
	_, err := Decode(buf)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestGridPositionsAreCompact(t *testing.T) {
	grid := level.New(model.Structured)
	grid.Notes.Insert(0, model.Position{X: 2, Y: 0})
	fine := level.New(model.Structured)
	fine.Notes.Insert(0, model.Position{X: 2.5, Y: 0})

	a, _ := Encode(grid)
	b, _ := Encode(fine)
	assert.Equal(t, len(a)+14, len(b))
}

func TestConstraintViolations(t *testing.T) {
	tests := []struct {
		name   string
		format model.Format
		mutate func(l *level.Level)
		field  string
	}{
		{"structured name too long", model.Structured, func(l *level.Level) { l.Name = strings.Repeat("a", 129) }, "name"},
		{"structured author too long", model.Structured, func(l *level.Level) { l.Author = strings.Repeat("a", 65) }, "author"},
		{"raw name too long", model.RawData, func(l *level.Level) { l.Name = strings.Repeat("a", 65) }, "name"},
		{"raw id too long", model.RawData, func(l *level.Level) { l.ID = strings.Repeat("a", 129) }, "id"},
		{"invalid utf8", model.Structured, func(l *level.Level) { l.Name = "\xff" }, "name"},
		{"negative time", model.Structured, func(l *level.Level) { l.Notes.Insert(-1, model.Position{}) }, "notes"},
		{"time past int32", model.RawData, func(l *level.Level) { l.Notes.Insert(1<<31, model.Position{}) }, "notes"},
		{"nan position", model.Structured, func(l *level.Level) { l.Notes.Insert(1, model.Position{X: math.NaN()}) }, "notes"},
		{"raw difficulty", model.RawData, func(l *level.Level) { l.Difficulty = model.Easy }, "difficulty"},
		{"unknown difficulty", model.Structured, func(l *level.Level) { l.Difficulty = 17 }, "difficulty"},
		{"cover too wide", model.Structured, func(l *level.Level) { l.Cover = &model.Cover{Width: 70000} }, "cover"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := level.New(tt.format)
			tt.mutate(l)

			buf, err := Encode(l)
			assert.Nil(t, buf)
			assert.ErrorIs(t, err, ErrConstraint)
			var ce *ConstraintError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestFieldsAtLimitEncode(t *testing.T) {
	l := level.New(model.Structured)
	l.ID = strings.Repeat("i", 128)
	l.Name = strings.Repeat("n", 128)
	l.Author = strings.Repeat("a", 64)
	buf, err := Encode(l)
	require.NoError(t, err)
	got, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, l.Name, got.Name)
}

func TestDecodeDoesNotAliasInput(t *testing.T) {
	l := fullLevel(model.Structured)
	buf, _ := Encode(l)
	got, err := Decode(buf)
	require.NoError(t, err)

	for i := range buf {
		buf[i] = 0
	}
	assert.True(t, bytes.Equal(l.Cover.Data, got.Cover.Data))
}

func TestRawRejectsDuplicateGroups(t *testing.T) {
	l := level.New(model.RawData)
	l.Notes.Insert(7, model.Position{X: 1})
	l.Notes.Insert(8, model.Position{X: 1})
	buf, _ := Encode(l)

	// second group time sits after the first group (4 + 2 + 16 bytes)
	first := 4 + 1 + 3 + 4
	binary.LittleEndian.PutUint32(buf[first+22:], 7)
	_, err := Decode(buf)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestStructuredRejectsOutOfOrderRecords(t *testing.T) {
	l := level.New(model.Structured)
	l.Notes.Insert(5, model.Position{X: 1, Y: 1})
	l.Notes.Insert(9, model.Position{X: 1, Y: 1})
	buf, err := Encode(l)
	require.NoError(t, err)

	// header with empty strings and no media is 27 bytes, grid records are 7
	first := 4 + 2 + 4 + 6 + 4 + 4 + 1 + 1 + 1
	binary.LittleEndian.PutUint32(buf[first:], 9)
	binary.LittleEndian.PutUint32(buf[first+7:], 5)
	_, err = Decode(buf)
	assert.ErrorIs(t, err, ErrCorrupt)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, first+7, de.Offset)
}
