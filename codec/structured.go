package codec

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/jsphweid/ssedit/constants"
	"github.com/jsphweid/ssedit/level"
	"github.com/jsphweid/ssedit/model"
)

// Structured layout, version 1:
//
//	magic    "SS+m"
//	u16      version
//	u32      reserved, 0
//	str16    id, name, author (u16 byte length + UTF-8)
//	u32      time of the last note, 0 without notes
//	u32      placement count
//	u8       difficulty + 1 (0 is Unspecified)
//	u8       cover flag; when 1: u16 width, u16 height, u64 length, bytes
//	u8       audio flag; when 1: u32 sample rate, u8 channels, u8 bit depth, u64 length, bytes
//	notes    per placement: u32 time, u8 kind, then
//	         kind 0: u8 x, u8 y (whole grid coordinates)
//	         kind 1: f64 x, f64 y
type Structured struct{}

var structuredMagic = []byte("SS+m")

const structuredVersion = 1

const (
	kindGrid  = 0
	kindFloat = 1
)

func (Structured) Format() model.Format {
	return model.Structured
}

func (Structured) Probe(buf []byte) bool {
	return bytes.HasPrefix(buf, structuredMagic)
}

func (Structured) Encode(l *level.Level) ([]byte, error) {
	if err := Validate(l); err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	buf.Write(structuredMagic)
	binary.Write(buf, binary.LittleEndian, uint16(structuredVersion))
	binary.Write(buf, binary.LittleEndian, uint32(0))
	for _, s := range []string{l.ID, l.Name, l.Author} {
		binary.Write(buf, binary.LittleEndian, uint16(len(s)))
		buf.WriteString(s)
	}

	binary.Write(buf, binary.LittleEndian, uint32(l.Length()))
	binary.Write(buf, binary.LittleEndian, uint32(l.Notes.Count()))
	buf.WriteByte(uint8(l.Difficulty + 1))

	if c := l.Cover; c != nil {
		buf.WriteByte(1)
		binary.Write(buf, binary.LittleEndian, uint16(c.Width))
		binary.Write(buf, binary.LittleEndian, uint16(c.Height))
		binary.Write(buf, binary.LittleEndian, uint64(len(c.Data)))
		buf.Write(c.Data)
	} else {
		buf.WriteByte(0)
	}
	if a := l.Audio; a != nil {
		buf.WriteByte(1)
		binary.Write(buf, binary.LittleEndian, a.SampleRate)
		buf.WriteByte(a.Channels)
		buf.WriteByte(a.BitDepth)
		binary.Write(buf, binary.LittleEndian, uint64(len(a.Data)))
		buf.Write(a.Data)
	} else {
		buf.WriteByte(0)
	}

	for time := range l.Notes.Times() {
		for _, p := range l.Notes.At(time) {
			binary.Write(buf, binary.LittleEndian, uint32(time))
			if x, y, ok := gridCoords(p); ok {
				buf.WriteByte(kindGrid)
				buf.WriteByte(x)
				buf.WriteByte(y)
				continue
			}
			buf.WriteByte(kindFloat)
			binary.Write(buf, binary.LittleEndian, math.Float64bits(p.X))
			binary.Write(buf, binary.LittleEndian, math.Float64bits(p.Y))
		}
	}
	return buf.Bytes(), nil
}

// gridCoords reports whether p can be stored as two bytes without loss.
func gridCoords(p model.Position) (uint8, uint8, bool) {
	x, okX := gridAxis(p.X)
	y, okY := gridAxis(p.Y)
	return x, y, okX && okY
}

func gridAxis(v float64) (uint8, bool) {
	if v < 0 || v > 255 || v != math.Trunc(v) || math.Signbit(v) {
		return 0, false
	}
	return uint8(v), true
}

func (Structured) Decode(buf []byte) (*level.Level, error) {
	r := newReader(buf, model.Structured.String())
	magic, err := r.take(len(structuredMagic))
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(magic, structuredMagic) {
		r.off = 0
		return nil, r.fail(ErrUnknownFormat)
	}
	version, err := r.u16()
	if err != nil {
		return nil, err
	}
	if version != structuredVersion {
		return nil, r.fail(ErrUnsupportedVersion)
	}
	if _, err := r.u32(); err != nil {
		return nil, err
	}

	l := level.New(model.Structured)
	limits := level.LimitsFor(model.Structured)
	if l.ID, err = r.str16(limits.ID); err != nil {
		return nil, err
	}
	if l.Name, err = r.str16(limits.Name); err != nil {
		return nil, err
	}
	if l.Author, err = r.str16(limits.Author); err != nil {
		return nil, err
	}

	last, err := r.timestamp(constants.MaxTimestamp)
	if err != nil {
		return nil, err
	}
	count, err := r.u32()
	if err != nil {
		return nil, err
	}
	difficulty, err := r.u8()
	if err != nil {
		return nil, err
	}
	l.Difficulty = model.Difficulty(int(difficulty) - 1)
	if !l.Difficulty.Valid() {
		r.off--
		return nil, r.fail(ErrCorrupt)
	}

	if l.Cover, err = readStructuredCover(r); err != nil {
		return nil, err
	}
	if l.Audio, err = readStructuredAudio(r); err != nil {
		return nil, err
	}

	prev := 0
	for i := uint32(0); i < count; i++ {
		time, err := r.timestamp(constants.MaxTimestamp)
		if err != nil {
			return nil, err
		}
		// records are written in ascending time
		if time < prev {
			r.off -= 4
			return nil, r.fail(ErrCorrupt)
		}
		prev = time
		p, err := readStructuredPosition(r)
		if err != nil {
			return nil, err
		}
		l.Notes.Insert(time, p)
	}
	if l.Length() != last {
		return nil, r.fail(ErrCorrupt)
	}
	if err := r.done(); err != nil {
		return nil, err
	}
	return l, nil
}

func readStructuredPosition(r *reader) (model.Position, error) {
	kind, err := r.u8()
	if err != nil {
		return model.Position{}, err
	}
	switch kind {
	case kindGrid:
		x, err := r.u8()
		if err != nil {
			return model.Position{}, err
		}
		y, err := r.u8()
		if err != nil {
			return model.Position{}, err
		}
		return model.Position{X: float64(x), Y: float64(y)}, nil
	case kindFloat:
		x, err := r.f64()
		if err != nil {
			return model.Position{}, err
		}
		y, err := r.f64()
		if err != nil {
			return model.Position{}, err
		}
		return model.Position{X: x, Y: y}, nil
	}
	r.off--
	return model.Position{}, r.fail(ErrCorrupt)
}

func readFlag(r *reader) (bool, error) {
	flag, err := r.u8()
	if err != nil {
		return false, err
	}
	switch flag {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	r.off--
	return false, r.fail(ErrCorrupt)
}

func readStructuredCover(r *reader) (*model.Cover, error) {
	present, err := readFlag(r)
	if err != nil || !present {
		return nil, err
	}
	w, err := r.u16()
	if err != nil {
		return nil, err
	}
	h, err := r.u16()
	if err != nil {
		return nil, err
	}
	n, err := r.u64()
	if err != nil {
		return nil, err
	}
	data, err := r.blob(n)
	if err != nil {
		return nil, err
	}
	return &model.Cover{Width: int(w), Height: int(h), Data: data}, nil
}

func readStructuredAudio(r *reader) (*model.Audio, error) {
	present, err := readFlag(r)
	if err != nil || !present {
		return nil, err
	}
	a := &model.Audio{}
	if a.SampleRate, err = r.u32(); err != nil {
		return nil, err
	}
	if a.Channels, err = r.u8(); err != nil {
		return nil, err
	}
	if a.BitDepth, err = r.u8(); err != nil {
		return nil, err
	}
	n, err := r.u64()
	if err != nil {
		return nil, err
	}
	if a.Data, err = r.blob(n); err != nil {
		return nil, err
	}
	return a, nil
}
