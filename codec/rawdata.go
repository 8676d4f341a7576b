package codec

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/jsphweid/ssedit/constants"
	"github.com/jsphweid/ssedit/level"
	"github.com/jsphweid/ssedit/model"
)

// Raw data layout, version 1:
//
//	magic    "SSRD"
//	u8       version
//	str8     id, name, author (u8 byte length + UTF-8)
//	u32      group count
//	groups   per time: u32 time, u16 placement count, then f64 x, f64 y each
//	u8       cover flag; when 1: u16 width, u16 height, u32 length, bytes
//	u8       audio flag; when 1: u32 sample rate, u8 channels, u8 bit depth, u32 length, bytes
//
// There is no difficulty; decoded levels are Unspecified.
type RawData struct{}

var rawMagic = []byte("SSRD")

const rawVersion = 1

func (RawData) Format() model.Format {
	return model.RawData
}

func (RawData) Probe(buf []byte) bool {
	return bytes.HasPrefix(buf, rawMagic)
}

func (RawData) Encode(l *level.Level) ([]byte, error) {
	if err := Validate(l); err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	buf.Write(rawMagic)
	buf.WriteByte(rawVersion)
	for _, s := range []string{l.ID, l.Name, l.Author} {
		buf.WriteByte(uint8(len(s)))
		buf.WriteString(s)
	}

	binary.Write(buf, binary.LittleEndian, uint32(l.Notes.Len()))
	for time := range l.Notes.Times() {
		placements := l.Notes.At(time)
		binary.Write(buf, binary.LittleEndian, uint32(time))
		binary.Write(buf, binary.LittleEndian, uint16(len(placements)))
		for _, p := range placements {
			binary.Write(buf, binary.LittleEndian, math.Float64bits(p.X))
			binary.Write(buf, binary.LittleEndian, math.Float64bits(p.Y))
		}
	}

	if c := l.Cover; c != nil {
		buf.WriteByte(1)
		binary.Write(buf, binary.LittleEndian, uint16(c.Width))
		binary.Write(buf, binary.LittleEndian, uint16(c.Height))
		binary.Write(buf, binary.LittleEndian, uint32(len(c.Data)))
		buf.Write(c.Data)
	} else {
		buf.WriteByte(0)
	}
	if a := l.Audio; a != nil {
		buf.WriteByte(1)
		binary.Write(buf, binary.LittleEndian, a.SampleRate)
		buf.WriteByte(a.Channels)
		buf.WriteByte(a.BitDepth)
		binary.Write(buf, binary.LittleEndian, uint32(len(a.Data)))
		buf.Write(a.Data)
	} else {
		buf.WriteByte(0)
	}
	return buf.Bytes(), nil
}

func (RawData) Decode(buf []byte) (*level.Level, error) {
	r := newReader(buf, model.RawData.String())
	magic, err := r.take(len(rawMagic))
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(magic, rawMagic) {
		r.off = 0
		return nil, r.fail(ErrUnknownFormat)
	}
	version, err := r.u8()
	if err != nil {
		return nil, err
	}
	if version != rawVersion {
		r.off--
		return nil, r.fail(ErrUnsupportedVersion)
	}

	l := level.New(model.RawData)
	limits := level.LimitsFor(model.RawData)
	if l.ID, err = r.str8(limits.ID); err != nil {
		return nil, err
	}
	if l.Name, err = r.str8(limits.Name); err != nil {
		return nil, err
	}
	if l.Author, err = r.str8(limits.Author); err != nil {
		return nil, err
	}

	groups, err := r.u32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < groups; i++ {
		time, err := r.timestamp(constants.MaxTimestamp)
		if err != nil {
			return nil, err
		}
		if l.Notes.Has(time) {
			r.off -= 4
			return nil, r.fail(ErrCorrupt)
		}
		n, err := r.u16()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			r.off -= 2
			return nil, r.fail(ErrCorrupt)
		}
		for j := uint16(0); j < n; j++ {
			x, err := r.f64()
			if err != nil {
				return nil, err
			}
			y, err := r.f64()
			if err != nil {
				return nil, err
			}
			l.Notes.Insert(time, model.Position{X: x, Y: y})
		}
	}

	if l.Cover, err = readRawCover(r); err != nil {
		return nil, err
	}
	if l.Audio, err = readRawAudio(r); err != nil {
		return nil, err
	}
	if err := r.done(); err != nil {
		return nil, err
	}
	return l, nil
}

func readRawCover(r *reader) (*model.Cover, error) {
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
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	data, err := r.blob(uint64(n))
	if err != nil {
		return nil, err
	}
	return &model.Cover{Width: int(w), Height: int(h), Data: data}, nil
}

func readRawAudio(r *reader) (*model.Audio, error) {
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
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	if a.Data, err = r.blob(uint64(n)); err != nil {
		return nil, err
	}
	return a, nil
}
