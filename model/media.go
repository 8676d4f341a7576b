package model

import "bytes"

// Cover is the level's cover art. Data is stored and restored verbatim.
type Cover struct {
	Width  int
	Height int
	Data   []byte
}

// Audio is the level's song. Data is stored and restored verbatim; the
// remaining fields describe the PCM stream it decodes to.
type Audio struct {
	SampleRate uint32
	Channels   uint8
	BitDepth   uint8
	Data       []byte
}

func (c *Cover) Equal(o *Cover) bool {
	if c == nil || o == nil {
		return c == nil && o == nil
	}
	return c.Width == o.Width && c.Height == o.Height && bytes.Equal(c.Data, o.Data)
}

func (c *Cover) Clone() *Cover {
	if c == nil {
		return nil
	}
	return &Cover{Width: c.Width, Height: c.Height, Data: bytes.Clone(c.Data)}
}

func (a *Audio) Equal(o *Audio) bool {
	if a == nil || o == nil {
		return a == nil && o == nil
	}
	return a.SampleRate == o.SampleRate && a.Channels == o.Channels &&
		a.BitDepth == o.BitDepth && bytes.Equal(a.Data, o.Data)
}

func (a *Audio) Clone() *Audio {
	if a == nil {
		return nil
	}
	c := *a
	c.Data = bytes.Clone(a.Data)
	return &c
}

// DurationMs estimates the song length assuming Data is bare PCM. It is 0
// when the stream layout is unknown.
func (a *Audio) DurationMs() int {
	if a == nil || a.SampleRate == 0 || a.Channels == 0 || a.BitDepth == 0 {
		return 0
	}
	frameSize := int(a.Channels) * int(a.BitDepth) / 8
	if frameSize == 0 {
		return 0
	}
	frames := len(a.Data) / frameSize
	return int(int64(frames) * 1000 / int64(a.SampleRate))
}
