// Package media checks cover images and songs before they are attached to
// a level. The bytes themselves are stored untouched.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // registers gif
	_ "image/jpeg" // registers jpeg
	_ "image/png"  // registers png

	"github.com/go-audio/wav"
	"github.com/jsphweid/ssedit/model"
)

var (
	ErrUnsupportedImage = errors.New("unsupported cover image")
	ErrUnsupportedAudio = errors.New("unsupported audio file")
)

// CoverFromImage reads only the image header for its size.
func CoverFromImage(data []byte) (*model.Cover, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %s with size %dx%d", ErrUnsupportedImage, format, cfg.Width, cfg.Height)
	}
	return &model.Cover{Width: cfg.Width, Height: cfg.Height, Data: data}, nil
}

// AudioFromWAV takes rate, channels and depth from a WAV header.
func AudioFromWAV(data []byte) (*model.Audio, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%w: not a PCM wav file", ErrUnsupportedAudio)
	}
	if d.NumChans == 0 || d.NumChans > 255 || d.BitDepth == 0 || d.BitDepth > 255 {
		return nil, fmt.Errorf("%w: %d channels at %d bits", ErrUnsupportedAudio, d.NumChans, d.BitDepth)
	}
	return &model.Audio{
		SampleRate: d.SampleRate,
		Channels:   uint8(d.NumChans),
		BitDepth:   uint8(d.BitDepth),
		Data:       data,
	}, nil
}
