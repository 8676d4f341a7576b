package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/jsphweid/ssedit/file"
)

// DefaultColor is opaque white.
const DefaultColor uint32 = 0xFFFFFFFF

var ErrBadColor = errors.New("invalid colour")

// ParseColors reads one "#RRGGBB" or "#AARRGGBB" per line and returns the
// colours as ABGR, the byte order the renderer uploads. Colours without
// alpha are opaque. Blank lines are skipped.
func ParseColors(text string) ([]uint32, error) {
	var colors []uint32
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		hex, ok := strings.CutPrefix(line, "#")
		if !ok || (len(hex) != 6 && len(hex) != 8) {
			return nil, fmt.Errorf("%w: line %d: %q", ErrBadColor, i+1, line)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrBadColor, i+1, err)
		}
		argb := uint32(v)
		if len(hex) == 6 {
			argb |= 0xFF000000
		}
		colors = append(colors, ToABGR(argb))
	}
	return colors, nil
}

// ToABGR swaps the red and blue channels of an ARGB colour.
func ToABGR(argb uint32) uint32 {
	a := argb >> 24 & 0xFF
	r := argb >> 16 & 0xFF
	g := argb >> 8 & 0xFF
	b := argb & 0xFF
	return a<<24 | b<<16 | g<<8 | r
}

// LoadPalette reads the palette at path. A missing file is created holding
// opaque white, which is also what an empty file yields.
func LoadPalette(fsys file.FileSystem, path string) ([]uint32, error) {
	data, err := fsys.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := fsys.WriteFile(path, []byte("#FFFFFFFF"), 0o644); err != nil {
			return nil, fmt.Errorf("%w: %w", file.ErrWrite, err)
		}
		return []uint32{DefaultColor}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", file.ErrRead, err)
	}
	colors, err := ParseColors(string(data))
	if err != nil {
		return nil, err
	}
	if len(colors) == 0 {
		colors = []uint32{DefaultColor}
	}
	return colors, nil
}
