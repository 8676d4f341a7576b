// Package config holds editor preferences, the note colour palette and the
// debug logger.
package config

import (
	"math"

	"github.com/jsphweid/ssedit/constants"
	"github.com/jsphweid/ssedit/musictime"
	"github.com/jsphweid/ssedit/util"
)

const maxNoteSnapping = 96

// Preferences are the per-session editing settings. They are not part of
// the level and never persisted with it.
type Preferences struct {
	BPM       float64             `json:"bpm"`
	Offset    float64             `json:"offset"`
	Signature musictime.Signature `json:"signature"`
	Divisor   int                 `json:"divisor"`
	Swing     float64             `json:"swing"`

	ApproachRate     int     `json:"approach_rate"`
	ApproachDistance int     `json:"approach_distance"`
	MapSize          float64 `json:"map_size"`
	NoteSnapping     [2]int  `json:"note_snapping"`

	Hitsounds       bool    `json:"hitsounds"`
	HitsoundOffset  int     `json:"hitsound_offset"`
	HitsoundPanning float64 `json:"hitsound_panning"`

	Palette []uint32 `json:"palette"`
}

func DefaultPreferences() Preferences {
	g := musictime.Default()
	return Preferences{
		BPM:              g.BPM,
		Offset:           g.Offset,
		Signature:        g.Signature,
		Divisor:          g.Divisor,
		Swing:            g.Swing,
		ApproachRate:     500,
		ApproachDistance: 10,
		MapSize:          3,
		NoteSnapping:     [2]int{3, 3},
		Hitsounds:        true,
		HitsoundPanning:  1,
		Palette:          []uint32{DefaultColor},
	}
}

// Normalize clamps every field into the range the editor accepts.
func (p Preferences) Normalize() Preferences {
	g := p.Grid()
	p.BPM, p.Signature, p.Divisor, p.Swing = g.BPM, g.Signature, g.Divisor, g.Swing

	p.ApproachRate = util.Clamp(p.ApproachRate, constants.MinApproachRate, constants.MaxApproachRate)
	p.ApproachDistance = util.Max(p.ApproachDistance, 1)
	if math.IsNaN(p.MapSize) {
		p.MapSize = 3
	}
	p.MapSize = util.Max(p.MapSize, constants.MinMapSize)
	for i, n := range p.NoteSnapping {
		// one point is not a grid
		if n == 1 {
			n = 0
		}
		p.NoteSnapping[i] = util.Clamp(n, 0, maxNoteSnapping)
	}
	if math.IsNaN(p.HitsoundPanning) {
		p.HitsoundPanning = 1
	}
	p.HitsoundPanning = util.Clamp(p.HitsoundPanning, -1, 1)
	if len(p.Palette) == 0 {
		p.Palette = []uint32{DefaultColor}
	}
	return p
}

// Grid is the normalized tempo grid described by p.
func (p Preferences) Grid() musictime.Grid {
	return musictime.Grid{
		BPM:       p.BPM,
		Offset:    p.Offset,
		Signature: p.Signature,
		Divisor:   p.Divisor,
		Swing:     p.Swing,
	}.Normalize()
}
