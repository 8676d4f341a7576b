// Package musictime maps editor time in milliseconds to beats and measures.
//
// A Grid carries the tempo parameters. Every beat-relative computation
// returns ErrNoBPM when the BPM is 0; callers then fall back to plain
// millisecond handling.
package musictime

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jsphweid/ssedit/constants"
	"github.com/jsphweid/ssedit/util"
)

type Signature struct {
	Num   int `json:"num"`
	Denom int `json:"denom"`
}

type Grid struct {
	BPM       float64   `json:"bpm"`
	Offset    float64   `json:"offset"`
	Signature Signature `json:"signature"`
	Divisor   int       `json:"divisor"`
	Swing     float64   `json:"swing"`
}

func Default() Grid {
	return Grid{BPM: 120, Signature: Signature{Num: 4, Denom: 4}, Divisor: 4, Swing: 0.5}
}

func (g Grid) Validate() error {
	if g.BPM < 0 || g.BPM > constants.MaxBPM || math.IsNaN(g.BPM) {
		return fmt.Errorf("%w: bpm %v", ErrOutOfRange, g.BPM)
	}
	if g.Signature.Num < 1 || g.Signature.Num > constants.MaxNumerator {
		return fmt.Errorf("%w: numerator %d", ErrOutOfRange, g.Signature.Num)
	}
	d := g.Signature.Denom
	if d < 1 || d > constants.MaxDenominator || d&(d-1) != 0 {
		return fmt.Errorf("%w: denominator %d", ErrOutOfRange, d)
	}
	if g.Divisor < 1 || g.Divisor > constants.MaxBeatDivisor {
		return fmt.Errorf("%w: beat divisor %d", ErrOutOfRange, g.Divisor)
	}
	if !(g.Swing > 0 && g.Swing < 1) {
		return fmt.Errorf("%w: swing %v", ErrOutOfRange, g.Swing)
	}
	return nil
}

// Normalize clamps every parameter into its allowed range the way the
// preference inputs do: the denominator is rounded up to a power of two.
func (g Grid) Normalize() Grid {
	if math.IsNaN(g.BPM) {
		g.BPM = 0
	}
	g.BPM = util.Clamp(g.BPM, 0, constants.MaxBPM)
	g.Signature.Num = util.Clamp(g.Signature.Num, 1, constants.MaxNumerator)
	g.Signature.Denom = util.Clamp(util.NextPowerOfTwo(g.Signature.Denom), 1, constants.MaxDenominator)
	g.Divisor = util.Clamp(g.Divisor, 1, constants.MaxBeatDivisor)
	if math.IsNaN(g.Swing) {
		g.Swing = 0.5
	}
	g.Swing = util.Clamp(g.Swing, constants.MinSwing, constants.MaxSwing)
	return g
}

func (g Grid) HasBPM() bool {
	return g.BPM != 0
}

func (g Grid) MsPerBeat() (float64, error) {
	if !g.HasBPM() {
		return 0, ErrNoBPM
	}
	return (60000 / g.BPM) * (4 / float64(g.Signature.Denom)), nil
}

// BeatOf is the unswung, possibly fractional beat at time.
func (g Grid) BeatOf(time float64) (float64, error) {
	mpb, err := g.MsPerBeat()
	if err != nil {
		return 0, err
	}
	return (time - g.Offset) / mpb, nil
}

// TimeOf is the inverse of BeatOf.
func (g Grid) TimeOf(beat float64) (float64, error) {
	mpb, err := g.MsPerBeat()
	if err != nil {
		return 0, err
	}
	return beat*mpb + g.Offset, nil
}

// SwingAdjust remaps the phase of beat within each pair of beats so that the
// first 2*Swing of the pair is stretched or squeezed. Swing 0.5 is the
// identity; SwingInverse undoes it exactly.
func (g Grid) SwingAdjust(beat float64) float64 {
	return swing(beat, g.Swing)
}

func (g Grid) SwingInverse(beat float64) float64 {
	return swing(beat, 1-g.Swing)
}

func swing(beat, s float64) float64 {
	frac := beat - 2*math.Floor(beat/2)
	whole := beat - frac
	if frac < 2*s {
		return whole + frac*(1-s)/s
	}
	return whole + (frac-2*s)*s/(1-s) + 2 - 2*s
}

func (g Grid) MeasureOf(beat float64) int {
	return int(math.Floor(beat / float64(g.Signature.Num)))
}

func (g Grid) BeatInMeasure(beat float64) float64 {
	n := float64(g.Signature.Num)
	return beat - n*math.Floor(beat/n)
}

// NearestGridTime snaps time down onto the enclosing grid line of
// ms_per_beat/divisor spacing, anchored at the offset.
func (g Grid) NearestGridTime(time float64, divisor int) (int, error) {
	mpb, err := g.MsPerBeat()
	if err != nil {
		return 0, err
	}
	if divisor < 1 {
		return 0, fmt.Errorf("%w: beat divisor %d", ErrOutOfRange, divisor)
	}
	step := mpb / float64(divisor)
	return int(math.Floor(math.Floor((time-g.Offset)/step)*step + g.Offset)), nil
}

type ScrollStep int

const (
	StepDivision ScrollStep = iota
	StepBeat
	StepMeasure
)

// Scroll moves time by wheel notches. With a BPM a notch is one grid
// division, beat or measure; in raw mode (or without a BPM) it is 1, 10 or
// 100 ms. The result never goes below 0.
func (g Grid) Scroll(time, wheel float64, step ScrollStep, raw bool) float64 {
	mpb, err := g.MsPerBeat()
	if raw || err != nil {
		inc := 1.0
		switch step {
		case StepBeat:
			inc = 10
		case StepMeasure:
			inc = 100
		}
		return math.Max(time+inc*wheel, 0)
	}
	inc := 1 / float64(g.Divisor)
	switch step {
	case StepBeat:
		inc = 1
	case StepMeasure:
		inc = float64(g.Signature.Num)
	}
	return math.Max((time/mpb+inc*wheel)*mpb, 0)
}

type Line struct {
	Time      float64 `json:"time"`
	Beat      float64 `json:"beat"`
	OnBeat    bool    `json:"on_beat"`
	OnMeasure bool    `json:"on_measure"`
}

const maxLines = 5000

// Lines lists the grid lines that fall in [from, to), capped at 5000.
// Line beats are swung grid positions; their times go through the inverse
// swing so labels and lines agree.
func (g Grid) Lines(from, to float64) ([]Line, error) {
	raw, err := g.BeatOf(from)
	if err != nil {
		return nil, err
	}
	div := float64(g.Divisor)
	k := math.Ceil(g.SwingAdjust(raw) * div)
	var res []Line
	for len(res) < maxLines {
		beat := k / div
		k++
		t, _ := g.TimeOf(g.SwingInverse(beat))
		if t < from {
			continue
		}
		if t >= to {
			break
		}
		res = append(res, Line{
			Time:      t,
			Beat:      beat,
			OnBeat:    beat == math.Floor(beat),
			OnMeasure: g.BeatInMeasure(beat) == 0,
		})
	}
	return res, nil
}

type Position struct {
	Beat          float64 `json:"beat"`
	Measure       int     `json:"measure"`
	BeatInMeasure float64 `json:"beat_in_measure"`
}

// At reports where time falls in swung musical terms.
func (g Grid) At(time float64) (Position, error) {
	raw, err := g.BeatOf(time)
	if err != nil {
		return Position{}, err
	}
	beat := g.SwingAdjust(raw)
	return Position{Beat: beat, Measure: g.MeasureOf(beat), BeatInMeasure: g.BeatInMeasure(beat)}, nil
}

// Label renders the "Measure N" and "Beat x.xx" captions for time.
func (g Grid) Label(time float64) (string, string, error) {
	p, err := g.At(time)
	if err != nil {
		return "", "", err
	}
	b := strconv.FormatFloat(p.BeatInMeasure, 'f', 2, 64)
	b = strings.TrimRight(strings.TrimRight(b, "0"), ".")
	return fmt.Sprintf("Measure %d", p.Measure), "Beat " + b, nil
}

type Tick int

const (
	NoTick Tick = iota
	BeatTick
	MeasureTick
)

// Crossed tells the metronome whether a beat or a measure boundary was
// passed between two frames.
func (g Grid) Crossed(prev, now float64) Tick {
	a, err := g.At(prev)
	if err != nil {
		return NoTick
	}
	b, _ := g.At(now)
	if math.Floor(a.Beat) == math.Floor(b.Beat) {
		return NoTick
	}
	if a.Measure != b.Measure {
		return MeasureTick
	}
	return BeatTick
}

// Approach is how far a note at noteTime has travelled towards the player
// at now: 1 on the hit, 0 when it spawns rate ms earlier.
func Approach(noteTime, now, rate float64) float64 {
	return 1 - (noteTime-now)/rate
}

// PerspectiveScale is the visual size factor of a note at progress.
func PerspectiveScale(progress, distance float64) float64 {
	return 1 / (1 + (1-progress)*distance)
}
