// Package timeline holds the time-keyed note placements of a level.
//
// Keys are millisecond timestamps. A key is never present with an empty
// placement slice, and placement order inside a key is preserved: it drives
// colour indexing and hit-sound ordering.
package timeline

import (
	"iter"
	"math"

	"github.com/jsphweid/ssedit/model"
	"github.com/jsphweid/ssedit/util"
)

type Timeline struct {
	notes map[int][]model.Position
}

func New() *Timeline {
	return &Timeline{notes: make(map[int][]model.Position)}
}

// Insert appends pos to the placements at time.
func (t *Timeline) Insert(time int, pos model.Position) {
	t.notes[time] = append(t.notes[time], pos)
}

// Remove drops the placement at index from time. It reports false and does
// nothing when either is absent.
func (t *Timeline) Remove(time, index int) bool {
	placements, ok := t.notes[time]
	if !ok || index < 0 || index >= len(placements) {
		return false
	}
	if len(placements) == 1 {
		delete(t.notes, time)
		return true
	}
	rest := make([]model.Position, 0, len(placements)-1)
	rest = append(rest, placements[:index]...)
	rest = append(rest, placements[index+1:]...)
	t.notes[time] = rest
	return true
}

// Shift moves every key t to t - delta. The new mapping is built in full
// before it replaces the old one; groups landing on the same key are merged
// in ascending order of their original time.
func (t *Timeline) Shift(delta int) {
	shifted := make(map[int][]model.Position, len(t.notes))
	for _, time := range util.GetSortedKeys(t.notes) {
		shifted[time-delta] = append(shifted[time-delta], t.notes[time]...)
	}
	t.notes = shifted
}

// DeleteRange removes every key in [start, end] and returns how many keys
// were removed.
func (t *Timeline) DeleteRange(start, end int) int {
	kept := make(map[int][]model.Position, len(t.notes))
	removed := 0
	for time, placements := range t.notes {
		if start <= time && time <= end {
			removed++
			continue
		}
		kept[time] = placements
	}
	t.notes = kept
	return removed
}

// Times yields the distinct timestamps in ascending order. The sequence is
// computed when iteration starts, so it can be ranged over again after
// edits.
func (t *Timeline) Times() iter.Seq[int] {
	return func(yield func(int) bool) {
		for _, time := range util.GetSortedKeys(t.notes) {
			if !yield(time) {
				return
			}
		}
	}
}

func (t *Timeline) SortedTimes() []int {
	return util.GetSortedKeys(t.notes)
}

// Span returns the first and last timestamp. ok is false for an empty
// timeline.
func (t *Timeline) Span() (first, last int, ok bool) {
	for time := range t.notes {
		if !ok {
			first, last, ok = time, time, true
			continue
		}
		first = util.Min(first, time)
		last = util.Max(last, time)
	}
	return first, last, ok
}

// At returns a copy of the placements at time.
func (t *Timeline) At(time int) []model.Position {
	placements, ok := t.notes[time]
	if !ok {
		return nil
	}
	res := make([]model.Position, len(placements))
	copy(res, placements)
	return res
}

func (t *Timeline) Has(time int) bool {
	_, ok := t.notes[time]
	return ok
}

// Len is the number of distinct timestamps.
func (t *Timeline) Len() int {
	return len(t.notes)
}

// Count is the number of placements over all timestamps.
func (t *Timeline) Count() int {
	n := 0
	for _, placements := range t.notes {
		n += len(placements)
	}
	return n
}

// Window returns the timestamps in [from, to), ascending.
func (t *Timeline) Window(from, to int) []int {
	var res []int
	for _, time := range util.GetSortedKeys(t.notes) {
		if time >= to {
			break
		}
		if time >= from {
			res = append(res, time)
		}
	}
	return res
}

// Centroids averages the placements of every timestamp.
func (t *Timeline) Centroids() map[int]model.Position {
	res := make(map[int]model.Position, len(t.notes))
	for time, placements := range t.notes {
		var c model.Position
		for _, p := range placements {
			c.X += p.X / float64(len(placements))
			c.Y += p.Y / float64(len(placements))
		}
		res[time] = c
	}
	return res
}

func (t *Timeline) Clone() *Timeline {
	c := &Timeline{notes: make(map[int][]model.Position, len(t.notes))}
	for time, placements := range t.notes {
		c.notes[time] = append([]model.Position(nil), placements...)
	}
	return c
}

// Equal compares key sets and per-key placement order.
func (t *Timeline) Equal(o *Timeline) bool {
	if len(t.notes) != len(o.notes) {
		return false
	}
	for time, placements := range t.notes {
		other, ok := o.notes[time]
		if !ok || len(other) != len(placements) {
			return false
		}
		for i := range placements {
			if !samePosition(placements[i], other[i]) {
				return false
			}
		}
	}
	return true
}

// samePosition compares bit patterns, so -0 differs from 0 the way it does
// on disk and in the fingerprint.
func samePosition(a, b model.Position) bool {
	return math.Float64bits(a.X) == math.Float64bits(b.X) && math.Float64bits(a.Y) == math.Float64bits(b.Y)
}

// ColorIndex picks the palette slot for the placement at index within its
// timestamp.
func ColorIndex(index, paletteLen int) int {
	if paletteLen <= 0 {
		return 0
	}
	return index % paletteLen
}
