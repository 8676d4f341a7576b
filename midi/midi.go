// Package midi turns note timelines into hit-sound MIDI files and back.
//
// The play field is read as a 3x3 pad grid: key%9 picks the cell, column
// first. Export writes drum channel note-ons starting at key 36, so a
// level that only uses whole grid positions survives the round trip.
package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/jsphweid/ssedit/model"
	"github.com/jsphweid/ssedit/musictime"
	"github.com/jsphweid/ssedit/timeline"
	"github.com/jsphweid/ssedit/util"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	drumChannel = 9
	baseKey     = 36
	velocity    = 100
	resolution  = 960
)

var (
	ErrParse  = errors.New("could not parse midi file")
	ErrNoTime = errors.New("midi file has no metric time format")
)

type Result struct {
	Notes     *timeline.Timeline
	BPM       float64
	Signature musictime.Signature
}

// Import reads note-ons of every track as placements. The first tempo and
// meter found become the result's grid, 120 BPM and 4/4 otherwise.
func Import(r io.Reader) (res *Result, e error) {
	// the smf reader panics on some malformed input
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if rec := recover(); rec != nil {
			res, e = nil, fmt.Errorf("%w: %v", ErrParse, rec)
		}
	}()

	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if _, ok := s.TimeFormat.(smf.MetricTicks); !ok {
		return nil, ErrNoTime
	}

	def := musictime.Default()
	res = &Result{Notes: timeline.New(), BPM: def.BPM, Signature: def.Signature}
	var tempoSet, meterSet bool

	type hit struct {
		time int
		key  uint8
	}
	var hits []hit
	for _, track := range s.Tracks {
		var absTicks int64
		for _, event := range track {
			absTicks += int64(event.Delta)
			var channel, key, vel uint8
			var bpm float64
			var num, denom uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &vel):
				// velocity 0 is a note-off
				if vel == 0 {
					continue
				}
				ms := int(math.Round(float64(s.TimeAt(absTicks)) / 1000))
				hits = append(hits, hit{time: ms, key: key})
			case event.Message.GetMetaTempo(&bpm):
				if !tempoSet {
					res.BPM, tempoSet = bpm, true
				}
			case event.Message.GetMetaMeter(&num, &denom):
				if !meterSet {
					res.Signature, meterSet = musictime.Signature{Num: int(num), Denom: int(denom)}, true
				}
			}
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].time < hits[j].time
	})
	for _, h := range hits {
		res.Notes.Insert(h.time, PositionForKey(h.key))
	}
	return res, nil
}

// ReadFile imports the midi file at path.
func ReadFile(path string) (*Result, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Import(bytes.NewReader(dat))
}

func PositionForKey(key uint8) model.Position {
	cell := key % 9
	return model.Position{X: float64(cell % 3), Y: float64(cell / 3)}
}

// KeyForPosition rounds p to the nearest grid cell.
func KeyForPosition(p model.Position) uint8 {
	col := util.Clamp(math.Round(p.X), 0, 2)
	row := util.Clamp(math.Round(p.Y), 0, 2)
	return baseKey + uint8(row*3+col)
}

type event struct {
	tick uint32
	off  bool
	msg  gomidi.Message
}

// Export writes notes as a single track type 1 file at a constant tempo.
// Every placement becomes a one tick drum hit.
func Export(w io.Writer, notes *timeline.Timeline, bpm float64, sig musictime.Signature) error {
	if bpm <= 0 {
		return musictime.ErrNoBPM
	}
	ticksPerMs := resolution * bpm / 60000

	var events []event
	for time := range notes.Times() {
		tick := uint32(math.Round(float64(time) * ticksPerMs))
		for _, p := range notes.At(time) {
			key := KeyForPosition(p)
			events = append(events,
				event{tick: tick, msg: gomidi.NoteOn(drumChannel, key, velocity)},
				event{tick: tick + 1, off: true, msg: gomidi.NoteOff(drumChannel, key)})
		}
	}
	// note-offs go first when they share a tick with the next hit
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	var tr smf.Track
	tr.Add(0, smf.MetaMeter(uint8(util.Clamp(sig.Num, 1, 255)), uint8(util.Clamp(sig.Denom, 1, 128))))
	tr.Add(0, smf.MetaTempo(bpm))
	var last uint32
	for _, e := range events {
		tr.Add(e.tick-last, e.msg)
		last = e.tick
	}
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(resolution)
	if err := s.Add(tr); err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
