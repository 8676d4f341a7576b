package editor

import (
	"math"

	"github.com/jsphweid/ssedit/config"
	"github.com/jsphweid/ssedit/constants"
	"github.com/jsphweid/ssedit/model"
	"github.com/jsphweid/ssedit/musictime"
	"github.com/jsphweid/ssedit/spline"
	"github.com/jsphweid/ssedit/timeline"
	"github.com/jsphweid/ssedit/util"
)

// PlaceSpline samples count notes along a curve through nodes and inserts
// them. Nothing is inserted when any sample would be out of range.
func (s *Session) PlaceSpline(nodes spline.Nodes, count int) ([]spline.Sample, error) {
	samples, err := spline.Generate(nodes, count)
	if err != nil {
		return nil, err
	}
	for _, sample := range samples {
		if err := checkTime(sample.Time); err != nil {
			return nil, err
		}
	}
	for _, sample := range samples {
		s.Level.Notes.Insert(sample.Time, sample.Position)
	}
	return samples, nil
}

// CursorPath is the trail drawn behind the playhead: a curve through the
// average position of every timestamp, evaluated at now, now-1, ... ms.
// It is empty with fewer than two timestamps or a zero length span.
func (s *Session) CursorPath(now float64) []model.Position {
	notes := s.Level.Notes
	first, last, ok := notes.Span()
	if !ok || first == last {
		return nil
	}
	path, err := spline.Fit(notes.Centroids())
	if err != nil {
		return nil
	}
	res := make([]model.Position, constants.CursorTrailMs)
	for k := range res {
		res[k] = path.At(now - float64(k))
	}
	return res
}

// Hitsound is one sound to trigger when the playhead reaches Time.
type Hitsound struct {
	Time int     `json:"time"`
	Pan  float64 `json:"pan"`
}

// Hitsounds lists the sounds whose trigger time falls in [from, to). A note
// at t triggers at t minus the hitsound offset; only the first few
// placements of a timestamp sound. Pan follows the horizontal position.
func (s *Session) Hitsounds(from, to float64) []Hitsound {
	offset := s.Prefs.HitsoundOffset
	lo := int(from) + offset
	hi := int(to) + offset
	var res []Hitsound
	for _, time := range s.Level.Notes.Window(lo, hi) {
		placements := s.Level.Notes.At(time)
		for _, p := range placements[:util.Min(len(placements), constants.MaxHitsoundsPerTime)] {
			res = append(res, Hitsound{Time: time - offset, Pan: s.pan(p)})
		}
	}
	return res
}

func (s *Session) pan(p model.Position) float64 {
	v := (p.X - 1) / (s.Prefs.MapSize / 2) * s.Prefs.HitsoundPanning
	return util.Clamp(v, -1, 1)
}

// VisibleNote is a placement as the note field draws it.
type VisibleNote struct {
	Time     int            `json:"time"`
	Index    int            `json:"index"`
	Position model.Position `json:"position"`
	Color    uint32         `json:"color"`
	Progress float64        `json:"progress"`
	Scale    float64        `json:"scale"`
}

// Visible lists the notes between now and now plus the approach rate, with
// their palette colour and approach progress.
func (s *Session) Visible(now float64) []VisibleNote {
	rate := float64(s.Prefs.ApproachRate)
	palette := s.Prefs.Palette
	if len(palette) == 0 {
		palette = []uint32{config.DefaultColor}
	}
	var res []VisibleNote
	for _, time := range s.Level.Notes.Window(int(math.Floor(now)), int(math.Ceil(now+rate))) {
		if float64(time) < now || float64(time) >= now+rate {
			continue
		}
		progress := musictime.Approach(float64(time), now, rate)
		for i, p := range s.Level.Notes.At(time) {
			res = append(res, VisibleNote{
				Time:     time,
				Index:    i,
				Position: p,
				Color:    palette[timeline.ColorIndex(i, len(palette))],
				Progress: progress,
				Scale:    musictime.PerspectiveScale(progress, float64(s.Prefs.ApproachDistance)),
			})
		}
	}
	return res
}

type Info struct {
	Format     string  `json:"format"`
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Author     string  `json:"author"`
	Difficulty string  `json:"difficulty"`
	Notes      int     `json:"notes"`
	Placements int     `json:"placements"`
	Length     float64 `json:"length"` // seconds
	HasCover   bool    `json:"has_cover"`
	HasAudio   bool    `json:"has_audio"`
	Dirty      bool    `json:"dirty"`
	Path       string  `json:"path"`
}

func (s *Session) Info() Info {
	l := s.Level
	return Info{
		Format:     l.Format.String(),
		ID:         l.ID,
		Name:       l.Name,
		Author:     l.Author,
		Difficulty: l.Difficulty.String(),
		Notes:      l.Notes.Len(),
		Placements: l.Notes.Count(),
		Length:     float64(l.Length()) / 1000,
		HasCover:   l.Cover != nil,
		HasAudio:   l.Audio != nil,
		Dirty:      s.Dirty(),
		Path:       s.Path,
	}
}
