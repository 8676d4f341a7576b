// Package level is the editable document: metadata, difficulty, the note
// timeline, cover art and song, tagged with the format it persists as.
package level

import (
	"strings"

	"github.com/jsphweid/ssedit/constants"
	"github.com/jsphweid/ssedit/model"
	"github.com/jsphweid/ssedit/timeline"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

type Level struct {
	Format model.Format
	ID     string
	Name   string
	Author string
	// Difficulty only round-trips through the structured format; raw data
	// levels keep it Unspecified.
	Difficulty model.Difficulty
	Notes      *timeline.Timeline
	Cover      *model.Cover
	Audio      *model.Audio
}

func New(format model.Format) *Level {
	return &Level{
		Format:     format,
		Difficulty: model.Unspecified,
		Notes:      timeline.New(),
	}
}

var lower = cases.Lower(language.Und)

// DeriveID builds the default id: "author name" lowercased with spaces
// turned into underscores.
func DeriveID(author, name string) string {
	if author == "" && name == "" {
		return ""
	}
	s := lower.String(norm.NFC.String(author + " " + name))
	return strings.ReplaceAll(s, " ", "_")
}

// SetNameAndAuthor updates both fields and re-derives the id only when both
// of them actually changed. A hand-edited id otherwise survives.
func (l *Level) SetNameAndAuthor(name, author string) {
	rederive := name != l.Name && author != l.Author
	l.Name = name
	l.Author = author
	if rederive {
		l.ID = Truncate(DeriveID(author, name), LimitsFor(l.Format).ID)
	}
}

// Convert returns a copy of l in another format. Name, author, notes, cover
// and audio carry over; the id is derived afresh and difficulty is reset.
// Text fields are cut to the target format's limits.
func (l *Level) Convert(to model.Format) *Level {
	limits := LimitsFor(to)
	c := New(to)
	c.Name = Truncate(l.Name, limits.Name)
	c.Author = Truncate(l.Author, limits.Author)
	c.ID = Truncate(DeriveID(c.Author, c.Name), limits.ID)
	c.Notes = l.Notes.Clone()
	c.Cover = l.Cover.Clone()
	c.Audio = l.Audio.Clone()
	return c
}

func (l *Level) Clone() *Level {
	c := *l
	c.Notes = l.Notes.Clone()
	c.Cover = l.Cover.Clone()
	c.Audio = l.Audio.Clone()
	return &c
}

// Equal compares the persisted content. Format is not part of it.
func (l *Level) Equal(o *Level) bool {
	return l.ID == o.ID && l.Name == o.Name && l.Author == o.Author &&
		l.Difficulty == o.Difficulty && l.Notes.Equal(o.Notes) &&
		l.Cover.Equal(o.Cover) && l.Audio.Equal(o.Audio)
}

// Length is the time of the last note in ms, 0 without notes.
func (l *Level) Length() int {
	_, last, ok := l.Notes.Span()
	if !ok {
		return 0
	}
	return last
}

type Limits struct {
	ID     int
	Name   int
	Author int
}

func LimitsFor(format model.Format) Limits {
	if format == model.RawData {
		return Limits{ID: constants.RawIDLimit, Name: constants.RawNameLimit, Author: constants.RawAuthorLimit}
	}
	return Limits{ID: constants.StructuredIDLimit, Name: constants.StructuredNameLimit, Author: constants.StructuredAuthorLimit}
}

// Truncate cuts s to at most limit bytes without splitting a rune.
func Truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
