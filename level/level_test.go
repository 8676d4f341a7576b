package level

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jsphweid/ssedit/model"
	"github.com/stretchr/testify/assert"
)

func sample() *Level {
	l := New(model.Structured)
	l.ID = "mapper_song"
	l.Name = "Song"
	l.Author = "Mapper"
	l.Difficulty = model.Hard
	l.Notes.Insert(1000, model.Position{X: 0, Y: 0})
	l.Notes.Insert(1000, model.Position{X: 1, Y: 1})
	l.Notes.Insert(2000, model.Position{X: 0.5, Y: 0.5})
	l.Cover = &model.Cover{Width: 1, Height: 1, Data: []byte{1, 2, 3, 4}}
	l.Audio = &model.Audio{SampleRate: 44100, Channels: 2, BitDepth: 16, Data: []byte{9, 9, 9, 9}}
	return l
}

func TestNewIsEmpty(t *testing.T) {
	l := New(model.Structured)

	assert := assert.New(t)
	assert.Equal(model.Unspecified, l.Difficulty)
	assert.Equal(0, l.Notes.Len())
	assert.Equal("", l.ID)
	assert.Nil(l.Cover)
	assert.Nil(l.Audio)
	assert.Equal(0, l.Length())
}

func TestDeriveID(t *testing.T) {
	tests := []struct {
		author, name, want string
	}{
		{"Mapper", "My Song", "mapper_my_song"},
		{"", "", ""},
		{"ÉMILE", "Ça Va", "émile_ça_va"},
		{"a  b", "", "a__b_"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveID(tt.author, tt.name))
	}
}

func TestSetNameAndAuthorRederivesOnlyWhenBothChange(t *testing.T) {
	l := New(model.Structured)
	l.SetNameAndAuthor("Song", "Mapper")
	assert.Equal(t, "mapper_song", l.ID)

	l.ID = "custom"
	l.SetNameAndAuthor("Other Song", "Mapper")
	assert.Equal(t, "custom", l.ID)
	assert.Equal(t, "Other Song", l.Name)

	l.SetNameAndAuthor("Third", "Someone")
	assert.Equal(t, "someone_third", l.ID)
}

func TestConvertPreservesContentAndResetsFormatFields(t *testing.T) {
	l := sample()
	l.ID = "hand_edited"

	c := l.Convert(model.RawData)

	assert := assert.New(t)
	assert.Equal(model.RawData, c.Format)
	assert.Equal(l.Name, c.Name)
	assert.Equal(l.Author, c.Author)
	assert.Equal("mapper_song", c.ID)
	assert.Equal(model.Unspecified, c.Difficulty)
	assert.True(l.Notes.Equal(c.Notes))
	assert.True(l.Cover.Equal(c.Cover))
	assert.True(l.Audio.Equal(c.Audio))

	// deep copy
	c.Notes.Insert(5, model.Position{})
	c.Cover.Data[0] = 42
	assert.False(l.Notes.Has(5))
	assert.Equal(byte(1), l.Cover.Data[0])
}

func TestFingerprintTracksPersistedFields(t *testing.T) {
	base := sample()
	fp := base.Fingerprint()
	assert.Equal(t, fp, sample().Fingerprint())

	mutations := []struct {
		name   string
		mutate func(l *Level)
	}{
		{"id", func(l *Level) { l.ID = "x" }},
		{"name", func(l *Level) { l.Name = "x" }},
		{"author", func(l *Level) { l.Author = "x" }},
		{"difficulty", func(l *Level) { l.Difficulty = model.Easy }},
		{"note added", func(l *Level) { l.Notes.Insert(3000, model.Position{}) }},
		{"note order", func(l *Level) {
			l.Notes.Remove(1000, 0)
			l.Notes.Insert(1000, model.Position{X: 0, Y: 0})
		}},
		{"cover removed", func(l *Level) { l.Cover = nil }},
		{"cover bytes", func(l *Level) { l.Cover.Data[3] = 0 }},
		{"audio removed", func(l *Level) { l.Audio = nil }},
		{"audio bytes", func(l *Level) { l.Audio.Data = append(l.Audio.Data, 1) }},
		{"empty cover vs none", func(l *Level) { l.Cover = &model.Cover{} }},
	}
	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			l := sample()
			tt.mutate(l)
			assert.NotEqual(t, fp, l.Fingerprint())
			assert.False(t, base.Equal(l))
		})
	}
}

func TestFingerprintIgnoresFormat(t *testing.T) {
	l := sample()
	fp := l.Fingerprint()
	l.Format = model.RawData
	assert.Equal(t, fp, l.Fingerprint())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))
	// "é" is two bytes
	assert.Equal(t, "a", Truncate("aé", 2))
	assert.Equal(t, "aé", Truncate("aé", 3))
}

func TestLimitsFor(t *testing.T) {
	assert.Equal(t, Limits{ID: 128, Name: 128, Author: 64}, LimitsFor(model.Structured))
	assert.Equal(t, Limits{ID: 128, Name: 64, Author: 32}, LimitsFor(model.RawData))
}

func TestDerivedIDFitsLimit(t *testing.T) {
	l := New(model.Structured)
	l.SetNameAndAuthor(strings.Repeat("n", 128), strings.Repeat("é", 32))

	assert.Len(t, l.ID, 128)
	assert.True(t, utf8.ValidString(l.ID))
}

func TestConvertFitsTargetLimits(t *testing.T) {
	l := New(model.Structured)
	l.SetNameAndAuthor(strings.Repeat("n", 100), strings.Repeat("a", 60))

	c := l.Convert(model.RawData)
	limits := LimitsFor(model.RawData)

	assert := assert.New(t)
	assert.Len(c.Name, limits.Name)
	assert.Len(c.Author, limits.Author)
	assert.LessOrEqual(len(c.ID), limits.ID)
	assert.Equal(DeriveID(c.Author, c.Name), c.ID)
	assert.Len(l.Name, 100)
}
