package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/jsphweid/ssedit/level"
	"github.com/jsphweid/ssedit/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	c := openMemory(t)

	l := level.New(model.Structured)
	l.SetNameAndAuthor("Song", "Mapper")
	l.Notes.Insert(1200, model.Position{X: 1, Y: 1})
	l.Notes.Insert(1200, model.Position{X: 0, Y: 1})

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, c.Record(ctx, EntryFor("a.sspm", l, base)))
	require.NoError(t, c.Record(ctx, EntryFor("b.sspm", l, base.Add(time.Minute))))
	require.NoError(t, c.Record(ctx, EntryFor("c.ssrd", l.Convert(model.RawData), base.Add(2*time.Minute))))

	recent, err := c.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c.ssrd", recent[0].Path)
	assert.Equal(t, "Raw Data", recent[0].Format)
	assert.Equal(t, "b.sspm", recent[1].Path)
	assert.Equal(t, 2, recent[1].Notes)
	assert.Equal(t, 1200, recent[1].LengthMs)
	assert.Equal(t, l.Fingerprint().String(), recent[1].Fingerprint)
	assert.True(t, base.Add(time.Minute).Equal(recent[1].SavedAt))
}

func TestRecordReplacesSamePath(t *testing.T) {
	ctx := context.Background()
	c := openMemory(t)

	l := level.New(model.Structured)
	require.NoError(t, c.Record(ctx, EntryFor("a.sspm", l, time.Unix(10, 0))))
	l.Name = "Renamed"
	require.NoError(t, c.Record(ctx, EntryFor("a.sspm", l, time.Unix(20, 0))))

	recent, err := c.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Renamed", recent[0].Name)

	ok, err := c.Forget(ctx, "a.sspm")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = c.Forget(ctx, "a.sspm")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecordDefaultsSavedAt(t *testing.T) {
	ctx := context.Background()
	c := openMemory(t)
	before := time.Now()
	require.NoError(t, c.Record(ctx, Entry{Path: "x.sspm"}))

	recent, err := c.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.False(t, recent[0].SavedAt.Before(before.Round(0)))
}
