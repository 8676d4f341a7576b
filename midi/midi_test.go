package midi

import (
	"bytes"
	"testing"

	"github.com/jsphweid/ssedit/model"
	"github.com/jsphweid/ssedit/musictime"
	"github.com/jsphweid/ssedit/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyMapping(t *testing.T) {
	for key := uint8(baseKey); key < baseKey+9; key++ {
		assert.Equal(t, key, KeyForPosition(PositionForKey(key)))
	}
	assert.Equal(t, model.Position{X: 2, Y: 1}, PositionForKey(baseKey+5))
	assert.Equal(t, uint8(baseKey+8), KeyForPosition(model.Position{X: 7, Y: 2.4}))
	assert.Equal(t, uint8(baseKey), KeyForPosition(model.Position{X: -1, Y: 0.2}))
}

func TestExportImportRoundTrip(t *testing.T) {
	notes := timeline.New()
	notes.Insert(0, model.Position{X: 1, Y: 1})
	notes.Insert(250, model.Position{X: 0, Y: 2})
	notes.Insert(250, model.Position{X: 2, Y: 0})
	notes.Insert(1001, model.Position{X: 2, Y: 2})
	notes.Insert(1002, model.Position{X: 0, Y: 0})

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, notes, 120, musictime.Signature{Num: 3, Denom: 4}))

	res, err := Import(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.InDelta(t, 120.0, res.BPM, 1e-6)
	assert.Equal(t, musictime.Signature{Num: 3, Denom: 4}, res.Signature)
	assert.Equal(t, notes.SortedTimes(), res.Notes.SortedTimes())
	assert.True(t, notes.Equal(res.Notes))
}

func TestExportNeedsBPM(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Export(&buf, timeline.New(), 0, musictime.Default().Signature), musictime.ErrNoBPM)
	assert.Zero(t, buf.Len())
}

func TestImportGarbage(t *testing.T) {
	_, err := Import(bytes.NewReader([]byte("not a midi file")))
	assert.ErrorIs(t, err, ErrParse)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile("does/not/exist.mid")
	assert.Error(t, err)
}
