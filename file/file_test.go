package file

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsphweid/ssedit/codec"
	"github.com/jsphweid/ssedit/level"
	"github.com/jsphweid/ssedit/mocks"
	"github.com/jsphweid/ssedit/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLevel() *level.Level {
	l := level.New(model.Structured)
	l.SetNameAndAuthor("Night Sky", "mapper")
	l.Notes.Insert(100, model.Position{X: 1, Y: 1})
	l.Notes.Insert(350, model.Position{X: 0.5, Y: 2})
	return l
}

func TestSaveAndLoad(t *testing.T) {
	fs := mocks.NewMockFileSystem()
	l := sampleLevel()

	require.NoError(t, Save(fs, "/levels/night.sspm", l))
	assert.Len(t, fs.Files, 1, "temporary file is renamed away")

	got, err := Load(fs, "/levels/night.sspm")
	require.NoError(t, err)
	assert.True(t, l.Equal(got))
	assert.Equal(t, model.Structured, got.Format)
}

func TestWriteUsesTemporarySibling(t *testing.T) {
	fs := mocks.NewMockFileSystem()
	fs.RenameError = errors.New("cross-device link")

	err := Write(fs, "/levels/a.ssrd", []byte("SSRD"))
	assert.ErrorIs(t, err, ErrWrite)
	assert.NotErrorIs(t, err, ErrIntegrityMismatch)
	require.Len(t, fs.Removed, 1)
	assert.True(t, strings.HasPrefix(fs.Removed[0], "/levels/.a.ssrd."))
	assert.Empty(t, fs.Files)
}

func TestTruncatedReadBackIsAnIntegrityError(t *testing.T) {
	fs := mocks.NewMockFileSystem()
	fs.Corrupt = mocks.Truncate(3)
	buf, err := codec.Encode(sampleLevel())
	require.NoError(t, err)

	err = Write(fs, "/levels/night.sspm", buf)
	require.ErrorIs(t, err, ErrIntegrityMismatch)
	assert.NotErrorIs(t, err, ErrWrite)
	assert.NotErrorIs(t, err, ErrRead)

	var ie *IntegrityError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "/levels/night.sspm", ie.Path)
	assert.Equal(t, len(buf), ie.Written)
	assert.Equal(t, len(buf)-3, ie.Read)
	assert.Equal(t, len(buf)-3, ie.At)
}

func TestFlippedByteIsAnIntegrityError(t *testing.T) {
	fs := mocks.NewMockFileSystem()
	fs.Corrupt = func(data []byte) []byte {
		data[5] ^= 0xFF
		return data
	}

	err := Write(fs, "x.sspm", []byte("0123456789"))
	var ie *IntegrityError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, 5, ie.At)
	assert.Equal(t, 10, ie.Read)
}

func TestFilesystemFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(fs *mocks.MockFileSystem)
		want  error
	}{
		{"write", func(fs *mocks.MockFileSystem) { fs.WriteError = errors.New("disk full") }, ErrWrite},
		{"rename", func(fs *mocks.MockFileSystem) { fs.RenameError = errors.New("busy") }, ErrWrite},
		{"read back", func(fs *mocks.MockFileSystem) { fs.ReadError = errors.New("io error") }, ErrRead},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := mocks.NewMockFileSystem()
			tt.setup(fs)
			err := Save(fs, "a.sspm", sampleLevel())
			assert.ErrorIs(t, err, tt.want)
			assert.NotErrorIs(t, err, ErrIntegrityMismatch)
		})
	}
}

func TestSaveRejectsConstraintsBeforeWriting(t *testing.T) {
	fs := mocks.NewMockFileSystem()
	l := sampleLevel()
	l.Author = strings.Repeat("x", 65)

	err := Save(fs, "a.sspm", l)
	assert.ErrorIs(t, err, codec.ErrConstraint)
	assert.Zero(t, fs.Writes)
}

func TestLoadErrors(t *testing.T) {
	fs := mocks.NewMockFileSystem()
	_, err := Load(fs, "missing.sspm")
	assert.ErrorIs(t, err, ErrRead)

	fs.Files["empty.sspm"] = nil
	_, err = Load(fs, "empty.sspm")
	var de *codec.DecodeError
	assert.ErrorAs(t, err, &de)
	assert.ErrorIs(t, err, codec.ErrEmpty)
}

func TestOSFileSystemRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.ssrd")
	l := sampleLevel().Convert(model.RawData)

	require.NoError(t, Save(NewOSFileSystem(), path, l))
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	got, err := Load(NewOSFileSystem(), path)
	require.NoError(t, err)
	assert.True(t, l.Equal(got))
	assert.Equal(t, model.RawData, got.Format)
}
