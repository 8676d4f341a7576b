// Package editor owns the level being edited. A Session replaces any notion
// of a global current document: every edit, save and query goes through it.
package editor

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jsphweid/ssedit/config"
	"github.com/jsphweid/ssedit/constants"
	"github.com/jsphweid/ssedit/file"
	"github.com/jsphweid/ssedit/level"
	"github.com/jsphweid/ssedit/model"
)

type Session struct {
	ID    uuid.UUID
	Level *level.Level
	Path  string
	Prefs config.Preferences

	saved  *baseline
	fs     file.FileSystem
	logger config.Logger
}

// baseline is what was last written successfully.
type baseline struct {
	fingerprint level.Fingerprint
	format      model.Format
}

type Options struct {
	FileSystem  file.FileSystem
	Logger      config.Logger
	Preferences *config.Preferences
}

func newSession(l *level.Level, opts Options) *Session {
	fs := opts.FileSystem
	if fs == nil {
		fs = file.NewOSFileSystem()
	}
	logger := opts.Logger
	if logger == nil {
		logger = config.Discard
	}
	prefs := config.DefaultPreferences()
	if opts.Preferences != nil {
		prefs = opts.Preferences.Normalize()
	}
	return &Session{
		ID:     uuid.New(),
		Level:  l,
		Prefs:  prefs,
		fs:     fs,
		logger: logger,
	}
}

// New starts an empty, never saved level.
func New(format model.Format, opts Options) *Session {
	return newSession(level.New(format), opts)
}

// Open loads path; the loaded content becomes the saved baseline.
func Open(path string, opts Options) (*Session, error) {
	s := newSession(nil, opts)
	l, err := file.Load(s.fs, path)
	if err != nil {
		return nil, err
	}
	s.Level = l
	s.Path = path
	s.markSaved()
	s.logger.Printf("opened %s (%s, %d notes)\n", path, l.Format, l.Notes.Len())
	return s, nil
}

func (s *Session) markSaved() {
	s.saved = &baseline{fingerprint: s.Level.Fingerprint(), format: s.Level.Format}
}

// Dirty reports whether the level differs from what was last saved. A level
// that was never saved is always dirty.
func (s *Session) Dirty() bool {
	if s.saved == nil {
		return true
	}
	return s.saved.format != s.Level.Format || s.saved.fingerprint != s.Level.Fingerprint()
}

// Save writes the level to its current path. The baseline only moves once
// the file has been read back and matches.
func (s *Session) Save() error {
	if s.Path == "" {
		return ErrNoPath
	}
	err := file.Save(s.fs, s.Path, s.Level)
	var ie *file.IntegrityError
	if errors.As(err, &ie) {
		s.logger.Printf("!!! %v\n", ie)
		return err
	}
	if err != nil {
		return err
	}
	s.markSaved()
	s.logger.Printf("saved %s\n", s.Path)
	return nil
}

// SaveAs saves to path and adopts it. An extension of the other format is
// refused; an unknown extension gets the level's own appended.
func (s *Session) SaveAs(path string) error {
	if f, ok := model.FormatFromPath(path); ok && f != s.Level.Format {
		return fmt.Errorf("%w: %s is %s, level is %s", ErrFormatMismatch, path, f, s.Level.Format)
	} else if !ok {
		path += s.Level.Format.Extension()
	}
	prev := s.Path
	s.Path = path
	if err := s.Save(); err != nil {
		s.Path = prev
		return err
	}
	return nil
}

// Convert switches the level to the other format. The path is dropped since
// its extension no longer fits.
func (s *Session) Convert(to model.Format) {
	if to == s.Level.Format {
		return
	}
	s.Level = s.Level.Convert(to)
	s.Path = ""
}

func (s *Session) SetMetadata(name, author string) {
	limits := level.LimitsFor(s.Level.Format)
	s.Level.SetNameAndAuthor(level.Truncate(name, limits.Name), level.Truncate(author, limits.Author))
}

func (s *Session) SetID(id string) {
	s.Level.ID = level.Truncate(id, level.LimitsFor(s.Level.Format).ID)
}

func (s *Session) SetDifficulty(d model.Difficulty) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %d", ErrDifficulty, d)
	}
	if s.Level.Format == model.RawData && d != model.Unspecified {
		return fmt.Errorf("%w: %s levels have none", ErrDifficulty, s.Level.Format)
	}
	s.Level.Difficulty = d
	return nil
}

func (s *Session) SetCover(c *model.Cover) {
	s.Level.Cover = c
}

func (s *Session) SetAudio(a *model.Audio) {
	s.Level.Audio = a
}

func checkTime(time int) error {
	if time < 0 || time > constants.MaxTimestamp {
		return fmt.Errorf("%w: %d", ErrTimeRange, time)
	}
	return nil
}

// SnapPosition applies the note snapping preference.
func (s *Session) SnapPosition(p model.Position) model.Position {
	return p.Snap(s.Prefs.NoteSnapping[0], s.Prefs.NoteSnapping[1])
}

// InsertNote places a snapped note at the playhead, rounded up to the next
// whole millisecond. It returns the time used.
func (s *Session) InsertNote(playhead float64, p model.Position) (int, error) {
	if math.IsNaN(playhead) || playhead > constants.MaxTimestamp {
		return 0, fmt.Errorf("%w: %v", ErrTimeRange, playhead)
	}
	time := int(math.Ceil(playhead))
	if err := checkTime(time); err != nil {
		return 0, err
	}
	s.Level.Notes.Insert(time, s.SnapPosition(p))
	return time, nil
}

func (s *Session) RemoveNote(time, index int) bool {
	return s.Level.Notes.Remove(time, index)
}

// OffsetNotes moves every note delta ms earlier. Nothing changes if a note
// would leave the valid range.
func (s *Session) OffsetNotes(delta int) error {
	first, last, ok := s.Level.Notes.Span()
	if !ok {
		return nil
	}
	if err := checkTime(first - delta); err != nil {
		return err
	}
	if err := checkTime(last - delta); err != nil {
		return err
	}
	s.Level.Notes.Shift(delta)
	return nil
}

func (s *Session) DeleteRange(start, end int) int {
	return s.Level.Notes.DeleteRange(start, end)
}

// SnapTime moves time onto the beat divisor grid, used when playback starts
// or stops. Without a BPM the time is only truncated.
func (s *Session) SnapTime(time float64) int {
	g := s.Prefs.Grid()
	t, err := g.NearestGridTime(time, g.Divisor)
	if err != nil {
		return int(time)
	}
	return t
}
