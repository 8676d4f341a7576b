// Package file moves encoded levels to and from disk. Every save is read
// back and compared against the encoded buffer before it counts.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jsphweid/ssedit/codec"
	"github.com/jsphweid/ssedit/level"
)

// FileSystem is the subset of the OS the save path touches.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm uint32) error
	Rename(from, to string) error
	Remove(name string) error
}

type OSFileSystem struct{}

func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (fs *OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (fs *OSFileSystem) WriteFile(name string, data []byte, perm uint32) error {
	return os.WriteFile(name, data, os.FileMode(perm))
}

func (fs *OSFileSystem) Rename(from, to string) error {
	return os.Rename(from, to)
}

func (fs *OSFileSystem) Remove(name string) error {
	return os.Remove(name)
}

const perm = 0o644

// Write stores buf at path through a temporary sibling and a rename, then
// reads path back and compares. A mismatch is an *IntegrityError.
func Write(fs FileSystem, path string, buf []byte) error {
	tmp := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	if err := fs.WriteFile(tmp, buf, perm); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := fs.Rename(tmp, path); err != nil {
		fs.Remove(tmp)
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	got, err := fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRead, err)
	}
	if at := firstDifference(buf, got); at >= 0 {
		return &IntegrityError{Path: path, Written: len(buf), Read: len(got), At: at}
	}
	return nil
}

// firstDifference returns -1 when a and b are identical.
func firstDifference(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) != len(b) {
		return n
	}
	return -1
}

// Save encodes l in its own format and writes it with Write. Constraint
// violations are returned before anything touches the filesystem.
func Save(fs FileSystem, path string, l *level.Level) error {
	buf, err := codec.Encode(l)
	if err != nil {
		return err
	}
	return Write(fs, path, buf)
}

// Load reads and decodes the level at path. The format comes from the
// file's magic, not its extension.
func Load(fs FileSystem, path string) (*level.Level, error) {
	buf, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return codec.Decode(buf)
}
