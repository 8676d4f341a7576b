package level

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"
)

// Fingerprint identifies the persisted content of a level. Two levels have
// the same fingerprint iff their id, name, author, difficulty, notes, cover
// and audio are equal.
type Fingerprint [sha256.Size]byte

func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// Fingerprint hashes every persisted field in a fixed order, length
// prefixed. Notes are visited in ascending time and insertion order.
func (l *Level) Fingerprint() Fingerprint {
	h := sha256.New()
	writeString(h, l.ID)
	writeString(h, l.Name)
	writeString(h, l.Author)
	writeUint(h, uint64(uint8(l.Difficulty)))

	writeUint(h, uint64(l.Notes.Len()))
	for time := range l.Notes.Times() {
		placements := l.Notes.At(time)
		writeUint(h, uint64(int64(time)))
		writeUint(h, uint64(len(placements)))
		for _, p := range placements {
			writeUint(h, math.Float64bits(p.X))
			writeUint(h, math.Float64bits(p.Y))
		}
	}

	if l.Cover == nil {
		writeUint(h, 0)
	} else {
		writeUint(h, 1)
		writeUint(h, uint64(l.Cover.Width))
		writeUint(h, uint64(l.Cover.Height))
		writeBytes(h, l.Cover.Data)
	}
	if l.Audio == nil {
		writeUint(h, 0)
	} else {
		writeUint(h, 1)
		writeUint(h, uint64(l.Audio.SampleRate))
		writeUint(h, uint64(l.Audio.Channels))
		writeUint(h, uint64(l.Audio.BitDepth))
		writeBytes(h, l.Audio.Data)
	}

	var f Fingerprint
	copy(f[:], h.Sum(nil))
	return f
}

func writeUint(h hash.Hash, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	h.Write(buf[:])
}

func writeBytes(h hash.Hash, b []byte) {
	writeUint(h, uint64(len(b)))
	h.Write(b)
}

func writeString(h hash.Hash, s string) {
	writeBytes(h, []byte(s))
}
