package session

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/mgpai22/lipisync/internal/align"
	"github.com/mgpai22/lipisync/internal/export"
	"github.com/mgpai22/lipisync/internal/subtitle"
)

// Snapshot is one immutable state of a session: both tracks and the lines
// derived from them. Callers must not modify its slices.
type Snapshot struct {
	Source []subtitle.Cue
	Target []subtitle.Cue
	Lines  []align.Line

	// changes on load and on Resync, not on ordinary edits
	Version uuid.UUID
	// target covers a media chunk; negative local starts are allowed
	Bounded bool
}

// Window returns lines [start, end), clamped to the available range.
func (s *Snapshot) Window(start, end int) []align.Line {
	return export.Page(s.Lines, start, end)
}

// Fingerprint is a BLAKE3 digest of the target track's timing and text,
// so callers can tell whether an edit actually changed anything.
func (s *Snapshot) Fingerprint() string {
	h := blake3.New()
	var buf [16]byte
	for _, c := range s.Target {
		binary.BigEndian.PutUint64(buf[:8], uint64(c.Start))
		binary.BigEndian.PutUint64(buf[8:], uint64(c.End))
		_, _ = h.Write(buf[:])
		_, _ = h.Write([]byte(c.Category.String()))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(c.Text))
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
