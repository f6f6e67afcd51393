// Package session owns a source/target track pair and the lines aligned
// from them. Every edit validates the target track, re-aligns, and
// publishes a new immutable Snapshot; readers never see a partial edit.
package session

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/mgpai22/lipisync/internal/align"
	"github.com/mgpai22/lipisync/internal/logging"
	"github.com/mgpai22/lipisync/internal/subtitle"
)

// length of a cue inserted without a source range
const DefaultCueDuration = 2 * time.Second

type Session struct {
	state           atomic.Pointer[Snapshot]
	logger          *logging.Logger
	bounded         bool
	offset          time.Duration
	defaultDuration time.Duration
}

type Option func(*Session)

func WithLogger(logger *logging.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithChunk marks the target as a bounded sub-range of a longer media
// timeline starting at offset. Local starts may then go negative.
func WithChunk(offset time.Duration) Option {
	return func(s *Session) {
		s.bounded = true
		s.offset = offset
	}
}

func WithDefaultDuration(d time.Duration) Option {
	return func(s *Session) {
		if d >= subtitle.MinGap {
			s.defaultDuration = d
		}
	}
}

func New(opts ...Option) *Session {
	s := &Session{
		logger:          logging.Nop(),
		defaultDuration: DefaultCueDuration,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.Store(&Snapshot{
		Source:  []subtitle.Cue{},
		Target:  []subtitle.Cue{},
		Lines:   []align.Line{},
		Version: uuid.New(),
		Bounded: s.bounded,
	})
	return s
}

func (s *Session) Snapshot() *Snapshot {
	return s.state.Load()
}

func (s *Session) Lines() []align.Line {
	return s.state.Load().Lines
}

func (s *Session) Window(start, end int) []align.Line {
	return s.state.Load().Window(start, end)
}

// absolute timeline position of local time zero
func (s *Session) Offset() time.Duration {
	return s.offset
}

// ReplaceSource loads a new reference track. The input is trusted and copied.
func (s *Session) ReplaceSource(cues []subtitle.Cue) *Snapshot {
	cur := s.state.Load()
	return s.commit(subtitle.CloneCues(cues), cur.Target, true)
}

// ReplaceTarget bulk-loads the authored track without edit validation.
func (s *Session) ReplaceTarget(cues []subtitle.Cue) *Snapshot {
	cur := s.state.Load()
	return s.commit(cur.Source, subtitle.CloneCues(cues), true)
}

// Resync re-attaches the target to the current source: lines are
// recomputed, target timing and count are untouched, and the snapshot gets
// a fresh Version so the track is persisted as a new revision.
func (s *Session) Resync() *Snapshot {
	cur := s.state.Load()
	snap := s.commit(cur.Source, cur.Target, true)
	s.logger.Debugw("Resynced target track",
		"lines", len(snap.Lines),
		"version", snap.Version.String(),
	)
	return snap
}

func (s *Session) commit(source, target []subtitle.Cue, newVersion bool) *Snapshot {
	version := s.state.Load().Version
	if newVersion {
		version = uuid.New()
	}
	if source == nil {
		source = []subtitle.Cue{}
	}
	if target == nil {
		target = []subtitle.Cue{}
	}
	snap := &Snapshot{
		Source:  source,
		Target:  target,
		Lines:   align.Align(source, target),
		Version: version,
		Bounded: s.bounded,
	}
	s.state.Store(snap)
	return snap
}

func (s *Session) reject(op, reason string, kv ...any) {
	s.logger.Debugw("Rejected "+op, append([]any{"reason", reason}, kv...)...)
}
