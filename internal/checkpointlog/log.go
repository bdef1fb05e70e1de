// Package checkpointlog implements the write-once mapping from checkpoint
// operation number to a per-area checksum record. Structuring area lookups
// as "observation.Get(area), record.Get(area)" rather than named struct
// fields keeps adding a new area a local change.
package checkpointlog

import (
	"github.com/vsrsim/verifier/internal/checksum"
	"github.com/vsrsim/verifier/internal/interfaces"
)

// Record holds the optional per-area checksums observed or recorded for
// one checkpoint op. The first three superblock areas are always
// present; ClientReplies and Grid are present only for a non-syncing
// observation.
type Record struct {
	values map[interfaces.Area]checksum.Value128
}

// NewRecord returns an empty record ready to be filled via Set.
func NewRecord() *Record {
	return &Record{values: make(map[interfaces.Area]checksum.Value128, len(interfaces.AllAreas()))}
}

// Set records the checksum for area.
func (r *Record) Set(area interfaces.Area, v checksum.Value128) {
	r.values[area] = v
}

// Get returns the checksum for area and whether it was present.
func (r *Record) Get(area interfaces.Area) (checksum.Value128, bool) {
	v, ok := r.values[area]
	return v, ok
}

// Log is the write-once-per-op mapping from op to Record.
type Log struct {
	records map[uint64]*Record
}

// New returns an empty checkpoint log.
func New() *Log {
	return &Log{records: make(map[uint64]*Record)}
}

// Get returns the record at op, if any has been inserted yet.
func (l *Log) Get(op uint64) (*Record, bool) {
	r, ok := l.records[op]
	return r, ok
}

// Insert records rec at op. It must only be called when Get(op) has
// already reported absence — the log itself does not re-check, so that
// the caller can decide whether an absent slot is eligible for
// insertion (a syncing observation never is).
func (l *Log) Insert(op uint64, rec *Record) {
	l.records[op] = rec
}

// Len reports how many ops have been recorded.
func (l *Log) Len() int {
	return len(l.records)
}
