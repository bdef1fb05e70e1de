// Package compactionlog implements the cumulative grid-block checksum
// recorded at each compaction half-measure. A first-writer-wins map keyed
// by half-measure number lets a half-measure be observed out of arrival
// order without pre-sizing a slice, mirroring checkpointlog's shape.
package compactionlog

import "github.com/vsrsim/verifier/internal/checksum"

// Log is the write-once-per-index mapping from half-measure number to
// the grid checksum observed there.
type Log struct {
	values map[uint64]checksum.Value128
}

// New returns an empty compaction log.
func New() *Log {
	return &Log{values: make(map[uint64]checksum.Value128)}
}

// Observation reports the result of recording or comparing a value at
// one half-measure index.
type Observation struct {
	// Inserted is true when this call established the index's recorded
	// value (first writer).
	Inserted bool
	// Matched is true when the observed value equals the recorded value
	// (always true when Inserted).
	Matched bool
	// Recorded is the value now on file for this index.
	Recorded checksum.Value128
}

// Observe records value at index if no value has been recorded yet,
// otherwise compares value against the recorded one. It never mutates an
// already-recorded value: once a (half-measure, checksum) pair is
// recorded, it is immutable.
func (l *Log) Observe(index uint64, value checksum.Value128) Observation {
	if prev, ok := l.values[index]; ok {
		return Observation{Matched: prev == value, Recorded: prev}
	}
	l.values[index] = value
	return Observation{Inserted: true, Matched: true, Recorded: value}
}

// Len reports how many half-measure indices have been recorded.
func (l *Log) Len() int {
	return len(l.values)
}
