package compactionlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vsrsim/verifier/internal/checksum"
)

func TestLog_FirstWriterWinsThenCompares(t *testing.T) {
	l := New()

	v := checksum.Value128{Lo: 1, Hi: 2}
	obs1 := l.Observe(0, v)
	assert.True(t, obs1.Inserted)
	assert.True(t, obs1.Matched)

	obs2 := l.Observe(0, v)
	assert.False(t, obs2.Inserted)
	assert.True(t, obs2.Matched)
}

func TestLog_MismatchDetected(t *testing.T) {
	l := New()
	l.Observe(1, checksum.Value128{Lo: 1})

	obs := l.Observe(1, checksum.Value128{Lo: 2})
	assert.False(t, obs.Matched)
	assert.Equal(t, checksum.Value128{Lo: 1}, obs.Recorded)
}

func TestLog_IndependentIndices(t *testing.T) {
	l := New()
	l.Observe(0, checksum.Value128{Lo: 1})
	l.Observe(1, checksum.Value128{Lo: 2})
	assert.Equal(t, 2, l.Len())
}
