package freeset

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_DecodeAndIterate(t *testing.T) {
	s := New(130)

	trailer := make([]byte, 24) // 3 words = 192 bits, capacity masks to 130
	binary.LittleEndian.PutUint64(trailer[0:8], 1<<0|1<<5|1<<63)
	binary.LittleEndian.PutUint64(trailer[8:16], 1<<0) // bit 64
	binary.LittleEndian.PutUint64(trailer[16:24], 1<<1|1<<5)

	require.NoError(t, s.Decode(trailer))

	var got []int
	require.NoError(t, s.ForEachSet(func(bit int) error {
		got = append(got, bit)
		return nil
	}))

	assert.Equal(t, []int{0, 5, 63, 64, 129}, got)
}

func TestSet_MasksBitsBeyondCapacity(t *testing.T) {
	s := New(4)
	trailer := make([]byte, 8)
	binary.LittleEndian.PutUint64(trailer, 0xFF) // bits 0..7, only 0..3 valid

	require.NoError(t, s.Decode(trailer))

	var got []int
	require.NoError(t, s.ForEachSet(func(bit int) error { got = append(got, bit); return nil }))
	assert.Equal(t, []int{0, 1, 2, 3}, got)
}

func TestSet_EmptyTrailerIsEmptySet(t *testing.T) {
	s := New(64)
	require.NoError(t, s.Decode(nil))

	var count int
	require.NoError(t, s.ForEachSet(func(bit int) error { count++; return nil }))
	assert.Zero(t, count)
}

func TestSet_ResetReturnsToInitialState(t *testing.T) {
	s := New(64)
	trailer := make([]byte, 8)
	binary.LittleEndian.PutUint64(trailer, 0x01)
	require.NoError(t, s.Decode(trailer))
	assert.True(t, s.IsSet(0))

	s.Reset()
	assert.False(t, s.IsSet(0))

	var count int
	require.NoError(t, s.ForEachSet(func(bit int) error { count++; return nil }))
	assert.Zero(t, count)
}

func TestSet_TrailerTooLargeIsError(t *testing.T) {
	s := New(8)
	err := s.Decode(make([]byte, 16))
	assert.Error(t, err)
}

func TestSet_PartialWordTrailer(t *testing.T) {
	s := New(16)
	// 3 bytes, not a multiple of 8 — low 3 bytes used, rest implicitly zero.
	err := s.Decode([]byte{0x01, 0x02, 0x00})
	require.NoError(t, err)
	assert.True(t, s.IsSet(0))
	assert.True(t, s.IsSet(9))
}
