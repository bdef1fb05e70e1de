// Package areas implements the pure checksum functions computed over a
// replica's storage: the redundant superblock trailers, the
// client-replies zone, and the acquired grid-block set (used both for
// checkpoint's "grid" area and for compaction half-measures, which
// compute the latter by invoking the same grid procedure again).
package areas

import (
	"fmt"

	"github.com/vsrsim/verifier/internal/checksum"
	"github.com/vsrsim/verifier/internal/interfaces"
)

// Trailer computes the superblock-trailer checksum for area, which must
// be one of the three superblock areas. It verifies that every
// redundant on-disk copy hashes to the trailer's declared checksum;
// disagreement among a single replica's own copies is an internal
// assertion (the superblock already validated itself upstream), never a
// cross-replica divergence.
func Trailer(sb interfaces.Superblock, area interfaces.Area) (checksum.Value128, error) {
	expected := sb.TrailerChecksum(area)
	copies := sb.SuperblockCopies()

	for i := 0; i < copies; i++ {
		raw, err := sb.TrailerCopyBytes(area, i)
		if err != nil {
			return checksum.Value128{}, fmt.Errorf("areas: %s trailer copy %d: %w", area, i, err)
		}

		var s checksum.Stream
		s.Init()
		s.Add(raw)

		if got := s.Checksum(); got != expected {
			return checksum.Value128{}, fmt.Errorf(
				"areas: %s trailer copy %d checksum mismatch within one replica (internal assertion — superblock should have validated itself)", area, i)
		}
	}

	return expected, nil
}
