package areas

import (
	"encoding/binary"
	"fmt"

	"github.com/vsrsim/verifier/internal/checksum"
	"github.com/vsrsim/verifier/internal/freeset"
	"github.com/vsrsim/verifier/internal/interfaces"
	"github.com/vsrsim/verifier/internal/logging"
	"github.com/vsrsim/verifier/internal/schema"
)

// Grid computes the grid checksum: fold every acquired block's
// logically-stored bytes, plus its address (a defensive mix so two
// distinct acquired addresses with identical payloads cannot cancel),
// into one checksum.Stream, in ascending bit order.
//
// fs is the verifier's owned, reused free-set buffer; Grid decodes into
// it and resets it before returning, so no allocation happens on this
// path.
//
// This is invoked both for the checkpoint "grid" area and — with the
// same superblock and storage view at the relevant instant — for each
// compaction half-measure, since the grid checksum procedure itself
// does not distinguish the two call sites.
//
// A block whose header does not yet validate (header.Op != address) is
// silently excluded from the checksum rather than treated as a
// divergence or an assertion. The manifest log is allowed to mark a
// block acquired several beats before the block itself is written;
// excluding such blocks is the narrowest fix that preserves the
// invariant for every block that *is* actually written.
func Grid(sb interfaces.Superblock, storage interfaces.StorageView, fs *freeset.Set, decoder interfaces.BlockHeaderDecoder, sectorSize uint32) (checksum.Value128, error) {
	trailer, err := sb.FreeSetTrailerBytes()
	if err != nil {
		return checksum.Value128{}, fmt.Errorf("areas: free-set trailer bytes: %w", err)
	}

	var trailerCheck checksum.Stream
	trailerCheck.Init()
	trailerCheck.Add(trailer)
	if got := trailerCheck.Checksum(); got != sb.TrailerChecksum(interfaces.AreaSuperblockFreeSet) {
		return checksum.Value128{}, fmt.Errorf(
			"areas: free-set trailer checksum mismatch (internal assertion — superblock should have validated itself)")
	}

	if err := fs.Decode(trailer); err != nil {
		return checksum.Value128{}, fmt.Errorf("areas: decode free-set: %w", err)
	}
	defer fs.Reset()

	var stream checksum.Stream
	stream.Init()
	var blocksMissing int

	iterErr := fs.ForEachSet(func(bit int) error {
		addr := uint64(bit) + 1

		block, ok := storage.GridBlock(addr)
		if !ok {
			blocksMissing++
			logging.Warnf("grid block %d marked acquired in the free set but missing from storage", addr)
			return nil
		}

		header, err := decoder.DecodeBlockHeader(block)
		if err != nil {
			return fmt.Errorf("areas: decode header of grid block %d: %w", addr, err)
		}

		if header.Op != addr {
			// The manifest log may have acquired this address before
			// writing its block; treat it as not-yet-deterministic rather
			// than as a divergence or an assertion.
			return nil
		}

		size := header.Size
		if uint64(size) > uint64(len(block)) {
			return fmt.Errorf("areas: grid block %d declares size %d exceeding block length %d", addr, size, len(block))
		}

		stream.Add(block[:size])

		var addrBuf [8]byte
		binary.LittleEndian.PutUint64(addrBuf[:], addr)
		stream.Add(addrBuf[:])

		ceil := schema.SectorCeil(size, sectorSize)
		if uint64(ceil) > uint64(len(block)) {
			ceil = uint32(len(block))
		}
		for _, b := range block[size:ceil] {
			if b != 0 {
				return fmt.Errorf("areas: grid block %d has non-zero padding in [%d, %d) (internal assertion)", addr, size, ceil)
			}
		}

		return nil
	})
	if iterErr != nil {
		return checksum.Value128{}, iterErr
	}

	if blocksMissing > 0 {
		return checksum.Value128{}, fmt.Errorf(
			"areas: %d acquired grid block(s) missing from storage (internal assertion — free-set inconsistent with grid)", blocksMissing)
	}

	return stream.Checksum(), nil
}
