package areas

import (
	"fmt"

	"github.com/vsrsim/verifier/internal/checksum"
	"github.com/vsrsim/verifier/internal/interfaces"
	"github.com/vsrsim/verifier/internal/schema"
)

// fakeSuperblock and fakeStorage are minimal, hand-rolled test doubles —
// this package has no dependency on internal/storagesim or
// internal/superblockview so its tests stay narrowly scoped to the pure
// checksum functions.

type fakeSuperblock struct {
	commitMin  uint64
	syncOpMax  uint64
	copies     int
	trailers   map[interfaces.Area][][]byte // per-area, per-copy bytes
	checksums  map[interfaces.Area]checksum.Value128
	freeSet    []byte
	gridMax    int
	sessions   []interfaces.ClientSessionSlot
}

func (f *fakeSuperblock) CommitMin() uint64      { return f.commitMin }
func (f *fakeSuperblock) SyncOpMax() uint64      { return f.syncOpMax }
func (f *fakeSuperblock) SuperblockCopies() int  { return f.copies }
func (f *fakeSuperblock) GridBlocksMax() int     { return f.gridMax }
func (f *fakeSuperblock) ClientSessionSlots() int { return len(f.sessions) }

func (f *fakeSuperblock) ClientSession(slot int) interfaces.ClientSessionSlot {
	return f.sessions[slot]
}

func (f *fakeSuperblock) TrailerChecksum(area interfaces.Area) checksum.Value128 {
	return f.checksums[area]
}

func (f *fakeSuperblock) TrailerCopyBytes(area interfaces.Area, copyIdx int) ([]byte, error) {
	copies := f.trailers[area]
	if copyIdx < 0 || copyIdx >= len(copies) {
		return nil, fmt.Errorf("no copy %d for %s", copyIdx, area)
	}
	return copies[copyIdx], nil
}

func (f *fakeSuperblock) FreeSetTrailerBytes() ([]byte, error) {
	return f.freeSet, nil
}

// sumOf computes the checksum.Stream value of a single Add(raw) call, the
// same way areas.Trailer / areas.Grid verify trailer bytes.
func sumOf(raw []byte) checksum.Value128 {
	var s checksum.Stream
	s.Init()
	s.Add(raw)
	return s.Checksum()
}

func newFakeSuperblockWithTrailer(area interfaces.Area, raw []byte, copies int) *fakeSuperblock {
	cp := make([][]byte, copies)
	for i := range cp {
		cp[i] = raw
	}
	sb := &fakeSuperblock{
		copies:    copies,
		trailers:  map[interfaces.Area][][]byte{area: cp},
		checksums: map[interfaces.Area]checksum.Value128{area: sumOf(raw)},
	}
	if area == interfaces.AreaSuperblockFreeSet {
		sb.freeSet = raw
	}
	return sb
}

type fakeStorage struct {
	blocks map[uint64][]byte
	slots  map[int][]byte
}

func (f *fakeStorage) Memory(offset, length uint64) ([]byte, error) {
	return nil, fmt.Errorf("not implemented in fake")
}

func (f *fakeStorage) GridBlock(address uint64) ([]byte, bool) {
	b, ok := f.blocks[address]
	return b, ok
}

func (f *fakeStorage) ClientReplySlot(slot int, size uint32) ([]byte, error) {
	b, ok := f.slots[slot]
	if !ok {
		return nil, fmt.Errorf("no slot %d", slot)
	}
	if uint32(len(b)) < size {
		return nil, fmt.Errorf("slot %d shorter than requested size", slot)
	}
	return b[:size], nil
}

// buildGridBlock constructs a block buffer of blockSize bytes with a
// valid header (op == addr, given size) followed by payload and
// zero-padding out to sectorCeil(size).
func buildGridBlock(addr uint64, size uint32, payloadByte byte, blockSize int) []byte {
	block := make([]byte, blockSize)
	_ = schema.EncodeBlockHeader(block, interfaces.BlockHeader{Op: addr, Size: size})
	for i := schema.HeaderSize; i < int(size); i++ {
		block[i] = payloadByte
	}
	return block
}
