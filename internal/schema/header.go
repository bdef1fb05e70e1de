// Package schema decodes the fixed-offset block header present at the
// front of every grid block and every client-reply slot, giving the
// logically-stored size, the declared op, and (for client-reply slots)
// the command.
//
// The layout and parsing idiom is fixed-offset binary.LittleEndian
// field-by-field parsing, the same shape used elsewhere in this
// codebase for other on-disk structures.
package schema

import (
	"encoding/binary"
	"fmt"

	"github.com/vsrsim/verifier/internal/interfaces"
)

// HeaderSize is the fixed, on-disk size of a decoded header prefix:
// 8 bytes op + 4 bytes size + 4 bytes command.
const HeaderSize = 16

// HeaderOnlySize is the on-disk size of a reply header carrying no
// payload: a reply whose header size equals HeaderOnlySize is not
// materialized in the client-replies zone at all.
const HeaderOnlySize = HeaderSize

// Decoder implements interfaces.BlockHeaderDecoder.
type Decoder struct{}

// NewDecoder returns the schema module's block-header decoder.
func NewDecoder() *Decoder { return &Decoder{} }

// DecodeBlockHeader parses the fixed-offset header prefix of block.
func (Decoder) DecodeBlockHeader(block []byte) (interfaces.BlockHeader, error) {
	if len(block) < HeaderSize {
		return interfaces.BlockHeader{}, fmt.Errorf("schema: block too small for header: %d bytes, need %d", len(block), HeaderSize)
	}

	op := binary.LittleEndian.Uint64(block[0:8])
	size := binary.LittleEndian.Uint32(block[8:12])
	command := interfaces.Command(binary.LittleEndian.Uint32(block[12:16]))

	return interfaces.BlockHeader{Op: op, Size: size, Command: command}, nil
}

// EncodeBlockHeader writes h's fixed-offset prefix into block, which must
// be at least HeaderSize bytes. It is the test-side inverse of
// DecodeBlockHeader, used by storagesim and by test fixtures to build
// deterministic blocks.
func EncodeBlockHeader(block []byte, h interfaces.BlockHeader) error {
	if len(block) < HeaderSize {
		return fmt.Errorf("schema: block too small for header: %d bytes, need %d", len(block), HeaderSize)
	}

	binary.LittleEndian.PutUint64(block[0:8], h.Op)
	binary.LittleEndian.PutUint32(block[8:12], h.Size)
	binary.LittleEndian.PutUint32(block[12:16], uint32(h.Command))
	return nil
}

// SectorCeil rounds size up to the next multiple of sectorSize. Bytes in
// [size, SectorCeil(size, sectorSize)) are the padding region required to
// be all zero.
func SectorCeil(size uint32, sectorSize uint32) uint32 {
	if sectorSize == 0 {
		return size
	}
	rem := size % sectorSize
	if rem == 0 {
		return size
	}
	return size + (sectorSize - rem)
}
