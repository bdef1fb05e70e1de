// Package storagesim provides an in-memory simulated block-storage image
// implementing interfaces.StorageView. The real simulated block device is
// an external collaborator outside this repository's scope; this is the
// miniature, in-memory stand-in needed to exercise the verifier in tests
// and in the demo CLI.
//
// Device holds a single in-memory []byte with fixed offsets carved out
// for the grid region and the client-replies zone, addressed the way a
// file-backed, offset-addressed device would be.
package storagesim

import (
	"fmt"

	"github.com/vsrsim/verifier/internal/interfaces"
	"github.com/vsrsim/verifier/internal/schema"
)

var _ interfaces.StorageView = (*Device)(nil)

// Config sizes a simulated device's regions.
type Config struct {
	BlockSize          uint64
	GridBlocksMax      int
	ClientSessionSlots int
	ClientReplySlotCap uint32
}

// Device is an in-memory simulated storage image, addressable as a flat
// memory range, grid blocks by address, and client-reply slots by index.
type Device struct {
	image               []byte
	blockSize           uint64
	gridOffset          uint64
	clientRepliesOffset uint64
	clientReplySlotCap  uint32
	unmapped            map[uint64]bool
}

// New allocates a zeroed simulated device sized per cfg. Grid block
// address 0 is reserved; the image reserves its slot so that address
// arithmetic stays simple. GridBlock does not treat address 0 specially;
// the verifier never asks for it, since acquired addresses start at 1.
func New(cfg Config) *Device {
	gridOffset := uint64(0)
	gridSize := cfg.BlockSize * uint64(cfg.GridBlocksMax+1)
	clientRepliesOffset := gridOffset + gridSize
	clientRepliesSize := uint64(cfg.ClientReplySlotCap) * uint64(cfg.ClientSessionSlots)

	return &Device{
		image:               make([]byte, clientRepliesOffset+clientRepliesSize),
		blockSize:           cfg.BlockSize,
		gridOffset:          gridOffset,
		clientRepliesOffset: clientRepliesOffset,
		clientReplySlotCap:  cfg.ClientReplySlotCap,
		unmapped:            make(map[uint64]bool),
	}
}

// Memory returns the byte range [offset, offset+length) of the full
// simulated image.
func (d *Device) Memory(offset, length uint64) ([]byte, error) {
	if offset+length > uint64(len(d.image)) {
		return nil, fmt.Errorf("storagesim: memory range [%d,%d) exceeds image size %d", offset, offset+length, len(d.image))
	}
	return d.image[offset : offset+length], nil
}

func (d *Device) blockOffset(address uint64) uint64 {
	return d.gridOffset + address*d.blockSize
}

// GridBlock resolves address to its on-device bytes. ok is false when the
// address has been explicitly Unmap'd (simulating a free-set/grid
// inconsistency) or falls outside the image.
func (d *Device) GridBlock(address uint64) ([]byte, bool) {
	if d.unmapped[address] {
		return nil, false
	}
	off := d.blockOffset(address)
	if off+d.blockSize > uint64(len(d.image)) {
		return nil, false
	}
	return d.image[off : off+d.blockSize], true
}

// WriteGridBlock zeroes address's block, writes header at its front, and
// copies payload immediately after — a test/demo-only helper, the
// inverse of what the LSM engine would do in the real system.
func (d *Device) WriteGridBlock(address uint64, header interfaces.BlockHeader, payload []byte) error {
	block, ok := d.GridBlock(address)
	if !ok {
		return fmt.Errorf("storagesim: address %d out of range", address)
	}
	for i := range block {
		block[i] = 0
	}
	if err := schema.EncodeBlockHeader(block, header); err != nil {
		return err
	}
	if uint64(schema.HeaderSize)+uint64(len(payload)) > d.blockSize {
		return fmt.Errorf("storagesim: payload of %d bytes overflows block size %d", len(payload), d.blockSize)
	}
	copy(block[schema.HeaderSize:], payload)
	return nil
}

// Unmap marks address as absent from storage even though it falls
// within the image — used to simulate an acquired block the grid does
// not actually have.
func (d *Device) Unmap(address uint64) {
	d.unmapped[address] = true
}

// ClientReplySlot resolves slot to its byte range in the client-replies
// zone, sized to size bytes (sectorCeil(header.size)).
func (d *Device) ClientReplySlot(slot int, size uint32) ([]byte, error) {
	if size > d.clientReplySlotCap {
		return nil, fmt.Errorf("storagesim: requested size %d exceeds slot capacity %d", size, d.clientReplySlotCap)
	}
	off := d.clientRepliesOffset + uint64(slot)*uint64(d.clientReplySlotCap)
	if off+uint64(size) > uint64(len(d.image)) {
		return nil, fmt.Errorf("storagesim: client reply slot %d out of range", slot)
	}
	return d.image[off : off+uint64(size)], nil
}

// WriteClientReply copies data into slot's region — a test/demo helper.
func (d *Device) WriteClientReply(slot int, data []byte) error {
	if uint32(len(data)) > d.clientReplySlotCap {
		return fmt.Errorf("storagesim: reply of %d bytes exceeds slot capacity %d", len(data), d.clientReplySlotCap)
	}
	off := d.clientRepliesOffset + uint64(slot)*uint64(d.clientReplySlotCap)
	copy(d.image[off:], data)
	return nil
}
