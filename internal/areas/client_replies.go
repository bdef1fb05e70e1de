package areas

import (
	"fmt"

	"github.com/vsrsim/verifier/internal/checksum"
	"github.com/vsrsim/verifier/internal/interfaces"
	"github.com/vsrsim/verifier/internal/schema"
)

// ClientReplies computes the client-replies checksum: an XOR fold over
// every occupied, materialized reply slot. XOR (rather than an
// order-preserving concatenation) is deliberate: slot layout is already
// canonical by slot index, and the fold only needs to be insensitive to
// which slots happen to be vacant, not to their relative order.
//
// The caller must ensure sb.SyncOpMax() == 0 before calling; this
// precondition is what makes slot occupancy deterministic across
// replicas in the first place.
func ClientReplies(sb interfaces.Superblock, storage interfaces.StorageView, sectorSize uint32) (checksum.Value128, error) {
	if sb.SyncOpMax() != 0 {
		return checksum.Value128{}, fmt.Errorf("areas: client replies checksum requires a non-syncing replica (sync_op_max == 0)")
	}

	var acc checksum.Value128
	slots := sb.ClientSessionSlots()

	for slot := 0; slot < slots; slot++ {
		session := sb.ClientSession(slot)
		if session.SessionID == 0 {
			continue // vacant slot
		}

		if session.Header.Command != interfaces.CommandReply {
			return checksum.Value128{}, fmt.Errorf(
				"areas: client session slot %d is occupied but its header is not a reply command (internal assertion)", slot)
		}

		if session.Header.Size == schema.HeaderOnlySize {
			continue // reply has no payload, not materialized on disk
		}

		size := schema.SectorCeil(session.Header.Size, sectorSize)
		data, err := storage.ClientReplySlot(slot, size)
		if err != nil {
			return checksum.Value128{}, fmt.Errorf("areas: client reply slot %d: %w", slot, err)
		}

		var s checksum.Stream
		s.Init()
		s.Add(data)
		acc = acc.Xor(s.Checksum())
	}

	return acc, nil
}
