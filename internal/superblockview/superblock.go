// Package superblockview provides a concrete, in-memory implementation of
// the working superblock record interfaces.Superblock describes: commit
// number, sync state, redundant trailer bytes/checksums, and the
// client-sessions table.
//
// Its checksum-verification idiom — hash the declared bytes, compare
// against a stored checksum — is applied once per redundant trailer
// copy, using this module's 128-bit checksum.Stream.
package superblockview

import (
	"fmt"

	"github.com/vsrsim/verifier/internal/checksum"
	"github.com/vsrsim/verifier/internal/interfaces"
)

var _ interfaces.Superblock = (*Superblock)(nil)

// Superblock is a test/demo-only in-memory working superblock. A real
// system parses this from an on-disk trailer ring; this repo's concern
// is only the verifier that consumes one.
type Superblock struct {
	commitMin     uint64
	syncOpMax     uint64
	gridBlocksMax int

	// trailerCopies[area][copyIdx] holds that copy's raw bytes. Copy 0 is
	// the "working" copy: its checksum is what TrailerChecksum declares,
	// and FreeSetTrailerBytes returns copy 0 of the free-set area.
	trailerCopies map[interfaces.Area][][]byte
	checksums     map[interfaces.Area]checksum.Value128

	sessions []interfaces.ClientSessionSlot
}

// New returns a Superblock with copies redundant trailer copies per area
// and a free-set bitmap capacity of gridBlocksMax.
func New(copies int, gridBlocksMax int) *Superblock {
	sb := &Superblock{
		gridBlocksMax: gridBlocksMax,
		trailerCopies: make(map[interfaces.Area][][]byte, 3),
		checksums:     make(map[interfaces.Area]checksum.Value128, 3),
	}
	for _, area := range []interfaces.Area{
		interfaces.AreaSuperblockManifest,
		interfaces.AreaSuperblockFreeSet,
		interfaces.AreaSuperblockClientSessions,
	} {
		cp := make([][]byte, copies)
		for i := range cp {
			cp[i] = []byte{}
		}
		sb.trailerCopies[area] = cp
	}
	return sb
}

// SetCommitMin sets the checkpoint op this superblock was written at.
func (sb *Superblock) SetCommitMin(op uint64) { sb.commitMin = op }

// SetSyncOpMax sets the mid-sync indicator.
func (sb *Superblock) SetSyncOpMax(v uint64) { sb.syncOpMax = v }

// SetClientSessions installs the client-sessions table.
func (sb *Superblock) SetClientSessions(sessions []interfaces.ClientSessionSlot) {
	sb.sessions = sessions
}

// SetTrailerCopy installs raw bytes for one redundant copy of area. Copy
// 0's bytes determine the declared checksum every copy (including copy
// 0) is checked against; later copies can be set to different bytes to
// exercise the "divergent copy within one replica" assertion path.
func (sb *Superblock) SetTrailerCopy(area interfaces.Area, copyIdx int, raw []byte) {
	cp := sb.trailerCopies[area]
	if copyIdx >= len(cp) {
		grown := make([][]byte, copyIdx+1)
		copy(grown, cp)
		cp = grown
		sb.trailerCopies[area] = cp
	}
	cp[copyIdx] = raw
	if copyIdx == 0 {
		var s checksum.Stream
		s.Init()
		s.Add(raw)
		sb.checksums[area] = s.Checksum()
	}
}

// SetAllTrailerCopies is a convenience for the common case: every
// redundant copy holds identical bytes.
func (sb *Superblock) SetAllTrailerCopies(area interfaces.Area, raw []byte) {
	copies := len(sb.trailerCopies[area])
	for i := 0; i < copies; i++ {
		sb.SetTrailerCopy(area, i, raw)
	}
}

func (sb *Superblock) CommitMin() uint64 { return sb.commitMin }
func (sb *Superblock) SyncOpMax() uint64 { return sb.syncOpMax }

func (sb *Superblock) SuperblockCopies() int {
	return len(sb.trailerCopies[interfaces.AreaSuperblockManifest])
}

func (sb *Superblock) GridBlocksMax() int { return sb.gridBlocksMax }

func (sb *Superblock) ClientSessionSlots() int { return len(sb.sessions) }

func (sb *Superblock) ClientSession(slot int) interfaces.ClientSessionSlot {
	return sb.sessions[slot]
}

func (sb *Superblock) TrailerChecksum(area interfaces.Area) checksum.Value128 {
	return sb.checksums[area]
}

func (sb *Superblock) TrailerCopyBytes(area interfaces.Area, copyIdx int) ([]byte, error) {
	cp, ok := sb.trailerCopies[area]
	if !ok || copyIdx < 0 || copyIdx >= len(cp) {
		return nil, fmt.Errorf("superblockview: no copy %d for area %s", copyIdx, area)
	}
	return cp[copyIdx], nil
}

func (sb *Superblock) FreeSetTrailerBytes() ([]byte, error) {
	return sb.TrailerCopyBytes(interfaces.AreaSuperblockFreeSet, 0)
}
