// Package verifier implements the two entry points a replica runtime
// calls at compaction half-measure boundaries and at checkpoint events,
// composing the area checksummers with first-writer-wins recording and
// comparison against the two logs.
package verifier

import (
	"fmt"

	"github.com/vsrsim/verifier/internal/areas"
	"github.com/vsrsim/verifier/internal/checkpointlog"
	"github.com/vsrsim/verifier/internal/compactionlog"
	"github.com/vsrsim/verifier/internal/freeset"
	"github.com/vsrsim/verifier/internal/interfaces"
	"github.com/vsrsim/verifier/internal/logging"
)

// Verifier is stateless between events except for its two logs and the
// reusable free-set bitmap. One instance exists per simulation, not per
// replica: replicas submit observations to it, and it is the
// authoritative cross-replica oracle.
type Verifier struct {
	freeSet    *freeset.Set
	decoder    interfaces.BlockHeaderDecoder
	sectorSize uint32

	compactions *compactionlog.Log
	checkpoints *checkpointlog.Log
}

// New allocates a Verifier. gridBlocksMax bounds the free-set bitmap
// (allocated once here and reused for the Verifier's entire lifetime);
// sectorSize is the device sector size used to compute padding regions.
func New(gridBlocksMax int, sectorSize uint32, decoder interfaces.BlockHeaderDecoder) *Verifier {
	return &Verifier{
		freeSet:     freeset.New(gridBlocksMax),
		decoder:     decoder,
		sectorSize:  sectorSize,
		compactions: compactionlog.New(),
		checkpoints: checkpointlog.New(),
	}
}

// Close releases the verifier's owned resources. The two logs and the
// bitmap buffer are exclusively owned by this instance.
func (v *Verifier) Close() {
	v.freeSet = nil
	v.compactions = nil
	v.checkpoints = nil
}

// checkGridBlocksMax confirms sb declares the same free-set capacity the
// Verifier was constructed with. A replica whose superblock disagrees
// with the platform-wide grid_blocks_max the simulation was configured
// for is corrupt, not merely divergent from its peers.
func (v *Verifier) checkGridBlocksMax(sb interfaces.Superblock) error {
	if got := sb.GridBlocksMax(); got != v.freeSet.Capacity() {
		return &AssertionError{
			Area:  interfaces.AreaSuperblockFreeSet,
			Cause: fmt.Errorf("superblock declares grid_blocks_max=%d, verifier configured with %d", got, v.freeSet.Capacity()),
		}
	}
	return nil
}

// OnCompactionHalfMeasure is invoked once per half-measure. It computes
// the grid checksum and records it at halfMeasure if no replica has
// reached this index yet, or compares against the recorded value
// otherwise.
func (v *Verifier) OnCompactionHalfMeasure(sb interfaces.Superblock, storage interfaces.StorageView, halfMeasure uint64) error {
	if err := v.checkGridBlocksMax(sb); err != nil {
		return err
	}

	got, err := areas.Grid(sb, storage, v.freeSet, v.decoder, v.sectorSize)
	if err != nil {
		return &AssertionError{Area: interfaces.AreaGrid, Cause: err}
	}

	obs := v.compactions.Observe(halfMeasure, got)
	if obs.Matched {
		return nil
	}

	logging.Warnf("grid checksum mismatch at half-measure %d: expected=%v actual=%v", halfMeasure, obs.Recorded, got)
	return &StorageMismatchError{
		Op:         halfMeasure,
		Mismatches: []AreaMismatch{{Area: interfaces.AreaGrid, Expected: obs.Recorded, Actual: got}},
	}
}

// OnCheckpoint is invoked at most once per op per replica. It always
// computes the three superblock-trailer areas; it also
// computes client_replies and grid when the replica is not mid-sync. A
// non-syncing observation establishes the record for an unseen op; a
// syncing observation never does, since it cannot compute the full set
// of areas and has no deterministic claim to bind future replicas to.
func (v *Verifier) OnCheckpoint(sb interfaces.Superblock, storage interfaces.StorageView) error {
	if err := v.checkGridBlocksMax(sb); err != nil {
		return err
	}

	op := sb.CommitMin()

	manifest, err := areas.Trailer(sb, interfaces.AreaSuperblockManifest)
	if err != nil {
		return &AssertionError{Area: interfaces.AreaSuperblockManifest, Cause: err}
	}
	freeSetChecksum, err := areas.Trailer(sb, interfaces.AreaSuperblockFreeSet)
	if err != nil {
		return &AssertionError{Area: interfaces.AreaSuperblockFreeSet, Cause: err}
	}
	sessions, err := areas.Trailer(sb, interfaces.AreaSuperblockClientSessions)
	if err != nil {
		return &AssertionError{Area: interfaces.AreaSuperblockClientSessions, Cause: err}
	}

	rec := checkpointlog.NewRecord()
	rec.Set(interfaces.AreaSuperblockManifest, manifest)
	rec.Set(interfaces.AreaSuperblockFreeSet, freeSetChecksum)
	rec.Set(interfaces.AreaSuperblockClientSessions, sessions)

	syncing := sb.SyncOpMax() != 0
	if !syncing {
		clientReplies, err := areas.ClientReplies(sb, storage, v.sectorSize)
		if err != nil {
			return &AssertionError{Area: interfaces.AreaClientReplies, Cause: err}
		}
		rec.Set(interfaces.AreaClientReplies, clientReplies)

		grid, err := areas.Grid(sb, storage, v.freeSet, v.decoder, v.sectorSize)
		if err != nil {
			return &AssertionError{Area: interfaces.AreaGrid, Cause: err}
		}
		rec.Set(interfaces.AreaGrid, grid)
	}

	existing, ok := v.checkpoints.Get(op)
	if !ok {
		if syncing {
			// A syncing replica cannot establish the reference for areas
			// it cannot compute, and has no deterministic claim on the
			// three trailer areas either: recording here would bind
			// future replicas to a potentially unverified value.
			return nil
		}
		v.checkpoints.Insert(op, rec)
		return nil
	}

	var mismatches []AreaMismatch
	for _, area := range interfaces.AllAreas() {
		observed, observedOK := rec.Get(area)
		recorded, recordedOK := existing.Get(area)
		if !observedOK || !recordedOK {
			continue // non-comparable: one side absent
		}
		if observed != recorded {
			logging.Warnf("checkpoint op %d area %s mismatch: expected=%v actual=%v", op, area, recorded, observed)
			mismatches = append(mismatches, AreaMismatch{Area: area, Expected: recorded, Actual: observed})
		}
	}

	if len(mismatches) > 0 {
		return &StorageMismatchError{Op: op, Mismatches: mismatches}
	}
	return nil
}
