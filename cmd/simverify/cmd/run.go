package cmd

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vsrsim/verifier/internal/interfaces"
	"github.com/vsrsim/verifier/internal/schema"
	"github.com/vsrsim/verifier/internal/simconfig"
	"github.com/vsrsim/verifier/internal/storagesim"
	"github.com/vsrsim/verifier/internal/superblockview"
	"github.com/vsrsim/verifier/internal/verifier"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an in-memory simulation and verify every replica's storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSimulation()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runSimulation() error {
	cfg, err := simconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	runID := uuid.New()
	fmt.Printf("simverify run %s: %d replicas, grid_blocks_max=%d, fault_injection_mode=%s\n",
		runID, cfg.ReplicaCount, cfg.GridBlocksMax, cfg.FaultInjectionMode)

	decoder := schema.NewDecoder()
	v := verifier.New(cfg.GridBlocksMax, cfg.SectorSize, decoder)
	defer v.Close()

	manifest := []byte("simulated-manifest-at-op-1")
	sessionsTrailer := []byte("simulated-client-sessions")
	gridPayload := bytesOf(0xAB, 64)

	type replicaState struct {
		sb  *superblockview.Superblock
		dev *storagesim.Device
	}
	replicas := make([]replicaState, cfg.ReplicaCount)
	for i := 0; i < cfg.ReplicaCount; i++ {
		replicaManifest := manifest
		if cfg.FaultInjectionMode == "manifest_mismatch" && i == cfg.ReplicaCount-1 {
			replicaManifest = []byte("diverged-manifest-at-op-1")
		}
		sb, dev := buildReplica(cfg, replicaManifest, sessionsTrailer, gridPayload)
		replicas[i] = replicaState{sb: sb, dev: dev}
	}

	// Half-measure 0 exercises OnCompactionHalfMeasure over the same grid
	// state every replica's checkpoint will later cover.
	for i, r := range replicas {
		if err := v.OnCompactionHalfMeasure(r.sb, r.dev, 0); err != nil {
			return reportDivergence(i, err)
		}
		if verbose {
			fmt.Printf("replica %d: compaction half-measure 0 ok\n", i)
		}
	}

	for i, r := range replicas {
		if err := v.OnCheckpoint(r.sb, r.dev); err != nil {
			return reportDivergence(i, err)
		}
		if verbose {
			fmt.Printf("replica %d: checkpoint ok\n", i)
		}
	}

	fmt.Println("no divergence detected")
	return nil
}

func buildReplica(cfg *simconfig.Config, manifest, sessionsTrailer, gridPayload []byte) (*superblockview.Superblock, *storagesim.Device) {
	dev := storagesim.New(storagesim.Config{
		BlockSize:          uint64(cfg.SectorSize),
		GridBlocksMax:      cfg.GridBlocksMax,
		ClientSessionSlots: cfg.ClientSessionSlots,
		ClientReplySlotCap: cfg.ClientReplySlotCap,
	})
	_ = dev.WriteGridBlock(1, interfaces.BlockHeader{Op: 1, Size: uint32(schema.HeaderSize + len(gridPayload))}, gridPayload)

	sb := superblockview.New(1, cfg.GridBlocksMax)
	sb.SetCommitMin(1)
	sb.SetAllTrailerCopies(interfaces.AreaSuperblockManifest, manifest)
	sb.SetAllTrailerCopies(interfaces.AreaSuperblockFreeSet, freeSetTrailerBit0())
	sb.SetAllTrailerCopies(interfaces.AreaSuperblockClientSessions, sessionsTrailer)

	return sb, dev
}

func freeSetTrailerBit0() []byte {
	return []byte{0x01, 0, 0, 0, 0, 0, 0, 0}
}

func bytesOf(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}

func reportDivergence(replicaIndex int, err error) error {
	var mismatch *verifier.StorageMismatchError
	var assertion *verifier.AssertionError

	switch {
	case errors.As(err, &mismatch):
		fmt.Printf("replica %d: storage divergence detected: %v\n", replicaIndex, mismatch)
		return exitCodeError{exitCode: 2, cause: err}
	case errors.As(err, &assertion):
		fmt.Printf("replica %d: internal assertion failure: %v\n", replicaIndex, assertion)
		return exitCodeError{exitCode: 3, cause: err}
	default:
		return err
	}
}

// exitCodeError wraps an error with a distinct process exit code so main
// can distinguish divergence from internal assertion failures without
// string-matching the error message.
type exitCodeError struct {
	exitCode int
	cause    error
}

func (e exitCodeError) Error() string { return e.cause.Error() }
