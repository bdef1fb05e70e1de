package verifier

import (
	"fmt"
	"strings"

	"github.com/vsrsim/verifier/internal/checksum"
	"github.com/vsrsim/verifier/internal/interfaces"
)

// AreaMismatch is one area whose recorded and observed checksums
// disagreed.
type AreaMismatch struct {
	Area     interfaces.Area
	Expected checksum.Value128
	Actual   checksum.Value128
}

// StorageMismatchError is the divergence class: surfaced to the caller
// (the replica runtime, in the real system; cmd/simverify's demo harness
// here), which must terminate the simulation run. Every mismatching area
// has already been logged at warn level by the time this error is
// constructed.
type StorageMismatchError struct {
	Op         uint64
	Mismatches []AreaMismatch
}

func (e *StorageMismatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "storage mismatch at op %d:", e.Op)
	for _, m := range e.Mismatches {
		fmt.Fprintf(&b, " %s(expected=%v actual=%v)", m.Area, m.Expected, m.Actual)
	}
	return b.String()
}

// AssertionError is the internal-invariant-violation class: the
// simulator is in a corrupt state and the run must abort rather than be
// treated as an ordinary divergence. It is returned, not panicked, so
// that callers (and tests) can inspect it with errors.As; cmd/simverify's
// main treats it as a harder failure than StorageMismatchError (see its
// distinct exit code).
type AssertionError struct {
	Area  interfaces.Area
	Cause error
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("internal assertion failure in area %s: %v", e.Area, e.Cause)
}

func (e *AssertionError) Unwrap() error {
	return e.Cause
}
