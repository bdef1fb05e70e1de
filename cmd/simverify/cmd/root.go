package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "simverify",
	Short: "Deterministic cross-replica storage divergence verifier",
	Long: `simverify drives a small in-memory simulation of a replicated
state-machine database's storage and checks it with the same
cross-replica verifier a real simulator would call at compaction
half-measure boundaries and at checkpoint events.

Commands:
  run      Run a simulation and report the first divergence, if any
  inspect  Show compaction-log first-writer-wins on sample checksums`,
	Version: "0.1.0-dev",
}

// Execute adds all child commands to the root command and runs it. A
// run that detected divergence or an internal assertion failure exits
// with a distinct non-zero code (see reportDivergence) rather than the
// generic code 1 used for ordinary CLI errors.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if e, ok := err.(exitCodeError); ok {
			os.Exit(e.exitCode)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a simverify-config.yaml file")
}
