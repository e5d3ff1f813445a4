package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "simlog",
	Short: "Parse and monitor simulation engine log files",
	Long: `simlog parses the log files written by 1D/2D hydraulic simulation
engines (.lf1, .lf2), either after a run has finished or live while the
simulation is still writing.

Use "simlog watch" to follow a running simulation and "simlog table" to
extract the per-timestep results of a finished one.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output on stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
