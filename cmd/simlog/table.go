package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simlog/simlog-go/pkg/simlog"
)

var (
	// table flags
	tableDir        string
	tableFormat     string
	tableFormatFile string
	tableOutput     string
	tableSteady     bool
)

var tableCmd = &cobra.Command{
	Use:   "table [log-file]",
	Short: "Extract per-timestep results from a finished run",
	Long: `Parse a completed simulation log file and write its per-timestep
columns as a table.

Without a log-file argument the newest .lf1/.lf2 file in the results
directory is used.

Examples:
  # CSV to stdout
  simlog table results/run42.lf1

  # One JSON object per timestep
  simlog table --output jsonl results/run42.lf1

  # Aligned columns for a quick look
  simlog table --output pretty results/run42.lf1`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTable,
}

func init() {
	tableCmd.Flags().StringVarP(&tableDir, "dir", "d", "",
		"Results directory to search for log files (auto-detected if not specified)")
	tableCmd.Flags().StringVarP(&tableFormat, "format", "f", "",
		"Built-in log format name (defaults to the file suffix)")
	tableCmd.Flags().StringVar(&tableFormatFile, "format-file", "",
		"YAML format definition file (overrides --format)")
	tableCmd.Flags().StringVarP(&tableOutput, "output", "o", "csv",
		"Output format: csv, jsonl, pretty")
	tableCmd.Flags().BoolVar(&tableSteady, "steady", false,
		"Treat the run as steady-state flow")

	rootCmd.AddCommand(tableCmd)
}

func runTable(cmd *cobra.Command, args []string) error {
	if !ValidTableFormats[tableOutput] {
		return fmt.Errorf("unknown output format: %s", tableOutput)
	}

	path, err := resolveLogFile(args, tableDir)
	if err != nil {
		return err
	}

	format, err := resolveFormat(path, tableFormatFile, tableFormat, tableSteady)
	if err != nil {
		return err
	}

	sess, err := simlog.NewSession(format)
	if err != nil {
		return err
	}

	if err := processFile(sess, path); err != nil {
		return err
	}
	if err := sess.Finalize(); err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "parsed %d lines, %d iterations\n",
			sess.LinesConsumed(), sess.Iterations())
	}

	tbl, err := sess.Table()
	if err != nil {
		return err
	}
	return WriteTable(tableOutput, tbl, os.Stdout)
}

// processFile feeds the whole file to the session line by line.
func processFile(sess *simlog.Session, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if err := sess.Process([]string{sc.Text()}); err != nil {
			return err
		}
	}
	return sc.Err()
}
