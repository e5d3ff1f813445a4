package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/simlog/simlog-go/pkg/simlog"
)

var (
	// watch flags
	watchDir        string
	watchFormat     string
	watchFormatFile string
	watchOutput     string
	watchSteady     bool
	watchPoll       bool
	watchReopen     bool
	watchWait       bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [log-file]",
	Short: "Follow a running simulation and report progress",
	Long: `Follow a simulation log file while the engine writes it and emit a
progress update whenever something changes.

Without a log-file argument the newest .lf1/.lf2 file in the results
directory is used (--dir, the ` + "`SIMLOG_LOGDIR`" + ` environment variable, or
the current directory).

Updates are output as JSON Lines by default, one object per line.

Examples:
  # Follow the newest log in the current directory
  simlog watch

  # Follow a specific unsteady run
  simlog watch results/run42.lf1

  # Steady-state run (no progress percentage)
  simlog watch --steady results/run.lf1

  # Start before the engine does and wait for the file
  simlog watch --wait results/run.lf1

  # Human-readable output
  simlog watch --output pretty results/run.lf1`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchDir, "dir", "d", "",
		"Results directory to search for log files (auto-detected if not specified)")
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "",
		"Built-in log format name (defaults to the file suffix)")
	watchCmd.Flags().StringVar(&watchFormatFile, "format-file", "",
		"YAML format definition file (overrides --format)")
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "jsonl",
		"Output format: jsonl, pretty")
	watchCmd.Flags().BoolVar(&watchSteady, "steady", false,
		"Treat the run as steady-state flow")
	watchCmd.Flags().BoolVar(&watchPoll, "poll", false,
		"Poll the file instead of using filesystem notifications")
	watchCmd.Flags().BoolVar(&watchReopen, "reopen", false,
		"Re-attach when the engine truncates and rewrites the file")
	watchCmd.Flags().BoolVar(&watchWait, "wait", false,
		"Wait for the log file to appear instead of failing")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if !ValidWatchFormats[watchOutput] {
		return fmt.Errorf("unknown output format: %s", watchOutput)
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path, err := resolveLogFile(args, watchDir)
	if err != nil {
		return err
	}

	format, err := resolveFormat(path, watchFormatFile, watchFormat, watchSteady)
	if err != nil {
		return err
	}

	opts := []simlog.WatchOption{
		simlog.WithPoll(watchPoll),
		simlog.WithReopen(watchReopen),
		simlog.WithWaitForFile(watchWait),
	}
	if verbose {
		opts = append(opts, simlog.WithLogger(
			slog.New(slog.NewTextHandler(os.Stderr, nil))))
	}

	w, err := simlog.NewWatcher(path, format, opts...)
	if err != nil {
		return err
	}
	defer w.Close()

	updates, errs, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			if err := OutputUpdate(watchOutput, u, os.Stdout); err != nil {
				return fmt.Errorf("output error: %w", err)
			}

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			if isFatalWatchError(err) {
				return err
			}
			if verbose {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			}

		case <-ctx.Done():
			return nil
		}
	}
}

// isFatalWatchError reports whether the watch cannot continue: the session
// is corrupt or the file could not be opened. Read hiccups are retried by
// the watcher and only warned about.
func isFatalWatchError(err error) bool {
	var mv *simlog.MalformedValueError
	if errors.As(err, &mv) {
		return true
	}
	var we *simlog.WatchError
	if errors.As(err, &we) {
		return we.Op == simlog.WatchOpOpen
	}
	return false
}
