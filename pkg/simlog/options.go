package simlog

import (
	"errors"
	"fmt"
	"log/slog"
)

// Watcher sentinel errors.
var (
	// ErrWatcherClosed is returned by Watch after Close.
	ErrWatcherClosed = errors.New("watcher is closed")
	// ErrAlreadyWatching is returned when Watch is called twice.
	ErrAlreadyWatching = errors.New("watcher is already watching")
)

// WatchOp identifies the watcher operation that failed.
type WatchOp string

const (
	// WatchOpOpen is opening or attaching to the log file.
	WatchOpOpen WatchOp = "open"
	// WatchOpRead is reading a line from the followed file.
	WatchOpRead WatchOp = "read"
)

// WatchError wraps an error from the file-following layer with the
// operation and path it occurred on.
type WatchError struct {
	Op   WatchOp
	Path string
	Err  error
}

func (e *WatchError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("watch %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("watch %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *WatchError) Unwrap() error {
	return e.Err
}

// WatchOption configures Watcher behavior using the functional options
// pattern.
type WatchOption func(*watchConfig)

// watchConfig holds internal configuration for the watcher.
type watchConfig struct {
	reopen      bool
	waitForFile bool
	poll        bool
	maxLineSize int
	logger      *slog.Logger
}

// defaultWatchConfig returns a watchConfig with sensible defaults.
func defaultWatchConfig() *watchConfig {
	return &watchConfig{
		maxLineSize: 512 * 1024,
	}
}

// applyWatchOptions applies functional options to a watchConfig.
func applyWatchOptions(opts []WatchOption) *watchConfig {
	cfg := defaultWatchConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// validate checks for invalid option combinations.
func (c *watchConfig) validate() error {
	if c.maxLineSize < 0 {
		return fmt.Errorf("max line size must be non-negative, got %d", c.maxLineSize)
	}
	return nil
}

// WithReopen re-attaches when the file is recreated (the engine truncates
// and rewrites the log on a restarted run). Default: false.
func WithReopen(reopen bool) WatchOption {
	return func(c *watchConfig) {
		c.reopen = reopen
	}
}

// WithWaitForFile waits for the log file to appear instead of failing
// immediately, useful when the watcher starts before the simulation does.
// Default: false.
func WithWaitForFile(wait bool) WatchOption {
	return func(c *watchConfig) {
		c.waitForFile = wait
	}
}

// WithPoll uses filesystem polling instead of event notification, for
// network shares where inotify is unreliable. Default: false.
func WithPoll(poll bool) WatchOption {
	return func(c *watchConfig) {
		c.poll = poll
	}
}

// WithMaxLineSize caps the length of a single log line in bytes.
// 0 means unlimited. Default: 512KB.
func WithMaxLineSize(n int) WatchOption {
	return func(c *watchConfig) {
		c.maxLineSize = n
	}
}

// WithLogger sets a custom logger for debug output.
// If logger is nil, logging is disabled (default behavior).
func WithLogger(logger *slog.Logger) WatchOption {
	return func(c *watchConfig) {
		c.logger = logger
	}
}
