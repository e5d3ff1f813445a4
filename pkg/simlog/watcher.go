package simlog

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/nxadm/tail"
)

// Update is a progress snapshot emitted while a watched simulation runs.
type Update struct {
	// Progress is the last reported percent complete. Zero until the
	// engine emits its first progress line.
	Progress float64

	// HasProgress is false for formats that never report progress
	// (steady-state runs); Progress is then meaningless.
	HasProgress bool

	// Iterations is the number of completed simulation timesteps.
	Iterations int

	// LinesConsumed is the number of raw log lines parsed so far.
	LinesConsumed int
}

// watcherErrBuffer is the buffer size for the error channel. A small
// buffer prevents error loss during brief moments when the consumer is
// busy, while keeping memory usage minimal.
const watcherErrBuffer = 16

// discardLogger returns a logger that discards all output.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Watcher follows a growing simulation log file and feeds it to a Session.
// It owns the session and serializes all access to it, so snapshot methods
// are safe to call while the watch goroutine runs.
type Watcher struct {
	cfg  watchConfig // immutable after creation
	path string
	log  *slog.Logger

	mu       sync.Mutex
	session  *Session
	closed   bool
	cancel   context.CancelFunc
	doneCh   chan struct{}
	watching bool
}

// NewWatcher creates a watcher for the log file at path. It validates
// options and the format but does not open the file or start goroutines.
func NewWatcher(path string, format Format, opts ...WatchOption) (*Watcher, error) {
	cfg := applyWatchOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	sess, err := NewSession(format)
	if err != nil {
		return nil, err
	}

	log := cfg.logger
	if log == nil {
		log = discardLogger
	}

	return &Watcher{
		cfg:     *cfg,
		path:    path,
		log:     log,
		session: sess,
	}, nil
}

// Watch starts following the file and returns the update and error
// channels. Both close when ctx is cancelled or a fatal error occurs.
// Watch can only be called once per Watcher instance.
//
// The file is always read from the start: the incremental cursor, not a
// tail offset, is what makes resumption cheap, and skipping the header
// lines would lose the latest-retention fields.
func (w *Watcher) Watch(ctx context.Context) (<-chan Update, <-chan error, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, nil, ErrWatcherClosed
	}
	if w.watching {
		return nil, nil, ErrAlreadyWatching
	}
	w.watching = true

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.doneCh = make(chan struct{})

	updateCh := make(chan Update)
	errCh := make(chan error, watcherErrBuffer)

	go w.run(ctx, updateCh, errCh)

	return updateCh, errCh, nil
}

// Close stops the watcher and releases resources. Safe to call multiple
// times. Blocks until the watch goroutine has exited.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.cancel != nil {
		w.cancel()
	}
	doneCh := w.doneCh
	w.mu.Unlock()

	if doneCh != nil {
		<-doneCh
	}
	return nil
}

func (w *Watcher) run(ctx context.Context, updateCh chan<- Update, errCh chan<- error) {
	defer close(w.doneCh)
	defer close(updateCh)
	defer close(errCh)

	t, err := tail.TailFile(w.path, tail.Config{
		Follow:      true,
		ReOpen:      w.cfg.reopen,
		MustExist:   !w.cfg.waitForFile,
		Poll:        w.cfg.poll,
		MaxLineSize: w.cfg.maxLineSize,
		Logger:      tail.DiscardingLogger,
	})
	if err != nil {
		sendError(ctx, errCh, &WatchError{Op: WatchOpOpen, Path: w.path, Err: err})
		return
	}
	defer func() {
		_ = t.Stop()
		t.Cleanup()
	}()
	w.log.Debug("started tailing", "path", w.path)

	var last Update
	sent := false

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-t.Lines:
			if !ok {
				return
			}
			if line.Err != nil {
				sendError(ctx, errCh, &WatchError{Op: WatchOpRead, Path: w.path, Err: line.Err})
				continue
			}

			u, err := w.consume(line.Text)
			if err != nil {
				// Malformed data is fatal for the session.
				sendError(ctx, errCh, err)
				return
			}

			if !sent || u != last {
				select {
				case updateCh <- u:
					last = u
					sent = true
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// consume feeds one line to the session under the watcher's lock and
// returns the resulting snapshot.
func (w *Watcher) consume(line string) (Update, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.session.Process([]string{line}); err != nil {
		return Update{}, err
	}
	u := Update{
		Iterations:    w.session.Iterations(),
		LinesConsumed: w.session.LinesConsumed(),
	}
	if pct, err := w.session.Progress(); err == nil {
		u.Progress = pct
		u.HasProgress = true
	}
	return u, nil
}

// Progress returns the current progress snapshot. Safe to call while
// watching.
func (w *Watcher) Progress() (float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session.Progress()
}

// Table finalizes the session and assembles the result table. Call it
// after the simulation has finished and the watch has stopped; a finalized
// session rejects further lines, so finalizing a still-running watch ends
// it with ErrFinalized on the error channel.
func (w *Watcher) Table() (*Table, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.session.Finalize(); err != nil {
		return nil, err
	}
	return w.session.Table()
}

// sendError sends an error to the error channel. With a buffered channel,
// errors are only dropped if the buffer is full. The context case ensures
// we don't block during shutdown.
func sendError(ctx context.Context, errCh chan<- error, err error) {
	if err == nil {
		return
	}
	select {
	case errCh <- err:
	case <-ctx.Done():
	default:
	}
}
