package simlog

import (
	"fmt"
	"strings"

	"github.com/simlog/simlog-go/internal/parser"
	"github.com/simlog/simlog-go/pkg/simlog/value"
)

// Session incrementally extracts typed columns from a growing simulation
// log. The caller feeds it batches of newly appended raw lines; the session
// tracks how many lines it has consumed, so re-feeding the whole file is
// cheap (already-consumed lines must simply not be passed again).
//
// A Session is not safe for concurrent use. Callers that poll from multiple
// goroutines must serialize access externally; Watcher does exactly that.
type Session struct {
	format    Format
	acc       []*accumulator
	byName    map[string]*accumulator
	markerAt  int // index of the iteration marker field, -1 if none
	lines     int // raw lines consumed so far
	iters     int // iteration boundaries seen so far
	finalized bool
}

// accumulator owns the parsed values of one field: a single overwritable
// slot for latest-retention fields, an append-only sequence otherwise.
type accumulator struct {
	spec   FieldSpec
	latest value.Value
	set    bool
	values []value.Value
}

func (a *accumulator) update(v value.Value) {
	a.latest = v
	a.set = true
	if a.spec.Retention == RetainAll {
		a.values = append(a.values, v)
	}
}

func (a *accumulator) count() int {
	return len(a.values)
}

func (a *accumulator) reset() {
	a.latest = value.Value{}
	a.set = false
	a.values = nil
}

// NewSession validates the format and creates a session with empty
// accumulators.
func NewSession(format Format) (*Session, error) {
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("invalid format: %w", err)
	}
	format = format.clone()

	s := &Session{
		format:   format,
		acc:      make([]*accumulator, len(format.Fields)),
		byName:   make(map[string]*accumulator, len(format.Fields)),
		markerAt: format.marker(),
	}
	for i := range format.Fields {
		a := &accumulator{spec: format.Fields[i]}
		s.acc[i] = a
		s.byName[format.Fields[i].Name] = a
	}
	return s, nil
}

// Process consumes raw lines appended since the previous call. Each line is
// classified against the field specs in declaration order; the first spec
// whose prefix matches claims the line. Marker lines close an iteration:
// shorter columns are padded with their missing sentinels before the
// iteration counter increments.
//
// Splitting a stream into batches does not change the result: processing
// A then B accumulates exactly what processing A+B in one call would.
//
// A malformed value aborts the batch with *MalformedValueError; the session
// should then be considered corrupt (Reset to re-read from scratch).
func (s *Session) Process(lines []string) error {
	if s.finalized {
		return ErrFinalized
	}
	for _, line := range lines {
		// Trim trailing CR for Windows CRLF compatibility.
		line = strings.TrimRight(line, "\r")
		if err := s.processLine(line); err != nil {
			return err
		}
		s.lines++
	}
	return nil
}

func (s *Session) processLine(line string) error {
	for i := range s.format.Fields {
		f := &s.format.Fields[i]
		rest, ok := parser.Residual(line, f.Prefix)
		if !ok {
			continue
		}

		v, err := parser.Parse(f.Kind, f.options(), rest)
		if err != nil {
			if !f.excluded(rest) {
				return &MalformedValueError{Field: f.Name, Line: s.lines, Raw: rest, Err: err}
			}
			v = f.missing()
		}
		s.acc[i].update(v)

		if i == s.markerAt {
			s.syncColumns()
			s.iters++
		}
		break // first matching prefix claims the line
	}
	return nil
}

// syncColumns pads every history field other than the marker up to the
// boundary being closed. Runs before the iteration counter increments, so
// fields emitted before the marker are owed iters+1 values and fields
// emitted after it are owed iters.
func (s *Session) syncColumns() {
	for i := range s.format.Fields {
		f := &s.format.Fields[i]
		if i == s.markerAt || f.Retention != RetainAll {
			continue
		}
		target := s.iters
		if f.BeforeMarker {
			target++
		}
		a := s.acc[i]
		for a.count() < target {
			a.update(f.missing())
		}
	}
}

// Finalize pads the trailing partial iteration left by a simulation that
// stopped mid-step. Columns short of the longest by one or two rows get
// missing sentinels; a larger deficit means the emission pattern was not
// what the format describes and surfaces as *AlignmentError.
//
// After Finalize the session rejects further Process calls with
// ErrFinalized: resuming would pad the partial row twice. Callers tracking
// a still-running simulation must not finalize until it has finished.
func (s *Session) Finalize() error {
	maxLen := 0
	for i := range s.acc {
		if s.acc[i].spec.Retention != RetainAll {
			continue
		}
		if n := s.acc[i].count(); n > maxLen {
			maxLen = n
		}
	}

	for i := range s.acc {
		a := s.acc[i]
		if a.spec.Retention != RetainAll {
			continue
		}
		switch deficit := maxLen - a.count(); deficit {
		case 0:
		case 1, 2:
			for j := 0; j < deficit; j++ {
				a.update(a.spec.missing())
			}
		default:
			return &AlignmentError{Field: a.spec.Name, Len: a.count(), Want: maxLen}
		}
	}

	s.finalized = true
	return nil
}

// Reset discards all accumulated state and rewinds the cursor to the start
// of the file, for a forced full re-read. Tables obtained before Reset are
// stale snapshots.
func (s *Session) Reset() {
	for _, a := range s.acc {
		a.reset()
	}
	s.lines = 0
	s.iters = 0
	s.finalized = false
}

// LinesConsumed returns how many raw lines have been processed. New batches
// must start at this index.
func (s *Session) LinesConsumed() int {
	return s.lines
}

// Iterations returns how many iteration boundaries have been seen.
func (s *Session) Iterations() int {
	return s.iters
}

// Finalized reports whether Finalize has padded the trailing rows.
func (s *Session) Finalized() bool {
	return s.finalized
}

// Progress returns the most recent value of the format's progress field as
// a percentage, or 0 if no progress line has been seen yet. Formats without
// a progress field return ErrProgressUnsupported, distinguishing "never
// available" from "not yet available".
func (s *Session) Progress() (float64, error) {
	if s.format.ProgressField == "" {
		return 0, ErrProgressUnsupported
	}
	a := s.byName[s.format.ProgressField]
	if !a.set {
		return 0, nil
	}
	return a.latest.Float, nil
}

// Latest returns the most recent value recorded for a field, and whether
// any value has been recorded. This is the lookup-by-name replacement for
// per-field attributes.
func (s *Session) Latest(name string) (value.Value, bool) {
	a, ok := s.byName[name]
	if !ok || !a.set {
		return value.Value{}, false
	}
	return a.latest, true
}

// History returns a copy of the accumulated sequence of a history field.
// The second result is false for unknown or latest-retention fields.
func (s *Session) History(name string) ([]value.Value, bool) {
	a, ok := s.byName[name]
	if !ok || a.spec.Retention != RetainAll {
		return nil, false
	}
	return append([]value.Value(nil), a.values...), true
}
