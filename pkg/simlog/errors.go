package simlog

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrProgressUnsupported is returned by Progress for formats that
	// structurally lack a progress field (e.g. steady-state runs).
	ErrProgressUnsupported = errors.New("format has no progress field")

	// ErrFinalized is returned by Process after Finalize has padded the
	// trailing partial iteration. Resuming then would double-count the
	// partial row; Reset and re-read instead.
	ErrFinalized = errors.New("session finalized, reset before processing more lines")
)

// MalformedValueError reports a matched line whose residual content could
// not be parsed and is not in the field's exclusion set. It signals a
// corrupted log or an unsupported log-format version and is fatal for the
// read session.
type MalformedValueError struct {
	Field string // field name
	Line  int    // zero-based raw line index
	Raw   string // residual content handed to the parser
	Err   error
}

func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("field %q: malformed value at line %d: %v", e.Field, e.Line, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *MalformedValueError) Unwrap() error {
	return e.Err
}

// AlignmentError reports output columns differing by more than the
// tolerated one/two-row trailing skew after synchronization. It indicates
// an emission pattern the synchronizer does not handle and must not be
// papered over with further padding.
type AlignmentError struct {
	Field string // shortest (or mismatched) column
	Len   int
	Want  int
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("column %q has %d rows, want %d", e.Field, e.Len, e.Want)
}
