// Package parser converts the residual text of classified simulation log
// lines into typed values.
package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/simlog/simlog-go/pkg/simlog/value"
)

// Kind selects the conversion rule applied to a field's residual text.
type Kind int

const (
	// Timestamp parses a date/time string against a fixed layout.
	Timestamp Kind = iota
	// DurationHMS parses "H:M:S" with integer components.
	DurationHMS
	// DurationHours parses a decimal number of hours with an "hrs" suffix.
	DurationHours
	// DurationSeconds parses a decimal number of seconds with an "s" suffix.
	DurationSeconds
	// Float parses plain numeric text.
	Float
	// FloatSplit parses the numeric text before a delimiter.
	FloatSplit
	// String keeps the text as-is.
	String
	// StringSplit keeps the text before a delimiter.
	StringSplit
	// TimeFloatMult parses whitespace-separated floats; the first is
	// reinterpreted as a decimal-hours duration.
	TimeFloatMult
)

var kindNames = map[Kind]string{
	Timestamp:       "timestamp",
	DurationHMS:     "duration_hms",
	DurationHours:   "duration_hours",
	DurationSeconds: "duration_seconds",
	Float:           "float",
	FloatSplit:      "float_split",
	String:          "string",
	StringSplit:     "string_split",
	TimeFloatMult:   "time_float_mult",
}

// String returns the kind name as used in format definition files.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// KindFromName resolves a format-file kind name.
func KindFromName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Options carries the per-field parameters some kinds require.
type Options struct {
	Layout    string // Timestamp: Go time layout
	Delimiter string // FloatSplit, StringSplit
	Arity     int    // TimeFloatMult: number of values per line
}

// Missing returns the missing sentinel for a kind: null time for
// timestamps, a flagged zero duration for duration kinds, NaN for numeric
// kinds, empty text for string kinds and a NaN group for TimeFloatMult.
func Missing(k Kind, opt Options) value.Value {
	switch k {
	case Timestamp:
		return value.Missing(value.KindTime)
	case DurationHMS, DurationHours, DurationSeconds:
		return value.Missing(value.KindDuration)
	case Float, FloatSplit:
		return value.Missing(value.KindFloat)
	case String, StringSplit:
		return value.Missing(value.KindString)
	case TimeFloatMult:
		return value.MissingMulti(opt.Arity)
	default:
		return value.Missing(value.KindString)
	}
}

// Parse converts raw into a typed value according to kind.
// Returns an error if raw cannot be converted; tolerance of expected
// unparseable residuals (exclusion sets) is the caller's concern.
func Parse(k Kind, opt Options, raw string) (value.Value, error) {
	switch k {
	case Timestamp:
		t, err := time.Parse(opt.Layout, raw)
		if err != nil {
			return value.Value{}, fmt.Errorf("timestamp %q: %w", raw, err)
		}
		return value.Time(t), nil

	case DurationHMS:
		return parseHMS(raw)

	case DurationHours:
		h, err := splitFloat(raw, "hrs")
		if err != nil {
			return value.Value{}, fmt.Errorf("hours duration %q: %w", raw, err)
		}
		return value.Duration(time.Duration(h * float64(time.Hour))), nil

	case DurationSeconds:
		s, err := splitFloat(raw, "s")
		if err != nil {
			return value.Value{}, fmt.Errorf("seconds duration %q: %w", raw, err)
		}
		return value.Duration(time.Duration(s * float64(time.Second))), nil

	case Float:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return value.Value{}, fmt.Errorf("float %q: %w", raw, err)
		}
		return value.Float(f), nil

	case FloatSplit:
		f, err := splitFloat(raw, opt.Delimiter)
		if err != nil {
			return value.Value{}, fmt.Errorf("float %q: %w", raw, err)
		}
		return value.Float(f), nil

	case String:
		return value.String(raw), nil

	case StringSplit:
		head, _, _ := strings.Cut(raw, opt.Delimiter)
		return value.String(head), nil

	case TimeFloatMult:
		return parseTimeFloatMult(raw, opt.Arity)

	default:
		return value.Value{}, fmt.Errorf("unknown value kind %d", int(k))
	}
}

// Residual reports whether line starts with prefix and, if so, returns the
// text after it with leading whitespace removed.
func Residual(line, prefix string) (string, bool) {
	if !strings.HasPrefix(line, prefix) {
		return "", false
	}
	return strings.TrimLeft(line[len(prefix):], " \t"), true
}

func parseHMS(raw string) (value.Value, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return value.Value{}, fmt.Errorf("duration %q: want H:M:S", raw)
	}
	var hms [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return value.Value{}, fmt.Errorf("duration %q: %w", raw, err)
		}
		hms[i] = n
	}
	d := time.Duration(hms[0])*time.Hour +
		time.Duration(hms[1])*time.Minute +
		time.Duration(hms[2])*time.Second
	return value.Duration(d), nil
}

func parseTimeFloatMult(raw string, arity int) (value.Value, error) {
	fields := strings.Fields(raw)
	if arity > 0 && len(fields) != arity {
		return value.Value{}, fmt.Errorf("multi value %q: got %d values, want %d", raw, len(fields), arity)
	}
	vs := make([]value.Value, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return value.Value{}, fmt.Errorf("multi value %q: %w", raw, err)
		}
		if i == 0 {
			// First column is simulated time in decimal hours.
			vs[i] = value.Duration(time.Duration(n * float64(time.Hour)))
		} else {
			vs[i] = value.Float(n)
		}
	}
	return value.Multi(vs), nil
}

// splitFloat parses the float before the first occurrence of delim.
// An empty delimiter parses the whole string.
func splitFloat(raw, delim string) (float64, error) {
	head := raw
	if delim != "" {
		head, _, _ = strings.Cut(raw, delim)
	}
	return strconv.ParseFloat(strings.TrimSpace(head), 64)
}
