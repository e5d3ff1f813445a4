// Package value defines the typed cell values extracted from simulation log
// lines, together with the per-kind "missing" sentinels used to pad columns
// when an iteration omits a field.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the storage type of a Value.
type Kind int

const (
	// KindTime is a wall-clock timestamp (e.g. estimated finish time).
	KindTime Kind = iota
	// KindDuration is an elapsed or simulated duration.
	KindDuration
	// KindFloat is a plain numeric value.
	KindFloat
	// KindString is free text.
	KindString
	// KindMulti is a fixed-arity group of values from one line
	// (a duration followed by floats).
	KindMulti
)

// String returns the kind name as used in format definition files.
func (k Kind) String() string {
	switch k {
	case KindTime:
		return "time"
	case KindDuration:
		return "duration"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindMulti:
		return "multi"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a single parsed datum. Exactly one of the payload fields is
// meaningful, selected by Kind. Missing reports whether the value is the
// kind's missing sentinel rather than data read from the log.
type Value struct {
	Kind     Kind
	Time     time.Time
	Duration time.Duration
	Float    float64
	Str      string
	Multi    []Value
	Missing  bool
}

// Time returns a timestamp value.
func Time(t time.Time) Value {
	return Value{Kind: KindTime, Time: t}
}

// Duration returns a duration value.
func Duration(d time.Duration) Value {
	return Value{Kind: KindDuration, Duration: d}
}

// Float returns a numeric value. NaN payloads are marked missing.
func Float(f float64) Value {
	return Value{Kind: KindFloat, Float: f, Missing: math.IsNaN(f)}
}

// String returns a text value.
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Multi returns a fixed-arity group value.
func Multi(vs []Value) Value {
	return Value{Kind: KindMulti, Multi: vs}
}

// Missing returns the missing sentinel for a kind: null time for
// timestamps, zero duration (flagged) for durations, NaN for floats,
// empty string for text. For KindMulti use MissingMulti.
func Missing(k Kind) Value {
	v := Value{Kind: k, Missing: true}
	if k == KindFloat {
		v.Float = math.NaN()
	}
	return v
}

// MissingMulti returns the missing sentinel for a multi-value field:
// a group of arity NaN floats, matching one output cell per sub-column.
func MissingMulti(arity int) Value {
	vs := make([]Value, arity)
	for i := range vs {
		vs[i] = Missing(KindFloat)
	}
	return Value{Kind: KindMulti, Multi: vs, Missing: true}
}

// IsMissing reports whether v is a missing sentinel.
func (v Value) IsMissing() bool {
	if v.Missing {
		return true
	}
	// A NaN float is missing regardless of how it was constructed.
	return v.Kind == KindFloat && math.IsNaN(v.Float)
}

// String renders the value for display. Missing sentinels render as "NaN"
// for floats and empty text for every other kind, so tabular output shows
// gaps the way the source log does.
func (v Value) String() string {
	if v.IsMissing() && v.Kind != KindFloat && v.Kind != KindMulti {
		return ""
	}
	switch v.Kind {
	case KindTime:
		return v.Time.Format("15:04:05 02/01/2006")
	case KindDuration:
		return v.Duration.String()
	case KindFloat:
		if math.IsNaN(v.Float) {
			return "NaN"
		}
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindString:
		return v.Str
	case KindMulti:
		parts := make([]string, len(v.Multi))
		for i, e := range v.Multi {
			parts[i] = e.String()
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// Equal reports whether two values are the same datum. Missing sentinels of
// the same kind compare equal (NaN != NaN would otherwise make padded
// columns incomparable in tests).
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	if v.IsMissing() || o.IsMissing() {
		if v.Kind != KindMulti {
			return v.IsMissing() == o.IsMissing()
		}
	}
	switch v.Kind {
	case KindTime:
		return v.Time.Equal(o.Time)
	case KindDuration:
		return v.Duration == o.Duration
	case KindFloat:
		return v.Float == o.Float
	case KindString:
		return v.Str == o.Str
	case KindMulti:
		if len(v.Multi) != len(o.Multi) {
			return false
		}
		for i := range v.Multi {
			if !v.Multi[i].Equal(o.Multi[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
