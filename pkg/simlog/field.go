package simlog

import (
	"fmt"

	"github.com/simlog/simlog-go/internal/parser"
	"github.com/simlog/simlog-go/pkg/simlog/value"
)

// ValueKind selects the value parser for a field.
type ValueKind = parser.Kind

// Value kinds recognized by field specifications.
const (
	// KindTimestamp parses a date/time string against FieldSpec.Layout.
	KindTimestamp = parser.Timestamp
	// KindDurationHMS parses "H:M:S".
	KindDurationHMS = parser.DurationHMS
	// KindDurationHours parses decimal hours with an "hrs" suffix.
	KindDurationHours = parser.DurationHours
	// KindDurationSeconds parses decimal seconds with an "s" suffix.
	KindDurationSeconds = parser.DurationSeconds
	// KindFloat parses plain numeric text.
	KindFloat = parser.Float
	// KindFloatSplit parses the numeric text before FieldSpec.Delimiter.
	KindFloatSplit = parser.FloatSplit
	// KindString keeps the text as-is.
	KindString = parser.String
	// KindStringSplit keeps the text before FieldSpec.Delimiter.
	KindStringSplit = parser.StringSplit
	// KindTimeFloatMult parses whitespace-separated floats, the first
	// reinterpreted as a decimal-hours duration; one output column per
	// entry in FieldSpec.Subnames.
	KindTimeFloatMult = parser.TimeFloatMult
)

// KindFromName resolves a value kind from its format-file name
// (e.g. "duration_hms").
func KindFromName(name string) (ValueKind, bool) {
	return parser.KindFromName(name)
}

// Retention selects how much history a field keeps.
type Retention int

const (
	// RetainLatest keeps only the most recent value.
	RetainLatest Retention = iota
	// RetainAll appends every value in emission order.
	RetainAll
)

// String returns the retention name as used in format definition files.
func (r Retention) String() string {
	switch r {
	case RetainLatest:
		return "latest"
	case RetainAll:
		return "all"
	default:
		return fmt.Sprintf("Retention(%d)", int(r))
	}
}

// RetentionFromName resolves a retention mode from its format-file name.
func RetentionFromName(name string) (Retention, bool) {
	switch name {
	case "latest":
		return RetainLatest, true
	case "all":
		return RetainAll, true
	default:
		return 0, false
	}
}

// FieldSpec describes one recognizable line type: how to spot it, how to
// convert its residual text, and how to store the result. Specs are pure
// configuration; a Session never mutates them.
type FieldSpec struct {
	// Name is the field identifier and, for single-value fields, the
	// output column name.
	Name string

	// Prefix is the literal the raw line must start with. Lines are
	// classified against specs in declaration order; the first matching
	// prefix claims the line.
	Prefix string

	// Kind selects the value parser.
	Kind ValueKind

	// Retention selects latest-only or full-history accumulation.
	Retention Retention

	// Marker marks a line type whose appearance ends one simulation
	// iteration. At most one field per format may set it.
	Marker bool

	// BeforeMarker is set on fields emitted before the marker line within
	// an iteration; it shifts the count the synchronizer pads to.
	BeforeMarker bool

	// Exclude lists residual strings tolerated as missing values
	// (e.g. "calculating..." while the engine has no estimate yet).
	Exclude []string

	// Layout is the Go time layout for KindTimestamp fields.
	Layout string

	// Delimiter is the split token for KindFloatSplit and KindStringSplit.
	Delimiter string

	// Subnames names the output columns of a KindTimeFloatMult field,
	// one per value on the line.
	Subnames []string
}

func (f FieldSpec) options() parser.Options {
	return parser.Options{
		Layout:    f.Layout,
		Delimiter: f.Delimiter,
		Arity:     len(f.Subnames),
	}
}

func (f FieldSpec) missing() value.Value {
	return parser.Missing(f.Kind, f.options())
}

func (f FieldSpec) excluded(raw string) bool {
	for _, e := range f.Exclude {
		if raw == e {
			return true
		}
	}
	return false
}

// columns returns the output column names the field expands to.
func (f FieldSpec) columns() []string {
	if f.Kind == KindTimeFloatMult {
		return f.Subnames
	}
	return []string{f.Name}
}

func (f FieldSpec) validate() error {
	if f.Name == "" {
		return fmt.Errorf("field name is required")
	}
	if f.Prefix == "" {
		return fmt.Errorf("field %q: prefix is required", f.Name)
	}
	if f.Kind == KindTimestamp && f.Layout == "" {
		return fmt.Errorf("field %q: timestamp fields need a layout", f.Name)
	}
	if (f.Kind == KindFloatSplit || f.Kind == KindStringSplit) && f.Delimiter == "" {
		return fmt.Errorf("field %q: split fields need a delimiter", f.Name)
	}
	if f.Kind == KindTimeFloatMult && len(f.Subnames) == 0 {
		return fmt.Errorf("field %q: multi-value fields need subnames", f.Name)
	}
	if f.Kind != KindTimeFloatMult && len(f.Subnames) > 0 {
		return fmt.Errorf("field %q: subnames are only valid for multi-value fields", f.Name)
	}
	if f.Marker && f.Retention != RetainAll {
		return fmt.Errorf("field %q: the iteration marker must retain all values", f.Name)
	}
	return nil
}

// Format is the ordered field configuration for one log file variant
// (e.g. "lf1 unsteady"). The core is parameterized entirely by it and
// hard-codes no field semantics.
type Format struct {
	// Name identifies the variant.
	Name string

	// Fields are matched against each raw line in declaration order.
	Fields []FieldSpec

	// ProgressField names the latest-retention numeric field carrying
	// percent complete. Empty for variants that never report progress.
	ProgressField string
}

// Validate checks the field table for construction-time errors: empty or
// duplicate names and output columns, per-field parameter requirements,
// multiple iteration markers, and a dangling progress field.
func (f Format) Validate() error {
	if len(f.Fields) == 0 {
		return fmt.Errorf("format %q: at least one field is required", f.Name)
	}

	seen := make(map[string]string, len(f.Fields))
	markers := 0
	for _, fs := range f.Fields {
		if err := fs.validate(); err != nil {
			return fmt.Errorf("format %q: %w", f.Name, err)
		}
		if prev, ok := seen[fs.Name]; ok {
			return fmt.Errorf("format %q: duplicate field name %q (also %s)", f.Name, fs.Name, prev)
		}
		seen[fs.Name] = "a field"
		for _, col := range fs.columns() {
			if col == fs.Name {
				continue
			}
			if prev, ok := seen[col]; ok {
				return fmt.Errorf("format %q: duplicate column name %q (also %s)", f.Name, col, prev)
			}
			seen[col] = fmt.Sprintf("a column of %q", fs.Name)
		}
		if fs.Marker {
			markers++
		}
	}
	if markers > 1 {
		return fmt.Errorf("format %q: at most one iteration marker is allowed", f.Name)
	}

	if f.ProgressField != "" {
		var found *FieldSpec
		for i := range f.Fields {
			if f.Fields[i].Name == f.ProgressField {
				found = &f.Fields[i]
				break
			}
		}
		switch {
		case found == nil:
			return fmt.Errorf("format %q: progress field %q is not defined", f.Name, f.ProgressField)
		case found.Retention != RetainLatest:
			return fmt.Errorf("format %q: progress field %q must retain latest only", f.Name, f.ProgressField)
		case found.Kind != KindFloat && found.Kind != KindFloatSplit:
			return fmt.Errorf("format %q: progress field %q must be numeric", f.Name, f.ProgressField)
		}
	}

	return nil
}

// marker returns the index of the iteration marker field, or -1.
func (f Format) marker() int {
	for i := range f.Fields {
		if f.Fields[i].Marker {
			return i
		}
	}
	return -1
}

// clone returns a deep copy so sessions cannot share spec slices with the
// caller.
func (f Format) clone() Format {
	out := f
	out.Fields = make([]FieldSpec, len(f.Fields))
	copy(out.Fields, f.Fields)
	for i := range out.Fields {
		out.Fields[i].Exclude = append([]string(nil), out.Fields[i].Exclude...)
		out.Fields[i].Subnames = append([]string(nil), out.Fields[i].Subnames...)
	}
	return out
}
