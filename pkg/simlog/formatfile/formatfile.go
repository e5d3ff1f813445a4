// Package formatfile provides YAML definitions of log file formats. It
// lets users describe the field table of a log variant without code.
package formatfile

// File represents the structure of a YAML format definition file.
//
// Example YAML file:
//
//	version: 1
//	name: custom-engine
//	progress_field: progress
//	fields:
//	  - name: progress
//	    prefix: "!!Progress1"
//	    kind: float_split
//	    delimiter: "%"
//	    retention: latest
//	  - name: elapsed
//	    prefix: "!!Info1 Elapsed"
//	    kind: duration_hms
//	    retention: all
//	    marker: true
type File struct {
	// Version is the format file version. Currently only version 1 is
	// supported.
	Version int `yaml:"version"`

	// Name identifies the log variant this file describes.
	Name string `yaml:"name"`

	// ProgressField names the latest-retention field carrying percent
	// complete. Omit for variants that never report progress.
	ProgressField string `yaml:"progress_field"`

	// Fields is the ordered list of field definitions. Order matters:
	// lines are classified against prefixes first-match-wins.
	Fields []Field `yaml:"fields"`
}

// Field represents a single field definition.
type Field struct {
	// Name is the field identifier and output column name.
	Name string `yaml:"name"`

	// Prefix is the literal the raw line must start with.
	Prefix string `yaml:"prefix"`

	// Kind is the value parser name: timestamp, duration_hms,
	// duration_hours, duration_seconds, float, float_split, string,
	// string_split or time_float_mult.
	Kind string `yaml:"kind"`

	// Retention is "latest" or "all". Defaults to "latest".
	Retention string `yaml:"retention"`

	// Marker marks the line type that ends a simulation iteration.
	Marker bool `yaml:"marker"`

	// BeforeMarker is set on fields emitted before the marker line
	// within an iteration.
	BeforeMarker bool `yaml:"before_marker"`

	// Exclude lists residual strings tolerated as missing values.
	Exclude []string `yaml:"exclude"`

	// Layout is the Go time layout for timestamp fields.
	Layout string `yaml:"layout"`

	// Delimiter is the split token for float_split and string_split.
	Delimiter string `yaml:"delimiter"`

	// Subnames names the output columns of a time_float_mult field.
	Subnames []string `yaml:"subnames"`
}
