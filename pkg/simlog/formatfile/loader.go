package formatfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/simlog/simlog-go/pkg/simlog"
)

// sanitizePathError removes the path from os.PathError to prevent
// information leakage in error messages.
func sanitizePathError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("%s: %w", pathErr.Op, pathErr.Err)
	}
	return err
}

const (
	// MaxFileSize is the maximum allowed size for a format file (1MB).
	MaxFileSize = 1 * 1024 * 1024

	// MaxFieldCount is the maximum number of fields allowed in a format
	// file. Every field's prefix is tested against every line, so this
	// also bounds per-line work.
	MaxFieldCount = 500

	// MaxPrefixLength is the maximum allowed length for a field prefix.
	MaxPrefixLength = 256

	// SupportedVersion is the currently supported format file version.
	SupportedVersion = 1
)

// Load reads and parses a format definition file from the given path.
// Returns an error if the file cannot be read, is too large, or fails
// validation.
//
// The file is opened and the descriptor stat-ed (avoiding TOCTOU),
// non-regular files are rejected and reads are size-limited, the same
// hardening applied to any user-supplied configuration file.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open format file: %w", sanitizePathError(err))
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat format file: %w", sanitizePathError(err))
	}

	if !info.Mode().IsRegular() {
		return nil, errors.New("format file must be a regular file (not FIFO, device, or special file)")
	}

	if info.Size() == 0 {
		return nil, errors.New("format file is empty")
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("format file too large: %d bytes (max %d)", info.Size(), MaxFileSize)
	}

	// Read MaxFileSize+1 to detect the file growing past the limit
	// between Stat and Read.
	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read format file: %w", sanitizePathError(err))
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("format file too large: %d bytes (max %d)", len(data), MaxFileSize)
	}

	return LoadBytes(data)
}

// LoadBytes parses a format definition from a byte slice.
func LoadBytes(data []byte) (*File, error) {
	if len(data) == 0 {
		return nil, errors.New("format file is empty")
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("format file too large: %d bytes (max %d)", len(data), MaxFileSize)
	}

	var ff File
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ff.Validate(); err != nil {
		return nil, err
	}

	return &ff, nil
}

// Validate performs schema-level validation: supported version, at least
// one field, required per-field keys, known kind and retention names,
// unique field names and prefix length limits. Cross-field semantics
// (duplicate columns, marker constraints) are checked by Format.
func (ff *File) Validate() error {
	if ff.Version != SupportedVersion {
		return &ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (only version %d is supported)", ff.Version, SupportedVersion),
		}
	}

	if ff.Name == "" {
		return &ValidationError{
			Field:   "name",
			Message: "name is required",
		}
	}

	if len(ff.Fields) == 0 {
		return &ValidationError{
			Field:   "fields",
			Message: "at least one field is required",
		}
	}
	if len(ff.Fields) > MaxFieldCount {
		return &ValidationError{
			Field:   "fields",
			Message: fmt.Sprintf("too many fields (%d), maximum allowed is %d", len(ff.Fields), MaxFieldCount),
		}
	}

	seen := make(map[string]int, len(ff.Fields))

	for i, fd := range ff.Fields {
		if fd.Name == "" {
			return &FieldError{Index: i, Field: "name", Message: "name is required"}
		}
		if fd.Prefix == "" {
			return &FieldError{Index: i, Name: fd.Name, Field: "prefix", Message: "prefix is required"}
		}
		if len(fd.Prefix) > MaxPrefixLength {
			return &FieldError{
				Index: i, Name: fd.Name, Field: "prefix",
				Message: fmt.Sprintf("prefix too long: %d bytes (max %d)", len(fd.Prefix), MaxPrefixLength),
			}
		}
		if fd.Kind == "" {
			return &FieldError{Index: i, Name: fd.Name, Field: "kind", Message: "kind is required"}
		}
		if _, ok := simlog.KindFromName(fd.Kind); !ok {
			return &FieldError{
				Index: i, Name: fd.Name, Field: "kind",
				Message: fmt.Sprintf("unknown kind %q", fd.Kind),
			}
		}
		if fd.Retention != "" {
			if _, ok := simlog.RetentionFromName(fd.Retention); !ok {
				return &FieldError{
					Index: i, Name: fd.Name, Field: "retention",
					Message: fmt.Sprintf("unknown retention %q (want latest or all)", fd.Retention),
				}
			}
		}

		if prev, exists := seen[fd.Name]; exists {
			return &FieldError{
				Index: i, Name: fd.Name, Field: "name",
				Message: fmt.Sprintf("duplicate name (previously defined at field[%d])", prev),
			}
		}
		seen[fd.Name] = i
	}

	return nil
}

// Format converts the file into a simlog.Format, running the full
// construction-time validation of the field table.
func (ff *File) Format() (simlog.Format, error) {
	out := simlog.Format{
		Name:          ff.Name,
		ProgressField: ff.ProgressField,
		Fields:        make([]simlog.FieldSpec, len(ff.Fields)),
	}

	for i, fd := range ff.Fields {
		kind, _ := simlog.KindFromName(fd.Kind)
		retention := simlog.RetainLatest
		if fd.Retention != "" {
			retention, _ = simlog.RetentionFromName(fd.Retention)
		}
		out.Fields[i] = simlog.FieldSpec{
			Name:         fd.Name,
			Prefix:       fd.Prefix,
			Kind:         kind,
			Retention:    retention,
			Marker:       fd.Marker,
			BeforeMarker: fd.BeforeMarker,
			Exclude:      append([]string(nil), fd.Exclude...),
			Layout:       fd.Layout,
			Delimiter:    fd.Delimiter,
			Subnames:     append([]string(nil), fd.Subnames...),
		}
	}

	if err := out.Validate(); err != nil {
		return simlog.Format{}, err
	}
	return out, nil
}

// LoadFormat is a convenience function that loads a format file and
// converts it to a simlog.Format in one step.
func LoadFormat(path string) (simlog.Format, error) {
	ff, err := Load(path)
	if err != nil {
		return simlog.Format{}, err
	}
	return ff.Format()
}
