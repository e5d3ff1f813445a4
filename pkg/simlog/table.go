package simlog

import (
	"github.com/simlog/simlog-go/pkg/simlog/value"
)

// Table is the tabular projection of a session's history fields: one
// ordered column per output name, one row per simulation iteration in
// emission order. Rows are never re-sorted. A Table does not own the data;
// it is a snapshot recomputed from accumulator state and goes stale after
// Reset.
type Table struct {
	names []string
	cols  map[string][]value.Value
}

// Columns returns the output column names in extraction order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.names...)
}

// Column returns the values of the named column, and whether it exists.
func (t *Table) Column(name string) ([]value.Value, bool) {
	col, ok := t.cols[name]
	return col, ok
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.names) == 0 {
		return 0
	}
	return len(t.cols[t.names[0]])
}

func (t *Table) add(name string, col []value.Value) {
	t.names = append(t.names, name)
	t.cols[name] = col
}

// Table assembles every history field into one aligned table. Multi-value
// fields expand into one column per sub-name. After a completed sync pass
// all columns have equal length; if they do not, the mismatch is surfaced
// as *AlignmentError rather than silently truncated.
func (s *Session) Table() (*Table, error) {
	t := &Table{cols: make(map[string][]value.Value)}

	for i := range s.format.Fields {
		f := &s.format.Fields[i]
		if f.Retention != RetainAll {
			continue
		}
		vals := s.acc[i].values

		if f.Kind == KindTimeFloatMult {
			for j, sub := range f.Subnames {
				col := make([]value.Value, len(vals))
				for r, v := range vals {
					if j < len(v.Multi) {
						col[r] = v.Multi[j]
					} else {
						col[r] = value.Missing(value.KindFloat)
					}
				}
				t.add(sub, col)
			}
			continue
		}

		t.add(f.Name, append([]value.Value(nil), vals...))
	}

	want := -1
	for _, name := range t.names {
		n := len(t.cols[name])
		if want == -1 {
			want = n
			continue
		}
		if n != want {
			return nil, &AlignmentError{Field: name, Len: n, Want: want}
		}
	}

	return t, nil
}
