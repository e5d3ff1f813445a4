package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/simlog/simlog-go/pkg/simlog"
	"github.com/simlog/simlog-go/pkg/simlog/value"
)

// ValidTableFormats lists all valid table output formats.
var ValidTableFormats = map[string]bool{
	"csv":    true,
	"jsonl":  true,
	"pretty": true,
}

// ValidWatchFormats lists all valid watch output formats.
var ValidWatchFormats = map[string]bool{
	"jsonl":  true,
	"pretty": true,
}

// WriteTable writes an assembled table in the specified format.
func WriteTable(format string, tbl *simlog.Table, out io.Writer) error {
	switch format {
	case "csv":
		return WriteTableCSV(tbl, out)
	case "jsonl":
		return WriteTableJSONL(tbl, out)
	case "pretty":
		return WriteTablePretty(tbl, out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteTableCSV writes the table as CSV with a header row. Missing values
// are left as empty cells.
func WriteTableCSV(tbl *simlog.Table, out io.Writer) error {
	w := csv.NewWriter(out)
	names := tbl.Columns()
	if err := w.Write(names); err != nil {
		return err
	}

	record := make([]string, len(names))
	for r := 0; r < tbl.Len(); r++ {
		for c, name := range names {
			col, _ := tbl.Column(name)
			record[c] = cellString(col[r])
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteTableJSONL writes one JSON object per row, keyed by column name.
func WriteTableJSONL(tbl *simlog.Table, out io.Writer) error {
	names := tbl.Columns()
	enc := json.NewEncoder(out)
	for r := 0; r < tbl.Len(); r++ {
		row := make(map[string]any, len(names))
		for _, name := range names {
			col, _ := tbl.Column(name)
			row[name] = cellJSON(col[r])
		}
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteTablePretty writes the table as aligned columns for terminals.
func WriteTablePretty(tbl *simlog.Table, out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	names := tbl.Columns()

	for c, name := range names {
		if c > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, name)
	}
	fmt.Fprintln(w)

	for r := 0; r < tbl.Len(); r++ {
		for c, name := range names {
			if c > 0 {
				fmt.Fprint(w, "\t")
			}
			col, _ := tbl.Column(name)
			if s := cellString(col[r]); s != "" {
				fmt.Fprint(w, s)
			} else {
				fmt.Fprint(w, "-")
			}
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

// cellString renders a value for CSV and pretty output. Missing values
// render empty.
func cellString(v value.Value) string {
	if v.IsMissing() {
		return ""
	}
	return v.String()
}

// cellJSON renders a value for JSON output: null for missing, numbers for
// floats, formatted strings otherwise.
func cellJSON(v value.Value) any {
	if v.IsMissing() {
		return nil
	}
	switch v.Kind {
	case value.KindFloat:
		return v.Float
	case value.KindTime:
		return v.Time.Format(time.RFC3339)
	default:
		return v.String()
	}
}

// watchRecord is the JSON shape of one progress update.
type watchRecord struct {
	Progress      *float64 `json:"progress,omitempty"`
	Iterations    int      `json:"iterations"`
	LinesConsumed int      `json:"lines_consumed"`
}

// OutputUpdate writes a progress update in the specified format.
func OutputUpdate(format string, u simlog.Update, out io.Writer) error {
	switch format {
	case "jsonl":
		rec := watchRecord{
			Iterations:    u.Iterations,
			LinesConsumed: u.LinesConsumed,
		}
		if u.HasProgress {
			p := u.Progress
			rec.Progress = &p
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case "pretty":
		var err error
		if u.HasProgress {
			_, err = fmt.Fprintf(out, "%6.1f%%  iterations=%d  lines=%d\n",
				u.Progress, u.Iterations, u.LinesConsumed)
		} else {
			_, err = fmt.Fprintf(out, "iterations=%d  lines=%d\n",
				u.Iterations, u.LinesConsumed)
		}
		return err
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
