package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/simlog/simlog-go/pkg/simlog"
	"github.com/simlog/simlog-go/pkg/simlog/value"
)

// buildTable assembles a small two-row table through the public API.
func buildTable(t *testing.T) *simlog.Table {
	t.Helper()
	format := simlog.Format{
		Name: "test",
		Fields: []simlog.FieldSpec{
			{Name: "iter", Prefix: "ITER:", Kind: simlog.KindFloat, Retention: simlog.RetainAll, BeforeMarker: true},
			{Name: "eft", Prefix: "EFT:", Kind: simlog.KindTimestamp, Layout: "15:04:05", Retention: simlog.RetainAll,
				BeforeMarker: true, Exclude: []string{"..."}},
			{Name: "elapsed", Prefix: "ELAPSED:", Kind: simlog.KindDurationHMS, Retention: simlog.RetainAll, Marker: true},
		},
	}
	sess, err := simlog.NewSession(format)
	if err != nil {
		t.Fatal(err)
	}
	err = sess.Process([]string{
		"ITER: 1.5",
		"EFT: ...",
		"ELAPSED: 00:00:01",
		"ITER: 2.5",
		"EFT: 12:00:00",
		"ELAPSED: 00:00:02",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := sess.Finalize(); err != nil {
		t.Fatal(err)
	}
	tbl, err := sess.Table()
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestWriteTableCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTableCSV(buildTable(t), &buf); err != nil {
		t.Fatalf("WriteTableCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 (header + 2 rows)", len(lines))
	}
	if lines[0] != "iter,eft,elapsed" {
		t.Errorf("header = %q, want %q", lines[0], "iter,eft,elapsed")
	}
	// The first EFT was excluded and must be an empty cell.
	if !strings.HasPrefix(lines[1], "1.5,,") {
		t.Errorf("row 1 = %q, want empty eft cell", lines[1])
	}
}

func TestWriteTableJSONL(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTableJSONL(buildTable(t), &buf); err != nil {
		t.Fatalf("WriteTableJSONL() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var row map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &row); err != nil {
		t.Fatalf("row 1 is not valid JSON: %v", err)
	}
	if row["iter"] != 1.5 {
		t.Errorf("iter = %v, want 1.5", row["iter"])
	}
	if v, ok := row["eft"]; !ok || v != nil {
		t.Errorf("eft = %v, want null", v)
	}

	if err := json.Unmarshal([]byte(lines[1]), &row); err != nil {
		t.Fatalf("row 2 is not valid JSON: %v", err)
	}
	if row["eft"] == nil {
		t.Error("eft in row 2 should not be null")
	}
}

func TestWriteTablePretty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTablePretty(buildTable(t), &buf); err != nil {
		t.Fatalf("WriteTablePretty() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "iter") || !strings.Contains(out, "elapsed") {
		t.Errorf("missing header in output:\n%s", out)
	}
	// Missing cells render as a dash.
	if !strings.Contains(out, "-") {
		t.Errorf("missing cell not rendered as dash:\n%s", out)
	}
}

func TestWriteTableUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable("xml", buildTable(t), &buf); err == nil {
		t.Error("WriteTable(xml) should fail")
	}
}

func TestOutputUpdateJSONL(t *testing.T) {
	u := simlog.Update{
		Progress:      45.2,
		HasProgress:   true,
		Iterations:    3,
		LinesConsumed: 42,
	}

	var buf bytes.Buffer
	if err := OutputUpdate("jsonl", u, &buf); err != nil {
		t.Fatalf("OutputUpdate() error = %v", err)
	}

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if rec["progress"] != 45.2 {
		t.Errorf("progress = %v, want 45.2", rec["progress"])
	}
	if rec["iterations"] != float64(3) {
		t.Errorf("iterations = %v, want 3", rec["iterations"])
	}
}

func TestOutputUpdateJSONLNoProgress(t *testing.T) {
	u := simlog.Update{Iterations: 1, LinesConsumed: 5}

	var buf bytes.Buffer
	if err := OutputUpdate("jsonl", u, &buf); err != nil {
		t.Fatalf("OutputUpdate() error = %v", err)
	}
	if strings.Contains(buf.String(), "progress") {
		t.Errorf("progress key present for steady run: %s", buf.String())
	}
}

func TestOutputUpdatePretty(t *testing.T) {
	u := simlog.Update{
		Progress:      80.0,
		HasProgress:   true,
		Iterations:    10,
		LinesConsumed: 120,
	}

	var buf bytes.Buffer
	if err := OutputUpdate("pretty", u, &buf); err != nil {
		t.Fatalf("OutputUpdate() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "80.0%") {
		t.Errorf("missing percentage: %q", out)
	}
	if !strings.Contains(out, "iterations=10") {
		t.Errorf("missing iteration count: %q", out)
	}
}

func TestCellString(t *testing.T) {
	tests := []struct {
		name string
		v    value.Value
		want string
	}{
		{"float", value.Float(1.25), "1.25"},
		{"missing float", value.Missing(value.KindFloat), ""},
		{"missing string", value.Missing(value.KindString), ""},
		{"duration", value.Duration(90 * time.Second), "1m30s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cellString(tt.v); got != tt.want {
				t.Errorf("cellString() = %q, want %q", got, tt.want)
			}
		})
	}
}
