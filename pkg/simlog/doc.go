// Package simlog provides incremental parsing of streaming simulation
// engine log files.
//
// A long-running hydraulic simulation appends typed status lines to a text
// log while it executes. This package lets a monitoring process read that
// log incrementally: lines are classified by prefix against an ordered
// field table, converted to typed values, accumulated into per-field
// columns and kept row-aligned to the simulation's iteration counter.
// Re-reading after the file has grown resumes from the last consumed line
// instead of parsing from scratch.
//
// # Basic Usage
//
// To parse a complete log:
//
//	sess, err := simlog.NewSession(formats.LF1Unsteady())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := sess.Process(lines); err != nil {
//	    log.Fatal(err)
//	}
//	if err := sess.Finalize(); err != nil {
//	    log.Fatal(err)
//	}
//	table, err := sess.Table()
//
// To poll a running simulation, feed only the newly appended lines and
// skip Finalize until the run has finished:
//
//	for batch := range newLines {
//	    if err := sess.Process(batch); err != nil {
//	        log.Fatal(err)
//	    }
//	    pct, err := sess.Progress()
//	    if err == nil {
//	        fmt.Printf("%.1f%% complete\n", pct)
//	    }
//	}
//
// To follow a growing log file without managing the poll loop yourself,
// use [Watcher]:
//
//	w, err := simlog.NewWatcher(path, formats.LF1Unsteady())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	updates, errs, err := w.Watch(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for u := range updates {
//	    fmt.Printf("%.1f%% (%d iterations)\n", u.Progress, u.Iterations)
//	}
//
// # Custom Formats
//
// Field tables for the standard log variants live in the [formats]
// subpackage. Other variants can be described in YAML and loaded with the
// [formatfile] subpackage, or built directly as a [Format] value.
//
// The package never opens log files itself except through Watcher; the
// core only consumes already-decoded lines, so any line source works.
package simlog
