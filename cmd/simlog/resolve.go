package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/simlog/simlog-go/internal/logfinder"
	"github.com/simlog/simlog-go/pkg/simlog"
	"github.com/simlog/simlog-go/pkg/simlog/formatfile"
	"github.com/simlog/simlog-go/pkg/simlog/formats"
)

// resolveLogFile picks the log file to read: an explicit path argument
// wins; otherwise the newest .lf1/.lf2 file in the results directory is
// used.
func resolveLogFile(args []string, dir string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	d, err := logfinder.FindLogDir(dir)
	if err != nil {
		return "", err
	}
	for _, ext := range []string{"lf1", "lf2"} {
		path, err := logfinder.FindLatestLogFile(d, ext)
		if err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no .lf1 or .lf2 log files found in %s", d)
}

// resolveFormat picks the field table for a log file. Precedence: a YAML
// format file, then an explicit built-in name, then the file suffix
// combined with the flow type.
func resolveFormat(path, formatFile, formatName string, steady bool) (simlog.Format, error) {
	if formatFile != "" {
		return formatfile.LoadFormat(formatFile)
	}
	if formatName != "" {
		return formats.ByName(formatName)
	}
	suffix := strings.TrimPrefix(filepath.Ext(path), ".")
	return formats.Lookup(suffix, steady)
}
