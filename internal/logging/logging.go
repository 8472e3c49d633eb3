package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// terminalWriter wraps an io.Writer and exposes an Fd method so the logger's
// colour detection still sees the terminal behind a MultiWriter.
type terminalWriter struct {
	w  io.Writer
	fd uintptr
}

func (tw *terminalWriter) Write(p []byte) (int, error) { return tw.w.Write(p) }

// Fd exposes the underlying file descriptor (e.g., os.Stderr.Fd()).
func (tw *terminalWriter) Fd() uintptr { return tw.fd }

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Options select where logs go and how verbose they are.
type Options struct {
	Level   string
	Verbose bool
	File    string
}

// New builds the process logger on stderr. When opts.File is set, lines are
// also appended there; the returned closer releases that file and is never nil.
// The returned warnings name every setting that had to be ignored.
func New(stderr *os.File, opts Options) (*log.Logger, io.Closer, []string) {
	var (
		out      io.Writer = stderr
		closer   io.Closer = nopCloser{}
		warnings []string
	)
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			out = io.MultiWriter(stderr, f)
			closer = f
		} else {
			warnings = append(warnings, "log_file could not be opened; logging to stderr only")
		}
	}

	logger := log.NewWithOptions(&terminalWriter{w: out, fd: stderr.Fd()}, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "fasta-extractor",
	})

	level, ok := ParseLevel(opts.Level)
	if !ok {
		warnings = append(warnings, "unknown log_level, defaulting to info")
	}
	if opts.Verbose {
		level = log.DebugLevel
	}
	logger.SetLevel(level)
	return logger, closer, warnings
}

// ParseLevel maps a config log_level to a logger level. Unknown values give
// InfoLevel and false.
func ParseLevel(s string) (log.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel, true
	case "info", "":
		return log.InfoLevel, true
	case "warn", "warning":
		return log.WarnLevel, true
	case "error":
		return log.ErrorLevel, true
	default:
		return log.InfoLevel, false
	}
}
