package fasta

// Package fasta parses FASTA header lines in the two supported dialects and
// splits multi-record FASTA files into one file per record. Body lines are
// carried through byte-for-byte; nothing here validates the sequence alphabet.

import (
	"io"
	"strings"
)

// Record is a single FASTA record: its parsed header, the 1-based line number
// the header was found on, and the body lines exactly as read (terminators
// included, blank lines kept).
type Record struct {
	Header Header
	Line   int
	Lines  []string
}

// Sequence returns the body with line terminators and surrounding whitespace
// removed from every line.
func (r *Record) Sequence() string {
	var b strings.Builder
	for _, l := range r.Lines {
		b.WriteString(strings.TrimSpace(l))
	}
	return b.String()
}

// WriteTo writes the record as FASTA: the marker and raw header text followed
// by eol, then each body line as read. A final body line without a terminator
// gets eol appended.
func (r *Record) WriteTo(w io.Writer, eol string) (int64, error) {
	if eol == "" {
		eol = "\n"
	}
	var total int64
	n, err := io.WriteString(w, ">"+r.Header.Raw+eol)
	total += int64(n)
	if err != nil {
		return total, err
	}
	for _, l := range r.Lines {
		n, err = io.WriteString(w, l)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	if k := len(r.Lines); k > 0 && !strings.HasSuffix(r.Lines[k-1], "\n") {
		n, err = io.WriteString(w, eol)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// lineEnding reports the terminator of a line read with ReadString('\n'),
// or "" when the line has none.
func lineEnding(line string) string {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return "\r\n"
	case strings.HasSuffix(line, "\n"):
		return "\n"
	}
	return ""
}
