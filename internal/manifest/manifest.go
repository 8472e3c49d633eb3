// Package manifest records the files produced by a run so they can be listed
// or browsed later. Two backends exist: an indented JSON file and a SQLite
// database, picked by the path's extension.
package manifest

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/Ivanmugu/fasta-extractor/internal/fasta"
)

// Entry is one output file.
type Entry struct {
	Input     string    `json:"input"`
	Index     int       `json:"index"`
	Line      int       `json:"line"`
	Header    string    `json:"header"`
	Dialect   string    `json:"dialect"`
	Length    int       `json:"length,omitempty"`
	Topology  string    `json:"topology,omitempty"`
	Accession string    `json:"accession,omitempty"`
	Output    string    `json:"output"`
	Bytes     int64     `json:"bytes"`
	Lines     int       `json:"lines"`
	WrittenAt time.Time `json:"written_at"`
}

// FromWritten converts a splitter output into an Entry stamped with at.
func FromWritten(w fasta.Written, at time.Time) Entry {
	e := Entry{
		Input:     w.Input,
		Index:     w.Index,
		Line:      w.Line,
		Header:    w.Header.Raw,
		Dialect:   w.Header.Dialect.String(),
		Output:    w.Path,
		Bytes:     w.Bytes,
		Lines:     w.Lines,
		WrittenAt: at.UTC(),
	}
	switch w.Header.Dialect {
	case fasta.Assembler:
		e.Length = w.Header.Length
		e.Topology = string(w.Header.Topology)
	case fasta.Accession:
		e.Accession = w.Header.Accession
	}
	return e
}

// Store persists entries. Save merges with what is stored: an entry replaces
// any stored entry with the same Output path.
type Store interface {
	Save(entries []Entry) error
	Load() ([]Entry, error)
	Close() error
}

// Open returns the backend for path: SQLite for .db, .sqlite and .sqlite3,
// JSON otherwise.
func Open(path string) (Store, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return openSQLite(path)
	}
	return &jsonStore{path: path}, nil
}

// merge replaces entries of old that share an Output with one of add and
// appends the rest, keeping first-seen order.
func merge(old, add []Entry) []Entry {
	pos := make(map[string]int, len(old))
	out := make([]Entry, 0, len(old)+len(add))
	for _, e := range old {
		pos[e.Output] = len(out)
		out = append(out, e)
	}
	for _, e := range add {
		if i, ok := pos[e.Output]; ok {
			out[i] = e
			continue
		}
		pos[e.Output] = len(out)
		out = append(out, e)
	}
	return out
}
