package fasta

import (
	"errors"
	"fmt"
)

// Header-shape and input-shape failures. They are carried by *ParseError and
// can be matched with errors.Is.
var (
	ErrNotHeader        = errors.New("line does not start with '>'")
	ErrMissingLength    = errors.New("no length token in header")
	ErrUnknownTopology  = errors.New("no circular/linear token in header")
	ErrEmptyAccession   = errors.New("no accession token in header")
	ErrInvalidAccession = errors.New("accession contains a path separator")
	ErrBodyBeforeHeader = errors.New("sequence data before the first header")
	ErrNameCollision    = errors.New("output name already used by another record")
)

// Filesystem failures, carried by *FileError.
var (
	ErrInputNotFound     = errors.New("input not found")
	ErrOutputNotWritable = errors.New("output not writable")
)

// ParseError locates a failure inside an input file.
type ParseError struct {
	Path   string
	Line   int
	Header string
	Err    error
}

func (e *ParseError) Error() string {
	loc := e.Path
	if loc == "" {
		loc = "<header>"
	}
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, e.Line)
	}
	if e.Header == "" {
		return fmt.Sprintf("%s: %v", loc, e.Err)
	}
	return fmt.Sprintf("%s: %v: %q", loc, e.Err, e.Header)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FileError is an open/create/write failure. Kind is one of ErrInputNotFound
// or ErrOutputNotWritable; Err is the underlying os error.
type FileError struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *FileError) Unwrap() []error { return []error{e.Kind, e.Err} }
