package fasta

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Options configure a Splitter.
type Options struct {
	Dialect   Dialect
	Collision CollisionPolicy
	// DryRun parses and names every record but writes nothing.
	DryRun bool
}

// Target describes one input file and where its records go.
type Target struct {
	Input   string
	Context string
	OutDir  string
}

// Written describes one output file produced (or, in dry-run mode, planned)
// by Split.
type Written struct {
	Input    string
	Index    int
	Line     int
	Header   Header
	Path     string
	Bytes    int64
	Lines    int
	Collided bool
}

// Result is the outcome of splitting one input. NoOp is set when the input
// held no header at all.
type Result struct {
	Input   string
	Outputs []Written
	NoOp    bool
}

// Splitter writes every record of a FASTA file to its own file.
type Splitter struct {
	parser Parser
	opts   Options
	claims *Claims
}

// NewSplitter returns a Splitter for opts. Passing the same Claims to several
// splitters (or reusing one splitter) makes name collisions visible across
// inputs; a nil Claims gets a fresh registry.
func NewSplitter(opts Options, claims *Claims) (*Splitter, error) {
	p, err := ParserFor(opts.Dialect)
	if err != nil {
		return nil, err
	}
	if claims == nil {
		claims = NewClaims()
	}
	return &Splitter{parser: p, opts: opts, claims: claims}, nil
}

// Protect keeps paths from ever being handed out as outputs. Split protects
// its own input; a batch protects all of its inputs up front.
func (s *Splitter) Protect(paths ...string) {
	for _, p := range paths {
		s.claims.Protect(absPath(p))
	}
}

// DryRun reports whether the splitter only plans outputs.
func (s *Splitter) DryRun() bool { return s.opts.DryRun }

type scanState int

const (
	awaitingHeader scanState = iota
	inRecord
)

// Split scans t.Input and flushes each record to t.OutDir. On error the
// returned Result still lists the files written before the failure. The input
// itself is protected in the claims registry, so a record named like its own
// source file is a collision rather than a rename over the input.
func (s *Splitter) Split(ctx context.Context, t Target) (Result, error) {
	res := Result{Input: t.Input}

	f, err := os.Open(t.Input)
	if err != nil {
		return res, &FileError{Op: "open", Path: t.Input, Kind: ErrInputNotFound, Err: err}
	}
	defer f.Close()
	s.claims.Protect(absPath(t.Input))

	var (
		state  = awaitingHeader
		cur    *Record
		lineNo int
		eol    string
	)

	flush := func() error {
		w, err := s.flush(t, cur, len(res.Outputs), eol)
		if err != nil {
			return err
		}
		res.Outputs = append(res.Outputs, w)
		return nil
	}

	r := bufio.NewReaderSize(f, 64*1024)
	for {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		line, rerr := r.ReadString('\n')
		if rerr != nil && rerr != io.EOF {
			return res, &FileError{Op: "read", Path: t.Input, Kind: ErrInputNotFound, Err: rerr}
		}
		if len(line) > 0 {
			lineNo++
			if eol == "" {
				eol = lineEnding(line)
			}

			switch {
			case strings.HasPrefix(line, ">"):
				if state == inRecord {
					if err := flush(); err != nil {
						return res, err
					}
				}
				h, err := s.parser.Parse(line)
				if err != nil {
					return res, locate(err, t.Input, lineNo)
				}
				cur = &Record{Header: h, Line: lineNo}
				state = inRecord
			case state == inRecord:
				cur.Lines = append(cur.Lines, line)
			case strings.TrimSpace(line) == "":
				// leading blank lines carry no data
			default:
				return res, &ParseError{
					Path:   t.Input,
					Line:   lineNo,
					Header: strings.TrimRight(line, "\r\n"),
					Err:    ErrBodyBeforeHeader,
				}
			}
		}
		if rerr == io.EOF {
			break
		}
	}

	if state == awaitingHeader {
		res.NoOp = true
		return res, nil
	}
	if err := flush(); err != nil {
		return res, err
	}
	return res, nil
}

func (s *Splitter) flush(t Target, rec *Record, index int, eol string) (Written, error) {
	name := OutputName(rec.Header, t.Context)
	path, collided, err := s.claims.Claim(absPath(filepath.Join(t.OutDir, name)), s.opts.Collision)
	if err != nil {
		return Written{}, &ParseError{Path: t.Input, Line: rec.Line, Header: rec.Header.Raw, Err: err}
	}

	w := Written{
		Input:    t.Input,
		Index:    index,
		Line:     rec.Line,
		Header:   rec.Header,
		Path:     path,
		Lines:    len(rec.Lines),
		Collided: collided,
	}
	if s.opts.DryRun {
		w.Bytes, _ = rec.WriteTo(io.Discard, eol)
		return w, nil
	}
	w.Bytes, err = writeRecord(path, rec, eol)
	return w, err
}

// writeRecord writes rec to a temporary file next to path and renames it into
// place, so a failed write never leaves a truncated output behind.
func writeRecord(path string, rec *Record, eol string) (int64, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".split-*"+outputExt)
	if err != nil {
		return 0, &FileError{Op: "create", Path: path, Kind: ErrOutputNotWritable, Err: err}
	}
	tmpName := tmp.Name()
	fail := func(op string, err error) (int64, error) {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return 0, &FileError{Op: op, Path: path, Kind: ErrOutputNotWritable, Err: err}
	}

	bw := bufio.NewWriter(tmp)
	n, err := rec.WriteTo(bw, eol)
	if err != nil {
		return fail("write", err)
	}
	if err := bw.Flush(); err != nil {
		return fail("write", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fail("chmod", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return 0, &FileError{Op: "close", Path: path, Kind: ErrOutputNotWritable, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return 0, &FileError{Op: "rename", Path: path, Kind: ErrOutputNotWritable, Err: err}
	}
	return n, nil
}

// EnsureDir creates dir (and parents) when it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &FileError{Op: "mkdir", Path: dir, Kind: ErrOutputNotWritable, Err: err}
	}
	return nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

func locate(err error, path string, line int) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Path = path
		pe.Line = line
		return pe
	}
	return err
}
