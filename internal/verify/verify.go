// Package verify re-reads split outputs with an independent FASTA reader.
package verify

import (
	"fmt"
	"os"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	biofasta "github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/Ivanmugu/fasta-extractor/internal/fasta"
)

// Report describes one re-read output. WantLength is the header's declared
// length for the assembler dialect and -1 otherwise.
type Report struct {
	Path       string
	Records    int
	Residues   int
	WantLength int
}

// LengthMismatch reports whether the residue count disagrees with the
// length the header declared.
func (r Report) LengthMismatch() bool {
	return r.WantLength >= 0 && r.Residues != r.WantLength
}

// OK is true for a single-record file whose length, if declared, matches.
func (r Report) OK() bool {
	return r.Records == 1 && !r.LengthMismatch()
}

func (r Report) String() string {
	switch {
	case r.Records != 1:
		return fmt.Sprintf("%s: expected 1 record, found %d", r.Path, r.Records)
	case r.LengthMismatch():
		return fmt.Sprintf("%s: header length %d, sequence has %d residues", r.Path, r.WantLength, r.Residues)
	}
	return fmt.Sprintf("%s: ok (%d residues)", r.Path, r.Residues)
}

// File reads the output at path and compares it with header h.
func File(path string, h fasta.Header) (Report, error) {
	rep := Report{Path: path, WantLength: -1}
	if h.Dialect == fasta.Assembler {
		rep.WantLength = h.Length
	}

	f, err := os.Open(path)
	if err != nil {
		return rep, err
	}
	defer f.Close()

	sc := seqio.NewScanner(biofasta.NewReader(f, linear.NewSeq("", nil, alphabet.DNA)))
	for sc.Next() {
		rep.Records++
		rep.Residues += sc.Seq().Len()
	}
	if err := sc.Error(); err != nil {
		return rep, fmt.Errorf("read %s: %w", path, err)
	}
	return rep, nil
}
