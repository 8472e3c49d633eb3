package fasta

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Dialect selects how a header line is interpreted. It is always declared by
// the caller; the two dialects are not distinguishable by looking at a header.
type Dialect int

const (
	Assembler Dialect = iota
	Accession
)

func (d Dialect) String() string {
	switch d {
	case Assembler:
		return "assembler"
	case Accession:
		return "accession"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// ParseDialect accepts "assembler" or "accession" in any case.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "assembler", "":
		return Assembler, nil
	case "accession":
		return Accession, nil
	}
	return 0, fmt.Errorf("unknown dialect %q (want assembler or accession)", s)
}

// Topology of an assembled molecule.
type Topology string

const (
	Circular Topology = "circular"
	Linear   Topology = "linear"
)

// Header is a parsed header line. Raw is the header text without the '>'
// marker and line terminator. Length and Topology are set for the assembler
// dialect, Accession for the accession dialect.
type Header struct {
	Raw       string
	Dialect   Dialect
	Length    int
	Topology  Topology
	Accession string
}

// Parser extracts the naming attributes of one dialect from a header line.
type Parser interface {
	Parse(line string) (Header, error)
}

// ParserFor returns the parser for d.
func ParserFor(d Dialect) (Parser, error) {
	switch d {
	case Assembler:
		return AssemblerParser{}, nil
	case Accession:
		return AccessionParser{}, nil
	}
	return nil, fmt.Errorf("no parser for %v", d)
}

// Parse parses a single header line in dialect d.
func Parse(line string, d Dialect) (Header, error) {
	p, err := ParserFor(d)
	if err != nil {
		return Header{}, err
	}
	return p.Parse(line)
}

// AssemblerParser reads headers such as
//
//	>1 length=4000000 depth=1.00x circular=true
//	>contig_2 linear 52000
//
// A length=N (or len=N) token takes precedence over bare integers; among
// bare integers the last one wins. Topology comes from a bare circular or
// linear token, topology=..., or circular=true|false.
type AssemblerParser struct{}

func (AssemblerParser) Parse(line string) (Header, error) {
	raw, err := stripMarker(line)
	if err != nil {
		return Header{}, err
	}
	h := Header{Raw: raw, Dialect: Assembler}

	keyed, bare := -1, -1
	for _, tok := range headerTokens(raw) {
		if key, val, ok := strings.Cut(tok, "="); ok {
			switch strings.ToLower(key) {
			case "length", "len":
				if n, ok := parseLength(val); ok {
					keyed = n
				}
			case "topology":
				if t, ok := topologyOf(val); ok {
					h.Topology = t
				}
			case "circular":
				switch strings.ToLower(val) {
				case "true", "yes", "1":
					h.Topology = Circular
				case "false", "no", "0":
					h.Topology = Linear
				}
			}
			continue
		}
		if t, ok := topologyOf(tok); ok {
			h.Topology = t
			continue
		}
		if n, ok := parseLength(tok); ok {
			bare = n
		}
	}

	switch {
	case keyed >= 0:
		h.Length = keyed
	case bare >= 0:
		h.Length = bare
	default:
		return Header{}, &ParseError{Header: raw, Err: ErrMissingLength}
	}
	if h.Topology == "" {
		return Header{}, &ParseError{Header: raw, Err: ErrUnknownTopology}
	}
	return h, nil
}

// AccessionParser takes the first whitespace-delimited token verbatim, so
// version suffixes such as CP049609.1 survive.
type AccessionParser struct{}

func (AccessionParser) Parse(line string) (Header, error) {
	raw, err := stripMarker(line)
	if err != nil {
		return Header{}, err
	}
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return Header{}, &ParseError{Header: raw, Err: ErrEmptyAccession}
	}
	acc := fields[0]
	if strings.ContainsAny(acc, `/\`) || acc == "." || acc == ".." {
		return Header{}, &ParseError{Header: raw, Err: ErrInvalidAccession}
	}
	return Header{Raw: raw, Dialect: Accession, Accession: acc}, nil
}

func stripMarker(line string) (string, error) {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, ">") {
		return "", &ParseError{Header: line, Err: ErrNotHeader}
	}
	return line[1:], nil
}

func headerTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';' || r == '|'
	})
}

// parseLength accepts plain decimal digits only; signs and separators are
// rejected.
func parseLength(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func topologyOf(s string) (Topology, bool) {
	switch strings.ToLower(s) {
	case "circular":
		return Circular, true
	case "linear":
		return Linear, true
	}
	return "", false
}
