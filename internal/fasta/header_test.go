package fasta

import (
	"errors"
	"testing"
)

func TestAssemblerParser(t *testing.T) {
	tests := []struct {
		line     string
		length   int
		topology Topology
	}{
		{">1 length=4000000 circular", 4000000, Circular},
		{">1 length=4000000 depth=1.00x circular=true", 4000000, Circular},
		{">2 length=52000 depth=3.10x linear\n", 52000, Linear},
		{">3 length=1200 circular=false", 1200, Linear},
		{">contig_4 LINEAR 7000\r\n", 7000, Linear},
		{">5 len=99;topology=Circular", 99, Circular},
		{">6|8800|circular", 8800, Circular},
		{">7 length=0 linear", 0, Linear},
	}
	for _, tt := range tests {
		h, err := AssemblerParser{}.Parse(tt.line)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.line, err)
		}
		if h.Length != tt.length || h.Topology != tt.topology {
			t.Fatalf("%q: expected %d/%s, got %d/%s", tt.line, tt.length, tt.topology, h.Length, h.Topology)
		}
		if h.Dialect != Assembler {
			t.Fatalf("%q: expected assembler dialect, got %v", tt.line, h.Dialect)
		}
	}
}

func TestAssemblerParserLinearDefaultIsNotAssumed(t *testing.T) {
	// "depth" and friends are not topology; a header naming neither fails.
	_, err := AssemblerParser{}.Parse(">1 length=4000000 depth=1.00x")
	if !errors.Is(err, ErrUnknownTopology) {
		t.Fatalf("expected ErrUnknownTopology, got %v", err)
	}
}

func TestAssemblerParserMissingLength(t *testing.T) {
	for _, line := range []string{">contig circular", ">x length=-5 linear"} {
		_, err := AssemblerParser{}.Parse(line)
		if !errors.Is(err, ErrMissingLength) {
			t.Fatalf("%q: expected ErrMissingLength, got %v", line, err)
		}
	}
}

func TestAssemblerParserKeyedLengthWins(t *testing.T) {
	h, err := Parse(">1 length=4000000 circular 12", Assembler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Length != 4000000 {
		t.Fatalf("expected keyed length, got %d", h.Length)
	}
	if h.Raw != "1 length=4000000 circular 12" {
		t.Fatalf("unexpected raw %q", h.Raw)
	}
}

func TestAccessionParser(t *testing.T) {
	h, err := Parse(">CP049609.1 Escherichia coli, complete genome\n", Accession)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Accession != "CP049609.1" {
		t.Fatalf("expected CP049609.1, got %q", h.Accession)
	}
	if h.Raw != "CP049609.1 Escherichia coli, complete genome" {
		t.Fatalf("unexpected raw %q", h.Raw)
	}
}

func TestAccessionParserErrors(t *testing.T) {
	tests := []struct {
		line string
		want error
	}{
		{">", ErrEmptyAccession},
		{">   \t", ErrEmptyAccession},
		{">../etc/passwd x", ErrInvalidAccession},
		{">a\\b", ErrInvalidAccession},
		{"CP049609.1", ErrNotHeader},
	}
	for _, tt := range tests {
		_, err := AccessionParser{}.Parse(tt.line)
		if !errors.Is(err, tt.want) {
			t.Fatalf("%q: expected %v, got %v", tt.line, tt.want, err)
		}
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("%q: expected *ParseError, got %T", tt.line, err)
		}
	}
}

func TestParseDialect(t *testing.T) {
	for in, want := range map[string]Dialect{"": Assembler, "Assembler": Assembler, "ACCESSION": Accession} {
		got, err := ParseDialect(in)
		if err != nil || got != want {
			t.Fatalf("ParseDialect(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseDialect("genbank"); err == nil {
		t.Fatalf("expected error for unknown dialect")
	}
}
