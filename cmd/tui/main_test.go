package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Ivanmugu/fasta-extractor/internal/manifest"
)

func sampleEntries() []manifest.Entry {
	return []manifest.Entry{
		{Input: "run/a.fasta", Index: 0, Line: 1, Header: "1 length=100 circular=true", Dialect: "assembler",
			Length: 100, Topology: "circular", Output: "run/run_100_circular.fasta", Bytes: 40, Lines: 1, WrittenAt: time.Now()},
		{Input: "b.fasta", Index: 0, Line: 1, Header: "NC_000913.3 Escherichia coli", Dialect: "accession",
			Accession: "NC_000913.3", Output: "out/NC_000913.3.fasta", Bytes: 60, Lines: 2, WrittenAt: time.Now()},
	}
}

func TestCycleMode(t *testing.T) {
	m := initialModel("manifest.json", sampleEntries())
	if m.currentMode != modeDetails {
		t.Fatalf("expected initial mode details, got %v", m.currentMode)
	}
	m = m.cycleMode()
	if m.currentMode != modeSequence {
		t.Fatalf("expected sequence, got %v", m.currentMode)
	}
	m = m.cycleMode()
	if m.currentMode != modeHeader {
		t.Fatalf("expected header, got %v", m.currentMode)
	}
	m = m.cycleMode()
	if m.currentMode != modeDetails {
		t.Fatalf("expected details, got %v", m.currentMode)
	}
}

func TestListItems(t *testing.T) {
	entries := sampleEntries()
	asm := listItem{entry: entries[0]}
	if asm.Title() != "run_100_circular.fasta" {
		t.Fatalf("title %q", asm.Title())
	}
	if !strings.Contains(asm.Description(), "100 bp") {
		t.Fatalf("description %q", asm.Description())
	}
	acc := listItem{entry: entries[1]}
	if !strings.Contains(acc.Description(), "NC_000913.3") {
		t.Fatalf("description %q", acc.Description())
	}
	if !strings.Contains(acc.FilterValue(), "Escherichia") {
		t.Fatalf("filter value should include header, got %q", acc.FilterValue())
	}
}

func TestBuildDetailLines(t *testing.T) {
	entries := sampleEntries()
	asm := strings.Join(buildDetailLines(entries[0]), "\n")
	for _, want := range []string{"run/run_100_circular.fasta", "record 1, line 1", "100", "circular"} {
		if !strings.Contains(asm, want) {
			t.Fatalf("details missing %q:\n%s", want, asm)
		}
	}
	acc := strings.Join(buildDetailLines(entries[1]), "\n")
	if !strings.Contains(acc, "NC_000913.3") || strings.Contains(acc, "Topology") {
		t.Fatalf("unexpected accession details:\n%s", acc)
	}
}

func TestReadSequence(t *testing.T) {
	p := filepath.Join(t.TempDir(), "x.fasta")
	if err := os.WriteFile(p, []byte(">x 8 linear\nACGT\r\nACGT\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	seq, err := readSequence(p, 100)
	if err != nil {
		t.Fatalf("readSequence: %v", err)
	}
	if seq != "ACGTACGT" {
		t.Fatalf("got %q", seq)
	}
	seq, _ = readSequence(p, 6)
	if seq != "ACGTAC..." {
		t.Fatalf("truncated got %q", seq)
	}
}

func TestViewRendersEmptyManifest(t *testing.T) {
	m := initialModel("empty.json", nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	view := next.(model).View()
	if !strings.Contains(view, "No outputs recorded") {
		t.Fatalf("view should report empty manifest:\n%s", view)
	}
}
