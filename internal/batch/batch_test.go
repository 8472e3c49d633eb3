package batch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Ivanmugu/fasta-extractor/internal/fasta"
	"github.com/Ivanmugu/fasta-extractor/internal/manifest"
)

func writeInput(t *testing.T, root, sub, data string) string {
	t.Helper()
	d := filepath.Join(root, sub)
	if err := os.MkdirAll(d, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	p := filepath.Join(d, "assembly.fasta")
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func newRunner(t *testing.T, opts fasta.Options, outDir string) *Runner {
	t.Helper()
	s, err := fasta.NewSplitter(opts, fasta.NewClaims())
	if err != nil {
		t.Fatalf("NewSplitter: %v", err)
	}
	return &Runner{Splitter: s, OutDir: outDir, Jobs: 1, Logger: log.New(io.Discard)}
}

func TestRunContinuesAfterFailure(t *testing.T) {
	root := t.TempDir()
	good := writeInput(t, root, "SW0001_n2759_L1000-", ">1 length=4000000 circular\nACGT\n>2 length=3000 linear\nGG\n")
	bad := writeInput(t, root, "SW0002", ">1 length=10\nAC\n")
	empty := writeInput(t, root, "SW0003", "")

	results, err := newRunner(t, fasta.Options{}, "").Run(context.Background(), []string{good, bad, empty})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Err != nil || len(results[0].Outputs) != 2 {
		t.Fatalf("unexpected first result %+v", results[0])
	}
	if !errors.Is(results[1].Err, fasta.ErrUnknownTopology) {
		t.Fatalf("expected ErrUnknownTopology, got %v", results[1].Err)
	}
	if !results[2].NoOp || results[2].Err != nil {
		t.Fatalf("expected no-op result, got %+v", results[2])
	}
	if _, err := os.Stat(filepath.Join(root, "SW0001_n2759_L1000-", "SW0001_n2759_L1000_4000000_circular.fasta")); err != nil {
		t.Fatalf("expected output: %v", err)
	}

	s := Summarize(results)
	if s.Inputs != 3 || s.Succeeded != 2 || s.Failed != 1 || s.NoOp != 1 || s.Records != 2 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestRunParallelKeepsOrder(t *testing.T) {
	root := t.TempDir()
	var inputs []string
	for _, sub := range []string{"a-", "b-", "c-", "d-", "e-"} {
		inputs = append(inputs, writeInput(t, root, sub, ">1 length=2 linear\nAC\n"))
	}
	out := filepath.Join(root, "out")
	r := newRunner(t, fasta.Options{}, out)
	r.Jobs = 3

	results, err := r.Run(context.Background(), inputs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, res := range results {
		if res.Input != inputs[i] || res.Err != nil || len(res.Outputs) != 1 {
			t.Fatalf("result %d out of order or failed: %+v", i, res)
		}
	}
	entries, _ := os.ReadDir(out)
	if len(entries) != 5 {
		t.Fatalf("expected 5 outputs in shared dir, got %d", len(entries))
	}
}

func TestRunSharedOutDirCollision(t *testing.T) {
	root := t.TempDir()
	a := writeInput(t, root, "x", ">CP1.1 first\nAA\n")
	b := writeInput(t, root, "y", ">CP1.1 second\nCC\n")
	out := filepath.Join(root, "out")

	results, _ := newRunner(t, fasta.Options{Dialect: fasta.Accession}, out).Run(context.Background(), []string{a, b})
	if results[0].Err != nil {
		t.Fatalf("first input should succeed: %v", results[0].Err)
	}
	if !errors.Is(results[1].Err, fasta.ErrNameCollision) {
		t.Fatalf("expected cross-file collision, got %v", results[1].Err)
	}
}

func TestRunNeverOverwritesAnotherInput(t *testing.T) {
	root := t.TempDir()
	a := writeInput(t, root, "x", ">assembly from x\nAA\n")
	const bData = ">CP2.1 y\nCC\n"
	b := writeInput(t, root, "y", bData)

	opts := fasta.Options{Dialect: fasta.Accession, Collision: fasta.CollisionOverwrite}
	results, _ := newRunner(t, opts, filepath.Dir(b)).Run(context.Background(), []string{a, b})
	if !errors.Is(results[0].Err, fasta.ErrNameCollision) {
		t.Fatalf("expected collision with the other input, got %v", results[0].Err)
	}
	if results[1].Err != nil {
		t.Fatalf("second input should succeed: %v", results[1].Err)
	}
	got, _ := os.ReadFile(b)
	if string(got) != bData {
		t.Fatalf("input was overwritten: %q", got)
	}
}

func TestRunOutDirNotWritable(t *testing.T) {
	root := t.TempDir()
	in := writeInput(t, root, "x", ">1 length=2 linear\nAC\n")
	blocker := filepath.Join(root, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	results, _ := newRunner(t, fasta.Options{}, filepath.Join(blocker, "out")).Run(context.Background(), []string{in})
	if !errors.Is(results[0].Err, fasta.ErrOutputNotWritable) {
		t.Fatalf("expected ErrOutputNotWritable, got %v", results[0].Err)
	}
}

func TestRunRecordsManifest(t *testing.T) {
	root := t.TempDir()
	in := writeInput(t, root, "SW9-", ">1 length=4 circular\nACGT\n>2 length=2 linear\nAC\n")
	store, err := manifest.Open(filepath.Join(root, "manifest.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	r := newRunner(t, fasta.Options{}, "")
	r.Manifest = store
	r.Now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	if _, err := r.Run(context.Background(), []string{in}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 || filepath.Base(got[0].Output) != "SW9_4_circular.fasta" || got[1].Topology != "linear" {
		t.Fatalf("unexpected manifest %+v", got)
	}
}

func TestRunVerifyWarnsOnLengthMismatch(t *testing.T) {
	root := t.TempDir()
	in := writeInput(t, root, "s", ">1 length=10 circular\nACGT\n")
	var logs bytes.Buffer
	r := newRunner(t, fasta.Options{}, "")
	r.Verify = true
	r.Logger = log.New(&logs)

	results, _ := r.Run(context.Background(), []string{in})
	if results[0].Err != nil {
		t.Fatalf("mismatch must not fail the input: %v", results[0].Err)
	}
	if len(results[0].Warnings) != 1 || !strings.Contains(results[0].Warnings[0], "header length 10") {
		t.Fatalf("unexpected warnings %v", results[0].Warnings)
	}
	if !strings.Contains(logs.String(), "verification mismatch") {
		t.Fatalf("expected a logged warning, got %q", logs.String())
	}
	if Summarize(results).Warnings != 1 {
		t.Fatalf("summary should count the warning")
	}
}

func TestRunCanceled(t *testing.T) {
	root := t.TempDir()
	in := writeInput(t, root, "s", ">1 length=4 circular\nACGT\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, _ := newRunner(t, fasta.Options{}, "").Run(ctx, []string{in})
	if !errors.Is(results[0].Err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", results[0].Err)
	}
}

func TestRunDryRunCreatesNothing(t *testing.T) {
	root := t.TempDir()
	in := writeInput(t, root, "s", ">1 length=4 circular\nACGT\n")
	out := filepath.Join(root, "out")
	results, _ := newRunner(t, fasta.Options{DryRun: true}, out).Run(context.Background(), []string{in})
	if results[0].Err != nil || len(results[0].Outputs) != 1 {
		t.Fatalf("unexpected result %+v", results[0])
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("dry run must not create the output directory")
	}
}
