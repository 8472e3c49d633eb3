// Package batch splits a list of input files, each independently: a failure
// in one input is recorded in its Result and the rest carry on.
package batch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/Ivanmugu/fasta-extractor/internal/fasta"
	"github.com/Ivanmugu/fasta-extractor/internal/manifest"
	"github.com/Ivanmugu/fasta-extractor/internal/verify"
)

// Runner holds what is shared by every input of a run.
type Runner struct {
	Splitter *fasta.Splitter
	// OutDir is the shared output directory; empty writes each input's
	// records next to it.
	OutDir   string
	Jobs     int
	Manifest manifest.Store
	Verify   bool
	Logger   *log.Logger
	// Now stamps manifest entries; nil means time.Now.
	Now func() time.Time
}

// Result is the outcome of one input.
type Result struct {
	Input    string
	Outputs  []fasta.Written
	NoOp     bool
	Err      error
	Warnings []string
}

// Failed returns a Result for an input that never reached the splitter, such
// as an ambiguous directory found during discovery.
func Failed(input string, err error) Result {
	return Result{Input: input, Err: err}
}

// Summary totals a run.
type Summary struct {
	Inputs    int
	Succeeded int
	Failed    int
	NoOp      int
	Records   int
	Warnings  int
}

// Summarize counts results. No-op inputs count as succeeded too.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		s.Inputs++
		s.Records += len(r.Outputs)
		s.Warnings += len(r.Warnings)
		switch {
		case r.Err != nil:
			s.Failed++
		case r.NoOp:
			s.NoOp++
			s.Succeeded++
		default:
			s.Succeeded++
		}
	}
	return s
}

// Run splits inputs and returns one Result per input, in input order. The
// returned error is only set when the manifest could not be saved; per-input
// failures live in the results.
func (r *Runner) Run(ctx context.Context, inputs []string) ([]Result, error) {
	logger := r.logger()
	results := make([]Result, len(inputs))

	if r.OutDir != "" && !r.Splitter.DryRun() {
		if err := fasta.EnsureDir(r.OutDir); err != nil {
			logger.Error("cannot create output directory", "path", r.OutDir, "err", err)
			for i, in := range inputs {
				results[i] = Failed(in, err)
			}
			return results, nil
		}
	}

	r.Splitter.Protect(inputs...)

	jobs := r.Jobs
	if jobs < 1 {
		jobs = 1
	}
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Failed(in, err)
				return nil
			}
			results[i] = r.one(ctx, in)
			return nil
		})
	}
	_ = g.Wait()

	return results, r.record(results)
}

func (r *Runner) one(ctx context.Context, input string) Result {
	logger := r.logger().With("input", input)

	abs, err := filepath.Abs(input)
	if err != nil {
		return Failed(input, err)
	}
	outDir := r.OutDir
	if outDir == "" {
		outDir = filepath.Dir(abs)
	}
	t := fasta.Target{Input: abs, Context: fasta.DeriveContext(abs), OutDir: outDir}
	logger.Debug("splitting", "context", t.Context, "out_dir", outDir)

	split, err := r.Splitter.Split(ctx, t)
	res := Result{Input: input, Outputs: split.Outputs, NoOp: split.NoOp, Err: err}
	for _, w := range split.Outputs {
		if w.Collided {
			logger.Warn("output name collision", "line", w.Line, "path", w.Path)
		}
		logger.Debug("wrote record", "line", w.Line, "path", w.Path, "bytes", w.Bytes)
	}

	switch {
	case err != nil:
		logger.Error("input failed", "written", len(split.Outputs), "err", err)
		return res
	case split.NoOp:
		logger.Warn("no FASTA headers found, nothing written")
		return res
	}

	if r.Verify && !r.Splitter.DryRun() {
		for _, w := range split.Outputs {
			rep, err := verify.File(w.Path, w.Header)
			if err != nil {
				res.Warnings = append(res.Warnings, err.Error())
				logger.Warn("verification failed", "path", w.Path, "err", err)
				continue
			}
			if !rep.OK() {
				res.Warnings = append(res.Warnings, rep.String())
				logger.Warn("verification mismatch", "path", w.Path, "records", rep.Records, "residues", rep.Residues, "header_length", rep.WantLength)
			}
		}
	}
	logger.Info("split", "records", len(split.Outputs))
	return res
}

// record saves every written output of the run to the manifest in one go.
func (r *Runner) record(results []Result) error {
	if r.Manifest == nil || r.Splitter.DryRun() {
		return nil
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	at := now()
	var entries []manifest.Entry
	for _, res := range results {
		for _, w := range res.Outputs {
			entries = append(entries, manifest.FromWritten(w, at))
		}
	}
	if len(entries) == 0 {
		return nil
	}
	return r.Manifest.Save(entries)
}

func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}
