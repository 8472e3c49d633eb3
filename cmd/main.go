package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/Ivanmugu/fasta-extractor/internal/batch"
	"github.com/Ivanmugu/fasta-extractor/internal/config"
	"github.com/Ivanmugu/fasta-extractor/internal/discover"
	"github.com/Ivanmugu/fasta-extractor/internal/fasta"
	"github.com/Ivanmugu/fasta-extractor/internal/logging"
	"github.com/Ivanmugu/fasta-extractor/internal/manifest"
	"github.com/Ivanmugu/fasta-extractor/internal/report"
)

// version is the program version. It can be overridden at build time with -ldflags "-X main.version=..."
var version = "0.1.0"

const usageText = `Usage: fasta-extractor -in <file|dir> [options]

Splits a multi-record FASTA file into one file per record. Output names come
from the header: {run dir}{length}_{topology}.fasta for assembler headers,
{accession}.fasta for accession headers.

When -in is a directory, every immediate subdirectory is searched for one file
matching -pattern.

Options:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout io.Writer, stderr *os.File) int {
	fs := flag.NewFlagSet("fasta-extractor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usageText)
		fs.PrintDefaults()
	}

	inputFlag := fs.String("in", "", "input FASTA file, or a directory of run subdirectories")
	patternFlag := fs.String("pattern", "", "file name pattern searched in each subdirectory (default \"*.fasta\")")
	outputFlag := fs.String("out", "", "output directory (default: next to each input)")
	dialectFlag := fs.String("dialect", "", "header dialect: assembler or accession (default \"assembler\")")
	collisionFlag := fs.String("on-collision", "", "when two records share an output name: error, suffix or overwrite (default \"error\")")
	jobsFlag := fs.Int("jobs", 0, "number of input files processed concurrently (default 1)")
	manifestFlag := fs.String("manifest", "", "record outputs in this JSON file or SQLite database (.db)")
	verifyFlag := fs.Bool("verify", false, "re-read every output and check record count and length")
	dryRun := fs.Bool("dry-run", false, "parse and name records without writing files")
	configFlag := fs.String("config", "", "path to config JSON (optional, default "+config.DefaultPath+")")
	verbose := fs.Bool("verbose", false, "enable verbose (debug) logging")
	versionFlag := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *versionFlag {
		fmt.Fprintln(stdout, "fasta-extractor", version)
		return 0
	}

	cfg, err := config.LoadConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(stderr, "error: config: %v\n", err)
		return 1
	}

	// flags override config when provided
	if *inputFlag != "" {
		cfg.Input = *inputFlag
	}
	if fs.NArg() > 0 && cfg.Input == "" {
		cfg.Input = fs.Arg(0)
	}
	if *patternFlag != "" {
		cfg.Pattern = *patternFlag
	}
	if *outputFlag != "" {
		cfg.OutputDir = *outputFlag
	}
	if *dialectFlag != "" {
		cfg.Dialect = *dialectFlag
	}
	if *collisionFlag != "" {
		cfg.OnCollision = *collisionFlag
	}
	if *jobsFlag > 0 {
		cfg.Jobs = *jobsFlag
	}
	if *manifestFlag != "" {
		cfg.Manifest = *manifestFlag
	}
	if *verifyFlag {
		cfg.Verify = true
	}
	if *dryRun {
		cfg.DryRun = true
	}

	logger, closer, warnings := logging.New(stderr, logging.Options{Level: cfg.LogLevel, Verbose: *verbose, File: cfg.LogFile})
	defer closer.Close()
	for _, w := range warnings {
		logger.Warn(w, "log_level", cfg.LogLevel, "log_file", cfg.LogFile)
	}

	if cfg.Input == "" {
		logger.Error("no input given")
		fs.Usage()
		return 1
	}
	dialect, policy, err := cfg.Validate()
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		return 1
	}
	logger.Debug("loaded config", "input", cfg.Input, "pattern", cfg.Pattern, "output_dir", cfg.OutputDir,
		"dialect", dialect, "on_collision", policy, "jobs", cfg.Jobs, "manifest", cfg.Manifest,
		"verify", cfg.Verify, "dry_run", cfg.DryRun, "log_file", cfg.LogFile, "log_level", cfg.LogLevel)

	found, err := discover.Inputs(cfg.Input, cfg.Pattern)
	if err != nil {
		logger.Error("cannot read input", "path", cfg.Input, "err", err)
		return 1
	}
	for _, dir := range found.Skipped {
		logger.Warn("no matching file, skipping", "dir", dir, "pattern", cfg.Pattern)
	}
	logger.Info("starting fasta-extractor", "inputs", len(found.Inputs), "dialect", dialect, "output_dir", cfg.OutputDir, "dry_run", cfg.DryRun)

	splitter, err := fasta.NewSplitter(fasta.Options{Dialect: dialect, Collision: policy, DryRun: cfg.DryRun}, fasta.NewClaims())
	if err != nil {
		logger.Error("cannot build splitter", "err", err)
		return 1
	}

	runner := &batch.Runner{
		Splitter: splitter,
		OutDir:   cfg.OutputDir,
		Jobs:     cfg.Jobs,
		Verify:   cfg.Verify,
		Logger:   logger,
	}
	if cfg.Manifest != "" && !cfg.DryRun {
		store, err := manifest.Open(cfg.Manifest)
		if err != nil {
			logger.Error("cannot open manifest", "path", cfg.Manifest, "err", err)
			return 1
		}
		defer store.Close()
		runner.Manifest = store
	}

	results, err := runner.Run(ctx, found.Inputs)
	failed := false
	if err != nil {
		logger.Error("failed to write manifest", "path", cfg.Manifest, "err", err)
		failed = true
	}
	for _, derr := range found.Errors {
		logger.Error("input skipped", "err", derr)
		results = append(results, batch.Failed(dirOf(derr), derr))
	}

	summary := batch.Summarize(results)
	fmt.Fprint(stdout, report.Render(results, summary, cfg.DryRun))
	logSummary(logger, summary)

	if summary.Failed > 0 || failed {
		return 1
	}
	return 0
}

func logSummary(logger *log.Logger, s batch.Summary) {
	logger.Info("done", "inputs", s.Inputs, "succeeded", s.Succeeded, "failed", s.Failed, "no_op", s.NoOp, "records", s.Records)
}

func dirOf(err error) string {
	var ae *discover.AmbiguousError
	if errors.As(err, &ae) {
		return ae.Dir
	}
	var fe *fasta.FileError
	if errors.As(err, &fe) {
		return fe.Path
	}
	return ""
}
