// Package discover turns the -in argument into the list of FASTA files to
// split. A file is taken as is; a directory is searched one level down, one
// input per immediate subdirectory.
package discover

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Ivanmugu/fasta-extractor/internal/fasta"
)

// ErrAmbiguous marks a subdirectory with more than one matching file.
var ErrAmbiguous = errors.New("more than one file matches")

// AmbiguousError names the subdirectory and the files that matched.
type AmbiguousError struct {
	Dir     string
	Pattern string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%s: %d files match %q: %s", e.Dir, len(e.Matches), e.Pattern, strings.Join(e.Matches, ", "))
}

func (e *AmbiguousError) Unwrap() error { return ErrAmbiguous }

// Found is the result of a search. Inputs are in traversal order; Skipped
// lists subdirectories without a match; Errors holds one *AmbiguousError per
// subdirectory with several matches.
type Found struct {
	Inputs  []string
	Skipped []string
	Errors  []error
}

// Inputs resolves path. pattern uses filepath.Match syntax and is only
// consulted when path is a directory.
func Inputs(path, pattern string) (Found, error) {
	var found Found
	fi, err := os.Stat(path)
	if err != nil {
		return found, &fasta.FileError{Op: "stat", Path: path, Kind: fasta.ErrInputNotFound, Err: err}
	}
	if !fi.IsDir() {
		found.Inputs = []string{path}
		return found, nil
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return found, fmt.Errorf("pattern %q: %w", pattern, err)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return found, &fasta.FileError{Op: "readdir", Path: path, Kind: fasta.ErrInputNotFound, Err: err}
	}
	for _, e := range entries {
		if !e.IsDir() || hidden(e.Name()) {
			continue
		}
		sub := filepath.Join(path, e.Name())
		matches, err := matchFiles(sub, pattern)
		if err != nil {
			found.Errors = append(found.Errors, err)
			continue
		}
		switch len(matches) {
		case 0:
			found.Skipped = append(found.Skipped, sub)
		case 1:
			found.Inputs = append(found.Inputs, matches[0])
		default:
			found.Errors = append(found.Errors, &AmbiguousError{Dir: sub, Pattern: pattern, Matches: matches})
		}
	}
	return found, nil
}

// matchFiles lists the regular files of dir matching pattern. Files named like
// the splitter's own assembler outputs for dir are left out, so a rerun over a
// tree split in place finds the same inputs.
func matchFiles(dir, pattern string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &fasta.FileError{Op: "readdir", Path: dir, Kind: fasta.ErrInputNotFound, Err: err}
	}
	ctx := fasta.DeriveContext(filepath.Join(dir, "input"))
	var out []string
	for _, e := range entries {
		if !e.Type().IsRegular() || hidden(e.Name()) || fasta.IsAssemblerOutput(e.Name(), ctx) {
			continue
		}
		if ok, _ := filepath.Match(pattern, e.Name()); ok {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// hidden names are skipped, which also keeps half-written split outputs out.
func hidden(name string) bool { return strings.HasPrefix(name, ".") }
