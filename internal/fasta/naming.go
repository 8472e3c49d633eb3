package fasta

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

const outputExt = ".fasta"

// DeriveContext returns the naming prefix for an input file: the name of its
// immediate parent directory, with a trailing '-' turned into '_' or, when
// there is no trailing dash, '_' appended.
//
//	runs/SW0001_n2759_L1000-/assembly.fasta -> SW0001_n2759_L1000_
//	runs/SW0002/assembly.fasta              -> SW0002_
func DeriveContext(inputPath string) string {
	if abs, err := filepath.Abs(inputPath); err == nil {
		inputPath = abs
	}
	dir := filepath.Base(filepath.Dir(inputPath))
	if strings.HasSuffix(dir, "-") {
		return strings.TrimSuffix(dir, "-") + "_"
	}
	return dir + "_"
}

// OutputName returns the file name a record with header h is written to.
// The naming context is only used by the assembler dialect.
func OutputName(h Header, context string) string {
	if h.Dialect == Accession {
		return h.Accession + outputExt
	}
	return fmt.Sprintf("%s%d_%s%s", context, h.Length, h.Topology, outputExt)
}

var assemblerOutputRe = regexp.MustCompile(`^[0-9]+_(circular|linear)(_[0-9]+)?\.fasta$`)

// IsAssemblerOutput reports whether name has the shape OutputName gives an
// assembler record in context, including collision suffixes.
func IsAssemblerOutput(name, context string) bool {
	rest, ok := strings.CutPrefix(name, context)
	return ok && assemblerOutputRe.MatchString(rest)
}

// CollisionPolicy decides what happens when two records resolve to the same
// output path.
type CollisionPolicy int

const (
	// CollisionError fails the input that produced the second claim.
	CollisionError CollisionPolicy = iota
	// CollisionSuffix renames later claimants to name_2.fasta, name_3.fasta, ...
	CollisionSuffix
	// CollisionOverwrite lets the later record replace the earlier file.
	CollisionOverwrite
)

func (p CollisionPolicy) String() string {
	switch p {
	case CollisionError:
		return "error"
	case CollisionSuffix:
		return "suffix"
	case CollisionOverwrite:
		return "overwrite"
	default:
		return fmt.Sprintf("CollisionPolicy(%d)", int(p))
	}
}

// ParseCollisionPolicy accepts error, suffix or overwrite. The empty string
// means error.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error", "":
		return CollisionError, nil
	case "suffix":
		return CollisionSuffix, nil
	case "overwrite":
		return CollisionOverwrite, nil
	}
	return 0, fmt.Errorf("unknown collision policy %q (want error, suffix or overwrite)", s)
}

// Claims tracks the output paths handed out during one run. It is safe for
// concurrent use, so inputs that share an output directory see each other's
// names.
type Claims struct {
	mu      sync.Mutex
	seen    map[string]int
	sources map[string]bool
}

func NewClaims() *Claims {
	return &Claims{seen: make(map[string]int), sources: make(map[string]bool)}
}

// Protect marks path as an input file. A protected path is never handed out
// for writing: CollisionSuffix moves past it and every other policy, including
// CollisionOverwrite, returns ErrNameCollision.
func (c *Claims) Protect(path string) {
	c.mu.Lock()
	c.sources[filepath.Clean(path)] = true
	c.mu.Unlock()
}

// Claim reserves path under policy. It returns the path to write to and
// whether path had already been claimed or is protected. With CollisionError
// a repeated claim returns ErrNameCollision.
//
// Suffixed names share one namespace with plain names: once name_2.fasta has
// been handed out as a suffix, a record whose own name is name_2.fasta is a
// collision like any other.
func (c *Claims) Claim(path string, policy CollisionPolicy) (string, bool, error) {
	path = filepath.Clean(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.seen[path]
	source := c.sources[path]
	if n == 0 && !source {
		c.seen[path] = 1
		return path, false, nil
	}
	switch {
	case policy == CollisionOverwrite && !source:
		c.seen[path] = n + 1
		return path, true, nil
	case policy == CollisionSuffix:
		if n == 0 {
			n = 1
		}
		for {
			n++
			cand := suffixed(path, n)
			if c.seen[cand] == 0 && !c.sources[cand] {
				c.seen[path] = n
				c.seen[cand] = 1
				return cand, true, nil
			}
		}
	}
	return "", true, ErrNameCollision
}

func suffixed(path string, n int) string {
	base := strings.TrimSuffix(path, outputExt)
	return fmt.Sprintf("%s_%d%s", base, n, outputExt)
}
