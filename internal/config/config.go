package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Ivanmugu/fasta-extractor/internal/fasta"
)

// DefaultPath is read when no -config flag is given. It may be absent.
const DefaultPath = "fasta-extractor.json"

type Config struct {
	Input       string `json:"input"`
	Pattern     string `json:"pattern"`
	OutputDir   string `json:"output_dir"`
	Dialect     string `json:"dialect"`
	OnCollision string `json:"on_collision"`
	Jobs        int    `json:"jobs"`
	Manifest    string `json:"manifest"`
	Verify      bool   `json:"verify"`
	DryRun      bool   `json:"dry_run"`
	LogFile     string `json:"log_file"`
	LogLevel    string `json:"log_level"`
}

// Default returns the settings used when neither config nor flags say
// otherwise.
func Default() *Config {
	return &Config{
		Pattern:     "*.fasta",
		Dialect:     fasta.Assembler.String(),
		OnCollision: fasta.CollisionError.String(),
		Jobs:        1,
		LogLevel:    "info",
	}
}

// LoadConfig loads a JSON config from path on top of Default(). If path is
// empty, DefaultPath is tried and silently skipped when missing; an explicit
// path that cannot be read is an error.
func LoadConfig(path string) (*Config, error) {
	c := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return nil, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

// Validate checks enumerated values and returns them parsed.
func (c *Config) Validate() (fasta.Dialect, fasta.CollisionPolicy, error) {
	d, err := fasta.ParseDialect(c.Dialect)
	if err != nil {
		return 0, 0, err
	}
	p, err := fasta.ParseCollisionPolicy(c.OnCollision)
	if err != nil {
		return 0, 0, err
	}
	if c.Jobs < 1 {
		return 0, 0, fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	if c.Pattern == "" {
		c.Pattern = "*.fasta"
	}
	return d, p, nil
}
