package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Defaults
const (
	DefaultBatchSize = 3000
	DefaultGenerator = "stl2vrml"
	DefaultOpenSCAD  = "openscad"
	DefaultDebounce  = 500 * time.Millisecond
)

// Config holds the conversion settings
type Config struct {
	BatchSize   int           `yaml:"batch_size"`
	Generator   string        `yaml:"generator"`
	Quiet       bool          `yaml:"quiet"`
	KeepPartial bool          `yaml:"keep_partial"`
	Watch       bool          `yaml:"watch"`
	Debounce    time.Duration `yaml:"debounce"`
	OpenSCAD    string        `yaml:"openscad"`
}

// Load reads a YAML config file. Fields not set in the file keep their
// zero values; unknown fields are an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve applies every flag the user set explicitly on top of the file
// values, then fills the remaining defaults.
func (c *Config) Resolve(flags *pflag.FlagSet) error {
	var err error
	flags.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "batch-size":
			c.BatchSize, err = flags.GetInt(f.Name)
		case "generator":
			c.Generator, err = flags.GetString(f.Name)
		case "quiet":
			c.Quiet, err = flags.GetBool(f.Name)
		case "keep-partial":
			c.KeepPartial, err = flags.GetBool(f.Name)
		case "watch":
			c.Watch, err = flags.GetBool(f.Name)
		case "debounce":
			c.Debounce, err = flags.GetDuration(f.Name)
		case "openscad":
			c.OpenSCAD, err = flags.GetString(f.Name)
		}
	})
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.Generator == "" {
		c.Generator = DefaultGenerator
	}
	if c.OpenSCAD == "" {
		c.OpenSCAD = DefaultOpenSCAD
	}
	if c.Debounce == 0 {
		c.Debounce = DefaultDebounce
	}
	return c.Validate()
}

// Validate checks value ranges
func (c Config) Validate() error {
	if c.BatchSize <= 0 || c.BatchSize%3 != 0 {
		return fmt.Errorf("config: batch size must be a positive multiple of 3, got %d", c.BatchSize)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("config: debounce must not be negative, got %s", c.Debounce)
	}
	return nil
}

// RegisterFlags adds the flags understood by Resolve to fs
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "YAML config file")
	fs.Int("batch-size", DefaultBatchSize, "Points per IndexedFaceSet block (multiple of 3)")
	fs.String("generator", DefaultGenerator, "Tool name written into the VRML header comment")
	fs.BoolP("quiet", "q", false, "Only print errors")
	fs.Bool("keep-partial", false, "Keep the partially written output file when conversion fails")
	fs.BoolP("watch", "w", false, "Convert again whenever the input changes")
	fs.Duration("debounce", DefaultDebounce, "Delay before converting again in watch mode")
	fs.String("openscad", DefaultOpenSCAD, "OpenSCAD binary used to render .scad input")
}

// FromFlags loads the file named by --config, if any, and resolves it
// against fs.
func FromFlags(fs *pflag.FlagSet) (Config, error) {
	var cfg Config
	path, err := fs.GetString("config")
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if path != "" {
		if cfg, err = Load(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.Resolve(fs); err != nil {
		return cfg, err
	}
	return cfg, nil
}
