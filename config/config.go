// Package config holds host settings for running tape programs.
//
// A Config starts from Default and may be overlaid by a TOML or YAML file
// with Load. Keys missing from the file keep their default values. Command
// line flags are applied on top by the host.
//
// Example tape.toml:
//
//	parser = "commented"
//	log-capacity = 1024
//
//	[memory]
//	lower = 0
//	upper = 255
//	length = 30000
//	variable = true
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/tape-runtime/errors"
	"github.com/wippyai/tape-runtime/memory"
	"github.com/wippyai/tape-runtime/parser"
)

// DefaultLogCapacity is how many events the host keeps for inspection.
const DefaultLogCapacity = 4096

// Config is the full host configuration.
type Config struct {
	Parser      string       `toml:"parser" yaml:"parser"`
	Memory      MemoryConfig `toml:"memory" yaml:"memory"`
	LogCapacity int          `toml:"log-capacity" yaml:"log-capacity"`
	Verbosity   int          `toml:"verbosity" yaml:"verbosity"`
}

// MemoryConfig mirrors memory.Options in file form.
type MemoryConfig struct {
	Lower     int64 `toml:"lower" yaml:"lower"`
	Upper     int64 `toml:"upper" yaml:"upper"`
	Length    int   `toml:"length" yaml:"length"`
	Variable  bool  `toml:"variable" yaml:"variable"`
	Unbounded bool  `toml:"unbounded" yaml:"unbounded"`
}

// Default returns the configuration used when nothing else is given.
func Default() Config {
	opts := memory.DefaultOptions()
	return Config{
		Parser: "strict",
		Memory: MemoryConfig{
			Lower:    opts.LowerBound,
			Upper:    opts.UpperBound,
			Length:   opts.InitialLength,
			Variable: opts.VariableLength,
		},
		LogCapacity: DefaultLogCapacity,
	}
}

// Load reads path over Default. The format is chosen by extension:
// .toml, or .yaml/.yml. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Other(errors.PhaseIO, fmt.Sprintf("read config %s", path), err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = decodeTOML(data, &cfg)
	case ".yaml", ".yml":
		err = decodeYAML(data, &cfg)
	default:
		return cfg, errors.InvalidConfig(fmt.Sprintf("unsupported config format %q", ext), path)
	}
	if err != nil {
		return cfg, errors.Wrap(errors.PhaseConfig, errors.KindInvalidConfig, err,
			fmt.Sprintf("parse config %s", path))
	}

	return cfg, cfg.Validate()
}

func decodeTOML(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	return nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// MemoryOptions converts the memory section into memory.Options.
func (c Config) MemoryOptions() memory.Options {
	opts := memory.Options{
		LowerBound:     c.Memory.Lower,
		UpperBound:     c.Memory.Upper,
		InitialLength:  c.Memory.Length,
		VariableLength: c.Memory.Variable,
	}
	if c.Memory.Unbounded {
		opts.UpperBound = memory.MaxValue
	}
	return opts
}

// ParserFor returns the front end named by the Parser field.
func (c Config) ParserFor() (parser.Parser, error) {
	return parser.ByName(c.Parser)
}

// Validate checks every section and returns the first problem found.
func (c Config) Validate() error {
	if err := c.MemoryOptions().Validate(); err != nil {
		return err
	}
	if _, err := c.ParserFor(); err != nil {
		return err
	}
	if c.LogCapacity < 0 {
		return errors.InvalidConfig(fmt.Sprintf("log capacity %d must not be negative", c.LogCapacity), c.LogCapacity)
	}
	if c.Verbosity < 0 {
		return errors.InvalidConfig(fmt.Sprintf("verbosity %d must not be negative", c.Verbosity), c.Verbosity)
	}
	return nil
}
