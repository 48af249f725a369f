package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jcorbin/gobf/internal/tape"
)

// config holds every machine and command setting that may come from a config
// file; command line flags override it.
type config struct {
	MemLimit   uint           `toml:"mem_limit" yaml:"mem_limit"`
	PageSize   uint           `toml:"page_size" yaml:"page_size"`
	MaxSteps   uint64         `toml:"max_steps" yaml:"max_steps"`
	EOF        tape.EOFPolicy `toml:"eof" yaml:"eof"`
	RawOutput  bool           `toml:"raw_output" yaml:"raw_output"`
	Stream     bool           `toml:"stream" yaml:"stream"`
	Timeout    duration       `toml:"timeout" yaml:"timeout"`
	Trace      bool           `toml:"trace" yaml:"trace"`
	Dump       bool           `toml:"dump" yaml:"dump"`
	DumpFormat string         `toml:"dump_format" yaml:"dump_format"`
}

const (
	dumpText = "text"
	dumpYAML = "yaml"
)

// duration wraps time.Duration for text config values like "1.5s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) (err error) {
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// loadConfig reads a TOML or YAML config file, chosen by extension; an empty
// path yields the defaults. Unknown keys are an error.
func loadConfig(path string) (cfg config, err error) {
	if path != "" {
		path = os.ExpandEnv(path)
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".toml":
			err = decodeTOML(path, &cfg)
		case ".yaml", ".yml":
			err = decodeYAML(path, &cfg)
		default:
			err = fmt.Errorf("unsupported config format %q, want .toml, .yaml or .yml", ext)
		}
		if err != nil {
			return cfg, fmt.Errorf("failed to load config %v: %w", path, err)
		}
	}
	cfg.applyDefaults()
	return cfg, cfg.validate()
}

func decodeTOML(path string, cfg *config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown config keys: %v", strings.Join(keys, ", "))
	}
	return nil
}

func decodeYAML(path string, cfg *config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(cfg)
}

func (cfg *config) applyDefaults() {
	if cfg.PageSize == 0 {
		cfg.PageSize = 256
	}
	if cfg.DumpFormat == "" {
		cfg.DumpFormat = dumpText
	}
}

func (cfg config) validate() error {
	switch cfg.DumpFormat {
	case dumpText, dumpYAML:
	default:
		return fmt.Errorf("invalid dump format %q, want %v or %v", cfg.DumpFormat, dumpText, dumpYAML)
	}
	if cfg.Timeout.Duration < 0 {
		return fmt.Errorf("invalid negative timeout %v", cfg.Timeout)
	}
	return nil
}

// machineOptions translates machine settings into tape options.
func (cfg config) machineOptions() []tape.Option {
	return []tape.Option{
		tape.WithMemLimit(cfg.MemLimit),
		tape.WithPageSize(cfg.PageSize),
		tape.WithMaxSteps(cfg.MaxSteps),
		tape.WithEOF(cfg.EOF),
		tape.WithRawOutput(cfg.RawOutput || cfg.Stream),
	}
}
