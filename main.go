package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jcorbin/gobf/internal/fileinput"
	"github.com/jcorbin/gobf/internal/flushio"
	"github.com/jcorbin/gobf/internal/logio"
	"github.com/jcorbin/gobf/internal/tape"
)

func main() {
	var log logio.Logger
	log.SetOutput(os.Stderr)
	cmd := newCommand(&log, os.Stdin, os.Stdout, os.Stderr)
	log.ErrorIf(cmd.ExecuteContext(context.Background()))
	os.Exit(log.ExitCode())
}

type command struct {
	log    *logio.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath  string
	inputPaths  []string
	inputString string
	flags       config
}

func newCommand(log *logio.Logger, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	c := command{
		log:    log,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	cmd := &cobra.Command{
		Use:   "gobf [flags] PROGRAM",
		Short: "Run a program for the eight instruction tape machine",
		Long: `gobf runs a program written in the eight instruction tape language
(> < + - . , [ ]) against a fixed input, printing its output.

Every other byte in the program is a comment. Input is read from the
files given with --input ("-" for standard input) and from --input-string.`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE:          c.run,
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVar(&c.configPath, "config", "", "TOML or YAML config file")
	flags.StringArrayVarP(&c.inputPaths, "input", "i", nil, `input file, "-" for standard input; may be repeated`)
	flags.StringVar(&c.inputString, "input-string", "", "literal input, read before any input files")
	flags.UintVar(&c.flags.MemLimit, "mem-limit", 0, "number of data cells; 0 grows without bound")
	flags.UintVar(&c.flags.PageSize, "page-size", 256, "data cells allocated at a time")
	flags.Uint64Var(&c.flags.MaxSteps, "max-steps", 0, "fail after this many steps; 0 for no limit")
	flags.Var(eofFlag{&c.flags.EOF}, "eof", "input exhaustion policy: fail, zero or keep")
	flags.BoolVar(&c.flags.RawOutput, "raw", false, "print output bytes even if not valid UTF-8")
	flags.BoolVar(&c.flags.Stream, "stream", false, "print output as it is produced; implies --raw")
	flags.DurationVar(&c.flags.Timeout.Duration, "timeout", 0, "specify a time limit")
	flags.BoolVar(&c.flags.Trace, "trace", false, "enable trace logging")
	flags.BoolVar(&c.flags.Dump, "dump", false, "dump machine state to stderr on failure")
	flags.StringVar(&c.flags.DumpFormat, "dump-format", dumpText, "dump format: text or yaml")

	return cmd
}

// settings loads any config file, then overrides it with explicitly set flags.
func (c *command) settings(cmd *cobra.Command) (config, error) {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	for name, set := range map[string]func(){
		"mem-limit":   func() { cfg.MemLimit = c.flags.MemLimit },
		"page-size":   func() { cfg.PageSize = c.flags.PageSize },
		"max-steps":   func() { cfg.MaxSteps = c.flags.MaxSteps },
		"eof":         func() { cfg.EOF = c.flags.EOF },
		"raw":         func() { cfg.RawOutput = c.flags.RawOutput },
		"stream":      func() { cfg.Stream = c.flags.Stream },
		"timeout":     func() { cfg.Timeout = c.flags.Timeout },
		"trace":       func() { cfg.Trace = c.flags.Trace },
		"dump":        func() { cfg.Dump = c.flags.Dump },
		"dump-format": func() { cfg.DumpFormat = c.flags.DumpFormat },
	} {
		if flags.Changed(name) {
			set()
		}
	}
	return cfg, cfg.validate()
}

func (c *command) run(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := c.settings(cmd)
	if err != nil {
		return err
	}

	src, err := fileinput.Open(args[0])
	if err != nil {
		return err
	}
	if err := tape.Check(src.Text); err != nil {
		return locateError(src, err)
	}

	input, err := c.readInput()
	if err != nil {
		return err
	}

	out := flushio.NewWriteFlusher(c.stdout)
	opts := cfg.machineOptions()
	if cfg.Stream {
		opts = append(opts, tape.WithOutput(out))
	}
	if cfg.Trace {
		opts = append(opts,
			tape.WithLogf(c.log.Leveledf("TRACE")),
			tape.WithOutput(&logio.Writer{Logf: c.log.Leveledf("OUTPUT")}))
	}
	m := tape.New(src.Text, input, opts...)

	ctx := cmd.Context()
	if cfg.Timeout.Duration != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout.Duration)
		defer cancel()
	}

	text, err := m.Run(ctx)
	if err != nil {
		if cfg.Dump {
			c.dump(m, cfg.DumpFormat)
		}
		return locateError(src, err)
	}
	if !cfg.Stream {
		if _, err := io.WriteString(out, text); err != nil {
			return err
		}
	}
	return out.Flush()
}

func (c *command) readInput() ([]byte, error) {
	var in fileinput.Input
	if c.inputString != "" {
		in.Queue = append(in.Queue, strings.NewReader(c.inputString))
	}
	for _, path := range c.inputPaths {
		if path == "-" {
			in.Queue = append(in.Queue, namedReader{c.stdin, "<stdin>"})
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			for _, r := range in.Queue {
				if cl, ok := r.(io.Closer); ok {
					cl.Close()
				}
			}
			return nil, err
		}
		in.Queue = append(in.Queue, f)
	}
	return in.ReadAll()
}

func (c *command) dump(m *tape.Machine, format string) {
	if format == dumpYAML {
		if err := writeSnapshot(c.stderr, m); err != nil {
			c.log.Errorf("dump failed: %v", err)
		}
		return
	}
	machineDumper{m: m, out: c.stderr}.dump()
}

// locateError prefixes err with the source location of any instruction it
// was raised by.
func locateError(src fileinput.Source, err error) error {
	var bracket tape.UnmatchedBracketError
	var step tape.StepError
	switch {
	case errors.As(err, &bracket):
		return fmt.Errorf("%v: %w", src.Locate(bracket.Offset), err)
	case errors.As(err, &step):
		return fmt.Errorf("%v: %w", src.Locate(step.IP), err)
	}
	return err
}

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }

// eofFlag adapts tape.EOFPolicy to pflag.Value.
type eofFlag struct{ policy *tape.EOFPolicy }

func (f eofFlag) String() string {
	if f.policy == nil {
		return tape.EOFFail.String()
	}
	return f.policy.String()
}

func (f eofFlag) Set(s string) error { return f.policy.UnmarshalText([]byte(s)) }
func (f eofFlag) Type() string       { return "policy" }
