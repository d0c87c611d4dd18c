package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/tape-runtime/config"
	"github.com/wippyai/tape-runtime/engine"
	"github.com/wippyai/tape-runtime/event"
	"github.com/wippyai/tape-runtime/memory"
	"github.com/wippyai/tape-runtime/parser"
	"github.com/wippyai/tape-runtime/program"
)

const (
	exitOK = iota
	exitOptions
	exitParse
	exitPopulate
	exitLink
	exitRuntime
)

// verbosity is a counting flag: each -v adds one, -v=N sets N.
type verbosity int

func (v *verbosity) String() string { return strconv.Itoa(int(*v)) }

func (v *verbosity) Set(s string) error {
	if s == "true" {
		*v++
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid verbosity %q", s)
	}
	*v = verbosity(n)
	return nil
}

func (v *verbosity) IsBoolFlag() bool { return true }

type options struct {
	cfg         config.Config
	file        string
	raw         string
	interactive bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitOptions
	}

	log := newLogger(opts.cfg.Verbosity)
	defer log.Sync()
	engine.SetLogger(log.Named("engine"))

	prog, code, err := load(opts, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return code
	}

	mem, err := opts.cfg.MemoryOptions().Generate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitOptions
	}
	log.Info("memory ready", zap.Stringer("options", mem.Options()))

	events := event.NewLog(opts.cfg.LogCapacity)

	if opts.interactive {
		if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			return exitOptions
		}
		if err := runInteractive(opts.source(), prog, mem, events); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitRuntime
		}
		return exitOK
	}

	return batch(prog, mem, events, log)
}

func parseArgs(args []string) (options, error) {
	fs := flag.NewFlagSet("tape", flag.ContinueOnError)
	var (
		raw         = fs.String("r", "", "Program text to run instead of a file")
		lower       = fs.Int64("c", memory.DefaultLower, "Cell lower bound")
		upper       = fs.Int64("C", memory.DefaultUpper, "Cell upper bound")
		length      = fs.Int("m", memory.DefaultLength, "Initial tape length")
		variable    = fs.Bool("l", false, "Grow the tape instead of wrapping at the right end")
		commented   = fs.Bool("N", false, "Use the parser that allows # comments")
		cfgPath     = fs.String("config", "", "Load settings from a .toml or .yaml file")
		logCapacity = fs.Int("log-capacity", config.DefaultLogCapacity, "Events kept for inspection (0 keeps all)")
		interactive = fs.Bool("i", false, "Step through the program in a TUI")
		verbose     verbosity
	)
	fs.Var(&verbose, "v", "Verbosity; repeat for more detail")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: tape [flags] <file>")
		fmt.Fprintln(fs.Output(), "       tape [flags] -r '<program>'")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			return options{}, err
		}
		cfg = loaded
	}

	// Flags given explicitly win over the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "c":
			cfg.Memory.Lower = *lower
		case "C":
			cfg.Memory.Upper = *upper
			cfg.Memory.Unbounded = *upper == memory.MaxValue
		case "m":
			cfg.Memory.Length = *length
		case "l":
			cfg.Memory.Variable = *variable
		case "N":
			if *commented {
				cfg.Parser = "commented"
			} else {
				cfg.Parser = "strict"
			}
		case "log-capacity":
			cfg.LogCapacity = *logCapacity
		case "v":
			cfg.Verbosity = int(verbose)
		}
	})
	if err := cfg.Validate(); err != nil {
		return options{}, err
	}

	opts := options{cfg: cfg, raw: *raw, interactive: *interactive}
	switch {
	case *raw != "" && fs.NArg() > 0:
		return options{}, fmt.Errorf("give either a file or -r, not both")
	case *raw == "" && fs.NArg() != 1:
		fs.Usage()
		return options{}, fmt.Errorf("expected one program file")
	case fs.NArg() == 1:
		opts.file = fs.Arg(0)
	}
	return opts, nil
}

func (o options) source() string {
	if o.file != "" {
		return o.file
	}
	return "<raw>"
}

func newLogger(v int) *zap.Logger {
	level := zapcore.WarnLevel
	switch {
	case v >= 2:
		level = zapcore.DebugLevel
	case v == 1:
		level = zapcore.InfoLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// load parses the program and checks its brackets. The returned code tells
// which stage failed.
func load(opts options, log *zap.Logger) (*program.Program, int, error) {
	p, err := opts.cfg.ParserFor()
	if err != nil {
		return nil, exitOptions, err
	}

	var prog *program.Program
	if opts.file != "" {
		prog, err = parser.ParseFile(p, opts.file)
	} else {
		prog, err = p.ParseString(opts.raw)
	}
	if err != nil {
		return nil, exitParse, fmt.Errorf("parse: %w", err)
	}
	log.Info("parsed program",
		zap.String("source", opts.source()),
		zap.String("parser", opts.cfg.Parser),
		zap.Int("tokens", prog.Len()))

	prog.Populate()
	if err := prog.Jumps().IsBalanced(); err != nil {
		return nil, exitPopulate, fmt.Errorf("populate: %w", err)
	}
	log.Info("jump table populated", zap.Int("brackets", prog.Jumps().Len()))

	if err := prog.Link(); err != nil {
		return nil, exitLink, fmt.Errorf("link: %w", err)
	}
	log.Info("program linked")
	return prog, exitOK, nil
}

func batch(prog *program.Program, mem *memory.Memory, events *event.Log, log *zap.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var in io.Reader = os.Stdin
	if isTerminal(os.Stdin) {
		in = engine.NewTerminalInput(os.Stdin, os.Stdout)
	}
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	eng, err := engine.New(prog, mem,
		engine.WithInput(in),
		engine.WithOutput(out),
		engine.WithSink(events),
		engine.WithLogger(log.Named("engine")),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: link: %v\n", err)
		return exitLink
	}

	err = eng.Run(ctx)
	out.Flush()
	log.Info("run finished",
		zap.Stringer("state", eng.State()),
		zap.Int("steps", eng.Steps()),
		zap.Int("events", events.TotalEvents()),
		zap.Int("ok", events.TotalOk()),
		zap.Int("errors", events.TotalErr()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
		for _, e := range events.Errors() {
			log.Debug("error event", zap.Int("seq", e.Seq), zap.Stringer("event", e.Event))
		}
		return exitRuntime
	}
	return exitOK
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
