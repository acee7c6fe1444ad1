// Command legrep searches files for lines matching a DECUS grep pattern.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/coregx/legrep"
	"github.com/coregx/legrep/internal/grep"
	"github.com/coregx/legrep/internal/input"
	"github.com/coregx/legrep/syntax"
	getopt "github.com/pborman/getopt/v2"
	"github.com/pborman/options"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Exit codes.
const (
	exitSelected = 0
	exitNone     = 1
	exitTrouble  = 2
)

type config struct {
	optSet *getopt.Set

	Count       bool `getopt:"-c                    Only a count of matching lines is printed"`
	FileNames   bool `getopt:"-f                    Print file name for matching lines switch"`
	LineNumbers bool `getopt:"-n                    Each line is preceded by its line number"`
	Invert      bool `getopt:"-v                    Only print non-matching lines"`
	Decompress  bool `getopt:"--decompress -z       Search gzip, zstd and xz compressed files transparently"`
	Jobs        int  `getopt:"--jobs -j=N           Number of files searched at once. Default: number of CPUs"`
	DumpPattern bool `getopt:"--dump-pattern        Print the compiled pattern to standard error"`
	Debug       bool `getopt:"--debug               Log at debug level"`
	Help        bool `getopt:"--help -h             Display this help and the pattern syntax"`

	patterns patternList // -e, registered in initArgvParser()
}

// patternList collects repeated -e options verbatim. getopt's own list
// type would split patterns on commas.
type patternList []string

func (p *patternList) Set(value string, _ getopt.Option) error {
	*p = append(*p, value)
	return nil
}

func (p *patternList) String() string {
	return fmt.Sprint([]string(*p))
}

func (cfg *config) initArgvParser() error {
	o := getopt.New()
	if err := options.RegisterSet("", cfg, o); err != nil {
		return fmt.Errorf("option set registration failed: %w", err)
	}
	o.FlagLong(&cfg.patterns, "", 'e', "Search for pattern; may be repeated", "pattern")
	o.SetProgram("legrep")
	o.SetParameters("pattern [file ...]")
	cfg.optSet = o
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run is main without the process globals.
func run(ctx context.Context, args []string, stdin *os.File, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		return usageError(stderr, "No arguments")
	}

	cfg := &config{}
	if err := cfg.initArgvParser(); err != nil {
		fmt.Fprintf(stderr, "?GREP-E-%s\n", err)
		return exitTrouble
	}
	if err := cfg.optSet.Getopt(append([]string{"legrep"}, args...), nil); err != nil {
		var gerr *getopt.Error
		if errors.As(err, &gerr) && gerr.ErrorCode == getopt.UnknownOption {
			return usageError(stderr, "Unknown flag")
		}
		return usageError(stderr, err.Error())
	}

	rest := cfg.optSet.Args()
	if cfg.Help || (len(rest) > 0 && rest[0] == "?") {
		printHelp(stdout, cfg.optSet)
		return exitSelected
	}

	logger := newLogger(cfg.Debug, stderr)
	defer logger.Sync() //nolint:errcheck

	exprs := []string(cfg.patterns)
	if len(exprs) == 0 {
		if len(rest) == 0 {
			return usageError(stderr, "No pattern")
		}
		exprs, rest = rest[:1], rest[1:]
	}

	matcher, patterns, err := compile(exprs)
	if err != nil {
		reportPatternError(stderr, err)
		return exitTrouble
	}
	if cfg.DumpPattern {
		for _, p := range patterns {
			p.Dump(stderr) //nolint:errcheck
		}
	}

	files, err := input.Expand(rest)
	if err != nil {
		fmt.Fprintf(stderr, "?GREP-E-%s\n", err)
		return exitTrouble
	}
	logger.Debug("searching",
		zap.Strings("patterns", exprs),
		zap.Int("files", len(files)))

	opener := input.NewOpener(logger, cfg.Decompress)
	searcher := grep.New(matcher, grep.Options{
		Count:       cfg.Count,
		FileNames:   (len(files) > 0) != cfg.FileNames,
		LineNumbers: cfg.LineNumbers,
		Invert:      cfg.Invert,
		Jobs:        cfg.Jobs,
	}, opener, logger)

	var selected int
	if len(files) == 0 {
		rc, oerr := opener.Attach(stdin, "stdin")
		if oerr != nil {
			logger.Error("cannot read stdin", zap.Error(oerr))
			return exitTrouble
		}
		selected, err = searcher.Search(ctx, "", rc, stdout)
		rc.Close()
	} else {
		var res grep.Result
		res, err = searcher.SearchFiles(ctx, files, stdout)
		selected = res.Selected
	}

	switch {
	case err != nil:
		logger.Debug("search finished with errors", zap.Error(err))
		return exitTrouble
	case selected > 0:
		return exitSelected
	}
	return exitNone
}

// compile returns a Regex for one expression and a Set for several, along
// with the parsed patterns for --dump-pattern.
func compile(exprs []string) (grep.Matcher, []*syntax.Pattern, error) {
	if len(exprs) == 1 {
		re, err := legrep.Compile(exprs[0])
		if err != nil {
			return nil, nil, err
		}
		return re, []*syntax.Pattern{re.Pattern()}, nil
	}

	set, err := legrep.CompileSet(exprs, legrep.DefaultConfig())
	if err != nil {
		return nil, nil, err
	}
	patterns := make([]*syntax.Pattern, set.Len())
	for i := range patterns {
		patterns[i] = set.Regex(i).Pattern()
	}
	return set, patterns, nil
}

func usageError(w io.Writer, msg string) int {
	fmt.Fprintf(w, "?GREP-E-%s\n%s\n", msg, usageLine)
	return exitTrouble
}

// reportPatternError writes the three-line DECUS diagnostic for a bad
// pattern.
func reportPatternError(w io.Writer, err error) {
	var perr *syntax.Error
	if !errors.As(err, &perr) {
		fmt.Fprintf(w, "?GREP-E-%s\n", err)
		return
	}
	if perr.Code == syntax.ErrPatternTooComplex {
		fmt.Fprintln(w, perr.Code.Message())
		return
	}

	fmt.Fprintf(w, "-GREP-E-%s, pattern is\"%s\"\n", perr.Code.Message(), perr.Expr)
	if c := perr.Near(); perr.Offset > 0 {
		fmt.Fprintf(w, "-GREP-E-Stopped at byte %d, '%s'\n", perr.Offset, []byte{c})
	}
	fmt.Fprintln(w, "?GREP-E-Bad pattern")
}

func printHelp(w io.Writer, optSet *getopt.Set) {
	fmt.Fprint(w, documentation, "\n")
	optSet.PrintUsage(w)
	fmt.Fprint(w, "\n", patternDocumentation)
}

// newLogger writes console logs to w: warnings and errors only, unless
// debug is set.
func newLogger(debug bool, w io.Writer) *zap.Logger {
	level := zapcore.WarnLevel
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = ""
	if debug {
		level = zapcore.DebugLevel
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(zapcore.AddSync(w)), level)
	return zap.New(core).Named("legrep")
}
