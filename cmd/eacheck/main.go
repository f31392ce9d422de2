package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/peterh/liner"
	"github.com/pkg/errors"

	"github.com/lhaig/eacheck/internal/ast"
	"github.com/lhaig/eacheck/internal/checker"
	"github.com/lhaig/eacheck/internal/compiler"
	"github.com/lhaig/eacheck/internal/config"
	"github.com/lhaig/eacheck/internal/diagnostic"
	"github.com/lhaig/eacheck/internal/fixture"
	"github.com/lhaig/eacheck/internal/hwcaps"
	"github.com/lhaig/eacheck/internal/types"
)

const usage = `eacheck - static type checker for Ea programs with SIMD vector types

Usage:
  eacheck check [options] <path>...    Type-check fixture files or directories
  eacheck lint [options] <path>...     Type-check, then report style and SIMD advisories
  eacheck caps [--target T] [kind...]  Show which vector kinds a target runs natively
  eacheck explore [options]            Check statements interactively
  eacheck dump <file>                  Print the AST a fixture decodes to
  eacheck help                         Show this message

Options:
  --target T     Target CPU: native, an architecture (x86_64, aarch64, wasm32, ...),
                 an x86-64 level (x86_64-v2, x86_64-v3, x86_64-v4) or a configured profile
  --config F     Configuration file (default: nearest eacheck.yaml)
  --lenient      Treat unknown type names as opaque user types
  -v             Log progress to stderr

Programs are read from YAML AST fixtures (*.ea.yaml). Directories are searched
recursively.

Examples:
  eacheck check kernels/                  Check every fixture under kernels/
  eacheck check --target x86_64-v3 a.ea.yaml
  eacheck caps --target aarch64 f32x4 f32x8
`

const historyFile = ".eacheck_history"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "check":
		os.Exit(handleCheck(os.Args[2:], false))
	case "lint":
		os.Exit(handleCheck(os.Args[2:], true))
	case "caps":
		os.Exit(handleCaps(os.Args[2:]))
	case "explore":
		os.Exit(handleExplore(os.Args[2:]))
	case "dump":
		os.Exit(handleDump(os.Args[2:]))
	case "help", "--help", "-h":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// commonFlags are shared by the commands that run the checker
type commonFlags struct {
	target  string
	config  string
	lenient bool
	verbose bool
}

func newFlagSet(name string, cf *commonFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cf.target, "target", "", "target CPU")
	fs.StringVar(&cf.config, "config", "", "configuration file")
	fs.BoolVar(&cf.lenient, "lenient", false, "treat unknown type names as opaque")
	fs.BoolVar(&cf.verbose, "v", false, "log progress to stderr")
	return fs
}

// parseFlags parses args into fs. When the command should not run it returns
// false along with the exit code. -h prints usage to out and exits cleanly.
func parseFlags(fs *flag.FlagSet, args []string, out io.Writer) (int, bool) {
	err := fs.Parse(args)
	switch {
	case err == nil:
		return 0, true
	case errors.Is(err, flag.ErrHelp):
		fmt.Fprint(out, usage)
		return 0, false
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 2, false
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig reads the named file, or the nearest eacheck.yaml when path is
// empty. No file means defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		found, err := config.Find(".")
		if err != nil {
			return nil, err
		}
		if found == "" {
			return config.Default(), nil
		}
		path = found
	}
	return config.Load(path)
}

// options resolves configuration and flags into checker options. Flags
// override the file.
func (cf *commonFlags) options(log *slog.Logger) (compiler.Options, error) {
	cfg, err := loadConfig(cf.config)
	if err != nil {
		return compiler.Options{}, err
	}
	if cfg.Path != "" {
		log.Debug("loaded configuration", "path", cfg.Path)
	}
	opts, err := compiler.OptionsFromConfig(cfg, cf.target)
	if err != nil {
		return compiler.Options{}, err
	}
	if cf.lenient {
		opts.LenientAnnotations = true
	}
	opts.Logger = log
	return opts, nil
}

func handleCheck(args []string, lint bool) int {
	var cf commonFlags
	fs := newFlagSet("check", &cf)
	if code, ok := parseFlags(fs, args, os.Stdout); !ok {
		return code
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		return 1
	}

	log := newLogger(cf.verbose)
	opts, err := cf.options(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	opts.Lint = lint

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := compiler.CheckAll(ctx, fs.Args(), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}

	all := compiler.Summarize(results)
	for _, d := range all.All() {
		if d.Severity == diagnostic.Error {
			fmt.Fprintln(os.Stderr, d.Format(""))
		} else {
			fmt.Println(d.Format(""))
		}
	}

	if all.HasErrors() {
		fmt.Fprintf(os.Stderr, "%s in %d file(s).\n", all.Summary(), len(results))
		return 1
	}
	switch {
	case lint && all.Count() == 0:
		fmt.Println("No lint warnings.")
	case lint:
		fmt.Printf("%s found.\n", all.Summary())
	default:
		fmt.Printf("No errors found in %d file(s) for target %s.\n", len(results), opts.Detector.Target())
	}
	return 0
}

func handleCaps(args []string) int {
	var cf commonFlags
	fs := newFlagSet("caps", &cf)
	if code, ok := parseFlags(fs, args, os.Stdout); !ok {
		return code
	}
	cfg, err := loadConfig(cf.config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	hw, err := compiler.ResolveTarget(cf.target, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}

	kinds := types.AllVectorKinds()
	explicit := fs.NArg() > 0
	if explicit {
		kinds = kinds[:0:0]
		for _, name := range fs.Args() {
			kind, ok := types.ParseVectorKind(name)
			if !ok {
				fmt.Fprintf(os.Stderr, "Error: unknown vector type %q\n", name)
				return 1
			}
			kinds = append(kinds, kind)
		}
	}

	fmt.Printf("Target %s\n\n", hw)
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tLANES\tBITS\tSTATUS\tREQUIRES")
	for _, kind := range kinds {
		status := "native"
		if !hw.IsSupported(kind) {
			status = "emulated"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n", kind, kind.Width(), kind.BitWidth(), status, featureList(hw.RequiredFeatures(kind)))
	}
	tw.Flush()

	if explicit {
		for _, kind := range kinds {
			recs := hw.OptimizationRecommendations(kind)
			if len(recs) == 0 {
				continue
			}
			fmt.Printf("\n%s:\n", kind)
			for _, rec := range recs {
				fmt.Printf("  - %s\n", rec)
			}
		}
	}
	return 0
}

func featureList(features []hwcaps.Feature) string {
	if len(features) == 0 {
		return "-"
	}
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = f.String()
	}
	return strings.Join(names, " ")
}

func handleDump(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		return 1
	}
	reg := compiler.NewUnitRegistry()
	if err := reg.Discover(args...); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	diag := reg.LoadAll()
	for _, path := range reg.Paths() {
		prog := reg.Unit(path)
		if prog == nil {
			continue
		}
		fmt.Printf("# %s\n", path)
		fmt.Print(ast.Print(prog))
	}
	if diag.HasErrors() {
		fmt.Fprintln(os.Stderr, diag.Format(""))
		return 1
	}
	return 0
}

const exploreBanner = `eacheck explore: enter one statement per line as a YAML flow mapping,
e.g. {let: v, value: {vector: [1.0, 2.0, 3.0, 4.0], kind: f32x4}}
Commands: :vars  :funcs  :target  :caps <kind>  :quit`

func handleExplore(args []string) int {
	var cf commonFlags
	fs := newFlagSet("explore", &cf)
	if code, ok := parseFlags(fs, args, os.Stdout); !ok {
		return code
	}
	opts, err := cf.options(newLogger(cf.verbose))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}

	c := checker.New(checker.Options{
		Detector:           opts.Detector,
		LenientAnnotations: opts.LenientAnnotations,
		OpaqueTypes:        opts.OpaqueTypes,
		Logger:             opts.Logger,
	})
	fmt.Println(exploreBanner)
	fmt.Printf("target %s\n", c.Detector())

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		line, err := ln.Prompt("ea> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return 0
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			return 1
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		if strings.HasPrefix(line, ":") {
			if line == ":quit" || line == ":q" {
				return 0
			}
			exploreCommand(c, line)
			continue
		}
		exploreStatement(c, line)
	}
}

func exploreCommand(c *checker.Checker, line string) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":vars":
		printSorted(c.Context().Variables())
	case ":funcs":
		printSorted(c.Context().Functions())
	case ":target":
		fmt.Println(c.Detector())
	case ":caps":
		if len(fields) != 2 {
			fmt.Println("usage: :caps <kind>")
			return
		}
		kind, ok := types.ParseVectorKind(fields[1])
		if !ok {
			fmt.Printf("unknown vector type %q\n", fields[1])
			return
		}
		if c.Detector().IsSupported(kind) {
			fmt.Printf("%s is native on %s\n", kind, c.Detector().Target())
		} else {
			fmt.Printf("%s is not native on %s: %s\n", kind, c.Detector().Target(), c.Detector().Explain(kind))
		}
	default:
		fmt.Println("unknown command. Type :quit to exit.")
	}
}

// exploreStatement decodes one fixture statement and checks it against the
// session's accumulated context. Expression statements print their type.
func exploreStatement(c *checker.Checker, line string) {
	prog, err := fixture.Parse("<input>", []byte("- "+line))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return
	}
	for _, stmt := range prog.Statements {
		if es, ok := stmt.(*ast.ExprStmt); ok {
			t, err := c.CheckExpression(es.Expr)
			if err != nil {
				reportExplore(err)
				return
			}
			fmt.Printf(": %s\n", t)
			continue
		}
		if err := c.CheckStatement(stmt); err != nil {
			reportExplore(err)
			return
		}
		if decl, ok := stmt.(*ast.VarDecl); ok {
			if sym, found := c.Context().LookupVariable(decl.Name); found {
				fmt.Printf("%s: %s\n", decl.Name, sym.Type)
			}
		}
	}
}

func reportExplore(err error) {
	for _, d := range compiler.FromError("<input>", err).All() {
		fmt.Fprintf(os.Stderr, "%s\n", d.Format(""))
	}
}

func printSorted[V fmt.Stringer](m map[string]V) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %s\n", name, m[name])
	}
}
