package compiler

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/lhaig/eacheck/internal/ast"
	"github.com/lhaig/eacheck/internal/checker"
	"github.com/lhaig/eacheck/internal/config"
	"github.com/lhaig/eacheck/internal/diagnostic"
	"github.com/lhaig/eacheck/internal/fixture"
	"github.com/lhaig/eacheck/internal/hwcaps"
	"github.com/lhaig/eacheck/internal/linter"
)

// Options configures a checking run
type Options struct {
	// Detector is shared read-only by every unit. Nil means the host CPU.
	Detector           *hwcaps.Detector
	LenientAnnotations bool
	OpaqueTypes        []string
	// Workers bounds concurrent units in CheckAll. Zero means one per CPU.
	Workers int
	// Lint runs the linter on units that type-check.
	Lint   bool
	Logger *slog.Logger
}

// OptionsFromConfig builds options from a configuration file. target
// overrides the configured target when non-empty.
func OptionsFromConfig(cfg *config.Config, target string) (Options, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	hw, err := ResolveTarget(target, cfg)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Detector:           hw,
		LenientAnnotations: cfg.LenientAnnotations,
		OpaqueTypes:        cfg.OpaqueTypes,
		Workers:            cfg.WorkerCount(),
	}, nil
}

func (o Options) checkerOptions() checker.Options {
	return checker.Options{
		Detector:           o.Detector,
		LenientAnnotations: o.LenientAnnotations,
		OpaqueTypes:        o.OpaqueTypes,
		Logger:             o.Logger,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Result holds the outcome of checking one unit
type Result struct {
	Path        string
	Program     *ast.Program // nil when the unit could not be decoded
	Check       *checker.Result
	Diagnostics *diagnostic.Diagnostics
}

// OK reports whether the unit decoded and type-checked
func (r *Result) OK() bool {
	return r.Check != nil && !r.Diagnostics.HasErrors()
}

// CheckProgram type checks a decoded program, then lints it if requested.
func CheckProgram(path string, prog *ast.Program, opts Options) *Result {
	res := &Result{Path: path, Program: prog, Diagnostics: diagnostic.New()}

	checked, err := checker.Check(prog, opts.checkerOptions())
	if err != nil {
		res.Diagnostics.Merge(path, FromError(path, err))
		return res
	}
	res.Check = checked

	if opts.Lint {
		hw := opts.Detector
		if hw == nil {
			hw = hwcaps.Native()
		}
		res.Diagnostics.Merge(path, linter.Lint(prog, hw))
	}
	return res
}

// CheckSource decodes fixture source and checks it
func CheckSource(path string, src []byte, opts Options) *Result {
	prog, err := fixture.Parse(path, src)
	if err != nil {
		res := &Result{Path: path, Diagnostics: diagnostic.New()}
		res.Diagnostics.Merge(path, FromError(path, err))
		return res
	}
	return CheckProgram(path, prog, opts)
}

// CheckFile loads the fixture at path and checks it
func CheckFile(path string, opts Options) *Result {
	prog, err := fixture.Load(path)
	if err != nil {
		res := &Result{Path: path, Diagnostics: diagnostic.New()}
		res.Diagnostics.Merge(path, FromError(path, err))
		return res
	}
	return CheckProgram(path, prog, opts)
}

// CheckAll discovers the units under paths and checks them concurrently.
// Each unit gets its own checker; all share one detector. Results are
// returned in discovery order. The returned error covers discovery and
// cancellation only; per-unit failures are in each Result's diagnostics.
func CheckAll(ctx context.Context, paths []string, opts Options) ([]*Result, error) {
	reg := NewUnitRegistry()
	if err := reg.Discover(paths...); err != nil {
		return nil, err
	}

	if opts.Detector == nil {
		opts.Detector = hwcaps.Native()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = config.Default().WorkerCount()
	}
	log := opts.logger()
	log.Info("checking units", "count", reg.Len(), "workers", workers, "target", opts.Detector.Target())

	units := reg.Paths()
	results := make([]*Result, len(units))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range units {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := CheckFile(displayPath(path), opts)
			log.Debug("checked unit", "path", res.Path,
				"errors", res.Diagnostics.ErrorCount(), "warnings", res.Diagnostics.WarningCount())
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "compiler: check interrupted")
	}
	return results, nil
}

// Summarize merges the diagnostics of every result, sorted by position
func Summarize(results []*Result) *diagnostic.Diagnostics {
	all := diagnostic.New()
	for _, r := range results {
		all.Merge(r.Path, r.Diagnostics)
	}
	all.Sort()
	return all
}

// FromError converts a checker or fixture failure into diagnostics for path
func FromError(path string, err error) *diagnostic.Diagnostics {
	diag := diagnostic.New()
	diag.Merge(path, errorDiagnostics(err))
	return diag
}

func errorDiagnostics(err error) *diagnostic.Diagnostics {
	diag := diagnostic.New()
	if err == nil {
		return diag
	}

	var typeErr *checker.TypeError
	if errors.As(err, &typeErr) {
		d := diagnostic.Diagnostic{
			Severity: diagnostic.Error,
			Code:     typeErr.Kind.String(),
			Message:  typeErr.Message,
			Line:     typeErr.Line,
			Column:   typeErr.Column,
		}
		switch typeErr.Kind {
		case checker.ErrSIMDUnsupportedKind:
			d.Hint = "select a wider target with --target or define a profile in " + config.FileName
		case checker.ErrUnknownType:
			d.Hint = "declare the name in opaque_types or check with --lenient"
		}
		diag.Add(d)
		return diag
	}

	var syntaxErr *fixture.SyntaxError
	if errors.As(err, &syntaxErr) {
		diag.Add(diagnostic.Diagnostic{
			Severity: diagnostic.Error,
			Code:     "fixture",
			Message:  syntaxErr.Msg,
			Line:     syntaxErr.Line,
			Column:   syntaxErr.Column,
		})
		return diag
	}

	diag.Errorf(0, 0, "%s", err)
	return diag
}

// displayPath shortens path relative to the working directory when possible
func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(wd, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
