package compiler

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-set/v2"
	"github.com/pkg/errors"

	"github.com/lhaig/eacheck/internal/ast"
	"github.com/lhaig/eacheck/internal/diagnostic"
	"github.com/lhaig/eacheck/internal/fixture"
)

// UnitRegistry collects the fixture files a run checks. Units are
// independent: Ea programs carry no imports, so there is no dependency
// graph to order, only a deduplicated file list.
type UnitRegistry struct {
	seen  *set.Set[string]
	paths []string
	units map[string]*ast.Program // absolute file path -> decoded program
}

// NewUnitRegistry creates an empty registry
func NewUnitRegistry() *UnitRegistry {
	return &UnitRegistry{
		seen:  set.New[string](0),
		units: make(map[string]*ast.Program),
	}
}

// Discover adds each path to the registry. Files are added as given;
// directories are walked for files ending in fixture.Extension. Hidden
// directories are skipped. Paths are resolved to absolute form and kept
// sorted.
func (r *UnitRegistry) Discover(paths ...string) error {
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return errors.Wrapf(err, "compiler: resolve %s", p)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return errors.Wrapf(err, "compiler: unit not found: %s", p)
		}
		if !info.IsDir() {
			r.add(abs)
			continue
		}
		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != abs && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(d.Name(), fixture.Extension) {
				r.add(path)
			}
			return nil
		})
		if err != nil {
			return errors.Wrapf(err, "compiler: walk %s", p)
		}
	}
	sort.Strings(r.paths)
	return nil
}

func (r *UnitRegistry) add(path string) {
	if r.seen.Insert(path) {
		r.paths = append(r.paths, path)
	}
}

// Paths returns the discovered files in sorted order
func (r *UnitRegistry) Paths() []string {
	return r.paths
}

// Len returns the number of discovered files
func (r *UnitRegistry) Len() int {
	return len(r.paths)
}

// LoadAll decodes every discovered unit. Malformed fixtures are reported
// as diagnostics against their file; the rest become available through Unit.
func (r *UnitRegistry) LoadAll() *diagnostic.Diagnostics {
	diag := diagnostic.New()
	for _, path := range r.paths {
		prog, err := fixture.Load(path)
		if err != nil {
			diag.Merge(path, FromError(path, err))
			continue
		}
		r.units[path] = prog
	}
	return diag
}

// Unit returns the decoded program for an absolute path, or nil if it has
// not been loaded.
func (r *UnitRegistry) Unit(path string) *ast.Program {
	return r.units[path]
}

// Units returns all loaded programs keyed by absolute path
func (r *UnitRegistry) Units() map[string]*ast.Program {
	return r.units
}
