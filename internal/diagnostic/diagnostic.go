package diagnostic

import (
	"fmt"
	"sort"
	"strings"
)

// Severity represents the severity level of a diagnostic message
type Severity int

const (
	Error Severity = iota
	Warning
	Info
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		return "unknown"
	}
}

// Diagnostic is a single checker failure or advisory note
type Diagnostic struct {
	Severity Severity
	Code     string // failure classification, e.g. "simd operator"
	Message  string
	Line     int
	Column   int
	File     string // source unit the diagnostic belongs to
	Hint     string // optional suggestion
}

// Format renders the diagnostic as
//
//	error[file:3:10]: message
//	  hint: suggestion
func (d Diagnostic) Format(filename string) string {
	if d.File != "" {
		filename = d.File
	}
	s := fmt.Sprintf("%s[%s:%d:%d]: %s", d.Severity, filename, d.Line, d.Column, d.Message)
	if d.Hint != "" {
		s += "\n  hint: " + d.Hint
	}
	return s
}

// Diagnostics is an ordered collection of diagnostics
type Diagnostics struct {
	items []Diagnostic
}

// New creates a new empty Diagnostics collection
func New() *Diagnostics {
	return &Diagnostics{}
}

// Add appends a fully built diagnostic
func (d *Diagnostics) Add(diag Diagnostic) {
	d.items = append(d.items, diag)
}

func (d *Diagnostics) addf(sev Severity, line, col int, format string, args []interface{}) {
	d.items = append(d.items, Diagnostic{
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   col,
	})
}

// Errorf adds an error diagnostic with formatted message
func (d *Diagnostics) Errorf(line, col int, format string, args ...interface{}) {
	d.addf(Error, line, col, format, args)
}

// Warningf adds a warning diagnostic with formatted message
func (d *Diagnostics) Warningf(line, col int, format string, args ...interface{}) {
	d.addf(Warning, line, col, format, args)
}

// Infof adds an info diagnostic with formatted message
func (d *Diagnostics) Infof(line, col int, format string, args ...interface{}) {
	d.addf(Info, line, col, format, args)
}

// WarningWithHint adds a warning diagnostic carrying a suggestion
func (d *Diagnostics) WarningWithHint(line, col int, msg, hint string) {
	d.Add(Diagnostic{Severity: Warning, Message: msg, Line: line, Column: col, Hint: hint})
}

// Merge appends every diagnostic of other, stamping file onto those that
// carry none
func (d *Diagnostics) Merge(file string, other *Diagnostics) {
	if other == nil {
		return
	}
	for _, item := range other.items {
		if item.File == "" {
			item.File = file
		}
		d.items = append(d.items, item)
	}
}

// Sort orders diagnostics by file, then position. Diagnostics at the same
// position keep their insertion order.
func (d *Diagnostics) Sort() {
	sort.SliceStable(d.items, func(i, j int) bool {
		a, b := d.items[i], d.items[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// HasErrors returns true if there are any error-level diagnostics
func (d *Diagnostics) HasErrors() bool {
	return d.count(Error) > 0
}

// Errors returns only the error-level diagnostics
func (d *Diagnostics) Errors() []Diagnostic {
	var errs []Diagnostic
	for _, item := range d.items {
		if item.Severity == Error {
			errs = append(errs, item)
		}
	}
	return errs
}

// All returns all diagnostics regardless of severity
func (d *Diagnostics) All() []Diagnostic {
	return d.items
}

// Count returns the total number of diagnostics
func (d *Diagnostics) Count() int {
	return len(d.items)
}

func (d *Diagnostics) count(sev Severity) int {
	n := 0
	for _, item := range d.items {
		if item.Severity == sev {
			n++
		}
	}
	return n
}

// ErrorCount returns the number of error-level diagnostics
func (d *Diagnostics) ErrorCount() int { return d.count(Error) }

// WarningCount returns the number of warning-level diagnostics
func (d *Diagnostics) WarningCount() int { return d.count(Warning) }

// Summary returns a one-line count such as "2 errors, 1 warning"
func (d *Diagnostics) Summary() string {
	return plural(d.ErrorCount(), "error") + ", " + plural(d.WarningCount(), "warning")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// Format returns human-readable messages, one diagnostic per line. filename
// is used for diagnostics that carry no file of their own.
func (d *Diagnostics) Format(filename string) string {
	lines := make([]string, len(d.items))
	for i, item := range d.items {
		lines[i] = item.Format(filename)
	}
	return strings.Join(lines, "\n")
}
