// Package fixture decodes YAML AST fixtures into ast nodes. A fixture stands
// in for parser output: every statement and expression is a mapping keyed by
// its form, and YAML node positions become AST positions.
//
//	name: scale
//	statements:
//	  - fn: scale
//	    params: [{name: v, type: f32x4}]
//	    returns: f32x4
//	    body:
//	      - return: {broadcast: ".*", scalar: 2.0, across: v}
//
// Plain scalars are identifiers and literals; quoted scalars are strings.
package fixture

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lhaig/eacheck/internal/ast"
)

// Extension is the file suffix fixture sources carry
const Extension = ".ea.yaml"

// SyntaxError reports a malformed fixture at a source position
type SyntaxError struct {
	File   string
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Msg)
}

// Load reads and decodes the fixture at path
func Load(path string) (*ast.Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "fixture: read %s", path)
	}
	return Parse(path, src)
}

// Parse decodes fixture source. file is used for error positions and, when
// the document names no program, for the program name.
func Parse(file string, src []byte) (*ast.Program, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(src, &root); err != nil {
		return nil, errors.Wrapf(err, "fixture: parse %s", file)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, errors.Errorf("fixture: %s is empty", file)
	}

	d := &decoder{file: file}
	prog := &ast.Program{Name: programName(file)}
	doc := resolve(root.Content[0])

	switch doc.Kind {
	case yaml.SequenceNode:
		stmts, err := d.statements(doc)
		if err != nil {
			return nil, err
		}
		prog.Statements = stmts
	case yaml.MappingNode:
		for i := 0; i < len(doc.Content); i += 2 {
			key, val := doc.Content[i], resolve(doc.Content[i+1])
			switch key.Value {
			case "name":
				name, err := d.scalar(val)
				if err != nil {
					return nil, err
				}
				prog.Name = name
			case "statements":
				stmts, err := d.statements(val)
				if err != nil {
					return nil, err
				}
				prog.Statements = stmts
			default:
				return nil, d.errorf(key, "unknown program field %q", key.Value)
			}
		}
	default:
		return nil, d.errorf(doc, "fixture must be a statement list or a program mapping, found %s", doc.ShortTag())
	}
	return prog, nil
}

func programName(file string) string {
	base := filepath.Base(file)
	base = strings.TrimSuffix(base, Extension)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

type decoder struct {
	file string
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...interface{}) error {
	return &SyntaxError{File: d.file, Line: n.Line, Column: n.Column, Msg: fmt.Sprintf(format, args...)}
}

func (d *decoder) scalar(n *yaml.Node) (string, error) {
	n = resolve(n)
	if n.Kind != yaml.ScalarNode || isNull(n) {
		return "", d.errorf(n, "expected a scalar, found %s", n.ShortTag())
	}
	return strings.TrimSpace(n.Value), nil
}

func (d *decoder) boolean(n *yaml.Node) (bool, error) {
	var b bool
	if err := resolve(n).Decode(&b); err != nil {
		return false, d.errorf(n, "expected true or false")
	}
	return b, nil
}

// form is a mapping split into its discriminating key and the remaining fields
type form struct {
	node   *yaml.Node
	kind   string
	head   *yaml.Node
	fields map[string]*yaml.Node
}

// split identifies which of kinds n is and checks its remaining keys against
// the fields that kind allows
func (d *decoder) split(n *yaml.Node, what string, kinds map[string][]string) (*form, error) {
	n = resolve(n)
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, "expected a %s mapping, found %s", what, n.ShortTag())
	}

	f := &form{node: n, fields: make(map[string]*yaml.Node)}
	keys := make(map[string]*yaml.Node)
	for i := 0; i < len(n.Content); i += 2 {
		key := n.Content[i]
		if _, dup := keys[key.Value]; dup {
			return nil, d.errorf(key, "duplicate key %q", key.Value)
		}
		keys[key.Value] = key
		val := resolve(n.Content[i+1])
		if _, ok := kinds[key.Value]; ok && f.kind == "" {
			f.kind, f.head = key.Value, val
			continue
		}
		f.fields[key.Value] = val
	}
	if f.kind == "" {
		return nil, d.errorf(n, "%s has no recognised form", what)
	}

	allowed := kinds[f.kind]
	for name := range f.fields {
		if !contains(allowed, name) {
			return nil, d.errorf(keys[name], "unknown field %q for %s %q", name, what, f.kind)
		}
	}
	return f, nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func (d *decoder) require(f *form, field string) (*yaml.Node, error) {
	n, ok := f.fields[field]
	if !ok || isNull(n) {
		return nil, d.errorf(f.node, "%s requires %q", f.kind, field)
	}
	return n, nil
}
