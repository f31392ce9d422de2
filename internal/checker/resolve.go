package checker

import (
	"strings"

	"github.com/lhaig/eacheck/internal/ast"
	"github.com/lhaig/eacheck/internal/types"
)

// resolveAnnotation turns a written type into a Type. Accepted spellings are
// builtin scalars, "[T]", "&T", "&mut T", vector kind names and opaque type
// names registered on the context.
func (c *Checker) resolveAnnotation(ann *ast.TypeAnnotation) (*types.Type, error) {
	t, bad := c.resolveTypeName(strings.TrimSpace(ann.Name))
	if t != nil {
		return t, nil
	}
	if bad == "" {
		return nil, newError(ErrUnknownType, ann, "empty type annotation")
	}
	if bad != ann.Name {
		return nil, newError(ErrUnknownType, ann, "unknown type '%s' in '%s'", bad, ann.Name)
	}
	return nil, newError(ErrUnknownType, ann, "unknown type '%s'", bad)
}

// resolveTypeName returns the resolved type, or nil and the name that could
// not be resolved
func (c *Checker) resolveTypeName(name string) (*types.Type, string) {
	switch {
	case name == "":
		return nil, ""
	case strings.HasPrefix(name, "&mut "):
		inner, bad := c.resolveTypeName(strings.TrimSpace(name[len("&mut "):]))
		if inner == nil {
			return nil, bad
		}
		return types.Reference(inner), ""
	case strings.HasPrefix(name, "&"):
		inner, bad := c.resolveTypeName(strings.TrimSpace(name[1:]))
		if inner == nil {
			return nil, bad
		}
		return types.Reference(inner), ""
	case strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]"):
		inner, bad := c.resolveTypeName(strings.TrimSpace(name[1 : len(name)-1]))
		if inner == nil {
			return nil, bad
		}
		return types.Array(inner), ""
	}

	if t, ok := types.Scalar(name); ok {
		return t, ""
	}
	if kind, ok := types.ParseVectorKind(name); ok {
		return types.Vector(kind), ""
	}
	if c.ctx.IsOpaque(name) || c.lenient {
		return types.Custom(name), ""
	}
	return nil, name
}
