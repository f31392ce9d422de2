package ast

import (
	"fmt"
	"strings"
)

// Print returns a tree-like string representation of the AST for debugging
func Print(node Node) string {
	var sb strings.Builder
	printNode(&sb, node, 0)
	return sb.String()
}

func printNode(sb *strings.Builder, node Node, indent int) {
	if node == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *Program:
		name := n.Name
		if name == "" {
			name = "<anonymous>"
		}
		sb.WriteString(fmt.Sprintf("%sProgram: %s\n", prefix, name))
		for _, stmt := range n.Statements {
			printNode(sb, stmt, indent+1)
		}

	case *FunctionDecl:
		sb.WriteString(fmt.Sprintf("%sFunction: %s\n", prefix, n.Name))
		if len(n.Params) > 0 {
			sb.WriteString(fmt.Sprintf("%s  Params:\n", prefix))
			for _, p := range n.Params {
				printNode(sb, p, indent+2)
			}
		} else {
			sb.WriteString(fmt.Sprintf("%s  Params: none\n", prefix))
		}
		if n.ReturnType != nil {
			sb.WriteString(fmt.Sprintf("%s  Returns: %s\n", prefix, annotationString(n.ReturnType)))
		}
		if n.Body != nil {
			sb.WriteString(fmt.Sprintf("%s  Body:\n", prefix))
			printNode(sb, n.Body, indent+2)
		}

	case *Param:
		sb.WriteString(fmt.Sprintf("%s%s: %s\n", prefix, n.Name, annotationString(n.Type)))

	case *Block:
		sb.WriteString(fmt.Sprintf("%sBlock\n", prefix))
		for _, stmt := range n.Statements {
			printNode(sb, stmt, indent+1)
		}

	case *VarDecl:
		mut := ""
		if n.Mutable {
			mut = "mut "
		}
		typeStr := ""
		if n.Type != nil {
			typeStr = ": " + annotationString(n.Type)
		}
		sb.WriteString(fmt.Sprintf("%sLet: %s%s%s\n", prefix, mut, n.Name, typeStr))
		if n.Value != nil {
			printNode(sb, n.Value, indent+1)
		}

	case *ReturnStmt:
		sb.WriteString(fmt.Sprintf("%sReturn\n", prefix))
		if n.Value != nil {
			printNode(sb, n.Value, indent+1)
		}

	case *IfStmt:
		sb.WriteString(fmt.Sprintf("%sIf\n", prefix))
		sb.WriteString(fmt.Sprintf("%s  Condition:\n", prefix))
		printNode(sb, n.Condition, indent+2)
		sb.WriteString(fmt.Sprintf("%s  Then:\n", prefix))
		printNode(sb, n.Then, indent+2)
		if n.Else != nil {
			sb.WriteString(fmt.Sprintf("%s  Else:\n", prefix))
			printNode(sb, n.Else, indent+2)
		}

	case *WhileStmt:
		sb.WriteString(fmt.Sprintf("%sWhile\n", prefix))
		sb.WriteString(fmt.Sprintf("%s  Condition:\n", prefix))
		printNode(sb, n.Condition, indent+2)
		sb.WriteString(fmt.Sprintf("%s  Body:\n", prefix))
		printNode(sb, n.Body, indent+2)

	case *ForStmt:
		sb.WriteString(fmt.Sprintf("%sFor\n", prefix))
		if n.Init != nil {
			sb.WriteString(fmt.Sprintf("%s  Init:\n", prefix))
			printNode(sb, n.Init, indent+2)
		}
		if n.Condition != nil {
			sb.WriteString(fmt.Sprintf("%s  Condition:\n", prefix))
			printNode(sb, n.Condition, indent+2)
		}
		if n.Increment != nil {
			sb.WriteString(fmt.Sprintf("%s  Increment:\n", prefix))
			printNode(sb, n.Increment, indent+2)
		}
		sb.WriteString(fmt.Sprintf("%s  Body:\n", prefix))
		printNode(sb, n.Body, indent+2)

	case *ExprStmt:
		sb.WriteString(fmt.Sprintf("%sExprStmt\n", prefix))
		printNode(sb, n.Expr, indent+1)

	case *IntLit:
		sb.WriteString(fmt.Sprintf("%sInt: %d\n", prefix, n.Value))

	case *FloatLit:
		sb.WriteString(fmt.Sprintf("%sFloat: %g\n", prefix, n.Value))

	case *StringLit:
		sb.WriteString(fmt.Sprintf("%sString: %q\n", prefix, n.Value))

	case *BoolLit:
		sb.WriteString(fmt.Sprintf("%sBool: %t\n", prefix, n.Value))

	case *Identifier:
		sb.WriteString(fmt.Sprintf("%sIdent: %s\n", prefix, n.Name))

	case *BinaryExpr:
		sb.WriteString(fmt.Sprintf("%sBinary: %s\n", prefix, n.Op))
		printNode(sb, n.Left, indent+1)
		printNode(sb, n.Right, indent+1)

	case *UnaryExpr:
		sb.WriteString(fmt.Sprintf("%sUnary: %s\n", prefix, n.Op))
		printNode(sb, n.Operand, indent+1)

	case *CallExpr:
		sb.WriteString(fmt.Sprintf("%sCall\n", prefix))
		sb.WriteString(fmt.Sprintf("%s  Callee:\n", prefix))
		printNode(sb, n.Callee, indent+2)
		if len(n.Args) > 0 {
			sb.WriteString(fmt.Sprintf("%s  Args:\n", prefix))
			for _, arg := range n.Args {
				printNode(sb, arg, indent+2)
			}
		}

	case *GroupExpr:
		sb.WriteString(fmt.Sprintf("%sGroup\n", prefix))
		printNode(sb, n.Inner, indent+1)

	case *IndexExpr:
		sb.WriteString(fmt.Sprintf("%sIndex\n", prefix))
		printNode(sb, n.Object, indent+1)
		printNode(sb, n.Index, indent+1)

	case *FieldAccessExpr:
		sb.WriteString(fmt.Sprintf("%sField: .%s\n", prefix, n.Field))
		printNode(sb, n.Object, indent+1)

	case *VectorLit:
		kind := n.Kind
		if kind == "" {
			kind = "<inferred>"
		}
		sb.WriteString(fmt.Sprintf("%sVector: %s (%d elements)\n", prefix, kind, len(n.Elements)))
		for _, e := range n.Elements {
			printNode(sb, e, indent+1)
		}

	case *ElementwiseExpr:
		sb.WriteString(fmt.Sprintf("%sElementwise: %s\n", prefix, n.Op))
		printNode(sb, n.Left, indent+1)
		printNode(sb, n.Right, indent+1)

	case *BroadcastExpr:
		sb.WriteString(fmt.Sprintf("%sBroadcast: %s\n", prefix, n.Op))
		printNode(sb, n.Scalar, indent+1)
		printNode(sb, n.Vector, indent+1)

	case *ReductionExpr:
		sb.WriteString(fmt.Sprintf("%sReduce: %s\n", prefix, n.Op))
		printNode(sb, n.Operand, indent+1)

	case *DotProductExpr:
		sb.WriteString(fmt.Sprintf("%sDot\n", prefix))
		printNode(sb, n.Left, indent+1)
		printNode(sb, n.Right, indent+1)

	case *SwizzleExpr:
		sb.WriteString(fmt.Sprintf("%sSwizzle: %s\n", prefix, n.Pattern))
		printNode(sb, n.Operand, indent+1)

	case *VectorLoadExpr:
		sb.WriteString(fmt.Sprintf("%sLoad: %s\n", prefix, n.Kind))
		printNode(sb, n.Address, indent+1)

	case *VectorStoreExpr:
		sb.WriteString(fmt.Sprintf("%sStore\n", prefix))
		printNode(sb, n.Address, indent+1)
		printNode(sb, n.Value, indent+1)

	default:
		sb.WriteString(fmt.Sprintf("%s<unknown node %T>\n", prefix, node))
	}
}

func annotationString(t *TypeAnnotation) string {
	if t == nil {
		return "<none>"
	}
	if t.Mutable {
		return "mut " + t.Name
	}
	return t.Name
}
