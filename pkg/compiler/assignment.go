package compiler

import (
	"strings"

	"github.com/vibescript/vibescript/pkg/ast"
)

// recognizedAssignment is the shape-neutral result of assignment
// detection: a target name, an optional field (member assignment), and the
// value expression to lower.
type recognizedAssignment struct {
	TargetName  string
	TargetField string
	Value       ast.Expression
}

// recognizeAssignment handles the first two of three redundant
// assignment-detection shapes against an already-parsed expression node:
//
//  1. an *ast.Assignment node (the parser's own infix-assignment shape);
//  2. a flat three-element *ast.ExpressionSequence whose middle element is
//     an *ast.OperatorLiteral("=") — the shape an external, precedence-
//     naive fragment parser would produce for "lhs = rhs".
//
// The third shape, a textual fallback splitting on the first bare `=`, is
// implemented separately as recognizeAssignmentText for inputs that never
// reach the AST at all (see its doc comment).
func recognizeAssignment(expr ast.Expression) (recognizedAssignment, bool) {
	switch e := expr.(type) {
	case *ast.Assignment:
		return recognizedAssignment{TargetName: e.TargetName, TargetField: e.TargetField, Value: e.Value}, true
	case *ast.ExpressionSequence:
		if len(e.Elements) != 3 {
			return recognizedAssignment{}, false
		}
		op, ok := e.Elements[1].(*ast.OperatorLiteral)
		if !ok || op.Operator != "=" {
			return recognizedAssignment{}, false
		}
		name, field, ok := targetOf(e.Elements[0])
		if !ok {
			return recognizedAssignment{}, false
		}
		return recognizedAssignment{TargetName: name, TargetField: field, Value: e.Elements[2]}, true
	default:
		return recognizedAssignment{}, false
	}
}

func targetOf(expr ast.Expression) (name, field string, ok bool) {
	switch t := expr.(type) {
	case *ast.Identifier:
		return t.Name, "", true
	case *ast.MemberExpression:
		if id, ok := t.Receiver.(*ast.Identifier); ok {
			return id.Name, t.Name, true
		}
	}
	return "", "", false
}

// recognizeAssignmentText implements the third assignment shape: a pure
// textual fallback that splits raw source on the first bare `=` not
// part of a compound comparison/assignment operator (`==`, `!=`, `<=`,
// `>=`). It exists for surfaces that hand the compiler a bare statement
// fragment instead of a parsed node — e.g. a future host-side "evaluate
// this one line" affordance — and is deliberately independent of
// pkg/lexer/pkg/parser so it has no shared failure mode with the other two
// shapes.
func recognizeAssignmentText(src string) (lhs, rhs string, ok bool) {
	runes := []rune(src)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '=' {
			continue
		}
		prevIsCompound := i > 0 && (runes[i-1] == '=' || runes[i-1] == '!' || runes[i-1] == '<' || runes[i-1] == '>')
		nextIsEquals := i+1 < len(runes) && runes[i+1] == '='
		if prevIsCompound || nextIsEquals {
			continue
		}
		return strings.TrimSpace(string(runes[:i])), strings.TrimSpace(string(runes[i+1:])), true
	}
	return "", "", false
}
