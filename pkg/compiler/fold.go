package compiler

import "github.com/vibescript/vibescript/pkg/ast"

// precedence gives each binary operator a binding strength; higher binds
// tighter. Operators outside this table (should not occur in a
// well-formed ExpressionSequence) make folding fail.
var precedence = map[string]int{
	"||": 1, "&&": 2,
	"==": 3, "!=": 3, "<": 3, ">": 3, "<=": 3, ">=": 3,
	"+": 4, "-": 4,
	"*": 5, "/": 5,
}

// foldOperatorSequence applies precedence climbing to a flat
// operand/operator-literal sequence, producing a nested InfixExpression
// tree. It returns ok=false (never panicking) if the sequence is malformed
// — a shape pkg/parser should never actually produce, but the compiler
// must not crash on it either: folding is opportunistic, with a
// left-to-right fallback when it fails.
func foldOperatorSequence(seq *ast.ExpressionSequence) (ast.Expression, bool) {
	if len(seq.Elements)%2 == 0 || len(seq.Elements) < 3 {
		return nil, false
	}
	for i := 1; i < len(seq.Elements); i += 2 {
		op, ok := seq.Elements[i].(*ast.OperatorLiteral)
		if !ok {
			return nil, false
		}
		if _, known := precedence[op.Operator]; !known {
			return nil, false
		}
	}
	pos := 0
	tree := climb(seq, &pos, 0)
	if pos != len(seq.Elements) {
		return nil, false
	}
	return tree, true
}

func climb(seq *ast.ExpressionSequence, pos *int, minPrec int) ast.Expression {
	left := seq.Elements[*pos]
	*pos++
	for *pos < len(seq.Elements) {
		op := seq.Elements[*pos].(*ast.OperatorLiteral)
		prec := precedence[op.Operator]
		if prec < minPrec {
			break
		}
		*pos++
		right := climb(seq, pos, prec+1)
		left = ast.NewInfixExpression(op.Span(), op.Operator, left, right)
	}
	return left
}

// foldLeftToRight is the fallback path when folding fails: it associates
// every operator strictly left-to-right regardless of precedence, using
// the same flat sequence. Kept as a distinct, independently testable
// function so both the "fold succeeds" and "fold fails, fall back" paths
// have dedicated coverage.
func foldLeftToRight(seq *ast.ExpressionSequence) ast.Expression {
	left := seq.Elements[0]
	for i := 1; i+1 < len(seq.Elements); i += 2 {
		op := seq.Elements[i].(*ast.OperatorLiteral)
		right := seq.Elements[i+1]
		left = ast.NewInfixExpression(op.Span(), op.Operator, left, right)
	}
	return left
}
