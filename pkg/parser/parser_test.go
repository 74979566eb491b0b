package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vibescript/vibescript/pkg/ast"
)

func parseOK(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New(src)
	prog, err := p.Parse()
	require.NoError(t, err, "errors: %v", p.Errors())
	return prog
}

func TestParseVarDecl(t *testing.T) {
	prog := parseOK(t, `let x = 2`)
	require.Len(t, prog.Items, 1)
	decl, ok := prog.Items[0].(*ast.VarDecl)
	require.True(t, ok)
	require.Equal(t, "x", decl.Name)
	require.True(t, decl.IsImmutable)
	lit, ok := decl.Init.(*ast.IntegerLiteral)
	require.True(t, ok)
	require.Equal(t, int64(2), lit.Value)
}

func TestParseVarIsMutable(t *testing.T) {
	prog := parseOK(t, `var y = 1`)
	decl := prog.Items[0].(*ast.VarDecl)
	require.False(t, decl.IsImmutable)
}

func TestParseOperatorSequenceIsFlat(t *testing.T) {
	prog := parseOK(t, `let x = 1 + 2 * 3`)
	decl := prog.Items[0].(*ast.VarDecl)
	seq, ok := decl.Init.(*ast.ExpressionSequence)
	require.True(t, ok, "expected a flat ExpressionSequence, got %T", decl.Init)
	require.Len(t, seq.Elements, 5)
	op1 := seq.Elements[1].(*ast.OperatorLiteral)
	op2 := seq.Elements[3].(*ast.OperatorLiteral)
	require.Equal(t, "+", op1.Operator)
	require.Equal(t, "*", op2.Operator)
}

func TestParseSingleOperandCollapses(t *testing.T) {
	prog := parseOK(t, `let x = 5`)
	decl := prog.Items[0].(*ast.VarDecl)
	_, isSeq := decl.Init.(*ast.ExpressionSequence)
	require.False(t, isSeq, "a single operand must not be wrapped in a sequence")
}

func TestParseAssignmentInfixShape(t *testing.T) {
	prog := parseOK(t, `x = 5`)
	stmt := prog.Items[0].(*ast.ExpressionStatement)
	assign, ok := stmt.Expr.(*ast.Assignment)
	require.True(t, ok)
	require.Equal(t, "x", assign.TargetName)
	require.Empty(t, assign.TargetField)
}

func TestParseMemberAssignment(t *testing.T) {
	prog := parseOK(t, `p.x = 5`)
	stmt := prog.Items[0].(*ast.ExpressionStatement)
	assign := stmt.Expr.(*ast.Assignment)
	require.Equal(t, "p", assign.TargetName)
	require.Equal(t, "x", assign.TargetField)
}

func TestParseEqualityIsNotAssignment(t *testing.T) {
	prog := parseOK(t, `let ok = x == 5`)
	decl := prog.Items[0].(*ast.VarDecl)
	seq, ok := decl.Init.(*ast.ExpressionSequence)
	require.True(t, ok)
	require.Equal(t, "==", seq.Elements[1].(*ast.OperatorLiteral).Operator)
}

func TestParseFuncDecl(t *testing.T) {
	prog := parseOK(t, `func add(a, b) { return a + b }`)
	fn := prog.Items[0].(*ast.FuncDecl)
	require.Equal(t, "add", fn.Name)
	require.Equal(t, []string{"a", "b"}, fn.Params)
	require.Len(t, fn.Body, 1)
	ret := fn.Body[0].(*ast.ReturnStatement)
	require.NotNil(t, ret.Value)
}

func TestParseStructDecl(t *testing.T) {
	prog := parseOK(t, `struct Point { x, y }`)
	sd := prog.Items[0].(*ast.StructDecl)
	require.Equal(t, "Point", sd.Name)
	require.Len(t, sd.Fields, 2)
	require.Equal(t, "x", sd.Fields[0].Name)
	require.Equal(t, "y", sd.Fields[1].Name)
}

func TestParseStructConstructionIsCallExpression(t *testing.T) {
	prog := parseOK(t, `let p = Point(1, 2)`)
	decl := prog.Items[0].(*ast.VarDecl)
	call, ok := decl.Init.(*ast.CallExpression)
	require.True(t, ok, "parser emits CallExpression; compiler reclassifies")
	require.Equal(t, "Point", call.Callee)
	require.Len(t, call.Args, 2)
}

func TestParseIfElseIf(t *testing.T) {
	prog := parseOK(t, `
		if x {
			return 1
		} else if y {
			return 2
		} else {
			return 3
		}
	`)
	ifs := prog.Items[0].(*ast.IfStatement)
	require.Len(t, ifs.Then, 1)
	require.Len(t, ifs.Else, 1)
	elseIf, ok := ifs.Else[0].(*ast.IfStatement)
	require.True(t, ok)
	require.Len(t, elseIf.Else, 1)
}

func TestParseWhile(t *testing.T) {
	prog := parseOK(t, `while x { x = x - 1 }`)
	ws := prog.Items[0].(*ast.WhileStatement)
	require.Len(t, ws.Body, 1)
}

func TestParseMethodCallAndMemberChain(t *testing.T) {
	prog := parseOK(t, `let n = s.uppercased().length`)
	decl := prog.Items[0].(*ast.VarDecl)
	member, ok := decl.Init.(*ast.MemberExpression)
	require.True(t, ok)
	require.Equal(t, "length", member.Name)
	_, ok = member.Receiver.(*ast.MethodCallExpression)
	require.True(t, ok)
}

func TestParseUnaryMinusLowersToInfix(t *testing.T) {
	prog := parseOK(t, `let b = -x`)
	decl := prog.Items[0].(*ast.VarDecl)
	infix, ok := decl.Init.(*ast.InfixExpression)
	require.True(t, ok)
	require.Equal(t, "-", infix.Operator)
}

func TestParseIllegalTokenReportsError(t *testing.T) {
	p := New(`let x = 1 @ 2`)
	_, err := p.Parse()
	require.Error(t, err)
	require.NotEmpty(t, p.Errors())
}
