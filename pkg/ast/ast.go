// Package ast defines vibescript's abstract syntax tree: the shape the
// parser produces and the compiler lowers.
package ast

import "github.com/vibescript/vibescript/pkg/diag"

// Node is implemented by every AST node.
type Node interface {
	Span() diag.Span
}

// Statement is a top-level or block-level statement node.
type Statement interface {
	Node
	statementNode()
}

// Expression is a value-producing node.
type Expression interface {
	Node
	expressionNode()
}

type base struct{ span diag.Span }

func (b base) Span() diag.Span { return b.span }

// Program is the root of the parsed tree: a flat list of top-level items
// (struct declarations, function declarations, and plain statements, in
// source order — the compiler buckets these by kind during lowering).
type Program struct {
	base
	Items []Statement
}

func NewProgram(span diag.Span, items []Statement) *Program {
	return &Program{base: base{span}, Items: items}
}

// --- Declarations -----------------------------------------------------

// StructDecl declares a struct type and its fields in declaration order.
type StructDecl struct {
	base
	Name   string
	Fields []StructFieldDecl
}

type StructFieldDecl struct {
	Name     string
	TypeHint string // empty if unannotated
}

func (*StructDecl) statementNode() {}

func NewStructDecl(span diag.Span, name string, fields []StructFieldDecl) *StructDecl {
	return &StructDecl{base: base{span}, Name: name, Fields: fields}
}

// FuncDecl declares a user function.
type FuncDecl struct {
	base
	Name   string
	Params []string
	Body   []Statement
}

func (*FuncDecl) statementNode() {}

func NewFuncDecl(span diag.Span, name string, params []string, body []Statement) *FuncDecl {
	return &FuncDecl{base: base{span}, Name: name, Params: params, Body: body}
}

// --- Statements ---------------------------------------------------------

// VarDecl is a `let`/`var` local declaration with an initializer.
type VarDecl struct {
	base
	Name        string
	Init        Expression
	IsImmutable bool // true for `let`, false for `var` (purely advisory; the VM does not enforce it)
}

func (*VarDecl) statementNode() {}

func NewVarDecl(span diag.Span, name string, init Expression, immutable bool) *VarDecl {
	return &VarDecl{base: base{span}, Name: name, Init: init, IsImmutable: immutable}
}

// ExpressionStatement wraps an expression evaluated for effect.
type ExpressionStatement struct {
	base
	Expr Expression
}

func (*ExpressionStatement) statementNode() {}

func NewExpressionStatement(span diag.Span, expr Expression) *ExpressionStatement {
	return &ExpressionStatement{base: base{span}, Expr: expr}
}

// IfStatement covers if/else-if/else; Else may be nil, or another
// *IfStatement (else-if), or a block (else).
type IfStatement struct {
	base
	Cond Expression
	Then []Statement
	Else []Statement // nil if absent; may itself contain a single *IfStatement for else-if
}

func (*IfStatement) statementNode() {}

func NewIfStatement(span diag.Span, cond Expression, then, els []Statement) *IfStatement {
	return &IfStatement{base: base{span}, Cond: cond, Then: then, Else: els}
}

// WhileStatement is a pre-tested loop.
type WhileStatement struct {
	base
	Cond Expression
	Body []Statement
}

func (*WhileStatement) statementNode() {}

func NewWhileStatement(span diag.Span, cond Expression, body []Statement) *WhileStatement {
	return &WhileStatement{base: base{span}, Cond: cond, Body: body}
}

// ReturnStatement returns Value (nil means implicit `none`).
type ReturnStatement struct {
	base
	Value Expression
}

func (*ReturnStatement) statementNode() {}

func NewReturnStatement(span diag.Span, value Expression) *ReturnStatement {
	return &ReturnStatement{base: base{span}, Value: value}
}

// --- Expressions ---------------------------------------------------------

type IntegerLiteral struct {
	base
	Value int64
}

func (*IntegerLiteral) expressionNode() {}
func NewIntegerLiteral(span diag.Span, v int64) *IntegerLiteral { return &IntegerLiteral{base{span}, v} }

type FloatLiteral struct {
	base
	Value float64
}

func (*FloatLiteral) expressionNode() {}
func NewFloatLiteral(span diag.Span, v float64) *FloatLiteral { return &FloatLiteral{base{span}, v} }

type StringLiteral struct {
	base
	Value string
}

func (*StringLiteral) expressionNode() {}
func NewStringLiteral(span diag.Span, v string) *StringLiteral { return &StringLiteral{base{span}, v} }

type BoolLiteral struct {
	base
	Value bool
}

func (*BoolLiteral) expressionNode() {}
func NewBoolLiteral(span diag.Span, v bool) *BoolLiteral { return &BoolLiteral{base{span}, v} }

type NilLiteral struct{ base }

func (*NilLiteral) expressionNode() {}
func NewNilLiteral(span diag.Span) *NilLiteral { return &NilLiteral{base{span}} }

// Identifier references a binding by name.
type Identifier struct {
	base
	Name string
}

func (*Identifier) expressionNode() {}
func NewIdentifier(span diag.Span, name string) *Identifier { return &Identifier{base{span}, name} }

// InfixExpression is a binary operator application, pre- or post- folding.
type InfixExpression struct {
	base
	Operator string
	Left     Expression
	Right    Expression
}

func (*InfixExpression) expressionNode() {}

func NewInfixExpression(span diag.Span, op string, left, right Expression) *InfixExpression {
	return &InfixExpression{base: base{span}, Operator: op, Left: left, Right: right}
}

// Assignment covers both plain-local and member-target assignment; Target
// distinguishes the two shapes the compiler must lower differently.
type Assignment struct {
	base
	TargetName  string     // local name, always set
	TargetField string     // non-empty when the target is TargetName.TargetField
	Value       Expression
}

func (*Assignment) expressionNode() {}

func NewAssignment(span diag.Span, targetName, targetField string, value Expression) *Assignment {
	return &Assignment{base: base{span}, TargetName: targetName, TargetField: targetField, Value: value}
}

// CallExpression is a free-function call `callee(args...)`.
type CallExpression struct {
	base
	Callee string
	Args   []Expression
}

func (*CallExpression) expressionNode() {}

func NewCallExpression(span diag.Span, callee string, args []Expression) *CallExpression {
	return &CallExpression{base: base{span}, Callee: callee, Args: args}
}

// MethodCallExpression is `receiver.method(args...)`.
type MethodCallExpression struct {
	base
	Receiver Expression
	Method   string
	Args     []Expression
}

func (*MethodCallExpression) expressionNode() {}

func NewMethodCallExpression(span diag.Span, receiver Expression, method string, args []Expression) *MethodCallExpression {
	return &MethodCallExpression{base: base{span}, Receiver: receiver, Method: method, Args: args}
}

// MemberExpression is `base.name` read access (not a call).
type MemberExpression struct {
	base
	Receiver Expression
	Name     string
}

func (*MemberExpression) expressionNode() {}

func NewMemberExpression(span diag.Span, receiver Expression, name string) *MemberExpression {
	return &MemberExpression{base: base{span}, Receiver: receiver, Name: name}
}

// StructLiteral is a direct struct construction `Name(args...)`, surfaced
// distinctly from CallExpression once the compiler resolves Name against
// the struct registry (the parser always emits CallExpression; the
// compiler re-classifies it, see pkg/compiler).
type StructLiteral struct {
	base
	TypeName string
	Args     []Expression
}

func (*StructLiteral) expressionNode() {}

func NewStructLiteral(span diag.Span, typeName string, args []Expression) *StructLiteral {
	return &StructLiteral{base: base{span}, TypeName: typeName, Args: args}
}

// OperatorLiteral carries a raw operator's literal text as a placeholder
// expression slot inside an ExpressionSequence — it is never itself
// compiled, only inspected by the compiler's assignment/operator
// recognition.
type OperatorLiteral struct {
	base
	Operator string
}

func (*OperatorLiteral) expressionNode() {}

func NewOperatorLiteral(span diag.Span, op string) *OperatorLiteral {
	return &OperatorLiteral{base: base{span}, Operator: op}
}

// ExpressionSequence is a flat, un-folded run of expressions and raw
// operator tokens, exactly what a parser that does not fold precedence
// would hand back. A three-element sequence `lhs = rhs` is how such a
// parser would hand up an assignment. vibescript's own parser emits this
// shape for every binary operator chain and emits assignments as
// *Assignment; pkg/compiler is responsible for folding the sequence (or
// recognizing the 3-element assignment shape directly).
type ExpressionSequence struct {
	base
	Elements []Expression // even indices (0,2,...) are operands, odd indices (1,3,...) are *OperatorLiteral
}

func (*ExpressionSequence) expressionNode() {}

func NewExpressionSequence(span diag.Span, elements []Expression) *ExpressionSequence {
	return &ExpressionSequence{base: base{span}, Elements: elements}
}
