package compiler

import (
	"github.com/vibescript/vibescript/pkg/ast"
	"github.com/vibescript/vibescript/pkg/bytecode"
	"github.com/vibescript/vibescript/pkg/diag"
	"github.com/vibescript/vibescript/pkg/ids"
)

// funcCompiler lowers a single function's body (the synthetic entry
// function or one user function) into an instruction block with its own
// local span map, indexed relative to the block's own start.
type funcCompiler struct {
	c     *Compiler
	b     *bytecode.InstructionBuilder
	scope *LexicalScope
	spans diag.SpanMap
}

// compileFunctionBody lowers body into a finished instruction list plus a
// span map keyed by index within that list (not yet offset into the
// merged program stream — Compile does that via appendBlock).
func (c *Compiler) compileFunctionBody(name string, params []string, body []ast.Statement) ([]bytecode.Instruction, diag.SpanMap, error) {
	fc := &funcCompiler{c: c, b: bytecode.NewInstructionBuilder(), scope: newRootScope(), spans: make(diag.SpanMap)}
	for _, p := range params {
		fc.scope.Declare(p)
	}
	for _, stmt := range body {
		fc.compileStatement(stmt)
	}
	// Implicit return none: every function body ends push_const(none);
	// return_value even if the last statement was
	// an explicit return (the explicit return already emitted its own
	// return_value and jumped, semantically, to the function's end —
	// here it simply falls through to a second, unreachable-on-that-path
	// terminator that keeps every function block self-terminating).
	fc.emit(fc.b.Emit(bytecode.OpPushConst, int64(fc.c.constants.Intern(bytecode.NoneConstant()))), nil)
	fc.emit(fc.b.Emit(bytecode.OpReturnValue), nil)
	instrs, err := fc.b.Finish()
	if err != nil {
		return nil, nil, err
	}
	return instrs, fc.spans, nil
}

func (fc *funcCompiler) emit(index int, span *diag.Span) {
	if span != nil {
		fc.spans[index] = *span
	}
}

func spanPtr(s diag.Span) *diag.Span { return &s }

// --- statements -----------------------------------------------------------

func (fc *funcCompiler) compileStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		fc.compileVarDecl(s)
	case *ast.ExpressionStatement:
		fc.compileExpression(s.Expr)
		fc.emit(fc.b.Emit(bytecode.OpPop), spanPtr(s.Span()))
	case *ast.IfStatement:
		fc.compileIf(s)
	case *ast.WhileStatement:
		fc.compileWhile(s)
	case *ast.ReturnStatement:
		fc.compileReturn(s)
	default:
		fc.c.errorf(stmt.Span(), "unsupported statement type %T", stmt)
	}
}

func (fc *funcCompiler) compileVarDecl(s *ast.VarDecl) {
	typeHint := fc.structTypeHintOf(s.Init)
	slot := fc.scope.DeclareTyped(s.Name, typeHint)
	fc.compileExpression(s.Init)
	fc.emit(fc.b.Emit(bytecode.OpStoreLocal, int64(slot)), spanPtr(s.Span()))
}

// structTypeHintOf reports the struct type a freshly-declared local would
// carry, so a later `local.field` can resolve a known FieldID instead of
// falling back to the wildcard member path.
func (fc *funcCompiler) structTypeHintOf(init ast.Expression) string {
	call, ok := init.(*ast.CallExpression)
	if !ok {
		return ""
	}
	if _, isStruct := fc.c.structs[call.Callee]; isStruct {
		return call.Callee
	}
	return ""
}

func (fc *funcCompiler) compileIf(s *ast.IfStatement) {
	elseLabel := fc.b.CreateLabel()
	endLabel := fc.b.CreateLabel()

	fc.compileExpression(s.Cond)
	fc.emit(fc.b.EmitJumpIfFalse(elseLabel), spanPtr(s.Span()))

	fc.withChildScope(func() {
		for _, stmt := range s.Then {
			fc.compileStatement(stmt)
		}
	})
	if len(s.Else) > 0 {
		fc.emit(fc.b.EmitJump(endLabel), spanPtr(s.Span()))
	}
	fc.b.Mark(elseLabel)
	if len(s.Else) > 0 {
		fc.withChildScope(func() {
			for _, stmt := range s.Else {
				fc.compileStatement(stmt)
			}
		})
		fc.b.Mark(endLabel)
	}
}

func (fc *funcCompiler) compileWhile(s *ast.WhileStatement) {
	condLabel := fc.b.CreateLabel()
	endLabel := fc.b.CreateLabel()

	fc.b.Mark(condLabel)
	fc.compileExpression(s.Cond)
	fc.emit(fc.b.EmitJumpIfFalse(endLabel), spanPtr(s.Span()))
	fc.withChildScope(func() {
		for _, stmt := range s.Body {
			fc.compileStatement(stmt)
		}
	})
	fc.emit(fc.b.EmitJump(condLabel), spanPtr(s.Span()))
	fc.b.Mark(endLabel)
}

func (fc *funcCompiler) withChildScope(f func()) {
	parent := fc.scope
	fc.scope = parent.child()
	f()
	fc.scope = parent
}

func (fc *funcCompiler) compileReturn(s *ast.ReturnStatement) {
	if s.Value == nil {
		fc.emit(fc.b.Emit(bytecode.OpPushConst, int64(fc.c.constants.Intern(bytecode.NoneConstant()))), spanPtr(s.Span()))
	} else {
		fc.compileExpression(s.Value)
	}
	fc.emit(fc.b.Emit(bytecode.OpReturnValue), spanPtr(s.Span()))
}

// --- expressions ------------------------------------------------------------

// compileExpression lowers expr, leaving exactly one value on the stack.
func (fc *funcCompiler) compileExpression(expr ast.Expression) {
	if a, ok := recognizeAssignment(expr); ok {
		fc.compileAssignment(expr.Span(), a)
		return
	}
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		fc.pushConst(bytecode.I64Constant(e.Value), e.Span())
	case *ast.FloatLiteral:
		fc.pushConst(bytecode.F64Constant(e.Value), e.Span())
	case *ast.StringLiteral:
		fc.pushConst(bytecode.StringConstant(e.Value), e.Span())
	case *ast.BoolLiteral:
		fc.pushConst(bytecode.BoolConstant(e.Value), e.Span())
	case *ast.NilLiteral:
		fc.pushConst(bytecode.NoneConstant(), e.Span())
	case *ast.Identifier:
		fc.compileIdentifier(e)
	case *ast.InfixExpression:
		fc.compileInfix(e)
	case *ast.ExpressionSequence:
		fc.compileSequence(e)
	case *ast.CallExpression:
		fc.compileCall(e)
	case *ast.MethodCallExpression:
		fc.compileMethodCall(e)
	case *ast.MemberExpression:
		fc.compileMember(e)
	case *ast.StructLiteral:
		fc.compileStructConstruction(e.Span(), e.TypeName, e.Args)
	default:
		fc.c.errorf(expr.Span(), "unsupported expression type %T", expr)
		fc.pushConst(bytecode.NoneConstant(), expr.Span())
	}
}

func (fc *funcCompiler) pushConst(c bytecode.Constant, span diag.Span) {
	fc.emit(fc.b.Emit(bytecode.OpPushConst, int64(fc.c.constants.Intern(c))), spanPtr(span))
}

func (fc *funcCompiler) compileIdentifier(e *ast.Identifier) {
	slot, ok := fc.scope.Resolve(e.Name)
	if !ok {
		fc.c.errorf(e.Span(), "%w: %q", ErrUnresolvedIdentifier, e.Name)
		fc.pushConst(bytecode.NoneConstant(), e.Span())
		return
	}
	fc.emit(fc.b.Emit(bytecode.OpLoadLocal, int64(slot)), spanPtr(e.Span()))
}

func (fc *funcCompiler) compileInfix(e *ast.InfixExpression) {
	fc.compileExpression(e.Left)
	fc.compileExpression(e.Right)
	sym := ids.NewOperatorSymbolID(e.Operator)
	// call_bridge's sym_id operand is the raw 32-bit symbol id, not a
	// constant-pool index — only values actually pushed onto the stack
	// go through the constant pool.
	fc.emit(fc.b.Emit(bytecode.OpCallBridge, int64(sym), 2, 0), spanPtr(e.Span()))
}

// compileSequence handles the raw, unfolded operator chain the parser
// hands up: fold it into a precedence tree when possible, and fall back to
// strict left-to-right association when it is not (both paths are
// exercised by pkg/compiler's tests).
func (fc *funcCompiler) compileSequence(e *ast.ExpressionSequence) {
	if tree, ok := foldOperatorSequence(e); ok {
		fc.compileExpression(tree)
		return
	}
	fc.compileExpression(foldLeftToRight(e))
}

func (fc *funcCompiler) compileAssignment(span diag.Span, a recognizedAssignment) {
	if a.TargetField == "" {
		slot, ok := fc.scope.Resolve(a.TargetName)
		if !ok {
			fc.c.errorf(span, "%w: %q", ErrUnresolvedIdentifier, a.TargetName)
			fc.pushConst(bytecode.NoneConstant(), span)
			return
		}
		fc.compileExpression(a.Value)
		fc.emit(fc.b.Emit(bytecode.OpDup), spanPtr(span))
		fc.emit(fc.b.Emit(bytecode.OpStoreLocal, int64(slot)), spanPtr(span))
		return
	}

	slot, ok := fc.scope.Resolve(a.TargetName)
	if !ok {
		fc.c.errorf(span, "%w: %q", ErrUnresolvedIdentifier, a.TargetName)
		fc.pushConst(bytecode.NoneConstant(), span)
		return
	}
	fieldID := fc.resolveFieldID(a.TargetName, a.TargetField)
	fc.emit(fc.b.Emit(bytecode.OpLoadLocal, int64(slot)), spanPtr(span))
	fc.compileExpression(a.Value)
	fc.emit(fc.b.Emit(bytecode.OpSetField, int64(fieldID)), spanPtr(span))
	fc.emit(fc.b.Emit(bytecode.OpDup), spanPtr(span))
	fc.emit(fc.b.Emit(bytecode.OpStoreLocal, int64(slot)), spanPtr(span))
}

// resolveFieldID looks up the field id for localName.fieldName against its
// recorded struct type hint, falling back to a best-effort hash over the
// bare field name (the "*.<name>" wildcard member path) when the local's
// type is unknown at compile time.
func (fc *funcCompiler) resolveFieldID(localName, fieldName string) ids.FieldID {
	if structType, ok := fc.scope.TypeOf(localName); ok {
		return ids.NewFieldID(structType, fieldName)
	}
	return ids.NewFieldID("*", fieldName)
}
