package compiler

import (
	"github.com/vibescript/vibescript/pkg/ast"
	"github.com/vibescript/vibescript/pkg/bytecode"
	"github.com/vibescript/vibescript/pkg/diag"
	"github.com/vibescript/vibescript/pkg/ids"
)

// staticMemberBridges maps `Type.member` reads that have no local receiver
// (e.g. `Date.now`) to a nullary bridge symbol name.
var staticMemberBridges = map[string]string{
	"Date.now": "Date.now",
}

// methodBridgeNames maps a method-call name to its bridge symbol name;
// anything absent falls back to "dynamic.method.<name>".
// View modifiers and events are registered under their own bare names so
// they match the capability catalog's entries exactly (pkg/capability's
// DefaultEntries registers "padding", not "dynamic.method.padding").
var methodBridgeNames = map[string]string{
	"uppercased":      "String.uppercased",
	"lowercased":      "String.lowercased",
	"contains":        "String.contains",
	"get":             "State.get",
	"set":             "State.set",
	"bind":            "State.bind",
	"padding":         "padding",
	"font":            "font",
	"foregroundStyle": "foregroundStyle",
	"frame":           "frame",
	"background":      "background",
	"onTap":           "onTap",
	"onAppear":        "onAppear",
	"onChange":        "onChange",
}

// freeFunctionBridgeNames maps a bare call name to its bridge symbol when it
// is not a user function or struct constructor. UI
// component constructors are called as plain functions (e.g. Text("hi")),
// so they live here rather than in methodBridgeNames.
var freeFunctionBridgeNames = map[string]string{
	"print":     "print",
	"Int":       "Int.init",
	"Double":    "Double.init",
	"Bool":      "Bool.init",
	"State":     "State.init",
	"Text":      "Text",
	"Button":    "Button",
	"VStack":    "VStack",
	"HStack":    "HStack",
	"Spacer":    "Spacer",
	"Image":     "Image",
	"TextField": "TextField",
	"Toggle":    "Toggle",
}

// compileCall lowers a free-function call `callee(args...)`, dispatching
// in priority order: user function, then struct constructor, then the
// fixed bridge-name table, then the generic dynamic namespace.
func (fc *funcCompiler) compileCall(e *ast.CallExpression) {
	if fn, ok := fc.c.funcs[e.Callee]; ok {
		fc.compileUserCall(e, fn)
		return
	}
	if _, ok := fc.c.structs[e.Callee]; ok {
		fc.compileStructConstruction(e.Span(), e.Callee, e.Args)
		return
	}
	bridgeName, ok := freeFunctionBridgeNames[e.Callee]
	if !ok {
		bridgeName = "dynamic." + e.Callee
	}
	fc.compileBridgeCall(e.Span(), bridgeName, nil, e.Args)
}

func (fc *funcCompiler) compileUserCall(e *ast.CallExpression, fn *ast.FuncDecl) {
	for _, arg := range e.Args {
		fc.compileExpression(arg)
	}
	fnID := ids.NewFunctionID(fn.Name)
	fc.emit(fc.b.Emit(bytecode.OpCallUser, int64(fnID), int64(len(e.Args))), spanPtr(e.Span()))
}

func (fc *funcCompiler) compileMethodCall(e *ast.MethodCallExpression) {
	bridgeName, ok := methodBridgeNames[e.Method]
	if !ok {
		bridgeName = "dynamic.method." + e.Method
	}
	fc.compileBridgeCall(e.Span(), bridgeName, e.Receiver, e.Args)
}

// compileBridgeCall compiles an optional receiver, then every argument, and
// emits call_bridge with has_receiver set accordingly.
func (fc *funcCompiler) compileBridgeCall(span diag.Span, bridgeName string, receiver ast.Expression, args []ast.Expression) {
	hasReceiver := int64(0)
	if receiver != nil {
		fc.compileExpression(receiver)
		hasReceiver = 1
	}
	for _, arg := range args {
		fc.compileExpression(arg)
	}
	sym := ids.NewBridgeSymbolID(bridgeName)
	fc.emit(fc.b.Emit(bytecode.OpCallBridge, int64(sym), int64(len(args)), hasReceiver), spanPtr(span))
}

// compileMember lowers `base.name` as a value read (not a call): a known
// struct-typed local resolves to get_field, a recognized static member
// (e.g. Date.now) becomes a nullary bridge call, and anything else
// compiles the base and issues a 0-ary bridge call keyed by member name.
func (fc *funcCompiler) compileMember(e *ast.MemberExpression) {
	if id, ok := e.Receiver.(*ast.Identifier); ok {
		if structType, ok := fc.scope.TypeOf(id.Name); ok {
			slot, _ := fc.scope.Resolve(id.Name)
			fieldID := ids.NewFieldID(structType, e.Name)
			fc.emit(fc.b.Emit(bytecode.OpLoadLocal, int64(slot)), spanPtr(e.Span()))
			fc.emit(fc.b.Emit(bytecode.OpGetField, int64(fieldID)), spanPtr(e.Span()))
			return
		}
		if bridgeName, ok := staticMemberBridges[id.Name+"."+e.Name]; ok {
			fc.compileBridgeCall(e.Span(), bridgeName, nil, nil)
			return
		}
		if _, isLocal := fc.scope.Resolve(id.Name); isLocal {
			// Unknown-typed local: wildcard member path.
			fieldID := ids.NewFieldID("*", e.Name)
			fc.compileExpression(e.Receiver)
			fc.emit(fc.b.Emit(bytecode.OpGetField, int64(fieldID)), spanPtr(e.Span()))
			return
		}
	}
	fc.compileExpression(e.Receiver)
	sym := ids.NewBridgeSymbolID("member." + e.Name)
	fc.emit(fc.b.Emit(bytecode.OpCallBridge, int64(sym), 0, 1), spanPtr(e.Span()))
}

// compileStructConstruction lowers a direct construction `Type(args...)`:
// compile positional args up to min(len(args), len(fields)), extra args
// are ignored, missing trailing fields are left unset (the resolved Open
// Question — see DESIGN.md).
func (fc *funcCompiler) compileStructConstruction(span diag.Span, typeName string, args []ast.Expression) {
	layout, ok := fc.c.structs[typeName]
	if !ok {
		fc.c.errorf(span, "%w: %q", ErrUnknownStruct, typeName)
		fc.pushConst(bytecode.NoneConstant(), span)
		return
	}
	n := len(args)
	if len(layout.Fields) < n {
		n = len(layout.Fields)
	}
	operands := []int64{int64(layout.ID), int64(n)}
	for i := 0; i < n; i++ {
		fc.compileExpression(args[i])
		operands = append(operands, int64(layout.Fields[i].ID))
	}
	fc.emit(fc.b.Emit(bytecode.OpMakeStruct, operands...), spanPtr(span))
}
