// Package engine is the seam between a raw source string and a running
// program: it owns the compile/run pipeline, the preview (compile-without-
// execute) workflow, and the structured logging around both.
package engine

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vibescript/vibescript/pkg/bridge"
	"github.com/vibescript/vibescript/pkg/bytecode"
	"github.com/vibescript/vibescript/pkg/capability"
	"github.com/vibescript/vibescript/pkg/compiler"
	"github.com/vibescript/vibescript/pkg/diag"
	"github.com/vibescript/vibescript/pkg/guard"
	"github.com/vibescript/vibescript/pkg/ids"
	"github.com/vibescript/vibescript/pkg/parser"
	"github.com/vibescript/vibescript/pkg/value"
	"github.com/vibescript/vibescript/pkg/vm"
)

// Log is the package-wide logger, overridable by an embedding host (the
// CLI sets its own level via --log-level).
var Log logrus.FieldLogger = logrus.StandardLogger()

// Request bundles everything CompileAndRun and BuildPreview need.
type Request struct {
	Source         string
	FileName       string
	Capabilities   capability.Set
	Limits         guard.ExecutionLimits
	ScriptContext  *bridge.ScriptContext
	BridgeRuntime  *bridge.Runtime
}

// Result is what a successful (or partially successful) run produces.
type Result struct {
	Value       value.Value
	Output      []string
	Diagnostics []diag.Diagnostic
}

// PreviewResult summarizes a compile attempt without ever executing the
// program, for tooling that wants to inspect a script's shape and
// capability footprint before running it. It never errors: a compile
// failure is just reported via VMCompilationSucceeded=false.
type PreviewResult struct {
	CompilationDiagnostics []diag.Diagnostic
	UsedSymbols            []ids.SymbolID
	BlockedSymbols         []ids.SymbolID
	VMCompilationSucceeded bool
	BytecodeSize           int
	InstructionCount       int
	ConstantCount          int
	FunctionCount          int
}

// Compile parses and lowers source into an assembled bytecode.Program. On
// parse or compile failure it returns nil and a single-element diagnostics
// slice describing the failure; caps is accepted for signature symmetry
// with CompileAndRun/BuildPreview (the compiler does not itself consult
// capabilities — only the VM's bridge dispatch does).
func Compile(source, fileName string, caps capability.Set) (*bytecode.Program, []diag.Diagnostic) {
	start := time.Now()
	p := parser.New(source)
	program, err := p.Parse()
	if err != nil {
		return nil, []diag.Diagnostic{{Severity: diag.SeverityError, Message: err.Error()}}
	}
	if errs := p.Errors(); len(errs) > 0 {
		diags := make([]diag.Diagnostic, len(errs))
		for i, e := range errs {
			diags[i] = diag.Diagnostic{Severity: diag.SeverityError, Message: e}
		}
		return nil, diags
	}

	out, err := compiler.New().Compile(program)
	Log.WithFields(logrus.Fields{
		"file":     fileName,
		"duration": time.Since(start),
		"ok":       err == nil,
	}).Debug("compile")
	if err != nil {
		return nil, []diag.Diagnostic{{Severity: diag.SeverityError, Message: err.Error()}}
	}
	return out, nil
}

// CompileAndRun compiles req.Source and, on success, runs it to completion.
func CompileAndRun(req Request) (Result, error) {
	program, diags := Compile(req.Source, req.FileName, req.Capabilities)
	if program == nil {
		return Result{Diagnostics: diags}, errors.New("compilation failed")
	}

	runtime := req.BridgeRuntime
	if runtime == nil {
		runtime = bridge.NewDefaultRuntime()
	}
	machine := vm.New(program, runtime).WithLogger(Log)
	if req.ScriptContext != nil {
		machine = machine.WithContext(bridge.PushScriptContext(context.Background(), *req.ScriptContext))
	}

	start := time.Now()
	result, err := machine.Run(req.Capabilities, req.Limits)
	Log.WithFields(logrus.Fields{
		"file":     req.FileName,
		"duration": time.Since(start),
		"ok":       err == nil,
	}).Debug("run")
	if err != nil {
		return Result{Diagnostics: diags}, err
	}
	return Result{Value: result.Value, Output: result.Output, Diagnostics: diags}, nil
}

// BuildPreview compiles req.Source and reports its shape and capability
// footprint without ever invoking the VM.
func BuildPreview(req Request) PreviewResult {
	program, diags := Compile(req.Source, req.FileName, req.Capabilities)
	if program == nil {
		return PreviewResult{CompilationDiagnostics: diags, VMCompilationSucceeded: false}
	}

	runtime := req.BridgeRuntime
	if runtime == nil {
		runtime = bridge.NewDefaultRuntime()
	}

	used := collectBridgeSymbols(program)
	var blocked []ids.SymbolID
	for _, sym := range used {
		if !runtime.IsAllowed(sym, req.Capabilities) {
			blocked = append(blocked, sym)
		}
	}

	return PreviewResult{
		CompilationDiagnostics: diags,
		UsedSymbols:            used,
		BlockedSymbols:         blocked,
		VMCompilationSucceeded: true,
		BytecodeSize:           len(program.Code),
		InstructionCount:       len(program.Instructions),
		ConstantCount:          program.Constants.Len(),
		FunctionCount:          len(program.Functions),
	}
}

// collectBridgeSymbols scans every assembled call_bridge/call_init
// instruction for its symbol operand, deduplicating as it goes.
func collectBridgeSymbols(program *bytecode.Program) []ids.SymbolID {
	seen := make(map[ids.SymbolID]bool)
	var out []ids.SymbolID
	for _, instr := range program.Instructions {
		if instr.Op != bytecode.OpCallBridge && instr.Op != bytecode.OpCallInit {
			continue
		}
		if len(instr.Operands) == 0 {
			continue
		}
		sym := ids.SymbolID(instr.Operands[0])
		if !seen[sym] {
			seen[sym] = true
			out = append(out, sym)
		}
	}
	return out
}
