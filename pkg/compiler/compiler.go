// Package compiler lowers vibescript's AST into a bytecode.Program.
//
// It owns three registries built in a first pass (struct layouts, function
// metadata, and per-function lexical scopes), then compiles the synthetic
// entry function followed by every user function, concatenating their
// instruction blocks and rebasing jump targets as it goes.
package compiler

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/vibescript/vibescript/pkg/ast"
	"github.com/vibescript/vibescript/pkg/bytecode"
	"github.com/vibescript/vibescript/pkg/diag"
	"github.com/vibescript/vibescript/pkg/ids"
)

// ErrUnresolvedIdentifier is returned (wrapped with span context) when an
// identifier is read before any enclosing scope has bound it.
var ErrUnresolvedIdentifier = errors.New("unresolved identifier")

// ErrUnknownStruct is returned when a struct literal names an undeclared type.
var ErrUnknownStruct = errors.New("unknown struct type")

const entryFunctionName = "<entry>"

// Compiler lowers one parsed program into a bytecode.Program.
type Compiler struct {
	constants *bytecode.ConstantPool
	structs   map[string]*bytecode.StructLayout
	funcs     map[string]*ast.FuncDecl
	spans     diag.SpanMap
	errs      []error
}

// New creates an empty Compiler.
func New() *Compiler {
	return &Compiler{
		constants: bytecode.NewConstantPool(),
		structs:   make(map[string]*bytecode.StructLayout),
		funcs:     make(map[string]*ast.FuncDecl),
		spans:     make(diag.SpanMap),
	}
}

// Compile lowers program into an assembled bytecode.Program. All top-level
// items are sorted into struct declarations, function declarations, and
// plain statements (which become the synthetic entry function).
func (c *Compiler) Compile(program *ast.Program) (*bytecode.Program, error) {
	var entryItems []ast.Statement
	for _, item := range program.Items {
		switch s := item.(type) {
		case *ast.StructDecl:
			c.registerStruct(s)
		case *ast.FuncDecl:
			c.funcs[s.Name] = s
		default:
			entryItems = append(entryItems, s)
		}
	}

	var allInstrs []bytecode.Instruction
	var metas []bytecode.FunctionMeta

	entryInstrs, entrySpans, err := c.compileFunctionBody(entryFunctionName, nil, entryItems)
	if err != nil {
		return nil, err
	}
	metas = append(metas, bytecode.FunctionMeta{
		ID: ids.NewFunctionID(entryFunctionName), Name: entryFunctionName,
		EntryIndex: 0, Arity: 0, LocalCount: countLocals(entryInstrs), IsEntry: true,
	})
	allInstrs = appendBlock(allInstrs, entryInstrs, entrySpans, c.spans)

	// Functions (and structs, below) are emitted in name order rather than
	// map iteration order so that two compiles of the same source always
	// produce byte-identical programs.
	funcNames := make([]string, 0, len(c.funcs))
	for name := range c.funcs {
		funcNames = append(funcNames, name)
	}
	sort.Strings(funcNames)

	for _, name := range funcNames {
		fn := c.funcs[name]
		entryIdx := len(allInstrs)
		body, spans, err := c.compileFunctionBody(name, fn.Params, fn.Body)
		if err != nil {
			return nil, err
		}
		metas = append(metas, bytecode.FunctionMeta{
			ID: ids.NewFunctionID(name), Name: name,
			EntryIndex: entryIdx, Arity: len(fn.Params), LocalCount: countLocals(body), IsEntry: false,
		})
		allInstrs = appendBlock(allInstrs, body, spans, c.spans)
	}

	if len(c.errs) > 0 {
		return nil, errors.Errorf("compile errors: %v", c.errs)
	}

	structNames := make([]string, 0, len(c.structs))
	for name := range c.structs {
		structNames = append(structNames, name)
	}
	sort.Strings(structNames)
	var layouts []bytecode.StructLayout
	for _, name := range structNames {
		layouts = append(layouts, *c.structs[name])
	}

	return bytecode.AssembleProgram(allInstrs, c.constants, metas, layouts, c.spans), nil
}

// appendBlock rebases a function's jump operands by its offset within the
// merged stream and records each instruction's span at its final absolute
// index.
func appendBlock(dst, block []bytecode.Instruction, localSpans diag.SpanMap, out diag.SpanMap) []bytecode.Instruction {
	offset := len(dst)
	bytecode.Offset(block, offset)
	for i, instr := range block {
		if sp, ok := localSpans[i]; ok {
			out[offset+i] = sp
		}
		dst = append(dst, instr)
	}
	return dst
}

func countLocals(instrs []bytecode.Instruction) int {
	max := 0
	for _, instr := range instrs {
		if instr.Op == bytecode.OpLoadLocal || instr.Op == bytecode.OpStoreLocal {
			if n := int(instr.Operands[0]) + 1; n > max {
				max = n
			}
		}
	}
	return max
}

func (c *Compiler) registerStruct(s *ast.StructDecl) {
	var fields []bytecode.StructField
	for _, f := range s.Fields {
		fields = append(fields, bytecode.StructField{
			ID: ids.NewFieldID(s.Name, f.Name), Name: f.Name, TypeHint: f.TypeHint,
		})
	}
	c.structs[s.Name] = &bytecode.StructLayout{ID: ids.NewTypeID(s.Name), Name: s.Name, Fields: fields}
}

func (c *Compiler) errorf(span diag.Span, format string, args ...interface{}) {
	c.errs = append(c.errs, errors.Wrapf(fmt.Errorf(format, args...), "at line %d, column %d", span.Start.Line, span.Start.Column))
}
