// Package bridge implements the VM's capability-gated host call surface:
// the small, fixed table of routines a compiled program can reach through
// call_bridge/call_init, plus the script-context state those routines read
// and write.
package bridge

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vibescript/vibescript/pkg/capability"
	"github.com/vibescript/vibescript/pkg/ids"
	"github.com/vibescript/vibescript/pkg/value"
)

// ErrBridgeDenied is returned when a symbol is recognized but the run's
// capability set does not include what it requires.
var ErrBridgeDenied = errors.New("bridge call not allowed by capability policy")

// ErrUnknownBridge is returned when a symbol has no registered
// implementation at all.
var ErrUnknownBridge = errors.New("unknown bridge symbol")

// InvocationContext carries everything one Dispatch call needs: the
// optional receiver, the call's arguments in push order, the caller's
// granted capabilities, and a sink for anything the implementation prints.
type InvocationContext struct {
	Context      context.Context
	Receiver     *value.Value
	Args         []value.Value
	Capabilities capability.Set
	Print        func(string)
}

// Implementation is one bridge routine's body.
type Implementation func(ctx *InvocationContext) (value.Value, error)

// Runtime binds the capability catalog/policy to a table of concrete
// implementations, keyed by the same SymbolID the compiler embeds as an
// instruction operand.
type Runtime struct {
	catalog *capability.Catalog
	policy  *capability.Policy
	impls   map[ids.SymbolID]Implementation
}

// NewRuntime builds an empty Runtime bound to catalog/policy. Call
// Register (or RegisterBuiltins) to populate it.
func NewRuntime(catalog *capability.Catalog, policy *capability.Policy) *Runtime {
	return &Runtime{catalog: catalog, policy: policy, impls: make(map[ids.SymbolID]Implementation)}
}

// NewDefaultRuntime builds a Runtime bound to capability.DefaultCatalog and
// capability.DefaultPolicy with every builtin registered.
func NewDefaultRuntime() *Runtime {
	rt := NewRuntime(capability.DefaultCatalog, capability.DefaultPolicy)
	rt.RegisterBuiltins()
	return rt
}

// Register binds name's bridge symbol to impl.
func (rt *Runtime) Register(name string, impl Implementation) {
	rt.impls[ids.NewBridgeSymbolID(name)] = impl
}

// RegisterOperator binds op's operator symbol to impl.
func (rt *Runtime) RegisterOperator(op string, impl Implementation) {
	rt.impls[ids.NewOperatorSymbolID(op)] = impl
}

// Dispatch runs the three-step sequence every bridge call goes through: a
// policy check, a table lookup, then invocation.
func (rt *Runtime) Dispatch(sym ids.SymbolID, ctx *InvocationContext) (value.Value, error) {
	if !rt.policy.IsAllowed(sym, ctx.Capabilities) {
		return value.None, errors.Wrapf(ErrBridgeDenied, "symbol %08x", uint32(sym))
	}
	impl, ok := rt.impls[sym]
	if !ok {
		return value.None, errors.Wrapf(ErrUnknownBridge, "symbol %08x", uint32(sym))
	}
	return impl(ctx)
}

// IsAllowed exposes the underlying policy check so callers like
// engine.BuildPreview can classify symbols without dispatching them.
func (rt *Runtime) IsAllowed(sym ids.SymbolID, caps capability.Set) bool {
	return rt.policy.IsAllowed(sym, caps)
}
