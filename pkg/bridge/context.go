package bridge

import (
	"context"

	"github.com/vibescript/vibescript/pkg/value"
)

// ScriptContext is the host state a running script's State.* bridge calls
// read and write: a dotted-path key-value store plus a binding accessor
// for two-way UI bindings. The VM never constructs one directly — the
// embedding host (the CLI's repl, or engine.CompileAndRun's caller) supplies
// it per session.
type ScriptContext struct {
	StateGet  func(path string) value.Value
	StateSet  func(path string, v value.Value)
	StateBind func(path string) value.Value
}

type scriptContextKey struct{}

// PushScriptContext returns a derived context.Context carrying sc. Go has
// no first-class thread-locals, and a real package-level global would make
// concurrent VM runs share state; context.Context is the idiomatic
// task-local slot that stands in for one here.
func PushScriptContext(ctx context.Context, sc ScriptContext) context.Context {
	return context.WithValue(ctx, scriptContextKey{}, sc)
}

// CurrentScriptContext retrieves the ScriptContext pushed onto ctx, if any.
func CurrentScriptContext(ctx context.Context) (ScriptContext, bool) {
	if ctx == nil {
		return ScriptContext{}, false
	}
	sc, ok := ctx.Value(scriptContextKey{}).(ScriptContext)
	return sc, ok
}
