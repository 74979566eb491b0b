package bridge

import (
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/vibescript/vibescript/pkg/value"
)

// RegisterBuiltins installs the standard builtin set: the eleven
// operators, the String/Int/Double/Bool/Date foundation routines, print,
// and the UI/state intrinsics.
func (rt *Runtime) RegisterBuiltins() {
	rt.registerOperators()
	rt.registerFoundation()
	rt.registerUI()
}

func arg(ctx *InvocationContext, i int) value.Value {
	if i < 0 || i >= len(ctx.Args) {
		return value.None
	}
	return ctx.Args[i]
}

func (rt *Runtime) registerOperators() {
	binary := func(f func(a, b value.Value) (value.Value, error)) Implementation {
		return func(ctx *InvocationContext) (value.Value, error) {
			return f(arg(ctx, 0), arg(ctx, 1))
		}
	}
	rt.RegisterOperator("+", binary(value.Add))
	rt.RegisterOperator("-", binary(value.Sub))
	rt.RegisterOperator("*", binary(value.Mul))
	rt.RegisterOperator("/", binary(value.Div))
	rt.RegisterOperator("==", binary(value.Equal))
	rt.RegisterOperator("<", binary(func(a, b value.Value) (value.Value, error) { return value.Compare("<", a, b) }))
	rt.RegisterOperator(">", binary(func(a, b value.Value) (value.Value, error) { return value.Compare(">", a, b) }))
	rt.RegisterOperator("<=", binary(func(a, b value.Value) (value.Value, error) { return value.Compare("<=", a, b) }))
	rt.RegisterOperator(">=", binary(func(a, b value.Value) (value.Value, error) { return value.Compare(">=", a, b) }))
	rt.RegisterOperator("&&", binary(value.And))
	rt.RegisterOperator("||", binary(value.Or))
}

func (rt *Runtime) registerFoundation() {
	rt.Register("print", func(ctx *InvocationContext) (value.Value, error) {
		v := arg(ctx, 0)
		text := value.Inspect(v)
		if c, ok := v.Native.(*color.Color); ok && v.Kind == value.KindNative {
			text = c.Sprint(value.Inspect(arg(ctx, 1)))
		}
		if ctx.Print != nil {
			ctx.Print(text)
		}
		return value.None, nil
	})

	rt.Register("String.uppercased", func(ctx *InvocationContext) (value.Value, error) {
		return value.String(strings.ToUpper(receiverString(ctx))), nil
	})
	rt.Register("String.lowercased", func(ctx *InvocationContext) (value.Value, error) {
		return value.String(strings.ToLower(receiverString(ctx))), nil
	})
	rt.Register("String.contains", func(ctx *InvocationContext) (value.Value, error) {
		return value.Bool(strings.Contains(receiverString(ctx), arg(ctx, 0).Str)), nil
	})

	rt.Register("Int.init", func(ctx *InvocationContext) (value.Value, error) { return value.CoerceInt(arg(ctx, 0)) })
	rt.Register("Double.init", func(ctx *InvocationContext) (value.Value, error) { return value.CoerceDouble(arg(ctx, 0)) })
	rt.Register("Bool.init", func(ctx *InvocationContext) (value.Value, error) { return value.CoerceBool(arg(ctx, 0)) })

	rt.Register("Date.now", func(ctx *InvocationContext) (value.Value, error) {
		return value.Native(time.Now()), nil
	})
}

func receiverString(ctx *InvocationContext) string {
	if ctx.Receiver != nil {
		return ctx.Receiver.Str
	}
	return arg(ctx, 0).Str
}

// uiComponentNames backs the eight view-component constructors; each
// builds a value.Dict node shape pkg/viewtree.FromValue knows how to read:
// {"__view": <name>, "args": [...]}.
var uiComponentNames = []string{"Text", "Button", "VStack", "HStack", "Spacer", "Image", "TextField", "Toggle"}

// uiModifierNames and uiEventNames are the method-style calls a view value
// chains onto itself; each rewraps the receiver node, appending itself to
// its "__modifiers"/"__events" list rather than mutating in place (value.Dict
// read by the compiler is always copied through the value stack).
var uiModifierNames = []string{"padding", "font", "foregroundStyle", "frame", "background"}
var uiEventNames = []string{"onTap", "onAppear", "onChange"}

func (rt *Runtime) registerUI() {
	for _, name := range uiComponentNames {
		name := name
		rt.Register(name, func(ctx *InvocationContext) (value.Value, error) {
			return value.Dict(map[string]value.Value{
				"__view": value.String(name),
				"args":   value.Array(append([]value.Value(nil), ctx.Args...)),
			}), nil
		})
	}
	for _, name := range uiModifierNames {
		name := name
		rt.Register(name, func(ctx *InvocationContext) (value.Value, error) {
			return appendChainEntry(ctx, "__modifiers", name), nil
		})
	}
	for _, name := range uiEventNames {
		name := name
		rt.Register(name, func(ctx *InvocationContext) (value.Value, error) {
			return appendChainEntry(ctx, "__events", name), nil
		})
	}

	rt.Register("State.init", func(ctx *InvocationContext) (value.Value, error) {
		return value.Dict(map[string]value.Value{
			"__state": value.Bool(true),
			"value":   arg(ctx, 0),
		}), nil
	})
	rt.Register("State.get", func(ctx *InvocationContext) (value.Value, error) {
		sc, ok := CurrentScriptContext(ctx.Context)
		if !ok || sc.StateGet == nil {
			return value.None, nil
		}
		return sc.StateGet(arg(ctx, 0).Str), nil
	})
	rt.Register("State.set", func(ctx *InvocationContext) (value.Value, error) {
		sc, ok := CurrentScriptContext(ctx.Context)
		if ok && sc.StateSet != nil {
			sc.StateSet(arg(ctx, 0).Str, arg(ctx, 1))
		}
		return value.None, nil
	})
	rt.Register("State.bind", func(ctx *InvocationContext) (value.Value, error) {
		path := arg(ctx, 0).Str
		sc, ok := CurrentScriptContext(ctx.Context)
		if ok && sc.StateBind != nil {
			sc.StateBind(path)
		}
		return value.Dict(map[string]value.Value{"$binding": value.String(path)}), nil
	})
}

// appendChainEntry copies the receiver node's __modifiers/__events array
// (creating it if absent) and appends an entry naming this call, returning
// the updated node as a new value so the receiver's original dict is
// never mutated in place.
func appendChainEntry(ctx *InvocationContext, bucket, name string) value.Value {
	base := value.None
	if ctx.Receiver != nil {
		base = *ctx.Receiver
	}
	var fields map[string]value.Value
	if base.Kind == value.KindDict {
		fields = make(map[string]value.Value, len(base.Dict)+1)
		for k, v := range base.Dict {
			fields[k] = v
		}
	} else {
		fields = map[string]value.Value{"__view": base}
	}
	entries := append([]value.Value(nil), fields[bucket].Array...)
	entries = append(entries, value.Dict(map[string]value.Value{
		"type": value.String(name),
		"args": value.Array(append([]value.Value(nil), ctx.Args...)),
	}))
	fields[bucket] = value.Array(entries)
	return value.Dict(fields)
}
