// Package viewtree implements vibescript's host-consumed view-tree IR: the
// serializable shape a compiled UI value is flattened into before crossing
// the VM/host boundary.
package viewtree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/vibescript/vibescript/pkg/ids"
	"github.com/vibescript/vibescript/pkg/value"
)

// NamespaceNode hashes synthesized node IDs, reusing ids.Hash's keying
// scheme under a namespace of its own rather than colliding with bridge
// symbol names.
const NamespaceNode ids.Namespace = "node"

// ViewTree is the full serializable payload a host renders.
type ViewTree struct {
	IRVersion    int      `json:"ir_version"`
	Capabilities []string `json:"capabilities"`
	Root         *ViewNode `json:"root"`
}

// ViewNode is one element of the tree.
type ViewNode struct {
	ID        string              `json:"id"`
	Type      string              `json:"type"`
	Props     map[string]IRValue  `json:"props"`
	Children  []*ViewNode         `json:"children"`
	Modifiers []Modifier          `json:"modifiers"`
	Events    []Event             `json:"events"`
}

// Modifier is one view-modifier application (e.g. padding(8)).
type Modifier struct {
	Type   string             `json:"type"`
	Params map[string]IRValue `json:"params"`
}

// Event binds a view event to a host action.
type Event struct {
	Event    string  `json:"event"`
	ActionID string  `json:"action_id"`
	Path     *string `json:"path,omitempty"`
}

// IRKind tags the active shape of an IRValue.
type IRKind int

const (
	IRNull IRKind = iota
	IRBool
	IRInt
	IRDouble
	IRString
	IRArray
	IRObject
	IRStateRef
	IRBindingRef
	IRAbsent
)

// IRValue is a tagged union: a JSON-like scalar/array/object tree plus the
// two state-binding reference forms, or IRAbsent for values that have no IR
// representation (native, struct_instance).
type IRValue struct {
	Kind   IRKind
	Bool   bool
	Int    int64
	Double float64
	Str    string
	Array  []IRValue
	Object map[string]IRValue
	Path   string
}

func Null() IRValue           { return IRValue{Kind: IRNull} }
func Absent() IRValue         { return IRValue{Kind: IRAbsent} }
func BoolIR(v bool) IRValue   { return IRValue{Kind: IRBool, Bool: v} }
func IntIR(v int64) IRValue   { return IRValue{Kind: IRInt, Int: v} }
func DoubleIR(v float64) IRValue { return IRValue{Kind: IRDouble, Double: v} }
func StringIR(v string) IRValue  { return IRValue{Kind: IRString, Str: v} }
func ArrayIR(v []IRValue) IRValue { return IRValue{Kind: IRArray, Array: v} }
func ObjectIR(v map[string]IRValue) IRValue { return IRValue{Kind: IRObject, Object: v} }
func StateRef(path string) IRValue   { return IRValue{Kind: IRStateRef, Path: path} }
func BindingRef(path string) IRValue { return IRValue{Kind: IRBindingRef, Path: path} }

// FromValue converts a runtime Value to its IR: primitive scalars map
// directly, arrays map element-wise, dicts map to object IRs except
// the two reserved shapes {"$binding": p} and {"$state": p}, and native /
// struct_instance values are not representable (they become IRAbsent).
func FromValue(v value.Value) IRValue {
	switch v.Kind {
	case value.KindNone:
		return Null()
	case value.KindBool:
		return BoolIR(v.Bool)
	case value.KindI64:
		return IntIR(v.I64)
	case value.KindF64:
		return DoubleIR(v.F64)
	case value.KindString:
		return StringIR(v.Str)
	case value.KindArray:
		out := make([]IRValue, len(v.Array))
		for i, el := range v.Array {
			out[i] = FromValue(el)
		}
		return ArrayIR(out)
	case value.KindDict:
		if len(v.Dict) == 1 {
			if p, ok := v.Dict["$binding"]; ok && p.Kind == value.KindString {
				return BindingRef(p.Str)
			}
			if p, ok := v.Dict["$state"]; ok && p.Kind == value.KindString {
				return StateRef(p.Str)
			}
		}
		out := make(map[string]IRValue, len(v.Dict))
		for k, el := range v.Dict {
			out[k] = FromValue(el)
		}
		return ObjectIR(out)
	case value.KindNative, value.KindStruct:
		return Absent()
	default:
		return Absent()
	}
}

// ToValue converts an IR value back to its runtime form: the inverse of
// FromValue. BindingRef and StateRef round-trip to the same single-key
// dict shapes FromValue recognized them from, and IRAbsent becomes
// value.None, since an absent value has nothing to reconstruct.
func ToValue(v IRValue) value.Value {
	switch v.Kind {
	case IRNull, IRAbsent:
		return value.None
	case IRBool:
		return value.Bool(v.Bool)
	case IRInt:
		return value.I64(v.Int)
	case IRDouble:
		return value.F64(v.Double)
	case IRString:
		return value.String(v.Str)
	case IRArray:
		out := make([]value.Value, len(v.Array))
		for i, el := range v.Array {
			out[i] = ToValue(el)
		}
		return value.Array(out)
	case IRObject:
		out := make(map[string]value.Value, len(v.Object))
		for k, el := range v.Object {
			out[k] = ToValue(el)
		}
		return value.Dict(out)
	case IRBindingRef:
		return value.Dict(map[string]value.Value{"$binding": value.String(v.Path)})
	case IRStateRef:
		return value.Dict(map[string]value.Value{"$state": value.String(v.Path)})
	default:
		return value.None
	}
}

// nodeHashInput joins a node's type, sorted prop keys, and child IDs into
// the canonical "type|propKeys|childIds" form synthesizeID hashes.
func nodeHashInput(nodeType string, propKeys, childIDs []string) string {
	sortedKeys := append([]string(nil), propKeys...)
	sort.Strings(sortedKeys)
	return nodeType + "|" + strings.Join(sortedKeys, ",") + "|" + strings.Join(childIDs, ",")
}

// synthesizeID builds the "node-<hash>" form for a node missing an
// explicit id.
func synthesizeID(nodeType string, propKeys, childIDs []string) string {
	h := ids.Hash(NamespaceNode, nodeHashInput(nodeType, propKeys, childIDs))
	return fmt.Sprintf("node-%08x", h)
}

// ErrMissingType is returned when a node payload lacks the required "type"
// field.
var ErrMissingType = errors.New("view node payload missing required \"type\" field")

// From builds a ViewTree from a decoded JSON-ish payload, accepting either
// a full {root, ir_version?, capabilities?} shape or a bare node shape
// {type, ...}, filling in defaults in the latter case.
func From(payload map[string]interface{}, defaults ViewTree) (*ViewTree, error) {
	if rootRaw, ok := payload["root"]; ok {
		rootMap, ok := rootRaw.(map[string]interface{})
		if !ok {
			return nil, errors.New("\"root\" must be an object")
		}
		root, err := nodeFromPayload(rootMap)
		if err != nil {
			return nil, err
		}
		tree := &ViewTree{
			IRVersion:    defaults.IRVersion,
			Capabilities: defaults.Capabilities,
			Root:         root,
		}
		if v, ok := payload["ir_version"].(float64); ok {
			tree.IRVersion = int(v)
		}
		if caps, ok := payload["capabilities"].([]interface{}); ok {
			tree.Capabilities = stringsOf(caps)
		}
		if tree.IRVersion == 0 {
			tree.IRVersion = 1
		}
		return tree, nil
	}

	root, err := nodeFromPayload(payload)
	if err != nil {
		return nil, err
	}
	irVersion := defaults.IRVersion
	if irVersion == 0 {
		irVersion = 1
	}
	return &ViewTree{IRVersion: irVersion, Capabilities: defaults.Capabilities, Root: root}, nil
}

func nodeFromPayload(m map[string]interface{}) (*ViewNode, error) {
	nodeType, ok := m["type"].(string)
	if !ok || nodeType == "" {
		return nil, ErrMissingType
	}

	props := make(map[string]IRValue)
	propKeys := make([]string, 0)
	if rawProps, ok := m["props"].(map[string]interface{}); ok {
		for k, v := range rawProps {
			props[k] = irValueFromJSON(v)
			propKeys = append(propKeys, k)
		}
	}

	var children []*ViewNode
	childIDs := make([]string, 0)
	if rawChildren, ok := m["children"].([]interface{}); ok {
		for _, c := range rawChildren {
			cm, ok := c.(map[string]interface{})
			if !ok {
				return nil, errors.New("child node must be an object")
			}
			child, err := nodeFromPayload(cm)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
			childIDs = append(childIDs, child.ID)
		}
	}

	var modifiers []Modifier
	if rawMods, ok := m["modifiers"].([]interface{}); ok {
		for _, rm := range rawMods {
			mm, ok := rm.(map[string]interface{})
			if !ok {
				continue
			}
			params := make(map[string]IRValue)
			if rawParams, ok := mm["params"].(map[string]interface{}); ok {
				for k, v := range rawParams {
					params[k] = irValueFromJSON(v)
				}
			}
			modType, _ := mm["type"].(string)
			modifiers = append(modifiers, Modifier{Type: modType, Params: params})
		}
	}

	var events []Event
	if rawEvents, ok := m["events"].([]interface{}); ok {
		for _, re := range rawEvents {
			em, ok := re.(map[string]interface{})
			if !ok {
				continue
			}
			eventName, _ := em["event"].(string)
			actionID, _ := em["action_id"].(string)
			var path *string
			if p, ok := em["path"].(string); ok {
				path = &p
			}
			events = append(events, Event{Event: eventName, ActionID: actionID, Path: path})
		}
	}

	id, _ := m["id"].(string)
	if id == "" {
		id = synthesizeID(nodeType, propKeys, childIDs)
	}

	return &ViewNode{ID: id, Type: nodeType, Props: props, Children: children, Modifiers: modifiers, Events: events}, nil
}

func irValueFromJSON(v interface{}) IRValue {
	switch t := v.(type) {
	case nil:
		return Null()
	case bool:
		return BoolIR(t)
	case float64:
		if t == float64(int64(t)) {
			return IntIR(int64(t))
		}
		return DoubleIR(t)
	case string:
		return StringIR(t)
	case []interface{}:
		out := make([]IRValue, len(t))
		for i, el := range t {
			out[i] = irValueFromJSON(el)
		}
		return ArrayIR(out)
	case map[string]interface{}:
		if len(t) == 1 {
			if p, ok := t["$binding"].(string); ok {
				return BindingRef(p)
			}
			if p, ok := t["$state"].(string); ok {
				return StateRef(p)
			}
		}
		out := make(map[string]IRValue, len(t))
		for k, el := range t {
			out[k] = irValueFromJSON(el)
		}
		return ObjectIR(out)
	default:
		return Absent()
	}
}

func stringsOf(raw []interface{}) []string {
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
