package bytecode

import (
	"fmt"
	"strings"

	"github.com/blocklang/blockvm/internal/diag"
)

// The embedding boundary: the embedding entry point, grounded on
// original_source/src/lib.rs::run_sync. The Rust original marshals to/from
// js_sys::Map and JsValue across a WASM boundary; this port has no WASM
// host, so the boundary is a plain Go function taking/returning ordinary
// Go values instead.

// HostConstants, HostVariables and HostLists are the host-side maps keyed
// by slot index, matching run_sync's constants/variables/lists js_sys::Map
// parameters.
type HostConstants map[uint32]any
type HostVariables map[uint32]any

// HostLists mirrors run_sync's list encoding: each list arrives as a single
// NUL-separated string, each list entry being the text between two \0
// item separators.
type HostLists map[uint32]string

// BoundaryResult is what the boundary hands back to the host: the updated
// variable store, the final stack, and where execution stopped.
type BoundaryResult struct {
	Variables map[uint32]Value
	Stack     []Value
	PC        int
	Reason    ReturnReason
}

// Run marshals host-supplied state into VM State, executes chunk to
// completion or early return, and marshals the result back out — the Go
// analogue of run_sync's full body (load maps, execute, rebuild map).
func Run(vm *VM, chunk *Chunk, initialPC int, initialStack []any, constants HostConstants, variables HostVariables, lists HostLists) (*BoundaryResult, error) {
	state := &State{PC: initialPC}

	state.Stack = make([]Value, 0, len(initialStack))
	for _, item := range initialStack {
		v, err := fromHostValue(item)
		if err != nil {
			return nil, err
		}
		state.Stack = append(state.Stack, v)
	}

	constIndex := maxHostKey(constants)
	chunkConstants := make([]Value, constIndex+1)
	for k, v := range constants {
		cv, err := fromHostValue(v)
		if err != nil {
			return nil, err
		}
		chunkConstants[k] = cv
	}
	chunk.Constants = chunkConstants

	varIndex := maxHostKey(variables)
	state.Variables = make([]Value, varIndex+1)
	for k, v := range variables {
		vv, err := fromHostValue(v)
		if err != nil {
			return nil, err
		}
		state.Variables[k] = vv
	}

	listIndex := uint32(0)
	for k := range lists {
		if k > listIndex {
			listIndex = k
		}
	}
	if len(lists) > 0 {
		state.Lists = make([][]Value, listIndex+1)
	}
	for k, raw := range lists {
		state.Lists[k] = splitHostList(raw)
	}

	result, err := vm.Run(chunk, state)
	if err != nil {
		return nil, err
	}

	out := &BoundaryResult{
		Variables: make(map[uint32]Value, len(state.Variables)),
		Stack:     state.Stack,
		PC:        result.PC,
		Reason:    result.Reason,
	}
	for i, v := range state.Variables {
		out.Variables[uint32(i)] = v
	}
	return out, nil
}

func maxHostKey[V any](m map[uint32]V) uint32 {
	var max uint32
	for k := range m {
		if k > max {
			max = k
		}
	}
	return max
}

// fromHostValue probes a host any value by its dynamic Go type, mirroring
// run_sync's ScratchValue::try_from(JsValue) type dispatch (bool/number/
// string probing, in that order). Unlike splitHostList's list-item
// decoding, a host string here is not auto-promoted to Boolean/Number —
// stack, constant and variable loads preserve the host-provided type as-is;
// only list elements decoded off the NUL-separated wire format go through
// FromHostString's promotion rule.
func fromHostValue(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case bool:
		return BoolValue(x), nil
	case float64:
		return NumberValue(x), nil
	case int:
		return NumberValue(float64(x)), nil
	case string:
		return StringValue(x), nil
	default:
		return Value{}, diag.New(diag.HostMarshalFailure, -1, nil, "host value of type %T is neither boolean, number, nor string", v)
	}
}

// splitHostList reconstructs list contents from the NUL-separated wire
// format. The source pre-reserves capacity by counting separators only
// once the encoded length passes 1000 bytes, on the theory that counting
// first is wasted work for short lists; this port preserves that
// threshold exactly.
func splitHostList(encoded string) []Value {
	parts := strings.Split(encoded, "\x00")
	var items []Value
	if len(encoded) > 1000 {
		items = make([]Value, 0, len(parts))
	} else {
		items = make([]Value, 0)
	}
	for _, part := range parts {
		items = append(items, FromHostString(part))
	}
	return items
}

// EncodeList renders a list back to the host wire format, the inverse of
// splitHostList.
func EncodeList(list []Value) string {
	parts := make([]string, len(list))
	for i, v := range list {
		parts[i] = v.String()
	}
	return strings.Join(parts, "\x00")
}

func (r *BoundaryResult) String() string {
	return fmt.Sprintf("BoundaryResult{PC: %d, Reason: %s, Stack: %d items}", r.PC, r.Reason, len(r.Stack))
}
