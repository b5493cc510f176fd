package bytecode

import (
	"math"

	"github.com/blocklang/blockvm/internal/diag"
)

// The Value Algebra: coercion-first binary operators. Every operator here
// is total — it cannot fail, because Number/Bool/String coercion never
// fails — which is why the VM's error kinds (see internal/diag) are all
// structural (stack, bounds, allocation, opcode) and never "type errors".
// Grounded on scratch_value.rs's ops::{Add,Sub,Mul,Div} impls.

// Add coerces both operands to Number and sums them.
func Add(lhs, rhs Value) Value { return NumberValue(lhs.Number() + rhs.Number()) }

// Sub coerces both operands to Number and subtracts rhs from lhs.
func Sub(lhs, rhs Value) Value { return NumberValue(lhs.Number() - rhs.Number()) }

// Mul coerces both operands to Number and multiplies them.
func Mul(lhs, rhs Value) Value { return NumberValue(lhs.Number() * rhs.Number()) }

// Div coerces both operands to Number and divides lhs by rhs. Division by
// zero yields ±Inf (or NaN for 0/0), following IEEE-754 — not an error.
func Div(lhs, rhs Value) Value { return NumberValue(lhs.Number() / rhs.Number()) }

// Mod coerces both operands to Number and takes the f64 remainder.
func Mod(lhs, rhs Value) Value { return NumberValue(math.Mod(lhs.Number(), rhs.Number())) }

// And coerces both operands to Boolean and ANDs them.
func And(lhs, rhs Value) Value { return BoolValue(lhs.Bool() && rhs.Bool()) }

// Or coerces both operands to Boolean and ORs them.
func Or(lhs, rhs Value) Value { return BoolValue(lhs.Bool() || rhs.Bool()) }

// Lt coerces both operands to Number and compares numerically — matching
// source semantics, which compares even string operands numerically.
func Lt(lhs, rhs Value) Value { return BoolValue(lhs.Number() < rhs.Number()) }

// Eq coerces both operands to Number and compares for numeric equality.
func Eq(lhs, rhs Value) Value { return BoolValue(lhs.Number() == rhs.Number()) }

// Not coerces its operand to Boolean and negates it.
func Not(v Value) Value { return BoolValue(!v.Bool()) }

// fail builds a diagnostic error carrying the failing PC and a snapshot of
// the operand stack, the way the teacher's runtimeError/typeError
// constructors attach a stack trace to every VM error.
func (vm *VM) fail(pc int, state *State, kind diag.Kind, format string, args ...any) error {
	return diag.New(kind, pc, diag.NewSnapshot(state.stackStrings()), format, args...)
}
