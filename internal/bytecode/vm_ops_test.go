package bytecode

import "testing"

func TestBinaryOperators(t *testing.T) {
	t.Run("add is commutative", func(t *testing.T) {
		a, b := NumberValue(3), NumberValue(5)
		if Add(a, b) != Add(b, a) {
			t.Error("Add should be commutative")
		}
	})

	t.Run("sub is not commutative but self-cancels", func(t *testing.T) {
		a, b := NumberValue(3), NumberValue(5)
		if Sub(a, b) == Sub(b, a) {
			t.Error("Sub should not be commutative")
		}
		sum := Sub(a, b).Number() + Sub(b, a).Number()
		if sum != 0 {
			t.Errorf("Sub(a,b)+Sub(b,a) = %v, want 0", sum)
		}
	})

	t.Run("lt coerces non-numeric strings to zero", func(t *testing.T) {
		got := Lt(StringValue("abc"), NumberValue(1))
		if !got.Bool() {
			t.Error(`Lt("abc", 1) should be true: "abc" coerces to 0`)
		}
	})

	t.Run("and or coerce through bool", func(t *testing.T) {
		if !And(BoolValue(true), NumberValue(1)).Bool() {
			t.Error("And(true, 1) should be true")
		}
		if Or(BoolValue(false), EmptyValue()).Bool() {
			t.Error("Or(false, empty) should be false")
		}
	})

	t.Run("not negates bool coercion", func(t *testing.T) {
		if Not(NumberValue(0)).Bool() != true {
			t.Error("Not(0) should be true")
		}
	})
}

func TestPopBinaryOrder(t *testing.T) {
	state := NewState(nil, nil)
	state.push(StringValue("lhs"))
	state.push(StringValue("rhs"))

	lhs, rhs, ok := state.popBinary()
	if !ok {
		t.Fatal("popBinary should succeed with two items on stack")
	}
	if lhs.String() != "lhs" || rhs.String() != "rhs" {
		t.Errorf("popBinary() = (%v, %v), want (lhs, rhs): second-popped is lhs, first-popped is rhs", lhs, rhs)
	}
}

func TestPopBinaryUnderflow(t *testing.T) {
	state := NewState(nil, nil)
	state.push(StringValue("only one"))
	if _, _, ok := state.popBinary(); ok {
		t.Fatal("popBinary should fail with only one item on stack")
	}
}
