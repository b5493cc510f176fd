package bytecode

import "testing"

func TestValueCoercionTotal(t *testing.T) {
	t.Run("number to bool", func(t *testing.T) {
		if NumberValue(0).Bool() {
			t.Error("0 should coerce to false")
		}
		if !NumberValue(1).Bool() {
			t.Error("non-zero should coerce to true")
		}
	})

	t.Run("string to bool", func(t *testing.T) {
		if EmptyValue().Bool() {
			t.Error("empty string should coerce to false")
		}
		if StringValue("false").Bool() {
			t.Error(`"false" should coerce to false`)
		}
		if !StringValue("hello").Bool() {
			t.Error("non-empty non-false string should coerce to true")
		}
	})

	t.Run("bool to number", func(t *testing.T) {
		if BoolValue(true).Number() != 1 {
			t.Error("true should coerce to 1")
		}
		if BoolValue(false).Number() != 0 {
			t.Error("false should coerce to 0")
		}
	})

	t.Run("string to number", func(t *testing.T) {
		if StringValue("3.5").Number() != 3.5 {
			t.Error(`"3.5" should coerce to 3.5`)
		}
		if StringValue("not a number").Number() != 0 {
			t.Error("unparseable string should coerce to 0, not fail")
		}
	})

	t.Run("number to string", func(t *testing.T) {
		if got := NumberValue(3.5).String(); got != "3.5" {
			t.Errorf("String() = %q, want %q", got, "3.5")
		}
	})

	t.Run("bool to string", func(t *testing.T) {
		if got := BoolValue(true).String(); got != "true" {
			t.Errorf("String() = %q, want true", got)
		}
		if got := BoolValue(false).String(); got != "false" {
			t.Errorf("String() = %q, want false", got)
		}
	})
}

func TestFromHostString(t *testing.T) {
	cases := []struct {
		in   string
		want Value
	}{
		{"true", BoolValue(true)},
		{"false", BoolValue(false)},
		{"42", NumberValue(42)},
		{"hello", StringValue("hello")},
	}
	for _, c := range cases {
		got := FromHostString(c.in)
		if got.Type != c.want.Type || got.Data != c.want.Data {
			t.Errorf("FromHostString(%q) = %#v, want %#v", c.in, got, c.want)
		}
	}
}

func TestChunkConstants(t *testing.T) {
	c := NewChunk("test")
	idx := c.AddConstant(NumberValue(7))
	if idx != 0 {
		t.Fatalf("AddConstant returned %d, want 0", idx)
	}
	if got := c.Constant(0); got.Number() != 7 {
		t.Errorf("Constant(0) = %v, want 7", got)
	}
	if got := c.Constant(99); got.String() != "" {
		t.Errorf("Constant(out of range) = %v, want empty fallback", got)
	}
}
