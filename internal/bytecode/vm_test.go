package bytecode

import "testing"

// TestEndToEndScenarios reproduces the seven literal worked examples,
// checked by hand against the source executor and the pop-order
// resolution documented in DESIGN.md.
func TestEndToEndScenarios(t *testing.T) {
	t.Run("noop", func(t *testing.T) {
		chunk := NewChunk("noop")
		chunk.Write(Instruction{Op: Noop})
		state := NewState(nil, nil)

		result, err := NewVM().Run(chunk, state)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if result.PC != 1 {
			t.Errorf("PC = %d, want 1", result.PC)
		}
		if len(state.Stack) != 0 {
			t.Errorf("Stack = %v, want empty", state.Stack)
		}
	})

	t.Run("add one plus one", func(t *testing.T) {
		chunk := NewChunk("add")
		chunk.AddConstant(NumberValue(1))
		chunk.Write(Instruction{Op: LoadConst, Argument: 0})
		chunk.Write(Instruction{Op: LoadConst, Argument: 0})
		chunk.Write(Instruction{Op: OpAdd})
		state := NewState(nil, nil)

		if _, err := NewVM().Run(chunk, state); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if len(state.Stack) != 1 || state.Stack[0].Number() != 2 {
			t.Errorf("Stack = %v, want [Number(2)]", state.Stack)
		}
	})

	t.Run("truthy jump skips intermediate load", func(t *testing.T) {
		chunk := NewChunk("jump")
		chunk.AddConstant(BoolValue(true))
		chunk.AddConstant(NumberValue(42))
		chunk.Write(Instruction{Op: LoadConst, Argument: 0})
		chunk.Write(Instruction{Op: JumpIf, Argument: uint32(int32(2))})
		chunk.Write(Instruction{Op: LoadConst, Argument: 1})
		chunk.Write(Instruction{Op: Noop})
		chunk.Write(Instruction{Op: LoadConst, Argument: 1})
		state := NewState(nil, nil)

		result, err := NewVM().Run(chunk, state)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if len(state.Stack) != 1 || state.Stack[0].Number() != 42 {
			t.Errorf("Stack = %v, want [Number(42)]", state.Stack)
		}
		if result.PC != 5 {
			t.Errorf("PC = %d, want 5", result.PC)
		}
	})

	t.Run("list push then one-based read", func(t *testing.T) {
		chunk := NewChunk("list")
		chunk.AddConstant(StringValue("x"))
		chunk.AddConstant(NumberValue(1))
		chunk.Write(Instruction{Op: LoadConst, Argument: 0})
		chunk.Write(Instruction{Op: ListPush, Argument: 0})
		chunk.Write(Instruction{Op: LoadConst, Argument: 1})
		chunk.Write(Instruction{Op: ListLoad, Argument: 0})
		state := NewState(nil, [][]Value{{}})

		if _, err := NewVM().Run(chunk, state); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if len(state.Stack) != 1 || state.Stack[0].String() != "x" {
			t.Errorf("Stack = %v, want [String(x)]", state.Stack)
		}
	})

	t.Run("string coercion in comparison", func(t *testing.T) {
		chunk := NewChunk("cmp")
		chunk.Write(Instruction{Op: Load, Argument: 0})
		chunk.Write(Instruction{Op: Load, Argument: 1})
		chunk.Write(Instruction{Op: OpLt})
		state := NewState([]Value{StringValue("10"), StringValue("9")}, nil)

		if _, err := NewVM().Run(chunk, state); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if len(state.Stack) != 1 || state.Stack[0].Bool() != false {
			t.Errorf("Stack = %v, want [Boolean(false)]: numeric 10 < 9 is false", state.Stack)
		}
	})

	t.Run("return early reports reason and stops pc", func(t *testing.T) {
		chunk := NewChunk("ret")
		chunk.Write(Instruction{Op: Noop})
		chunk.Write(Instruction{Op: Return, Argument: uint32(LoopYield)})
		chunk.Write(Instruction{Op: Noop})
		state := NewState(nil, nil)

		result, err := NewVM().Run(chunk, state)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if result.PC != 1 {
			t.Errorf("PC = %d, want 1", result.PC)
		}
		if result.Reason != LoopYield {
			t.Errorf("Reason = %s, want LoopYield", result.Reason)
		}
	})

	t.Run("alloc list consumes extra arg", func(t *testing.T) {
		chunk := NewChunk("alloc")
		chunk.Write(Instruction{Op: AllocList, Argument: 0})
		chunk.Write(Instruction{Op: ExtraArg, Argument: 5})
		state := NewState(nil, [][]Value{{}})

		result, err := NewVM().Run(chunk, state)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if result.PC != 2 {
			t.Errorf("PC = %d, want 2", result.PC)
		}
		if cap(state.Lists[0]) < 5 {
			t.Errorf("Lists[0] cap = %d, want >= 5", cap(state.Lists[0]))
		}
	})
}

func TestStoreAndJumpIfFallBackToEmptyOnUnderflow(t *testing.T) {
	t.Run("store on empty stack stores empty value", func(t *testing.T) {
		chunk := NewChunk("store-underflow")
		chunk.Write(Instruction{Op: Store, Argument: 0})
		state := NewState([]Value{NumberValue(9)}, nil)

		if _, err := NewVM().Run(chunk, state); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if got := state.Variables[0].String(); got != "" {
			t.Errorf("Variables[0] = %q, want empty", got)
		}
	})

	t.Run("jumpif on empty stack falls through", func(t *testing.T) {
		chunk := NewChunk("jumpif-underflow")
		chunk.Write(Instruction{Op: JumpIf, Argument: 1})
		chunk.Write(Instruction{Op: LoadConstInt, Argument: 7})
		state := NewState(nil, nil)

		if _, err := NewVM().Run(chunk, state); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if len(state.Stack) != 1 || state.Stack[0].Number() != 7 {
			t.Errorf("Stack = %v, want [Number(7)]: empty string is falsy, so no jump", state.Stack)
		}
	})

	t.Run("other opcodes hard-fail on empty stack", func(t *testing.T) {
		chunk := NewChunk("add-underflow")
		chunk.Write(Instruction{Op: OpAdd})
		state := NewState(nil, nil)

		if _, err := NewVM().Run(chunk, state); err == nil {
			t.Fatal("expected stack underflow error")
		}
	})
}

func TestUnknownOpcodeFails(t *testing.T) {
	chunk := NewChunk("unknown")
	chunk.Write(Instruction{Op: OpCode(0xfff0)})
	state := NewState(nil, nil)

	if _, err := NewVM().Run(chunk, state); err == nil {
		t.Fatal("expected unknown opcode error")
	}
}

func TestAllocListMissingExtraArgFails(t *testing.T) {
	chunk := NewChunk("alloc-missing")
	chunk.Write(Instruction{Op: AllocList, Argument: 0})
	chunk.Write(Instruction{Op: Noop})
	state := NewState(nil, [][]Value{{}})

	if _, err := NewVM().Run(chunk, state); err == nil {
		t.Fatal("expected ExtraArgMissing error")
	}
}

func TestDegreesBugFlag(t *testing.T) {
	chunk := NewChunk("ln")
	chunk.AddConstant(NumberValue(1))
	chunk.Write(Instruction{Op: LoadConst, Argument: 0})
	chunk.Write(Instruction{Op: UnaryLn})

	t.Run("replicated by default", func(t *testing.T) {
		state := NewState(nil, nil)
		if _, err := NewVM().Run(chunk, state); err != nil {
			t.Fatalf("Run: %v", err)
		}
		// ln(toRadians(1)) != ln(1) == 0
		if state.Stack[0].Number() == 0 {
			t.Error("degrees bug should be replicated by default, ln(1) should not be 0")
		}
	})

	t.Run("disabled via option", func(t *testing.T) {
		state := NewState(nil, nil)
		vm := NewVM(WithDegreesBugReplicated(false))
		if _, err := vm.Run(chunk, state); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if state.Stack[0].Number() != 0 {
			t.Errorf("ln(1) = %v, want 0 with degrees bug disabled", state.Stack[0].Number())
		}
	})
}

func TestDataRandEnvironmentUnsupported(t *testing.T) {
	chunk := NewChunk("rand")
	chunk.AddConstant(NumberValue(1))
	chunk.AddConstant(NumberValue(10))
	chunk.Write(Instruction{Op: LoadConst, Argument: 0})
	chunk.Write(Instruction{Op: LoadConst, Argument: 1})
	chunk.Write(Instruction{Op: DataRand})
	state := NewState(nil, nil)

	vm := NewVM(WithRandSource(nil))
	if _, err := vm.Run(chunk, state); err == nil {
		t.Fatal("expected EnvironmentUnsupported error with nil rand source")
	}
}
