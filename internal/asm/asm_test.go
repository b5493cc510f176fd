package asm

import (
	"testing"

	"github.com/blocklang/blockvm/internal/bytecode"
)

const sampleProgram = `
program: truthy-jump

constants:
	number 1
	number 2

code:
	LoadConst 0
	JumpIf +2
	LoadConst 1
	Noop
`

func TestAssembleProgram(t *testing.T) {
	chunk, err := Assemble(sampleProgram)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if chunk.Name != "truthy-jump" {
		t.Fatalf("Name = %q, want truthy-jump", chunk.Name)
	}
	if len(chunk.Constants) != 2 {
		t.Fatalf("Constants = %d, want 2", len(chunk.Constants))
	}
	if len(chunk.Code) != 4 {
		t.Fatalf("Code = %d, want 4", len(chunk.Code))
	}
	if chunk.Code[1].Op != bytecode.JumpIf || chunk.Code[1].ArgOffset() != 2 {
		t.Fatalf("Code[1] = %+v, want JumpIf +2", chunk.Code[1])
	}
}

func TestAssembleRejectsUnknownOpcode(t *testing.T) {
	_, err := Assemble("program: bad\ncode:\n\tFrobnicate\n")
	if err == nil {
		t.Fatal("expected error for unknown opcode")
	}
}

func TestDisassembleRoundTrip(t *testing.T) {
	chunk, err := Assemble(sampleProgram)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	text := Disassemble(chunk)

	reparsed, err := Assemble(text)
	if err != nil {
		t.Fatalf("Assemble(Disassemble(chunk)): %v", err)
	}
	if len(reparsed.Code) != len(chunk.Code) {
		t.Fatalf("round-tripped code length = %d, want %d", len(reparsed.Code), len(chunk.Code))
	}
	for i := range chunk.Code {
		if reparsed.Code[i] != chunk.Code[i] {
			t.Fatalf("instruction %d = %+v, want %+v", i, reparsed.Code[i], chunk.Code[i])
		}
	}
}

func TestAssembleStringConstant(t *testing.T) {
	src := "program: strings\nconstants:\n\tstring \"hello world\"\ncode:\n\tLoadConst 0\n"
	chunk, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if got := chunk.Constants[0].String(); got != "hello world" {
		t.Fatalf("constant = %q, want %q", got, "hello world")
	}
}
