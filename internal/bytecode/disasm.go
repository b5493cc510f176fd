package bytecode

import (
	"fmt"
	"io"
)

// Disassembler prints human-readable bytecode, grounded on the teacher's
// Disassembler but flattened to a single dispatch table: this opcode set has
// no line-number debug info and no call/object/exception categories, so the
// teacher's per-category tryDisassemble* chain collapses into one switch.
type Disassembler struct {
	writer io.Writer
	chunk  *Chunk
}

// NewDisassembler creates a new disassembler for the given chunk.
func NewDisassembler(chunk *Chunk, writer io.Writer) *Disassembler {
	return &Disassembler{writer: writer, chunk: chunk}
}

// Disassemble prints a complete disassembly of the chunk.
func (d *Disassembler) Disassemble() {
	fmt.Fprintf(d.writer, "== %s ==\n", d.chunk.Name)
	fmt.Fprintf(d.writer, "Instructions: %d, Constants: %d\n\n", len(d.chunk.Code), len(d.chunk.Constants))

	if len(d.chunk.Constants) > 0 {
		fmt.Fprintf(d.writer, "Constants:\n")
		for i, constant := range d.chunk.Constants {
			fmt.Fprintf(d.writer, "  [%04d] %s\n", i, constant.GoString())
		}
		fmt.Fprintf(d.writer, "\n")
	}

	fmt.Fprintf(d.writer, "Code:\n")
	for offset := range d.chunk.Code {
		d.DisassembleInstruction(offset)
	}
}

// DisassembleInstruction writes a single instruction's mnemonic form.
func (d *Disassembler) DisassembleInstruction(offset int) {
	if offset < 0 || offset >= len(d.chunk.Code) {
		fmt.Fprintf(d.writer, "invalid offset: %d\n", offset)
		return
	}

	inst := d.chunk.Code[offset]
	fmt.Fprintf(d.writer, "%04d  %s\n", offset, d.formatInstruction(inst, offset))
}

func (d *Disassembler) formatInstruction(inst Instruction, offset int) string {
	switch inst.Op {
	case LoadConst:
		if idx := int(inst.ArgIndex()); idx >= 0 && idx < len(d.chunk.Constants) {
			return fmt.Sprintf("%-16s %4d  ; %s", inst.Op, idx, d.chunk.Constants[idx].GoString())
		}
		return fmt.Sprintf("%-16s %4d  ; <out of range>", inst.Op, inst.ArgIndex())
	case Jump, JumpIf:
		target := saturatingAddPC(offset, inst.ArgOffset())
		return fmt.Sprintf("%-16s %+4d  ; -> %04d", inst.Op, inst.ArgOffset(), target)
	case LoadConstBool:
		return fmt.Sprintf("%-16s %v", inst.Op, inst.ArgBool())
	case LoadConstFloat:
		return fmt.Sprintf("%-16s %v", inst.Op, inst.ArgFloat32())
	case ExtraArg:
		return fmt.Sprintf("%-16s %4d", inst.Op, inst.Argument)
	case Noop, Return:
		return inst.Op.String()
	default:
		return fmt.Sprintf("%-16s %4d", inst.Op, inst.Argument)
	}
}
