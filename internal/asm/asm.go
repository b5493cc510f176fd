// Package asm implements a textual mnemonic form of a compiled chunk, the
// way a VM-only repository stands in for the compiler frontend it doesn't
// ship. It is explicitly not a language frontend: it has no notion of
// Scratch blocks, parsing, or optimization, only a 1:1 textual encoding of
// the instruction stream and constant pool a Chunk already holds.
//
// The format (order of sections is significant, indentation is not):
//
//	program: <name>                  # required
//	constants:                       # optional
//		bool   true
//		number 1.5
//		string "abc"
//	code:                            # required
//		LoadConst 0
//		OpAdd
//		Jump +2                        # offsets are relative, from this instruction
package asm

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/blocklang/blockvm/internal/bytecode"
)

var sections = map[string]bool{
	"program:":   true,
	"constants:": true,
	"code:":      true,
}

// Assemble parses the textual form into a Chunk.
func Assemble(src string) (*bytecode.Chunk, error) {
	a := &asm{s: bufio.NewScanner(strings.NewReader(src))}

	fields := a.next()
	a.program(fields)

	fields = a.next()
	fields = a.constants(fields)
	fields = a.code(fields)

	if a.err == nil && len(fields) > 0 {
		a.err = fmt.Errorf("unexpected section: %s", fields[0])
	}
	return a.chunk, a.err
}

type asm struct {
	s       *bufio.Scanner
	rawLine string
	chunk   *bytecode.Chunk
	err     error
}

func (a *asm) program(fields []string) {
	if a.err != nil {
		return
	}
	if len(fields) < 2 || !strings.EqualFold(fields[0], "program:") {
		msg := "expected program section"
		if len(fields) > 0 {
			msg += ", found " + strings.Join(fields, " ")
		}
		a.err = fmt.Errorf("%s", msg)
		return
	}
	a.chunk = bytecode.NewChunk(fields[1])
}

var rxConstString = func(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	idx := strings.IndexByte(trimmed, '"')
	if idx < 0 {
		return "", false
	}
	return trimmed[idx:], true
}

func (a *asm) constants(fields []string) []string {
	if a.err != nil || len(fields) == 0 || !strings.EqualFold(fields[0], "constants:") {
		return fields
	}

	for fields = a.next(); len(fields) > 0 && !sections[strings.ToLower(fields[0])]; fields = a.next() {
		if len(fields) < 2 {
			a.err = fmt.Errorf("invalid constant line: %q", a.rawLine)
			return fields
		}
		switch strings.ToLower(fields[0]) {
		case "bool", "boolean":
			b, err := strconv.ParseBool(fields[1])
			if err != nil {
				a.err = fmt.Errorf("invalid bool constant %q: %w", fields[1], err)
				return fields
			}
			a.chunk.AddConstant(bytecode.BoolValue(b))
		case "number":
			f, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				a.err = fmt.Errorf("invalid number constant %q: %w", fields[1], err)
				return fields
			}
			a.chunk.AddConstant(bytecode.NumberValue(f))
		case "string":
			raw, ok := rxConstString(a.rawLine)
			if !ok {
				a.err = fmt.Errorf("invalid string constant: %q", a.rawLine)
				return fields
			}
			qs, err := strconv.QuotedPrefix(raw)
			if err != nil {
				a.err = fmt.Errorf("invalid string constant %q: %w", raw, err)
				return fields
			}
			s, err := strconv.Unquote(qs)
			if err != nil {
				a.err = fmt.Errorf("invalid string constant %q: %w", qs, err)
				return fields
			}
			a.chunk.AddConstant(bytecode.StringValue(s))
		default:
			a.err = fmt.Errorf("unknown constant type %q", fields[0])
			return fields
		}
	}
	return fields
}

func (a *asm) code(fields []string) []string {
	if a.err != nil {
		return fields
	}
	if len(fields) == 0 || !strings.EqualFold(fields[0], "code:") {
		msg := "expected code section"
		if len(fields) > 0 {
			msg += ", found " + fields[0]
		}
		a.err = fmt.Errorf("%s", msg)
		return fields
	}

	for fields = a.next(); len(fields) > 0 && !sections[strings.ToLower(fields[0])]; fields = a.next() {
		op, ok := lookupMnemonic(fields[0])
		if !ok {
			a.err = fmt.Errorf("unknown opcode %q", fields[0])
			return fields
		}

		kind := argKind(op)
		if kind == argNone {
			if len(fields) != 1 {
				a.err = fmt.Errorf("opcode %s takes no argument, got %q", fields[0], a.rawLine)
				return fields
			}
			a.chunk.Write(bytecode.Instruction{Op: op})
			continue
		}

		if len(fields) != 2 {
			a.err = fmt.Errorf("opcode %s expects one argument, got %q", fields[0], a.rawLine)
			return fields
		}

		arg, err := parseArg(kind, fields[1])
		if err != nil {
			a.err = fmt.Errorf("opcode %s: %w", fields[0], err)
			return fields
		}
		a.chunk.Write(bytecode.Instruction{Op: op, Argument: arg})
	}
	return fields
}

func (a *asm) next() []string {
	a.rawLine = ""
	if a.err != nil {
		return nil
	}
	for a.s.Scan() {
		line := a.s.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		for i, fld := range fields {
			if strings.HasPrefix(fld, "#") {
				fields = fields[:i]
				break
			}
		}
		if len(fields) == 0 {
			continue
		}
		a.rawLine = line
		return fields
	}
	a.err = a.s.Err()
	return nil
}

// Disassemble renders chunk back to its textual form, the inverse of
// Assemble.
func Disassemble(chunk *bytecode.Chunk) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "program: %s\n", chunk.Name)

	if len(chunk.Constants) > 0 {
		buf.WriteString("constants:\n")
		for _, c := range chunk.Constants {
			switch {
			case c.IsBoolean():
				fmt.Fprintf(&buf, "\tbool   %v\n", c.Bool())
			case c.IsNumber():
				fmt.Fprintf(&buf, "\tnumber %s\n", strconv.FormatFloat(c.Number(), 'g', -1, 64))
			default:
				fmt.Fprintf(&buf, "\tstring %q\n", c.String())
			}
		}
	}

	buf.WriteString("code:\n")
	for _, inst := range chunk.Code {
		kind := argKind(inst.Op)
		if kind == argNone {
			fmt.Fprintf(&buf, "\t%s\n", inst.Op)
			continue
		}
		fmt.Fprintf(&buf, "\t%s %s\n", inst.Op, formatArg(kind, inst))
	}
	return buf.String()
}
