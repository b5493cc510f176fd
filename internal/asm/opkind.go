package asm

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/blocklang/blockvm/internal/bytecode"
)

type argumentKind int

const (
	argNone argumentKind = iota
	argIndex
	argOffset
	argInt
	argFloat
	argBool
)

// opKinds classifies every opcode's argument shape for the assembler and
// disassembler, grounded on execute_instruction.rs's use of
// inst.Argument/ArgIndex/ArgOffset/ArgInt/ArgFloat32/ArgBool per opcode.
var opKinds = map[bytecode.OpCode]argumentKind{
	bytecode.Noop:      argNone,
	bytecode.ExtraArg:  argInt,
	bytecode.LoadConst: argIndex,
	bytecode.Load:      argIndex,
	bytecode.Store:     argIndex,
	bytecode.Jump:      argOffset,
	bytecode.JumpIf:    argOffset,
	bytecode.AllocList: argIndex,

	bytecode.OpAdd: argNone, bytecode.OpSub: argNone, bytecode.OpMul: argNone,
	bytecode.OpDiv: argNone, bytecode.OpMod: argNone,
	bytecode.OpAnd: argNone, bytecode.OpOr: argNone,
	bytecode.OpLt: argNone, bytecode.OpEq: argNone,
	bytecode.Reserved: argNone,

	bytecode.UnaryNot: argNone, bytecode.UnaryAbs: argNone,
	bytecode.UnaryFloor: argNone, bytecode.UnaryCeil: argNone,
	bytecode.UnarySqrt: argNone, bytecode.UnaryRound: argNone,
	bytecode.UnarySin: argNone, bytecode.UnaryCos: argNone, bytecode.UnaryTan: argNone,
	bytecode.UnaryAsin: argNone, bytecode.UnaryAcos: argNone, bytecode.UnaryAtan: argNone,
	bytecode.UnaryLn: argNone, bytecode.UnaryLog: argNone,
	bytecode.UnaryEPow: argNone, bytecode.Unary10Pow: argNone,

	bytecode.ListDel: argIndex, bytecode.ListIns: argIndex,
	bytecode.ListDelAll: argIndex, bytecode.ListReplace: argIndex,
	bytecode.ListPush: argIndex, bytecode.ListLoad: argIndex,
	bytecode.ListLen: argIndex, bytecode.ListIFind: argIndex,
	bytecode.ListIIncludes: argIndex,

	bytecode.MonitorShowVar: argIndex, bytecode.MonitorHideVar: argIndex,
	bytecode.MonitorShowList: argIndex, bytecode.MonitorHideList: argIndex,

	bytecode.Return: argInt,

	bytecode.LoadConstBool:  argBool,
	bytecode.LoadConstInt:   argInt,
	bytecode.LoadConstFloat: argFloat,

	bytecode.StringIndexChar: argNone, bytecode.StringLen: argNone,
	bytecode.StringConcat: argNone,

	bytecode.DataRand: argInt,
	bytecode.DataDate: argNone, bytecode.DataWeekday: argNone,
	bytecode.DataDaysSince2000: argNone, bytecode.DataHour: argNone,
	bytecode.DataMinute: argNone, bytecode.DataMonth: argNone,
	bytecode.DataSecond: argNone, bytecode.DataYear: argNone,
}

func argKind(op bytecode.OpCode) argumentKind {
	return opKinds[op]
}

var mnemonics = buildMnemonics()

func buildMnemonics() map[string]bytecode.OpCode {
	m := make(map[string]bytecode.OpCode, len(opKinds))
	for op := range opKinds {
		m[strings.ToLower(op.String())] = op
	}
	return m
}

func lookupMnemonic(name string) (bytecode.OpCode, bool) {
	op, ok := mnemonics[strings.ToLower(name)]
	return op, ok
}

func parseArg(kind argumentKind, raw string) (uint32, error) {
	switch kind {
	case argIndex:
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid index %q: %w", raw, err)
		}
		return uint32(v), nil
	case argOffset:
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid offset %q: %w", raw, err)
		}
		return uint32(int32(v)), nil
	case argInt:
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid integer %q: %w", raw, err)
		}
		return uint32(int32(v)), nil
	case argFloat:
		v, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid float %q: %w", raw, err)
		}
		return math.Float32bits(float32(v)), nil
	case argBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid bool %q: %w", raw, err)
		}
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("opcode takes no argument")
	}
}

func formatArg(kind argumentKind, inst bytecode.Instruction) string {
	switch kind {
	case argIndex:
		return strconv.FormatUint(uint64(inst.ArgIndex()), 10)
	case argOffset:
		off := inst.ArgOffset()
		if off >= 0 {
			return fmt.Sprintf("+%d", off)
		}
		return strconv.FormatInt(int64(off), 10)
	case argInt:
		return strconv.FormatInt(int64(inst.ArgInt()), 10)
	case argFloat:
		return strconv.FormatFloat(float64(inst.ArgFloat32()), 'g', -1, 32)
	case argBool:
		return strconv.FormatBool(inst.ArgBool())
	default:
		return ""
	}
}
