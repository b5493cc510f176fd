package bytecode

import "math"

// OpCode identifies a bytecode operation. Values are stable and fixed —
// hosts compiling against this VM bake them into the wire format.
type OpCode uint16

// Opcode numbering, fixed. The gap at 0x1e (Reserved) and 0x2e are
// deliberate: Reserved is a declared-but-unimplemented slot inherited from
// the source format, and 0x2e holds LoadConstBool (see note below).
const (
	Noop      OpCode = 0x00
	ExtraArg  OpCode = 0x01
	LoadConst OpCode = 0x02
	Load      OpCode = 0x03
	Store     OpCode = 0x04
	Jump      OpCode = 0x05
	JumpIf    OpCode = 0x06
	AllocList OpCode = 0x07

	OpAdd OpCode = 0x08
	OpSub OpCode = 0x09
	OpMul OpCode = 0x0a
	OpDiv OpCode = 0x0b
	OpAnd OpCode = 0x0c
	OpOr  OpCode = 0x0d

	UnaryNot   OpCode = 0x0e
	UnaryAbs   OpCode = 0x0f
	UnaryFloor OpCode = 0x10
	UnaryCeil  OpCode = 0x11
	UnarySqrt  OpCode = 0x12
	UnarySin   OpCode = 0x13
	UnaryCos   OpCode = 0x14
	UnaryTan   OpCode = 0x15
	UnaryAsin  OpCode = 0x16
	UnaryAcos  OpCode = 0x17
	UnaryAtan  OpCode = 0x18
	UnaryLn    OpCode = 0x19
	UnaryLog   OpCode = 0x1a
	UnaryEPow  OpCode = 0x1b
	Unary10Pow OpCode = 0x1c

	OpLt     OpCode = 0x1d
	Reserved OpCode = 0x1e
	OpEq     OpCode = 0x1f

	ListDel       OpCode = 0x20
	ListIns       OpCode = 0x21
	ListDelAll    OpCode = 0x22
	ListReplace   OpCode = 0x23
	ListPush      OpCode = 0x24
	ListLoad      OpCode = 0x25
	ListLen       OpCode = 0x26
	ListIFind     OpCode = 0x27
	ListIIncludes OpCode = 0x28

	MonitorShowVar  OpCode = 0x29
	MonitorHideVar  OpCode = 0x2a
	MonitorShowList OpCode = 0x2b
	MonitorHideList OpCode = 0x2c

	Return OpCode = 0x2d

	// LoadConstBool fills the 0x2e slot left open between Return and
	// StringIndexChar in the source numbering. The source's own
	// instruction table never assigns LoadConstInt/LoadConstFloat/
	// LoadConstBool a hex value even though its executor implements all
	// three (see DESIGN.md) — this port fills the three open slots
	// (0x2e, 0x3c, 0x3d) left by that gap.
	LoadConstBool OpCode = 0x2e

	StringIndexChar OpCode = 0x2f
	StringLen       OpCode = 0x30
	StringConcat    OpCode = 0x31
	UnaryRound      OpCode = 0x32

	DataRand          OpCode = 0x33
	DataDate          OpCode = 0x34
	DataWeekday       OpCode = 0x35
	DataDaysSince2000 OpCode = 0x36
	DataHour          OpCode = 0x37
	DataMinute        OpCode = 0x38
	DataMonth         OpCode = 0x39
	DataSecond        OpCode = 0x3a
	DataYear          OpCode = 0x3b

	LoadConstInt   OpCode = 0x3c
	LoadConstFloat OpCode = 0x3d

	OpMod OpCode = 0x3e
)

var opCodeNames = map[OpCode]string{
	Noop: "Noop", ExtraArg: "ExtraArg", LoadConst: "LoadConst",
	Load: "Load", Store: "Store", Jump: "Jump", JumpIf: "JumpIf",
	AllocList: "AllocList",
	OpAdd:     "OpAdd", OpSub: "OpSub", OpMul: "OpMul", OpDiv: "OpDiv",
	OpAnd: "OpAnd", OpOr: "OpOr",
	UnaryNot: "UnaryNot", UnaryAbs: "UnaryAbs", UnaryFloor: "UnaryFloor",
	UnaryCeil: "UnaryCeil", UnarySqrt: "UnarySqrt", UnarySin: "UnarySin",
	UnaryCos: "UnaryCos", UnaryTan: "UnaryTan", UnaryAsin: "UnaryAsin",
	UnaryAcos: "UnaryAcos", UnaryAtan: "UnaryAtan", UnaryLn: "UnaryLn",
	UnaryLog: "UnaryLog", UnaryEPow: "UnaryEPow", Unary10Pow: "Unary10Pow",
	OpLt: "OpLt", Reserved: "Reserved", OpEq: "OpEq",
	ListDel: "ListDel", ListIns: "ListIns", ListDelAll: "ListDelAll",
	ListReplace: "ListReplace", ListPush: "ListPush", ListLoad: "ListLoad",
	ListLen: "ListLen", ListIFind: "ListIFind", ListIIncludes: "ListIIncludes",
	MonitorShowVar: "MonitorShowVar", MonitorHideVar: "MonitorHideVar",
	MonitorShowList: "MonitorShowList", MonitorHideList: "MonitorHideList",
	Return: "Return", LoadConstBool: "LoadConstBool",
	StringIndexChar: "StringIndexChar", StringLen: "StringLen",
	StringConcat: "StringConcat", UnaryRound: "UnaryRound",
	DataRand: "DataRand", DataDate: "DataDate", DataWeekday: "DataWeekday",
	DataDaysSince2000: "DataDaysSince2000", DataHour: "DataHour",
	DataMinute: "DataMinute", DataMonth: "DataMonth", DataSecond: "DataSecond",
	DataYear: "DataYear", LoadConstInt: "LoadConstInt",
	LoadConstFloat: "LoadConstFloat", OpMod: "OpMod",
}

// String returns the opcode's mnemonic, or "UNKNOWN" if not in the catalogue.
func (op OpCode) String() string {
	if name, ok := opCodeNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}

// ReturnReason is the 32-bit code a Return opcode hands to the host.
type ReturnReason uint32

const (
	Finished     ReturnReason = 0
	LoopYield    ReturnReason = 1
	Repaint      ReturnReason = 2
	VisualReport ReturnReason = 3
)

func (r ReturnReason) String() string {
	switch r {
	case Finished:
		return "Finished"
	case LoopYield:
		return "LoopYield"
	case Repaint:
		return "Repaint"
	case VisualReport:
		return "VisualReport"
	default:
		return "Unknown"
	}
}

// Instruction is one fixed 64-bit record: a 16-bit opcode, 16 bits of
// padding, and a 32-bit argument. The argument's meaning — unsigned index,
// signed offset, or raw bit pattern of an i32/f32 immediate — is
// determined entirely by the opcode; see the Arg* accessors.
type Instruction struct {
	Op       OpCode
	Argument uint32
}

// DecodeInstruction reads one instruction from its 64-bit little-endian
// wire form. This is an explicit bit-shift decode rather than a slice
// reinterpretation: the layout is bit-exact and portable either way, but a
// reinterpret-cast is an unsafe optimization, not a requirement.
func DecodeInstruction(word uint64) Instruction {
	return Instruction{
		Op:       OpCode(word & 0xffff),
		Argument: uint32(word >> 32),
	}
}

// Encode packs the instruction back into its 64-bit wire form.
func (inst Instruction) Encode() uint64 {
	return uint64(uint16(inst.Op)) | uint64(inst.Argument)<<32
}

// DecodeChunk decodes a word stream into a Chunk's instruction list,
// pairing it with an already-marshalled constant pool.
func DecodeChunk(name string, words []uint64, constants []Value) *Chunk {
	c := &Chunk{Name: name, Constants: constants}
	c.Code = make([]Instruction, len(words))
	for i, w := range words {
		c.Code[i] = DecodeInstruction(w)
	}
	return c
}

// Encode packs every instruction in the chunk back into 64-bit words.
func (c *Chunk) Encode() []uint64 {
	words := make([]uint64, len(c.Code))
	for i, inst := range c.Code {
		words[i] = inst.Encode()
	}
	return words
}

// ArgIndex reads the argument as an unsigned slot index.
func (inst Instruction) ArgIndex() uint32 { return inst.Argument }

// ArgOffset reads the argument as a signed jump offset.
func (inst Instruction) ArgOffset() int32 { return int32(inst.Argument) }

// ArgInt reads the argument as a bit-cast signed 32-bit immediate.
func (inst Instruction) ArgInt() int32 { return int32(inst.Argument) }

// ArgFloat32 reads the argument as a bit-cast 32-bit float immediate.
func (inst Instruction) ArgFloat32() float32 { return math.Float32frombits(inst.Argument) }

// ArgBool reads the argument as a boolean immediate: non-zero is true.
// Compared as unsigned, matching execute_instruction.rs's raw u32 check.
func (inst Instruction) ArgBool() bool { return inst.Argument > 0 }

// String returns the instruction's mnemonic; the argument is not included.
func (inst Instruction) String() string {
	return inst.Op.String()
}
