package bytecode

import (
	"math"

	"github.com/blocklang/blockvm/internal/diag"
)

// popBinary pops two operands for a binary opcode in the order the pop-
// order table (spec §4.3) settles on: the first-popped value is always
// the right-hand operand, the second-popped the left-hand one. For
// commutative opcodes (Add, Mul, And, Or, Eq) the distinction is
// immaterial; for Sub/Div/Mod/Lt/StringConcat it is the difference
// between matching the worked examples and not.
func (s *State) popBinary() (lhs, rhs Value, ok bool) {
	r, ok1 := s.pop()
	l, ok2 := s.pop()
	if !ok1 || !ok2 {
		return Value{}, Value{}, false
	}
	return l, r, true
}

func toRadians(x float64) float64 { return x * math.Pi / 180 }

// step executes a single instruction against state, using ctrl for the
// two control-transfer hooks (jump, early-return) instead of touching the
// program counter directly. Grounded opcode-by-opcode on
// execute_instruction.rs.
func (vm *VM) step(inst Instruction, chunk *Chunk, state *State, ctrl *controller) error {
	pc := state.PC
	op := inst.Op

	switch op {
	case Noop:
		return nil

	case ExtraArg:
		return vm.fail(pc, state, diag.ExtraArgMisplaced, "found ExtraArg where none was required")

	case LoadConst:
		if vm.safetyChecks && int(inst.ArgIndex()) >= len(chunk.Constants) {
			return vm.fail(pc, state, diag.IndexOutOfBounds, "LoadConst index %d out of range", inst.ArgIndex())
		}
		state.push(chunk.Constant(int(inst.ArgIndex())))
		return nil

	case LoadConstInt:
		state.push(NumberValue(float64(inst.ArgInt())))
		return nil

	case LoadConstFloat:
		state.push(NumberValue(float64(inst.ArgFloat32())))
		return nil

	case LoadConstBool:
		state.push(BoolValue(inst.ArgBool()))
		return nil

	case Load:
		if vm.safetyChecks && int(inst.ArgIndex()) >= len(state.Variables) {
			return vm.fail(pc, state, diag.IndexOutOfBounds, "Load index %d out of range", inst.ArgIndex())
		}
		state.push(state.variable(inst.ArgIndex()))
		return nil

	case Store:
		v := state.popOrEmpty()
		if vm.safetyChecks && int(inst.ArgIndex()) >= len(state.Variables) {
			return vm.fail(pc, state, diag.IndexOutOfBounds, "Store index %d out of range", inst.ArgIndex())
		}
		state.setVariable(inst.ArgIndex(), v)
		return nil

	case Jump:
		ctrl.jump(inst.ArgOffset())
		return nil

	case JumpIf:
		v := state.popOrEmpty()
		if v.Bool() {
			ctrl.jump(inst.ArgOffset())
		}
		return nil

	case AllocList:
		idx := int(inst.ArgIndex())
		if vm.safetyChecks && (idx < 0 || idx >= len(state.Lists)) {
			return vm.fail(pc, state, diag.ListMissing, "AllocList index %d out of range", idx)
		}
		extra, consumed := ctrl.jump(1)
		if !consumed {
			return vm.fail(pc, state, diag.ExtraArgMissing, "AllocList missing ExtraArg")
		}
		if vm.safetyChecks && extra > 200000 {
			return vm.fail(pc, state, diag.AllocTooLarge, "AllocList reservation of %d exceeds limit", extra)
		}
		if idx >= 0 && idx < len(state.Lists) {
			grown := make([]Value, len(state.Lists[idx]), len(state.Lists[idx])+int(extra))
			copy(grown, state.Lists[idx])
			state.Lists[idx] = grown
		}
		return nil

	case OpAdd:
		lhs, rhs, ok := state.popBinary()
		if !ok {
			return vm.fail(pc, state, diag.StackUnderflow, "OpAdd on empty stack")
		}
		state.push(Add(lhs, rhs))
		return nil

	case OpSub:
		lhs, rhs, ok := state.popBinary()
		if !ok {
			return vm.fail(pc, state, diag.StackUnderflow, "OpSub on empty stack")
		}
		state.push(Sub(lhs, rhs))
		return nil

	case OpMul:
		lhs, rhs, ok := state.popBinary()
		if !ok {
			return vm.fail(pc, state, diag.StackUnderflow, "OpMul on empty stack")
		}
		state.push(Mul(lhs, rhs))
		return nil

	case OpDiv:
		lhs, rhs, ok := state.popBinary()
		if !ok {
			return vm.fail(pc, state, diag.StackUnderflow, "OpDiv on empty stack")
		}
		state.push(Div(lhs, rhs))
		return nil

	case OpMod:
		lhs, rhs, ok := state.popBinary()
		if !ok {
			return vm.fail(pc, state, diag.StackUnderflow, "OpMod on empty stack")
		}
		state.push(Mod(lhs, rhs))
		return nil

	case OpAnd:
		lhs, rhs, ok := state.popBinary()
		if !ok {
			return vm.fail(pc, state, diag.StackUnderflow, "OpAnd on empty stack")
		}
		state.push(And(lhs, rhs))
		return nil

	case OpOr:
		lhs, rhs, ok := state.popBinary()
		if !ok {
			return vm.fail(pc, state, diag.StackUnderflow, "OpOr on empty stack")
		}
		state.push(Or(lhs, rhs))
		return nil

	case OpLt:
		lhs, rhs, ok := state.popBinary()
		if !ok {
			return vm.fail(pc, state, diag.StackUnderflow, "OpLt on empty stack")
		}
		state.push(Lt(lhs, rhs))
		return nil

	case OpEq:
		lhs, rhs, ok := state.popBinary()
		if !ok {
			return vm.fail(pc, state, diag.StackUnderflow, "OpEq on empty stack")
		}
		state.push(Eq(lhs, rhs))
		return nil

	case Reserved:
		return vm.fail(pc, state, diag.UnknownOpcode, "Reserved opcode executed")

	case UnaryNot:
		v, ok := state.pop()
		if !ok {
			return vm.fail(pc, state, diag.StackUnderflow, "UnaryNot on empty stack")
		}
		state.push(Not(v))
		return nil

	case UnaryAbs:
		v, ok := state.pop()
		if !ok {
			return vm.fail(pc, state, diag.StackUnderflow, "UnaryAbs on empty stack")
		}
		state.push(NumberValue(math.Abs(v.Number())))
		return nil

	case UnaryFloor:
		v, ok := state.pop()
		if !ok {
			return vm.fail(pc, state, diag.StackUnderflow, "UnaryFloor on empty stack")
		}
		state.push(NumberValue(math.Floor(v.Number())))
		return nil

	case UnaryCeil:
		v, ok := state.pop()
		if !ok {
			return vm.fail(pc, state, diag.StackUnderflow, "UnaryCeil on empty stack")
		}
		state.push(NumberValue(math.Ceil(v.Number())))
		return nil

	case UnarySqrt:
		v, ok := state.pop()
		if !ok {
			return vm.fail(pc, state, diag.StackUnderflow, "UnarySqrt on empty stack")
		}
		state.push(NumberValue(math.Sqrt(v.Number())))
		return nil

	case UnaryRound:
		v, ok := state.pop()
		if !ok {
			return vm.fail(pc, state, diag.StackUnderflow, "UnaryRound on empty stack")
		}
		state.push(NumberValue(math.Round(v.Number())))
		return nil

	case UnarySin, UnaryCos, UnaryTan, UnaryAsin, UnaryAcos, UnaryAtan:
		v, ok := state.pop()
		if !ok {
			return vm.fail(pc, state, diag.StackUnderflow, "%s on empty stack", op)
		}
		rad := toRadians(v.Number())
		var result float64
		switch op {
		case UnarySin:
			result = math.Sin(rad)
		case UnaryCos:
			result = math.Cos(rad)
		case UnaryTan:
			result = math.Tan(rad)
		case UnaryAsin:
			result = math.Asin(rad)
		case UnaryAcos:
			result = math.Acos(rad)
		case UnaryAtan:
			result = math.Atan(rad)
		}
		state.push(NumberValue(result))
		return nil

	case UnaryLn, UnaryLog, UnaryEPow, Unary10Pow:
		v, ok := state.pop()
		if !ok {
			return vm.fail(pc, state, diag.StackUnderflow, "%s on empty stack", op)
		}
		x := v.Number()
		if vm.replicateDegBug {
			x = toRadians(x)
		}
		var result float64
		switch op {
		case UnaryLn:
			result = math.Log(x)
		case UnaryLog:
			result = math.Log10(x)
		case UnaryEPow:
			result = math.Exp(x)
		case Unary10Pow:
			result = math.Pow(10, x)
		}
		state.push(NumberValue(result))
		return nil

	case ListDel:
		idx := int(inst.ArgIndex())
		list, okList := vm.list(state, inst.ArgIndex())
		if !okList {
			return vm.fail(pc, state, diag.ListMissing, "ListDel on missing list %d", idx)
		}
		idxVal, ok := state.pop()
		if !ok {
			return vm.fail(pc, state, diag.StackUnderflow, "ListDel on empty stack")
		}
		i := listIndex(idxVal)
		if i >= 0 && i < len(list) && idx >= 0 && idx < len(state.Lists) {
			state.Lists[idx] = append(list[:i], list[i+1:]...)
		}
		return nil

	case ListIns:
		idx := int(inst.ArgIndex())
		list, okList := vm.list(state, inst.ArgIndex())
		if !okList {
			return vm.fail(pc, state, diag.ListMissing, "ListIns on missing list %d", idx)
		}
		element, ok1 := state.pop()
		idxVal, ok2 := state.pop()
		if !ok1 || !ok2 {
			return vm.fail(pc, state, diag.StackUnderflow, "ListIns on empty stack")
		}
		i := listIndex(idxVal)
		if i >= 0 && i <= len(list) && idx >= 0 && idx < len(state.Lists) {
			grown := append(list, Value{})
			copy(grown[i+1:], grown[i:])
			grown[i] = element
			state.Lists[idx] = grown
		}
		return nil

	case ListDelAll:
		if _, ok := vm.list(state, inst.ArgIndex()); !ok {
			return vm.fail(pc, state, diag.ListMissing, "ListDelAll on missing list %d", inst.ArgIndex())
		}
		idx := int(inst.ArgIndex())
		if idx >= 0 && idx < len(state.Lists) {
			state.Lists[idx] = state.Lists[idx][:0]
		}
		return nil

	case ListReplace:
		list, okList := vm.list(state, inst.ArgIndex())
		if !okList {
			return vm.fail(pc, state, diag.ListMissing, "ListReplace on missing list %d", inst.ArgIndex())
		}
		element, ok1 := state.pop()
		idxVal, ok2 := state.pop()
		if !ok1 || !ok2 {
			return vm.fail(pc, state, diag.StackUnderflow, "ListReplace on empty stack")
		}
		i := listIndex(idxVal)
		if i >= 0 && i < len(list) {
			list[i] = element
		}
		return nil

	case ListPush:
		idx := int(inst.ArgIndex())
		if vm.safetyChecks && (idx < 0 || idx >= len(state.Lists)) {
			return vm.fail(pc, state, diag.ListMissing, "ListPush on missing list %d", idx)
		}
		element, ok := state.pop()
		if !ok {
			return vm.fail(pc, state, diag.StackUnderflow, "ListPush on empty stack")
		}
		if idx >= 0 && idx < len(state.Lists) {
			state.Lists[idx] = append(state.Lists[idx], element)
		}
		return nil

	case ListLoad:
		list, okList := vm.list(state, inst.ArgIndex())
		if !okList {
			return vm.fail(pc, state, diag.ListMissing, "ListLoad on missing list %d", inst.ArgIndex())
		}
		idxVal, ok := state.pop()
		if !ok {
			return vm.fail(pc, state, diag.StackUnderflow, "ListLoad on empty stack")
		}
		i := listIndex(idxVal)
		if i >= 0 && i < len(list) {
			state.push(list[i])
		} else {
			state.push(EmptyValue())
		}
		return nil

	case ListLen:
		list, okList := vm.list(state, inst.ArgIndex())
		if !okList {
			return vm.fail(pc, state, diag.ListMissing, "ListLen on missing list %d", inst.ArgIndex())
		}
		state.push(NumberValue(float64(len(list))))
		return nil

	case ListIFind:
		list, okList := vm.list(state, inst.ArgIndex())
		if !okList {
			return vm.fail(pc, state, diag.ListMissing, "ListIFind on missing list %d", inst.ArgIndex())
		}
		term, ok := state.pop()
		if !ok {
			return vm.fail(pc, state, diag.StackUnderflow, "ListIFind on empty stack")
		}
		state.push(NumberValue(float64(scratchFind(list, term.String()))))
		return nil

	case ListIIncludes:
		list, okList := vm.list(state, inst.ArgIndex())
		if !okList {
			return vm.fail(pc, state, diag.ListMissing, "ListIIncludes on missing list %d", inst.ArgIndex())
		}
		term, ok := state.pop()
		if !ok {
			return vm.fail(pc, state, diag.StackUnderflow, "ListIIncludes on empty stack")
		}
		state.push(BoolValue(scratchFind(list, term.String()) > 0))
		return nil

	case MonitorShowVar, MonitorHideVar, MonitorShowList, MonitorHideList:
		// Declared but runtime-opaque: the host observes these independently.
		return nil

	case Return:
		ctrl.earlyReturn(inst.Argument)
		return nil

	case StringIndexChar:
		idxVal, ok1 := state.pop()
		strVal, ok2 := state.pop()
		if !ok1 || !ok2 {
			return vm.fail(pc, state, diag.StackUnderflow, "StringIndexChar on empty stack")
		}
		state.push(stringIndexChar(vm.codePoints, strVal.String(), idxVal.Number()))
		return nil

	case StringLen:
		v, ok := state.pop()
		if !ok {
			return vm.fail(pc, state, diag.StackUnderflow, "StringLen on empty stack")
		}
		state.push(NumberValue(float64(stringLen(vm.codePoints, v.String()))))
		return nil

	case StringConcat:
		rhs, ok1 := state.pop()
		lhs, ok2 := state.pop()
		if !ok1 || !ok2 {
			return vm.fail(pc, state, diag.StackUnderflow, "StringConcat on empty stack")
		}
		state.push(StringValue(lhs.String() + rhs.String()))
		return nil

	case DataRand:
		maxVal, ok1 := state.pop()
		minVal, ok2 := state.pop()
		if !ok1 || !ok2 {
			return vm.fail(pc, state, diag.StackUnderflow, "DataRand on empty stack")
		}
		if vm.rand == nil {
			return vm.fail(pc, state, diag.EnvironmentUnsupported, "no random source configured")
		}
		result := sampleRand(vm.rand(), minVal.Number(), maxVal.Number(), inst.Argument > 0)
		state.push(NumberValue(result))
		return nil

	case DataDate:
		state.push(NumberValue(float64(vm.clock().Day())))
		return nil

	case DataWeekday:
		state.push(NumberValue(weekdayMondayOne(vm.clock())))
		return nil

	case DataDaysSince2000:
		state.push(NumberValue(daysSince2000(vm.clock())))
		return nil

	case DataHour:
		state.push(NumberValue(float64(vm.clock().Hour())))
		return nil

	case DataMinute:
		state.push(NumberValue(float64(vm.clock().Minute())))
		return nil

	case DataMonth:
		state.push(NumberValue(float64(vm.clock().Month())))
		return nil

	case DataSecond:
		state.push(NumberValue(float64(vm.clock().Second())))
		return nil

	case DataYear:
		state.push(NumberValue(float64(vm.clock().Year())))
		return nil

	default:
		return vm.fail(pc, state, diag.UnknownOpcode, "unknown opcode %#x", uint16(op))
	}
}
