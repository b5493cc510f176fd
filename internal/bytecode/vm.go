package bytecode

import (
	"io"
	"math/rand"
	"os"
	"time"
)

// Clock supplies wall-clock time for the Data* time opcodes.
type Clock func() time.Time

// RandSource supplies a uniform sample in [0,1) for DataRand. The source
// engine only had this available on its WASM target and errored
// everywhere else (EnvironmentUnsupported); this port always has a real
// one wired (math/rand by default) so the VM runs anywhere, while still
// letting a host inject its own for determinism or a platform RNG — see
// DESIGN.md's Open Questions.
type RandSource func() float64

// VM holds the configuration a run executes under: the safety_checks
// knob, flags preserving (or disabling) the source's two documented
// quirks, and the injectable clock/random source. A VM carries no
// per-run state — Run takes a *State explicitly — so one VM value can
// safely execute many chunks, including resuming a chunk that previously
// yielded.
type VM struct {
	safetyChecks    bool
	replicateDegBug bool
	codePoints      bool
	output          io.Writer
	clock           Clock
	rand            RandSource
}

// Option configures a VM at construction time.
type Option func(*VM)

// WithSafetyChecks toggles bounds-checking of constant/variable/list slot
// indices and the 200,000-element AllocList cap. On by default.
func WithSafetyChecks(enabled bool) Option {
	return func(vm *VM) { vm.safetyChecks = enabled }
}

// WithDegreesBugReplicated toggles whether UnaryLn/UnaryLog/UnaryEPow/
// Unary10Pow apply a degrees-to-radians conversion to their operand before
// the math, matching (likely accidental) source behavior. On by default
// for wire compatibility; a host that knows its compiler never relied on
// the bug can turn it off.
func WithDegreesBugReplicated(enabled bool) Option {
	return func(vm *VM) { vm.replicateDegBug = enabled }
}

// WithCodePointStrings switches StringLen/StringIndexChar from the
// source's raw byte offsets to Unicode code-point offsets.
func WithCodePointStrings(enabled bool) Option {
	return func(vm *VM) { vm.codePoints = enabled }
}

// WithOutput sets the VM's output writer. The VM itself never writes to
// it, and it is not readable back through the VM's API.
func WithOutput(w io.Writer) Option {
	return func(vm *VM) { vm.output = w }
}

// WithClock overrides the wall-clock source used by the Data* opcodes.
func WithClock(c Clock) Option {
	return func(vm *VM) { vm.clock = c }
}

// WithRandSource overrides the uniform random source used by DataRand.
func WithRandSource(r RandSource) Option {
	return func(vm *VM) { vm.rand = r }
}

// NewVM constructs a VM with safety checks and degrees-bug replication on,
// byte-offset strings, a real-time clock, and a math/rand-backed random
// source.
func NewVM(opts ...Option) *VM {
	vm := &VM{
		safetyChecks:    true,
		replicateDegBug: true,
		output:          os.Stdout,
		clock:           time.Now,
		rand:            rand.Float64,
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// NewVMWithOutput is shorthand for NewVM(WithOutput(output)).
func NewVMWithOutput(output io.Writer) *VM {
	return NewVM(WithOutput(output))
}

// controller bundles the two control-transfer hooks the executor uses
// instead of touching the program counter directly, in the Go shape of
// the source's captured mutable closures: a small struct with two
// methods, per the cleaner abstraction the design notes suggest.
type controller struct {
	pc       *int
	code     []Instruction
	returned bool
	reason   ReturnReason
}

func newController(state *State, code []Instruction) *controller {
	return &controller{pc: &state.PC, code: code}
}

// jump applies a signed offset to the PC (saturating on overflow), then
// reports whether the instruction now at PC is ExtraArg: if so its
// argument is returned and consumed=true. It never advances past the
// ExtraArg itself — the run loop's per-step PC++ does that.
func (c *controller) jump(offset int32) (arg uint32, consumed bool) {
	*c.pc = saturatingAddPC(*c.pc, offset)
	if *c.pc < 0 || *c.pc >= len(c.code) {
		return 0, false
	}
	if c.code[*c.pc].Op == ExtraArg {
		return c.code[*c.pc].Argument, true
	}
	return 0, false
}

// earlyReturn records that the run loop should stop after the current
// instruction, carrying the given reason code.
func (c *controller) earlyReturn(reason uint32) {
	c.returned = true
	c.reason = ReturnReason(reason)
}

func saturatingAddPC(pc int, offset int32) int {
	result := int64(pc) + int64(offset)
	if result < 0 {
		return 0
	}
	const maxPC = int64(^uint32(0) >> 1)
	if result > maxPC {
		return int(maxPC)
	}
	return int(result)
}

// RunResult reports how a Run call ended.
type RunResult struct {
	PC       int
	Reason   ReturnReason
	Returned bool
}

// Run executes chunk against state starting at state.PC, mutating the
// stack/variables/lists in place, until a Return opcode requests
// early-return or the instruction stream is exhausted. On error the
// partial state up to (and possibly including) the failing instruction's
// side effects is left as-is — the host must not resume a failed run.
//
// The PC advances by exactly 1 after every instruction except the one
// that triggers early-return: a Return leaves the PC parked on its own
// index rather than stepping past it, matching the worked example (PC
// lands on the Return instruction, not after it) — see DESIGN.md.
func (vm *VM) Run(chunk *Chunk, state *State) (*RunResult, error) {
	ctrl := newController(state, chunk.Code)
	for !ctrl.returned && state.PC < len(chunk.Code) {
		inst := chunk.Code[state.PC]
		if err := vm.step(inst, chunk, state, ctrl); err != nil {
			return nil, err
		}
		if !ctrl.returned {
			state.PC++
		}
	}
	return &RunResult{PC: state.PC, Reason: ctrl.reason, Returned: ctrl.returned}, nil
}
