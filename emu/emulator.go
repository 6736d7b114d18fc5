package emu

import (
	"fmt"
	"io"

	"github.com/sarchlab/pipesim/asmerr"
	"github.com/sarchlab/pipesim/insts"
)

// StepResult reports the outcome of a single fetch-decode-execute
// cycle of the single-cycle emulator.
type StepResult struct {
	Halted bool
	Err    error
}

// Emulator is the single-cycle reference machine: one instruction
// fully completes (fetch through writeback) per Step call, with no
// pipelining, forwarding, or hazards. It exists as an oracle against
// which the timing-accurate pipeline's final register and memory state
// can be checked, and as the engine behind the simulator's -mode=single
// flag.
type Emulator struct {
	Regs     RegFile
	InstrMem *Memory
	DataMem  *Memory
	PC       uint32
	Cycles   uint64

	alu *ALU
	lsu *LoadStoreUnit

	trace io.Writer
}

// NewEmulator creates a single-cycle emulator over disjoint instruction
// and data memories, starting execution at word address 0.
func NewEmulator(instrMem, dataMem *Memory) *Emulator {
	return &Emulator{
		InstrMem: instrMem,
		DataMem:  dataMem,
		alu:      NewALU(),
		lsu:      NewLoadStoreUnit(dataMem),
	}
}

// WithTrace directs a block of printable state (pc and all registers)
// to w after every cycle,
// in the spirit of the reference interpreter's per-cycle state dump.
func (e *Emulator) WithTrace(w io.Writer) *Emulator {
	e.trace = w
	return e
}

// Step fetches, decodes, and fully executes one instruction.
func (e *Emulator) Step() StepResult {
	word, err := e.InstrMem.ReadWord(e.PC >> 2)
	if err != nil {
		return StepResult{Err: asmerr.AtCycle(e.Cycles, err)}
	}

	instr := insts.Decode(word)
	nextPC := e.PC + 4

	switch {
	case insts.IsData(word):
		// raw data word, or any opcode not defined above: retires as a NOP

	case instr.Opcode == insts.MATH:
		result := e.alu.Compute(instr.Func, e.Regs.ReadReg(instr.Rs), e.Regs.ReadReg(instr.Rt))
		e.Regs.WriteReg(instr.Rd, result)

	case instr.Opcode == insts.ADDI:
		result := e.alu.ComputeAddress(e.Regs.ReadReg(instr.Rs), instr.Imm16)
		e.Regs.WriteReg(instr.Rt, result)

	case instr.Opcode == insts.LW:
		addr := e.alu.ComputeAddress(e.Regs.ReadReg(instr.Rs), instr.Imm16)
		value, err := e.lsu.Load(addr)
		if err != nil {
			return StepResult{Err: asmerr.AtCycle(e.Cycles, err)}
		}
		e.Regs.WriteReg(instr.Rt, value)

	case instr.Opcode == insts.SW:
		addr := e.alu.ComputeAddress(e.Regs.ReadReg(instr.Rs), instr.Imm16)
		if err := e.lsu.Store(addr, e.Regs.ReadReg(instr.Rt)); err != nil {
			return StepResult{Err: asmerr.AtCycle(e.Cycles, err)}
		}

	case instr.Opcode == insts.BEQZ:
		if e.Regs.ReadReg(instr.Rs) == 0 {
			nextPC += insts.SignExtend16(instr.Imm16)
		}

	case instr.Opcode == insts.JALR:
		return StepResult{Err: asmerr.AtCycle(e.Cycles, &asmerr.UnimplementedOp{Msg: "JALR has no single-cycle semantics defined"})}

	case instr.Opcode == insts.HALT:
		e.printState()
		return StepResult{Halted: true}
	}

	e.PC = nextPC
	e.Regs.R[0] = 0
	e.printState()
	e.Cycles++

	return StepResult{}
}

// Run steps until HALT or an error, returning the number of
// instructions retired (HALT excluded, matching the reference
// interpreter's count).
func (e *Emulator) Run(maxCycles uint64) (uint64, error) {
	for maxCycles == 0 || e.Cycles < maxCycles {
		res := e.Step()
		if res.Err != nil {
			return e.Cycles, res.Err
		}
		if res.Halted {
			return e.Cycles, nil
		}
	}
	return e.Cycles, &asmerr.RangeError{Msg: fmt.Sprintf("exceeded max cycle budget of %d", maxCycles)}
}

func (e *Emulator) printState() {
	if e.trace == nil {
		return
	}
	fmt.Fprintf(e.trace, "state after cycle %d\n", e.Cycles)
	fmt.Fprintf(e.trace, "\tpc %d\n", e.PC)
	for i, v := range e.Regs.R {
		fmt.Fprintf(e.trace, "\treg[%d] %d\n", i, v)
	}
}
