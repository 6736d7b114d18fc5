package emu

import "github.com/sarchlab/pipesim/insts"

// ALU performs the arithmetic and logic operations the six MathFuncs
// define. All results wrap on overflow; the instruction set carries no
// condition flags.
type ALU struct{}

// NewALU returns a stateless ALU. It is a type (rather than a bare
// function) so the pipeline's execute stage and the single-cycle
// emulator share one code path for computing results.
func NewALU() *ALU {
	return &ALU{}
}

// Compute evaluates a MATH instruction given its two operand values.
func (a *ALU) Compute(fn insts.MathFunc, rsVal, rtVal uint32) uint32 {
	switch fn {
	case insts.FuncADD:
		return rsVal + rtVal
	case insts.FuncSUB:
		return rsVal - rtVal
	case insts.FuncAND:
		return rsVal & rtVal
	case insts.FuncOR:
		return rsVal | rtVal
	case insts.FuncSLL:
		return rsVal << (rtVal & 0x1F)
	case insts.FuncSRL:
		return rsVal >> (rtVal & 0x1F)
	default:
		return 0
	}
}

// ComputeAddress evaluates the effective address ADDI, LW, and SW all
// compute the same way: rs plus a sign-extended immediate. BEQZ's target
// is pc_next plus the immediate and is not computed here.
func (a *ALU) ComputeAddress(rsVal uint32, imm16 uint16) uint32 {
	return rsVal + insts.SignExtend16(imm16)
}
