package pipeline

import "github.com/sarchlab/pipesim/insts"

// HazardUnit resolves data hazards: it picks forwarding sources for
// the execute stage's two operands and flags load-use hazards at
// decode.
type HazardUnit struct{}

// NewHazardUnit creates a hazard detection unit.
func NewHazardUnit() *HazardUnit {
	return &HazardUnit{}
}

// forwardTarget reports the register that a latch holding instr J
// forwards its payload to; the value argument is not consulted. ok is
// false if J writes no register a later instruction could consume
// through normal forwarding.
func forwardTarget(instr insts.Instruction, value uint32) (reg uint8, ok bool) {
	switch instr.Opcode {
	case insts.MATH:
		if instr.Rd != 0 {
			return instr.Rd, true
		}
	case insts.LW, insts.ADDI, insts.BEQZ:
		if instr.Rt != 0 {
			return instr.Rt, true
		}
	}
	return 0, false
}

// ResolveOperand picks the value for a source register, honoring
// forwarding priority EX/MEM > MEM/WB > WB/END, falling back to the
// latched ID/EX value when no source forwards to it. isOperandB
// selects the write-after-write suppression and store-data forwarding
// rules that apply only to operand b.
func (h *HazardUnit) ResolveOperand(reg uint8, fallback uint32, currentInstr insts.Instruction, isOperandB bool, exmem EXMEMLatch, memwb MEMWBLatch, wbend WBENDLatch) uint32 {
	if reg == 0 {
		return 0
	}

	if isOperandB && currentInstr.Opcode == exmem.Instr.Opcode {
		// Write-after-write suppression: EX/MEM cannot forward to b.
	} else if r, ok := forwardTarget(exmem.Instr, exmem.ALUResult); ok && r == reg {
		return exmem.ALUResult
	}

	if r, ok := forwardTarget(memwb.Instr, memwb.WriteData); ok && r == reg {
		return memwb.WriteData
	}

	if r, ok := forwardTarget(wbend.Instr, wbend.WriteData); ok && r == reg {
		return wbend.WriteData
	}

	if isOperandB && wbend.Instr.Opcode == insts.SW && wbend.Instr.Rt != 0 && wbend.Instr.Rt == reg {
		return wbend.WriteData
	}

	return fallback
}

// readsRegisters reports which of rs/rt instr genuinely reads, for
// load-use hazard detection. MATH reads both; ADDI, LW, SW, and BEQZ
// read only rs; HALT and invalid words read neither.
func readsRegisters(instr insts.Instruction) (readsRs, readsRt bool) {
	switch instr.Opcode {
	case insts.MATH:
		return true, true
	case insts.ADDI, insts.LW, insts.SW, insts.BEQZ:
		return true, false
	default:
		return false, false
	}
}

// DetectLoadUseHazard reports whether decoding next while idex holds a
// load whose destination next is about to read requires a stall.
func (h *HazardUnit) DetectLoadUseHazard(idex IDEXLatch, next insts.Instruction) bool {
	if idex.Instr.Opcode != insts.LW || idex.Instr.Rt == 0 {
		return false
	}

	readsRs, readsRt := readsRegisters(next)
	if readsRs && next.Rs == idex.Instr.Rt {
		return true
	}
	if readsRt && next.Rt == idex.Instr.Rt {
		return true
	}
	return false
}
