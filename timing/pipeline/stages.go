package pipeline

import (
	"fmt"

	"github.com/sarchlab/pipesim/asmerr"
	"github.com/sarchlab/pipesim/emu"
	"github.com/sarchlab/pipesim/insts"
)

// FetchStage reads one word from instruction memory per cycle and
// applies the static branch predictor to BEQZ.
type FetchStage struct {
	memory *emu.Memory
}

// NewFetchStage creates a fetch stage over memory.
func NewFetchStage(memory *emu.Memory) *FetchStage {
	return &FetchStage{memory: memory}
}

// FetchResult is the outcome of one fetch.
type FetchResult struct {
	Instr      insts.Instruction
	PCNext     uint32
	PredictedPC uint32
}

// Fetch reads the word at pc and predicts the next pc. A forward BEQZ
// (non-negative immediate) predicts not-taken; a backward BEQZ
// predicts taken. The IF/ID latch always stores the un-biased
// pc_next = pc+4, regardless of prediction.
func (s *FetchStage) Fetch(pc uint32) FetchResult {
	word, err := s.memory.ReadWord(pc >> 2)
	if err != nil {
		word = 0 // out of range reads as data, decoded below as NOP-equivalent
	}

	instr := insts.Decode(word)
	pcNext := pc + 4

	predicted := pcNext
	if instr.Opcode == insts.BEQZ {
		sext := int32(insts.SignExtend16(instr.Imm16))
		if sext < 0 {
			predicted = uint32(int32(pcNext) + sext)
		}
	}

	return FetchResult{Instr: instr, PCNext: pcNext, PredictedPC: predicted}
}

// DecodeStage reads source registers and sign-extends the immediate.
type DecodeStage struct {
	regs *emu.RegFile
}

// NewDecodeStage creates a decode stage over regs.
func NewDecodeStage(regs *emu.RegFile) *DecodeStage {
	return &DecodeStage{regs: regs}
}

// Decode reads rs and rt from the register file and sign-extends imm16.
func (s *DecodeStage) Decode(instr insts.Instruction) (readRegA, readRegB, signExtImm uint32) {
	return s.regs.ReadReg(instr.Rs), s.regs.ReadReg(instr.Rt), insts.SignExtend16(instr.Imm16)
}

// ExecuteStage computes the ALU result and, for BEQZ, the actual
// branch outcome used to check the static prediction.
type ExecuteStage struct {
	alu *emu.ALU
}

// NewExecuteStage creates an execute stage.
func NewExecuteStage(alu *emu.ALU) *ExecuteStage {
	return &ExecuteStage{alu: alu}
}

// ExecuteResult is the outcome of one execute.
type ExecuteResult struct {
	ALUResult   uint32
	ReadReg     uint32
	Mispredict  bool
	ResolvedPC  uint32
}

// Execute computes alu_result and read_reg for idex given the already
// forwarding-resolved operands a and b, and resolves any BEQZ
// misprediction against the static prediction made at fetch.
func (s *ExecuteStage) Execute(idex IDEXLatch, a, b uint32) (ExecuteResult, error) {
	instr := idex.Instr

	if insts.IsData(instr.Word) {
		return ExecuteResult{}, nil
	}

	switch instr.Opcode {
	case insts.MATH:
		result := s.alu.Compute(instr.Func, a, b)
		return ExecuteResult{ALUResult: result, ReadReg: b}, nil

	case insts.LW:
		addr := a + idex.SignExtImm
		return ExecuteResult{ALUResult: addr, ReadReg: idex.ReadRegB}, nil

	case insts.SW:
		addr := a + idex.SignExtImm
		return ExecuteResult{ALUResult: addr, ReadReg: b}, nil

	case insts.ADDI:
		result := a + idex.SignExtImm
		return ExecuteResult{ALUResult: result, ReadReg: idex.ReadRegB}, nil

	case insts.BEQZ:
		target := idex.PCNext + idex.SignExtImm
		sext := int32(idex.SignExtImm)
		taken := a == 0
		res := ExecuteResult{ALUResult: target, ReadReg: idex.ReadRegB}

		switch {
		case sext > 0 && taken:
			// predicted not-taken, actually taken
			res.Mispredict = true
			res.ResolvedPC = target
		case sext < 0 && !taken:
			// predicted taken, actually not-taken
			res.Mispredict = true
			res.ResolvedPC = idex.PCNext
		}
		return res, nil

	case insts.HALT:
		return ExecuteResult{}, nil

	case insts.JALR:
		return ExecuteResult{}, &asmerr.UnimplementedOp{
			Msg: fmt.Sprintf("JALR at pc=%d has no execute-stage semantics defined", idex.PCNext-4),
		}

	default:
		return ExecuteResult{}, nil
	}
}

// MemoryStage performs the single LW/SW memory access the spec allows
// per cycle.
type MemoryStage struct {
	lsu *emu.LoadStoreUnit
}

// NewMemoryStage creates a memory stage over lsu.
func NewMemoryStage(lsu *emu.LoadStoreUnit) *MemoryStage {
	return &MemoryStage{lsu: lsu}
}

// Access performs the memory operation exmem.Instr specifies and
// returns the value staged into MEM/WB.
func (s *MemoryStage) Access(exmem EXMEMLatch) (uint32, error) {
	switch exmem.Instr.Opcode {
	case insts.LW:
		return s.lsu.Load(exmem.ALUResult)
	case insts.SW:
		if err := s.lsu.Store(exmem.ALUResult, exmem.ReadReg); err != nil {
			return 0, err
		}
		return exmem.ReadReg, nil
	default:
		return exmem.ALUResult, nil
	}
}

// WritebackStage commits the retiring instruction's result to the
// register file.
type WritebackStage struct {
	regs *emu.RegFile
}

// NewWritebackStage creates a writeback stage over regs.
func NewWritebackStage(regs *emu.RegFile) *WritebackStage {
	return &WritebackStage{regs: regs}
}

// Writeback writes memwb's result to its destination register, if any.
func (s *WritebackStage) Writeback(memwb MEMWBLatch) {
	switch memwb.Instr.Opcode {
	case insts.LW, insts.ADDI:
		s.regs.WriteReg(memwb.Instr.Rt, memwb.WriteData)
	case insts.MATH:
		s.regs.WriteReg(memwb.Instr.Rd, memwb.WriteData)
	}
	s.regs.R[0] = 0
}
